package redis

import (
	"context"
	redis_models "dtrivia/models/redis"
	redis_utils "dtrivia/services/redis/utils"
	"sync"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"
)

func newTestClient(t *testing.T) (*RedisClient, *miniredis.Miniredis) {
	t.Helper()
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })
	return NewRedisClientFromClient(client, zaptest.NewLogger(t)), mr
}

func testSession(code string) *redis_models.GameSession {
	return &redis_models.GameSession{
		JoiningCode:       code,
		MaxPlayers:        4,
		HostPlayer:        1,
		Players:           []int64{1, 2},
		InGamePlayers:     []int64{},
		UsedQuestions:     []redis_models.Question{},
		CurrentScores:     map[int64]int{1: 0, 2: 3},
		AnsweredPlayers:   []int64{},
		TotalQuestions:    5,
		ExcludeCategories: []int64{},
		CreatedAt:         time.Date(2026, 1, 2, 3, 4, 5, 0, time.UTC),
	}
}

func TestGameSessionOperations(t *testing.T) {
	rc, mr := newTestClient(t)
	ctx := context.Background()

	t.Run("Save and get", func(t *testing.T) {
		session := testSession("brave-curie")
		require.NoError(t, rc.SaveGameSession(ctx, session))

		got, err := rc.GetGameSession(ctx, "brave-curie")
		require.NoError(t, err)
		assert.Equal(t, session, got)

		exists, err := rc.Exists(ctx, "brave-curie")
		require.NoError(t, err)
		assert.True(t, exists)
	})

	t.Run("Save refreshes TTL", func(t *testing.T) {
		session := testSession("calm-hopper")
		require.NoError(t, rc.SaveGameSession(ctx, session))
		key := redis_utils.FormatGameSessionKey("calm-hopper")
		assert.Equal(t, time.Hour, mr.TTL(key))

		mr.FastForward(40 * time.Minute)
		require.NoError(t, rc.SaveGameSession(ctx, session))
		assert.Equal(t, time.Hour, mr.TTL(key))

		mr.FastForward(61 * time.Minute)
		_, err := rc.GetGameSession(ctx, "calm-hopper")
		assert.ErrorIs(t, err, ErrSessionNotFound)
	})

	t.Run("Missing session", func(t *testing.T) {
		_, err := rc.GetGameSession(ctx, "missing-code")
		assert.ErrorIs(t, err, ErrSessionNotFound)
		assert.False(t, IsRetryable(err))

		exists, err := rc.Exists(ctx, "missing-code")
		require.NoError(t, err)
		assert.False(t, exists)

		assert.ErrorIs(t, rc.DeleteGameSession(ctx, "missing-code"), ErrSessionNotFound)
	})

	t.Run("Delete", func(t *testing.T) {
		require.NoError(t, rc.SaveGameSession(ctx, testSession("eager-lovelace")))
		require.NoError(t, rc.DeleteGameSession(ctx, "eager-lovelace"))
		_, err := rc.GetGameSession(ctx, "eager-lovelace")
		assert.ErrorIs(t, err, ErrSessionNotFound)
	})

	t.Run("Create only once", func(t *testing.T) {
		ok, err := rc.CreateGameSession(ctx, testSession("happy-noether"))
		require.NoError(t, err)
		assert.True(t, ok)

		ok, err = rc.CreateGameSession(ctx, testSession("happy-noether"))
		require.NoError(t, err)
		assert.False(t, ok)
	})

	t.Run("Corrupt value", func(t *testing.T) {
		require.NoError(t, mr.Set(redis_utils.FormatGameSessionKey("broken-code"), "{not json"))
		_, err := rc.GetGameSession(ctx, "broken-code")
		assert.ErrorIs(t, err, ErrCorruptSession)
	})
}

func TestListActiveSessions(t *testing.T) {
	rc, mr := newTestClient(t)
	ctx := context.Background()

	codes, err := rc.ListActiveSessions(ctx)
	require.NoError(t, err)
	assert.Empty(t, codes)

	for _, code := range []string{"zen-tesla", "bold-darwin", "kind-euler"} {
		require.NoError(t, rc.SaveGameSession(ctx, testSession(code)))
	}
	require.NoError(t, mr.Set(redis_utils.FormatGameSessionLockKey("bold-darwin"), "token"))
	require.NoError(t, mr.Set("rooms:other", "x"))

	codes, err = rc.ListActiveSessions(ctx)
	require.NoError(t, err)
	assert.Equal(t, []string{"bold-darwin", "kind-euler", "zen-tesla"}, codes)
}

func TestUnavailable(t *testing.T) {
	rc, mr := newTestClient(t)
	ctx := context.Background()
	mr.SetError("ERR store offline")

	_, err := rc.GetGameSession(ctx, "any-code")
	assert.ErrorIs(t, err, ErrUnavailable)
	assert.NotErrorIs(t, err, ErrSessionNotFound)
	assert.True(t, IsRetryable(err))

	assert.ErrorIs(t, rc.SaveGameSession(ctx, testSession("any-code")), ErrUnavailable)
	assert.ErrorIs(t, rc.DeleteGameSession(ctx, "any-code"), ErrUnavailable)
	_, err = rc.Exists(ctx, "any-code")
	assert.ErrorIs(t, err, ErrUnavailable)
	_, err = rc.ListActiveSessions(ctx)
	assert.ErrorIs(t, err, ErrUnavailable)
	assert.ErrorIs(t, rc.Ping(ctx), ErrUnavailable)
}

func TestSessionLock(t *testing.T) {
	rc, mr := newTestClient(t)
	lock := rc.NewSessionLock(time.Second)
	ctx := context.Background()

	unlock, err := lock.Lock(ctx, "brave-curie")
	require.NoError(t, err)
	assert.True(t, mr.Exists(redis_utils.FormatGameSessionLockKey("brave-curie")))

	// another code is not blocked
	unlockOther, err := lock.Lock(ctx, "calm-hopper")
	require.NoError(t, err)
	unlockOther()

	// the same code waits until the context gives up
	waitCtx, cancel := context.WithTimeout(ctx, 80*time.Millisecond)
	defer cancel()
	_, err = lock.Lock(waitCtx, "brave-curie")
	assert.ErrorIs(t, err, ErrLockTimeout)
	assert.True(t, IsRetryable(err))

	unlock()
	assert.False(t, mr.Exists(redis_utils.FormatGameSessionLockKey("brave-curie")))

	unlock, err = lock.Lock(ctx, "brave-curie")
	require.NoError(t, err)
	unlock()
}

func TestSessionLockReleaseKeepsForeignToken(t *testing.T) {
	rc, mr := newTestClient(t)
	lock := rc.NewSessionLock(time.Second)
	key := redis_utils.FormatGameSessionLockKey("brave-curie")

	unlock, err := lock.Lock(context.Background(), "brave-curie")
	require.NoError(t, err)

	// the lock expired and another instance took it
	require.NoError(t, mr.Set(key, "someone-else"))
	unlock()

	got, err := mr.Get(key)
	require.NoError(t, err)
	assert.Equal(t, "someone-else", got)
}

func TestSessionLockExcludes(t *testing.T) {
	rc, _ := newTestClient(t)
	lock := rc.NewSessionLock(5 * time.Second)
	ctx := context.Background()

	var (
		mu      sync.Mutex
		holders int
		maxSeen int
		wg      sync.WaitGroup
	)
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			unlock, err := lock.Lock(ctx, "busy-code")
			if !assert.NoError(t, err) {
				return
			}
			mu.Lock()
			holders++
			maxSeen = max(maxSeen, holders)
			mu.Unlock()

			time.Sleep(2 * time.Millisecond)

			mu.Lock()
			holders--
			mu.Unlock()
			unlock()
		}()
	}
	wg.Wait()
	assert.Equal(t, 1, maxSeen)
}

func TestRoomRelay(t *testing.T) {
	rc, _ := newTestClient(t)
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	ready := make(chan struct{})
	received := make(chan redis_models.RoomMessage, 1)
	done := make(chan error, 1)
	go func() {
		done <- rc.SubscribeRoomMessages(ctx, ready, func(msg redis_models.RoomMessage) {
			received <- msg
		})
	}()
	<-ready

	sent := &redis_models.RoomMessage{
		Origin:  "instance-a",
		Room:    "brave-curie",
		Event:   "scores",
		Payload: []byte(`{"scores":[]}`),
	}
	require.NoError(t, rc.PublishRoomMessage(ctx, sent))

	select {
	case msg := <-received:
		assert.Equal(t, *sent, msg)
	case <-time.After(2 * time.Second):
		t.Fatal("room message not relayed")
	}

	cancel()
	assert.NoError(t, <-done)
}

func TestParseGameSessionKey(t *testing.T) {
	code, ok := redis_utils.ParseGameSessionKey("games:brave-curie")
	assert.True(t, ok)
	assert.Equal(t, "brave-curie", code)

	_, ok = redis_utils.ParseGameSessionKey("games:brave-curie:lock")
	assert.False(t, ok)
	_, ok = redis_utils.ParseGameSessionKey("lobby:brave-curie")
	assert.False(t, ok)
	_, ok = redis_utils.ParseGameSessionKey("games:")
	assert.False(t, ok)
}
