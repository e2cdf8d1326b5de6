package coordinator

import (
	"context"
	game_constants "dtrivia/constants/game"
	"dtrivia/models"
	"dtrivia/models/postgres"
	redis_models "dtrivia/models/redis"
	"dtrivia/services/broadcast"
	"dtrivia/services/lock"
	"dtrivia/services/questionbank"
	"dtrivia/services/redis"
	"dtrivia/services/trivia"
	"errors"
	"fmt"
	"slices"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/cenkalti/backoff/v4"
	goredis "github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"
)

var testNow = time.Date(2026, 10, 18, 12, 0, 0, 0, time.UTC)

type fakeBank struct {
	mu        sync.Mutex
	questions []redis_models.Question
	failures  int // the next fetches that time out
	calls     int
}

func (b *fakeBank) FetchRandom(_ context.Context, excludeIDs []int64, excludeCategories []int64) (*redis_models.Question, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.calls++
	if b.failures > 0 {
		b.failures--
		return nil, fmt.Errorf("%w: context deadline exceeded", questionbank.ErrUnavailable)
	}
	for _, q := range b.questions {
		if slices.Contains(excludeIDs, q.ID) || slices.Contains(excludeCategories, q.CategoryID) {
			continue
		}
		q := q
		return &q, nil
	}
	return nil, nil
}

func newFakeBank(n int) *fakeBank {
	b := &fakeBank{}
	for i := 1; i <= n; i++ {
		b.questions = append(b.questions, redis_models.Question{
			ID:            int64(i),
			Question:      fmt.Sprintf("question %d?", i),
			Answers:       []string{"red", "green", "blue", "yellow"},
			CorrectAnswer: 1,
			CategoryID:    int64(i%2 + 1),
			CategoryName:  "Colors",
		})
	}
	return b
}

type fakeNames struct {
	names map[int64]string
	err   error
}

func (f *fakeNames) ResolveNames(_ context.Context, ids []int64) (map[int64]string, error) {
	if f.err != nil {
		return nil, f.err
	}
	out := make(map[int64]string)
	for _, id := range ids {
		if name, ok := f.names[id]; ok {
			out[id] = name
		}
	}
	return out, nil
}

type fakeRecorder struct {
	mu        sync.Mutex
	created   []string
	started   []string
	finished  []string
	winners   []int64
	cancelled []string
	createErr error
}

func (r *fakeRecorder) RecordCreated(_ context.Context, s *redis_models.GameSession) (*postgres.Game, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.createErr != nil {
		return nil, r.createErr
	}
	r.created = append(r.created, s.JoiningCode)
	return &postgres.Game{ID: int64(len(r.created)), JoiningCode: s.JoiningCode}, nil
}

func (r *fakeRecorder) RecordStarted(_ context.Context, s *redis_models.GameSession) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.started = append(r.started, s.JoiningCode)
	return nil
}

func (r *fakeRecorder) RecordFinished(_ context.Context, s *redis_models.GameSession, winner int64, _ bool) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.finished = append(r.finished, s.JoiningCode)
	r.winners = append(r.winners, winner)
	return nil
}

func (r *fakeRecorder) RecordCancelled(_ context.Context, joiningCode string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.cancelled = append(r.cancelled, joiningCode)
	return nil
}

// flakyStore fails the next saves with an unavailable error
type flakyStore struct {
	SessionStore
	failSaves atomic.Int32
}

func (f *flakyStore) SaveGameSession(ctx context.Context, s *redis_models.GameSession) error {
	if f.failSaves.Add(-1) >= 0 {
		return fmt.Errorf("error saving game session: %w: connection reset", redis.ErrUnavailable)
	}
	return f.SessionStore.SaveGameSession(ctx, s)
}

type fixture struct {
	coord    *Coordinator
	store    *redis.RedisClient
	flaky    *flakyStore
	fanout   *broadcast.Recorder
	recorder *fakeRecorder
	names    *fakeNames
	bank     *fakeBank
}

func newFixture(t *testing.T, questions int) *fixture {
	t.Helper()
	mr := miniredis.RunT(t)
	client := goredis.NewClient(&goredis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })

	f := &fixture{
		store:    redis.NewRedisClientFromClient(client, zaptest.NewLogger(t)),
		fanout:   &broadcast.Recorder{},
		recorder: &fakeRecorder{},
		names:    &fakeNames{names: map[int64]string{1: "alice", 2: "bob", 3: "carol", 4: "dave"}},
		bank:     newFakeBank(questions),
	}
	f.flaky = &flakyStore{SessionStore: f.store}

	var codes atomic.Int32
	f.coord = New(f.flaky, lock.NewKeyedMutex(), f.bank, f.names, f.fanout,
		WithRecorder(f.recorder),
		WithLogger(zaptest.NewLogger(t)),
		WithBackOff(func() backoff.BackOff { return backoff.NewConstantBackOff(time.Millisecond) }),
		WithClock(func() time.Time { return testNow }),
		WithCodeGenerator(func() string { return fmt.Sprintf("game-%d", codes.Add(1)) }),
	)
	return f
}

func (f *fixture) create(t *testing.T, host int64, maxPlayers, total int) string {
	t.Helper()
	s, err := f.coord.Create(context.Background(), host, models.GameCreation{
		MaxPlayers:     maxPlayers,
		TotalQuestions: total,
	})
	require.NoError(t, err)
	return s.JoiningCode
}

func (f *fixture) handle(typ, code string, actor int64) error {
	return f.coord.Handle(context.Background(), Event{Type: typ, JoiningCode: code, Actor: actor})
}

func (f *fixture) session(t *testing.T, code string) *redis_models.GameSession {
	t.Helper()
	s, err := f.store.GetGameSession(context.Background(), code)
	require.NoError(t, err)
	return s
}

func TestCreate(t *testing.T) {
	f := newFixture(t, 5)

	s, err := f.coord.Create(context.Background(), 1, models.GameCreation{MaxPlayers: 4, ExcludeCategories: []int64{2}})
	require.NoError(t, err)
	assert.Equal(t, "game-1", s.JoiningCode)
	assert.Equal(t, game_constants.DEFAULT_TOTAL_QUESTIONS, s.TotalQuestions)
	assert.Equal(t, []int64{1}, s.Players)
	assert.Equal(t, []int64{2}, s.ExcludeCategories)
	assert.Equal(t, []string{"game-1"}, f.recorder.created)
	assert.Equal(t, s, f.session(t, "game-1"))

	_, err = f.coord.Create(context.Background(), 1, models.GameCreation{MaxPlayers: 40})
	assert.ErrorIs(t, err, trivia.ErrInvalidSettings)
}

func TestCreateDrawsAnotherCode(t *testing.T) {
	f := newFixture(t, 5)
	codes := []string{"taken-code", "taken-code", "free-code"}
	f.coord.newCode = func() string {
		code := codes[0]
		codes = codes[1:]
		return code
	}

	first, err := f.coord.Create(context.Background(), 1, models.GameCreation{MaxPlayers: 2})
	require.NoError(t, err)
	second, err := f.coord.Create(context.Background(), 2, models.GameCreation{MaxPlayers: 2})
	require.NoError(t, err)

	assert.Equal(t, "taken-code", first.JoiningCode)
	assert.Equal(t, "free-code", second.JoiningCode)
	assert.Equal(t, int64(1), f.session(t, "taken-code").HostPlayer)
}

func TestCreateWithoutRecordRollsBack(t *testing.T) {
	f := newFixture(t, 5)
	f.recorder.createErr = errors.New("postgres down")

	_, err := f.coord.Create(context.Background(), 1, models.GameCreation{MaxPlayers: 2})
	assert.ErrorIs(t, err, ErrTryAgain)

	exists, err := f.store.Exists(context.Background(), "game-1")
	require.NoError(t, err)
	assert.False(t, exists)
}

func TestJoinUntilFull(t *testing.T) {
	f := newFixture(t, 5)
	code := f.create(t, 1, 2, 3)

	require.NoError(t, f.handle(game_constants.EVENT_JOIN, code, 2))
	msg, ok := f.fanout.Last(code, game_constants.EVENT_PLAYER_JOINED)
	require.True(t, ok)
	assert.Equal(t, RosterView{
		JoiningCode: code,
		Player:      models.PlayerInfo{ID: 2, Name: "bob"},
		Host:        models.PlayerInfo{ID: 1, Name: "alice"},
		Players:     []models.PlayerInfo{{ID: 1, Name: "alice"}, {ID: 2, Name: "bob"}},
		MaxPlayers:  2,
	}, msg.Payload)

	err := f.handle(game_constants.EVENT_JOIN, code, 3)
	assert.ErrorIs(t, err, trivia.ErrGameFull)
	errCode, _ := Describe(err)
	assert.Equal(t, CodeGameFull, errCode)

	assert.ErrorIs(t, f.handle(game_constants.EVENT_JOIN, code, 2), trivia.ErrAlreadyMember)
	assert.Len(t, f.fanout.Messages(), 1)
	assert.Equal(t, []int64{1, 2}, f.session(t, code).Players)
}

func TestConcurrentJoinForLastSlot(t *testing.T) {
	f := newFixture(t, 5)

	for round := 0; round < 20; round++ {
		code := f.create(t, 1, 3, 3)
		require.NoError(t, f.handle(game_constants.EVENT_JOIN, code, 2))

		var (
			wg       sync.WaitGroup
			joined   atomic.Int32
			rejected atomic.Int32
		)
		for _, player := range []int64{3, 4} {
			wg.Add(1)
			go func(player int64) {
				defer wg.Done()
				err := f.handle(game_constants.EVENT_JOIN, code, player)
				switch {
				case err == nil:
					joined.Add(1)
				case errors.Is(err, trivia.ErrGameFull):
					rejected.Add(1)
				default:
					t.Errorf("unexpected error: %v", err)
				}
			}(player)
		}
		wg.Wait()

		assert.Equal(t, int32(1), joined.Load())
		assert.Equal(t, int32(1), rejected.Load())
		assert.Len(t, f.session(t, code).Players, 3)
	}
}

func TestLeave(t *testing.T) {
	f := newFixture(t, 5)
	code := f.create(t, 1, 3, 3)
	require.NoError(t, f.handle(game_constants.EVENT_JOIN, code, 2))

	assert.ErrorIs(t, f.handle(game_constants.EVENT_LEAVE, code, 1), trivia.ErrHostCannotLeave)
	assert.ErrorIs(t, f.handle(game_constants.EVENT_LEAVE, code, 3), trivia.ErrNotMember)

	require.NoError(t, f.handle(game_constants.EVENT_LEAVE, code, 2))
	msg, ok := f.fanout.Last(code, game_constants.EVENT_PLAYER_LEFT)
	require.True(t, ok)
	view := msg.Payload.(RosterView)
	assert.Equal(t, int64(2), view.Player.ID)
	assert.Equal(t, []models.PlayerInfo{{ID: 1, Name: "alice"}}, view.Players)
}

func TestLeaveAfterStart(t *testing.T) {
	f := newFixture(t, 5)
	code := f.create(t, 1, 3, 3)
	require.NoError(t, f.handle(game_constants.EVENT_JOIN, code, 2))
	require.NoError(t, f.handle(game_constants.EVENT_START, code, 1))
	f.fanout.Reset()

	err := f.handle(game_constants.EVENT_LEAVE, code, 2)
	assert.ErrorIs(t, err, trivia.ErrAlreadyStarted)
	assert.Equal(t, []int64{1, 2}, f.session(t, code).Players)
	assert.Empty(t, f.fanout.Messages())
}

func TestEnterGameSignalsReadyOnce(t *testing.T) {
	f := newFixture(t, 5)
	code := f.create(t, 1, 3, 3)
	require.NoError(t, f.handle(game_constants.EVENT_JOIN, code, 2))
	f.fanout.Reset()

	require.NoError(t, f.handle(game_constants.EVENT_ENTER_GAME, code, 1))
	assert.Empty(t, f.fanout.Events(code))

	require.NoError(t, f.handle(game_constants.EVENT_ENTER_GAME, code, 2))
	require.NoError(t, f.handle(game_constants.EVENT_ENTER_GAME, code, 2))
	assert.Equal(t, []string{game_constants.EVENT_PLAYERS_READY}, f.fanout.Events(code))

	assert.ErrorIs(t, f.handle(game_constants.EVENT_ENTER_GAME, code, 3), trivia.ErrNotMember)
}

func TestStart(t *testing.T) {
	f := newFixture(t, 5)
	code := f.create(t, 1, 2, 3)
	require.NoError(t, f.handle(game_constants.EVENT_JOIN, code, 2))

	err := f.handle(game_constants.EVENT_START, code, 2)
	assert.ErrorIs(t, err, trivia.ErrNotHost)
	assert.False(t, f.session(t, code).IsStarted)

	require.NoError(t, f.handle(game_constants.EVENT_START, code, 1))
	assert.True(t, f.session(t, code).IsStarted)
	msg, ok := f.fanout.Last(code, game_constants.EVENT_GAME_STARTED)
	require.True(t, ok)
	assert.Equal(t, 3, msg.Payload.(StartedView).TotalQuestions)
	assert.Equal(t, []string{code}, f.recorder.started)

	assert.ErrorIs(t, f.handle(game_constants.EVENT_START, code, 1), trivia.ErrAlreadyStarted)
	assert.ErrorIs(t, f.handle(game_constants.EVENT_JOIN, code, 3), trivia.ErrAlreadyStarted)
}

func TestFullGame(t *testing.T) {
	f := newFixture(t, 5)
	code := f.create(t, 1, 2, 2)
	require.NoError(t, f.handle(game_constants.EVENT_JOIN, code, 2))
	require.NoError(t, f.handle(game_constants.EVENT_START, code, 1))

	ctx := context.Background()
	for round := 1; round <= 2; round++ {
		require.NoError(t, f.handle(game_constants.EVENT_NEXT_QUESTION, code, 1))
		msg, ok := f.fanout.Last(code, game_constants.EVENT_QUESTION)
		require.True(t, ok)
		view := msg.Payload.(QuestionView)
		assert.Equal(t, round, view.Number)
		assert.Equal(t, 2, view.TotalQuestions)
		assert.Equal(t, int64(round), view.QuestionID)
		assert.ElementsMatch(t, []string{"red", "green", "blue", "yellow"}, view.Answers)
		assert.Equal(t, testNow, *view.StartedAt)

		require.NoError(t, f.coord.Handle(ctx, Event{
			Type: game_constants.EVENT_ANSWER, JoiningCode: code, Actor: 2, Answer: "green", TimeLeft: 7.9,
		}))
		require.NoError(t, f.coord.Handle(ctx, Event{
			Type: game_constants.EVENT_ANSWER, JoiningCode: code, Actor: 1, Answer: "red", TimeLeft: 9,
		}))
	}

	s := f.session(t, code)
	assert.True(t, s.IsFinished)
	assert.Len(t, s.UsedQuestions, 2)
	assert.Equal(t, map[int64]int{1: 0, 2: 14}, s.CurrentScores)
	assert.Empty(t, f.recorder.finished)

	require.NoError(t, f.handle(game_constants.EVENT_NEXT_QUESTION, code, 1))
	msg, ok := f.fanout.Last(code, game_constants.EVENT_END)
	require.True(t, ok)
	assert.Equal(t, EndView{
		JoiningCode: code,
		Reason:      EndAllQuestionsServed,
		Winner:      &models.PlayerInfo{ID: 2, Name: "bob"},
		Scores: []ScoreLine{
			{ID: 2, Name: "bob", Score: 14},
			{ID: 1, Name: "alice", Score: 0},
		},
	}, msg.Payload)
	assert.Equal(t, []string{code}, f.recorder.finished)
	assert.Equal(t, []int64{2}, f.recorder.winners)
	assert.Len(t, f.session(t, code).UsedQuestions, 2)
}

func TestCatalogExhausted(t *testing.T) {
	f := newFixture(t, 1)
	code := f.create(t, 1, 2, 5)
	require.NoError(t, f.handle(game_constants.EVENT_START, code, 1))

	require.NoError(t, f.handle(game_constants.EVENT_NEXT_QUESTION, code, 1))
	require.NoError(t, f.handle(game_constants.EVENT_NEXT_QUESTION, code, 1))

	assert.Equal(t, []string{
		game_constants.EVENT_GAME_STARTED,
		game_constants.EVENT_QUESTION,
		game_constants.EVENT_END,
	}, f.fanout.Events(code))
	msg, _ := f.fanout.Last(code, game_constants.EVENT_END)
	assert.Equal(t, EndCatalogExhausted, msg.Payload.(EndView).Reason)
	assert.True(t, f.session(t, code).IsFinished)
}

func TestNextQuestionNeedsMembership(t *testing.T) {
	f := newFixture(t, 5)
	code := f.create(t, 1, 2, 5)
	require.NoError(t, f.handle(game_constants.EVENT_START, code, 1))

	assert.ErrorIs(t, f.handle(game_constants.EVENT_NEXT_QUESTION, code, 9), trivia.ErrNotMember)
	assert.Nil(t, f.session(t, code).CurrentQuestion)
}

func TestNextQuestionBeforeStart(t *testing.T) {
	f := newFixture(t, 5)
	code := f.create(t, 1, 3, 2)
	require.NoError(t, f.handle(game_constants.EVENT_JOIN, code, 2))
	f.fanout.Reset()

	for i := 0; i < 3; i++ {
		err := f.handle(game_constants.EVENT_NEXT_QUESTION, code, 1)
		assert.ErrorIs(t, err, trivia.ErrNotStarted)
		errCode, _ := Describe(err)
		assert.Equal(t, CodeNotStarted, errCode)
	}

	s := f.session(t, code)
	assert.False(t, s.IsStarted)
	assert.False(t, s.IsFinished)
	assert.Empty(t, s.UsedQuestions)
	assert.Empty(t, f.fanout.Messages())
	assert.Zero(t, f.bank.calls)
	assert.Empty(t, f.recorder.finished)
}

func TestRetriesOnceOnBankFailure(t *testing.T) {
	f := newFixture(t, 5)
	code := f.create(t, 1, 3, 5)
	require.NoError(t, f.handle(game_constants.EVENT_START, code, 1))

	f.bank.failures = 1
	require.NoError(t, f.handle(game_constants.EVENT_NEXT_QUESTION, code, 1))

	assert.Equal(t, 2, f.bank.calls)
	assert.Len(t, f.session(t, code).UsedQuestions, 1)
	assert.Equal(t, []string{game_constants.EVENT_GAME_STARTED, game_constants.EVENT_QUESTION}, f.fanout.Events(code))
}

func TestGivesUpAfterRepeatedBankFailure(t *testing.T) {
	f := newFixture(t, 5)
	code := f.create(t, 1, 3, 5)
	require.NoError(t, f.handle(game_constants.EVENT_START, code, 1))

	f.bank.failures = 2
	err := f.handle(game_constants.EVENT_NEXT_QUESTION, code, 1)
	assert.ErrorIs(t, err, ErrTryAgain)
	errCode, message := Describe(err)
	assert.Equal(t, CodeTryAgain, errCode)
	assert.NotContains(t, message, "deadline")

	s := f.session(t, code)
	assert.Empty(t, s.UsedQuestions)
	assert.Nil(t, s.CurrentQuestion)
	assert.False(t, s.IsFinished)
	assert.Equal(t, []string{game_constants.EVENT_GAME_STARTED}, f.fanout.Events(code))
	assert.Empty(t, f.recorder.finished)
}

func TestRequestAnswerAndScores(t *testing.T) {
	f := newFixture(t, 5)
	code := f.create(t, 1, 3, 5)
	require.NoError(t, f.handle(game_constants.EVENT_JOIN, code, 3))

	err := f.handle(game_constants.EVENT_REQUEST_ANSWER, code, 1)
	assert.ErrorIs(t, err, trivia.ErrNoCurrentQuestion)

	require.NoError(t, f.handle(game_constants.EVENT_START, code, 1))
	require.NoError(t, f.handle(game_constants.EVENT_NEXT_QUESTION, code, 1))
	require.NoError(t, f.handle(game_constants.EVENT_REQUEST_ANSWER, code, 3))
	msg, ok := f.fanout.Last(code, game_constants.EVENT_CORRECT_ANSWER)
	require.True(t, ok)
	assert.Equal(t, CorrectAnswerView{JoiningCode: code, QuestionID: 1, Answer: "green"}, msg.Payload)

	require.NoError(t, f.coord.Handle(context.Background(), Event{
		Type: game_constants.EVENT_ANSWER, JoiningCode: code, Actor: 3, Answer: "green", TimeLeft: 15,
	}))
	require.NoError(t, f.handle(game_constants.EVENT_REQUEST_SCORES, code, 1))
	msg, ok = f.fanout.Last(code, game_constants.EVENT_SCORES)
	require.True(t, ok)
	assert.Equal(t, ScoresView{JoiningCode: code, Scores: []ScoreLine{
		{ID: 3, Name: "carol", Score: 10},
		{ID: 1, Name: "alice", Score: 0},
	}}, msg.Payload)

	assert.ErrorIs(t, f.handle(game_constants.EVENT_REQUEST_SCORES, code, 4), trivia.ErrNotMember)
}

func TestCancel(t *testing.T) {
	f := newFixture(t, 5)
	code := f.create(t, 1, 3, 5)
	require.NoError(t, f.handle(game_constants.EVENT_JOIN, code, 2))
	require.NoError(t, f.handle(game_constants.EVENT_START, code, 1))

	assert.ErrorIs(t, f.handle(game_constants.EVENT_CANCEL, code, 2), trivia.ErrNotHost)

	require.NoError(t, f.handle(game_constants.EVENT_CANCEL, code, 1))
	msg, ok := f.fanout.Last(code, game_constants.EVENT_GAME_CANCELLED)
	require.True(t, ok)
	assert.Equal(t, CancelledView{JoiningCode: code}, msg.Payload)
	assert.Equal(t, []string{code}, f.recorder.cancelled)

	_, err := f.store.GetGameSession(context.Background(), code)
	assert.ErrorIs(t, err, redis.ErrSessionNotFound)

	err = f.handle(game_constants.EVENT_NEXT_QUESTION, code, 1)
	assert.ErrorIs(t, err, ErrGameNotFound)
	errCode, message := Describe(err)
	assert.Equal(t, CodeGameNotFound, errCode)
	assert.Equal(t, "game no longer exists", message)
}

func TestMissingGame(t *testing.T) {
	f := newFixture(t, 5)
	for _, typ := range []string{
		game_constants.EVENT_JOIN,
		game_constants.EVENT_LEAVE,
		game_constants.EVENT_START,
		game_constants.EVENT_CANCEL,
		game_constants.EVENT_NEXT_QUESTION,
		game_constants.EVENT_ANSWER,
		game_constants.EVENT_REQUEST_ANSWER,
		game_constants.EVENT_REQUEST_SCORES,
		game_constants.EVENT_ENTER_GAME,
	} {
		assert.ErrorIs(t, f.handle(typ, "no-such-game", 1), ErrGameNotFound, typ)
	}
	assert.Empty(t, f.fanout.Messages())
}

func TestInvalidEvent(t *testing.T) {
	f := newFixture(t, 5)

	err := f.handle("dance", "game-1", 1)
	assert.ErrorIs(t, err, ErrInvalidEvent)
	err = f.handle(game_constants.EVENT_JOIN, "", 1)
	assert.ErrorIs(t, err, ErrInvalidEvent)
	errCode, _ := Describe(err)
	assert.Equal(t, CodeInvalidEvent, errCode)
}

func TestRetriesOnceOnStoreFailure(t *testing.T) {
	f := newFixture(t, 5)
	code := f.create(t, 1, 3, 5)

	f.flaky.failSaves.Store(1)
	require.NoError(t, f.handle(game_constants.EVENT_JOIN, code, 2))
	assert.Equal(t, []int64{1, 2}, f.session(t, code).Players)
	assert.Len(t, f.fanout.Events(code), 1)
}

func TestGivesUpAfterRepeatedStoreFailure(t *testing.T) {
	f := newFixture(t, 5)
	code := f.create(t, 1, 3, 5)

	f.flaky.failSaves.Store(2)
	err := f.handle(game_constants.EVENT_JOIN, code, 2)
	assert.ErrorIs(t, err, ErrTryAgain)
	errCode, message := Describe(err)
	assert.Equal(t, CodeTryAgain, errCode)
	assert.NotContains(t, message, "connection reset")

	assert.Equal(t, []int64{1}, f.session(t, code).Players)
	assert.Empty(t, f.fanout.Messages())
}

func TestNamesFallBack(t *testing.T) {
	f := newFixture(t, 5)
	f.names.err = errors.New("directory down")
	code := f.create(t, 1, 3, 5)

	require.NoError(t, f.handle(game_constants.EVENT_JOIN, code, 2))
	msg, _ := f.fanout.Last(code, game_constants.EVENT_PLAYER_JOINED)
	view := msg.Payload.(RosterView)
	assert.Equal(t, "player-2", view.Player.Name)
	assert.Equal(t, "player-1", view.Host.Name)
	assert.Equal(t, []int64{1, 2}, f.session(t, code).Players)
}

func TestGetAndList(t *testing.T) {
	f := newFixture(t, 5)
	first := f.create(t, 1, 3, 5)
	second := f.create(t, 3, 2, 5)
	require.NoError(t, f.handle(game_constants.EVENT_JOIN, first, 2))

	summary, err := f.coord.Get(context.Background(), first)
	require.NoError(t, err)
	assert.Equal(t, models.PlayerInfo{ID: 1, Name: "alice"}, summary.Host)
	assert.Len(t, summary.Players, 2)
	assert.False(t, summary.IsFull)

	_, err = f.coord.Get(context.Background(), "no-such-game")
	assert.ErrorIs(t, err, ErrGameNotFound)

	summaries, err := f.coord.List(context.Background())
	require.NoError(t, err)
	require.Len(t, summaries, 2)
	assert.Equal(t, first, summaries[0].JoiningCode)
	assert.Equal(t, second, summaries[1].JoiningCode)
	assert.Equal(t, "carol", summaries[1].Host.Name)
}

func TestDescribe(t *testing.T) {
	code, message := Describe(fmt.Errorf("wrapped: %w", trivia.ErrNotHost))
	assert.Equal(t, CodeNotHost, code)
	assert.Equal(t, trivia.ErrNotHost.Error(), message)

	code, message = Describe(errors.New("boom"))
	assert.Equal(t, CodeInternal, code)
	assert.Equal(t, "internal error", message)
}
