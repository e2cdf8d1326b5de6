// Package coordinator drives game sessions from client events.
//
// Every event runs as one transaction on its joining code: take the per-code
// lock, load the session, apply one transition, save, release the lock. Only
// then is the derived view broadcast to the room. A rejected or failed
// transition saves and broadcasts nothing.
package coordinator

import (
	"context"
	game_constants "dtrivia/constants/game"
	"dtrivia/models/postgres"
	redis_models "dtrivia/models/redis"
	"dtrivia/services/broadcast"
	"dtrivia/services/lock"
	"dtrivia/services/redis"
	"dtrivia/services/trivia"
	dsync "dtrivia/sync"
	"errors"
	"fmt"
	"math/rand/v2"
	"slices"
	"strconv"
	"time"

	"github.com/cenkalti/backoff/v4"
	"go.uber.org/zap"
)

// SessionStore is the shared storage of live sessions
type SessionStore interface {
	GetGameSession(ctx context.Context, joiningCode string) (*redis_models.GameSession, error)
	SaveGameSession(ctx context.Context, session *redis_models.GameSession) error
	CreateGameSession(ctx context.Context, session *redis_models.GameSession) (bool, error)
	DeleteGameSession(ctx context.Context, joiningCode string) error
	ListActiveSessions(ctx context.Context) ([]string, error)
}

// NameResolver translates player ids into display names
type NameResolver interface {
	ResolveNames(ctx context.Context, ids []int64) (map[int64]string, error)
}

// MatchRecorder keeps the durable match record in step with the session
type MatchRecorder interface {
	RecordCreated(ctx context.Context, session *redis_models.GameSession) (*postgres.Game, error)
	RecordStarted(ctx context.Context, session *redis_models.GameSession) error
	RecordFinished(ctx context.Context, session *redis_models.GameSession, winner int64, hasWinner bool) error
	RecordCancelled(ctx context.Context, joiningCode string) error
}

const (
	defaultNameTimeout = 500 * time.Millisecond
	recordTimeout      = 5 * time.Second
	maxCodeAttempts    = 5
)

type Coordinator struct {
	store     SessionStore
	locker    lock.Locker
	questions trivia.QuestionSource
	names     NameResolver
	recorder  MatchRecorder
	fanout    broadcast.Broadcaster
	logger    *zap.Logger

	nameTimeout time.Duration
	newBackOff  func() backoff.BackOff
	now         func() time.Time
	shuffle     func(n int, swap func(i, j int))
	newCode     func() string
}

type Option func(*Coordinator)

// WithRecorder keeps the durable match record up to date
func WithRecorder(r MatchRecorder) Option {
	return func(c *Coordinator) { c.recorder = r }
}

func WithLogger(l *zap.Logger) Option {
	return func(c *Coordinator) { c.logger = l }
}

// WithNameTimeout bounds the name lookup done for each broadcast
func WithNameTimeout(d time.Duration) Option {
	return func(c *Coordinator) {
		if d > 0 {
			c.nameTimeout = d
		}
	}
}

// WithBackOff sets the policy between the first attempt and the retry of a
// transaction that hit an infrastructure error
func WithBackOff(newBackOff func() backoff.BackOff) Option {
	return func(c *Coordinator) { c.newBackOff = newBackOff }
}

func WithClock(now func() time.Time) Option {
	return func(c *Coordinator) { c.now = now }
}

// WithShuffle replaces the shuffling of answers in question views
func WithShuffle(shuffle func(n int, swap func(i, j int))) Option {
	return func(c *Coordinator) { c.shuffle = shuffle }
}

// WithCodeGenerator replaces the joining code generator
func WithCodeGenerator(newCode func() string) Option {
	return func(c *Coordinator) { c.newCode = newCode }
}

func New(store SessionStore, locker lock.Locker, questions trivia.QuestionSource, names NameResolver,
	fanout broadcast.Broadcaster, opts ...Option) *Coordinator {

	c := &Coordinator{
		store:       store,
		locker:      locker,
		questions:   questions,
		names:       names,
		fanout:      fanout,
		logger:      zap.NewNop(),
		nameTimeout: defaultNameTimeout,
		newBackOff: func() backoff.BackOff {
			b := backoff.NewExponentialBackOff()
			b.InitialInterval = 50 * time.Millisecond
			return b
		},
		now:     func() time.Time { return time.Now().UTC() },
		shuffle: rand.Shuffle,
		newCode: trivia.GenerateJoiningCode,
	}
	for _, opt := range opts {
		opt(c)
	}
	c.logger = c.logger.Named("coordinator")
	return c
}

// Handle applies one client event. The returned error is meant for the
// client that sent the event, see Describe.
func (c *Coordinator) Handle(ctx context.Context, ev Event) error {
	if err := ev.validate(); err != nil {
		return err
	}

	switch ev.Type {
	case game_constants.EVENT_JOIN:
		return c.join(ctx, ev)
	case game_constants.EVENT_LEAVE:
		return c.leave(ctx, ev)
	case game_constants.EVENT_ENTER_GAME:
		return c.enterGame(ctx, ev)
	case game_constants.EVENT_START:
		return c.start(ctx, ev)
	case game_constants.EVENT_CANCEL:
		return c.cancel(ctx, ev)
	case game_constants.EVENT_NEXT_QUESTION:
		return c.nextQuestion(ctx, ev)
	case game_constants.EVENT_ANSWER:
		return c.answer(ctx, ev)
	case game_constants.EVENT_REQUEST_ANSWER:
		return c.requestAnswer(ctx, ev)
	case game_constants.EVENT_REQUEST_SCORES:
		return c.requestScores(ctx, ev)
	}
	return fmt.Errorf("%w: unknown event %q", ErrInvalidEvent, ev.Type)
}

func (c *Coordinator) join(ctx context.Context, ev Event) error {
	out, err := c.transact(ctx, ev, commitSave, func(s *redis_models.GameSession) error {
		return trivia.AddPlayer(s, ev.Actor)
	})
	if err != nil {
		return err
	}
	s := out.session
	names := c.resolveNames(ctx, scoredPlayers(s))
	c.broadcast(ctx, s.JoiningCode, game_constants.EVENT_PLAYER_JOINED, rosterView(s, ev.Actor, names))
	return nil
}

func (c *Coordinator) leave(ctx context.Context, ev Event) error {
	out, err := c.transact(ctx, ev, commitSave, func(s *redis_models.GameSession) error {
		return trivia.RemovePlayer(s, ev.Actor)
	})
	if err != nil {
		return err
	}
	s := out.session
	names := c.resolveNames(ctx, scoredPlayers(s))
	c.broadcast(ctx, s.JoiningCode, game_constants.EVENT_PLAYER_LEFT, rosterView(s, ev.Actor, names))
	return nil
}

func (c *Coordinator) enterGame(ctx context.Context, ev Event) error {
	var becameReady bool
	out, err := c.transact(ctx, ev, commitSave, func(s *redis_models.GameSession) error {
		wasIn := s.IsInGame(ev.Actor)
		ready, err := trivia.MarkInGame(s, ev.Actor)
		becameReady = ready && !wasIn
		return err
	})
	if err != nil {
		return err
	}
	s := out.session
	if becameReady {
		names := c.resolveNames(ctx, s.Players)
		c.broadcast(ctx, s.JoiningCode, game_constants.EVENT_PLAYERS_READY, ReadyView{
			JoiningCode: s.JoiningCode,
			Players:     playerInfos(s.Players, names),
		})
	}
	return nil
}

func (c *Coordinator) start(ctx context.Context, ev Event) error {
	out, err := c.transact(ctx, ev, commitSave, func(s *redis_models.GameSession) error {
		return trivia.Start(s, ev.Actor)
	})
	if err != nil {
		return err
	}
	s := out.session
	names := c.resolveNames(ctx, s.Players)
	c.broadcast(ctx, s.JoiningCode, game_constants.EVENT_GAME_STARTED, StartedView{
		JoiningCode:    s.JoiningCode,
		TotalQuestions: s.TotalQuestions,
		Players:        playerInfos(s.Players, names),
	})
	c.record(ctx, "started", s.JoiningCode, func(ctx context.Context, r MatchRecorder) error {
		return r.RecordStarted(ctx, s)
	})
	return nil
}

// cancel deletes the session. Only the host can cancel, before or after the
// start.
func (c *Coordinator) cancel(ctx context.Context, ev Event) error {
	out, err := c.transact(ctx, ev, commitDelete, func(s *redis_models.GameSession) error {
		if ev.Actor != s.HostPlayer {
			return trivia.ErrNotHost
		}
		return nil
	})
	if err != nil {
		return err
	}
	s := out.session
	c.broadcast(ctx, s.JoiningCode, game_constants.EVENT_GAME_CANCELLED, CancelledView{JoiningCode: s.JoiningCode})
	c.record(ctx, "cancelled", s.JoiningCode, func(ctx context.Context, r MatchRecorder) error {
		return r.RecordCancelled(ctx, s.JoiningCode)
	})
	return nil
}

func (c *Coordinator) nextQuestion(ctx context.Context, ev Event) error {
	out, err := c.transact(ctx, ev, commitSave, func(s *redis_models.GameSession) error {
		if !s.HasPlayer(ev.Actor) {
			return trivia.ErrNotMember
		}
		return trivia.AdvanceQuestion(ctx, s, c.questions, c.now())
	})
	if err != nil {
		return err
	}
	s := out.session

	if out.exhausted == nil {
		c.broadcast(ctx, s.JoiningCode, game_constants.EVENT_QUESTION, c.questionView(s))
		return nil
	}

	reason := EndAllQuestionsServed
	if errors.Is(out.exhausted, trivia.ErrNoQuestionsAvailable) {
		reason = EndCatalogExhausted
	}
	names := c.resolveNames(ctx, scoredPlayers(s))
	c.broadcast(ctx, s.JoiningCode, game_constants.EVENT_END, endView(s, reason, names))

	// Only an active record is finished, later announcements of the same end
	// find nothing to update
	winner, hasWinner := trivia.Winner(s)
	c.record(ctx, "finished", s.JoiningCode, func(ctx context.Context, r MatchRecorder) error {
		return r.RecordFinished(ctx, s, winner, hasWinner)
	})
	return nil
}

func (c *Coordinator) answer(ctx context.Context, ev Event) error {
	var points int
	_, err := c.transact(ctx, ev, commitSave, func(s *redis_models.GameSession) error {
		var err error
		points, err = trivia.RecordAnswer(s, ev.Actor, ev.Answer, ev.TimeLeft)
		return err
	})
	if err != nil {
		return err
	}
	c.logger.Debug("[ANSWER] recorded",
		zap.String("joining_code", ev.JoiningCode),
		zap.Int64("player", ev.Actor),
		zap.Int("points", points))
	return nil
}

func (c *Coordinator) requestAnswer(ctx context.Context, ev Event) error {
	var answer string
	out, err := c.transact(ctx, ev, commitNone, func(s *redis_models.GameSession) error {
		var err error
		answer, err = trivia.RevealAnswer(s, ev.Actor)
		return err
	})
	if err != nil {
		return err
	}
	s := out.session
	c.broadcast(ctx, s.JoiningCode, game_constants.EVENT_CORRECT_ANSWER, CorrectAnswerView{
		JoiningCode: s.JoiningCode,
		QuestionID:  s.CurrentQuestion.ID,
		Answer:      answer,
	})
	return nil
}

func (c *Coordinator) requestScores(ctx context.Context, ev Event) error {
	out, err := c.transact(ctx, ev, commitNone, func(s *redis_models.GameSession) error {
		if !s.HasPlayer(ev.Actor) {
			return trivia.ErrNotMember
		}
		return nil
	})
	if err != nil {
		return err
	}
	s := out.session
	names := c.resolveNames(ctx, scoredPlayers(s))
	c.broadcast(ctx, s.JoiningCode, game_constants.EVENT_SCORES, ScoresView{
		JoiningCode: s.JoiningCode,
		Scores:      scoreLines(s, names),
	})
	return nil
}

// broadcast failures are logged, the transition is already committed
func (c *Coordinator) broadcast(ctx context.Context, room string, event string, payload interface{}) {
	if err := c.fanout.Broadcast(ctx, room, event, payload); err != nil {
		c.logger.Warn("[BROADCAST] error emitting event",
			zap.String("room", room), zap.String("event", event), zap.Error(err))
	}
}

// resolveNames never fails. Players the directory cannot name, in time or at
// all, get a placeholder.
func (c *Coordinator) resolveNames(ctx context.Context, ids []int64) map[int64]string {
	unique := slices.Clone(ids)
	slices.Sort(unique)
	unique = slices.Compact(unique)

	names := make(map[int64]string, len(unique))
	if c.names != nil && len(unique) > 0 {
		lookupCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), c.nameTimeout)
		resolved, err := c.names.ResolveNames(lookupCtx, unique)
		cancel()
		if err != nil {
			c.logger.Warn("[NAMES] falling back to placeholder names", zap.Error(err))
		}
		for id, name := range resolved {
			names[id] = name
		}
	}
	for _, id := range unique {
		if names[id] == "" {
			names[id] = "player-" + strconv.FormatInt(id, 10)
		}
	}
	return names
}

// record updates the durable match record once the event is committed.
// The session is authoritative, failures are only logged.
func (c *Coordinator) record(ctx context.Context, what string, joiningCode string, fn func(context.Context, MatchRecorder) error) {
	if c.recorder == nil {
		return
	}
	recordCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), recordTimeout)
	defer cancel()
	if err := fn(recordCtx, c.recorder); err != nil {
		level := zap.WarnLevel
		if errors.Is(err, dsync.ErrGameRecordNotFound) {
			level = zap.DebugLevel
		}
		c.logger.Log(level, "[SYNC] error recording game "+what,
			zap.String("joining_code", joiningCode), zap.Error(err))
	}
}

// isStoreMiss tells expired sessions apart from an unreachable store
func isStoreMiss(err error) bool {
	return errors.Is(err, redis.ErrSessionNotFound)
}
