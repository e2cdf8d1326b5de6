package coordinator

import (
	"context"
	redis_models "dtrivia/models/redis"
	"dtrivia/services/redis"
	"dtrivia/services/trivia"
	"errors"
	"fmt"
	"time"

	"github.com/cenkalti/backoff/v4"
	"go.uber.org/zap"
)

// What a successful transaction does with the session
type commit int

const (
	commitSave   commit = iota
	commitDelete        // the session goes away, cancel
	commitNone          // read only
)

// outcome of a committed transaction
type outcome struct {
	session   *redis_models.GameSession
	exhausted error // exhaustion signal of the transition, nil otherwise
}

// transact runs apply on a freshly loaded session under the lock of the
// joining code and commits the result. Exhaustion signals still commit, the
// session is finished, and they are reported in the outcome.
//
// Infrastructure errors are retried once. Every attempt reloads the session,
// so a failed attempt leaves no trace.
func (c *Coordinator) transact(ctx context.Context, ev Event, mode commit,
	apply func(s *redis_models.GameSession) error) (outcome, error) {

	var committed outcome
	attempt := func() error {
		unlock, err := c.locker.Lock(ctx, ev.JoiningCode)
		if err != nil {
			return fmt.Errorf("error locking game %s: %w", ev.JoiningCode, err)
		}
		defer unlock()

		s, err := c.store.GetGameSession(ctx, ev.JoiningCode)
		if err != nil {
			if isStoreMiss(err) {
				return backoff.Permanent(ErrGameNotFound)
			}
			if errors.Is(err, redis.ErrCorruptSession) {
				c.logger.Error("[STORE] unreadable game session", zap.String("joining_code", ev.JoiningCode), zap.Error(err))
				return backoff.Permanent(ErrGameNotFound)
			}
			return err
		}

		applyErr := apply(s)
		switch {
		case applyErr == nil:
		case trivia.IsExhaustion(applyErr):
		case trivia.IsValidation(applyErr):
			return backoff.Permanent(applyErr)
		default:
			return applyErr
		}

		switch mode {
		case commitSave:
			err = c.store.SaveGameSession(ctx, s)
		case commitDelete:
			err = c.store.DeleteGameSession(ctx, s.JoiningCode)
			if isStoreMiss(err) {
				return backoff.Permanent(ErrGameNotFound)
			}
		}
		if err != nil {
			return err
		}

		committed = outcome{session: s, exhausted: applyErr}
		return nil
	}

	policy := backoff.WithContext(backoff.WithMaxRetries(c.newBackOff(), 1), ctx)
	err := backoff.RetryNotify(attempt, policy, func(err error, wait time.Duration) {
		c.logger.Warn("[RETRY] transaction failed, retrying",
			zap.String("event", ev.Type),
			zap.String("joining_code", ev.JoiningCode),
			zap.Duration("wait", wait),
			zap.Error(err))
	})
	if err != nil {
		if trivia.IsValidation(err) || errors.Is(err, ErrGameNotFound) {
			return outcome{}, err
		}
		c.logger.Error("[RETRY] transaction gave up",
			zap.String("event", ev.Type),
			zap.String("joining_code", ev.JoiningCode),
			zap.Int64("actor", ev.Actor),
			zap.Error(err))
		return outcome{}, fmt.Errorf("%w: %v", ErrTryAgain, err)
	}
	return committed, nil
}
