package coordinator

import (
	"context"
	game_constants "dtrivia/constants/game"
	"dtrivia/models"
	redis_models "dtrivia/models/redis"
	"dtrivia/services/trivia"
	"errors"
	"fmt"

	"go.uber.org/zap"
)

// Create forms a new lobby hosted by host and stores its session. The
// durable match record is created with it, a session without record is
// removed again.
func (c *Coordinator) Create(ctx context.Context, host int64, req models.GameCreation) (*redis_models.GameSession, error) {
	total := req.TotalQuestions
	if total == 0 {
		total = game_constants.DEFAULT_TOTAL_QUESTIONS
	}

	for attempt := 0; attempt < maxCodeAttempts; attempt++ {
		s, err := trivia.NewGameSession(c.newCode(), req.MaxPlayers, host, total, req.ExcludeCategories, c.now())
		if err != nil {
			return nil, err
		}

		created, err := c.store.CreateGameSession(ctx, s)
		if err != nil {
			c.logger.Error("[CREATE] error storing game session", zap.Error(err))
			return nil, fmt.Errorf("%w: %v", ErrTryAgain, err)
		}
		if !created {
			c.logger.Debug("[CREATE] joining code taken, drawing another", zap.String("joining_code", s.JoiningCode))
			continue
		}

		if c.recorder != nil {
			if _, err := c.recorder.RecordCreated(ctx, s); err != nil {
				c.logger.Error("[CREATE] error creating game record", zap.String("joining_code", s.JoiningCode), zap.Error(err))
				if delErr := c.store.DeleteGameSession(context.WithoutCancel(ctx), s.JoiningCode); delErr != nil {
					c.logger.Warn("[CREATE] error removing orphan session", zap.Error(delErr))
				}
				return nil, fmt.Errorf("%w: %v", ErrTryAgain, err)
			}
		}

		c.logger.Info("[CREATE] game created",
			zap.String("joining_code", s.JoiningCode),
			zap.Int64("host", host),
			zap.Int("max_players", s.MaxPlayers),
			zap.Int("total_questions", s.TotalQuestions))
		return s, nil
	}
	return nil, fmt.Errorf("%w: no free joining code after %d attempts", ErrTryAgain, maxCodeAttempts)
}

// Get returns the summary of one lobby
func (c *Coordinator) Get(ctx context.Context, joiningCode string) (models.GameSummary, error) {
	s, err := c.load(ctx, joiningCode)
	if err != nil {
		return models.GameSummary{}, err
	}
	return Summary(s, c.resolveNames(ctx, scoredPlayers(s))), nil
}

// List returns the summaries of every live lobby, in joining code order
func (c *Coordinator) List(ctx context.Context) ([]models.GameSummary, error) {
	codes, err := c.store.ListActiveSessions(ctx)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrTryAgain, err)
	}

	sessions := make([]*redis_models.GameSession, 0, len(codes))
	var ids []int64
	for _, code := range codes {
		s, err := c.load(ctx, code)
		if errors.Is(err, ErrGameNotFound) {
			// expired between the scan and the read
			continue
		}
		if err != nil {
			return nil, err
		}
		sessions = append(sessions, s)
		ids = append(ids, s.Players...)
	}

	names := c.resolveNames(ctx, ids)
	summaries := make([]models.GameSummary, 0, len(sessions))
	for _, s := range sessions {
		summaries = append(summaries, Summary(s, names))
	}
	return summaries, nil
}

// load reads a session without taking its lock, for read-only views
func (c *Coordinator) load(ctx context.Context, joiningCode string) (*redis_models.GameSession, error) {
	s, err := c.store.GetGameSession(ctx, joiningCode)
	if err != nil {
		if isStoreMiss(err) {
			return nil, ErrGameNotFound
		}
		return nil, fmt.Errorf("%w: %v", ErrTryAgain, err)
	}
	return s, nil
}
