// Package sync mirrors the lifecycle of live game sessions into the durable
// "games" table and the users' game counters.
package sync

import (
	"context"
	"dtrivia/models/postgres"
	redis_models "dtrivia/models/redis"
	"encoding/json"
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/lib/pq"
	"go.uber.org/zap"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// ErrGameRecordNotFound means no durable record matches the joining code
var ErrGameRecordNotFound = errors.New("game record not found")

type SyncManager struct {
	db     *gorm.DB
	logger *zap.Logger
}

// NewSyncManager creates a new instance of the synchronization manager
func NewSyncManager(db *gorm.DB, logger *zap.Logger) *SyncManager {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &SyncManager{db: db, logger: logger.Named("sync")}
}

// RecordCreated inserts the durable record of a freshly created session
func (sm *SyncManager) RecordCreated(ctx context.Context, session *redis_models.GameSession) (*postgres.Game, error) {
	game := &postgres.Game{
		JoiningCode:    session.JoiningCode,
		HostID:         session.HostPlayer,
		Players:        pq.Int64Array(session.Players),
		MaxPlayers:     session.MaxPlayers,
		TotalQuestions: session.TotalQuestions,
		IsActive:       true,
		FinalScores:    datatypes.JSON("{}"),
		CreatedAt:      session.CreatedAt,
	}
	if err := sm.db.WithContext(ctx).Create(game).Error; err != nil {
		return nil, fmt.Errorf("error creating game record: %w", err)
	}
	return game, nil
}

// RecordStarted marks the record as started and stores the final roster
func (sm *SyncManager) RecordStarted(ctx context.Context, session *redis_models.GameSession) error {
	return sm.updateActive(ctx, session.JoiningCode, map[string]interface{}{
		"is_started": true,
		"players":    pq.Int64Array(session.Players),
	})
}

// RecordCancelled deactivates the record of a game the host cancelled.
// No winner is recorded and no user counter changes.
func (sm *SyncManager) RecordCancelled(ctx context.Context, joiningCode string) error {
	now := time.Now().UTC()
	return sm.updateActive(ctx, joiningCode, map[string]interface{}{
		"is_active":    false,
		"is_cancelled": true,
		"finished_at":  &now,
	})
}

// RecordFinished stores the final scores and winner, then bumps the
// games_played counter of every scored player and games_won of the winner.
// Everything happens in one transaction.
func (sm *SyncManager) RecordFinished(ctx context.Context, session *redis_models.GameSession, winner int64, hasWinner bool) error {
	scores := make(map[string]int, len(session.CurrentScores))
	participants := make([]int64, 0, len(session.CurrentScores))
	for player, score := range session.CurrentScores {
		scores[strconv.FormatInt(player, 10)] = score
		participants = append(participants, player)
	}
	finalScores, err := json.Marshal(scores)
	if err != nil {
		return fmt.Errorf("error marshaling final scores: %w", err)
	}

	now := time.Now().UTC()
	updates := map[string]interface{}{
		"is_active":    false,
		"final_scores": datatypes.JSON(finalScores),
		"finished_at":  &now,
	}
	if hasWinner {
		updates["winner_id"] = winner
	}

	return sm.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		res := tx.Model(&postgres.Game{}).
			Where("joining_code = ? AND is_active = ?", session.JoiningCode, true).
			Updates(updates)
		if res.Error != nil {
			return fmt.Errorf("error finishing game record: %w", res.Error)
		}
		if res.RowsAffected == 0 {
			return fmt.Errorf("game %s: %w", session.JoiningCode, ErrGameRecordNotFound)
		}

		if len(participants) > 0 {
			err := tx.Model(&postgres.User{}).
				Where("id IN ?", participants).
				UpdateColumn("games_played", gorm.Expr("games_played + ?", 1)).Error
			if err != nil {
				return fmt.Errorf("error updating games played: %w", err)
			}
		}
		if hasWinner {
			err := tx.Model(&postgres.User{}).
				Where("id = ?", winner).
				UpdateColumn("games_won", gorm.Expr("games_won + ?", 1)).Error
			if err != nil {
				return fmt.Errorf("error updating games won: %w", err)
			}
		}

		sm.logger.Info("[SYNC] game finished",
			zap.String("joining_code", session.JoiningCode),
			zap.Int("players", len(participants)),
			zap.Int64("winner", winner))
		return nil
	})
}

// GetGameRecord returns the durable record of a joining code
func (sm *SyncManager) GetGameRecord(ctx context.Context, joiningCode string) (*postgres.Game, error) {
	var game postgres.Game
	err := sm.db.WithContext(ctx).
		Where("joining_code = ?", joiningCode).
		Order("id DESC").
		First(&game).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("game %s: %w", joiningCode, ErrGameRecordNotFound)
		}
		return nil, fmt.Errorf("error getting game record: %w", err)
	}
	return &game, nil
}

func (sm *SyncManager) updateActive(ctx context.Context, joiningCode string, updates map[string]interface{}) error {
	res := sm.db.WithContext(ctx).Model(&postgres.Game{}).
		Where("joining_code = ? AND is_active = ?", joiningCode, true).
		Updates(updates)
	if res.Error != nil {
		return fmt.Errorf("error updating game record: %w", res.Error)
	}
	if res.RowsAffected == 0 {
		return fmt.Errorf("game %s: %w", joiningCode, ErrGameRecordNotFound)
	}
	return nil
}
