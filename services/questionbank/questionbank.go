// Package questionbank serves random catalog questions to running games.
package questionbank

import (
	"context"
	"dtrivia/models/postgres"
	redis_models "dtrivia/models/redis"
	"errors"
	"fmt"
	"time"

	"go.uber.org/zap"
	"gorm.io/gorm"
)

// ErrUnavailable wraps every catalog failure, callers may retry
var ErrUnavailable = errors.New("question bank unavailable")

// Bank reads questions from the catalog tables
type Bank struct {
	db      *gorm.DB
	timeout time.Duration
	logger  *zap.Logger
}

// NewBank builds the catalog client. A zero timeout leaves the caller's
// deadline alone.
func NewBank(db *gorm.DB, timeout time.Duration, logger *zap.Logger) *Bank {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Bank{db: db, timeout: timeout, logger: logger.Named("questionbank")}
}

// FetchRandom returns a random question whose id is not in excludeIDs and
// whose category is not in excludeCategories. It returns nil, nil when the
// catalog has nothing left.
func (b *Bank) FetchRandom(ctx context.Context, excludeIDs []int64, excludeCategories []int64) (*redis_models.Question, error) {
	if b.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, b.timeout)
		defer cancel()
	}

	query := b.db.WithContext(ctx).Preload("Category")
	// NOT IN () would be rendered as NOT IN (NULL) and match nothing
	if len(excludeIDs) > 0 {
		query = query.Where("id NOT IN ?", excludeIDs)
	}
	if len(excludeCategories) > 0 {
		query = query.Where("category_id NOT IN ?", excludeCategories)
	}

	var rows []postgres.Question
	if err := query.Order("RANDOM()").Limit(1).Find(&rows).Error; err != nil {
		return nil, fmt.Errorf("%w: %v", ErrUnavailable, err)
	}
	if len(rows) == 0 {
		b.logger.Debug("catalog exhausted",
			zap.Int("excluded_questions", len(excludeIDs)),
			zap.Int64s("excluded_categories", excludeCategories))
		return nil, nil
	}
	return toSessionQuestion(&rows[0]), nil
}

// CountAvailable returns how many questions a game excluding the given
// categories can draw from
func (b *Bank) CountAvailable(ctx context.Context, excludeCategories []int64) (int64, error) {
	query := b.db.WithContext(ctx).Model(&postgres.Question{})
	if len(excludeCategories) > 0 {
		query = query.Where("category_id NOT IN ?", excludeCategories)
	}
	var count int64
	if err := query.Count(&count).Error; err != nil {
		return 0, fmt.Errorf("%w: %v", ErrUnavailable, err)
	}
	return count, nil
}

func toSessionQuestion(q *postgres.Question) *redis_models.Question {
	answers := make([]string, len(q.Answers))
	copy(answers, q.Answers)
	return &redis_models.Question{
		ID:            q.ID,
		Question:      q.Question,
		Answers:       answers,
		CorrectAnswer: q.CorrectAnswer,
		CategoryID:    q.CategoryID,
		CategoryName:  q.Category.Name,
	}
}
