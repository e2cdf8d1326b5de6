package postgres

import (
	"time"

	"github.com/lib/pq"
	"gorm.io/datatypes"
)

/*
 * 'Game' is the durable match record paired with a live game session.
 * The session itself lives in Redis; this row survives it.
 */
type Game struct {
	ID             int64          `gorm:"primaryKey"`
	JoiningCode    string         `gorm:"size:100;not null;index:idx_games_code"` // reused once the game is over
	HostID         int64          `gorm:"not null;index:idx_games_host"`
	Players        pq.Int64Array  `gorm:"type:bigint[]"`
	MaxPlayers     int            `gorm:"not null"`
	TotalQuestions int            `gorm:"not null"`
	IsStarted      bool           `gorm:"default:false"`
	IsActive       bool           `gorm:"default:true;index:idx_games_active"` // false once finished or cancelled
	IsCancelled    bool           `gorm:"default:false"`
	WinnerID       *int64         `gorm:"index"`
	FinalScores    datatypes.JSON `gorm:"type:jsonb;default:'{}'"`
	CreatedAt      time.Time      `gorm:"default:CURRENT_TIMESTAMP"`
	FinishedAt     *time.Time
}
