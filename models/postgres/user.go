package postgres

import (
	"time"
)

/*
 * 'User' is the read side of the account table owned by the auth service.
 * Only the display name and the game counters are used here.
 */
type User struct {
	ID          int64     `gorm:"primaryKey"`
	UserName    string    `gorm:"size:50;not null;uniqueIndex"`
	Email       string    `gorm:"size:100;not null;uniqueIndex"`
	IsActive    bool      `gorm:"default:false"`
	GamesPlayed int       `gorm:"default:0"`
	GamesWon    int       `gorm:"default:0"`
	MemberSince time.Time `gorm:"default:CURRENT_TIMESTAMP"`
}
