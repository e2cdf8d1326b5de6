package postgres

import (
	"github.com/lib/pq"
)

/*
 * 'Category' groups questions. Games can exclude categories at creation.
 */
type Category struct {
	ID          int64  `gorm:"primaryKey"`
	Name        string `gorm:"size:100;not null;uniqueIndex"`
	Description string `gorm:"size:255"`
}

/*
 * 'Question' is a catalog question. CorrectAnswer is an index into Answers.
 */
type Question struct {
	ID            int64          `gorm:"primaryKey"`
	Question      string         `gorm:"not null"`
	Answers       pq.StringArray `gorm:"type:text[];not null"`
	CorrectAnswer int            `gorm:"not null"`
	CategoryID    int64          `gorm:"not null;index"`

	Category Category `gorm:"foreignKey:CategoryID"`
}
