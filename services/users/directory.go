// Package users resolves player ids to display names for broadcasts.
package users

import (
	"context"
	"dtrivia/models/postgres"
	"fmt"

	"gorm.io/gorm"
)

type Directory struct {
	db *gorm.DB
}

func NewDirectory(db *gorm.DB) *Directory {
	return &Directory{db: db}
}

// ResolveNames maps each known id to its user name. Unknown ids are absent
// from the result.
func (d *Directory) ResolveNames(ctx context.Context, ids []int64) (map[int64]string, error) {
	names := make(map[int64]string, len(ids))
	if len(ids) == 0 {
		return names, nil
	}

	var users []postgres.User
	err := d.db.WithContext(ctx).
		Select("id", "user_name").
		Where("id IN ?", ids).
		Find(&users).Error
	if err != nil {
		return nil, fmt.Errorf("error resolving user names: %w", err)
	}
	for _, u := range users {
		names[u.ID] = u.UserName
	}
	return names, nil
}
