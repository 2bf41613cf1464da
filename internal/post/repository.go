package post

import (
	"context"
	"errors"
	"fmt"

	"comment-service/internal/shared/db"

	"gorm.io/gorm"
)

type Repository interface {
	FindByID(ctx context.Context, id uint64) (*Post, error)
	Create(ctx context.Context, p *Post) error
}

type repo struct{ store *db.Store }

func NewRepository(s *db.Store) Repository { return &repo{store: s} }

func (r *repo) FindByID(ctx context.Context, id uint64) (*Post, error) {
	var p Post
	if err := r.store.Conn(ctx).First(&p, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("find post %d: %w", id, err)
	}
	return &p, nil
}

func (r *repo) Create(ctx context.Context, p *Post) error {
	if err := r.store.Conn(ctx).Create(p).Error; err != nil {
		return fmt.Errorf("create post: %w", err)
	}
	return nil
}
