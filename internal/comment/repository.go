package comment

import (
	"context"
	"errors"
	"fmt"

	"comment-service/internal/shared/db"

	"gorm.io/gorm"
)

type Repository interface {
	FindAllByPost(ctx context.Context, postID uint64) ([]Comment, error)
	FindByID(ctx context.Context, id uint64) (*Comment, error)
	Save(ctx context.Context, c *Comment) error
	Delete(ctx context.Context, c *Comment) error
	CountByPost(ctx context.Context, postID uint64) (int64, error)
}

type repo struct{ store *db.Store }

func NewRepository(s *db.Store) Repository { return &repo{store: s} }

// byPost selects the comments of a post, newest first. id breaks ties
// between comments created in the same instant.
func byPost(tx *gorm.DB, postID uint64) *gorm.DB {
	return tx.Model(&Comment{}).Where("post_id = ?", postID).Order("created_at DESC, id DESC")
}

func (r *repo) FindAllByPost(ctx context.Context, postID uint64) ([]Comment, error) {
	out := []Comment{}
	if err := byPost(r.store.Conn(ctx), postID).Find(&out).Error; err != nil {
		return nil, fmt.Errorf("list comments of post %d: %w", postID, err)
	}
	return out, nil
}

func (r *repo) FindByID(ctx context.Context, id uint64) (*Comment, error) {
	var c Comment
	if err := r.store.Conn(ctx).First(&c, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("find comment %d: %w", id, err)
	}
	return &c, nil
}

func (r *repo) Save(ctx context.Context, c *Comment) error {
	if err := r.store.Conn(ctx).Save(c).Error; err != nil {
		return fmt.Errorf("save comment: %w", err)
	}
	return nil
}

func (r *repo) Delete(ctx context.Context, c *Comment) error {
	if err := r.store.Conn(ctx).Delete(&Comment{}, "id = ?", c.ID).Error; err != nil {
		return fmt.Errorf("delete comment %d: %w", c.ID, err)
	}
	return nil
}

func (r *repo) CountByPost(ctx context.Context, postID uint64) (int64, error) {
	var n int64
	if err := r.store.Conn(ctx).Model(&Comment{}).Where("post_id = ?", postID).Count(&n).Error; err != nil {
		return 0, fmt.Errorf("count comments of post %d: %w", postID, err)
	}
	return n, nil
}
