package post

import (
	"time"

	"comment-service/internal/shared/apperr"
)

var ErrNotFound = apperr.NotFound("not found post")

type Post struct {
	ID        uint64    `gorm:"primaryKey" json:"id"`
	Username  string    `gorm:"index;size:64;not null" json:"username"`
	Title     string    `gorm:"size:255;not null" json:"title"`
	Content   string    `gorm:"type:text;not null" json:"content"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}
