package user

import (
	"time"

	"comment-service/internal/shared/apperr"
)

var ErrNotFound = apperr.NotFound("not found user")

type User struct {
	ID        uint64    `gorm:"primaryKey" json:"-"`
	Username  string    `gorm:"uniqueIndex;size:64;not null" json:"username"`
	PassHash  string    `gorm:"size:255" json:"-"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}
