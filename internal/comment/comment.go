package comment

import (
	"time"

	"comment-service/internal/post"
	"comment-service/internal/shared/apperr"
	"comment-service/internal/user"
)

var (
	ErrNotFound         = apperr.NotFound("not found comment")
	ErrPermissionDenied = apperr.Forbidden("not the user's comment")
)

// Comment is one user's remark on one post. Username and PostID are set by
// New and never reassigned; only Content changes afterwards.
type Comment struct {
	ID        uint64    `gorm:"primaryKey"`
	PostID    uint64    `gorm:"index;not null"`
	Username  string    `gorm:"index;size:64;not null"`
	Content   string    `gorm:"type:text;not null"`
	CreatedAt time.Time `gorm:"index;autoCreateTime"`
	UpdatedAt time.Time
}

func New(u *user.User, p *post.Post, content string) *Comment {
	return &Comment{
		PostID:   p.ID,
		Username: u.Username,
		Content:  content,
	}
}

func (c *Comment) Modify(content string) { c.Content = content }

func (c *Comment) OwnedBy(u *user.User) bool { return c.Username == u.Username }

type View struct {
	ID        uint64    `json:"id"`
	PostID    uint64    `json:"post_id"`
	Username  string    `json:"username"`
	Content   string    `json:"content"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func (c *Comment) View() View {
	return View{
		ID:        c.ID,
		PostID:    c.PostID,
		Username:  c.Username,
		Content:   c.Content,
		CreatedAt: c.CreatedAt,
		UpdatedAt: c.UpdatedAt,
	}
}

type CreateReq struct {
	PostID  uint64 `json:"post_id"`
	Content string `json:"content" validate:"required"`
}

type ModifyReq struct {
	Content string `json:"content" validate:"required"`
}

type DeleteResult struct {
	Success string `json:"success"`
	Status  string `json:"status"`
}

var Deleted = DeleteResult{Success: "true", Status: "200"}
