package comment

import (
	"context"
	"strconv"
	"time"

	"comment-service/internal/kafka"

	"github.com/google/uuid"
)

type EventType string

const (
	EventCreated  EventType = "comment.created"
	EventModified EventType = "comment.modified"
	EventDeleted  EventType = "comment.deleted"
)

type Event struct {
	ID         string    `json:"event_id"`
	Type       EventType `json:"type"`
	CommentID  uint64    `json:"comment_id"`
	PostID     uint64    `json:"post_id"`
	Username   string    `json:"username"`
	Content    string    `json:"content,omitempty"`
	OccurredAt time.Time `json:"occurred_at"`
}

func NewEvent(t EventType, c *Comment) Event {
	ev := Event{
		ID:         uuid.NewString(),
		Type:       t,
		CommentID:  c.ID,
		PostID:     c.PostID,
		Username:   c.Username,
		OccurredAt: time.Now().UTC(),
	}
	if t != EventDeleted {
		ev.Content = c.Content
	}
	return ev
}

type Publisher interface {
	Publish(ctx context.Context, ev Event) error
}

type kafkaPublisher struct{ w kafka.Writer }

// NewKafkaPublisher keys events by post so one post's events stay ordered.
func NewKafkaPublisher(w kafka.Writer) Publisher { return &kafkaPublisher{w: w} }

func (p *kafkaPublisher) Publish(ctx context.Context, ev Event) error {
	return p.w.WriteJSON(ctx, strconv.FormatUint(ev.PostID, 10), ev)
}

type nopPublisher struct{}

func (nopPublisher) Publish(context.Context, Event) error { return nil }
