package comment

import (
	"context"
	"encoding/json"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type capturedWrite struct {
	key   string
	value []byte
}

type fakeWriter struct{ writes []capturedWrite }

func (w *fakeWriter) WriteJSON(_ context.Context, key string, v any) error {
	b, err := json.Marshal(v)
	if err != nil {
		return err
	}
	w.writes = append(w.writes, capturedWrite{key, b})
	return nil
}

func (w *fakeWriter) Close() error { return nil }

func TestNewEvent(t *testing.T) {
	c := &Comment{ID: 3, PostID: 9, Username: "alice", Content: "hi"}

	created := NewEvent(EventCreated, c)
	_, err := uuid.Parse(created.ID)
	require.NoError(t, err)
	assert.Equal(t, "hi", created.Content)
	assert.False(t, created.OccurredAt.IsZero())

	deleted := NewEvent(EventDeleted, c)
	assert.Empty(t, deleted.Content)
	assert.NotEqual(t, created.ID, deleted.ID)
}

func TestKafkaPublisherKeysByPost(t *testing.T) {
	w := &fakeWriter{}
	p := NewKafkaPublisher(w)

	ev := NewEvent(EventModified, &Comment{ID: 3, PostID: 9, Username: "alice", Content: "edited"})
	require.NoError(t, p.Publish(context.Background(), ev))

	require.Len(t, w.writes, 1)
	assert.Equal(t, "9", w.writes[0].key)

	var got map[string]any
	require.NoError(t, json.Unmarshal(w.writes[0].value, &got))
	assert.Equal(t, "comment.modified", got["type"])
	assert.Equal(t, float64(3), got["comment_id"])
	assert.Equal(t, "edited", got["content"])
}

func TestCountKey(t *testing.T) {
	assert.Equal(t, "comments:count:12", countKey(12))
	assert.Equal(t, "comments:count:12:ver", versionKey(12))
}
