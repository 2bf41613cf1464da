package kafka

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	kgo "github.com/segmentio/kafka-go"
)

type Writer interface {
	WriteJSON(ctx context.Context, key string, v any) error
	Close() error
}

type writer struct {
	w *kgo.Writer
}

type Options struct {
	// RequiredAcks is "none", "one" or "all"; anything else means "one".
	RequiredAcks string
	Async        bool
}

// NewWriter creates a writer for topic on the comma-separated bootstrap servers.
// Messages with the same key land on the same partition.
func NewWriter(bootstrapServers, topic string, opts Options) Writer {
	return &writer{w: &kgo.Writer{
		Addr:                   kgo.TCP(brokers(bootstrapServers)...),
		Topic:                  topic,
		Balancer:               &kgo.Hash{},
		RequiredAcks:           requiredAcks(opts.RequiredAcks),
		Async:                  opts.Async,
		BatchTimeout:           50 * time.Millisecond,
		AllowAutoTopicCreation: true,
	}}
}

func brokers(bootstrapServers string) []string {
	var addrs []string
	for _, a := range strings.Split(bootstrapServers, ",") {
		if a = strings.TrimSpace(a); a != "" {
			addrs = append(addrs, a)
		}
	}
	if len(addrs) == 0 {
		return []string{"kafka:9092"}
	}
	return addrs
}

func requiredAcks(s string) kgo.RequiredAcks {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "none":
		return kgo.RequireNone
	case "all":
		return kgo.RequireAll
	default:
		return kgo.RequireOne
	}
}

func (wr *writer) WriteJSON(ctx context.Context, key string, v any) error {
	b, err := json.Marshal(v)
	if err != nil {
		return fmt.Errorf("kafka marshal: %w", err)
	}
	return wr.w.WriteMessages(ctx, kgo.Message{Key: []byte(key), Value: b, Time: time.Now()})
}

func (wr *writer) Close() error { return wr.w.Close() }
