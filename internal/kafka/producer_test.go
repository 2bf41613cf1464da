package kafka

import (
	"testing"

	kgo "github.com/segmentio/kafka-go"
	"github.com/stretchr/testify/assert"
)

func TestBrokers(t *testing.T) {
	assert.Equal(t, []string{"kafka:9092"}, brokers(""))
	assert.Equal(t, []string{"kafka:9092"}, brokers(" , "))
	assert.Equal(t, []string{"a:9092", "b:9092"}, brokers("a:9092, b:9092,"))
}

func TestRequiredAcks(t *testing.T) {
	assert.Equal(t, kgo.RequireNone, requiredAcks("none"))
	assert.Equal(t, kgo.RequireAll, requiredAcks(" ALL "))
	assert.Equal(t, kgo.RequireOne, requiredAcks("one"))
	assert.Equal(t, kgo.RequireOne, requiredAcks("bogus"))
}
