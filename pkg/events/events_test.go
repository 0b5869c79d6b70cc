package events

import (
	"context"
	"sync"
	"testing"
	"time"
	"workplace_training_backend/internal/config"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type recorder struct {
	mu     sync.Mutex
	events []Event
	done   chan struct{}
}

func (r *recorder) Publish(ctx context.Context, e Event) error {
	r.mu.Lock()
	r.events = append(r.events, e)
	r.mu.Unlock()
	close(r.done)
	return nil
}

func (r *recorder) Close() error { return nil }

func TestNewPublisherDisabled(t *testing.T) {
	p := NewPublisher(&config.KafkaConfig{Enabled: true})
	_, ok := p.(NopPublisher)
	assert.True(t, ok)

	p = NewPublisher(&config.KafkaConfig{Enabled: true, Brokers: []string{"localhost:9092"}, Topic: "t"})
	_, ok = p.(*KafkaPublisher)
	assert.True(t, ok)
	require.NoError(t, p.Close())
}

func TestPublishAsync(t *testing.T) {
	r := &recorder{done: make(chan struct{})}

	PublishAsync(r, Event{Type: CertificateIssued, UserID: 7})

	select {
	case <-r.done:
	case <-time.After(time.Second):
		t.Fatal("event not published")
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	require.Len(t, r.events, 1)
	assert.Equal(t, uint(7), r.events[0].UserID)
}
