package jobs

import (
	"context"
	"errors"
	"io"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"shopfront/internal/queue"
)

type recordingPublisher struct {
	events []string
	err    error
}

func (p *recordingPublisher) Publish(_ context.Context, eventType string, fields map[string]any) error {
	p.events = append(p.events, eventType)
	return p.err
}

func TestSchedulerEnqueuePublishesEvent(t *testing.T) {
	pub := &recordingPublisher{}
	s := NewScheduler(pub, zerolog.New(io.Discard))

	s.enqueue(queue.EventStockScan)()
	s.enqueue(queue.EventSessionsCleanup)()

	assert.Equal(t, []string{queue.EventStockScan, queue.EventSessionsCleanup}, pub.events)
}

func TestSchedulerEnqueueSwallowsPublishErrors(t *testing.T) {
	pub := &recordingPublisher{err: errors.New("redis down")}
	s := NewScheduler(pub, zerolog.New(io.Discard))

	assert.NotPanics(t, s.enqueue(queue.EventStockScan))
	assert.Len(t, pub.events, 1)
}

func TestSchedulerStartWithoutPublisherIsNoop(t *testing.T) {
	s := NewScheduler(nil, zerolog.New(io.Discard))
	require.NoError(t, s.Start())
	assert.Empty(t, s.cron.Entries())
}

func TestSchedulerStartRegistersJobs(t *testing.T) {
	s := NewScheduler(&recordingPublisher{}, zerolog.New(io.Discard))
	require.NoError(t, s.Start())
	defer s.Stop()

	assert.Len(t, s.cron.Entries(), 2)
}
