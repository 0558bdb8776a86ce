package jobs

import (
	"context"
	"time"

	"github.com/robfig/cron/v3"
	"github.com/rs/zerolog"

	"shopfront/internal/queue"
)

// EventPublisher is satisfied by *queue.Publisher.
type EventPublisher interface {
	Publish(ctx context.Context, eventType string, fields map[string]any) error
}

type Scheduler struct {
	cron   *cron.Cron
	events EventPublisher
	log    zerolog.Logger
}

func NewScheduler(events EventPublisher, log zerolog.Logger) *Scheduler {
	return &Scheduler{
		cron:   cron.New(cron.WithSeconds()),
		events: events,
		log:    log,
	}
}

func (s *Scheduler) Start() error {
	if s.events == nil {
		return nil
	}

	if _, err := s.cron.AddFunc("0 0 3 * * *", s.enqueue(queue.EventSessionsCleanup)); err != nil {
		return err
	}
	if _, err := s.cron.AddFunc("0 0 */1 * * *", s.enqueue(queue.EventStockScan)); err != nil {
		return err
	}

	s.cron.Start()
	return nil
}

func (s *Scheduler) Stop() context.Context {
	return s.cron.Stop()
}

func (s *Scheduler) enqueue(eventType string) func() {
	return func() {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()

		if err := s.events.Publish(ctx, eventType, map[string]any{
			"scheduledAt": time.Now().UTC().Format(time.RFC3339),
		}); err != nil {
			s.log.Error().Err(err).Str("event", eventType).Msg("enqueue scheduled event failed")
		}
	}
}
