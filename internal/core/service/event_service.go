package service

import (
	"context"
	"fmt"

	"github.com/rs/zerolog"

	"github.com/homefix/marketplace/internal/core/domain"
	"github.com/homefix/marketplace/internal/core/ports"
	"github.com/homefix/marketplace/internal/pkg/metrics"
)

type eventService struct {
	repo ports.EventRepository
	log  zerolog.Logger
}

// NewEventService returns an EventService that writes to the audit trail.
func NewEventService(repo ports.EventRepository, log zerolog.Logger) ports.EventService {
	return &eventService{repo: repo, log: log}
}

// Process persists a single account event.
func (s *eventService) Process(ctx context.Context, event domain.AccountEvent) error {
	if err := s.repo.InsertEvent(ctx, &event); err != nil {
		metrics.AuditEventsTotal.WithLabelValues(string(event.Type), "error").Inc()
		return fmt.Errorf("record %s: %w", event.Type, err)
	}

	metrics.AuditEventsTotal.WithLabelValues(string(event.Type), "ok").Inc()
	s.log.Debug().
		Str("type", string(event.Type)).
		Str("user_id", event.UserID).
		Msg("account event recorded")
	return nil
}
