package ports

import (
	"context"

	"github.com/homefix/marketplace/internal/core/domain"
)

// EventService records account events. Implementations must not block callers
// on persistence failures.
type EventService interface {
	Process(ctx context.Context, event domain.AccountEvent) error
}

// EventPublisher hands events to the async pipeline.
type EventPublisher interface {
	Enqueue(event domain.AccountEvent)
}
