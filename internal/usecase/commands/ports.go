package commands

//go:generate mockgen -source=ports.go -destination=../../../tests/mock/commands/ports_mock.go -package=commandsmock

import (
	"context"

	"booking-core/internal/domain/availability"
	"booking-core/internal/domain/reservation"
	"booking-core/internal/usecase/shared"

	"github.com/google/uuid"
)

// AvailabilityIndex is the in-memory hold ledger consulted before any write.
type AvailabilityIndex interface {
	IsFree(resourceID uuid.UUID, iv reservation.Interval) bool
	Reserve(resourceID uuid.UUID, iv reservation.Interval, ref uuid.UUID) (availability.Token, error)
	ReleaseToken(tok availability.Token)
}

// Publisher delivers outbox events to the message broker.
type Publisher interface {
	Publish(ctx context.Context, events []shared.OutboxEvent) error
}

type CacheInvalidator interface {
	Invalidate(ctx context.Context, id uuid.UUID) error
}
