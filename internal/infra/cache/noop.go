package cache

import (
	"context"

	"booking-core/internal/usecase/queries"

	"github.com/google/uuid"
)

// NoopCache always misses. Used when no Redis address is configured.
type NoopCache struct{}

func (NoopCache) Get(context.Context, uuid.UUID) (*queries.ReservationView, error) { return nil, nil }
func (NoopCache) Set(context.Context, *queries.ReservationView) error              { return nil }
func (NoopCache) Invalidate(context.Context, uuid.UUID) error                      { return nil }
