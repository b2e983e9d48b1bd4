package queries

import (
	"time"

	"booking-core/internal/pkg/errs"

	"github.com/google/uuid"
)

var ErrInvalidCursor = errs.New("invalid cursor")

// ReservationView represents read-optimized reservation data joined with its resource
type ReservationView struct {
	ID               uuid.UUID `json:"id"`
	UserID           uuid.UUID `json:"user_id"`
	BusinessID       uuid.UUID `json:"business_id"`
	ResourceID       uuid.UUID `json:"resource_id"`
	ResourceName     string    `json:"resource_name"`
	ResourceKind     string    `json:"resource_kind"`
	StartAt          time.Time `json:"start_at"`
	EndAt            time.Time `json:"end_at"`
	GuestCount       int       `json:"guest_count"`
	Status           string    `json:"status"`
	TotalAmountCents int64     `json:"total_amount_cents"`
	Currency         string    `json:"currency"`
	SpecialRequest   *string   `json:"special_request,omitempty"`
	CreatedAt        time.Time `json:"created_at"`
	UpdatedAt        time.Time `json:"updated_at"`
}

// AvailabilityView is the answer of the availability probe
type AvailabilityView struct {
	BusinessID uuid.UUID `json:"business_id"`
	ResourceID uuid.UUID `json:"resource_id"`
	StartAt    time.Time `json:"start_at"`
	EndAt      time.Time `json:"end_at"`
	Available  bool      `json:"available"`
}

// Keyset is the decoded position of a list cursor
type Keyset struct {
	CreatedAt time.Time
	ID        uuid.UUID
}
