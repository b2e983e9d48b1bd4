package shared

import (
	"time"

	"booking-core/internal/domain/user"

	"github.com/google/uuid"
)

// Actor is the authenticated requester resolved by the auth middleware.
type Actor struct {
	UserID uuid.UUID
	Role   user.Role
}

// SystemActor runs scheduled maintenance such as the sweep.
func SystemActor() Actor {
	return Actor{UserID: uuid.Nil, Role: user.RoleAdmin}
}

// CanAccess is true for the owner of a record and for staff.
func (a Actor) CanAccess(ownerID uuid.UUID) bool {
	return a.UserID == ownerID || a.Role.IsStaff()
}

type ResourceSnapshot struct {
	ID         uuid.UUID
	BusinessID uuid.UUID
	Kind       string
	Capacity   int
	Name       string
}

type IdempotencyRecord struct {
	Key                 uuid.UUID
	UserID              uuid.UUID
	Status              string
	RequestHash         string
	ResultReservationID *uuid.UUID
	ExpiresAt           time.Time
}

const (
	IdempotencyStatusProcessing = "processing"
	IdempotencyStatusCompleted  = "completed"
)

// HeldInterval is the minimal projection used to rebuild the availability index.
type HeldInterval struct {
	ReservationID uuid.UUID
	ResourceID    uuid.UUID
	Start         time.Time
	End           time.Time
}

type ReservationEvent struct {
	ReservationID uuid.UUID
	ResourceID    uuid.UUID
	Type          string
	Payload       []byte
	OccurredAt    time.Time
}

// OutboxEvent is a persisted ReservationEvent awaiting publication.
type OutboxEvent struct {
	ID            int64
	ReservationID uuid.UUID
	ResourceID    uuid.UUID
	Type          string
	Payload       []byte
	CreatedAt     time.Time
}
