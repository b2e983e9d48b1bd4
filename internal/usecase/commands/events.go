package commands

import (
	"encoding/json"
	"time"

	"booking-core/internal/domain/reservation"
	"booking-core/internal/usecase/shared"

	"github.com/google/uuid"
)

const (
	EventReservationCreated   = "reservation.created"
	EventReservationConfirmed = "reservation.confirmed"
	EventReservationCancelled = "reservation.cancelled"
	EventReservationCompleted = "reservation.completed"
)

type reservationEventPayload struct {
	Type           string    `json:"type"`
	ReservationID  uuid.UUID `json:"reservation_id"`
	BusinessID     uuid.UUID `json:"business_id"`
	ResourceID     uuid.UUID `json:"resource_id"`
	UserID         uuid.UUID `json:"user_id"`
	Status         string    `json:"status"`
	PreviousStatus string    `json:"previous_status,omitempty"`
	StartAt        time.Time `json:"start_at"`
	EndAt          time.Time `json:"end_at"`
	OccurredAt     time.Time `json:"occurred_at"`
}

func eventTypeFor(status reservation.Status) string {
	switch status {
	case reservation.StatusConfirmed:
		return EventReservationConfirmed
	case reservation.StatusCancelled:
		return EventReservationCancelled
	case reservation.StatusCompleted:
		return EventReservationCompleted
	default:
		return EventReservationCreated
	}
}

func newReservationEvent(res *reservation.Reservation, previous reservation.Status, at time.Time) (shared.ReservationEvent, error) {
	eventType := eventTypeFor(res.Status())
	payload, err := json.Marshal(reservationEventPayload{
		Type:           eventType,
		ReservationID:  res.ID(),
		BusinessID:     res.BusinessID(),
		ResourceID:     res.ResourceID(),
		UserID:         res.UserID(),
		Status:         res.Status().String(),
		PreviousStatus: previous.String(),
		StartAt:        res.Interval().Start(),
		EndAt:          res.Interval().End(),
		OccurredAt:     at,
	})
	if err != nil {
		return shared.ReservationEvent{}, err
	}

	return shared.ReservationEvent{
		ReservationID: res.ID(),
		ResourceID:    res.ResourceID(),
		Type:          eventType,
		Payload:       payload,
		OccurredAt:    at,
	}, nil
}
