package response

import (
	"time"

	"booking-core/internal/usecase/commands"
	"booking-core/internal/usecase/queries"

	"github.com/google/uuid"
	"github.com/jinzhu/copier"
)

type ReservationResponse struct {
	ID               uuid.UUID `json:"id"`
	UserID           uuid.UUID `json:"userId"`
	BusinessID       uuid.UUID `json:"businessId"`
	ResourceID       uuid.UUID `json:"resourceId"`
	ResourceName     string    `json:"resourceName"`
	ResourceKind     string    `json:"resourceKind"`
	StartAt          time.Time `json:"startAt"`
	EndAt            time.Time `json:"endAt"`
	GuestCount       int       `json:"guestCount"`
	Status           string    `json:"status"`
	TotalAmountCents int64     `json:"totalAmountCents"`
	Currency         string    `json:"currency"`
	SpecialRequest   *string   `json:"note,omitempty"`
	CreatedAt        time.Time `json:"createdAt"`
	UpdatedAt        time.Time `json:"updatedAt"`
}

type ReservationListResponse struct {
	Items      []*ReservationResponse `json:"items"`
	NextCursor *string                `json:"nextCursor,omitempty"`
}

type TransitionResponse struct {
	ReservationID  uuid.UUID `json:"reservationId"`
	Status         string    `json:"status"`
	PreviousStatus string    `json:"previousStatus"`
	UpdatedAt      time.Time `json:"updatedAt"`
	Changed        bool      `json:"changed"`
}

type AvailabilityResponse struct {
	BusinessID uuid.UUID `json:"businessId"`
	ResourceID uuid.UUID `json:"resourceId"`
	StartAt    time.Time `json:"startAt"`
	EndAt      time.Time `json:"endAt"`
	Available  bool      `json:"available"`
}

func FromReservationView(v *queries.ReservationView) (*ReservationResponse, error) {
	var out ReservationResponse
	if err := copier.Copy(&out, v); err != nil {
		return nil, err
	}
	return &out, nil
}

func FromReservationPage(views []*queries.ReservationView, next *queries.Cursor) (*ReservationListResponse, error) {
	items := make([]*ReservationResponse, 0, len(views))
	if err := copier.Copy(&items, views); err != nil {
		return nil, err
	}

	resp := &ReservationListResponse{Items: items}
	if next != nil && next.After != "" {
		after := next.After
		resp.NextCursor = &after
	}
	return resp, nil
}

func FromTransitionResult(r *commands.TransitionResult) *TransitionResponse {
	return &TransitionResponse{
		ReservationID:  r.ReservationID,
		Status:         r.Status.String(),
		PreviousStatus: r.PreviousStatus.String(),
		UpdatedAt:      r.UpdatedAt,
		Changed:        r.Changed,
	}
}

func FromAvailabilityView(v *queries.AvailabilityView) (*AvailabilityResponse, error) {
	var out AvailabilityResponse
	if err := copier.Copy(&out, v); err != nil {
		return nil, err
	}
	return &out, nil
}
