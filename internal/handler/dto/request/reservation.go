package request

import (
	"strings"
	"time"

	"booking-core/internal/domain/resource"
	"booking-core/internal/pkg/errs"
	"booking-core/internal/usecase/commands"

	"github.com/google/uuid"
)

const hotelDateLayout = time.DateOnly

type CreateHotelReservationRequest struct {
	BusinessID       uuid.UUID `json:"businessId" binding:"required"`
	RoomID           uuid.UUID `json:"roomId" binding:"required"`
	StartDate        string    `json:"startDate" binding:"required,notblank"`
	EndDate          string    `json:"endDate" binding:"required,notblank"`
	Guests           int       `json:"guests"`
	TotalAmountCents int64     `json:"totalAmountCents" binding:"gte=0"`
	Currency         string    `json:"currency" binding:"omitempty,iso4217"`
	Note             *string   `json:"note,omitempty" binding:"omitempty,max=1000"`
}

type CreateRestaurantReservationRequest struct {
	BusinessID       uuid.UUID `json:"businessId" binding:"required"`
	TableID          uuid.UUID `json:"tableId" binding:"required"`
	StartDate        string    `json:"startDate" binding:"required,notblank"`
	EndDate          string    `json:"endDate" binding:"required,notblank"`
	Guests           int       `json:"guests"`
	TotalAmountCents int64     `json:"totalAmountCents" binding:"gte=0"`
	Currency         string    `json:"currency" binding:"omitempty,iso4217"`
	Note             *string   `json:"note,omitempty" binding:"omitempty,max=1000"`
}

// ToCommand parses YYYY-MM-DD dates as UTC midnights.
func (r *CreateHotelReservationRequest) ToCommand() (commands.BookingRequest, error) {
	start, err := time.ParseInLocation(hotelDateLayout, strings.TrimSpace(r.StartDate), time.UTC)
	if err != nil {
		return commands.BookingRequest{}, errs.Mark(err, errs.ErrInvalidInterval)
	}
	end, err := time.ParseInLocation(hotelDateLayout, strings.TrimSpace(r.EndDate), time.UTC)
	if err != nil {
		return commands.BookingRequest{}, errs.Mark(err, errs.ErrInvalidInterval)
	}

	return commands.BookingRequest{
		BusinessID:  r.BusinessID,
		ResourceID:  r.RoomID,
		Kind:        resource.KindRoom,
		StartAt:     start,
		EndAt:       end,
		Guests:      r.Guests,
		AmountCents: r.TotalAmountCents,
		Currency:    strings.ToUpper(r.Currency),
		Note:        trimNote(r.Note),
	}, nil
}

// ToCommand parses RFC 3339 timestamps and normalizes them to UTC.
func (r *CreateRestaurantReservationRequest) ToCommand() (commands.BookingRequest, error) {
	start, err := time.Parse(time.RFC3339, strings.TrimSpace(r.StartDate))
	if err != nil {
		return commands.BookingRequest{}, errs.Mark(err, errs.ErrInvalidInterval)
	}
	end, err := time.Parse(time.RFC3339, strings.TrimSpace(r.EndDate))
	if err != nil {
		return commands.BookingRequest{}, errs.Mark(err, errs.ErrInvalidInterval)
	}

	return commands.BookingRequest{
		BusinessID:  r.BusinessID,
		ResourceID:  r.TableID,
		Kind:        resource.KindTable,
		StartAt:     start.UTC(),
		EndAt:       end.UTC(),
		Guests:      r.Guests,
		AmountCents: r.TotalAmountCents,
		Currency:    strings.ToUpper(r.Currency),
		Note:        trimNote(r.Note),
	}, nil
}

func trimNote(note *string) string {
	if note == nil {
		return ""
	}
	return strings.TrimSpace(*note)
}
