//go:build unit

package commands_test

import (
	"context"
	"testing"
	"time"

	"booking-core/internal/domain/availability"
	"booking-core/internal/domain/reservation"
	"booking-core/internal/domain/resource"
	"booking-core/internal/domain/user"
	"booking-core/internal/infra/cache"
	"booking-core/internal/pkg/clock"
	"booking-core/internal/pkg/config"
	"booking-core/internal/usecase/commands"
	"booking-core/internal/usecase/queries"
	"booking-core/internal/usecase/shared"
	"booking-core/tests/common/builder"
	"booking-core/tests/common/memstore"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
)

var testNow = time.Date(2024, 10, 1, 9, 0, 0, 0, time.UTC)

type fixture struct {
	store     *memstore.Store
	index     *availability.Index
	clock     *clock.MockClock
	cfg       config.BookingConfig
	booking   commands.BookingCommands
	lifecycle commands.LifecycleCommands

	room     shared.ResourceSnapshot
	table    shared.ResourceSnapshot
	guest    shared.Actor
	operator shared.Actor
}

func newFixture(t *testing.T) *fixture {
	t.Helper()

	f := &fixture{
		store: memstore.New(),
		index: availability.NewIndex(),
		clock: clock.NewMockClock(testNow),
		cfg:   config.NewTestConfig().Booking,
	}

	businessID := uuid.New()
	f.room = *builder.NewResourceBuilder().WithBusinessID(businessID).WithCapacity(4).BuildSnapshot()
	f.table = *builder.NewResourceBuilder().WithBusinessID(businessID).AsTable().BuildSnapshot()
	f.store.AddResource(f.room)
	f.store.AddResource(f.table)

	f.guest = shared.Actor{UserID: uuid.New(), Role: user.RoleViewer}
	f.operator = shared.Actor{UserID: uuid.New(), Role: user.RoleOperator}

	reservationQueries := queries.NewReservationQueries(f.store.Views(), cache.NoopCache{})
	f.booking = commands.NewBookingUseCase(f.store, f.index, reservation.NewFactory(f.clock), reservationQueries, f.clock, f.cfg)
	f.lifecycle = commands.NewLifecycleUseCase(f.store, f.index, cache.NoopCache{}, f.clock)
	return f
}

func day(d int) time.Time {
	return time.Date(2024, 10, d, 0, 0, 0, 0, time.UTC)
}

func (f *fixture) roomRequest(startDay, endDay, guests int) commands.BookingRequest {
	return commands.BookingRequest{
		BusinessID:  f.room.BusinessID,
		ResourceID:  f.room.ID,
		Kind:        resource.KindRoom,
		StartAt:     day(startDay),
		EndAt:       day(endDay),
		Guests:      guests,
		AmountCents: 45000,
		Currency:    "USD",
	}
}

func (f *fixture) book(t *testing.T, req commands.BookingRequest) *queries.ReservationView {
	t.Helper()
	result, err := f.booking.Book(context.Background(), f.guest, req, nil)
	require.NoError(t, err)
	require.False(t, result.IsReplayed)
	return result.Reservation
}

func (f *fixture) status(t *testing.T, id uuid.UUID) reservation.Status {
	t.Helper()
	res, ok := f.store.Reservation(id)
	require.True(t, ok, "reservation %s not stored", id)
	return res.Status()
}

func (f *fixture) interval(t *testing.T, startDay, endDay int) reservation.Interval {
	t.Helper()
	iv, err := reservation.NewInterval(day(startDay), day(endDay))
	require.NoError(t, err)
	return iv
}
