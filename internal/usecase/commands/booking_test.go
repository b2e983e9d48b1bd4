//go:build unit

package commands_test

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"errors"
	"sync"
	"testing"
	"time"

	"booking-core/internal/domain/reservation"
	"booking-core/internal/domain/resource"
	"booking-core/internal/infra/cache"
	"booking-core/internal/pkg/errs"
	"booking-core/internal/usecase/commands"
	"booking-core/internal/usecase/queries"
	"booking-core/internal/usecase/shared"
	"booking-core/tests/common/builder"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// =============================================================================
// Book Tests
// =============================================================================

func TestBook_CreatesPendingReservation(t *testing.T) {
	f := newFixture(t)
	note := "Late check-in"
	req := f.roomRequest(15, 17, 2)
	req.Note = note
	req.Currency = ""

	view := f.book(t, req)

	assert.Equal(t, "pending", view.Status)
	assert.Equal(t, f.guest.UserID, view.UserID)
	assert.Equal(t, f.room.Name, view.ResourceName)
	assert.Equal(t, "USD", view.Currency, "empty currency falls back to the configured default")
	require.NotNil(t, view.SpecialRequest)
	assert.Equal(t, note, *view.SpecialRequest)
	assert.Equal(t, testNow, view.CreatedAt)

	assert.Equal(t, reservation.StatusPending, f.status(t, view.ID))
	assert.False(t, f.index.IsFree(f.room.ID, f.interval(t, 16, 17)))

	events := f.store.Events()
	require.Len(t, events, 1)
	assert.Equal(t, commands.EventReservationCreated, events[0].Type)
	assert.Equal(t, view.ID, events[0].ReservationID)
}

func TestBook_ValidationFailuresReserveNothing(t *testing.T) {
	otherBusiness := uuid.New()

	testCases := []struct {
		name    string
		mutate  func(f *fixture, req *commands.BookingRequest)
		wantErr error
	}{
		{
			name:    "guests above capacity",
			mutate:  func(_ *fixture, req *commands.BookingRequest) { req.Guests = 5 },
			wantErr: errs.ErrCapacityExceeded,
		},
		{
			name:    "zero guests",
			mutate:  func(_ *fixture, req *commands.BookingRequest) { req.Guests = 0 },
			wantErr: errs.ErrInvalidReservation,
		},
		{
			name:    "empty interval",
			mutate:  func(_ *fixture, req *commands.BookingRequest) { req.EndAt = req.StartAt },
			wantErr: errs.ErrInvalidInterval,
		},
		{
			name:    "reversed interval",
			mutate:  func(_ *fixture, req *commands.BookingRequest) { req.StartAt, req.EndAt = req.EndAt, req.StartAt },
			wantErr: errs.ErrInvalidInterval,
		},
		{
			name:    "unknown resource",
			mutate:  func(_ *fixture, req *commands.BookingRequest) { req.ResourceID = uuid.New() },
			wantErr: errs.ErrResourceNotFound,
		},
		{
			name:    "resource of another business",
			mutate:  func(_ *fixture, req *commands.BookingRequest) { req.BusinessID = otherBusiness },
			wantErr: errs.ErrResourceNotFound,
		},
		{
			name: "table booked through the hotel path",
			mutate: func(f *fixture, req *commands.BookingRequest) {
				req.ResourceID = f.table.ID
			},
			wantErr: errs.ErrResourceKindInvalid,
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			f := newFixture(t)
			req := f.roomRequest(15, 17, 2)
			tc.mutate(f, &req)

			result, err := f.booking.Book(context.Background(), f.guest, req, nil)

			require.Error(t, err)
			assert.True(t, errs.Is(err, tc.wantErr), "expected %v, got %v", tc.wantErr, err)
			assert.Nil(t, result)
			assert.Empty(t, f.index.Holds(f.room.ID), "index must stay untouched")
			assert.Empty(t, f.index.Holds(f.table.ID))
			assert.Zero(t, f.store.ReservationCount())
		})
	}
}

func TestBook_OverlapRules(t *testing.T) {
	f := newFixture(t)
	f.book(t, f.roomRequest(15, 17, 2))

	t.Run("overlapping interval is unavailable", func(t *testing.T) {
		_, err := f.booking.Book(context.Background(), f.guest, f.roomRequest(16, 18, 2), nil)
		require.Error(t, err)
		assert.True(t, errs.Is(err, errs.ErrSlotUnavailable))
	})

	t.Run("touching boundaries do not conflict", func(t *testing.T) {
		f.book(t, f.roomRequest(17, 19, 2))
		f.book(t, f.roomRequest(13, 15, 2))
	})

	t.Run("other resources are independent", func(t *testing.T) {
		req := f.roomRequest(15, 17, 2)
		req.ResourceID = f.table.ID
		req.Kind = resource.KindTable
		f.book(t, req)
	})

	assert.Equal(t, 4, f.store.ReservationCount())
}

func TestBook_ConcurrentOverlappingRequestsExactlyOneWins(t *testing.T) {
	f := newFixture(t)

	// every interval covers the night of the 15th, so all pairs overlap
	var reqs []commands.BookingRequest
	for _, start := range []int{13, 14, 15} {
		for _, end := range []int{16, 17, 18} {
			for range 6 {
				reqs = append(reqs, f.roomRequest(start, end, 1))
			}
		}
	}

	var (
		wg        sync.WaitGroup
		mu        sync.Mutex
		successes int
		failures  []error
	)
	start := make(chan struct{})
	for _, req := range reqs {
		wg.Add(1)
		go func(req commands.BookingRequest) {
			defer wg.Done()
			<-start
			actor := shared.Actor{UserID: uuid.New(), Role: f.guest.Role}
			_, err := f.booking.Book(context.Background(), actor, req, nil)
			mu.Lock()
			defer mu.Unlock()
			if err == nil {
				successes++
				return
			}
			failures = append(failures, err)
		}(req)
	}
	close(start)
	wg.Wait()

	assert.Equal(t, 1, successes)
	for _, err := range failures {
		assert.True(t, errs.Is(err, errs.ErrSlotUnavailable), "unexpected error: %v", err)
	}
	assert.Equal(t, 1, f.store.ReservationCount())
	assert.Len(t, f.index.Holds(f.room.ID), 1)
}

// =============================================================================
// Compensation Tests
// =============================================================================

func TestBook_PersistFailureReleasesHold(t *testing.T) {
	testCases := []struct {
		name    string
		book    func(f *fixture) error
		wantErr error
	}{
		{
			name: "insert fails",
			book: func(f *fixture) error {
				f.store.FailNextCreate(errors.New("connection reset"))
				_, err := f.booking.Book(context.Background(), f.guest, f.roomRequest(15, 17, 2), nil)
				return err
			},
			wantErr: errs.ErrDatabaseOperationFailed,
		},
		{
			name: "outbox append fails",
			book: func(f *fixture) error {
				f.store.FailNextAppend(errors.New("connection reset"))
				_, err := f.booking.Book(context.Background(), f.guest, f.roomRequest(15, 17, 2), nil)
				return err
			},
			wantErr: errs.ErrDatabaseOperationFailed,
		},
		{
			// no idempotency key, so the first transaction is the insert
			name: "caller cancels after the hold is taken",
			book: func(f *fixture) error {
				ctx, cancel := context.WithCancel(context.Background())
				defer cancel()
				cancelling := &racingStore{Store: f.store, before: cancel}
				booking := commands.NewBookingUseCase(cancelling, f.index, reservation.NewFactory(f.clock),
					queries.NewReservationQueries(f.store.Views(), cache.NoopCache{}), f.clock, f.cfg)

				_, err := booking.Book(ctx, f.guest, f.roomRequest(15, 17, 2), nil)
				return err
			},
			wantErr: context.Canceled,
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			f := newFixture(t)

			err := tc.book(f)

			require.Error(t, err)
			assert.True(t, errs.Is(err, tc.wantErr), "got %v", err)
			if tc.wantErr == context.Canceled {
				assert.False(t, errs.Is(err, errs.ErrDatabaseOperationFailed), "cancellation is not a database fault")
			}
			assert.True(t, f.index.IsFree(f.room.ID, f.interval(t, 15, 17)), "hold must be released")
			assert.Empty(t, f.index.Holds(f.room.ID))
			assert.Zero(t, f.store.ReservationCount())
			assert.Empty(t, f.store.Events())

			f.book(t, f.roomRequest(15, 17, 2))
		})
	}
}

func TestBook_HoldUnknownToIndexIsRejectedByStorage(t *testing.T) {
	f := newFixture(t)

	// written by another process; this process's index has never seen it
	foreign, err := builder.NewReservationBuilder().
		WithResource(f.room.ID, f.room.BusinessID).
		WithPeriod(day(15), day(17)).
		AsConfirmed().
		BuildDomain()
	require.NoError(t, err)
	f.store.PutReservation(foreign)

	_, err = f.booking.Book(context.Background(), f.guest, f.roomRequest(16, 18, 2), nil)

	require.Error(t, err)
	assert.True(t, errs.Is(err, errs.ErrSlotUnavailable))
	assert.True(t, f.index.IsFree(f.room.ID, f.interval(t, 16, 18)))
	assert.Equal(t, 1, f.store.ReservationCount())
}

func TestBook_StaleHoldIsReconciled(t *testing.T) {
	f := newFixture(t)
	first := f.book(t, f.roomRequest(15, 17, 2))

	// cancelled by another process; this index still holds the interval
	f.store.ForceStatus(first.ID, reservation.StatusCancelled, testNow.Add(time.Minute))

	second := f.book(t, f.roomRequest(16, 18, 2))

	holds := f.index.Holds(f.room.ID)
	require.Len(t, holds, 1)
	assert.Equal(t, second.ID, holds[0].Ref)
}

func TestBook_LiveHoldIsNotReconciled(t *testing.T) {
	f := newFixture(t)
	first := f.book(t, f.roomRequest(15, 17, 2))
	_, err := f.lifecycle.Confirm(context.Background(), f.operator, first.ID)
	require.NoError(t, err)

	_, err = f.booking.Book(context.Background(), f.guest, f.roomRequest(16, 18, 2), nil)

	assert.True(t, errs.Is(err, errs.ErrSlotUnavailable))
	require.Len(t, f.index.Holds(f.room.ID), 1)
}

// =============================================================================
// Idempotency Tests
// =============================================================================

func TestBook_Idempotency(t *testing.T) {
	ctx := context.Background()

	t.Run("same key and body replays the stored reservation", func(t *testing.T) {
		f := newFixture(t)
		key := uuid.New()

		first, err := f.booking.Book(ctx, f.guest, f.roomRequest(15, 17, 2), &key)
		require.NoError(t, err)
		second, err := f.booking.Book(ctx, f.guest, f.roomRequest(15, 17, 2), &key)
		require.NoError(t, err)

		assert.False(t, first.IsReplayed)
		assert.True(t, second.IsReplayed)
		assert.Equal(t, first.Reservation.ID, second.Reservation.ID)
		assert.Equal(t, 1, f.store.ReservationCount())

		rec, ok := f.store.IdempotencyKey(key, f.guest.UserID)
		require.True(t, ok)
		assert.Equal(t, shared.IdempotencyStatusCompleted, rec.Status)
	})

	t.Run("same key with another body is rejected", func(t *testing.T) {
		f := newFixture(t)
		key := uuid.New()

		_, err := f.booking.Book(ctx, f.guest, f.roomRequest(15, 17, 2), &key)
		require.NoError(t, err)
		_, err = f.booking.Book(ctx, f.guest, f.roomRequest(20, 22, 2), &key)

		assert.True(t, errs.Is(err, errs.ErrDuplicateReservation))
		assert.Equal(t, 1, f.store.ReservationCount())
	})

	t.Run("keys are scoped per requester", func(t *testing.T) {
		f := newFixture(t)
		key := uuid.New()
		other := shared.Actor{UserID: uuid.New(), Role: f.guest.Role}

		_, err := f.booking.Book(ctx, f.guest, f.roomRequest(15, 17, 2), &key)
		require.NoError(t, err)
		result, err := f.booking.Book(ctx, other, f.roomRequest(20, 22, 2), &key)
		require.NoError(t, err)
		assert.False(t, result.IsReplayed)
	})

	t.Run("failed attempt frees the key", func(t *testing.T) {
		f := newFixture(t)
		key := uuid.New()

		_, err := f.booking.Book(ctx, f.guest, f.roomRequest(15, 17, 9), &key)
		require.True(t, errs.Is(err, errs.ErrCapacityExceeded))
		_, ok := f.store.IdempotencyKey(key, f.guest.UserID)
		assert.False(t, ok)

		result, err := f.booking.Book(ctx, f.guest, f.roomRequest(15, 17, 2), &key)
		require.NoError(t, err)
		assert.False(t, result.IsReplayed)
	})

	t.Run("in-flight key", func(t *testing.T) {
		req := func(f *fixture) commands.BookingRequest { return f.roomRequest(15, 17, 2) }
		cases := []struct {
			name    string
			hash    func(f *fixture) string
			wantErr error
		}{
			{name: "same body reports in progress", hash: func(f *fixture) string { return requestHash(t, req(f)) }, wantErr: errs.ErrIdempotencyInProgress},
			{name: "another body is rejected", hash: func(*fixture) string { return "other-hash" }, wantErr: errs.ErrDuplicateReservation},
		}
		for _, tc := range cases {
			t.Run(tc.name, func(t *testing.T) {
				f := newFixture(t)
				key := uuid.New()
				err := f.store.Within(ctx, func(ctx context.Context, tx shared.Tx) error {
					_, err := tx.Idempotency().TryInsert(ctx, tx.DB(), key, f.guest.UserID, "POST /reservations", tc.hash(f), testNow.Add(time.Hour))
					return err
				})
				require.NoError(t, err)

				_, err = f.booking.Book(ctx, f.guest, req(f), &key)
				assert.True(t, errs.Is(err, tc.wantErr), "got %v", err)

				_, ok := f.store.IdempotencyKey(key, f.guest.UserID)
				assert.True(t, ok, "the other request keeps its key")
				assert.Zero(t, f.store.ReservationCount())
			})
		}
	})

	t.Run("expired key can be reused", func(t *testing.T) {
		f := newFixture(t)
		key := uuid.New()

		_, err := f.booking.Book(ctx, f.guest, f.roomRequest(15, 17, 2), &key)
		require.NoError(t, err)

		f.clock.Add(f.cfg.IdempotencyTTL + time.Minute)
		result, err := f.booking.Book(ctx, f.guest, f.roomRequest(20, 22, 2), &key)
		require.NoError(t, err)
		assert.False(t, result.IsReplayed)
		assert.Equal(t, 2, f.store.ReservationCount())
	})
}

func requestHash(t *testing.T, req commands.BookingRequest) string {
	t.Helper()
	data, err := json.Marshal(req)
	require.NoError(t, err)
	sum := sha256.Sum256(data)
	return hex.EncodeToString(sum[:])
}

// =============================================================================
// End-to-end lifecycle
// =============================================================================

func TestBookingScenario_CancelFreesTheSlot(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	requesterB := shared.Actor{UserID: uuid.New(), Role: f.guest.Role}

	a := f.book(t, f.roomRequest(15, 17, 2))
	assert.Equal(t, "pending", a.Status)

	_, err := f.booking.Book(ctx, requesterB, f.roomRequest(16, 18, 2), nil)
	require.True(t, errs.Is(err, errs.ErrSlotUnavailable))

	confirmed, err := f.lifecycle.Confirm(ctx, f.operator, a.ID)
	require.NoError(t, err)
	assert.Equal(t, reservation.StatusConfirmed, confirmed.Status)

	cancelled, err := f.lifecycle.Cancel(ctx, f.guest, a.ID)
	require.NoError(t, err)
	assert.Equal(t, reservation.StatusCancelled, cancelled.Status)
	assert.True(t, f.index.IsFree(f.room.ID, f.interval(t, 15, 17)))

	b, err := f.booking.Book(ctx, requesterB, f.roomRequest(16, 18, 2), nil)
	require.NoError(t, err)
	assert.Equal(t, "pending", b.Reservation.Status)

	types := make([]string, 0, 4)
	for _, ev := range f.store.Events() {
		types = append(types, ev.Type)
	}
	assert.Equal(t, []string{
		commands.EventReservationCreated,
		commands.EventReservationConfirmed,
		commands.EventReservationCancelled,
		commands.EventReservationCreated,
	}, types)
}

func TestBookingScenario_BookCancelBookAgain(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)

	first := f.book(t, f.roomRequest(15, 17, 2))
	_, err := f.lifecycle.Cancel(ctx, f.guest, first.ID)
	require.NoError(t, err)

	second := f.book(t, f.roomRequest(15, 17, 2))
	assert.NotEqual(t, first.ID, second.ID)
}
