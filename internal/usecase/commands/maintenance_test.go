//go:build unit

package commands_test

import (
	"context"
	"errors"
	"testing"

	"booking-core/internal/domain/availability"
	"booking-core/internal/domain/reservation"
	"booking-core/internal/infra/cache"
	"booking-core/internal/pkg/errs"
	"booking-core/internal/usecase/commands"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type failingSweeper struct {
	err error
}

func (s failingSweeper) Sweep(context.Context) (*commands.SweepReport, error) {
	return nil, s.err
}

// bookPendingAndConfirmed books [15,17) left PENDING and [20,22) CONFIRMED,
// then moves the clock past both.
func bookPendingAndConfirmed(t *testing.T, f *fixture) (pending, confirmed uuid.UUID) {
	t.Helper()
	a := f.book(t, f.roomRequest(15, 17, 2))
	b := f.book(t, f.roomRequest(20, 22, 2))
	_, err := f.lifecycle.Confirm(context.Background(), f.operator, b.ID)
	require.NoError(t, err)
	f.clock.Set(day(25))
	return a.ID, b.ID
}

func TestReconcileIndex(t *testing.T) {
	ctx := context.Background()

	t.Run("releases holds finished by another process", func(t *testing.T) {
		f := newFixture(t)
		pending, confirmed := bookPendingAndConfirmed(t, f)

		// a separate sweep process over the same storage, with an index of its own
		otherIndex := availability.NewIndex()
		_, err := commands.WarmUpIndex(ctx, f.store, otherIndex)
		require.NoError(t, err)
		otherLifecycle := commands.NewLifecycleUseCase(f.store, otherIndex, cache.NoopCache{}, f.clock)
		swept, err := commands.NewSweepUseCase(f.store, otherLifecycle, f.clock, f.cfg).Sweep(ctx)
		require.NoError(t, err)
		require.Equal(t, 1, swept.Completed)
		require.Equal(t, 1, swept.Cancelled)
		assert.Equal(t, reservation.StatusCancelled, f.status(t, pending))
		assert.Equal(t, reservation.StatusCompleted, f.status(t, confirmed))
		assert.Empty(t, otherIndex.Holds(f.room.ID))

		// this process has not seen either transition
		assert.False(t, f.index.IsFree(f.room.ID, f.interval(t, 15, 17)))
		assert.Len(t, f.index.Holds(f.room.ID), 2)

		report, err := commands.ReconcileIndex(ctx, f.store, f.index)

		require.NoError(t, err)
		assert.Equal(t, commands.ReconcileReport{Released: 2}, report)
		assert.True(t, f.index.IsFree(f.room.ID, f.interval(t, 15, 17)))
		assert.True(t, f.index.IsFree(f.room.ID, f.interval(t, 20, 22)))
		assert.Empty(t, f.index.Holds(f.room.ID))
		assert.Empty(t, f.index.Resources())
	})

	t.Run("keeps holds of bookings not yet stored", func(t *testing.T) {
		f := newFixture(t)
		inFlight := uuid.New()
		_, err := f.index.Reserve(f.room.ID, f.interval(t, 15, 17), inFlight)
		require.NoError(t, err)

		report, err := commands.ReconcileIndex(ctx, f.store, f.index)

		require.NoError(t, err)
		assert.Equal(t, commands.ReconcileReport{}, report)
		holds := f.index.Holds(f.room.ID)
		require.Len(t, holds, 1)
		assert.Equal(t, inFlight, holds[0].Ref)
	})

	t.Run("leaves live holds alone", func(t *testing.T) {
		f := newFixture(t)
		res := f.book(t, f.roomRequest(15, 17, 2))

		report, err := commands.ReconcileIndex(ctx, f.store, f.index)

		require.NoError(t, err)
		assert.Equal(t, commands.ReconcileReport{}, report)
		holds := f.index.Holds(f.room.ID)
		require.Len(t, holds, 1)
		assert.Equal(t, res.ID, holds[0].Ref)
	})

	t.Run("adopts holds written by another process", func(t *testing.T) {
		f := newFixture(t)
		foreign := f.seed(t, f.room, 15, 17, reservation.StatusConfirmed, testNow)
		require.True(t, f.index.IsFree(f.room.ID, f.interval(t, 15, 17)))

		report, err := commands.ReconcileIndex(ctx, f.store, f.index)

		require.NoError(t, err)
		assert.Equal(t, commands.ReconcileReport{Adopted: 1}, report)
		assert.False(t, f.index.IsFree(f.room.ID, f.interval(t, 16, 17)))
		assert.Equal(t, foreign, f.index.Holds(f.room.ID)[0].Ref)

		again, err := commands.ReconcileIndex(ctx, f.store, f.index)
		require.NoError(t, err)
		assert.Equal(t, commands.ReconcileReport{}, again)
	})

	t.Run("stops on cancelled context", func(t *testing.T) {
		f := newFixture(t)
		_, err := f.index.Reserve(f.room.ID, f.interval(t, 15, 17), uuid.New())
		require.NoError(t, err)
		cancelled, cancel := context.WithCancel(ctx)
		cancel()

		_, err = commands.ReconcileIndex(cancelled, f.store, f.index)

		assert.Error(t, err)
		assert.Len(t, f.index.Holds(f.room.ID), 1)
	})
}

func TestIndexMaintainer_RunOnce(t *testing.T) {
	ctx := context.Background()

	t.Run("sweep releases holds in the serving index", func(t *testing.T) {
		f := newFixture(t)
		pending, confirmed := bookPendingAndConfirmed(t, f)
		m := commands.NewIndexMaintainer(f.store, f.index,
			commands.NewSweepUseCase(f.store, f.lifecycle, f.clock, f.cfg), f.cfg)

		report, err := m.RunOnce(ctx)

		require.NoError(t, err)
		assert.Equal(t, &commands.SweepReport{Completed: 1, Cancelled: 1}, report.Sweep)
		assert.Equal(t, commands.ReconcileReport{}, report.Reconcile, "nothing left to reconcile")
		assert.Equal(t, reservation.StatusCancelled, f.status(t, pending))
		assert.Equal(t, reservation.StatusCompleted, f.status(t, confirmed))
		assert.True(t, f.index.IsFree(f.room.ID, f.interval(t, 15, 17)))
		assert.Empty(t, f.index.Holds(f.room.ID))
	})

	t.Run("reconciles even when the sweep fails", func(t *testing.T) {
		f := newFixture(t)
		res := f.book(t, f.roomRequest(15, 17, 2))
		f.store.ForceStatus(res.ID, reservation.StatusCancelled, testNow)
		sweepErr := errs.Mark(errors.New("connection reset"), errs.ErrDatabaseOperationFailed)
		m := commands.NewIndexMaintainer(f.store, f.index, failingSweeper{err: sweepErr}, f.cfg)

		report, err := m.RunOnce(ctx)

		require.Error(t, err)
		assert.True(t, errs.Is(err, errs.ErrDatabaseOperationFailed))
		assert.Equal(t, 1, report.Reconcile.Released)
		assert.True(t, f.index.IsFree(f.room.ID, f.interval(t, 15, 17)))
	})
}

func TestIndexMaintainer_RunStopsWithContext(t *testing.T) {
	f := newFixture(t)
	m := commands.NewIndexMaintainer(f.store, f.index, failingSweeper{}, f.cfg)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	assert.NoError(t, m.Run(ctx))
}
