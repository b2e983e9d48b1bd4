//go:build unit

package availability_test

import (
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"booking-core/internal/domain/availability"
	"booking-core/internal/domain/reservation"
	"booking-core/internal/pkg/errs"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func iv(t *testing.T, startDay, endDay int) reservation.Interval {
	t.Helper()
	out, err := reservation.NewInterval(
		time.Date(2024, 10, startDay, 0, 0, 0, 0, time.UTC),
		time.Date(2024, 10, endDay, 0, 0, 0, 0, time.UTC),
	)
	require.NoError(t, err)
	return out
}

func TestReserve(t *testing.T) {
	t.Run("grants free interval and returns token", func(t *testing.T) {
		idx := availability.NewIndex()
		resourceID, ref := uuid.New(), uuid.New()

		tok, err := idx.Reserve(resourceID, iv(t, 15, 17), ref)
		require.NoError(t, err)
		assert.Equal(t, resourceID, tok.ResourceID)
		assert.Equal(t, ref, tok.Ref)
		assert.False(t, idx.IsFree(resourceID, iv(t, 16, 18)))
	})

	t.Run("overlap returns conflict with the blocking holds", func(t *testing.T) {
		idx := availability.NewIndex()
		resourceID, holder := uuid.New(), uuid.New()
		_, err := idx.Reserve(resourceID, iv(t, 15, 17), holder)
		require.NoError(t, err)

		_, err = idx.Reserve(resourceID, iv(t, 16, 18), uuid.New())
		require.Error(t, err)
		assert.True(t, errs.Is(err, errs.ErrSlotUnavailable))

		var conflict *availability.ConflictError
		require.True(t, errs.As(err, &conflict))
		require.Len(t, conflict.Holds, 1)
		assert.Equal(t, holder, conflict.Holds[0].Ref)
	})

	t.Run("conflict lists every overlapping hold", func(t *testing.T) {
		idx := availability.NewIndex()
		resourceID := uuid.New()
		for _, span := range [][2]int{{1, 3}, {3, 5}, {5, 7}, {10, 12}} {
			_, err := idx.Reserve(resourceID, iv(t, span[0], span[1]), uuid.New())
			require.NoError(t, err)
		}

		_, err := idx.Reserve(resourceID, iv(t, 2, 6), uuid.New())
		var conflict *availability.ConflictError
		require.True(t, errs.As(err, &conflict))
		assert.Len(t, conflict.Holds, 3)
	})

	t.Run("touching boundaries do not conflict", func(t *testing.T) {
		idx := availability.NewIndex()
		resourceID := uuid.New()
		_, err := idx.Reserve(resourceID, iv(t, 15, 17), uuid.New())
		require.NoError(t, err)

		_, err = idx.Reserve(resourceID, iv(t, 17, 19), uuid.New())
		require.NoError(t, err)
		_, err = idx.Reserve(resourceID, iv(t, 13, 15), uuid.New())
		require.NoError(t, err)

		holds := idx.Holds(resourceID)
		require.Len(t, holds, 3)
		for i := 1; i < len(holds); i++ {
			assert.True(t, holds[i-1].Interval.Start().Before(holds[i].Interval.Start()), "holds must stay ordered")
		}
	})

	t.Run("fills a gap between holds", func(t *testing.T) {
		idx := availability.NewIndex()
		resourceID := uuid.New()
		_, err := idx.Reserve(resourceID, iv(t, 1, 5), uuid.New())
		require.NoError(t, err)
		_, err = idx.Reserve(resourceID, iv(t, 10, 15), uuid.New())
		require.NoError(t, err)

		assert.True(t, idx.IsFree(resourceID, iv(t, 5, 10)))
		_, err = idx.Reserve(resourceID, iv(t, 5, 10), uuid.New())
		require.NoError(t, err)
		assert.False(t, idx.IsFree(resourceID, iv(t, 9, 11)))
	})

	t.Run("resources are independent", func(t *testing.T) {
		idx := availability.NewIndex()
		_, err := idx.Reserve(uuid.New(), iv(t, 15, 17), uuid.New())
		require.NoError(t, err)
		_, err = idx.Reserve(uuid.New(), iv(t, 15, 17), uuid.New())
		require.NoError(t, err)
	})
}

func TestRelease(t *testing.T) {
	t.Run("released interval can be reserved again", func(t *testing.T) {
		idx := availability.NewIndex()
		resourceID := uuid.New()
		_, err := idx.Reserve(resourceID, iv(t, 15, 17), uuid.New())
		require.NoError(t, err)

		idx.Release(resourceID, iv(t, 15, 17))
		assert.True(t, idx.IsFree(resourceID, iv(t, 15, 17)))
		_, err = idx.Reserve(resourceID, iv(t, 16, 18), uuid.New())
		require.NoError(t, err)
	})

	t.Run("releasing an unheld interval is a no-op", func(t *testing.T) {
		idx := availability.NewIndex()
		resourceID := uuid.New()
		_, err := idx.Reserve(resourceID, iv(t, 15, 17), uuid.New())
		require.NoError(t, err)

		idx.Release(resourceID, iv(t, 15, 16))
		idx.Release(resourceID, iv(t, 20, 22))
		idx.Release(uuid.New(), iv(t, 15, 17))

		assert.Len(t, idx.Holds(resourceID), 1)
		idx.Release(resourceID, iv(t, 15, 17))
		idx.Release(resourceID, iv(t, 15, 17))
		assert.Empty(t, idx.Holds(resourceID))
	})

	t.Run("token release keeps another owner's hold", func(t *testing.T) {
		idx := availability.NewIndex()
		resourceID := uuid.New()
		stale, err := idx.Reserve(resourceID, iv(t, 15, 17), uuid.New())
		require.NoError(t, err)
		idx.Release(resourceID, iv(t, 15, 17))
		_, err = idx.Reserve(resourceID, iv(t, 15, 17), uuid.New())
		require.NoError(t, err)

		idx.ReleaseToken(stale)
		assert.False(t, idx.IsFree(resourceID, iv(t, 15, 17)))
	})
}

func TestResources(t *testing.T) {
	idx := availability.NewIndex()
	room, table := uuid.New(), uuid.New()
	_, err := idx.Reserve(room, iv(t, 15, 17), uuid.New())
	require.NoError(t, err)
	_, err = idx.Reserve(table, iv(t, 15, 17), uuid.New())
	require.NoError(t, err)

	assert.ElementsMatch(t, []uuid.UUID{room, table}, idx.Resources())

	idx.Release(table, iv(t, 15, 17))
	assert.Equal(t, []uuid.UUID{room}, idx.Resources(), "emptied ledgers are not listed")
}

func TestConcurrentReserve(t *testing.T) {
	idx := availability.NewIndex()
	resourceID := uuid.New()

	const callers = 64
	var (
		wg      sync.WaitGroup
		granted atomic.Int32
		start   = make(chan struct{})
	)
	// every interval contains day 16, so all pairs overlap
	intervals := make([]reservation.Interval, callers)
	for i := range intervals {
		intervals[i] = iv(t, 10+i%6, 17+i%5)
	}
	for i := 0; i < callers; i++ {
		wg.Add(1)
		go func(want reservation.Interval) {
			defer wg.Done()
			<-start
			_, err := idx.Reserve(resourceID, want, uuid.New())
			if err == nil {
				granted.Add(1)
				return
			}
			assert.True(t, errs.Is(err, errs.ErrSlotUnavailable))
		}(intervals[i])
	}
	close(start)
	wg.Wait()

	assert.Equal(t, int32(1), granted.Load())
	assert.Len(t, idx.Holds(resourceID), 1)
}
