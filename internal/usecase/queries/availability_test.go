//go:build unit

package queries_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"booking-core/internal/domain/availability"
	"booking-core/internal/domain/reservation"
	"booking-core/internal/infra"
	"booking-core/internal/pkg/errs"
	"booking-core/internal/usecase/queries"
	"booking-core/tests/common/builder"
	queriesmock "booking-core/tests/mock/queries"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"
)

func TestCheckAvailability(t *testing.T) {
	ctx := context.Background()
	room := builder.NewResourceBuilder().BuildSnapshot()
	start := time.Date(2024, 10, 15, 0, 0, 0, 0, time.UTC)
	end := time.Date(2024, 10, 17, 0, 0, 0, 0, time.UTC)

	t.Run("answers from the index", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		resources := queriesmock.NewMockResourceReadStore(ctrl)
		resources.EXPECT().FindByID(ctx, room.ID).Return(room, nil).Times(2)

		index := availability.NewIndex()
		sut := queries.NewAvailabilityQueries(resources, index)

		view, err := sut.CheckAvailability(ctx, room.BusinessID, room.ID, start, end)
		require.NoError(t, err)
		assert.True(t, view.Available)

		held, err := reservation.NewInterval(start.Add(24*time.Hour), end.Add(24*time.Hour))
		require.NoError(t, err)
		_, err = index.Reserve(room.ID, held, uuid.New())
		require.NoError(t, err)

		view, err = sut.CheckAvailability(ctx, room.BusinessID, room.ID, start, end)
		require.NoError(t, err)
		assert.False(t, view.Available)
		assert.Equal(t, start, view.StartAt)
		assert.Equal(t, end, view.EndAt)
	})

	t.Run("offsets are normalized", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		resources := queriesmock.NewMockResourceReadStore(ctrl)
		resources.EXPECT().FindByID(ctx, room.ID).Return(room, nil)
		checker := queriesmock.NewMockFreeChecker(ctrl)
		checker.EXPECT().IsFree(room.ID, gomock.Any()).Return(true)

		tokyo := time.FixedZone("JST", 9*60*60)
		view, err := queries.NewAvailabilityQueries(resources, checker).
			CheckAvailability(ctx, room.BusinessID, room.ID, start.In(tokyo), end.In(tokyo))

		require.NoError(t, err)
		assert.Equal(t, time.UTC, view.StartAt.Location())
		assert.True(t, view.StartAt.Equal(start))
	})

	t.Run("failures", func(t *testing.T) {
		testCases := []struct {
			name       string
			businessID uuid.UUID
			start, end time.Time
			setup      func(m *queriesmock.MockResourceReadStore)
			wantErr    error
		}{
			{
				name:       "empty interval",
				businessID: room.BusinessID,
				start:      start,
				end:        start,
				setup:      func(*queriesmock.MockResourceReadStore) {},
				wantErr:    errs.ErrInvalidInterval,
			},
			{
				name:       "unknown resource",
				businessID: room.BusinessID,
				start:      start,
				end:        end,
				setup: func(m *queriesmock.MockResourceReadStore) {
					m.EXPECT().FindByID(ctx, room.ID).Return(nil, infra.WrapRepoErr("resource not found", errors.New("no rows"), infra.KindNotFound))
				},
				wantErr: errs.ErrResourceNotFound,
			},
			{
				name:       "resource of another business",
				businessID: uuid.New(),
				start:      start,
				end:        end,
				setup: func(m *queriesmock.MockResourceReadStore) {
					m.EXPECT().FindByID(ctx, room.ID).Return(room, nil)
				},
				wantErr: errs.ErrResourceNotFound,
			},
		}

		for _, tc := range testCases {
			t.Run(tc.name, func(t *testing.T) {
				ctrl := gomock.NewController(t)
				resources := queriesmock.NewMockResourceReadStore(ctrl)
				tc.setup(resources)

				_, err := queries.NewAvailabilityQueries(resources, availability.NewIndex()).
					CheckAvailability(ctx, tc.businessID, room.ID, tc.start, tc.end)

				assert.True(t, errs.Is(err, tc.wantErr), "expected %v, got %v", tc.wantErr, err)
			})
		}
	})
}
