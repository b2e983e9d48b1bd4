//go:build unit

package repository_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"booking-core/internal/infra"
	"booking-core/internal/infra/repository"
	sqlc "booking-core/internal/infra/sqlc/generated"
	repositorymock "booking-core/tests/mock/repository"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgtype"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"
)

const testEndpoint = "POST /reservations"

// =============================================================================
// TryInsert / ClaimExpired Tests
// =============================================================================

func TestIdempotencyRepository_TryInsert(t *testing.T) {
	ctx := context.Background()
	key, userID := uuid.New(), uuid.New()
	expiresAt := time.Date(2024, 10, 2, 10, 0, 0, 0, time.UTC)

	testCases := []struct {
		name        string
		affected    int64
		queryErr    error
		wantClaimed bool
		wantKind    infra.RepositoryErrorKind
	}{
		{name: "success: key claimed", affected: 1, wantClaimed: true},
		{name: "success: key already present", affected: 0, wantClaimed: false},
		{name: "error: database error occurs", queryErr: errors.New("database connection error"), wantKind: infra.KindDBFailure},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			ctrl := gomock.NewController(t)
			defer ctrl.Finish()

			mockQueries := repositorymock.NewMockIdempotencyWriteQueries(ctrl)
			mockDB := &mockDBTX{}
			repo := repository.NewIdempotencyRepository(mockQueries, mockDB)

			mockQueries.EXPECT().TryInsertIdempotencyKey(ctx, mockDB, sqlc.TryInsertIdempotencyKeyParams{
				Key:         key,
				UserID:      userID,
				Endpoint:    testEndpoint,
				RequestHash: "hash",
				ExpiresAt:   pgtype.Timestamptz{Time: expiresAt, Valid: true},
			}).Return(tc.affected, tc.queryErr)

			claimed, err := repo.TryInsert(ctx, mockDB, key, userID, testEndpoint, "hash", expiresAt)

			if tc.wantKind != "" {
				require.Error(t, err)
				assert.True(t, infra.IsKind(err, tc.wantKind))
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tc.wantClaimed, claimed)
		})
	}
}

func TestIdempotencyRepository_ClaimExpired(t *testing.T) {
	ctx := context.Background()
	key, userID := uuid.New(), uuid.New()
	now := time.Date(2024, 10, 2, 10, 0, 0, 0, time.UTC)

	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	mockQueries := repositorymock.NewMockIdempotencyWriteQueries(ctrl)
	mockDB := &mockDBTX{}
	repo := repository.NewIdempotencyRepository(mockQueries, mockDB)

	gomock.InOrder(
		mockQueries.EXPECT().ClaimExpiredIdempotencyKey(ctx, mockDB, gomock.Any()).
			DoAndReturn(func(_ context.Context, _ sqlc.DBTX, arg sqlc.ClaimExpiredIdempotencyKeyParams) (int64, error) {
				assert.Equal(t, now, arg.Now.Time)
				assert.Equal(t, now.Add(time.Hour), arg.ExpiresAt.Time)
				return 1, nil
			}),
		mockQueries.EXPECT().ClaimExpiredIdempotencyKey(ctx, mockDB, gomock.Any()).Return(int64(0), nil),
	)

	claimed, err := repo.ClaimExpired(ctx, mockDB, key, userID, testEndpoint, "hash", now.Add(time.Hour), now)
	require.NoError(t, err)
	assert.True(t, claimed)

	claimed, err = repo.ClaimExpired(ctx, mockDB, key, userID, testEndpoint, "hash", now.Add(time.Hour), now)
	require.NoError(t, err)
	assert.False(t, claimed, "a live key must not be taken over")
}

// =============================================================================
// Completion / Cleanup Tests
// =============================================================================

func TestIdempotencyRepository_UpdateStatusCompleted(t *testing.T) {
	ctx := context.Background()
	key, userID, reservationID := uuid.New(), uuid.New(), uuid.New()

	t.Run("success: stores the result reservation", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		mockQueries := repositorymock.NewMockIdempotencyWriteQueries(ctrl)
		mockDB := &mockDBTX{}
		repo := repository.NewIdempotencyRepository(mockQueries, mockDB)

		mockQueries.EXPECT().UpdateIdempotencyKeyCompleted(ctx, mockDB, sqlc.UpdateIdempotencyKeyCompletedParams{
			Key:                 key,
			UserID:              userID,
			ResultReservationID: pgtype.UUID{Bytes: reservationID, Valid: true},
		}).Return(nil)

		assert.NoError(t, repo.UpdateStatusCompleted(ctx, mockDB, key, userID, reservationID))
	})

	t.Run("error: foreign key violation is classified", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		mockQueries := repositorymock.NewMockIdempotencyWriteQueries(ctrl)
		mockDB := &mockDBTX{}
		repo := repository.NewIdempotencyRepository(mockQueries, mockDB)

		mockQueries.EXPECT().UpdateIdempotencyKeyCompleted(ctx, mockDB, gomock.Any()).Return(fkViolation())

		err := repo.UpdateStatusCompleted(ctx, mockDB, key, userID, reservationID)
		require.Error(t, err)
		assert.True(t, infra.IsKind(err, infra.KindForeignKeyViolated))
	})
}

func TestIdempotencyRepository_DeleteExpired(t *testing.T) {
	ctx := context.Background()
	now := time.Date(2024, 10, 2, 10, 0, 0, 0, time.UTC)

	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	mockQueries := repositorymock.NewMockIdempotencyWriteQueries(ctrl)
	mockDB := &mockDBTX{}
	repo := repository.NewIdempotencyRepository(mockQueries, mockDB)

	mockQueries.EXPECT().DeleteExpiredIdempotencyKeys(ctx, mockDB, pgtype.Timestamptz{Time: now, Valid: true}).Return(int64(3), nil)
	mockQueries.EXPECT().DeleteIdempotencyKey(ctx, mockDB, gomock.Any()).Return(errors.New("database connection error"))

	n, err := repo.DeleteExpired(ctx, mockDB, now)
	require.NoError(t, err)
	assert.Equal(t, int64(3), n)

	err = repo.Delete(ctx, mockDB, uuid.New(), uuid.New())
	require.Error(t, err)
	assert.True(t, infra.IsKind(err, infra.KindDBFailure))
}
