package readstore

//go:generate mockgen -source=resource.go -destination=../../../tests/mock/readstore/resource_mock.go -package=readstoremock

import (
	"context"

	"booking-core/internal/infra"
	sqlc "booking-core/internal/infra/sqlc/generated"
	"booking-core/internal/pkg/pgconv"
	"booking-core/internal/usecase/shared"

	"github.com/google/uuid"
)

type ResourceReadQueries interface {
	GetResource(ctx context.Context, db sqlc.DBTX, id uuid.UUID) (sqlc.Resources, error)
}

type ResourceReadStore struct {
	queries ResourceReadQueries
	db      sqlc.DBTX
}

func NewResourceReadStore(queries ResourceReadQueries, db sqlc.DBTX) *ResourceReadStore {
	return &ResourceReadStore{
		queries: queries,
		db:      db,
	}
}

func (r *ResourceReadStore) FindByID(ctx context.Context, id uuid.UUID) (*shared.ResourceSnapshot, error) {
	row, err := r.queries.GetResource(ctx, r.db, id)
	if err != nil {
		if pgconv.IsNoRows(err) {
			return nil, infra.WrapRepoErr("resource not found", err, infra.KindNotFound)
		}
		return nil, infra.WrapRepoErr("failed to find resource by ID", err)
	}

	return toResourceSnapshotFromRow(row), nil
}

func toResourceSnapshotFromRow(row sqlc.Resources) *shared.ResourceSnapshot {
	return &shared.ResourceSnapshot{
		ID:         row.ID,
		BusinessID: row.BusinessID,
		Kind:       row.Kind,
		Capacity:   int(row.Capacity),
		Name:       row.Name,
	}
}
