//go:build unit || e2e

package builder

import (
	"time"

	"booking-core/internal/domain/resource"
	sqlc "booking-core/internal/infra/sqlc/generated"
	"booking-core/internal/usecase/shared"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgtype"
)

type ResourceBuilder struct {
	ID         uuid.UUID
	BusinessID uuid.UUID
	Kind       resource.Kind
	Capacity   int
	Name       string
}

func NewResourceBuilder() *ResourceBuilder {
	return &ResourceBuilder{
		ID:         uuid.New(),
		BusinessID: uuid.New(),
		Kind:       resource.KindRoom,
		Capacity:   4,
		Name:       "Room 101",
	}
}

func (r *ResourceBuilder) With(mutate func(*ResourceBuilder)) *ResourceBuilder {
	mutate(r)
	return r
}

// Build methods
func (r *ResourceBuilder) BuildDomain() (*resource.Resource, error) {
	return resource.NewResource(r.ID, r.BusinessID, r.Kind, r.Capacity, r.Name)
}

func (r *ResourceBuilder) BuildSnapshot() *shared.ResourceSnapshot {
	return &shared.ResourceSnapshot{
		ID:         r.ID,
		BusinessID: r.BusinessID,
		Kind:       r.Kind.String(),
		Capacity:   r.Capacity,
		Name:       r.Name,
	}
}

func (r *ResourceBuilder) BuildInfra() sqlc.Resources {
	now := time.Now()
	return sqlc.Resources{
		ID:         r.ID,
		BusinessID: r.BusinessID,
		Kind:       r.Kind.String(),
		Capacity:   int32(r.Capacity), // #nosec G115 -- test fixture
		Name:       r.Name,
		CreatedAt:  pgtype.Timestamptz{Time: now, Valid: true},
		UpdatedAt:  pgtype.Timestamptz{Time: now, Valid: true},
	}
}

// Fluent builder methods
func (r *ResourceBuilder) WithID(id uuid.UUID) *ResourceBuilder {
	r.ID = id
	return r
}

func (r *ResourceBuilder) WithBusinessID(businessID uuid.UUID) *ResourceBuilder {
	r.BusinessID = businessID
	return r
}

func (r *ResourceBuilder) WithCapacity(capacity int) *ResourceBuilder {
	r.Capacity = capacity
	return r
}

func (r *ResourceBuilder) WithName(name string) *ResourceBuilder {
	r.Name = name
	return r
}

func (r *ResourceBuilder) AsTable() *ResourceBuilder {
	r.Kind = resource.KindTable
	r.Name = "Table 7"
	return r
}
