package repository

//go:generate mockgen -source=event.go -destination=../../../tests/mock/repository/event_mock.go -package=repositorymock

import (
	"context"
	"time"

	"booking-core/internal/infra"
	sqlc "booking-core/internal/infra/sqlc/generated"
	"booking-core/internal/pkg/pgconv"
	"booking-core/internal/usecase/shared"
)

type EventWriteQueries interface {
	InsertReservationEvent(ctx context.Context, db sqlc.DBTX, arg sqlc.InsertReservationEventParams) error
	ListUnpublishedEvents(ctx context.Context, db sqlc.DBTX, limit int32) ([]sqlc.ReservationEvents, error)
	MarkEventsPublished(ctx context.Context, db sqlc.DBTX, arg sqlc.MarkEventsPublishedParams) (int64, error)
}

// EventRepository is the transactional outbox for reservation events.
type EventRepository struct {
	queries EventWriteQueries
	db      sqlc.DBTX
}

func NewEventRepository(queries EventWriteQueries, db sqlc.DBTX) *EventRepository {
	return &EventRepository{
		queries: queries,
		db:      db,
	}
}

func (r *EventRepository) Append(ctx context.Context, tx sqlc.DBTX, ev shared.ReservationEvent) error {
	params := sqlc.InsertReservationEventParams{
		ReservationID: ev.ReservationID,
		ResourceID:    ev.ResourceID,
		EventType:     ev.Type,
		Payload:       ev.Payload,
		CreatedAt:     pgconv.TimeToPgtype(ev.OccurredAt),
	}

	if err := r.queries.InsertReservationEvent(ctx, tx, params); err != nil {
		return infra.WrapRepoErr("failed to append reservation event", err)
	}

	return nil
}

// ListUnpublished locks the returned rows until tx ends.
func (r *EventRepository) ListUnpublished(ctx context.Context, tx sqlc.DBTX, limit int) ([]shared.OutboxEvent, error) {
	if limit <= 0 || limit > 1000 {
		limit = 100
	}

	rows, err := r.queries.ListUnpublishedEvents(ctx, tx, int32(limit)) // #nosec G115 -- bounded above
	if err != nil {
		return nil, infra.WrapRepoErr("failed to list unpublished events", err)
	}

	events := make([]shared.OutboxEvent, 0, len(rows))
	for _, row := range rows {
		events = append(events, shared.OutboxEvent{
			ID:            row.ID,
			ReservationID: row.ReservationID,
			ResourceID:    row.ResourceID,
			Type:          row.EventType,
			Payload:       row.Payload,
			CreatedAt:     pgconv.TimeFromPgtype(row.CreatedAt),
		})
	}

	return events, nil
}

func (r *EventRepository) MarkPublished(ctx context.Context, tx sqlc.DBTX, ids []int64, at time.Time) error {
	if len(ids) == 0 {
		return nil
	}

	_, err := r.queries.MarkEventsPublished(ctx, tx, sqlc.MarkEventsPublishedParams{
		PublishedAt: pgconv.TimeToPgtype(at),
		Ids:         ids,
	})
	if err != nil {
		return infra.WrapRepoErr("failed to mark events published", err)
	}

	return nil
}
