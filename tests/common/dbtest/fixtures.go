//go:build unit || e2e

package dbtest

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/stretchr/testify/require"
)

// DBLike is satisfied by *pgxpool.Pool, *pgx.Conn and pgx.Tx.
type DBLike interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

var (
	DefaultBusinessID = uuid.MustParse("7b0a6c1e-3f43-4d55-9a2e-0c1d5e8f9a10")
	DefaultRoomID     = uuid.MustParse("2f6d8e4a-1b7c-4c3d-8e9f-a0b1c2d3e4f5")
	DefaultTableID    = uuid.MustParse("9c8b7a6d-5e4f-4a3b-9c2d-1e0f9a8b7c6d")
)

// children first; resources is reseeded afterwards
var bookingTables = []string{
	"reservation_events",
	"idempotency_keys",
	"reservations",
	"resources",
}

func CreateTestResource(t *testing.T, db DBLike, businessID uuid.UUID, kind string, capacity int, name string) uuid.UUID {
	t.Helper()

	id := uuid.New()
	_, err := db.Exec(context.Background(),
		"INSERT INTO resources (id, business_id, kind, capacity, name) VALUES ($1, $2, $3, $4, $5)",
		id, businessID, kind, capacity, name)
	require.NoError(t, err, "insert resource %s", name)
	return id
}

func CountReservationEvents(t *testing.T, db DBLike, reservationID uuid.UUID) int {
	t.Helper()

	var n int
	err := db.QueryRow(context.Background(),
		"SELECT count(*) FROM reservation_events WHERE reservation_id = $1", reservationID).Scan(&n)
	require.NoError(t, err)
	return n
}

func ReservationStatus(t *testing.T, db DBLike, reservationID uuid.UUID) string {
	t.Helper()

	var status string
	err := db.QueryRow(context.Background(),
		"SELECT status FROM reservations WHERE id = $1", reservationID).Scan(&status)
	require.NoError(t, err)
	return status
}

// SeedReferenceData inserts the default room and table of DefaultBusinessID.
func SeedReferenceData(db DBLike) error {
	_, err := db.Exec(context.Background(), `
		INSERT INTO resources (id, business_id, kind, capacity, name) VALUES
		    ($1, $3, 'room', 2, 'Room 101'),
		    ($2, $3, 'table', 4, 'Table 7')
		ON CONFLICT (id) DO NOTHING`,
		DefaultRoomID, DefaultTableID, DefaultBusinessID)
	return err
}

func ResetDB(db DBLike) error {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if _, err := db.Exec(ctx, "TRUNCATE "+strings.Join(bookingTables, ", ")+" CASCADE"); err != nil {
		return err
	}
	return SeedReferenceData(db)
}
