//go:build unit || e2e

// Package memstore is an in-memory shared.UnitOfWork for usecase tests.
// Transactions are serialized and commit by swapping a copied state, so a
// failed fn leaves nothing behind. Held intervals are checked the same way
// the reservations_no_overlap constraint does.
package memstore

import (
	"context"
	"sort"
	"sync"
	"time"

	"booking-core/internal/domain/reservation"
	"booking-core/internal/infra"
	sqlc "booking-core/internal/infra/sqlc/generated"
	"booking-core/internal/usecase/queries"
	"booking-core/internal/usecase/shared"

	"github.com/google/uuid"
)

type keyID struct {
	key    uuid.UUID
	userID uuid.UUID
}

type storedKey struct {
	shared.IdempotencyRecord
	endpoint string
}

type storedEvent struct {
	shared.OutboxEvent
	published bool
}

type state struct {
	resources    map[uuid.UUID]shared.ResourceSnapshot
	reservations map[uuid.UUID]*reservation.Reservation
	keys         map[keyID]storedKey
	events       []storedEvent
	nextEventID  int64
}

func (st *state) clone() *state {
	out := &state{
		resources:    make(map[uuid.UUID]shared.ResourceSnapshot, len(st.resources)),
		reservations: make(map[uuid.UUID]*reservation.Reservation, len(st.reservations)),
		keys:         make(map[keyID]storedKey, len(st.keys)),
		events:       append([]storedEvent(nil), st.events...),
		nextEventID:  st.nextEventID,
	}
	for k, v := range st.resources {
		out.resources[k] = v
	}
	// reservations are immutable values, sharing pointers is fine
	for k, v := range st.reservations {
		out.reservations[k] = v
	}
	for k, v := range st.keys {
		out.keys[k] = v
	}
	return out
}

type Store struct {
	mu    sync.Mutex
	state *state

	faultMu    sync.Mutex
	createErrs []error
	appendErrs []error
}

func New() *Store {
	return &Store{state: &state{
		resources:    map[uuid.UUID]shared.ResourceSnapshot{},
		reservations: map[uuid.UUID]*reservation.Reservation{},
		keys:         map[keyID]storedKey{},
		nextEventID:  1,
	}}
}

var _ shared.UnitOfWork = (*Store)(nil)

func (s *Store) Within(ctx context.Context, fn func(ctx context.Context, tx shared.Tx) error) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := ctx.Err(); err != nil {
		return err
	}

	staged := s.state.clone()
	if err := fn(ctx, &memTx{store: s, st: staged}); err != nil {
		return err
	}
	s.state = staged
	return nil
}

func (s *Store) CommandReads() shared.CommandReads {
	return &reads{store: s, lock: true}
}

// ---- seeding and inspection ----

func (s *Store) AddResource(snap shared.ResourceSnapshot) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.state.resources[snap.ID] = snap
}

// PutReservation stores res as-is, bypassing the overlap check.
func (s *Store) PutReservation(res *reservation.Reservation) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.state.reservations[res.ID()] = res
}

// ForceStatus simulates another process moving a reservation.
func (s *Store) ForceStatus(id uuid.UUID, status reservation.Status, at time.Time) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if res, ok := s.state.reservations[id]; ok {
		s.state.reservations[id] = withStatus(res, status, at)
	}
}

func (s *Store) Reservation(id uuid.UUID) (*reservation.Reservation, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	res, ok := s.state.reservations[id]
	return res, ok
}

func (s *Store) ReservationCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.state.reservations)
}

// Events returns every appended event in append order.
func (s *Store) Events() []shared.OutboxEvent {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]shared.OutboxEvent, len(s.state.events))
	for i, ev := range s.state.events {
		out[i] = ev.OutboxEvent
	}
	return out
}

func (s *Store) UnpublishedCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	n := 0
	for _, ev := range s.state.events {
		if !ev.published {
			n++
		}
	}
	return n
}

func (s *Store) IdempotencyKey(key, userID uuid.UUID) (shared.IdempotencyRecord, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	rec, ok := s.state.keys[keyID{key, userID}]
	return rec.IdempotencyRecord, ok
}

// FailNextCreate makes the next reservation insert fail with err.
func (s *Store) FailNextCreate(err error) {
	s.faultMu.Lock()
	defer s.faultMu.Unlock()
	s.createErrs = append(s.createErrs, err)
}

// FailNextAppend makes the next event append fail with err.
func (s *Store) FailNextAppend(err error) {
	s.faultMu.Lock()
	defer s.faultMu.Unlock()
	s.appendErrs = append(s.appendErrs, err)
}

func (s *Store) popFault(queue *[]error) error {
	s.faultMu.Lock()
	defer s.faultMu.Unlock()
	if len(*queue) == 0 {
		return nil
	}
	err := (*queue)[0]
	*queue = (*queue)[1:]
	return err
}

// ---- tx ----

type memTx struct {
	store *Store
	st    *state
}

func (t *memTx) Reservations() shared.ReservationRepository { return &reservationRepo{t} }
func (t *memTx) Idempotency() shared.IdempotencyRepository  { return &idempotencyRepo{t} }
func (t *memTx) Events() shared.EventRepository             { return &eventRepo{t} }
func (t *memTx) Reads() shared.CommandReads                 { return &reads{store: t.store, st: t.st} }
func (t *memTx) DB() sqlc.DBTX                              { return nil }

type reservationRepo struct{ tx *memTx }

func (r *reservationRepo) Create(_ context.Context, _ sqlc.DBTX, res *reservation.Reservation) (uuid.UUID, error) {
	if err := r.tx.store.popFault(&r.tx.store.createErrs); err != nil {
		return uuid.Nil, infra.WrapRepoErr("failed to create reservation", err)
	}
	st := r.tx.st
	if _, ok := st.reservations[res.ID()]; ok {
		return uuid.Nil, infra.WrapRepoErr("reservation already exists", nil, infra.KindDuplicateKey)
	}
	if _, ok := st.resources[res.ResourceID()]; !ok {
		return uuid.Nil, infra.WrapRepoErr("unknown resource", nil, infra.KindForeignKeyViolated)
	}
	if res.IsHeld() {
		for _, other := range st.reservations {
			if other.ResourceID() == res.ResourceID() && other.IsHeld() && other.Interval().Overlaps(res.Interval()) {
				return uuid.Nil, infra.WrapRepoErr("overlapping held reservation", nil, infra.KindExclusionViolated)
			}
		}
	}
	st.reservations[res.ID()] = res
	return res.ID(), nil
}

func (r *reservationRepo) UpdateStatus(_ context.Context, _ sqlc.DBTX, id uuid.UUID, expected, next reservation.Status, at time.Time) (*reservation.Reservation, error) {
	current, ok := r.tx.st.reservations[id]
	if !ok {
		return nil, infra.WrapRepoErr("reservation not found", nil, infra.KindNotFound)
	}
	if current.Status() != expected {
		return nil, infra.WrapRepoErr("reservation status changed concurrently", nil, infra.KindConflict)
	}
	updated := withStatus(current, next, at)
	r.tx.st.reservations[id] = updated
	return updated, nil
}

type idempotencyRepo struct{ tx *memTx }

func (r *idempotencyRepo) TryInsert(_ context.Context, _ sqlc.DBTX, key, userID uuid.UUID, endpoint, requestHash string, expiresAt time.Time) (bool, error) {
	id := keyID{key, userID}
	if _, ok := r.tx.st.keys[id]; ok {
		return false, nil
	}
	r.tx.st.keys[id] = newKey(key, userID, endpoint, requestHash, expiresAt)
	return true, nil
}

func (r *idempotencyRepo) ClaimExpired(_ context.Context, _ sqlc.DBTX, key, userID uuid.UUID, endpoint, requestHash string, expiresAt, now time.Time) (bool, error) {
	id := keyID{key, userID}
	existing, ok := r.tx.st.keys[id]
	if !ok || existing.ExpiresAt.After(now) {
		return false, nil
	}
	r.tx.st.keys[id] = newKey(key, userID, endpoint, requestHash, expiresAt)
	return true, nil
}

func (r *idempotencyRepo) UpdateStatusCompleted(_ context.Context, _ sqlc.DBTX, key, userID uuid.UUID, reservationID uuid.UUID) error {
	id := keyID{key, userID}
	rec, ok := r.tx.st.keys[id]
	if !ok {
		return nil
	}
	rec.Status = shared.IdempotencyStatusCompleted
	rec.ResultReservationID = &reservationID
	r.tx.st.keys[id] = rec
	return nil
}

func (r *idempotencyRepo) Delete(_ context.Context, _ sqlc.DBTX, key, userID uuid.UUID) error {
	delete(r.tx.st.keys, keyID{key, userID})
	return nil
}

func (r *idempotencyRepo) DeleteExpired(_ context.Context, _ sqlc.DBTX, now time.Time) (int64, error) {
	var n int64
	for id, rec := range r.tx.st.keys {
		if !rec.ExpiresAt.After(now) {
			delete(r.tx.st.keys, id)
			n++
		}
	}
	return n, nil
}

type eventRepo struct{ tx *memTx }

func (r *eventRepo) Append(_ context.Context, _ sqlc.DBTX, ev shared.ReservationEvent) error {
	if err := r.tx.store.popFault(&r.tx.store.appendErrs); err != nil {
		return infra.WrapRepoErr("failed to append reservation event", err)
	}
	st := r.tx.st
	if _, ok := st.reservations[ev.ReservationID]; !ok {
		return infra.WrapRepoErr("unknown reservation", nil, infra.KindForeignKeyViolated)
	}
	st.events = append(st.events, storedEvent{OutboxEvent: shared.OutboxEvent{
		ID:            st.nextEventID,
		ReservationID: ev.ReservationID,
		ResourceID:    ev.ResourceID,
		Type:          ev.Type,
		Payload:       ev.Payload,
		CreatedAt:     ev.OccurredAt,
	}})
	st.nextEventID++
	return nil
}

func (r *eventRepo) ListUnpublished(_ context.Context, _ sqlc.DBTX, limit int) ([]shared.OutboxEvent, error) {
	var out []shared.OutboxEvent
	for _, ev := range r.tx.st.events {
		if len(out) == limit {
			break
		}
		if !ev.published {
			out = append(out, ev.OutboxEvent)
		}
	}
	return out, nil
}

func (r *eventRepo) MarkPublished(_ context.Context, _ sqlc.DBTX, ids []int64, _ time.Time) error {
	marked := make(map[int64]struct{}, len(ids))
	for _, id := range ids {
		marked[id] = struct{}{}
	}
	for i := range r.tx.st.events {
		if _, ok := marked[r.tx.st.events[i].ID]; ok {
			r.tx.st.events[i].published = true
		}
	}
	return nil
}

// ---- reads ----

type reads struct {
	store *Store
	st    *state
	lock  bool
}

func (r *reads) view() (*state, func()) {
	if !r.lock {
		return r.st, func() {}
	}
	r.store.mu.Lock()
	return r.store.state, r.store.mu.Unlock
}

func (r *reads) ResourceByID(_ context.Context, id uuid.UUID) (*shared.ResourceSnapshot, error) {
	st, done := r.view()
	defer done()
	snap, ok := st.resources[id]
	if !ok {
		return nil, infra.WrapRepoErr("resource not found", nil, infra.KindNotFound)
	}
	return &snap, nil
}

func (r *reads) ReservationByID(_ context.Context, id uuid.UUID) (*reservation.Reservation, error) {
	st, done := r.view()
	defer done()
	res, ok := st.reservations[id]
	if !ok {
		return nil, infra.WrapRepoErr("reservation not found", nil, infra.KindNotFound)
	}
	return res, nil
}

func (r *reads) IdempotencyByKey(_ context.Context, key, userID uuid.UUID) (*shared.IdempotencyRecord, error) {
	st, done := r.view()
	defer done()
	rec, ok := st.keys[keyID{key, userID}]
	if !ok {
		return nil, infra.WrapRepoErr("idempotency key not found", nil, infra.KindNotFound)
	}
	out := rec.IdempotencyRecord
	return &out, nil
}

func (r *reads) HeldIntervals(_ context.Context) ([]shared.HeldInterval, error) {
	st, done := r.view()
	defer done()
	var held []shared.HeldInterval
	for _, res := range sortedReservations(st) {
		if res.IsHeld() {
			held = append(held, shared.HeldInterval{
				ReservationID: res.ID(),
				ResourceID:    res.ResourceID(),
				Start:         res.Interval().Start(),
				End:           res.Interval().End(),
			})
		}
	}
	return held, nil
}

func (r *reads) ElapsedConfirmed(_ context.Context, now time.Time, limit int) ([]*reservation.Reservation, error) {
	st, done := r.view()
	defer done()
	return filterReservations(st, limit, func(res *reservation.Reservation) bool {
		return res.Status() == reservation.StatusConfirmed && !res.Interval().End().After(now)
	}), nil
}

func (r *reads) StalePending(_ context.Context, createdBefore time.Time, limit int) ([]*reservation.Reservation, error) {
	st, done := r.view()
	defer done()
	return filterReservations(st, limit, func(res *reservation.Reservation) bool {
		return res.Status() == reservation.StatusPending && res.CreatedAt().Before(createdBefore)
	}), nil
}

// ---- read side for queries.ReservationQueries ----

// Views returns a queries.ReservationReadStore over the committed state.
func (s *Store) Views() queries.ReservationReadStore {
	return &viewStore{store: s}
}

type viewStore struct{ store *Store }

func (v *viewStore) FindByID(_ context.Context, id uuid.UUID) (*queries.ReservationView, error) {
	v.store.mu.Lock()
	defer v.store.mu.Unlock()
	res, ok := v.store.state.reservations[id]
	if !ok {
		return nil, infra.WrapRepoErr("reservation not found", nil, infra.KindNotFound)
	}
	return toView(res, v.store.state.resources[res.ResourceID()]), nil
}

func (v *viewStore) FindByUserPage(_ context.Context, userID uuid.UUID, after *queries.Keyset, limit int32) ([]*queries.ReservationView, error) {
	return v.page(after, limit, func(res *reservation.Reservation) bool { return res.UserID() == userID }), nil
}

func (v *viewStore) FindByBusinessPage(_ context.Context, businessID uuid.UUID, after *queries.Keyset, limit int32) ([]*queries.ReservationView, error) {
	return v.page(after, limit, func(res *reservation.Reservation) bool { return res.BusinessID() == businessID }), nil
}

// page orders by (created_at, id) descending like the SQL listings.
func (v *viewStore) page(after *queries.Keyset, limit int32, match func(*reservation.Reservation) bool) []*queries.ReservationView {
	v.store.mu.Lock()
	defer v.store.mu.Unlock()

	var rows []*reservation.Reservation
	for _, res := range v.store.state.reservations {
		if match(res) {
			rows = append(rows, res)
		}
	}
	sort.Slice(rows, func(i, j int) bool { return newer(rows[i], rows[j]) })

	out := []*queries.ReservationView{}
	for _, res := range rows {
		if after != nil && !olderThanKeyset(res, after) {
			continue
		}
		if int32(len(out)) == limit { // #nosec G115 -- test data
			break
		}
		out = append(out, toView(res, v.store.state.resources[res.ResourceID()]))
	}
	return out
}

func newer(a, b *reservation.Reservation) bool {
	if !a.CreatedAt().Equal(b.CreatedAt()) {
		return a.CreatedAt().After(b.CreatedAt())
	}
	return a.ID().String() > b.ID().String()
}

func olderThanKeyset(res *reservation.Reservation, k *queries.Keyset) bool {
	created := res.CreatedAt().Truncate(time.Microsecond)
	if !created.Equal(k.CreatedAt) {
		return created.Before(k.CreatedAt)
	}
	return res.ID().String() < k.ID.String()
}

func toView(res *reservation.Reservation, snap shared.ResourceSnapshot) *queries.ReservationView {
	var note *string
	if !res.Note().IsEmpty() {
		n := res.Note().String()
		note = &n
	}
	return &queries.ReservationView{
		ID:               res.ID(),
		UserID:           res.UserID(),
		BusinessID:       res.BusinessID(),
		ResourceID:       res.ResourceID(),
		ResourceName:     snap.Name,
		ResourceKind:     snap.Kind,
		StartAt:          res.Interval().Start(),
		EndAt:            res.Interval().End(),
		GuestCount:       res.Guests().Int(),
		Status:           res.Status().String(),
		TotalAmountCents: res.Amount().Cents(),
		Currency:         res.Amount().Currency(),
		SpecialRequest:   note,
		CreatedAt:        res.CreatedAt(),
		UpdatedAt:        res.UpdatedAt(),
	}
}

func sortedReservations(st *state) []*reservation.Reservation {
	rows := make([]*reservation.Reservation, 0, len(st.reservations))
	for _, res := range st.reservations {
		rows = append(rows, res)
	}
	sort.Slice(rows, func(i, j int) bool { return newer(rows[j], rows[i]) })
	return rows
}

func filterReservations(st *state, limit int, keep func(*reservation.Reservation) bool) []*reservation.Reservation {
	var out []*reservation.Reservation
	for _, res := range sortedReservations(st) {
		if len(out) == limit {
			break
		}
		if keep(res) {
			out = append(out, res)
		}
	}
	return out
}

func withStatus(res *reservation.Reservation, status reservation.Status, at time.Time) *reservation.Reservation {
	return reservation.ReconstructReservation(
		res.ID(), res.UserID(), res.BusinessID(), res.ResourceID(),
		res.Interval(), res.Guests(), status, res.Amount(), res.Note(),
		res.CreatedAt(), at,
	)
}

func newKey(key, userID uuid.UUID, endpoint, requestHash string, expiresAt time.Time) storedKey {
	return storedKey{
		IdempotencyRecord: shared.IdempotencyRecord{
			Key:         key,
			UserID:      userID,
			Status:      shared.IdempotencyStatusProcessing,
			RequestHash: requestHash,
			ExpiresAt:   expiresAt,
		},
		endpoint: endpoint,
	}
}
