package availability

import (
	"fmt"
	"sort"
	"sync"

	"booking-core/internal/domain/reservation"
	"booking-core/internal/pkg/errs"

	"github.com/google/uuid"
)

// Hold is an interval currently blocking new bookings, tagged with the
// reservation that owns it.
type Hold struct {
	Interval reservation.Interval
	Ref      uuid.UUID
}

// Token is returned by a successful Reserve and identifies the hold it created.
type Token struct {
	ResourceID uuid.UUID
	Interval   reservation.Interval
	Ref        uuid.UUID
}

// ConflictError reports the holds that block a requested interval.
type ConflictError struct {
	ResourceID uuid.UUID
	Requested  reservation.Interval
	Holds      []Hold
}

func (e *ConflictError) Error() string {
	return fmt.Sprintf("interval %s on resource %s overlaps %d held interval(s)", e.Requested, e.ResourceID, len(e.Holds))
}

func (e *ConflictError) Unwrap() error {
	return errs.ErrSlotUnavailable
}

// Index keeps, per resource, the ordered set of held intervals. Reserve and
// Release are atomic per resource; different resources never contend.
type Index struct {
	mu      sync.RWMutex
	ledgers map[uuid.UUID]*ledger
}

// ledger holds non-overlapping intervals sorted by start. Because they never
// overlap they are also sorted by end.
type ledger struct {
	mu    sync.Mutex
	holds []Hold
}

func NewIndex() *Index {
	return &Index{ledgers: make(map[uuid.UUID]*ledger)}
}

func (x *Index) ledger(resourceID uuid.UUID, create bool) *ledger {
	x.mu.RLock()
	l, ok := x.ledgers[resourceID]
	x.mu.RUnlock()
	if ok || !create {
		return l
	}

	x.mu.Lock()
	defer x.mu.Unlock()
	if l, ok = x.ledgers[resourceID]; ok {
		return l
	}
	l = &ledger{}
	x.ledgers[resourceID] = l
	return l
}

func (x *Index) IsFree(resourceID uuid.UUID, iv reservation.Interval) bool {
	l := x.ledger(resourceID, false)
	if l == nil {
		return true
	}
	l.mu.Lock()
	defer l.mu.Unlock()
	_, conflicts := l.search(iv)
	return len(conflicts) == 0
}

// Reserve inserts iv for resourceID unless it overlaps a held interval, in
// which case a *ConflictError is returned.
func (x *Index) Reserve(resourceID uuid.UUID, iv reservation.Interval, ref uuid.UUID) (Token, error) {
	l := x.ledger(resourceID, true)
	l.mu.Lock()
	defer l.mu.Unlock()

	pos, conflicts := l.search(iv)
	if len(conflicts) > 0 {
		return Token{}, &ConflictError{ResourceID: resourceID, Requested: iv, Holds: conflicts}
	}

	l.holds = append(l.holds, Hold{})
	copy(l.holds[pos+1:], l.holds[pos:])
	l.holds[pos] = Hold{Interval: iv, Ref: ref}

	return Token{ResourceID: resourceID, Interval: iv, Ref: ref}, nil
}

// Release removes the hold exactly matching iv. Releasing an interval that is
// not held is a no-op.
func (x *Index) Release(resourceID uuid.UUID, iv reservation.Interval) {
	x.release(resourceID, iv, uuid.Nil)
}

// ReleaseToken removes the hold created by tok, leaving a hold on the same
// interval owned by another reservation untouched.
func (x *Index) ReleaseToken(tok Token) {
	x.release(tok.ResourceID, tok.Interval, tok.Ref)
}

func (x *Index) release(resourceID uuid.UUID, iv reservation.Interval, ref uuid.UUID) {
	l := x.ledger(resourceID, false)
	if l == nil {
		return
	}
	l.mu.Lock()
	defer l.mu.Unlock()

	i := sort.Search(len(l.holds), func(i int) bool {
		return !l.holds[i].Interval.Start().Before(iv.Start())
	})
	if i == len(l.holds) || !l.holds[i].Interval.Equal(iv) {
		return
	}
	if ref != uuid.Nil && l.holds[i].Ref != ref {
		return
	}
	l.holds = append(l.holds[:i], l.holds[i+1:]...)
}

// Holds returns a copy of the intervals held for resourceID in start order.
func (x *Index) Holds(resourceID uuid.UUID) []Hold {
	l := x.ledger(resourceID, false)
	if l == nil {
		return nil
	}
	l.mu.Lock()
	defer l.mu.Unlock()
	out := make([]Hold, len(l.holds))
	copy(out, l.holds)
	return out
}

// Resources lists every resource that currently has at least one hold.
func (x *Index) Resources() []uuid.UUID {
	x.mu.RLock()
	ids := make([]uuid.UUID, 0, len(x.ledgers))
	ledgers := make([]*ledger, 0, len(x.ledgers))
	for id, l := range x.ledgers {
		ids = append(ids, id)
		ledgers = append(ledgers, l)
	}
	x.mu.RUnlock()

	out := ids[:0]
	for i, l := range ledgers {
		l.mu.Lock()
		held := len(l.holds) > 0
		l.mu.Unlock()
		if held {
			out = append(out, ids[i])
		}
	}
	return out
}

// search returns the insertion position for iv and every hold overlapping it.
// Must be called with l.mu held.
func (l *ledger) search(iv reservation.Interval) (int, []Hold) {
	pos := sort.Search(len(l.holds), func(i int) bool {
		return !l.holds[i].Interval.Start().Before(iv.End())
	})

	var conflicts []Hold
	for i := pos - 1; i >= 0 && l.holds[i].Interval.End().After(iv.Start()); i-- {
		conflicts = append(conflicts, l.holds[i])
	}
	return pos, conflicts
}
