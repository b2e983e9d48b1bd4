package reservation

import (
	"strings"
	"time"
	"unicode/utf8"

	"booking-core/internal/pkg/errs"
)

const (
	MaxNoteLength  = 1000
	dateOnlyLayout = "2006-01-02"
)

// Interval is the half-open range [start, end) a reservation holds its resource for.
type Interval struct {
	start time.Time
	end   time.Time
}

func NewInterval(start, end time.Time) (Interval, error) {
	if start.IsZero() || end.IsZero() || !start.Before(end) {
		return Interval{}, errs.ErrInvalidInterval
	}
	return Interval{start: start.UTC(), end: end.UTC()}, nil
}

// NewDateInterval builds a night-granularity interval from two calendar dates.
func NewDateInterval(startDate, endDate string) (Interval, error) {
	start, err := time.ParseInLocation(dateOnlyLayout, startDate, time.UTC)
	if err != nil {
		return Interval{}, errs.Wrapf(errs.ErrInvalidInterval, "start date %q", startDate)
	}
	end, err := time.ParseInLocation(dateOnlyLayout, endDate, time.UTC)
	if err != nil {
		return Interval{}, errs.Wrapf(errs.ErrInvalidInterval, "end date %q", endDate)
	}
	return NewInterval(start, end)
}

func (iv Interval) Start() time.Time { return iv.start }
func (iv Interval) End() time.Time   { return iv.end }

func (iv Interval) Duration() time.Duration {
	return iv.end.Sub(iv.start)
}

// Overlaps uses the half-open rule, so touching intervals do not overlap.
func (iv Interval) Overlaps(other Interval) bool {
	return iv.start.Before(other.end) && other.start.Before(iv.end)
}

func (iv Interval) Equal(other Interval) bool {
	return iv.start.Equal(other.start) && iv.end.Equal(other.end)
}

func (iv Interval) ElapsedAt(now time.Time) bool {
	return !now.Before(iv.end)
}

func (iv Interval) String() string {
	return "[" + iv.start.Format(time.RFC3339) + "," + iv.end.Format(time.RFC3339) + ")"
}

type GuestCount struct {
	value int
}

func NewGuestCount(n int) (GuestCount, error) {
	if n < 1 {
		return GuestCount{}, errs.Wrapf(errs.ErrInvalidReservation, "guest count must be at least 1, got %d", n)
	}
	return GuestCount{value: n}, nil
}

func (g GuestCount) Int() int {
	return g.value
}

type Money struct {
	cents    int64
	currency string
}

func NewMoney(cents int64, currency string) (Money, error) {
	if cents < 0 {
		return Money{}, errs.Wrap(errs.ErrInvalidReservation, "total amount cannot be negative")
	}
	currency = strings.ToUpper(strings.TrimSpace(currency))
	if len(currency) != 3 {
		return Money{}, errs.Wrapf(errs.ErrInvalidReservation, "invalid currency code %q", currency)
	}
	return Money{cents: cents, currency: currency}, nil
}

func (m Money) Cents() int64     { return m.cents }
func (m Money) Currency() string { return m.currency }

// Note is the guest's optional special request.
type Note struct {
	value string
}

func NewNote(value string) (Note, error) {
	value = strings.TrimSpace(value)
	if utf8.RuneCountInString(value) > MaxNoteLength {
		return Note{}, errs.Wrapf(errs.ErrInvalidReservation, "special request exceeds %d characters", MaxNoteLength)
	}
	return Note{value: value}, nil
}

func (n Note) String() string {
	return n.value
}

func (n Note) IsEmpty() bool {
	return n.value == ""
}
