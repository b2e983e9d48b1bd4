package resource

import (
	"errors"
	"strings"

	"booking-core/internal/pkg/errs"

	"github.com/google/uuid"
)

var (
	ErrEmptyResourceName   = errors.New("resource name cannot be empty")
	ErrResourceNameTooLong = errors.New("resource name is too long (max 255 characters)")
	ErrInvalidCapacity     = errors.New("resource capacity must be at least 1")
	ErrInvalidKind         = errors.New("invalid resource kind")
)

const (
	MaxResourceNameLength = 255
)

type Kind string

const (
	KindRoom  Kind = "room"
	KindTable Kind = "table"
)

func (k Kind) String() string {
	return string(k)
}

func ParseKind(s string) (Kind, error) {
	switch Kind(strings.ToLower(s)) {
	case KindRoom:
		return KindRoom, nil
	case KindTable:
		return KindTable, nil
	default:
		return "", ErrInvalidKind
	}
}

// Resource is a bookable unit owned by a business. Immutable once loaded.
type Resource struct {
	id         uuid.UUID
	businessID uuid.UUID
	kind       Kind
	capacity   int
	name       string
}

func NewResource(id, businessID uuid.UUID, kind Kind, capacity int, name string) (*Resource, error) {
	if err := validateResourceName(name); err != nil {
		return nil, err
	}
	if kind != KindRoom && kind != KindTable {
		return nil, ErrInvalidKind
	}
	if capacity < 1 {
		return nil, ErrInvalidCapacity
	}

	return &Resource{
		id:         id,
		businessID: businessID,
		kind:       kind,
		capacity:   capacity,
		name:       strings.TrimSpace(name),
	}, nil
}

// BelongsTo reports whether the resource is owned by businessID.
func (r *Resource) BelongsTo(businessID uuid.UUID) bool {
	return r.businessID == businessID
}

func (r *Resource) EnsureKind(kind Kind) error {
	if r.kind != kind {
		return errs.Wrapf(errs.ErrResourceKindInvalid, "resource %s is a %s, not a %s", r.id, r.kind, kind)
	}
	return nil
}

func (r *Resource) Admits(guests int) error {
	if guests > r.capacity {
		return errs.Wrapf(errs.ErrCapacityExceeded, "%d guests requested, capacity is %d", guests, r.capacity)
	}
	return nil
}

func validateResourceName(name string) error {
	name = strings.TrimSpace(name)
	if name == "" {
		return ErrEmptyResourceName
	}
	if len(name) > MaxResourceNameLength {
		return ErrResourceNameTooLong
	}
	return nil
}

func (r *Resource) ID() uuid.UUID         { return r.id }
func (r *Resource) BusinessID() uuid.UUID { return r.businessID }
func (r *Resource) Kind() Kind            { return r.kind }
func (r *Resource) Capacity() int         { return r.capacity }
func (r *Resource) Name() string          { return r.name }
