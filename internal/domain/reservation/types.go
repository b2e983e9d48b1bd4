package reservation

import "booking-core/internal/pkg/errs"

type Status string

const (
	StatusPending   Status = "pending"
	StatusConfirmed Status = "confirmed"
	StatusCancelled Status = "cancelled"
	StatusCompleted Status = "completed"
)

// Action names a lifecycle operation applied to an existing reservation.
type Action string

const (
	ActionConfirm  Action = "confirm"
	ActionCancel   Action = "cancel"
	ActionComplete Action = "complete"
)

var validTransitions = map[Status]map[Action]Status{
	StatusPending: {
		ActionConfirm: StatusConfirmed,
		ActionCancel:  StatusCancelled,
	},
	StatusConfirmed: {
		ActionCancel:   StatusCancelled,
		ActionComplete: StatusCompleted,
	},
	StatusCancelled: {},
	StatusCompleted: {},
}

func (s Status) String() string {
	return string(s)
}

func (s Status) IsValid() bool {
	_, ok := validTransitions[s]
	return ok
}

// IsHeld reports whether a reservation in this status blocks its interval.
func (s Status) IsHeld() bool {
	return s == StatusPending || s == StatusConfirmed
}

func (s Status) IsTerminal() bool {
	return s == StatusCancelled || s == StatusCompleted
}

// Next returns the status reached by applying action, or ErrInvalidTransition.
func (s Status) Next(action Action) (Status, error) {
	next, ok := validTransitions[s][action]
	if !ok {
		return "", errs.Wrapf(errs.ErrInvalidTransition, "cannot %s a %s reservation", action, s)
	}
	return next, nil
}

func (s Status) CanTransitionTo(target Status) bool {
	for _, next := range validTransitions[s] {
		if next == target {
			return true
		}
	}
	return false
}

func ParseStatus(s string) (Status, error) {
	status := Status(s)
	if !status.IsValid() {
		return "", errs.Wrapf(errs.ErrInvalidReservation, "unknown status %q", s)
	}
	return status, nil
}

func (a Action) String() string {
	return string(a)
}

// Target is the status an action drives a reservation to.
func (a Action) Target() Status {
	switch a {
	case ActionConfirm:
		return StatusConfirmed
	case ActionCancel:
		return StatusCancelled
	case ActionComplete:
		return StatusCompleted
	default:
		return ""
	}
}
