package errs

// Sentinel errors shared by the domain, usecase and handler layers
var (
	// Lookup errors
	ErrResourceNotFound    = New("resource not found")
	ErrReservationNotFound = New("reservation not found")

	// Validation errors
	ErrInvalidInterval     = New("invalid interval: start must be before end")
	ErrCapacityExceeded    = New("guest count exceeds resource capacity")
	ErrInvalidReservation  = New("invalid reservation")
	ErrResourceKindInvalid = New("resource kind does not match request")

	// Booking outcomes
	ErrSlotUnavailable = New("slot unavailable")

	// Lifecycle errors
	ErrInvalidTransition = New("invalid status transition")
	ErrStatusConflict    = New("status changed concurrently")

	// Access errors
	ErrForbidden = New("forbidden")

	// Idempotency errors
	ErrDuplicateReservation   = New("duplicate reservation request")
	ErrIdempotencyInProgress  = New("idempotency in progress")
	ErrIdempotencyCheckFailed = New("idempotency check failed")

	// Operation errors
	ErrDatabaseOperationFailed = New("database operation failed")
)
