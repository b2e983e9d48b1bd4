package httperr

import (
	"context"
	"net/http"

	"booking-core/internal/pkg/errs"
	"booking-core/internal/usecase/queries"

	"github.com/gin-gonic/gin"
)

type Response struct {
	Status int `json:"-"`
	Error  struct {
		Message string `json:"message"`
	} `json:"error"`
	Detail any `json:"detail,omitempty"`
}

// nginx's code for a client that went away before the response
const statusClientClosedRequest = 499

type mapping struct {
	target  error
	status  int
	message string
}

// first match wins
var mappings = []mapping{
	{errs.ErrReservationNotFound, http.StatusNotFound, "Reservation not found"},
	{errs.ErrResourceNotFound, http.StatusNotFound, "Resource not found"},
	{errs.ErrInvalidInterval, http.StatusBadRequest, "Invalid interval"},
	{queries.ErrInvalidCursor, http.StatusBadRequest, "Invalid cursor"},
	{errs.ErrCapacityExceeded, http.StatusUnprocessableEntity, "Guest count exceeds resource capacity"},
	{errs.ErrResourceKindInvalid, http.StatusUnprocessableEntity, "Resource kind does not match request"},
	{errs.ErrInvalidReservation, http.StatusUnprocessableEntity, "Invalid reservation"},
	{errs.ErrSlotUnavailable, http.StatusConflict, "Slot unavailable"},
	{errs.ErrInvalidTransition, http.StatusConflict, "Invalid status transition"},
	{errs.ErrStatusConflict, http.StatusConflict, "Reservation status changed concurrently"},
	{errs.ErrForbidden, http.StatusForbidden, "Forbidden"},
	{errs.ErrDuplicateReservation, http.StatusConflict, "Duplicate reservation request with different parameters"},
	{errs.ErrIdempotencyInProgress, http.StatusConflict, "Reservation request is currently being processed"},
	{context.Canceled, statusClientClosedRequest, "Request cancelled"},
	{context.DeadlineExceeded, http.StatusGatewayTimeout, "Request timed out"},
}

// preserves original error for future monitoring
func AbortWithError(c *gin.Context, status int, err error, msg string, detail any) {
	if err == nil {
		panic("AbortWithError: err cannot be nil")
	}

	resp := Response{Status: status}
	resp.Error.Message = msg
	resp.Detail = detail

	_ = c.Error(&gin.Error{
		Err:  err,
		Type: gin.ErrorTypePublic,
		Meta: resp,
	})
	c.AbortWithStatusJSON(status, resp)
}

// Classify returns the status and public message for a usecase error.
// Unknown errors are reported as 500 without leaking their text.
func Classify(err error) (int, string) {
	for _, m := range mappings {
		if errs.Is(err, m.target) {
			return m.status, m.message
		}
	}
	return http.StatusInternalServerError, "Internal server error"
}

func AbortWithUsecaseError(c *gin.Context, err error) {
	status, msg := Classify(err)
	AbortWithError(c, status, err, msg, nil)
}
