package api

import (
	"context"
	"errors"
	"net/http"
	"strconv"
	"time"

	reqdto "booking-core/internal/handler/dto/request"
	resdto "booking-core/internal/handler/dto/response"
	"booking-core/internal/handler/httperr"
	"booking-core/internal/handler/middleware"
	"booking-core/internal/pkg/errs"
	"booking-core/internal/usecase/commands"
	"booking-core/internal/usecase/queries"
	"booking-core/internal/usecase/shared"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
)

const (
	headerIdempotencyKey    = "Idempotency-Key"
	headerIdempotentReplay  = "Idempotent-Replayed"
	errMsgInternal          = "Internal server error"
	errMsgInvalidRequest    = "Invalid request format"
	errMsgValidationFailed  = "Validation failed"
	errMsgInvalidIDFormat   = "Invalid ID format"
	errMsgInvalidIdempotKey = "Invalid idempotency key format"
)

var errActorMissing = errors.New("actor missing from context")

type ReservationHandler struct {
	booking      commands.BookingCommands
	lifecycle    commands.LifecycleCommands
	reservations queries.ReservationQueries
	availability queries.AvailabilityQueries
}

func NewReservationHandler(
	booking commands.BookingCommands,
	lifecycle commands.LifecycleCommands,
	reservations queries.ReservationQueries,
	availability queries.AvailabilityQueries,
) *ReservationHandler {
	return &ReservationHandler{
		booking:      booking,
		lifecycle:    lifecycle,
		reservations: reservations,
		availability: availability,
	}
}

// @Summary Create hotel reservation
// @Description Book a room for [startDate, endDate) given as YYYY-MM-DD (UTC)
// @Tags reservations
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param Idempotency-Key header string false "Idempotency key (UUID)"
// @Param request body reqdto.CreateHotelReservationRequest true "Hotel reservation request"
// @Success 201 {object} resdto.ReservationResponse
// @Success 200 {object} resdto.ReservationResponse "Idempotent replay"
// @Failure 400 {object} httperr.Response
// @Failure 401 {object} httperr.Response
// @Failure 404 {object} httperr.Response
// @Failure 409 {object} httperr.Response
// @Failure 422 {object} httperr.Response
// @Router /api/reservations/hotel [post]
func (h *ReservationHandler) CreateHotelReservation(c *gin.Context) {
	var req reqdto.CreateHotelReservationRequest
	if !bindJSON(c, &req) {
		return
	}
	cmd, err := req.ToCommand()
	if err != nil {
		httperr.AbortWithUsecaseError(c, err)
		return
	}
	h.book(c, cmd)
}

// @Summary Create restaurant reservation
// @Description Book a table for [startDate, endDate) given as RFC 3339 timestamps
// @Tags reservations
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param Idempotency-Key header string false "Idempotency key (UUID)"
// @Param request body reqdto.CreateRestaurantReservationRequest true "Restaurant reservation request"
// @Success 201 {object} resdto.ReservationResponse
// @Success 200 {object} resdto.ReservationResponse "Idempotent replay"
// @Failure 400 {object} httperr.Response
// @Failure 401 {object} httperr.Response
// @Failure 404 {object} httperr.Response
// @Failure 409 {object} httperr.Response
// @Failure 422 {object} httperr.Response
// @Router /api/reservations/restaurant [post]
func (h *ReservationHandler) CreateRestaurantReservation(c *gin.Context) {
	var req reqdto.CreateRestaurantReservationRequest
	if !bindJSON(c, &req) {
		return
	}
	cmd, err := req.ToCommand()
	if err != nil {
		httperr.AbortWithUsecaseError(c, err)
		return
	}
	h.book(c, cmd)
}

func (h *ReservationHandler) book(c *gin.Context, cmd commands.BookingRequest) {
	actor, ok := actorFrom(c)
	if !ok {
		return
	}

	idempotencyKey, err := parseIdempotencyKey(c)
	if err != nil {
		httperr.AbortWithError(c, http.StatusBadRequest, err, errMsgInvalidIdempotKey, nil)
		return
	}

	result, err := h.booking.Book(c.Request.Context(), actor, cmd, idempotencyKey)
	if err != nil {
		httperr.AbortWithUsecaseError(c, err)
		return
	}

	resp, err := resdto.FromReservationView(result.Reservation)
	if err != nil {
		httperr.AbortWithError(c, http.StatusInternalServerError, err, errMsgInternal, nil)
		return
	}

	if result.IsReplayed {
		c.Header(headerIdempotentReplay, "true")
		c.JSON(http.StatusOK, resp)
		return
	}
	c.Header("Location", "/api/reservations/"+resp.ID.String())
	c.JSON(http.StatusCreated, resp)
}

// @Summary Confirm reservation
// @Description Move a PENDING reservation to CONFIRMED. Confirming a CONFIRMED reservation is a no-op.
// @Tags reservations
// @Produce json
// @Security BearerAuth
// @Param id path string true "Reservation ID"
// @Success 200 {object} resdto.TransitionResponse
// @Failure 400 {object} httperr.Response
// @Failure 403 {object} httperr.Response
// @Failure 404 {object} httperr.Response
// @Failure 409 {object} httperr.Response
// @Router /api/reservations/{id}/confirm [put]
func (h *ReservationHandler) ConfirmReservation(c *gin.Context) {
	h.transition(c, h.lifecycle.Confirm)
}

// @Summary Cancel reservation
// @Description Cancel a PENDING or CONFIRMED reservation and free its interval
// @Tags reservations
// @Produce json
// @Security BearerAuth
// @Param id path string true "Reservation ID"
// @Success 200 {object} resdto.TransitionResponse
// @Failure 400 {object} httperr.Response
// @Failure 403 {object} httperr.Response
// @Failure 404 {object} httperr.Response
// @Failure 409 {object} httperr.Response
// @Router /api/reservations/{id}/cancel [put]
func (h *ReservationHandler) CancelReservation(c *gin.Context) {
	h.transition(c, h.lifecycle.Cancel)
}

// @Summary Complete reservation
// @Tags reservations
// @Produce json
// @Security BearerAuth
// @Param id path string true "Reservation ID"
// @Success 200 {object} resdto.TransitionResponse
// @Failure 400 {object} httperr.Response
// @Failure 403 {object} httperr.Response
// @Failure 404 {object} httperr.Response
// @Failure 409 {object} httperr.Response
// @Router /api/reservations/{id}/complete [put]
func (h *ReservationHandler) CompleteReservation(c *gin.Context) {
	h.transition(c, h.lifecycle.Complete)
}

type transitionFunc func(ctx context.Context, actor shared.Actor, id uuid.UUID) (*commands.TransitionResult, error)

func (h *ReservationHandler) transition(c *gin.Context, fn transitionFunc) {
	actor, ok := actorFrom(c)
	if !ok {
		return
	}
	id, ok := pathUUID(c, "id")
	if !ok {
		return
	}

	result, err := fn(c.Request.Context(), actor, id)
	if err != nil {
		httperr.AbortWithUsecaseError(c, err)
		return
	}

	c.JSON(http.StatusOK, resdto.FromTransitionResult(result))
}

// @Summary Get reservation
// @Description Get reservation by ID (owner or operator)
// @Tags reservations
// @Produce json
// @Security BearerAuth
// @Param id path string true "Reservation ID"
// @Success 200 {object} resdto.ReservationResponse
// @Failure 400 {object} httperr.Response
// @Failure 403 {object} httperr.Response
// @Failure 404 {object} httperr.Response
// @Router /api/reservations/{id} [get]
func (h *ReservationHandler) GetReservation(c *gin.Context) {
	actor, ok := actorFrom(c)
	if !ok {
		return
	}
	id, ok := pathUUID(c, "id")
	if !ok {
		return
	}

	view, err := h.reservations.GetByID(c.Request.Context(), actor, id)
	if err != nil {
		httperr.AbortWithUsecaseError(c, err)
		return
	}

	resp, err := resdto.FromReservationView(view)
	if err != nil {
		httperr.AbortWithError(c, http.StatusInternalServerError, err, errMsgInternal, nil)
		return
	}
	c.JSON(http.StatusOK, resp)
}

// @Summary List my reservations
// @Tags reservations
// @Produce json
// @Security BearerAuth
// @Param limit query int false "Page size (default 20, max 200)"
// @Param after query string false "Cursor from a previous page"
// @Success 200 {object} resdto.ReservationListResponse
// @Failure 400 {object} httperr.Response
// @Router /api/reservations [get]
func (h *ReservationHandler) ListMyReservations(c *gin.Context) {
	actor, ok := actorFrom(c)
	if !ok {
		return
	}
	h.listByUser(c, actor, actor.UserID)
}

// @Summary List reservations of a user
// @Description Self or operator
// @Tags reservations
// @Produce json
// @Security BearerAuth
// @Param id path string true "User ID"
// @Param limit query int false "Page size (default 20, max 200)"
// @Param after query string false "Cursor from a previous page"
// @Success 200 {object} resdto.ReservationListResponse
// @Failure 400 {object} httperr.Response
// @Failure 403 {object} httperr.Response
// @Router /api/users/{id}/reservations [get]
func (h *ReservationHandler) ListUserReservations(c *gin.Context) {
	actor, ok := actorFrom(c)
	if !ok {
		return
	}
	userID, ok := pathUUID(c, "id")
	if !ok {
		return
	}
	h.listByUser(c, actor, userID)
}

func (h *ReservationHandler) listByUser(c *gin.Context, actor shared.Actor, userID uuid.UUID) {
	cursor, limit, ok := pageParams(c)
	if !ok {
		return
	}

	views, next, err := h.reservations.ListByUser(c.Request.Context(), actor, userID, cursor, limit)
	if err != nil {
		httperr.AbortWithUsecaseError(c, err)
		return
	}
	writePage(c, views, next)
}

// @Summary List reservations of a business
// @Tags reservations
// @Produce json
// @Security BearerAuth
// @Param id path string true "Business ID"
// @Param limit query int false "Page size (default 20, max 200)"
// @Param after query string false "Cursor from a previous page"
// @Success 200 {object} resdto.ReservationListResponse
// @Failure 400 {object} httperr.Response
// @Failure 403 {object} httperr.Response
// @Router /api/businesses/{id}/reservations [get]
func (h *ReservationHandler) ListBusinessReservations(c *gin.Context) {
	actor, ok := actorFrom(c)
	if !ok {
		return
	}
	businessID, ok := pathUUID(c, "id")
	if !ok {
		return
	}
	cursor, limit, ok := pageParams(c)
	if !ok {
		return
	}

	views, next, err := h.reservations.ListByBusiness(c.Request.Context(), actor, businessID, cursor, limit)
	if err != nil {
		httperr.AbortWithUsecaseError(c, err)
		return
	}
	writePage(c, views, next)
}

// @Summary Check resource availability
// @Tags availability
// @Produce json
// @Security BearerAuth
// @Param id path string true "Business ID"
// @Param resourceId path string true "Resource ID"
// @Param start query string true "Interval start (RFC 3339)"
// @Param end query string true "Interval end (RFC 3339)"
// @Success 200 {object} resdto.AvailabilityResponse
// @Failure 400 {object} httperr.Response
// @Failure 404 {object} httperr.Response
// @Router /api/businesses/{id}/resources/{resourceId}/availability [get]
func (h *ReservationHandler) CheckAvailability(c *gin.Context) {
	businessID, ok := pathUUID(c, "id")
	if !ok {
		return
	}
	resourceID, ok := pathUUID(c, "resourceId")
	if !ok {
		return
	}

	start, startErr := time.Parse(time.RFC3339, c.Query("start"))
	end, endErr := time.Parse(time.RFC3339, c.Query("end"))
	if err := errors.Join(startErr, endErr); err != nil {
		httperr.AbortWithError(c, http.StatusBadRequest, errs.Mark(err, errs.ErrInvalidInterval), "Invalid interval", nil)
		return
	}

	view, err := h.availability.CheckAvailability(c.Request.Context(), businessID, resourceID, start.UTC(), end.UTC())
	if err != nil {
		httperr.AbortWithUsecaseError(c, err)
		return
	}

	resp, err := resdto.FromAvailabilityView(view)
	if err != nil {
		httperr.AbortWithError(c, http.StatusInternalServerError, err, errMsgInternal, nil)
		return
	}
	c.JSON(http.StatusOK, resp)
}

func writePage(c *gin.Context, views []*queries.ReservationView, next *queries.Cursor) {
	resp, err := resdto.FromReservationPage(views, next)
	if err != nil {
		httperr.AbortWithError(c, http.StatusInternalServerError, err, errMsgInternal, nil)
		return
	}
	c.JSON(http.StatusOK, resp)
}

// bindJSON answers 422 for field validation failures and 400 for malformed bodies.
func bindJSON(c *gin.Context, dst any) bool {
	err := c.ShouldBindJSON(dst)
	if err == nil {
		return true
	}

	var verrs validator.ValidationErrors
	if errors.As(err, &verrs) {
		fields := make(map[string]string, len(verrs))
		for _, fe := range verrs {
			fields[fe.Field()] = fe.Tag()
		}
		httperr.AbortWithError(c, http.StatusUnprocessableEntity, err, errMsgValidationFailed, fields)
		return false
	}
	httperr.AbortWithError(c, http.StatusBadRequest, err, errMsgInvalidRequest, nil)
	return false
}

func actorFrom(c *gin.Context) (shared.Actor, bool) {
	actor, ok := middleware.GetActor(c)
	if !ok {
		// RequireAuth always runs first on these routes
		httperr.AbortWithError(c, http.StatusInternalServerError, errActorMissing, errMsgInternal, nil)
		return shared.Actor{}, false
	}
	return actor, true
}

func pathUUID(c *gin.Context, name string) (uuid.UUID, bool) {
	id, err := uuid.Parse(c.Param(name))
	if err != nil {
		httperr.AbortWithError(c, http.StatusBadRequest, err, errMsgInvalidIDFormat, nil)
		return uuid.Nil, false
	}
	return id, true
}

func pageParams(c *gin.Context) (*queries.Cursor, int, bool) {
	limit := 0
	if raw := c.Query("limit"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil {
			httperr.AbortWithError(c, http.StatusBadRequest, err, "Invalid limit", nil)
			return nil, 0, false
		}
		limit = n
	}

	var cursor *queries.Cursor
	if after := c.Query("after"); after != "" {
		cursor = &queries.Cursor{After: after}
	}
	return cursor, limit, true
}

func parseIdempotencyKey(c *gin.Context) (*uuid.UUID, error) {
	raw := c.GetHeader(headerIdempotencyKey)
	if raw == "" {
		return nil, nil
	}
	key, err := uuid.Parse(raw)
	if err != nil {
		return nil, err
	}
	return &key, nil
}
