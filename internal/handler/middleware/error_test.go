//go:build unit

package middleware_test

import (
	"context"
	"errors"
	"net/http"
	"testing"

	"booking-core/internal/handler/httperr"
	"booking-core/internal/handler/middleware"
	"booking-core/internal/pkg/errs"
	"booking-core/tests/common/httptest"

	"github.com/gin-gonic/gin"
)

func newRouter(h gin.HandlerFunc) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.Use(middleware.CustomRecovery(), middleware.ErrorHandler())
	r.GET("/boom", h)
	return r
}

func TestErrorHandler(t *testing.T) {
	testCases := []struct {
		name       string
		handler    gin.HandlerFunc
		wantStatus int
		wantMsg    string
	}{
		{
			name: "public error keeps its envelope",
			handler: func(c *gin.Context) {
				resp := httperr.Response{Status: http.StatusTeapot}
				resp.Error.Message = "short and stout"
				_ = c.Error(&gin.Error{Err: errors.New("teapot"), Type: gin.ErrorTypePublic, Meta: resp})
			},
			wantStatus: http.StatusTeapot,
			wantMsg:    "short and stout",
		},
		{
			name: "domain error is classified",
			handler: func(c *gin.Context) {
				_ = c.Error(errs.Wrap(errs.ErrSlotUnavailable, "room 101"))
			},
			wantStatus: http.StatusConflict,
			wantMsg:    "Slot unavailable",
		},
		{
			name: "unknown error hides its text",
			handler: func(c *gin.Context) {
				_ = c.Error(errors.New("pq: connection refused"))
			},
			wantStatus: http.StatusInternalServerError,
			wantMsg:    "Internal server error",
		},
		{
			name: "cancelled booking is not reported as a server fault",
			handler: func(c *gin.Context) {
				_ = c.Error(errs.Wrap(context.Canceled, "persist reservation"))
			},
			wantStatus: 499,
			wantMsg:    "Request cancelled",
		},
		{
			name:       "panic is recovered",
			handler:    func(*gin.Context) { panic("boom") },
			wantStatus: http.StatusInternalServerError,
			wantMsg:    "Internal server error",
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			w := httptest.PerformRequest(t, newRouter(tc.handler), http.MethodGet, "/boom", nil, "")
			httptest.AssertErrorResponse(t, w, tc.wantStatus, tc.wantMsg)
		})
	}
}

func TestErrorHandler_LeavesWrittenResponsesAlone(t *testing.T) {
	r := newRouter(func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"ok": true})
		_ = c.Error(errors.New("late failure"))
	})

	w := httptest.PerformRequest(t, r, http.MethodGet, "/boom", nil, "")

	var body map[string]bool
	httptest.AssertSuccessResponse(t, w, http.StatusOK, &body)
}
