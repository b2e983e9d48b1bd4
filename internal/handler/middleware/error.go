package middleware

import (
	"log/slog"
	"net/http"

	"booking-core/internal/handler/httperr"
	"booking-core/internal/pkg/errs"

	"github.com/gin-gonic/gin"
)

// ErrorHandler renders errors a handler recorded without writing a body.
// Public errors carry their envelope in Meta; anything else is classified
// like a usecase error so a stray ErrSlotUnavailable still answers 409.
func ErrorHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Next()

		if c.Writer.Written() || len(c.Errors) == 0 {
			return
		}

		for i := len(c.Errors) - 1; i >= 0; i-- {
			if resp, ok := c.Errors[i].Meta.(httperr.Response); ok && c.Errors[i].IsType(gin.ErrorTypePublic) {
				c.JSON(resp.Status, resp)
				return
			}
		}

		last := c.Errors.Last()
		status, msg := httperr.Classify(last.Err)
		if status == http.StatusInternalServerError {
			slog.Error("unhandled request error",
				"method", c.Request.Method,
				"route", c.FullPath(),
				"error", last.Err.Error(),
				"stack", errs.ExtractStackLines(last.Err, 5))
		}

		resp := httperr.Response{Status: status}
		resp.Error.Message = msg
		c.JSON(status, resp)
	}
}

func CustomRecovery() gin.HandlerFunc {
	return func(c *gin.Context) {
		defer func() {
			if rec := recover(); rec != nil {
				slog.Error("recovered from panic", "panic", rec, "method", c.Request.Method, "route", c.FullPath())

				resp := httperr.Response{Status: http.StatusInternalServerError}
				resp.Error.Message = "Internal server error"
				c.AbortWithStatusJSON(resp.Status, resp)
			}
		}()
		c.Next()
	}
}
