package middleware

import (
	"log/slog"
	"net/http"
	"slices"

	"booking-core/internal/pkg/config"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
)

// browser clients need these for retries and replays, whatever the env says
var (
	bookingRequestHeaders  = []string{"Authorization", "Idempotency-Key"}
	bookingResponseHeaders = []string{"Location", "Idempotent-Replayed"}
)

func NewCORSMiddleware(cfg config.CORSConfig) gin.HandlerFunc {
	corsCfg := cors.Config{
		AllowOrigins:     cfg.AllowOrigins,
		AllowMethods:     cfg.AllowMethods,
		AllowHeaders:     withHeaders(cfg.AllowHeaders, bookingRequestHeaders),
		ExposeHeaders:    withHeaders(cfg.ExposeHeaders, bookingResponseHeaders),
		AllowCredentials: cfg.AllowCredentials,
		MaxAge:           cfg.MaxAge,
	}
	slog.Info("CORS middleware initialized", "origins", corsCfg.AllowOrigins, "expose", corsCfg.ExposeHeaders)
	return cors.New(corsCfg)
}

func withHeaders(configured, required []string) []string {
	out := slices.Clone(configured)
	for _, h := range required {
		if !slices.ContainsFunc(out, func(c string) bool { return http.CanonicalHeaderKey(c) == h }) {
			out = append(out, h)
		}
	}
	return out
}
