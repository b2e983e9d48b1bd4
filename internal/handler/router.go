package handler

import (
	"log/slog"
	"net/http"
	"slices"

	"github.com/gin-gonic/gin"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"

	"booking-core/internal/domain/user"
	"booking-core/internal/handler/api"
	"booking-core/internal/handler/dto/request"
	"booking-core/internal/handler/middleware"
	"booking-core/internal/pkg/config"
)

type route struct {
	Method  string
	Path    string
	Handler gin.HandlerFunc
	Mw      []gin.HandlerFunc
}

func NewRouter(engine *gin.Engine, cfg config.Config, logger *slog.Logger, reservationHandler *api.ReservationHandler, authMiddleware *middleware.AuthMiddleware) {
	request.RegisterValidators()
	setupMiddleware(engine, cfg, logger)
	setupRoutes(engine, reservationHandler, authMiddleware)
}

func setupMiddleware(engine *gin.Engine, cfg config.Config, logger *slog.Logger) {
	// Recovery must be first (outermost) to catch panics from all other middleware
	engine.Use(middleware.CustomRecovery())
	engine.Use(middleware.NewCORSMiddleware(cfg.CORS))
	engine.Use(middleware.RequestLogger(logger))
	engine.Use(middleware.ErrorHandler())
}

func setupRoutes(engine *gin.Engine, reservationHandler *api.ReservationHandler, authMiddleware *middleware.AuthMiddleware) {
	engine.GET("/health", healthCheck)

	if gin.Mode() == gin.DebugMode {
		engine.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))
	}

	staff := []gin.HandlerFunc{authMiddleware.RequireRoleAtLeast(user.RoleOperator)}

	apiGroup := engine.Group("/api")
	apiGroup.Use(authMiddleware.RequireAuth())
	{
		reservations := apiGroup.Group("/reservations")
		addRoutes(reservations, []route{
			{Method: http.MethodPost, Path: "/hotel", Handler: reservationHandler.CreateHotelReservation},
			{Method: http.MethodPost, Path: "/restaurant", Handler: reservationHandler.CreateRestaurantReservation},
			{Method: http.MethodGet, Path: "", Handler: reservationHandler.ListMyReservations},
			{Method: http.MethodGet, Path: "/:id", Handler: reservationHandler.GetReservation},
			{Method: http.MethodPut, Path: "/:id/confirm", Handler: reservationHandler.ConfirmReservation, Mw: staff},
			{Method: http.MethodPut, Path: "/:id/cancel", Handler: reservationHandler.CancelReservation},
			{Method: http.MethodPut, Path: "/:id/complete", Handler: reservationHandler.CompleteReservation, Mw: staff},
		})

		users := apiGroup.Group("/users")
		addRoutes(users, []route{
			{Method: http.MethodGet, Path: "/:id/reservations", Handler: reservationHandler.ListUserReservations},
		})

		businesses := apiGroup.Group("/businesses")
		addRoutes(businesses, []route{
			{Method: http.MethodGet, Path: "/:id/reservations", Handler: reservationHandler.ListBusinessReservations, Mw: staff},
			{Method: http.MethodGet, Path: "/:id/resources/:resourceId/availability", Handler: reservationHandler.CheckAvailability},
		})
	}
}

// @Summary Health check
// @Description Liveness probe for the booking API
// @Tags health
// @Produce json
// @Success 200 {object} map[string]string
// @Router /health [get]
func healthCheck(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}

// addRoutes registers each route behind its own middleware, after the group's.
func addRoutes(g *gin.RouterGroup, rs []route) {
	for _, r := range rs {
		chain := append(slices.Clone(r.Mw), r.Handler)
		g.Handle(r.Method, r.Path, chain...)
	}
}
