package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"

	"expo-booth-service/internal/handler/api"
	"expo-booth-service/internal/handler/middleware"
	"expo-booth-service/internal/pkg/config"
)

type route struct {
	Method  string
	Path    string
	Handler gin.HandlerFunc
	Mw      []gin.HandlerFunc
}

func NewRouter(engine *gin.Engine, cfg config.Config, boothHandler *api.BoothHandler, reservationHandler *api.ReservationHandler, authMiddleware *middleware.AuthMiddleware) {
	setupMiddleware(engine, cfg)
	setupRoutes(engine, boothHandler, reservationHandler, authMiddleware)
}

func setupMiddleware(engine *gin.Engine, cfg config.Config) {
	// Recovery must be first (outermost) to catch panics from all other middleware
	engine.Use(middleware.CustomRecovery())
	engine.Use(middleware.NewCORSMiddleware(cfg.CORS))
	engine.Use(middleware.LoggingMiddleware(nil, cfg.Log))
	engine.Use(middleware.ErrorHandler())
}

func setupRoutes(engine *gin.Engine, boothHandler *api.BoothHandler, reservationHandler *api.ReservationHandler, authMiddleware *middleware.AuthMiddleware) {
	engine.GET("/health", healthCheck)

	if gin.Mode() == gin.DebugMode {
		engine.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))
	}

	apiGroup := engine.Group("/api")
	{
		booths := apiGroup.Group("/booths")
		booths.Use(authMiddleware.RequireAuth())
		{
			addRoutes(booths, []route{
				{Method: http.MethodGet, Path: "", Handler: boothHandler.ListBooths},
				{Method: http.MethodPost, Path: "/availability/check", Handler: boothHandler.CheckAvailability},
				{Method: http.MethodGet, Path: "/statistics", Handler: boothHandler.GetStatistics,
					Mw: []gin.HandlerFunc{authMiddleware.RequireAdmin()}},
			})

			reservations := booths.Group("/reservations")
			{
				addRoutes(reservations, []route{
					{Method: http.MethodPost, Path: "", Handler: reservationHandler.CreateReservation},
					{Method: http.MethodGet, Path: "", Handler: reservationHandler.GetUserReservations},
					{Method: http.MethodGet, Path: "/:id", Handler: reservationHandler.GetReservation},
					{Method: http.MethodDelete, Path: "/:id", Handler: reservationHandler.CancelReservation},
					{Method: http.MethodPatch, Path: "", Handler: reservationHandler.UpdatePaymentStatus,
						Mw: []gin.HandlerFunc{authMiddleware.RequireAdmin()}},
				})
			}
		}
	}
}

// @Summary Health check
// @Description Check if the service is healthy
// @Tags health
// @Produce json
// @Success 200 {object} map[string]string
// @Router /health [get]
func healthCheck(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status":  "ok",
		"message": "Service is healthy",
	})
}

func addRoutes(g *gin.RouterGroup, rs []route) {
	for _, r := range rs {
		h := r.Handler
		if len(r.Mw) > 0 {
			h = chainHandlers(append(r.Mw, r.Handler)...)
		}
		switch r.Method {
		case http.MethodGet:
			g.GET(r.Path, h)
		case http.MethodPost:
			g.POST(r.Path, h)
		case http.MethodPut:
			g.PUT(r.Path, h)
		case http.MethodPatch:
			g.PATCH(r.Path, h)
		case http.MethodDelete:
			g.DELETE(r.Path, h)
		default:
			g.Any(r.Path, h)
		}
	}
}

func chainHandlers(hs ...gin.HandlerFunc) gin.HandlerFunc {
	return func(c *gin.Context) {
		for _, h := range hs {
			h(c)
			if c.IsAborted() {
				return
			}
		}
	}
}
