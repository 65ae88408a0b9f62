package api

import (
	"time"

	"github.com/gin-gonic/gin"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"

	"github.com/guttosm/fxpulse/internal/middleware"
)

const requestTimeout = 10 * time.Second

// NewRouter creates a Gin engine with middlewares, swagger and the v1 routes.
// rateLimit is requests per minute per client IP; 0 disables limiting.
//
// Health and readiness endpoints are registered by app.InitializeApp().
func NewRouter(handler *Handler, rateLimit int) *gin.Engine {
	router := gin.New()

	router.Use(
		middleware.RequestID(),
		middleware.RequestLogger(),
		middleware.RecoveryMiddleware(),
		middleware.ErrorHandler,
		middleware.RateLimiter(rateLimit, time.Minute),
		middleware.Timeout(requestTimeout),
	)

	router.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))

	v1 := router.Group("/api/v1")
	{
		v1.GET("/dashboard", handler.GetDashboard)
		v1.GET("/records", handler.GetRecords)
		v1.GET("/convert", handler.GetConversion)
		v1.POST("/refresh", handler.PostRefresh)
	}

	return router
}
