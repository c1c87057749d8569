package v1

import (
	"time"

	"portfolio-backend/config"
	"portfolio-backend/internal/delivery/http/middleware"
	"portfolio-backend/internal/domain"
	"portfolio-backend/internal/usecase"

	"github.com/gin-gonic/gin"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
)

type RouterDeps struct {
	ContactUC domain.ContactUsecase
	HealthUC  usecase.HealthUsecase
	Metrics   *middleware.Metrics // Optional, /metrics is only mounted when set
	Config    *config.Config
}

func NewRouter(deps RouterDeps) *gin.Engine {
	r := gin.New()
	isProd := deps.Config.IsProduction()

	// Global Middlewares
	r.Use(middleware.CORSMiddleware(deps.Config.AllowedOrigins, isProd)) // CORS must be first!
	r.Use(middleware.Recovery(isProd))
	r.Use(gin.Logger()) // Use standard Gin logger
	r.Use(middleware.RequestID())
	r.Use(middleware.SecurityHeadersMiddleware())
	if deps.Metrics != nil {
		r.Use(deps.Metrics.Middleware())
		r.GET("/metrics", gin.WrapH(deps.Metrics.Handler()))
	}
	r.Use(middleware.ErrorHandler(isProd))

	v1 := r.Group("/v1")

	// Health Check
	NewHealthHandler(v1, deps.HealthUC)

	// The contact route renders its own errors so the outcome counter sees
	// the final status; the global error handler skips written responses.
	var contactMW []gin.HandlerFunc
	if deps.Metrics != nil {
		contactMW = append(contactMW, deps.Metrics.ContactOutcome())
	}
	contactMW = append(contactMW,
		middleware.ErrorHandler(isProd),
		middleware.RateLimitMiddleware(middleware.ContactRateLimitConfig(
			deps.Config.ContactRateLimit,
			time.Duration(deps.Config.ContactRateWindowSeconds)*time.Second,
			deps.Config.ContactRateFailClosed,
		)),
	)
	NewContactHandler(v1, deps.ContactUC, contactMW...)

	// Swagger
	v1.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))

	return r
}
