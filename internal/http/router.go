package http

import (
	"github.com/gin-gonic/gin"
	"go.opentelemetry.io/contrib/instrumentation/github.com/gin-gonic/gin/otelgin"

	httpH "github.com/AlcMaple/bridge-inspection-backend/internal/http/handlers"
	httpMW "github.com/AlcMaple/bridge-inspection-backend/internal/http/middleware"
	"github.com/AlcMaple/bridge-inspection-backend/internal/observability"
	"github.com/AlcMaple/bridge-inspection-backend/internal/platform/logger"
)

type RouterConfig struct {
	Log         *logger.Logger
	ServiceName string
	CORSOrigins []string
	RateLimiter *httpMW.RateLimiter
	Metrics     *observability.Metrics

	ScoresHandler *httpH.ScoresHandler
	HealthHandler *httpH.HealthHandler
}

func NewRouter(cfg RouterConfig) *gin.Engine {
	serviceName := cfg.ServiceName
	if serviceName == "" {
		serviceName = "bridge-inspection"
	}

	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(otelgin.Middleware(serviceName))
	r.Use(httpMW.AttachTraceContext())
	r.Use(httpMW.RequestLogger(cfg.Log))
	r.Use(httpMW.Metrics(cfg.Metrics))
	r.Use(httpMW.CORS(cfg.CORSOrigins))

	// Health
	if cfg.HealthHandler != nil {
		r.GET("/healthcheck", cfg.HealthHandler.HealthCheck)
	}

	api := r.Group("/api")
	api.Use(cfg.RateLimiter.Middleware())

	// Scores
	if cfg.ScoresHandler != nil {
		scores := api.Group("/scores")
		scores.GET("", cfg.ScoresHandler.ListScores)
		scores.GET("/cascade-options", cfg.ScoresHandler.CascadeOptions)
		scores.POST("/weight-allocation/calculate", cfg.ScoresHandler.CalculateWeightAllocation)
		scores.POST("/weight-allocation/save", cfg.ScoresHandler.SaveWeightAllocation)
		scores.DELETE("/weight-allocation", cfg.ScoresHandler.DeleteWeightAllocation)
		scores.POST("/calculate", cfg.ScoresHandler.CalculateScore)
	}

	return r
}
