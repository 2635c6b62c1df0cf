package app

import (
	apphttp "github.com/AlcMaple/bridge-inspection-backend/internal/http"
	httpMW "github.com/AlcMaple/bridge-inspection-backend/internal/http/middleware"
	"github.com/AlcMaple/bridge-inspection-backend/internal/observability"
	"github.com/AlcMaple/bridge-inspection-backend/internal/platform/logger"
)

func wireRouter(log *logger.Logger, cfg Config, handlers Handlers, metrics *observability.Metrics) apphttp.RouterConfig {
	return apphttp.RouterConfig{
		Log:           log,
		ServiceName:   cfg.ServiceName,
		CORSOrigins:   cfg.CORSOrigins,
		RateLimiter:   httpMW.NewRateLimiter(cfg.RateLimitRPS, cfg.RateLimitBurst),
		Metrics:       metrics,
		ScoresHandler: handlers.Scores,
		HealthHandler: handlers.Health,
	}
}
