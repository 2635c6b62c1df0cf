package app

import (
	"context"

	"gorm.io/gorm"

	httpH "github.com/AlcMaple/bridge-inspection-backend/internal/http/handlers"
	"github.com/AlcMaple/bridge-inspection-backend/internal/platform/logger"
)

type Handlers struct {
	Scores *httpH.ScoresHandler
	Health *httpH.HealthHandler
}

type pingFunc func(ctx context.Context) error

func (f pingFunc) Ping(ctx context.Context) error { return f(ctx) }

func dbPinger(db *gorm.DB) httpH.Pinger {
	return pingFunc(func(ctx context.Context) error {
		sqlDB, err := db.DB()
		if err != nil {
			return err
		}
		return sqlDB.PingContext(ctx)
	})
}

func wireHandlers(log *logger.Logger, db *gorm.DB, s Services) Handlers {
	log.Info("Wiring handlers...")
	return Handlers{
		Scores: httpH.NewScoresHandler(httpH.ScoresHandlerDeps{Log: log, Scores: s.Scores}),
		Health: httpH.NewHealthHandler(map[string]httpH.Pinger{"database": dbPinger(db)}),
	}
}
