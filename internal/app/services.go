package app

import (
	"time"

	"gorm.io/gorm"

	dataagg "github.com/AlcMaple/bridge-inspection-backend/internal/data/aggregates"
	"github.com/AlcMaple/bridge-inspection-backend/internal/observability"
	"github.com/AlcMaple/bridge-inspection-backend/internal/platform/cache"
	"github.com/AlcMaple/bridge-inspection-backend/internal/platform/logger"
	"github.com/AlcMaple/bridge-inspection-backend/internal/services"
)

type Services struct {
	WeightLinks services.WeightLinkReader
	Scores      services.ScoresService
}

func wireServices(db *gorm.DB, log *logger.Logger, cfg Config, r Repos, store cache.Store, metrics *observability.Metrics) Services {
	log.Info("Wiring services...")

	allocations := dataagg.NewScoreAllocationAggregate(dataagg.ScoreAllocationAggregateDeps{
		Base: dataagg.BaseDeps{
			DB:    db,
			Log:   log,
			Hooks: dataagg.NewObservabilityHooks(metrics),
		},
		Scores: r.Score,
	})
	weightLinks := services.NewWeightLinkReader(log, r.WeightReference, store, time.Duration(cfg.CacheTTLSeconds)*time.Second)

	scores := services.NewScoresService(log, services.ScoresServiceDeps{
		Allocations: allocations,
		WeightLinks: weightLinks,
		Counter:     services.NewComponentCounter(log, r.Path),
		Damages:     services.NewDamageScoreCalculator(log, r.UserPath, r.InspectionRecord, r.Path, r.Scale),
		Scores:      r.Score,
		UserPaths:   r.UserPath,
		Paths:       r.Path,
	})

	return Services{WeightLinks: weightLinks, Scores: scores}
}
