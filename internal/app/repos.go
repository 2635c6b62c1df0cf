package app

import (
	"gorm.io/gorm"

	"github.com/AlcMaple/bridge-inspection-backend/internal/data/repos"
	"github.com/AlcMaple/bridge-inspection-backend/internal/platform/logger"
)

type Repos struct {
	Path             repos.PathRepo
	UserPath         repos.UserPathRepo
	InspectionRecord repos.InspectionRecordRepo
	Scale            repos.ScaleRepo
	WeightReference  repos.WeightReferenceRepo
	Score            repos.ScoreRepo
}

func wireRepos(db *gorm.DB, log *logger.Logger) Repos {
	log.Info("Wiring repos...")
	return Repos{
		Path:             repos.NewPathRepo(db, log),
		UserPath:         repos.NewUserPathRepo(db, log),
		InspectionRecord: repos.NewInspectionRecordRepo(db, log),
		Scale:            repos.NewScaleRepo(db, log),
		WeightReference:  repos.NewWeightReferenceRepo(db, log),
		Score:            repos.NewScoreRepo(db, log),
	}
}
