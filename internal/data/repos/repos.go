package repos

import (
	"github.com/AlcMaple/bridge-inspection-backend/internal/data/repos/scoring"
	"github.com/AlcMaple/bridge-inspection-backend/internal/data/repos/taxonomy"
	"github.com/AlcMaple/bridge-inspection-backend/internal/platform/logger"
	"gorm.io/gorm"
)

type PathRepo = taxonomy.PathRepo
type UserPathRepo = taxonomy.UserPathRepo
type InspectionRecordRepo = taxonomy.InspectionRecordRepo
type ScaleRepo = taxonomy.ScaleRepo

type ComponentCombination = taxonomy.ComponentCombination
type InstanceFilter = taxonomy.InstanceFilter
type BridgeTypeOption = taxonomy.BridgeTypeOption

type WeightReferenceRepo = scoring.WeightReferenceRepo
type ScoreRepo = scoring.ScoreRepo

type WeightLinkRow = scoring.WeightLinkRow
type ScoreScope = scoring.Scope

func NewPathRepo(db *gorm.DB, baseLog *logger.Logger) PathRepo {
	return taxonomy.NewPathRepo(db, baseLog)
}
func NewUserPathRepo(db *gorm.DB, baseLog *logger.Logger) UserPathRepo {
	return taxonomy.NewUserPathRepo(db, baseLog)
}
func NewInspectionRecordRepo(db *gorm.DB, baseLog *logger.Logger) InspectionRecordRepo {
	return taxonomy.NewInspectionRecordRepo(db, baseLog)
}
func NewScaleRepo(db *gorm.DB, baseLog *logger.Logger) ScaleRepo {
	return taxonomy.NewScaleRepo(db, baseLog)
}

func NewWeightReferenceRepo(db *gorm.DB, baseLog *logger.Logger) WeightReferenceRepo {
	return scoring.NewWeightReferenceRepo(db, baseLog)
}
func NewScoreRepo(db *gorm.DB, baseLog *logger.Logger) ScoreRepo {
	return scoring.NewScoreRepo(db, baseLog)
}
