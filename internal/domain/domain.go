package domain

import (
	"github.com/AlcMaple/bridge-inspection-backend/internal/domain/scoring"
	"github.com/AlcMaple/bridge-inspection-backend/internal/domain/taxonomy"
)

const PlaceholderComponentForm = taxonomy.PlaceholderComponentForm

type (
	Category       = taxonomy.Category
	AssessmentUnit = taxonomy.AssessmentUnit
	BridgeType     = taxonomy.BridgeType
	Part           = taxonomy.Part
	Structure      = taxonomy.Structure
	ComponentType  = taxonomy.ComponentType
	ComponentForm  = taxonomy.ComponentForm
	Disease        = taxonomy.Disease
	Scale          = taxonomy.Scale
	Quality        = taxonomy.Quality
	Quantity       = taxonomy.Quantity

	Hierarchy        = taxonomy.Hierarchy
	Path             = taxonomy.Path
	UserPath         = taxonomy.UserPath
	InspectionRecord = taxonomy.InspectionRecord

	WeightReference = scoring.WeightReference
	Score           = scoring.Score
)

// AllModels lists every persisted entity in migration order.
func AllModels() []any {
	return []any{
		&Category{},
		&AssessmentUnit{},
		&BridgeType{},
		&Part{},
		&Structure{},
		&ComponentType{},
		&ComponentForm{},
		&Disease{},
		&Scale{},
		&Quality{},
		&Quantity{},

		&Path{},
		&UserPath{},
		&InspectionRecord{},

		&WeightReference{},
		&Score{},
	}
}
