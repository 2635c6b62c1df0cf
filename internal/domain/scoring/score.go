package scoring

import (
	"time"

	"github.com/shopspring/decimal"
)

// Score is a saved weight allocation for one link of one bridge instance.
// AssessmentUnitInstanceName is "" when the bridge is scored as a whole so the
// natural key stays unique under Postgres NULL semantics.
//
// ComponentScore, PartScore, TotalScore and EvaluationGrade are reserved for the
// bridge-level rollup and are not written by any code path yet.
type Score struct {
	ID                         int64               `gorm:"primaryKey;autoIncrement" json:"id"`
	BridgeInstanceName         string              `gorm:"column:bridge_instance_name;size:255;not null;uniqueIndex:idx_scores_scope_link,priority:1" json:"bridge_instance_name"`
	AssessmentUnitInstanceName string              `gorm:"column:assessment_unit_instance_name;size:255;not null;default:'';uniqueIndex:idx_scores_scope_link,priority:2" json:"assessment_unit_instance_name"`
	BridgeTypeID               int64               `gorm:"column:bridge_type_id;not null;uniqueIndex:idx_scores_scope_link,priority:3" json:"bridge_type_id"`
	PartID                     int64               `gorm:"column:part_id;not null;uniqueIndex:idx_scores_scope_link,priority:4" json:"part_id"`
	StructureID                *int64              `gorm:"column:structure_id" json:"structure_id,omitempty"`
	ComponentTypeID            int64               `gorm:"column:component_type_id;not null;uniqueIndex:idx_scores_scope_link,priority:5" json:"component_type_id"`
	Weight                     decimal.Decimal     `gorm:"column:weight;type:numeric(10,4);not null" json:"weight"`
	ComponentCount             int                 `gorm:"column:component_count;not null" json:"component_count"`
	CustomComponentCount       int                 `gorm:"column:custom_component_count;not null" json:"custom_component_count"`
	AdjustedWeight             decimal.Decimal     `gorm:"column:adjusted_weight;type:numeric(12,6);not null" json:"adjusted_weight"`
	UseCustomCount             bool                `gorm:"column:use_custom_count;not null" json:"use_custom_count"`
	ComponentScore             decimal.NullDecimal `gorm:"column:component_score;type:numeric(6,2)" json:"component_score"`
	PartScore                  decimal.NullDecimal `gorm:"column:part_score;type:numeric(6,2)" json:"part_score"`
	TotalScore                 decimal.NullDecimal `gorm:"column:total_score;type:numeric(6,2)" json:"total_score"`
	EvaluationGrade            *string             `gorm:"column:evaluation_grade;size:16" json:"evaluation_grade,omitempty"`
	IsActive                   bool                `gorm:"column:is_active;not null;index" json:"is_active"`
	CreatedAt                  time.Time           `gorm:"not null" json:"created_at"`
	UpdatedAt                  time.Time           `gorm:"not null" json:"updated_at"`
}

func (Score) TableName() string { return "scores" }
