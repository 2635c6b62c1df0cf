package services

import (
	"strings"

	"github.com/AlcMaple/bridge-inspection-backend/internal/data/repos"
	domainagg "github.com/AlcMaple/bridge-inspection-backend/internal/domain/aggregates"
	"github.com/AlcMaple/bridge-inspection-backend/internal/modules/scoring"
	"github.com/shopspring/decimal"
)

const maxPageSize = 500

type ScoreListRequest struct {
	BridgeInstanceName         string  `form:"bridge_instance_name" json:"bridge_instance_name"`
	BridgeTypeID               int64   `form:"bridge_type_id" json:"bridge_type_id"`
	AssessmentUnitInstanceName *string `form:"assessment_unit_instance_name" json:"assessment_unit_instance_name,omitempty"`
	UserID                     *int64  `form:"user_id" json:"user_id,omitempty"`
	Page                       int     `form:"page" json:"page,omitempty"`
	PageSize                   int     `form:"page_size" json:"page_size,omitempty"`
}

func (r *ScoreListRequest) Validate() error {
	if err := validateScope("scores.list", r.BridgeInstanceName, r.BridgeTypeID); err != nil {
		return err
	}
	if r.Page < 0 || r.PageSize < 0 {
		return domainagg.Validationf("scores.list", "page and page_size must not be negative")
	}
	if r.PageSize > maxPageSize {
		return domainagg.Validationf("scores.list", "page_size must be at most %d", maxPageSize)
	}
	return nil
}

type CascadeOptionsRequest struct {
	BridgeInstanceName         *string `form:"bridge_instance_name" json:"bridge_instance_name,omitempty"`
	AssessmentUnitInstanceName *string `form:"assessment_unit_instance_name" json:"assessment_unit_instance_name,omitempty"`
	UserID                     *int64  `form:"user_id" json:"user_id,omitempty"`
}

type CascadeOptions struct {
	BridgeInstanceNames         []string                 `json:"bridge_instance_names"`
	AssessmentUnitInstanceNames []string                 `json:"assessment_unit_instance_names"`
	BridgeTypes                 []repos.BridgeTypeOption `json:"bridge_types"`
}

type CustomComponentCount struct {
	PartID               int64 `json:"part_id"`
	ComponentTypeID      int64 `json:"component_type_id"`
	CustomComponentCount int   `json:"custom_component_count"`
}

type WeightAllocationRequest struct {
	BridgeInstanceName         string                 `json:"bridge_instance_name"`
	BridgeTypeID               int64                  `json:"bridge_type_id"`
	AssessmentUnitInstanceName *string                `json:"assessment_unit_instance_name,omitempty"`
	CalculationMode            string                 `json:"calculation_mode"`
	CustomComponentCounts      []CustomComponentCount `json:"custom_component_counts,omitempty"`
}

// Validate normalises the calculation mode and checks the override list.
func (r *WeightAllocationRequest) Validate() error {
	const op = "scores.weight_allocation"
	if err := validateScope(op, r.BridgeInstanceName, r.BridgeTypeID); err != nil {
		return err
	}
	mode, err := scoring.ParseMode(r.CalculationMode)
	if err != nil {
		return domainagg.NewError(domainagg.CodeValidation, op, err.Error(), nil)
	}
	r.CalculationMode = string(mode)
	if mode != scoring.ModeCustom {
		return nil
	}
	if len(r.CustomComponentCounts) == 0 {
		return domainagg.Validationf(op, "custom_component_counts is required in CUSTOM mode")
	}
	seen := map[scoring.LinkKey]bool{}
	for i, c := range r.CustomComponentCounts {
		if c.PartID <= 0 || c.ComponentTypeID <= 0 {
			return domainagg.Validationf(op, "custom_component_counts[%d]: part_id and component_type_id are required", i)
		}
		if c.CustomComponentCount < 0 {
			return domainagg.Validationf(op, "custom_component_counts[%d]: custom_component_count must not be negative", i)
		}
		k := scoring.LinkKey{PartID: c.PartID, ComponentTypeID: c.ComponentTypeID}
		if seen[k] {
			return domainagg.Validationf(op, "custom_component_counts[%d]: duplicate link %d/%d", i, c.PartID, c.ComponentTypeID)
		}
		seen[k] = true
	}
	return nil
}

func (r *WeightAllocationRequest) mode() scoring.CalculationMode {
	return scoring.CalculationMode(r.CalculationMode)
}

func (r *WeightAllocationRequest) overrides() map[scoring.LinkKey]int {
	out := make(map[scoring.LinkKey]int, len(r.CustomComponentCounts))
	for _, c := range r.CustomComponentCounts {
		out[scoring.LinkKey{PartID: c.PartID, ComponentTypeID: c.ComponentTypeID}] = c.CustomComponentCount
	}
	return out
}

// WeightAllocationSaveRequest carries the allocation the client displayed. Items are
// optional; when present they must agree with the server-side recomputation.
type WeightAllocationSaveRequest struct {
	WeightAllocationRequest
	Items []WeightAllocationItem `json:"items,omitempty"`
}

type WeightAllocationItem struct {
	PartID               int64           `json:"part_id"`
	PartName             string          `json:"part_name"`
	StructureID          *int64          `json:"structure_id,omitempty"`
	ComponentTypeID      int64           `json:"component_type_id"`
	ComponentTypeName    string          `json:"component_type_name"`
	Weight               decimal.Decimal `json:"weight"`
	ComponentCount       int             `json:"component_count"`
	CustomComponentCount int             `json:"custom_component_count"`
	AdjustedWeight       decimal.Decimal `json:"adjusted_weight"`
	UseCustomCount       bool            `json:"use_custom_count"`
}

func itemFromLink(l scoring.WeightLink) WeightAllocationItem {
	return WeightAllocationItem{
		PartID:               l.PartID,
		PartName:             l.PartName,
		StructureID:          l.StructureID,
		ComponentTypeID:      l.ComponentTypeID,
		ComponentTypeName:    l.ComponentTypeName,
		Weight:               l.Weight,
		ComponentCount:       l.ComponentCount,
		CustomComponentCount: l.CustomComponentCount,
		AdjustedWeight:       l.AdjustedWeight,
		UseCustomCount:       l.UseCustomCount,
	}
}

type WeightAllocationResult struct {
	BridgeInstanceName         string                 `json:"bridge_instance_name"`
	AssessmentUnitInstanceName *string                `json:"assessment_unit_instance_name,omitempty"`
	BridgeTypeID               int64                  `json:"bridge_type_id"`
	CalculationMode            string                 `json:"calculation_mode"`
	Items                      []WeightAllocationItem `json:"items"`
	Total                      int                    `json:"total"`
}

type SaveAction string

const (
	SaveActionCreated SaveAction = "created"
	SaveActionUpdated SaveAction = "updated"
)

type WeightAllocationSaveResult struct {
	WeightAllocationResult
	Action SaveAction `json:"action"`
}

// ScoreListItem is one weight link of a bridge instance. Saved reports whether
// the values come from a saved allocation.
type ScoreListItem struct {
	WeightAllocationItem
	Saved bool `json:"saved"`
}

type ScoreCalculationRequest struct {
	BridgeInstanceName         string  `json:"bridge_instance_name"`
	BridgeTypeID               int64   `json:"bridge_type_id"`
	AssessmentUnitInstanceName *string `json:"assessment_unit_instance_name,omitempty"`
	UserID                     *int64  `json:"user_id,omitempty"`
}

func (r *ScoreCalculationRequest) Validate() error {
	return validateScope("scores.calculate", r.BridgeInstanceName, r.BridgeTypeID)
}

type ScoreCalculationResult struct {
	BridgeInstanceName         string                    `json:"bridge_instance_name"`
	AssessmentUnitInstanceName *string                   `json:"assessment_unit_instance_name,omitempty"`
	BridgeTypeID               int64                     `json:"bridge_type_id"`
	Components                 []scoring.ComponentResult `json:"components"`
	Total                      int                       `json:"total"`
	DamageCount                int                       `json:"damage_count"`
	UnscoredCount              int                       `json:"unscored_count"`
}

func validateScope(op, bridgeInstanceName string, bridgeTypeID int64) error {
	if strings.TrimSpace(bridgeInstanceName) == "" {
		return domainagg.Validationf(op, "bridge_instance_name is required")
	}
	if bridgeTypeID <= 0 {
		return domainagg.Validationf(op, "bridge_type_id is required")
	}
	return nil
}

// unitName normalises an optional assessment unit instance name; blank means absent.
func unitName(s *string) *string {
	if s == nil {
		return nil
	}
	v := strings.TrimSpace(*s)
	if v == "" {
		return nil
	}
	return &v
}
