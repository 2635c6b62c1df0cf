package scoring

import (
	types "github.com/AlcMaple/bridge-inspection-backend/internal/domain"
	"github.com/AlcMaple/bridge-inspection-backend/internal/platform/dbctx"
	"github.com/AlcMaple/bridge-inspection-backend/internal/platform/logger"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// WeightLinkRow is one active weight reference joined to its part and component type names.
type WeightLinkRow struct {
	PartID            int64           `json:"part_id"`
	PartName          string          `json:"part_name"`
	StructureID       *int64          `json:"structure_id,omitempty"`
	ComponentTypeID   int64           `json:"component_type_id"`
	ComponentTypeName string          `json:"component_type_name"`
	Weight            decimal.Decimal `json:"weight"`
}

type WeightReferenceRepo interface {
	Create(dbc dbctx.Context, rows []*types.WeightReference) ([]*types.WeightReference, error)
	ListActiveLinks(dbc dbctx.Context, bridgeTypeID int64) ([]WeightLinkRow, error)
}

type weightReferenceRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewWeightReferenceRepo(db *gorm.DB, baseLog *logger.Logger) WeightReferenceRepo {
	return &weightReferenceRepo{db: db, log: baseLog.With("repo", "WeightReferenceRepo")}
}

func (r *weightReferenceRepo) Create(dbc dbctx.Context, rows []*types.WeightReference) ([]*types.WeightReference, error) {
	t := dbc.Tx
	if t == nil {
		t = r.db
	}
	if len(rows) == 0 {
		return []*types.WeightReference{}, nil
	}
	if err := t.WithContext(dbc.Context()).Create(&rows).Error; err != nil {
		return nil, err
	}
	return rows, nil
}

// ListActiveLinks returns the weight links of a bridge type ordered by part, then component type.
func (r *weightReferenceRepo) ListActiveLinks(dbc dbctx.Context, bridgeTypeID int64) ([]WeightLinkRow, error) {
	t := dbc.Tx
	if t == nil {
		t = r.db
	}
	out := []WeightLinkRow{}
	if bridgeTypeID <= 0 {
		return out, nil
	}
	err := t.WithContext(dbc.Context()).
		Table("weight_references AS wr").
		Select(`wr.part_id AS part_id, COALESCE(p.name, '') AS part_name,
			wr.structure_id AS structure_id,
			wr.component_type_id AS component_type_id, COALESCE(ct.name, '') AS component_type_name,
			wr.weight AS weight`).
		Joins("LEFT JOIN parts AS p ON p.id = wr.part_id").
		Joins("LEFT JOIN component_types AS ct ON ct.id = wr.component_type_id").
		Where("wr.bridge_type_id = ? AND wr.is_active = ?", bridgeTypeID, true).
		Order("wr.part_id ASC, wr.component_type_id ASC").
		Scan(&out).Error
	if err != nil {
		return nil, err
	}
	return out, nil
}
