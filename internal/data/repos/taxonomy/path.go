package taxonomy

import (
	"errors"

	"github.com/AlcMaple/bridge-inspection-backend/internal/data/repos/nullable"
	types "github.com/AlcMaple/bridge-inspection-backend/internal/domain"
	"github.com/AlcMaple/bridge-inspection-backend/internal/platform/dbctx"
	"github.com/AlcMaple/bridge-inspection-backend/internal/platform/logger"
	"gorm.io/gorm"
)

// ComponentCombination is one distinct physical component location of a bridge type.
type ComponentCombination struct {
	PartID            int64
	PartName          string
	StructureID       *int64
	StructureName     string
	ComponentTypeID   *int64
	ComponentTypeName string
	ComponentFormID   *int64
	ComponentFormName string
}

type PathRepo interface {
	Create(dbc dbctx.Context, rows []*types.Path) ([]*types.Path, error)
	GetByID(dbc dbctx.Context, id int64) (*types.Path, error)
	CountActiveComponentForms(dbc dbctx.Context, bridgeTypeID, partID, componentTypeID int64, structureID *int64) (int, error)
	ListDiseaseScaleValues(dbc dbctx.Context, h types.Hierarchy, diseaseID int64) ([]int, error)
	ListComponentCombinations(dbc dbctx.Context, bridgeTypeID int64) ([]ComponentCombination, error)
}

type pathRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewPathRepo(db *gorm.DB, baseLog *logger.Logger) PathRepo {
	return &pathRepo{db: db, log: baseLog.With("repo", "PathRepo")}
}

func (r *pathRepo) tx(dbc dbctx.Context) *gorm.DB {
	t := dbc.Tx
	if t == nil {
		t = r.db
	}
	return t.WithContext(dbc.Context())
}

func (r *pathRepo) Create(dbc dbctx.Context, rows []*types.Path) ([]*types.Path, error) {
	if len(rows) == 0 {
		return []*types.Path{}, nil
	}
	if err := r.tx(dbc).Create(&rows).Error; err != nil {
		return nil, err
	}
	return rows, nil
}

// GetByID returns nil without error when the path does not exist.
func (r *pathRepo) GetByID(dbc dbctx.Context, id int64) (*types.Path, error) {
	if id <= 0 {
		return nil, nil
	}
	var row types.Path
	err := r.tx(dbc).Where("id = ?", id).Take(&row).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &row, nil
}

// CountActiveComponentForms counts distinct real component forms recorded for a weight
// link. Placeholder forms and rows without a form are not counted. structureID narrows
// the count only when set.
func (r *pathRepo) CountActiveComponentForms(dbc dbctx.Context, bridgeTypeID, partID, componentTypeID int64, structureID *int64) (int, error) {
	q := r.tx(dbc).
		Table("paths AS p").
		Joins("JOIN component_forms AS cf ON cf.id = p.component_form_id").
		Where("p.bridge_type_id = ? AND p.part_id = ? AND p.component_type_id = ?", bridgeTypeID, partID, componentTypeID).
		Where("p.is_active = ?", true).
		Where("cf.name <> ?", types.PlaceholderComponentForm)
	q = nullable.Optional(q, "p.structure_id", structureID)

	var count int64
	if err := q.Select("COUNT(DISTINCT p.component_form_id)").Scan(&count).Error; err != nil {
		return 0, err
	}
	return int(count), nil
}

// ListDiseaseScaleValues returns the scale values of every active path variant of
// diseaseID at exactly the given hierarchy position.
func (r *pathRepo) ListDiseaseScaleValues(dbc dbctx.Context, h types.Hierarchy, diseaseID int64) ([]int, error) {
	q := r.tx(dbc).
		Table("paths AS p").
		Joins("JOIN scales AS s ON s.id = p.scale_id").
		Where("p.is_active = ?", true).
		Where("p.disease_id = ?", diseaseID)
	q = nullable.Hierarchy(q, "p.", h)

	out := []int{}
	if err := q.Pluck("s.scale_value", &out).Error; err != nil {
		return nil, err
	}
	return out, nil
}

func (r *pathRepo) ListComponentCombinations(dbc dbctx.Context, bridgeTypeID int64) ([]ComponentCombination, error) {
	out := []ComponentCombination{}
	if bridgeTypeID <= 0 {
		return out, nil
	}
	err := r.tx(dbc).
		Table("paths AS p").
		Select(`DISTINCT p.part_id AS part_id, COALESCE(pt.name, '') AS part_name,
			p.structure_id AS structure_id, COALESCE(st.name, '') AS structure_name,
			p.component_type_id AS component_type_id, COALESCE(ct.name, '') AS component_type_name,
			p.component_form_id AS component_form_id, COALESCE(cf.name, '') AS component_form_name`).
		Joins("LEFT JOIN parts AS pt ON pt.id = p.part_id").
		Joins("LEFT JOIN structures AS st ON st.id = p.structure_id").
		Joins("LEFT JOIN component_types AS ct ON ct.id = p.component_type_id").
		Joins("LEFT JOIN component_forms AS cf ON cf.id = p.component_form_id").
		Where("p.bridge_type_id = ? AND p.is_active = ?", bridgeTypeID, true).
		Order("p.part_id, p.structure_id, p.component_type_id, p.component_form_id").
		Scan(&out).Error
	if err != nil {
		return nil, err
	}
	return out, nil
}
