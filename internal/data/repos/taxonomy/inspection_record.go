package taxonomy

import (
	"github.com/AlcMaple/bridge-inspection-backend/internal/data/repos/nullable"
	types "github.com/AlcMaple/bridge-inspection-backend/internal/domain"
	"github.com/AlcMaple/bridge-inspection-backend/internal/platform/dbctx"
	"github.com/AlcMaple/bridge-inspection-backend/internal/platform/logger"
	"gorm.io/gorm"
)

type InspectionRecordRepo interface {
	Create(dbc dbctx.Context, rows []*types.InspectionRecord) ([]*types.InspectionRecord, error)
	ListActiveMatching(dbc dbctx.Context, up *types.UserPath) ([]*types.InspectionRecord, error)
}

type inspectionRecordRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewInspectionRecordRepo(db *gorm.DB, baseLog *logger.Logger) InspectionRecordRepo {
	return &inspectionRecordRepo{db: db, log: baseLog.With("repo", "InspectionRecordRepo")}
}

func (r *inspectionRecordRepo) Create(dbc dbctx.Context, rows []*types.InspectionRecord) ([]*types.InspectionRecord, error) {
	t := dbc.Tx
	if t == nil {
		t = r.db
	}
	if len(rows) == 0 {
		return []*types.InspectionRecord{}, nil
	}
	if err := t.WithContext(dbc.Context()).Create(&rows).Error; err != nil {
		return nil, err
	}
	return rows, nil
}

// ListActiveMatching returns active records attached to exactly the location of up.
// Every optional attribute is compared null-aware, so a record with a structure never
// matches a user path without one.
func (r *inspectionRecordRepo) ListActiveMatching(dbc dbctx.Context, up *types.UserPath) ([]*types.InspectionRecord, error) {
	out := []*types.InspectionRecord{}
	if up == nil {
		return out, nil
	}
	t := dbc.Tx
	if t == nil {
		t = r.db
	}
	q := t.WithContext(dbc.Context()).
		Where("is_active = ?", true).
		Where("bridge_instance_name = ?", up.BridgeInstanceName).
		Where("bridge_type_id = ? AND part_id = ?", up.BridgeTypeID, up.PartID)
	q = nullable.Eq(q, "assessment_unit_instance_name", up.AssessmentUnitInstanceName)
	q = nullable.Eq(q, "structure_id", up.StructureID)
	q = nullable.Eq(q, "component_type_id", up.ComponentTypeID)
	q = nullable.Eq(q, "component_form_id", up.ComponentFormID)
	q = nullable.Eq(q, "user_id", up.UserID)
	if err := q.Order("id ASC").Find(&out).Error; err != nil {
		return nil, err
	}
	return out, nil
}
