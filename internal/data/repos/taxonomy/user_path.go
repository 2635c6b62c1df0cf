package taxonomy

import (
	"github.com/AlcMaple/bridge-inspection-backend/internal/data/repos/nullable"
	types "github.com/AlcMaple/bridge-inspection-backend/internal/domain"
	"github.com/AlcMaple/bridge-inspection-backend/internal/platform/dbctx"
	"github.com/AlcMaple/bridge-inspection-backend/internal/platform/logger"
	"gorm.io/gorm"
)

// InstanceFilter selects the user paths of one bridge instance. UserID nil scopes
// to administrator-created rows; AssessmentUnitInstanceName nil does not filter.
type InstanceFilter struct {
	BridgeInstanceName         string
	BridgeTypeID               int64
	AssessmentUnitInstanceName *string
	UserID                     *int64
}

type BridgeTypeOption struct {
	ID   int64  `json:"id"`
	Name string `json:"name"`
}

type UserPathRepo interface {
	Create(dbc dbctx.Context, rows []*types.UserPath) ([]*types.UserPath, error)
	ListActiveForInstance(dbc dbctx.Context, f InstanceFilter) ([]*types.UserPath, error)
	DistinctBridgeInstances(dbc dbctx.Context, userID *int64) ([]string, error)
	DistinctAssessmentUnitInstances(dbc dbctx.Context, bridgeInstanceName string, userID *int64) ([]string, error)
	DistinctBridgeTypes(dbc dbctx.Context, bridgeInstanceName string, assessmentUnitInstanceName *string, userID *int64) ([]BridgeTypeOption, error)
}

type userPathRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewUserPathRepo(db *gorm.DB, baseLog *logger.Logger) UserPathRepo {
	return &userPathRepo{db: db, log: baseLog.With("repo", "UserPathRepo")}
}

func (r *userPathRepo) tx(dbc dbctx.Context) *gorm.DB {
	t := dbc.Tx
	if t == nil {
		t = r.db
	}
	return t.WithContext(dbc.Context())
}

func (r *userPathRepo) active(dbc dbctx.Context, userID *int64) *gorm.DB {
	q := r.tx(dbc).Model(&types.UserPath{}).Where("is_active = ?", true)
	return nullable.Eq(q, "user_id", userID)
}

func (r *userPathRepo) Create(dbc dbctx.Context, rows []*types.UserPath) ([]*types.UserPath, error) {
	if len(rows) == 0 {
		return []*types.UserPath{}, nil
	}
	if err := r.tx(dbc).Create(&rows).Error; err != nil {
		return nil, err
	}
	return rows, nil
}

func (r *userPathRepo) ListActiveForInstance(dbc dbctx.Context, f InstanceFilter) ([]*types.UserPath, error) {
	out := []*types.UserPath{}
	if f.BridgeInstanceName == "" || f.BridgeTypeID <= 0 {
		return out, nil
	}
	q := r.active(dbc, f.UserID).
		Where("bridge_instance_name = ? AND bridge_type_id = ?", f.BridgeInstanceName, f.BridgeTypeID)
	q = nullable.Optional(q, "assessment_unit_instance_name", f.AssessmentUnitInstanceName)
	if err := q.Order("id ASC").Find(&out).Error; err != nil {
		return nil, err
	}
	return out, nil
}

func (r *userPathRepo) DistinctBridgeInstances(dbc dbctx.Context, userID *int64) ([]string, error) {
	out := []string{}
	err := r.active(dbc, userID).
		Distinct("bridge_instance_name").
		Where("bridge_instance_name <> ''").
		Order("bridge_instance_name ASC").
		Pluck("bridge_instance_name", &out).Error
	if err != nil {
		return nil, err
	}
	return out, nil
}

func (r *userPathRepo) DistinctAssessmentUnitInstances(dbc dbctx.Context, bridgeInstanceName string, userID *int64) ([]string, error) {
	out := []string{}
	if bridgeInstanceName == "" {
		return out, nil
	}
	err := r.active(dbc, userID).
		Distinct("assessment_unit_instance_name").
		Where("bridge_instance_name = ?", bridgeInstanceName).
		Where("assessment_unit_instance_name IS NOT NULL AND assessment_unit_instance_name <> ''").
		Order("assessment_unit_instance_name ASC").
		Pluck("assessment_unit_instance_name", &out).Error
	if err != nil {
		return nil, err
	}
	return out, nil
}

func (r *userPathRepo) DistinctBridgeTypes(dbc dbctx.Context, bridgeInstanceName string, assessmentUnitInstanceName *string, userID *int64) ([]BridgeTypeOption, error) {
	out := []BridgeTypeOption{}
	if bridgeInstanceName == "" {
		return out, nil
	}
	q := r.tx(dbc).
		Table("user_paths AS up").
		Select("DISTINCT up.bridge_type_id AS id, COALESCE(bt.name, '') AS name").
		Joins("LEFT JOIN bridge_types AS bt ON bt.id = up.bridge_type_id").
		Where("up.is_active = ? AND up.bridge_instance_name = ?", true, bridgeInstanceName)
	q = nullable.Eq(q, "up.user_id", userID)
	q = nullable.Optional(q, "up.assessment_unit_instance_name", assessmentUnitInstanceName)
	if err := q.Order("id ASC").Scan(&out).Error; err != nil {
		return nil, err
	}
	return out, nil
}
