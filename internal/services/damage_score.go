package services

import (
	"fmt"

	"github.com/AlcMaple/bridge-inspection-backend/internal/data/repos"
	types "github.com/AlcMaple/bridge-inspection-backend/internal/domain"
	"github.com/AlcMaple/bridge-inspection-backend/internal/modules/scoring"
	"github.com/AlcMaple/bridge-inspection-backend/internal/platform/dbctx"
	"github.com/AlcMaple/bridge-inspection-backend/internal/platform/logger"
	"github.com/AlcMaple/bridge-inspection-backend/internal/platform/pointers"
)

// DamageQuery selects the inspection data of one bridge instance. UserID nil reads
// administrator-created data.
type DamageQuery struct {
	BridgeInstanceName         string
	BridgeTypeID               int64
	AssessmentUnitInstanceName *string
	UserID                     *int64
}

// ScoredDamage is one inspection record resolved to a deduction, with the physical
// component it was recorded on.
type ScoredDamage struct {
	scoring.Damage
	Component scoring.Component
}

type DamageScoreCalculator interface {
	Calculate(dbc dbctx.Context, q DamageQuery) ([]ScoredDamage, error)
}

type damageScoreCalculator struct {
	log       *logger.Logger
	userPaths repos.UserPathRepo
	records   repos.InspectionRecordRepo
	paths     repos.PathRepo
	scales    repos.ScaleRepo
}

func NewDamageScoreCalculator(
	baseLog *logger.Logger,
	userPaths repos.UserPathRepo,
	records repos.InspectionRecordRepo,
	paths repos.PathRepo,
	scales repos.ScaleRepo,
) DamageScoreCalculator {
	return &damageScoreCalculator{
		log:       baseLog.With("service", "DamageScoreCalculator"),
		userPaths: userPaths,
		records:   records,
		paths:     paths,
		scales:    scales,
	}
}

type maxScaleKey struct {
	pathsID   int64
	diseaseID int64
}

// Calculate scores every active record attached to the instance's user paths. A record
// reachable through several user paths is scored once, through the first of them.
func (c *damageScoreCalculator) Calculate(dbc dbctx.Context, q DamageQuery) ([]ScoredDamage, error) {
	ups, err := c.userPaths.ListActiveForInstance(dbc, repos.InstanceFilter{
		BridgeInstanceName:         q.BridgeInstanceName,
		BridgeTypeID:               q.BridgeTypeID,
		AssessmentUnitInstanceName: q.AssessmentUnitInstanceName,
		UserID:                     q.UserID,
	})
	if err != nil {
		return nil, fmt.Errorf("list user paths: %w", err)
	}

	basePaths := map[int64]*types.Path{}
	maxScales := map[maxScaleKey]*int{}
	seen := map[int64]bool{}
	out := []ScoredDamage{}

	for _, up := range ups {
		records, err := c.records.ListActiveMatching(dbc, up)
		if err != nil {
			return nil, fmt.Errorf("list inspection records for user path %d: %w", up.ID, err)
		}
		if len(records) == 0 {
			continue
		}

		base, ok := basePaths[up.PathsID]
		if !ok {
			base, err = c.paths.GetByID(dbc, up.PathsID)
			if err != nil {
				return nil, fmt.Errorf("load path %d: %w", up.PathsID, err)
			}
			basePaths[up.PathsID] = base
		}

		for _, rec := range records {
			if seen[rec.ID] {
				continue
			}
			seen[rec.ID] = true

			var maxScale *int
			if base != nil {
				k := maxScaleKey{pathsID: base.ID, diseaseID: rec.DamageTypeID}
				cached, ok := maxScales[k]
				if !ok {
					cached, err = c.maxScale(dbc, base.Hierarchy, rec.DamageTypeID)
					if err != nil {
						return nil, err
					}
					maxScales[k] = cached
				}
				maxScale = cached
			}

			scaleValue, err := c.scales.GetScaleValue(dbc, rec.ScaleID)
			if err != nil {
				return nil, fmt.Errorf("load scale for record %d: %w", rec.ID, err)
			}

			points, status := scoring.ScoreDamage(maxScale, scaleValue)
			if !status.Scored() {
				c.log.Warn("inspection record not scored",
					"record_id", rec.ID,
					"bridge_instance_name", rec.BridgeInstanceName,
					"disease_id", rec.DamageTypeID,
					"status", string(status),
				)
			}

			name := pointers.Deref(rec.ComponentName)
			key := scoring.ComponentKey(rec.PartID, rec.ComponentTypeID, rec.ComponentFormID, name)
			out = append(out, ScoredDamage{
				Damage: scoring.Damage{
					RecordID:          rec.ID,
					ComponentKey:      key,
					DiseaseID:         rec.DamageTypeID,
					ScaleID:           rec.ScaleID,
					ScaleValue:        scaleValue,
					MaxScale:          maxScale,
					DamageScore:       points,
					Status:            status,
					DamageLocation:    rec.DamageLocation,
					DamageDescription: rec.DamageDescription,
				},
				Component: scoring.Component{
					Key:             key,
					PartID:          rec.PartID,
					StructureID:     rec.StructureID,
					ComponentTypeID: rec.ComponentTypeID,
					ComponentFormID: rec.ComponentFormID,
					ComponentName:   componentNameOrDefault(name),
				},
			})
		}
	}
	return out, nil
}

// maxScale is the worst severity diseaseID can reach at h, or nil when no path
// variant of the disease carries a scale.
func (c *damageScoreCalculator) maxScale(dbc dbctx.Context, h types.Hierarchy, diseaseID int64) (*int, error) {
	values, err := c.paths.ListDiseaseScaleValues(dbc, h, diseaseID)
	if err != nil {
		return nil, fmt.Errorf("list scale values for disease %d: %w", diseaseID, err)
	}
	if len(values) == 0 {
		return nil, nil
	}
	m := values[0]
	for _, v := range values[1:] {
		if v > m {
			m = v
		}
	}
	return &m, nil
}

func componentNameOrDefault(name string) string {
	if name == "" {
		return scoring.DefaultComponentName
	}
	return name
}
