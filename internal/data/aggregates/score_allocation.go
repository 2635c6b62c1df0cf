package aggregates

import (
	"context"
	"strings"
	"time"

	"github.com/AlcMaple/bridge-inspection-backend/internal/data/repos"
	types "github.com/AlcMaple/bridge-inspection-backend/internal/domain"
	domainagg "github.com/AlcMaple/bridge-inspection-backend/internal/domain/aggregates"
	"github.com/AlcMaple/bridge-inspection-backend/internal/platform/dbctx"
)

type ScoreAllocationAggregateDeps struct {
	Base BaseDeps

	Scores repos.ScoreRepo
}

type scoreAllocationAggregate struct {
	deps ScoreAllocationAggregateDeps
}

func NewScoreAllocationAggregate(deps ScoreAllocationAggregateDeps) domainagg.ScoreAllocationAggregate {
	deps.Base = deps.Base.withDefaults()
	return &scoreAllocationAggregate{deps: deps}
}

func (a *scoreAllocationAggregate) Contract() domainagg.Contract {
	return domainagg.ScoreAllocationAggregateContract
}

func validateAllocationScope(op string, s domainagg.ScoreAllocationScope) error {
	if strings.TrimSpace(s.BridgeInstanceName) == "" {
		return domainagg.NewError(domainagg.CodeValidation, op, "missing bridge_instance_name", nil)
	}
	if s.BridgeTypeID <= 0 {
		return domainagg.NewError(domainagg.CodeValidation, op, "missing bridge_type_id", nil)
	}
	return nil
}

func (a *scoreAllocationAggregate) SaveAllocation(ctx context.Context, in domainagg.SaveScoreAllocationInput) (domainagg.SaveScoreAllocationResult, error) {
	const op = "Scores.Allocation.Save"
	var out domainagg.SaveScoreAllocationResult

	if err := validateAllocationScope(op, in.Scope); err != nil {
		return out, err
	}
	if len(in.Links) == 0 {
		return out, domainagg.NewError(domainagg.CodeValidation, op, "allocation has no links", nil)
	}
	if a.deps.Scores == nil {
		return out, domainagg.NewError(domainagg.CodeInternal, op, "score allocation repos not configured", nil)
	}

	savedAt := in.SavedAt.UTC()
	if savedAt.IsZero() {
		savedAt = time.Now().UTC()
	}
	rows := make([]*types.Score, 0, len(in.Links))
	for _, l := range in.Links {
		rows = append(rows, &types.Score{
			BridgeInstanceName:         in.Scope.BridgeInstanceName,
			AssessmentUnitInstanceName: in.Scope.AssessmentUnitInstanceName,
			BridgeTypeID:               in.Scope.BridgeTypeID,
			PartID:                     l.PartID,
			StructureID:                l.StructureID,
			ComponentTypeID:            l.ComponentTypeID,
			Weight:                     l.Weight,
			ComponentCount:             l.ComponentCount,
			CustomComponentCount:       l.CustomComponentCount,
			AdjustedWeight:             l.AdjustedWeight,
			UseCustomCount:             l.UseCustomCount,
			IsActive:                   true,
			CreatedAt:                  savedAt,
			UpdatedAt:                  savedAt,
		})
	}
	scope := repoScope(in.Scope)

	err := executeWrite(ctx, a.deps.Base, op, func(dbc dbctx.Context) error {
		exists, err := a.deps.Scores.ExistsActiveForScope(dbc, scope)
		if err != nil {
			return err
		}
		if err := a.deps.Scores.UpsertLinks(dbc, rows); err != nil {
			return err
		}
		out = domainagg.SaveScoreAllocationResult{
			Created: !exists,
			Rows:    len(rows),
			SavedAt: savedAt,
		}
		return nil
	})
	if err != nil {
		return domainagg.SaveScoreAllocationResult{}, err
	}
	return out, nil
}

func (a *scoreAllocationAggregate) DeleteAllocation(ctx context.Context, in domainagg.ScoreAllocationScope) (domainagg.DeleteScoreAllocationResult, error) {
	const op = "Scores.Allocation.Delete"
	var out domainagg.DeleteScoreAllocationResult

	if err := validateAllocationScope(op, in); err != nil {
		return out, err
	}
	if a.deps.Scores == nil {
		return out, domainagg.NewError(domainagg.CodeInternal, op, "score allocation repos not configured", nil)
	}

	err := executeWrite(ctx, a.deps.Base, op, func(dbc dbctx.Context) error {
		n, err := a.deps.Scores.SoftDeleteScope(dbc, repoScope(in))
		if err != nil {
			return err
		}
		out.Deleted = n
		return nil
	})
	return out, err
}

func repoScope(s domainagg.ScoreAllocationScope) repos.ScoreScope {
	return repos.ScoreScope{
		BridgeInstanceName:         s.BridgeInstanceName,
		AssessmentUnitInstanceName: s.AssessmentUnitInstanceName,
		BridgeTypeID:               s.BridgeTypeID,
	}
}
