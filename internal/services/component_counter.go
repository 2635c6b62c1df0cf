package services

import (
	"github.com/AlcMaple/bridge-inspection-backend/internal/data/repos"
	"github.com/AlcMaple/bridge-inspection-backend/internal/platform/dbctx"
	"github.com/AlcMaple/bridge-inspection-backend/internal/platform/logger"
)

// ComponentCounter reports how many real component forms exist for a weight link.
type ComponentCounter interface {
	Count(dbc dbctx.Context, bridgeTypeID int64, link repos.WeightLinkRow) (int, error)
}

type componentCounter struct {
	log   *logger.Logger
	paths repos.PathRepo
}

func NewComponentCounter(baseLog *logger.Logger, paths repos.PathRepo) ComponentCounter {
	return &componentCounter{log: baseLog.With("service", "ComponentCounter"), paths: paths}
}

func (c *componentCounter) Count(dbc dbctx.Context, bridgeTypeID int64, link repos.WeightLinkRow) (int, error) {
	n, err := c.paths.CountActiveComponentForms(dbc, bridgeTypeID, link.PartID, link.ComponentTypeID, link.StructureID)
	if err != nil {
		return 0, err
	}
	c.log.Debug("counted component forms",
		"bridge_type_id", bridgeTypeID,
		"part_id", link.PartID,
		"component_type_id", link.ComponentTypeID,
		"count", n,
	)
	return n, nil
}
