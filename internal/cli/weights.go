package cli

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"github.com/AlcMaple/bridge-inspection-backend/internal/app"
	"github.com/AlcMaple/bridge-inspection-backend/internal/services"
)

var (
	weightsBridgeInstance string
	weightsBridgeType     int64
	weightsUnit           string
	weightsCustom         []string
	weightsSave           bool
)

var weightsCmd = &cobra.Command{
	Use:   "weights",
	Short: "Preview (or save) the weight allocation of a bridge instance",
	Example: `  bridge-inspection weights --bridge-instance K12+300 --bridge-type 1
  bridge-inspection weights --bridge-instance K12+300 --bridge-type 1 --custom 3:7=4 --save`,
	RunE: func(cmd *cobra.Command, args []string) error {
		counts, err := parseCustomCounts(weightsCustom)
		if err != nil {
			return err
		}
		req := services.WeightAllocationRequest{
			BridgeInstanceName:         weightsBridgeInstance,
			BridgeTypeID:               weightsBridgeType,
			AssessmentUnitInstanceName: optionalFlag(weightsUnit),
			CalculationMode:            "DEFAULT",
			CustomComponentCounts:      counts,
		}
		if len(counts) > 0 {
			req.CalculationMode = "CUSTOM"
		}

		cfg, log, err := bootstrap()
		if err != nil {
			return err
		}
		defer log.Sync()
		svc, err := app.OpenDB(log, cfg)
		if err != nil {
			return err
		}
		defer svc.Close()
		_, core := app.WireCore(cmd.Context(), log, cfg, svc.DB())

		var (
			res    *services.WeightAllocationResult
			action services.SaveAction
		)
		if weightsSave {
			saved, err := core.Scores.SaveWeightAllocation(cmd.Context(), services.WeightAllocationSaveRequest{WeightAllocationRequest: req})
			if err != nil {
				return err
			}
			res, action = &saved.WeightAllocationResult, saved.Action
		} else {
			res, err = core.Scores.CalculateWeightAllocation(cmd.Context(), req)
			if err != nil {
				return err
			}
		}
		fmt.Fprint(cmd.OutOrStdout(), renderAllocation(res, action))
		return nil
	},
}

func init() {
	weightsCmd.Flags().StringVar(&weightsBridgeInstance, "bridge-instance", "", "Bridge instance name")
	weightsCmd.Flags().Int64Var(&weightsBridgeType, "bridge-type", 0, "Bridge type id")
	weightsCmd.Flags().StringVar(&weightsUnit, "unit", "", "Assessment unit instance name")
	weightsCmd.Flags().StringArrayVar(&weightsCustom, "custom", nil, "Custom component count as part_id:component_type_id=count (repeatable; switches to CUSTOM mode)")
	weightsCmd.Flags().BoolVar(&weightsSave, "save", false, "Persist the allocation")
	_ = weightsCmd.MarkFlagRequired("bridge-instance")
	_ = weightsCmd.MarkFlagRequired("bridge-type")
}

// parseCustomCounts reads "part:componentType=count" overrides.
func parseCustomCounts(raw []string) ([]services.CustomComponentCount, error) {
	out := make([]services.CustomComponentCount, 0, len(raw))
	for _, item := range raw {
		link, count, ok := strings.Cut(strings.TrimSpace(item), "=")
		if !ok {
			return nil, fmt.Errorf("--custom %q: want part_id:component_type_id=count", item)
		}
		part, ctype, ok := strings.Cut(link, ":")
		if !ok {
			return nil, fmt.Errorf("--custom %q: want part_id:component_type_id=count", item)
		}
		partID, err := strconv.ParseInt(strings.TrimSpace(part), 10, 64)
		if err != nil {
			return nil, fmt.Errorf("--custom %q: part_id: %w", item, err)
		}
		ctypeID, err := strconv.ParseInt(strings.TrimSpace(ctype), 10, 64)
		if err != nil {
			return nil, fmt.Errorf("--custom %q: component_type_id: %w", item, err)
		}
		n, err := strconv.Atoi(strings.TrimSpace(count))
		if err != nil {
			return nil, fmt.Errorf("--custom %q: count: %w", item, err)
		}
		out = append(out, services.CustomComponentCount{PartID: partID, ComponentTypeID: ctypeID, CustomComponentCount: n})
	}
	return out, nil
}

func optionalFlag(v string) *string {
	v = strings.TrimSpace(v)
	if v == "" {
		return nil
	}
	return &v
}
