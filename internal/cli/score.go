package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/AlcMaple/bridge-inspection-backend/internal/app"
	"github.com/AlcMaple/bridge-inspection-backend/internal/services"
)

var (
	scoreBridgeInstance string
	scoreBridgeType     int64
	scoreUnit           string
	scoreUser           int64
)

var scoreCmd = &cobra.Command{
	Use:   "score",
	Short: "Compute per-component condition scores of a bridge instance",
	RunE: func(cmd *cobra.Command, args []string) error {
		req := services.ScoreCalculationRequest{
			BridgeInstanceName:         scoreBridgeInstance,
			BridgeTypeID:               scoreBridgeType,
			AssessmentUnitInstanceName: optionalFlag(scoreUnit),
		}
		if cmd.Flags().Changed("user") {
			req.UserID = &scoreUser
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

		res, err := core.Scores.CalculateScore(cmd.Context(), req)
		if err != nil {
			return err
		}
		fmt.Fprint(cmd.OutOrStdout(), renderScores(res))
		return nil
	},
}

func init() {
	scoreCmd.Flags().StringVar(&scoreBridgeInstance, "bridge-instance", "", "Bridge instance name")
	scoreCmd.Flags().Int64Var(&scoreBridgeType, "bridge-type", 0, "Bridge type id")
	scoreCmd.Flags().StringVar(&scoreUnit, "unit", "", "Assessment unit instance name")
	scoreCmd.Flags().Int64Var(&scoreUser, "user", 0, "Inspector user id (omit for administrator records)")
	_ = scoreCmd.MarkFlagRequired("bridge-instance")
	_ = scoreCmd.MarkFlagRequired("bridge-type")
}
