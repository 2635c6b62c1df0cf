package cli

import (
	"fmt"
	"sort"

	"github.com/spf13/cobra"

	"github.com/AlcMaple/bridge-inspection-backend/internal/app"
	"github.com/AlcMaple/bridge-inspection-backend/internal/data/seed"
	"github.com/AlcMaple/bridge-inspection-backend/internal/platform/dbctx"
)

var seedFile string

var seedCmd = &cobra.Command{
	Use:   "seed",
	Short: "Load a YAML taxonomy fixture (the built-in demo when --file is omitted)",
	RunE: func(cmd *cobra.Command, args []string) error {
		var (
			f   *seed.Fixture
			err error
		)
		if seedFile != "" {
			f, err = seed.ParseFile(seedFile)
		} else {
			f, err = seed.Demo()
		}
		if err != nil {
			return err
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

		refs, err := seed.NewLoader(svc.DB(), log).Load(cmd.Context(), f)
		if err != nil {
			return err
		}
		// Cached weight links for the seeded bridge types are stale now.
		_, core := app.WireCore(cmd.Context(), log, cfg, svc.DB())
		dbc := dbctx.Context{Ctx: cmd.Context()}
		for _, id := range refs["bridge_types"] {
			if err := core.WeightLinks.Invalidate(dbc, id); err != nil {
				log.Warn("seed: weight link cache invalidation failed", "bridge_type_id", id, "error", err)
			}
		}

		tables := make([]string, 0, len(refs))
		for table := range refs {
			tables = append(tables, table)
		}
		sort.Strings(tables)
		out := cmd.OutOrStdout()
		for _, table := range tables {
			fmt.Fprintf(out, "%-18s %d\n", table, len(refs[table]))
		}
		return nil
	},
}

func init() {
	seedCmd.Flags().StringVarP(&seedFile, "file", "f", "", "Fixture file to load")
}
