package commands

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/yungbote/contractpay-backend/internal/app"
	"github.com/yungbote/contractpay-backend/internal/data/db"
	"github.com/yungbote/contractpay-backend/internal/data/fixtures"
)

func seedCmd() *cobra.Command {
	var file string
	cmd := &cobra.Command{
		Use:   "seed",
		Short: "Load profiles, contracts and jobs from a YAML fixture file",
		RunE: func(cmd *cobra.Command, args []string) error {
			if file == "" {
				return fmt.Errorf("--file is required")
			}
			f, err := fixtures.ParseFile(file)
			if err != nil {
				return err
			}
			svc, err := app.OpenDB(log, db.ConfigFromEnv(), true)
			if err != nil {
				return err
			}
			defer svc.Close()

			res, err := fixtures.NewLoader(svc.DB(), log).Load(cmd.Context(), f)
			if err != nil {
				return err
			}
			for key, p := range res.Profiles {
				fmt.Fprintf(cmd.OutOrStdout(), "%s\t%s\t%s\t%s\n", key, p.ID, p.Type, p.Balance)
			}
			log.Info("Seed complete",
				"profiles", len(res.Profiles),
				"contracts", len(res.Contracts),
				"jobs", len(res.Jobs),
			)
			return nil
		},
	}
	cmd.Flags().StringVarP(&file, "file", "f", "", "YAML fixture file")
	return cmd
}
