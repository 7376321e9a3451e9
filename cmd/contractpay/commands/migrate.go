package commands

import (
	"github.com/spf13/cobra"

	"github.com/yungbote/contractpay-backend/internal/app"
	"github.com/yungbote/contractpay-backend/internal/data/db"
)

func migrateCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "migrate",
		Short: "Create or update the profiles, contracts and jobs tables",
		RunE: func(cmd *cobra.Command, args []string) error {
			svc, err := app.OpenDB(log, db.ConfigFromEnv(), true)
			if err != nil {
				return err
			}
			defer svc.Close()
			log.Info("Migration complete", "driver", svc.Driver())
			return nil
		},
	}
}
