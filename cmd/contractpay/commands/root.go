package commands

import (
	"github.com/spf13/cobra"

	"github.com/yungbote/contractpay-backend/internal/app"
	"github.com/yungbote/contractpay-backend/internal/platform/logger"
)

var (
	envFile string
	log     *logger.Logger
)

func newRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:           "contractpay",
		Short:         "Contract billing service: job payments, capped client deposits and reports",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			if err := app.LoadDotEnv(envFile); err != nil {
				return err
			}
			l, err := app.NewLogger()
			if err != nil {
				return err
			}
			log = l
			return nil
		},
		PersistentPostRun: func(cmd *cobra.Command, args []string) {
			if log != nil {
				log.Sync()
			}
		},
	}
	root.PersistentFlags().StringVar(&envFile, "env-file", "", "env file to load (default ./.env when present)")
	root.AddCommand(serveCmd(), migrateCmd(), seedCmd())
	return root
}

func Execute() error {
	return newRootCmd().Execute()
}
