package commands

import (
	"github.com/spf13/cobra"

	"github.com/yungbote/contractpay-backend/internal/app"
)

func serveCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Run the HTTP API until SIGINT/SIGTERM",
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := app.New(cmd.Context(), log)
			if err != nil {
				return err
			}
			defer a.Close()
			a.Start()
			return a.Run(cmd.Context())
		},
	}
}
