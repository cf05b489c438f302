package server

import (
	"github.com/spf13/cobra"
)

// WorkerCmd runs the background worker.
var WorkerCmd = &cobra.Command{
	Use:   "worker",
	Short: "Run the background worker",
	Long: `Run the outbox processor, the availability cron job and the meeting feed
consumer until interrupted. A health server is started when
WORKER_HEALTH_ADDR is set.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		container, err := requireContainer()
		if err != nil {
			return err
		}
		return container.RunWorker(cmd.Context())
	},
}
