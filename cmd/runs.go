package cmd

import (
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

var (
	runsKind  string
	runsLimit int
)

// runsCmd lists recent sync runs.
var runsCmd = &cobra.Command{
	Use:   "runs",
	Short: "List recent sync runs",
	RunE: func(cmd *cobra.Command, args []string) error {
		rt, err := bootstrap(cmd.Context())
		if err != nil {
			return err
		}
		defer rt.logger.Sync()

		runs, err := rt.service.Runs(cmd.Context(), runsKind, runsLimit)
		if err != nil {
			return err
		}
		if len(runs) == 0 {
			rt.logger.Info("No sync runs recorded")
			return nil
		}

		for _, r := range runs {
			rt.logger.Info("Sync run",
				zap.String("run_id", r.ID),
				zap.String("kind", r.Kind),
				zap.String("status", r.Status),
				zap.Time("started_at", r.StartedAt),
				zap.Int64("duration_ms", r.DurationMs),
				zap.Int("created", r.Created),
				zap.Int("updated", r.Updated),
				zap.Int("failed", r.Failed),
				zap.Int("pages_failed", r.PagesFailed),
			)
		}
		return nil
	},
}

func init() {
	runsCmd.Flags().StringVar(&runsKind, "kind", "", "Only list runs of this kind")
	runsCmd.Flags().IntVar(&runsLimit, "limit", 20, "Maximum number of runs")
	RootCmd.AddCommand(runsCmd)
}
