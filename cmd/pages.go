package cmd

import (
	"catalog-sync/core/syncengine"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

// pagesCmd prints the number of pages a sync would fetch.
var pagesCmd = &cobra.Command{
	Use:   "pages [kind]",
	Short: "Show the page count of each kind",
	Long:  `Shows the configured page count, or the one reported by the catalog when the configured count is 0.`,
	Args:  cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		rt, err := bootstrap(cmd.Context())
		if err != nil {
			return err
		}
		defer rt.logger.Sync()

		kinds := syncengine.Kinds()
		if len(args) == 1 {
			k, err := syncengine.ParseKind(args[0])
			if err != nil {
				return err
			}
			kinds = []syncengine.Kind{k}
		}

		for _, k := range kinds {
			pages, err := rt.service.PageCount(cmd.Context(), string(k))
			if err != nil {
				return err
			}
			rt.logger.Info("Page count", zap.String("kind", string(k)), zap.Int("pages", pages))
		}
		return nil
	},
}

func init() {
	RootCmd.AddCommand(pagesCmd)
}
