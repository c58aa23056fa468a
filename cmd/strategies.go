package cmd

import (
	"github.com/spf13/cobra"

	"github.com/papapumpkin/supernova/internal/config"
	"github.com/papapumpkin/supernova/internal/split"
)

var strategiesCmd = &cobra.Command{
	Use:   "strategies",
	Short: "List the available split strategies",
	RunE:  runStrategies,
}

func init() {
	strategiesCmd.Flags().Bool("json", false, "emit the catalog as JSON on stdout")

	rootCmd.AddCommand(strategiesCmd)
}

func runStrategies(cmd *cobra.Command, args []string) error {
	cfg := config.Load()

	if asJSON, _ := cmd.Flags().GetBool("json"); asJSON {
		return writeJSON(split.Catalog())
	}
	newPrinter(cfg).Strategies(split.Catalog())
	return nil
}
