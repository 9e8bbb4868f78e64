package cli

import (
	"github.com/spf13/cobra"
	"github.com/trebuchet-org/deployer/internal/cli/render"
	"github.com/trebuchet-org/deployer/internal/usecase"
)

// NewPruneCmd creates the prune command
func NewPruneCmd() *cobra.Command {
	var dryRun bool

	cmd := &cobra.Command{
		Use:   "prune",
		Short: "Remove deployments whose contract is no longer on-chain",
		Long: `Check every recorded deployment on the selected network's chain and remove
the ones with no contract code at their address. This is typical after a
local Hardhat or Anvil node has been restarted.`,
		Example: `  # See what would be removed
  deployer prune --dry-run

  # Prune sepolia entries without asking
  deployer prune -n sepolia --non-interactive`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			app, err := getApp(cmd)
			if err != nil {
				return err
			}

			result, err := app.PruneRegistry.Run(cmd.Context(), usecase.PruneRegistryParams{
				DryRun:           dryRun,
				SkipConfirmation: app.Config.NonInteractive,
			})
			if err != nil {
				return err
			}

			return render.NewPruneRenderer(cmd.OutOrStdout(), dryRun).Render(result)
		},
	}

	cmd.Flags().BoolVar(&dryRun, "dry-run", false, "Only report stale deployments")

	return cmd
}
