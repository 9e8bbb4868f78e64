package cli

import (
	"github.com/spf13/cobra"
	"github.com/trebuchet-org/deployer/internal/cli/render"
	"github.com/trebuchet-org/deployer/internal/usecase"
)

// NewListCmd creates the list command
func NewListCmd() *cobra.Command {
	var (
		contractName string
		chainID      uint64
		format       string
	)

	cmd := &cobra.Command{
		Use:     "list",
		Aliases: []string{"ls"},
		Short:   "List recorded deployments",
		Long: `List the deployments recorded in .deployer/deployments.json.

The list can be filtered by contract name, chain ID or network.`,
		Example: `  # List all deployments
  deployer list

  # List TrustX deployments on sepolia
  deployer list --contract TrustX --network sepolia

  # Machine readable output
  deployer list --format json`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			app, err := getApp(cmd)
			if err != nil {
				return err
			}

			renderer, err := render.NewDeploymentsRenderer(cmd.OutOrStdout(), format)
			if err != nil {
				return err
			}

			params := usecase.ListDeploymentsParams{
				ContractName: contractName,
				ChainID:      chainID,
			}
			// The network always resolves to something; only filter when asked
			if cmd.Flags().Changed("network") {
				params.Network = app.Config.Network.Name
			}

			result, err := app.ListDeployments.Run(cmd.Context(), params)
			if err != nil {
				return err
			}
			return renderer.Render(result)
		},
	}

	cmd.Flags().StringVar(&contractName, "contract", "", "Filter by contract name")
	cmd.Flags().Uint64Var(&chainID, "chain", 0, "Filter by chain ID")
	cmd.Flags().StringVarP(&format, "format", "o", render.FormatTable, "Output format (table, json, yaml)")

	return cmd
}
