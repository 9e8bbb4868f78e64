package cli

import (
	"github.com/spf13/cobra"
	"github.com/trebuchet-org/deployer/internal/cli/render"
	"github.com/trebuchet-org/deployer/internal/usecase"
)

// NewNetworksCmd creates the networks command
func NewNetworksCmd() *cobra.Command {
	var probe bool

	cmd := &cobra.Command{
		Use:   "networks",
		Short: "List available networks",
		Long: `List the networks in the [rpc_endpoints] section of deployer.toml or
foundry.toml, plus the built-in localhost endpoint.

With --probe every endpoint is asked for its chain ID.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			app, err := getApp(cmd)
			if err != nil {
				return err
			}

			result, err := app.ListNetworks.Run(cmd.Context(), usecase.ListNetworksParams{Probe: probe})
			if err != nil {
				return err
			}

			renderer := render.NewNetworksRenderer(cmd.OutOrStdout(), app.Config.ConfigSource)
			return renderer.Render(result)
		},
	}

	cmd.Flags().BoolVar(&probe, "probe", false, "Query each endpoint for its chain ID")

	return cmd
}
