package cli

import (
	"context"
	"fmt"
	"io"
	"os"

	"github.com/mattn/go-isatty"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"github.com/trebuchet-org/deployer/internal/adapters/progress"
	"github.com/trebuchet-org/deployer/internal/app"
	"github.com/trebuchet-org/deployer/internal/config"
	"github.com/trebuchet-org/deployer/internal/usecase"
)

// contextKey is the type for context keys
type contextKey string

const (
	// appKey is the context key for the app instance
	appKey contextKey = "app"
)

// AppFactory builds the application for a command invocation
type AppFactory func(v *viper.Viper, sink usecase.ProgressSink) (*app.App, func(), error)

// Run executes the command line and returns the process exit code
func Run(ctx context.Context, args []string, stdout, stderr io.Writer) int {
	return run(ctx, args, stdout, stderr, app.InitApp)
}

func run(ctx context.Context, args []string, stdout, stderr io.Writer, initApp AppFactory) int {
	rootCmd, cleanup := newRootCmd(initApp)
	defer cleanup()

	rootCmd.SetArgs(args)
	rootCmd.SetOut(stdout)
	rootCmd.SetErr(stderr)

	if err := rootCmd.ExecuteContext(ctx); err != nil {
		fmt.Fprintf(stderr, "Error: %v\n", err)
		return 1
	}
	return 0
}

func newRootCmd(initApp AppFactory) (*cobra.Command, func()) {
	cleanup := func() {}

	rootCmd := &cobra.Command{
		Use:   "deployer",
		Short: "Deploy a precompiled contract and report its address",
		Long: `Deployer takes a contract compiled by Hardhat or Foundry, sends its creation
transaction to the configured network and waits until it is mined.

Without a subcommand it deploys the configured contract (TrustX by default).`,
		Example: `  # Deploy TrustX to the local node
  deployer

  # Deploy another contract to sepolia with constructor arguments
  deployer --contract Token --arg "Trust Token" --arg 1000000 -n sepolia`,
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			// Skip for help/version commands
			if cmd.Name() == "version" || cmd.Name() == "help" || cmd.Name() == "completion" {
				return nil
			}

			projectRoot := config.FindProjectRoot()
			v := config.SetupViper(projectRoot, cmd)

			sink := newProgressSink(cmd.ErrOrStderr(), v.GetBool("non-interactive"))

			appInstance, appCleanup, err := initApp(v, sink)
			if err != nil {
				return fmt.Errorf("failed to initialize app: %w", err)
			}
			cleanup = appCleanup

			appInstance.Logger.Debug("runtime config",
				"root", appInstance.Config.ProjectRoot,
				"network", appInstance.Config.Network.Name,
				"rpc", appInstance.Config.Network.RPCURL,
				"signer", appInstance.Config.Signer.String(),
				"timeout", appInstance.Config.Timeout,
			)

			// Store app in context
			cmd.SetContext(context.WithValue(cmd.Context(), appKey, appInstance))
			return nil
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			return runDeploy(cmd, "")
		},
	}

	// Global flags
	rootCmd.PersistentFlags().StringP("network", "n", "", "Network to deploy to, from [rpc_endpoints] (default \"localhost\")")
	rootCmd.PersistentFlags().Duration("timeout", 0, "How long to wait for the transaction to be mined, 0 waits forever (default 5m)")
	rootCmd.PersistentFlags().Bool("debug", false, "Enable debug output")
	rootCmd.PersistentFlags().Bool("non-interactive", false, "Disable prompts and the progress spinner")
	addDeployFlags(rootCmd)

	rootCmd.AddCommand(NewDeployCmd())
	rootCmd.AddCommand(NewListCmd())
	rootCmd.AddCommand(NewNetworksCmd())
	rootCmd.AddCommand(NewPruneCmd())
	rootCmd.AddCommand(NewConfigCmd())
	rootCmd.AddCommand(NewVersionCmd())

	return rootCmd, func() { cleanup() }
}

// newProgressSink shows a spinner only when a person is watching stderr
func newProgressSink(stderr io.Writer, nonInteractive bool) usecase.ProgressSink {
	if nonInteractive {
		return usecase.NopProgress{}
	}
	f, ok := stderr.(*os.File)
	if !ok || !(isatty.IsTerminal(f.Fd()) || isatty.IsCygwinTerminal(f.Fd())) {
		return usecase.NopProgress{}
	}
	return progress.NewSpinnerProgress(stderr)
}

// getApp retrieves the app instance from the command context
func getApp(cmd *cobra.Command) (*app.App, error) {
	appInstance := cmd.Context().Value(appKey)
	if appInstance == nil {
		return nil, fmt.Errorf("app not initialized")
	}

	app, ok := appInstance.(*app.App)
	if !ok {
		return nil, fmt.Errorf("invalid app instance")
	}

	return app, nil
}
