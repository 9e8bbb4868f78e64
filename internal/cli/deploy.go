package cli

import (
	"log/slog"

	"github.com/spf13/cobra"
	"github.com/trebuchet-org/deployer/internal/adapters/progress"
	"github.com/trebuchet-org/deployer/internal/cli/render"
	"github.com/trebuchet-org/deployer/internal/usecase"
)

// NewDeployCmd creates the deploy command
func NewDeployCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "deploy [contract]",
		Short: "Deploy a contract from the build output",
		Long: `Deploy a contract compiled by Hardhat (artifacts/) or Foundry (out/).

The contract is given by name ("Token") or by source path and name
("contracts/Token.sol:Token") when several artifacts share a name.
Constructor arguments are passed in order with --arg.`,
		Example: `  # Deploy TrustX
  deployer deploy

  # Deploy a token with constructor arguments to sepolia
  deployer deploy Token --arg "Trust Token" --arg 1000000 --network sepolia

  # Pick one of two contracts named Vault
  deployer deploy src/v2/Vault.sol:Vault`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			var contract string
			if len(args) > 0 {
				contract = args[0]
			}
			return runDeploy(cmd, contract)
		},
	}

	addDeployFlags(cmd)
	return cmd
}

func addDeployFlags(cmd *cobra.Command) {
	cmd.Flags().String("contract", "", "Contract to deploy, \"Name\" or \"path/File.sol:Name\" (default \"TrustX\")")
	cmd.Flags().StringArray("arg", nil, "Constructor argument, repeat in declaration order")
}

// runDeploy deploys contract, or the configured contract when it is empty
func runDeploy(cmd *cobra.Command, contract string) error {
	app, err := getApp(cmd)
	if err != nil {
		return err
	}

	params := usecase.DeployContractParams{
		ContractName:     contract,
		ConstructorArgs:  app.Config.ConstructorArgs,
		Timeout:          app.Config.Timeout,
		SkipConfirmation: app.Config.NonInteractive,
	}
	// Read repeated --arg values directly so commas inside a value survive
	if cmd.Flags().Changed("arg") {
		if params.ConstructorArgs, err = cmd.Flags().GetStringArray("arg"); err != nil {
			return err
		}
	}

	result, err := app.DeployContract.Execute(cmd.Context(), params)
	logStageTimings(app.Logger, app.Progress)
	if err != nil {
		return err
	}

	renderer := render.NewDeployRenderer(cmd.OutOrStdout(), cmd.ErrOrStderr())
	return renderer.Render(result)
}

// logStageTimings reports at debug level how long each stage took, when the sink tracked them
func logStageTimings(log *slog.Logger, sink usecase.ProgressSink) {
	spinner, ok := sink.(*progress.SpinnerProgress)
	if !ok {
		return
	}
	for _, stage := range spinner.Stages() {
		log.Debug("stage finished", "stage", stage.Stage, "took", stage.Duration)
	}
}
