package usecase

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/ethereum/go-ethereum/common"
	"github.com/trebuchet-org/deployer/internal/domain"
	"github.com/trebuchet-org/deployer/internal/domain/config"
	"github.com/trebuchet-org/deployer/internal/domain/models"
)

// DeployContract deploys a single precompiled contract and waits until it is mined
type DeployContract struct {
	cfg       *config.RuntimeConfig
	artifacts ArtifactRepository
	encoder   ConstructorEncoder
	network   ContractNetwork
	registry  DeploymentRepository
	prompter  Prompter
	progress  ProgressSink
	log       *slog.Logger
}

// NewDeployContract creates a new deploy contract use case
func NewDeployContract(
	cfg *config.RuntimeConfig,
	artifacts ArtifactRepository,
	encoder ConstructorEncoder,
	network ContractNetwork,
	registry DeploymentRepository,
	prompter Prompter,
	progress ProgressSink,
	log *slog.Logger,
) *DeployContract {
	return &DeployContract{
		cfg:       cfg,
		artifacts: artifacts,
		encoder:   encoder,
		network:   network,
		registry:  registry,
		prompter:  prompter,
		progress:  progress,
		log:       log,
	}
}

// DeployContractParams contains parameters for a deployment
type DeployContractParams struct {
	// ContractName is "Name" or "path/File.sol:Name"
	ContractName    string
	ConstructorArgs []string
	// Timeout bounds the confirmation wait; zero waits until ctx is done
	Timeout time.Duration
	// SkipConfirmation disables all prompts: the confirmation before deploying to a
	// non-dev chain and the choice between artifacts sharing a name
	SkipConfirmation bool
}

// DeployContractResult contains the confirmed deployment
type DeployContractResult struct {
	Deployment *models.Deployment
	Artifact   *models.Artifact
	Handle     *models.DeploymentHandle
	// Recorded is false when the registry could not be written
	Recorded bool
}

// Execute runs resolve -> submit -> wait -> record. Every failure is a *domain.DeployError.
func (uc *DeployContract) Execute(ctx context.Context, params DeployContractParams) (*DeployContractResult, error) {
	name := params.ContractName
	if name == "" {
		name = uc.cfg.ContractName
	}

	uc.progress.OnProgress(ctx, ProgressEvent{Stage: StageResolving, Message: fmt.Sprintf("Resolving artifact %s", name)})
	artifact, err := uc.findArtifact(ctx, name, params.SkipConfirmation)
	if err != nil {
		if errors.Is(err, domain.ErrArtifactNotFound) {
			return nil, domain.NewArtifactNotFound(name, err)
		}
		return nil, domain.NewDeploymentFailed(name, domain.StageResolve, err)
	}
	name = artifact.Name
	uc.log.Debug("resolved artifact", "contract", name, "path", artifact.ArtifactPath, "format", artifact.Format)

	constructorData, err := uc.encoder.EncodeConstructorArgs(artifact, params.ConstructorArgs)
	if err != nil {
		return nil, domain.NewDeploymentFailed(name, domain.StagePrepare, err)
	}

	uc.progress.OnProgress(ctx, ProgressEvent{Stage: StageConnecting, Message: "Connecting to network"})
	chainID, err := uc.network.ChainID(ctx)
	if err != nil {
		return nil, domain.NewDeploymentFailed(name, domain.StageConnect, err)
	}

	if !params.SkipConfirmation && !domain.IsDevChain(chainID) && uc.prompter != nil {
		uc.progress.OnProgress(ctx, ProgressEvent{Stage: StageConnecting})
		ok, err := uc.prompter.Confirm(ctx, fmt.Sprintf("Deploy %s to %s (chain %d)", name, uc.networkName(), chainID))
		if err != nil {
			return nil, domain.NewDeploymentFailed(name, domain.StageConnect, err)
		}
		if !ok {
			return nil, domain.NewDeploymentFailed(name, domain.StageConnect, domain.ErrDeploymentCancelled)
		}
	}

	uc.progress.OnProgress(ctx, ProgressEvent{Stage: StageSubmitting, Message: fmt.Sprintf("Submitting %s creation transaction", name), Spinner: true})
	handle, err := uc.network.Submit(ctx, artifact, constructorData)
	if err != nil {
		uc.progress.OnProgress(ctx, ProgressEvent{Stage: StageSubmitting})
		return nil, domain.NewDeploymentFailed(name, domain.StageSubmit, err)
	}
	uc.log.Debug("submitted creation transaction", "contract", name, "tx", handle.TxHash.Hex(), "nonce", handle.Nonce)

	deployment, err := uc.waitForConfirmation(ctx, handle, params.Timeout)
	if err != nil {
		return nil, domain.NewDeploymentFailed(name, domain.StageConfirm, err)
	}
	if deployment.Address == (common.Address{}) {
		return nil, domain.NewDeploymentFailed(name, domain.StageConfirm,
			fmt.Errorf("transaction %s confirmed without a contract address", handle.TxHash.Hex()))
	}

	result := &DeployContractResult{
		Deployment: deployment,
		Artifact:   artifact,
		Handle:     handle,
	}

	// The contract is on-chain at this point; a registry failure must not hide that
	uc.progress.OnProgress(ctx, ProgressEvent{Stage: StageRecording, Message: "Recording deployment"})
	if err := uc.registry.SaveDeployment(ctx, deployment); err != nil {
		uc.log.Warn("failed to record deployment", "id", deployment.ID, "error", err)
	} else {
		result.Recorded = true
	}

	uc.progress.OnProgress(ctx, ProgressEvent{Stage: StageCompleted})
	return result, nil
}

// findArtifact looks up name and, when prompting is allowed, lets the user pick
// between artifacts that share it
func (uc *DeployContract) findArtifact(ctx context.Context, name string, noPrompt bool) (*models.Artifact, error) {
	artifact, err := uc.artifacts.FindArtifact(ctx, name)

	var ambiguous *domain.AmbiguousArtifactError
	if err == nil || noPrompt || uc.prompter == nil || !errors.As(err, &ambiguous) {
		return artifact, err
	}

	idx, selErr := uc.prompter.Select(ctx, fmt.Sprintf("Several artifacts are named %s", name), ambiguous.Matches)
	if selErr != nil {
		uc.log.Debug("artifact selection unavailable", "error", selErr)
		return nil, err
	}

	artifact, err = uc.artifacts.FindArtifact(ctx, ambiguous.Matches[idx])
	if err != nil {
		return nil, err
	}
	uc.progress.Info(fmt.Sprintf("Using %s", artifact.FullyQualifiedName()))
	return artifact, nil
}

func (uc *DeployContract) waitForConfirmation(ctx context.Context, handle *models.DeploymentHandle, timeout time.Duration) (*models.Deployment, error) {
	waitCtx := ctx
	if timeout > 0 {
		var cancel context.CancelFunc
		waitCtx, cancel = context.WithTimeout(ctx, timeout)
		defer cancel()
	}

	uc.progress.OnProgress(ctx, ProgressEvent{
		Stage:   StageWaiting,
		Message: fmt.Sprintf("Waiting for %s to be mined", handle.TxHash.Hex()),
		Spinner: true,
	})

	deployment, err := uc.network.WaitForConfirmation(waitCtx, handle)
	if err != nil {
		uc.progress.OnProgress(ctx, ProgressEvent{Stage: StageWaiting})
		if errors.Is(err, context.DeadlineExceeded) && ctx.Err() == nil {
			return nil, fmt.Errorf("transaction %s not mined within %s: %w", handle.TxHash.Hex(), timeout, err)
		}
		return nil, err
	}
	return deployment, nil
}

func (uc *DeployContract) networkName() string {
	if uc.cfg.Network != nil {
		return uc.cfg.Network.Name
	}
	return "network"
}
