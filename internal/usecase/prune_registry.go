package usecase

import (
	"context"
	"fmt"

	"github.com/trebuchet-org/deployer/internal/domain"
	"github.com/trebuchet-org/deployer/internal/domain/config"
	"github.com/trebuchet-org/deployer/internal/domain/models"
)

// PruneRegistryParams contains parameters for pruning the registry
type PruneRegistryParams struct {
	// DryRun only reports stale entries
	DryRun           bool
	SkipConfirmation bool
}

// PruneRegistryResult contains the result of pruning the registry
type PruneRegistryResult struct {
	ChainID uint64
	Checked int
	// Stale deployments have no code on-chain any more, usually after a local node restart
	Stale  []*models.Deployment
	Pruned bool
}

// PruneRegistry removes registry entries for the current chain whose contract code is gone
type PruneRegistry struct {
	cfg      *config.RuntimeConfig
	checker  CodeChecker
	registry DeploymentRepository
	prompter Prompter
	progress ProgressSink
}

// NewPruneRegistry creates a new PruneRegistry use case
func NewPruneRegistry(
	cfg *config.RuntimeConfig,
	checker CodeChecker,
	registry DeploymentRepository,
	prompter Prompter,
	progress ProgressSink,
) *PruneRegistry {
	if progress == nil {
		progress = NopProgress{}
	}
	return &PruneRegistry{
		cfg:      cfg,
		checker:  checker,
		registry: registry,
		prompter: prompter,
		progress: progress,
	}
}

// Run executes the prune registry use case
func (uc *PruneRegistry) Run(ctx context.Context, params PruneRegistryParams) (*PruneRegistryResult, error) {
	uc.progress.OnProgress(ctx, ProgressEvent{
		Stage:   StageConnecting,
		Message: fmt.Sprintf("Connecting to %s", uc.cfg.Network.Name),
		Spinner: true,
	})

	chainID, err := uc.checker.ChainID(ctx)
	if err != nil {
		uc.progress.OnProgress(ctx, ProgressEvent{Stage: StageCompleted})
		return nil, fmt.Errorf("failed to connect to blockchain: %w", err)
	}

	deployments, err := uc.registry.ListDeployments(ctx, domain.DeploymentFilter{ChainID: chainID})
	if err != nil {
		uc.progress.OnProgress(ctx, ProgressEvent{Stage: StageCompleted})
		return nil, err
	}
	sortDeployments(deployments)

	result := &PruneRegistryResult{ChainID: chainID, Checked: len(deployments)}

	uc.progress.OnProgress(ctx, ProgressEvent{
		Stage:   StageChecking,
		Message: fmt.Sprintf("Checking %d deployment(s) against chain %d", len(deployments), chainID),
		Spinner: true,
	})
	for _, dep := range deployments {
		// Any lookup failure aborts: an unreachable node must not look like a wiped chain
		exists, err := uc.checker.HasCode(ctx, dep.Address)
		if err != nil {
			uc.progress.OnProgress(ctx, ProgressEvent{Stage: StageCompleted})
			return nil, fmt.Errorf("failed to check %s at %s: %w", dep.ContractName, dep.Address.Hex(), err)
		}
		if !exists {
			result.Stale = append(result.Stale, dep)
		}
	}
	uc.progress.OnProgress(ctx, ProgressEvent{Stage: StageCompleted})

	if len(result.Stale) == 0 || params.DryRun {
		return result, nil
	}

	if !params.SkipConfirmation && uc.prompter != nil {
		ok, err := uc.prompter.Confirm(ctx, fmt.Sprintf("Remove %d stale deployment(s) from the registry", len(result.Stale)))
		if err != nil {
			return nil, err
		}
		if !ok {
			return result, nil
		}
	}

	ids := make([]string, len(result.Stale))
	for i, dep := range result.Stale {
		ids[i] = dep.ID
	}
	if err := uc.registry.DeleteDeployments(ctx, ids); err != nil {
		return nil, fmt.Errorf("failed to prune registry: %w", err)
	}
	result.Pruned = true
	return result, nil
}
