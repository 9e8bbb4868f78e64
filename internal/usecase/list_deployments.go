package usecase

import (
	"context"
	"sort"

	"github.com/samber/lo"
	"github.com/trebuchet-org/deployer/internal/domain"
	"github.com/trebuchet-org/deployer/internal/domain/models"
)

// ListDeploymentsParams contains parameters for listing deployments
type ListDeploymentsParams struct {
	ContractName string
	ChainID      uint64
	Network      string
}

// DeploymentListResult contains the result of listing deployments
type DeploymentListResult struct {
	Deployments []*models.Deployment
	Summary     DeploymentSummary
}

// DeploymentSummary provides summary statistics
type DeploymentSummary struct {
	Total      int
	ByChain    map[uint64]int
	ByContract map[string]int
}

// ListDeployments is the use case for listing recorded deployments
type ListDeployments struct {
	store DeploymentRepository
	sink  ProgressSink
}

// NewListDeployments creates a new ListDeployments use case
func NewListDeployments(store DeploymentRepository, sink ProgressSink) *ListDeployments {
	return &ListDeployments{
		store: store,
		sink:  sink,
	}
}

// Run executes the list deployments use case
func (uc *ListDeployments) Run(ctx context.Context, params ListDeploymentsParams) (*DeploymentListResult, error) {
	uc.sink.OnProgress(ctx, ProgressEvent{
		Stage:   StageResolving,
		Message: "Loading deployments from registry",
	})

	deployments, err := uc.store.ListDeployments(ctx, domain.DeploymentFilter{
		ChainID:      params.ChainID,
		ContractName: params.ContractName,
		Network:      params.Network,
	})
	if err != nil {
		return nil, err
	}

	sortDeployments(deployments)

	return &DeploymentListResult{
		Deployments: deployments,
		Summary:     calculateSummary(deployments),
	}, nil
}

// sortDeployments sorts deployments by chain, contract name, then newest first
func sortDeployments(deployments []*models.Deployment) {
	sort.SliceStable(deployments, func(i, j int) bool {
		if deployments[i].ChainID != deployments[j].ChainID {
			return deployments[i].ChainID < deployments[j].ChainID
		}
		if deployments[i].ContractName != deployments[j].ContractName {
			return deployments[i].ContractName < deployments[j].ContractName
		}
		return deployments[i].CreatedAt.After(deployments[j].CreatedAt)
	})
}

// calculateSummary calculates summary statistics for deployments
func calculateSummary(deployments []*models.Deployment) DeploymentSummary {
	return DeploymentSummary{
		Total: len(deployments),
		ByChain: lo.CountValuesBy(deployments, func(d *models.Deployment) uint64 {
			return d.ChainID
		}),
		ByContract: lo.CountValuesBy(deployments, func(d *models.Deployment) string {
			return d.ContractName
		}),
	}
}
