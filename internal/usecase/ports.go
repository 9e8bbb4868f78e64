package usecase

import (
	"context"

	"github.com/ethereum/go-ethereum/common"
	"github.com/trebuchet-org/deployer/internal/domain"
	"github.com/trebuchet-org/deployer/internal/domain/config"
	"github.com/trebuchet-org/deployer/internal/domain/models"
)

// ArtifactRepository provides access to compiled contracts in the build output
type ArtifactRepository interface {
	// FindArtifact resolves "Name" or "path/File.sol:Name" to a deployable artifact
	FindArtifact(ctx context.Context, ref string) (*models.Artifact, error)
}

// ConstructorEncoder converts string arguments into ABI-encoded constructor input
type ConstructorEncoder interface {
	EncodeConstructorArgs(artifact *models.Artifact, args []string) ([]byte, error)
}

// ContractNetwork submits creation transactions and waits for them to be mined
type ContractNetwork interface {
	ChainID(ctx context.Context) (uint64, error)
	Submit(ctx context.Context, artifact *models.Artifact, constructorData []byte) (*models.DeploymentHandle, error)
	WaitForConfirmation(ctx context.Context, handle *models.DeploymentHandle) (*models.Deployment, error)
}

// DeploymentRepository handles persistence of confirmed deployments
type DeploymentRepository interface {
	SaveDeployment(ctx context.Context, deployment *models.Deployment) error
	ListDeployments(ctx context.Context, filter domain.DeploymentFilter) ([]*models.Deployment, error)
	// DeleteDeployments removes all ids or none of them
	DeleteDeployments(ctx context.Context, ids []string) error
}

// CodeChecker looks up on-chain state of recorded deployments
type CodeChecker interface {
	ChainID(ctx context.Context) (uint64, error)
	HasCode(ctx context.Context, address common.Address) (bool, error)
}

// NetworkResolver handles network configuration resolution
type NetworkResolver interface {
	GetNetworks(ctx context.Context) []string
	ResolveNetwork(ctx context.Context, networkName string) (*config.Network, error)
	// ProbeChainID asks the network's node for its chain id
	ProbeChainID(ctx context.Context, network *config.Network) (uint64, error)
}

// LocalConfigRepository persists the per-project config defaults
type LocalConfigRepository interface {
	Exists() bool
	Load(ctx context.Context) (*config.LocalConfig, error)
	Save(ctx context.Context, local *config.LocalConfig) error
	GetPath() string
}

// Prompter asks the user questions in interactive mode
type Prompter interface {
	Confirm(ctx context.Context, message string) (bool, error)
	// Select returns the index of the chosen option
	Select(ctx context.Context, label string, options []string) (int, error)
}

// Progress tracking interfaces

// ExecutionStage represents a stage in the deployment process
type ExecutionStage string

const (
	StageResolving  ExecutionStage = "Resolving"
	StageConnecting ExecutionStage = "Connecting"
	StageSubmitting ExecutionStage = "Submitting"
	StageWaiting    ExecutionStage = "Waiting"
	StageRecording  ExecutionStage = "Recording"
	StageChecking   ExecutionStage = "Checking"
	StageCompleted  ExecutionStage = "Completed"
)

// ProgressEvent represents a progress update
type ProgressEvent struct {
	Stage   ExecutionStage
	Message string
	Spinner bool
}

// ProgressSink receives progress events
type ProgressSink interface {
	OnProgress(ctx context.Context, event ProgressEvent)
	// Info reports something the user should see without interrupting the stages
	Info(message string)
}

// NopProgress is a no-op implementation of ProgressSink
type NopProgress struct{}

func (NopProgress) OnProgress(context.Context, ProgressEvent) {}
func (NopProgress) Info(string) {}
