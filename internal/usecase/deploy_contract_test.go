package usecase_test

import (
	"bytes"
	"context"
	"errors"
	"log/slog"
	"testing"
	"time"

	"github.com/ethereum/go-ethereum/common"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"github.com/trebuchet-org/deployer/internal/domain"
	"github.com/trebuchet-org/deployer/internal/domain/config"
	"github.com/trebuchet-org/deployer/internal/domain/models"
	"github.com/trebuchet-org/deployer/internal/usecase"
)

// MockArtifactRepository is a mock implementation of ArtifactRepository
type MockArtifactRepository struct {
	mock.Mock
}

func (m *MockArtifactRepository) FindArtifact(ctx context.Context, ref string) (*models.Artifact, error) {
	args := m.Called(ctx, ref)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Artifact), args.Error(1)
}

// MockEncoder is a mock implementation of ConstructorEncoder
type MockEncoder struct {
	mock.Mock
}

func (m *MockEncoder) EncodeConstructorArgs(artifact *models.Artifact, args []string) ([]byte, error) {
	called := m.Called(artifact, args)
	if called.Get(0) == nil {
		return nil, called.Error(1)
	}
	return called.Get(0).([]byte), called.Error(1)
}

// MockNetwork is a mock implementation of ContractNetwork
type MockNetwork struct {
	mock.Mock
}

func (m *MockNetwork) ChainID(ctx context.Context) (uint64, error) {
	args := m.Called(ctx)
	return args.Get(0).(uint64), args.Error(1)
}

func (m *MockNetwork) Submit(ctx context.Context, artifact *models.Artifact, data []byte) (*models.DeploymentHandle, error) {
	args := m.Called(ctx, artifact, data)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.DeploymentHandle), args.Error(1)
}

func (m *MockNetwork) WaitForConfirmation(ctx context.Context, handle *models.DeploymentHandle) (*models.Deployment, error) {
	args := m.Called(ctx, handle)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Deployment), args.Error(1)
}

// MockDeploymentRepository is a mock implementation of DeploymentRepository
type MockDeploymentRepository struct {
	mock.Mock
}

func (m *MockDeploymentRepository) SaveDeployment(ctx context.Context, deployment *models.Deployment) error {
	return m.Called(ctx, deployment).Error(0)
}

func (m *MockDeploymentRepository) ListDeployments(ctx context.Context, filter domain.DeploymentFilter) ([]*models.Deployment, error) {
	args := m.Called(ctx, filter)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*models.Deployment), args.Error(1)
}

func (m *MockDeploymentRepository) DeleteDeployments(ctx context.Context, ids []string) error {
	return m.Called(ctx, ids).Error(0)
}

// MockPrompter is a mock implementation of Prompter
type MockPrompter struct {
	mock.Mock
}

func (m *MockPrompter) Confirm(ctx context.Context, message string) (bool, error) {
	args := m.Called(ctx, message)
	return args.Bool(0), args.Error(1)
}

func (m *MockPrompter) Select(ctx context.Context, label string, options []string) (int, error) {
	args := m.Called(ctx, label, options)
	return args.Int(0), args.Error(1)
}

// MockProgressSink records progress events and info messages
type MockProgressSink struct {
	events []usecase.ProgressEvent
	infos  []string
}

func (m *MockProgressSink) OnProgress(ctx context.Context, event usecase.ProgressEvent) {
	m.events = append(m.events, event)
}
func (m *MockProgressSink) Info(message string) {
	m.infos = append(m.infos, message)
}

func (m *MockProgressSink) stages() []usecase.ExecutionStage {
	var stages []usecase.ExecutionStage
	for _, e := range m.events {
		if len(stages) == 0 || stages[len(stages)-1] != e.Stage {
			stages = append(stages, e.Stage)
		}
	}
	return stages
}

type deployFixture struct {
	artifacts *MockArtifactRepository
	encoder   *MockEncoder
	network   *MockNetwork
	registry  *MockDeploymentRepository
	prompter  *MockPrompter
	progress  *MockProgressSink
	logs      *bytes.Buffer
	uc        *usecase.DeployContract
}

func newDeployFixture() *deployFixture {
	f := &deployFixture{
		artifacts: new(MockArtifactRepository),
		encoder:   new(MockEncoder),
		network:   new(MockNetwork),
		registry:  new(MockDeploymentRepository),
		prompter:  new(MockPrompter),
		progress:  &MockProgressSink{},
		logs:      new(bytes.Buffer),
	}
	cfg := &config.RuntimeConfig{
		ContractName: "TrustX",
		Network:      &config.Network{Name: "localhost", RPCURL: "http://127.0.0.1:8545"},
	}
	log := slog.New(slog.NewTextHandler(f.logs, nil))
	f.uc = usecase.NewDeployContract(cfg, f.artifacts, f.encoder, f.network, f.registry, f.prompter, f.progress, log)
	return f
}

var (
	trustXArtifact = &models.Artifact{
		Name:         "TrustX",
		SourcePath:   "contracts/TrustX.sol",
		ArtifactPath: "artifacts/contracts/TrustX.sol/TrustX.json",
		Format:       models.ArtifactFormatHardhat,
		Bytecode:     common.FromHex("0x6001600c60003960016000f300"),
	}
	trustXHandle = &models.DeploymentHandle{
		ContractName:     "TrustX",
		TxHash:           common.HexToHash("0xaa"),
		From:             common.HexToAddress("0xf39Fd6e51aad88F6F4ce6aB8827279cffFb92266"),
		PredictedAddress: common.HexToAddress("0x5FbDB2315678afecb367f032d93F642f64180aa3"),
	}
	trustXDeployment = &models.Deployment{
		ID:           "31337/0x5FbDB2315678afecb367f032d93F642f64180aa3",
		ContractName: "TrustX",
		Address:      common.HexToAddress("0x5FbDB2315678afecb367f032d93F642f64180aa3"),
		ChainID:      31337,
		TxHash:       common.HexToHash("0xaa"),
		BlockNumber:  1,
	}
)

func TestDeployContract(t *testing.T) {
	ctx := context.Background()

	t.Run("deploys and records the contract", func(t *testing.T) {
		f := newDeployFixture()
		f.artifacts.On("FindArtifact", ctx, "TrustX").Return(trustXArtifact, nil)
		f.encoder.On("EncodeConstructorArgs", trustXArtifact, []string(nil)).Return([]byte{}, nil)
		f.network.On("ChainID", ctx).Return(uint64(31337), nil)
		f.network.On("Submit", ctx, trustXArtifact, []byte{}).Return(trustXHandle, nil)
		f.network.On("WaitForConfirmation", mock.Anything, trustXHandle).Return(trustXDeployment, nil)
		f.registry.On("SaveDeployment", ctx, trustXDeployment).Return(nil)

		result, err := f.uc.Execute(ctx, usecase.DeployContractParams{Timeout: time.Minute})

		require.NoError(t, err)
		assert.Equal(t, "0x5FbDB2315678afecb367f032d93F642f64180aa3", result.Deployment.Address.Hex())
		assert.True(t, result.Recorded)
		assert.Empty(t, f.logs.String(), "a routine deploy logs nothing at the default level")
		assert.Same(t, trustXHandle, result.Handle)
		assert.Equal(t, []usecase.ExecutionStage{
			usecase.StageResolving,
			usecase.StageConnecting,
			usecase.StageSubmitting,
			usecase.StageWaiting,
			usecase.StageRecording,
			usecase.StageCompleted,
		}, f.progress.stages())

		// dev chain: no prompt
		f.prompter.AssertNotCalled(t, "Confirm", mock.Anything, mock.Anything)
		f.network.AssertExpectations(t)
		f.registry.AssertExpectations(t)
	})

	t.Run("missing artifact fails with ErrArtifactNotFound", func(t *testing.T) {
		f := newDeployFixture()
		f.artifacts.On("FindArtifact", ctx, "Missing").
			Return(nil, &domain.ArtifactNotFoundError{Ref: "Missing", Suggestions: []string{"TrustX"}})

		result, err := f.uc.Execute(ctx, usecase.DeployContractParams{ContractName: "Missing"})

		require.Error(t, err)
		assert.Nil(t, result)
		assert.ErrorIs(t, err, domain.ErrArtifactNotFound)
		assert.NotErrorIs(t, err, domain.ErrDeploymentFailed)
		assert.Contains(t, err.Error(), "did you mean TrustX?")

		var deployErr *domain.DeployError
		require.ErrorAs(t, err, &deployErr)
		assert.Equal(t, domain.StageResolve, deployErr.Stage)
		f.network.AssertNotCalled(t, "Submit", mock.Anything, mock.Anything, mock.Anything)
	})

	t.Run("rejected submission fails with ErrDeploymentFailed", func(t *testing.T) {
		f := newDeployFixture()
		f.artifacts.On("FindArtifact", ctx, "TrustX").Return(trustXArtifact, nil)
		f.encoder.On("EncodeConstructorArgs", trustXArtifact, []string(nil)).Return([]byte{}, nil)
		f.network.On("ChainID", ctx).Return(uint64(31337), nil)
		f.network.On("Submit", ctx, trustXArtifact, []byte{}).Return(nil, errors.New("insufficient funds for gas * price + value"))

		_, err := f.uc.Execute(ctx, usecase.DeployContractParams{})

		require.Error(t, err)
		assert.ErrorIs(t, err, domain.ErrDeploymentFailed)
		assert.Contains(t, err.Error(), "insufficient funds")
		f.registry.AssertNotCalled(t, "SaveDeployment", mock.Anything, mock.Anything)
	})

	t.Run("reverted transaction fails with ErrDeploymentFailed", func(t *testing.T) {
		f := newDeployFixture()
		f.artifacts.On("FindArtifact", ctx, "TrustX").Return(trustXArtifact, nil)
		f.encoder.On("EncodeConstructorArgs", trustXArtifact, []string(nil)).Return([]byte{}, nil)
		f.network.On("ChainID", ctx).Return(uint64(31337), nil)
		f.network.On("Submit", ctx, trustXArtifact, []byte{}).Return(trustXHandle, nil)
		f.network.On("WaitForConfirmation", mock.Anything, trustXHandle).Return(nil, errors.New("transaction reverted"))

		_, err := f.uc.Execute(ctx, usecase.DeployContractParams{})

		assert.ErrorIs(t, err, domain.ErrDeploymentFailed)
		var deployErr *domain.DeployError
		require.ErrorAs(t, err, &deployErr)
		assert.Equal(t, domain.StageConfirm, deployErr.Stage)
		f.registry.AssertNotCalled(t, "SaveDeployment", mock.Anything, mock.Anything)
	})

	t.Run("confirmation wait times out", func(t *testing.T) {
		f := newDeployFixture()
		f.artifacts.On("FindArtifact", ctx, "TrustX").Return(trustXArtifact, nil)
		f.encoder.On("EncodeConstructorArgs", trustXArtifact, []string(nil)).Return([]byte{}, nil)
		f.network.On("ChainID", ctx).Return(uint64(31337), nil)
		f.network.On("Submit", ctx, trustXArtifact, []byte{}).Return(trustXHandle, nil)
		f.network.On("WaitForConfirmation", mock.Anything, trustXHandle).
			Run(func(args mock.Arguments) {
				<-args.Get(0).(context.Context).Done()
			}).
			Return(nil, context.DeadlineExceeded)

		_, err := f.uc.Execute(ctx, usecase.DeployContractParams{Timeout: 20 * time.Millisecond})

		require.Error(t, err)
		assert.ErrorIs(t, err, domain.ErrDeploymentFailed)
		assert.ErrorIs(t, err, context.DeadlineExceeded)
		assert.Contains(t, err.Error(), "not mined within 20ms")
	})

	t.Run("registry failure does not fail a confirmed deployment", func(t *testing.T) {
		f := newDeployFixture()
		f.artifacts.On("FindArtifact", ctx, "TrustX").Return(trustXArtifact, nil)
		f.encoder.On("EncodeConstructorArgs", trustXArtifact, []string(nil)).Return([]byte{}, nil)
		f.network.On("ChainID", ctx).Return(uint64(31337), nil)
		f.network.On("Submit", ctx, trustXArtifact, []byte{}).Return(trustXHandle, nil)
		f.network.On("WaitForConfirmation", mock.Anything, trustXHandle).Return(trustXDeployment, nil)
		f.registry.On("SaveDeployment", ctx, trustXDeployment).Return(errors.New("disk full"))

		result, err := f.uc.Execute(ctx, usecase.DeployContractParams{})

		require.NoError(t, err)
		assert.False(t, result.Recorded)
	})

	t.Run("zero address is never reported", func(t *testing.T) {
		f := newDeployFixture()
		f.artifacts.On("FindArtifact", ctx, "TrustX").Return(trustXArtifact, nil)
		f.encoder.On("EncodeConstructorArgs", trustXArtifact, []string(nil)).Return([]byte{}, nil)
		f.network.On("ChainID", ctx).Return(uint64(31337), nil)
		f.network.On("Submit", ctx, trustXArtifact, []byte{}).Return(trustXHandle, nil)
		f.network.On("WaitForConfirmation", mock.Anything, trustXHandle).
			Return(&models.Deployment{ContractName: "TrustX", ChainID: 31337}, nil)

		_, err := f.uc.Execute(ctx, usecase.DeployContractParams{})

		assert.ErrorIs(t, err, domain.ErrDeploymentFailed)
	})

	t.Run("bad constructor arguments fail before submitting", func(t *testing.T) {
		f := newDeployFixture()
		f.artifacts.On("FindArtifact", ctx, "TrustX").Return(trustXArtifact, nil)
		f.encoder.On("EncodeConstructorArgs", trustXArtifact, []string{"x"}).Return(nil, errors.New("constructor takes 0 arguments, got 1"))

		_, err := f.uc.Execute(ctx, usecase.DeployContractParams{ConstructorArgs: []string{"x"}})

		assert.ErrorIs(t, err, domain.ErrDeploymentFailed)
		var deployErr *domain.DeployError
		require.ErrorAs(t, err, &deployErr)
		assert.Equal(t, domain.StagePrepare, deployErr.Stage)
		f.network.AssertNotCalled(t, "ChainID", mock.Anything)
	})

	t.Run("declined prompt on a live chain cancels", func(t *testing.T) {
		f := newDeployFixture()
		f.artifacts.On("FindArtifact", ctx, "TrustX").Return(trustXArtifact, nil)
		f.encoder.On("EncodeConstructorArgs", trustXArtifact, []string(nil)).Return([]byte{}, nil)
		f.network.On("ChainID", ctx).Return(uint64(11155111), nil)
		f.prompter.On("Confirm", ctx, "Deploy TrustX to localhost (chain 11155111)").Return(false, nil)

		_, err := f.uc.Execute(ctx, usecase.DeployContractParams{})

		assert.ErrorIs(t, err, domain.ErrDeploymentCancelled)
		assert.ErrorIs(t, err, domain.ErrDeploymentFailed)
		f.network.AssertNotCalled(t, "Submit", mock.Anything, mock.Anything, mock.Anything)
	})

	t.Run("skip confirmation on a live chain", func(t *testing.T) {
		f := newDeployFixture()
		f.artifacts.On("FindArtifact", ctx, "TrustX").Return(trustXArtifact, nil)
		f.encoder.On("EncodeConstructorArgs", trustXArtifact, []string(nil)).Return([]byte{}, nil)
		f.network.On("ChainID", ctx).Return(uint64(11155111), nil)
		f.network.On("Submit", ctx, trustXArtifact, []byte{}).Return(trustXHandle, nil)
		f.network.On("WaitForConfirmation", mock.Anything, trustXHandle).Return(trustXDeployment, nil)
		f.registry.On("SaveDeployment", ctx, trustXDeployment).Return(nil)

		_, err := f.uc.Execute(ctx, usecase.DeployContractParams{SkipConfirmation: true})

		require.NoError(t, err)
		f.prompter.AssertNotCalled(t, "Confirm", mock.Anything, mock.Anything)
	})

	t.Run("ambiguous name is resolved by selection", func(t *testing.T) {
		f := newDeployFixture()
		matches := []string{"contracts/v1/TrustX.sol:TrustX", "contracts/v2/TrustX.sol:TrustX"}
		f.artifacts.On("FindArtifact", ctx, "TrustX").
			Return(nil, &domain.AmbiguousArtifactError{Ref: "TrustX", Matches: matches})
		f.prompter.On("Select", ctx, "Several artifacts are named TrustX", matches).Return(1, nil)
		f.artifacts.On("FindArtifact", ctx, matches[1]).Return(trustXArtifact, nil)
		f.encoder.On("EncodeConstructorArgs", trustXArtifact, []string(nil)).Return([]byte{}, nil)
		f.network.On("ChainID", ctx).Return(uint64(31337), nil)
		f.network.On("Submit", ctx, trustXArtifact, []byte{}).Return(trustXHandle, nil)
		f.network.On("WaitForConfirmation", mock.Anything, trustXHandle).Return(trustXDeployment, nil)
		f.registry.On("SaveDeployment", ctx, trustXDeployment).Return(nil)

		_, err := f.uc.Execute(ctx, usecase.DeployContractParams{})

		require.NoError(t, err)
		f.artifacts.AssertExpectations(t)
		assert.Equal(t, []string{"Using contracts/TrustX.sol:TrustX"}, f.progress.infos)
	})

	t.Run("ambiguous name without prompting fails", func(t *testing.T) {
		f := newDeployFixture()
		f.artifacts.On("FindArtifact", ctx, "TrustX").
			Return(nil, &domain.AmbiguousArtifactError{Ref: "TrustX", Matches: []string{"a.sol:TrustX", "b.sol:TrustX"}})

		_, err := f.uc.Execute(ctx, usecase.DeployContractParams{SkipConfirmation: true})

		assert.ErrorIs(t, err, domain.ErrArtifactNotFound)
		assert.Contains(t, err.Error(), "use path:Contract format")
		f.prompter.AssertNotCalled(t, "Select", mock.Anything, mock.Anything, mock.Anything)
	})
}
