package adapters

import (
	"github.com/google/wire"
	"github.com/trebuchet-org/deployer/internal/adapters/abi"
	"github.com/trebuchet-org/deployer/internal/adapters/blockchain"
	internalconfig "github.com/trebuchet-org/deployer/internal/adapters/config"
	"github.com/trebuchet-org/deployer/internal/adapters/fs"
	"github.com/trebuchet-org/deployer/internal/adapters/interactive"
	"github.com/trebuchet-org/deployer/internal/usecase"
)

// FSSet provides filesystem-based implementations
var FSSet = wire.NewSet(
	fs.NewArtifactRepository,
	wire.Bind(new(usecase.ArtifactRepository), new(*fs.ArtifactRepository)),

	fs.NewRegistryStore,
	wire.Bind(new(usecase.DeploymentRepository), new(*fs.RegistryStore)),

	fs.NewLocalConfigStore,
	wire.Bind(new(usecase.LocalConfigRepository), new(*fs.LocalConfigStore)),
)

// ABISet provides ABI encoding
var ABISet = wire.NewSet(
	abi.NewConstructorEncoder,
	wire.Bind(new(usecase.ConstructorEncoder), new(*abi.ConstructorEncoder)),
)

// InteractiveSet provides interactive implementations
var InteractiveSet = wire.NewSet(
	interactive.NewPrompterAdapter,
	wire.Bind(new(usecase.Prompter), new(*interactive.PrompterAdapter)),
)

// ConfigSet provides configuration-based implementations
var ConfigSet = wire.NewSet(
	internalconfig.ProvideNetworkResolverAdapter,
	wire.Bind(new(usecase.NetworkResolver), new(*internalconfig.NetworkResolverAdapter)),
)

// BlockchainSet provides blockchain-based implementations
var BlockchainSet = wire.NewSet(
	blockchain.ProvideDeployer,
	wire.Bind(new(usecase.ContractNetwork), new(*blockchain.Deployer)),
	wire.Bind(new(usecase.CodeChecker), new(*blockchain.Deployer)),
)

// AllAdapters includes all adapter sets
var AllAdapters = wire.NewSet(
	FSSet,
	ABISet,
	InteractiveSet,
	ConfigSet,
	BlockchainSet,
)
