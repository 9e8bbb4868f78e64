package config

import (
	"context"
	"time"

	"github.com/trebuchet-org/deployer/internal/adapters/blockchain"
	"github.com/trebuchet-org/deployer/internal/config"
	domainconfig "github.com/trebuchet-org/deployer/internal/domain/config"
	"github.com/trebuchet-org/deployer/internal/usecase"
)

const probeTimeout = 5 * time.Second

// NetworkResolverAdapter adapts the config.NetworkResolver to the usecase.NetworkResolver interface
type NetworkResolverAdapter struct {
	resolver *config.NetworkResolver
	dial     blockchain.DialFunc
}

// NewNetworkResolverAdapter creates a resolver over the endpoints loaded into cfg
func NewNetworkResolverAdapter(cfg *domainconfig.RuntimeConfig, dial blockchain.DialFunc) *NetworkResolverAdapter {
	return &NetworkResolverAdapter{
		resolver: config.NewNetworkResolver(cfg.RPCEndpoints),
		dial:     dial,
	}
}

// ProvideNetworkResolverAdapter is the wire provider using a real RPC dialer
func ProvideNetworkResolverAdapter(cfg *domainconfig.RuntimeConfig) *NetworkResolverAdapter {
	return NewNetworkResolverAdapter(cfg, blockchain.DialRPC)
}

// GetNetworks returns all configured network names
func (a *NetworkResolverAdapter) GetNetworks(ctx context.Context) []string {
	return a.resolver.Names()
}

// ResolveNetwork resolves a network name to its configuration
func (a *NetworkResolverAdapter) ResolveNetwork(ctx context.Context, networkName string) (*domainconfig.Network, error) {
	return a.resolver.Resolve(networkName)
}

// ProbeChainID asks the network's node for its chain id, giving up after a few seconds
func (a *NetworkResolverAdapter) ProbeChainID(ctx context.Context, network *domainconfig.Network) (uint64, error) {
	ctx, cancel := context.WithTimeout(ctx, probeTimeout)
	defer cancel()

	backend, closer, err := a.dial(ctx, network.RPCURL)
	if err != nil {
		return 0, err
	}
	if closer != nil {
		defer closer()
	}

	chainID, err := backend.ChainID(ctx)
	if err != nil {
		return 0, err
	}
	return chainID.Uint64(), nil
}

// Ensure the adapter implements the interface
var _ usecase.NetworkResolver = (*NetworkResolverAdapter)(nil)
