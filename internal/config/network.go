package config

import (
	"fmt"
	"sort"
	"strings"

	"github.com/samber/lo"
	"github.com/trebuchet-org/deployer/internal/domain"
	"github.com/trebuchet-org/deployer/internal/domain/config"
)

// NetworkResolver resolves network names to RPC endpoints
type NetworkResolver struct {
	endpoints map[string]string
}

// NewNetworkResolver creates a new network resolver
func NewNetworkResolver(endpoints map[string]string) *NetworkResolver {
	return &NetworkResolver{endpoints: endpoints}
}

// Resolve resolves a network name to its configuration
func (r *NetworkResolver) Resolve(networkName string) (*config.Network, error) {
	rpcURL, exists := r.endpoints[networkName]
	if !exists {
		return nil, fmt.Errorf("%w: '%s' has no entry in [rpc_endpoints] (available: %s)",
			domain.ErrNetworkNotFound, networkName, strings.Join(r.Names(), ", "))
	}
	if missing := unsetVariables(rpcURL); len(missing) > 0 {
		return nil, fmt.Errorf("rpc url for network '%s' references unset variable(s): %s", networkName, strings.Join(missing, ", "))
	}
	if rpcURL == "" {
		return nil, fmt.Errorf("rpc url for network '%s' is empty", networkName)
	}

	return &config.Network{
		Name:   networkName,
		RPCURL: rpcURL,
	}, nil
}

// Names returns all configured network names, sorted
func (r *NetworkResolver) Names() []string {
	names := lo.Keys(r.endpoints)
	sort.Strings(names)
	return names
}
