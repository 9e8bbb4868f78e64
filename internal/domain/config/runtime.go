package config

import (
	"time"
)

// RuntimeConfig represents the complete runtime configuration
// This is injected into use cases and contains all resolved settings
type RuntimeConfig struct {
	// Core settings
	ProjectRoot string
	DataDir     string

	// Deployment target
	ContractName    string
	ConstructorArgs []string
	Network         *Network
	Signer          SignerConfig

	// Execution settings
	Debug          bool
	NonInteractive bool
	// Timeout bounds the wait for mining confirmation; zero means no bound
	Timeout time.Duration

	// Config source tracking ("deployer.toml", "foundry.toml" or "" for built-ins only)
	ConfigSource string
	// RPCEndpoints maps network names to their expanded RPC URLs
	RPCEndpoints map[string]string
}

// Network represents network configuration
type Network struct {
	Name   string `json:"name"`
	RPCURL string `json:"rpcUrl"`
	// ChainID is zero until a node has been asked
	ChainID uint64 `json:"chainId,omitempty"`
}

// SignerConfig holds the credentials used to authorize the creation transaction
type SignerConfig struct {
	PrivateKey string
}

// IsSet reports whether a private key was configured
func (s SignerConfig) IsSet() bool {
	return s.PrivateKey != ""
}

// String never prints the key
func (s SignerConfig) String() string {
	if s.IsSet() {
		return "private-key(redacted)"
	}
	return "none"
}
