package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"
	"github.com/trebuchet-org/deployer/internal/domain/config"
)

const (
	// DataDirName is the per-project directory holding the registry and local config
	DataDirName = ".deployer"

	DefaultContract = "TrustX"
	DefaultNetwork  = "localhost"
	DefaultTimeout  = 5 * time.Minute
)

// projectMarkers are looked for when walking up to the project root, in order
var projectMarkers = []string{
	"deployer.toml",
	"hardhat.config.js",
	"hardhat.config.ts",
	"foundry.toml",
}

// Provider creates RuntimeConfig for Wire dependency injection
func Provider(v *viper.Viper) (*config.RuntimeConfig, error) {
	projectRoot := v.GetString("project_root")
	if projectRoot == "" {
		projectRoot = FindProjectRoot()
	}

	endpoints, source, err := LoadRPCEndpoints(projectRoot)
	if err != nil {
		return nil, fmt.Errorf("failed to load rpc endpoints: %w", err)
	}

	timeout, err := parseTimeout(v.GetString("timeout"))
	if err != nil {
		return nil, err
	}

	cfg := &config.RuntimeConfig{
		ProjectRoot:     projectRoot,
		DataDir:         filepath.Join(projectRoot, DataDirName),
		ContractName:    v.GetString("contract"),
		ConstructorArgs: v.GetStringSlice("arg"),
		Debug:           v.GetBool("debug"),
		NonInteractive:  v.GetBool("non-interactive"),
		Timeout:         timeout,
		ConfigSource:    source,
		RPCEndpoints:    endpoints,
		Signer: config.SignerConfig{
			PrivateKey: resolvePrivateKey(v),
		},
	}

	if cfg.ContractName == "" {
		cfg.ContractName = DefaultContract
	}

	// An explicit RPC URL wins over named endpoints
	networkName := v.GetString("network")
	if rpcURL := v.GetString("rpc_url"); rpcURL != "" {
		name := networkName
		if name == "" {
			name = "custom"
		}
		cfg.Network = &config.Network{Name: name, RPCURL: rpcURL}
		return cfg, nil
	}

	if networkName == "" {
		networkName = DefaultNetwork
	}
	network, err := NewNetworkResolver(endpoints).Resolve(networkName)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve network %s: %w", networkName, err)
	}
	cfg.Network = network

	return cfg, nil
}

// parseTimeout reads the confirmation timeout. Viper would turn a malformed value
// into 0, which means no bound at all, so it is parsed here instead.
func parseTimeout(value string) (time.Duration, error) {
	value = strings.TrimSpace(value)
	if value == "" {
		return DefaultTimeout, nil
	}
	timeout, err := time.ParseDuration(value)
	if err != nil {
		return 0, fmt.Errorf("invalid timeout %q: %w", value, err)
	}
	if timeout < 0 {
		return 0, fmt.Errorf("timeout must not be negative, got %s", timeout)
	}
	return timeout, nil
}

// resolvePrivateKey prefers DEPLOYER_PRIVATE_KEY and falls back to the bare
// PRIVATE_KEY variable most Hardhat projects keep in .env
func resolvePrivateKey(v *viper.Viper) string {
	if key := v.GetString("private_key"); key != "" {
		return key
	}
	return os.Getenv("PRIVATE_KEY")
}

// FindProjectRoot walks up from current directory to find a project marker.
// Falls back to the working directory.
func FindProjectRoot() string {
	cwd, err := os.Getwd()
	if err != nil {
		return "."
	}

	dir := cwd
	for {
		for _, marker := range projectMarkers {
			if _, err := os.Stat(filepath.Join(dir, marker)); err == nil {
				return dir
			}
		}

		parent := filepath.Dir(dir)
		if parent == dir {
			return cwd
		}
		dir = parent
	}
}

// SetupViper creates and configures a viper instance
func SetupViper(projectRoot string, cmd *cobra.Command) *viper.Viper {
	// .env first so AutomaticEnv sees its values
	LoadDotEnv(projectRoot)

	v := viper.New()

	// Set up config file
	v.SetConfigName("config.local")
	v.SetConfigType("json")
	v.AddConfigPath(filepath.Join(projectRoot, DataDirName))

	// Set up environment variables
	v.SetEnvPrefix("DEPLOYER")
	v.AutomaticEnv()
	v.SetEnvKeyReplacer(strings.NewReplacer("-", "_", ".", "_"))

	// Set defaults
	v.SetDefault("contract", DefaultContract)
	v.SetDefault("timeout", DefaultTimeout.String())
	v.SetDefault("debug", false)
	v.SetDefault("non-interactive", false)
	v.SetDefault("project_root", projectRoot)

	// Try to read config file (ignore error if not found)
	_ = v.ReadInConfig()

	if cmd != nil {
		cmd.Flags().VisitAll(func(f *pflag.Flag) {
			if err := v.BindPFlag(f.Name, f); err != nil {
				panic(err)
			}
		})
	}

	return v
}
