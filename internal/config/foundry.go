package config

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/BurntSushi/toml"
	"github.com/joho/godotenv"
	"github.com/samber/lo"
)

// configFiles are read for [rpc_endpoints] in order; the first one present wins
var configFiles = []string{"deployer.toml", "foundry.toml"}

// builtinEndpoints are always available unless a config file overrides them
var builtinEndpoints = map[string]string{
	"localhost": "http://127.0.0.1:8545",
	"hardhat":   "http://127.0.0.1:8545",
}

// endpointsTOML represents the part of deployer.toml / foundry.toml we read
type endpointsTOML struct {
	RpcEndpoints map[string]string `toml:"rpc_endpoints"`
}

// LoadDotEnv loads .env files for variable expansion. Existing environment
// variables are never overridden.
func LoadDotEnv(projectRoot string) {
	envFiles := []string{
		filepath.Join(projectRoot, ".env"),
		filepath.Join(projectRoot, ".env.local"),
	}

	for _, envFile := range envFiles {
		if _, err := os.Stat(envFile); err == nil {
			if err := godotenv.Load(envFile); err != nil {
				slog.Warn("failed to load env file", "path", envFile, "error", err)
			}
		}
	}
}

// LoadRPCEndpoints returns the named RPC endpoints with ${VAR} references expanded,
// merged over the built-in local endpoints, and the file they came from.
func LoadRPCEndpoints(projectRoot string) (map[string]string, string, error) {
	endpoints := make(map[string]string, len(builtinEndpoints))
	for name, url := range builtinEndpoints {
		endpoints[name] = url
	}

	for _, name := range configFiles {
		path := filepath.Join(projectRoot, name)
		if _, err := os.Stat(path); err != nil {
			continue
		}

		var raw endpointsTOML
		if _, err := toml.DecodeFile(path, &raw); err != nil {
			return nil, "", fmt.Errorf("failed to parse %s: %w", name, err)
		}

		for network, url := range raw.RpcEndpoints {
			endpoints[network] = expandEndpoint(url)
		}
		return endpoints, name, nil
	}

	return endpoints, "", nil
}

// expandEndpoint substitutes environment variables in url. When any of them is
// unset the raw url is kept so resolving the network can name what is missing.
func expandEndpoint(url string) string {
	if len(unsetVariables(url)) > 0 {
		return url
	}
	return os.ExpandEnv(url)
}

// unsetVariables lists the $VAR / ${VAR} references in s that are not set
func unsetVariables(s string) []string {
	var missing []string
	os.Expand(s, func(name string) string {
		if _, ok := os.LookupEnv(name); !ok && !lo.Contains(missing, name) {
			missing = append(missing, name)
		}
		return ""
	})
	return missing
}
