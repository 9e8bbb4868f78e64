package config

import (
	"fmt"
	"strings"
)

// LocalConfig holds per-project defaults saved in .deployer/config.local.json.
// Flags and DEPLOYER_* variables take precedence over it.
type LocalConfig struct {
	Network  string `json:"network,omitempty"`
	Contract string `json:"contract,omitempty"`
	Timeout  string `json:"timeout,omitempty"`
}

// ConfigKey represents a configuration key
type ConfigKey string

const (
	ConfigKeyNetwork  ConfigKey = "network"
	ConfigKeyContract ConfigKey = "contract"
	ConfigKeyTimeout  ConfigKey = "timeout"
)

// ValidConfigKeys returns all valid configuration keys
func ValidConfigKeys() []ConfigKey {
	return []ConfigKey{
		ConfigKeyNetwork,
		ConfigKeyContract,
		ConfigKeyTimeout,
	}
}

// ParseConfigKey normalizes key and rejects unknown keys
func ParseConfigKey(key string) (ConfigKey, error) {
	normalized := ConfigKey(strings.ToLower(strings.TrimSpace(key)))
	names := make([]string, 0, len(ValidConfigKeys()))
	for _, valid := range ValidConfigKeys() {
		if normalized == valid {
			return valid, nil
		}
		names = append(names, string(valid))
	}
	return "", fmt.Errorf("unknown config key: %s (available: %s)", key, strings.Join(names, ", "))
}

// Get returns the value stored under key, empty when unset
func (c *LocalConfig) Get(key ConfigKey) string {
	switch key {
	case ConfigKeyNetwork:
		return c.Network
	case ConfigKeyContract:
		return c.Contract
	case ConfigKeyTimeout:
		return c.Timeout
	}
	return ""
}

// Set stores value under key; an empty value unsets it
func (c *LocalConfig) Set(key ConfigKey, value string) {
	switch key {
	case ConfigKeyNetwork:
		c.Network = value
	case ConfigKeyContract:
		c.Contract = value
	case ConfigKeyTimeout:
		c.Timeout = value
	}
}
