package usecase

import (
	"context"
	"fmt"
	"time"

	"github.com/trebuchet-org/deployer/internal/domain/config"
)

// SetConfigParams contains parameters for setting configuration
type SetConfigParams struct {
	Key   string
	Value string
}

// SetConfigResult contains the result of setting configuration
type SetConfigResult struct {
	UpdatedConfig *config.LocalConfig
	ConfigPath    string
	Key           config.ConfigKey
	Value         string
}

// SetConfig is a use case for setting configuration values
type SetConfig struct {
	store    LocalConfigRepository
	networks NetworkResolver
}

// NewSetConfig creates a new SetConfig use case
func NewSetConfig(store LocalConfigRepository, networks NetworkResolver) *SetConfig {
	return &SetConfig{
		store:    store,
		networks: networks,
	}
}

// Run validates and saves a single config value
func (uc *SetConfig) Run(ctx context.Context, params SetConfigParams) (*SetConfigResult, error) {
	key, err := config.ParseConfigKey(params.Key)
	if err != nil {
		return nil, err
	}

	// A bad value here would break every later command, so reject it now
	if err := uc.validate(ctx, key, params.Value); err != nil {
		return nil, err
	}

	local, err := uc.store.Load(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}

	local.Set(key, params.Value)

	if err := uc.store.Save(ctx, local); err != nil {
		return nil, fmt.Errorf("failed to save config: %w", err)
	}

	return &SetConfigResult{
		UpdatedConfig: local,
		ConfigPath:    uc.store.GetPath(),
		Key:           key,
		Value:         params.Value,
	}, nil
}

func (uc *SetConfig) validate(ctx context.Context, key config.ConfigKey, value string) error {
	if value == "" {
		return fmt.Errorf("%s must not be empty, use 'config remove %s' to unset it", key, key)
	}

	switch key {
	case config.ConfigKeyNetwork:
		if _, err := uc.networks.ResolveNetwork(ctx, value); err != nil {
			return err
		}
	case config.ConfigKeyTimeout:
		timeout, err := time.ParseDuration(value)
		if err != nil {
			return fmt.Errorf("invalid timeout %q: %w", value, err)
		}
		if timeout < 0 {
			return fmt.Errorf("timeout must not be negative, got %s", value)
		}
	}
	return nil
}
