package fs

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"github.com/trebuchet-org/deployer/internal/domain/config"
	"github.com/trebuchet-org/deployer/internal/usecase"
)

// LocalConfigFile is read by viper as the lowest-precedence config source
const LocalConfigFile = "config.local.json"

// LocalConfigStore reads and writes <data dir>/config.local.json
type LocalConfigStore struct {
	dataDir string
}

// NewLocalConfigStore creates a store under the project's data directory
func NewLocalConfigStore(cfg *config.RuntimeConfig) *LocalConfigStore {
	return &LocalConfigStore{dataDir: cfg.DataDir}
}

// Exists checks if the config file exists
func (s *LocalConfigStore) Exists() bool {
	_, err := os.Stat(s.GetPath())
	return err == nil
}

// Load reads the config file, returning an empty config when there is none
func (s *LocalConfigStore) Load(ctx context.Context) (*config.LocalConfig, error) {
	data, err := os.ReadFile(s.GetPath())
	if os.IsNotExist(err) {
		return &config.LocalConfig{}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	var local config.LocalConfig
	if err := json.Unmarshal(data, &local); err != nil {
		return nil, fmt.Errorf("failed to parse %s: %w", s.GetPath(), err)
	}
	return &local, nil
}

// Save writes the config file
func (s *LocalConfigStore) Save(ctx context.Context, local *config.LocalConfig) error {
	data, err := json.MarshalIndent(local, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}
	return writeFileAtomic(s.dataDir, LocalConfigFile, append(data, '\n'))
}

// GetPath returns the path to the config file
func (s *LocalConfigStore) GetPath() string {
	return filepath.Join(s.dataDir, LocalConfigFile)
}

var _ usecase.LocalConfigRepository = (*LocalConfigStore)(nil)
