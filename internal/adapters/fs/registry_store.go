package fs

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"github.com/samber/lo"
	"github.com/trebuchet-org/deployer/internal/domain"
	"github.com/trebuchet-org/deployer/internal/domain/config"
	"github.com/trebuchet-org/deployer/internal/domain/models"
	"github.com/trebuchet-org/deployer/internal/usecase"
)

const DeploymentsFile = "deployments.json"

// RegistryStore keeps confirmed deployments in <data dir>/deployments.json
type RegistryStore struct {
	dataDir     string
	mu          sync.RWMutex
	deployments map[string]*models.Deployment
}

// NewRegistryStore loads the registry file, if any, from the configured data directory
func NewRegistryStore(cfg *config.RuntimeConfig) (*RegistryStore, error) {
	s := &RegistryStore{
		dataDir:     cfg.DataDir,
		deployments: make(map[string]*models.Deployment),
	}

	if err := s.load(); err != nil {
		return nil, fmt.Errorf("failed to load registry: %w", err)
	}
	return s, nil
}

func (s *RegistryStore) path() string {
	return filepath.Join(s.dataDir, DeploymentsFile)
}

func (s *RegistryStore) load() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	data, err := os.ReadFile(s.path())
	if os.IsNotExist(err) {
		return nil
	}
	if err != nil {
		return err
	}
	if err := json.Unmarshal(data, &s.deployments); err != nil {
		return fmt.Errorf("%s is corrupt: %w", s.path(), err)
	}

	// the map key is the id; hand-edited entries may omit the field
	for id, dep := range s.deployments {
		if dep == nil {
			delete(s.deployments, id)
			continue
		}
		if dep.ID == "" {
			dep.ID = id
		}
	}
	return nil
}

// SaveDeployment adds or replaces a deployment and rewrites the registry file
func (s *RegistryStore) SaveDeployment(ctx context.Context, deployment *models.Deployment) error {
	if deployment.ID == "" {
		deployment.ID = models.DeploymentID(deployment.ChainID, deployment.Address)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	previous, existed := s.deployments[deployment.ID]
	s.deployments[deployment.ID] = deployment
	if err := s.save(); err != nil {
		// keep memory in line with what is on disk
		if existed {
			s.deployments[deployment.ID] = previous
		} else {
			delete(s.deployments, deployment.ID)
		}
		return err
	}
	return nil
}

// ListDeployments returns the deployments matching filter, in no particular order
func (s *RegistryStore) ListDeployments(ctx context.Context, filter domain.DeploymentFilter) ([]*models.Deployment, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return lo.Filter(lo.Values(s.deployments), func(dep *models.Deployment, _ int) bool {
		if filter.ChainID != 0 && dep.ChainID != filter.ChainID {
			return false
		}
		if filter.ContractName != "" && dep.ContractName != filter.ContractName {
			return false
		}
		if filter.Network != "" && dep.Network != filter.Network {
			return false
		}
		return true
	}), nil
}

// save writes the registry atomically. Caller must hold the write lock.
func (s *RegistryStore) save() error {
	data, err := json.MarshalIndent(s.deployments, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to encode registry: %w", err)
	}
	return writeFileAtomic(s.dataDir, DeploymentsFile, data)
}

var _ usecase.DeploymentRepository = (*RegistryStore)(nil)
