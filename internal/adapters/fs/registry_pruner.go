package fs

import (
	"context"
	"fmt"

	"github.com/trebuchet-org/deployer/internal/domain"
	"github.com/trebuchet-org/deployer/internal/domain/models"
)

// DeleteDeployments removes the given ids and rewrites the registry file once.
// Unknown ids are an error and nothing is removed.
func (s *RegistryStore) DeleteDeployments(ctx context.Context, ids []string) error {
	if len(ids) == 0 {
		return nil
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	for _, id := range ids {
		if _, ok := s.deployments[id]; !ok {
			return fmt.Errorf("deployment %s: %w", id, domain.ErrNotFound)
		}
	}

	removed := make(map[string]*models.Deployment, len(ids))
	for _, id := range ids {
		removed[id] = s.deployments[id]
		delete(s.deployments, id)
	}

	if err := s.save(); err != nil {
		for id, dep := range removed {
			s.deployments[id] = dep
		}
		return err
	}
	return nil
}
