package directory

import (
	"context"
	"sync"

	"github.com/google/uuid"

	"github.com/hsedigital/platform/pkg/tenant"
)

// MemoryStorage keeps organizations in memory. Intended for tests and
// local development.
type MemoryStorage struct {
	mu   sync.RWMutex
	orgs map[uuid.UUID]tenant.Tenant
	subs map[string]uuid.UUID
}

func NewMemoryStorage() *MemoryStorage {
	return &MemoryStorage{
		orgs: make(map[uuid.UUID]tenant.Tenant),
		subs: make(map[string]uuid.UUID),
	}
}

func (s *MemoryStorage) Insert(_ context.Context, t *tenant.Tenant) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, taken := s.subs[t.Subdomain]; taken {
		return ErrSubdomainTaken
	}
	s.orgs[t.ID] = *t
	s.subs[t.Subdomain] = t.ID
	return nil
}

func (s *MemoryStorage) GetByID(_ context.Context, id uuid.UUID) (*tenant.Tenant, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	t, ok := s.orgs[id]
	if !ok {
		return nil, tenant.ErrTenantNotFound
	}
	return &t, nil
}

func (s *MemoryStorage) GetBySubdomain(_ context.Context, subdomain string) (*tenant.Tenant, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	id, ok := s.subs[subdomain]
	if !ok {
		return nil, tenant.ErrTenantNotFound
	}
	t := s.orgs[id]
	return &t, nil
}

func (s *MemoryStorage) Update(_ context.Context, t *tenant.Tenant) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	prev, ok := s.orgs[t.ID]
	if !ok {
		return tenant.ErrTenantNotFound
	}
	if t.Subdomain != prev.Subdomain {
		if owner, taken := s.subs[t.Subdomain]; taken && owner != t.ID {
			return ErrSubdomainTaken
		}
		delete(s.subs, prev.Subdomain)
		s.subs[t.Subdomain] = t.ID
	}
	s.orgs[t.ID] = *t
	return nil
}
