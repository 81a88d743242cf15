package store

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"slices"
	"sync"

	"github.com/staffos-dev/provider-scheduler/backend/internal/domain"
)

type credentialKey struct {
	ProviderID int64
	ClientID   int64
}

// FileStore keeps all records in memory and snapshots them to a JSON file
// after every successful mutation, so a mutation is durable before the call
// returns; when the snapshot write fails the in-memory change is rolled back,
// keeping memory and disk in agreement. Writes are serialized by a single
// mutex; reads may run concurrently and always observe fully-applied writes.
type FileStore struct {
	mu   sync.RWMutex
	path string // empty disables snapshots (ephemeral store)

	providers     map[int64]*domain.Provider
	providerOrder []int64
	clients       map[int64]*domain.Client
	clientOrder   []int64
	credentials   map[credentialKey]*domain.Credential
	credOrder     []credentialKey
	shifts        map[int64]*domain.Shift
	shiftOrder    []int64
}

type snapshot struct {
	Providers   []*domain.Provider   `json:"providers"`
	Clients     []*domain.Client     `json:"clients"`
	Credentials []*domain.Credential `json:"credentials"`
	Shifts      []*domain.Shift      `json:"shifts"`
}

// NewFileStore loads the snapshot at path if one exists and returns a store
// that persists every mutation back to it.
func NewFileStore(path string) (*FileStore, error) {
	s := NewMemoryStore()
	s.path = path

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return s, nil
		}
		return nil, fmt.Errorf("read snapshot: %w", err)
	}

	var snap snapshot
	if err := json.Unmarshal(data, &snap); err != nil {
		return nil, fmt.Errorf("decode snapshot: %w", err)
	}

	for _, p := range snap.Providers {
		s.providers[p.ID] = p
		s.providerOrder = append(s.providerOrder, p.ID)
	}
	for _, c := range snap.Clients {
		s.clients[c.ID] = c
		s.clientOrder = append(s.clientOrder, c.ID)
	}
	for _, c := range snap.Credentials {
		key := credentialKey{c.ProviderID, c.ClientID}
		s.credentials[key] = c
		s.credOrder = append(s.credOrder, key)
	}
	for _, sh := range snap.Shifts {
		s.shifts[sh.ID] = sh
		s.shiftOrder = append(s.shiftOrder, sh.ID)
	}

	return s, nil
}

// NewMemoryStore returns a store with no backing file, for tests and
// ephemeral use.
func NewMemoryStore() *FileStore {
	return &FileStore{
		providers:   make(map[int64]*domain.Provider),
		clients:     make(map[int64]*domain.Client),
		credentials: make(map[credentialKey]*domain.Credential),
		shifts:      make(map[int64]*domain.Shift),
	}
}

// persist writes the snapshot via a temp file and rename. Caller holds mu.
func (s *FileStore) persist() error {
	if s.path == "" {
		return nil
	}

	snap := snapshot{
		Providers:   make([]*domain.Provider, 0, len(s.providerOrder)),
		Clients:     make([]*domain.Client, 0, len(s.clientOrder)),
		Credentials: make([]*domain.Credential, 0, len(s.credOrder)),
		Shifts:      make([]*domain.Shift, 0, len(s.shiftOrder)),
	}
	for _, id := range s.providerOrder {
		snap.Providers = append(snap.Providers, s.providers[id])
	}
	for _, id := range s.clientOrder {
		snap.Clients = append(snap.Clients, s.clients[id])
	}
	for _, key := range s.credOrder {
		snap.Credentials = append(snap.Credentials, s.credentials[key])
	}
	for _, id := range s.shiftOrder {
		snap.Shifts = append(snap.Shifts, s.shifts[id])
	}

	data, err := json.MarshalIndent(snap, "", "  ")
	if err != nil {
		return err
	}

	if err := os.MkdirAll(filepath.Dir(s.path), 0o755); err != nil {
		return err
	}
	tmp := s.path + ".tmp"
	if err := os.WriteFile(tmp, data, 0o644); err != nil {
		return err
	}
	return os.Rename(tmp, s.path)
}

// commit persists the snapshot, undoing the in-memory change when the write
// fails so a failed mutation is never visible to later reads. Caller holds mu.
func (s *FileStore) commit(undo func()) error {
	if err := s.persist(); err != nil {
		undo()
		return err
	}
	return nil
}

func cloneProvider(p *domain.Provider) *domain.Provider {
	clone := *p
	clone.PreferredDays = slices.Clone(p.PreferredDays)
	return &clone
}

func cloneClient(c *domain.Client) *domain.Client {
	clone := *c
	return &clone
}

func cloneShift(sh *domain.Shift) *domain.Shift {
	clone := *sh
	return &clone
}

func (s *FileStore) PutProvider(_ context.Context, p *domain.Provider) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	prev, existed := s.providers[p.ID]
	if !existed {
		s.providerOrder = append(s.providerOrder, p.ID)
	}
	s.providers[p.ID] = cloneProvider(p)

	return s.commit(func() {
		if existed {
			s.providers[p.ID] = prev
			return
		}
		delete(s.providers, p.ID)
		s.providerOrder = s.providerOrder[:len(s.providerOrder)-1]
	})
}

func (s *FileStore) GetProvider(_ context.Context, id int64) (*domain.Provider, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	p, exists := s.providers[id]
	if !exists {
		return nil, domain.ErrNotFound
	}
	return cloneProvider(p), nil
}

func (s *FileStore) ListProviders(_ context.Context) ([]*domain.Provider, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	providers := make([]*domain.Provider, 0, len(s.providerOrder))
	for _, id := range s.providerOrder {
		providers = append(providers, cloneProvider(s.providers[id]))
	}
	return providers, nil
}

func (s *FileStore) DeleteProvider(_ context.Context, id int64) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, exists := s.providers[id]; !exists {
		return domain.ErrNotFound
	}
	for _, sh := range s.shifts {
		if sh.ProviderID == id {
			return &domain.ReferenceError{Entity: domain.EntityProviders, ID: id, Dependents: domain.EntityShifts}
		}
	}
	for key := range s.credentials {
		if key.ProviderID == id {
			return &domain.ReferenceError{Entity: domain.EntityProviders, ID: id, Dependents: domain.EntityCredentials}
		}
	}

	prev := s.providers[id]
	idx := slices.Index(s.providerOrder, id)
	delete(s.providers, id)
	s.providerOrder = slices.Delete(s.providerOrder, idx, idx+1)

	return s.commit(func() {
		s.providers[id] = prev
		s.providerOrder = slices.Insert(s.providerOrder, idx, id)
	})
}

func (s *FileStore) PutClient(_ context.Context, c *domain.Client) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	prev, existed := s.clients[c.ID]
	if !existed {
		s.clientOrder = append(s.clientOrder, c.ID)
	}
	s.clients[c.ID] = cloneClient(c)

	return s.commit(func() {
		if existed {
			s.clients[c.ID] = prev
			return
		}
		delete(s.clients, c.ID)
		s.clientOrder = s.clientOrder[:len(s.clientOrder)-1]
	})
}

func (s *FileStore) GetClient(_ context.Context, id int64) (*domain.Client, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	c, exists := s.clients[id]
	if !exists {
		return nil, domain.ErrNotFound
	}
	return cloneClient(c), nil
}

func (s *FileStore) ListClients(_ context.Context) ([]*domain.Client, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	clients := make([]*domain.Client, 0, len(s.clientOrder))
	for _, id := range s.clientOrder {
		clients = append(clients, cloneClient(s.clients[id]))
	}
	return clients, nil
}

func (s *FileStore) DeleteClient(_ context.Context, id int64) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, exists := s.clients[id]; !exists {
		return domain.ErrNotFound
	}
	for _, sh := range s.shifts {
		if sh.ClientID == id {
			return &domain.ReferenceError{Entity: domain.EntityClients, ID: id, Dependents: domain.EntityShifts}
		}
	}
	for key := range s.credentials {
		if key.ClientID == id {
			return &domain.ReferenceError{Entity: domain.EntityClients, ID: id, Dependents: domain.EntityCredentials}
		}
	}

	prev := s.clients[id]
	idx := slices.Index(s.clientOrder, id)
	delete(s.clients, id)
	s.clientOrder = slices.Delete(s.clientOrder, idx, idx+1)

	return s.commit(func() {
		s.clients[id] = prev
		s.clientOrder = slices.Insert(s.clientOrder, idx, id)
	})
}

func (s *FileStore) PutCredential(_ context.Context, c *domain.Credential) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, exists := s.providers[c.ProviderID]; !exists {
		return &domain.ReferenceError{Entity: domain.EntityProviders, ID: c.ProviderID}
	}
	if _, exists := s.clients[c.ClientID]; !exists {
		return &domain.ReferenceError{Entity: domain.EntityClients, ID: c.ClientID}
	}

	key := credentialKey{c.ProviderID, c.ClientID}
	prev, existed := s.credentials[key]
	if !existed {
		s.credOrder = append(s.credOrder, key)
	}
	s.credentials[key] = &domain.Credential{ProviderID: c.ProviderID, ClientID: c.ClientID}

	return s.commit(func() {
		if existed {
			s.credentials[key] = prev
			return
		}
		delete(s.credentials, key)
		s.credOrder = s.credOrder[:len(s.credOrder)-1]
	})
}

func (s *FileStore) HasCredential(_ context.Context, providerID, clientID int64) (bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	_, exists := s.credentials[credentialKey{providerID, clientID}]
	return exists, nil
}

func (s *FileStore) ListCredentials(_ context.Context) ([]*domain.Credential, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	credentials := make([]*domain.Credential, 0, len(s.credOrder))
	for _, key := range s.credOrder {
		c := *s.credentials[key]
		credentials = append(credentials, &c)
	}
	return credentials, nil
}

func (s *FileStore) DeleteCredential(_ context.Context, providerID, clientID int64) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	key := credentialKey{providerID, clientID}
	if _, exists := s.credentials[key]; !exists {
		return domain.ErrNotFound
	}

	prev := s.credentials[key]
	idx := slices.Index(s.credOrder, key)
	delete(s.credentials, key)
	s.credOrder = slices.Delete(s.credOrder, idx, idx+1)

	return s.commit(func() {
		s.credentials[key] = prev
		s.credOrder = slices.Insert(s.credOrder, idx, key)
	})
}

func (s *FileStore) PutShift(_ context.Context, sh *domain.Shift) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, exists := s.providers[sh.ProviderID]; !exists {
		return &domain.ReferenceError{Entity: domain.EntityProviders, ID: sh.ProviderID}
	}
	if _, exists := s.clients[sh.ClientID]; !exists {
		return &domain.ReferenceError{Entity: domain.EntityClients, ID: sh.ClientID}
	}

	prev, existed := s.shifts[sh.ID]
	if !existed {
		s.shiftOrder = append(s.shiftOrder, sh.ID)
	}
	s.shifts[sh.ID] = cloneShift(sh)

	return s.commit(func() {
		if existed {
			s.shifts[sh.ID] = prev
			return
		}
		delete(s.shifts, sh.ID)
		s.shiftOrder = s.shiftOrder[:len(s.shiftOrder)-1]
	})
}

func (s *FileStore) GetShift(_ context.Context, id int64) (*domain.Shift, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	sh, exists := s.shifts[id]
	if !exists {
		return nil, domain.ErrNotFound
	}
	return cloneShift(sh), nil
}

func (s *FileStore) ListShifts(_ context.Context, filter ShiftFilter) ([]*domain.Shift, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	shifts := make([]*domain.Shift, 0, len(s.shiftOrder))
	for _, id := range s.shiftOrder {
		sh := s.shifts[id]
		if filter.ProviderID != nil && sh.ProviderID != *filter.ProviderID {
			continue
		}
		if filter.ClientID != nil && sh.ClientID != *filter.ClientID {
			continue
		}
		shifts = append(shifts, cloneShift(sh))
	}
	return shifts, nil
}

func (s *FileStore) DeleteShift(_ context.Context, id int64) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, exists := s.shifts[id]; !exists {
		return domain.ErrNotFound
	}

	prev := s.shifts[id]
	idx := slices.Index(s.shiftOrder, id)
	delete(s.shifts, id)
	s.shiftOrder = slices.Delete(s.shiftOrder, idx, idx+1)

	return s.commit(func() {
		s.shifts[id] = prev
		s.shiftOrder = slices.Insert(s.shiftOrder, idx, id)
	})
}
