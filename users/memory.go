package users

import (
	"context"
	"sort"
	"sync"

	"github.com/google/uuid"
)

// MemoryRepository is an in-memory Repository implementation for scaffolding
// and tests.
type MemoryRepository struct {
	mu      sync.RWMutex
	records map[uuid.UUID]*User
}

// NewMemoryRepository creates an empty in-memory repository.
func NewMemoryRepository() *MemoryRepository {
	return &MemoryRepository{records: make(map[uuid.UUID]*User)}
}

var _ Repository = (*MemoryRepository)(nil)

func (m *MemoryRepository) Create(_ context.Context, record *User) (*User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	for _, existing := range m.records {
		if existing.Email == record.Email {
			return nil, &EmailExistsError{Email: record.Email, ExistingID: existing.ID}
		}
	}
	m.records[record.ID] = cloneUser(record)
	return cloneUser(record), nil
}

func (m *MemoryRepository) Save(_ context.Context, record *User) (*User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if _, ok := m.records[record.ID]; !ok {
		return nil, &NotFoundError{Key: record.ID.String()}
	}
	for id, existing := range m.records {
		if id != record.ID && existing.Email == record.Email {
			return nil, &EmailExistsError{Email: record.Email, ExistingID: existing.ID}
		}
	}
	m.records[record.ID] = cloneUser(record)
	return cloneUser(record), nil
}

func (m *MemoryRepository) Delete(_ context.Context, id uuid.UUID) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if _, ok := m.records[id]; !ok {
		return &NotFoundError{Key: id.String()}
	}
	delete(m.records, id)
	return nil
}

func (m *MemoryRepository) Get(_ context.Context, id uuid.UUID) (*User, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	record, ok := m.records[id]
	if !ok {
		return nil, &NotFoundError{Key: id.String()}
	}
	return cloneUser(record), nil
}

func (m *MemoryRepository) GetByEmail(_ context.Context, email string) (*User, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	for _, record := range m.records {
		if record.Email == email {
			return cloneUser(record), nil
		}
	}
	return nil, &NotFoundError{Key: email}
}

func (m *MemoryRepository) ListPage(_ context.Context, opts ListOptions) ([]*User, int, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	all := make([]*User, 0, len(m.records))
	for _, record := range m.records {
		all = append(all, record)
	}
	sort.Slice(all, func(i, j int) bool {
		if all[i].CreatedAt.Equal(all[j].CreatedAt) {
			return all[i].ID.String() < all[j].ID.String()
		}
		return all[i].CreatedAt.Before(all[j].CreatedAt)
	})

	total := len(all)
	offset := (opts.Page - 1) * opts.PerPage
	if offset >= total {
		return []*User{}, total, nil
	}
	end := offset + opts.PerPage
	if end > total {
		end = total
	}

	out := make([]*User, 0, end-offset)
	for _, record := range all[offset:end] {
		out = append(out, cloneUser(record))
	}
	return out, total, nil
}

func cloneUser(src *User) *User {
	if src == nil {
		return nil
	}
	copied := *src
	return &copied
}
