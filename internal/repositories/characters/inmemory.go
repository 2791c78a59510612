package characters

import (
	"context"
	"sync"

	"github.com/Anomanderiz/wdh-character-vault/internal/domain/character"
	dnderr "github.com/Anomanderiz/wdh-character-vault/internal/errors"
)

// InMemoryRepository is an in-memory implementation of the snapshot repository.
// The CLI falls back to it when no Redis URL is configured.
type InMemoryRepository struct {
	mu      sync.RWMutex
	records map[string]*character.Record
}

// NewInMemoryRepository creates a new in-memory repository
func NewInMemoryRepository() Repository {
	return &InMemoryRepository{
		records: make(map[string]*character.Record),
	}
}

// Create stores a new record
func (r *InMemoryRepository) Create(ctx context.Context, record *character.Record) error {
	if record == nil {
		return dnderr.InvalidArgument("record cannot be nil")
	}
	if record.ID == "" {
		return dnderr.InvalidArgument("record ID is required")
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.records[record.ID]; exists {
		return dnderr.AlreadyExistsf("snapshot with ID '%s' already exists", record.ID).
			WithMeta("snapshot_id", record.ID)
	}

	r.records[record.ID] = copyRecord(record)
	return nil
}

// Get retrieves a record by ID
func (r *InMemoryRepository) Get(ctx context.Context, id string) (*character.Record, error) {
	if id == "" {
		return nil, dnderr.InvalidArgument("snapshot ID is required")
	}

	r.mu.RLock()
	defer r.mu.RUnlock()

	record, exists := r.records[id]
	if !exists {
		return nil, dnderr.NotFoundf("snapshot with ID '%s' not found", id).
			WithMeta("snapshot_id", id)
	}

	return copyRecord(record), nil
}

// List returns every stored record ordered by name, then ID
func (r *InMemoryRepository) List(ctx context.Context) ([]*character.Record, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	records := make([]*character.Record, 0, len(r.records))
	for _, record := range r.records {
		records = append(records, copyRecord(record))
	}

	return sortRecords(records), nil
}

// Delete removes a record
func (r *InMemoryRepository) Delete(ctx context.Context, id string) error {
	if id == "" {
		return dnderr.InvalidArgument("snapshot ID is required")
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.records[id]; !exists {
		return dnderr.NotFoundf("snapshot with ID '%s' not found", id).
			WithMeta("snapshot_id", id)
	}

	delete(r.records, id)
	return nil
}

// copyRecord keeps callers from mutating stored bytes
func copyRecord(record *character.Record) *character.Record {
	c := *record
	c.Raw = append([]byte(nil), record.Raw...)
	return &c
}
