package characters

//go:generate mockgen -destination=mock/mock.go -package=mockcharacters -source=interface.go

import (
	"context"

	"github.com/Anomanderiz/wdh-character-vault/internal/domain/character"
)

// Repository defines the interface for snapshot persistence
type Repository interface {
	// Create stores a new record. It fails with AlreadyExists when the ID is taken.
	Create(ctx context.Context, record *character.Record) error

	// Get retrieves a record by ID
	Get(ctx context.Context, id string) (*character.Record, error)

	// List returns every stored record ordered by name, then ID
	List(ctx context.Context) ([]*character.Record, error)

	// Delete removes a record
	Delete(ctx context.Context, id string) error
}
