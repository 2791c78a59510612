package character

import (
	"encoding/json"
	"time"
)

// Record is an imported export as it is kept in the vault. Raw holds the
// document exactly as it was imported so it can be normalized again later.
type Record struct {
	ID         string
	Name       string
	Source     string
	ImportedAt time.Time
	Raw        json.RawMessage
}

// Snapshot normalizes the stored document. The record ID fills in for exports
// that carried no ID of their own.
func (r *Record) Snapshot() (*Snapshot, error) {
	s, err := Parse(r.Raw)
	if err != nil {
		return nil, err
	}
	if s.ID == "" {
		s.ID = r.ID
	}
	return s, nil
}
