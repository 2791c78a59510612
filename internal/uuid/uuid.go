// Package uuid generates snapshot identifiers behind an interface so tests can
// pin them
package uuid

import (
	"github.com/google/uuid"
)

// snapshotNamespace scopes content derived IDs to this application
var snapshotNamespace = uuid.MustParse("5b0f6f55-0f5e-4d0a-9a57-8e0f1c9b7a31")

//go:generate mockgen -destination=mock/mock.go -package=mockuuid -source=uuid.go

// Generator hands out IDs for snapshots that were exported without one
type Generator interface {
	// New returns a random ID
	New() string
	// FromContent returns the same ID for the same bytes
	FromContent(content []byte) string
}

// GoogleUUIDGenerator implements Generator with github.com/google/uuid
type GoogleUUIDGenerator struct{}

// New generates a random version 4 UUID
func (g *GoogleUUIDGenerator) New() string {
	return uuid.New().String()
}

// FromContent generates a version 5 UUID from the content, so re-importing the
// same export lands on the same key
func (g *GoogleUUIDGenerator) FromContent(content []byte) string {
	return uuid.NewSHA1(snapshotNamespace, content).String()
}

// NewGoogleUUIDGenerator creates a new GoogleUUIDGenerator
func NewGoogleUUIDGenerator() *GoogleUUIDGenerator {
	return &GoogleUUIDGenerator{}
}
