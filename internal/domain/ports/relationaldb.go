// Package ports defines interfaces for external service communication.
package ports

import (
	"context"
	"time"

	"github.com/ersonp/family-core/internal/domain/entities"
)

// FamilySummary describes a stored family.
type FamilySummary struct {
	ID         string
	Name       string
	CurrentDay int
	Persons    int
	Events     int
	UpdatedAt  time.Time
}

// FamilyStore defines the persistence operations for families.
// A family is stored as its save document: the store holds plain records
// and never resolves references between them.
type FamilyStore interface {
	// EnsureSchema creates the database schema if it doesn't exist.
	EnsureSchema(ctx context.Context) error

	// Close closes the database connection.
	Close() error

	// SaveDocument replaces the stored document of the named family,
	// creating the family if needed. It returns the family id.
	SaveDocument(ctx context.Context, family string, doc *entities.Document) (string, error)

	// LoadDocument returns the stored document of the named family.
	// Returns nil if the family does not exist.
	LoadDocument(ctx context.Context, family string) (*entities.Document, error)

	// ListFamilies lists the stored families by name.
	ListFamilies(ctx context.Context) ([]FamilySummary, error)

	// DeleteFamily deletes a family with all its persons and events.
	DeleteFamily(ctx context.Context, family string) error

	// LogAction logs an action to the audit log.
	LogAction(ctx context.Context, action string, familyID string, details map[string]any) error

	// FindAuditLog finds audit log entries for a family, newest first.
	FindAuditLog(ctx context.Context, familyID string, limit int) ([]entities.AuditEntry, error)
}
