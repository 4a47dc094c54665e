// Package mocks provides mock implementations for testing.
package mocks

import (
	"context"
	"sort"
	"time"

	"github.com/ersonp/family-core/internal/domain/entities"
	"github.com/ersonp/family-core/internal/domain/ports"
)

// FamilyStore is a mock implementation of ports.FamilyStore.
type FamilyStore struct {
	Docs    map[string]*entities.Document
	IDs     map[string]string
	Entries []entities.AuditEntry
	Err     error
}

// NewFamilyStore creates a new mock FamilyStore.
func NewFamilyStore() *FamilyStore {
	return &FamilyStore{
		Docs: make(map[string]*entities.Document),
		IDs:  make(map[string]string),
	}
}

// EnsureSchema creates the database schema if it doesn't exist.
func (m *FamilyStore) EnsureSchema(_ context.Context) error {
	return m.Err
}

// Close closes the database connection.
func (m *FamilyStore) Close() error {
	return nil
}

// SaveDocument stores doc under family.
func (m *FamilyStore) SaveDocument(_ context.Context, family string, doc *entities.Document) (string, error) {
	if m.Err != nil {
		return "", m.Err
	}
	m.Docs[family] = doc
	id, ok := m.IDs[family]
	if !ok {
		id = "family-" + family
		m.IDs[family] = id
	}
	return id, nil
}

// LoadDocument returns the stored document, or nil.
func (m *FamilyStore) LoadDocument(_ context.Context, family string) (*entities.Document, error) {
	if m.Err != nil {
		return nil, m.Err
	}
	return m.Docs[family], nil
}

// ListFamilies lists the stored families by name.
func (m *FamilyStore) ListFamilies(_ context.Context) ([]ports.FamilySummary, error) {
	if m.Err != nil {
		return nil, m.Err
	}
	result := make([]ports.FamilySummary, 0, len(m.Docs))
	for name, doc := range m.Docs {
		result = append(result, ports.FamilySummary{
			ID:         m.IDs[name],
			Name:       name,
			CurrentDay: doc.CurrentDay,
			Persons:    len(doc.Sims),
			Events:     len(doc.Events),
		})
	}
	sort.Slice(result, func(i, j int) bool {
		return result[i].Name < result[j].Name
	})
	return result, nil
}

// DeleteFamily deletes a stored family.
func (m *FamilyStore) DeleteFamily(_ context.Context, family string) error {
	if m.Err != nil {
		return m.Err
	}
	delete(m.Docs, family)
	delete(m.IDs, family)
	return nil
}

// LogAction records an audit entry.
func (m *FamilyStore) LogAction(_ context.Context, action, familyID string, details map[string]any) error {
	if m.Err != nil {
		return m.Err
	}
	m.Entries = append(m.Entries, entities.AuditEntry{
		ID:        int64(len(m.Entries) + 1),
		Action:    action,
		FamilyID:  familyID,
		Details:   details,
		CreatedAt: time.Now(),
	})
	return nil
}

// FindAuditLog returns the entries of familyID, newest first.
func (m *FamilyStore) FindAuditLog(_ context.Context, familyID string, limit int) ([]entities.AuditEntry, error) {
	if m.Err != nil {
		return nil, m.Err
	}
	var result []entities.AuditEntry
	for i := len(m.Entries) - 1; i >= 0; i-- {
		if m.Entries[i].FamilyID == familyID {
			result = append(result, m.Entries[i])
		}
		if limit > 0 && len(result) == limit {
			break
		}
	}
	return result, nil
}
