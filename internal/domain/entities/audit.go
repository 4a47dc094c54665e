package entities

import "time"

// Audit actions.
const (
	ActionSave   = "save"
	ActionImport = "import"
	ActionDelete = "delete"
)

// AuditEntry represents a logged action on a family.
type AuditEntry struct {
	ID        int64          `json:"id"`
	Action    string         `json:"action"`
	FamilyID  string         `json:"family_id,omitempty"`
	Details   map[string]any `json:"details,omitempty"`
	CreatedAt time.Time      `json:"created_at"`
}
