package domain

import "github.com/google/uuid"

// Feature is an accessibility tag attachable to many locations.
// Features are immutable reference data seeded by migration and grouped
// by category (e.g. "Physical Accessibility", "Food & Diet").
type Feature struct {
	ID       uuid.UUID `db:"id" json:"id"`
	Label    string    `db:"label" json:"label"`
	Category string    `db:"category" json:"category"`
}
