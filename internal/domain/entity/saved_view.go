package entity

import (
	"database/sql/driver"
	"encoding/json"
	"errors"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// SavedView stores a user's grid presentation state (search text, column
// visibility, page size, sort/filter model) for a named grid. One row per
// (organization, user, grid).
type SavedView struct {
	ID             uuid.UUID `gorm:"type:uuid;primary_key" json:"id"`
	OrganizationID uuid.UUID `gorm:"type:uuid;not null;uniqueIndex:idx_org_user_grid" json:"organization_id"`
	UserID         uuid.UUID `gorm:"type:uuid;not null;uniqueIndex:idx_org_user_grid" json:"user_id"`
	GridID         string    `gorm:"size:100;not null;uniqueIndex:idx_org_user_grid" json:"grid_id"`
	SchemaVersion  int       `gorm:"not null" json:"schema_version"`
	State          ViewState `gorm:"type:jsonb;not null" json:"state"`
	CreatedAt      time.Time `json:"created_at"`
	UpdatedAt      time.Time `json:"updated_at"`
}

// BeforeCreate generates a UUID before creating a new saved view
func (v *SavedView) BeforeCreate(tx *gorm.DB) error {
	if v.ID == uuid.Nil {
		v.ID = uuid.New()
	}
	return nil
}

// TableName returns the table name for the SavedView model
func (SavedView) TableName() string {
	return "saved_views"
}

// ViewState is an opaque grid state blob stored as jsonb. The server never
// interprets individual keys; the client owns the schema.
type ViewState map[string]interface{}

// Scan implements the sql.Scanner interface for ViewState
func (s *ViewState) Scan(value interface{}) error {
	if value == nil {
		*s = ViewState{}
		return nil
	}

	var bytes []byte
	switch v := value.(type) {
	case []byte:
		bytes = v
	case string:
		bytes = []byte(v)
	default:
		return errors.New("failed to scan ViewState: unsupported type")
	}

	return json.Unmarshal(bytes, s)
}

// Value implements the driver.Valuer interface for ViewState
func (s ViewState) Value() (driver.Value, error) {
	return json.Marshal(s)
}
