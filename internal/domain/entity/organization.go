package entity

import (
	"time"

	"github.com/google/uuid"
	"github.com/invoicely/invoicely-api/internal/domain/enum"
	"gorm.io/gorm"
)

// Organization represents a tenant in the multitenant system. Every invoice
// belongs to exactly one organization.
type Organization struct {
	ID        uuid.UUID      `gorm:"type:uuid;primary_key" json:"id"`
	Name      string         `gorm:"size:255;not null" json:"name"`
	Slug      string         `gorm:"size:255;unique;not null" json:"slug"`
	OwnerID   uuid.UUID      `gorm:"type:uuid;not null;index" json:"owner_id"`
	Plan      enum.Plan      `gorm:"size:20;not null;default:'free'" json:"plan"`
	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"-"`

	// Relationships
	Owner   User                     `gorm:"foreignKey:OwnerID" json:"-"`
	Members []OrganizationMembership `gorm:"foreignKey:OrganizationID" json:"-"`
}

// BeforeCreate generates a UUID before creating a new organization
func (o *Organization) BeforeCreate(tx *gorm.DB) error {
	if o.ID == uuid.Nil {
		o.ID = uuid.New()
	}
	return nil
}

// TableName returns the table name for the Organization model
func (Organization) TableName() string {
	return "organizations"
}

// OrganizationMembership represents a user's membership in an organization
type OrganizationMembership struct {
	OrganizationID uuid.UUID `gorm:"type:uuid;primaryKey" json:"organization_id"`
	UserID         uuid.UUID `gorm:"type:uuid;primaryKey" json:"user_id"`
	Role           string    `gorm:"size:50;default:'member'" json:"role"` // owner, admin, member
	CreatedAt      time.Time `json:"created_at"`

	// Relationships
	Organization Organization `gorm:"foreignKey:OrganizationID" json:"-"`
	User         User         `gorm:"foreignKey:UserID" json:"user"`
}

// TableName returns the table name for the OrganizationMembership model
func (OrganizationMembership) TableName() string {
	return "organization_memberships"
}
