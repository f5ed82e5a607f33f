package repository

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type ctxKey string

const (
	// OrganizationIDKey is the context key for the caller's active organization
	OrganizationIDKey ctxKey = "organization_id"
)

// OrganizationScope returns a GORM scope that filters by the organization
// carried in the context. It must be applied to every query against
// organization-scoped entities. If the context has no organization, the
// scope matches nothing so cross-tenant data can never leak by omission.
func OrganizationScope(ctx context.Context) func(db *gorm.DB) *gorm.DB {
	return func(db *gorm.DB) *gorm.DB {
		orgID, ok := ctx.Value(OrganizationIDKey).(uuid.UUID)
		if !ok || orgID == uuid.Nil {
			return db.Where("1 = 0")
		}
		return db.Where("organization_id = ?", orgID)
	}
}

// WithOrganization adds the active organization ID to the context
func WithOrganization(ctx context.Context, orgID uuid.UUID) context.Context {
	return context.WithValue(ctx, OrganizationIDKey, orgID)
}

// GetOrganizationID extracts the active organization ID from the context
func GetOrganizationID(ctx context.Context) (uuid.UUID, bool) {
	orgID, ok := ctx.Value(OrganizationIDKey).(uuid.UUID)
	if !ok || orgID == uuid.Nil {
		return uuid.Nil, false
	}
	return orgID, true
}
