package middleware

import (
	"errors"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/invoicely/invoicely-api/internal/domain/repository"
	infraRepo "github.com/invoicely/invoicely-api/internal/infrastructure/repository"
	"github.com/invoicely/invoicely-api/internal/presentation/http/dto/response"
)

// OrganizationHeader selects the active organization for a request. Absent
// the header, the token's default organization applies.
const OrganizationHeader = "X-Organization-ID"

// OrganizationMiddleware resolves the caller's active organization and binds
// it to the request context. Requests that resolve to no organization, or to
// one the caller is not a member of, are rejected; there is no fallback
// tenant.
func OrganizationMiddleware(orgRepo repository.OrganizationRepository) gin.HandlerFunc {
	return func(c *gin.Context) {
		userIDVal, exists := c.Get("user_id")
		if !exists {
			response.Unauthorized(c, "Authentication required")
			c.Abort()
			return
		}
		userID, ok := userIDVal.(uuid.UUID)
		if !ok || userID == uuid.Nil {
			response.Unauthorized(c, "Authentication required")
			c.Abort()
			return
		}

		orgID, err := resolveOrganizationID(c)
		if err != nil {
			response.BadRequest(c, err.Error())
			c.Abort()
			return
		}
		if orgID == uuid.Nil {
			response.BadRequest(c, "Organization context required")
			c.Abort()
			return
		}

		isMember, err := orgRepo.IsMember(c.Request.Context(), orgID, userID)
		if err != nil {
			response.ErrorWithCode(c, 500, "Internal server error")
			c.Abort()
			return
		}
		// Non-membership reads as absence, same as a missing organization
		if !isMember {
			response.NotFound(c, "Organization not found")
			c.Abort()
			return
		}

		c.Set("organization_id", orgID)

		ctx := infraRepo.WithOrganization(c.Request.Context(), orgID)
		c.Request = c.Request.WithContext(ctx)

		c.Next()
	}
}

func resolveOrganizationID(c *gin.Context) (uuid.UUID, error) {
	if header := c.GetHeader(OrganizationHeader); header != "" {
		orgID, err := uuid.Parse(header)
		if err != nil {
			return uuid.Nil, errors.New("Invalid X-Organization-ID header")
		}
		return orgID, nil
	}

	if defaultVal, exists := c.Get("default_organization_id"); exists {
		if orgID, ok := defaultVal.(uuid.UUID); ok {
			return orgID, nil
		}
	}

	return uuid.Nil, nil
}

// GetOrganizationID retrieves the active organization ID from gin context
func GetOrganizationID(c *gin.Context) uuid.UUID {
	orgIDVal, exists := c.Get("organization_id")
	if !exists {
		return uuid.Nil
	}
	orgID, ok := orgIDVal.(uuid.UUID)
	if !ok {
		return uuid.Nil
	}
	return orgID
}
