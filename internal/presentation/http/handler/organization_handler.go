package handler

import (
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/invoicely/invoicely-api/internal/application/service"
	"github.com/invoicely/invoicely-api/internal/presentation/http/dto/response"
)

// OrganizationHandler handles organization HTTP requests
type OrganizationHandler struct {
	orgService *service.OrganizationService
}

// NewOrganizationHandler creates a new organization handler
func NewOrganizationHandler(orgService *service.OrganizationService) *OrganizationHandler {
	return &OrganizationHandler{orgService: orgService}
}

// Create handles creating an organization
func (h *OrganizationHandler) Create(c *gin.Context) {
	userID := GetUserID(c)
	if userID == nil {
		response.Unauthorized(c, "User not authenticated")
		return
	}

	var req struct {
		Name string `json:"name" binding:"required,max=255"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "Invalid request body")
		return
	}

	org, err := h.orgService.CreateOrganization(c.Request.Context(), *userID, &service.CreateOrganizationInput{
		Name: req.Name,
	})
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Created(c, "Organization created successfully", org)
}

// List handles listing the caller's organizations
func (h *OrganizationHandler) List(c *gin.Context) {
	userID := GetUserID(c)
	if userID == nil {
		response.Unauthorized(c, "User not authenticated")
		return
	}

	orgs, err := h.orgService.ListOrganizations(c.Request.Context(), *userID)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, "Organizations retrieved successfully", orgs)
}

// Current handles fetching the active organization
func (h *OrganizationHandler) Current(c *gin.Context) {
	org, err := h.orgService.GetCurrentOrganization(c.Request.Context())
	if err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, "Organization retrieved successfully", org)
}

// Members handles listing the active organization's members
func (h *OrganizationHandler) Members(c *gin.Context) {
	members, err := h.orgService.ListMembers(c.Request.Context())
	if err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, "Members retrieved successfully", members)
}

// SetDefault handles setting the caller's default organization
func (h *OrganizationHandler) SetDefault(c *gin.Context) {
	userID := GetUserID(c)
	if userID == nil {
		response.Unauthorized(c, "User not authenticated")
		return
	}

	orgID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.BadRequest(c, "Invalid organization ID")
		return
	}

	if err := h.orgService.SetDefaultOrganization(c.Request.Context(), *userID, orgID); err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, "Default organization updated successfully", nil)
}
