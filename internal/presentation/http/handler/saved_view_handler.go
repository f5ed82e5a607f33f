package handler

import (
	"github.com/gin-gonic/gin"
	"github.com/invoicely/invoicely-api/internal/application/service"
	"github.com/invoicely/invoicely-api/internal/domain/entity"
	"github.com/invoicely/invoicely-api/internal/presentation/http/dto/response"
)

// SavedViewHandler handles grid view persistence HTTP requests
type SavedViewHandler struct {
	viewService *service.SavedViewService
}

// NewSavedViewHandler creates a new saved view handler
func NewSavedViewHandler(viewService *service.SavedViewService) *SavedViewHandler {
	return &SavedViewHandler{viewService: viewService}
}

// Get handles fetching the caller's stored state for a grid
func (h *SavedViewHandler) Get(c *gin.Context) {
	userID := GetUserID(c)
	if userID == nil {
		response.Unauthorized(c, "User not authenticated")
		return
	}

	gridID := c.Param("grid_id")

	view, err := h.viewService.GetView(c.Request.Context(), *userID, gridID)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, "Saved view retrieved successfully", view)
}

// Save handles storing the caller's state for a grid. Last write wins.
func (h *SavedViewHandler) Save(c *gin.Context) {
	userID := GetUserID(c)
	if userID == nil {
		response.Unauthorized(c, "User not authenticated")
		return
	}

	gridID := c.Param("grid_id")

	var req struct {
		State entity.ViewState `json:"state" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "Invalid request body")
		return
	}

	view, err := h.viewService.SaveView(c.Request.Context(), *userID, gridID, req.State)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, "Saved view stored successfully", view)
}

// Delete handles removing the caller's stored state for a grid
func (h *SavedViewHandler) Delete(c *gin.Context) {
	userID := GetUserID(c)
	if userID == nil {
		response.Unauthorized(c, "User not authenticated")
		return
	}

	gridID := c.Param("grid_id")

	if err := h.viewService.DeleteView(c.Request.Context(), *userID, gridID); err != nil {
		response.Error(c, err)
		return
	}

	response.NoContent(c)
}
