package handler

import (
	"github.com/gin-gonic/gin"
	"github.com/invoicely/invoicely-api/internal/application/service"
	"github.com/invoicely/invoicely-api/internal/presentation/http/dto/response"
)

// CommandHandler serves the command palette registry
type CommandHandler struct {
	commandService *service.CommandService
}

// NewCommandHandler creates a new command handler
func NewCommandHandler(commandService *service.CommandService) *CommandHandler {
	return &CommandHandler{commandService: commandService}
}

// Search handles fuzzy-searching the command registry. An empty query
// returns every command.
func (h *CommandHandler) Search(c *gin.Context) {
	commands := h.commandService.Search(c.Query("q"))
	response.OK(c, "Commands retrieved successfully", commands)
}
