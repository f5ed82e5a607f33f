package handler

import (
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/invoicely/invoicely-api/internal/application/service"
	"github.com/invoicely/invoicely-api/internal/application/validation"
	"github.com/invoicely/invoicely-api/internal/domain/enum"
	"github.com/invoicely/invoicely-api/internal/domain/repository"
	"github.com/invoicely/invoicely-api/internal/presentation/http/dto/response"
	"github.com/invoicely/invoicely-api/pkg/pagination"
)

// InvoiceHandler handles invoice-related HTTP requests
type InvoiceHandler struct {
	invoiceService *service.InvoiceService
	usageService   *service.UsageService
}

// NewInvoiceHandler creates a new invoice handler
func NewInvoiceHandler(invoiceService *service.InvoiceService, usageService *service.UsageService) *InvoiceHandler {
	return &InvoiceHandler{invoiceService: invoiceService, usageService: usageService}
}

// List handles listing the organization's invoices
func (h *InvoiceHandler) List(c *gin.Context) {
	params := &repository.InvoiceFilterParams{
		Pagination: pagination.DefaultPagination(),
		Search:     c.Query("search"),
		SortBy:     c.Query("sort_by"),
		SortOrder:  c.Query("sort_order"),
	}
	if page, err := strconv.Atoi(c.Query("page")); err == nil {
		params.Pagination.Page = page
	}
	if perPage, err := strconv.Atoi(c.Query("per_page")); err == nil {
		params.Pagination.PerPage = perPage
	}
	params.Pagination.Validate()

	if statusStr := c.Query("status"); statusStr != "" {
		status := enum.InvoiceStatus(statusStr)
		if !status.IsValid() {
			response.BadRequest(c, "Invalid status filter")
			return
		}
		params.Status = &status
	}

	result, err := h.invoiceService.ListInvoices(c.Request.Context(), params)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.SuccessWithPagination(c, 200, "Invoices retrieved successfully", result)
}

// Get handles getting a single invoice
func (h *InvoiceHandler) Get(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.BadRequest(c, "Invalid invoice ID")
		return
	}

	invoice, err := h.invoiceService.GetInvoice(c.Request.Context(), id)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, "Invoice retrieved successfully", invoice)
}

// Create handles creating an invoice
func (h *InvoiceHandler) Create(c *gin.Context) {
	userID := GetUserID(c)
	if userID == nil {
		response.Unauthorized(c, "User not authenticated")
		return
	}

	var req validation.CreateInvoiceRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "Invalid request body")
		return
	}

	invoice, err := h.invoiceService.CreateInvoice(c.Request.Context(), *userID, &req)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Created(c, "Invoice created successfully", invoice)
}

// Update handles partially updating an invoice
func (h *InvoiceHandler) Update(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.BadRequest(c, "Invalid invoice ID")
		return
	}

	var req validation.UpdateInvoiceRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "Invalid request body")
		return
	}

	invoice, err := h.invoiceService.UpdateInvoice(c.Request.Context(), id, &req)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, "Invoice updated successfully", invoice)
}

// Delete handles deleting an invoice
func (h *InvoiceHandler) Delete(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.BadRequest(c, "Invalid invoice ID")
		return
	}

	if err := h.invoiceService.DeleteInvoice(c.Request.Context(), id); err != nil {
		response.Error(c, err)
		return
	}

	response.NoContent(c)
}

// Duplicate handles copying an invoice into a new pending one
func (h *InvoiceHandler) Duplicate(c *gin.Context) {
	userID := GetUserID(c)
	if userID == nil {
		response.Unauthorized(c, "User not authenticated")
		return
	}

	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.BadRequest(c, "Invalid invoice ID")
		return
	}

	invoice, err := h.invoiceService.DuplicateInvoice(c.Request.Context(), *userID, id)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Created(c, "Invoice duplicated successfully", invoice)
}

// Send handles emailing an invoice to its customer
func (h *InvoiceHandler) Send(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.BadRequest(c, "Invalid invoice ID")
		return
	}

	if err := h.invoiceService.SendInvoice(c.Request.Context(), id); err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, "Invoice sent successfully", nil)
}

// Usage handles reporting this month's invoice usage against the plan limit
func (h *InvoiceHandler) Usage(c *gin.Context) {
	decision, err := h.usageService.CurrentUsage(c.Request.Context())
	if err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, "Usage retrieved successfully", decision)
}
