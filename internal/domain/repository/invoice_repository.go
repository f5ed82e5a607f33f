package repository

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/invoicely/invoicely-api/internal/domain/entity"
	"github.com/invoicely/invoicely-api/internal/domain/enum"
	"github.com/invoicely/invoicely-api/pkg/pagination"
)

// InvoiceRepository defines the interface for invoice data operations. Every
// implementation must scope reads and writes to the organization carried in
// the context; a lookup for a row owned by another organization behaves
// exactly like a lookup for a row that does not exist.
type InvoiceRepository interface {
	Create(ctx context.Context, invoice *entity.Invoice) error
	GetByID(ctx context.Context, id uuid.UUID) (*entity.Invoice, error)
	Update(ctx context.Context, invoice *entity.Invoice) error
	Delete(ctx context.Context, id uuid.UUID) error
	List(ctx context.Context, params *InvoiceFilterParams) ([]entity.Invoice, int64, error)
	CountCreatedSince(ctx context.Context, since time.Time) (int64, error)
}

// InvoiceFilterParams contains filtering parameters for invoice queries
type InvoiceFilterParams struct {
	Pagination *pagination.PaginationParams
	Search     string
	Status     *enum.InvoiceStatus
	SortBy     string
	SortOrder  string
}
