package entity

import (
	"database/sql/driver"
	"encoding/json"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/invoicely/invoicely-api/internal/domain/enum"
	"gorm.io/gorm"
)

// Invoice represents an invoice belonging to exactly one organization
type Invoice struct {
	ID             uuid.UUID           `gorm:"type:uuid;primary_key" json:"id"`
	OrganizationID uuid.UUID           `gorm:"type:uuid;not null;index;uniqueIndex:idx_org_invoice_number" json:"organization_id"`
	UserID         uuid.UUID           `gorm:"type:uuid;not null;index" json:"user_id"`
	InvoiceNumber  string              `gorm:"size:100;not null;uniqueIndex:idx_org_invoice_number" json:"invoice_number"`
	CustomerName   string              `gorm:"size:255;not null" json:"customer_name"`
	CustomerEmail  *string             `gorm:"size:255" json:"customer_email,omitempty"`
	Amount         float64             `gorm:"type:decimal(15,2);not null" json:"amount"`
	Status         enum.InvoiceStatus  `gorm:"size:20;not null;default:'pending';index" json:"status"`
	IssueDate      time.Time           `gorm:"type:date;not null" json:"issue_date"`
	DueDate        time.Time           `gorm:"type:date;not null" json:"due_date"`
	Items          InvoiceItems        `gorm:"type:jsonb;not null" json:"items"`
	PaymentMethod  *enum.PaymentMethod `gorm:"size:30" json:"payment_method,omitempty"`
	Notes          *string             `gorm:"type:text" json:"notes,omitempty"`
	CreatedAt      time.Time           `json:"created_at"`
	UpdatedAt      time.Time           `json:"updated_at"`

	// Relationships
	Organization Organization `gorm:"foreignKey:OrganizationID" json:"-"`
	User         User         `gorm:"foreignKey:UserID" json:"-"`
}

// BeforeCreate generates a UUID before creating a new invoice
func (i *Invoice) BeforeCreate(tx *gorm.DB) error {
	if i.ID == uuid.Nil {
		i.ID = uuid.New()
	}
	return nil
}

// TableName returns the table name for the Invoice model
func (Invoice) TableName() string {
	return "invoices"
}

// InvoiceItem represents a single line item on an invoice
type InvoiceItem struct {
	Name      string  `json:"name"`
	Quantity  int     `json:"quantity"`
	UnitPrice float64 `json:"unit_price"`
}

// InvoiceItems is the ordered list of line items, stored as jsonb
type InvoiceItems []InvoiceItem

// Scan implements the sql.Scanner interface for InvoiceItems
func (it *InvoiceItems) Scan(value interface{}) error {
	if value == nil {
		*it = InvoiceItems{}
		return nil
	}

	var bytes []byte
	switch v := value.(type) {
	case []byte:
		bytes = v
	case string:
		bytes = []byte(v)
	default:
		return errors.New("failed to scan InvoiceItems: unsupported type")
	}

	return json.Unmarshal(bytes, it)
}

// Value implements the driver.Valuer interface for InvoiceItems
func (it InvoiceItems) Value() (driver.Value, error) {
	return json.Marshal(it)
}
