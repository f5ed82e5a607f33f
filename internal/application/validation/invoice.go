package validation

import (
	"reflect"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/invoicely/invoicely-api/pkg/apperror"
)

// DateLayout is the wire format for invoice dates
const DateLayout = "2006-01-02"

// MaxLineItems bounds the items array on a single invoice
const MaxLineItems = 100

// CreateInvoiceRequest is the untrusted payload for invoice creation
type CreateInvoiceRequest struct {
	CustomerName  string               `json:"customer_name" validate:"required,max=255"`
	CustomerEmail string               `json:"customer_email" validate:"omitempty,email"`
	Amount        float64              `json:"amount" validate:"gte=0.01"`
	Status        string               `json:"status" validate:"omitempty,oneof=pending paid overdue cancelled"`
	IssueDate     string               `json:"issue_date" validate:"required,datetime=2006-01-02"`
	DueDate       string               `json:"due_date" validate:"required,datetime=2006-01-02"`
	Items         []InvoiceItemRequest `json:"items" validate:"min=1,max=100,dive"`
	PaymentMethod string               `json:"payment_method" validate:"omitempty,oneof=card bank_transfer cash mpesa paypal"`
	Notes         string               `json:"notes" validate:"max=1000"`
}

// UpdateInvoiceRequest is the untrusted payload for partial invoice updates.
// Absent fields keep their stored values; present fields obey the same rules
// as on create.
type UpdateInvoiceRequest struct {
	CustomerName  *string              `json:"customer_name" validate:"omitempty,max=255"`
	CustomerEmail *string              `json:"customer_email" validate:"omitempty,email"`
	Amount        *float64             `json:"amount" validate:"omitempty,gte=0.01"`
	Status        *string              `json:"status" validate:"omitempty,oneof=pending paid overdue cancelled"`
	IssueDate     *string              `json:"issue_date" validate:"omitempty,datetime=2006-01-02"`
	DueDate       *string              `json:"due_date" validate:"omitempty,datetime=2006-01-02"`
	Items         []InvoiceItemRequest `json:"items" validate:"omitempty,min=1,max=100,dive"`
	PaymentMethod *string              `json:"payment_method" validate:"omitempty,oneof=card bank_transfer cash mpesa paypal"`
	Notes         *string              `json:"notes" validate:"omitempty,max=1000"`
}

// InvoiceItemRequest is a single untrusted line item
type InvoiceItemRequest struct {
	Name      string  `json:"name" validate:"required,max=255"`
	Quantity  int     `json:"quantity" validate:"min=1"`
	UnitPrice float64 `json:"unit_price" validate:"gte=0"`
}

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())

	// Report field paths using json tag names (e.g. "items[2].quantity")
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})

	return v
}

// ValidateCreateInvoice normalizes the request in place and returns the
// field errors, empty on success. Pure with respect to everything but its
// argument; never touches persistence.
func ValidateCreateInvoice(req *CreateInvoiceRequest) []apperror.FieldError {
	normalizeCreate(req)

	fieldErrors := collect(validate.Struct(req))
	fieldErrors = append(fieldErrors, checkDateOrder(req.IssueDate, req.DueDate)...)
	return fieldErrors
}

// ValidateUpdateInvoice normalizes the patch in place and returns the field
// errors, empty on success. A present-but-empty optional string means "clear
// the stored value", so the email and oneof rules apply only to non-empty
// values; customer_name is required on create and may never be blanked.
func ValidateUpdateInvoice(req *UpdateInvoiceRequest) []apperror.FieldError {
	normalizeUpdate(req)

	checked := *req
	if checked.CustomerEmail != nil && *checked.CustomerEmail == "" {
		checked.CustomerEmail = nil
	}
	if checked.PaymentMethod != nil && *checked.PaymentMethod == "" {
		checked.PaymentMethod = nil
	}

	fieldErrors := collect(validate.Struct(&checked))
	if req.CustomerName != nil && *req.CustomerName == "" {
		fieldErrors = append(fieldErrors, apperror.FieldError{
			Field:   "customer_name",
			Message: "is required",
		})
	}
	if req.IssueDate != nil && req.DueDate != nil {
		fieldErrors = append(fieldErrors, checkDateOrder(*req.IssueDate, *req.DueDate)...)
	}
	// omitempty treats a present-but-empty array as absent; an explicit
	// empty items patch must still be rejected
	if req.Items != nil && len(req.Items) == 0 {
		fieldErrors = append(fieldErrors, apperror.FieldError{
			Field:   "items",
			Message: "must contain at least 1 item",
		})
	}
	return fieldErrors
}

// ParseDate parses a validated YYYY-MM-DD string
func ParseDate(s string) (time.Time, error) {
	return time.Parse(DateLayout, s)
}

func normalizeCreate(req *CreateInvoiceRequest) {
	req.CustomerName = strings.TrimSpace(req.CustomerName)
	req.CustomerEmail = strings.TrimSpace(req.CustomerEmail)
	req.Notes = strings.TrimSpace(req.Notes)
	req.Status = strings.TrimSpace(req.Status)
	req.PaymentMethod = strings.TrimSpace(req.PaymentMethod)
	for i := range req.Items {
		req.Items[i].Name = strings.TrimSpace(req.Items[i].Name)
	}
}

func normalizeUpdate(req *UpdateInvoiceRequest) {
	trimPtr(req.CustomerName)
	trimPtr(req.CustomerEmail)
	trimPtr(req.Notes)
	trimPtr(req.Status)
	trimPtr(req.PaymentMethod)
	for i := range req.Items {
		req.Items[i].Name = strings.TrimSpace(req.Items[i].Name)
	}
}

func trimPtr(s *string) {
	if s != nil {
		*s = strings.TrimSpace(*s)
	}
}

// checkDateOrder enforces due_date >= issue_date. Both dates must already be
// format-valid; unparseable values are reported by the datetime tag instead.
func checkDateOrder(issue, due string) []apperror.FieldError {
	issueDate, err1 := time.Parse(DateLayout, issue)
	dueDate, err2 := time.Parse(DateLayout, due)
	if err1 != nil || err2 != nil {
		return nil
	}
	if dueDate.Before(issueDate) {
		return []apperror.FieldError{{
			Field:   "due_date",
			Message: "due_date must be on or after issue_date",
		}}
	}
	return nil
}

// collect converts validator errors into the field->message shape
func collect(err error) []apperror.FieldError {
	if err == nil {
		return nil
	}

	verrs, ok := err.(validator.ValidationErrors)
	if !ok {
		return []apperror.FieldError{{Field: "", Message: "invalid payload"}}
	}

	fieldErrors := make([]apperror.FieldError, 0, len(verrs))
	for _, fe := range verrs {
		fieldErrors = append(fieldErrors, apperror.FieldError{
			Field:   fieldPath(fe),
			Message: messageFor(fe),
		})
	}
	return fieldErrors
}

// fieldPath strips the root struct name from the reported namespace, leaving
// paths like "customer_name" or "items[2].quantity"
func fieldPath(fe validator.FieldError) string {
	ns := fe.Namespace()
	if idx := strings.Index(ns, "."); idx != -1 {
		return ns[idx+1:]
	}
	return ns
}

func messageFor(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return "is required"
	case "email":
		return "must be a valid email address"
	case "datetime":
		return "must be a valid date in YYYY-MM-DD format"
	case "oneof":
		return "must be one of: " + strings.ReplaceAll(fe.Param(), " ", ", ")
	case "min":
		if fe.Kind() == reflect.Slice {
			return "must contain at least " + fe.Param() + " item"
		}
		return "must be at least " + fe.Param()
	case "max":
		if fe.Kind() == reflect.Slice {
			return "must contain at most " + fe.Param() + " items"
		}
		if fe.Kind() == reflect.String {
			return "must be at most " + fe.Param() + " characters"
		}
		return "must be at most " + fe.Param()
	case "gte":
		return "must be at least " + fe.Param()
	default:
		return "is invalid"
	}
}
