package validation

import (
	"strings"
	"testing"
)

func validCreateRequest() *CreateInvoiceRequest {
	return &CreateInvoiceRequest{
		CustomerName: "Acme Ltd",
		Amount:       150.00,
		IssueDate:    "2026-08-01",
		DueDate:      "2026-08-31",
		Items: []InvoiceItemRequest{
			{Name: "Consulting", Quantity: 2, UnitPrice: 75},
		},
	}
}

func TestValidateCreateInvoice(t *testing.T) {
	tests := []struct {
		name      string
		mutate    func(*CreateInvoiceRequest)
		wantField string
	}{
		{
			name:   "valid request passes",
			mutate: func(r *CreateInvoiceRequest) {},
		},
		{
			name:      "missing customer name",
			mutate:    func(r *CreateInvoiceRequest) { r.CustomerName = "" },
			wantField: "customer_name",
		},
		{
			name:      "whitespace-only customer name",
			mutate:    func(r *CreateInvoiceRequest) { r.CustomerName = "   " },
			wantField: "customer_name",
		},
		{
			name:      "customer name too long",
			mutate:    func(r *CreateInvoiceRequest) { r.CustomerName = strings.Repeat("a", 256) },
			wantField: "customer_name",
		},
		{
			name:      "invalid email",
			mutate:    func(r *CreateInvoiceRequest) { r.CustomerEmail = "not-an-email" },
			wantField: "customer_email",
		},
		{
			name:   "empty email is allowed",
			mutate: func(r *CreateInvoiceRequest) { r.CustomerEmail = "" },
		},
		{
			name:      "zero amount",
			mutate:    func(r *CreateInvoiceRequest) { r.Amount = 0 },
			wantField: "amount",
		},
		{
			name:      "negative amount",
			mutate:    func(r *CreateInvoiceRequest) { r.Amount = -10 },
			wantField: "amount",
		},
		{
			name:      "unknown status",
			mutate:    func(r *CreateInvoiceRequest) { r.Status = "archived" },
			wantField: "status",
		},
		{
			name:   "valid status",
			mutate: func(r *CreateInvoiceRequest) { r.Status = "paid" },
		},
		{
			name:      "malformed issue date",
			mutate:    func(r *CreateInvoiceRequest) { r.IssueDate = "08/01/2026" },
			wantField: "issue_date",
		},
		{
			name: "due date before issue date",
			mutate: func(r *CreateInvoiceRequest) {
				r.IssueDate = "2026-08-31"
				r.DueDate = "2026-08-01"
			},
			wantField: "due_date",
		},
		{
			name: "due date equal to issue date is allowed",
			mutate: func(r *CreateInvoiceRequest) {
				r.IssueDate = "2026-08-15"
				r.DueDate = "2026-08-15"
			},
		},
		{
			name:      "no line items",
			mutate:    func(r *CreateInvoiceRequest) { r.Items = nil },
			wantField: "items",
		},
		{
			name: "too many line items",
			mutate: func(r *CreateInvoiceRequest) {
				items := make([]InvoiceItemRequest, MaxLineItems+1)
				for i := range items {
					items[i] = InvoiceItemRequest{Name: "Item", Quantity: 1, UnitPrice: 1}
				}
				r.Items = items
			},
			wantField: "items",
		},
		{
			name: "zero quantity line item",
			mutate: func(r *CreateInvoiceRequest) {
				r.Items = append(r.Items, InvoiceItemRequest{Name: "Extra", Quantity: 0, UnitPrice: 5})
			},
			wantField: "items[1].quantity",
		},
		{
			name: "negative unit price",
			mutate: func(r *CreateInvoiceRequest) {
				r.Items[0].UnitPrice = -1
			},
			wantField: "items[0].unit_price",
		},
		{
			name:      "unknown payment method",
			mutate:    func(r *CreateInvoiceRequest) { r.PaymentMethod = "barter" },
			wantField: "payment_method",
		},
		{
			name:      "notes too long",
			mutate:    func(r *CreateInvoiceRequest) { r.Notes = strings.Repeat("n", 1001) },
			wantField: "notes",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := validCreateRequest()
			tt.mutate(req)

			errs := ValidateCreateInvoice(req)

			if tt.wantField == "" {
				if len(errs) != 0 {
					t.Fatalf("expected no errors, got %v", errs)
				}
				return
			}

			found := false
			for _, e := range errs {
				if e.Field == tt.wantField {
					found = true
					break
				}
			}
			if !found {
				t.Fatalf("expected error on %q, got %v", tt.wantField, errs)
			}
		})
	}
}

func TestValidateCreateInvoiceNormalizes(t *testing.T) {
	req := validCreateRequest()
	req.CustomerName = "  Acme Ltd  "
	req.Items[0].Name = "  Consulting  "

	if errs := ValidateCreateInvoice(req); len(errs) != 0 {
		t.Fatalf("expected no errors, got %v", errs)
	}
	if req.CustomerName != "Acme Ltd" {
		t.Errorf("customer name not trimmed: %q", req.CustomerName)
	}
	if req.Items[0].Name != "Consulting" {
		t.Errorf("item name not trimmed: %q", req.Items[0].Name)
	}
}

func TestValidateUpdateInvoice(t *testing.T) {
	str := func(s string) *string { return &s }
	f64 := func(f float64) *float64 { return &f }

	tests := []struct {
		name      string
		req       *UpdateInvoiceRequest
		wantField string
	}{
		{
			name: "empty patch passes",
			req:  &UpdateInvoiceRequest{},
		},
		{
			name: "valid partial patch passes",
			req:  &UpdateInvoiceRequest{Status: str("paid")},
		},
		{
			name:      "invalid status",
			req:       &UpdateInvoiceRequest{Status: str("archived")},
			wantField: "status",
		},
		{
			name:      "invalid amount",
			req:       &UpdateInvoiceRequest{Amount: f64(0)},
			wantField: "amount",
		},
		{
			name:      "invalid email",
			req:       &UpdateInvoiceRequest{CustomerEmail: str("nope")},
			wantField: "customer_email",
		},
		{
			name: "empty email clears the stored value",
			req:  &UpdateInvoiceRequest{CustomerEmail: str("")},
		},
		{
			name: "empty payment method clears the stored value",
			req:  &UpdateInvoiceRequest{PaymentMethod: str("")},
		},
		{
			name:      "empty customer name rejected",
			req:       &UpdateInvoiceRequest{CustomerName: str("")},
			wantField: "customer_name",
		},
		{
			name:      "whitespace-only customer name rejected",
			req:       &UpdateInvoiceRequest{CustomerName: str("   ")},
			wantField: "customer_name",
		},
		{
			name: "both dates present and crossed",
			req: &UpdateInvoiceRequest{
				IssueDate: str("2026-09-10"),
				DueDate:   str("2026-09-01"),
			},
			wantField: "due_date",
		},
		{
			name: "single date patch skips order check",
			req:  &UpdateInvoiceRequest{DueDate: str("2020-01-01")},
		},
		{
			name:      "empty items patch rejected",
			req:       &UpdateInvoiceRequest{Items: []InvoiceItemRequest{}},
			wantField: "items",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			errs := ValidateUpdateInvoice(tt.req)

			if tt.wantField == "" {
				if len(errs) != 0 {
					t.Fatalf("expected no errors, got %v", errs)
				}
				return
			}

			found := false
			for _, e := range errs {
				if e.Field == tt.wantField {
					found = true
					break
				}
			}
			if !found {
				t.Fatalf("expected error on %q, got %v", tt.wantField, errs)
			}
		})
	}
}
