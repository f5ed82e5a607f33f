package utils

import (
	"regexp"
	"testing"
)

func TestGenerateInvoiceNumber(t *testing.T) {
	pattern := regexp.MustCompile(`^INV-\d{6}-\d{4}$`)

	for i := 0; i < 100; i++ {
		number := GenerateInvoiceNumber("INV-")
		if !pattern.MatchString(number) {
			t.Fatalf("number %q does not match expected shape", number)
		}
	}
}

func TestGenerateInvoiceNumberPrefix(t *testing.T) {
	number := GenerateInvoiceNumber("ACME/")
	if number[:5] != "ACME/" {
		t.Errorf("number %q missing custom prefix", number)
	}
}

func TestSlugify(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"Acme Ltd", "acme-ltd"},
		{"  Acme   Ltd  ", "acme-ltd"},
		{"Acme & Sons, Inc.", "acme-sons-inc"},
		{"ACME", "acme"},
		{"", ""},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			if got := Slugify(tt.in); got != tt.want {
				t.Errorf("Slugify(%q) = %q, want %q", tt.in, got, tt.want)
			}
		})
	}
}
