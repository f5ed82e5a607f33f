package pagination

import "testing"

func TestPaginationParamsValidate(t *testing.T) {
	tests := []struct {
		name        string
		page        int
		perPage     int
		wantPage    int
		wantPerPage int
	}{
		{"defaults applied", 0, 0, 1, 15},
		{"negative page reset", -5, 15, 1, 15},
		{"per page capped", 1, 500, 1, 100},
		{"valid values kept", 3, 25, 3, 25},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := &PaginationParams{Page: tt.page, PerPage: tt.perPage}
			p.Validate()
			if p.Page != tt.wantPage || p.PerPage != tt.wantPerPage {
				t.Errorf("got (%d, %d), want (%d, %d)", p.Page, p.PerPage, tt.wantPage, tt.wantPerPage)
			}
		})
	}
}

func TestDefaultPagination(t *testing.T) {
	p := DefaultPagination()

	if p.Page != 1 || p.PerPage != 15 {
		t.Errorf("got (%d, %d), want (1, 15)", p.Page, p.PerPage)
	}
}

func TestNewPagination(t *testing.T) {
	p := NewPagination(2, 15, 31)

	if p.TotalPages != 3 {
		t.Errorf("TotalPages = %d, want 3", p.TotalPages)
	}
	if !p.HasNext {
		t.Error("expected HasNext on a middle page")
	}
	if !p.HasPrev {
		t.Error("expected HasPrev on a middle page")
	}
}

func TestOffset(t *testing.T) {
	p := &PaginationParams{Page: 3, PerPage: 20}
	if got := p.Offset(); got != 40 {
		t.Errorf("Offset = %d, want 40", got)
	}
}
