package pagination

import "testing"

func TestPageRequest_Defaults(t *testing.T) {
	tests := []struct {
		name     string
		in       PageRequest
		wantPage int
		wantSize int
	}{
		{"zero values", PageRequest{}, 1, DefaultPageSize},
		{"kept as given", PageRequest{Page: 3, PageSize: 5}, 3, 5},
		{"oversized page capped", PageRequest{Page: 1, PageSize: 500}, 1, MaxPageSize},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := tt.in
			req.Defaults()
			if req.Page != tt.wantPage || req.PageSize != tt.wantSize {
				t.Errorf("got page %d size %d, want %d %d", req.Page, req.PageSize, tt.wantPage, tt.wantSize)
			}
		})
	}
}

func TestSlice(t *testing.T) {
	rows := []int{1, 2, 3, 4, 5}

	t.Run("middle page", func(t *testing.T) {
		page := Slice(rows, PageRequest{Page: 2, PageSize: 2})
		if len(page.Data) != 2 || page.Data[0] != 3 || page.TotalPages != 3 || page.TotalItems != 5 {
			t.Errorf("unexpected page: %+v", page)
		}
	})

	t.Run("last partial page", func(t *testing.T) {
		page := Slice(rows, PageRequest{Page: 3, PageSize: 2})
		if len(page.Data) != 1 || page.Data[0] != 5 {
			t.Errorf("unexpected page: %+v", page)
		}
	})

	t.Run("past the end is empty but not null", func(t *testing.T) {
		page := Slice(rows, PageRequest{Page: 9, PageSize: 2})
		if page.Data == nil || len(page.Data) != 0 || page.TotalItems != 5 {
			t.Errorf("unexpected page: %+v", page)
		}
	})

	t.Run("no rows", func(t *testing.T) {
		page := Slice([]int(nil), PageRequest{})
		if page.TotalPages != 0 || page.Data == nil {
			t.Errorf("unexpected page: %+v", page)
		}
	})
}
