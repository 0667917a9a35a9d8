package response

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNewPagination(t *testing.T) {
	tests := []struct {
		name  string
		page  int
		size  int
		total int64
		count int
		want  Pagination
	}{
		{
			name: "first of three pages",
			page: 1, size: 20, total: 45, count: 20,
			want: Pagination{Page: 1, PageSize: 20, TotalPages: 3, TotalItems: 45, HasMore: true, From: 1, To: 20},
		},
		{
			name: "last partial page",
			page: 3, size: 20, total: 45, count: 5,
			want: Pagination{Page: 3, PageSize: 20, TotalPages: 3, TotalItems: 45, HasMore: false, From: 41, To: 45},
		},
		{
			name: "empty listing",
			page: 1, size: 20, total: 0, count: 0,
			want: Pagination{Page: 1, PageSize: 20},
		},
		{
			name: "page past the end",
			page: 5, size: 20, total: 45, count: 0,
			want: Pagination{Page: 5, PageSize: 20, TotalPages: 3, TotalItems: 45},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := NewPagination(tt.page, tt.size, tt.total, tt.count)
			assert.Equal(t, tt.want, *got)
		})
	}
}
