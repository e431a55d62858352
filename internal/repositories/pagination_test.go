package repositories

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestPaginate(t *testing.T) {
	tests := []struct {
		name       string
		page       int
		pageSize   int
		wantLimit  int
		wantOffset int
	}{
		{"first page", 1, 20, 20, 0},
		{"third page", 3, 10, 10, 20},
		{"zero page treated as first", 0, 20, 20, 0},
		{"negative page treated as first", -5, 20, 20, 0},
		{"zero size gets default", 2, 0, DefaultPageSize, DefaultPageSize},
		{"oversize clamped", 1, 500, MaxPageSize, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			limit, offset := Paginate(tt.page, tt.pageSize)
			assert.Equal(t, tt.wantLimit, limit)
			assert.Equal(t, tt.wantOffset, offset)
		})
	}
}
