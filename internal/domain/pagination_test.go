package domain

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestPaginationParams(t *testing.T) {
	tests := []struct {
		name       string
		params     PaginationParams
		wantOffset int
		wantLimit  int
	}{
		{name: "zero value", params: PaginationParams{}, wantOffset: 0, wantLimit: DefaultPageSize},
		{name: "third page", params: PaginationParams{Page: 3, PageSize: 5}, wantOffset: 10, wantLimit: 5},
		{name: "default size on later page", params: PaginationParams{Page: 2}, wantOffset: DefaultPageSize, wantLimit: DefaultPageSize},
		{name: "oversized page size", params: PaginationParams{Page: 2, PageSize: 1000}, wantOffset: MaxPageSize, wantLimit: MaxPageSize},
		{name: "negative page", params: PaginationParams{Page: -4, PageSize: 10}, wantOffset: 0, wantLimit: 10},
		{
			name:       "huge page does not overflow",
			params:     PaginationParams{Page: math.MaxInt64 / 10, PageSize: 100},
			wantOffset: (MaxPage - 1) * 100,
			wantLimit:  100,
		},
		{
			name:       "max int page",
			params:     PaginationParams{Page: math.MaxInt, PageSize: math.MaxInt},
			wantOffset: (MaxPage - 1) * MaxPageSize,
			wantLimit:  MaxPageSize,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.wantOffset, tt.params.Offset())
			assert.Equal(t, tt.wantLimit, tt.params.Limit())
			assert.GreaterOrEqual(t, tt.params.Offset(), 0)
		})
	}
}

func TestNewPaginationParams(t *testing.T) {
	assert.Equal(t, PaginationParams{Page: 1, PageSize: DefaultPageSize}, NewPaginationParams(0, 0))
	assert.Equal(t, PaginationParams{Page: 7, PageSize: 15}, NewPaginationParams(7, 15))
	assert.Equal(t, PaginationParams{Page: MaxPage, PageSize: MaxPageSize}, NewPaginationParams(math.MaxInt, 500))
}
