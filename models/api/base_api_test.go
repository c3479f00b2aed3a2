package apimodels

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestPagination(t *testing.T) {
	tests := []struct {
		name   string
		in     Pagination
		offset int
		limit  int
	}{
		{`по умолчанию`, Pagination{}, 0, 20},
		{`третья страница`, Pagination{Page: 3, Limit: 10}, 20, 10},
		{`лимит ограничен`, Pagination{Page: 2, Limit: 500}, 100, 100},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			offset, limit := tt.in.GetOffset()
			require.Equal(t, tt.offset, offset)
			require.Equal(t, tt.limit, limit)
		})
	}
}
