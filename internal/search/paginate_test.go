package search

import (
	"errors"
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	internalErrors "github.com/gcbaptista/note-search/internal/errors"
)

func TestPaginate(t *testing.T) {
	items := []int{0, 1, 2, 3, 4, 5, 6}

	tests := []struct {
		name      string
		items     []int
		pageIndex int
		pageSize  int
		want      []int
	}{
		{"first page", items, 0, 3, []int{0, 1, 2}},
		{"middle page", items, 1, 3, []int{3, 4, 5}},
		{"last partial page", items, 2, 3, []int{6}},
		{"page past the end", items, 3, 3, []int{}},
		{"far past the end", items, 1000, 3, []int{}},
		{"page size zero", items, 0, 0, []int{}},
		{"page size larger than items", items, 0, 100, items},
		{"huge page size", items, 0, math.MaxInt, items},
		{"huge page index", items, math.MaxInt, 2, []int{}},
		{"empty list", []int{}, 0, 10, []int{}},
		{"nil list", nil, 0, 10, []int{}},
		{"exact fit", items, 0, 7, items},
		{"exact fit next page", items, 1, 7, []int{}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := Paginate(tt.items, tt.pageIndex, tt.pageSize)
			require.NoError(t, err)
			assert.NotNil(t, got)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestPaginate_InvalidArgument(t *testing.T) {
	tests := []struct {
		name      string
		pageIndex int
		pageSize  int
	}{
		{"negative page index", -1, 10},
		{"negative page size", 0, -1},
		{"both negative", -3, -3},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := Paginate([]int{1, 2, 3}, tt.pageIndex, tt.pageSize)
			assert.Nil(t, got)
			assert.True(t, errors.Is(err, internalErrors.ErrInvalidArgument), "got %v", err)
		})
	}
}
