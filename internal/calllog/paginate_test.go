package calllog

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestTotalPages(t *testing.T) {
	tests := []struct {
		count, size, want int
	}{
		{0, 5, 1},
		{1, 5, 1},
		{5, 5, 1},
		{6, 5, 2},
		{11, 5, 3},
		{3, 0, 3},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, TotalPages(tt.count, tt.size), "count=%d size=%d", tt.count, tt.size)
	}
}

func TestPaginateNeverExceedsSize(t *testing.T) {
	items := []int{1, 2, 3, 4, 5, 6, 7, 8, 9, 10, 11, 12}
	for size := 1; size <= 13; size++ {
		for page := 0; page <= 14; page++ {
			got := Paginate(items, page, size)
			assert.LessOrEqual(t, len(got), size)
		}
	}

	assert.Equal(t, []int{6, 7, 8, 9, 10}, Paginate(items, 2, 5))
	assert.Equal(t, []int{11, 12}, Paginate(items, 3, 5))
	assert.Nil(t, Paginate(items, 4, 5))
	assert.Equal(t, []int{1, 2, 3, 4, 5}, Paginate(items, 0, 5))
}

func TestPager(t *testing.T) {
	p := NewPager(12, 1, 5)
	assert.Equal(t, Pager{Page: 1, TotalPages: 3}, p)
	assert.False(t, p.CanPrev())
	assert.True(t, p.CanNext())
	assert.True(t, p.Visible())

	p = NewPager(12, 9, 5)
	assert.Equal(t, 3, p.Page)
	assert.True(t, p.CanPrev())
	assert.False(t, p.CanNext())

	p = NewPager(0, 3, 5)
	assert.Equal(t, Pager{Page: 1, TotalPages: 1}, p)
	assert.False(t, p.Visible())
}
