package paginate_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/donaldgifford/trip-market/pkg/paginate"
)

func seq(n int) []int {
	out := make([]int, n)
	for i := range out {
		out[i] = i + 1
	}
	return out
}

func TestSlice_FirstPageLength(t *testing.T) {
	t.Parallel()

	for _, n := range []int{0, 1, 4, 5, 6, 23} {
		for _, size := range []int{1, 5, 10} {
			p := paginate.Slice(seq(n), size, 1)
			assert.Len(t, p.Items, min(size, n), "n=%d size=%d", n, size)
		}
	}
}

func TestSlice(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name      string
		n         int
		size      int
		page      int
		wantItems []int
		wantPage  int
		wantTotal int
	}{
		{name: "middle page", n: 23, size: 10, page: 2, wantItems: seq(20)[10:], wantPage: 2, wantTotal: 3},
		{name: "last partial page", n: 23, size: 10, page: 3, wantItems: []int{21, 22, 23}, wantPage: 3, wantTotal: 3},
		{name: "page past end clamps to last", n: 23, size: 10, page: 9, wantItems: []int{21, 22, 23}, wantPage: 3, wantTotal: 3},
		{name: "page zero clamps to first", n: 5, size: 2, page: 0, wantItems: []int{1, 2}, wantPage: 1, wantTotal: 3},
		{name: "negative page clamps to first", n: 5, size: 2, page: -4, wantItems: []int{1, 2}, wantPage: 1, wantTotal: 3},
		{name: "exact multiple", n: 10, size: 5, page: 2, wantItems: []int{6, 7, 8, 9, 10}, wantPage: 2, wantTotal: 2},
		{name: "empty has one page", n: 0, size: 5, page: 3, wantItems: []int{}, wantPage: 1, wantTotal: 1},
		{name: "non-positive size uses default", n: 12, size: 0, page: 2, wantItems: []int{11, 12}, wantPage: 2, wantTotal: 2},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			p := paginate.Slice(seq(tt.n), tt.size, tt.page)
			assert.Equal(t, tt.wantItems, p.Items)
			assert.Equal(t, tt.wantPage, p.Number)
			assert.Equal(t, tt.wantTotal, p.TotalPages)
			assert.Equal(t, tt.n, p.TotalItems)
		})
	}
}

func TestSlice_Idempotent(t *testing.T) {
	t.Parallel()

	items := seq(17)
	a := paginate.Slice(items, 4, 3)
	b := paginate.Slice(items, 4, 3)
	assert.Equal(t, a, b)
}

func TestSlice_DoesNotAliasAppends(t *testing.T) {
	t.Parallel()

	items := seq(6)
	p := paginate.Slice(items, 2, 1)
	p.Items = append(p.Items, 99)
	assert.Equal(t, 3, items[2])
}

func TestPage_Navigation(t *testing.T) {
	t.Parallel()

	p := paginate.Slice(seq(30), 10, 1)
	assert.False(t, p.HasPrev())
	assert.True(t, p.HasNext())
	assert.Equal(t, "Page 1 of 3", p.Label())

	p = paginate.Slice(seq(30), 10, 3)
	assert.True(t, p.HasPrev())
	assert.False(t, p.HasNext())
}

func TestPage_EmptyLabel(t *testing.T) {
	t.Parallel()

	p := paginate.Slice([]string{}, 10, 1)
	require.True(t, p.Empty())
	assert.False(t, p.HasPrev())
	assert.False(t, p.HasNext())
	assert.Equal(t, paginate.NoPagesLabel, p.Label())
}
