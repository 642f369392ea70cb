package domain_test

import (
	"math"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	domain "github.com/donaldgifford/trip-market/pkg/types"
)

func day(s string) *time.Time {
	t, err := time.Parse("2006-01-02", s)
	if err != nil {
		panic(err)
	}
	return &t
}

func TestNewFilterState_Defaults(t *testing.T) {
	t.Parallel()

	f := domain.NewFilterState(500)
	assert.Empty(t, f.SearchTerm)
	assert.Equal(t, domain.PriceRange{Lower: 0, Upper: 500}, f.Price)
	assert.Nil(t, f.Dates.Lower)
	assert.Nil(t, f.Dates.Upper)
	assert.Empty(t, f.Categories)
	assert.Empty(t, f.Types)
	assert.Zero(t, f.MinRating)
	assert.Equal(t, domain.SortNone, f.SortField)
	assert.Equal(t, domain.SortAsc, f.SortDirection)
}

func TestFilterState_Reset(t *testing.T) {
	t.Parallel()

	f := domain.NewFilterState(100)
	f.SetSearch("nile")
	f.SetMinPrice(20)
	f.ToggleCategory("c1")
	f.SetSort(domain.SortRating, domain.SortDesc)
	f.SetStartDate(day("2024-06-10"))

	f.Reset(300)
	assert.Equal(t, domain.NewFilterState(300), f)
}

func TestFilterState_EndDateBeforeStartIsClamped(t *testing.T) {
	t.Parallel()

	f := domain.NewFilterState(100)
	require.Empty(t, f.SetStartDate(day("2024-06-10")))

	msg := f.SetEndDate(day("2024-06-01"))
	assert.Equal(t, domain.MsgDateClamped, msg)
	require.NotNil(t, f.Dates.Upper)
	assert.Equal(t, "2024-06-10", f.Dates.Upper.Format("2006-01-02"))
	assert.False(t, f.Dates.Upper.Before(*f.Dates.Lower))
}

func TestFilterState_StartDateAfterEndIsClamped(t *testing.T) {
	t.Parallel()

	f := domain.NewFilterState(100)
	f.SetEndDate(day("2024-06-01"))

	msg := f.SetStartDate(day("2024-06-20"))
	assert.Equal(t, domain.MsgDateClamped, msg)
	assert.Equal(t, "2024-06-01", f.Dates.Lower.Format("2006-01-02"))
}

func TestFilterState_SetDateRangeSwaps(t *testing.T) {
	t.Parallel()

	f := domain.NewFilterState(100)
	f.SetDateRange(day("2024-07-01"), day("2024-06-01"))
	assert.Equal(t, "2024-06-01", f.Dates.Lower.Format("2006-01-02"))
	assert.Equal(t, "2024-07-01", f.Dates.Upper.Format("2006-01-02"))
}

func TestFilterState_PriceEdits(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		edit    func(f *domain.FilterState) string
		want    domain.PriceRange
		wantMsg string
	}{
		{
			name: "min within range",
			edit: func(f *domain.FilterState) string { return f.SetMinPrice(40) },
			want: domain.PriceRange{Lower: 40, Upper: 100},
		},
		{
			name:    "min above max clamps to max",
			edit:    func(f *domain.FilterState) string { return f.SetMinPrice(150) },
			want:    domain.PriceRange{Lower: 100, Upper: 100},
			wantMsg: domain.MsgPriceClamped,
		},
		{
			name:    "negative min clamps to zero",
			edit:    func(f *domain.FilterState) string { return f.SetMinPrice(-5) },
			want:    domain.PriceRange{Lower: 0, Upper: 100},
			wantMsg: domain.MsgPriceNegative,
		},
		{
			name: "max lowered",
			edit: func(f *domain.FilterState) string { return f.SetMaxPrice(60) },
			want: domain.PriceRange{Lower: 0, Upper: 60},
		},
		{
			name: "max below min clamps to min",
			edit: func(f *domain.FilterState) string {
				f.SetMinPrice(30)
				return f.SetMaxPrice(10)
			},
			want:    domain.PriceRange{Lower: 30, Upper: 30},
			wantMsg: domain.MsgPriceClamped,
		},
		{
			name: "reversed range is swapped",
			edit: func(f *domain.FilterState) string { return f.SetPriceRange(80, 20) },
			want: domain.PriceRange{Lower: 20, Upper: 80},
		},
		{
			name:    "NaN min is refused",
			edit:    func(f *domain.FilterState) string { return f.SetMinPrice(math.NaN()) },
			want:    domain.PriceRange{Lower: 0, Upper: 100},
			wantMsg: domain.MsgPriceInvalid,
		},
		{
			name: "infinite max is refused",
			edit: func(f *domain.FilterState) string {
				f.SetMaxPrice(60)
				return f.SetMaxPrice(math.Inf(1))
			},
			want:    domain.PriceRange{Lower: 0, Upper: 60},
			wantMsg: domain.MsgPriceInvalid,
		},
		{
			name: "non-finite range is refused",
			edit: func(f *domain.FilterState) string {
				f.SetPriceRange(10, 50)
				return f.SetPriceRange(math.Inf(-1), 40)
			},
			want:    domain.PriceRange{Lower: 10, Upper: 50},
			wantMsg: domain.MsgPriceInvalid,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			f := domain.NewFilterState(100)
			msg := tt.edit(&f)
			assert.Equal(t, tt.want, f.Price)
			assert.Equal(t, tt.wantMsg, msg)
			assert.LessOrEqual(t, f.Price.Lower, f.Price.Upper)
		})
	}
}

func TestFilterState_ToggleCategory(t *testing.T) {
	t.Parallel()

	f := domain.NewFilterState(100)
	f.ToggleCategory("museum")
	f.ToggleCategory("beach")
	assert.Equal(t, []string{"beach", "museum"}, f.CategoryList())

	f.ToggleCategory("museum")
	assert.Equal(t, []string{"beach"}, f.CategoryList())

	f.ToggleCategory("  ")
	assert.Equal(t, []string{"beach"}, f.CategoryList())
}

func TestFilterState_SetMinRating(t *testing.T) {
	t.Parallel()

	f := domain.NewFilterState(100)
	assert.Empty(t, f.SetMinRating(3.5))
	assert.InDelta(t, 3.5, f.MinRating, 0.0001)

	assert.Equal(t, domain.MsgRatingRange, f.SetMinRating(9))
	assert.InDelta(t, domain.MaxRating, f.MinRating, 0.0001)

	assert.Equal(t, domain.MsgRatingRange, f.SetMinRating(-1))
	assert.Zero(t, f.MinRating)
}

func TestFilterState_CloneIsDeep(t *testing.T) {
	t.Parallel()

	f := domain.NewFilterState(100)
	f.ToggleCategory("a")
	f.SetStartDate(day("2024-01-01"))

	c := f.Clone()
	f.ToggleCategory("b")
	f.SetStartDate(day("2024-02-01"))

	assert.Equal(t, []string{"a"}, c.CategoryList())
	assert.Equal(t, "2024-01-01", c.Dates.Lower.Format("2006-01-02"))
}
