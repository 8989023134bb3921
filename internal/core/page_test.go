package core

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestPaginate(t *testing.T) {
	cases := []struct {
		name              string
		skip, take, total int
		page, pages       int
		hasPrev, hasNext  bool
	}{
		{"first of three", 0, 10, 25, 1, 3, false, true},
		{"middle", 10, 10, 25, 2, 3, true, true},
		{"last of three", 20, 10, 25, 3, 3, true, false},
		{"exact multiple", 10, 10, 20, 2, 2, true, false},
		{"empty", 0, 10, 0, 1, 0, false, false},
		{"empty deep skip", 40, 10, 0, 5, 0, true, false},
		{"skip inside page", 15, 10, 25, 2, 3, true, true},
		{"negative window normalized", -5, -1, 3, 1, 3, false, true},
		{"zero take normalized", 0, 0, 2, 1, 2, false, true},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got := Paginate(tc.skip, tc.take, tc.total)
			assert.Equal(t, tc.page, got.CurrentPage, "currentPage")
			assert.Equal(t, tc.pages, got.TotalPages, "totalPages")
			assert.Equal(t, tc.hasPrev, got.HasPreviousPage, "hasPreviousPage")
			assert.Equal(t, tc.hasNext, got.HasNextPage, "hasNextPage")
			assert.GreaterOrEqual(t, got.Skip, 0)
			assert.GreaterOrEqual(t, got.Take, 1)
		})
	}
}

func TestNormalizePage(t *testing.T) {
	skip, take := NormalizePage(-5, -1)
	assert.Equal(t, 0, skip)
	assert.Equal(t, 1, take)

	skip, take = NormalizePage(30, 15)
	assert.Equal(t, 30, skip)
	assert.Equal(t, 15, take)
}
