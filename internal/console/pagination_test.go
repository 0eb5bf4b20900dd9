package console

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNewPaginationGroupsPages(t *testing.T) {
	t.Parallel()

	cases := []struct {
		name      string
		page      int
		total     int64
		perPage   int
		wantPages []int
		wantPrev  bool
		wantNext  bool
		wantTotal int
	}{
		{name: "empty list still has one page", page: 1, total: 0, perPage: 10, wantPages: []int{1}, wantTotal: 1},
		{name: "partial last page", page: 2, total: 25, perPage: 10, wantPages: []int{1, 2, 3}, wantPrev: true, wantNext: true, wantTotal: 3},
		{name: "second group", page: 11, total: 250, perPage: 10, wantPages: []int{11, 12, 13, 14, 15, 16, 17, 18, 19, 20}, wantPrev: true, wantNext: true, wantTotal: 25},
		{name: "page beyond range is clamped", page: 9, total: 30, perPage: 10, wantPages: []int{1, 2, 3}, wantPrev: true, wantTotal: 3},
		{name: "short last group", page: 21, total: 250, perPage: 10, wantPages: []int{21, 22, 23, 24, 25}, wantPrev: true, wantNext: true, wantTotal: 25},
	}

	for _, testCase := range cases {
		testCase := testCase
		t.Run(testCase.name, func(t *testing.T) {
			t.Parallel()

			pagination := NewPagination(testCase.page, testCase.total, testCase.perPage, 10)
			assert.Equal(t, testCase.wantPages, pagination.Pages)
			assert.Equal(t, testCase.wantPrev, pagination.HasPrev)
			assert.Equal(t, testCase.wantNext, pagination.HasNext)
			assert.Equal(t, testCase.wantTotal, pagination.TotalPages)
		})
	}
}

func TestNewPaginationMovesOnePage(t *testing.T) {
	t.Parallel()

	pagination := NewPagination(10, 500, 10, 10)
	assert.Equal(t, 9, pagination.PrevPage)
	assert.Equal(t, 11, pagination.NextPage)
	assert.Equal(t, 1, pagination.Pages[0])
}
