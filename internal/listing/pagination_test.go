package listing

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/talkincode/shopdesk/internal/domain"
)

func numbers(links []PageLink) []int {
	out := make([]int, 0, len(links))
	for _, l := range links {
		if l.Ellipsis {
			out = append(out, -1)
			continue
		}
		out = append(out, l.Number)
	}
	return out
}

func TestVisiblePages(t *testing.T) {
	assert.Nil(t, VisiblePages(1, 0))
	assert.Equal(t, []int{1, 2, 3, 4, 5}, numbers(VisiblePages(2, 5)))
	assert.Equal(t, []int{1, 2, -1, 10}, numbers(VisiblePages(1, 10)))
	assert.Equal(t, []int{1, 2, 3, 4, -1, 10}, numbers(VisiblePages(3, 10)))
	assert.Equal(t, []int{1, -1, 4, 5, 6, -1, 10}, numbers(VisiblePages(5, 10)))
	assert.Equal(t, []int{1, -1, 7, 8, 9, 10}, numbers(VisiblePages(8, 10)))
	assert.Equal(t, []int{1, -1, 9, 10}, numbers(VisiblePages(10, 10)))
}

func TestVisiblePages_MarksCurrent(t *testing.T) {
	for _, l := range VisiblePages(4, 6) {
		assert.Equal(t, l.Number == 4, l.Current)
	}
}

func TestActiveChips(t *testing.T) {
	cats := []domain.Option{{ID: 1, Name: "Gaseosas"}}
	brands := []domain.Option{{ID: 2, Name: "Andina"}}

	assert.Empty(t, ActiveChips(domain.All, domain.All, domain.All, cats, brands))

	chips := ActiveChips("1", "9", "false", cats, brands)
	assert.Equal(t, []Chip{
		{Key: ChipCategory, Label: "Gaseosas"},
		{Key: ChipBrand, Label: "#9"},
		{Key: ChipActive, Label: "Inactive"},
	}, chips)
}

func TestStatusString(t *testing.T) {
	assert.Equal(t, "loading", Loading.String())
	assert.Equal(t, "errored", Errored.String())
}
