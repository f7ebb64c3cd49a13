package view

import (
	"bytes"
	"errors"
	"strings"
	"testing"

	"github.com/mattn/go-runewidth"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/talkincode/shopdesk/internal/domain"
	"github.com/talkincode/shopdesk/internal/form"
	"github.com/talkincode/shopdesk/internal/listing"
)

func populated(items []domain.Product, total int) listing.State[domain.Product] {
	return listing.State[domain.Product]{
		Status:   listing.Populated,
		Page:     1,
		PageSize: 10,
		Result:   &domain.PagedResult[domain.Product]{Items: items, Total: total, Limit: 10},
	}
}

func TestTable_AlignsWideRunes(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, Table(&buf, []string{"NAME", "X"}, [][]string{{"Café", "1"}, {"日本茶", "2"}}))
	lines := strings.Split(strings.TrimRight(buf.String(), "\n"), "\n")
	require.Len(t, lines, 4)
	col := runewidth.StringWidth(lines[0][:strings.Index(lines[0], "X")])
	for _, l := range lines[2:] {
		last := l[len(l)-1:]
		assert.Equal(t, col, runewidth.StringWidth(strings.TrimSuffix(l, last)), l)
	}
}

func TestList_States(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, List(&buf, listing.State[domain.Product]{Status: listing.Loading}, ProductColumns, Options{}))
	assert.Equal(t, "Loading...\n", buf.String())

	buf.Reset()
	require.NoError(t, List(&buf, listing.State[domain.Product]{Status: listing.Errored, Err: errors.New("Error: 500")}, ProductColumns, Options{}))
	assert.Equal(t, "Error: Error: 500\n", buf.String())

	buf.Reset()
	require.NoError(t, List(&buf, listing.State[domain.Product]{Status: listing.Empty}, ProductColumns, Options{EmptyText: "No products found."}))
	assert.Equal(t, "No products found.\n", buf.String())
}

func TestList_PopulatedWithFooterAndChips(t *testing.T) {
	items := []domain.Product{
		{ID: 1, Name: "Cola", Price: "1.50", IsActive: true, Category: &domain.Category{Name: "Gaseosas"}},
		{ID: 2, Name: "Agua", Price: "0.80", Photo: "http://img/agua.png"},
	}
	var buf bytes.Buffer
	err := List(&buf, populated(items, 42), ProductColumns, Options{
		ShowFooter: true,
		Chips:      []listing.Chip{{Key: listing.ChipCategory, Label: "Gaseosas"}},
	})
	require.NoError(t, err)
	out := buf.String()
	assert.Contains(t, out, "Filters: [category: Gaseosas ×]")
	assert.Contains(t, out, "Cola")
	assert.Contains(t, out, "Gaseosas")
	assert.Contains(t, out, "Page 1 of 5 (42 total)  [1] 2 3 4 5")
}

func TestFooter_Ellipsis(t *testing.T) {
	assert.Equal(t, "Page 5 of 10 (95 total)  1 … 4 [5] 6 … 10", Footer(5, 10, 95))
}

func TestSummarizePrices(t *testing.T) {
	sum, ok := SummarizePrices([]domain.Product{{Price: "1.00"}, {Price: "2.00"}, {Price: "4.00"}, {Price: ""}})
	require.True(t, ok)
	assert.Equal(t, 3, sum.Count)
	assert.Equal(t, 1.0, sum.Min)
	assert.Equal(t, 4.0, sum.Max)
	assert.Equal(t, 2.33, sum.Mean)

	_, ok = SummarizePrices(nil)
	assert.False(t, ok)
}

func TestForm_ShowsErrors(t *testing.T) {
	m, err := form.Open(form.KindCategory, nil, form.Backend{})
	require.NoError(t, err)
	m.Validate()
	var buf bytes.Buffer
	require.NoError(t, Form(&buf, m))
	out := buf.String()
	assert.Contains(t, out, "New category")
	assert.Contains(t, out, "is required")
}
