package budget

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type pricedItem struct {
	name   string
	cost   float64
	priced bool
}

func (p pricedItem) CostEstimate() (float64, bool) {
	return p.cost, p.priced
}

func TestParseCap(t *testing.T) {
	tests := []struct {
		text string
		want float64
		ok   bool
	}{
		{"under $20", 20, true},
		{"less than 15 dollars", 15, true},
		{"below $9", 9, true},
		{"max 8.50", 8.5, true},
		{"maximum $30", 30, true},
		{"$10 or less", 10, true},
		{"budget of $25", 25, true},
		{"up to $12", 12, true},
		{"raise it to 40", 40, true},
		{"no budget here", 0, false},
		{"I love cooking", 0, false},
	}

	for _, tt := range tests {
		got, ok := ParseCap(tt.text)
		require.Equal(t, tt.ok, ok, "text: %q", tt.text)
		if ok {
			assert.InDelta(t, tt.want, got, 1e-9, "text: %q", tt.text)
		}
	}
}

func TestFilterByCap(t *testing.T) {
	items := []pricedItem{
		{"cheap", 5, true},
		{"exact", 10, true},
		{"over", 10.01, true},
		{"unknown", 0, false},
	}

	got := FilterByCap(items, 10)
	require.Len(t, got, 2)
	assert.Equal(t, "cheap", got[0].name)
	assert.Equal(t, "exact", got[1].name)
}

func TestFilterByCapEpsilon(t *testing.T) {
	// 浮點累加後的些微誤差不應該把剛好壓線的排除
	items := []pricedItem{{"edge", 0.1 + 0.2, true}}
	got := FilterByCap(items, 0.3)
	assert.Len(t, got, 1)
}

func TestSortByCheapest(t *testing.T) {
	items := []pricedItem{
		{"mid", 8, true},
		{"unknown", 0, false},
		{"cheap", 2, true},
		{"pricey", 20, true},
	}

	got := SortByCheapest(items)
	require.Len(t, got, 4)
	assert.Equal(t, "cheap", got[0].name)
	assert.Equal(t, "mid", got[1].name)
	assert.Equal(t, "pricey", got[2].name)
	assert.Equal(t, "unknown", got[3].name, "non-costed items sort last")

	// 原切片不應被改動
	assert.Equal(t, "mid", items[0].name)
}
