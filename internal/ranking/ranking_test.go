package ranking

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/everstacklabs/tokencalc/internal/catalog"
)

type staticLister []catalog.Model

func (s staticLister) AllModels() []catalog.Model { return s }

func ids(models []catalog.Model) []string {
	out := make([]string, 0, len(models))
	for _, m := range models {
		out = append(out, m.ID)
	}
	return out
}

func TestDeprecatedNeverRanked(t *testing.T) {
	src := staticLister{
		{ID: "old-cheap", InputPrice: 0.01, Deprecated: true},
		{ID: "a", InputPrice: 1.0},
		{ID: "b", InputPrice: 0.5},
		{ID: "c", InputPrice: 2.0},
	}

	got := MostCostEffective(src, 3)
	assert.Equal(t, []string{"b", "a", "c"}, ids(got))
	assert.NotContains(t, ids(MostCostEffective(src, 10)), "old-cheap")
}

func TestNonFinitePriceNeverRanked(t *testing.T) {
	models := []catalog.Model{
		{ID: "cheap", InputPrice: 0.1},
		{ID: "broken", InputPrice: math.NaN()},
		{ID: "unbounded", InputPrice: math.Inf(-1)},
		{ID: "pricey", InputPrice: 3},
	}
	assert.Equal(t, []string{"cheap", "pricey"}, ids(CheapestOf(models, 6)))
}

func TestTiesKeepCatalogOrder(t *testing.T) {
	src := staticLister{
		{ID: "first", InputPrice: 0.15},
		{ID: "cheap", InputPrice: 0.10},
		{ID: "second", InputPrice: 0.15},
		{ID: "third", InputPrice: 0.15},
	}
	assert.Equal(t, []string{"cheap", "first", "second", "third"}, ids(MostCostEffective(src, 6)))
}

func TestTruncation(t *testing.T) {
	src := staticLister{{ID: "a", InputPrice: 1}, {ID: "b", InputPrice: 2}}
	assert.Len(t, MostCostEffective(src, 1), 1)
	assert.Len(t, MostCostEffective(src, 5), 2)
	assert.Empty(t, MostCostEffective(src, 0))
	assert.Empty(t, MostCostEffective(src, -2))
}

func TestDoesNotMutateInput(t *testing.T) {
	models := []catalog.Model{{ID: "b", InputPrice: 2}, {ID: "a", InputPrice: 1}}
	CheapestOf(models, 2)
	assert.Equal(t, []string{"b", "a"}, ids(models))
}

func TestBuiltinTopSix(t *testing.T) {
	cat, err := catalog.Builtin()
	require.NoError(t, err)

	top := MostCostEffective(cat, DefaultTopN)
	require.Len(t, top, DefaultTopN)

	// gemini-1-5-flash is also $0.075 but deprecated.
	assert.Equal(t, []string{
		"gemini-2-5-flash-lite",
		"gemini-2-0-flash-lite",
		"gpt-4-1-nano",
		"gemini-2-0-flash",
		"gemini-2-0-flash-live",
		"gpt-4-1-mini",
	}, ids(top))
	for _, m := range top {
		assert.False(t, m.Deprecated, "%s is deprecated", m.ID)
	}
}
