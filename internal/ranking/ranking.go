// Package ranking derives ordered views over catalog models.
package ranking

import (
	"cmp"
	"math"
	"slices"

	"github.com/everstacklabs/tokencalc/internal/catalog"
)

// DefaultTopN is the number of models shown in the most cost-effective list.
const DefaultTopN = 6

// ModelLister is satisfied by *catalog.Catalog.
type ModelLister interface {
	AllModels() []catalog.Model
}

// MostCostEffective returns up to n non-deprecated models ordered by input
// price, cheapest first. Models with equal prices keep catalog order.
func MostCostEffective(src ModelLister, n int) []catalog.Model {
	return CheapestOf(src.AllModels(), n)
}

// CheapestOf ranks an explicit model list the same way MostCostEffective
// ranks a catalog. Models without a finite input price are not ranked.
func CheapestOf(models []catalog.Model, n int) []catalog.Model {
	if n <= 0 {
		return []catalog.Model{}
	}

	active := make([]catalog.Model, 0, len(models))
	for _, m := range models {
		if !m.Deprecated && !math.IsNaN(m.InputPrice) && !math.IsInf(m.InputPrice, 0) {
			active = append(active, m)
		}
	}

	slices.SortStableFunc(active, func(a, b catalog.Model) int {
		return cmp.Compare(a.InputPrice, b.InputPrice)
	})

	if len(active) > n {
		active = active[:n]
	}
	return active
}
