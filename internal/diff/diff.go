package diff

import (
	"fmt"
	"strings"

	"github.com/everstacklabs/tokencalc/internal/catalog"
)

// Compute compares other against base, one ChangeSet per provider. Providers
// appear in base order followed by providers only other lists.
func Compute(base, other *catalog.Catalog) []ChangeSet {
	order := base.ListProviders()
	for _, p := range other.ListProviders() {
		if !base.HasProvider(p) {
			order = append(order, p)
		}
	}

	sets := make([]ChangeSet, 0, len(order))
	for _, p := range order {
		sets = append(sets, *ComputeProvider(p, base.ListModels(p), other.ListModels(p)))
	}
	return sets
}

// ComputeProvider compares two model lists of the same provider.
func ComputeProvider(provider catalog.ProviderKey, base, other []catalog.Model) *ChangeSet {
	cs := &ChangeSet{Provider: provider}

	baseByID := make(map[string]catalog.Model, len(base))
	for _, m := range base {
		baseByID[m.ID] = m
	}
	seen := make(map[string]bool, len(other))

	for _, m := range other {
		seen[m.ID] = true
		old, exists := baseByID[m.ID]
		if !exists {
			cs.New = append(cs.New, ModelChange{ID: m.ID, Model: m})
			continue
		}

		changes := computeFieldChanges(old, m)
		if len(changes) > 0 {
			cs.Updated = append(cs.Updated, ModelUpdate{ID: m.ID, Model: m, Changes: changes})
		} else {
			cs.Unchanged++
		}
	}

	for _, m := range base {
		if !seen[m.ID] {
			cs.Removed = append(cs.Removed, ModelChange{ID: m.ID, Model: m})
		}
	}

	return cs
}

func computeFieldChanges(existing, updated catalog.Model) []FieldChange {
	var changes []FieldChange

	if existing.Name != updated.Name {
		changes = append(changes, FieldChange{"name", existing.Name, updated.Name})
	}
	if existing.InputPrice != updated.InputPrice {
		changes = append(changes, FieldChange{"input_per_1m", existing.InputPrice, updated.InputPrice})
	}
	if existing.OutputPrice != updated.OutputPrice {
		changes = append(changes, FieldChange{"output_per_1m", existing.OutputPrice, updated.OutputPrice})
	}
	if existing.ContextLength != updated.ContextLength {
		changes = append(changes, FieldChange{"context_length", existing.ContextLength, updated.ContextLength})
	}
	if existing.Deprecated != updated.Deprecated {
		changes = append(changes, FieldChange{"deprecated", existing.Deprecated, updated.Deprecated})
	}

	return changes
}

// RenderDiffSummary formats a changeset for terminal output.
func RenderDiffSummary(cs *ChangeSet) string {
	var b strings.Builder

	fmt.Fprintf(&b, "%s: %d new, %d updated, %d removed, %d unchanged\n",
		cs.Provider, len(cs.New), len(cs.Updated), len(cs.Removed), cs.Unchanged)

	for _, m := range cs.New {
		fmt.Fprintf(&b, "  + %s (in $%g / out $%g per 1M)\n", m.ID, m.Model.InputPrice, m.Model.OutputPrice)
	}
	for _, u := range cs.Updated {
		fmt.Fprintf(&b, "  ~ %s\n", u.ID)
		for _, c := range u.Changes {
			fmt.Fprintf(&b, "      %s: %v -> %v\n", c.Field, c.OldValue, c.NewValue)
		}
	}
	for _, m := range cs.Removed {
		fmt.Fprintf(&b, "  - %s\n", m.ID)
	}

	return strings.TrimRight(b.String(), "\n")
}
