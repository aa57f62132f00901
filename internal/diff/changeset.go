package diff

import "github.com/everstacklabs/tokencalc/internal/catalog"

// FieldChange records a single field change for diff reporting.
type FieldChange struct {
	Field    string
	OldValue any
	NewValue any
}

// ChangeSet represents the diff between two catalogs for one provider.
type ChangeSet struct {
	Provider  catalog.ProviderKey
	New       []ModelChange
	Removed   []ModelChange
	Updated   []ModelUpdate
	Unchanged int
}

// ModelChange represents a model present on only one side.
type ModelChange struct {
	ID    string
	Model catalog.Model
}

// ModelUpdate represents a model present on both sides with field changes.
type ModelUpdate struct {
	ID      string
	Model   catalog.Model
	Changes []FieldChange
}

// HasChanges reports whether the changeset has any modifications.
func (cs *ChangeSet) HasChanges() bool {
	return len(cs.New) > 0 || len(cs.Updated) > 0 || len(cs.Removed) > 0
}

// TotalChanged returns the count of new + updated + removed models.
func (cs *ChangeSet) TotalChanged() int {
	return len(cs.New) + len(cs.Updated) + len(cs.Removed)
}
