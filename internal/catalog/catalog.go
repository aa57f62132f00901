package catalog

import (
	"errors"
	"fmt"
	"math"
	"slices"
)

// ErrNotFound is returned by strict lookups when a provider or model does not
// resolve to a catalog entry.
var ErrNotFound = errors.New("not found")

// Catalog holds all models grouped by provider. It is immutable once built;
// every accessor returns copies.
type Catalog struct {
	version   string
	order     []ProviderKey
	providers map[ProviderKey]*providerCatalog
}

// providerCatalog holds models for a single provider.
type providerCatalog struct {
	provider Provider
	models   []Model
	byID     map[string]int
}

// New builds a catalog from providers in presentation order.
//
// A model with an empty Provider field inherits the key of its list. It is an
// error for a model to name a different provider, for a model id to repeat
// within one provider, for a provider key to repeat, or for a price to be NaN
// or infinite.
func New(version string, entries []ProviderModels) (*Catalog, error) {
	cat := &Catalog{
		version:   version,
		order:     make([]ProviderKey, 0, len(entries)),
		providers: make(map[ProviderKey]*providerCatalog, len(entries)),
	}

	for _, e := range entries {
		key := e.Provider.Name
		if key == "" {
			return nil, errors.New("provider with empty name")
		}
		if _, dup := cat.providers[key]; dup {
			return nil, fmt.Errorf("duplicate provider %s", key)
		}

		pc := &providerCatalog{
			provider: e.Provider,
			models:   make([]Model, 0, len(e.Models)),
			byID:     make(map[string]int, len(e.Models)),
		}
		for _, m := range e.Models {
			if m.Provider == "" {
				m.Provider = key
			}
			if m.Provider != key {
				return nil, fmt.Errorf("model %s: provider %q does not match list %q", m.ID, m.Provider, key)
			}
			if !isFinite(m.InputPrice) || !isFinite(m.OutputPrice) {
				return nil, fmt.Errorf("provider %s: model %q has a non-finite price", key, m.ID)
			}
			if _, dup := pc.byID[m.ID]; dup {
				return nil, fmt.Errorf("provider %s: duplicate model id %q", key, m.ID)
			}
			pc.byID[m.ID] = len(pc.models)
			pc.models = append(pc.models, m)
		}

		cat.order = append(cat.order, key)
		cat.providers[key] = pc
	}

	return cat, nil
}

func isFinite(f float64) bool {
	return !math.IsNaN(f) && !math.IsInf(f, 0)
}

// Version returns the catalog data version.
func (c *Catalog) Version() string { return c.version }

// ListProviders returns provider keys in presentation order.
func (c *Catalog) ListProviders() []ProviderKey {
	return slices.Clone(c.order)
}

// ListModels returns a provider's models in presentation order, or an empty
// slice for an unknown provider.
func (c *Catalog) ListModels(provider ProviderKey) []Model {
	pc, ok := c.providers[provider]
	if !ok {
		return []Model{}
	}
	return slices.Clone(pc.models)
}

// FindModel returns the model with the given id, if the provider has one.
func (c *Catalog) FindModel(provider ProviderKey, id string) (Model, bool) {
	pc, ok := c.providers[provider]
	if !ok {
		return Model{}, false
	}
	i, ok := pc.byID[id]
	if !ok {
		return Model{}, false
	}
	return pc.models[i], true
}

// DefaultModel returns the first model listed for a provider.
func (c *Catalog) DefaultModel(provider ProviderKey) (Model, bool) {
	pc, ok := c.providers[provider]
	if !ok || len(pc.models) == 0 {
		return Model{}, false
	}
	return pc.models[0], true
}

// Lookup is the strict form of FindModel: unknown providers and models are
// reported as errors wrapping ErrNotFound.
func (c *Catalog) Lookup(provider ProviderKey, id string) (Model, error) {
	if _, ok := c.providers[provider]; !ok {
		return Model{}, fmt.Errorf("unknown provider %q: %w", provider, ErrNotFound)
	}
	m, ok := c.FindModel(provider, id)
	if !ok {
		return Model{}, fmt.Errorf("unknown model %q for provider %s: %w", id, provider, ErrNotFound)
	}
	return m, nil
}

// AllModels returns every model across all providers, provider-major.
func (c *Catalog) AllModels() []Model {
	var n int
	for _, pc := range c.providers {
		n += len(pc.models)
	}
	all := make([]Model, 0, n)
	for _, key := range c.order {
		all = append(all, c.providers[key].models...)
	}
	return all
}

// HasProvider reports whether the catalog lists the provider.
func (c *Catalog) HasProvider(provider ProviderKey) bool {
	_, ok := c.providers[provider]
	return ok
}

// ProviderName returns the display name of a provider.
func (c *Catalog) ProviderName(provider ProviderKey) (string, bool) {
	pc, ok := c.providers[provider]
	if !ok {
		return "", false
	}
	return pc.provider.DisplayName, true
}

// ProviderNames returns the provider registry: key to display name.
func (c *Catalog) ProviderNames() map[ProviderKey]string {
	names := make(map[ProviderKey]string, len(c.providers))
	for key, pc := range c.providers {
		names[key] = pc.provider.DisplayName
	}
	return names
}

// Providers returns provider records in presentation order.
func (c *Catalog) Providers() []Provider {
	out := make([]Provider, 0, len(c.order))
	for _, key := range c.order {
		out = append(out, c.providers[key].provider)
	}
	return out
}

// ModelIDs returns a provider's model ids in presentation order.
func (c *Catalog) ModelIDs(provider ProviderKey) []string {
	pc, ok := c.providers[provider]
	if !ok {
		return nil
	}
	ids := make([]string, 0, len(pc.models))
	for _, m := range pc.models {
		ids = append(ids, m.ID)
	}
	return ids
}
