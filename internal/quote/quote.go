// Package quote answers "what will this prompt cost on that model" by
// combining the catalog, the estimator, and the cost calculator.
package quote

import (
	"cmp"
	"fmt"
	"slices"

	"github.com/sourcegraph/conc/iter"

	"github.com/everstacklabs/tokencalc/internal/catalog"
	"github.com/everstacklabs/tokencalc/internal/cost"
	"github.com/everstacklabs/tokencalc/internal/estimator"
)

// Request selects a model and describes the prompt to price.
type Request struct {
	Provider     catalog.ProviderKey `json:"provider"`
	ModelID      string              `json:"model"`
	InputText    string              `json:"input_text"`
	OutputTokens int                 `json:"output_tokens"`
}

// Result is a priced request.
type Result struct {
	Provider     catalog.ProviderKey `json:"provider"`
	ProviderName string              `json:"provider_name"`
	Model        catalog.Model       `json:"model"`
	InputTokens  int                 `json:"input_tokens"`
	OutputTokens int                 `json:"output_tokens"`
	Cost         cost.Breakdown      `json:"cost"`
	// ExceedsContext is informational; nothing is truncated or refused.
	ExceedsContext bool `json:"exceeds_context,omitempty"`
}

// Service prices requests against one catalog.
type Service struct {
	cat *catalog.Catalog
}

// New creates a Service.
func New(cat *catalog.Catalog) *Service {
	return &Service{cat: cat}
}

// Catalog returns the catalog the service prices against.
func (s *Service) Catalog() *catalog.Catalog { return s.cat }

// Resolve finds the model a request refers to. An empty ModelID selects the
// provider's first model; any other id must exist.
func (s *Service) Resolve(provider catalog.ProviderKey, modelID string) (catalog.Model, error) {
	if modelID == "" {
		m, ok := s.cat.DefaultModel(provider)
		if !ok {
			return catalog.Model{}, fmt.Errorf("no default model for provider %q: %w", provider, catalog.ErrNotFound)
		}
		return m, nil
	}
	return s.cat.Lookup(provider, modelID)
}

// Quote prices a single request.
func (s *Service) Quote(req Request) (Result, error) {
	m, err := s.Resolve(req.Provider, req.ModelID)
	if err != nil {
		return Result{}, err
	}
	inputTokens := estimator.Estimate(req.InputText, req.Provider)
	return s.price(m, inputTokens, req.OutputTokens)
}

func (s *Service) price(m catalog.Model, inputTokens, outputTokens int) (Result, error) {
	b, err := cost.ForModel(m, inputTokens, outputTokens)
	if err != nil {
		return Result{}, err
	}
	name, _ := s.cat.ProviderName(m.Provider)
	return Result{
		Provider:       m.Provider,
		ProviderName:   name,
		Model:          m,
		InputTokens:    inputTokens,
		OutputTokens:   outputTokens,
		Cost:           b,
		ExceedsContext: m.ContextLength > 0 && b.Tokens > m.ContextLength,
	}, nil
}

// CompareOptions controls Compare.
type CompareOptions struct {
	IncludeDeprecated bool
	// SortByCost orders results by total cost, cheapest first. Ties keep
	// catalog order.
	SortByCost bool
}

// Compare prices the same prompt on every catalog model, each estimated with
// its own provider's formula.
func (s *Service) Compare(inputText string, outputTokens int, opts CompareOptions) ([]Result, error) {
	if outputTokens < 0 {
		return nil, fmt.Errorf("output tokens %d is negative: %w", outputTokens, cost.ErrInvalidArgument)
	}

	tokens := make(map[catalog.ProviderKey]int)
	for _, p := range s.cat.ListProviders() {
		tokens[p] = estimator.Estimate(inputText, p)
	}

	models := s.cat.AllModels()
	if !opts.IncludeDeprecated {
		models = slices.DeleteFunc(models, func(m catalog.Model) bool { return m.Deprecated })
	}

	type priced struct {
		res Result
		err error
	}
	out := iter.Map(models, func(m *catalog.Model) priced {
		r, err := s.price(*m, tokens[m.Provider], outputTokens)
		return priced{r, err}
	})

	results := make([]Result, 0, len(out))
	for _, p := range out {
		if p.err != nil {
			return nil, p.err
		}
		results = append(results, p.res)
	}

	if opts.SortByCost {
		slices.SortStableFunc(results, func(a, b Result) int {
			return cmp.Compare(a.Cost.TotalEstimatedCost, b.Cost.TotalEstimatedCost)
		})
	}
	return results, nil
}
