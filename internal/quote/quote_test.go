package quote

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/everstacklabs/tokencalc/internal/catalog"
	"github.com/everstacklabs/tokencalc/internal/cost"
)

func builtinService(t *testing.T) *Service {
	t.Helper()
	cat, err := catalog.Builtin()
	require.NoError(t, err)
	return New(cat)
}

func TestQuote(t *testing.T) {
	s := builtinService(t)

	res, err := s.Quote(Request{
		Provider:     catalog.OpenAI,
		ModelID:      "gpt-4o-mini",
		InputText:    "hello world",
		OutputTokens: 1000,
	})
	require.NoError(t, err)

	assert.Equal(t, "OpenAI", res.ProviderName)
	assert.Equal(t, "gpt-4o-mini", res.Model.ID)
	assert.Equal(t, 3, res.InputTokens)
	assert.Equal(t, 1003, res.Cost.Tokens)
	assert.InDelta(t, 3.0/1e6*0.15, res.Cost.EstimatedInputCost, 1e-15)
	assert.InDelta(t, 1000.0/1e6*0.60, res.Cost.EstimatedOutputCost, 1e-15)
	assert.False(t, res.ExceedsContext)
}

func TestQuoteUnknownProviderOrModel(t *testing.T) {
	s := builtinService(t)

	_, err := s.Quote(Request{Provider: "mistral", ModelID: "large"})
	assert.ErrorIs(t, err, catalog.ErrNotFound)

	// A stale id is reported, never replaced by a default.
	_, err = s.Quote(Request{Provider: catalog.Anthropic, ModelID: "gpt-4o"})
	assert.ErrorIs(t, err, catalog.ErrNotFound)
}

func TestQuoteEmptyModelUsesFirst(t *testing.T) {
	s := builtinService(t)

	res, err := s.Quote(Request{Provider: catalog.XAI})
	require.NoError(t, err)
	assert.Equal(t, "grok-4", res.Model.ID)
	assert.Equal(t, 0, res.InputTokens)
	assert.Equal(t, cost.Breakdown{}, res.Cost)
}

func TestQuoteNegativeOutputTokens(t *testing.T) {
	s := builtinService(t)
	_, err := s.Quote(Request{Provider: catalog.OpenAI, ModelID: "gpt-4o", OutputTokens: -1})
	assert.ErrorIs(t, err, cost.ErrInvalidArgument)
}

func TestQuoteExceedsContext(t *testing.T) {
	s := builtinService(t)
	res, err := s.Quote(Request{Provider: catalog.OpenAI, ModelID: "gpt-3-5-turbo", OutputTokens: 20000})
	require.NoError(t, err)
	assert.True(t, res.ExceedsContext)
}

func TestCompare(t *testing.T) {
	s := builtinService(t)
	text := "Summarize the following document in three bullet points."

	all, err := s.Compare(text, 500, CompareOptions{IncludeDeprecated: true})
	require.NoError(t, err)
	assert.Len(t, all, len(s.Catalog().AllModels()))
	// Catalog order is kept without SortByCost.
	assert.Equal(t, "gpt-4-1", all[0].Model.ID)

	active, err := s.Compare(text, 500, CompareOptions{})
	require.NoError(t, err)
	for _, r := range active {
		assert.False(t, r.Model.Deprecated)
	}

	// Each model uses its own provider's estimate.
	for _, r := range active {
		single, err := s.Quote(Request{Provider: r.Provider, ModelID: r.Model.ID, InputText: text, OutputTokens: 500})
		require.NoError(t, err)
		assert.Equal(t, single, r)
	}
}

func TestCompareSortByCost(t *testing.T) {
	s := builtinService(t)
	res, err := s.Compare("some prompt text", 100, CompareOptions{SortByCost: true})
	require.NoError(t, err)
	for i := 1; i < len(res); i++ {
		assert.LessOrEqual(t, res[i-1].Cost.TotalEstimatedCost, res[i].Cost.TotalEstimatedCost)
	}
}

func TestCompareRejectsNegativeOutput(t *testing.T) {
	s := builtinService(t)
	_, err := s.Compare("x", -1, CompareOptions{})
	assert.ErrorIs(t, err, cost.ErrInvalidArgument)
}
