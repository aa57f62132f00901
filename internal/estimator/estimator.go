// Package estimator approximates token counts with per-provider heuristics.
//
// No tokenizer vocabulary is consulted. Each provider maps to a fixed formula
// over word and character counts, rounded up. Results are reproducible
// bit-for-bit across platforms.
package estimator

import (
	"math"

	"github.com/everstacklabs/tokencalc/internal/catalog"
)

// Formula estimates the token count of non-blank text.
type Formula func(s Stats) int

// formulas is the provider dispatch table. Providers missing here use
// Fallback.
var formulas = map[catalog.ProviderKey]Formula{
	catalog.OpenAI:    OpenAI,
	catalog.Anthropic: Anthropic,
	catalog.Google:    Google,
	catalog.XAI:       XAI,
}

// The float64 conversions around products below keep the compiler from
// fusing multiply-add, which would change rounding on some architectures.

// OpenAI: words*0.75 + chars*0.25/4.
func OpenAI(s Stats) int {
	return ceil(float64(float64(s.Words)*0.75) + float64(float64(s.Chars)*0.25)/4)
}

// Anthropic: words*0.7 + chars*0.3/4.
func Anthropic(s Stats) int {
	return ceil(float64(float64(s.Words)*0.7) + float64(float64(s.Chars)*0.3)/4)
}

// Google: googleWords*1.3 + chars*0.05. Uses the unfiltered word count.
func Google(s Stats) int {
	return ceil(float64(float64(s.GoogleWords)*1.3) + float64(float64(s.Chars)*0.05))
}

// XAI uses the OpenAI formula.
func XAI(s Stats) int {
	return OpenAI(s)
}

// Fallback is used for providers without a dedicated formula: chars/4.
func Fallback(s Stats) int {
	return ceil(float64(s.Chars) / 4)
}

func ceil(f float64) int {
	return int(math.Ceil(f))
}

// Lookup returns the dedicated formula for a provider.
func Lookup(provider catalog.ProviderKey) (Formula, bool) {
	f, ok := formulas[provider]
	return f, ok
}

// For returns the formula for a provider, or Fallback.
func For(provider catalog.ProviderKey) Formula {
	if f, ok := formulas[provider]; ok {
		return f
	}
	return Fallback
}

// Providers lists the providers with a dedicated formula.
func Providers() []catalog.ProviderKey {
	out := make([]catalog.ProviderKey, 0, len(formulas))
	for _, p := range catalog.KnownProviders() {
		if _, ok := formulas[p]; ok {
			out = append(out, p)
		}
	}
	return out
}

// Estimate returns the estimated token count of text for a provider.
// Empty and whitespace-only text is always 0.
func Estimate(text string, provider catalog.ProviderKey) int {
	if IsBlank(text) {
		return 0
	}
	return For(provider)(Analyze(text))
}
