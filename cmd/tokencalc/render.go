package main

import (
	"encoding/json"
	"fmt"
	"io"

	"github.com/fatih/color"

	"github.com/everstacklabs/tokencalc/internal/catalog"
	"github.com/everstacklabs/tokencalc/internal/diff"
	"github.com/everstacklabs/tokencalc/internal/estimator"
	"github.com/everstacklabs/tokencalc/internal/format"
	"github.com/everstacklabs/tokencalc/internal/quote"
)

var (
	deprecatedColor = color.New(color.FgYellow)
	cheapestColor   = color.New(color.FgGreen, color.Bold)
	headerColor     = color.New(color.Bold)
	addedColor      = color.New(color.FgGreen)
	removedColor    = color.New(color.FgRed)
)

func writeJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(v); err != nil {
		return fmt.Errorf("encoding json: %w", err)
	}
	return nil
}

func (e *env) printProviders(w io.Writer) error {
	type row struct {
		Key       catalog.ProviderKey `json:"key"`
		Name      string              `json:"name"`
		Models    int                 `json:"models"`
		Estimator bool                `json:"estimator"`
	}
	var rows []row
	for _, p := range e.cat.Providers() {
		_, ok := estimator.Lookup(p.Name)
		rows = append(rows, row{p.Name, p.DisplayName, len(e.cat.ListModels(p.Name)), ok})
	}
	if e.json {
		return writeJSON(w, rows)
	}

	headerColor.Fprintf(w, "%-12s %-12s %6s  %s\n", "KEY", "NAME", "MODELS", "FORMULA")
	for _, r := range rows {
		formula := "dedicated"
		if !r.Estimator {
			formula = "chars/4"
		}
		fmt.Fprintf(w, "%-12s %-12s %6d  %s\n", r.Key, r.Name, r.Models, formula)
	}
	return nil
}

// printModels lists models; the row at index highlight is marked as the
// cheapest. A negative highlight marks nothing.
func (e *env) printModels(w io.Writer, models []catalog.Model, highlight int) error {
	if e.json {
		if models == nil {
			models = []catalog.Model{}
		}
		return writeJSON(w, models)
	}

	headerColor.Fprintf(w, "%-10s %-24s %-28s %12s %12s %8s\n", "PROVIDER", "ID", "NAME", "INPUT", "OUTPUT", "CONTEXT")
	for i, m := range models {
		line := fmt.Sprintf("%-10s %-24s %-28s %12s %12s %8s",
			m.Provider, m.ID, m.Name,
			format.PricePerMillion(m.InputPrice),
			format.PricePerMillion(m.OutputPrice),
			format.ContextLength(m.ContextLength))
		switch {
		case i == highlight:
			cheapestColor.Fprintln(w, line+"  (cheapest)")
		case m.Deprecated:
			deprecatedColor.Fprintln(w, line+"  (deprecated)")
		default:
			fmt.Fprintln(w, line)
		}
	}
	fmt.Fprintf(w, "\nTotal: %d models\n", len(models))
	return nil
}

func (e *env) printEstimate(w io.Writer, provider catalog.ProviderKey, s estimator.Stats, tokens int) error {
	if e.json {
		return writeJSON(w, map[string]any{
			"provider":   provider,
			"tokens":     tokens,
			"words":      s.Words,
			"characters": s.Chars,
		})
	}
	fmt.Fprintf(w, "Provider:   %s\n", provider)
	fmt.Fprintf(w, "Words:      %s\n", format.Number(s.Words))
	fmt.Fprintf(w, "Characters: %s\n", format.Number(s.Chars))
	fmt.Fprintf(w, "Tokens:     %s\n", format.Number(tokens))
	return nil
}

func (e *env) printQuote(w io.Writer, r quote.Result) error {
	if e.json {
		return writeJSON(w, r)
	}
	fmt.Fprintf(w, "Model:         %s / %s\n", r.ProviderName, r.Model.Name)
	fmt.Fprintf(w, "Rates:         %s in, %s out\n",
		format.PricePerMillion(r.Model.InputPrice), format.PricePerMillion(r.Model.OutputPrice))
	fmt.Fprintf(w, "Input tokens:  %s\n", format.Number(r.InputTokens))
	fmt.Fprintf(w, "Output tokens: %s\n", format.Number(r.OutputTokens))
	fmt.Fprintf(w, "Total tokens:  %s of %s context\n",
		format.Number(r.Cost.Tokens), format.ContextLength(r.Model.ContextLength))
	fmt.Fprintf(w, "Input cost:    %s\n", format.Currency(r.Cost.EstimatedInputCost))
	fmt.Fprintf(w, "Output cost:   %s\n", format.Currency(r.Cost.EstimatedOutputCost))
	headerColor.Fprintf(w, "Total cost:    %s\n", format.Currency(r.Cost.TotalEstimatedCost))
	if r.Model.Deprecated {
		deprecatedColor.Fprintln(w, "Note: this model is deprecated.")
	}
	return nil
}

func (e *env) printComparison(w io.Writer, results []quote.Result) error {
	if e.json {
		if results == nil {
			results = []quote.Result{}
		}
		return writeJSON(w, results)
	}

	cheapest := -1
	for i, r := range results {
		if cheapest < 0 || r.Cost.TotalEstimatedCost < results[cheapest].Cost.TotalEstimatedCost {
			cheapest = i
		}
	}

	headerColor.Fprintf(w, "%-10s %-24s %10s %14s\n", "PROVIDER", "MODEL", "TOKENS", "TOTAL")
	for i, r := range results {
		line := fmt.Sprintf("%-10s %-24s %10s %14s",
			r.Provider, r.Model.ID, format.Number(r.Cost.Tokens), format.Currency(r.Cost.TotalEstimatedCost))
		switch {
		case i == cheapest:
			cheapestColor.Fprintln(w, line+"  (cheapest)")
		case r.Model.Deprecated:
			deprecatedColor.Fprintln(w, line+"  (deprecated)")
		default:
			fmt.Fprintln(w, line)
		}
	}
	return nil
}

// printDiff renders changesets and reports whether any has changes.
func (e *env) printDiff(w io.Writer, changesets []diff.ChangeSet) (bool, error) {
	hasChanges := false
	for _, cs := range changesets {
		if cs.HasChanges() {
			hasChanges = true
		}
	}
	if e.json {
		return hasChanges, writeJSON(w, changesets)
	}

	for _, cs := range changesets {
		summary := diff.RenderDiffSummary(&cs)
		switch {
		case len(cs.Removed) > 0:
			removedColor.Fprintln(w, summary)
		case cs.HasChanges():
			addedColor.Fprintln(w, summary)
		default:
			fmt.Fprintln(w, summary)
		}
	}
	return hasChanges, nil
}
