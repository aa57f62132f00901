package validate

import (
	"fmt"
	"math"
	"strings"

	"github.com/everstacklabs/tokencalc/internal/catalog"
	"github.com/everstacklabs/tokencalc/internal/estimator"
)

// Severity classifies validation issues.
type Severity int

const (
	SeverityError   Severity = iota // Catalog must not be used
	SeverityWarning                 // Reported, does not fail validation
)

// maxContextLength is the upper bound of a plausible context window.
const maxContextLength = 10_000_000

// Issue represents a single validation problem.
type Issue struct {
	Severity Severity `json:"severity"`
	Model    string   `json:"model"`
	Field    string   `json:"field"`
	Message  string   `json:"message"`
}

func (s Severity) String() string {
	if s == SeverityWarning {
		return "WARN"
	}
	return "ERROR"
}

// MarshalText renders the severity by name in JSON output.
func (s Severity) MarshalText() ([]byte, error) {
	return []byte(s.String()), nil
}

func (i Issue) String() string {
	return fmt.Sprintf("[%s] %s: %s: %s", i.Severity, i.Model, i.Field, i.Message)
}

// Result holds all validation issues.
type Result struct {
	Issues []Issue `json:"issues"`
}

// HasErrors returns true if there are any blocking errors.
func (r *Result) HasErrors() bool {
	for _, i := range r.Issues {
		if i.Severity == SeverityError {
			return true
		}
	}
	return false
}

// Errors returns only error-severity issues.
func (r *Result) Errors() []Issue {
	var errs []Issue
	for _, i := range r.Issues {
		if i.Severity == SeverityError {
			errs = append(errs, i)
		}
	}
	return errs
}

// Warnings returns only warning-severity issues.
func (r *Result) Warnings() []Issue {
	var warns []Issue
	for _, i := range r.Issues {
		if i.Severity == SeverityWarning {
			warns = append(warns, i)
		}
	}
	return warns
}

func (r *Result) add(sev Severity, model, field, msg string) {
	r.Issues = append(r.Issues, Issue{sev, model, field, msg})
}

// ValidateModel checks a single model record. ref names the model in issues
// (typically "provider/id").
func ValidateModel(m catalog.Model, ref string) *Result {
	r := &Result{}

	if m.ID == "" {
		r.add(SeverityError, ref, "id", "required field is empty")
	}
	if m.Name == "" {
		r.add(SeverityError, ref, "name", "required field is empty")
	}
	if m.ContextLength <= 0 {
		r.add(SeverityError, ref, "context_length", fmt.Sprintf("value %d must be positive", m.ContextLength))
	} else if m.ContextLength > maxContextLength {
		r.add(SeverityWarning, ref, "context_length",
			fmt.Sprintf("value %d above expected maximum %d", m.ContextLength, maxContextLength))
	}

	// Pricing sanity
	finite := true
	for _, p := range []struct {
		field string
		value float64
	}{
		{"input_per_1m", m.InputPrice},
		{"output_per_1m", m.OutputPrice},
	} {
		switch {
		case math.IsNaN(p.value) || math.IsInf(p.value, 0):
			finite = false
			r.add(SeverityError, ref, p.field, fmt.Sprintf("value %v is not a finite number", p.value))
		case p.value < 0:
			r.add(SeverityError, ref, p.field, fmt.Sprintf("value %.6f is negative", p.value))
		}
	}
	if !finite {
		return r
	}
	if m.InputPrice == 0 && m.OutputPrice == 0 {
		r.add(SeverityWarning, ref, "input_per_1m", "model has zero input and output price")
	} else if m.OutputPrice < m.InputPrice {
		r.add(SeverityWarning, ref, "output_per_1m",
			fmt.Sprintf("output price %.4f lower than input price %.4f", m.OutputPrice, m.InputPrice))
	}

	return r
}

// ValidateCatalog validates every provider and model in a catalog.
func ValidateCatalog(cat *catalog.Catalog) *Result {
	r := &Result{}
	for _, p := range cat.Providers() {
		if strings.TrimSpace(p.DisplayName) == "" {
			r.add(SeverityError, string(p.Name), "display_name", "required field is empty")
		}
		if _, ok := estimator.Lookup(p.Name); !ok {
			r.add(SeverityWarning, string(p.Name), "provider",
				"no token formula for provider, estimates fall back to chars/4")
		}
		if len(cat.ListModels(p.Name)) == 0 {
			r.add(SeverityWarning, string(p.Name), "models", "provider lists no models")
		}
		for _, m := range cat.ListModels(p.Name) {
			modelResult := ValidateModel(m, string(p.Name)+"/"+m.ID)
			r.Issues = append(r.Issues, modelResult.Issues...)
		}
	}
	return r
}

// FormatResult formats validation results for display.
func FormatResult(r *Result) string {
	if len(r.Issues) == 0 {
		return "Validation passed: no issues found."
	}

	var b strings.Builder
	errors := r.Errors()
	warnings := r.Warnings()

	if len(errors) > 0 {
		b.WriteString(fmt.Sprintf("Errors (%d):\n", len(errors)))
		for _, e := range errors {
			b.WriteString(fmt.Sprintf("  %s\n", e))
		}
	}

	if len(warnings) > 0 {
		b.WriteString(fmt.Sprintf("Warnings (%d):\n", len(warnings)))
		for _, w := range warnings {
			b.WriteString(fmt.Sprintf("  %s\n", w))
		}
	}

	return b.String()
}
