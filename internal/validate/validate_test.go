package validate

import (
	"math"
	"strings"
	"testing"

	"github.com/everstacklabs/tokencalc/internal/catalog"
)

func validModel() catalog.Model {
	return catalog.Model{
		ID:            "gpt-4o",
		Name:          "GPT-4o",
		Provider:      catalog.OpenAI,
		InputPrice:    2.50,
		OutputPrice:   10.00,
		ContextLength: 128000,
		Notes:         "Multimodal capabilities",
	}
}

func TestValidModelPassesAllChecks(t *testing.T) {
	r := ValidateModel(validModel(), "openai/gpt-4o")

	if r.HasErrors() {
		t.Errorf("expected no errors, got: %v", r.Errors())
	}
	if len(r.Warnings()) > 0 {
		t.Errorf("expected no warnings, got: %v", r.Warnings())
	}
}

func TestModelErrors(t *testing.T) {
	tests := []struct {
		name     string
		mutate   func(*catalog.Model)
		errField string
	}{
		{"missing id", func(m *catalog.Model) { m.ID = "" }, "id"},
		{"missing name", func(m *catalog.Model) { m.Name = "" }, "name"},
		{"zero context", func(m *catalog.Model) { m.ContextLength = 0 }, "context_length"},
		{"negative context", func(m *catalog.Model) { m.ContextLength = -5 }, "context_length"},
		{"negative input price", func(m *catalog.Model) { m.InputPrice = -1 }, "input_per_1m"},
		{"negative output price", func(m *catalog.Model) { m.OutputPrice = -1 }, "output_per_1m"},
		{"nan input price", func(m *catalog.Model) { m.InputPrice = math.NaN() }, "input_per_1m"},
		{"infinite input price", func(m *catalog.Model) { m.InputPrice = math.Inf(1) }, "input_per_1m"},
		{"nan output price", func(m *catalog.Model) { m.OutputPrice = math.NaN() }, "output_per_1m"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m := validModel()
			tt.mutate(&m)
			r := ValidateModel(m, "openai/gpt-4o")

			if !r.HasErrors() {
				t.Fatal("expected errors")
			}
			found := false
			for _, e := range r.Errors() {
				if e.Field == tt.errField {
					found = true
				}
			}
			if !found {
				t.Errorf("expected error on field %s, got %v", tt.errField, r.Errors())
			}
		})
	}
}

func TestModelWarnings(t *testing.T) {
	tests := []struct {
		name      string
		mutate    func(*catalog.Model)
		warnField string
	}{
		{"free model", func(m *catalog.Model) { m.InputPrice, m.OutputPrice = 0, 0 }, "input_per_1m"},
		{"output cheaper than input", func(m *catalog.Model) { m.OutputPrice = 1 }, "output_per_1m"},
		{"huge context", func(m *catalog.Model) { m.ContextLength = 50_000_000 }, "context_length"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m := validModel()
			tt.mutate(&m)
			r := ValidateModel(m, "openai/gpt-4o")

			if r.HasErrors() {
				t.Fatalf("expected warnings only, got errors %v", r.Errors())
			}
			found := false
			for _, w := range r.Warnings() {
				if w.Field == tt.warnField {
					found = true
				}
			}
			if !found {
				t.Errorf("expected warning on field %s, got %v", tt.warnField, r.Warnings())
			}
		})
	}
}

func TestBuiltinCatalogIsClean(t *testing.T) {
	cat, err := catalog.Builtin()
	if err != nil {
		t.Fatal(err)
	}
	r := ValidateCatalog(cat)
	if len(r.Issues) > 0 {
		t.Errorf("built-in catalog has issues:\n%s", FormatResult(r))
	}
}

func TestUnknownProviderWarns(t *testing.T) {
	cat, err := catalog.New("v", []catalog.ProviderModels{{
		Provider: catalog.Provider{Name: "mistral", DisplayName: "Mistral"},
		Models:   []catalog.Model{{ID: "large", Name: "Large", InputPrice: 2, OutputPrice: 6, ContextLength: 128000}},
	}})
	if err != nil {
		t.Fatal(err)
	}

	r := ValidateCatalog(cat)
	if r.HasErrors() {
		t.Errorf("unexpected errors: %v", r.Errors())
	}
	if len(r.Warnings()) != 1 || r.Warnings()[0].Field != "provider" {
		t.Errorf("expected one provider warning, got %v", r.Warnings())
	}
}

func TestMissingDisplayNameIsError(t *testing.T) {
	cat, err := catalog.New("v", []catalog.ProviderModels{{
		Provider: catalog.Provider{Name: catalog.OpenAI},
		Models:   []catalog.Model{validModel()},
	}})
	if err != nil {
		t.Fatal(err)
	}
	if !ValidateCatalog(cat).HasErrors() {
		t.Error("expected error for empty display name")
	}
}

func TestFormatResult(t *testing.T) {
	if got := FormatResult(&Result{}); !strings.Contains(got, "passed") {
		t.Errorf("FormatResult(empty) = %q", got)
	}

	r := &Result{Issues: []Issue{
		{SeverityError, "openai/x", "id", "required field is empty"},
		{SeverityWarning, "openai/y", "output_per_1m", "cheap"},
	}}
	out := FormatResult(r)
	if !strings.Contains(out, "Errors (1)") || !strings.Contains(out, "Warnings (1)") {
		t.Errorf("FormatResult = %q", out)
	}
	if !strings.Contains(out, "[ERROR] openai/x: id: required field is empty") {
		t.Errorf("missing error line in %q", out)
	}
}
