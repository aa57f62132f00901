package diff

import (
	"strings"
	"testing"

	"github.com/everstacklabs/tokencalc/internal/catalog"
)

func model(id string, in, out float64) catalog.Model {
	return catalog.Model{
		ID:            id,
		Name:          strings.ToUpper(id),
		Provider:      catalog.OpenAI,
		InputPrice:    in,
		OutputPrice:   out,
		ContextLength: 128000,
	}
}

func mustCatalog(t *testing.T, entries ...catalog.ProviderModels) *catalog.Catalog {
	t.Helper()
	cat, err := catalog.New("v", entries)
	if err != nil {
		t.Fatalf("catalog.New: %v", err)
	}
	return cat
}

func TestNewModelDetected(t *testing.T) {
	cs := ComputeProvider(catalog.OpenAI, nil, []catalog.Model{model("gpt-5", 5, 20)})

	if len(cs.New) != 1 {
		t.Fatalf("expected 1 new model, got %d", len(cs.New))
	}
	if cs.New[0].ID != "gpt-5" {
		t.Errorf("expected new model gpt-5, got %s", cs.New[0].ID)
	}
	if cs.Unchanged != 0 {
		t.Errorf("expected 0 unchanged, got %d", cs.Unchanged)
	}
}

func TestPriceChangeDetected(t *testing.T) {
	base := []catalog.Model{model("o3", 15, 60)}
	other := []catalog.Model{model("o3", 10, 40)}

	cs := ComputeProvider(catalog.OpenAI, base, other)

	if len(cs.Updated) != 1 {
		t.Fatalf("expected 1 updated, got %d", len(cs.Updated))
	}
	fields := make(map[string]bool)
	for _, c := range cs.Updated[0].Changes {
		fields[c.Field] = true
	}
	if !fields["input_per_1m"] || !fields["output_per_1m"] {
		t.Errorf("expected both price changes, got %v", cs.Updated[0].Changes)
	}
	if fields["context_length"] || fields["name"] {
		t.Errorf("unexpected changes %v", cs.Updated[0].Changes)
	}
}

func TestDeprecationFlagDetected(t *testing.T) {
	old := model("gpt-4-5-preview", 75, 150)
	deprecated := old
	deprecated.Deprecated = true

	cs := ComputeProvider(catalog.OpenAI, []catalog.Model{old}, []catalog.Model{deprecated})
	if len(cs.Updated) != 1 || cs.Updated[0].Changes[0].Field != "deprecated" {
		t.Errorf("expected deprecated change, got %+v", cs.Updated)
	}
}

func TestRemovedModelDetected(t *testing.T) {
	cs := ComputeProvider(catalog.OpenAI,
		[]catalog.Model{model("gpt-4o", 2.5, 10), model("gpt-3-5-turbo", 0.5, 1.5)},
		[]catalog.Model{model("gpt-4o", 2.5, 10)})

	if len(cs.Removed) != 1 || cs.Removed[0].ID != "gpt-3-5-turbo" {
		t.Errorf("expected gpt-3-5-turbo removed, got %+v", cs.Removed)
	}
	if cs.Unchanged != 1 {
		t.Errorf("expected 1 unchanged, got %d", cs.Unchanged)
	}
	if !cs.HasChanges() || cs.TotalChanged() != 1 {
		t.Errorf("HasChanges=%v TotalChanged=%d", cs.HasChanges(), cs.TotalChanged())
	}
}

func TestIdenticalCatalogsHaveNoChanges(t *testing.T) {
	cat, err := catalog.Builtin()
	if err != nil {
		t.Fatal(err)
	}
	for _, cs := range Compute(cat, cat) {
		if cs.HasChanges() {
			t.Errorf("%s: unexpected changes\n%s", cs.Provider, RenderDiffSummary(&cs))
		}
	}
}

func TestComputeProviderOrder(t *testing.T) {
	base := mustCatalog(t,
		catalog.ProviderModels{Provider: catalog.Provider{Name: catalog.OpenAI}, Models: []catalog.Model{model("gpt-4o", 2.5, 10)}},
	)
	xai := model("grok-4", 3, 15)
	xai.Provider = catalog.XAI
	other := mustCatalog(t,
		catalog.ProviderModels{Provider: catalog.Provider{Name: catalog.XAI}, Models: []catalog.Model{xai}},
		catalog.ProviderModels{Provider: catalog.Provider{Name: catalog.OpenAI}, Models: []catalog.Model{model("gpt-4o", 2.5, 10)}},
	)

	sets := Compute(base, other)
	if len(sets) != 2 {
		t.Fatalf("expected 2 changesets, got %d", len(sets))
	}
	if sets[0].Provider != catalog.OpenAI || sets[1].Provider != catalog.XAI {
		t.Errorf("order = %s, %s", sets[0].Provider, sets[1].Provider)
	}
	if len(sets[1].New) != 1 {
		t.Errorf("expected grok-4 as new, got %+v", sets[1])
	}
}

func TestRenderDiffSummary(t *testing.T) {
	cs := ComputeProvider(catalog.OpenAI,
		[]catalog.Model{model("o3", 15, 60), model("old", 1, 2)},
		[]catalog.Model{model("o3", 10, 60), model("gpt-5", 5, 20)})

	out := RenderDiffSummary(cs)
	for _, want := range []string{
		"openai: 1 new, 1 updated, 1 removed, 0 unchanged",
		"+ gpt-5",
		"~ o3",
		"input_per_1m: 15 -> 10",
		"- old",
	} {
		if !strings.Contains(out, want) {
			t.Errorf("summary missing %q:\n%s", want, out)
		}
	}
}
