package catalog

// ProviderKey identifies a model provider (e.g., "openai").
type ProviderKey string

// Known providers.
const (
	OpenAI    ProviderKey = "openai"
	Anthropic ProviderKey = "anthropic"
	Google    ProviderKey = "google"
	XAI       ProviderKey = "xai"
)

// KnownProviders returns the fixed provider enumeration in reference order.
func KnownProviders() []ProviderKey {
	return []ProviderKey{OpenAI, Anthropic, Google, XAI}
}

// IsKnown reports whether p is one of the fixed providers.
func (p ProviderKey) IsKnown() bool {
	switch p {
	case OpenAI, Anthropic, Google, XAI:
		return true
	}
	return false
}

func (p ProviderKey) String() string { return string(p) }

// Model is a single priced offering of a provider.
// Prices are per one million tokens.
type Model struct {
	ID            string      `yaml:"id" toml:"id" json:"id"`
	Name          string      `yaml:"name" toml:"name" json:"name"`
	Provider      ProviderKey `yaml:"provider,omitempty" toml:"provider,omitempty" json:"provider"`
	InputPrice    float64     `yaml:"input_per_1m" toml:"input_per_1m" json:"input_price"`
	OutputPrice   float64     `yaml:"output_per_1m" toml:"output_per_1m" json:"output_price"`
	ContextLength int         `yaml:"context_length" toml:"context_length" json:"context_length"`
	Deprecated    bool        `yaml:"deprecated,omitempty" toml:"deprecated,omitempty" json:"deprecated,omitempty"`
	Notes         string      `yaml:"notes,omitempty" toml:"notes,omitempty" json:"notes,omitempty"`
}

// Provider represents a provider.yaml file.
type Provider struct {
	Name        ProviderKey `yaml:"name" toml:"name" json:"key"`
	DisplayName string      `yaml:"display_name" toml:"display_name" json:"name"`
}

// ProviderModels is one provider with its ordered model list, the unit New
// builds a catalog from.
type ProviderModels struct {
	Provider Provider
	Models   []Model
}

// modelsFile is the on-disk shape of models.yaml / models.toml.
type modelsFile struct {
	Models []Model `yaml:"models" toml:"models"`
}
