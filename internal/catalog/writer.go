package catalog

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"

	"github.com/BurntSushi/toml"
	"gopkg.in/yaml.v3"
)

// Format selects the encoding of exported model files.
type Format string

const (
	FormatYAML Format = "yaml"
	FormatTOML Format = "toml"
)

// ParseFormat validates a format name.
func ParseFormat(s string) (Format, error) {
	switch Format(s) {
	case FormatYAML, "":
		return FormatYAML, nil
	case FormatTOML:
		return FormatTOML, nil
	}
	return "", fmt.Errorf("unknown catalog format %q (expected yaml or toml)", s)
}

// Export writes cat to dir in the layout Load reads, returning the paths
// written. Existing files are overwritten.
func Export(dir string, cat *Catalog, format Format) ([]string, error) {
	if format == "" {
		format = FormatYAML
	}
	if format != FormatYAML && format != FormatTOML {
		return nil, fmt.Errorf("unknown catalog format %q", format)
	}

	var written []string
	write := func(path string, data []byte) error {
		if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
			return fmt.Errorf("creating %s: %w", filepath.Dir(path), err)
		}
		if err := os.WriteFile(path, data, 0o644); err != nil {
			return fmt.Errorf("writing %s: %w", path, err)
		}
		written = append(written, path)
		return nil
	}

	manifest, err := buildManifest(cat)
	if err != nil {
		return nil, err
	}
	if err := write(filepath.Join(dir, manifestFile), manifest); err != nil {
		return nil, err
	}

	for _, p := range cat.Providers() {
		providerDir := filepath.Join(dir, "providers", string(p.Name))

		data, err := yaml.Marshal(&p)
		if err != nil {
			return nil, fmt.Errorf("marshaling provider %s: %w", p.Name, err)
		}
		if err := write(filepath.Join(providerDir, "provider.yaml"), data); err != nil {
			return nil, err
		}

		data, err = encodeModels(cat.ListModels(p.Name), format)
		if err != nil {
			return nil, fmt.Errorf("marshaling models for %s: %w", p.Name, err)
		}
		if err := write(filepath.Join(providerDir, "models."+string(format)), data); err != nil {
			return nil, err
		}
	}

	return written, nil
}

func encodeModels(models []Model, format Format) ([]byte, error) {
	mf := modelsFile{Models: models}
	if format == FormatTOML {
		var buf bytes.Buffer
		if err := toml.NewEncoder(&buf).Encode(mf); err != nil {
			return nil, err
		}
		return buf.Bytes(), nil
	}
	return yaml.Marshal(&mf)
}
