package catalog

import (
	"fmt"
	"io/fs"

	"gopkg.in/yaml.v3"
)

// SchemaVersion is the catalog layout version written by Export.
const SchemaVersion = "1.0"

const manifestFile = "manifest.yaml"

const manifestHeader = "# Model Catalog Manifest\n# Provider order here is presentation order.\n\n"

// Manifest represents the manifest.yaml file at the catalog root.
type Manifest struct {
	Version       string        `yaml:"version"`
	SchemaVersion string        `yaml:"schema_version"`
	Providers     []ProviderKey `yaml:"providers"`
}

func readManifest(fsys fs.FS) (*Manifest, error) {
	data, err := fs.ReadFile(fsys, manifestFile)
	if err != nil {
		return nil, fmt.Errorf("reading %s: %w", manifestFile, err)
	}
	var m Manifest
	if err := yaml.Unmarshal(data, &m); err != nil {
		return nil, fmt.Errorf("parsing %s: %w", manifestFile, err)
	}
	if m.SchemaVersion != "" && m.SchemaVersion != SchemaVersion {
		return nil, fmt.Errorf("unsupported schema_version %q (want %s)", m.SchemaVersion, SchemaVersion)
	}
	if len(m.Providers) == 0 {
		return nil, fmt.Errorf("%s lists no providers", manifestFile)
	}
	return &m, nil
}

func buildManifest(cat *Catalog) ([]byte, error) {
	m := Manifest{
		Version:       cat.Version(),
		SchemaVersion: SchemaVersion,
		Providers:     cat.ListProviders(),
	}
	data, err := yaml.Marshal(&m)
	if err != nil {
		return nil, fmt.Errorf("marshaling manifest: %w", err)
	}
	return append([]byte(manifestHeader), data...), nil
}
