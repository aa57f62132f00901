package catalog

import (
	"embed"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path"
	"sync"

	"github.com/BurntSushi/toml"
	"gopkg.in/yaml.v3"
)

//go:embed data
var builtinData embed.FS

var builtin = sync.OnceValues(func() (*Catalog, error) {
	sub, err := fs.Sub(builtinData, "data")
	if err != nil {
		return nil, err
	}
	return Load(sub)
})

// Builtin returns the catalog shipped with the binary. It is parsed once and
// shared between callers.
func Builtin() (*Catalog, error) {
	cat, err := builtin()
	if err != nil {
		return nil, fmt.Errorf("loading built-in catalog: %w", err)
	}
	return cat, nil
}

// LoadDir reads a catalog from a directory on disk.
func LoadDir(dir string) (*Catalog, error) {
	info, err := os.Stat(dir)
	if err != nil {
		return nil, fmt.Errorf("reading catalog dir: %w", err)
	}
	if !info.IsDir() {
		return nil, fmt.Errorf("catalog path %s is not a directory", dir)
	}
	return Load(os.DirFS(dir))
}

// Load reads an entire catalog from fsys. The layout is:
//
//	manifest.yaml
//	providers/<name>/provider.yaml
//	providers/<name>/models.yaml   (or models.toml)
//
// Providers are read in manifest order.
func Load(fsys fs.FS) (*Catalog, error) {
	manifest, err := readManifest(fsys)
	if err != nil {
		return nil, err
	}

	entries := make([]ProviderModels, 0, len(manifest.Providers))
	for _, key := range manifest.Providers {
		pm, err := loadProvider(fsys, key)
		if err != nil {
			return nil, fmt.Errorf("loading provider %s: %w", key, err)
		}
		entries = append(entries, pm)
	}

	return New(manifest.Version, entries)
}

func loadProvider(fsys fs.FS, key ProviderKey) (ProviderModels, error) {
	dir := path.Join("providers", string(key))
	pm := ProviderModels{}

	data, err := fs.ReadFile(fsys, path.Join(dir, "provider.yaml"))
	if err != nil {
		return pm, fmt.Errorf("reading provider.yaml: %w", err)
	}
	if err := yaml.Unmarshal(data, &pm.Provider); err != nil {
		return pm, fmt.Errorf("parsing provider.yaml: %w", err)
	}
	if pm.Provider.Name == "" {
		pm.Provider.Name = key
	}
	if pm.Provider.Name != key {
		return pm, fmt.Errorf("provider.yaml names %q, directory is %q", pm.Provider.Name, key)
	}

	models, err := loadModels(fsys, dir)
	if err != nil {
		return pm, err
	}
	pm.Models = models
	return pm, nil
}

func loadModels(fsys fs.FS, dir string) ([]Model, error) {
	var mf modelsFile

	data, err := fs.ReadFile(fsys, path.Join(dir, "models.yaml"))
	switch {
	case err == nil:
		if err := yaml.Unmarshal(data, &mf); err != nil {
			return nil, fmt.Errorf("parsing models.yaml: %w", err)
		}
		return mf.Models, nil
	case !errors.Is(err, fs.ErrNotExist):
		return nil, fmt.Errorf("reading models.yaml: %w", err)
	}

	data, err = fs.ReadFile(fsys, path.Join(dir, "models.toml"))
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, nil // A provider may list no models yet
		}
		return nil, fmt.Errorf("reading models.toml: %w", err)
	}
	if _, err := toml.Decode(string(data), &mf); err != nil {
		return nil, fmt.Errorf("parsing models.toml: %w", err)
	}
	return mf.Models, nil
}
