package vault

import (
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"

	dnderr "github.com/Anomanderiz/wdh-character-vault/internal/errors"
)

// Manifest lists the exports of a roster. JSON manifests parse as YAML.
type Manifest struct {
	Characters []ManifestEntry `yaml:"characters"`
}

// ManifestEntry points at one export. ID overrides the export's own ID.
type ManifestEntry struct {
	Path string `yaml:"path"`
	ID   string `yaml:"id,omitempty"`
}

// LoadManifest reads a manifest and resolves entry paths against the
// manifest's directory
func LoadManifest(path string) (*Manifest, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, readError(err, path)
	}

	var manifest Manifest
	if err := yaml.Unmarshal(data, &manifest); err != nil {
		return nil, dnderr.WrapWithCode(err, dnderr.CodeInvalidArgument, "failed to parse manifest").
			WithMeta("path", path)
	}

	base := filepath.Dir(path)
	for i, entry := range manifest.Characters {
		if entry.Path == "" || filepath.IsAbs(entry.Path) {
			continue
		}
		manifest.Characters[i].Path = filepath.Join(base, entry.Path)
	}

	return &manifest, nil
}
