package application

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/bmatcuk/doublestar/v4"
	"github.com/bytedance/sonic"
	"github.com/goccy/go-yaml"
	"github.com/pelletier/go-toml/v2"
)

// Scheme is the reserved URL scheme packaged applications are served under.
const Scheme = "app"

// Manifest declares a packaged application: its identity, entry point, and
// the external URLs its pages are allowed to open.
type Manifest struct {
	Name        string   `json:"name" yaml:"name" toml:"name"`
	Version     string   `json:"version" yaml:"version" toml:"version"`
	StartURL    string   `json:"start_url" yaml:"start_url" toml:"start_url"`
	Icon        string   `json:"icon,omitempty" yaml:"icon,omitempty" toml:"icon,omitempty"`
	Permissions []string `json:"permissions,omitempty" yaml:"permissions,omitempty" toml:"permissions,omitempty"`

	// AllowedURLs lists glob patterns for URLs the application may open
	// outside its own origin, e.g. "https://*.example.com/**".
	AllowedURLs []string `json:"allowed_urls,omitempty" yaml:"allowed_urls,omitempty" toml:"allowed_urls,omitempty"`
}

// manifestNames are the file names the installer and discovery recognize.
var manifestNames = []string{"manifest.json", "manifest.yaml", "manifest.yml", "manifest.toml"}

// LoadManifest reads and validates a manifest file, choosing the decoder by
// extension.
func LoadManifest(path string) (*Manifest, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read manifest: %w", err)
	}

	var m Manifest
	switch ext := strings.ToLower(filepath.Ext(path)); ext {
	case ".json":
		err = sonic.Unmarshal(data, &m)
	case ".yaml", ".yml":
		err = yaml.Unmarshal(data, &m)
	case ".toml":
		err = toml.Unmarshal(data, &m)
	default:
		return nil, fmt.Errorf("unsupported manifest format %q", ext)
	}
	if err != nil {
		return nil, fmt.Errorf("parse manifest: %w", err)
	}

	if err := m.Validate(); err != nil {
		return nil, err
	}
	return &m, nil
}

// Validate checks the manifest for required fields and well-formed URL
// patterns.
func (m *Manifest) Validate() error {
	if m.Name == "" {
		return fmt.Errorf("manifest: name is required")
	}
	if m.StartURL == "" {
		return fmt.Errorf("manifest: start_url is required")
	}
	for _, pattern := range m.AllowedURLs {
		if !doublestar.ValidatePattern(pattern) {
			return fmt.Errorf("manifest: invalid allowed_urls pattern %q", pattern)
		}
	}
	return nil
}
