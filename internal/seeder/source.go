package seeder

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"

	"github.com/trackline/trackline-backend/internal/types"
)

// Manifest names the seed files inside a content directory. Kinds are
// seeded parents first regardless of manifest order, so the file list is
// just a table of contents.
type Manifest struct {
	Version int `yaml:"version"`
	Files   struct {
		Tracks  string `yaml:"tracks"`
		Series  string `yaml:"series"`
		Lessons string `yaml:"lessons"`
		Videos  string `yaml:"videos"`
	} `yaml:"files"`
}

const manifestName = "manifest.yaml"

// LoadBundle reads manifest.yaml from dir and the JSON files it names.
// Unnamed kinds are simply absent from the bundle. Parse failures are
// loader errors, not per-record ones; nothing has reached the store yet.
func LoadBundle(dir string) (*types.SeedBundle, error) {
	raw, err := os.ReadFile(filepath.Join(dir, manifestName))
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", manifestName, err)
	}
	var manifest Manifest
	if err := yaml.Unmarshal(raw, &manifest); err != nil {
		return nil, fmt.Errorf("parse %s: %w", manifestName, err)
	}

	bundle := &types.SeedBundle{}
	if manifest.Files.Tracks != "" {
		if err := readJSONFile(dir, manifest.Files.Tracks, &bundle.Tracks); err != nil {
			return nil, err
		}
	}
	if manifest.Files.Series != "" {
		if err := readJSONFile(dir, manifest.Files.Series, &bundle.Series); err != nil {
			return nil, err
		}
	}
	if manifest.Files.Lessons != "" {
		if err := readJSONFile(dir, manifest.Files.Lessons, &bundle.Lessons); err != nil {
			return nil, err
		}
	}
	if manifest.Files.Videos != "" {
		if err := readJSONFile(dir, manifest.Files.Videos, &bundle.Videos); err != nil {
			return nil, err
		}
	}
	return bundle, nil
}

func readJSONFile(dir, name string, out interface{}) error {
	raw, err := os.ReadFile(filepath.Join(dir, name))
	if err != nil {
		return fmt.Errorf("read %s: %w", name, err)
	}
	if err := json.Unmarshal(raw, out); err != nil {
		return fmt.Errorf("parse %s: %w", name, err)
	}
	return nil
}
