// Package catalogfile persists catalog collections as JSON or YAML files.
//
// The format is chosen by file extension: .yaml and .yml use YAML, anything
// else uses compact JSON arrays. Writes go to a temporary file in the same
// directory and are renamed into place.
package catalogfile

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/goccy/go-yaml"

	"github.com/gachadex/catalogsync/internal/core/domain"
	"github.com/gachadex/catalogsync/internal/core/ports/driven"
)

// Ensure Files implements the interface.
var _ driven.CatalogFiles = (*Files)(nil)

// Files reads and writes the catalog files named in PathSettings.
type Files struct {
	paths domain.PathSettings
}

// New creates catalog file storage for the given paths.
func New(paths domain.PathSettings) *Files {
	return &Files{paths: paths}
}

// LoadCharacters reads the characters file.
func (f *Files) LoadCharacters() ([]domain.Character, error) {
	return Read[domain.Character](f.paths.Characters)
}

// SaveCharacters writes the characters file.
func (f *Files) SaveCharacters(characters []domain.Character) error {
	return Write(f.paths.Characters, characters)
}

// LoadWeapons reads the weapons file.
func (f *Files) LoadWeapons() ([]domain.Weapon, error) {
	return Read[domain.Weapon](f.paths.Weapons)
}

// SaveWeapons writes the weapons file.
func (f *Files) SaveWeapons(weapons []domain.Weapon) error {
	return Write(f.paths.Weapons, weapons)
}

// LoadAvatars reads the avatars file.
func (f *Files) LoadAvatars() ([]domain.Avatar, error) {
	return Read[domain.Avatar](f.paths.Avatars)
}

// SaveAvatars writes the avatars file.
func (f *Files) SaveAvatars(avatars []domain.Avatar) error {
	return Write(f.paths.Avatars, avatars)
}

// Read decodes a collection from path. A missing file is an empty collection.
func Read[T any](path string) ([]T, error) {
	if path == "" {
		return nil, fmt.Errorf("%w: empty catalog path", domain.ErrMissingConfig)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return []T{}, nil
		}
		return nil, fmt.Errorf("reading %s: %w", path, err)
	}

	items := []T{}
	if len(strings.TrimSpace(string(data))) == 0 {
		return items, nil
	}

	if isYAML(path) {
		err = yaml.Unmarshal(data, &items)
	} else {
		err = json.Unmarshal(data, &items)
	}
	if err != nil {
		return nil, fmt.Errorf("decoding %s: %w", path, err)
	}
	return items, nil
}

// Write encodes items to path, replacing the file atomically.
func Write[T any](path string, items []T) error {
	if path == "" {
		return fmt.Errorf("%w: empty catalog path", domain.ErrMissingConfig)
	}
	if items == nil {
		items = []T{}
	}

	var data []byte
	var err error
	if isYAML(path) {
		data, err = yaml.Marshal(items)
	} else {
		data, err = json.Marshal(items)
	}
	if err != nil {
		return fmt.Errorf("encoding %s: %w", path, err)
	}

	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("creating %s: %w", dir, err)
	}

	tmp, err := os.CreateTemp(dir, "."+filepath.Base(path)+".*")
	if err != nil {
		return fmt.Errorf("creating temp file: %w", err)
	}
	defer os.Remove(tmp.Name()) //nolint:errcheck // no-op after a successful rename

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		return fmt.Errorf("writing %s: %w", path, err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("closing %s: %w", path, err)
	}
	if err := os.Chmod(tmp.Name(), 0644); err != nil {
		return fmt.Errorf("setting permissions on %s: %w", path, err)
	}
	if err := os.Rename(tmp.Name(), path); err != nil {
		return fmt.Errorf("replacing %s: %w", path, err)
	}
	return nil
}

func isYAML(path string) bool {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		return true
	default:
		return false
	}
}
