package project

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/BurntSushi/toml"

	"github.com/piwi3910/tessera/internal/model"
)

// profileFile is the on-disk layout: one [[profile]] table per entry.
type profileFile struct {
	Profiles []model.Profile `toml:"profile"`
}

// ProfilesPath returns where custom profiles live for a config file: next
// to it, as profiles.toml.
func ProfilesPath(configPath string) string {
	return filepath.Join(filepath.Dir(configPath), "profiles.toml")
}

// SaveCustomProfiles saves custom profiles to a TOML file.
func SaveCustomProfiles(path string, profiles []model.Profile) error {
	return writeTOML(path, profileFile{Profiles: profiles})
}

// LoadCustomProfiles loads custom profiles from a TOML file. Each entry
// starts from DefaultSettings, so a profile only needs the keys it changes.
// Returns an empty slice if the file does not exist.
func LoadCustomProfiles(path string) ([]model.Profile, error) {
	var count struct {
		Profiles []map[string]any `toml:"profile"`
	}
	if _, err := toml.DecodeFile(path, &count); err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return []model.Profile{}, nil
		}
		return nil, err
	}

	// The decoder reuses a slice with enough capacity, so entries keep the
	// defaults for keys they omit.
	file := profileFile{Profiles: make([]model.Profile, len(count.Profiles))}
	for i := range file.Profiles {
		file.Profiles[i].Settings = model.DefaultSettings()
	}
	if err := readTOML(path, &file); err != nil {
		return nil, err
	}

	for i, p := range file.Profiles {
		if p.Name == "" {
			return nil, fmt.Errorf("profile %d has no name", i+1)
		}
		file.Profiles[i].IsBuiltIn = false
	}
	return file.Profiles, nil
}

// ResolveProfile finds name among the custom profiles stored at path and
// the built-ins.
func ResolveProfile(path, name string) (model.Profile, error) {
	custom, err := LoadCustomProfiles(path)
	if err != nil {
		return model.Profile{}, err
	}
	p, ok := model.FindProfile(name, custom)
	if !ok {
		return model.Profile{}, fmt.Errorf("unknown profile %q (available: %v)", name, model.ProfileNames(custom))
	}
	return p, nil
}
