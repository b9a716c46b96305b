package project

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/piwi3910/tessera/internal/model"
)

func TestSaveAndLoadCustomProfiles(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "profiles.toml")

	wide := model.DefaultSettings()
	wide.TileCanvas.X = 512
	wide.LatticeStep = 48

	profiles := []model.Profile{
		{Name: "wide", Description: "Wide tiles", Settings: wide},
		{Name: "random", Description: "Random proposals", IsBuiltIn: true, Settings: model.DefaultSettings()},
	}
	profiles[1].Settings.Proposal = model.ProposalRandom

	if err := SaveCustomProfiles(path, profiles); err != nil {
		t.Fatalf("SaveCustomProfiles failed: %v", err)
	}

	loaded, err := LoadCustomProfiles(path)
	if err != nil {
		t.Fatalf("LoadCustomProfiles failed: %v", err)
	}
	if len(loaded) != 2 {
		t.Fatalf("expected 2 profiles, got %d", len(loaded))
	}
	if loaded[0].Name != "wide" || loaded[0].Settings != wide {
		t.Errorf("first profile mismatch: %+v", loaded[0])
	}
	if loaded[1].Settings.Proposal != model.ProposalRandom {
		t.Errorf("expected random proposals, got %s", loaded[1].Settings.Proposal)
	}
	for _, p := range loaded {
		if p.IsBuiltIn {
			t.Errorf("loaded profile %q should not be built-in", p.Name)
		}
	}
}

func TestLoadCustomProfilesMissingFile(t *testing.T) {
	profiles, err := LoadCustomProfiles(filepath.Join(t.TempDir(), "profiles.toml"))
	if err != nil {
		t.Fatalf("expected no error, got: %v", err)
	}
	if profiles == nil || len(profiles) != 0 {
		t.Errorf("expected empty non-nil slice, got %v", profiles)
	}
}

func TestLoadCustomProfilesPartialSettings(t *testing.T) {
	path := filepath.Join(t.TempDir(), "profiles.toml")
	data := `
[[profile]]
name = "coarse"

[profile.settings]
lattice_step = 64

[[profile]]
name = "plain"
`
	if err := os.WriteFile(path, []byte(data), 0644); err != nil {
		t.Fatal(err)
	}

	profiles, err := LoadCustomProfiles(path)
	if err != nil {
		t.Fatalf("LoadCustomProfiles failed: %v", err)
	}
	if len(profiles) != 2 {
		t.Fatalf("expected 2 profiles, got %d", len(profiles))
	}

	defaults := model.DefaultSettings()
	if profiles[0].Settings.LatticeStep != 64 {
		t.Errorf("expected lattice step 64, got %d", profiles[0].Settings.LatticeStep)
	}
	if profiles[0].Settings.LatticeSteps != defaults.LatticeSteps {
		t.Errorf("expected default lattice steps, got %d", profiles[0].Settings.LatticeSteps)
	}
	if profiles[1].Settings != defaults {
		t.Errorf("expected defaults for a profile without settings, got %+v", profiles[1].Settings)
	}
}

func TestLoadCustomProfilesRejectsUnnamed(t *testing.T) {
	path := filepath.Join(t.TempDir(), "profiles.toml")
	if err := os.WriteFile(path, []byte("[[profile]]\ndescription = \"nameless\"\n"), 0644); err != nil {
		t.Fatal(err)
	}

	if _, err := LoadCustomProfiles(path); err == nil {
		t.Fatal("expected an error for a profile without a name")
	}
}

func TestResolveProfile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "profiles.toml")
	custom := model.DefaultSettings()
	custom.LatticeStep = 8
	if err := SaveCustomProfiles(path, []model.Profile{{Name: "fast", Settings: custom}}); err != nil {
		t.Fatal(err)
	}

	p, err := ResolveProfile(path, "fast")
	if err != nil {
		t.Fatalf("ResolveProfile failed: %v", err)
	}
	if p.Settings.LatticeStep != 8 {
		t.Errorf("custom profile should shadow the built-in, got step %d", p.Settings.LatticeStep)
	}

	p, err = ResolveProfile(path, "thorough")
	if err != nil {
		t.Fatalf("ResolveProfile failed: %v", err)
	}
	if !p.IsBuiltIn {
		t.Error("expected the built-in thorough profile")
	}

	_, err = ResolveProfile(path, "missing")
	if err == nil || !strings.Contains(err.Error(), "missing") {
		t.Errorf("expected unknown profile error, got %v", err)
	}
}

func TestProfilesPathSitsNextToConfig(t *testing.T) {
	got := ProfilesPath(filepath.Join("etc", "tessera", "config.toml"))
	if want := filepath.Join("etc", "tessera", "profiles.toml"); got != want {
		t.Errorf("ProfilesPath = %q, want %q", got, want)
	}
}
