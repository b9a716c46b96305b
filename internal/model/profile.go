package model

import "image"

// Profile is a named set of search settings.
type Profile struct {
	Name        string   `toml:"name"`
	Description string   `toml:"description"`
	IsBuiltIn   bool     `toml:"-"`
	Settings    Settings `toml:"settings"`
}

// BuiltInProfiles lists the shipped presets. "default" is always first.
func BuiltInProfiles() []Profile {
	fast := DefaultSettings()
	fast.LatticeStep = 64
	fast.LatticeSteps = 4
	fast.RenderWindow = 10
	fast.Attempts = 25

	thorough := DefaultSettings()
	thorough.LatticeStep = 16
	thorough.LatticeSteps = 16
	thorough.GridSize = image.Pt(5, 5)
	thorough.Attempts = 500
	thorough.LeaderboardSize = 25

	return []Profile{
		{Name: "default", Description: "Balanced lattice and placement search", IsBuiltIn: true, Settings: DefaultSettings()},
		{Name: "fast", Description: "Coarse 64px lattice and a small render window", IsBuiltIn: true, Settings: fast},
		{Name: "thorough", Description: "Fine 16px lattice and a 5x5 placement grid", IsBuiltIn: true, Settings: thorough},
	}
}

// FindProfile looks name up among custom profiles first, then the built-ins.
func FindProfile(name string, custom []Profile) (Profile, bool) {
	for _, p := range custom {
		if p.Name == name {
			return p, true
		}
	}
	for _, p := range BuiltInProfiles() {
		if p.Name == name {
			return p, true
		}
	}
	return Profile{}, false
}

// ProfileNames returns the built-in names followed by the custom ones.
func ProfileNames(custom []Profile) []string {
	var names []string
	for _, p := range BuiltInProfiles() {
		names = append(names, p.Name)
	}
	for _, p := range custom {
		names = append(names, p.Name)
	}
	return names
}
