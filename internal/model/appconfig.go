package model

import "image"

// Settings holds the search parameters for tiling and placement.
type Settings struct {
	// Tiling search
	TileCanvas      image.Point `toml:"tile_canvas"`      // Accumulator size for lattice scoring
	LatticeStep     int         `toml:"lattice_step"`     // Spacing of candidate vector components (px)
	LatticeSteps    int         `toml:"lattice_steps"`    // Candidate values per axis
	RenderWindow    int         `toml:"render_window"`    // Stamp indices run over [-RenderWindow, RenderWindow)
	LeaderboardSize int         `toml:"leaderboard_size"` // Ranked configs kept for reports, 0 = disabled

	// Placement search
	PlaceCanvas     image.Point  `toml:"place_canvas"`     // Composited canvas size
	Strategy        Strategy     `toml:"strategy"`         // "first-fit" or "tightest"
	Proposal        ProposalMode `toml:"proposal"`         // "grid" or "random"
	GridSize        image.Point  `toml:"grid_size"`        // Grid proposal resolution, each axis > 1
	Attempts        int          `toml:"attempts"`         // Random proposal count
	Seed            int64        `toml:"seed"`             // Random proposal seed
	TightnessRadius int          `toml:"tightness_radius"` // Dilation radius for tightness scoring
}

func DefaultSettings() Settings {
	return Settings{
		TileCanvas:      image.Pt(256, 256),
		LatticeStep:     32,
		LatticeSteps:    8,
		RenderWindow:    20,
		LeaderboardSize: 10,
		PlaceCanvas:     image.Pt(512, 512),
		Strategy:        StrategyTightest,
		Proposal:        ProposalGrid,
		GridSize:        image.Pt(3, 3),
		Attempts:        100,
		Seed:            42,
		TightnessRadius: 10,
	}
}

// AppConfig holds application-wide preferences and default settings.
type AppConfig struct {
	Settings Settings `toml:"settings"`

	// Output preferences
	OutputDir string  `toml:"output_dir"` // Where CLI outputs are written
	DXFScale  float64 `toml:"dxf_scale"`  // Pixels per DXF drawing unit
	WritePDF  bool    `toml:"write_pdf"`
	WriteXLSX bool    `toml:"write_xlsx"`
}

// DefaultAppConfig returns an AppConfig populated with DefaultSettings and
// all report outputs enabled.
func DefaultAppConfig() AppConfig {
	return AppConfig{
		Settings:  DefaultSettings(),
		OutputDir: ".",
		DXFScale:  1.0,
		WritePDF:  true,
		WriteXLSX: true,
	}
}
