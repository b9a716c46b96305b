// Package cli implements the tessera command-line interface.
package cli

import (
	"fmt"
	"image"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"github.com/piwi3910/tessera/internal/importer"
	"github.com/piwi3910/tessera/internal/logging"
	"github.com/piwi3910/tessera/internal/model"
	"github.com/piwi3910/tessera/internal/project"
)

// Log levels exported for use in main.go.
const (
	LogDebug = log.DebugLevel
	LogInfo  = log.InfoLevel
)

var version = "dev"

// SetVersion sets the version shown by --version.
func SetVersion(v string) {
	version = v
}

// CLI holds shared state for all commands.
type CLI struct {
	Logger *log.Logger

	configPath string
	profile    string
}

// New creates a new CLI instance logging to w.
func New(w io.Writer, level log.Level) *CLI {
	return &CLI{Logger: logging.New(w, level)}
}

// SetLogLevel updates the logger's level.
func (c *CLI) SetLogLevel(level log.Level) {
	c.Logger.SetLevel(level)
}

// RootCommand creates the root cobra command with all subcommands registered.
func (c *CLI) RootCommand() *cobra.Command {
	root := &cobra.Command{
		Use:          "tessera",
		Short:        "Tessera tiles and places masked assets on a canvas",
		Long:         `Tessera searches lattice tilings for a single asset and packs several assets onto a canvas without overlap, writing PNG, PDF and XLSX reports.`,
		Version:      version,
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			cmd.SetContext(logging.WithLogger(cmd.Context(), c.Logger))
			return nil
		},
	}

	root.PersistentFlags().StringVar(&c.configPath, "config", project.DefaultConfigPath(), "config file (TOML)")
	root.PersistentFlags().StringVar(&c.profile, "profile", "", "named settings profile (see 'tessera profiles')")

	root.AddCommand(c.tileCommand())
	root.AddCommand(c.placeCommand())
	root.AddCommand(c.compareCommand())
	root.AddCommand(c.profilesCommand())
	root.AddCommand(c.configCommand())

	return root
}

func (c *CLI) profilesPath() string {
	return project.ProfilesPath(c.configPath)
}

// outputOpts holds the flags shared by commands that write reports.
type outputOpts struct {
	out      string  // output directory, overrides the config
	scale    float64 // DXF pixels per drawing unit
	strategy string  // placement strategy
	proposal string  // proposal mode
	grid     string  // grid proposal size, e.g. "3x3"
	seed     int64   // random proposal seed
}

func (o *outputOpts) register(cmd *cobra.Command) {
	cmd.Flags().StringVarP(&o.out, "out", "o", "", "output directory (default from config)")
	cmd.Flags().Float64Var(&o.scale, "scale", 0, "DXF pixels per drawing unit (default from config)")
	cmd.Flags().StringVar(&o.strategy, "strategy", "", "placement strategy: tightest, first-fit")
	cmd.Flags().StringVar(&o.proposal, "proposal", "", "proposal mode: grid, random")
	cmd.Flags().StringVar(&o.grid, "grid", "", "grid proposal size as COLSxROWS, e.g. 5x5")
	cmd.Flags().Int64Var(&o.seed, "seed", 0, "random proposal seed")
}

// loadConfig reads the config file, applies the selected profile and then
// any flags set on cmd.
func (c *CLI) loadConfig(cmd *cobra.Command, o *outputOpts) (model.AppConfig, error) {
	cfg, err := project.LoadAppConfig(c.configPath)
	if err != nil {
		return model.AppConfig{}, fmt.Errorf("load config: %w", err)
	}

	if c.profile != "" {
		p, err := project.ResolveProfile(c.profilesPath(), c.profile)
		if err != nil {
			return model.AppConfig{}, err
		}
		cfg.Settings = p.Settings
		c.Logger.Debug("using profile", "name", p.Name)
	}

	flags := cmd.Flags()
	if flags.Changed("out") {
		cfg.OutputDir = o.out
	}
	if flags.Changed("scale") {
		cfg.DXFScale = o.scale
	}
	if flags.Changed("strategy") {
		s, err := parseStrategy(o.strategy)
		if err != nil {
			return model.AppConfig{}, err
		}
		cfg.Settings.Strategy = s
	}
	if flags.Changed("proposal") {
		p, err := parseProposal(o.proposal)
		if err != nil {
			return model.AppConfig{}, err
		}
		cfg.Settings.Proposal = p
	}
	if flags.Changed("grid") {
		g, err := parseGrid(o.grid)
		if err != nil {
			return model.AppConfig{}, err
		}
		cfg.Settings.GridSize = g
	}
	if flags.Changed("seed") {
		cfg.Settings.Seed = o.seed
	}
	return cfg, nil
}

// importAssets picks the importer by file extension and logs its warnings.
// It fails only when nothing could be imported.
func (c *CLI) importAssets(path string, scale float64) ([]model.Asset, error) {
	var res importer.ImportResult
	switch strings.ToLower(filepath.Ext(path)) {
	case ".dxf":
		res = importer.ImportDXF(path, scale)
	case ".csv", ".txt":
		res = importer.ImportCSV(path)
	case ".xlsx", ".xlsm":
		res = importer.ImportExcel(path)
	default:
		return nil, fmt.Errorf("unsupported input %q: expected .dxf, .csv or .xlsx", filepath.Base(path))
	}

	for _, w := range res.Warnings {
		c.Logger.Warn(w, "file", filepath.Base(path))
	}
	for _, e := range res.Errors {
		c.Logger.Error(e, "file", filepath.Base(path))
	}
	if len(res.Assets) == 0 {
		return nil, fmt.Errorf("no assets imported from %s", filepath.Base(path))
	}
	c.Logger.Info("imported assets", "file", filepath.Base(path), "count", len(res.Assets))
	return res.Assets, nil
}

// outputPath joins the output directory with the input base name and suffix,
// creating the directory when needed.
func outputPath(dir, input, suffix string) (string, error) {
	if err := os.MkdirAll(dir, 0755); err != nil {
		return "", err
	}
	base := strings.TrimSuffix(filepath.Base(input), filepath.Ext(input))
	return filepath.Join(dir, base+suffix), nil
}

func parseStrategy(s string) (model.Strategy, error) {
	switch model.Strategy(s) {
	case model.StrategyTightest, model.StrategyFirstFit:
		return model.Strategy(s), nil
	}
	return "", fmt.Errorf("unknown strategy %q: expected tightest or first-fit", s)
}

func parseProposal(s string) (model.ProposalMode, error) {
	switch model.ProposalMode(s) {
	case model.ProposalGrid, model.ProposalRandom:
		return model.ProposalMode(s), nil
	}
	return "", fmt.Errorf("unknown proposal mode %q: expected grid or random", s)
}

// parseGrid parses "COLSxROWS". A single number means a square grid.
func parseGrid(s string) (image.Point, error) {
	cols, rows, found := strings.Cut(strings.ToLower(s), "x")
	if !found {
		rows = cols
	}
	x, errX := strconv.Atoi(strings.TrimSpace(cols))
	y, errY := strconv.Atoi(strings.TrimSpace(rows))
	if errX != nil || errY != nil {
		return image.Point{}, fmt.Errorf("invalid grid %q: expected COLSxROWS", s)
	}
	return image.Pt(x, y), nil
}
