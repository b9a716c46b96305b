package cli

import (
	"context"
	"errors"
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/piwi3910/tessera/internal/engine"
	"github.com/piwi3910/tessera/internal/export"
	"github.com/piwi3910/tessera/internal/model"
)

// tileCommand searches a lattice tiling for the first asset in a file.
func (c *CLI) tileCommand() *cobra.Command {
	var opts outputOpts
	var index int

	cmd := &cobra.Command{
		Use:   "tile [file]",
		Short: "Find the best lattice tiling for one asset",
		Long: `Imports a DXF outline or shape list, scores every lattice configuration for
the selected asset and writes the coverage PNG, a PDF report and the
leaderboard as XLSX.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := c.loadConfig(cmd, &opts)
			if err != nil {
				return err
			}
			return c.runTile(cmd.Context(), cmd.OutOrStdout(), args[0], index, cfg)
		},
	}

	opts.register(cmd)
	cmd.Flags().IntVar(&index, "index", 0, "which imported asset to tile (0-based)")

	return cmd
}

func (c *CLI) runTile(ctx context.Context, w io.Writer, input string, index int, cfg model.AppConfig) error {
	assets, err := c.importAssets(input, cfg.DXFScale)
	if err != nil {
		return err
	}
	if index < 0 || index >= len(assets) {
		return fmt.Errorf("asset index %d out of range: %d assets imported", index, len(assets))
	}
	asset := assets[index]

	searcher := engine.New(cfg.Settings)
	result, board, err := searcher.SearchTiling(ctx, asset)
	if err != nil {
		return err
	}
	if !result.Found() {
		return errors.New("no tiling configuration found")
	}

	printSuccess(w, "Tiling found for %s", asset.Label)
	printKeyValue(w, "delta1", fmt.Sprintf("%d,%d", result.Config.Delta1.X, result.Config.Delta1.Y))
	printKeyValue(w, "delta2", fmt.Sprintf("%d,%d", result.Config.Delta2.X, result.Config.Delta2.Y))
	printKeyValue(w, "score", fmt.Sprintf("%.4f", result.Score))
	printKeyValue(w, "evaluated", fmt.Sprintf("%d configs", result.Evaluated))

	pngPath, err := outputPath(cfg.OutputDir, input, "-tiling.png")
	if err != nil {
		return err
	}
	if err := export.WritePNG(pngPath, export.CoverageImage(result.Canvas)); err != nil {
		return err
	}
	printFile(w, pngPath)

	if cfg.WritePDF {
		pdfPath, err := outputPath(cfg.OutputDir, input, "-tiling.pdf")
		if err != nil {
			return err
		}
		if err := export.ExportTilingPDF(pdfPath, asset, result, board.Entries()); err != nil {
			return err
		}
		printFile(w, pdfPath)
	}

	if cfg.WriteXLSX && len(board.Entries()) > 0 {
		xlsxPath, err := outputPath(cfg.OutputDir, input, "-leaderboard.xlsx")
		if err != nil {
			return err
		}
		if err := export.ExportLeaderboardXLSX(xlsxPath, board.Entries()); err != nil {
			return err
		}
		printFile(w, xlsxPath)
	}

	return nil
}
