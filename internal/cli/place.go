package cli

import (
	"context"
	"fmt"
	"io"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/piwi3910/tessera/internal/engine"
	"github.com/piwi3910/tessera/internal/export"
	"github.com/piwi3910/tessera/internal/model"
)

// placeCommand packs every asset from a file onto one canvas.
func (c *CLI) placeCommand() *cobra.Command {
	var opts outputOpts
	var labels bool

	cmd := &cobra.Command{
		Use:   "place [file]",
		Short: "Place every asset onto a canvas without overlap",
		Long: `Imports all assets from a DXF file or shape list and places them one after
another onto an empty canvas. Assets that do not fit are skipped. Writes the
composited PNG, a PDF report, optional sheet labels and the placements as XLSX.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := c.loadConfig(cmd, &opts)
			if err != nil {
				return err
			}
			return c.runPlace(cmd.Context(), cmd.OutOrStdout(), args[0], labels, cfg)
		},
	}

	opts.register(cmd)
	cmd.Flags().BoolVar(&labels, "labels", false, "also write a PDF of QR-coded labels for placed assets")

	return cmd
}

func (c *CLI) runPlace(ctx context.Context, w io.Writer, input string, labels bool, cfg model.AppConfig) error {
	assets, err := c.importAssets(input, cfg.DXFScale)
	if err != nil {
		return err
	}

	searcher := engine.New(cfg.Settings)
	results, final, err := searcher.PlaceAll(ctx, searcher.NewPlacementCanvas(), assets)
	if err != nil {
		return err
	}

	placed := len(export.CollectLabelInfos(results))
	printSuccess(w, "Placed %d of %d assets", placed, len(assets))

	pngPath, err := outputPath(cfg.OutputDir, input, "-placement.png")
	if err != nil {
		return err
	}
	if err := export.WritePNG(pngPath, final); err != nil {
		return err
	}
	printFile(w, pngPath)

	if cfg.WritePDF {
		pdfPath, err := outputPath(cfg.OutputDir, input, "-placement.pdf")
		if err != nil {
			return err
		}
		if err := export.ExportPlacementPDF(pdfPath, results, final); err != nil {
			return err
		}
		printFile(w, pdfPath)
	}

	if labels {
		if placed == 0 {
			c.Logger.Warn("no placed assets, skipping labels")
		} else {
			labelPath, err := outputPath(cfg.OutputDir, input, "-labels.pdf")
			if err != nil {
				return err
			}
			if err := export.ExportLabels(labelPath, results); err != nil {
				return err
			}
			printFile(w, labelPath)
		}
	}

	if cfg.WriteXLSX {
		xlsxPath, err := outputPath(cfg.OutputDir, input, "-placements.xlsx")
		if err != nil {
			return err
		}
		if err := export.ExportPlacementsXLSX(xlsxPath, results); err != nil {
			return err
		}
		printFile(w, xlsxPath)
	}

	return nil
}

// compareCommand places assets one after another and reports how each
// strategy would have handled every step.
func (c *CLI) compareCommand() *cobra.Command {
	var opts outputOpts

	cmd := &cobra.Command{
		Use:   "compare [file]",
		Short: "Compare placement strategies on the same proposals",
		Long: `Places the assets of a file one after another. At every step first-fit and
tightest are run over the same proposals and printed side by side; the
configured strategy's placement is kept for the next step.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := c.loadConfig(cmd, &opts)
			if err != nil {
				return err
			}
			return c.runCompare(cmd.Context(), cmd.OutOrStdout(), args[0], cfg)
		},
	}

	opts.register(cmd)

	return cmd
}

func (c *CLI) runCompare(ctx context.Context, w io.Writer, input string, cfg model.AppConfig) error {
	assets, err := c.importAssets(input, cfg.DXFScale)
	if err != nil {
		return err
	}

	searcher := engine.New(cfg.Settings)
	canvas := searcher.NewPlacementCanvas()

	t := newTable("#", "Asset", "Strategy", "Placed", "Offset", "Tightness", "Coverage")
	for i, a := range assets {
		results, err := searcher.Compare(ctx, canvas, a)
		if err != nil {
			return err
		}
		for _, r := range results {
			placed, offset := "no", "-"
			if r.Placed {
				placed, offset = "yes", fmt.Sprintf("%d,%d", r.Offset.X, r.Offset.Y)
			}
			t.Row(strconv.Itoa(i+1), a.Label, r.Scenario.Name, placed, offset,
				strconv.Itoa(r.Tightness), fmt.Sprintf("%.1f%%", r.Coverage*100))
		}
		// Scenarios are ordered with the configured strategy first.
		if kept := results[0].Result; kept != nil {
			canvas = kept.Image
		}
	}
	printTable(w, t)
	return nil
}
