package export

import (
	"fmt"

	"github.com/xuri/excelize/v2"

	"github.com/piwi3910/tessera/internal/engine"
	"github.com/piwi3910/tessera/internal/model"
)

const (
	leaderboardSheet = "Leaderboard"
	placementsSheet  = "Placements"
)

// ExportLeaderboardXLSX writes ranked tiling configs to a workbook, best first.
func ExportLeaderboardXLSX(path string, board []engine.Ranked[model.TilingConfig]) error {
	if len(board) == 0 {
		return fmt.Errorf("no leaderboard entries to export")
	}

	rows := [][]any{{"Rank", "Delta1 X", "Delta1 Y", "Delta2 X", "Delta2 Y", "Cross", "Score", "Evaluated #"}}
	for i, e := range board {
		rows = append(rows, []any{
			i + 1,
			e.Item.Delta1.X, e.Item.Delta1.Y,
			e.Item.Delta2.X, e.Item.Delta2.Y,
			e.Item.Cross(),
			e.Score,
			e.Seq + 1,
		})
	}
	return writeWorkbook(path, leaderboardSheet, rows)
}

// ExportPlacementsXLSX writes one row per asset. Skipped assets keep their
// row with Placed = "no".
func ExportPlacementsXLSX(path string, results []*model.PlacementResult) error {
	if len(results) == 0 {
		return fmt.Errorf("no placements to export")
	}

	rows := [][]any{{"#", "Asset", "Placed", "X", "Y", "Width", "Height", "Tightness", "Strategy"}}
	for i, r := range results {
		if r == nil {
			rows = append(rows, []any{i + 1, "", "no"})
			continue
		}
		rows = append(rows, []any{
			i + 1, r.AssetID, "yes",
			r.Offset.X, r.Offset.Y,
			r.Size.X, r.Size.Y,
			r.Tightness, string(r.Strategy),
		})
	}
	return writeWorkbook(path, placementsSheet, rows)
}

// writeWorkbook writes rows to a single-sheet workbook with a bold header row.
func writeWorkbook(path, sheet string, rows [][]any) error {
	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetName(f.GetSheetName(0), sheet); err != nil {
		return fmt.Errorf("failed to name sheet: %w", err)
	}

	for i, row := range rows {
		for j, cell := range row {
			cellRef, err := excelize.CoordinatesToCellName(j+1, i+1)
			if err != nil {
				return fmt.Errorf("failed to create cell reference: %w", err)
			}
			if err := f.SetCellValue(sheet, cellRef, cell); err != nil {
				return fmt.Errorf("failed to set cell %s: %w", cellRef, err)
			}
		}
	}

	bold, err := f.NewStyle(&excelize.Style{Font: &excelize.Font{Bold: true}})
	if err != nil {
		return fmt.Errorf("failed to create header style: %w", err)
	}
	lastCol, err := excelize.CoordinatesToCellName(len(rows[0]), 1)
	if err != nil {
		return fmt.Errorf("failed to create cell reference: %w", err)
	}
	if err := f.SetCellStyle(sheet, "A1", lastCol, bold); err != nil {
		return fmt.Errorf("failed to style header: %w", err)
	}

	if err := f.SaveAs(path); err != nil {
		return fmt.Errorf("failed to save workbook: %w", err)
	}
	return nil
}
