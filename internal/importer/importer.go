// Package importer turns external shape descriptions into assets: DXF
// outlines and CSV or Excel shape lists. It never decodes raster image
// formats.
package importer

import (
	"bytes"
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/xuri/excelize/v2"

	"github.com/piwi3910/tessera/internal/model"
)

// ImportResult collects the assets of one import along with per-row
// problems. Errors drop the affected row; warnings do not.
type ImportResult struct {
	Assets   []model.Asset
	Errors   []string
	Warnings []string
}

// delimiters are tried in order; the first wins a tie.
var delimiters = []struct {
	r    rune
	name string
}{{',', "comma"}, {';', "semicolon"}, {'\t', "tab"}, {'|', "pipe"}}

// sniffLines bounds how many lines DetectCSVDelimiter inspects.
const sniffLines = 20

// DetectCSVDelimiter guesses the field separator from the first lines of
// data. A delimiter that appears the same non-zero number of times on every
// inspected line beats one that does not; among equals the higher count
// wins. Quoting is ignored. Defaults to comma.
func DetectCSVDelimiter(data []byte) rune {
	var lines []string
	for _, l := range strings.Split(string(data), "\n") {
		if l = strings.TrimRight(l, "\r"); strings.TrimSpace(l) != "" {
			lines = append(lines, l)
		}
		if len(lines) == sniffLines {
			break
		}
	}
	if len(lines) == 0 {
		return ','
	}

	best, bestRank := ',', -1
	for _, d := range delimiters {
		per := strings.Count(lines[0], string(d.r))
		if per == 0 {
			continue
		}
		rank := per
		for _, l := range lines[1:] {
			if strings.Count(l, string(d.r)) != per {
				rank = 0 // inconsistent: only usable if nothing else is
				break
			}
		}
		rank = rank*sniffLines + 1
		if rank > bestRank {
			best, bestRank = d.r, rank
		}
	}
	return best
}

func delimiterName(r rune) string {
	for _, d := range delimiters {
		if d.r == r {
			return d.name
		}
	}
	return fmt.Sprintf("%q", r)
}

func readCSV(r io.Reader, delimiter rune) ([][]string, error) {
	cr := csv.NewReader(r)
	cr.Comma = delimiter
	cr.LazyQuotes = true
	cr.FieldsPerRecord = -1
	return cr.ReadAll()
}

// ImportCSV reads a CSV shape list from path, sniffing the delimiter.
func ImportCSV(path string) ImportResult {
	var result ImportResult

	data, err := os.ReadFile(path)
	if err != nil {
		result.Errors = append(result.Errors, fmt.Sprintf("cannot open file: %v", err))
		return result
	}
	if len(bytes.TrimSpace(data)) == 0 {
		result.Errors = append(result.Errors, "file is empty")
		return result
	}

	delimiter := DetectCSVDelimiter(data)
	if delimiter != ',' {
		result.Warnings = append(result.Warnings, fmt.Sprintf("using %s delimiter", delimiterName(delimiter)))
	}

	rows, err := readCSV(bytes.NewReader(data), delimiter)
	if err != nil {
		result.Errors = append(result.Errors, fmt.Sprintf("cannot read CSV: %v", err))
		return result
	}
	return importRows(rows, "line", result)
}

// ImportCSVFromReader reads a CSV shape list with a known delimiter.
func ImportCSVFromReader(r io.Reader, delimiter rune) ImportResult {
	var result ImportResult

	rows, err := readCSV(r, delimiter)
	if err != nil {
		result.Errors = append(result.Errors, fmt.Sprintf("cannot read CSV: %v", err))
		return result
	}
	if len(rows) == 0 {
		result.Errors = append(result.Errors, "file is empty")
		return result
	}
	return importRows(rows, "line", result)
}

// ImportExcel reads a shape list from the first sheet of a workbook.
func ImportExcel(path string) ImportResult {
	var result ImportResult

	f, err := excelize.OpenFile(path)
	if err != nil {
		result.Errors = append(result.Errors, fmt.Sprintf("cannot open workbook: %v", err))
		return result
	}
	defer f.Close()

	sheets := f.GetSheetList()
	if len(sheets) == 0 {
		result.Errors = append(result.Errors, "workbook has no sheets")
		return result
	}
	rows, err := f.GetRows(sheets[0])
	if err != nil {
		result.Errors = append(result.Errors, fmt.Sprintf("cannot read sheet %q: %v", sheets[0], err))
		return result
	}
	if len(rows) == 0 {
		result.Errors = append(result.Errors, fmt.Sprintf("sheet %q is empty", sheets[0]))
		return result
	}
	return importRows(rows, "row", result)
}
