// Package ingest reads the on-disk inputs of a vectorization run: the
// recording mapper, per-recording timestamp tables and recon volumes.
package ingest

import (
	"encoding/csv"
	"errors"
	"fmt"
	"math"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/gocarina/gocsv"
	"github.com/xuri/excelize/v2"

	"github.com/banshee-data/articulation/internal/timeutil"
	"github.com/banshee-data/articulation/internal/vectorize"
)

// ErrUnsupportedFormat is returned for input files whose suffix has no reader.
var ErrUnsupportedFormat = errors.New("unsupported file format")

// timestampRow is one row of the annotation tool's CSV export.
type timestampRow struct {
	Label string `csv:"Buchstabe"`
	Index int    `csv:"Buchstabennr"`
	Start string `csv:"Timestamp start"`
	End   string `csv:"Timestamp ende"`
}

// ReadTimestamps reads a timestamp table from a ';'-separated .csv export
// or a .xlsx workbook holding millisecond times.
//
// Rows whose times cannot be parsed fail the read. Rows that parse but are
// inverted or too short are returned as-is; alignment decides what to do
// with them.
func ReadTimestamps(path string) (vectorize.Table, error) {
	switch ext := filepath.Ext(path); ext {
	case ".csv":
		return readTimestampsCSV(path)
	case ".xlsx":
		return readTimestampsXLSX(path)
	default:
		return nil, fmt.Errorf("%w: %q (%s)", ErrUnsupportedFormat, ext, path)
	}
}

func readTimestampsCSV(path string) (vectorize.Table, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open timestamps: %w", err)
	}
	defer f.Close()

	r := csv.NewReader(f)
	r.Comma = ';'
	r.TrimLeadingSpace = true

	var rows []*timestampRow
	if err := gocsv.UnmarshalCSV(r, &rows); err != nil {
		return nil, fmt.Errorf("failed to parse %s: %w", path, err)
	}

	table := make(vectorize.Table, 0, len(rows))
	for i, row := range rows {
		rec, err := vectorize.ParseRecordText(row.Label, row.Index, row.Start, row.End)
		if err != nil {
			return nil, fmt.Errorf("%s row %d: %w", path, i+1, err)
		}
		table = append(table, rec)
	}
	return table, nil
}

// Header names accepted for the workbook columns. Columns without a known
// header fall back to their position.
var xlsxColumns = []struct {
	names    []string
	position int
}{
	{[]string{"Buchstabe"}, 0},
	{[]string{"Buchstabennr"}, 1},
	{[]string{"start", "Start", "Timestamp start"}, 2},
	{[]string{"ende", "Ende", "Timestamp ende"}, 3},
}

func readTimestampsXLSX(path string) (vectorize.Table, error) {
	f, err := excelize.OpenFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open workbook: %w", err)
	}
	defer f.Close()

	sheets := f.GetSheetList()
	if len(sheets) == 0 {
		return nil, fmt.Errorf("%s: workbook has no sheets", path)
	}
	rows, err := f.GetRows(sheets[0])
	if err != nil {
		return nil, fmt.Errorf("failed to read sheet %q: %w", sheets[0], err)
	}
	if len(rows) == 0 {
		return nil, fmt.Errorf("%s: sheet %q is empty", path, sheets[0])
	}

	cols := xlsxColumnIndex(rows[0])
	table := make(vectorize.Table, 0, len(rows)-1)
	for i, row := range rows[1:] {
		if blankRow(row) {
			continue
		}
		cell := func(c int) string {
			if cols[c] < len(row) {
				return strings.TrimSpace(row[cols[c]])
			}
			return ""
		}
		index, err := parseIndex(cell(1))
		if err != nil {
			return nil, fmt.Errorf("%s row %d: %w", path, i+2, err)
		}
		start, err := millisToSeconds(cell(2))
		if err != nil {
			return nil, fmt.Errorf("%s row %d start: %w", path, i+2, err)
		}
		end, err := millisToSeconds(cell(3))
		if err != nil {
			return nil, fmt.Errorf("%s row %d end: %w", path, i+2, err)
		}
		rec, err := vectorize.ParseRecordText(cell(0), index, start, end)
		if err != nil {
			return nil, fmt.Errorf("%s row %d: %w", path, i+2, err)
		}
		table = append(table, rec)
	}
	return table, nil
}

func xlsxColumnIndex(header []string) [4]int {
	var idx [4]int
	for c, col := range xlsxColumns {
		idx[c] = col.position
		for h, name := range header {
			if containsString(col.names, strings.TrimSpace(name)) {
				idx[c] = h
				break
			}
		}
	}
	return idx
}

func containsString(list []string, s string) bool {
	for _, v := range list {
		if v == s {
			return true
		}
	}
	return false
}

func blankRow(row []string) bool {
	for _, v := range row {
		if strings.TrimSpace(v) != "" {
			return false
		}
	}
	return true
}

func parseIndex(text string) (int, error) {
	if text == "" {
		return 0, nil
	}
	v, err := strconv.ParseFloat(text, 64)
	if err != nil || v != math.Trunc(v) {
		return 0, fmt.Errorf("invalid label index %q", text)
	}
	return int(v), nil
}

// millisToSeconds renders a workbook millisecond value as seconds with
// three decimals, the textual form the CSV export uses for raw seconds.
func millisToSeconds(text string) (string, error) {
	ms, err := strconv.ParseFloat(text, 64)
	if err != nil || math.IsNaN(ms) || math.IsInf(ms, 0) {
		return "", fmt.Errorf("%w: %q is not a millisecond value", timeutil.ErrInvalidTimestamp, text)
	}
	return fmt.Sprintf("%.3f", ms/1000), nil
}
