package ingest

import (
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"

	"github.com/banshee-data/articulation/internal/testutil"
	"github.com/banshee-data/articulation/internal/timeutil"
	"github.com/banshee-data/articulation/internal/vectorize"
)

func writeWorkbook(t *testing.T, rows [][]interface{}) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "labels.xlsx")
	f := excelize.NewFile()
	defer f.Close()
	for i, row := range rows {
		cell, err := excelize.CoordinatesToCellName(1, i+1)
		require.NoError(t, err)
		require.NoError(t, f.SetSheetRow("Sheet1", cell, &row))
	}
	require.NoError(t, f.SaveAs(path))
	return path
}

func TestReadTimestamps_CSV(t *testing.T) {
	path := testutil.WriteFile(t, "labels.csv", testutil.TimestampCSV)

	table, err := ReadTimestamps(path)
	require.NoError(t, err)

	want := vectorize.Table{
		{Label: "a", Index: 1, Start: time.Second, End: 2 * time.Second},
		{Label: "b", Index: 2, Start: 2500 * time.Millisecond, End: 3 * time.Second},
		{Label: "c", Index: 3, Start: 3250 * time.Millisecond, End: 3750 * time.Millisecond},
	}
	assert.Equal(t, want, table)
}

func TestReadTimestamps_CSVKeepsInvertedRows(t *testing.T) {
	path := testutil.WriteFile(t, "labels.csv",
		"Buchstabe;Buchstabennr;Timestamp start;Timestamp ende\nz;9;2.0;1.0\n")

	table, err := ReadTimestamps(path)
	require.NoError(t, err)
	require.Len(t, table, 1)
	assert.ErrorIs(t, table[0].Validate(), vectorize.ErrInvalidTimestamp)
}

func TestReadTimestamps_CSVErrors(t *testing.T) {
	tests := []struct {
		name    string
		content string
		wantIs  error
	}{
		{"bad start", "Buchstabe;Buchstabennr;Timestamp start;Timestamp ende\na;1;soon;2.0\n", timeutil.ErrInvalidTimestamp},
		{"bad end", "Buchstabe;Buchstabennr;Timestamp start;Timestamp ende\na;1;1.0;00:61.0\n", timeutil.ErrInvalidTimestamp},
		{"bad index", "Buchstabe;Buchstabennr;Timestamp start;Timestamp ende\na;one;1.0;2.0\n", nil},
		{"empty", "", nil},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			path := testutil.WriteFile(t, "labels.csv", tt.content)
			_, err := ReadTimestamps(path)
			require.Error(t, err)
			if tt.wantIs != nil {
				assert.ErrorIs(t, err, tt.wantIs)
			}
		})
	}
}

func TestReadTimestamps_XLSX(t *testing.T) {
	path := writeWorkbook(t, [][]interface{}{
		{"Buchstabe", "Buchstabennr", "Start", "Ende"},
		{"a", 1, 1000, 2000},
		{},
		{"b", 2, 2500.4, 3000},
	})

	table, err := ReadTimestamps(path)
	require.NoError(t, err)

	// Milliseconds are rounded to three decimals of a second.
	want := vectorize.Table{
		{Label: "a", Index: 1, Start: time.Second, End: 2 * time.Second},
		{Label: "b", Index: 2, Start: 2500 * time.Millisecond, End: 3 * time.Second},
	}
	assert.Equal(t, want, table)
}

func TestReadTimestamps_XLSXHeaderOrder(t *testing.T) {
	path := writeWorkbook(t, [][]interface{}{
		{"ende", "start", "Buchstabe", "Buchstabennr"},
		{750, 250, "c", 3},
	})

	table, err := ReadTimestamps(path)
	require.NoError(t, err)
	require.Len(t, table, 1)
	assert.Equal(t, vectorize.Record{Label: "c", Index: 3, Start: 250 * time.Millisecond, End: 750 * time.Millisecond}, table[0])
}

func TestReadTimestamps_XLSXBadValue(t *testing.T) {
	path := writeWorkbook(t, [][]interface{}{
		{"Buchstabe", "Buchstabennr", "start", "ende"},
		{"a", 1, "n/a", 2000},
	})

	_, err := ReadTimestamps(path)
	assert.ErrorIs(t, err, timeutil.ErrInvalidTimestamp)
}

func TestReadTimestamps_UnsupportedSuffix(t *testing.T) {
	path := testutil.WriteFile(t, "labels.txt", testutil.TimestampCSV)
	_, err := ReadTimestamps(path)
	assert.ErrorIs(t, err, ErrUnsupportedFormat)
}
