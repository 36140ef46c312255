package bench

import (
	"bytes"
	"encoding/csv"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func reportTable(t *testing.T) *Table {
	t.Helper()
	table := NewTable([]string{"double", "noop"}, []Config{16, 64})
	require.NoError(t, table.Record(0, 0, 16, Measurement{Reps: 2, Elapsed: time.Second}))
	require.NoError(t, table.Record(0, 1, 64, Measurement{Reps: 4, Elapsed: 2 * time.Second}))
	require.NoError(t, table.Record(1, 0, 16, Measurement{Reps: 1000, Elapsed: 0}))
	// (noop, 64) left absent
	return table
}

func plainReporter(u Unit) *Reporter {
	r := NewReporter(u)
	r.Color = false
	return r
}

func TestRenderTextGrid(t *testing.T) {
	out := plainReporter(Milliseconds).Render(reportTable(t))
	lines := strings.Split(strings.TrimRight(out, "\n"), "\n")
	require.Len(t, lines, 4)

	assert.Equal(t, "benchtab results [ms/run]", lines[0])
	assert.Equal(t, []string{"procedure", "16", "64"}, strings.Fields(lines[1]))
	assert.Equal(t, []string{"double", "500", "500"}, strings.Fields(lines[2]))
	assert.Equal(t, []string{"noop", "n/a", "-"}, strings.Fields(lines[3]))
}

func TestRenderAlignment(t *testing.T) {
	out := plainReporter(Nanoseconds).Render(reportTable(t))
	lines := strings.Split(strings.TrimRight(out, "\n"), "\n")

	// every grid line has the same width
	for _, l := range lines[2:] {
		assert.Equal(t, len(lines[1]), len(l))
	}
}

func TestWriteCSVRoundTrip(t *testing.T) {
	table := reportTable(t)
	rep := plainReporter(Milliseconds)

	var buf bytes.Buffer
	require.NoError(t, rep.WriteCSV(&buf, table))

	records, err := csv.NewReader(&buf).ReadAll()
	require.NoError(t, err)

	want := [][]string{
		{"procedure", "16", "64"},
		{"double", "500", "500"},
		{"noop", "n/a", "-"},
	}
	assert.Equal(t, want, records)
}

func TestCSVMatchesTextValues(t *testing.T) {
	table := reportTable(t)
	rep := plainReporter(ItemsPerSec)

	var buf bytes.Buffer
	require.NoError(t, rep.WriteCSV(&buf, table))
	records, err := csv.NewReader(&buf).ReadAll()
	require.NoError(t, err)

	for i := range table.Procedures() {
		for j := range table.Configs() {
			want := FormatValue(table.Value(i, j, ItemsPerSec))
			assert.Equal(t, want, records[i+1][j+1])
		}
	}
}

func TestFormatValue(t *testing.T) {
	assert.Equal(t, "-", FormatValue(Value{Kind: Absent}))
	assert.Equal(t, "n/a", FormatValue(Value{Kind: Undefined}))
	assert.Equal(t, "0.5", FormatValue(Value{Kind: Number, Float: 0.5}))
	assert.Equal(t, "0.1235", FormatValue(Value{Kind: Number, Float: 0.123456}))
	assert.Equal(t, "1.235e+06", FormatValue(Value{Kind: Number, Float: 1234567.0}))
}
