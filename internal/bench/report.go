package bench

import (
	"encoding/csv"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/muesli/termenv"
)

// Absent cells and unmeasurable cells render as distinct markers so a
// skipped pair can never be confused with a degenerate timing or a zero.
const (
	absentMarker    = "-"
	undefinedMarker = "n/a"
)

// FormatValue renders one cell readout with 4 significant digits.
func FormatValue(v Value) string {
	switch v.Kind {
	case Absent:
		return absentMarker
	case Undefined:
		return undefinedMarker
	}
	return strconv.FormatFloat(v.Float, 'g', 4, 64)
}

// Reporter renders a completed table as an aligned text grid or as CSV.
// It only formats: every numeric derivation happens in the table.
// Orientation is fixed, procedures are rows and configurations columns.
type Reporter struct {
	Unit  Unit
	Color bool

	title  lipgloss.Style
	header lipgloss.Style
}

// NewReporter returns a reporter for the given display unit. Color output
// is enabled when the terminal supports it and NO_COLOR is not set.
func NewReporter(unit Unit) *Reporter {
	color := termenv.ColorProfile() != termenv.Ascii && !termenv.EnvNoColor()
	return &Reporter{
		Unit:   unit,
		Color:  color,
		title:  lipgloss.NewStyle().Bold(true),
		header: lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("6")),
	}
}

// Render returns the aligned text grid: a title line naming the unit, a
// header row of configuration values, and one row per procedure.
func (r *Reporter) Render(t *Table) string {
	grid := r.grid(t)

	widths := make([]int, len(grid[0]))
	for _, row := range grid {
		for j, cell := range row {
			if len(cell) > widths[j] {
				widths[j] = len(cell)
			}
		}
	}

	var b strings.Builder
	b.WriteString(r.style(r.title, fmt.Sprintf("benchtab results [%s]", r.Unit)))
	b.WriteByte('\n')
	for i, row := range grid {
		line := make([]string, len(row))
		for j, cell := range row {
			if j == 0 {
				line[j] = fmt.Sprintf("%-*s", widths[j], cell)
			} else {
				line[j] = fmt.Sprintf("%*s", widths[j], cell)
			}
		}
		text := strings.Join(line, "  ")
		if i == 0 {
			text = r.style(r.header, text)
		}
		b.WriteString(text)
		b.WriteByte('\n')
	}
	return b.String()
}

// WriteCSV serializes the same logical grid to w: a header row followed by
// one row per procedure, with identical cell strings to the text grid.
func (r *Reporter) WriteCSV(w io.Writer, t *Table) error {
	cw := csv.NewWriter(w)
	for _, row := range r.grid(t) {
		if err := cw.Write(row); err != nil {
			return fmt.Errorf("csv write: %w", err)
		}
	}
	cw.Flush()
	return cw.Error()
}

func (r *Reporter) grid(t *Table) [][]string {
	procs := t.Procedures()
	cfgs := t.Configs()

	rows := make([][]string, 0, len(procs)+1)
	header := make([]string, 0, len(cfgs)+1)
	header = append(header, "procedure")
	for _, cfg := range cfgs {
		header = append(header, cfg.String())
	}
	rows = append(rows, header)

	for i, name := range procs {
		row := make([]string, 0, len(cfgs)+1)
		row = append(row, name)
		for j := range cfgs {
			row = append(row, FormatValue(t.Value(i, j, r.Unit)))
		}
		rows = append(rows, row)
	}
	return rows
}

func (r *Reporter) style(s lipgloss.Style, text string) string {
	if !r.Color {
		return text
	}
	return s.Render(text)
}
