// Package stats collects and persists the statistics the simulator
// produces: the epoch CSV stream, the latency histograms, and the
// database recorders behind them.
package stats

import (
	"fmt"
	"io"
	"strings"
)

// CSVWriter emits one row of named values per epoch. The header is
// written together with the first row, so columns may be registered in
// any order during the first epoch.
type CSVWriter struct {
	w io.Writer

	headerWritten bool
	names         []string
	values        []float64
}

// NewCSVWriter creates a CSV writer over w.
func NewCSVWriter(w io.Writer) *CSVWriter {
	return &CSVWriter{w: w}
}

// IndexedName builds a column name like "Bandwidth[0][1][3]" from a
// base name and channel/rank/bank indices.
func IndexedName(name string, indices ...int) string {
	var sb strings.Builder

	sb.WriteString(name)
	for _, idx := range indices {
		fmt.Fprintf(&sb, "[%d]", idx)
	}

	return sb.String()
}

// AddEntry appends one value to the current row.
func (c *CSVWriter) AddEntry(name string, value float64) {
	if !c.headerWritten {
		c.names = append(c.names, name)
	}

	c.values = append(c.values, value)
}

// EndRow flushes the current row, writing the header first if this is
// the first row.
func (c *CSVWriter) EndRow() error {
	if !c.headerWritten {
		if _, err := fmt.Fprintln(c.w, strings.Join(c.names, ",")); err != nil {
			return err
		}

		c.headerWritten = true
	}

	fields := make([]string, len(c.values))
	for i, v := range c.values {
		fields[i] = fmt.Sprintf("%.6g", v)
	}

	if _, err := fmt.Fprintln(c.w, strings.Join(fields, ",")); err != nil {
		return err
	}

	c.values = c.values[:0]

	return nil
}

// Raw writes a line verbatim, used for the histogram sections that
// follow the tabular data.
func (c *CSVWriter) Raw(line string) error {
	_, err := fmt.Fprintln(c.w, line)
	return err
}
