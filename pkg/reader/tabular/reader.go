// Package tabular provides loading of tab-delimited tables into column-oriented datasets
package tabular

import (
	"bufio"
	"fmt"
	"io"
	"strconv"
	"strings"
)

// Dataset is a column-oriented table of string cells with unique column names.
type Dataset struct {
	names   []string
	index   map[string]int
	columns [][]string
	rows    int
}

// Parse loads tab-delimited text whose first line is the header.
// It never fails: empty input yields a dataset with no columns and no rows.
func Parse(text string) *Dataset {
	lines := strings.Split(text, "\n")
	if len(lines) > 0 && lines[len(lines)-1] == "" {
		lines = lines[:len(lines)-1]
	}
	b := newBuilder()
	for _, line := range lines {
		b.addLine(line)
	}
	return b.dataset()
}

// Reader streams tab-delimited text into a Dataset.
type Reader struct {
	scanner *bufio.Scanner
	lineNum int
}

// maxLineSize bounds a single table line. Wide proteomics exports with long
// protein group lists can exceed bufio's default token size.
const maxLineSize = 64 << 20

// NewReader creates a new table reader
func NewReader(r io.Reader) *Reader {
	s := bufio.NewScanner(r)
	s.Buffer(make([]byte, 0, 64<<10), maxLineSize)
	return &Reader{scanner: s}
}

// Read consumes the whole input and returns the dataset.
func (r *Reader) Read() (*Dataset, error) {
	b := newBuilder()
	for r.scanner.Scan() {
		r.lineNum++
		b.addLine(r.scanner.Text())
	}
	if err := r.scanner.Err(); err != nil {
		return nil, fmt.Errorf("line %d: %w", r.lineNum+1, err)
	}
	return b.dataset(), nil
}

type builder struct {
	header  bool
	names   []string
	columns [][]string
	rows    int
}

func newBuilder() *builder {
	return &builder{}
}

func (b *builder) addLine(line string) {
	line = strings.TrimSuffix(line, "\r")
	if !b.header {
		if line == "" {
			return
		}
		b.names = uniqueNames(strings.Split(line, "\t"))
		b.columns = make([][]string, len(b.names))
		b.header = true
		return
	}
	if line == "" {
		return
	}
	cells := strings.Split(line, "\t")
	for i := range b.columns {
		var v string
		if i < len(cells) {
			v = cells[i]
		}
		b.columns[i] = append(b.columns[i], v)
	}
	b.rows++
}

func (b *builder) dataset() *Dataset {
	d := &Dataset{
		names:   b.names,
		index:   make(map[string]int, len(b.names)),
		columns: b.columns,
		rows:    b.rows,
	}
	for i, n := range b.names {
		d.index[n] = i
	}
	d.check()
	return d
}

// uniqueNames suffixes repeated header tokens with their occurrence count,
// so ["a", "b", "a"] becomes ["a", "b", "a.1"].
func uniqueNames(tokens []string) []string {
	total := make(map[string]int, len(tokens))
	for _, t := range tokens {
		total[t]++
	}
	seen := make(map[string]int, len(tokens))
	taken := make(map[string]bool, len(tokens))
	names := make([]string, len(tokens))
	for i, t := range tokens {
		n := seen[t]
		seen[t]++
		name := t
		if total[t] > 1 && n > 0 {
			name = t + "." + strconv.Itoa(n)
		}
		// A generated name may collide with a literal header token.
		for taken[name] {
			n++
			name = t + "." + strconv.Itoa(n)
		}
		taken[name] = true
		names[i] = name
	}
	return names
}

// check panics if the column lengths disagree; that can only happen through
// a bug in this package.
func (d *Dataset) check() {
	for i, c := range d.columns {
		if len(c) != d.rows {
			panic(fmt.Sprintf("tabular: column %q has %d cells, want %d", d.names[i], len(c), d.rows))
		}
	}
}

// Columns returns the column names in header order.
func (d *Dataset) Columns() []string {
	return append([]string(nil), d.names...)
}

// RowCount returns the number of data rows.
func (d *Dataset) RowCount() int { return d.rows }

// Has reports whether the dataset has a column called name.
func (d *Dataset) Has(name string) bool {
	_, ok := d.index[name]
	return ok
}

// Column returns the cells of the named column.
func (d *Dataset) Column(name string) ([]string, bool) {
	i, ok := d.index[name]
	if !ok {
		return nil, false
	}
	return d.columns[i], true
}

// Cell returns the cell at row in the named column, or the empty string if
// the column does not exist or row is out of range.
func (d *Dataset) Cell(name string, row int) string {
	i, ok := d.index[name]
	if !ok || row < 0 || row >= d.rows {
		return ""
	}
	return d.columns[i][row]
}

// Row returns the cells of row for the given columns. Absent columns are
// omitted from the result.
func (d *Dataset) Row(row int, columns []string) map[string]string {
	m := make(map[string]string, len(columns))
	for _, c := range columns {
		i, ok := d.index[c]
		if !ok || row < 0 || row >= d.rows {
			continue
		}
		m[c] = d.columns[i][row]
	}
	return m
}
