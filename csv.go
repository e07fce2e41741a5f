package main

import (
	"bufio"
	"bytes"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"math"
	"os"
	"strconv"
	"strings"
)

// CSVOptions selects the columns used to build the grouped sample sets.
type CSVOptions struct {
	CategoryColumn string // rows are grouped by this column
	ValueColumn    string // numeric column fed to the box statistics
	HoverColumn    string // text shown on hover (default: ValueColumn)
	Delimiter      rune
	SkipRows       int // rows to skip before the header
}

func defaultCSVOptions() CSVOptions {
	return CSVOptions{
		CategoryColumn: "playerList",
		ValueColumn:    "goals",
		Delimiter:      ',',
	}
}

// Point is one plotted row.
type Point struct {
	Value float64
	Hover string
}

// Group holds the rows sharing one category key, in file order.
type Group struct {
	Key    string
	Points []Point
}

// Values returns the numeric column of the group.
func (g Group) Values() []float64 {
	vs := make([]float64, len(g.Points))
	for i, p := range g.Points {
		vs[i] = p.Value
	}
	return vs
}

var errNoSamples = errors.New("no valid samples found")

func loadGroupsCSV(filename string, opts CSVOptions) ([]Group, error) {
	file, err := os.Open(filename)
	if err != nil {
		return nil, err
	}
	defer file.Close()

	groups, err := loadGroupsFromReader(file, opts)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", filename, err)
	}
	return groups, nil
}

// utf8BOM is written by spreadsheet exports in front of the first header cell.
var utf8BOM = []byte{0xEF, 0xBB, 0xBF}

func loadGroupsFromReader(r io.Reader, opts CSVOptions) ([]Group, error) {
	br := bufio.NewReader(r)
	if lead, err := br.Peek(len(utf8BOM)); err == nil && bytes.Equal(lead, utf8BOM) {
		br.Discard(len(utf8BOM))
	}
	reader := csv.NewReader(br)
	if opts.Delimiter != 0 {
		reader.Comma = opts.Delimiter
	}
	reader.TrimLeadingSpace = true
	reader.FieldsPerRecord = -1

	for i := 0; i < opts.SkipRows; i++ {
		if _, err := reader.Read(); err != nil {
			return nil, err
		}
	}

	header, err := reader.Read()
	if err == io.EOF {
		return nil, errNoSamples
	}
	if err != nil {
		return nil, err
	}

	catIdx, valIdx, hoverIdx := -1, -1, -1
	hoverColumn := opts.HoverColumn
	if hoverColumn == "" {
		hoverColumn = opts.ValueColumn
	}
	for i, h := range header {
		h = cleanField(h)
		if h == opts.CategoryColumn && catIdx == -1 {
			catIdx = i
		}
		if h == opts.ValueColumn && valIdx == -1 {
			valIdx = i
		}
		if h == hoverColumn && hoverIdx == -1 {
			hoverIdx = i
		}
	}
	if catIdx == -1 {
		return nil, fmt.Errorf("category column %q not found in header", opts.CategoryColumn)
	}
	if valIdx == -1 {
		return nil, fmt.Errorf("value column %q not found in header", opts.ValueColumn)
	}
	if hoverIdx == -1 {
		return nil, fmt.Errorf("hover column %q not found in header", hoverColumn)
	}

	var g grouper
	skipped := 0
	for {
		record, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, err
		}
		if valIdx >= len(record) || catIdx >= len(record) {
			skipped++
			continue
		}
		v, ok := parseSample(record[valIdx])
		if !ok {
			skipped++
			continue
		}
		hover := ""
		if hoverIdx < len(record) {
			hover = cleanField(record[hoverIdx])
		}
		g.add(cleanField(record[catIdx]), Point{Value: v, Hover: hover})
	}

	if skipped > 0 {
		warnf("skipped %d rows without a numeric %q value", skipped, opts.ValueColumn)
	}
	if len(g.groups) == 0 {
		return nil, errNoSamples
	}
	return g.groups, nil
}

// grouper keeps groups in first-appearance order.
type grouper struct {
	index  map[string]int
	groups []Group
}

func (g *grouper) add(key string, p Point) {
	if g.index == nil {
		g.index = make(map[string]int)
	}
	i, ok := g.index[key]
	if !ok {
		i = len(g.groups)
		g.index[key] = i
		g.groups = append(g.groups, Group{Key: key})
	}
	g.groups[i].Points = append(g.groups[i].Points, p)
}

func cleanField(s string) string {
	return strings.TrimSpace(strings.Trim(s, "\""))
}

// parseSample rejects blanks, NA markers and anything ParseFloat cannot read,
// including NaN and infinities.
func parseSample(raw string) (float64, bool) {
	s := cleanField(raw)
	switch s {
	case "", "NA", "NaN", "nan", "null":
		return 0, false
	}
	v, err := strconv.ParseFloat(s, 64)
	if err != nil || math.IsNaN(v) || math.IsInf(v, 0) {
		return 0, false
	}
	return v, true
}
