// Package parse turns raw tabular race data into typed records, one
// parser per source shape. Parsers are forgiving on row level: a
// malformed row is skipped and counted, only an unusable header fails
// the whole file.
package parse

import (
	"encoding/csv"
	"fmt"
	"io"
	"strconv"
	"strings"
)

type SourceType string

const (
	SourceLaps      SourceType = "laps"
	SourceResults   SourceType = "results"
	SourceTelemetry SourceType = "telemetry"
	SourceSections  SourceType = "sections"
	SourceWeather   SourceType = "weather"
)

// ParseError reports a source file whose shape cannot be recovered,
// for example a header that lacks required columns.
type ParseError struct {
	Source SourceType
	Reason string
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("parse %s: %s", e.Source, e.Reason)
}

// header maps normalized column names to their index. Matching is case
// insensitive and ignores surrounding whitespace; spaces inside a name
// count as underscores, so "Lap Time" and "lap_time" are the same
// column.
type header struct {
	idx map[string]int
}

func newHeader(cols []string) *header {
	h := &header{idx: make(map[string]int, len(cols))}
	for i, c := range cols {
		h.idx[normalizeCol(c)] = i
	}
	return h
}

func normalizeCol(c string) string {
	c = strings.ToLower(strings.TrimSpace(c))
	c = strings.TrimPrefix(c, "\ufeff")
	return strings.ReplaceAll(c, " ", "_")
}

// has reports whether any of the names is present.
func (h *header) has(names ...string) bool {
	for _, n := range names {
		if _, ok := h.idx[n]; ok {
			return true
		}
	}
	return false
}

// value returns the trimmed cell under the first matching alias.
func (h *header) value(row []string, names ...string) (string, bool) {
	for _, n := range names {
		if i, ok := h.idx[n]; ok && i < len(row) {
			v := strings.TrimSpace(row[i])
			if v != "" {
				return v, true
			}
		}
	}
	return "", false
}

func (h *header) intValue(row []string, names ...string) (int, bool) {
	v, ok := h.value(row, names...)
	if !ok {
		return 0, false
	}
	i, err := strconv.Atoi(v)
	if err != nil {
		return 0, false
	}
	return i, true
}

func (h *header) floatValue(row []string, names ...string) (float64, bool) {
	v, ok := h.value(row, names...)
	if !ok {
		return 0, false
	}
	f, err := strconv.ParseFloat(v, 64)
	if err != nil {
		return 0, false
	}
	return f, true
}

// optFloat is floatValue for nullable columns.
func (h *header) optFloat(row []string, names ...string) *float64 {
	if f, ok := h.floatValue(row, names...); ok {
		return &f
	}
	return nil
}

func newCSVReader(r io.Reader) *csv.Reader {
	cr := csv.NewReader(r)
	cr.TrimLeadingSpace = true
	cr.FieldsPerRecord = -1
	return cr
}

// readTable reads header plus data rows. Unreadable CSV input (not
// just a bad row) is an error.
func readTable(r io.Reader, source SourceType) (*header, [][]string, error) {
	cr := newCSVReader(r)
	rows, err := cr.ReadAll()
	if err != nil {
		return nil, nil, &ParseError{Source: source, Reason: err.Error()}
	}
	if len(rows) == 0 {
		return nil, nil, &ParseError{Source: source, Reason: "empty input"}
	}
	return newHeader(rows[0]), rows[1:], nil
}
