// Package ingest reads exported CSV and TSV reports into the row maps
// the normalization and enrichment layers consume. Real exports are
// messy: mixed encodings, preamble rows above the header, ragged rows,
// stray quoting. The reader accepts all of that, records warnings, and
// only fails when no usable table can be found at all.
package ingest

import (
	"bytes"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/cybertimeline/cybertimeline/pkg/normalize"
)

// ErrNoHeader is returned when header auto-detection finds no row that
// looks like a column header.
var ErrNoHeader = errors.New("no header row detected")

// Warning is a non-fatal problem found while reading a table. Row is
// 1-indexed counting from the top of the file, header included.
type Warning struct {
	Row     int    `json:"row"`
	Message string `json:"message"`
}

// Table is a parsed report: one row map per data row, keyed by the
// trimmed header cells.
type Table struct {
	Headers  []string
	Rows     []normalize.Row
	Warnings []Warning
	Encoding string
}

// Options controls table reading.
type Options struct {
	// HeaderKeywords enables header auto-detection: the first row
	// where at least three cells contain one of the keywords becomes
	// the header, and anything above it (report titles, export
	// timestamps) is discarded. Empty means the first row is the
	// header.
	HeaderKeywords []string
}

// ReadFile reads a CSV or TSV report from disk.
func ReadFile(path string, opts Options) (*Table, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	t, err := Read(data, opts)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return t, nil
}

// Read parses report bytes into a Table.
func Read(data []byte, opts Options) (*Table, error) {
	decoded, enc, err := decode(data)
	if err != nil {
		return nil, err
	}

	r := csv.NewReader(bytes.NewReader(decoded))
	r.Comma = detectDelimiter(decoded)
	r.FieldsPerRecord = -1
	r.LazyQuotes = true

	t := &Table{Encoding: enc}

	var raw [][]string
	var rowNum int
	for {
		rec, err := r.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		rowNum++
		if err != nil {
			t.Warnings = append(t.Warnings, Warning{Row: rowNum, Message: fmt.Sprintf("parse error: %v", err)})
			continue
		}
		raw = append(raw, rec)
	}
	if len(raw) == 0 {
		return nil, errors.New("empty file: no rows found")
	}

	headerIdx := 0
	if len(opts.HeaderKeywords) > 0 {
		headerIdx = findHeaderRow(raw, opts.HeaderKeywords)
		if headerIdx < 0 {
			return nil, ErrNoHeader
		}
	}

	t.Headers = make([]string, len(raw[headerIdx]))
	for i, h := range raw[headerIdx] {
		t.Headers[i] = strings.TrimSpace(h)
	}
	want := len(t.Headers)

	for i, rec := range raw[headerIdx+1:] {
		fileRow := headerIdx + i + 2
		if len(rec) < want {
			t.Warnings = append(t.Warnings, Warning{
				Row:     fileRow,
				Message: fmt.Sprintf("row has %d columns, expected %d; padding with empty values", len(rec), want),
			})
			padded := make([]string, want)
			copy(padded, rec)
			rec = padded
		} else if len(rec) > want {
			t.Warnings = append(t.Warnings, Warning{
				Row:     fileRow,
				Message: fmt.Sprintf("row has %d columns, expected %d; truncating extra columns", len(rec), want),
			})
			rec = rec[:want]
		}

		row := make(normalize.Row, want)
		for j, h := range t.Headers {
			row[h] = strings.TrimSpace(rec[j])
		}
		t.Rows = append(t.Rows, row)
	}

	if len(t.Rows) == 0 {
		return nil, errors.New("file contains no data rows")
	}
	return t, nil
}

// findHeaderRow returns the index of the first row where at least
// three cells contain a keyword, or -1. Three is enough to tell a
// header from a title line that happens to mention one keyword.
func findHeaderRow(raw [][]string, keywords []string) int {
	for i, rec := range raw {
		matches := 0
		for _, cell := range rec {
			cell = strings.ToLower(strings.TrimSpace(cell))
			if cell == "" {
				continue
			}
			for _, kw := range keywords {
				if strings.Contains(cell, kw) {
					matches++
				}
			}
		}
		if matches >= 3 {
			return i
		}
	}
	return -1
}

// detectDelimiter picks tab over comma when the first line is
// tab-heavy. Covers Excel "Text (Tab delimited)" exports saved with a
// .csv extension.
func detectDelimiter(data []byte) rune {
	line := data
	if i := bytes.IndexByte(data, '\n'); i >= 0 {
		line = data[:i]
	}
	if bytes.Count(line, []byte{'\t'}) > bytes.Count(line, []byte{','}) {
		return '\t'
	}
	return ','
}
