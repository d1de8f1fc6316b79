package loader

import (
	"bytes"
	"encoding/csv"
	"fmt"
	"path"
	"strings"

	"comparador/domain/table"
	"comparador/internal/errors"
)

// readDelimited parses a delimited text file. The first row is the header;
// ragged rows are padded with nulls (or truncated) to keep the table
// rectangular.
func readDelimited(name string, data []byte) (*table.Table, error) {
	delim := sniffDelimiter(name, data)

	r := csv.NewReader(bytes.NewReader(data))
	r.Comma = delim
	r.FieldsPerRecord = -1
	r.TrimLeadingSpace = true
	r.LazyQuotes = true

	records, err := r.ReadAll()
	if err != nil {
		return nil, errors.ParseFailed(name, err)
	}
	if len(records) == 0 {
		return nil, errors.ParseFailed(name, fmt.Errorf("file is empty"))
	}

	headers := NormalizeHeaders(records[0])
	rows := records[1:]

	columns := make([]table.Column, len(headers))
	for j, h := range headers {
		cells := make([]table.Value, len(rows))
		for i, row := range rows {
			raw := ""
			if j < len(row) {
				raw = strings.TrimSpace(row[j])
			}
			cells[i] = coerceCell(raw)
		}
		kind := inferKind(cells)
		columns[j] = table.Column{
			Name:  h,
			Kind:  kind,
			Cells: retype(cells, kind),
		}
	}

	tab, err := table.New(name, columns)
	if err != nil {
		return nil, errors.ParseFailed(name, err)
	}
	return tab, nil
}

// sniffDelimiter picks the separator that splits the first line into the
// most fields, among the usual suspects. Each candidate is tried through a
// csv.Reader so separators inside quoted cells do not vote.
func sniffDelimiter(name string, data []byte) rune {
	if strings.ToLower(path.Ext(name)) == ".tsv" {
		return '\t'
	}

	line := data
	if idx := bytes.IndexByte(data, '\n'); idx >= 0 {
		line = data[:idx+1]
	}

	best := ','
	bestFields := fieldCount(line, ',')
	for _, cand := range []rune{';', '\t', '|'} {
		if n := fieldCount(line, cand); n > bestFields {
			best = cand
			bestFields = n
		}
	}
	return best
}

func fieldCount(line []byte, delim rune) int {
	r := csv.NewReader(bytes.NewReader(line))
	r.Comma = delim
	r.TrimLeadingSpace = true
	r.LazyQuotes = true
	record, err := r.Read()
	if err != nil {
		return 0
	}
	return len(record)
}
