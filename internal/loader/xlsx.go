package loader

import (
	"bytes"
	"fmt"
	"strings"

	"comparador/domain/table"
	"comparador/internal/errors"

	"github.com/xuri/excelize/v2"
)

// readWorkbook parses the first sheet of an Excel workbook through the same
// coercion pipeline as delimited files.
func readWorkbook(name string, data []byte) (*table.Table, error) {
	f, err := excelize.OpenReader(bytes.NewReader(data))
	if err != nil {
		return nil, errors.ParseFailed(name, err)
	}
	defer f.Close()

	sheets := f.GetSheetList()
	if len(sheets) == 0 {
		return nil, errors.ParseFailed(name, fmt.Errorf("workbook has no sheets"))
	}

	rows, err := f.GetRows(sheets[0])
	if err != nil {
		return nil, errors.ParseFailed(name, err)
	}
	if len(rows) == 0 {
		return nil, errors.ParseFailed(name, fmt.Errorf("sheet %q is empty", sheets[0]))
	}

	headers := NormalizeHeaders(rows[0])
	body := rows[1:]

	columns := make([]table.Column, len(headers))
	for j, h := range headers {
		cells := make([]table.Value, len(body))
		for i, row := range body {
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
