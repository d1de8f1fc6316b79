// Package loader parses user-supplied or downloaded files into tabular
// datasets. Column kinds are inferred exactly once here; downstream code
// consumes the tags without re-inferring.
package loader

import (
	"io"
	"path"
	"strings"

	"comparador/domain/table"
	"comparador/internal/errors"
)

// Read parses a file into a table, dispatching on the file name's
// extension. Compressed files are unwrapped first and re-dispatched under
// their inner name. The whole file is held in memory.
func Read(name string, r io.Reader) (*table.Table, error) {
	innerName, data, err := unwrap(name, r)
	if err != nil {
		return nil, errors.ParseFailed(name, err)
	}

	switch strings.ToLower(path.Ext(innerName)) {
	case ".xlsx", ".xls":
		return readWorkbook(innerName, data)
	default:
		// CSV, TSV and friends, plus extensionless downloads: CKAN serves
		// plenty of delimited files with no usable extension.
		return readDelimited(innerName, data)
	}
}

// Supported reports whether a resource format tag looks loadable
func Supported(format string) bool {
	switch strings.ToUpper(strings.TrimSpace(format)) {
	case "CSV", "TSV", "TXT", "XLSX", "XLS", "":
		return true
	}
	return false
}
