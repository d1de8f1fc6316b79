package loader

import (
	"archive/zip"
	"bytes"
	"compress/gzip"
	"fmt"
	"io"
	"path"
	"strings"

	"github.com/pierrec/lz4"
)

// unwrap reads the input fully and, when the name carries a compression
// extension, decompresses it. Returns the inner file name (the original name
// minus the compression suffix, or the largest zip member) and the raw bytes.
func unwrap(name string, r io.Reader) (string, []byte, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return "", nil, fmt.Errorf("read %s: %w", name, err)
	}

	switch strings.ToLower(path.Ext(name)) {
	case ".gz":
		inner, err := gzip.NewReader(bytes.NewReader(data))
		if err != nil {
			return "", nil, fmt.Errorf("gzip %s: %w", name, err)
		}
		defer inner.Close()
		plain, err := io.ReadAll(inner)
		if err != nil {
			return "", nil, fmt.Errorf("gzip %s: %w", name, err)
		}
		return strings.TrimSuffix(name, path.Ext(name)), plain, nil

	case ".lz4":
		inner := lz4.NewReader(bytes.NewReader(data))
		plain, err := io.ReadAll(inner)
		if err != nil {
			return "", nil, fmt.Errorf("lz4 %s: %w", name, err)
		}
		return strings.TrimSuffix(name, path.Ext(name)), plain, nil

	case ".zip":
		return unwrapZip(name, data)
	}

	return name, data, nil
}

// unwrapZip extracts the largest member of the archive, which in practice
// is the dataset when catalogs bundle a data file with documentation.
func unwrapZip(name string, data []byte) (string, []byte, error) {
	zr, err := zip.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return "", nil, fmt.Errorf("zip %s: %w", name, err)
	}

	var largest *zip.File
	for _, f := range zr.File {
		if f.FileInfo().IsDir() {
			continue
		}
		if largest == nil || f.UncompressedSize64 > largest.UncompressedSize64 {
			largest = f
		}
	}
	if largest == nil {
		return "", nil, fmt.Errorf("zip %s: no files in archive", name)
	}

	rc, err := largest.Open()
	if err != nil {
		return "", nil, fmt.Errorf("zip %s: %w", name, err)
	}
	defer rc.Close()
	plain, err := io.ReadAll(rc)
	if err != nil {
		return "", nil, fmt.Errorf("zip %s: %w", name, err)
	}
	return largest.Name, plain, nil
}
