package catalog

import "fmt"

// Dataset represents a catalog package: a named collection of resources
type Dataset struct {
	ID        string     `json:"id"`
	Name      string     `json:"name"`
	Title     string     `json:"title"`
	Resources []Resource `json:"resources,omitempty"`
}

// DisplayTitle returns the title or falls back to the machine name
func (d Dataset) DisplayTitle() string {
	if d.Title != "" {
		return d.Title
	}
	return d.Name
}

// Resource is one downloadable file belonging to a dataset.
// Size is in bytes; 0 means the catalog did not report one.
type Resource struct {
	ID     string `json:"id"`
	Name   string `json:"name"`
	Format string `json:"format"`
	Size   int64  `json:"size"`
	URL    string `json:"url"`
}

const bytesPerMB = 1024 * 1024

// SizeUnknownLabel is shown when neither the catalog nor a HEAD request
// yielded a byte size.
const SizeUnknownLabel = "Tamaño desconocido"

// HumanSize renders the byte size as MB, or the unknown-size label
func (r Resource) HumanSize() string {
	return HumanSize(r.Size)
}

// HumanSize converts bytes to a display string
func HumanSize(size int64) string {
	if size > 0 {
		return fmt.Sprintf("%.2f MB", float64(size)/bytesPerMB)
	}
	return SizeUnknownLabel
}

// SizeMB returns the size in megabytes, 0 when unknown
func (r Resource) SizeMB() float64 {
	if r.Size <= 0 {
		return 0
	}
	return float64(r.Size) / bytesPerMB
}

// TooLargeToLoad reports whether the resource exceeds the auto-download
// limit and should be offered as an external link instead.
func (r Resource) TooLargeToLoad(limitMB float64) bool {
	return r.Size > 0 && r.SizeMB() > limitMB
}

// DisplayName returns the resource name or a placeholder
func (r Resource) DisplayName() string {
	if r.Name != "" {
		return r.Name
	}
	return "Recurso sin nombre"
}
