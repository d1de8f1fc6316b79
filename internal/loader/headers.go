package loader

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/mozillazg/go-unidecode"
)

var identifierRe = regexp.MustCompile(`[^a-z0-9_]+`)

// NormalizeHeaders trims header cells, fills blanks with generated names
// and deduplicates repeats with numeric suffixes, so a table never carries
// two columns with the same name.
func NormalizeHeaders(raw []string) []string {
	headers := make([]string, len(raw))
	seen := make(map[string]int, len(raw))

	for i, h := range raw {
		h = strings.TrimSpace(h)
		if h == "" {
			h = fmt.Sprintf("col_%d", i+1)
		}
		if n, dup := seen[h]; dup {
			base := h
			for {
				n++
				h = fmt.Sprintf("%s_%d", base, n)
				if _, taken := seen[h]; !taken {
					break
				}
			}
			seen[base] = n
		}
		seen[h] = 1
		headers[i] = h
	}
	return headers
}

// Identifier transliterates a column name to a lowercase ASCII slug, used
// for HTML anchors and chart element ids. "Año de registro" -> "ano_de_registro".
func Identifier(name string) string {
	s := unidecode.Unidecode(name)
	s = strings.ToLower(strings.TrimSpace(s))
	s = strings.ReplaceAll(s, " ", "_")
	s = identifierRe.ReplaceAllString(s, "_")
	s = strings.Trim(s, "_")
	if s == "" {
		return "col"
	}
	return s
}
