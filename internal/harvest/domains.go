package harvest

import (
	"encoding/csv"
	"fmt"
	"os"
	"strings"
)

// LoadDomains reads the input dataset and returns the domain column in
// row order, blanks included so indices stay aligned with input rows.
// A missing file or missing "domain" column is fatal to the run.
func LoadDomains(path string) ([]string, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open domain list %s: %w", path, err)
	}
	defer f.Close() //nolint:errcheck // read-only handle

	reader := csv.NewReader(f)
	reader.FieldsPerRecord = -1
	rows, err := reader.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("read domain list %s: %w", path, err)
	}
	if len(rows) == 0 {
		return nil, fmt.Errorf("domain list %s is empty", path)
	}

	col := -1
	for i, name := range rows[0] {
		if strings.TrimSpace(name) == "domain" {
			col = i
			break
		}
	}
	if col < 0 {
		return nil, fmt.Errorf("domain list %s lacks a %q column", path, "domain")
	}

	domains := make([]string, 0, len(rows)-1)
	for _, row := range rows[1:] {
		if col >= len(row) {
			domains = append(domains, "")
			continue
		}
		domains = append(domains, row[col])
	}
	return domains, nil
}

// NormalizeDomain strips scheme prefixes, surrounding whitespace, and
// surrounding slashes. An empty result means the input was not usable.
func NormalizeDomain(domain string) string {
	clean := strings.ReplaceAll(domain, "http://", "")
	clean = strings.ReplaceAll(clean, "https://", "")
	clean = strings.TrimSpace(clean)
	return strings.Trim(clean, "/")
}
