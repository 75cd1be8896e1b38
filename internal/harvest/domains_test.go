package harvest

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeDomainList(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "domains.csv")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
	return path
}

func TestLoadDomains(t *testing.T) {
	path := writeDomainList(t, "rank,domain\n1,example.com\n2,\n3,https://other.org/\n")

	domains, err := LoadDomains(path)
	require.NoError(t, err)
	assert.Equal(t, []string{"example.com", "", "https://other.org/"}, domains,
		"blank rows are preserved so indices stay aligned")
}

func TestLoadDomainsShortRow(t *testing.T) {
	path := writeDomainList(t, "rank,domain\n1,example.com\n2\n")

	domains, err := LoadDomains(path)
	require.NoError(t, err)
	assert.Equal(t, []string{"example.com", ""}, domains)
}

func TestLoadDomainsMissingColumn(t *testing.T) {
	path := writeDomainList(t, "rank,site\n1,example.com\n")

	_, err := LoadDomains(path)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "domain")
}

func TestLoadDomainsEmptyFile(t *testing.T) {
	path := writeDomainList(t, "")

	_, err := LoadDomains(path)
	require.Error(t, err)
}

func TestLoadDomainsMissingFile(t *testing.T) {
	_, err := LoadDomains(filepath.Join(t.TempDir(), "absent.csv"))
	require.Error(t, err)
}

func TestNormalizeDomain(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"example.com", "example.com"},
		{"http://example.com", "example.com"},
		{"https://example.com/", "example.com"},
		{"  https://example.com/path/  ", "example.com/path"},
		{"///", ""},
		{"   ", ""},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, NormalizeDomain(tt.in), "input %q", tt.in)
	}
}
