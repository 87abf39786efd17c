package universe

import (
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadFromCSV(t *testing.T) {
	path := filepath.Join(t.TempDir(), "symbols.csv")
	content := "Symbol,Name\naapl,Apple\nMSFT,Microsoft\n\nmsft,Dup\nTSLA,Tesla\n"
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))

	symbols, err := LoadFromCSV(path)
	require.NoError(t, err)
	assert.Equal(t, []string{"AAPL", "MSFT", "TSLA"}, symbols)
}

func TestLoadFromCSVEmptyFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "empty.csv")
	require.NoError(t, os.WriteFile(path, []byte("Symbol\n"), 0644))

	_, err := LoadFromCSV(path)
	assert.Error(t, err)
}

func TestDedupe(t *testing.T) {
	got := Dedupe([]string{"msft", " AAPL ", "MSFT", "", "nvda"})
	assert.Equal(t, []string{"AAPL", "MSFT", "NVDA"}, got)
}

func TestScrapeScreener(t *testing.T) {
	page := `<html><body><table>
		<tr><th>Ticker</th><th>Company</th></tr>
		<tr><td>AAPL</td><td>Apple Inc</td></tr>
		<tr><td><a href="/quote/NVDA">NVDA</a></td><td>NVIDIA</td></tr>
		<tr><td>not-a-ticker</td><td>junk row</td></tr>
		<tr><td>BRK.B</td><td>Berkshire</td></tr>
	</table></body></html>`

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte(page))
	}))
	defer srv.Close()

	symbols, err := ScrapeScreener(srv.URL)
	require.NoError(t, err)
	assert.Equal(t, []string{"AAPL", "BRK.B", "NVDA"}, symbols)
}

func TestScrapeScreenerNoTable(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte("<html><body><p>nothing here</p></body></html>"))
	}))
	defer srv.Close()

	_, err := ScrapeScreener(srv.URL)
	assert.Error(t, err)
}
