package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"marketscan/pkg/scan"
)

func writeProfile(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "profile.yaml")
	require.NoError(t, os.WriteFile(path, []byte(body), 0o644))
	return path
}

func TestLoadEmptyPathReturnsDefaults(t *testing.T) {
	profile, err := Load("", scan.MultiscanDefaults())
	require.NoError(t, err)

	assert.Equal(t, "polygon", profile.Provider)
	assert.Equal(t, "csv", profile.Universe.Source)
	assert.Equal(t, scan.MultiscanDefaults(), profile.Scan)
}

func TestLoadOverlaysOnlyNamedFields(t *testing.T) {
	path := writeProfile(t, `
provider: alpaca
scan:
  min_price: 5.0
  workers: 4
risk:
  account_size: 50000
`)

	profile, err := Load(path, scan.MultiscanDefaults())
	require.NoError(t, err)

	assert.Equal(t, "alpaca", profile.Provider)
	assert.Equal(t, 5.0, profile.Scan.MinPrice)
	assert.Equal(t, 4, profile.Scan.Workers)
	// Untouched fields keep the preset values.
	assert.Equal(t, scan.MultiscanDefaults().MinDollarVolume, profile.Scan.MinDollarVolume)
	assert.Equal(t, scan.MultiscanDefaults().ATRPeriod, profile.Scan.ATRPeriod)
	assert.Equal(t, 50000.0, profile.Risk.AccountSize)
	assert.Equal(t, 1.0, profile.Risk.RiskPercent)
}

func TestLoadRejectsUnknownProvider(t *testing.T) {
	path := writeProfile(t, "provider: bloomberg\n")

	_, err := Load(path, scan.MultiscanDefaults())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "provider")
}

func TestLoadRejectsScreenerWithoutURL(t *testing.T) {
	path := writeProfile(t, `
universe:
  source: screener
`)

	_, err := Load(path, scan.MultiscanDefaults())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "screener_url")
}

func TestLoadRejectsBadScanParams(t *testing.T) {
	path := writeProfile(t, `
scan:
  ema_fast: 20
  ema_slow: 9
`)

	_, err := Load(path, scan.MultiscanDefaults())
	require.Error(t, err)
}

func TestLoadMissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "nope.yaml"), scan.MultiscanDefaults())
	require.Error(t, err)
}
