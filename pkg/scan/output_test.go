package scan

import (
	"encoding/csv"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func sampleReport() *Report {
	return &Report{
		RunID:   "0b0e5a1c-0000-0000-0000-000000000000",
		Preset:  "multiscan",
		From:    time.Date(2025, 3, 1, 0, 0, 0, 0, time.UTC),
		To:      time.Date(2025, 3, 31, 0, 0, 0, 0, time.UTC),
		Scanned: 2,
		Signals: []Signal{
			{
				Symbol: "GAPR",
				Date:   time.Date(2025, 3, 10, 0, 0, 0, 0, time.UTC),
				Preset: "multiscan",
				Features: Features{
					Close: 105.5, GapPct: 3.0, GapOverATR: 1.5,
					VolumeRatio: 3.0, DollarVolume: 316_500_000, ATR: 2.0,
				},
				SuggestedShares: 120,
			},
		},
	}
}

func TestWriteCSVRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "out", "signals.csv")
	require.NoError(t, WriteCSV(sampleReport(), path))

	file, err := os.Open(path)
	require.NoError(t, err)
	defer file.Close()

	rows, err := csv.NewReader(file).ReadAll()
	require.NoError(t, err)
	require.Len(t, rows, 2)

	assert.Equal(t, "Date", rows[0][0])
	assert.Equal(t, "2025-03-10", rows[1][0])
	assert.Equal(t, "GAPR", rows[1][1])
	assert.Equal(t, "105.50", rows[1][2])
	assert.Equal(t, "120", rows[1][len(rows[1])-1])
}

func TestWriteJSONIncludesCriteria(t *testing.T) {
	path := filepath.Join(t.TempDir(), "out", "signals.json")
	params := MultiscanDefaults()
	require.NoError(t, WriteJSON(sampleReport(), params, path))

	data, err := os.ReadFile(path)
	require.NoError(t, err)

	var decoded struct {
		Report   *Report `json:"report"`
		Criteria Params  `json:"criteria"`
	}
	require.NoError(t, json.Unmarshal(data, &decoded))

	assert.Equal(t, "multiscan", decoded.Report.Preset)
	require.Len(t, decoded.Report.Signals, 1)
	assert.Equal(t, "GAPR", decoded.Report.Signals[0].Symbol)
	assert.InDelta(t, params.MinDollarVolume, decoded.Criteria.MinDollarVolume, 1e-9)
}
