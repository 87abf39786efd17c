package risk

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSharesBasic(t *testing.T) {
	// $100k account, 1% risk = $1000 per trade. ATR 2, stop 2 ATRs away:
	// $4 risk per share -> 250 shares.
	sizer, err := NewSizer(100_000, 1.0, 2.0)
	require.NoError(t, err)

	assert.Equal(t, int64(250), sizer.Shares(50, 2))
}

func TestSharesCappedByAccount(t *testing.T) {
	// $10k account, tiny stop: raw sizing would exceed the account, so the
	// notional cap kicks in: floor(10000/100) = 100 shares.
	sizer, err := NewSizer(10_000, 2.0, 1.0)
	require.NoError(t, err)

	assert.Equal(t, int64(100), sizer.Shares(100, 0.5))
}

func TestSharesDegenerateInputs(t *testing.T) {
	sizer, err := NewSizer(100_000, 1.0, 2.0)
	require.NoError(t, err)

	assert.Zero(t, sizer.Shares(0, 2))
	assert.Zero(t, sizer.Shares(50, 0))
}

func TestStop(t *testing.T) {
	sizer, err := NewSizer(100_000, 1.0, 2.0)
	require.NoError(t, err)

	assert.InDelta(t, 46.0, sizer.Stop(50, 2), 1e-9)
	// Stops never go negative on cheap, volatile names.
	assert.Zero(t, sizer.Stop(1, 3))
}

func TestNewSizerRejectsBadInputs(t *testing.T) {
	tests := []struct {
		name                       string
		account, riskPct, stopATRs float64
	}{
		{"zero account", 0, 1, 2},
		{"zero risk", 100_000, 0, 2},
		{"excessive risk", 100_000, 50, 2},
		{"zero stop", 100_000, 1, 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := NewSizer(tt.account, tt.riskPct, tt.stopATRs)
			assert.Error(t, err)
		})
	}
}
