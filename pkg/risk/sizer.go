// Package risk sizes positions for flagged signals: fixed-percent account
// risk against an ATR-derived stop.
package risk

import (
	"fmt"

	"github.com/shopspring/decimal"
)

// Sizer computes share counts from account size and risk tolerance.
type Sizer struct {
	accountSize decimal.Decimal
	riskPercent decimal.Decimal
	// stopATRs is how many ATRs below the entry the stop sits.
	stopATRs decimal.Decimal
}

// NewSizer validates and builds a sizer. riskPercent is whole percent
// (1.0 = risk 1% of the account per trade).
func NewSizer(accountSize, riskPercent, stopATRs float64) (*Sizer, error) {
	if accountSize <= 0 {
		return nil, fmt.Errorf("account size must be positive, got %.2f", accountSize)
	}
	if riskPercent <= 0 || riskPercent > 10 {
		return nil, fmt.Errorf("risk percent must be in (0, 10], got %.2f", riskPercent)
	}
	if stopATRs <= 0 {
		return nil, fmt.Errorf("stop distance must be positive ATRs, got %.2f", stopATRs)
	}
	return &Sizer{
		accountSize: decimal.NewFromFloat(accountSize),
		riskPercent: decimal.NewFromFloat(riskPercent),
		stopATRs:    decimal.NewFromFloat(stopATRs),
	}, nil
}

// Shares returns the floored share count for an entry with a stop stopATRs
// ATRs away. Zero when the stop distance is degenerate.
func (s *Sizer) Shares(entry, atr float64) int64 {
	if entry <= 0 || atr <= 0 {
		return 0
	}

	riskPerShare := decimal.NewFromFloat(atr).Mul(s.stopATRs)
	if riskPerShare.IsZero() {
		return 0
	}

	maxRisk := s.accountSize.Mul(s.riskPercent).Div(decimal.NewFromInt(100))
	shares := maxRisk.Div(riskPerShare).Floor()

	// Never size past the account itself.
	notional := shares.Mul(decimal.NewFromFloat(entry))
	if notional.GreaterThan(s.accountSize) {
		shares = s.accountSize.Div(decimal.NewFromFloat(entry)).Floor()
	}

	return shares.IntPart()
}

// Stop returns the stop price for an entry given the bar's ATR.
func (s *Sizer) Stop(entry, atr float64) float64 {
	stop := decimal.NewFromFloat(entry).Sub(decimal.NewFromFloat(atr).Mul(s.stopATRs))
	f, _ := stop.Float64()
	if f < 0 {
		return 0
	}
	return f
}
