package trade

import (
	"github.com/shopspring/decimal"
)

// EstimateRequiredMargin approximates the collateral needed to open a
// position of the given notional at the given leverage: naive initial
// margin (notional / leverage) plus the configured safety buffer, rounded
// to the configured precision.
//
// This is a conservative pre-flight estimate only. The exchange's
// authoritative computation includes maintenance-margin tiers this tool
// does not model.
func (t *Trader) EstimateRequiredMargin(notional decimal.Decimal, leverage int) decimal.Decimal {
	margin := notional.Div(decimal.NewFromInt(int64(leverage)))
	buffered := margin.Mul(decimal.NewFromInt(1).Add(t.marginBufferPct))
	return buffered.Round(t.marginPrecision)
}

// CheckAvailableMargin fails with InsufficientBalance when the available
// balance of asset does not cover the required margin. The available
// balance is returned either way so the shell can show it.
func (t *Trader) CheckAvailableMargin(asset string, required decimal.Decimal) (decimal.Decimal, error) {
	available, err := t.AvailableBalance(asset)
	if err != nil {
		return decimal.Zero, err
	}
	if available.LessThan(required) {
		return available, newError(KindInsufficientBalance,
			"available %s %s is below the estimated required margin %s",
			asset, available, required)
	}
	return available, nil
}
