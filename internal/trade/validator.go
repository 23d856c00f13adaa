package trade

import (
	"futures-order-cli/internal/logger"
	"futures-order-cli/internal/numeric"

	"github.com/shopspring/decimal"
)

// AdjustedQuantity is the outcome of sizing a request against the contract's
// filters. Notional == Quantity * Price holds by construction.
type AdjustedQuantity struct {
	Quantity decimal.Decimal
	Price    decimal.Decimal
	Notional decimal.Decimal
	Filters  SymbolFilters
}

// PrepareQuantity turns a requested quantity into an exchange-legal one, or
// reports that none is achievable. Single adjustment pass, in order:
//
//  1. floor the request to the step size (a user's request is never silently
//     rounded up),
//  2. raise to minQty if the floored value fell below it,
//  3. if the notional at the current mark price is under the contract
//     minimum, lift the quantity to the next step multiple that covers it,
//  4. if the notional still falls short, fail. No second pass: the price
//     already moved, and chasing it is not this tool's job.
//
// A zero stepSize, minQty or minNotional disables the corresponding check.
func (t *Trader) PrepareQuantity(symbol string, requestedQty decimal.Decimal, leverage int) (*AdjustedQuantity, error) {
	if requestedQty.IsNegative() {
		return nil, newError(KindInvalidOrderParameters, "quantity must not be negative, got %s", requestedQty)
	}
	if leverage < 1 {
		return nil, newError(KindInvalidOrderParameters, "leverage must be a positive integer, got %d", leverage)
	}

	filters, err := t.SymbolFilters(symbol)
	if err != nil {
		return nil, err
	}

	price, err := t.MarkPrice(symbol)
	if err != nil {
		return nil, err
	}
	if !price.IsPositive() {
		return nil, newError(KindPriceUnavailable, "non-positive price %s for %s", price, symbol)
	}
	logger.Info("Mark price", "symbol", symbol, "price", price)

	qty := numeric.FloorToStep(requestedQty, filters.StepSize)

	if filters.MinQty.IsPositive() && qty.LessThan(filters.MinQty) {
		qty = filters.MinQty
	}

	notional := qty.Mul(price)

	if filters.MinNotional.IsPositive() && notional.LessThan(filters.MinNotional) {
		target := filters.MinNotional.Div(price)
		qty = numeric.CeilToStep(target, filters.StepSize)
		notional = qty.Mul(price)
	}

	if filters.MinNotional.IsPositive() && notional.LessThan(filters.MinNotional) {
		return nil, newError(KindNotionalTooLow,
			"adjusted quantity %s has notional %s below the %s minimum for %s",
			qty, notional, filters.MinNotional, symbol)
	}

	logger.Info("Quantity adjusted",
		"symbol", symbol,
		"requested_qty", requestedQty,
		"adjusted_qty", qty,
		"notional", notional,
	)

	return &AdjustedQuantity{
		Quantity: qty,
		Price:    price,
		Notional: notional,
		Filters:  filters,
	}, nil
}
