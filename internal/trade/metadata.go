package trade

import (
	"fmt"

	"futures-order-cli/internal/logger"

	"github.com/shopspring/decimal"
)

// SymbolFilters is the per-contract trading constraint snapshot extracted
// from exchange info. A zero value in any field means the exchange imposes
// no such constraint, not "minimum of zero".
type SymbolFilters struct {
	StepSize    decimal.Decimal
	MinQty      decimal.Decimal
	MinNotional decimal.Decimal
}

// SymbolFilters fetches the exchange-wide instrument listing and extracts
// the LOT_SIZE and minimum-notional filters for symbol.
func (t *Trader) SymbolFilters(symbol string) (SymbolFilters, error) {
	info, err := t.client.GetExchangeInfo("")
	if err != nil {
		return SymbolFilters{}, wrapError(KindRequestFailed, err, "failed to fetch exchange info")
	}

	for _, s := range info.Symbols {
		if s.Symbol != symbol {
			continue
		}

		var filters SymbolFilters
		for _, f := range s.Filters {
			switch f.FilterType {
			case "LOT_SIZE":
				filters.StepSize, err = parseFilterValue(f.StepSize, "stepSize")
				if err != nil {
					return SymbolFilters{}, err
				}
				filters.MinQty, err = parseFilterValue(f.MinQty, "minQty")
				if err != nil {
					return SymbolFilters{}, err
				}
			case "MIN_NOTIONAL":
				// The key is not standardized: "notional" on futures
				// payloads, "minNotional" on older ones. First match wins.
				value := f.Notional
				if value == "" {
					value = f.MinNotional
				}
				filters.MinNotional, err = parseFilterValue(value, "minNotional")
				if err != nil {
					return SymbolFilters{}, err
				}
			}
		}

		logger.Debug("Symbol filters",
			"symbol", symbol,
			"step_size", filters.StepSize,
			"min_qty", filters.MinQty,
			"min_notional", filters.MinNotional,
		)
		return filters, nil
	}

	return SymbolFilters{}, newError(KindSymbolNotFound, "symbol %s not found in exchange info", symbol)
}

// MarkPrice returns the current mark price for symbol, falling back to the
// last-trade ticker price when mark-price data is absent.
func (t *Trader) MarkPrice(symbol string) (decimal.Decimal, error) {
	index, err := t.client.GetPremiumIndex(symbol)
	if err == nil && index != nil && index.MarkPrice != "" {
		price, perr := decimal.NewFromString(index.MarkPrice)
		if perr == nil {
			return price, nil
		}
		logger.Warn("Unparseable mark price, falling back to ticker", "symbol", symbol, "mark_price", index.MarkPrice)
	} else if err != nil {
		logger.Warn("Mark price unavailable, falling back to ticker", "symbol", symbol, "error", err)
	}

	ticker, err := t.client.GetTickerPrice(symbol)
	if err != nil {
		return decimal.Zero, wrapError(KindPriceUnavailable, err, "no mark price and no ticker price for %s", symbol)
	}
	if ticker.Price == "" {
		return decimal.Zero, newError(KindPriceUnavailable, "no mark price and empty ticker price for %s", symbol)
	}

	price, err := decimal.NewFromString(ticker.Price)
	if err != nil {
		return decimal.Zero, wrapError(KindPriceUnavailable, err, "unparseable ticker price for %s", symbol)
	}
	return price, nil
}

// AvailableBalance scans the futures wallet for asset and returns its
// available (not total) balance. A missing asset is a zero balance, not an
// error.
func (t *Trader) AvailableBalance(asset string) (decimal.Decimal, error) {
	balances, err := t.client.GetBalances()
	if err != nil {
		return decimal.Zero, wrapError(KindRequestFailed, err, "failed to fetch account balances")
	}

	for _, b := range balances {
		if b.Asset != asset {
			continue
		}
		value := b.AvailableBalance
		if value == "" {
			value = b.Balance
		}
		if value == "" {
			return decimal.Zero, nil
		}
		available, err := decimal.NewFromString(value)
		if err != nil {
			return decimal.Zero, fmt.Errorf("unparseable balance for %s: %w", asset, err)
		}
		return available, nil
	}

	return decimal.Zero, nil
}

func parseFilterValue(value, name string) (decimal.Decimal, error) {
	if value == "" {
		return decimal.Zero, nil
	}
	d, err := decimal.NewFromString(value)
	if err != nil {
		return decimal.Zero, fmt.Errorf("unparseable %s filter value %q: %w", name, value, err)
	}
	return d, nil
}
