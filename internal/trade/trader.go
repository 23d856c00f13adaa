package trade

import (
	"net/url"

	"futures-order-cli/internal/model"

	"github.com/shopspring/decimal"
)

// ExchangeClient is the slice of the signed REST client this package needs.
// api.BinanceClient satisfies it; tests substitute a stub.
type ExchangeClient interface {
	GetExchangeInfo(symbol string) (*model.ExchangeInfoResponse, error)
	GetPremiumIndex(symbol string) (*model.PremiumIndex, error)
	GetTickerPrice(symbol string) (*model.TickerPrice, error)
	GetBalances() ([]model.FuturesBalance, error)
	CreateOrder(params url.Values) (*model.OrderResponse, error)
}

// Trader validates, sizes and submits one order per invocation. It holds no
// mutable state between calls; filters and prices are fetched fresh every
// time.
type Trader struct {
	client          ExchangeClient
	marginBufferPct decimal.Decimal
	marginPrecision int32
}

func NewTrader(client ExchangeClient, marginBufferPct decimal.Decimal, marginPrecision int32) *Trader {
	return &Trader{
		client:          client,
		marginBufferPct: marginBufferPct,
		marginPrecision: marginPrecision,
	}
}
