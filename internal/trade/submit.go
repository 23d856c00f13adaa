package trade

import (
	"net/url"
	"strings"

	"futures-order-cli/internal/logger"
	"futures-order-cli/internal/model"

	"github.com/shopspring/decimal"
)

type Side string

const (
	SideBuy  Side = "BUY"
	SideSell Side = "SELL"
)

type OrderType string

const (
	OrderTypeMarket    OrderType = "MARKET"
	OrderTypeLimit     OrderType = "LIMIT"
	OrderTypeStopLimit OrderType = "STOP_LIMIT"
)

// binanceOrderType maps the logical order type to the exchange's. The only
// divergence is STOP_LIMIT, which Binance futures calls STOP.
func (t OrderType) binanceOrderType() string {
	if t == OrderTypeStopLimit {
		return "STOP"
	}
	return string(t)
}

// OrderRequest is one logical order, constructed once per invocation.
// Price and StopPrice are zero when not set; whether they are required
// depends on Type.
type OrderRequest struct {
	Symbol      string
	Side        Side
	Type        OrderType
	Quantity    decimal.Decimal
	Price       decimal.Decimal
	StopPrice   decimal.Decimal
	TimeInForce string
	ReduceOnly  bool
}

// ExchangeParams validates the request and assembles the exchange order
// parameters. All failures here happen before any network call.
func (r *OrderRequest) ExchangeParams() (url.Values, error) {
	if r.Side != SideBuy && r.Side != SideSell {
		return nil, newError(KindInvalidOrderParameters, "side must be BUY or SELL, got %q", r.Side)
	}
	if !r.Quantity.IsPositive() {
		return nil, newError(KindInvalidOrderParameters, "quantity must be positive, got %s", r.Quantity)
	}

	params := url.Values{}
	params.Add("symbol", strings.ToUpper(r.Symbol))
	params.Add("side", string(r.Side))
	params.Add("type", r.Type.binanceOrderType())
	params.Add("quantity", r.Quantity.String())
	if r.ReduceOnly {
		params.Add("reduceOnly", "true")
	}

	switch r.Type {
	case OrderTypeMarket:
		// Symbol, side and quantity are all a market order needs.

	case OrderTypeLimit:
		if !r.Price.IsPositive() {
			return nil, newError(KindInvalidOrderParameters, "LIMIT order requires a price")
		}
		tif := r.TimeInForce
		if tif == "" {
			tif = "GTC"
		}
		params.Add("price", r.Price.String())
		params.Add("timeInForce", tif)

	case OrderTypeStopLimit:
		if !r.StopPrice.IsPositive() || !r.Price.IsPositive() {
			return nil, newError(KindInvalidOrderParameters, "STOP_LIMIT order requires both a stop price and a price")
		}
		tif := r.TimeInForce
		if tif == "" {
			tif = "GTC"
		}
		params.Add("stopPrice", r.StopPrice.String())
		params.Add("price", r.Price.String())
		params.Add("timeInForce", tif)

	default:
		return nil, newError(KindInvalidOrderParameters, "unsupported order type %q", r.Type)
	}

	return params, nil
}

// PlaceOrder validates the request, maps it to exchange parameters and
// submits it through the signed request layer.
func (t *Trader) PlaceOrder(req OrderRequest) (*model.OrderResponse, error) {
	params, err := req.ExchangeParams()
	if err != nil {
		return nil, err
	}

	order, err := t.client.CreateOrder(params)
	if err != nil {
		return nil, wrapError(KindRequestFailed, err, "order submission failed for %s", req.Symbol)
	}

	logger.Info("Order placed",
		"symbol", order.Symbol,
		"order_id", order.OrderID,
		"status", order.Status,
		"side", order.Side,
		"type", order.Type,
		"orig_qty", order.OrigQty,
		"executed_qty", order.ExecutedQty,
	)
	return order, nil
}
