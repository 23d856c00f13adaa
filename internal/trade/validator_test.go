package trade

import (
	"errors"
	"net/url"
	"testing"

	"futures-order-cli/internal/model"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type stubClient struct {
	info        *model.ExchangeInfoResponse
	infoErr     error
	premium     *model.PremiumIndex
	premiumErr  error
	ticker      *model.TickerPrice
	tickerErr   error
	balances    []model.FuturesBalance
	balancesErr error
	orderResp   *model.OrderResponse
	orderErr    error

	createCalls  int
	createParams url.Values
}

func (s *stubClient) GetExchangeInfo(symbol string) (*model.ExchangeInfoResponse, error) {
	return s.info, s.infoErr
}

func (s *stubClient) GetPremiumIndex(symbol string) (*model.PremiumIndex, error) {
	return s.premium, s.premiumErr
}

func (s *stubClient) GetTickerPrice(symbol string) (*model.TickerPrice, error) {
	return s.ticker, s.tickerErr
}

func (s *stubClient) GetBalances() ([]model.FuturesBalance, error) {
	return s.balances, s.balancesErr
}

func (s *stubClient) CreateOrder(params url.Values) (*model.OrderResponse, error) {
	s.createCalls++
	s.createParams = params
	if s.orderErr != nil {
		return nil, s.orderErr
	}
	return s.orderResp, nil
}

func btcClient(stepSize, minQty, minNotional, markPrice string) *stubClient {
	return &stubClient{
		info: &model.ExchangeInfoResponse{
			Symbols: []model.SymbolInfo{
				{
					Symbol: "BTCUSDT",
					Filters: []model.Filter{
						{FilterType: "LOT_SIZE", StepSize: stepSize, MinQty: minQty},
						{FilterType: "MIN_NOTIONAL", Notional: minNotional},
					},
				},
			},
		},
		premium: &model.PremiumIndex{Symbol: "BTCUSDT", MarkPrice: markPrice},
	}
}

func newTestTrader(client ExchangeClient) *Trader {
	return NewTrader(client, d("0.10"), 8)
}

func d(s string) decimal.Decimal {
	v, err := decimal.NewFromString(s)
	if err != nil {
		panic(err)
	}
	return v
}

func TestPrepareQuantity_RaisedToMinQtyThenMinNotional(t *testing.T) {
	// 0.0005 floors to 0, is raised to minQty 0.001, whose notional 50 is
	// below 100, so the quantity is lifted to ceil(100/50000, 0.001) = 0.002.
	trader := newTestTrader(btcClient("0.001", "0.001", "100", "50000"))

	adjusted, err := trader.PrepareQuantity("BTCUSDT", d("0.0005"), 20)
	require.NoError(t, err)

	assert.True(t, d("0.002").Equal(adjusted.Quantity), "quantity %s", adjusted.Quantity)
	assert.True(t, d("100").Equal(adjusted.Notional), "notional %s", adjusted.Notional)
	assert.True(t, d("50000").Equal(adjusted.Price))
}

func TestPrepareQuantity_TinyRequestSameOutcome(t *testing.T) {
	trader := newTestTrader(btcClient("0.001", "0.001", "100", "50000"))

	adjusted, err := trader.PrepareQuantity("BTCUSDT", d("0.00019"), 20)
	require.NoError(t, err)

	assert.True(t, d("0.002").Equal(adjusted.Quantity), "quantity %s", adjusted.Quantity)
	assert.True(t, d("100").Equal(adjusted.Notional), "notional %s", adjusted.Notional)
}

func TestPrepareQuantity_IntegerStep(t *testing.T) {
	trader := newTestTrader(btcClient("1", "1", "100", "1"))

	adjusted, err := trader.PrepareQuantity("BTCUSDT", d("50"), 10)
	require.NoError(t, err)

	assert.True(t, d("100").Equal(adjusted.Quantity), "quantity %s", adjusted.Quantity)
	assert.True(t, d("100").Equal(adjusted.Notional))
}

func TestPrepareQuantity_AlreadyLegalIsOnlyFloored(t *testing.T) {
	trader := newTestTrader(btcClient("0.001", "0.001", "100", "50000"))

	adjusted, err := trader.PrepareQuantity("BTCUSDT", d("0.0037"), 20)
	require.NoError(t, err)

	// Never rounded up past what was asked.
	assert.True(t, d("0.003").Equal(adjusted.Quantity), "quantity %s", adjusted.Quantity)
	assert.True(t, d("150").Equal(adjusted.Notional))
}

func TestPrepareQuantity_NotionalEqualsQuantityTimesPrice(t *testing.T) {
	trader := newTestTrader(btcClient("0.001", "0.001", "100", "43210.55"))

	adjusted, err := trader.PrepareQuantity("BTCUSDT", d("0.005"), 5)
	require.NoError(t, err)

	assert.True(t, adjusted.Quantity.Mul(adjusted.Price).Equal(adjusted.Notional))

	_, rem := adjusted.Quantity.QuoRem(adjusted.Filters.StepSize, 0)
	assert.True(t, rem.IsZero(), "quantity %s is not step aligned", adjusted.Quantity)
}

func TestPrepareQuantity_ZeroFiltersDisableChecks(t *testing.T) {
	// stepSize 0 means no rounding, minQty/minNotional 0 mean no checks:
	// the requested quantity passes through untouched.
	trader := newTestTrader(btcClient("0", "0", "0", "50000"))

	adjusted, err := trader.PrepareQuantity("BTCUSDT", d("0.00019"), 20)
	require.NoError(t, err)

	assert.True(t, d("0.00019").Equal(adjusted.Quantity), "quantity %s", adjusted.Quantity)
}

func TestPrepareQuantity_NotionalTooLow(t *testing.T) {
	// With no step constraint the target quantity is minNotional/price,
	// a division truncated to finite precision. 100/3 rounds to
	// 33.3333333333333333, whose notional 99.99... stays below the minimum,
	// and the single adjustment pass does not try again.
	trader := newTestTrader(btcClient("0", "0", "100", "3"))

	_, err := trader.PrepareQuantity("BTCUSDT", d("1"), 20)
	require.Error(t, err)
	assert.True(t, IsKind(err, KindNotionalTooLow), "got %v", err)
}

func TestPrepareQuantity_ZeroPriceIsUnavailable(t *testing.T) {
	trader := newTestTrader(btcClient("0.001", "0.001", "100", "0"))

	_, err := trader.PrepareQuantity("BTCUSDT", d("0.001"), 20)
	require.Error(t, err)
	assert.True(t, IsKind(err, KindPriceUnavailable), "got %v", err)
}

func TestPrepareQuantity_SymbolNotFound(t *testing.T) {
	trader := newTestTrader(btcClient("0.001", "0.001", "100", "50000"))

	_, err := trader.PrepareQuantity("DOGEUSDT", d("1"), 20)
	require.Error(t, err)
	assert.True(t, IsKind(err, KindSymbolNotFound), "got %v", err)
}

func TestPrepareQuantity_PriceUnavailable(t *testing.T) {
	client := btcClient("0.001", "0.001", "100", "50000")
	client.premiumErr = errors.New("premium index down")
	client.tickerErr = errors.New("ticker down")
	trader := newTestTrader(client)

	_, err := trader.PrepareQuantity("BTCUSDT", d("0.001"), 20)
	require.Error(t, err)
	assert.True(t, IsKind(err, KindPriceUnavailable), "got %v", err)
}

func TestPrepareQuantity_TickerFallback(t *testing.T) {
	client := btcClient("0.001", "0.001", "100", "")
	client.premium.MarkPrice = ""
	client.ticker = &model.TickerPrice{Symbol: "BTCUSDT", Price: "48000"}
	trader := newTestTrader(client)

	adjusted, err := trader.PrepareQuantity("BTCUSDT", d("0.005"), 20)
	require.NoError(t, err)
	assert.True(t, d("48000").Equal(adjusted.Price))
}

func TestPrepareQuantity_InvalidInputs(t *testing.T) {
	trader := newTestTrader(btcClient("0.001", "0.001", "100", "50000"))

	_, err := trader.PrepareQuantity("BTCUSDT", d("-1"), 20)
	assert.True(t, IsKind(err, KindInvalidOrderParameters), "got %v", err)

	_, err = trader.PrepareQuantity("BTCUSDT", d("0.001"), 0)
	assert.True(t, IsKind(err, KindInvalidOrderParameters), "got %v", err)
}
