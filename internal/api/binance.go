package api

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"futures-order-cli/internal/logger"
	"futures-order-cli/internal/model"
)

const (
	BaseURL        = "https://fapi.binance.com"
	TestnetBaseURL = "https://testnet.binancefuture.com"
)

// Binance futures error code for "No need to change margin type."
const codeNoNeedToChangeMarginType = -4046

type BinanceClient struct {
	APIKey     string
	SecretKey  string
	BaseURL    string
	RecvWindow int64
	Client     *http.Client
	TimeOffset int64
}

// APIError is a non-2xx response from Binance. Code/Msg are parsed from the
// standard {"code":...,"msg":"..."} error body when present; Body always
// carries the raw payload for the caller's diagnostics.
type APIError struct {
	Status int
	Code   int64
	Msg    string
	Body   string
}

func (e *APIError) Error() string {
	if e.Msg != "" {
		return fmt.Sprintf("binance api status %d (code %d): %s", e.Status, e.Code, e.Msg)
	}
	return fmt.Sprintf("binance api status %d: %s", e.Status, e.Body)
}

func NewBinanceClient(apiKey, secretKey string, testnet bool, recvWindowMS int64) *BinanceClient {
	baseURL := BaseURL
	if testnet {
		baseURL = TestnetBaseURL
	}
	return &BinanceClient{
		APIKey:     apiKey,
		SecretKey:  secretKey,
		BaseURL:    baseURL,
		RecvWindow: recvWindowMS,
		Client:     &http.Client{Timeout: 10 * time.Second},
	}
}

// SyncTime synchronizes the local clock with the Binance server time.
// Best-effort: the exchange rejects signed requests whose timestamp drifts
// outside recvWindow, so the offset is applied to every signed call.
func (c *BinanceClient) SyncTime() error {
	body, err := c.publicRequest("/fapi/v1/time", nil)
	if err != nil {
		return fmt.Errorf("failed to get server time: %w", err)
	}

	var timeResp struct {
		ServerTime int64 `json:"serverTime"`
	}
	if err := json.Unmarshal(body, &timeResp); err != nil {
		return fmt.Errorf("failed to parse time response: %w", err)
	}

	localTime := time.Now().UnixMilli()
	c.TimeOffset = timeResp.ServerTime - localTime

	logger.Info("Time synchronized", "server_time", timeResp.ServerTime, "local_time", localTime, "offset_ms", c.TimeOffset)
	return nil
}

// serverTime returns the current wall-clock time adjusted by the sync offset.
func (c *BinanceClient) serverTime() int64 {
	return time.Now().UnixMilli() + c.TimeOffset
}

func (c *BinanceClient) sign(queryString string) string {
	mac := hmac.New(sha256.New, []byte(c.SecretKey))
	mac.Write([]byte(queryString))
	return hex.EncodeToString(mac.Sum(nil))
}

// publicRequest performs an unauthenticated GET against a market-data
// endpoint.
func (c *BinanceClient) publicRequest(endpoint string, params url.Values) ([]byte, error) {
	reqURL := fmt.Sprintf("%s%s", c.BaseURL, endpoint)
	if len(params) > 0 {
		reqURL = fmt.Sprintf("%s?%s", reqURL, params.Encode())
	}

	resp, err := c.Client.Get(reqURL)
	if err != nil {
		return nil, fmt.Errorf("request failed: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read response body: %w", err)
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, newAPIError(resp.StatusCode, body)
	}

	return body, nil
}

// signedRequest injects the timestamp and recvWindow, signs the canonical
// query string with HMAC-SHA256 and executes the call with the API-key
// header. Parameters travel in the query string for every method so the
// signed string and the sent string are one and the same.
//
// url.Values.Encode sorts keys lexicographically, which is exactly the
// canonical form Binance recomputes the signature over.
func (c *BinanceClient) signedRequest(method, endpoint string, params url.Values) ([]byte, error) {
	if params == nil {
		params = url.Values{}
	}
	params.Set("timestamp", strconv.FormatInt(c.serverTime(), 10))
	if c.RecvWindow > 0 {
		params.Set("recvWindow", strconv.FormatInt(c.RecvWindow, 10))
	}

	queryString := params.Encode()
	queryString += "&signature=" + c.sign(queryString)

	reqURL := fmt.Sprintf("%s%s", c.BaseURL, endpoint)

	req, err := http.NewRequest(method, reqURL, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	req.URL.RawQuery = queryString
	req.Header.Add("X-MBX-APIKEY", c.APIKey)

	resp, err := c.Client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to execute request: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read response body: %w", err)
	}

	// The signature never goes to the log, only the endpoint and outcome.
	logger.Debug("Signed request", "method", method, "endpoint", endpoint, "status", resp.StatusCode, "body", string(body))

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		logger.Error("Binance API error", "method", method, "endpoint", endpoint, "status", resp.Status)
		return nil, newAPIError(resp.StatusCode, body)
	}

	return body, nil
}

func newAPIError(status int, body []byte) *APIError {
	apiErr := &APIError{Status: status, Body: string(body)}
	var payload struct {
		Code int64  `json:"code"`
		Msg  string `json:"msg"`
	}
	if err := json.Unmarshal(body, &payload); err == nil {
		apiErr.Code = payload.Code
		apiErr.Msg = payload.Msg
	}
	return apiErr
}

// GetExchangeInfo fetches the futures instrument metadata. Symbol is
// optional; when set the payload is filtered server-side.
func (c *BinanceClient) GetExchangeInfo(symbol string) (*model.ExchangeInfoResponse, error) {
	params := url.Values{}
	if symbol != "" {
		params.Add("symbol", symbol)
	}

	body, err := c.publicRequest("/fapi/v1/exchangeInfo", params)
	if err != nil {
		return nil, err
	}

	var info model.ExchangeInfoResponse
	if err := json.Unmarshal(body, &info); err != nil {
		return nil, fmt.Errorf("failed to unmarshal exchange info: %w", err)
	}
	return &info, nil
}

// GetPremiumIndex fetches the mark-price entry for symbol. The endpoint
// answers with a single object when a symbol is given but some gateways
// still wrap it in an array, so both shapes are accepted.
func (c *BinanceClient) GetPremiumIndex(symbol string) (*model.PremiumIndex, error) {
	params := url.Values{}
	params.Add("symbol", symbol)

	body, err := c.publicRequest("/fapi/v1/premiumIndex", params)
	if err != nil {
		return nil, err
	}

	trimmed := strings.TrimSpace(string(body))
	if strings.HasPrefix(trimmed, "[") {
		var entries []model.PremiumIndex
		if err := json.Unmarshal(body, &entries); err != nil {
			return nil, fmt.Errorf("failed to unmarshal premium index list: %w", err)
		}
		for i := range entries {
			if entries[i].Symbol == symbol {
				return &entries[i], nil
			}
		}
		if len(entries) > 0 {
			return &entries[0], nil
		}
		return nil, fmt.Errorf("empty premium index response for %s", symbol)
	}

	var entry model.PremiumIndex
	if err := json.Unmarshal(body, &entry); err != nil {
		return nil, fmt.Errorf("failed to unmarshal premium index: %w", err)
	}
	return &entry, nil
}

// GetTickerPrice fetches the last-trade price, the fallback source when
// mark-price data is absent.
func (c *BinanceClient) GetTickerPrice(symbol string) (*model.TickerPrice, error) {
	params := url.Values{}
	params.Add("symbol", symbol)

	body, err := c.publicRequest("/fapi/v1/ticker/price", params)
	if err != nil {
		return nil, err
	}

	var ticker model.TickerPrice
	if err := json.Unmarshal(body, &ticker); err != nil {
		return nil, fmt.Errorf("failed to unmarshal ticker price: %w", err)
	}
	return &ticker, nil
}

// GetBalances fetches the per-asset futures wallet balances.
func (c *BinanceClient) GetBalances() ([]model.FuturesBalance, error) {
	body, err := c.signedRequest(http.MethodGet, "/fapi/v2/balance", nil)
	if err != nil {
		return nil, err
	}

	var balances []model.FuturesBalance
	if err := json.Unmarshal(body, &balances); err != nil {
		return nil, fmt.Errorf("failed to unmarshal balances: %w", err)
	}
	return balances, nil
}

// ChangeMarginType sets ISOLATED or CROSSED margin for symbol. Binance
// answers -4046 when the margin type already matches; that is not a failure.
func (c *BinanceClient) ChangeMarginType(symbol, marginType string) error {
	params := url.Values{}
	params.Add("symbol", symbol)
	params.Add("marginType", marginType)

	_, err := c.signedRequest(http.MethodPost, "/fapi/v1/marginType", params)
	if err != nil {
		var apiErr *APIError
		if errors.As(err, &apiErr) && apiErr.Code == codeNoNeedToChangeMarginType {
			logger.Debug("Margin type already set", "symbol", symbol, "margin_type", marginType)
			return nil
		}
		return err
	}

	logger.Info("Margin type set", "symbol", symbol, "margin_type", marginType)
	return nil
}

// ChangeLeverage sets the initial leverage for symbol. The allowed range is
// enforced by the exchange per contract.
func (c *BinanceClient) ChangeLeverage(symbol string, leverage int) (*model.LeverageResponse, error) {
	params := url.Values{}
	params.Add("symbol", symbol)
	params.Add("leverage", strconv.Itoa(leverage))

	body, err := c.signedRequest(http.MethodPost, "/fapi/v1/leverage", params)
	if err != nil {
		return nil, err
	}

	var resp model.LeverageResponse
	if err := json.Unmarshal(body, &resp); err != nil {
		return nil, fmt.Errorf("failed to unmarshal leverage response: %w", err)
	}

	logger.Info("Leverage set", "symbol", symbol, "leverage", resp.Leverage)
	return &resp, nil
}

// CreateOrder submits a new order with the already-assembled exchange
// parameters.
func (c *BinanceClient) CreateOrder(params url.Values) (*model.OrderResponse, error) {
	body, err := c.signedRequest(http.MethodPost, "/fapi/v1/order", params)
	if err != nil {
		return nil, err
	}

	var order model.OrderResponse
	if err := json.Unmarshal(body, &order); err != nil {
		return nil, fmt.Errorf("failed to unmarshal order response: %w", err)
	}
	return &order, nil
}
