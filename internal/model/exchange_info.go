package model

// ExchangeInfoResponse represents the response from /fapi/v1/exchangeInfo
type ExchangeInfoResponse struct {
	Symbols []SymbolInfo `json:"symbols"`
}

// SymbolInfo represents a single contract's configuration
type SymbolInfo struct {
	Symbol  string   `json:"symbol"`
	Status  string   `json:"status"`
	Filters []Filter `json:"filters"`
}

// Filter represents a trading rule filter. Futures payloads are not
// consistent about the minimum-notional key: some use "minNotional",
// others plain "notional", so both are mapped.
type Filter struct {
	FilterType  string `json:"filterType"`
	TickSize    string `json:"tickSize,omitempty"`    // For PRICE_FILTER
	StepSize    string `json:"stepSize,omitempty"`    // For LOT_SIZE
	MinQty      string `json:"minQty,omitempty"`      // For LOT_SIZE
	MinNotional string `json:"minNotional,omitempty"` // For MIN_NOTIONAL
	Notional    string `json:"notional,omitempty"`    // For MIN_NOTIONAL (alt key)
}
