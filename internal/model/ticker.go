package model

// TickerPrice represents /fapi/v1/ticker/price, used as the price source of
// last resort when mark-price data is unavailable.
type TickerPrice struct {
	Symbol string `json:"symbol"`
	Price  string `json:"price"`
	Time   int64  `json:"time"`
}

// PremiumIndex represents one entry of /fapi/v1/premiumIndex. The endpoint
// returns a single object when queried with a symbol and an array without
// one; the client flattens both shapes into this struct.
type PremiumIndex struct {
	Symbol      string `json:"symbol"`
	MarkPrice   string `json:"markPrice"`
	IndexPrice  string `json:"indexPrice"`
	LastFunding string `json:"lastFundingRate"`
	Time        int64  `json:"time"`
}
