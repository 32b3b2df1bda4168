package models

import "github.com/shopspring/decimal"

// Ticker is a market ticker snapshot
type Ticker struct {
	Last decimal.Decimal `json:"last"`
	Buy  decimal.Decimal `json:"buy"`
	Sell decimal.Decimal `json:"sell"`
	High decimal.Decimal `json:"high"`
	Low  decimal.Decimal `json:"low"`
	Vol  decimal.Decimal `json:"vol"`
}

// Depth is the aggregated order book: each level is a [price, amount] pair,
// asks ascending, bids descending.
type Depth struct {
	Asks [][]decimal.Decimal `json:"asks"`
	Bids [][]decimal.Decimal `json:"bids"`
}
