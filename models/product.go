package models

// Product represents a single trading pair as listed by the exchange
type Product struct {
	Symbol    string `json:"symbol"`
	BaseAsset string `json:"base_asset"`
	MarkAsset string `json:"mark_asset"`
}
