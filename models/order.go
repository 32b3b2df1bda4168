package models

import (
	"encoding/json"

	"github.com/shopspring/decimal"
)

// Side defines a type-safe enum-like structure for order sides
type Side struct {
	value string
}

var (
	BuySide  = Side{"buy"}
	SellSide = Side{"sell"}
)

// String returns the string representation of the Side
func (s Side) String() string {
	return s.value
}

// IsValid checks if a given value is a valid Side
func (s Side) IsValid() bool {
	switch s {
	case BuySide, SellSide:
		return true
	default:
		return false
	}
}

// OrderKind defines a type-safe enum-like structure for order kinds
type OrderKind struct {
	value string
}

var (
	LimitKind  = OrderKind{"limit"}
	MarketKind = OrderKind{"market"}
)

func (k OrderKind) String() string {
	return k.value
}

func (k OrderKind) IsValid() bool {
	switch k {
	case LimitKind, MarketKind:
		return true
	default:
		return false
	}
}

// Order is an order as reported by the exchange. Type carries the raw
// exchange state string: "buy" and "sell" are resting orders, anything else
// (filled, cancelled, market fills) is not cancellable.
type Order struct {
	OrderID    int64           `json:"order_id"`
	Symbol     string          `json:"symbol"`
	Type       string          `json:"type"`
	Price      decimal.Decimal `json:"price"`
	Amount     decimal.Decimal `json:"amount"`
	DealAmount decimal.Decimal `json:"deal_amount"`
	AvgPrice   decimal.Decimal `json:"avg_price"`
	CreateDate int64           `json:"create_date"`
}

// Cancellable reports whether the order is still resting on the book.
func (o *Order) Cancellable() bool {
	return o.Type == BuySide.String() || o.Type == SellSide.String()
}

// TradeResult is the response to an order placement. OrderID is zero when
// the exchange rejected the order; Raw keeps the untouched payload so
// rejections can be logged verbatim.
type TradeResult struct {
	OrderID int64           `json:"order_id"`
	Result  bool            `json:"result"`
	Raw     json.RawMessage `json:"-"`
}

// Accepted reports whether the exchange acknowledged the order.
func (r *TradeResult) Accepted() bool {
	return r.OrderID != 0
}
