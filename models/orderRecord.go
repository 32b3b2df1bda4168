package models

// OrderRecord is a journal row for a placed order
type OrderRecord struct {
	ID      int    `json:"id" db:"id"`
	OrderID int64  `json:"order_id" db:"order_id"`
	Symbol  string `json:"symbol" db:"symbol"`
	Side    string `json:"side" db:"side"`
	Kind    string `json:"kind" db:"kind"`
	Amount  string `json:"amount" db:"amount"`
	Price   string `json:"price" db:"price"`
}
