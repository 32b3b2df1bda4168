package interfaces

import (
	"kkex_bot/models"

	"github.com/shopspring/decimal"
)

// ExchangeClient interface defines methods our bot needs from the exchange
type ExchangeClient interface {
	GetProducts() ([]models.Product, error)
	GetUserInfo() (*models.AccountSnapshot, error)
	GetTicker(symbol string) (*models.Ticker, error)
	GetDepth(symbol string, merge string) (*models.Depth, error)
	GetOrders(symbol string, pagesize int) ([]models.Order, error)
	CancelOrder(symbol string, orderID int64) error
	BuyLimit(symbol string, amount, price decimal.Decimal) (*models.TradeResult, error)
	SellLimit(symbol string, amount, price decimal.Decimal) (*models.TradeResult, error)
	BuyMarket(symbol string, amount decimal.Decimal) (*models.TradeResult, error)
	SellMarket(symbol string, amount decimal.Decimal) (*models.TradeResult, error)
	OrderInfo(symbol string, orderID int64) (*models.Order, error)
}

// Rand is the source of uniform randomness for the trading loop.
// *rand.Rand satisfies it; tests substitute a scripted sequence.
type Rand interface {
	Float64() float64
}
