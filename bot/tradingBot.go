package bot

import (
	"fmt"
	"sync"
	"time"

	"kkex_bot/config"
	"kkex_bot/db"
	"kkex_bot/interfaces"
	"kkex_bot/logger"
	"kkex_bot/models"

	"github.com/shopspring/decimal"
)

const (
	orderPageSize      = 200
	maxOpenOrders      = 40
	cancelHeadroom     = 5
	maxCancelsPerCycle = 20
	limitOrderBias     = 0.6
	maxPaceSeconds     = 6.0
	depthMerge         = "0.01"
)

var (
	minTradeAmount   = decimal.RequireFromString("0.1")
	priceFloor       = decimal.RequireFromString("0.01")
	eligibilityFloor = decimal.RequireFromString("-0.01")
	amountJitterBase = decimal.RequireFromString("0.95")
)

// TradingBot drives the perpetual observe -> decide -> act -> pace cycle for
// a single product. All monetary math runs on decimals; every iteration works
// off a fresh account snapshot fetched from the exchange.
type TradingBot struct {
	exchange interfaces.ExchangeClient
	cfg      *config.Config
	rng      interfaces.Rand
	journal  *db.SQLite // nil disables the order journal

	product *models.Product

	baseSellPrice decimal.Decimal
	baseBuyPrice  decimal.Decimal
	baseAmount    decimal.Decimal
	priceVar      float64

	wg     sync.WaitGroup
	stopCh chan struct{}
}

// cycleState is the per-cycle market view passed through decide/act steps.
// It is rebuilt from scratch every iteration and never outlives one.
type cycleState struct {
	snapshot *models.AccountSnapshot
	depth    *models.Depth
}

func NewTradingBot(exchange interfaces.ExchangeClient, cfg *config.Config, rng interfaces.Rand, journal *db.SQLite) *TradingBot {
	return &TradingBot{
		exchange:      exchange,
		cfg:           cfg,
		rng:           rng,
		journal:       journal,
		baseSellPrice: decimal.NewFromFloat(cfg.BaseSellPrice),
		baseBuyPrice:  decimal.NewFromFloat(cfg.BaseBuyPrice),
		baseAmount:    decimal.NewFromFloat(cfg.BaseAmount),
		priceVar:      cfg.PriceVar,
		stopCh:        make(chan struct{}),
	}
}

// ResolveProduct looks up the configured symbol in the exchange's product
// list. A missing symbol is a configuration error and must abort startup;
// it is never retried.
func (b *TradingBot) ResolveProduct() error {
	products, err := b.exchange.GetProducts()
	if err != nil {
		return fmt.Errorf("failed to fetch products: %w", err)
	}
	for i := range products {
		if products[i].Symbol == b.cfg.Symbol {
			b.product = &products[i]
			logger.Infof("Trading %s (base %s, mark %s)", b.product.Symbol, b.product.BaseAsset, b.product.MarkAsset)
			return nil
		}
	}
	return fmt.Errorf("symbol %s not found in product list", b.cfg.Symbol)
}

// StartTrading launches the trading loop. ResolveProduct must have
// succeeded first.
func (b *TradingBot) StartTrading() {
	b.wg.Add(1)
	go b.run()
}

func (b *TradingBot) Stop() {
	close(b.stopCh)
	b.wg.Wait()
}

func (b *TradingBot) run() {
	defer b.wg.Done()

	logger.Infof("Started trading %s", b.product.Symbol)

	for {
		if err := b.runCycle(); err != nil {
			logger.Errorf("Cycle aborted for %s: %v", b.product.Symbol, err)
		}

		pace := time.Duration(b.rng.Float64() * maxPaceSeconds * float64(time.Second))
		select {
		case <-b.stopCh:
			return
		case <-time.After(pace):
		}
	}
}

// runCycle performs one full iteration. Any fetch failure aborts the
// iteration only; the loop resumes on the next tick.
func (b *TradingBot) runCycle() error {
	cycle, err := b.observe()
	if err != nil {
		return err
	}
	if err := b.cleanOrders(); err != nil {
		return err
	}
	b.decide(cycle)
	return nil
}

func (b *TradingBot) observe() (*cycleState, error) {
	snapshot, err := b.exchange.GetUserInfo()
	if err != nil {
		return nil, fmt.Errorf("failed to fetch account info: %w", err)
	}
	logger.Debugf("Balances for %s: free %s %s / %s %s, last price %s",
		b.product.Symbol,
		b.product.BaseAsset, snapshot.FreeBalance(b.product.BaseAsset),
		b.product.MarkAsset, snapshot.FreeBalance(b.product.MarkAsset),
		snapshot.LastPrice)

	ticker, err := b.exchange.GetTicker(b.product.Symbol)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch ticker: %w", err)
	}
	logger.Debugf("Ticker for %s: last %s high %s low %s", b.product.Symbol, ticker.Last, ticker.High, ticker.Low)

	depth, err := b.exchange.GetDepth(b.product.Symbol, depthMerge)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch depth: %w", err)
	}
	logger.Debugf("Depth for %s: %d asks, %d bids", b.product.Symbol, len(depth.Asks), len(depth.Bids))

	return &cycleState{snapshot: snapshot, depth: depth}, nil
}

// cleanOrders bounds the number of resting orders. The listing is most
// recent first, so the oldest orders sit at the tail. Cancellation failures
// are logged and do not abort the cycle.
func (b *TradingBot) cleanOrders() error {
	orders, err := b.exchange.GetOrders(b.product.Symbol, orderPageSize)
	if err != nil {
		return fmt.Errorf("failed to fetch open orders: %w", err)
	}
	logger.Infof("Open orders for %s: %d", b.product.Symbol, len(orders))

	if len(orders) <= maxOpenOrders {
		return nil
	}

	rem := len(orders) - maxOpenOrders + cancelHeadroom
	if rem > maxCancelsPerCycle {
		rem = maxCancelsPerCycle
	}

	for i := 0; i < rem; i++ {
		order := orders[len(orders)-1-i]
		if !order.Cancellable() {
			continue
		}
		logger.Infof("Canceling order %d of %d open for %s", order.OrderID, len(orders), b.product.Symbol)
		if err := b.exchange.CancelOrder(b.product.Symbol, order.OrderID); err != nil {
			logger.Warnf("Failed to cancel order %d: %v", order.OrderID, err)
			continue
		}
		b.journalCancel(order.OrderID)
	}
	return nil
}

// decide builds the eligible action list and executes one at random.
// Note the crossed gates: the sell floor arms buying and the buy floor arms
// selling. One draw is consumed even when a single action is eligible.
func (b *TradingBot) decide(cycle *cycleState) {
	var actions []func(*cycleState)
	if b.baseSellPrice.GreaterThanOrEqual(eligibilityFloor) {
		actions = append(actions, b.buy)
	}
	if b.baseBuyPrice.GreaterThanOrEqual(eligibilityFloor) {
		actions = append(actions, b.sell)
	}
	if len(actions) == 0 {
		return
	}

	idx := int(b.rng.Float64() * float64(len(actions)))
	if idx >= len(actions) {
		idx = len(actions) - 1
	}
	actions[idx](cycle)
}

func (b *TradingBot) buy(cycle *cycleState) {
	var price decimal.Decimal
	if b.baseBuyPrice.GreaterThan(priceFloor) {
		price = b.baseBuyPrice.Mul(b.randomVarFactor())
	} else {
		price = b.randomVarFactor()
	}

	if b.rng.Float64() < limitOrderBias {
		b.buyLimit(cycle, price)
	} else {
		b.buyMarket(cycle)
	}
}

func (b *TradingBot) sell(cycle *cycleState) {
	var price decimal.Decimal
	if b.baseSellPrice.GreaterThan(priceFloor) {
		price = b.baseSellPrice.Mul(b.randomVarFactor())
	} else {
		price = b.randomVarFactor()
	}

	if b.rng.Float64() < limitOrderBias {
		b.sellLimit(cycle, price)
	} else {
		b.sellMarket(cycle)
	}
}

func (b *TradingBot) buyLimit(cycle *cycleState, price decimal.Decimal) {
	amount := decimal.Min(b.tradeAmount(), b.availBid(cycle).Div(price))
	if !amount.GreaterThan(minTradeAmount) {
		logger.Debugf("Skipping limit buy for %s: amount %s below floor", b.product.Symbol, amount)
		return
	}
	logger.Infof("Placing limit buy for %s: amount %s price %s", b.product.Symbol, amount, price)
	res, err := b.exchange.BuyLimit(b.product.Symbol, amount, price)
	if err != nil {
		logger.Errorf("Failed to place limit buy for %s: %v", b.product.Symbol, err)
		return
	}
	b.reportOrder(res, models.BuySide, models.LimitKind, amount, &price)
}

func (b *TradingBot) sellLimit(cycle *cycleState, price decimal.Decimal) {
	amount := decimal.Min(b.tradeAmount(), b.availAsk(cycle))
	if !amount.GreaterThan(minTradeAmount) {
		logger.Debugf("Skipping limit sell for %s: amount %s below floor", b.product.Symbol, amount)
		return
	}
	logger.Infof("Placing limit sell for %s: amount %s price %s", b.product.Symbol, amount, price)
	res, err := b.exchange.SellLimit(b.product.Symbol, amount, price)
	if err != nil {
		logger.Errorf("Failed to place limit sell for %s: %v", b.product.Symbol, err)
		return
	}
	b.reportOrder(res, models.SellSide, models.LimitKind, amount, &price)
}

func (b *TradingBot) buyMarket(cycle *cycleState) {
	tamount := b.tradeAmount()
	maxAmount := tamount
	if b.baseBuyPrice.GreaterThan(priceFloor) {
		maxAmount = tamount.Mul(b.baseBuyPrice)
	}

	amount := decimal.Min(maxAmount, b.availBid(cycle))
	if !amount.GreaterThan(minTradeAmount) {
		logger.Debugf("Skipping market buy for %s: amount %s below floor", b.product.Symbol, amount)
		return
	}
	logger.Infof("Placing market buy for %s: amount %s", b.product.Symbol, amount)
	res, err := b.exchange.BuyMarket(b.product.Symbol, amount)
	if err != nil {
		logger.Errorf("Failed to place market buy for %s: %v", b.product.Symbol, err)
		return
	}
	b.reportOrder(res, models.BuySide, models.MarketKind, amount, nil)
}

func (b *TradingBot) sellMarket(cycle *cycleState) {
	amount := decimal.Min(b.tradeAmount(), b.availAsk(cycle))
	if !amount.GreaterThan(minTradeAmount) {
		logger.Debugf("Skipping market sell for %s: amount %s below floor", b.product.Symbol, amount)
		return
	}
	logger.Infof("Placing market sell for %s: amount %s", b.product.Symbol, amount)
	res, err := b.exchange.SellMarket(b.product.Symbol, amount)
	if err != nil {
		logger.Errorf("Failed to place market sell for %s: %v", b.product.Symbol, err)
		return
	}
	b.reportOrder(res, models.SellSide, models.MarketKind, amount, nil)
}

// reportOrder journals an accepted order and logs its current state. A
// response without an order id is a business rejection: logged verbatim,
// never retried.
func (b *TradingBot) reportOrder(res *models.TradeResult, side models.Side, kind models.OrderKind, amount decimal.Decimal, price *decimal.Decimal) {
	if !res.Accepted() {
		logger.Warnf("Order rejected by exchange: %s", string(res.Raw))
		return
	}

	b.journalOrder(res.OrderID, side, kind, amount, price)

	info, err := b.exchange.OrderInfo(b.product.Symbol, res.OrderID)
	if err != nil {
		logger.Warnf("Failed to fetch info for order %d: %v", res.OrderID, err)
		return
	}
	logger.Infof("Order %d: type %s price %s amount %s dealt %s",
		info.OrderID, info.Type, info.Price, info.Amount, info.DealAmount)
}

func (b *TradingBot) journalOrder(orderID int64, side models.Side, kind models.OrderKind, amount decimal.Decimal, price *decimal.Decimal) {
	if b.journal == nil || b.journal.DB == nil {
		return
	}
	rec := models.OrderRecord{
		OrderID: orderID,
		Symbol:  b.product.Symbol,
		Side:    side.String(),
		Kind:    kind.String(),
		Amount:  amount.String(),
	}
	if price != nil {
		rec.Price = price.String()
	}
	if err := b.journal.LogOrder(rec); err != nil {
		logger.Warnf("Failed to journal order %d: %v", orderID, err)
	}
}

func (b *TradingBot) journalCancel(orderID int64) {
	if b.journal == nil || b.journal.DB == nil {
		return
	}
	if err := b.journal.LogCancel(b.product.Symbol, orderID); err != nil {
		logger.Warnf("Failed to journal cancel of order %d: %v", orderID, err)
	}
}

// availBid is the free base asset balance, spent when buying
func (b *TradingBot) availBid(cycle *cycleState) decimal.Decimal {
	return cycle.snapshot.FreeBalance(b.product.BaseAsset)
}

// availAsk is the free mark asset balance, spent when selling
func (b *TradingBot) availAsk(cycle *cycleState) decimal.Decimal {
	return cycle.snapshot.FreeBalance(b.product.MarkAsset)
}

func (b *TradingBot) randomVar() decimal.Decimal {
	return decimal.NewFromFloat(b.rng.Float64() * b.priceVar)
}

// randomVarFactor is a multiplicative jitter centered at 1.0 with half-width
// priceVar/2.
func (b *TradingBot) randomVarFactor() decimal.Decimal {
	base := decimal.NewFromFloat(1 - b.priceVar*0.5)
	return base.Add(b.randomVar())
}

// tradeAmount draws the order size: baseAmount scaled by uniform(0.95, 1.05),
// or the bare jitter when baseAmount is effectively unset.
func (b *TradingBot) tradeAmount() decimal.Decimal {
	jitter := amountJitterBase.Add(decimal.NewFromFloat(b.rng.Float64() * 0.1))
	if b.baseAmount.GreaterThan(priceFloor) {
		return b.baseAmount.Mul(jitter)
	}
	return jitter
}
