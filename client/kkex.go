package client

import (
	"crypto/md5"
	"encoding/hex"
	"encoding/json"
	"net/url"
	"sort"
	"strconv"
	"strings"
	"time"

	"kkex_bot/interfaces"
	"kkex_bot/logger"
	"kkex_bot/models"

	"github.com/go-resty/resty/v2"
	"github.com/pkg/errors"
	"github.com/shopspring/decimal"
)

const (
	productsEndpoint  = "/api/v1/products"
	userinfoEndpoint  = "/api/v1/userinfo"
	tickerEndpoint    = "/api/v1/ticker"
	depthEndpoint     = "/api/v1/depth"
	ordersEndpoint    = "/api/v1/order_history"
	tradeEndpoint     = "/api/v1/trade"
	cancelEndpoint    = "/api/v1/cancel_order"
	orderInfoEndpoint = "/api/v1/order_info"
)

// KKEXClient implements the ExchangeClient interface against the kkex REST
// API. Private endpoints are signed form POSTs, public ones plain GETs.
type KKEXClient struct {
	api    *resty.Client
	key    string
	secret string
}

// NewKKEXClient creates a new kkex client instance
func NewKKEXClient(apiKey, apiSecret, server string) (interfaces.ExchangeClient, error) {
	if apiKey == "" || apiSecret == "" {
		return nil, errors.New("api key and secret must not be empty")
	}

	api := resty.New().
		SetBaseURL(strings.TrimSuffix(server, "/")).
		SetTimeout(30*time.Second).
		SetRetryCount(2).
		SetRetryWaitTime(1*time.Second).
		SetRetryMaxWaitTime(5*time.Second).
		SetHeader("User-Agent", "kkex_bot")

	logger.Infof("kkex client initialized for %s", server)
	return &KKEXClient{api: api, key: apiKey, secret: apiSecret}, nil
}

// Sign builds the request signature: the MD5 hex digest, uppercased, of the
// sorted query string with the api secret appended.
func Sign(params url.Values, secret string) string {
	keys := make([]string, 0, len(params))
	for k := range params {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	var sb strings.Builder
	for i, k := range keys {
		if i > 0 {
			sb.WriteByte('&')
		}
		sb.WriteString(k)
		sb.WriteByte('=')
		sb.WriteString(params.Get(k))
	}
	sb.WriteString("&secret_key=")
	sb.WriteString(secret)

	sum := md5.Sum([]byte(sb.String()))
	return strings.ToUpper(hex.EncodeToString(sum[:]))
}

// get performs an unauthenticated GET request and decodes the payload
func (c *KKEXClient) get(endpoint string, params map[string]string, out interface{}) error {
	resp, err := c.api.R().SetQueryParams(params).Get(endpoint)
	if err != nil {
		return errors.Wrapf(err, "GET %s", endpoint)
	}
	if !resp.IsSuccess() {
		return errors.Errorf("GET %s: %s", endpoint, resp.Status())
	}
	if err := json.Unmarshal(resp.Body(), out); err != nil {
		return errors.Wrapf(err, "decode %s response", endpoint)
	}
	return nil
}

// post performs a signed POST request and returns the raw payload. The
// payload is additionally decoded into out when out is non-nil.
func (c *KKEXClient) post(endpoint string, params map[string]string, out interface{}) ([]byte, error) {
	form := url.Values{}
	for k, v := range params {
		form.Set(k, v)
	}
	form.Set("api_key", c.key)
	form.Set("sign", Sign(form, c.secret))

	resp, err := c.api.R().SetFormDataFromValues(form).Post(endpoint)
	if err != nil {
		return nil, errors.Wrapf(err, "POST %s", endpoint)
	}
	if !resp.IsSuccess() {
		return nil, errors.Errorf("POST %s: %s", endpoint, resp.Status())
	}

	body := resp.Body()
	if out != nil {
		if err := json.Unmarshal(body, out); err != nil {
			return nil, errors.Wrapf(err, "decode %s response", endpoint)
		}
	}
	return body, nil
}

// GetProducts fetches the exchange's product list
func (c *KKEXClient) GetProducts() ([]models.Product, error) {
	var out struct {
		Products []models.Product `json:"products"`
	}
	if err := c.get(productsEndpoint, nil, &out); err != nil {
		return nil, err
	}
	return out.Products, nil
}

// GetUserInfo fetches balances for all assets plus the last traded price
func (c *KKEXClient) GetUserInfo() (*models.AccountSnapshot, error) {
	var out struct {
		Info struct {
			Funds struct {
				Free    map[string]decimal.Decimal `json:"free"`
				Freezed map[string]decimal.Decimal `json:"freezed"`
			} `json:"funds"`
		} `json:"info"`
		Ticker struct {
			Last decimal.Decimal `json:"last"`
		} `json:"ticker"`
		ErrorCode int `json:"error_code"`
	}
	if _, err := c.post(userinfoEndpoint, nil, &out); err != nil {
		return nil, err
	}
	if out.ErrorCode != 0 {
		return nil, errors.Errorf("userinfo error code %d", out.ErrorCode)
	}
	return &models.AccountSnapshot{
		Free:      out.Info.Funds.Free,
		Frozen:    out.Info.Funds.Freezed,
		LastPrice: out.Ticker.Last,
	}, nil
}

// GetTicker fetches the current market ticker for a symbol
func (c *KKEXClient) GetTicker(symbol string) (*models.Ticker, error) {
	var out struct {
		Ticker models.Ticker `json:"ticker"`
	}
	if err := c.get(tickerEndpoint, map[string]string{"symbol": symbol}, &out); err != nil {
		return nil, err
	}
	return &out.Ticker, nil
}

// GetDepth fetches the aggregated order book for a symbol
func (c *KKEXClient) GetDepth(symbol string, merge string) (*models.Depth, error) {
	params := map[string]string{"symbol": symbol}
	if merge != "" {
		params["merge"] = merge
	}
	depth := &models.Depth{}
	if err := c.get(depthEndpoint, params, depth); err != nil {
		return nil, err
	}
	return depth, nil
}

// GetOrders fetches up to pagesize most recent orders for a symbol,
// most recent first
func (c *KKEXClient) GetOrders(symbol string, pagesize int) ([]models.Order, error) {
	var out struct {
		Orders    []models.Order `json:"orders"`
		ErrorCode int            `json:"error_code"`
	}
	params := map[string]string{
		"symbol":       symbol,
		"page_length":  strconv.Itoa(pagesize),
		"current_page": "1",
	}
	if _, err := c.post(ordersEndpoint, params, &out); err != nil {
		return nil, err
	}
	if out.ErrorCode != 0 {
		return nil, errors.Errorf("order history error code %d", out.ErrorCode)
	}
	return out.Orders, nil
}

// CancelOrder cancels a resting order
func (c *KKEXClient) CancelOrder(symbol string, orderID int64) error {
	var out struct {
		Result    bool `json:"result"`
		ErrorCode int  `json:"error_code"`
	}
	params := map[string]string{
		"symbol":   symbol,
		"order_id": strconv.FormatInt(orderID, 10),
	}
	if _, err := c.post(cancelEndpoint, params, &out); err != nil {
		return err
	}
	if !out.Result {
		return errors.Errorf("cancel of order %d rejected, error code %d", orderID, out.ErrorCode)
	}
	return nil
}

// trade places an order. A transport or HTTP failure is an error; a business
// rejection is a TradeResult without an order id, raw payload attached.
func (c *KKEXClient) trade(symbol, tradeType string, amount decimal.Decimal, price *decimal.Decimal) (*models.TradeResult, error) {
	params := map[string]string{
		"symbol": symbol,
		"type":   tradeType,
		"amount": amount.String(),
	}
	if price != nil {
		params["price"] = price.String()
	}

	result := &models.TradeResult{}
	body, err := c.post(tradeEndpoint, params, result)
	if err != nil {
		return nil, err
	}
	result.Raw = body
	return result, nil
}

// BuyLimit places a limit buy order
func (c *KKEXClient) BuyLimit(symbol string, amount, price decimal.Decimal) (*models.TradeResult, error) {
	return c.trade(symbol, "buy", amount, &price)
}

// SellLimit places a limit sell order
func (c *KKEXClient) SellLimit(symbol string, amount, price decimal.Decimal) (*models.TradeResult, error) {
	return c.trade(symbol, "sell", amount, &price)
}

// BuyMarket places a market buy order
func (c *KKEXClient) BuyMarket(symbol string, amount decimal.Decimal) (*models.TradeResult, error) {
	return c.trade(symbol, "buy_market", amount, nil)
}

// SellMarket places a market sell order
func (c *KKEXClient) SellMarket(symbol string, amount decimal.Decimal) (*models.TradeResult, error) {
	return c.trade(symbol, "sell_market", amount, nil)
}

// OrderInfo fetches the current state of a single order
func (c *KKEXClient) OrderInfo(symbol string, orderID int64) (*models.Order, error) {
	var out struct {
		Orders    []models.Order `json:"orders"`
		ErrorCode int            `json:"error_code"`
	}
	params := map[string]string{
		"symbol":   symbol,
		"order_id": strconv.FormatInt(orderID, 10),
	}
	if _, err := c.post(orderInfoEndpoint, params, &out); err != nil {
		return nil, err
	}
	if out.ErrorCode != 0 {
		return nil, errors.Errorf("order info error code %d", out.ErrorCode)
	}
	if len(out.Orders) == 0 {
		return nil, errors.Errorf("order %d not found", orderID)
	}
	return &out.Orders[0], nil
}
