package client

import (
	"crypto/md5"
	"encoding/hex"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSign(t *testing.T) {
	params := url.Values{}
	params.Set("symbol", "BCHBTC")
	params.Set("api_key", "my-key")
	params.Set("amount", "1.5")

	// Keys are sorted before hashing
	sum := md5.Sum([]byte("amount=1.5&api_key=my-key&symbol=BCHBTC&secret_key=my-secret"))
	expected := strings.ToUpper(hex.EncodeToString(sum[:]))

	assert.Equal(t, expected, Sign(params, "my-secret"))
}

func TestSignIgnoresInsertionOrder(t *testing.T) {
	a := url.Values{}
	a.Set("symbol", "BCHBTC")
	a.Set("api_key", "k")

	b := url.Values{}
	b.Set("api_key", "k")
	b.Set("symbol", "BCHBTC")

	assert.Equal(t, Sign(a, "s"), Sign(b, "s"))
	assert.NotEqual(t, Sign(a, "s"), Sign(a, "other"))
}

func newTestClient(t *testing.T, handler http.Handler) (*KKEXClient, *httptest.Server) {
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)

	cl, err := NewKKEXClient("test-key", "test-secret", srv.URL)
	require.NoError(t, err)
	return cl.(*KKEXClient), srv
}

func TestGetProducts(t *testing.T) {
	cl, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, productsEndpoint, r.URL.Path)
		w.Write([]byte(`{"products": [
			{"symbol": "BCHBTC", "base_asset": "BCH", "mark_asset": "BTC"},
			{"symbol": "ETHBTC", "base_asset": "ETH", "mark_asset": "BTC"}
		]}`))
	}))

	products, err := cl.GetProducts()
	require.NoError(t, err)
	require.Len(t, products, 2)
	assert.Equal(t, "BCHBTC", products[0].Symbol)
	assert.Equal(t, "BCH", products[0].BaseAsset)
	assert.Equal(t, "BTC", products[0].MarkAsset)
}

func TestGetUserInfoSignsRequest(t *testing.T) {
	cl, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, userinfoEndpoint, r.URL.Path)
		require.NoError(t, r.ParseForm())
		assert.Equal(t, "test-key", r.PostForm.Get("api_key"))

		// The signature must cover every form field except itself
		sign := r.PostForm.Get("sign")
		verify := url.Values{}
		for k, v := range r.PostForm {
			if k != "sign" {
				verify[k] = v
			}
		}
		assert.Equal(t, Sign(verify, "test-secret"), sign)

		w.Write([]byte(`{
			"info": {"funds": {
				"free": {"BCH": "12.5", "BTC": "0.73"},
				"freezed": {"BCH": "1.5", "BTC": "0"}
			}},
			"ticker": {"last": "0.1201"}
		}`))
	}))

	snapshot, err := cl.GetUserInfo()
	require.NoError(t, err)
	assert.True(t, snapshot.FreeBalance("BCH").Equal(decimal.RequireFromString("12.5")))
	assert.True(t, snapshot.FrozenBalance("BCH").Equal(decimal.RequireFromString("1.5")))
	assert.True(t, snapshot.LastPrice.Equal(decimal.RequireFromString("0.1201")))
}

func TestGetOrders(t *testing.T) {
	cl, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.NoError(t, r.ParseForm())
		assert.Equal(t, "BCHBTC", r.PostForm.Get("symbol"))
		assert.Equal(t, "200", r.PostForm.Get("page_length"))

		w.Write([]byte(`{"orders": [
			{"order_id": 11, "type": "sell", "price": "0.13", "amount": "2"},
			{"order_id": 10, "type": "buy", "price": "0.11", "amount": "1"}
		]}`))
	}))

	orders, err := cl.GetOrders("BCHBTC", 200)
	require.NoError(t, err)
	require.Len(t, orders, 2)
	assert.Equal(t, int64(11), orders[0].OrderID)
	assert.True(t, orders[0].Cancellable())
}

func TestGetOrdersErrorCode(t *testing.T) {
	cl, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"error_code": 10007}`))
	}))

	_, err := cl.GetOrders("BCHBTC", 200)
	assert.Error(t, err)
}

func TestBuyLimitAccepted(t *testing.T) {
	cl, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.NoError(t, r.ParseForm())
		assert.Equal(t, tradeEndpoint, r.URL.Path)
		assert.Equal(t, "buy", r.PostForm.Get("type"))
		assert.Equal(t, "1.5", r.PostForm.Get("amount"))
		assert.Equal(t, "0.12", r.PostForm.Get("price"))

		w.Write([]byte(`{"result": true, "order_id": 4242}`))
	}))

	res, err := cl.BuyLimit("BCHBTC", decimal.RequireFromString("1.5"), decimal.RequireFromString("0.12"))
	require.NoError(t, err)
	assert.True(t, res.Accepted())
	assert.Equal(t, int64(4242), res.OrderID)
}

func TestSellMarketRejectionIsNotAnError(t *testing.T) {
	cl, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.NoError(t, r.ParseForm())
		assert.Equal(t, "sell_market", r.PostForm.Get("type"))
		_, hasPrice := r.PostForm["price"]
		assert.False(t, hasPrice)

		w.Write([]byte(`{"result": false, "error_code": 10010}`))
	}))

	res, err := cl.SellMarket("BCHBTC", decimal.RequireFromString("3"))
	require.NoError(t, err)
	assert.False(t, res.Accepted())
	assert.Contains(t, string(res.Raw), "10010")
}

func TestCancelOrderRejected(t *testing.T) {
	cl, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"result": false, "error_code": 10009}`))
	}))

	err := cl.CancelOrder("BCHBTC", 99)
	assert.Error(t, err)
}

func TestOrderInfo(t *testing.T) {
	cl, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.NoError(t, r.ParseForm())
		assert.Equal(t, "4242", r.PostForm.Get("order_id"))

		w.Write([]byte(`{"orders": [
			{"order_id": 4242, "type": "buy", "price": "0.12", "amount": "1.5", "deal_amount": "0.4"}
		]}`))
	}))

	order, err := cl.OrderInfo("BCHBTC", 4242)
	require.NoError(t, err)
	assert.Equal(t, int64(4242), order.OrderID)
	assert.True(t, order.DealAmount.Equal(decimal.RequireFromString("0.4")))
}

func TestServerErrorSurfacesAsError(t *testing.T) {
	cl, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "oops", http.StatusInternalServerError)
	}))

	_, err := cl.GetProducts()
	assert.Error(t, err)
}
