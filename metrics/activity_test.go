package metrics

import (
	"path/filepath"
	"testing"
	"time"

	db2 "kkex_bot/db"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestReportActivityAdvancesWindow(t *testing.T) {
	require.NoError(t, db2.InitDB(filepath.Join(t.TempDir(), "trades.db")))
	t.Cleanup(func() { db2.SQLiteDB.DB.Close() })

	_, err := db2.SQLiteDB.DB.Exec(`
        INSERT INTO orders (order_id, symbol, side, kind, amount, price, timestamp)
        VALUES (1, 'BCHBTC', 'buy', 'limit', '1.5', '0.12', '2020-01-01 00:00:00')`)
	require.NoError(t, err)

	first, err := reportActivity("", time.Date(2019, 1, 1, 0, 0, 0, 0, time.UTC))
	require.NoError(t, err)
	assert.Equal(t, 1, first.BuyCount)

	// The next window starts where the previous report ended, so already
	// reported orders are not counted again.
	second, err := reportActivity("", first.Timestamp)
	require.NoError(t, err)
	assert.Zero(t, second.BuyCount)
	assert.Zero(t, second.BuyVolume)
}
