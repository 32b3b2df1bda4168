package db

import (
	"database/sql"
	"os"
	"path/filepath"
	"time"

	"kkex_bot/models"

	_ "github.com/mattn/go-sqlite3"

	"kkex_bot/logger"
)

type SQLite struct {
	DB *sql.DB
}

var SQLiteDB SQLite

// InitDB initializes the SQLite order journal. The journal is diagnostics
// only: the bot never reads it back into decision logic.
func InitDB(dbPath string) error {
	logger.Infof("Initializing order journal at %s", dbPath)

	if dir := filepath.Dir(dbPath); dir != "." {
		if err := os.MkdirAll(dir, 0755); err != nil {
			logger.Errorf("Error creating database directory: %v", err)
			return err
		}
	}

	db, err := sql.Open("sqlite3", dbPath)
	if err != nil {
		logger.Errorf("Error opening database: %v", err)
		return err
	}

	query := `
    CREATE TABLE IF NOT EXISTS orders (
        id INTEGER PRIMARY KEY AUTOINCREMENT,
        order_id INTEGER,
        symbol TEXT NOT NULL,
        side TEXT NOT NULL,
        kind TEXT NOT NULL,
        amount TEXT NOT NULL,
        price TEXT,
        timestamp DATETIME DEFAULT CURRENT_TIMESTAMP
    );`
	_, err = db.Exec(query)
	if err != nil {
		logger.Errorf("Error creating orders table: %v", err)
		return err
	}

	query = `
    CREATE TABLE IF NOT EXISTS cancels (
        id INTEGER PRIMARY KEY AUTOINCREMENT,
        symbol TEXT NOT NULL,
        order_id INTEGER NOT NULL,
        timestamp DATETIME DEFAULT CURRENT_TIMESTAMP
    );`
	_, err = db.Exec(query)
	if err != nil {
		logger.Errorf("Error creating cancels table: %v", err)
		return err
	}

	logger.Info("Order journal initialized successfully.")
	SQLiteDB.DB = db
	return nil
}

// LogOrder records a placed order
func (s *SQLite) LogOrder(rec models.OrderRecord) error {
	_, err := s.DB.Exec(`
        INSERT INTO orders (order_id, symbol, side, kind, amount, price)
        VALUES (?, ?, ?, ?, ?, ?)
    `, rec.OrderID, rec.Symbol, rec.Side, rec.Kind, rec.Amount, rec.Price)
	return err
}

// LogCancel records a successful cancellation
func (s *SQLite) LogCancel(symbol string, orderID int64) error {
	_, err := s.DB.Exec(`INSERT INTO cancels (symbol, order_id) VALUES (?, ?)`, symbol, orderID)
	return err
}

// Summarize aggregates journal activity since the given time
func (s *SQLite) Summarize(since time.Time) (*models.ActivitySummary, error) {
	summary := &models.ActivitySummary{Timestamp: time.Now()}

	rows, err := s.DB.Query(`
        SELECT side, COUNT(*), COALESCE(SUM(CAST(amount AS REAL)), 0)
        FROM orders WHERE timestamp >= ? GROUP BY side
    `, since.UTC().Format("2006-01-02 15:04:05"))
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	for rows.Next() {
		var side string
		var count int
		var volume float64
		if err := rows.Scan(&side, &count, &volume); err != nil {
			return nil, err
		}
		if side == models.BuySide.String() {
			summary.BuyCount = count
			summary.BuyVolume = volume
		} else if side == models.SellSide.String() {
			summary.SellCount = count
			summary.SellVolume = volume
		}
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	err = s.DB.QueryRow(`
        SELECT COUNT(*) FROM cancels WHERE timestamp >= ?
    `, since.UTC().Format("2006-01-02 15:04:05")).Scan(&summary.CancelCount)
	if err != nil {
		return nil, err
	}

	return summary, nil
}
