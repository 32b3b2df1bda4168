package main

import (
	"flag"
	"fmt"
	"log"
	"math/rand"
	"os"
	"os/signal"
	"syscall"
	"time"

	"kkex_bot/bot"
	"kkex_bot/client"
	"kkex_bot/config"
	sqlite "kkex_bot/db"
	"kkex_bot/logger"
	"kkex_bot/metrics"

	"github.com/joho/godotenv"
)

func main() {
	// Set up logging
	// Define a flag for log level
	logLevel := flag.String("log", "info", "Log level: debug, info, warn, error")
	configPath := flag.String("config", "", "Path to YAML config file (flags are ignored when set)")
	symbol := flag.String("symbol", config.DefaultSymbol, "Trade symbol")
	bpsell := flag.Float64("bpsell", config.DefaultSellPrice, "Base sell price")
	bpbuy := flag.Float64("bpbuy", config.DefaultBuyPrice, "Base buy price")
	priceVar := flag.Float64("var", config.DefaultPriceVar, "Price variation fraction (must be < 1)")
	bm := flag.Float64("bm", config.DefaultBaseAmount, "Base trade amount")
	server := flag.String("server", config.DefaultServer, "API server")
	dbPath := flag.String("db", "data/trades.db", "Order journal path (empty disables the journal)")
	metricsPath := flag.String("metrics", "data/metrics.csv", "Activity summary CSV path")
	flag.Parse()
	logger.InitLogger(logLevel)

	err := godotenv.Load()
	if err != nil {
		fmt.Println("Error loading .env file")
	}

	var cfg *config.Config
	if *configPath != "" {
		cfg, err = config.LoadFile(*configPath)
		if err != nil {
			log.Fatalf("Failed to load config: %v", err)
		}
	} else {
		cfg = &config.Config{
			Symbol:        *symbol,
			BaseSellPrice: *bpsell,
			BaseBuyPrice:  *bpbuy,
			PriceVar:      *priceVar,
			BaseAmount:    *bm,
			Server:        *server,
			DBPath:        *dbPath,
			MetricsPath:   *metricsPath,
		}
		// Flag definitions already carry the value defaults, so this
		// only pulls missing credentials from the environment.
		cfg.ApplyDefaults()
	}

	if err := cfg.Validate(); err != nil {
		log.Fatalf("Invalid configuration: %v", err)
	}

	// Initialize the order journal
	var journal *sqlite.SQLite
	if cfg.DBPath != "" {
		if err := sqlite.InitDB(cfg.DBPath); err != nil {
			log.Fatalf("Failed to initialize order journal: %v", err)
		}
		journal = &sqlite.SQLiteDB
	}

	// Create kkex client
	cl, err := client.NewKKEXClient(cfg.ApiKey, cfg.ApiSecret, cfg.Server)
	if err != nil {
		log.Fatalf("Failed to create kkex client: %v", err)
	}

	rng := rand.New(rand.NewSource(time.Now().UnixNano()))
	bt := bot.NewTradingBot(cl, cfg, rng, journal)

	// A missing symbol is a configuration error, not a transient one
	if err := bt.ResolveProduct(); err != nil {
		log.Fatalf("Failed to resolve product: %v", err)
	}

	done := make(chan struct{})
	if journal != nil {
		go metrics.MonitorActivity(cfg.MetricsPath, done)
	}

	bt.StartTrading()
	logger.Infof("/// Starting trading bot ///")

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, os.Interrupt, syscall.SIGTERM)
	<-stop

	close(done)
	bt.Stop()
	log.Println("Trading bot stopped")
}
