package metrics

import (
	"time"

	db2 "kkex_bot/db"
	"kkex_bot/logger"
	"kkex_bot/models"
	"kkex_bot/utils"
)

// MonitorActivity periodically summarizes the order journal and appends the
// summary to a CSV file. Runs until the stop channel closes.
func MonitorActivity(csvPath string, stopCh <-chan struct{}) {
	ticker := time.NewTicker(1 * time.Hour)
	defer ticker.Stop()

	start := time.Now()

	for {
		select {
		case <-ticker.C:
			summary, err := reportActivity(csvPath, start)
			if err != nil {
				logger.Errorf("Failed to summarize trading activity: %v", err)
				continue
			}
			// Each report covers only the window since the previous one
			start = summary.Timestamp

		case <-stopCh:
			return
		}
	}
}

func reportActivity(csvPath string, since time.Time) (*models.ActivitySummary, error) {
	summary, err := db2.SQLiteDB.Summarize(since)
	if err != nil {
		return nil, err
	}

	if csvPath != "" {
		if err := utils.AppendSummaryToCSV(csvPath, *summary); err != nil {
			logger.Errorf("Failed to append activity summary to CSV: %v", err)
		}
	}

	logger.Infof("Activity Summary (Hourly):")
	logger.Infof("Buy orders placed: %d (volume %.4f)", summary.BuyCount, summary.BuyVolume)
	logger.Infof("Sell orders placed: %d (volume %.4f)", summary.SellCount, summary.SellVolume)
	logger.Infof("Orders canceled: %d", summary.CancelCount)

	return summary, nil
}
