package utils

import (
	"encoding/csv"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"kkex_bot/models"
)

// AppendSummaryToCSV appends an activity summary to a CSV file.
func AppendSummaryToCSV(filename string, summary models.ActivitySummary) error {
	// Ensure the directory exists
	dir := filepath.Dir(filename)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("failed to create directory %s: %v", dir, err)
	}

	// Open the file in append mode, create it if it doesn't exist
	file, err := os.OpenFile(filename, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0644)
	if err != nil {
		return fmt.Errorf("failed to open CSV file: %v", err)
	}
	defer file.Close()

	// Check if the file is empty to write the header
	stat, err := file.Stat()
	if err != nil {
		return fmt.Errorf("failed to get file info: %v", err)
	}

	writer := csv.NewWriter(file)
	defer writer.Flush()

	if stat.Size() == 0 {
		header := []string{"Timestamp", "BuyCount", "SellCount", "CancelCount", "BuyVolume", "SellVolume"}
		if err := writer.Write(header); err != nil {
			return fmt.Errorf("failed to write CSV header: %v", err)
		}
	}

	record := []string{
		summary.Timestamp.Format(time.RFC3339),
		strconv.Itoa(summary.BuyCount),
		strconv.Itoa(summary.SellCount),
		strconv.Itoa(summary.CancelCount),
		fmt.Sprintf("%.4f", summary.BuyVolume),
		fmt.Sprintf("%.4f", summary.SellVolume),
	}
	if err := writer.Write(record); err != nil {
		return fmt.Errorf("failed to write CSV record: %v", err)
	}

	return nil
}
