package utils

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"kkex_bot/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAppendSummaryToCSV(t *testing.T) {
	path := filepath.Join(t.TempDir(), "out", "metrics.csv")

	summary := models.ActivitySummary{
		Timestamp:   time.Date(2026, 8, 1, 12, 0, 0, 0, time.UTC),
		BuyCount:    3,
		SellCount:   1,
		CancelCount: 5,
		BuyVolume:   4.5,
		SellVolume:  1.25,
	}

	require.NoError(t, AppendSummaryToCSV(path, summary))
	require.NoError(t, AppendSummaryToCSV(path, summary))

	data, err := os.ReadFile(path)
	require.NoError(t, err)

	lines := strings.Split(strings.TrimSpace(string(data)), "\n")
	// Header written once, then one row per append
	require.Len(t, lines, 3)
	assert.Equal(t, "Timestamp,BuyCount,SellCount,CancelCount,BuyVolume,SellVolume", lines[0])
	assert.Contains(t, lines[1], "2026-08-01T12:00:00Z")
	assert.Contains(t, lines[1], "4.5000")
}
