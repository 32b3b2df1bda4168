package models

import "time"

type ActivitySummary struct {
	Timestamp   time.Time
	BuyCount    int
	SellCount   int
	CancelCount int
	BuyVolume   float64
	SellVolume  float64
}
