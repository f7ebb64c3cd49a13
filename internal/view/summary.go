package view

import (
	"github.com/montanaflynn/stats"
	"github.com/talkincode/shopdesk/internal/domain"
)

// PriceSummary describes the prices of a loaded page
type PriceSummary struct {
	Count int
	Min   float64
	Mean  float64
	Max   float64
}

// SummarizePrices computes min/mean/max over parsable prices; ok is false when none parse
func SummarizePrices(items []domain.Product) (PriceSummary, bool) {
	data := make(stats.Float64Data, 0, len(items))
	for _, p := range items {
		if p.Price == "" {
			continue
		}
		data = append(data, p.Price.Float())
	}
	if len(data) == 0 {
		return PriceSummary{}, false
	}
	lo, _ := stats.Min(data)
	hi, _ := stats.Max(data)
	mean, _ := stats.Mean(data)
	mean, _ = stats.Round(mean, 2)
	return PriceSummary{Count: len(data), Min: lo, Mean: mean, Max: hi}, true
}
