package analysis

import (
	"fmt"

	"stock-alpha-engine/internal/domain"
)

type FundamentalSnapshot struct {
	Price            *float64
	PE               *float64
	PEG              *float64
	DebtToEquity     *float64
	PriceToBook      *float64
	ROE              *float64
	DividendYield    *float64
	MarketCap        *float64
	MarketCapCrores  string
	Beta             *float64
	FiftyTwoWeekHigh *float64
	FiftyTwoWeekLow  *float64
}

// Fundamental normalises quote-summary statistics. Debt/equity is kept exactly as Yahoo
// reports it, usually a percentage (150 means 1.5x). A nil input yields an empty snapshot.
func Fundamental(stats *domain.Fundamentals) FundamentalSnapshot {
	if stats == nil {
		return FundamentalSnapshot{MarketCapCrores: FormatCrores(nil)}
	}
	snap := FundamentalSnapshot{
		Price:            stats.Price,
		DebtToEquity:     stats.DebtToEquityPct,
		PE:               stats.TrailingPE,
		PEG:              stats.PEGRatio,
		PriceToBook:      stats.PriceToBook,
		ROE:              stats.ReturnOnEquity,
		DividendYield:    stats.DividendYield,
		MarketCap:        stats.MarketCap,
		MarketCapCrores:  FormatCrores(stats.MarketCap),
		Beta:             stats.Beta,
		FiftyTwoWeekHigh: stats.FiftyTwoWeekHigh,
		FiftyTwoWeekLow:  stats.FiftyTwoWeekLow,
	}
	return snap
}

// FormatCrores renders a rupee amount in crores (1 crore = 10,000,000).
func FormatCrores(value *float64) string {
	if value == nil {
		return "N/A"
	}
	return fmt.Sprintf("%.2f Cr", *value/1e7)
}
