package domain

import "time"

// Candle represents a single daily OHLCV bar for a listed equity.
type Candle struct {
	Ticker   string    `json:"ticker"`
	Interval string    `json:"interval"`
	OpenTime time.Time `json:"open_time"`
	Open     float64   `json:"open"`
	High     float64   `json:"high"`
	Low      float64   `json:"low"`
	Close    float64   `json:"close"`
	Volume   float64   `json:"volume"`
}

// Quote is the lightweight price snapshot carried in chart metadata.
type Quote struct {
	Ticker           string   `json:"ticker"`
	Currency         string   `json:"currency,omitempty"`
	Exchange         string   `json:"exchange,omitempty"`
	Price            *float64 `json:"price"`
	FiftyTwoWeekHigh *float64 `json:"fifty_two_week_high"`
	FiftyTwoWeekLow  *float64 `json:"fifty_two_week_low"`
}

// Fundamentals holds the key statistics reported for a ticker. Nil means unreported.
type Fundamentals struct {
	Ticker           string
	Price            *float64
	TrailingPE       *float64
	PEGRatio         *float64
	DebtToEquityPct  *float64
	PriceToBook      *float64
	ReturnOnEquity   *float64
	DividendYield    *float64
	MarketCap        *float64
	Beta             *float64
	FiftyTwoWeekHigh *float64
	FiftyTwoWeekLow  *float64
}

// Headline is a single news item about a ticker.
type Headline struct {
	Title       string    `json:"title"`
	Publisher   string    `json:"publisher,omitempty"`
	URL         string    `json:"url,omitempty"`
	PublishedAt time.Time `json:"published_at"`
}

// IntervalDaily is the only candle interval stored.
const IntervalDaily = "1d"

// HistoryRange is the look-back requested from the chart API.
const HistoryRange = "1y"
