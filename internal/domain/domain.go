package domain

import "time"

type Signal string

const (
	SignalStrongBuy Signal = "STRONG BUY"
	SignalBuy       Signal = "BUY"
	SignalHold      Signal = "HOLD"
	SignalSell      Signal = "SELL"
)

const (
	VerdictTreasure = "TREASURE 💎"
	VerdictTrap     = "TRAP ⚠️"
)

type TechnicalOutput struct {
	Score      int      `json:"score"`
	RSI        *float64 `json:"rsi"`
	Trend      string   `json:"trend"`
	MACD       *string  `json:"macd"`
	SMATrend   *string  `json:"sma_trend"`
	BBPosition *string  `json:"bb_position"`
	Support    *float64 `json:"support"`
	Resistance *float64 `json:"resistance"`
}

type FundamentalOutput struct {
	Score         int      `json:"score"`
	PE            *float64 `json:"pe"`
	PEGRatio      *float64 `json:"peg_ratio"`
	DebtEquity    *float64 `json:"debt_equity"`
	ROE           *float64 `json:"roe"`
	PriceToBook   *float64 `json:"price_to_book"`
	DividendYield *float64 `json:"dividend_yield"`
	MarketCap     string   `json:"market_cap"`
}

type SentimentOutput struct {
	Score           int      `json:"score"`
	Headlines       []string `json:"headlines"`
	AveragePolarity float64  `json:"average_polarity"`
	Label           string   `json:"label"`
}

type RiskOutput struct {
	Beta                   *float64 `json:"beta"`
	DistanceFrom52WHighPct *float64 `json:"distance_from_52w_high_pct"`
	DistanceFrom52WLowPct  *float64 `json:"distance_from_52w_low_pct"`
	HighDebtFlag           bool     `json:"high_debt_flag"`
}

type ForecastDirection string

const (
	ForecastUp   ForecastDirection = "up"
	ForecastDown ForecastDirection = "down"
	ForecastFlat ForecastDirection = "flat"
)

// Forecast is the informational short-horizon direction estimate.
type Forecast struct {
	ProbUp      float64           `json:"prob_up"`
	Direction   ForecastDirection `json:"direction"`
	HorizonDays int               `json:"horizon_days"`
	Models      []string          `json:"models"`
	Samples     int               `json:"samples"`
}

// AnalysisResponse is the wire shape of GET /analyze.
type AnalysisResponse struct {
	Ticker       string            `json:"ticker"`
	Price        *float64          `json:"price"`
	OverallScore int               `json:"overall_score"`
	Signal       Signal            `json:"signal"`
	Technical    TechnicalOutput   `json:"technical"`
	Fundamental  FundamentalOutput `json:"fundamental"`
	Sentiment    SentimentOutput   `json:"sentiment"`
	Risk         RiskOutput        `json:"risk"`
	Forecast     *Forecast         `json:"forecast,omitempty"`
	MarketStatus string            `json:"market_status"`
	Verdict      string            `json:"verdict"`
	Rationale    string            `json:"rationale"`
	GeneratedAt  time.Time         `json:"generated_at"`
}

// AnalysisRecord is a persisted summary of one analysis run.
type AnalysisRecord struct {
	ID           string    `json:"id"`
	Ticker       string    `json:"ticker"`
	Price        *float64  `json:"price"`
	OverallScore int       `json:"overall_score"`
	Signal       Signal    `json:"signal"`
	Verdict      string    `json:"verdict"`
	CreatedAt    time.Time `json:"created_at"`
	PayloadJSON  string    `json:"-"`
}

// WatchlistRunResult summarises one warm-up cycle.
type WatchlistRunResult struct {
	Analyzed int      `json:"analyzed"`
	Failed   int      `json:"failed"`
	Errors   []string `json:"errors"`
}
