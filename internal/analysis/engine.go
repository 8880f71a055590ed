package analysis

import (
	"context"
	"fmt"
	"time"

	"stock-alpha-engine/internal/domain"
)

// Input is everything fetched for one ticker. Missing sources are nil or empty.
type Input struct {
	Ticker       string
	Candles      []*domain.Candle
	Fundamentals *domain.Fundamentals
	Quote        *domain.Quote
	Headlines    []domain.Headline
	Now          time.Time
}

type Engine struct {
	scorer PolarityScorer
}

func NewEngine(scorer PolarityScorer) *Engine {
	return &Engine{scorer: scorer}
}

// Build runs every pillar and assembles the response. It returns ErrTickerNotFound when
// there is no price history and the fundamentals carry no price either.
func (e *Engine) Build(ctx context.Context, in Input) (*domain.AnalysisResponse, error) {
	tech, techErr := Technical(in.Candles)
	if techErr != nil && (in.Fundamentals == nil || in.Fundamentals.Price == nil) {
		return nil, fmt.Errorf("%w: %s", ErrTickerNotFound, in.Ticker)
	}

	fund := Fundamental(in.Fundamentals)
	if q := in.Quote; q != nil {
		if fund.FiftyTwoWeekHigh == nil {
			fund.FiftyTwoWeekHigh = q.FiftyTwoWeekHigh
		}
		if fund.FiftyTwoWeekLow == nil {
			fund.FiftyTwoWeekLow = q.FiftyTwoWeekLow
		}
	}

	price := fund.Price
	if price == nil {
		price = tech.CurrentPrice
	}

	sent := Sentiment(ctx, in.Headlines, e.scorer)
	risk := Risk(fund, price)
	scores := Score(tech, fund, sent)

	now := in.Now
	if now.IsZero() {
		now = time.Now()
	}

	titles := make([]string, 0, len(sent.Headlines))
	for _, h := range sent.Headlines {
		titles = append(titles, h.Headline)
	}

	return &domain.AnalysisResponse{
		Ticker:       in.Ticker,
		Price:        price,
		OverallScore: scores.Overall,
		Signal:       scores.Signal,
		Technical: domain.TechnicalOutput{
			Score:      scores.Technical,
			RSI:        tech.RSI,
			Trend:      scores.Trend,
			MACD:       tech.MACDSignal,
			SMATrend:   tech.SMATrend,
			BBPosition: tech.BBPosition,
			Support:    tech.Support,
			Resistance: tech.Resistance,
		},
		Fundamental: domain.FundamentalOutput{
			Score:         scores.Fundamental,
			PE:            fund.PE,
			PEGRatio:      fund.PEG,
			DebtEquity:    fund.DebtToEquity,
			ROE:           fund.ROE,
			PriceToBook:   fund.PriceToBook,
			DividendYield: fund.DividendYield,
			MarketCap:     fund.MarketCapCrores,
		},
		Sentiment: domain.SentimentOutput{
			Score:           scores.Sentiment,
			Headlines:       titles,
			AveragePolarity: sent.AveragePolarity,
			Label:           sent.Label,
		},
		Risk: domain.RiskOutput{
			Beta:                   risk.Beta,
			DistanceFrom52WHighPct: risk.DistanceFrom52WHighPct,
			DistanceFrom52WLowPct:  risk.DistanceFrom52WLowPct,
			HighDebtFlag:           risk.HighDebtFlag,
		},
		MarketStatus: MarketStatus(now),
		Verdict:      scores.Verdict,
		Rationale:    Rationale(in.Ticker, tech, fund, scores),
		GeneratedAt:  now.UTC(),
	}, nil
}
