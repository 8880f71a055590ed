package analysis

import "stock-alpha-engine/internal/domain"

const (
	weightTechnical   = 0.4
	weightFundamental = 0.4
	weightSentiment   = 0.2
)

type Scores struct {
	Technical   int
	Trend       string
	Fundamental int
	Sentiment   int
	Overall     int
	Signal      domain.Signal
	Verdict     string
}

// Score blends the three pillars. Every score lies in [0, 100].
func Score(tech TechnicalSnapshot, fund FundamentalSnapshot, sent SentimentSnapshot) Scores {
	var s Scores

	s.Technical, s.Trend = 40, "Neutral"
	if tech.RSI != nil {
		switch rsi := *tech.RSI; {
		case rsi >= 40 && rsi <= 60:
			s.Technical, s.Trend = 80, "Bullish"
		case rsi > 60:
			s.Trend = "Overbought"
		default:
			s.Trend = "Oversold"
		}
	}

	s.Fundamental = 50
	if fund.DebtToEquity != nil && *fund.DebtToEquity < 1 {
		s.Fundamental = 90
	}

	s.Sentiment = clampScore(int((sent.AveragePolarity + 1) * 50))

	overall := float64(s.Technical)*weightTechnical +
		float64(s.Fundamental)*weightFundamental +
		float64(s.Sentiment)*weightSentiment
	s.Overall = clampScore(int(overall))

	s.Signal = SignalFor(s.Overall)
	s.Verdict = VerdictFor(s.Overall)
	return s
}

func SignalFor(overall int) domain.Signal {
	switch {
	case overall > 80:
		return domain.SignalStrongBuy
	case overall > 60:
		return domain.SignalBuy
	case overall > 40:
		return domain.SignalHold
	default:
		return domain.SignalSell
	}
}

func VerdictFor(overall int) string {
	if overall > 60 {
		return domain.VerdictTreasure
	}
	return domain.VerdictTrap
}

func clampScore(v int) int {
	if v < 0 {
		return 0
	}
	if v > 100 {
		return 100
	}
	return v
}
