package analysis

import (
	"stock-alpha-engine/internal/domain"
	"stock-alpha-engine/internal/ta"
)

const (
	rsiPeriod        = 14
	supportWindow    = 126
	macdMinBars      = 35
	bollingerPeriod  = 20
	bollingerStdDevs = 2.0
)

type TechnicalSnapshot struct {
	RSI          *float64
	SMA20        *float64
	SMA50        *float64
	SMA200       *float64
	MACDSignal   *string
	SMATrend     *string
	BBPosition   *string
	Support      *float64
	Resistance   *float64
	CurrentPrice *float64
}

// Technical derives indicator readings from daily candles ordered oldest first.
func Technical(candles []*domain.Candle) (TechnicalSnapshot, error) {
	if len(candles) == 0 {
		return TechnicalSnapshot{}, ErrNoHistory
	}

	closes := make([]float64, len(candles))
	highs := make([]float64, len(candles))
	lows := make([]float64, len(candles))
	for i, c := range candles {
		closes[i] = c.Close
		highs[i] = c.High
		lows[i] = c.Low
	}

	var snap TechnicalSnapshot
	price := closes[len(closes)-1]
	snap.CurrentPrice = &price

	if v, ok := ta.Last(ta.RSISeries(closes, rsiPeriod)); ok {
		snap.RSI = ptr(v)
	}
	snap.SMA20 = lastPtr(ta.SMASeries(closes, 20))
	snap.SMA50 = lastPtr(ta.SMASeries(closes, 50))
	snap.SMA200 = lastPtr(ta.SMASeries(closes, 200))

	if lo, hi, ok := ta.WindowMinMax(lows, highs, supportWindow); ok {
		snap.Support = ptr(round2(lo))
		snap.Resistance = ptr(round2(hi))
	}

	if len(closes) >= macdMinBars {
		macd, signal := ta.MACDSeries(closes, 12, 26, 9)
		m, okM := ta.Last(macd)
		s, okS := ta.Last(signal)
		if okM && okS {
			label := "Bearish"
			if m > s {
				label = "Bullish"
			}
			snap.MACDSignal = &label
		}
	}

	if snap.SMA50 != nil && snap.SMA200 != nil {
		snap.SMATrend = ptr(smaTrend(price, *snap.SMA50, *snap.SMA200))
	} else if snap.SMA20 != nil && snap.SMA50 != nil {
		snap.SMATrend = ptr(smaTrend(price, *snap.SMA20, *snap.SMA50))
	}

	middle, upper, lower := ta.BollingerSeries(closes, bollingerPeriod, bollingerStdDevs)
	u, okU := ta.Last(upper)
	l, okL := ta.Last(lower)
	mid, okMid := ta.Last(middle)
	if okU && okL && okMid {
		snap.BBPosition = ptr(bbPosition(price, u, l, mid))
	}

	return snap, nil
}

func smaTrend(price, fast, slow float64) string {
	switch {
	case price > fast && fast > slow:
		return "Strong Uptrend"
	case price < fast && fast < slow:
		return "Strong Downtrend"
	case fast >= slow:
		return "Uptrend"
	default:
		return "Downtrend"
	}
}

func bbPosition(price, upper, lower, middle float64) string {
	switch {
	case price > upper:
		return "Above Upper Band"
	case price < lower:
		return "Below Lower Band"
	case price >= middle:
		return "Upper Half"
	default:
		return "Lower Half"
	}
}

func lastPtr(series []float64) *float64 {
	if v, ok := ta.Last(series); ok {
		return ptr(round2(v))
	}
	return nil
}
