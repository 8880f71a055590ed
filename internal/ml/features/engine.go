package features

import (
	"math"
	"sort"

	"stock-alpha-engine/internal/domain"
	"stock-alpha-engine/internal/ta"
)

const (
	rsiPeriod  = 14
	macdFast   = 12
	macdSlow   = 26
	macdSignal = 9
	bbPeriod   = 20
	bbStdDevs  = 2.0

	// warmup is the first bar index with every feature defined.
	warmup = 20
)

// Row is one daily observation. Target is nil when the horizon runs past the last bar.
type Row struct {
	Ticker     string
	Day        int64
	Ret1D      float64
	Ret5D      float64
	Ret20D     float64
	Vol5D      float64
	Vol20D     float64
	VolumeZ20  float64
	RSI14      float64
	MACDLine   float64
	MACDSignal float64
	MACDHist   float64
	BBPos      float64
	BBWidth    float64
	Target     *bool
}

var featureNames = []string{
	"ret_1d", "ret_5d", "ret_20d",
	"vol_5d", "vol_20d", "volume_z20",
	"rsi14",
	"macd_line", "macd_signal", "macd_hist",
	"bb_pos", "bb_width",
}

func FeatureNames() []string {
	return append([]string(nil), featureNames...)
}

// Vector returns the features in FeatureNames order.
func (r Row) Vector() []float64 {
	return []float64{
		r.Ret1D, r.Ret5D, r.Ret20D,
		r.Vol5D, r.Vol20D, r.VolumeZ20,
		r.RSI14 / 100,
		r.MACDLine, r.MACDSignal, r.MACDHist,
		r.BBPos, r.BBWidth,
	}
}

type Engine struct{}

func NewEngine() *Engine { return &Engine{} }

// BuildRows derives feature rows from daily candles; horizonDays sets the label lookahead.
func (e *Engine) BuildRows(candles []*domain.Candle, horizonDays int) []Row {
	normalized := normalizeCandles(candles)
	if len(normalized) <= warmup {
		return nil
	}
	if horizonDays <= 0 {
		horizonDays = 5
	}

	closes := make([]float64, len(normalized))
	volumes := make([]float64, len(normalized))
	for i := range normalized {
		closes[i] = normalized[i].Close
		volumes[i] = normalized[i].Volume
	}

	rsi := ta.RSISeries(closes, rsiPeriod)
	macdLine, macdSig := ta.MACDSeries(closes, macdFast, macdSlow, macdSignal)
	bbMiddle, bbUpper, bbLower := ta.BollingerSeries(closes, bbPeriod, bbStdDevs)
	if len(rsi) != len(closes) {
		return nil
	}

	rows := make([]Row, 0, len(normalized)-warmup)
	for i := warmup; i < len(normalized); i++ {
		price := closes[i]
		if price == 0 {
			continue
		}
		ret1 := pctReturn(closes, i, 1)
		ret5 := pctReturn(closes, i, 5)
		ret20 := pctReturn(closes, i, 20)
		vol5 := rollingVolatility(closes, i, 5)
		vol20 := rollingVolatility(closes, i, 20)
		volZ := rollingZ(volumes, i, 20)

		// a flat window has no RSI; treat it as balanced
		rsiVal := rsi[i]
		if math.IsNaN(rsiVal) {
			rsiVal = 50
		}
		bbU, bbL, bbM := bbUpper[i], bbLower[i], bbMiddle[i]
		if anyNaN(ret1, ret5, ret20, vol5, vol20, volZ, macdLine[i], macdSig[i], bbU, bbL, bbM) {
			continue
		}

		bbWidth := 0.0
		if bbM != 0 {
			bbWidth = (bbU - bbL) / bbM
		}
		bbPos := 0.5
		if bbU != bbL {
			bbPos = (price - bbL) / (bbU - bbL)
		}

		var target *bool
		if t := i + horizonDays; t < len(closes) {
			up := closes[t] > price
			target = &up
		}

		rows = append(rows, Row{
			Ticker:     normalized[i].Ticker,
			Day:        normalized[i].OpenTime.Unix(),
			Ret1D:      ret1,
			Ret5D:      ret5,
			Ret20D:     ret20,
			Vol5D:      vol5,
			Vol20D:     vol20,
			VolumeZ20:  volZ,
			RSI14:      rsiVal,
			MACDLine:   macdLine[i] / price,
			MACDSignal: macdSig[i] / price,
			MACDHist:   (macdLine[i] - macdSig[i]) / price,
			BBPos:      bbPos,
			BBWidth:    bbWidth,
			Target:     target,
		})
	}
	return rows
}

func normalizeCandles(in []*domain.Candle) []domain.Candle {
	out := make([]domain.Candle, 0, len(in))
	for _, c := range in {
		if c == nil {
			continue
		}
		out = append(out, *c)
	}
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].OpenTime.Before(out[j].OpenTime)
	})
	return out
}

func pctReturn(values []float64, idx int, lag int) float64 {
	if idx-lag < 0 || idx >= len(values) {
		return math.NaN()
	}
	base := values[idx-lag]
	if base == 0 {
		return math.NaN()
	}
	return (values[idx] / base) - 1
}

func rollingVolatility(closes []float64, idx int, window int) float64 {
	if window <= 1 || idx-window < 0 || idx >= len(closes) {
		return math.NaN()
	}
	rets := make([]float64, 0, window)
	for j := idx - window + 1; j <= idx; j++ {
		if closes[j-1] == 0 {
			return math.NaN()
		}
		rets = append(rets, (closes[j]/closes[j-1])-1)
	}
	_, std := ta.MeanStd(rets)
	return std
}

func rollingZ(values []float64, idx int, window int) float64 {
	if window <= 0 || idx-window < 0 || idx >= len(values) {
		return math.NaN()
	}
	mean, std := ta.MeanStd(values[idx-window : idx])
	if std == 0 {
		return 0
	}
	return (values[idx] - mean) / std
}

func anyNaN(values ...float64) bool {
	for _, v := range values {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return true
		}
	}
	return false
}
