package sentiment

import (
	"math"
	"strings"

	"github.com/jonreiter/govader"
)

// marketTerms fills gaps in the general VADER lexicon with headline vocabulary.
// Valences use the VADER scale of -4..4 and never override an existing entry.
var marketTerms = map[string]float64{
	"surge": 2.0, "surges": 2.0, "surged": 2.0, "soar": 2.2, "soars": 2.2, "soared": 2.2,
	"jumps": 1.4, "jumped": 1.4, "rally": 1.8, "rallies": 1.8, "rallied": 1.8,
	"climbs": 1.0, "rises": 1.0, "rose": 1.0, "upbeat": 1.6, "bullish": 2.0,
	"outperform": 1.6, "outperforms": 1.6, "upgrade": 1.6, "upgraded": 1.6, "upgrades": 1.6,
	"beats": 1.2, "breakout": 1.4, "rebound": 1.2, "rebounds": 1.2, "buyback": 1.0,
	"plunge": -2.4, "plunges": -2.4, "plunged": -2.4, "slump": -2.0, "slumps": -2.0,
	"tumble": -2.0, "tumbles": -2.0, "tumbled": -2.0, "sinks": -1.6, "slides": -1.2,
	"selloff": -2.0, "bearish": -2.0, "downgrade": -1.6, "downgraded": -1.6, "downgrades": -1.6,
	"underperform": -1.6, "underperforms": -1.6, "slowdown": -1.4, "downturn": -1.8,
	"layoffs": -1.8, "default": -2.2, "defaults": -2.2, "probe": -1.2, "raid": -1.6,
}

// LexiconScorer scores text with VADER. The compound score is already normalised to [-1, 1].
type LexiconScorer struct {
	analyzer *govader.SentimentIntensityAnalyzer
}

func NewLexiconScorer() *LexiconScorer {
	analyzer := govader.NewSentimentIntensityAnalyzer()
	for word, valence := range marketTerms {
		if _, ok := analyzer.Lexicon[word]; !ok {
			analyzer.Lexicon[word] = valence
		}
	}
	return &LexiconScorer{analyzer: analyzer}
}

// Polarity returns a value in [-1, 1]; text without any sentiment-bearing word scores 0.
func (s *LexiconScorer) Polarity(text string) float64 {
	text = strings.TrimSpace(strings.ReplaceAll(text, "’", "'"))
	if text == "" {
		return 0
	}
	return clamp(s.analyzer.PolarityScores(text).Compound, -1, 1)
}

func clamp(v, lo, hi float64) float64 {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return 0
	}
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
