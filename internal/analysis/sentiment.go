package analysis

import (
	"context"
	"strings"

	"stock-alpha-engine/internal/domain"
)

const maxHeadlines = 5

// PolarityScorer returns one polarity in [-1, 1] per title.
type PolarityScorer interface {
	Score(ctx context.Context, titles []string) []float64
}

type ScoredHeadline struct {
	Headline string
	Polarity float64
}

type SentimentSnapshot struct {
	Headlines       []ScoredHeadline
	AveragePolarity float64
	Label           string
}

// Sentiment scores the first five headlines, skipping blank titles.
func Sentiment(ctx context.Context, headlines []domain.Headline, scorer PolarityScorer) SentimentSnapshot {
	if len(headlines) > maxHeadlines {
		headlines = headlines[:maxHeadlines]
	}
	titles := make([]string, 0, len(headlines))
	for _, h := range headlines {
		if t := strings.TrimSpace(h.Title); t != "" {
			titles = append(titles, t)
		}
	}

	snap := SentimentSnapshot{Label: "Neutral", Headlines: []ScoredHeadline{}}
	if len(titles) == 0 || scorer == nil {
		for _, t := range titles {
			snap.Headlines = append(snap.Headlines, ScoredHeadline{Headline: t})
		}
		return snap
	}

	scores := scorer.Score(ctx, titles)
	var total float64
	for i, t := range titles {
		var p float64
		if i < len(scores) {
			p = scores[i]
		}
		total += p
		snap.Headlines = append(snap.Headlines, ScoredHeadline{Headline: t, Polarity: round2(p)})
	}

	avg := total / float64(len(titles))
	switch {
	case avg > 0.1:
		snap.Label = "Bullish"
	case avg < -0.1:
		snap.Label = "Bearish"
	}
	snap.AveragePolarity = round2(avg)
	return snap
}
