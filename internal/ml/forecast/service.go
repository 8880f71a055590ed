package forecast

import (
	"errors"
	"log"

	"stock-alpha-engine/internal/domain"
	"stock-alpha-engine/internal/ml/ensemble"
	"stock-alpha-engine/internal/ml/features"
	"stock-alpha-engine/internal/ml/models/logreg"
	"stock-alpha-engine/internal/ml/models/xgboost"
)

const (
	DefaultHorizonDays = 5
	DefaultMinSamples  = 60

	modelLogReg  = "logreg"
	modelXGBoost = "xgboost"
)

// Service trains small per-ticker models on demand and predicts the direction of the
// close horizonDays ahead of the latest bar.
type Service struct {
	features    *features.Engine
	ensemble    *ensemble.Service
	horizonDays int
	minSamples  int
}

func NewService(horizonDays, minSamples int) *Service {
	if horizonDays <= 0 {
		horizonDays = DefaultHorizonDays
	}
	if minSamples <= 0 {
		minSamples = DefaultMinSamples
	}
	return &Service{
		features:    features.NewEngine(),
		ensemble:    ensemble.NewService(),
		horizonDays: horizonDays,
		minSamples:  minSamples,
	}
}

func (s *Service) HorizonDays() int { return s.horizonDays }

// Forecast returns nil when there is too little labelled history or only one outcome class.
func (s *Service) Forecast(candles []*domain.Candle) *domain.Forecast {
	rows := s.features.BuildRows(candles, s.horizonDays)
	if len(rows) == 0 {
		return nil
	}
	latest := rows[len(rows)-1]

	samples := make([][]float64, 0, len(rows))
	labels := make([]float64, 0, len(rows))
	var ups int
	for _, row := range rows {
		if row.Target == nil {
			continue
		}
		samples = append(samples, row.Vector())
		if *row.Target {
			labels = append(labels, 1)
			ups++
		} else {
			labels = append(labels, 0)
		}
	}
	if len(samples) < s.minSamples || ups == 0 || ups == len(samples) {
		return nil
	}

	names := features.FeatureNames()
	x := latest.Vector()
	var comps ensemble.Components
	var used []string

	if m, err := logreg.Train(samples, labels, names, logreg.DefaultTrainOptions()); err != nil {
		log.Printf("forecast %s: logreg training failed: %v", latest.Ticker, err)
	} else {
		p := m.PredictProb(x)
		comps.LogRegProb = &p
		used = append(used, modelLogReg)
	}

	if m, err := xgboost.Train(samples, labels, names, xgboost.DefaultTrainOptions()); err != nil {
		if !errors.Is(err, xgboost.ErrSingleClass) {
			log.Printf("forecast %s: xgboost training failed: %v", latest.Ticker, err)
		}
	} else {
		p := m.PredictProb(x)
		comps.XGBoostProb = &p
		used = append(used, modelXGBoost)
	}

	if len(used) == 0 {
		return nil
	}

	prob := s.ensemble.ProbUp(comps)
	return &domain.Forecast{
		ProbUp:      round4(prob),
		Direction:   ensemble.Direction(prob),
		HorizonDays: s.horizonDays,
		Models:      used,
		Samples:     len(samples),
	}
}

func round4(v float64) float64 {
	return float64(int64(v*10000+0.5)) / 10000
}
