package ensemble

import "stock-alpha-engine/internal/domain"

const (
	upThreshold   = 0.55
	downThreshold = 0.45
)

// Components holds per-model probabilities of an up move. A nil entry means the model did not train.
type Components struct {
	LogRegProb  *float64
	XGBoostProb *float64
}

type Service struct {
	logRegWeight  float64
	xgboostWeight float64
}

func NewService() *Service {
	return &Service{logRegWeight: 0.5, xgboostWeight: 0.5}
}

// ProbUp blends the available model probabilities; with none available it returns 0.5.
func (s *Service) ProbUp(c Components) float64 {
	var sum, weight float64
	if c.LogRegProb != nil {
		sum += s.logRegWeight * *c.LogRegProb
		weight += s.logRegWeight
	}
	if c.XGBoostProb != nil {
		sum += s.xgboostWeight * *c.XGBoostProb
		weight += s.xgboostWeight
	}
	if weight == 0 {
		return 0.5
	}
	return sum / weight
}

func Direction(probUp float64) domain.ForecastDirection {
	if probUp >= upThreshold {
		return domain.ForecastUp
	}
	if probUp <= downThreshold {
		return domain.ForecastDown
	}
	return domain.ForecastFlat
}
