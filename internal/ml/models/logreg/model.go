package logreg

import (
	"errors"
	"math"
	"strconv"
)

type TrainOptions struct {
	LearningRate float64
	Epochs       int
	L2           float64
}

func DefaultTrainOptions() TrainOptions {
	return TrainOptions{
		LearningRate: 0.05,
		Epochs:       400,
		L2:           0.001,
	}
}

// Model is an L2-regularised logistic regression over z-scored features.
type Model struct {
	featureNames []string
	weights      []float64
	bias         float64
	means        []float64
	stds         []float64
}

func Train(samples [][]float64, labels []float64, featureNames []string, opts TrainOptions) (*Model, error) {
	if len(samples) == 0 || len(samples) != len(labels) {
		return nil, errors.New("invalid training dataset")
	}
	featCount := len(samples[0])
	if featCount == 0 {
		return nil, errors.New("empty feature vectors")
	}
	for _, s := range samples {
		if len(s) != featCount {
			return nil, errors.New("ragged feature vectors")
		}
	}
	def := DefaultTrainOptions()
	if opts.LearningRate <= 0 {
		opts.LearningRate = def.LearningRate
	}
	if opts.Epochs <= 0 {
		opts.Epochs = def.Epochs
	}
	if opts.L2 < 0 {
		opts.L2 = def.L2
	}

	means, stds := columnStats(samples)
	xs := make([][]float64, len(samples))
	for i := range samples {
		xs[i] = normalize(samples[i], means, stds)
	}

	weights := make([]float64, featCount)
	bias := 0.0
	n := float64(len(xs))
	grads := make([]float64, featCount)
	for epoch := 0; epoch < opts.Epochs; epoch++ {
		for j := range grads {
			grads[j] = 0
		}
		gradBias := 0.0
		for i, x := range xs {
			err := sigmoid(dot(weights, x)+bias) - labels[i]
			for j := range grads {
				grads[j] += err * x[j]
			}
			gradBias += err
		}
		for j := range weights {
			weights[j] -= opts.LearningRate * (grads[j]/n + opts.L2*weights[j])
		}
		bias -= opts.LearningRate * (gradBias / n)
	}

	if len(featureNames) != featCount {
		featureNames = make([]string, featCount)
		for i := range featureNames {
			featureNames[i] = "f" + strconv.Itoa(i)
		}
	}
	return &Model{
		featureNames: append([]string(nil), featureNames...),
		weights:      weights,
		bias:         bias,
		means:        means,
		stds:         stds,
	}, nil
}

func (m *Model) PredictProb(sample []float64) float64 {
	if m == nil || len(sample) != len(m.weights) {
		return 0.5
	}
	return sigmoid(dot(m.weights, normalize(sample, m.means, m.stds)) + m.bias)
}

func (m *Model) FeatureNames() []string {
	if m == nil {
		return nil
	}
	return append([]string(nil), m.featureNames...)
}

func columnStats(samples [][]float64) ([]float64, []float64) {
	featCount := len(samples[0])
	means := make([]float64, featCount)
	stds := make([]float64, featCount)
	n := float64(len(samples))
	for j := 0; j < featCount; j++ {
		for i := range samples {
			means[j] += samples[i][j]
		}
		means[j] /= n
		for i := range samples {
			d := samples[i][j] - means[j]
			stds[j] += d * d
		}
		stds[j] = math.Sqrt(stds[j] / n)
		if stds[j] == 0 {
			stds[j] = 1
		}
	}
	return means, stds
}

func sigmoid(x float64) float64 {
	if x > 35 {
		return 1
	}
	if x < -35 {
		return 0
	}
	return 1 / (1 + math.Exp(-x))
}

func dot(a, b []float64) float64 {
	s := 0.0
	for i := range a {
		s += a[i] * b[i]
	}
	return s
}

func normalize(in, means, stds []float64) []float64 {
	out := make([]float64, len(in))
	for i := range in {
		out[i] = (in[i] - means[i]) / stds[i]
	}
	return out
}
