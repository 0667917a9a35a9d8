package ml

import "math"

// LogisticRegression is a binary logistic model trained by batch gradient
// descent with L2 regularization. Fields are exported for gob encoding.
type LogisticRegression struct {
	LearningRate float64
	Iterations   int
	L2           float64

	Weights []float64
	Bias    float64
}

func NewLogisticRegression() *LogisticRegression {
	return &LogisticRegression{
		LearningRate: 0.1,
		Iterations:   500,
		L2:           0.01,
	}
}

func (m *LogisticRegression) Algorithm() string { return AlgorithmLogisticRegression }

func (m *LogisticRegression) Params() map[string]any {
	return map[string]any{
		"learning_rate": m.LearningRate,
		"iterations":    m.Iterations,
		"l2":            m.L2,
	}
}

func (m *LogisticRegression) SetParams(params map[string]any) {
	m.LearningRate = paramFloat(params, "learning_rate", m.LearningRate)
	m.Iterations = paramInt(params, "iterations", m.Iterations)
	m.L2 = paramFloat(params, "l2", m.L2)
}

func (m *LogisticRegression) Fit(X [][]float64, y []int) error {
	if err := checkTrainingData(X, y); err != nil {
		return err
	}
	n := float64(len(X))
	dim := len(X[0])
	m.Weights = make([]float64, dim)
	m.Bias = 0

	grad := make([]float64, dim)
	for it := 0; it < m.Iterations; it++ {
		for j := range grad {
			grad[j] = 0
		}
		gradBias := 0.0
		for i, row := range X {
			err := sigmoid(dot(m.Weights, row)+m.Bias) - float64(y[i])
			for j, x := range row {
				grad[j] += err * x
			}
			gradBias += err
		}
		for j := range m.Weights {
			m.Weights[j] -= m.LearningRate * (grad[j]/n + m.L2*m.Weights[j])
		}
		m.Bias -= m.LearningRate * gradBias / n
	}
	return nil
}

func (m *LogisticRegression) PredictProba(x []float64) float64 {
	if len(m.Weights) == 0 {
		return 0.5
	}
	return sigmoid(dot(m.Weights, x) + m.Bias)
}

// FeatureImportances returns the absolute coefficients, normalized to sum
// to one.
func (m *LogisticRegression) FeatureImportances() []float64 {
	out := make([]float64, len(m.Weights))
	sum := 0.0
	for i, w := range m.Weights {
		out[i] = math.Abs(w)
		sum += out[i]
	}
	if sum > 0 {
		for i := range out {
			out[i] /= sum
		}
	}
	return out
}

func sigmoid(z float64) float64 {
	return 1 / (1 + math.Exp(-z))
}

func dot(a, b []float64) float64 {
	s := 0.0
	for i := range a {
		s += a[i] * b[i]
	}
	return s
}
