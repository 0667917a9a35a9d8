// Package ml implements the trainable-classifier capability: a small set of
// binary classifiers behind one interface, plus the supporting machinery a
// training run needs (scaling, stratified splitting, hyperparameter search,
// metrics, artifact persistence).
package ml

import (
	"errors"
	"fmt"
)

// Algorithm names accepted in a training config.
const (
	AlgorithmLogisticRegression = "logistic_regression"
	AlgorithmDecisionTree       = "decision_tree"
	AlgorithmRandomForest       = "random_forest"
	AlgorithmGradientBoosting   = "gradient_boosting"
)

var ErrUnknownAlgorithm = errors.New("unknown algorithm")

// Classifier is the pluggable trainable-classifier contract. Implementations
// are binary: PredictProba returns the positive-class probability.
type Classifier interface {
	Fit(X [][]float64, y []int) error
	PredictProba(x []float64) float64
	Params() map[string]any
	SetParams(params map[string]any)
	Algorithm() string
}

// ImportanceProvider is implemented by classifiers that can rank features.
type ImportanceProvider interface {
	FeatureImportances() []float64
}

// New returns a fresh classifier with default hyperparameters.
func New(algorithm string) (Classifier, error) {
	switch algorithm {
	case AlgorithmLogisticRegression:
		return NewLogisticRegression(), nil
	case AlgorithmDecisionTree:
		return NewDecisionTree(), nil
	case AlgorithmRandomForest:
		return NewRandomForest(), nil
	case AlgorithmGradientBoosting:
		return NewGradientBoosting(), nil
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownAlgorithm, algorithm)
	}
}

// Algorithms lists the supported algorithm names.
func Algorithms() []string {
	return []string{
		AlgorithmLogisticRegression,
		AlgorithmDecisionTree,
		AlgorithmRandomForest,
		AlgorithmGradientBoosting,
	}
}

func checkTrainingData(X [][]float64, y []int) error {
	if len(X) == 0 {
		return errors.New("empty training set")
	}
	if len(X) != len(y) {
		return fmt.Errorf("feature/label length mismatch: %d vs %d", len(X), len(y))
	}
	width := len(X[0])
	for _, row := range X {
		if len(row) != width {
			return errors.New("ragged feature matrix")
		}
	}
	return nil
}

// Hyperparameter maps come from JSON, so numbers may arrive as float64 even
// for integer parameters.
func paramFloat(params map[string]any, key string, def float64) float64 {
	if v, ok := params[key]; ok {
		switch n := v.(type) {
		case float64:
			return n
		case int:
			return float64(n)
		}
	}
	return def
}

func paramInt(params map[string]any, key string, def int) int {
	if v, ok := params[key]; ok {
		switch n := v.(type) {
		case int:
			return n
		case float64:
			return int(n)
		}
	}
	return def
}

func paramInt64(params map[string]any, key string, def int64) int64 {
	if v, ok := params[key]; ok {
		switch n := v.(type) {
		case int64:
			return n
		case int:
			return int64(n)
		case float64:
			return int64(n)
		}
	}
	return def
}
