package ml

import (
	"fmt"
	"math"
	"sort"

	"github.com/admitra/admission-engine/internal/model"
)

// EvaluateBinary computes classification metrics for predicted probabilities
// against true labels at a 0.5 decision threshold. CV fields and training
// time are filled in by the caller.
func EvaluateBinary(yTrue []int, probs []float64) model.TrainingMetrics {
	var cm model.ConfusionMatrix
	for i, y := range yTrue {
		pred := 0
		if probs[i] >= 0.5 {
			pred = 1
		}
		switch {
		case y == 1 && pred == 1:
			cm.TruePositives++
		case y == 1 && pred == 0:
			cm.FalseNegatives++
		case y == 0 && pred == 1:
			cm.FalsePositives++
		default:
			cm.TrueNegatives++
		}
	}

	n := len(yTrue)
	accuracy := safeDiv(float64(cm.TruePositives+cm.TrueNegatives), float64(n))

	posPrecision := safeDiv(float64(cm.TruePositives), float64(cm.TruePositives+cm.FalsePositives))
	posRecall := safeDiv(float64(cm.TruePositives), float64(cm.TruePositives+cm.FalseNegatives))
	posF1 := f1(posPrecision, posRecall)

	negPrecision := safeDiv(float64(cm.TrueNegatives), float64(cm.TrueNegatives+cm.FalseNegatives))
	negRecall := safeDiv(float64(cm.TrueNegatives), float64(cm.TrueNegatives+cm.FalsePositives))

	return model.TrainingMetrics{
		Accuracy:        accuracy,
		Precision:       posPrecision,
		Recall:          posRecall,
		F1:              posF1,
		AUCROC:          AUCROC(yTrue, probs),
		ConfusionMatrix: cm,
		PerClass: map[string]model.ClassReport{
			"accepted": {
				Precision: posPrecision,
				Recall:    posRecall,
				F1:        posF1,
				Support:   cm.TruePositives + cm.FalseNegatives,
			},
			"rejected": {
				Precision: negPrecision,
				Recall:    negRecall,
				F1:        f1(negPrecision, negRecall),
				Support:   cm.TrueNegatives + cm.FalsePositives,
			},
		},
	}
}

// AUCROC computes the area under the ROC curve by the rank-sum method, with
// average ranks for tied probabilities. Degenerate single-class inputs
// return 0.5.
func AUCROC(yTrue []int, probs []float64) float64 {
	n := len(yTrue)
	pos, neg := 0, 0
	for _, y := range yTrue {
		if y == 1 {
			pos++
		} else {
			neg++
		}
	}
	if pos == 0 || neg == 0 {
		return 0.5
	}

	order := make([]int, n)
	for i := range order {
		order[i] = i
	}
	sort.Slice(order, func(a, b int) bool { return probs[order[a]] < probs[order[b]] })

	ranks := make([]float64, n)
	for i := 0; i < n; {
		j := i
		for j < n && probs[order[j]] == probs[order[i]] {
			j++
		}
		avg := float64(i+j+1) / 2 // ranks are 1-based
		for k := i; k < j; k++ {
			ranks[order[k]] = avg
		}
		i = j
	}

	sumPosRanks := 0.0
	for i, y := range yTrue {
		if y == 1 {
			sumPosRanks += ranks[i]
		}
	}
	return (sumPosRanks - float64(pos)*float64(pos+1)/2) / (float64(pos) * float64(neg))
}

// MetricValue extracts a named metric, used to select the tuning target and
// the registry's primary comparison metric.
func MetricValue(m model.TrainingMetrics, name string) (float64, error) {
	switch name {
	case "accuracy":
		return m.Accuracy, nil
	case "precision":
		return m.Precision, nil
	case "recall":
		return m.Recall, nil
	case "f1":
		return m.F1, nil
	case "auc_roc", "auc":
		return m.AUCROC, nil
	default:
		return 0, fmt.Errorf("unknown metric %q", name)
	}
}

// MetricNames lists the metrics accepted as tuning targets.
func MetricNames() []string {
	return []string{"accuracy", "precision", "recall", "f1", "auc_roc"}
}

func meanStd(xs []float64) (mean, std float64) {
	if len(xs) == 0 {
		return 0, 0
	}
	for _, x := range xs {
		mean += x
	}
	mean /= float64(len(xs))
	for _, x := range xs {
		d := x - mean
		std += d * d
	}
	return mean, math.Sqrt(std / float64(len(xs)))
}

func safeDiv(a, b float64) float64 {
	if b == 0 {
		return 0
	}
	return a / b
}

func f1(precision, recall float64) float64 {
	if precision+recall == 0 {
		return 0
	}
	return 2 * precision * recall / (precision + recall)
}
