package ml

import (
	"math"
	"sort"
)

// RegNode is one node of a regression tree used by gradient boosting.
// Exported for gob.
type RegNode struct {
	Feature   int
	Threshold float64
	Left      *RegNode
	Right     *RegNode
	Value     float64
	Leaf      bool
}

// GradientBoosting fits shallow regression trees on the logistic-loss
// gradient, each leaf taking a Newton step.
type GradientBoosting struct {
	NumEstimators int
	LearningRate  float64
	MaxDepth      int
	MinLeaf       int

	Base       float64
	Trees      []*RegNode
	Importance []float64
}

func NewGradientBoosting() *GradientBoosting {
	return &GradientBoosting{
		NumEstimators: 100,
		LearningRate:  0.1,
		MaxDepth:      3,
		MinLeaf:       5,
	}
}

func (g *GradientBoosting) Algorithm() string { return AlgorithmGradientBoosting }

func (g *GradientBoosting) Params() map[string]any {
	return map[string]any{
		"num_estimators": g.NumEstimators,
		"learning_rate":  g.LearningRate,
		"max_depth":      g.MaxDepth,
		"min_leaf":       g.MinLeaf,
	}
}

func (g *GradientBoosting) SetParams(params map[string]any) {
	g.NumEstimators = paramInt(params, "num_estimators", g.NumEstimators)
	g.LearningRate = paramFloat(params, "learning_rate", g.LearningRate)
	g.MaxDepth = paramInt(params, "max_depth", g.MaxDepth)
	g.MinLeaf = paramInt(params, "min_leaf", g.MinLeaf)
}

func (g *GradientBoosting) Fit(X [][]float64, y []int) error {
	if err := checkTrainingData(X, y); err != nil {
		return err
	}
	n := len(X)
	dim := len(X[0])

	pos := 0
	for _, label := range y {
		pos += label
	}
	// Initial score is the log-odds of the positive class, bounded away from
	// degenerate all-one / all-zero targets.
	p := math.Min(math.Max(float64(pos)/float64(n), 1e-6), 1-1e-6)
	g.Base = math.Log(p / (1 - p))

	scores := make([]float64, n)
	for i := range scores {
		scores[i] = g.Base
	}

	g.Trees = make([]*RegNode, 0, g.NumEstimators)
	g.Importance = make([]float64, dim)

	residuals := make([]float64, n)
	hessians := make([]float64, n)
	idx := make([]int, n)
	for i := range idx {
		idx[i] = i
	}

	for t := 0; t < g.NumEstimators; t++ {
		for i := range scores {
			pi := sigmoid(scores[i])
			residuals[i] = float64(y[i]) - pi
			hessians[i] = pi * (1 - pi)
		}
		root := g.growReg(X, residuals, hessians, idx, 0)
		g.Trees = append(g.Trees, root)
		for i, row := range X {
			scores[i] += g.LearningRate * predictReg(root, row)
		}
	}
	normalize(g.Importance)
	return nil
}

func (g *GradientBoosting) PredictProba(x []float64) float64 {
	score := g.Base
	for _, t := range g.Trees {
		score += g.LearningRate * predictReg(t, x)
	}
	return sigmoid(score)
}

func (g *GradientBoosting) FeatureImportances() []float64 {
	out := make([]float64, len(g.Importance))
	copy(out, g.Importance)
	return out
}

func (g *GradientBoosting) growReg(X [][]float64, r, h []float64, idx []int, depth int) *RegNode {
	if depth >= g.MaxDepth || len(idx) < 2*g.MinLeaf {
		return &RegNode{Leaf: true, Value: newtonLeaf(r, h, idx)}
	}

	feature, threshold, gain := g.bestRegSplit(X, r, idx)
	if gain <= 0 {
		return &RegNode{Leaf: true, Value: newtonLeaf(r, h, idx)}
	}

	var left, right []int
	for _, i := range idx {
		if X[i][feature] <= threshold {
			left = append(left, i)
		} else {
			right = append(right, i)
		}
	}
	if len(left) < g.MinLeaf || len(right) < g.MinLeaf {
		return &RegNode{Leaf: true, Value: newtonLeaf(r, h, idx)}
	}

	g.Importance[feature] += gain

	return &RegNode{
		Feature:   feature,
		Threshold: threshold,
		Left:      g.growReg(X, r, h, left, depth+1),
		Right:     g.growReg(X, r, h, right, depth+1),
	}
}

// bestRegSplit maximizes variance reduction of the residuals.
func (g *GradientBoosting) bestRegSplit(X [][]float64, r []float64, idx []int) (int, float64, float64) {
	dim := len(X[0])
	parentVar := varianceOf(r, idx)

	bestFeature, bestThreshold, bestGain := -1, 0.0, 0.0
	values := make([]float64, 0, len(idx))
	for f := 0; f < dim; f++ {
		values = values[:0]
		for _, i := range idx {
			values = append(values, X[i][f])
		}
		sort.Float64s(values)

		for vi := 1; vi < len(values); vi++ {
			if values[vi] == values[vi-1] {
				continue
			}
			thr := (values[vi] + values[vi-1]) / 2

			var left, right []int
			for _, i := range idx {
				if X[i][f] <= thr {
					left = append(left, i)
				} else {
					right = append(right, i)
				}
			}
			if len(left) == 0 || len(right) == 0 {
				continue
			}
			n := float64(len(idx))
			gain := parentVar -
				(float64(len(left))/n)*varianceOf(r, left) -
				(float64(len(right))/n)*varianceOf(r, right)
			if gain > bestGain {
				bestFeature, bestThreshold, bestGain = f, thr, gain
			}
		}
	}
	return bestFeature, bestThreshold, bestGain
}

// newtonLeaf is the one-step Newton estimate sum(residual)/sum(hessian).
func newtonLeaf(r, h []float64, idx []int) float64 {
	num, den := 0.0, 0.0
	for _, i := range idx {
		num += r[i]
		den += h[i]
	}
	if den < 1e-12 {
		return 0
	}
	return num / den
}

func varianceOf(r []float64, idx []int) float64 {
	if len(idx) == 0 {
		return 0
	}
	mean := 0.0
	for _, i := range idx {
		mean += r[i]
	}
	mean /= float64(len(idx))
	v := 0.0
	for _, i := range idx {
		d := r[i] - mean
		v += d * d
	}
	return v / float64(len(idx))
}

func predictReg(node *RegNode, x []float64) float64 {
	for !node.Leaf {
		if x[node.Feature] <= node.Threshold {
			node = node.Left
		} else {
			node = node.Right
		}
	}
	return node.Value
}
