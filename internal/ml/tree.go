package ml

import (
	"math/rand"
	"sort"
)

// TreeNode is one node of a CART classification tree. Exported for gob.
type TreeNode struct {
	Feature   int
	Threshold float64
	Left      *TreeNode
	Right     *TreeNode
	Prob      float64
	Leaf      bool
}

// DecisionTree is a binary CART classifier splitting on gini impurity.
// MaxFeatures limits the features considered per split (0 means all), which
// is how the random forest decorrelates its trees.
type DecisionTree struct {
	MaxDepth    int
	MinLeaf     int
	MaxFeatures int
	Seed        int64

	Root       *TreeNode
	Importance []float64
}

func NewDecisionTree() *DecisionTree {
	return &DecisionTree{
		MaxDepth: 5,
		MinLeaf:  3,
		Seed:     1,
	}
}

func (t *DecisionTree) Algorithm() string { return AlgorithmDecisionTree }

func (t *DecisionTree) Params() map[string]any {
	return map[string]any{
		"max_depth": t.MaxDepth,
		"min_leaf":  t.MinLeaf,
		"seed":      t.Seed,
	}
}

func (t *DecisionTree) SetParams(params map[string]any) {
	t.MaxDepth = paramInt(params, "max_depth", t.MaxDepth)
	t.MinLeaf = paramInt(params, "min_leaf", t.MinLeaf)
	t.Seed = paramInt64(params, "seed", t.Seed)
}

func (t *DecisionTree) Fit(X [][]float64, y []int) error {
	if err := checkTrainingData(X, y); err != nil {
		return err
	}
	t.Importance = make([]float64, len(X[0]))
	idx := make([]int, len(X))
	for i := range idx {
		idx[i] = i
	}
	rng := rand.New(rand.NewSource(t.Seed))
	t.Root = t.grow(X, y, idx, 0, rng)
	normalize(t.Importance)
	return nil
}

func (t *DecisionTree) PredictProba(x []float64) float64 {
	node := t.Root
	if node == nil {
		return 0.5
	}
	for !node.Leaf {
		if x[node.Feature] <= node.Threshold {
			node = node.Left
		} else {
			node = node.Right
		}
	}
	return node.Prob
}

func (t *DecisionTree) FeatureImportances() []float64 {
	out := make([]float64, len(t.Importance))
	copy(out, t.Importance)
	return out
}

func (t *DecisionTree) grow(X [][]float64, y []int, idx []int, depth int, rng *rand.Rand) *TreeNode {
	pos := 0
	for _, i := range idx {
		pos += y[i]
	}
	prob := float64(pos) / float64(len(idx))

	if depth >= t.MaxDepth || len(idx) < 2*t.MinLeaf || pos == 0 || pos == len(idx) {
		return &TreeNode{Leaf: true, Prob: prob}
	}

	feature, threshold, gain := t.bestSplit(X, y, idx, rng)
	if gain <= 0 {
		return &TreeNode{Leaf: true, Prob: prob}
	}

	var left, right []int
	for _, i := range idx {
		if X[i][feature] <= threshold {
			left = append(left, i)
		} else {
			right = append(right, i)
		}
	}
	if len(left) < t.MinLeaf || len(right) < t.MinLeaf {
		return &TreeNode{Leaf: true, Prob: prob}
	}

	t.Importance[feature] += gain * float64(len(idx))

	return &TreeNode{
		Feature:   feature,
		Threshold: threshold,
		Left:      t.grow(X, y, left, depth+1, rng),
		Right:     t.grow(X, y, right, depth+1, rng),
	}
}

// bestSplit scans candidate thresholds per feature and returns the split
// with the largest gini decrease.
func (t *DecisionTree) bestSplit(X [][]float64, y []int, idx []int, rng *rand.Rand) (int, float64, float64) {
	dim := len(X[0])
	feats := featureSubset(dim, t.MaxFeatures, rng)

	parentGini := giniOf(y, idx)
	bestFeature, bestThreshold, bestGain := -1, 0.0, 0.0

	values := make([]float64, 0, len(idx))
	for _, f := range feats {
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

			nl, posL, nr, posR := 0, 0, 0, 0
			for _, i := range idx {
				if X[i][f] <= thr {
					nl++
					posL += y[i]
				} else {
					nr++
					posR += y[i]
				}
			}
			if nl == 0 || nr == 0 {
				continue
			}
			n := float64(len(idx))
			gain := parentGini -
				(float64(nl)/n)*gini(posL, nl) -
				(float64(nr)/n)*gini(posR, nr)
			if gain > bestGain {
				bestFeature, bestThreshold, bestGain = f, thr, gain
			}
		}
	}
	return bestFeature, bestThreshold, bestGain
}

func featureSubset(dim, maxFeatures int, rng *rand.Rand) []int {
	all := rng.Perm(dim)
	if maxFeatures <= 0 || maxFeatures >= dim {
		return all
	}
	return all[:maxFeatures]
}

func gini(pos, n int) float64 {
	p := float64(pos) / float64(n)
	return 2 * p * (1 - p)
}

func giniOf(y []int, idx []int) float64 {
	pos := 0
	for _, i := range idx {
		pos += y[i]
	}
	return gini(pos, len(idx))
}

func normalize(w []float64) {
	sum := 0.0
	for _, x := range w {
		sum += x
	}
	if sum > 0 {
		for i := range w {
			w[i] /= sum
		}
	}
}
