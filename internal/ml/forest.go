package ml

import (
	"math"
	"math/rand"
)

// RandomForest bags CART trees over bootstrap samples, each split drawing
// from a sqrt-sized feature subset.
type RandomForest struct {
	NumTrees int
	MaxDepth int
	MinLeaf  int
	Seed     int64

	Trees      []*DecisionTree
	Importance []float64
}

func NewRandomForest() *RandomForest {
	return &RandomForest{
		NumTrees: 100,
		MaxDepth: 6,
		MinLeaf:  3,
		Seed:     1,
	}
}

func (f *RandomForest) Algorithm() string { return AlgorithmRandomForest }

func (f *RandomForest) Params() map[string]any {
	return map[string]any{
		"num_trees": f.NumTrees,
		"max_depth": f.MaxDepth,
		"min_leaf":  f.MinLeaf,
		"seed":      f.Seed,
	}
}

func (f *RandomForest) SetParams(params map[string]any) {
	f.NumTrees = paramInt(params, "num_trees", f.NumTrees)
	f.MaxDepth = paramInt(params, "max_depth", f.MaxDepth)
	f.MinLeaf = paramInt(params, "min_leaf", f.MinLeaf)
	f.Seed = paramInt64(params, "seed", f.Seed)
}

func (f *RandomForest) Fit(X [][]float64, y []int) error {
	if err := checkTrainingData(X, y); err != nil {
		return err
	}
	n := len(X)
	dim := len(X[0])
	maxFeatures := int(math.Ceil(math.Sqrt(float64(dim))))
	rng := rand.New(rand.NewSource(f.Seed))

	f.Trees = make([]*DecisionTree, 0, f.NumTrees)
	f.Importance = make([]float64, dim)

	sampleX := make([][]float64, n)
	sampleY := make([]int, n)
	for t := 0; t < f.NumTrees; t++ {
		for i := 0; i < n; i++ {
			j := rng.Intn(n)
			sampleX[i] = X[j]
			sampleY[i] = y[j]
		}
		tree := &DecisionTree{
			MaxDepth:    f.MaxDepth,
			MinLeaf:     f.MinLeaf,
			MaxFeatures: maxFeatures,
			Seed:        rng.Int63(),
		}
		if err := tree.Fit(sampleX, sampleY); err != nil {
			return err
		}
		f.Trees = append(f.Trees, tree)
		for j, imp := range tree.Importance {
			f.Importance[j] += imp
		}
	}
	normalize(f.Importance)
	return nil
}

func (f *RandomForest) PredictProba(x []float64) float64 {
	if len(f.Trees) == 0 {
		return 0.5
	}
	sum := 0.0
	for _, t := range f.Trees {
		sum += t.PredictProba(x)
	}
	return sum / float64(len(f.Trees))
}

func (f *RandomForest) FeatureImportances() []float64 {
	out := make([]float64, len(f.Importance))
	copy(out, f.Importance)
	return out
}
