package ml

import (
	"fmt"
	"math/rand"
	"sort"
)

// Fixed hyperparameter grids per algorithm, expanded to candidate sets by
// Grid. GRID search walks all of them; RANDOM samples a bounded number.
var paramGrids = map[string]map[string][]any{
	AlgorithmLogisticRegression: {
		"learning_rate": {0.01, 0.05, 0.1},
		"iterations":    {300, 600},
		"l2":            {0.0, 0.01, 0.1},
	},
	AlgorithmDecisionTree: {
		"max_depth": {3, 5, 8},
		"min_leaf":  {1, 3, 5},
	},
	AlgorithmRandomForest: {
		"num_trees": {50, 100},
		"max_depth": {4, 6, 8},
		"min_leaf":  {1, 3},
	},
	AlgorithmGradientBoosting: {
		"num_estimators": {50, 100},
		"learning_rate":  {0.05, 0.1},
		"max_depth":      {2, 3},
	},
}

// Grid expands the fixed grid of an algorithm into concrete candidates.
func Grid(algorithm string) ([]map[string]any, error) {
	grid, ok := paramGrids[algorithm]
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrUnknownAlgorithm, algorithm)
	}

	keys := make([]string, 0, len(grid))
	for k := range grid {
		keys = append(keys, k)
	}
	// Deterministic candidate order regardless of map iteration.
	sort.Strings(keys)

	candidates := []map[string]any{{}}
	for _, key := range keys {
		next := make([]map[string]any, 0, len(candidates)*len(grid[key]))
		for _, base := range candidates {
			for _, value := range grid[key] {
				c := make(map[string]any, len(base)+1)
				for k, v := range base {
					c[k] = v
				}
				c[key] = value
				next = append(next, c)
			}
		}
		candidates = next
	}
	return candidates, nil
}

// TuneResult is the outcome of a hyperparameter search.
type TuneResult struct {
	Params   map[string]any
	Score    float64
	CVScores []float64
	CVMean   float64
	CVStd    float64
}

// Tune selects hyperparameters for an algorithm by k-fold cross-validation
// on the training partition, scored against the target metric. method is one
// of none/grid/random; iterations bounds random search.
func Tune(algorithm string, train Dataset, method string, folds int, metric string, iterations int, seed int64) (TuneResult, error) {
	var candidates []map[string]any
	switch method {
	case "grid":
		all, err := Grid(algorithm)
		if err != nil {
			return TuneResult{}, err
		}
		candidates = all
	case "random":
		all, err := Grid(algorithm)
		if err != nil {
			return TuneResult{}, err
		}
		if iterations <= 0 {
			iterations = 10
		}
		rng := rand.New(rand.NewSource(seed))
		perm := rng.Perm(len(all))
		if iterations > len(all) {
			iterations = len(all)
		}
		for _, i := range perm[:iterations] {
			candidates = append(candidates, all[i])
		}
	case "none", "":
		base, err := New(algorithm)
		if err != nil {
			return TuneResult{}, err
		}
		candidates = []map[string]any{base.Params()}
	default:
		return TuneResult{}, fmt.Errorf("unknown tuning method %q", method)
	}

	best := TuneResult{Score: -1}
	for _, params := range candidates {
		scores, err := crossValidate(algorithm, params, train, folds, metric, seed)
		if err != nil {
			return TuneResult{}, err
		}
		mean, std := meanStd(scores)
		if mean > best.Score {
			best = TuneResult{
				Params:   params,
				Score:    mean,
				CVScores: scores,
				CVMean:   mean,
				CVStd:    std,
			}
		}
	}
	return best, nil
}

func crossValidate(algorithm string, params map[string]any, train Dataset, folds int, metric string, seed int64) ([]float64, error) {
	foldIdx := StratifiedFolds(train.Y, folds, seed)
	scores := make([]float64, 0, len(foldIdx))

	for f, holdout := range foldIdx {
		if len(holdout) == 0 {
			continue
		}
		inFold := make(map[int]bool, len(holdout))
		for _, i := range holdout {
			inFold[i] = true
		}

		var fit Dataset
		for i := range train.Y {
			if !inFold[i] {
				fit.X = append(fit.X, train.X[i])
				fit.Y = append(fit.Y, train.Y[i])
			}
		}

		clf, err := New(algorithm)
		if err != nil {
			return nil, err
		}
		clf.SetParams(params)
		if err := clf.Fit(fit.X, fit.Y); err != nil {
			return nil, fmt.Errorf("fold %d: %w", f, err)
		}

		probs := make([]float64, len(holdout))
		yTrue := make([]int, len(holdout))
		for k, i := range holdout {
			probs[k] = clf.PredictProba(train.X[i])
			yTrue[k] = train.Y[i]
		}
		m := EvaluateBinary(yTrue, probs)
		score, err := MetricValue(m, metric)
		if err != nil {
			return nil, err
		}
		scores = append(scores, score)
	}
	return scores, nil
}
