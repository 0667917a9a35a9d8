package ml

import (
	"errors"
	"fmt"
	"math"
	"math/rand"
)

// Dataset is one partition of the training corpus.
type Dataset struct {
	X [][]float64
	Y []int
}

func (d Dataset) Len() int { return len(d.Y) }

// SplitResult holds the three stratified partitions. Partition sizes always
// sum to the input size.
type SplitResult struct {
	Train      Dataset
	Validation Dataset
	Test       Dataset
}

// StratifiedSplit partitions X/y into train/validation/test. The test
// fraction is carved out first, then the validation fraction out of the
// remainder, per class, so every partition preserves the class ratio.
func StratifiedSplit(X [][]float64, y []int, testFraction, validationFraction float64, seed int64) (SplitResult, error) {
	if len(X) != len(y) {
		return SplitResult{}, fmt.Errorf("feature/label length mismatch: %d vs %d", len(X), len(y))
	}
	if testFraction < 0 || validationFraction < 0 || testFraction+validationFraction >= 1 {
		return SplitResult{}, errors.New("test and validation fractions must be non-negative and sum below 1")
	}

	rng := rand.New(rand.NewSource(seed))
	byClass := map[int][]int{}
	for i, label := range y {
		byClass[label] = append(byClass[label], i)
	}

	var res SplitResult
	for _, label := range []int{0, 1} {
		idx := byClass[label]
		rng.Shuffle(len(idx), func(a, b int) { idx[a], idx[b] = idx[b], idx[a] })

		nTest := int(math.Round(testFraction * float64(len(idx))))
		nVal := int(math.Round(validationFraction * float64(len(idx))))
		if nTest+nVal > len(idx) {
			nVal = len(idx) - nTest
		}

		for k, i := range idx {
			switch {
			case k < nTest:
				res.Test.X = append(res.Test.X, X[i])
				res.Test.Y = append(res.Test.Y, y[i])
			case k < nTest+nVal:
				res.Validation.X = append(res.Validation.X, X[i])
				res.Validation.Y = append(res.Validation.Y, y[i])
			default:
				res.Train.X = append(res.Train.X, X[i])
				res.Train.Y = append(res.Train.Y, y[i])
			}
		}
	}
	if res.Train.Len() == 0 {
		return SplitResult{}, errors.New("empty training partition after split")
	}
	return res, nil
}

// StratifiedFolds assigns indices to k folds, distributing each class round
// robin so folds preserve the class ratio.
func StratifiedFolds(y []int, k int, seed int64) [][]int {
	if k < 2 {
		k = 2
	}
	rng := rand.New(rand.NewSource(seed))
	byClass := map[int][]int{}
	for i, label := range y {
		byClass[label] = append(byClass[label], i)
	}

	folds := make([][]int, k)
	for _, label := range []int{0, 1} {
		idx := byClass[label]
		rng.Shuffle(len(idx), func(a, b int) { idx[a], idx[b] = idx[b], idx[a] })
		for n, i := range idx {
			folds[n%k] = append(folds[n%k], i)
		}
	}
	return folds
}

// PositiveFraction returns the share of positive labels.
func PositiveFraction(y []int) float64 {
	if len(y) == 0 {
		return 0
	}
	pos := 0
	for _, label := range y {
		pos += label
	}
	return float64(pos) / float64(len(y))
}
