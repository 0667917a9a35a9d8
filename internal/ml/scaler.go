package ml

import (
	"errors"
	"math"
)

// Scaler standardizes features to zero mean and unit variance. It must be
// fit on the training partition only and then applied to every other
// partition and to prediction-time inputs.
type Scaler struct {
	Mean []float64
	Std  []float64
}

func (s *Scaler) Fit(X [][]float64) error {
	if len(X) == 0 {
		return errors.New("cannot fit scaler on empty data")
	}
	dim := len(X[0])
	s.Mean = make([]float64, dim)
	s.Std = make([]float64, dim)

	for _, row := range X {
		for j, v := range row {
			s.Mean[j] += v
		}
	}
	n := float64(len(X))
	for j := range s.Mean {
		s.Mean[j] /= n
	}
	for _, row := range X {
		for j, v := range row {
			d := v - s.Mean[j]
			s.Std[j] += d * d
		}
	}
	for j := range s.Std {
		s.Std[j] = math.Sqrt(s.Std[j] / n)
		if s.Std[j] == 0 {
			s.Std[j] = 1
		}
	}
	return nil
}

func (s *Scaler) TransformOne(x []float64) []float64 {
	out := make([]float64, len(x))
	for j, v := range x {
		out[j] = (v - s.Mean[j]) / s.Std[j]
	}
	return out
}

func (s *Scaler) Transform(X [][]float64) [][]float64 {
	out := make([][]float64, len(X))
	for i, row := range X {
		out[i] = s.TransformOne(row)
	}
	return out
}
