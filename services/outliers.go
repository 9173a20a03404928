package services

import (
	"math"
	"sort"
)

// IQRMultiplier scales the interquartile range to get the fences.
const IQRMultiplier = 1.5

// OutlierBounds are the quartiles and fences of a numeric sample.
type OutlierBounds struct {
	Q1, Q3, IQR  float64
	Lower, Upper float64
}

// Outside reports whether v lies strictly beyond either fence.
func (b OutlierBounds) Outside(v float64) bool {
	return v < b.Lower || v > b.Upper
}

// Quantile returns the p-quantile of values using linear interpolation
// between order statistics at position (n-1)p. values need not be sorted.
func Quantile(values []float64, p float64) (float64, error) {
	if len(values) == 0 {
		return math.NaN(), ErrEmptySample
	}
	sorted := append([]float64(nil), values...)
	sort.Float64s(sorted)
	return quantileSorted(sorted, p), nil
}

func quantileSorted(sorted []float64, p float64) float64 {
	if p <= 0 {
		return sorted[0]
	}
	n := len(sorted)
	if p >= 1 {
		return sorted[n-1]
	}
	h := float64(n-1) * p
	lo := int(math.Floor(h))
	if lo+1 >= n {
		return sorted[lo]
	}
	frac := h - float64(lo)
	return sorted[lo] + frac*(sorted[lo+1]-sorted[lo])
}

// IQRBounds computes Q1, Q3 and the 1.5×IQR fences of values.
func IQRBounds(values []float64) (OutlierBounds, error) {
	if len(values) == 0 {
		return OutlierBounds{}, ErrEmptySample
	}
	sorted := append([]float64(nil), values...)
	sort.Float64s(sorted)

	q1 := quantileSorted(sorted, 0.25)
	q3 := quantileSorted(sorted, 0.75)
	iqr := q3 - q1
	return OutlierBounds{
		Q1:    q1,
		Q3:    q3,
		IQR:   iqr,
		Lower: q1 - IQRMultiplier*iqr,
		Upper: q3 + IQRMultiplier*iqr,
	}, nil
}

// DetectOutliers flags the values lying strictly outside the IQR fences.
// It returns the bounds and the indices of the flagged values in input order.
func DetectOutliers(values []float64) (OutlierBounds, []int, error) {
	b, err := IQRBounds(values)
	if err != nil {
		return b, nil, err
	}
	var idx []int
	for i, v := range values {
		if b.Outside(v) {
			idx = append(idx, i)
		}
	}
	return b, idx, nil
}
