package services

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestQuantileLinearInterpolation(t *testing.T) {
	values := []float64{4, 1, 3, 2}

	q1, err := Quantile(values, 0.25)
	require.NoError(t, err)
	assert.InDelta(t, 1.75, q1, 1e-12)

	median, err := Quantile(values, 0.5)
	require.NoError(t, err)
	assert.InDelta(t, 2.5, median, 1e-12)

	q3, err := Quantile(values, 0.75)
	require.NoError(t, err)
	assert.InDelta(t, 3.25, q3, 1e-12)

	lo, _ := Quantile(values, 0)
	hi, _ := Quantile(values, 1)
	assert.Equal(t, 1.0, lo)
	assert.Equal(t, 4.0, hi)

	assert.Equal(t, []float64{4, 1, 3, 2}, values, "input must not be reordered")
}

func TestQuantileEmpty(t *testing.T) {
	_, err := Quantile(nil, 0.5)
	assert.ErrorIs(t, err, ErrEmptySample)
}

func TestIQRBounds(t *testing.T) {
	b, err := IQRBounds([]float64{100, 100, 200, 300, 300})
	require.NoError(t, err)

	assert.Equal(t, 100.0, b.Q1)
	assert.Equal(t, 300.0, b.Q3)
	assert.Equal(t, 200.0, b.IQR)
	assert.Equal(t, -200.0, b.Lower)
	assert.Equal(t, 600.0, b.Upper)
}

func TestDetectOutliersStrictBounds(t *testing.T) {
	// Q1 = 100 and Q3 = 300 in both samples, so the fences are [-200, 600].
	onFences := []float64{-200, 100, 100, 200, 300, 300, 600}
	b, idx, err := DetectOutliers(onFences)
	require.NoError(t, err)
	assert.Equal(t, 100.0, b.Q1)
	assert.Equal(t, 300.0, b.Q3)
	assert.Empty(t, idx, "values on the fences are not outliers")

	beyond := []float64{-250, 100, 100, 200, 300, 300, 700}
	b, idx, err = DetectOutliers(beyond)
	require.NoError(t, err)
	assert.Equal(t, -200.0, b.Lower)
	assert.Equal(t, 600.0, b.Upper)
	assert.Equal(t, []int{0, 6}, idx)
}

func TestDetectOutliersReproducible(t *testing.T) {
	sample := []float64{12.5, 3.1, 7.7, 99.9, 5.5, 6.0, 4.2, 8.8}
	b1, idx1, err := DetectOutliers(sample)
	require.NoError(t, err)
	b2, idx2, err := DetectOutliers(sample)
	require.NoError(t, err)

	assert.Equal(t, b1, b2)
	assert.Equal(t, idx1, idx2)
	assert.Equal(t, []int{3}, idx1)
}

func TestDetectOutliersEmpty(t *testing.T) {
	_, idx, err := DetectOutliers(nil)
	assert.ErrorIs(t, err, ErrEmptySample)
	assert.Nil(t, idx)
}
