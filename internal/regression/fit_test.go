package regression

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	apperrors "github.com/kdduha/regression-plot/internal/errors"
)

const tolerance = 1e-9

// closedForm is the textbook single-feature OLS solution.
func closedForm(x, y []float64) (slope, intercept float64) {
	var mx, my float64
	for i := range x {
		mx += x[i]
		my += y[i]
	}
	mx /= float64(len(x))
	my /= float64(len(y))

	var sxy, sxx float64
	for i := range x {
		sxy += (x[i] - mx) * (y[i] - my)
		sxx += (x[i] - mx) * (x[i] - mx)
	}
	slope = sxy / sxx
	return slope, my - slope*mx
}

func TestFit_SingleFeature(t *testing.T) {
	x := [][]float64{{1}, {2}, {3}, {4}, {5}}
	y := []float64{2, 3.9, 6.1, 8, 9.8}

	res, err := Fit(x, y)
	require.NoError(t, err)

	slope, intercept := closedForm([]float64{1, 2, 3, 4, 5}, y)
	require.Len(t, res.Coefficients, 1)
	assert.InDelta(t, slope, res.Coefficients[0], tolerance)
	assert.InDelta(t, intercept, res.Intercept, tolerance)
	assert.InDelta(t, 1.97, res.Coefficients[0], 1e-3)
	assert.InDelta(t, 0.05, res.Intercept, 1e-3)
	assert.Equal(t, 1, res.Rank)

	require.Len(t, res.Predictions, len(y))
	for i, row := range x {
		assert.InDelta(t, res.Coefficients[0]*row[0]+res.Intercept, res.Predictions[i], tolerance)
	}
	assert.Greater(t, res.RSquared, 0.99)
}

func TestFit_MultipleFeatures(t *testing.T) {
	// y = 1*x1 + 2*x2 + 3
	x := [][]float64{{1, 1}, {2, 1}, {1, 2}, {2, 2}, {3, 5}}
	y := make([]float64, len(x))
	for i, row := range x {
		y[i] = row[0] + 2*row[1] + 3
	}

	res, err := Fit(x, y)
	require.NoError(t, err)

	assert.InDeltaSlice(t, []float64{1, 2}, res.Coefficients, 1e-9)
	assert.InDelta(t, 3, res.Intercept, 1e-9)
	assert.InDeltaSlice(t, y, res.Predictions, 1e-9)
	assert.InDelta(t, 1, res.RSquared, 1e-12)
	assert.Equal(t, 2, res.Rank)
}

func TestFit_RankDeficientReturnsMinimumNorm(t *testing.T) {
	// second column duplicates the first scaled by 2, y = x1
	x := [][]float64{{1, 2}, {2, 4}, {3, 6}, {4, 8}}
	y := []float64{1, 2, 3, 4}

	res, err := Fit(x, y)
	require.NoError(t, err)

	// every b1 + 2*b2 = 1 fits exactly; the smallest such vector is (0.2, 0.4)
	assert.Equal(t, 1, res.Rank)
	assert.InDeltaSlice(t, []float64{0.2, 0.4}, res.Coefficients, 1e-9)
	assert.InDelta(t, 0, res.Intercept, 1e-9)
	assert.InDeltaSlice(t, y, res.Predictions, 1e-9)
}

func TestFit_MoreFeaturesThanSamples(t *testing.T) {
	x := [][]float64{{1, 0, 3}, {0, 1, 1}}
	y := []float64{5, 7}

	res, err := Fit(x, y)
	require.NoError(t, err)
	assert.Len(t, res.Coefficients, 3)
	assert.InDeltaSlice(t, y, res.Predictions, 1e-9)
}

func TestFit_DegenerateInputs(t *testing.T) {
	t.Run("single sample", func(t *testing.T) {
		res, err := Fit([][]float64{{4}}, []float64{10})
		require.NoError(t, err)
		assert.Equal(t, 0, res.Rank)
		assert.Equal(t, []float64{0}, res.Coefficients)
		assert.Equal(t, 10.0, res.Intercept)
		assert.Equal(t, []float64{10}, res.Predictions)
	})

	t.Run("constant feature", func(t *testing.T) {
		res, err := Fit([][]float64{{2}, {2}, {2}}, []float64{1, 2, 3})
		require.NoError(t, err)
		assert.Equal(t, []float64{0}, res.Coefficients)
		assert.InDelta(t, 2, res.Intercept, tolerance)
	})

	t.Run("constant target", func(t *testing.T) {
		res, err := Fit([][]float64{{1}, {2}, {3}}, []float64{5, 5, 5})
		require.NoError(t, err)
		assert.InDelta(t, 0, res.Coefficients[0], tolerance)
		assert.InDelta(t, 5, res.Intercept, tolerance)
		assert.True(t, math.IsNaN(res.RSquared))
	})

	t.Run("empty", func(t *testing.T) {
		_, err := Fit(nil, nil)
		require.Error(t, err)
	})
}

func TestFit_ExtremeMagnitudes(t *testing.T) {
	t.Run("near the float64 limit", func(t *testing.T) {
		res, err := Fit([][]float64{{1e308}, {1.5e308}}, []float64{1, 2})
		require.NoError(t, err)
		assert.Equal(t, 1, res.Rank)
		assert.InDelta(t, 2e-308, res.Coefficients[0], 1e-320)
		assert.InDelta(t, -1, res.Intercept, tolerance)
		assert.InDeltaSlice(t, []float64{1, 2}, res.Predictions, tolerance)
		assert.InDelta(t, 1, res.RSquared, tolerance)
	})

	t.Run("large target", func(t *testing.T) {
		res, err := Fit([][]float64{{1}, {2}, {3}}, []float64{1e200, 2e200, 3e200})
		require.NoError(t, err)
		assert.InEpsilon(t, 1e200, res.Coefficients[0], 1e-9)
		assert.InDelta(t, 1, res.RSquared, tolerance)
		assert.InEpsilonSlice(t, []float64{1e200, 2e200, 3e200}, res.Predictions, 1e-9)
	})

	t.Run("spread overflows", func(t *testing.T) {
		_, err := Fit([][]float64{{-1e308}, {1e308}}, []float64{1, 2})
		require.Error(t, err)
		assert.True(t, apperrors.IsKind(err, apperrors.KindType))
		assert.Contains(t, err.Error(), "X column 0")

		_, err = Fit([][]float64{{1}, {2}}, []float64{-1e308, 1e308})
		require.Error(t, err)
		assert.True(t, apperrors.IsKind(err, apperrors.KindType))
	})
}

func TestFit_Deterministic(t *testing.T) {
	x := [][]float64{{0.3, 1.2}, {1.7, 0.4}, {2.2, 2.9}, {3.1, 0.8}, {4.6, 3.3}}
	y := []float64{1.1, 2.4, 5.9, 3.8, 8.7}

	first, err := Fit(x, y)
	require.NoError(t, err)
	second, err := Fit(x, y)
	require.NoError(t, err)

	assert.Equal(t, first, second)
}
