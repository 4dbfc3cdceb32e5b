package regression

import (
	"math"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/mat"
	"gonum.org/v1/gonum/stat"

	apperrors "github.com/kdduha/regression-plot/internal/errors"
)

// rankTolerance is the singular value cutoff, relative to the largest one,
// below which a direction of the centred X is treated as collinear.
const rankTolerance = 1e-10

// FitResult is an ordinary-least-squares fit of y on X with an intercept.
type FitResult struct {
	Coefficients []float64
	Intercept    float64
	Predictions  []float64
	// RSquared is NaN when y has no variance.
	RSquared float64
	// Rank is the effective rank of the centred feature matrix.
	Rank int
}

// Predict evaluates the fitted model at one sample.
func (f *FitResult) Predict(row []float64) float64 {
	return floats.Dot(f.Coefficients, row) + f.Intercept
}

// Fit solves the least-squares problem on mean-centred data through a thin SVD.
// When the centred X is rank deficient the minimum-norm coefficient vector is
// returned instead of an error; when it has rank zero (a single sample or
// constant features) all coefficients are zero and the intercept is mean(y).
//
// X and y are each divided by their largest magnitude before centring so that
// finite inputs near the float64 limit do not overflow. Inputs whose spread
// itself overflows are rejected with a type error.
func Fit(x [][]float64, y []float64) (*FitResult, error) {
	n := len(x)
	if n == 0 || len(y) != n || len(x[0]) == 0 {
		return nil, apperrors.NewInternalError("fit requires a non-empty rectangular X and matching y", nil)
	}
	k := len(x[0])

	if err := checkSpread(x, y); err != nil {
		return nil, err
	}
	xScale := scaleOf(x...)
	yScale := scaleOf(y)

	xs := mat.NewDense(n, k, nil)
	for i, row := range x {
		for j, v := range row {
			xs.Set(i, j, v/xScale)
		}
	}
	ys := make([]float64, n)
	for i, v := range y {
		ys[i] = v / yScale
	}

	means := make([]float64, k)
	for j := range means {
		means[j] = stat.Mean(mat.Col(nil, j, xs), nil)
	}
	yMean := stat.Mean(ys, nil)

	xc := mat.NewDense(n, k, nil)
	yc := mat.NewVecDense(n, nil)
	for i := 0; i < n; i++ {
		for j := 0; j < k; j++ {
			xc.Set(i, j, xs.At(i, j)-means[j])
		}
		yc.SetVec(i, ys[i]-yMean)
	}

	var svd mat.SVD
	if ok := svd.Factorize(xc, mat.SVDThin); !ok {
		return nil, apperrors.NewInternalError("failed to factorize feature matrix", nil)
	}
	rank := svd.Rank(rankTolerance)

	beta := make([]float64, k)
	if rank > 0 {
		var sol mat.VecDense
		svd.SolveVecTo(&sol, yc, rank)
		for j := range beta {
			beta[j] = sol.AtVec(j)
		}
	}

	res := &FitResult{
		Coefficients: make([]float64, k),
		Intercept:    yScale * (yMean - floats.Dot(means, beta)),
		Predictions:  make([]float64, n),
		Rank:         rank,
	}
	for j, b := range beta {
		res.Coefficients[j] = b * (yScale / xScale)
	}

	scaled := make([]float64, n)
	for i := range scaled {
		scaled[i] = yMean + floats.Dot(beta, mat.Row(nil, i, xc))
		res.Predictions[i] = yScale * scaled[i]
	}
	if !allFinite(res.Coefficients) || !allFinite(res.Predictions) || !allFinite([]float64{res.Intercept}) {
		return nil, apperrors.NewTypeError("values are too large to fit")
	}

	res.RSquared = stat.RSquaredFrom(scaled, ys, nil)
	if math.IsInf(res.RSquared, 0) {
		res.RSquared = math.NaN()
	}
	return res, nil
}

// scaleOf returns the largest magnitude across rows, or 1 when all are zero.
func scaleOf(rows ...[]float64) float64 {
	var m float64
	for _, row := range rows {
		for _, v := range row {
			m = math.Max(m, math.Abs(v))
		}
	}
	if m == 0 {
		return 1
	}
	return m
}

// checkSpread rejects columns of X or y whose max minus min is not a finite float64.
func checkSpread(x [][]float64, y []float64) error {
	col := make([]float64, len(x))
	for j := range x[0] {
		for i, row := range x {
			col[i] = row[j]
		}
		if math.IsInf(floats.Max(col)-floats.Min(col), 0) {
			return apperrors.NewTypeError("values are too large to fit: X column %d spans more than the float64 range", j)
		}
	}
	if math.IsInf(floats.Max(y)-floats.Min(y), 0) {
		return apperrors.NewTypeError("values are too large to fit: y spans more than the float64 range")
	}
	return nil
}

func allFinite(values []float64) bool {
	for _, v := range values {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return false
		}
	}
	return true
}
