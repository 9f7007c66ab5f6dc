package analysis

import (
	"errors"
	"math"

	"gonum.org/v1/gonum/mat"
)

// errDegenerateFit is returned when the regression system cannot be solved,
// e.g. all singular values collapse to zero.
var errDegenerateFit = errors.New("degenerate regression system")

// fitResult holds one ordinary least squares fit on the aligned sample.
type fitResult struct {
	coefficients []float64 // one per component column, in column order
	intercept    float64
	rSquared     float64 // coefficient of determination on the fitted sample
	condition    float64 // design-matrix condition number
}

// rankTolerance scales the largest singular value to decide which singular
// values count toward the effective rank.
const rankTolerance = 1e-12

// fitOLS solves y ≈ intercept + Σ coeff_i · columns_i by least squares using
// an SVD of the design matrix. Near-collinear columns yield the minimal-norm
// solution and a large condition number rather than a hard failure; callers
// flag such fits as unstable instead of discarding them.
func fitOLS(y []float64, columns [][]float64) (*fitResult, error) {
	rows := len(y)
	cols := len(columns) + 1 // intercept column plus one per component
	if rows < cols {
		return nil, errDegenerateFit
	}

	design := mat.NewDense(rows, cols, nil)
	for i := 0; i < rows; i++ {
		design.Set(i, 0, 1)
		for j, col := range columns {
			design.Set(i, j+1, col[i])
		}
	}

	var svd mat.SVD
	if ok := svd.Factorize(design, mat.SVDThin); !ok {
		return nil, errDegenerateFit
	}
	values := svd.Values(nil)
	if values[0] == 0 {
		return nil, errDegenerateFit
	}

	rank := 0
	for _, v := range values {
		if v > values[0]*rankTolerance {
			rank++
		}
	}
	if rank == 0 {
		return nil, errDegenerateFit
	}

	condition := math.Inf(1)
	if smallest := values[len(values)-1]; smallest > 0 {
		condition = values[0] / smallest
	}

	rhs := mat.NewVecDense(rows, nil)
	for i, v := range y {
		rhs.SetVec(i, v)
	}

	var beta mat.VecDense
	svd.SolveVecTo(&beta, rhs, rank)

	coeffs := make([]float64, len(columns))
	for j := range columns {
		coeffs[j] = beta.AtVec(j + 1)
	}

	return &fitResult{
		coefficients: coeffs,
		intercept:    beta.AtVec(0),
		rSquared:     rSquared(y, design, &beta),
		condition:    condition,
	}, nil
}

// rSquared computes the coefficient of determination of the fit on the
// sample it was fitted to. A constant target explained exactly scores 1;
// a constant target with residual error scores 0.
func rSquared(y []float64, design *mat.Dense, beta *mat.VecDense) float64 {
	rows := len(y)

	mean := 0.0
	for _, v := range y {
		mean += v
	}
	mean /= float64(rows)

	var predicted mat.VecDense
	predicted.MulVec(design, beta)

	ssRes := 0.0
	ssTot := 0.0
	for i, v := range y {
		res := v - predicted.AtVec(i)
		ssRes += res * res
		dev := v - mean
		ssTot += dev * dev
	}

	if ssTot == 0 {
		if ssRes < 1e-12 {
			return 1
		}
		return 0
	}

	r2 := 1 - ssRes/ssTot
	if r2 < 0 {
		return 0
	}
	if r2 > 1 {
		return 1
	}
	return r2
}
