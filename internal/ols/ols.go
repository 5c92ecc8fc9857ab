// Package ols maintains the sufficient statistics for an ordinary
// least-squares fit over a stream of observations: the Gram matrix A = Σxxᵀ,
// the cross-product vector z = Σxy, the response sum of squares, and the
// observation count. Coefficients are recomputable at any point from that
// state alone, so the stream never needs to be replayed.
package ols

import (
	"errors"
	"math"

	"gonum.org/v1/gonum/mat"
)

var (
	// ErrInsufficientData reports a fit statistic requested with no more
	// observations than predictors.
	ErrInsufficientData = errors.New("ols: need more observations than predictors")
	// ErrZeroVariance reports a response with no sample variance, for which
	// R-squared is undefined.
	ErrZeroVariance = errors.New("ols: response has zero variance")
)

// Accumulator collects observations of dimension dim. Updates only ever add;
// there is no way to retract an observation within a run.
type Accumulator struct {
	dim     int
	gram    *mat.SymDense
	cross   *mat.VecDense
	sumSqrs float64
	n       int
}

// New returns an empty accumulator for design vectors of length dim.
func New(dim int) *Accumulator {
	return &Accumulator{
		dim:   dim,
		gram:  mat.NewSymDense(dim, nil),
		cross: mat.NewVecDense(dim, nil),
	}
}

// Accumulate folds one observation into the state. x must have length dim.
func (a *Accumulator) Accumulate(x []float64, y float64) {
	v := mat.NewVecDense(a.dim, x)
	a.gram.SymRankOne(a.gram, 1, v)
	a.cross.AddScaledVec(a.cross, y, v)
	a.sumSqrs += y * y
	a.n++
}

// N returns the number of accumulated observations.
func (a *Accumulator) N() int { return a.n }

// Dim returns the design-vector length.
func (a *Accumulator) Dim() int { return a.dim }

// YBar returns the response mean, relying on the design vector carrying a
// leading intercept column so that cross[0] = Σy. Zero when empty.
func (a *Accumulator) YBar() float64 {
	if a.n == 0 {
		return 0
	}
	return a.cross.AtVec(0) / float64(a.n)
}

// Gram returns the current Gram matrix. The caller must not mutate it.
func (a *Accumulator) Gram() mat.Symmetric { return a.gram }

// Estimate solves pinv(A)·z for the current coefficient vector. The
// pseudo-inverse (SVD with small singular values truncated) tolerates the
// singular and ill-conditioned Gram matrices that arise early in a stream;
// with no observations at all it yields the zero vector.
func (a *Accumulator) Estimate() *mat.VecDense {
	b := mat.NewVecDense(a.dim, nil)
	var svd mat.SVD
	if !svd.Factorize(a.gram, mat.SVDFull) {
		return b
	}
	s := svd.Values(nil)
	var u, v mat.Dense
	svd.UTo(&u)
	svd.VTo(&v)

	// Truncation threshold relative to the largest singular value.
	eps := math.Nextafter(1, 2) - 1
	tol := float64(a.dim) * eps * s[0]

	// b = V · diag(1/s) · Uᵀ · z, skipping truncated components.
	w := make([]float64, a.dim)
	for j := 0; j < a.dim; j++ {
		if s[j] <= tol {
			continue
		}
		var dot float64
		for i := 0; i < a.dim; i++ {
			dot += u.At(i, j) * a.cross.AtVec(i)
		}
		w[j] = dot / s[j]
	}
	for i := 0; i < a.dim; i++ {
		var sum float64
		for j := 0; j < a.dim; j++ {
			sum += v.At(i, j) * w[j]
		}
		b.SetVec(i, sum)
	}
	return b
}

// ResidualVariance estimates the error variance for coefficients b:
// (Σy² − bᵀz) / (n − dim). Requires n > dim.
func (a *Accumulator) ResidualVariance(b *mat.VecDense) (float64, error) {
	if a.n <= a.dim {
		return 0, ErrInsufficientData
	}
	return (a.sumSqrs - mat.Dot(b, a.cross)) / float64(a.n-a.dim), nil
}

// AdjustedRSquared computes the coefficient of determination penalized for
// the predictor count: 1 − ((n−1)/(n−dim)) · RSS/TSS, where
// TSS = Σy² − n·ȳ². Requires n > dim and a response with nonzero variance.
func (a *Accumulator) AdjustedRSquared(b *mat.VecDense) (float64, error) {
	if a.n <= a.dim {
		return 0, ErrInsufficientData
	}
	ybar := a.YBar()
	tss := a.sumSqrs - float64(a.n)*ybar*ybar
	if tss == 0 {
		return 0, ErrZeroVariance
	}
	rss := a.sumSqrs - mat.Dot(b, a.cross)
	return 1 - float64(a.n-1)/float64(a.n-a.dim)*rss/tss, nil
}
