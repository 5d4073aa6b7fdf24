package centerline

import (
	"errors"
	"math"

	"gonum.org/v1/gonum/interp"
	"gonum.org/v1/gonum/mat"

	"github.com/ironsheep/lineart-vectorizer/internal/geom"
)

const (
	minLogLambda     = -6.0
	maxLogLambda     = 8.0
	lambdaBisections = 50
)

var errNotPositiveDefinite = errors.New("smoothing system is not positive definite")

// Smooth fits a penalized smoothing spline through the distinct points of p,
// parameterized by normalized chord length, and resamples it at len(p)
// evenly spaced parameters. The penalty is the largest one that keeps the
// sum of squared residuals within smoothing times the number of distinct
// points.
//
// Paths with fewer than 4 distinct points, a non-positive smoothing, or a
// fit that fails numerically are returned unchanged.
func Smooth(p geom.Path, smoothing float64) geom.Path {
	if smoothing <= 0 || len(p) < 4 {
		return p
	}
	unique := p.DedupConsecutive()
	if len(unique) < 4 {
		return p
	}

	n := len(unique)
	t := make([]float64, n)
	xs := make([]float64, n)
	ys := make([]float64, n)
	for i, pt := range unique {
		xs[i], ys[i] = pt.X, pt.Y
		if i > 0 {
			t[i] = t[i-1] + pt.Dist(unique[i-1])
		}
	}
	total := t[n-1]
	for i := range t {
		t[i] /= total
	}

	fx, fy, err := penalizedFit(xs, ys, smoothing*float64(n))
	if err != nil {
		return p
	}

	var cx, cy interp.NaturalCubic
	if err := cx.Fit(t, fx); err != nil {
		return p
	}
	if err := cy.Fit(t, fy); err != nil {
		return p
	}

	out := make(geom.Path, len(p))
	last := float64(len(p) - 1)
	for i := range out {
		u := float64(i) / last
		out[i] = geom.Point{X: cx.Predict(u), Y: cy.Predict(u)}
		if math.IsNaN(out[i].X) || math.IsNaN(out[i].Y) {
			return p
		}
	}
	return out
}

// penalizedFit returns the Whittaker smooth of (xs, ys) with a second
// difference penalty, choosing the penalty weight by bisection in log space
// so that the residual sum of squares stays within budget.
func penalizedFit(xs, ys []float64, budget float64) ([]float64, []float64, error) {
	fit := func(logLambda float64) ([]float64, []float64, float64, error) {
		a := penaltySystem(len(xs), math.Pow(10, logLambda))
		var chol mat.BandCholesky
		if ok := chol.Factorize(a); !ok {
			return nil, nil, 0, errNotPositiveDefinite
		}
		fx, err := solve(&chol, xs)
		if err != nil {
			return nil, nil, 0, err
		}
		fy, err := solve(&chol, ys)
		if err != nil {
			return nil, nil, 0, err
		}
		rss := 0.0
		for i := range xs {
			rss += (fx[i]-xs[i])*(fx[i]-xs[i]) + (fy[i]-ys[i])*(fy[i]-ys[i])
		}
		return fx, fy, rss, nil
	}

	fx, fy, rss, err := fit(maxLogLambda)
	if err != nil {
		return nil, nil, err
	}
	if rss <= budget {
		return fx, fy, nil
	}

	bestX, bestY, _, err := fit(minLogLambda)
	if err != nil {
		return nil, nil, err
	}
	lo, hi := minLogLambda, maxLogLambda
	for i := 0; i < lambdaBisections; i++ {
		mid := (lo + hi) / 2
		fx, fy, rss, err := fit(mid)
		if err != nil {
			return nil, nil, err
		}
		if rss <= budget {
			lo = mid
			bestX, bestY = fx, fy
		} else {
			hi = mid
		}
	}
	return bestX, bestY, nil
}

// penaltySystem builds I + lambda*DᵀD, where D is the (n-2)xn second
// difference operator, as a symmetric band matrix with two superdiagonals.
func penaltySystem(n int, lambda float64) *mat.SymBandDense {
	const k = 2
	data := make([]float64, n*(k+1))
	for i := 0; i < n; i++ {
		data[i*(k+1)] = 1
	}
	coef := [3]float64{1, -2, 1}
	for r := 0; r+2 < n; r++ {
		for a := 0; a < 3; a++ {
			for b := a; b < 3; b++ {
				data[(r+a)*(k+1)+(b-a)] += lambda * coef[a] * coef[b]
			}
		}
	}
	return mat.NewSymBandDense(n, k, data)
}

func solve(chol *mat.BandCholesky, b []float64) ([]float64, error) {
	x := mat.NewVecDense(len(b), nil)
	if err := chol.SolveVecTo(x, mat.NewVecDense(len(b), b)); err != nil {
		return nil, err
	}
	return x.RawVector().Data, nil
}
