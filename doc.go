// Package svdfit provides weighted linear least-squares fitting through the
// singular value decomposition, built on gonum.
//
// A model is a linear combination of basis functions,
//
//	f(x) = Σ_j a_j φ_j(x)
//
// fitted to observations (x_i, y_i ± σ_i). The weighted design matrix
// A_ij = φ_j(x_i)/σ_i is factorized as A = U·diag(s)·Vᵗ, and the same
// factorization yields both the parameters and their covariance matrix.
//
// # Quick Start
//
//	package main
//
//	import (
//	    "fmt"
//	    "log"
//
//	    "github.com/YuminosukeSato/svdfit/linear"
//	)
//
//	func main() {
//	    obs := linear.Observations{
//	        {X: 0.1, Y: 2.0, Sigma: 0.1},
//	        {X: 0.2, Y: 2.5, Sigma: 0.12},
//	        {X: 0.3, Y: 2.8, Sigma: 0.145},
//	    }
//
//	    model := linear.NewLeastSquares(linear.Parabola())
//	    if err := model.Fit(obs); err != nil {
//	        log.Fatal(err)
//	    }
//
//	    res, err := model.Evaluate(obs)
//	    if err != nil {
//	        log.Fatal(err)
//	    }
//	    fmt.Println("params:", res.Params, "chi2:", res.ChiSquared, "P:", res.Probability)
//	}
//
// # Packages
//
//   - decomposition: thin SVD, pseudo-inverse solve, covariance, verification norms
//   - linear: observations, basis sets, design matrix, LeastSquares estimator
//   - metrics: residuals, chi-squared, degrees of freedom, fit probability, MSE/RMSE/R²
//   - plotting: renders a fit with error bars through gonum/plot
//   - core/model: fitted-state bookkeeping for estimators
//   - core/parallel: chunked parallel loops
//   - pkg/errors: error and warning types with stack traces
//   - pkg/log: structured logging setup
//
// # Rank deficiency
//
// Singular values s_i <= rcond·s_max are dropped from the pseudo-inverse.
// By default this raises a RankDeficiencyWarning and returns the
// minimum-norm solution; linear.WithStrictRank(true) turns it into an error.
//
// # Error Handling
//
// Errors carry stack traces from github.com/cockroachdb/errors and can be
// inspected with errors.As:
//
//	var npe *errors.NonPositiveUncertaintyError
//	if errors.As(err, &npe) {
//	    log.Printf("observation %d has sigma %g", npe.Index, npe.Sigma)
//	}
//
// # Examples
//
// Runnable programs live under examples/: svd_demo, llsq_demo and
// error_demo.
package svdfit
