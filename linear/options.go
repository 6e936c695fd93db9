package linear

import "github.com/YuminosukeSato/svdfit/pkg/log"

// Option is a function that configures LeastSquares
type Option func(*LeastSquares)

// WithRcond sets the relative singular value cut-off. Values s_i <=
// rcond·s_max are treated as zero. Zero or negative selects
// decomposition.DefaultRcond.
func WithRcond(rcond float64) Option {
	return func(ls *LeastSquares) {
		ls.rcond = rcond
	}
}

// WithStrictRank makes Fit fail with a RankDeficientError instead of
// truncating small singular values.
func WithStrictRank(strict bool) Option {
	return func(ls *LeastSquares) {
		ls.strictRank = strict
	}
}

// WithLogger sets the logger used for fit diagnostics
func WithLogger(logger log.Logger) Option {
	return func(ls *LeastSquares) {
		ls.logger = logger
	}
}
