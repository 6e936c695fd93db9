// Package log defines standard attribute keys for least-squares fitting.
//
// Using the same keys everywhere keeps the JSON output of the demos and
// of library debug logs filterable. Keys are hierarchical
// ("data.observations", "svd.rank") so related values group together.
package log

// Operation context
const (
	// ModelNameKey identifies the estimator, e.g. "LeastSquares".
	ModelNameKey = "model.name"

	// BasisKey names the basis set being fitted, e.g. "parabola".
	BasisKey = "fit.basis"

	// OperationKey specifies the operation being performed.
	OperationKey = "op"

	// ComponentKey identifies which package is logging.
	ComponentKey = "component"
)

// Data shape
const (
	// ObservationsKey is N, the number of observations (design matrix rows).
	ObservationsKey = "data.observations"

	// ParametersKey is M, the number of fitted parameters (design matrix columns).
	ParametersKey = "data.parameters"
)

// Decomposition
const (
	// RankKey is the numerical rank retained by the pseudo-inverse.
	RankKey = "svd.rank"

	// CondKey is the 2-norm condition number s_max/s_min.
	CondKey = "svd.cond"

	// RcondKey is the relative singular value cut-off.
	RcondKey = "svd.rcond"

	// ReconstructionErrorKey is ||A - U diag(s) V^T||_F.
	ReconstructionErrorKey = "svd.reconstruction_error"
)

// Fit quality
const (
	ChiSquaredKey  = "fit.chisq"
	DoFKey         = "fit.dof"
	ProbabilityKey = "fit.probability"
	ParamsKey      = "fit.params"
)

// Error context
const (
	// ErrorCodeKey provides a structured error code for programmatic handling.
	ErrorCodeKey = "error.code"

	// SuggestionKey provides a hint for resolving the failure.
	SuggestionKey = "error.suggestion"
)

// Standard attribute values.
const (
	OperationFit       = "fit"
	OperationFactorize = "factorize"
	OperationSolve     = "solve"
	OperationEvaluate  = "evaluate"

	ErrorUnderdetermined        = "UNDERDETERMINED"
	ErrorNonPositiveUncertainty = "NON_POSITIVE_UNCERTAINTY"
	ErrorRankDeficient          = "RANK_DEFICIENT"
	ErrorInsufficientDOF        = "INSUFFICIENT_DOF"
)
