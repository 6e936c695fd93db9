// Package decomposition wraps gonum's thin singular value decomposition
// for least-squares work.
//
// For an N×M matrix A with N >= M, Factorize computes
//
//	A = U · diag(s) · Vᵗ
//
// with U N×M column-orthogonal, s the M singular values in descending
// order and V M×M orthogonal. The factors are kept so that both the
// least-squares solution
//
//	x = V · diag(1/s_i) · Uᵗ · b
//
// and the parameter covariance
//
//	Cov_jk = Σ_i V_ji V_ki / s_i²
//
// can be formed from the same decomposition.
//
// Singular values with s_i <= rcond·s_max are treated as zero: their
// reciprocal is replaced by 0, which yields the minimum-norm
// pseudo-inverse solution. A non-positive rcond selects DefaultRcond.
// Callers that would rather reject such systems use CheckRank.
package decomposition
