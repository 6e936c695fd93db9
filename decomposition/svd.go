package decomposition

import (
	"math"

	"gonum.org/v1/gonum/mat"

	"github.com/YuminosukeSato/svdfit/pkg/errors"
)

// epsilon is the float64 machine epsilon.
const epsilon = 0x1p-52

// DefaultRcond returns the relative singular value cut-off used when the
// caller passes rcond <= 0: max(rows, cols)·ε.
func DefaultRcond(rows, cols int) float64 {
	return float64(max(rows, cols)) * epsilon
}

// SVD holds the thin singular value decomposition of an N×M matrix.
type SVD struct {
	u    *mat.Dense // N×M
	v    *mat.Dense // M×M
	s    []float64  // M, descending
	rows int
	cols int
}

// Factorize computes the thin SVD of a. a must be non-empty, contain only
// finite values and have at least as many rows as columns.
func Factorize(a mat.Matrix) (f *SVD, err error) {
	defer errors.Recover(&err, "Factorize")

	r, c := a.Dims()
	if r == 0 || c == 0 {
		return nil, errors.NewModelError("Factorize", "empty matrix", errors.ErrEmptyData)
	}
	if r < c {
		return nil, errors.NewUnderdeterminedError("Factorize", r, c)
	}
	if err := errors.CheckMatrix("Factorize", a); err != nil {
		return nil, err
	}

	var svd mat.SVD
	if ok := svd.Factorize(a, mat.SVDThin); !ok {
		return nil, errors.NewModelError("Factorize", "SVD did not converge", errors.ErrFactorization)
	}

	var u, v mat.Dense
	svd.UTo(&u)
	svd.VTo(&v)

	return &SVD{
		u:    &u,
		v:    &v,
		s:    svd.Values(nil),
		rows: r,
		cols: c,
	}, nil
}

// Dims returns the dimensions of the factorized matrix.
func (f *SVD) Dims() (rows, cols int) {
	return f.rows, f.cols
}

// Values returns a copy of the singular values in descending order.
func (f *SVD) Values() []float64 {
	s := make([]float64, len(f.s))
	copy(s, f.s)
	return s
}

// U returns a copy of the N×M left singular vectors.
func (f *SVD) U() *mat.Dense {
	return mat.DenseCopyOf(f.u)
}

// V returns a copy of the M×M right singular vectors.
func (f *SVD) V() *mat.Dense {
	return mat.DenseCopyOf(f.v)
}

// Sigma returns diag(s) as an M×M diagonal matrix.
func (f *SVD) Sigma() *mat.DiagDense {
	return mat.NewDiagDense(len(f.s), f.Values())
}

// Threshold returns the absolute cut-off rcond·s_max below which singular
// values are treated as zero.
func (f *SVD) Threshold(rcond float64) float64 {
	if rcond <= 0 || math.IsNaN(rcond) {
		rcond = DefaultRcond(f.rows, f.cols)
	}
	return rcond * f.s[0]
}

// Rank returns the number of singular values above Threshold(rcond).
func (f *SVD) Rank(rcond float64) int {
	thr := f.Threshold(rcond)
	rank := 0
	for _, s := range f.s {
		if s > thr {
			rank++
		}
	}
	return rank
}

// Cond returns the 2-norm condition number s_max/s_min. It is +Inf for a
// singular matrix.
func (f *SVD) Cond() float64 {
	smin := f.s[len(f.s)-1]
	if smin == 0 {
		return math.Inf(1)
	}
	return f.s[0] / smin
}

// CheckRank returns a RankDeficientError if any singular value falls at or
// below Threshold(rcond).
func (f *SVD) CheckRank(rcond float64) error {
	if rank := f.Rank(rcond); rank < f.cols {
		return errors.NewRankDeficientError("CheckRank", rank, f.cols, f.Threshold(rcond), f.Values())
	}
	return nil
}

// inverseValues returns 1/s_i, with 0 for values at or below the threshold.
func (f *SVD) inverseValues(rcond float64) (inv []float64, rank int) {
	thr := f.Threshold(rcond)
	inv = make([]float64, len(f.s))
	for i, s := range f.s {
		if s > thr {
			inv[i] = 1 / s
			rank++
		}
	}
	return inv, rank
}

// SolveVec returns the least-squares solution x = V·diag(1/s)·Uᵗ·b, which
// minimises ||A·x - b||₂. b must have one entry per row of A.
//
// Truncated singular values contribute nothing to x; when that happens a
// RankDeficiencyWarning is raised through errors.Warn.
func (f *SVD) SolveVec(b mat.Vector, rcond float64) (*mat.VecDense, error) {
	if b.Len() != f.rows {
		return nil, errors.NewDimensionError("SolveVec", f.rows, b.Len(), 0)
	}

	inv, rank := f.inverseValues(rcond)
	if rank < f.cols {
		errors.Warn(errors.NewRankDeficiencyWarning("SolveVec", rank, f.cols, f.Threshold(rcond)))
	}

	// Uᵗb, scaled component-wise by 1/s_i
	var utb mat.VecDense
	utb.MulVec(f.u.T(), b)
	for i, w := range inv {
		utb.SetVec(i, utb.AtVec(i)*w)
	}

	x := mat.NewVecDense(f.cols, nil)
	x.MulVec(f.v, &utb)
	return x, nil
}

// Covariance returns Cov_jk = Σ_i V_ji·V_ki / s_i², the covariance of the
// least-squares parameters when A and b were weighted by 1/σ. Truncated
// singular values contribute nothing, as in SolveVec.
func (f *SVD) Covariance(rcond float64) *mat.SymDense {
	inv, _ := f.inverseValues(rcond)

	cov := mat.NewSymDense(f.cols, nil)
	for j := 0; j < f.cols; j++ {
		for k := j; k < f.cols; k++ {
			var sum float64
			for i, w := range inv {
				sum += f.v.At(j, i) * f.v.At(k, i) * w * w
			}
			cov.SetSym(j, k, sum)
		}
	}
	return cov
}

// Reconstruct returns U·diag(s)·Vᵗ.
func (f *SVD) Reconstruct() *mat.Dense {
	var b mat.Dense
	b.Product(f.u, f.Sigma(), f.v.T())
	return &b
}

// ReconstructionError returns the Frobenius norm of a − U·diag(s)·Vᵗ.
func ReconstructionError(a mat.Matrix, f *SVD) (float64, error) {
	r, c := a.Dims()
	if r != f.rows {
		return 0, errors.NewDimensionError("ReconstructionError", f.rows, r, 0)
	}
	if c != f.cols {
		return 0, errors.NewDimensionError("ReconstructionError", f.cols, c, 1)
	}

	var diff mat.Dense
	diff.Sub(a, f.Reconstruct())
	return mat.Norm(&diff, 2), nil
}

// OrthogonalityError returns the Frobenius norms of UᵗU − I and VᵗV − I.
func (f *SVD) OrthogonalityError() (u, v float64) {
	return gramError(f.u), gramError(f.v)
}

// gramError returns ||qᵗq − I||_F for a matrix with orthonormal columns.
func gramError(q *mat.Dense) float64 {
	_, c := q.Dims()

	var g mat.Dense
	g.Mul(q.T(), q)
	for i := 0; i < c; i++ {
		g.Set(i, i, g.At(i, i)-1)
	}
	return mat.Norm(&g, 2)
}
