package linear

import (
	"gonum.org/v1/gonum/mat"

	"github.com/YuminosukeSato/svdfit/pkg/errors"
)

// SolveNormalEquations は正規方程式 (AᵗA)x = Aᵗb を逆行列で解く
//
// SVDを使わない独立した経路で、SVDによる解の検証に使う。
// 戻り値の2つ目は (AᵗA)⁻¹ で、A と b が 1/σ で重み付けされていればパラメータの共分散行列になる。
// 条件数の悪い A では精度が落ちるため、フィット本体には使わない。
func SolveNormalEquations(a mat.Matrix, b mat.Vector) (*mat.VecDense, *mat.Dense, error) {
	const op = "SolveNormalEquations"

	r, c := a.Dims()
	if r == 0 || c == 0 {
		return nil, nil, errors.NewModelError(op, "empty data", errors.ErrEmptyData)
	}
	if b.Len() != r {
		return nil, nil, errors.NewDimensionError(op, r, b.Len(), 0)
	}
	if r < c {
		return nil, nil, errors.NewUnderdeterminedError(op, r, c)
	}

	// AᵗA
	var ata mat.Dense
	ata.Mul(a.T(), a)

	// 逆行列を計算
	var ataInv mat.Dense
	if err := ataInv.Inverse(&ata); err != nil {
		return nil, nil, errors.NewModelError(op, "singular matrix", errors.ErrSingularMatrix)
	}

	// Aᵗb
	var atb mat.VecDense
	atb.MulVec(a.T(), b)

	// x = (AᵗA)⁻¹ Aᵗb
	x := mat.NewVecDense(c, nil)
	x.MulVec(&ataInv, &atb)

	return x, &ataInv, nil
}
