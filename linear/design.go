package linear

import (
	"gonum.org/v1/gonum/mat"

	"github.com/YuminosukeSato/svdfit/core/parallel"
	"github.com/YuminosukeSato/svdfit/pkg/errors"
)

// parallelThreshold はこの行数以下なら逐次処理する
const parallelThreshold = 1000

// DesignMatrix は重み付き設計行列 A と応答ベクトル b を作る
//
//	A_ij = φ_j(x_i) / σ_i
//	b_i  = y_i / σ_i
//
// 観測点が空、σが正でない、または N < M の場合はエラーを返す。
func DesignMatrix(obs Observations, basis Basis) (*mat.Dense, *mat.VecDense, error) {
	const op = "DesignMatrix"

	if basis.Len() == 0 {
		return nil, nil, errors.NewModelError(op, "empty basis", errors.ErrEmptyData)
	}
	if err := obs.Validate(op); err != nil {
		return nil, nil, err
	}
	n, m := len(obs), basis.Len()
	if n < m {
		return nil, nil, errors.NewUnderdeterminedError(op, n, m)
	}

	a := mat.NewDense(n, m, nil)
	b := mat.NewVecDense(n, nil)

	// 各ワーカーは自分の行だけに書き込む
	parallel.ParallelizeWithThreshold(n, parallelThreshold, func(start, end int) {
		row := make([]float64, m)
		for i := start; i < end; i++ {
			p := obs[i]
			row = basis.Row(row, p.X)
			for j := range row {
				row[j] /= p.Sigma
			}
			a.SetRow(i, row)
			b.SetVec(i, p.Y/p.Sigma)
		}
	})

	return a, b, nil
}
