package linear

import (
	"math"

	"gonum.org/v1/gonum/mat"

	"github.com/YuminosukeSato/svdfit/core/model"
	"github.com/YuminosukeSato/svdfit/decomposition"
	"github.com/YuminosukeSato/svdfit/pkg/errors"
	"github.com/YuminosukeSato/svdfit/pkg/log"
)

const modelName = "LeastSquares"

// LeastSquares は基底関数の線形結合 f(x) = Σ_j a_j φ_j(x) を
// 重み付き最小二乗でフィットする推定器
//
// Fit は設計行列を作り、SVDで分解し、解と共分散行列を同じ分解から求める。
type LeastSquares struct {
	model.BaseEstimator

	basis      Basis
	rcond      float64
	strictRank bool
	logger     log.Logger

	// フィット結果
	svd    *decomposition.SVD
	params *mat.VecDense
	cov    *mat.SymDense
	nObs   int
}

// NewLeastSquares は指定した基底で新しい推定器を作成する
//
// 使用例:
//
//	ls := linear.NewLeastSquares(linear.Parabola())
//	if err := ls.Fit(obs); err != nil {
//	    return err
//	}
//	res, err := ls.Evaluate(obs)
func NewLeastSquares(basis Basis, opts ...Option) *LeastSquares {
	ls := &LeastSquares{basis: basis}
	for _, opt := range opts {
		opt(ls)
	}
	if ls.logger == nil {
		ls.logger = log.GetLogger()
	}
	ls.logger = ls.logger.With(log.ModelNameKey, modelName, log.BasisKey, basis.Name())
	return ls
}

// Basis はフィットする基底集合を返す
func (ls *LeastSquares) Basis() Basis {
	return ls.basis
}

// Fit は観測点に対してモデルをフィットする
func (ls *LeastSquares) Fit(obs Observations) error {
	ls.Reset()

	if math.IsNaN(ls.rcond) || math.IsInf(ls.rcond, 0) {
		return errors.NewValidationError("rcond", "must be finite", ls.rcond)
	}

	a, b, err := DesignMatrix(obs, ls.basis)
	if err != nil {
		return err
	}

	svd, err := decomposition.Factorize(a)
	if err != nil {
		return errors.Wrap(err, "LeastSquares.Fit")
	}

	rank := svd.Rank(ls.rcond)
	if ls.strictRank {
		if err := svd.CheckRank(ls.rcond); err != nil {
			ls.logger.Error("fit rejected", err,
				log.OperationKey, log.OperationFit,
				log.ErrorCodeKey, log.ErrorRankDeficient,
				log.RankKey, rank,
			)
			return err
		}
	}

	params, err := svd.SolveVec(b, ls.rcond)
	if err != nil {
		return errors.Wrap(err, "LeastSquares.Fit")
	}
	cov := svd.Covariance(ls.rcond)

	if err := errors.CheckNumericalStability("LeastSquares.Fit", params.RawVector().Data); err != nil {
		return err
	}
	if err := errors.CheckMatrix("LeastSquares.Fit", cov); err != nil {
		return err
	}

	ls.svd = svd
	ls.params = params
	ls.cov = cov
	ls.nObs = len(obs)
	ls.SetFitted()

	ls.logger.Debug("fit completed",
		log.OperationKey, log.OperationFit,
		log.ObservationsKey, len(obs),
		log.ParametersKey, ls.basis.Len(),
		log.RankKey, rank,
		log.CondKey, svd.Cond(),
		log.ParamsKey, ls.paramSlice(),
	)
	return nil
}

func (ls *LeastSquares) paramSlice() []float64 {
	p := make([]float64, ls.params.Len())
	for i := range p {
		p[i] = ls.params.AtVec(i)
	}
	return p
}

// Params はフィットされたパラメータ a_0..a_{M-1} を返す
func (ls *LeastSquares) Params() ([]float64, error) {
	if err := ls.RequireFitted(modelName, "Params"); err != nil {
		return nil, err
	}
	return ls.paramSlice(), nil
}

// Covariance はパラメータの共分散行列のコピーを返す
func (ls *LeastSquares) Covariance() (*mat.SymDense, error) {
	if err := ls.RequireFitted(modelName, "Covariance"); err != nil {
		return nil, err
	}
	n := ls.cov.SymmetricDim()
	cov := mat.NewSymDense(n, nil)
	cov.CopySym(ls.cov)
	return cov, nil
}

// SVD はフィットに使った設計行列の分解を返す
func (ls *LeastSquares) SVD() (*decomposition.SVD, error) {
	if err := ls.RequireFitted(modelName, "SVD"); err != nil {
		return nil, err
	}
	return ls.svd, nil
}

// Predict は x におけるモデル値 f(x) を返す
func (ls *LeastSquares) Predict(x float64) (float64, error) {
	if err := ls.RequireFitted(modelName, "Predict"); err != nil {
		return 0, err
	}
	return ls.basis.Eval(ls.params.RawVector().Data, x), nil
}

// PredictAll は各 x におけるモデル値を返す
func (ls *LeastSquares) PredictAll(xs []float64) ([]float64, error) {
	if err := ls.RequireFitted(modelName, "PredictAll"); err != nil {
		return nil, err
	}
	params := ls.params.RawVector().Data
	out := make([]float64, len(xs))
	for i, x := range xs {
		out[i] = ls.basis.Eval(params, x)
	}
	return out, nil
}
