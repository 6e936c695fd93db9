package linear

import (
	"math"

	"gonum.org/v1/gonum/mat"

	"github.com/YuminosukeSato/svdfit/metrics"
	"github.com/YuminosukeSato/svdfit/pkg/errors"
	"github.com/YuminosukeSato/svdfit/pkg/log"
)

// FitResult はフィット済みモデルを観測点に対して評価した結果
type FitResult struct {
	Basis      Basis
	Params     []float64
	Covariance *mat.SymDense

	// 観測点ごとの値
	Fitted []float64
	Chi    []float64 // (y_i - f(x_i)) / σ_i

	ChiSquared        float64
	DoF               int
	Probability       float64 // P(χ² ≥ ChiSquared; DoF)
	ReducedChiSquared float64 // ChiSquared / DoF

	// 重みなし残差の指標
	MSE  float64
	RMSE float64
	R2   float64
}

// StdErrors はパラメータの標準誤差 sqrt(Cov_jj) を返す
func (r *FitResult) StdErrors() []float64 {
	n := r.Covariance.SymmetricDim()
	se := make([]float64, n)
	for j := range se {
		se[j] = math.Sqrt(r.Covariance.At(j, j))
	}
	return se
}

// Correlation はパラメータ j と k の相関係数 Cov_jk / sqrt(Cov_jj·Cov_kk) を返す
func (r *FitResult) Correlation(j, k int) (float64, error) {
	n := r.Covariance.SymmetricDim()
	if j < 0 || j >= n {
		return 0, errors.NewDimensionError("Correlation", n, j, 0)
	}
	if k < 0 || k >= n {
		return 0, errors.NewDimensionError("Correlation", n, k, 1)
	}
	vj, vk := r.Covariance.At(j, j), r.Covariance.At(k, k)
	if vj <= 0 || vk <= 0 {
		return 0, errors.NewValueError("Correlation", "parameter variance is zero")
	}
	return r.Covariance.At(j, k) / math.Sqrt(vj*vk), nil
}

// Evaluate はフィット済みモデルを obs に対して評価し、χ²、自由度、適合確率などを返す
//
// obs はフィットに使ったものと同じである必要はない。自由度は len(obs) - M。
func (ls *LeastSquares) Evaluate(obs Observations) (*FitResult, error) {
	const op = "LeastSquares.Evaluate"

	if err := ls.RequireFitted(modelName, "Evaluate"); err != nil {
		return nil, err
	}
	if err := obs.Validate(op); err != nil {
		return nil, err
	}

	fitted, err := ls.PredictAll(obs.XS())
	if err != nil {
		return nil, err
	}
	ys := obs.YS()

	chi, err := metrics.Residuals(ys, fitted, obs.Sigmas())
	if err != nil {
		return nil, err
	}
	chisq := metrics.ChiSquared(chi)

	dof, err := metrics.DegreesOfFreedom(len(obs), ls.basis.Len())
	if err != nil {
		ls.logger.Error("evaluation failed", err,
			log.OperationKey, log.OperationEvaluate,
			log.ErrorCodeKey, log.ErrorInsufficientDOF,
			log.SuggestionKey, "add observations or use a basis with fewer terms",
		)
		return nil, err
	}
	prob, err := metrics.FitProbability(chisq, dof)
	if err != nil {
		return nil, err
	}

	res := &FitResult{
		Basis:             ls.basis,
		Fitted:            fitted,
		Chi:               chi,
		ChiSquared:        chisq,
		DoF:               dof,
		Probability:       prob,
		ReducedChiSquared: chisq / float64(dof),
	}
	if res.Params, err = ls.Params(); err != nil {
		return nil, err
	}
	if res.Covariance, err = ls.Covariance(); err != nil {
		return nil, err
	}
	if res.MSE, err = metrics.MSE(ys, fitted); err != nil {
		return nil, err
	}
	if res.RMSE, err = metrics.RMSE(ys, fitted); err != nil {
		return nil, err
	}
	if res.R2, err = metrics.R2Score(ys, fitted); err != nil {
		return nil, err
	}

	ls.logger.Debug("evaluation completed",
		log.OperationKey, log.OperationEvaluate,
		log.ChiSquaredKey, chisq,
		log.DoFKey, dof,
		log.ProbabilityKey, prob,
	)
	return res, nil
}
