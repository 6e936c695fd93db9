package metrics

import (
	"math"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/stat/distuv"

	"github.com/YuminosukeSato/svdfit/pkg/errors"
)

// Residuals は正規化残差 chi_i = (y_i - f_i) / σ_i を計算する
func Residuals(y, fitted, sigma []float64) ([]float64, error) {
	n := len(y)
	if n == 0 {
		return nil, errors.NewValueError("Residuals", "empty vector")
	}
	if len(fitted) != n {
		return nil, errors.NewDimensionError("Residuals", n, len(fitted), 0)
	}
	if len(sigma) != n {
		return nil, errors.NewDimensionError("Residuals", n, len(sigma), 0)
	}
	for i, s := range sigma {
		if !(s > 0) || math.IsInf(s, 0) {
			return nil, errors.NewNonPositiveUncertaintyError("Residuals", i, s)
		}
	}

	chi := make([]float64, n)
	floats.SubTo(chi, y, fitted)
	floats.Div(chi, sigma)
	return chi, nil
}

// ChiSquared は χ² = Σ chi_i² を返す
func ChiSquared(chi []float64) float64 {
	return floats.Dot(chi, chi)
}

// DegreesOfFreedom は自由度 N - M を返す。0以下ならInsufficientDOFError
func DegreesOfFreedom(observations, parameters int) (int, error) {
	dof := observations - parameters
	if dof <= 0 {
		return 0, errors.NewInsufficientDOFError(observations, parameters)
	}
	return dof, nil
}

// FitProbability は自由度 dof の χ² 分布で χ² 以上の値が得られる確率 Q(dof/2, chisq/2) を返す
//
// 上側の正則化不完全ガンマ関数で評価するため、chisq = 0 で 1、chisq が増えると単調に減少する。
// 小さいほどモデルが観測と合っていないことを示す。
func FitProbability(chisq float64, dof int) (float64, error) {
	if dof <= 0 {
		return 0, errors.NewInsufficientDOFError(dof, 0)
	}
	if math.IsNaN(chisq) || chisq < 0 {
		return 0, errors.NewValueError("FitProbability", "chi-squared must be non-negative")
	}
	if math.IsInf(chisq, 1) {
		return 0, nil
	}

	dist := distuv.ChiSquared{K: float64(dof)}
	p := dist.Survival(chisq)

	// 丸め誤差で区間外に出ないようにする
	return math.Min(1, math.Max(0, p)), nil
}
