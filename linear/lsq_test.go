package linear

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gonum.org/v1/gonum/mat"

	"github.com/YuminosukeSato/svdfit/pkg/errors"
	"github.com/YuminosukeSato/svdfit/pkg/log"
)

func fitThreePoints(t *testing.T, basis Basis, opts ...Option) (*LeastSquares, *FitResult) {
	t.Helper()
	ls := NewLeastSquares(basis, opts...)
	require.NoError(t, ls.Fit(threePoints()))
	res, err := ls.Evaluate(threePoints())
	require.NoError(t, err)
	return ls, res
}

func TestLeastSquaresParabola(t *testing.T) {
	_, res := fitThreePoints(t, Parabola())

	assert.InDeltaSlice(t, []float64{1.9568662392298783, 10.192162842393415}, res.Params, 1e-9)
	assert.InDelta(t, 1.8812117649220148, res.ChiSquared, 1e-9)
	assert.Equal(t, 1, res.DoF)
	assert.InDelta(t, 0.1701964866526897, res.Probability, 1e-9)
	assert.InDelta(t, res.ChiSquared, res.ReducedChiSquared, 1e-12)

	assert.InDelta(t, 0.011265783623904613, res.Covariance.At(0, 0), 1e-9)
	assert.InDelta(t, -0.17928535998383327, res.Covariance.At(0, 1), 1e-9)
	assert.InDelta(t, 4.828027115903954, res.Covariance.At(1, 1), 1e-8)

	assert.InDeltaSlice(t, []float64{0.1061403958156583, 2.197277205066296}, res.StdErrors(), 1e-9)

	corr, err := res.Correlation(0, 1)
	require.NoError(t, err)
	assert.InDelta(t, -0.7687396371698113, corr, 1e-9)

	self, err := res.Correlation(1, 1)
	require.NoError(t, err)
	assert.InDelta(t, 1.0, self, 1e-12)
}

func TestLeastSquaresStraightLine(t *testing.T) {
	_, res := fitThreePoints(t, StraightLine())

	assert.InDeltaSlice(t, []float64{1.6101269393512005, 4.124400564174891}, res.Params, 1e-9)
	assert.InDelta(t, 0.45133991537376617, res.ChiSquared, 1e-9)
	assert.InDelta(t, 0.5016993358181718, res.Probability, 1e-9)
	assert.InDelta(t, 0.027529026798307453, res.Covariance.At(0, 0), 1e-9)
	assert.InDelta(t, -0.13035373765867406, res.Covariance.At(1, 0), 1e-9)
	assert.InDelta(t, 0.7413370944992941, res.Covariance.At(1, 1), 1e-9)

	corr, err := res.Correlation(0, 1)
	require.NoError(t, err)
	assert.InDelta(t, -0.9124733585298209, corr, 1e-9)
}

func TestLeastSquaresResiduals(t *testing.T) {
	ls, res := fitThreePoints(t, Parabola())
	obs := threePoints()

	var chisq float64
	for i, p := range obs {
		f, err := ls.Predict(p.X)
		require.NoError(t, err)
		assert.InDelta(t, f, res.Fitted[i], 1e-12)
		assert.InDelta(t, (p.Y-f)/p.Sigma, res.Chi[i], 1e-12)
		chisq += res.Chi[i] * res.Chi[i]
	}
	assert.InDelta(t, chisq, res.ChiSquared, 1e-12)
	assert.InDelta(t, math.Sqrt(res.MSE), res.RMSE, 1e-12)
	assert.True(t, res.R2 > 0 && res.R2 <= 1)
}

func TestLeastSquaresMatchesNormalEquations(t *testing.T) {
	obs := make(Observations, 25)
	for i := range obs {
		x := float64(i) / 5
		obs[i] = Observation{X: x, Y: 1 - 0.5*x + 0.25*x*x + 0.1*math.Cos(float64(i)), Sigma: 0.1 + 0.01*float64(i)}
	}
	basis := Polynomial(2)

	ls := NewLeastSquares(basis)
	require.NoError(t, ls.Fit(obs))
	params, err := ls.Params()
	require.NoError(t, err)
	cov, err := ls.Covariance()
	require.NoError(t, err)

	a, b, err := DesignMatrix(obs, basis)
	require.NoError(t, err)
	x, inv, err := SolveNormalEquations(a, b)
	require.NoError(t, err)

	for j := range params {
		assert.InDelta(t, x.AtVec(j), params[j], 1e-8)
		for k := range params {
			assert.InDelta(t, inv.At(j, k), cov.At(j, k), 1e-8)
		}
	}

	// 最小二乗の最適性条件 AᵗA x = Aᵗb
	p := mat.NewVecDense(len(params), params)
	var ax, lhs, rhs mat.VecDense
	ax.MulVec(a, p)
	lhs.MulVec(a.T(), &ax)
	rhs.MulVec(a.T(), b)
	for j := 0; j < lhs.Len(); j++ {
		assert.InDelta(t, rhs.AtVec(j), lhs.AtVec(j), 1e-7*math.Max(1, math.Abs(rhs.AtVec(j))))
	}
}

func TestLeastSquaresCovarianceProperties(t *testing.T) {
	ls, _ := fitThreePoints(t, Parabola())
	cov, err := ls.Covariance()
	require.NoError(t, err)

	n := cov.SymmetricDim()
	for j := 0; j < n; j++ {
		assert.GreaterOrEqual(t, cov.At(j, j), 0.0)
		for k := 0; k < n; k++ {
			assert.Equal(t, cov.At(j, k), cov.At(k, j))
		}
	}

	// 返り値を書き換えても推定器には影響しない
	cov.SetSym(0, 0, -1)
	again, err := ls.Covariance()
	require.NoError(t, err)
	assert.InDelta(t, 0.011265783623904613, again.At(0, 0), 1e-9)
}

func TestLeastSquaresSVD(t *testing.T) {
	ls, _ := fitThreePoints(t, Parabola())
	svd, err := ls.SVD()
	require.NoError(t, err)

	r, c := svd.Dims()
	assert.Equal(t, 3, r)
	assert.Equal(t, 2, c)
	assert.Equal(t, 2, svd.Rank(0))
}

func TestLeastSquaresNotFitted(t *testing.T) {
	ls := NewLeastSquares(Parabola())
	var nfe *errors.NotFittedError

	_, err := ls.Predict(0.1)
	assert.True(t, errors.As(err, &nfe))
	_, err = ls.PredictAll([]float64{0.1})
	assert.True(t, errors.As(err, &nfe))
	_, err = ls.Params()
	assert.True(t, errors.As(err, &nfe))
	_, err = ls.Covariance()
	assert.True(t, errors.As(err, &nfe))
	_, err = ls.SVD()
	assert.True(t, errors.As(err, &nfe))
	_, err = ls.Evaluate(threePoints())
	assert.True(t, errors.As(err, &nfe))
}

func TestLeastSquaresFailedFitResetsState(t *testing.T) {
	ls := NewLeastSquares(Parabola())
	require.NoError(t, ls.Fit(threePoints()))
	require.True(t, ls.IsFitted())

	bad := threePoints()
	bad[0].Sigma = 0
	err := ls.Fit(bad)
	var npe *errors.NonPositiveUncertaintyError
	require.True(t, errors.As(err, &npe))
	assert.False(t, ls.IsFitted())
}

func TestLeastSquaresInputErrors(t *testing.T) {
	t.Run("underdetermined", func(t *testing.T) {
		err := NewLeastSquares(Polynomial(3)).Fit(threePoints())
		var ue *errors.UnderdeterminedError
		assert.True(t, errors.As(err, &ue))
	})

	t.Run("invalid rcond", func(t *testing.T) {
		err := NewLeastSquares(Parabola(), WithRcond(math.NaN())).Fit(threePoints())
		var ve *errors.ValidationError
		assert.True(t, errors.As(err, &ve))
	})

	t.Run("no degrees of freedom", func(t *testing.T) {
		obs := threePoints()[:2]
		ls := NewLeastSquares(StraightLine())
		require.NoError(t, ls.Fit(obs))

		_, err := ls.Evaluate(obs)
		var de *errors.InsufficientDOFError
		assert.True(t, errors.As(err, &de))
	})
}

// duplicated は同じ列を2回持つランク1の基底
func duplicated() Basis {
	return NewBasis("duplicated", Constant(), Constant())
}

func TestLeastSquaresStrictRank(t *testing.T) {
	ls := NewLeastSquares(duplicated(), WithStrictRank(true), WithRcond(1e-10))
	err := ls.Fit(threePoints())

	var rde *errors.RankDeficientError
	require.True(t, errors.As(err, &rde))
	assert.Equal(t, 1, rde.Rank)
	assert.Equal(t, 2, rde.Cols)
	assert.False(t, ls.IsFitted())
}

func TestLeastSquaresTruncatedRank(t *testing.T) {
	var warnings []error
	errors.SetWarningHandler(func(w error) { warnings = append(warnings, w) })
	defer errors.SetWarningHandler(func(error) {})

	ls := NewLeastSquares(duplicated(), WithRcond(1e-10))
	require.NoError(t, ls.Fit(threePoints()))

	require.Len(t, warnings, 1)
	var rdw *errors.RankDeficiencyWarning
	require.True(t, errors.As(warnings[0], &rdw))
	assert.Equal(t, 1, rdw.Rank)

	// 最小ノルム解は2つの係数に均等に分配される
	params, err := ls.Params()
	require.NoError(t, err)
	assert.InDelta(t, params[0], params[1], 1e-9)

	constant := NewLeastSquares(NewBasis("constant", Constant()))
	require.NoError(t, constant.Fit(threePoints()))
	want, err := constant.Predict(0.2)
	require.NoError(t, err)
	got, err := ls.Predict(0.2)
	require.NoError(t, err)
	assert.InDelta(t, want, got, 1e-9)
}

func TestLeastSquaresLogging(t *testing.T) {
	logger, _ := log.NewTestLogger(log.LevelDebug)
	fitThreePoints(t, Parabola(), WithLogger(logger))

	assert.True(t, logger.ContainsMessage("fit completed"))
	assert.True(t, logger.ContainsMessage("evaluation completed"))
	assert.True(t, logger.ContainsField(log.BasisKey, "parabola"))
	assert.True(t, logger.ContainsField(log.RankKey, float64(2)))
	assert.True(t, logger.ContainsField(log.DoFKey, float64(1)))
}

func TestLeastSquaresLogsRankRejection(t *testing.T) {
	logger, _ := log.NewTestLogger(log.LevelDebug)
	ls := NewLeastSquares(duplicated(), WithStrictRank(true), WithRcond(1e-10), WithLogger(logger))
	require.Error(t, ls.Fit(threePoints()))

	assert.True(t, logger.ContainsField(log.ErrorCodeKey, log.ErrorRankDeficient))
}

func BenchmarkLeastSquaresFit(b *testing.B) {
	obs := make(Observations, 5000)
	for i := range obs {
		x := float64(i) / 1000
		obs[i] = Observation{X: x, Y: 3 + 2*x - x*x, Sigma: 0.2}
	}
	ls := NewLeastSquares(Polynomial(3))

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		if err := ls.Fit(obs); err != nil {
			b.Fatal(err)
		}
	}
}
