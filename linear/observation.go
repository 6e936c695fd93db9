// Package linear は基底関数の線形結合を重み付き最小二乗でフィットする
package linear

import (
	"math"

	"github.com/YuminosukeSato/svdfit/pkg/errors"
)

// Observation は不確かさ付きの1つの測定点 (x, y ± σ)
type Observation struct {
	X     float64
	Y     float64
	Sigma float64 // 1σの誤差。正の有限値でなければならない
}

// Observations は観測点の順序付き集合
type Observations []Observation

// NewObservations は x, y, σ の並列スライスから観測点を作る
func NewObservations(x, y, sigma []float64) (Observations, error) {
	if len(y) != len(x) {
		return nil, errors.NewDimensionError("NewObservations", len(x), len(y), 0)
	}
	if len(sigma) != len(x) {
		return nil, errors.NewDimensionError("NewObservations", len(x), len(sigma), 0)
	}
	obs := make(Observations, len(x))
	for i := range x {
		obs[i] = Observation{X: x[i], Y: y[i], Sigma: sigma[i]}
	}
	return obs, nil
}

// Validate は空でないこと、全てのσが正の有限値であることを確認する
func (o Observations) Validate(op string) error {
	if len(o) == 0 {
		return errors.NewModelError(op, "no observations", errors.ErrEmptyData)
	}
	for i, p := range o {
		if !(p.Sigma > 0) || math.IsInf(p.Sigma, 0) {
			return errors.NewNonPositiveUncertaintyError(op, i, p.Sigma)
		}
	}
	return nil
}

// XS は x 値のスライスを返す
func (o Observations) XS() []float64 {
	xs := make([]float64, len(o))
	for i, p := range o {
		xs[i] = p.X
	}
	return xs
}

// YS は y 値のスライスを返す
func (o Observations) YS() []float64 {
	ys := make([]float64, len(o))
	for i, p := range o {
		ys[i] = p.Y
	}
	return ys
}

// Sigmas は σ のスライスを返す
func (o Observations) Sigmas() []float64 {
	s := make([]float64, len(o))
	for i, p := range o {
		s[i] = p.Sigma
	}
	return s
}
