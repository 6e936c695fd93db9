package model

import "github.com/YuminosukeSato/svdfit/pkg/errors"

// EstimatorState はモデルのフィット状態を表す
type EstimatorState int

const (
	// NotFitted はまだFitが成功していない状態
	NotFitted EstimatorState = iota
	// Fitted はFitが成功し、パラメータと共分散が利用可能な状態
	Fitted
)

// BaseEstimator はフィット状態を管理する埋め込み用の構造体
type BaseEstimator struct {
	state EstimatorState
}

// IsFitted はモデルが学習済みかどうかを返す
func (e *BaseEstimator) IsFitted() bool {
	return e.state == Fitted
}

// SetFitted はモデルを学習済み状態に設定する
func (e *BaseEstimator) SetFitted() {
	e.state = Fitted
}

// Reset はモデルを初期状態にリセットする。Fitが失敗した場合に呼ぶ
func (e *BaseEstimator) Reset() {
	e.state = NotFitted
}

// RequireFitted は未学習ならNotFittedErrorを返す
func (e *BaseEstimator) RequireFitted(modelName, method string) error {
	if !e.IsFitted() {
		return errors.NewNotFittedError(modelName, method)
	}
	return nil
}
