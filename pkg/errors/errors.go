// Package errors はsvdfit全体のエラーハンドリングと警告システムを提供します。
// 最小二乗フィットで起こりうる失敗（次元不足、不正な誤差、ランク落ち、自由度不足）を
// 構造化されたエラー型として表現します。
package errors

import (
	"fmt"
	"log"
	"sync"

	"github.com/cockroachdb/errors"
	"github.com/rs/zerolog"
)

// ===========================================================================
//
//	グローバル警告ハンドリング
//
// ===========================================================================
var (
	warningMutex   sync.Mutex
	warningHandler = func(w error) {
		// デフォルトのハンドラは標準エラー出力にログを出す
		log.Printf("svdfit-warning: %v\n", w)
	}
	// zerologロガー（循環importを避けるため遅延初期化）
	zerologWarnFunc func(warning error)
)

// SetWarningHandler はライブラリ全体の警告ハンドラを設定します。
//
// 例:
//
//	errors.SetWarningHandler(func(w error) {
//	    // 警告を無視する
//	})
func SetWarningHandler(handler func(w error)) {
	warningMutex.Lock()
	defer warningMutex.Unlock()
	warningHandler = handler
}

// SetZerologWarnFunc はzerolog警告関数を設定します（循環importを避けるため）。
// nilを渡すと従来のハンドラに戻ります。
func SetZerologWarnFunc(warnFunc func(warning error)) {
	warningMutex.Lock()
	defer warningMutex.Unlock()
	zerologWarnFunc = warnFunc
}

// Warn は警告を発生させます。
// zerologが設定されている場合は構造化ログとして出力し、そうでなければ従来のハンドラを使用します。
func Warn(w error) {
	warningMutex.Lock()
	defer warningMutex.Unlock()

	if zerologWarnFunc != nil {
		zerologWarnFunc(w)
		return
	}

	if warningHandler != nil {
		warningHandler(w)
	}
}

// ===========================================================================
//
//	警告型
//
// ===========================================================================

// RankDeficiencyWarning は擬似逆行列の計算で特異値が切り捨てられた場合の警告です。
// 解は計算されますが、切り捨てられた方向のパラメータは決定されていません。
type RankDeficiencyWarning struct {
	Op        string
	Rank      int
	Cols      int
	Threshold float64
}

func (w *RankDeficiencyWarning) Error() string {
	return fmt.Sprintf("%s: design matrix has rank %d < %d; singular values <= %.3g were dropped",
		w.Op, w.Rank, w.Cols, w.Threshold)
}

// MarshalZerologObject はzerologのイベントに構造化された警告情報を追加します。
func (w *RankDeficiencyWarning) MarshalZerologObject(e *zerolog.Event) {
	e.Str("operation", w.Op).
		Int("rank", w.Rank).
		Int("cols", w.Cols).
		Float64("threshold", w.Threshold).
		Str("type", "RankDeficiencyWarning")
}

// NewRankDeficiencyWarning は新しいRankDeficiencyWarningを作成します。
func NewRankDeficiencyWarning(op string, rank, cols int, threshold float64) *RankDeficiencyWarning {
	return &RankDeficiencyWarning{Op: op, Rank: rank, Cols: cols, Threshold: threshold}
}

// ===========================================================================
//
//	構造化されたエラー型
//
// ===========================================================================

// NotFittedError はフィット前に結果を参照した場合のエラーです。
type NotFittedError struct {
	ModelName string
	Method    string
}

func (e *NotFittedError) Error() string {
	return fmt.Sprintf("svdfit: %s: this model is not fitted yet. Call Fit() before using %s()", e.ModelName, e.Method)
}

// MarshalZerologObject はzerologのイベントに構造化されたエラー情報を追加します。
func (e *NotFittedError) MarshalZerologObject(event *zerolog.Event) {
	event.Str("model_name", e.ModelName).
		Str("method", e.Method).
		Str("type", "NotFittedError")
}

// NewNotFittedError は新しいNotFittedErrorを作成し、スタックトレースを付与します。
func NewNotFittedError(modelName, method string) error {
	return errors.WithStack(&NotFittedError{ModelName: modelName, Method: method})
}

// DimensionError はベクトルや行列の長さが期待値と異なる場合のエラーです。
type DimensionError struct {
	Op       string
	Expected int
	Got      int
	Axis     int // 0 for rows, 1 for columns
}

func (e *DimensionError) Error() string {
	return fmt.Sprintf("svdfit: %s: dimension mismatch on axis %d (%s). Expected %d, got %d",
		e.Op, e.Axis, axisName(e.Axis), e.Expected, e.Got)
}

// MarshalZerologObject はzerologのイベントに構造化されたエラー情報を追加します。
func (e *DimensionError) MarshalZerologObject(event *zerolog.Event) {
	event.Str("operation", e.Op).
		Int("expected", e.Expected).
		Int("got", e.Got).
		Int("axis", e.Axis).
		Str("axis_name", axisName(e.Axis)).
		Str("type", "DimensionError")
}

// NewDimensionError は新しいDimensionErrorを作成し、スタックトレースを付与します。
func NewDimensionError(op string, expected, got, axis int) error {
	return errors.WithStack(&DimensionError{Op: op, Expected: expected, Got: got, Axis: axis})
}

func axisName(axis int) string {
	if axis == 0 {
		return "rows"
	}
	return "columns"
}

// UnderdeterminedError は観測数Nがパラメータ数Mより少ない場合のエラーです。
// 分解や求解の前に検出されます。
type UnderdeterminedError struct {
	Op   string
	Rows int
	Cols int
}

func (e *UnderdeterminedError) Error() string {
	return fmt.Sprintf("svdfit: %s: under-determined system: %d rows for %d columns (need rows >= columns)",
		e.Op, e.Rows, e.Cols)
}

// MarshalZerologObject はzerologのイベントに構造化されたエラー情報を追加します。
func (e *UnderdeterminedError) MarshalZerologObject(event *zerolog.Event) {
	event.Str("operation", e.Op).
		Int("rows", e.Rows).
		Int("cols", e.Cols).
		Str("type", "UnderdeterminedError")
}

// NewUnderdeterminedError は新しいUnderdeterminedErrorを作成し、スタックトレースを付与します。
func NewUnderdeterminedError(op string, rows, cols int) error {
	return errors.WithStack(&UnderdeterminedError{Op: op, Rows: rows, Cols: cols})
}

// NonPositiveUncertaintyError は観測誤差σが正でない（または有限でない）場合のエラーです。
// σは設計行列の各行の除数になるため、0やNaNを黙って通すことはできません。
type NonPositiveUncertaintyError struct {
	Op    string
	Index int
	Sigma float64
}

func (e *NonPositiveUncertaintyError) Error() string {
	return fmt.Sprintf("svdfit: %s: uncertainty of observation %d must be positive and finite (got: %v)",
		e.Op, e.Index, e.Sigma)
}

// MarshalZerologObject はzerologのイベントに構造化されたエラー情報を追加します。
func (e *NonPositiveUncertaintyError) MarshalZerologObject(event *zerolog.Event) {
	event.Str("operation", e.Op).
		Int("index", e.Index).
		Float64("sigma", e.Sigma).
		Str("type", "NonPositiveUncertaintyError")
}

// NewNonPositiveUncertaintyError は新しいNonPositiveUncertaintyErrorを作成し、スタックトレースを付与します。
func NewNonPositiveUncertaintyError(op string, index int, sigma float64) error {
	return errors.WithStack(&NonPositiveUncertaintyError{Op: op, Index: index, Sigma: sigma})
}

// RankDeficientError は特異値が閾値以下で、厳密モードの求解を拒否した場合のエラーです。
type RankDeficientError struct {
	Op        string
	Rank      int
	Cols      int
	Threshold float64
	Values    []float64 // 特異値（降順）
}

func (e *RankDeficientError) Error() string {
	return fmt.Sprintf("svdfit: %s: rank deficient: rank %d < %d (threshold %.3g, singular values %v)",
		e.Op, e.Rank, e.Cols, e.Threshold, e.Values)
}

// MarshalZerologObject はzerologのイベントに構造化されたエラー情報を追加します。
func (e *RankDeficientError) MarshalZerologObject(event *zerolog.Event) {
	event.Str("operation", e.Op).
		Int("rank", e.Rank).
		Int("cols", e.Cols).
		Float64("threshold", e.Threshold).
		Floats64("singular_values", e.Values).
		Str("type", "RankDeficientError")
}

// NewRankDeficientError は新しいRankDeficientErrorを作成し、スタックトレースを付与します。
func NewRankDeficientError(op string, rank, cols int, threshold float64, values []float64) error {
	return errors.WithStack(&RankDeficientError{
		Op:        op,
		Rank:      rank,
		Cols:      cols,
		Threshold: threshold,
		Values:    values,
	})
}

// InsufficientDOFError は自由度 N-M が0以下でχ²確率が定義できない場合のエラーです。
type InsufficientDOFError struct {
	Observations int
	Parameters   int
}

func (e *InsufficientDOFError) Error() string {
	return fmt.Sprintf("svdfit: insufficient degrees of freedom: %d observations, %d parameters (dof=%d)",
		e.Observations, e.Parameters, e.Observations-e.Parameters)
}

// MarshalZerologObject はzerologのイベントに構造化されたエラー情報を追加します。
func (e *InsufficientDOFError) MarshalZerologObject(event *zerolog.Event) {
	event.Int("observations", e.Observations).
		Int("parameters", e.Parameters).
		Int("dof", e.Observations-e.Parameters).
		Str("type", "InsufficientDOFError")
}

// NewInsufficientDOFError は新しいInsufficientDOFErrorを作成し、スタックトレースを付与します。
func NewInsufficientDOFError(observations, parameters int) error {
	return errors.WithStack(&InsufficientDOFError{Observations: observations, Parameters: parameters})
}

// ValidationError はオプションなど入力パラメータの検証に失敗した場合のエラーです。
type ValidationError struct {
	ParamName string
	Reason    string
	Value     interface{}
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("svdfit: validation failed for parameter '%s': %s (got: %v)", e.ParamName, e.Reason, e.Value)
}

// MarshalZerologObject はzerologのイベントに構造化されたエラー情報を追加します。
func (e *ValidationError) MarshalZerologObject(event *zerolog.Event) {
	event.Str("param_name", e.ParamName).
		Str("reason", e.Reason).
		Interface("value", e.Value).
		Str("type", "ValidationError")
}

// NewValidationError は新しいValidationErrorを作成し、スタックトレースを付与します。
func NewValidationError(param, reason string, value interface{}) error {
	return errors.WithStack(&ValidationError{ParamName: param, Reason: reason, Value: value})
}

// ValueError は引数の値が不適切な場合のエラーです。
// 例えば、負のχ²を確率計算に渡した場合など。
type ValueError struct {
	Op      string
	Message string
}

func (e *ValueError) Error() string {
	return fmt.Sprintf("svdfit: %s: %s", e.Op, e.Message)
}

// NewValueError は新しいValueErrorを作成し、スタックトレースを付与します。
func NewValueError(op, message string) error {
	return errors.WithStack(&ValueError{Op: op, Message: message})
}

// ModelError はフィット処理に関する一般的なエラーです。
type ModelError struct {
	Op   string
	Kind string
	Err  error
}

func (e *ModelError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("svdfit: %s: %s: %v", e.Op, e.Kind, e.Err)
	}
	return fmt.Sprintf("svdfit: %s: %s", e.Op, e.Kind)
}

func (e *ModelError) Unwrap() error {
	return e.Err
}

// NewModelError は新しいModelErrorを作成し、スタックトレースを付与します。
func NewModelError(op, kind string, err error) error {
	return errors.WithStack(&ModelError{Op: op, Kind: kind, Err: err})
}

// NumericalInstabilityError は結果にNaNやInfが現れた場合のエラーです。
type NumericalInstabilityError struct {
	Operation string
	Values    []float64
}

func (e *NumericalInstabilityError) Error() string {
	valStr := ""
	for i, v := range e.Values {
		if i > 0 {
			valStr += ", "
		}
		if i >= 5 {
			valStr += "..."
			break
		}
		valStr += fmt.Sprintf("%.6g", v)
	}
	return fmt.Sprintf("svdfit: numerical instability detected in %s. Values: [%s]", e.Operation, valStr)
}

// NewNumericalInstabilityError は新しいNumericalInstabilityErrorを作成します。
func NewNumericalInstabilityError(operation string, values []float64) error {
	return errors.WithStack(&NumericalInstabilityError{Operation: operation, Values: values})
}

// ===========================================================================
//
//	cockroachdb/errors ラッパー関数
//
// ===========================================================================

// Is はエラーが特定のターゲットエラーかどうかを判定します。
func Is(err, target error) bool {
	return errors.Is(err, target)
}

// As はエラーが特定の型にキャスト可能かどうかを判定します。
func As(err error, target interface{}) bool {
	return errors.As(err, target)
}

// Wrap は既存のエラーをメッセージ付きでラップします。
func Wrap(err error, message string) error {
	return errors.Wrap(err, message)
}

// Wrapf は既存のエラーをフォーマット文字列でラップします。
func Wrapf(err error, format string, args ...interface{}) error {
	return errors.Wrapf(err, format, args...)
}

// New は新しいエラーを作成します。
func New(message string) error {
	return errors.New(message)
}

// Newf は新しいフォーマット済みエラーを作成します。
func Newf(format string, args ...interface{}) error {
	return errors.Newf(format, args...)
}

// WithStack はエラーにスタックトレースを付与します。
func WithStack(err error) error {
	return errors.WithStack(err)
}

// ===========================================================================
//
//	共通エラー変数
//
// ===========================================================================

var (
	// ErrEmptyData は空のデータが渡された場合のエラーです。
	ErrEmptyData = New("empty data")

	// ErrSingularMatrix は特異行列の場合のエラーです。
	ErrSingularMatrix = New("singular matrix")

	// ErrFactorization はSVD分解が収束しなかった場合のエラーです。
	ErrFactorization = New("factorization failed")
)
