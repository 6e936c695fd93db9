// Package plotting は最小二乗フィットの結果を gonum/plot で描画する
//
// 観測点は ±σ のエラーバー付き散布図、フィットしたモデルは関数曲線として描く。
// 出力先は任意の io.Writer で、ファイルへの書き込みは呼び出し側に任せる。
package plotting

import (
	"image/color"
	"io"
	"math"

	"gonum.org/v1/plot"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/vg"
	"gonum.org/v1/plot/vg/draw"

	"github.com/YuminosukeSato/svdfit/linear"
	"github.com/YuminosukeSato/svdfit/pkg/errors"
)

// 描画サイズ
const (
	Width  = 6 * vg.Inch
	Height = 4 * vg.Inch
)

// curveSamples は曲線の評価点数
const curveSamples = 200

// errorPoints は plotter.NewYErrorBars に渡すための観測点と誤差の組
type errorPoints struct {
	plotter.XYs
	plotter.YErrors
}

// NewFitPlot は観測点とフィット曲線 f(x) = Σ params_j φ_j(x) のプロットを作る
func NewFitPlot(obs linear.Observations, basis linear.Basis, params []float64, title string) (*plot.Plot, error) {
	const op = "NewFitPlot"

	if err := obs.Validate(op); err != nil {
		return nil, err
	}
	if len(params) != basis.Len() {
		return nil, errors.NewDimensionError(op, basis.Len(), len(params), 0)
	}

	pts := errorPoints{
		XYs:     make(plotter.XYs, len(obs)),
		YErrors: make(plotter.YErrors, len(obs)),
	}
	xmin, xmax := math.Inf(1), math.Inf(-1)
	for i, o := range obs {
		pts.XYs[i].X = o.X
		pts.XYs[i].Y = o.Y
		pts.YErrors[i].Low = o.Sigma
		pts.YErrors[i].High = o.Sigma
		xmin = math.Min(xmin, o.X)
		xmax = math.Max(xmax, o.X)
	}

	scatter, err := plotter.NewScatter(pts.XYs)
	if err != nil {
		return nil, errors.Wrap(err, op)
	}
	scatter.GlyphStyle.Shape = draw.CircleGlyph{}
	scatter.GlyphStyle.Radius = vg.Points(2.5)

	bars, err := plotter.NewYErrorBars(pts)
	if err != nil {
		return nil, errors.Wrap(err, op)
	}

	// 端の観測点が曲線の端に重ならないよう少し広げる
	pad := 0.05 * (xmax - xmin)
	if pad == 0 {
		pad = 0.5
	}
	curve := plotter.NewFunction(func(x float64) float64 {
		return basis.Eval(params, x)
	})
	curve.XMin = xmin - pad
	curve.XMax = xmax + pad
	curve.Samples = curveSamples
	curve.Color = color.RGBA{R: 200, G: 30, B: 30, A: 255}
	curve.Width = vg.Points(1.5)

	p := plot.New()
	p.Title.Text = title
	p.X.Label.Text = "x"
	p.Y.Label.Text = "y"
	p.Add(plotter.NewGrid(), curve, bars, scatter)
	p.Legend.Add("data", scatter)
	p.Legend.Add(basis.Describe(), curve)
	p.Legend.Top = true
	p.Legend.Left = true

	return p, nil
}

// Render は p を format ("svg", "png", "pdf", ...) で w に書き出す。空文字列は "svg"
func Render(w io.Writer, p *plot.Plot, format string) error {
	if format == "" {
		format = "svg"
	}
	wt, err := p.WriterTo(Width, Height, format)
	if err != nil {
		return errors.Wrapf(err, "Render: format %q", format)
	}
	if _, err := wt.WriteTo(w); err != nil {
		return errors.Wrap(err, "Render")
	}
	return nil
}
