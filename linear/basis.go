package linear

import (
	"fmt"
	"math"
	"strings"
)

// BasisFunc は1つの基底関数 φ_j(x)
type BasisFunc func(x float64) float64

// Term は名前付きの基底関数。名前は出力とログに使う
type Term struct {
	Name string
	Fn   BasisFunc
}

// Basis はモデル f(x) = Σ_j a_j φ_j(x) を定める基底関数の順序付き集合
type Basis struct {
	name  string
	terms []Term
}

// NewBasis は任意の基底関数から Basis を作る
func NewBasis(name string, terms ...Term) Basis {
	t := make([]Term, len(terms))
	copy(t, terms)
	return Basis{name: name, terms: t}
}

// Constant は φ(x) = 1
func Constant() Term {
	return Term{Name: "1", Fn: func(float64) float64 { return 1 }}
}

// Monomial は φ(x) = x^p
func Monomial(p int) Term {
	switch p {
	case 0:
		return Constant()
	case 1:
		return Term{Name: "x", Fn: func(x float64) float64 { return x }}
	case 2:
		return Term{Name: "x^2", Fn: func(x float64) float64 { return x * x }}
	}
	return Term{
		Name: fmt.Sprintf("x^%d", p),
		Fn:   func(x float64) float64 { return math.Pow(x, float64(p)) },
	}
}

// StraightLine は f(x) = a0 + a1·x
func StraightLine() Basis {
	return NewBasis("straight-line", Constant(), Monomial(1))
}

// Parabola は f(x) = a0 + a1·x²
func Parabola() Basis {
	return NewBasis("parabola", Constant(), Monomial(2))
}

// Polynomial は f(x) = a0 + a1·x + ... + a_d·x^d
func Polynomial(degree int) Basis {
	terms := make([]Term, 0, degree+1)
	for p := 0; p <= degree; p++ {
		terms = append(terms, Monomial(p))
	}
	return NewBasis(fmt.Sprintf("polynomial-%d", degree), terms...)
}

// Name は基底集合の名前を返す
func (b Basis) Name() string {
	return b.name
}

// Len はパラメータ数 M を返す
func (b Basis) Len() int {
	return len(b.terms)
}

// Terms は基底関数のコピーを返す
func (b Basis) Terms() []Term {
	t := make([]Term, len(b.terms))
	copy(t, b.terms)
	return t
}

// Row は x における全ての基底関数の値を dst に書き込む
func (b Basis) Row(dst []float64, x float64) []float64 {
	if cap(dst) < len(b.terms) {
		dst = make([]float64, len(b.terms))
	}
	dst = dst[:len(b.terms)]
	for j, t := range b.terms {
		dst[j] = t.Fn(x)
	}
	return dst
}

// Eval は f(x) = Σ_j params_j φ_j(x) を返す。params の長さは Len() と一致すること
func (b Basis) Eval(params []float64, x float64) float64 {
	var f float64
	for j, t := range b.terms {
		f += params[j] * t.Fn(x)
	}
	return f
}

// Describe は "a0*1 + a1*x^2" 形式のモデル式を返す
func (b Basis) Describe() string {
	parts := make([]string, len(b.terms))
	for j, t := range b.terms {
		parts[j] = fmt.Sprintf("a%d*%s", j, t.Name)
	}
	return "f(x) = " + strings.Join(parts, " + ")
}
