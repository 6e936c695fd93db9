package linear

// threePoints は3点の測定データ
func threePoints() Observations {
	return Observations{
		{X: 0.1, Y: 2.0, Sigma: 0.1},
		{X: 0.2, Y: 2.5, Sigma: 0.12},
		{X: 0.3, Y: 2.8, Sigma: 0.145},
	}
}
