package decomposition

import (
	"math/rand/v2"

	"gonum.org/v1/gonum/mat"
)

// RandomMatrix returns an r×c matrix with entries drawn uniformly from
// [-1, 1). A nil rng uses a generator seeded from the runtime.
func RandomMatrix(r, c int, rng *rand.Rand) *mat.Dense {
	if rng == nil {
		rng = rand.New(rand.NewPCG(rand.Uint64(), rand.Uint64()))
	}
	data := make([]float64, r*c)
	for i := range data {
		data[i] = rng.Float64()*2 - 1
	}
	return mat.NewDense(r, c, data)
}
