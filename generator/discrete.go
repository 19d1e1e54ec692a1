package generator

import "math/rand"

// Discrete picks an index with probability proportional to its weight.
// Weights may sum to any positive number.
type Discrete struct {
	Number
	weights []float64
	total   float64
}

// NewDiscrete creates a Discrete generator over the given weights.
func NewDiscrete(weights []float64) *Discrete {
	d := &Discrete{weights: append([]float64(nil), weights...)}
	for _, w := range weights {
		d.total += w
	}
	return d
}

// NewDiscreteInts is NewDiscrete over integer weights, the shape txn-mix
// parameters arrive in.
func NewDiscreteInts(weights []int) *Discrete {
	fw := make([]float64, len(weights))
	for i, w := range weights {
		fw[i] = float64(w)
	}
	return NewDiscrete(fw)
}

// Next implements the Generator Next interface.
func (d *Discrete) Next(r *rand.Rand) int64 {
	x := r.Float64() * d.total
	for i, w := range d.weights {
		x -= w
		if x < 0 {
			d.SetLastValue(int64(i))
			return int64(i)
		}
	}
	last := int64(len(d.weights) - 1)
	d.SetLastValue(last)
	return last
}
