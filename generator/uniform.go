package generator

import "math/rand"

// Uniform generates integers uniformly in [lb, ub].
type Uniform struct {
	Number
	lb       int64
	ub       int64
	interval int64
}

// NewUniform creates the Uniform generator.
func NewUniform(lb int64, ub int64) *Uniform {
	return &Uniform{
		lb:       lb,
		ub:       ub,
		interval: ub - lb + 1,
	}
}

// Next implements the Generator Next interface.
func (u *Uniform) Next(r *rand.Rand) int64 {
	n := r.Int63n(u.interval) + u.lb
	u.SetLastValue(n)
	return n
}
