package generator

import "math/rand"

// NURand samples [x, y] non-uniformly: ((rand(0,A) | rand(x,y)) mod
// (y-x+1)) + x. Small A approaches uniform; large A skews toward keys whose
// low bits are dense.
func NURand(r *rand.Rand, a int64, x, y int64) int64 {
	r1 := r.Int63n(a + 1)
	r2 := r.Int63n(y-x+1) + x
	return ((r1 | r2) % (y - x + 1)) + x
}

// SkewedPick samples an element of a slice of size n through NURand with
// A = skew*n.
func SkewedPick(r *rand.Rand, n int, skew float64) int {
	a := int64(skew * float64(n))
	return int(NURand(r, a, 0, int64(n-1)))
}
