package common

import (
	"math/rand"
)

const strGenCharacters = "ABCDEFGHIJKLMNOPQRSTUVWXYZabcdefghijklmnopqrstuvwxyz "

// RandomStringGenerator produces seeded, reproducible filler strings for the
// data loaders.
type RandomStringGenerator struct {
	r *rand.Rand
}

func NewRandomStringGenerator(seed int64) *RandomStringGenerator {
	return &RandomStringGenerator{r: rand.New(rand.NewSource(seed))}
}

// Next returns a string of exactly n characters.
func (g *RandomStringGenerator) Next(n int) string {
	b := make([]byte, n)
	for i := range b {
		b[i] = strGenCharacters[g.r.Intn(len(strGenCharacters))]
	}
	return string(b)
}
