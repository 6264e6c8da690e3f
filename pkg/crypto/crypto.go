package crypto

import (
	"crypto/rand"
	"math/big"
)

// RandIntn returns a uniform random value in [0, n). It panics if got a
// non-positive parameter.
func RandIntn(n int) int {
	r, err := rand.Int(rand.Reader, big.NewInt(int64(n)))
	if err != nil {
		panic(err)
	}

	return int(r.Int64())
}

// IntnFunc is the randomness source of Sample. Implementations must return a
// uniform value in [0, n).
type IntnFunc func(n int) int

// Sample selects k distinct elements of values uniformly without replacement,
// in selection order. It uses a partial Fisher-Yates shuffle, so every subset
// of size k has equal probability. The input slice is not modified.
func Sample[T any](intn IntnFunc, values []T, k int) []T {
	if k > len(values) {
		k = len(values)
	}

	pool := make([]T, len(values))
	copy(pool, values)

	selected := make([]T, 0, k)
	for i := 0; i < k; i++ {
		j := i + intn(len(pool)-i)
		pool[i], pool[j] = pool[j], pool[i]
		selected = append(selected, pool[i])
	}

	return selected
}
