package simutil

import (
	"hash/fnv"
	"math/rand"
	"strconv"
)

// SeedFor derives a stable non-zero seed for label from root, so each
// subsystem draws from its own sequence while one root seed reproduces a run.
func SeedFor(root int64, label string) int64 {
	hasher := fnv.New64a()
	hasher.Write([]byte(strconv.FormatInt(root, 10)))
	hasher.Write([]byte{0})
	hasher.Write([]byte(label))
	sum := hasher.Sum64()
	if sum == 0 {
		sum = 1
	}
	return int64(sum)
}

// NewRNG returns a generator seeded with SeedFor(root, label).
func NewRNG(root int64, label string) *rand.Rand {
	return rand.New(rand.NewSource(SeedFor(root, label)))
}
