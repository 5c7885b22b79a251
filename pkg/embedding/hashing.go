package embedding

import (
	"hash/fnv"
	"math"
	"strings"
	"unicode"
)

// DefaultDimension matches the vector(128) column on note_embeddings.
const DefaultDimension = 128

// HashingEmbedder implements the hashing trick: each token lands in a bucket
// chosen by its FNV-1a hash, with a sign taken from a higher bit of the same
// hash. No model weights, no I/O, no randomness.
type HashingEmbedder struct {
	dimension int
}

func NewHashingEmbedder(dimension int) *HashingEmbedder {
	if dimension <= 0 {
		dimension = DefaultDimension
	}
	return &HashingEmbedder{dimension: dimension}
}

func (e *HashingEmbedder) Dimension() int {
	return e.dimension
}

// Embed returns a unit-length vector for non-empty text. Empty or
// all-separator text yields the zero vector.
func (e *HashingEmbedder) Embed(text string) []float32 {
	acc := make([]float64, e.dimension)

	for _, token := range Tokenize(text) {
		h := hashToken(token)
		bucket := int(h % uint64(e.dimension))
		if (h>>32)&1 == 1 {
			acc[bucket]++
		} else {
			acc[bucket]--
		}
	}

	var sumSq float64
	for _, v := range acc {
		sumSq += v * v
	}

	vec := make([]float32, e.dimension)
	if sumSq == 0 {
		// Tokens can also cancel each other out within a bucket.
		return vec
	}

	norm := math.Sqrt(sumSq)
	for i, v := range acc {
		vec[i] = float32(v / norm)
	}
	return vec
}

// Tokenize lower-cases the input and splits on anything that is not a letter
// or digit. strings.ToLower applies the locale-independent case mapping.
func Tokenize(text string) []string {
	return strings.FieldsFunc(strings.ToLower(text), func(r rune) bool {
		return !unicode.IsLetter(r) && !unicode.IsDigit(r)
	})
}

func hashToken(token string) uint64 {
	h := fnv.New64a()
	h.Write([]byte(token))
	return h.Sum64()
}
