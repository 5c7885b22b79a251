package embedding

// Embedder turns note text into a fixed-dimension vector.
// Implementations must be deterministic: identical text yields bit-identical
// output across calls and process restarts.
type Embedder interface {
	Embed(text string) []float32
	Dimension() int
}
