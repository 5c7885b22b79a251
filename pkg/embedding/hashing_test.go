package embedding

import (
	"math"
	"reflect"
	"testing"
)

func TestEmbedDeterminism(t *testing.T) {
	e := NewHashingEmbedder(128)

	texts := []string{
		"deploying a service with blue-green rollout",
		"short",
		"Mixed CASE with Punctuation!!! and numbers 42",
	}

	for _, text := range texts {
		first := e.Embed(text)
		second := e.Embed(text)
		if !reflect.DeepEqual(first, second) {
			t.Errorf("Embed(%q) is not deterministic", text)
		}
	}

	// A fresh embedder must agree bit for bit (no per-instance state).
	other := NewHashingEmbedder(128)
	if !reflect.DeepEqual(e.Embed(texts[0]), other.Embed(texts[0])) {
		t.Error("two embedders with the same dimension disagree")
	}
}

func TestEmbedNormalization(t *testing.T) {
	tests := []struct {
		name      string
		text      string
		dimension int
		wantZero  bool
	}{
		{"plain sentence", "kubernetes deployment rollout strategy", 128, false},
		{"single token", "hello", 64, false},
		{"empty", "", 128, true},
		{"whitespace only", "   \t\n  ", 128, true},
		{"punctuation only", "... !!! ---", 128, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			vec := NewHashingEmbedder(tt.dimension).Embed(tt.text)
			if len(vec) != tt.dimension {
				t.Fatalf("len = %d, want %d", len(vec), tt.dimension)
			}

			if tt.wantZero {
				if !IsZero(vec) {
					t.Errorf("Embed(%q) = non-zero vector, want zero", tt.text)
				}
				return
			}

			var sumSq float64
			for _, v := range vec {
				sumSq += float64(v) * float64(v)
			}
			if math.Abs(math.Sqrt(sumSq)-1) > 1e-6 {
				t.Errorf("||Embed(%q)|| = %v, want 1 within 1e-6", tt.text, math.Sqrt(sumSq))
			}
		})
	}
}

func TestTokenize(t *testing.T) {
	tests := []struct {
		text string
		want []string
	}{
		{"Blue-Green Rollout", []string{"blue", "green", "rollout"}},
		{"a  b\tc", []string{"a", "b", "c"}},
		{"v1.2.3", []string{"v1", "2", "3"}},
		{"", nil},
	}

	for _, tt := range tests {
		got := Tokenize(tt.text)
		if len(got) != len(tt.want) {
			t.Errorf("Tokenize(%q) = %v, want %v", tt.text, got, tt.want)
			continue
		}
		for i := range got {
			if got[i] != tt.want[i] {
				t.Errorf("Tokenize(%q)[%d] = %q, want %q", tt.text, i, got[i], tt.want[i])
			}
		}
	}
}

func TestCosine(t *testing.T) {
	e := NewHashingEmbedder(128)

	a := e.Embed("deploying a service with blue-green rollout")
	b := e.Embed("blue-green rollout for service deployment")
	c := e.Embed("chocolate cake recipe with raspberries")

	// Self-similarity within epsilon.
	if got := Cosine(a, a); math.Abs(got-1) > 1e-6 {
		t.Errorf("Cosine(a, a) = %v, want 1", got)
	}

	// Symmetry.
	if Cosine(a, b) != Cosine(b, a) {
		t.Error("Cosine is not symmetric")
	}

	// Near-identical wording must cross the candidate threshold.
	if got := Cosine(a, b); got < 0.35 {
		t.Errorf("Cosine(a, b) = %v, want >= 0.35", got)
	}

	// Unrelated text should score below the near-duplicate pair.
	if Cosine(a, c) >= Cosine(a, b) {
		t.Errorf("unrelated text scored %v, paraphrase %v", Cosine(a, c), Cosine(a, b))
	}

	// Zero vectors yield 0, never NaN.
	zero := make([]float32, 128)
	if got := Cosine(a, zero); got != 0 {
		t.Errorf("Cosine(a, zero) = %v, want 0", got)
	}
	if got := Cosine(zero, zero); got != 0 {
		t.Errorf("Cosine(zero, zero) = %v, want 0", got)
	}

	// Dimension mismatch is defined as 0 too.
	if got := Cosine(a, []float32{1}); got != 0 {
		t.Errorf("Cosine with mismatched dims = %v, want 0", got)
	}
}

func TestFingerprint(t *testing.T) {
	doc := ComposeDocument("Title", "body text")

	if Fingerprint(doc) != Fingerprint(doc) {
		t.Error("Fingerprint is not stable")
	}
	if Fingerprint(doc) == Fingerprint(ComposeDocument("Title", "body text changed")) {
		t.Error("Fingerprint did not change with content")
	}
	if Fingerprint(doc) == Fingerprint(ComposeDocument("Other title", "body text")) {
		t.Error("Fingerprint did not change with title")
	}
	if len(Fingerprint(doc)) != 64 {
		t.Errorf("Fingerprint length = %d, want 64 hex chars", len(Fingerprint(doc)))
	}
}
