package embedding

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"
)

// ComposeDocument builds the canonical text a note is embedded from.
// Both the embedder and the fingerprint must see the exact same bytes,
// otherwise staleness detection breaks.
func ComposeDocument(title, contentMd string) string {
	return fmt.Sprintf("%s\n\n%s", title, contentMd)
}

// Fingerprint returns the digest stored next to an embedding to detect
// whether the source text changed since the vector was computed.
func Fingerprint(document string) string {
	sum := sha256.Sum256([]byte(document))
	return hex.EncodeToString(sum[:])
}
