// Package digest hashes candidates and streams (candidate, digest) pairs to
// a writer.
package digest

import (
	"encoding/hex"
	"errors"
	"fmt"
	"strings"

	"github.com/minio/sha256-simd"
	"github.com/zeebo/blake3"
)

// Algorithm names a 256-bit hash function
type Algorithm string

const (
	SHA256 Algorithm = "sha256"
	BLAKE3 Algorithm = "blake3"
)

var ErrUnknownAlgorithm = errors.New("unknown hash algorithm")

// Algorithms lists the supported names, default first
var Algorithms = []Algorithm{SHA256, BLAKE3}

func ParseAlgorithm(s string) (Algorithm, error) {
	switch Algorithm(strings.ToLower(strings.TrimSpace(s))) {
	case SHA256, "sha-256", "":
		return SHA256, nil
	case BLAKE3:
		return BLAKE3, nil
	}
	return "", fmt.Errorf("%w %q", ErrUnknownAlgorithm, s)
}

// Pair is one output row
type Pair struct {
	Candidate string `json:"combination"`
	Hash      string `json:"hash"`
}

// Sum hashes the UTF-8 bytes of candidate
func Sum(alg Algorithm, candidate string) [32]byte {
	if alg == BLAKE3 {
		return blake3.Sum256([]byte(candidate))
	}
	return sha256.Sum256([]byte(candidate))
}

// Hex returns the 64 character lowercase hex digest of candidate
func Hex(alg Algorithm, candidate string) string {
	sum := Sum(alg, candidate)
	return hex.EncodeToString(sum[:])
}
