package fs

import (
	"fmt"

	"github.com/cespare/xxhash/v2"
	"go.trai.ch/gryla/internal/core/ports"
)

var _ ports.Fingerprinter = (*Hasher)(nil)

// Hasher computes xxhash fingerprints of link command lines.
type Hasher struct{}

// NewHasher creates a new Hasher.
func NewHasher() *Hasher {
	return &Hasher{}
}

// Fingerprint hashes the argument vector. Arguments are NUL-separated so that
// {"ab", "c"} and {"a", "bc"} never collide.
func (h *Hasher) Fingerprint(argv []string) string {
	hasher := xxhash.New()
	for _, arg := range argv {
		_, _ = hasher.WriteString(arg)
		_, _ = hasher.Write([]byte{0})
	}
	return fmt.Sprintf("%016x", hasher.Sum64())
}
