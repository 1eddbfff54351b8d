// Package shortid generates short link identifiers.
//
// Each identifier is the base62 encoding of a fresh 128-bit random
// value, truncated to a fixed length. The entropy source is injectable
// so tests can run against a deterministic reader.
package shortid

import (
	"crypto/rand"
	"io"
	"math/big"

	"github.com/google/uuid"
)

const (
	// Length of generated identifiers. 62^8 is large enough that the
	// store's collision-retry budget should never be spent in practice.
	Length = 8

	charset = "0123456789abcdefghijklmnopqrstuvwxyzABCDEFGHIJKLMNOPQRSTUVWXYZ"
)

// Generator produces short, collision-resistant identifiers. The zero
// value is not usable; construct with New or NewWithReader.
type Generator struct {
	entropy io.Reader
}

// New returns a Generator backed by crypto/rand.
func New() *Generator {
	return NewWithReader(rand.Reader)
}

// NewWithReader returns a Generator drawing randomness from r.
func NewWithReader(r io.Reader) *Generator {
	return &Generator{entropy: r}
}

// Generate returns a new identifier of exactly Length alphanumeric
// characters. Uniqueness is the caller's responsibility; the store
// retries on collision.
func (g *Generator) Generate() (string, error) {
	id, err := uuid.NewRandomFromReader(g.entropy)
	if err != nil {
		return "", err
	}
	return encodeBase62(id), nil
}

// encodeBase62 encodes the 128-bit value and truncates to Length.
func encodeBase62(id uuid.UUID) string {
	n := new(big.Int).SetBytes(id[:])
	base := big.NewInt(int64(len(charset)))
	rem := new(big.Int)

	buf := make([]byte, 0, 22)
	for n.Sign() > 0 {
		n.DivMod(n, base, rem)
		buf = append(buf, charset[rem.Int64()])
	}
	// A (vanishingly unlikely) short encoding is padded rather than
	// rejected, so Generate never fails on valid entropy.
	for len(buf) < Length {
		buf = append(buf, '0')
	}
	return string(buf[:Length])
}
