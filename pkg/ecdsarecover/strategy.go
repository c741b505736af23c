package ecdsarecover

import (
	"crypto/rand"
	"fmt"
	"io"
	"strings"

	"github.com/decred/dcrd/dcrec/secp256k1/v4"
)

// NonceStrategy defines how per-signature nonces are produced.
// Implement this interface to plug a custom nonce source into a Signer.
type NonceStrategy interface {
	// Nonce returns a scalar in [1, N-1] for signing digest with privKey.
	// attempt starts at 0 and is incremented each time the previous nonce
	// produced a degenerate signature, so deterministic strategies must
	// return a different nonce for every attempt.
	// Implementations must not retain privKey.
	Nonce(privKey *[PrivateKeySize]byte, digest Digest, attempt uint32) (*secp256k1.ModNScalar, error)

	// Name returns a human-readable name for this strategy.
	Name() string
}

// DeterministicNonce derives nonces per RFC 6979 with HMAC-SHA256, so the
// same key and digest always produce the same signature.
type DeterministicNonce struct{}

// NewDeterministicNonce creates the RFC 6979 strategy.
func NewDeterministicNonce() *DeterministicNonce {
	return &DeterministicNonce{}
}

// Nonce implements the NonceStrategy interface.
func (DeterministicNonce) Nonce(privKey *[PrivateKeySize]byte, digest Digest, attempt uint32) (*secp256k1.ModNScalar, error) {
	return secp256k1.NonceRFC6979(privKey[:], digest[:], nil, nil, attempt), nil
}

// Name returns the name of this strategy.
func (DeterministicNonce) Name() string {
	return "deterministic"
}

// RandomizedNonce mixes fresh entropy into the RFC 6979 derivation (the
// "additional data" of RFC 6979 section 3.6). Every call draws new entropy,
// so signatures differ between calls while a broken entropy source still
// cannot leak the key through nonce reuse.
type RandomizedNonce struct {
	// Reader supplies entropy. Defaults to crypto/rand.Reader.
	Reader io.Reader
}

// NewRandomizedNonce creates a randomized strategy backed by crypto/rand.
func NewRandomizedNonce() *RandomizedNonce {
	return &RandomizedNonce{Reader: rand.Reader}
}

// WithReader sets the entropy source.
func (n *RandomizedNonce) WithReader(r io.Reader) *RandomizedNonce {
	n.Reader = r
	return n
}

// Nonce implements the NonceStrategy interface.
func (n *RandomizedNonce) Nonce(privKey *[PrivateKeySize]byte, digest Digest, attempt uint32) (*secp256k1.ModNScalar, error) {
	reader := n.Reader
	if reader == nil {
		reader = rand.Reader
	}
	var extra [32]byte
	if _, err := io.ReadFull(reader, extra[:]); err != nil {
		return nil, fmt.Errorf("failed to read nonce entropy: %w", err)
	}
	defer clear(extra[:])
	return secp256k1.NonceRFC6979(privKey[:], digest[:], extra[:], nil, attempt), nil
}

// Name returns the name of this strategy.
func (n *RandomizedNonce) Name() string {
	return "randomized"
}

// NonceStrategyByName returns the built-in strategy with the given name.
func NonceStrategyByName(name string) (NonceStrategy, error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "deterministic", "rfc6979", "":
		return NewDeterministicNonce(), nil
	case "randomized", "random":
		return NewRandomizedNonce(), nil
	default:
		return nil, fmt.Errorf("unknown nonce strategy %q", name)
	}
}
