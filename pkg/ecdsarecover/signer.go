package ecdsarecover

import (
	"fmt"

	"github.com/decred/dcrd/dcrec/secp256k1/v4"
)

// maxNonceAttempts bounds the retry loop so that a custom strategy which
// keeps returning unusable nonces fails instead of spinning forever. The
// built-in strategies hit a degenerate nonce with negligible probability.
const maxNonceAttempts = 64

// Signer produces low-s ECDSA signatures with a recovery id over the
// SHA-256 digest of a message. A Signer holds no key material and is safe
// for concurrent use as long as its NonceStrategy is.
type Signer struct {
	hasher Hasher
	nonce  NonceStrategy
}

// NewSigner creates a signer using deterministic RFC 6979 nonces.
func NewSigner() *Signer {
	return &Signer{nonce: NewDeterministicNonce()}
}

// WithNonceStrategy sets the nonce strategy.
func (s *Signer) WithNonceStrategy(strategy NonceStrategy) *Signer {
	s.nonce = strategy
	return s
}

// NonceStrategy returns the configured nonce strategy.
func (s *Signer) NonceStrategy() NonceStrategy {
	return s.nonce
}

// Sign hashes message and signs the digest. Empty messages are rejected.
func (s *Signer) Sign(message []byte, privateKey *PrivateKey) (*Signature, error) {
	if len(message) == 0 {
		return nil, ErrEmptyMessage
	}
	return s.SignDigest(s.hasher.Digest(message), privateKey)
}

// SignDigest signs a precomputed digest.
//
// The algorithm is the usual one (GECC algorithm 4.29):
//
//  1. k = nonce in [1, N-1]
//  2. R = kG
//  3. r = R.x mod N, retry if r == 0
//  4. s = k^-1(e + dr) mod N, retry if s == 0
//  5. s = N - s if s > N/2
//
// The recovery id records the parity of R.y (flipped when s is negated,
// since -k yields -R) and whether R.x was reduced in step 3.
func (s *Signer) SignDigest(digest Digest, privateKey *PrivateKey) (*Signature, error) {
	if privateKey == nil || privateKey.key.IsZero() {
		return nil, fmt.Errorf("%w: private key is zero", ErrInvalidKey)
	}

	privKeyBytes := privateKey.key.Bytes()
	defer clear(privKeyBytes[:])

	e := digest.scalar()
	for attempt := uint32(0); attempt < maxNonceAttempts; attempt++ {
		k, err := s.nonce.Nonce(&privKeyBytes, digest, attempt)
		if err != nil {
			return nil, fmt.Errorf("nonce strategy %s: %w", s.nonce.Name(), err)
		}
		sig, err := signWithNonce(&privateKey.key, &e, k)
		k.Zero()
		if err != nil {
			continue
		}
		return sig, nil
	}
	return nil, fmt.Errorf("%w: no usable nonce after %d attempts", ErrDegenerateNonce, maxNonceAttempts)
}

// signWithNonce runs one signing attempt. It returns ErrDegenerateNonce
// when k, r or s is zero.
func signWithNonce(d, e, k *secp256k1.ModNScalar) (*Signature, error) {
	if k.IsZero() {
		return nil, ErrDegenerateNonce
	}

	var kG secp256k1.JacobianPoint
	secp256k1.ScalarBaseMultNonConst(k, &kG)
	kG.ToAffine()

	var r secp256k1.ModNScalar
	overflow := r.SetBytes(kG.X.Bytes())
	if r.IsZero() {
		return nil, ErrDegenerateNonce
	}

	var recoveryID byte
	if overflow != 0 {
		recoveryID |= recoveryIDOverflowBit
	}
	if kG.Y.IsOdd() {
		recoveryID |= recoveryIDOddBit
	}

	kInv := new(secp256k1.ModNScalar).InverseValNonConst(k)
	sc := new(secp256k1.ModNScalar).Mul2(d, &r).Add(e).Mul(kInv)
	kInv.Zero()
	if sc.IsZero() {
		return nil, ErrDegenerateNonce
	}
	if sc.IsOverHalfOrder() {
		sc.Negate()
		recoveryID ^= recoveryIDOddBit
	}

	return &Signature{r: r, s: *sc, recoveryID: recoveryID, hasRecoveryID: true}, nil
}
