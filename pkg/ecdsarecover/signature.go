package ecdsarecover

import (
	"fmt"

	"github.com/decred/dcrd/dcrec/secp256k1/v4"
	"github.com/decred/dcrd/dcrec/secp256k1/v4/ecdsa"
)

const (
	// SignatureSize is the length of a recoverable signature: r||s||recovery_id.
	SignatureSize = 65

	// CompactSignatureSize is the length of a signature without recovery id: r||s.
	CompactSignatureSize = 64

	// MaxRecoveryID is the largest valid recovery id.
	MaxRecoveryID = 3

	scalarSize = 32
)

// Recovery id bits. Bit 0 carries the parity of R.y, bit 1 records that R.x
// was not below the curve order and was reduced.
const (
	recoveryIDOddBit      = 1 << 0
	recoveryIDOverflowBit = 1 << 1
)

// Signature is an ECDSA signature with an optional recovery id. r and s are
// always in [1, N-1].
type Signature struct {
	r, s          secp256k1.ModNScalar
	recoveryID    byte
	hasRecoveryID bool
}

// NewSignature builds a signature without recovery id.
func NewSignature(r, s *secp256k1.ModNScalar) (*Signature, error) {
	if r.IsZero() || s.IsZero() {
		return nil, fmt.Errorf("%w: r and s must be non-zero", ErrInvalidSignatureEncoding)
	}
	return &Signature{r: *r, s: *s}, nil
}

// NewRecoverableSignature builds a signature carrying a recovery id.
func NewRecoverableSignature(r, s *secp256k1.ModNScalar, recoveryID byte) (*Signature, error) {
	if recoveryID > MaxRecoveryID {
		return nil, fmt.Errorf("%w: recovery id %d out of range [0, %d]", ErrInvalidSignatureEncoding, recoveryID, MaxRecoveryID)
	}
	sig, err := NewSignature(r, s)
	if err != nil {
		return nil, err
	}
	sig.recoveryID = recoveryID
	sig.hasRecoveryID = true
	return sig, nil
}

// ParseSignature parses r||s (64 bytes) or r||s||recovery_id (65 bytes).
// All range checks happen here, before any curve arithmetic.
func ParseSignature(b []byte) (*Signature, error) {
	if len(b) != SignatureSize && len(b) != CompactSignatureSize {
		return nil, fmt.Errorf("%w: signature must be %d or %d bytes, got %d",
			ErrInvalidSignatureEncoding, CompactSignatureSize, SignatureSize, len(b))
	}

	var sig Signature
	if overflow := sig.r.SetByteSlice(b[:scalarSize]); overflow {
		return nil, fmt.Errorf("%w: r is not below the curve order", ErrInvalidSignatureEncoding)
	}
	if sig.r.IsZero() {
		return nil, fmt.Errorf("%w: r is zero", ErrInvalidSignatureEncoding)
	}
	if overflow := sig.s.SetByteSlice(b[scalarSize : 2*scalarSize]); overflow {
		return nil, fmt.Errorf("%w: s is not below the curve order", ErrInvalidSignatureEncoding)
	}
	if sig.s.IsZero() {
		return nil, fmt.Errorf("%w: s is zero", ErrInvalidSignatureEncoding)
	}

	if len(b) == SignatureSize {
		id := b[2*scalarSize]
		if id > MaxRecoveryID {
			return nil, fmt.Errorf("%w: recovery id %d out of range [0, %d]", ErrInvalidSignatureEncoding, id, MaxRecoveryID)
		}
		sig.recoveryID = id
		sig.hasRecoveryID = true
	}
	return &sig, nil
}

// ParseSignatureHex parses a hex-encoded signature of 64 or 65 bytes.
func ParseSignatureHex(text string) (*Signature, error) {
	b, err := DecodeHex(text)
	if err != nil {
		return nil, err
	}
	if len(b) != SignatureSize && len(b) != CompactSignatureSize {
		return nil, fmt.Errorf("%w: signature must be %d or %d bytes, got %d",
			ErrMalformedHex, CompactSignatureSize, SignatureSize, len(b))
	}
	return ParseSignature(b)
}

// ParseRecoverableSignatureHex parses a hex-encoded r||s||recovery_id
// signature. Any other decoded length is ErrMalformedHex.
func ParseRecoverableSignatureHex(text string) (*Signature, error) {
	b, err := DecodeHexFixed(text, SignatureSize)
	if err != nil {
		return nil, err
	}
	return ParseSignature(b)
}

// ParseDERSignature parses an ASN.1 DER encoded (r, s) pair. The result has
// no recovery id.
func ParseDERSignature(der []byte) (*Signature, error) {
	parsed, err := ecdsa.ParseDERSignature(der)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidSignatureEncoding, err)
	}
	r, s := parsed.R(), parsed.S()
	return NewSignature(&r, &s)
}

// R returns the r component.
func (sig *Signature) R() secp256k1.ModNScalar {
	return sig.r
}

// S returns the s component.
func (sig *Signature) S() secp256k1.ModNScalar {
	return sig.s
}

// RecoveryID returns the recovery id and whether the signature carries one.
func (sig *Signature) RecoveryID() (byte, bool) {
	return sig.recoveryID, sig.hasRecoveryID
}

// Serialize returns r||s||recovery_id, or r||s when there is no recovery id.
func (sig *Signature) Serialize() []byte {
	size := CompactSignatureSize
	if sig.hasRecoveryID {
		size = SignatureSize
	}
	b := make([]byte, size)
	rBytes, sBytes := sig.r.Bytes(), sig.s.Bytes()
	copy(b[:scalarSize], rBytes[:])
	copy(b[scalarSize:2*scalarSize], sBytes[:])
	if sig.hasRecoveryID {
		b[2*scalarSize] = sig.recoveryID
	}
	return b
}

// SerializeDER returns the DER encoding of (r, s). The encoder emits the
// low-s form, so a high-s signature is normalized.
func (sig *Signature) SerializeDER() []byte {
	return ecdsa.NewSignature(&sig.r, &sig.s).Serialize()
}

// IsEqual reports whether both signatures have the same r, s and recovery id.
func (sig *Signature) IsEqual(other *Signature) bool {
	return sig.r.Equals(&other.r) && sig.s.Equals(&other.s) &&
		sig.hasRecoveryID == other.hasRecoveryID && sig.recoveryID == other.recoveryID
}

// String returns the serialized signature as hex.
func (sig *Signature) String() string {
	return EncodeHex(sig.Serialize())
}
