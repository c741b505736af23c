package ecdsarecover

import (
	"crypto/ecdsa"
	"fmt"
	"strings"

	"github.com/decred/dcrd/dcrec/secp256k1/v4"
	"github.com/rs/zerolog"
)

// PrivateKeySize is the length in bytes of a serialized private scalar.
const PrivateKeySize = 32

const redacted = "[REDACTED]"

// PointFormat selects how public keys are serialized.
type PointFormat int

const (
	// PointCompressed is the 33-byte SEC1 form: 0x02/0x03 prefix and x.
	PointCompressed PointFormat = iota
	// PointUncompressed is the 65-byte SEC1 form: 0x04 prefix, x and y.
	PointUncompressed
	// PointRaw is the 64-byte x||y form without a prefix byte.
	PointRaw
)

// String returns the configuration name of the format.
func (f PointFormat) String() string {
	switch f {
	case PointCompressed:
		return "compressed"
	case PointUncompressed:
		return "uncompressed"
	case PointRaw:
		return "raw"
	default:
		return fmt.Sprintf("PointFormat(%d)", int(f))
	}
}

// Size returns the serialized length of a public key in this format.
func (f PointFormat) Size() int {
	switch f {
	case PointCompressed:
		return secp256k1.PubKeyBytesLenCompressed
	case PointUncompressed:
		return secp256k1.PubKeyBytesLenUncompressed
	case PointRaw:
		return secp256k1.PubKeyBytesLenUncompressed - 1
	default:
		return 0
	}
}

// ParsePointFormat parses a format name as returned by PointFormat.String.
func ParsePointFormat(name string) (PointFormat, error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "compressed", "":
		return PointCompressed, nil
	case "uncompressed":
		return PointUncompressed, nil
	case "raw":
		return PointRaw, nil
	default:
		return 0, fmt.Errorf("unknown point format %q", name)
	}
}

// PrivateKey is a secret scalar in [1, N-1]. It never prints its value:
// String, Format and zerolog marshaling all emit a redaction marker.
type PrivateKey struct {
	key secp256k1.ModNScalar
}

// ParsePrivateKey parses a 32-byte big-endian scalar.
func ParsePrivateKey(b []byte) (*PrivateKey, error) {
	if len(b) != PrivateKeySize {
		return nil, fmt.Errorf("%w: private key must be %d bytes, got %d", ErrInvalidKey, PrivateKeySize, len(b))
	}
	var k PrivateKey
	if overflow := k.key.SetByteSlice(b); overflow {
		k.key.Zero()
		return nil, fmt.Errorf("%w: private key is not below the curve order", ErrInvalidKey)
	}
	if k.key.IsZero() {
		return nil, fmt.Errorf("%w: private key is zero", ErrInvalidKey)
	}
	return &k, nil
}

// ParsePrivateKeyHex parses a hex-encoded 32-byte private key.
func ParsePrivateKeyHex(text string) (*PrivateKey, error) {
	b, err := DecodeHexFixed(text, PrivateKeySize)
	if err != nil {
		return nil, err
	}
	defer clear(b)
	return ParsePrivateKey(b)
}

// PublicKey derives the public point d·G.
func (k *PrivateKey) PublicKey() *PublicKey {
	var p secp256k1.JacobianPoint
	secp256k1.ScalarBaseMultNonConst(&k.key, &p)
	p.ToAffine()
	return &PublicKey{key: secp256k1.NewPublicKey(&p.X, &p.Y)}
}

// Zero clears the scalar. The key must not be used afterwards.
func (k *PrivateKey) Zero() {
	k.key.Zero()
}

// String implements fmt.Stringer without revealing the key.
func (PrivateKey) String() string {
	return redacted
}

// Format implements fmt.Formatter so that every verb, including %x and %#v,
// prints the redaction marker for both keys and dereferenced key values.
func (PrivateKey) Format(f fmt.State, _ rune) {
	_, _ = f.Write([]byte(redacted))
}

// MarshalZerologObject implements zerolog.LogObjectMarshaler.
func (PrivateKey) MarshalZerologObject(e *zerolog.Event) {
	e.Str("private_key", redacted)
}

// PublicKey is a secp256k1 point other than the point at infinity.
type PublicKey struct {
	key *secp256k1.PublicKey
}

// ParsePublicKey parses a compressed (33 bytes), uncompressed (65 bytes) or
// raw x||y (64 bytes) public key and checks that it lies on the curve. The
// hybrid 0x06/0x07 encoding is rejected.
func ParsePublicKey(b []byte) (*PublicKey, error) {
	switch len(b) {
	case PointRaw.Size():
		prefixed := make([]byte, 0, PointUncompressed.Size())
		prefixed = append(prefixed, secp256k1.PubKeyFormatUncompressed)
		b = append(prefixed, b...)
	case PointUncompressed.Size():
		// ParsePubKey also takes the hybrid 0x06/0x07 form.
		if b[0] != secp256k1.PubKeyFormatUncompressed {
			return nil, fmt.Errorf("%w: unsupported public key prefix 0x%02x", ErrInvalidKey, b[0])
		}
	case PointCompressed.Size():
	default:
		return nil, fmt.Errorf("%w: unsupported public key length %d", ErrInvalidKey, len(b))
	}
	key, err := secp256k1.ParsePubKey(b)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidKey, err)
	}
	return &PublicKey{key: key}, nil
}

// ParsePublicKeyHex parses a hex-encoded public key in any supported format.
// A decoded length that matches no format is reported as ErrMalformedHex.
func ParsePublicKeyHex(text string) (*PublicKey, error) {
	b, err := DecodeHex(text)
	if err != nil {
		return nil, err
	}
	switch len(b) {
	case PointCompressed.Size(), PointUncompressed.Size(), PointRaw.Size():
	default:
		return nil, fmt.Errorf("%w: public key must be 33, 64 or 65 bytes, got %d", ErrMalformedHex, len(b))
	}
	return ParsePublicKey(b)
}

// Serialize encodes the key in the given format. Unknown formats fall back
// to compressed.
func (p *PublicKey) Serialize(format PointFormat) []byte {
	switch format {
	case PointUncompressed:
		return p.key.SerializeUncompressed()
	case PointRaw:
		return p.key.SerializeUncompressed()[1:]
	default:
		return p.key.SerializeCompressed()
	}
}

// IsEqual reports whether both keys are the same point.
func (p *PublicKey) IsEqual(other *PublicKey) bool {
	if p == nil || other == nil {
		return p == other
	}
	return p.key.IsEqual(other.key)
}

// ToECDSA returns the key as a crypto/ecdsa public key.
func (p *PublicKey) ToECDSA() *ecdsa.PublicKey {
	return p.key.ToECDSA()
}

// String returns the compressed encoding as hex.
func (p *PublicKey) String() string {
	return EncodeHex(p.Serialize(PointCompressed))
}
