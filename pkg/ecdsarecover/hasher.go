package ecdsarecover

import (
	"crypto/sha256"
	"crypto/subtle"
	"encoding/hex"

	"github.com/decred/dcrd/dcrec/secp256k1/v4"
)

// DigestSize is the length in bytes of a SHA-256 digest.
const DigestSize = sha256.Size

// Digest is a SHA-256 output.
type Digest [DigestSize]byte

// String returns the digest as lowercase hex.
func (d Digest) String() string {
	return hex.EncodeToString(d[:])
}

// scalar returns the digest as an integer reduced modulo the curve order.
func (d Digest) scalar() secp256k1.ModNScalar {
	var e secp256k1.ModNScalar
	e.SetByteSlice(d[:])
	return e
}

// Hasher computes message digests. The zero value is ready to use and is
// safe for concurrent use.
type Hasher struct{}

// Digest hashes data with SHA-256. It is total: an empty input yields the
// digest of the empty string.
func (Hasher) Digest(data []byte) Digest {
	return sha256.Sum256(data)
}

// VerifyDigest reports whether data hashes to expected. The comparison runs
// in constant time.
func (h Hasher) VerifyDigest(data []byte, expected Digest) bool {
	actual := h.Digest(data)
	return subtle.ConstantTimeCompare(actual[:], expected[:]) == 1
}

// HashMessage hashes a message using SHA-256.
func HashMessage(message []byte) Digest {
	return Hasher{}.Digest(message)
}
