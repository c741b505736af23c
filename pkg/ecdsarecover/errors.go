package ecdsarecover

import (
	"errors"
	"fmt"
)

// Error kinds returned by the package. All of them can be matched with
// errors.Is; wrapped errors keep the original kind in their chain.
var (
	// ErrMalformedHex is returned for non-hex characters, an odd number of
	// hex digits, or a decoded length that does not match a fixed-size field.
	ErrMalformedHex = errors.New("malformed hex")

	// ErrInvalidKey is returned for a private key that is zero or not below
	// the curve order, and for a public key that is not a point on the curve.
	ErrInvalidKey = errors.New("invalid key")

	// ErrInvalidSignatureEncoding is returned when r or s is zero or not
	// below the curve order, or when the recovery id is outside [0, 3].
	ErrInvalidSignatureEncoding = errors.New("invalid signature encoding")

	// ErrDegenerateNonce marks a nonce that produced r == 0 or s == 0.
	// Signing retries internally and only reports it when a nonce strategy
	// keeps producing unusable nonces.
	ErrDegenerateNonce = errors.New("degenerate nonce")

	// ErrRecoveryFailed is returned when the signature does not describe a
	// point on the curve or the reconstructed key does not verify.
	ErrRecoveryFailed = errors.New("public key recovery failed")

	// ErrMissingRecoveryID is returned when recovery is attempted with a
	// signature that carries no recovery id.
	ErrMissingRecoveryID = errors.New("signature has no recovery id")

	// ErrEmptyMessage rejects zero-length messages at sign, verify and
	// recover. Hashing an empty input is legal.
	ErrEmptyMessage = errors.New("message is empty")

	// ErrMalformedInput wraps structural verification failures so callers
	// can tell "bad input" apart from "signature does not verify".
	ErrMalformedInput = errors.New("malformed input")
)

// malformed tags err as a structural input failure while keeping its kind.
func malformed(err error) error {
	return fmt.Errorf("%w: %w", ErrMalformedInput, err)
}
