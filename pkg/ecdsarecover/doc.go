// Package ecdsarecover provides ECDSA signing, verification and public key
// recovery over secp256k1 with SHA-256 message digests.
//
// Signatures are low-s and carry a 2-bit recovery id (bit 0: parity of the
// nonce point's y coordinate, bit 1: its x coordinate was reduced modulo the
// group order), which lets the signer's public key be rebuilt from the
// signature and message alone with a fixed amount of curve arithmetic.
//
// # Quick Start
//
//	import "github.com/mahdiidarabi/secp256k1-recover/pkg/ecdsarecover"
//
//	client := ecdsarecover.NewClient()
//
//	sigHex, err := client.SignHex([]byte("abc"), privateKeyHex)
//	if err != nil {
//	    log.Fatal(err)
//	}
//
//	pubHex, err := client.RecoverPublicKeyHex([]byte("abc"), sigHex)
//	if err != nil {
//	    log.Fatal(err)
//	}
//
// # Wire Format
//
// Signatures are r||s||recovery_id: 65 bytes, 130 hex digits. Public keys
// are emitted compressed (33 bytes) unless configured otherwise:
//
//	client := ecdsarecover.NewClient().WithPointFormat(ecdsarecover.PointUncompressed)
//
// Hex input may carry a 0x prefix; output never does.
//
// # Errors
//
// Failures are returned as errors matching one of the package sentinels
// (ErrMalformedHex, ErrInvalidKey, ErrInvalidSignatureEncoding,
// ErrRecoveryFailed, ErrMissingRecoveryID, ErrEmptyMessage). A structurally
// valid signature that does not verify is reported as false, not as an
// error.
//
// # Custom Nonces
//
// Signing uses RFC 6979 deterministic nonces by default. Implement the
// NonceStrategy interface to supply another source:
//
//	type MyNonce struct{}
//
//	func (MyNonce) Nonce(privKey *[32]byte, digest Digest, attempt uint32) (*secp256k1.ModNScalar, error) {
//	    // derive a scalar in [1, N-1]
//	}
//
//	func (MyNonce) Name() string { return "mine" }
//
//	client := ecdsarecover.NewClient().WithNonceStrategy(MyNonce{})
package ecdsarecover
