package ecdsarecover

import (
	"fmt"

	"github.com/rs/zerolog"
)

// Client provides the hex-facing API: messages go in as bytes, keys and
// signatures as hex text, and results come back as hex or booleans.
// A configured Client is safe for concurrent use; the With methods are
// meant for setup only.
type Client struct {
	hasher    Hasher
	signer    *Signer
	verifier  *Verifier
	recoverer *Recoverer
	format    PointFormat
	workers   int
	logger    zerolog.Logger
}

// NewClient creates a client with default settings: deterministic nonces,
// compressed public keys, one batch worker per CPU and no logging.
func NewClient() *Client {
	return &Client{
		signer:    NewSigner(),
		verifier:  NewVerifier(),
		recoverer: NewRecoverer(),
		format:    PointCompressed,
		logger:    zerolog.Nop(),
	}
}

// WithPointFormat sets the encoding of recovered and derived public keys.
func (c *Client) WithPointFormat(format PointFormat) *Client {
	c.format = format
	return c
}

// WithNonceStrategy sets the nonce strategy used for signing.
func (c *Client) WithNonceStrategy(strategy NonceStrategy) *Client {
	c.signer.WithNonceStrategy(strategy)
	return c
}

// WithWorkers sets the number of batch workers (0 = one per CPU).
func (c *Client) WithWorkers(workers int) *Client {
	c.workers = workers
	return c
}

// WithLogger sets the logger used by batch operations.
func (c *Client) WithLogger(logger zerolog.Logger) *Client {
	c.logger = logger
	return c
}

// PointFormat returns the configured public key encoding.
func (c *Client) PointFormat() PointFormat {
	return c.format
}

// SHA256Hex returns the SHA-256 digest of input as 64 lowercase hex digits.
func (c *Client) SHA256Hex(input []byte) string {
	return c.hasher.Digest(input).String()
}

// CheckDigestHex reports whether input hashes to expectedHex, comparing in
// constant time.
func (c *Client) CheckDigestHex(input []byte, expectedHex string) (bool, error) {
	b, err := DecodeHexFixed(expectedHex, DigestSize)
	if err != nil {
		return false, err
	}
	return c.hasher.VerifyDigest(input, Digest(b)), nil
}

// SignHex signs message and returns r||s||recovery_id as 130 hex digits.
func (c *Client) SignHex(message []byte, privateKeyHex string) (string, error) {
	if len(message) == 0 {
		return "", ErrEmptyMessage
	}
	key, err := ParsePrivateKeyHex(privateKeyHex)
	if err != nil {
		return "", fmt.Errorf("failed to parse private key: %w", err)
	}
	defer key.Zero()

	sig, err := c.signer.Sign(message, key)
	if err != nil {
		return "", fmt.Errorf("failed to sign: %w", err)
	}
	return EncodeHex(sig.Serialize()), nil
}

// VerifyHex checks a hex signature (64 or 65 bytes) of message against a
// hex public key (33, 64 or 65 bytes). A well-formed signature that does
// not verify returns (false, nil).
func (c *Client) VerifyHex(message []byte, publicKeyHex, signatureHex string) (bool, error) {
	if len(message) == 0 {
		return false, ErrEmptyMessage
	}
	pub, err := ParsePublicKeyHex(publicKeyHex)
	if err != nil {
		return false, fmt.Errorf("failed to parse public key: %w", malformed(err))
	}
	sig, err := ParseSignatureHex(signatureHex)
	if err != nil {
		return false, fmt.Errorf("failed to parse signature: %w", malformed(err))
	}
	return c.verifier.Verify(message, pub, sig)
}

// RecoverPublicKeyHex recovers the signer's public key from message and a
// 65-byte hex signature, encoded in the configured point format.
func (c *Client) RecoverPublicKeyHex(message []byte, signatureHex string) (string, error) {
	if len(message) == 0 {
		return "", ErrEmptyMessage
	}
	sig, err := ParseRecoverableSignatureHex(signatureHex)
	if err != nil {
		return "", fmt.Errorf("failed to parse signature: %w", err)
	}
	pub, err := c.recoverer.RecoverPublicKey(message, sig)
	if err != nil {
		return "", err
	}
	return EncodeHex(pub.Serialize(c.format)), nil
}

// PublicKeyHex derives the public key of a hex private key, encoded in the
// configured point format.
func (c *Client) PublicKeyHex(privateKeyHex string) (string, error) {
	key, err := ParsePrivateKeyHex(privateKeyHex)
	if err != nil {
		return "", fmt.Errorf("failed to parse private key: %w", err)
	}
	defer key.Zero()
	return EncodeHex(key.PublicKey().Serialize(c.format)), nil
}

// SHA256Hex hashes input with a default client.
func SHA256Hex(input []byte) string {
	return NewClient().SHA256Hex(input)
}

// SignHex signs with a default client (deterministic nonces).
func SignHex(message []byte, privateKeyHex string) (string, error) {
	return NewClient().SignHex(message, privateKeyHex)
}

// VerifyHex verifies with a default client.
func VerifyHex(message []byte, publicKeyHex, signatureHex string) (bool, error) {
	return NewClient().VerifyHex(message, publicKeyHex, signatureHex)
}

// RecoverPublicKeyHex recovers with a default client (compressed output).
func RecoverPublicKeyHex(message []byte, signatureHex string) (string, error) {
	return NewClient().RecoverPublicKeyHex(message, signatureHex)
}
