package ecdsarecover

import (
	"testing"

	"github.com/decred/dcrd/dcrec/secp256k1/v4/ecdsa"
	ethcrypto "github.com/ethereum/go-ethereum/crypto"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestVerifier_ValidSignatures(t *testing.T) {
	verifier := NewVerifier()

	for _, keyHex := range testKeyHexes {
		for _, message := range testMessages {
			key := mustPrivateKey(t, keyHex)
			sig := mustSign(t, message, key)

			valid, err := verifier.Verify(message, key.PublicKey(), sig)
			require.NoError(t, err)
			assert.True(t, valid, "key %s message %q", keyHex, message)
		}
	}
}

func TestVerifier_Rejects(t *testing.T) {
	key := mustPrivateKey(t, testKeyHex)
	message := []byte("abc")
	sig := mustSign(t, message, key)
	raw := sig.Serialize()

	tamperedR, err := ParseSignature(flipBit(raw, scalarSize-1, 0))
	require.NoError(t, err)
	tamperedS, err := ParseSignature(flipBit(raw, 2*scalarSize-1, 0))
	require.NoError(t, err)

	tests := []struct {
		name    string
		message []byte
		pub     *PublicKey
		sig     *Signature
	}{
		{"wrong message", []byte("abd"), key.PublicKey(), sig},
		{"wrong key", message, mustPrivateKey(t, otherKeyHex).PublicKey(), sig},
		{"tampered r", message, key.PublicKey(), tamperedR},
		{"tampered s", message, key.PublicKey(), tamperedS},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			valid, err := NewVerifier().Verify(tt.message, tt.pub, tt.sig)
			require.NoError(t, err)
			assert.False(t, valid)
		})
	}
}

func TestVerifier_AcceptsHighS(t *testing.T) {
	key := mustPrivateKey(t, testKeyHex)
	sig := mustSign(t, []byte("abc"), key)

	r, s := sig.R(), sig.S()
	s.Negate()
	require.True(t, s.IsOverHalfOrder())
	highS, err := NewSignature(&r, &s)
	require.NoError(t, err)

	valid, err := NewVerifier().Verify([]byte("abc"), key.PublicKey(), highS)
	require.NoError(t, err)
	assert.True(t, valid)
}

func TestVerifier_CompactSignature(t *testing.T) {
	key := mustPrivateKey(t, testKeyHex)
	sig := mustSign(t, []byte("abc"), key)

	compact, err := ParseSignature(sig.Serialize()[:CompactSignatureSize])
	require.NoError(t, err)

	valid, err := NewVerifier().Verify([]byte("abc"), key.PublicKey(), compact)
	require.NoError(t, err)
	assert.True(t, valid)
}

func TestVerifier_MalformedInput(t *testing.T) {
	key := mustPrivateKey(t, testKeyHex)
	sig := mustSign(t, []byte("abc"), key)

	_, err := NewVerifier().Verify([]byte("abc"), nil, sig)
	require.ErrorIs(t, err, ErrMalformedInput)
	require.ErrorIs(t, err, ErrInvalidKey)

	_, err = NewVerifier().Verify([]byte("abc"), &PublicKey{}, sig)
	require.ErrorIs(t, err, ErrMalformedInput)

	_, err = NewVerifier().Verify([]byte("abc"), key.PublicKey(), nil)
	require.ErrorIs(t, err, ErrMalformedInput)
	require.ErrorIs(t, err, ErrInvalidSignatureEncoding)

	_, err = NewVerifier().Verify(nil, key.PublicKey(), sig)
	require.ErrorIs(t, err, ErrEmptyMessage)
	assert.NotErrorIs(t, err, ErrMalformedInput)
}

func TestVerifier_Interop(t *testing.T) {
	for _, keyHex := range testKeyHexes {
		key := mustPrivateKey(t, keyHex)
		pub := key.PublicKey()
		digest := HashMessage([]byte("interop"))
		sig := mustSign(t, []byte("interop"), key)

		r, s := sig.R(), sig.S()
		assert.True(t, ecdsa.NewSignature(&r, &s).Verify(digest[:], pub.key), "decred, key %s", keyHex)
		assert.True(t, ethcrypto.VerifySignature(pub.Serialize(PointUncompressed), digest[:], sig.Serialize()[:CompactSignatureSize]),
			"go-ethereum, key %s", keyHex)

		keyBytes, err := DecodeHex(keyHex)
		require.NoError(t, err)
		ethKey, err := ethcrypto.ToECDSA(keyBytes)
		require.NoError(t, err)
		ethSig, err := ethcrypto.Sign(digest[:], ethKey)
		require.NoError(t, err)

		parsed, err := ParseSignature(ethSig)
		require.NoError(t, err)
		valid, err := NewVerifier().VerifyDigest(digest, pub, parsed)
		require.NoError(t, err)
		assert.True(t, valid, "go-ethereum signature, key %s", keyHex)
	}
}
