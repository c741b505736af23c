package ecdsarecover

import (
	"testing"

	"github.com/stretchr/testify/require"
)

// Fixed secp256k1 keys for deterministic tests (NOT FOR PRODUCTION USE).
const (
	keyOneHex       = "0000000000000000000000000000000000000000000000000000000000000001"
	keyTwoHex       = "0000000000000000000000000000000000000000000000000000000000000002"
	keyOrderLessHex = "fffffffffffffffffffffffffffffffebaaedce6af48a03bbfd25e8cd0364140"
	curveOrderHex   = "fffffffffffffffffffffffffffffffebaaedce6af48a03bbfd25e8cd0364141"
	testKeyHex      = "eec2b599b65b98f05093057ebcd04695f203ef42a6ae5db65f52e227d4dc8db5"
	otherKeyHex     = "eec2b599b65b98f05093057ebcd04695f203ef42a6ae5db65f52e20000000000"

	generatorCompressedHex    = "0279be667ef9dcbbac55a06295ce870b07029bfcdb2dce28d959f2815b16f81798"
	generatorUncompressedHex  = "0479be667ef9dcbbac55a06295ce870b07029bfcdb2dce28d959f2815b16f81798483ada7726a3c4655da4fbfc0e1108a8fd17b448a68554199c47d08ffb10d4b8"
	negGeneratorCompressedHex = "0379be667ef9dcbbac55a06295ce870b07029bfcdb2dce28d959f2815b16f81798"
	twoGCompressedHex         = "02c6047f9441ed7d6d3045406e95c07cd85c778e4b8cef3ca7abac09b95c709ee5"

	emptySHA256Hex = "e3b0c44298fc1c149afbf4c8996fb92427ae41e4649b934ca495991b7852b855"
	abcSHA256Hex   = "ba7816bf8f01cfea414140de5dae2223b00361a396177a9cb410ff61f20015ad"
)

var testKeyHexes = []string{keyOneHex, keyTwoHex, keyOrderLessHex, testKeyHex, otherKeyHex}

var testMessages = [][]byte{
	[]byte("abc"),
	[]byte("test message"),
	{0x00},
	[]byte("The quick brown fox jumps over the lazy dog"),
}

func mustPrivateKey(t *testing.T, keyHex string) *PrivateKey {
	t.Helper()
	key, err := ParsePrivateKeyHex(keyHex)
	require.NoError(t, err)
	return key
}

func mustSign(t *testing.T, message []byte, key *PrivateKey) *Signature {
	t.Helper()
	sig, err := NewSigner().Sign(message, key)
	require.NoError(t, err)
	return sig
}

// flipBit returns a copy of b with one bit inverted.
func flipBit(b []byte, byteIdx int, bit uint) []byte {
	out := append([]byte(nil), b...)
	out[byteIdx] ^= 1 << bit
	return out
}
