package ecdsarecover

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHasher_Digest(t *testing.T) {
	tests := []struct {
		name  string
		input []byte
		want  string
	}{
		{"empty input", []byte{}, emptySHA256Hex},
		{"nil input", nil, emptySHA256Hex},
		{"abc", []byte("abc"), abcSHA256Hex},
		{"two blocks", []byte("abcdbcdecdefdefgefghfghighijhijkijkljklmklmnlmnomnopnopq"),
			"248d6a61d20638b8e5c026930c3e6039a33ce45964ff2167f6ecedd419db06c1"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			digest := Hasher{}.Digest(tt.input)
			assert.Equal(t, tt.want, digest.String())
			assert.Len(t, digest, DigestSize)
		})
	}
}

func TestHasher_Deterministic(t *testing.T) {
	message := []byte("test message")

	assert.Equal(t, HashMessage(message), HashMessage(message))
	assert.NotEqual(t, HashMessage(message), HashMessage([]byte("different message")))
}

func TestHasher_VerifyDigest(t *testing.T) {
	var h Hasher
	expected := h.Digest([]byte("abc"))

	assert.True(t, h.VerifyDigest([]byte("abc"), expected))
	assert.False(t, h.VerifyDigest([]byte("abd"), expected))

	var tampered Digest
	copy(tampered[:], expected[:])
	tampered[DigestSize-1] ^= 0x01
	assert.False(t, h.VerifyDigest([]byte("abc"), tampered))

	empty, err := DecodeHexFixed(emptySHA256Hex, DigestSize)
	require.NoError(t, err)
	assert.True(t, h.VerifyDigest(nil, Digest(empty)))
}
