package ecdsarecover

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestClient_SHA256Hex(t *testing.T) {
	client := NewClient()

	assert.Equal(t, emptySHA256Hex, client.SHA256Hex(nil))
	assert.Equal(t, abcSHA256Hex, client.SHA256Hex([]byte("abc")))
	assert.Equal(t, abcSHA256Hex, SHA256Hex([]byte("abc")))
}

func TestClient_CheckDigestHex(t *testing.T) {
	client := NewClient()

	ok, err := client.CheckDigestHex([]byte("abc"), abcSHA256Hex)
	require.NoError(t, err)
	assert.True(t, ok)

	ok, err = client.CheckDigestHex([]byte("abc"), "0x"+strings.ToUpper(abcSHA256Hex))
	require.NoError(t, err)
	assert.True(t, ok)

	ok, err = client.CheckDigestHex([]byte("abd"), abcSHA256Hex)
	require.NoError(t, err)
	assert.False(t, ok)

	_, err = client.CheckDigestHex([]byte("abc"), abcSHA256Hex[:60])
	require.ErrorIs(t, err, ErrMalformedHex)
}

func TestClient_SignVerifyRecover(t *testing.T) {
	for _, keyHex := range testKeyHexes {
		for _, format := range []PointFormat{PointCompressed, PointUncompressed, PointRaw} {
			t.Run(keyHex[:8]+"/"+format.String(), func(t *testing.T) {
				client := NewClient().WithPointFormat(format)
				message := []byte("hello world")

				sigHex, err := client.SignHex(message, keyHex)
				require.NoError(t, err)
				assert.Len(t, sigHex, 2*SignatureSize)
				assert.Equal(t, strings.ToLower(sigHex), sigHex)

				pubHex, err := client.PublicKeyHex(keyHex)
				require.NoError(t, err)
				assert.Len(t, pubHex, 2*format.Size())

				valid, err := client.VerifyHex(message, pubHex, sigHex)
				require.NoError(t, err)
				assert.True(t, valid)

				recovered, err := client.RecoverPublicKeyHex(message, sigHex)
				require.NoError(t, err)
				assert.Equal(t, pubHex, recovered)

				valid, err = client.VerifyHex([]byte("hello world!"), pubHex, sigHex)
				require.NoError(t, err)
				assert.False(t, valid)
			})
		}
	}
}

func TestClient_KeyOne(t *testing.T) {
	sigHex, err := SignHex([]byte("abc"), keyOneHex)
	require.NoError(t, err)

	pubHex, err := RecoverPublicKeyHex([]byte("abc"), sigHex)
	require.NoError(t, err)
	assert.Equal(t, generatorCompressedHex, pubHex)

	uncompressed, err := NewClient().WithPointFormat(PointUncompressed).RecoverPublicKeyHex([]byte("abc"), sigHex)
	require.NoError(t, err)
	assert.Equal(t, generatorUncompressedHex, uncompressed)

	valid, err := VerifyHex([]byte("abc"), generatorCompressedHex, sigHex)
	require.NoError(t, err)
	assert.True(t, valid)
}

func TestClient_VerifyHexInputs(t *testing.T) {
	client := NewClient()
	message := []byte("abc")
	sigHex, err := client.SignHex(message, testKeyHex)
	require.NoError(t, err)
	pubHex, err := client.PublicKeyHex(testKeyHex)
	require.NoError(t, err)

	t.Run("0x prefixes", func(t *testing.T) {
		valid, err := client.VerifyHex(message, "0x"+pubHex, "0x"+sigHex)
		require.NoError(t, err)
		assert.True(t, valid)
	})

	t.Run("compact signature", func(t *testing.T) {
		valid, err := client.VerifyHex(message, pubHex, sigHex[:2*CompactSignatureSize])
		require.NoError(t, err)
		assert.True(t, valid)
	})

	t.Run("other key", func(t *testing.T) {
		otherPub, err := client.PublicKeyHex(otherKeyHex)
		require.NoError(t, err)
		valid, err := client.VerifyHex(message, otherPub, sigHex)
		require.NoError(t, err)
		assert.False(t, valid)
	})

	tests := []struct {
		name    string
		message []byte
		pubHex  string
		sigHex  string
		wantErr []error
	}{
		{"empty message", nil, pubHex, sigHex, []error{ErrEmptyMessage}},
		{"public key not hex", message, "xx" + pubHex[2:], sigHex, []error{ErrMalformedInput, ErrMalformedHex}},
		{"public key off curve", message, generatorUncompressedHex[:128] + "b9", sigHex, []error{ErrMalformedInput, ErrInvalidKey}},
		{"signature odd length", message, pubHex, sigHex[1:], []error{ErrMalformedInput, ErrMalformedHex}},
		{"signature recovery id 4", message, pubHex, sigHex[:128] + "04", []error{ErrMalformedInput, ErrInvalidSignatureEncoding}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			valid, err := client.VerifyHex(tt.message, tt.pubHex, tt.sigHex)
			assert.False(t, valid)
			for _, want := range tt.wantErr {
				require.ErrorIs(t, err, want)
			}
		})
	}
}

func TestClient_RecoverHexErrors(t *testing.T) {
	client := NewClient()
	sigHex, err := client.SignHex([]byte("abc"), testKeyHex)
	require.NoError(t, err)

	tests := []struct {
		name    string
		message []byte
		sigHex  string
		wantErr error
	}{
		{"empty message", []byte{}, sigHex, ErrEmptyMessage},
		{"compact signature", []byte("abc"), sigHex[:128], ErrMalformedHex},
		{"odd length", []byte("abc"), sigHex[:129], ErrMalformedHex},
		{"non-hex", []byte("abc"), "zz" + sigHex[2:], ErrMalformedHex},
		{"recovery id 4", []byte("abc"), sigHex[:128] + "04", ErrInvalidSignatureEncoding},
		{"zero r", []byte("abc"), strings.Repeat("0", 64) + sigHex[64:], ErrInvalidSignatureEncoding},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := client.RecoverPublicKeyHex(tt.message, tt.sigHex)
			require.ErrorIs(t, err, tt.wantErr)
		})
	}
}

func TestClient_SignHexErrors(t *testing.T) {
	client := NewClient()

	_, err := client.SignHex([]byte("abc"), curveOrderHex)
	require.ErrorIs(t, err, ErrInvalidKey)

	_, err = client.SignHex([]byte("abc"), strings.Repeat("0", 64))
	require.ErrorIs(t, err, ErrInvalidKey)

	_, err = client.SignHex([]byte("abc"), "1234")
	require.ErrorIs(t, err, ErrMalformedHex)

	_, err = client.SignHex(nil, "not a key")
	require.ErrorIs(t, err, ErrEmptyMessage)

	_, err = client.PublicKeyHex(curveOrderHex)
	require.ErrorIs(t, err, ErrInvalidKey)
}

func TestClient_NonceStrategy(t *testing.T) {
	client := NewClient().WithNonceStrategy(NewRandomizedNonce())

	first, err := client.SignHex([]byte("abc"), testKeyHex)
	require.NoError(t, err)
	second, err := client.SignHex([]byte("abc"), testKeyHex)
	require.NoError(t, err)
	assert.NotEqual(t, first, second)

	for _, sigHex := range []string{first, second} {
		pubHex, err := client.RecoverPublicKeyHex([]byte("abc"), sigHex)
		require.NoError(t, err)
		want, err := client.PublicKeyHex(testKeyHex)
		require.NoError(t, err)
		assert.Equal(t, want, pubHex)
	}
}

func TestClient_Defaults(t *testing.T) {
	client := NewClient()
	assert.Equal(t, PointCompressed, client.PointFormat())
	assert.Equal(t, "deterministic", client.signer.NonceStrategy().Name())
	assert.Positive(t, client.numWorkers())

	assert.Equal(t, maxWorkers, client.WithWorkers(10_000).numWorkers())
	assert.Equal(t, 3, client.WithWorkers(3).numWorkers())
}
