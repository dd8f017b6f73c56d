package deezer

import (
	"crypto/cipher"
	"encoding/hex"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/blowfish"
)

const testMasterKey = "0123456789abcdef"

// encryptChunks applies the stream layout in reverse: it encrypts every
// full-size chunk whose 0-based ordinal is a multiple of the stride, leaving
// the rest untouched. Used to synthesize backend payloads for tests.
func encryptChunks(t *testing.T, key, plaintext []byte) []byte {
	t.Helper()

	block, err := blowfish.NewCipher(key)
	require.NoError(t, err)

	encrypted := make([]byte, len(plaintext))
	copy(encrypted, plaintext)

	for offset, ordinal := 0, 0; offset < len(encrypted); offset, ordinal = offset+streamChunkSize, ordinal+1 {
		end := offset + streamChunkSize
		if end > len(encrypted) {
			end = len(encrypted)
		}

		if ordinal%encryptedChunkStride == 0 && end-offset == streamChunkSize {
			iv := chunkIV
			cipher.NewCBCEncrypter(block, iv[:]).CryptBlocks(encrypted[offset:end], encrypted[offset:end])
		}
	}

	return encrypted
}

// makeTestPayload builds a deterministic pseudo-random payload.
func makeTestPayload(size int) []byte {
	payload := make([]byte, size)
	for i := range payload {
		payload[i] = byte(i*31 + 7)
	}

	return payload
}

// TestDeriveTrackKey tests key derivation against a precomputed vector.
func TestDeriveTrackKey(t *testing.T) {
	t.Parallel()

	key, err := deriveTrackKey(42, testMasterKey)
	require.NoError(t, err)

	expected, err := hex.DecodeString("353862356633653c6d6b3033616f3667")
	require.NoError(t, err)
	assert.Equal(t, expected, key)
}

// TestDeriveTrackKey_Deterministic tests that equal track IDs yield equal keys.
func TestDeriveTrackKey_Deterministic(t *testing.T) {
	t.Parallel()

	first, err := deriveTrackKey(3135556, testMasterKey)
	require.NoError(t, err)

	second, err := deriveTrackKey(3135556, testMasterKey)
	require.NoError(t, err)

	assert.Equal(t, first, second)

	other, err := deriveTrackKey(3135557, testMasterKey)
	require.NoError(t, err)
	assert.NotEqual(t, first, other)
}

// TestDeriveTrackKey_ShortMasterKey tests that a short master key is rejected.
func TestDeriveTrackKey_ShortMasterKey(t *testing.T) {
	t.Parallel()

	key, err := deriveTrackKey(42, "too-short")
	require.ErrorIs(t, err, ErrShortMasterKey)
	assert.Nil(t, key)
}

// TestTrackDecrypter_RoundTrip tests that decryptChunk inverts CBC encryption
// with the fixed IV.
func TestTrackDecrypter_RoundTrip(t *testing.T) {
	t.Parallel()

	key, err := deriveTrackKey(42, testMasterKey)
	require.NoError(t, err)

	decrypter, err := newTrackDecrypter(key)
	require.NoError(t, err)

	plaintext := makeTestPayload(streamChunkSize)

	chunk := make([]byte, streamChunkSize)
	copy(chunk, plaintext)

	block, err := blowfish.NewCipher(key)
	require.NoError(t, err)

	iv := chunkIV
	cipher.NewCBCEncrypter(block, iv[:]).CryptBlocks(chunk, chunk)
	require.NotEqual(t, plaintext, chunk)

	decrypter.decryptChunk(chunk)
	assert.Equal(t, plaintext, chunk)
}

// TestTrackDecrypter_ChunksAreIndependent tests that chaining restarts from
// the fixed IV on every chunk, so decryption order does not matter.
func TestTrackDecrypter_ChunksAreIndependent(t *testing.T) {
	t.Parallel()

	key, err := deriveTrackKey(42, testMasterKey)
	require.NoError(t, err)

	plaintext := makeTestPayload(streamChunkSize)

	first := encryptChunks(t, key, plaintext)
	second := encryptChunks(t, key, plaintext)

	decrypterForSecond, err := newTrackDecrypter(key)
	require.NoError(t, err)

	// Decrypt the second copy first; both must still come out identical.
	decrypterForSecond.decryptChunk(second)

	decrypterForFirst, err := newTrackDecrypter(key)
	require.NoError(t, err)
	decrypterForFirst.decryptChunk(first)

	assert.Equal(t, plaintext, first)
	assert.Equal(t, plaintext, second)
}
