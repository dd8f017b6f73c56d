package deezer

import (
	"errors"
	"fmt"
	"io"
)

// decryptStream copies src to dst in fixed-size chunks, decrypting every
// chunk the stream layout marks as encrypted: 0-based ordinals divisible by
// encryptedChunkStride, full-size chunks only. A short final chunk passes
// through verbatim even when its ordinal would otherwise select it. Returns
// the number of plaintext bytes written.
func decryptStream(dst io.Writer, src io.Reader, decrypter *trackDecrypter) (int64, error) {
	var written int64

	buffer := make([]byte, streamChunkSize)

	for ordinal := 0; ; ordinal++ {
		n, readErr := io.ReadFull(src, buffer)
		if n > 0 {
			chunk := buffer[:n]
			if ordinal%encryptedChunkStride == 0 && n == streamChunkSize {
				decrypter.decryptChunk(chunk)
			}

			wn, writeErr := dst.Write(chunk)
			written += int64(wn)

			if writeErr != nil {
				return written, fmt.Errorf("write decrypted chunk %d: %w", ordinal, writeErr)
			}
		}

		switch {
		case errors.Is(readErr, io.EOF), errors.Is(readErr, io.ErrUnexpectedEOF):
			return written, nil
		case readErr != nil:
			return written, fmt.Errorf("read stream chunk %d: %w", ordinal, readErr)
		}
	}
}
