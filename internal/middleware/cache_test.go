package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestPayloadRoundtrip(t *testing.T) {
	t.Parallel()

	hdr := http.Header{}
	hdr.Set("Content-Type", "application/json")
	body := []byte(`{"records":[]}`)

	bs, err := encodePayload(http.StatusOK, hdr, body)
	require.NoError(t, err)

	status, gotHdr, gotBody, ok := decodePayload(bs)
	require.True(t, ok)
	require.Equal(t, http.StatusOK, status)
	require.Equal(t, "application/json", gotHdr.Get("Content-Type"))
	require.Equal(t, body, gotBody)
}

func TestDecodePayloadRejectsGarbage(t *testing.T) {
	t.Parallel()

	_, _, _, ok := decodePayload(nil)
	require.False(t, ok)
	_, _, _, ok = decodePayload([]byte("short"))
	require.False(t, ok)
	// Header length pointing past the buffer.
	_, _, _, ok = decodePayload([]byte{0, 0, 0, 200, 0, 0, 255, 255, 1, 2})
	require.False(t, ok)
}

func TestCaptureWriterHonorsLimit(t *testing.T) {
	t.Parallel()

	rec := httptest.NewRecorder()
	cw := &captureWriter{ResponseWriter: rec, status: http.StatusOK, limit: 4}

	n, err := cw.Write([]byte("abcdefgh"))
	require.NoError(t, err)
	require.Equal(t, 8, n)

	// Client sees everything, the capture buffer stops at the limit.
	require.Equal(t, "abcdefgh", rec.Body.String())
	require.Equal(t, "abcd", cw.buf.String())
	require.Equal(t, int64(8), cw.size)
}
