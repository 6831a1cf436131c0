package scanner

import (
	"bytes"
	"io"
	"strings"

	"github.com/andybalholm/brotli"
	"github.com/klauspost/compress/flate"
	"github.com/klauspost/compress/gzip"
	"github.com/klauspost/compress/zlib"
)

// decodedLength returns the length of body after undoing contentEncoding.
// Unknown encodings and corrupt payloads fall back to the raw length.
func decodedLength(contentEncoding string, body []byte) int64 {
	raw := int64(len(body))
	if raw == 0 {
		return 0
	}

	switch strings.ToLower(strings.TrimSpace(contentEncoding)) {
	case "gzip", "x-gzip":
		if n, err := drain(gzip.NewReader(bytes.NewReader(body))); err == nil {
			return n
		}
	case "deflate":
		// Servers send both zlib-wrapped and raw deflate under this name.
		if n, err := drain(zlib.NewReader(bytes.NewReader(body))); err == nil {
			return n
		}
		if n, err := drain(flate.NewReader(bytes.NewReader(body)), nil); err == nil {
			return n
		}
	case "br":
		if n, err := drain(brotli.NewReader(bytes.NewReader(body)), nil); err == nil {
			return n
		}
	}
	return raw
}

func drain(r io.Reader, err error) (int64, error) {
	if err != nil {
		return 0, err
	}
	if c, ok := r.(io.Closer); ok {
		defer c.Close()
	}
	return io.Copy(io.Discard, r)
}
