package observe

import (
	"bytes"
	"compress/gzip"
	"compress/zlib"
	"fmt"
	"io"
	"log/slog"
)

func newEncodedReader(enc string, r io.Reader) (io.ReadCloser, error) {
	switch enc {
	case "", "identity":
		return io.NopCloser(r), nil
	case "gzip":
		return gzip.NewReader(r)
	case "deflate":
		return zlib.NewReader(r)
	case "compress", "br":
		return nil, fmt.Errorf("unsupported encoding %q", enc)
	default:
		slog.Warn("unknown encoding", "enc", enc)
		return io.NopCloser(r), nil
	}
}

// decodeBody returns the identity form of an encoded body. An empty body decodes
// to nil.
func decodeBody(enc string, bs []byte) ([]byte, error) {
	if len(bs) == 0 {
		return nil, nil
	}

	d, err := newEncodedReader(enc, bytes.NewReader(bs))
	if err != nil {
		return nil, err
	}

	out, err := io.ReadAll(d)
	if err != nil {
		return nil, err
	}

	if err := d.Close(); err != nil {
		slog.Warn("could not close reader", "err", err)
	}

	return out, nil
}
