package httpclient

import (
	"bufio"
	"compress/flate"
	"compress/gzip"
	"compress/zlib"
	"crypto/tls"
	"fmt"
	"io"
	"net/http"
	"strings"
)

const acceptEncoding = "gzip, deflate"

// NewTransport returns a round tripper that only negotiates TLS 1.2 and newer
// and transparently decodes gzip and deflate response bodies.
//
// It is meant to be built once per client and shared by every request.
func NewTransport() http.RoundTripper {
	base := http.DefaultTransport.(*http.Transport).Clone()
	base.TLSClientConfig = &tls.Config{MinVersion: tls.VersionTLS12}
	// Decoding happens in decompressingTransport so deflate is covered too.
	base.DisableCompression = true
	return &decompressingTransport{next: base}
}

// decompressingTransport advertises gzip/deflate and strips the encoding from responses.
type decompressingTransport struct {
	next http.RoundTripper
}

func (d *decompressingTransport) RoundTrip(req *http.Request) (*http.Response, error) {
	if req.Header.Get("Accept-Encoding") == "" {
		req = req.Clone(req.Context())
		req.Header.Set("Accept-Encoding", acceptEncoding)
	}

	resp, err := d.next.RoundTrip(req)
	if err != nil {
		return nil, err
	}
	if resp.Body == nil || resp.Body == http.NoBody {
		return resp, nil
	}

	encoding := strings.ToLower(strings.TrimSpace(resp.Header.Get("Content-Encoding")))
	switch encoding {
	case "gzip", "x-gzip", "deflate":
	default:
		return resp, nil
	}

	resp.Body = &decodingBody{src: resp.Body, encoding: encoding}
	resp.Header.Del("Content-Encoding")
	resp.Header.Del("Content-Length")
	resp.ContentLength = -1
	resp.Uncompressed = true
	return resp, nil
}

// decodingBody lazily opens the decoder so empty bodies never fail on header reads.
type decodingBody struct {
	src      io.ReadCloser
	encoding string
	reader   io.Reader
	closer   io.Closer
	err      error
}

func (b *decodingBody) Read(p []byte) (int, error) {
	if b.reader == nil && b.err == nil {
		b.err = b.open()
	}
	if b.err != nil {
		return 0, b.err
	}
	return b.reader.Read(p)
}

func (b *decodingBody) open() error {
	buffered := bufio.NewReader(b.src)
	if _, err := buffered.Peek(1); err == io.EOF {
		b.reader = buffered
		return nil
	}

	switch b.encoding {
	case "gzip", "x-gzip":
		gz, err := gzip.NewReader(buffered)
		if err != nil {
			return fmt.Errorf("open gzip body: %w", err)
		}
		b.reader, b.closer = gz, gz
	case "deflate":
		// Servers disagree on zlib-wrapped vs raw deflate; a zlib stream starts with 0x?8.
		head, _ := buffered.Peek(2)
		if len(head) == 2 && head[0]&0x0f == 0x08 && (uint16(head[0])<<8|uint16(head[1]))%31 == 0 {
			zr, err := zlib.NewReader(buffered)
			if err != nil {
				return fmt.Errorf("open deflate body: %w", err)
			}
			b.reader, b.closer = zr, zr
		} else {
			fr := flate.NewReader(buffered)
			b.reader, b.closer = fr, fr
		}
	}
	return nil
}

func (b *decodingBody) Close() error {
	if b.closer != nil {
		_ = b.closer.Close()
	}
	return b.src.Close()
}
