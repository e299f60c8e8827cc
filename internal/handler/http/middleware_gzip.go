package http

import (
	"compress/gzip"
	"context"
	"net/http"
	"strings"
	"sync"
)

var gzipWriterPool = sync.Pool{
	New: func() any {
		w := gzip.NewWriter(nil)
		return w
	},
}

// compressibleTypes lists the Content-Type prefixes worth compressing.
var compressibleTypes = []string{
	"text/",
	"application/json",
	"application/javascript",
	"application/xml",
	"application/manifest+json",
	"image/svg+xml",
}

type decodedKey struct{}

// decodedMark records that the proxy removed the upstream gzip encoding of
// a response in order to rewrite it.
type decodedMark struct {
	decoded bool
}

// markDecoded flags the response of the request carrying ctx for
// re-compression. It is a no-op outside withRestoredGZip.
func markDecoded(ctx context.Context) {
	if mark, ok := ctx.Value(decodedKey{}).(*decodedMark); ok {
		mark.decoded = true
	}
}

// withGZip compresses responses generated by the edge itself toward clients
// that accept gzip. Responses that already carry a Content-Encoding, have no
// body or hold an incompressible type are written as they are.
func withGZip(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, req *http.Request) {
		if !acceptsGzip(req) {
			next.ServeHTTP(w, req)
			return
		}

		serveGzipped(next, w, req, func(statusCode int, header http.Header) bool {
			return canCompress(statusCode, header) && hasCompressibleType(header)
		})
	})
}

// withRestoredGZip gzips proxied responses only when the proxy decoded them
// to rewrite the body. Every other proxied response reaches the client with
// the encoding and headers the upstream chose.
func withRestoredGZip(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, req *http.Request) {
		if !acceptsGzip(req) {
			next.ServeHTTP(w, req)
			return
		}

		mark := &decodedMark{}
		req = req.WithContext(context.WithValue(req.Context(), decodedKey{}, mark))

		serveGzipped(next, w, req, func(statusCode int, header http.Header) bool {
			return mark.decoded && canCompress(statusCode, header)
		})
	})
}

func acceptsGzip(req *http.Request) bool {
	return req.Method != http.MethodHead && strings.Contains(req.Header.Get("Accept-Encoding"), "gzip")
}

func serveGzipped(next http.Handler, w http.ResponseWriter, req *http.Request, compress func(int, http.Header) bool) {
	gzipWriter := gzipWriterPool.Get().(*gzip.Writer)
	defer gzipWriterPool.Put(gzipWriter)

	gzipRW := &gzipResponseWriter{
		ResponseWriter: w,
		gzipWriter:     gzipWriter,
		shouldCompress: compress,
	}

	next.ServeHTTP(gzipRW, req)

	gzipRW.Close()
}

type gzipResponseWriter struct {
	http.ResponseWriter
	gzipWriter     *gzip.Writer
	shouldCompress func(statusCode int, header http.Header) bool

	wroteHeader bool
	compress    bool
}

func (w *gzipResponseWriter) WriteHeader(statusCode int) {
	if w.wroteHeader {
		return
	}
	w.wroteHeader = true

	header := w.Header()
	if w.shouldCompress(statusCode, header) {
		w.compress = true
		if !varies(header, "Accept-Encoding") {
			header.Add("Vary", "Accept-Encoding")
		}
		header.Set("Content-Encoding", "gzip")
		header.Del("Content-Length")
		w.gzipWriter.Reset(w.ResponseWriter)
	}

	w.ResponseWriter.WriteHeader(statusCode)
}

func (w *gzipResponseWriter) Write(data []byte) (int, error) {
	if !w.wroteHeader {
		w.WriteHeader(http.StatusOK)
	}
	if !w.compress {
		return w.ResponseWriter.Write(data)
	}
	return w.gzipWriter.Write(data)
}

// Flush pushes compressed bytes written so far to the client, so streamed
// upstream bodies are not held back until the end.
func (w *gzipResponseWriter) Flush() {
	if w.compress {
		_ = w.gzipWriter.Flush()
	}
	_ = http.NewResponseController(w.ResponseWriter).Flush()
}

func (w *gzipResponseWriter) Unwrap() http.ResponseWriter {
	return w.ResponseWriter
}

func (w *gzipResponseWriter) Close() error {
	if !w.compress {
		return nil
	}
	return w.gzipWriter.Close()
}

func canCompress(statusCode int, header http.Header) bool {
	if statusCode < http.StatusOK || statusCode == http.StatusNoContent || statusCode == http.StatusNotModified {
		return false
	}
	return header.Get("Content-Encoding") == ""
}

func hasCompressibleType(header http.Header) bool {
	contentType := header.Get("Content-Type")
	for _, prefix := range compressibleTypes {
		if strings.HasPrefix(contentType, prefix) {
			return true
		}
	}
	return false
}

func varies(header http.Header, name string) bool {
	for _, value := range header.Values("Vary") {
		for _, field := range strings.Split(value, ",") {
			if strings.EqualFold(strings.TrimSpace(field), name) {
				return true
			}
		}
	}
	return false
}
