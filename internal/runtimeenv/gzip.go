package runtimeenv

import (
	"compress/gzip"
	"fmt"
	"io"
)

// gzipBody decodes a gzip body. The gzip header is read on the first Read,
// so wrapping a body never blocks on the upstream.
type gzipBody struct {
	body io.ReadCloser
	zr   *gzip.Reader
	err  error
}

func (g *gzipBody) Read(p []byte) (int, error) {
	if g.zr == nil && g.err == nil {
		zr, err := gzip.NewReader(g.body)
		if err != nil {
			g.err = fmt.Errorf("error decoding gzip body: %w", err)
		}
		g.zr = zr
	}
	if g.err != nil {
		return 0, g.err
	}
	return g.zr.Read(p)
}

func (g *gzipBody) Close() error {
	return g.body.Close()
}
