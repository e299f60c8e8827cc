package runtimeenv

import (
	"bytes"
	"context"
	"errors"
	"io"

	"golang.org/x/net/html"
)

// injectingReader streams an HTML body and inserts element in front of the
// token that closes the document head.
//
// Tokens are read until the insertion point is found or ruled out. One Read
// hands out every token the tokenizer already holds, so a document arriving
// in one chunk is not split into a write per token. From then on the
// tokenizer is dropped and the rest of the body is copied as is, so at most
// the tokenizer read-ahead is held in memory.
type injectingReader struct {
	ctx     context.Context
	body    io.ReadCloser
	z       *html.Tokenizer
	element []byte

	// token is scratch space for the raw bytes of the current token.
	token   []byte
	pending bytes.Buffer

	// rest is set once the head search is over.
	rest io.Reader
	err  error

	headOpen bool
	closed   bool
	reported bool
	report   func(context.Context, Outcome)
}

func newInjectingReader(ctx context.Context, body io.ReadCloser, element []byte, maxTokenBytes int, report func(context.Context, Outcome)) *injectingReader {
	z := html.NewTokenizer(body)
	z.SetMaxBuf(maxTokenBytes)

	return &injectingReader{
		ctx:     ctx,
		body:    body,
		z:       z,
		element: element,
		report:  report,
	}
}

// Read implements [io.Reader]. It fails with [io.ErrClosedPipe] after Close.
func (r *injectingReader) Read(p []byte) (int, error) {
	if r.closed {
		return 0, io.ErrClosedPipe
	}

	for r.searching() && (r.pending.Len() == 0 || r.pending.Len() < len(p) && len(r.z.Buffered()) > 0) {
		r.next()
	}

	if r.pending.Len() > 0 {
		return r.pending.Read(p)
	}
	if r.rest != nil {
		return r.rest.Read(p)
	}
	return 0, r.err
}

// Close releases the tokenizer and closes the upstream body.
func (r *injectingReader) Close() error {
	if r.closed {
		return nil
	}
	r.finish(OutcomeAborted)
	r.closed = true
	r.z = nil
	r.rest = nil
	r.pending.Reset()
	return r.body.Close()
}

func (r *injectingReader) searching() bool {
	return r.rest == nil && r.err == nil
}

// next consumes one token and queues its raw bytes, preceded by the element
// when the token is the insertion point.
func (r *injectingReader) next() {
	tt := r.z.Next()

	// TagName lowercases the tokenizer buffer in place, so the raw bytes are
	// copied out first.
	r.token = append(r.token[:0], r.z.Raw()...)

	switch tt {
	case html.ErrorToken:
		r.pending.Write(r.token)
		r.stopOnError(r.z.Err())
		return
	case html.StartTagToken, html.EndTagToken:
		name, _ := r.z.TagName()
		switch {
		case tt == html.EndTagToken && bytes.Equal(name, []byte("head")):
			r.insertBefore()
			return
		case tt == html.StartTagToken && bytes.Equal(name, []byte("head")):
			r.headOpen = true
		case tt == html.StartTagToken && bytes.Equal(name, []byte("body")):
			if r.headOpen {
				r.insertBefore()
				return
			}
			r.pending.Write(r.token)
			r.passRest(OutcomeNoHead)
			return
		}
	}

	r.pending.Write(r.token)
}

func (r *injectingReader) insertBefore() {
	r.pending.Write(r.element)
	r.pending.Write(r.token)
	r.passRest(OutcomeInjected)
}

// passRest ends the head search and streams the remaining input verbatim.
func (r *injectingReader) passRest(outcome Outcome) {
	r.rest = io.MultiReader(bytes.NewReader(r.z.Buffered()), r.body)
	r.z = nil
	r.finish(outcome)
}

func (r *injectingReader) stopOnError(err error) {
	switch {
	case errors.Is(err, io.EOF):
		r.err = io.EOF
		r.z = nil
		r.finish(OutcomeNoHead)
	case errors.Is(err, html.ErrBufferExceeded):
		r.passRest(OutcomeTokenTooLarge)
	default:
		r.err = err
		r.z = nil
		r.finish(OutcomeAborted)
	}
}

// finish reports the outcome of the head search once.
func (r *injectingReader) finish(outcome Outcome) {
	if r.reported {
		return
	}
	r.reported = true
	if r.report != nil {
		r.report(r.ctx, outcome)
	}
}
