package runtimeenv

import (
	"context"
	"net/http"
	"strings"

	"github.com/MKhiriev/runtime-env-edge/internal/logger"
)

// DefaultMaxTokenBytes bounds the size of a single HTML token buffered while
// looking for the end of the document head.
const DefaultMaxTokenBytes = 1 << 20

// Outcome describes what [Rewriter.Rewrite] did with a response.
type Outcome string

const (
	// OutcomeInjected means the script element was written into the head.
	OutcomeInjected Outcome = "injected"
	// OutcomeNotHTML means the response is not declared as text/html.
	OutcomeNotHTML Outcome = "not_html"
	// OutcomeEncoded means the body carries a content encoding other than gzip.
	OutcomeEncoded Outcome = "encoded"
	// OutcomeNoBody means the response has no body to rewrite.
	OutcomeNoBody Outcome = "no_body"
	// OutcomePartial means the body is a byte range of the document.
	OutcomePartial Outcome = "partial_content"
	// OutcomeEmptyPayload means no allowlisted value was available.
	OutcomeEmptyPayload Outcome = "empty_payload"
	// OutcomeNoHead means the document has no head element.
	OutcomeNoHead Outcome = "no_head"
	// OutcomeTokenTooLarge means a token exceeded the buffer bound before the head closed.
	OutcomeTokenTooLarge Outcome = "token_too_large"
	// OutcomeAborted means the body stream ended with an error or was closed
	// before the head closed.
	OutcomeAborted Outcome = "aborted"
)

// Rewriter injects the allowlisted configuration into HTML responses.
// A Rewriter is immutable and safe for concurrent use.
type Rewriter struct {
	allowlist     Allowlist
	marker        string
	scriptOptions []ScriptOption
	maxTokenBytes int
	observer      Observer
}

// Option configures a [Rewriter].
type Option func(*Rewriter)

// WithMarker sets the value of the data-runtime-env attribute.
func WithMarker(marker string) Option {
	return func(r *Rewriter) {
		if marker != "" {
			r.marker = marker
		}
	}
}

// WithScriptGlobalName sets the global the injected script merges into.
func WithScriptGlobalName(name string) Option {
	return func(r *Rewriter) {
		r.scriptOptions = append(r.scriptOptions, WithGlobalName(name))
	}
}

// WithMaxTokenBytes bounds a single buffered HTML token. Non-positive
// values keep [DefaultMaxTokenBytes].
func WithMaxTokenBytes(n int) Option {
	return func(r *Rewriter) {
		if n > 0 {
			r.maxTokenBytes = n
		}
	}
}

// WithObserver registers o to receive rewrite outcomes.
func WithObserver(o Observer) Option {
	return func(r *Rewriter) {
		r.observer = o
	}
}

// NewRewriter returns a [Rewriter] exposing the keys of allowlist.
func NewRewriter(allowlist Allowlist, opts ...Option) *Rewriter {
	r := &Rewriter{
		allowlist:     allowlist,
		marker:        DefaultMarker,
		maxTokenBytes: DefaultMaxTokenBytes,
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Rewrite returns resp, with its body rewritten to carry the configuration
// script when resp is an HTML document and src holds allowlisted values.
//
// In every other case resp is returned untouched: headers, status and body
// are left as they are and the body is not read. When the body is rewritten
// the Content-Length header is dropped since the size changes; the head is
// located while the body is streamed, never by buffering the document.
// A gzip encoded document is decoded on the fly and loses its
// Content-Encoding and ETag, which described the encoded bytes.
//
// Rewrite never fails. Anything that prevents injection degrades to
// passing the response through.
func (r *Rewriter) Rewrite(req *http.Request, resp *http.Response, src Source) *http.Response {
	ctx := context.Background()
	if req != nil {
		ctx = req.Context()
	}

	outcome, gzipped, ok := r.classify(req, resp)
	if !ok {
		r.report(ctx, outcome)
		return resp
	}

	script, ok := Serialize(Filter(src, r.allowlist), r.scriptOptions...)
	if !ok {
		r.report(ctx, OutcomeEmptyPayload)
		return resp
	}

	body := resp.Body
	if gzipped {
		body = &gzipBody{body: body}
		resp.Header.Del("Content-Encoding")
		resp.Header.Del("ETag")
		resp.Uncompressed = true
	}

	resp.Body = newInjectingReader(ctx, body, []byte(script.Element(r.marker)), r.maxTokenBytes, r.report)
	resp.ContentLength = -1
	resp.Header.Del("Content-Length")

	return resp
}

// classify decides between passthrough and injection from the metadata of
// the exchange alone, and whether the body has to be gunzipped first.
func (r *Rewriter) classify(req *http.Request, resp *http.Response) (Outcome, bool, bool) {
	if resp == nil || resp.Body == nil || resp.Body == http.NoBody {
		return OutcomeNoBody, false, false
	}
	if req != nil && req.Method == http.MethodHead {
		return OutcomeNoBody, false, false
	}
	switch resp.StatusCode {
	case http.StatusNoContent, http.StatusNotModified:
		return OutcomeNoBody, false, false
	case http.StatusPartialContent:
		return OutcomePartial, false, false
	}
	if !strings.Contains(resp.Header.Get("Content-Type"), "text/html") {
		return OutcomeNotHTML, false, false
	}

	switch enc := resp.Header.Get("Content-Encoding"); {
	case enc == "" || strings.EqualFold(enc, "identity"):
		return OutcomeInjected, false, true
	case strings.EqualFold(enc, "gzip"):
		return OutcomeInjected, true, true
	default:
		return OutcomeEncoded, false, false
	}
}

func (r *Rewriter) report(ctx context.Context, outcome Outcome) {
	logger.FromContext(ctx).Debug().Str("outcome", string(outcome)).Msg("runtime env rewrite")

	if r.observer != nil {
		r.observer.ObserveRewrite(ctx, outcome)
	}
}
