// Package http implements the HTTP transport layer of the edge server.
//
// It wires the router, the reverse proxy to the upstream and the middleware
// around them. Request tracing, access logging, rate limiting and response
// compression are handled here; the proxied HTML is rewritten by the
// runtimeenv package from the proxy's ModifyResponse hook. Proxied responses
// are only re-compressed when the rewriter had to decode them.
package http
