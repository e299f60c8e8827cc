// Package runtimeenv injects allowlisted runtime configuration into HTML
// documents on their way from the origin to the browser.
//
// The package is built from three request-scoped steps:
//
//   - [Filter] selects the allowlisted, non-empty values of a [Source];
//   - [Serialize] turns the resulting [Payload] into a self-invoking script
//     that merges the values into a global configuration object;
//   - [Rewriter.Rewrite] streams an HTML response body and appends the script
//     as the last child of the document head.
//
// Every step is best-effort: when injection is not possible the response is
// passed through unchanged and no error is ever surfaced to the caller.
package runtimeenv
