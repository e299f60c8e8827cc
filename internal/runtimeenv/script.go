package runtimeenv

import (
	"bytes"
	"encoding/json"
	"fmt"
	"html"
	"regexp"
	"strings"
)

const (
	// DefaultGlobalName is the property written on window and globalThis.
	DefaultGlobalName = "__ENV__"
	// DefaultMarker is the value of the data-runtime-env attribute.
	DefaultMarker = "supabase"
	// MarkerAttribute names the attribute that marks injected script elements.
	MarkerAttribute = "data-runtime-env"
)

var globalNamePattern = regexp.MustCompile(`^[A-Za-z_$][A-Za-z0-9_$]*$`)

// ValidateGlobalName checks that name can be used as a dotted property name
// in the injected script.
func ValidateGlobalName(name string) error {
	if !globalNamePattern.MatchString(name) {
		return fmt.Errorf("%w: %q", ErrInvalidGlobalName, name)
	}
	return nil
}

// Script is the body of an injected script element.
type Script struct {
	body string
}

// String returns the script body.
func (s Script) String() string {
	return s.body
}

// Element wraps the script body into a script element carrying the marker
// attribute. The marker is attribute-escaped; the body is already free of
// '<' characters.
func (s Script) Element(marker string) string {
	var b strings.Builder
	b.Grow(len(s.body) + len(marker) + 40)
	b.WriteString(`<script `)
	b.WriteString(MarkerAttribute)
	b.WriteString(`="`)
	b.WriteString(html.EscapeString(marker))
	b.WriteString(`">`)
	b.WriteString(s.body)
	b.WriteString(`</script>`)
	return b.String()
}

type scriptConfig struct {
	globalName string
}

// ScriptOption customizes [Serialize].
type ScriptOption func(*scriptConfig)

// WithGlobalName sets the global property the script merges into.
// Names rejected by [ValidateGlobalName] are ignored and the default is kept.
func WithGlobalName(name string) ScriptOption {
	return func(c *scriptConfig) {
		if ValidateGlobalName(name) == nil {
			c.globalName = name
		}
	}
}

// Serialize renders payload as a self-invoking script.
//
// It returns false when payload is empty: there is nothing to inject and the
// caller must pass the response through.
//
// The script reads the existing global object (window first, then
// globalThis, defaulting to {}), shallow-merges payload over it and writes
// the result back to both locations. Each write is guarded on its own, so a
// read-only or throwing global never escapes the script. Applying the same
// script twice leaves the global as applying it once; applying P1 then P2
// is the same as applying P1 merged with P2, P2 winning on shared keys.
//
// The JSON literal has every '<', '>' and '&' replaced by its \u escape, so
// the body can never close the surrounding script element.
func Serialize(payload Payload, opts ...ScriptOption) (Script, bool) {
	if len(payload) == 0 {
		return Script{}, false
	}

	cfg := scriptConfig{globalName: DefaultGlobalName}
	for _, opt := range opts {
		opt(&cfg)
	}

	literal, err := encodePayload(payload)
	if err != nil {
		return Script{}, false
	}

	name := cfg.globalName
	var b strings.Builder
	b.WriteString(`(function(){try{`)
	b.WriteString(`var g=typeof globalThis!=="undefined"?globalThis:{};`)
	b.WriteString(`var w=typeof window!=="undefined"?window:g;`)
	b.WriteString(`var p=`)
	b.Write(literal)
	b.WriteString(`;`)
	b.WriteString(`var c=w.` + name + `||g.` + name + `||{};`)
	b.WriteString(`var m=Object.assign({},c,p);`)
	b.WriteString(`try{w.` + name + `=m}catch(e){}`)
	b.WriteString(`if(g!==w){try{g.` + name + `=m}catch(e){}}`)
	b.WriteString(`}catch(e){}})();`)

	return Script{body: b.String()}, true
}

// encodePayload marshals payload as a JSON object with sorted keys.
// encoding/json already escapes '<', '>', '&', U+2028 and U+2029; the
// explicit replacement keeps the '<' guarantee independent of encoder
// settings.
func encodePayload(payload Payload) ([]byte, error) {
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(true)
	if err := enc.Encode(map[string]string(payload)); err != nil {
		return nil, fmt.Errorf("error encoding payload: %w", err)
	}

	literal := bytes.TrimRight(buf.Bytes(), "\n")
	return bytes.ReplaceAll(literal, []byte("<"), []byte(`\u003c`)), nil
}
