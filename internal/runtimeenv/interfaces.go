package runtimeenv

//go:generate mockgen -source=interfaces.go -destination=../mock/runtimeenv_mock.go -package=mock

import "context"

// Source is the process configuration visible to the injector.
//
// Lookup reports the value stored under key and whether the key is defined
// at all. An undefined key and a key holding an empty string are both
// excluded by [Filter].
type Source interface {
	Lookup(key string) (string, bool)
}

// Observer receives the outcome of every [Rewriter.Rewrite] call.
//
// For injected responses the outcome is only known once the head of the
// document has been streamed, so ObserveRewrite may be called from the
// goroutine that reads the response body rather than from Rewrite itself.
type Observer interface {
	ObserveRewrite(ctx context.Context, outcome Outcome)
}
