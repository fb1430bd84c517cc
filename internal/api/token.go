package api

import "context"

// TokenSource supplies the bearer token attached to dealer API requests. It
// is injected rather than read from a package-level singleton so the client
// stays testable and each caller (UI session, CLI token file) can bring its
// own.
//
// An empty token is not an error: the request goes out unauthenticated and
// the server answers 401, which the client normalizes like any other failure.
type TokenSource interface {
	Token(ctx context.Context) (string, error)
}

// StaticToken is a fixed-token TokenSource.
type StaticToken string

func (t StaticToken) Token(ctx context.Context) (string, error) {
	return string(t), nil
}

// TokenFunc adapts a function to the TokenSource interface.
type TokenFunc func(ctx context.Context) (string, error)

func (f TokenFunc) Token(ctx context.Context) (string, error) {
	return f(ctx)
}
