package auth

import "context"

type browserIDKey struct{}

// WithBrowserID binds the calling browser to ctx. Every per-browser
// collaborator (storage, API credentials, navigation) keys off it.
func WithBrowserID(ctx context.Context, id string) context.Context {
	if id == "" {
		return ctx
	}
	return context.WithValue(ctx, browserIDKey{}, id)
}

// BrowserIDFrom returns the browser bound to ctx.
func BrowserIDFrom(ctx context.Context) (string, bool) {
	id, ok := ctx.Value(browserIDKey{}).(string)
	return id, ok && id != ""
}
