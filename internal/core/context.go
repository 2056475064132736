package core

import "context"

type contextKey string

const proxyKey contextKey = "via-proxy"

// WithProxy marks the context so that client requests are routed through the
// configured SOCKS5 proxy. Mirrors the per-tool use_socks5 argument.
func WithProxy(ctx context.Context) context.Context {
	return context.WithValue(ctx, proxyKey, true)
}

// ProxyRequested reports whether the context asks for proxy routing.
func ProxyRequested(ctx context.Context) bool {
	v, ok := ctx.Value(proxyKey).(bool)
	return ok && v
}
