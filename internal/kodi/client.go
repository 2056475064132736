package kodi

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net"
	"net/http"
	"time"

	"golang.org/x/net/proxy"

	"github.com/vadimtrunov/KodiMate/internal/core"
	"github.com/vadimtrunov/KodiMate/internal/httpclient"
)

const maxErrorBodyBytes = 4096

// Options configures the Kodi JSON-RPC endpoint.
type Options struct {
	Host     string
	Port     int
	Username string
	Password string
	UseHTTPS bool
	Timeout  time.Duration

	// SOCKS5, when set, builds a second transport tunnelled through the
	// proxy. Requests opt in per call via core.WithProxy.
	SOCKS5 *SOCKS5Options
}

// SOCKS5Options configures the optional proxy tunnel.
type SOCKS5Options struct {
	Host     string
	Port     int
	Username string
	Password string
}

// Client is a Kodi JSON-RPC API client.
type Client struct {
	endpoint string
	username string
	password string
	direct   *httpclient.Client
	proxied  *httpclient.Client // nil when no proxy configured
	logger   *slog.Logger
}

var (
	_ core.Library = (*Client)(nil)
	_ core.Player  = (*Client)(nil)
	_ core.Remote  = (*Client)(nil)
	_ core.Pinger  = (*Client)(nil)
)

// New creates a Kodi client. When opts.SOCKS5 is set, a proxied transport is
// built alongside the direct one.
func New(opts Options, logger *slog.Logger) (*Client, error) {
	if logger == nil {
		logger = slog.Default()
	}
	scheme := "http"
	if opts.UseHTTPS {
		scheme = "https"
	}
	timeout := opts.Timeout
	if timeout == 0 {
		timeout = 30 * time.Second
	}

	retryCfg := httpclient.DefaultConfig()
	retryCfg.Timeout = timeout

	c := &Client{
		endpoint: fmt.Sprintf("%s://%s:%d/jsonrpc", scheme, opts.Host, opts.Port),
		username: opts.Username,
		password: opts.Password,
		direct:   httpclient.New(retryCfg, logger),
		logger:   logger,
	}

	if opts.SOCKS5 != nil {
		proxied, err := socks5HTTPClient(opts.SOCKS5, timeout)
		if err != nil {
			return nil, fmt.Errorf("configure SOCKS5 proxy: %w", err)
		}
		c.proxied = httpclient.NewWithHTTPClient(retryCfg, proxied, logger)
	}
	return c, nil
}

// Ping performs a JSONRPC.Ping round trip and verifies the pong.
func (c *Client) Ping(ctx context.Context) error {
	var result string
	if err := c.call(ctx, "JSONRPC.Ping", nil, &result); err != nil {
		return err
	}
	if result != "pong" {
		return fmt.Errorf("unexpected ping response %q", result)
	}
	return nil
}

// readOnlyMethods are safe to replay on transient failures even though
// JSON-RPC sends them as POST.
var readOnlyMethods = map[string]bool{
	"JSONRPC.Ping":                          true,
	"VideoLibrary.GetMovies":                true,
	"VideoLibrary.GetTVShows":               true,
	"VideoLibrary.GetEpisodes":              true,
	"VideoLibrary.GetRecentlyAddedMovies":   true,
	"VideoLibrary.GetRecentlyAddedEpisodes": true,
	"Player.GetActivePlayers":               true,
	"Player.GetItem":                        true,
	"Player.GetProperties":                  true,
}

// call performs a JSON-RPC request and decodes the result member into result.
func (c *Client) call(ctx context.Context, method string, params any, result any) error {
	payload := rpcRequest{JSONRPC: "2.0", ID: 1, Method: method, Params: params}
	body, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("marshal request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.endpoint, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")
	if c.username != "" && c.password != "" {
		req.SetBasicAuth(c.username, c.password)
	}

	viaProxy := core.ProxyRequested(ctx)
	hc := c.direct
	if viaProxy {
		if c.proxied == nil {
			return fmt.Errorf("SOCKS5 proxy requested but not configured")
		}
		hc = c.proxied
	}

	c.logger.Debug("kodi rpc call",
		slog.String("method", method),
		slog.Bool("via_proxy", viaProxy),
	)

	var resp *http.Response
	if readOnlyMethods[method] {
		resp, err = hc.DoIdempotent(req)
	} else {
		resp, err = hc.Do(req)
	}
	if err != nil {
		return fmt.Errorf("cannot reach kodi at %s%s: %w", c.endpoint, proxySuffix(viaProxy), err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		errBody, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorBodyBytes))
		return fmt.Errorf("kodi HTTP error %d%s: %s", resp.StatusCode, proxySuffix(viaProxy), string(errBody))
	}

	var envelope rpcResponse
	if err := json.NewDecoder(resp.Body).Decode(&envelope); err != nil {
		return fmt.Errorf("decode response: %w", err)
	}
	if envelope.Error != nil {
		return envelope.Error
	}
	if result != nil && envelope.Result != nil {
		if err := json.Unmarshal(envelope.Result, result); err != nil {
			return fmt.Errorf("decode %s result: %w", method, err)
		}
	}
	return nil
}

func proxySuffix(viaProxy bool) string {
	if viaProxy {
		return " via SOCKS5 proxy"
	}
	return ""
}

// socks5HTTPClient builds an http.Client whose connections dial through the proxy.
func socks5HTTPClient(opts *SOCKS5Options, timeout time.Duration) (*http.Client, error) {
	var auth *proxy.Auth
	if opts.Username != "" {
		auth = &proxy.Auth{User: opts.Username, Password: opts.Password}
	}

	addr := net.JoinHostPort(opts.Host, fmt.Sprintf("%d", opts.Port))
	dialer, err := proxy.SOCKS5("tcp", addr, auth, proxy.Direct)
	if err != nil {
		return nil, err
	}

	dialCtx := func(ctx context.Context, network, address string) (net.Conn, error) {
		if cd, ok := dialer.(proxy.ContextDialer); ok {
			return cd.DialContext(ctx, network, address)
		}
		return dialer.Dial(network, address)
	}

	return &http.Client{
		Timeout:   timeout,
		Transport: &http.Transport{DialContext: dialCtx},
	}, nil
}
