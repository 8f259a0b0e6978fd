package httpx

import (
    "crypto/tls"
    "net"
    "net/http"
    "time"
)

// Client is a small wrapper around http.Client with sane defaults. It
// satisfies the yahoo package's HTTPClient seam through Do.
type Client struct {
    HTTP      *http.Client
    UserAgent string
}

// New builds a client with a fixed per-request timeout. When insecure is
// true the transport skips both certificate validation and the hostname
// check; the trust decision is made here, once, and injected into callers.
func New(timeout time.Duration, insecure bool) *Client {
    transport := &http.Transport{
        Proxy: http.ProxyFromEnvironment,
        DialContext: (&net.Dialer{Timeout: 3 * time.Second, KeepAlive: 30 * time.Second}).DialContext,
        MaxIdleConns:          100,
        MaxIdleConnsPerHost:   10,
        ForceAttemptHTTP2:     true,
        IdleConnTimeout:       90 * time.Second,
        TLSHandshakeTimeout:   3 * time.Second,
        ExpectContinueTimeout: 1 * time.Second,
    }
    if insecure {
        transport.TLSClientConfig = &tls.Config{InsecureSkipVerify: true}
    }
    return &Client{HTTP: &http.Client{Timeout: timeout, Transport: transport}}
}

// Do executes the request, filling in the client-level User-Agent when the
// caller has not set one.
func (c *Client) Do(req *http.Request) (*http.Response, error) {
    if c.UserAgent != "" && req.Header.Get("User-Agent") == "" {
        req.Header.Set("User-Agent", c.UserAgent)
    }
    return c.HTTP.Do(req)
}
