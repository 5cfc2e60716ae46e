package binance

import (
	"net/http"
	"time"
)

// baseTransportConfig returns the HTTP transport used by the exchange client.
// Pages are fetched one after another from one host, so a single idle connection is kept.
func baseTransportConfig() *http.Transport {
	return &http.Transport{
		Proxy:                 http.ProxyFromEnvironment,
		ResponseHeaderTimeout: time.Minute,
		IdleConnTimeout:       90 * time.Second,
		TLSHandshakeTimeout:   10 * time.Second,
		MaxIdleConns:          1,
		MaxIdleConnsPerHost:   1,
	}
}

// newHTTPClient creates an HTTP client with the per-request timeout.
func newHTTPClient(timeout time.Duration) *http.Client {
	return &http.Client{
		Transport: baseTransportConfig(),
		Timeout:   timeout,
	}
}
