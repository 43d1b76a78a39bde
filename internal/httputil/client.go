// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package httputil

import (
	"net"
	"net/http"
	"time"

	"github.com/pdiddy/clingen/pkg/types"
)

// DefaultTimeout applies when HTTPConfig.Timeout is zero.
const DefaultTimeout = 60 * time.Second

// NewClient builds the outbound HTTP client. The overall timeout comes from
// cfg; dial and header timeouts are fixed so a dead upstream fails fast.
func NewClient(cfg types.HTTPConfig) *http.Client {
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = DefaultTimeout
	}

	dialer := &net.Dialer{
		Timeout:   10 * time.Second,
		KeepAlive: 30 * time.Second,
	}

	tr := &http.Transport{
		Proxy:       http.ProxyFromEnvironment,
		DialContext: dialer.DialContext,

		ForceAttemptHTTP2: true,

		MaxIdleConns:        20,
		MaxIdleConnsPerHost: 10,
		IdleConnTimeout:     90 * time.Second,

		TLSHandshakeTimeout:   10 * time.Second,
		ResponseHeaderTimeout: timeout,
		ExpectContinueTimeout: 1 * time.Second,
	}

	return &http.Client{
		Transport: tr,
		Timeout:   timeout,
	}
}
