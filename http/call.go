package http

import (
	"context"
	nethttp "net/http"

	"feed-notifier/config"
)

type result struct {
	body []byte
	resp *nethttp.Response
	err  error
}

// bounded runs a lafin/http call under config.RequestTimeout.
// On timeout the call goroutine keeps running until lafin's own client timeout.
// The buffered channel lets it finish without a reader.
func bounded(ctx context.Context, call func() ([]byte, *nethttp.Response, error)) ([]byte, *nethttp.Response, error) {
	reqCtx, cancel := context.WithTimeout(ctx, config.RequestTimeout)
	defer cancel()
	done := make(chan result, 1)
	go func() {
		body, resp, err := call()
		done <- result{body: body, resp: resp, err: err}
	}()
	select {
	case <-reqCtx.Done():
		return nil, nil, reqCtx.Err()
	case res := <-done:
		return res.body, res.resp, res.err
	}
}

// requestHeaders merges configured headers with the cookie
func requestHeaders(cfg *config.Feed) map[string]string {
	if len(cfg.Headers) == 0 && cfg.Cookie == "" {
		return nil
	}
	headers := make(map[string]string, len(cfg.Headers)+1)
	for key, value := range cfg.Headers {
		headers[key] = value
	}
	if cfg.Cookie != "" {
		headers["Cookie"] = cfg.Cookie
	}
	return headers
}
