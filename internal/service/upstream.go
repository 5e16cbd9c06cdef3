package service

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/soyamkaran351-cloud/Farmer-support-system/internal/metrics"
)

const errBodyLimit = 2048

// Upstream is the HTTP plumbing shared by every fetcher: one client, one
// timeout, one place where status codes become errors.
type Upstream struct {
	client  *http.Client
	metrics *metrics.Recorder
}

func NewUpstream(timeout time.Duration, m *metrics.Recorder) *Upstream {
	return &Upstream{client: &http.Client{Timeout: timeout}, metrics: m}
}

// do sends req once. Any non-2xx response is drained, closed and returned as
// an *UpstreamError; on success the caller owns resp.Body.
func (u *Upstream) do(req *http.Request, source string) (*http.Response, error) {
	start := time.Now()
	resp, err := u.client.Do(req)
	if err != nil {
		u.metrics.Upstream(source, 0, time.Since(start))
		return nil, &UpstreamError{Source: source, Err: err}
	}
	u.metrics.Upstream(source, resp.StatusCode, time.Since(start))

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		defer resp.Body.Close()
		data, _ := io.ReadAll(io.LimitReader(resp.Body, errBodyLimit))
		msg := string(bytes.TrimSpace(data))
		if msg == "" {
			msg = http.StatusText(resp.StatusCode)
		}
		return nil, &UpstreamError{Source: source, Status: resp.StatusCode, Err: errors.New(msg)}
	}
	return resp, nil
}

func (u *Upstream) getJSON(ctx context.Context, source, rawURL string, header http.Header, out any) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, rawURL, nil)
	if err != nil {
		return fmt.Errorf("build request: %w", err)
	}
	for k, v := range header {
		req.Header[k] = v
	}
	req.Header.Set("Accept", "application/json")

	resp, err := u.do(req, source)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return &UpstreamError{Source: source, Status: resp.StatusCode, Err: fmt.Errorf("decode response: %w", err)}
	}
	return nil
}

func (u *Upstream) postJSON(ctx context.Context, source, rawURL string, header http.Header, body any) (*http.Response, error) {
	payload, err := json.Marshal(body)
	if err != nil {
		return nil, fmt.Errorf("encode request: %w", err)
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, rawURL, bytes.NewReader(payload))
	if err != nil {
		return nil, fmt.Errorf("build request: %w", err)
	}
	for k, v := range header {
		req.Header[k] = v
	}
	req.Header.Set("Content-Type", "application/json")
	return u.do(req, source)
}
