package deck2pdf

import (
	"context"
	"io"
	"net/http"
	"time"
)

// ProbeTimeout bounds the server availability check.
const ProbeTimeout = 2 * time.Second

// Prober reports whether the presentation server answers.
type Prober interface {
	Available(ctx context.Context, url string) bool
}

// HTTPProber issues one GET and accepts only HTTP 200. Network errors,
// timeouts and other statuses all mean unavailable.
type HTTPProber struct {
	Client  *http.Client
	Timeout time.Duration
}

// Available implements Prober.
func (p HTTPProber) Available(ctx context.Context, url string) bool {
	timeout := p.Timeout
	if timeout <= 0 {
		timeout = ProbeTimeout
	}
	client := p.Client
	if client == nil {
		client = http.DefaultClient
	}

	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return false
	}
	resp, err := client.Do(req)
	if err != nil {
		return false
	}
	defer resp.Body.Close()
	_, _ = io.Copy(io.Discard, io.LimitReader(resp.Body, 64<<10))
	return resp.StatusCode == http.StatusOK
}
