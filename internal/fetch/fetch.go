// Package fetch downloads packet bytes on behalf of the extraction engine.
// Municipal CDNs routinely reject non-browser clients, so requests carry
// realistic browser headers; everything else here is defense: size caps,
// magic-byte validation, and an SSRF guard for attacker-supplied URLs.
package fetch

import (
	"context"
	"fmt"
	"io"
	"net"
	"net/http"
	"net/url"
	"time"

	"go.uber.org/zap"
	"golang.org/x/time/rate"

	"github.com/Engagic/packet-extraction-service/internal/config"
)

// SourceError is the typed failure for collaborator-supplied bytes being
// unavailable: DNS, HTTP status, size caps, or a non-PDF body.
type SourceError struct {
	URL string
	Err error
}

func (e *SourceError) Error() string { return fmt.Sprintf("fetch %s: %v", e.URL, e.Err) }
func (e *SourceError) Unwrap() error { return e.Err }

var blockedNets = mustParseCIDRs(
	"127.0.0.0/8",
	"10.0.0.0/8",
	"172.16.0.0/12",
	"192.168.0.0/16",
	"169.254.0.0/16",
	"::1/128",
	"fc00::/7",
	"fe80::/10",
)

type Client struct {
	cfg     config.Config
	http    *http.Client
	limiter *rate.Limiter
	log     *zap.Logger
}

func New(cfg config.Config, log *zap.Logger) *Client {
	if log == nil {
		log = zap.NewNop()
	}
	return &Client{
		cfg: cfg,
		http: &http.Client{
			Timeout: cfg.FetchTimeout,
			Transport: &http.Transport{
				MaxIdleConns:        10,
				IdleConnTimeout:     30 * time.Second,
				TLSHandshakeTimeout: 10 * time.Second,
			},
		},
		limiter: rate.NewLimiter(rate.Every(cfg.FetchRateEvery), cfg.FetchRateBurst),
		log:     log,
	}
}

// Fetch downloads one packet. Batch callers share the client, so the rate
// limiter paces requests against each municipality's infrastructure.
func (c *Client) Fetch(ctx context.Context, rawURL string) ([]byte, error) {
	if err := c.validateURL(rawURL); err != nil {
		return nil, &SourceError{URL: rawURL, Err: err}
	}
	if err := c.limiter.Wait(ctx); err != nil {
		return nil, &SourceError{URL: rawURL, Err: err}
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, rawURL, nil)
	if err != nil {
		return nil, &SourceError{URL: rawURL, Err: err}
	}
	// Vendor platforms (Granicus, Legistar, CivicPlus) serve different
	// bytes, or none at all, to obvious bots.
	req.Header.Set("User-Agent",
		"Mozilla/5.0 (X11; Linux x86_64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/124.0.0.0 Safari/537.36")
	req.Header.Set("Accept", "application/pdf,application/octet-stream;q=0.9,*/*;q=0.8")
	req.Header.Set("Accept-Language", "en-US,en;q=0.9")

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, &SourceError{URL: rawURL, Err: err}
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, &SourceError{URL: rawURL, Err: fmt.Errorf("HTTP %d", resp.StatusCode)}
	}

	lr := &io.LimitedReader{R: resp.Body, N: c.cfg.MaxPDFBytes + 1}
	data, err := io.ReadAll(lr)
	if err != nil {
		return nil, &SourceError{URL: rawURL, Err: fmt.Errorf("read body: %w", err)}
	}
	if int64(len(data)) > c.cfg.MaxPDFBytes {
		return nil, &SourceError{URL: rawURL, Err: fmt.Errorf("body exceeds %d byte limit", c.cfg.MaxPDFBytes)}
	}
	if err := validateMagic(data); err != nil {
		return nil, &SourceError{URL: rawURL, Err: err}
	}

	c.log.Debug("packet fetched", zap.String("url", rawURL), zap.Int("bytes", len(data)))
	return data, nil
}

// validateMagic catches vendor error pages served with a 200: HTML, XML
// storage errors, or login redirects that would otherwise reach the
// decoder as a "corrupt PDF".
func validateMagic(data []byte) error {
	if len(data) < 100 {
		return fmt.Errorf("body too small to be a PDF (%d bytes)", len(data))
	}
	if string(data[:4]) != "%PDF" {
		preview := string(data[:min(len(data), 24)])
		return fmt.Errorf("body is not a PDF (starts with %q)", preview)
	}
	return nil
}

// validateURL blocks non-HTTP schemes and, unless explicitly allowed,
// URLs that resolve into private or link-local networks.
func (c *Client) validateURL(rawURL string) error {
	if len(rawURL) > 2048 {
		return fmt.Errorf("url too long")
	}
	u, err := url.Parse(rawURL)
	if err != nil {
		return fmt.Errorf("invalid url: %w", err)
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return fmt.Errorf("scheme must be http or https")
	}
	if u.Hostname() == "" {
		return fmt.Errorf("url has no hostname")
	}
	if c.cfg.AllowPrivateNet {
		return nil
	}
	addrs, err := net.LookupIP(u.Hostname())
	if err != nil {
		return fmt.Errorf("resolve %s: %w", u.Hostname(), err)
	}
	for _, addr := range addrs {
		for _, blocked := range blockedNets {
			if blocked.Contains(addr) {
				return fmt.Errorf("host resolves into blocked network %s", blocked)
			}
		}
	}
	return nil
}

func mustParseCIDRs(cidrs ...string) []*net.IPNet {
	out := make([]*net.IPNet, 0, len(cidrs))
	for _, c := range cidrs {
		_, n, err := net.ParseCIDR(c)
		if err != nil {
			panic(fmt.Sprintf("bad builtin CIDR %q: %v", c, err))
		}
		out = append(out, n)
	}
	return out
}
