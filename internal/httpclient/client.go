package httpclient

import (
	"fmt"
	"net"
	"net/http"
	"net/http/cookiejar"
	"time"

	"github.com/sirupsen/logrus"
	"golang.org/x/net/publicsuffix"
)

const (
	// DefaultTimeout bounds a whole resolution, redirects included.
	DefaultTimeout = 10 * time.Second
	// DefaultMaxRedirects matches the redirect limit of common browser-like
	// HTTP clients.
	DefaultMaxRedirects = 30
)

// Config holds settings for the HTTP client.
type Config struct {
	Timeout      time.Duration
	MaxRedirects int
	// Transport is shared between clients when set; nil builds a fresh one.
	Transport http.RoundTripper
	// OnRedirect is called with every redirect response that is followed.
	OnRedirect func(resp *http.Response)
	Logger     logrus.FieldLogger
}

// TooManyRedirectsError is returned when a redirect chain exceeds the limit.
type TooManyRedirectsError struct {
	Limit int
	URL   string
}

func (e *TooManyRedirectsError) Error() string {
	return fmt.Sprintf("exceeded %d redirects", e.Limit)
}

// loggingRoundTripper wraps a base RoundTripper and reports every hop at
// debug level.
type loggingRoundTripper struct {
	base http.RoundTripper
	log  logrus.FieldLogger
}

func (l *loggingRoundTripper) RoundTrip(req *http.Request) (*http.Response, error) {
	start := time.Now()
	resp, err := l.base.RoundTrip(req)
	entry := l.log.WithFields(logrus.Fields{
		"method":  req.Method,
		"url":     req.URL.String(),
		"time_ms": time.Since(start).Milliseconds(),
	})
	if err != nil {
		entry.WithError(err).Debug("request failed")
		return nil, err
	}
	entry.WithField("status", resp.StatusCode).Debug("response")
	return resp, nil
}

// NewTransport returns a transport honoring proxy environment variables.
func NewTransport(timeout time.Duration) *http.Transport {
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	return &http.Transport{
		Proxy: http.ProxyFromEnvironment,
		DialContext: (&net.Dialer{
			Timeout:   timeout,
			KeepAlive: 30 * time.Second,
		}).DialContext,
		ForceAttemptHTTP2:     true,
		MaxIdleConns:          100,
		IdleConnTimeout:       90 * time.Second,
		TLSHandshakeTimeout:   timeout,
		ExpectContinueTimeout: 1 * time.Second,
	}
}

// New returns a client that follows redirects up to cfg.MaxRedirects and
// keeps cookies set along the chain in its own jar.
func New(cfg Config) (*http.Client, error) {
	if cfg.Timeout <= 0 {
		cfg.Timeout = DefaultTimeout
	}
	if cfg.MaxRedirects <= 0 {
		cfg.MaxRedirects = DefaultMaxRedirects
	}
	base := cfg.Transport
	if base == nil {
		base = NewTransport(cfg.Timeout)
	}
	if cfg.Logger == nil {
		cfg.Logger = logrus.StandardLogger()
	}

	jar, err := cookiejar.New(&cookiejar.Options{PublicSuffixList: publicsuffix.List})
	if err != nil {
		return nil, fmt.Errorf("create cookie jar: %w", err)
	}

	return &http.Client{
		Transport: &loggingRoundTripper{base: base, log: cfg.Logger},
		Timeout:   cfg.Timeout,
		Jar:       jar,
		CheckRedirect: func(req *http.Request, via []*http.Request) error {
			if len(via) >= cfg.MaxRedirects {
				return &TooManyRedirectsError{Limit: cfg.MaxRedirects, URL: req.URL.String()}
			}
			if cfg.OnRedirect != nil && req.Response != nil {
				cfg.OnRedirect(req.Response)
			}
			return nil
		},
	}, nil
}
