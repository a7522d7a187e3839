// Package resolver follows the redirect chain of an affiliate link and
// reports the URL it finally lands on.
package resolver

import (
	"context"
	"net/http"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/selimozcann/oglink/internal/httpclient"
	"github.com/selimozcann/oglink/internal/model"
)

// Config holds settings for the Resolver.
type Config struct {
	Timeout      time.Duration
	MaxRedirects int
	Logger       logrus.FieldLogger
}

// Resolver resolves links with one GET each. It is safe for concurrent use;
// every call gets its own client and cookie jar over a shared transport.
type Resolver struct {
	cfg       Config
	transport *http.Transport
}

// New creates a new Resolver.
func New(cfg Config) *Resolver {
	if cfg.Timeout <= 0 {
		cfg.Timeout = httpclient.DefaultTimeout
	}
	if cfg.MaxRedirects <= 0 {
		cfg.MaxRedirects = httpclient.DefaultMaxRedirects
	}
	if cfg.Logger == nil {
		cfg.Logger = logrus.StandardLogger()
	}
	return &Resolver{cfg: cfg, transport: httpclient.NewTransport(cfg.Timeout)}
}

// Close releases idle connections held by the shared transport.
func (r *Resolver) Close() { r.transport.CloseIdleConnections() }

// Timeout returns the per-resolution timeout in effect.
func (r *Resolver) Timeout() time.Duration { return r.cfg.Timeout }

// Resolve issues a GET to target and follows redirects. It always returns a
// Result; transport failures of any kind end up in Result.Err.
func (r *Resolver) Resolve(ctx context.Context, target string) model.Result {
	res := model.Result{Target: target, StartedAt: time.Now()}
	log := r.cfg.Logger.WithField("target", target)

	client, err := httpclient.New(httpclient.Config{
		Timeout:      r.cfg.Timeout,
		MaxRedirects: r.cfg.MaxRedirects,
		Transport:    r.transport,
		Logger:       r.cfg.Logger,
		OnRedirect: func(resp *http.Response) {
			res.Chain = append(res.Chain, model.Hop{
				Index:  len(res.Chain),
				URL:    resp.Request.URL.String(),
				Status: resp.StatusCode,
			})
		},
	})
	if err != nil {
		return r.fail(log, res, err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, target, nil)
	if err != nil {
		return r.fail(log, res, err)
	}
	resp, err := client.Do(req)
	if err != nil {
		return r.fail(log, res, err)
	}
	_ = resp.Body.Close()

	res.FinalURL = resp.Request.URL.String()
	res.Status = resp.StatusCode
	res.Chain = append(res.Chain, model.Hop{Index: len(res.Chain), URL: res.FinalURL, Status: resp.StatusCode})
	res.DurationMs = time.Since(res.StartedAt).Milliseconds()
	log.WithFields(logrus.Fields{
		"final_url": res.FinalURL,
		"hops":      len(res.Chain),
	}).Debug("resolved")
	return res
}

func (r *Resolver) fail(log logrus.FieldLogger, res model.Result, err error) model.Result {
	res.Err = err
	res.DurationMs = time.Since(res.StartedAt).Milliseconds()
	log.WithError(err).Debug("resolution failed")
	return res
}

// GetOGLink resolves target with the given timeout and returns the final
// URL, or "Error: <message>" when resolution fails.
func GetOGLink(target string, timeout time.Duration) string {
	r := New(Config{Timeout: timeout})
	defer r.Close()
	return r.Resolve(context.Background(), target).String()
}
