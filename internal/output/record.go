package output

import (
	"encoding/json"
	"io"
	"time"

	"github.com/selimozcann/oglink/internal/model"
	"github.com/selimozcann/oglink/internal/util"
)

// LinePrefix precedes every resolved link printed by the CLI.
const LinePrefix = "OG Link: "

// Record is the JSON form of one resolution.
type Record struct {
	Timestamp     string   `json:"timestamp"`
	InputURL      string   `json:"input_url"`
	FinalURL      string   `json:"final_url,omitempty"`
	RedirectChain []string `json:"redirect_chain"`
	StatusCode    int      `json:"status_code,omitempty"`
	CrossDomain   bool     `json:"cross_domain"`
	DurationMs    int64    `json:"duration_ms"`
	Error         string   `json:"error,omitempty"`
}

// FormatLine renders a result as the single CLI output line.
func FormatLine(res model.Result) string {
	return LinePrefix + res.String()
}

// BuildRecord converts a model.Result into a Record.
func BuildRecord(res model.Result) Record {
	chain := make([]string, len(res.Chain))
	for i, hop := range res.Chain {
		chain[i] = hop.URL
	}
	rec := Record{
		Timestamp:     res.StartedAt.UTC().Format(time.RFC3339),
		InputURL:      res.Target,
		RedirectChain: chain,
		DurationMs:    res.DurationMs,
	}
	if !res.OK() {
		rec.Error = res.ErrorText()
		return rec
	}
	rec.FinalURL = res.FinalURL
	rec.StatusCode = res.Status
	rec.CrossDomain = !util.SameBaseDomain(res.Target, res.FinalURL)
	return rec
}

// WriteJSON writes rec as one JSON line to w.
func WriteJSON(w io.Writer, rec Record) error {
	enc := json.NewEncoder(w)
	// Keep query strings readable.
	enc.SetEscapeHTML(false)
	return enc.Encode(rec)
}
