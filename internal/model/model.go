package model

import "time"

// Hop represents a single response observed while following redirects.
type Hop struct {
	Index  int    `json:"index"`
	URL    string `json:"url"`
	Status int    `json:"status"`
}

// Result is the outcome of resolving one link. Exactly one of FinalURL and
// Err is meaningful: Err == nil means the link resolved.
type Result struct {
	Target     string    `json:"target"`
	FinalURL   string    `json:"final_url,omitempty"`
	Status     int       `json:"status,omitempty"`
	Chain      []Hop     `json:"chain,omitempty"`
	StartedAt  time.Time `json:"started_at"`
	DurationMs int64     `json:"duration_ms"`
	Err        error     `json:"-"`
}

// OK reports whether the link resolved to a final URL.
func (r Result) OK() bool { return r.Err == nil }

// ErrorText returns the rendered error text, or "" when the link resolved.
func (r Result) ErrorText() string {
	if r.Err == nil {
		return ""
	}
	return "Error: " + r.Err.Error()
}

// String renders the result the way it is shown to users: the final URL on
// success, "Error: <message>" otherwise.
func (r Result) String() string {
	if r.Err != nil {
		return r.ErrorText()
	}
	return r.FinalURL
}
