package statuscolor

import (
	"fmt"
	"io"
	"net/http"
	"strconv"

	"github.com/fatih/color"

	"github.com/selimozcann/oglink/internal/model"
)

var (
	green  = color.New(color.FgGreen)
	yellow = color.New(color.FgYellow)
	red    = color.New(color.FgRed)
	gray   = color.New(color.FgHiBlack)
)

func colorFor(status int) *color.Color {
	switch {
	case status == 0:
		return gray
	case status >= 300 && status < 400:
		return green
	case status >= 400:
		return red
	default:
		return yellow
	}
}

// Sprint returns a colorized status code string (3xx green, 4xx/5xx red,
// everything else yellow).
func Sprint(status int) string {
	if status == 0 {
		return gray.Sprint("—")
	}
	return colorFor(status).Sprint(strconv.Itoa(status))
}

// WrapByStatus wraps text with the color that corresponds to status.
func WrapByStatus(text string, status int) string {
	return colorFor(status).Sprint(text)
}

// Gray wraps the provided text with a gray color.
func Gray(text string) string {
	return gray.Sprint(text)
}

// PrintChain writes a resolved redirect chain, one hop per line.
func PrintChain(w io.Writer, res model.Result) {
	for _, h := range res.Chain {
		fmt.Fprintf(w, "[%d] %s %s\n", h.Index, WrapByStatus(h.URL, h.Status), Sprint(h.Status))
	}
	if !res.OK() {
		fmt.Fprintf(w, "%s\n", red.Sprint(res.ErrorText()))
		return
	}
	fmt.Fprintf(w, "%s %s (%s, %dms)\n", Gray("final:"), res.FinalURL, http.StatusText(res.Status), res.DurationMs)
}
