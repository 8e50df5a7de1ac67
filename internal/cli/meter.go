package cli

import (
	"bytes"
	"fmt"
	"log/slog"
	"math"
	"strings"

	"github.com/schollz/progressbar/v3"
)

const meterWidth = 30

// ConfidenceMeter draws confidence (0..100) as a horizontal bar followed by
// the exact percentage.
func ConfidenceMeter(confidence float64) string {
	var buf bytes.Buffer

	bar := progressbar.NewOptions(100,
		progressbar.OptionSetWriter(&buf),
		progressbar.OptionSetWidth(meterWidth),
		progressbar.OptionSetElapsedTime(false),
		progressbar.OptionSetPredictTime(false),
		progressbar.OptionShowCount(),
		progressbar.OptionSetTheme(progressbar.Theme{
			Saucer:        "█",
			SaucerHead:    "█",
			SaucerPadding: "░",
			BarStart:      "",
			BarEnd:        "",
		}),
	)

	if err := bar.Set(int(math.Round(confidence))); err != nil {
		slog.Warn("Failed to render confidence meter", "error", err)
	}

	return strings.TrimSpace(lastFrame(buf.String())) + "  " + fmt.Sprintf("%.1f%%", confidence)
}

// lastFrame keeps what the bar drew after its final carriage return.
func lastFrame(s string) string {
	s = strings.TrimRight(s, "\r\n ")
	if i := strings.LastIndex(s, "\r"); i >= 0 {
		return s[i+1:]
	}
	return s
}
