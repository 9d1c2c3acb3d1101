package ui

import (
	"fmt"
	"hash/fnv"
	"math"
	"strings"
	"time"
)

// fallback colors for statuses without a configured color
var fallbackColors = []string{"#90CAF9", "#CE93D8", "#FFCC80", "#80CBC4", "#B0BEC5", "#F48FB1"}

// Palette maps status values to colors.
type Palette struct {
	colors map[string]string
}

func NewPalette(colors map[string]string) *Palette {
	m := make(map[string]string, len(colors))
	for k, v := range colors {
		m[k] = NormalizeHex(v)
	}
	return &Palette{colors: m}
}

// Color returns the configured color or a stable fallback picked by name.
func (p *Palette) Color(status string) string {
	if c, ok := p.colors[status]; ok && c != "" {
		return c
	}
	h := fnv.New32a()
	_, _ = h.Write([]byte(status))
	return fallbackColors[h.Sum32()%uint32(len(fallbackColors))]
}

// Configured reports whether status has an explicit color.
func (p *Palette) Configured(status string) bool {
	_, ok := p.colors[status]
	return ok
}

// NormalizeHex returns "#RRGGBB" upper-cased; "#abc" is expanded.
// Invalid input is returned trimmed but otherwise unchanged.
func NormalizeHex(s string) string {
	s = strings.TrimSpace(s)
	h := strings.TrimPrefix(s, "#")
	if len(h) == 3 {
		h = string([]byte{h[0], h[0], h[1], h[1], h[2], h[2]})
	}
	if len(h) != 6 {
		return s
	}
	for _, c := range h {
		if !strings.ContainsRune("0123456789abcdefABCDEF", c) {
			return s
		}
	}
	return "#" + strings.ToUpper(h)
}

// StatusClass derives a CSS class name, e.g. "In Progress" -> "status-in-progress".
func StatusClass(status string) string {
	var b strings.Builder
	b.WriteString("status-")
	dash := false
	for _, r := range strings.ToLower(strings.TrimSpace(status)) {
		if (r >= 'a' && r <= 'z') || (r >= '0' && r <= '9') {
			b.WriteRune(r)
			dash = false
			continue
		}
		if !dash && b.Len() > len("status-") {
			b.WriteByte('-')
			dash = true
		}
	}
	return strings.TrimSuffix(b.String(), "-")
}

// FormatPercent renders a stored percentage with two decimals.
func FormatPercent(p float64) string {
	if math.IsNaN(p) || math.IsInf(p, 0) {
		p = 0
	}
	return fmt.Sprintf("%.2f%%", math.Round(p*100)/100)
}

// FormatDate renders t with layout; a zero time renders empty.
func FormatDate(t time.Time, layout string) string {
	if t.IsZero() {
		return ""
	}
	return t.Format(layout)
}
