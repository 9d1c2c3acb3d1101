// Package chart renders the dashboard figures as SVG markup.
package chart

import (
	"bytes"
	"fmt"
	"html"
	"io"
	"math"
	"strings"
	"time"

	chart "github.com/wcharczuk/go-chart/v2"
	"github.com/wcharczuk/go-chart/v2/drawing"

	applog "github.com/elpatron68/statusboard/internal/log"
	"github.com/elpatron68/statusboard/internal/tracker"
	"github.com/elpatron68/statusboard/internal/ui"
)

type Options struct {
	Width      int
	Height     int
	DateLayout string
}

func (o Options) withDefaults() Options {
	if o.Width <= 0 {
		o.Width = 560
	}
	if o.Height <= 0 {
		o.Height = 420
	}
	if o.DateLayout == "" {
		o.DateLayout = "02/01/2006"
	}
	return o
}

// Set holds the rendered SVG documents. It is built once at startup.
type Set struct {
	Donut    string
	Bar      string
	Timeline string
}

// RenderAll renders every chart for s. An empty summary yields placeholders.
func RenderAll(s tracker.Summary, p *ui.Palette, opts Options) (*Set, error) {
	opts = opts.withDefaults()
	donut, err := Donut(s.Counts, p, opts)
	if err != nil {
		return nil, fmt.Errorf("donut chart: %w", err)
	}
	bar, err := Bar(s.Counts, p, opts)
	if err != nil {
		return nil, fmt.Errorf("bar chart: %w", err)
	}
	timeline, err := Timeline(s.Timeline, p, opts)
	if err != nil {
		return nil, fmt.Errorf("timeline chart: %w", err)
	}
	return &Set{Donut: donut, Bar: bar, Timeline: timeline}, nil
}

// Donut renders the status share as a donut chart with "Label: 12.3%" slices.
func Donut(counts []tracker.StatusCount, p *ui.Palette, opts Options) (string, error) {
	opts = opts.withDefaults()
	total := 0
	for _, c := range counts {
		total += c.Count
	}
	if total == 0 {
		return Placeholder(opts.Width, opts.Height, "No tasks"), nil
	}
	values := make([]chart.Value, 0, len(counts))
	for _, c := range counts {
		if c.Count <= 0 {
			continue
		}
		share := float64(c.Count) / float64(total) * 100
		values = append(values, chart.Value{
			Value: float64(c.Count),
			Label: fmt.Sprintf("%s: %.1f%%", c.Status, share),
			Style: chart.Style{
				FillColor:   color(p.Color(c.Status)),
				StrokeColor: chart.ColorWhite,
				StrokeWidth: 2,
				FontColor:   drawing.ColorFromHex("333333"),
				FontSize:    11,
			},
		})
	}
	d := chart.DonutChart{
		Width:  opts.Width,
		Height: opts.Height,
		Values: values,
	}
	return render(d.Render)
}

// Bar renders one bar per status, in the aggregator's order.
func Bar(counts []tracker.StatusCount, p *ui.Palette, opts Options) (string, error) {
	opts = opts.withDefaults()
	if len(counts) == 0 {
		return Placeholder(opts.Width, opts.Height, "No tasks"), nil
	}
	top := 0
	bars := make([]chart.Value, 0, len(counts))
	for _, c := range counts {
		if c.Count > top {
			top = c.Count
		}
		bars = append(bars, chart.Value{
			Value: float64(c.Count),
			Label: c.Status,
			Style: chart.Style{FillColor: color(p.Color(c.Status)), StrokeColor: color(p.Color(c.Status))},
		})
	}
	step := tickStep(top)
	ticks := make([]chart.Tick, 0, top/step+2)
	for v := 0; v <= top+step; v += step {
		ticks = append(ticks, chart.Tick{Value: float64(v), Label: fmt.Sprint(v)})
	}
	b := chart.BarChart{
		Width:      opts.Width,
		Height:     opts.Height,
		Background: chart.Style{Padding: chart.Box{Top: 24, Left: 12, Right: 12, Bottom: 12}},
		BarWidth:   barWidth(opts.Width, len(bars)),
		YAxis: chart.YAxis{
			Name:  "Count",
			Range: &chart.ContinuousRange{Min: 0, Max: ticks[len(ticks)-1].Value},
			Ticks: ticks,
		},
		Bars: bars,
	}
	return render(b.Render)
}

// Timeline draws each scheduled task as a horizontal bar from start to end,
// first task on top. Tasks without both dates are left out.
func Timeline(tasks []tracker.Task, p *ui.Palette, opts Options) (string, error) {
	opts = opts.withDefaults()
	sched := tracker.Scheduled(tasks)
	if len(sched) == 0 {
		return Placeholder(opts.Width*2, minTimelineHeight, "No scheduled timeline tasks"), nil
	}
	n := len(sched)
	minT, maxT := sched[0].Start, sched[0].End
	series := make([]chart.Series, 0, n)
	// boundary ticks keep go-chart from generating its own y ticks
	yTicks := make([]chart.Tick, 0, n+2)
	yTicks = append(yTicks, chart.Tick{Value: -0.5})
	for i, t := range sched {
		if t.Start.Before(minT) {
			minT = t.Start
		}
		if t.End.After(maxT) {
			maxT = t.End
		}
		y := float64(n - 1 - i)
		// end is inclusive, draw to the end of that day
		series = append(series, chart.ContinuousSeries{
			Name:    t.Topic,
			XValues: []float64{dayNumber(t.Start), dayNumber(t.End) + 1},
			YValues: []float64{y, y},
			Style: chart.Style{
				StrokeColor: color(p.Color(t.Status)),
				StrokeWidth: 14,
			},
		})
	}
	for i := n - 1; i >= 0; i-- {
		yTicks = append(yTicks, chart.Tick{Value: float64(n - 1 - i), Label: label(sched[i].Topic)})
	}
	yTicks = append(yTicks, chart.Tick{Value: float64(n) - 0.5})

	lo, hi := dayNumber(minT)-1, dayNumber(maxT)+2
	ch := chart.Chart{
		Title:      "Project Timeline",
		Width:      opts.Width * 2,
		Height:     timelineHeight(n),
		Background: chart.Style{Padding: chart.Box{Top: 40, Left: 16, Right: 16, Bottom: 16}},
		XAxis: chart.XAxis{
			Range: &chart.ContinuousRange{Min: lo, Max: hi},
			Ticks: dateTicks(lo, hi, timelineXTicks, opts.DateLayout),
		},
		YAxis: chart.YAxis{
			Range: &chart.ContinuousRange{Min: -0.5, Max: float64(n) - 0.5},
			Ticks: yTicks,
		},
		Series: series,
	}
	applog.Debugf("timeline: %d of %d tasks scheduled", n, len(tasks))
	return render(ch.Render)
}

const (
	minTimelineHeight = 160
	timelineXTicks    = 6
)

func timelineHeight(n int) int {
	if h := 80 + 28*n; h > minTimelineHeight {
		return h
	}
	return minTimelineHeight
}

// dateTicks spreads count labelled ticks evenly over [lo, hi] (day numbers).
func dateTicks(lo, hi float64, count int, layout string) []chart.Tick {
	ticks := make([]chart.Tick, 0, count)
	step := (hi - lo) / float64(count-1)
	for i := 0; i < count; i++ {
		v := lo + step*float64(i)
		if i == count-1 {
			v = hi
		}
		ticks = append(ticks, chart.Tick{Value: v, Label: ui.FormatDate(dayTime(v), layout)})
	}
	return ticks
}

// dayNumber counts days since the Unix epoch. Unlike UnixNano it covers every
// date a spreadsheet can hold (years 1 to 9999).
func dayNumber(t time.Time) float64 { return float64(t.Unix()) / secondsPerDay }

func dayTime(d float64) time.Time { return time.Unix(int64(math.Round(d*secondsPerDay)), 0).UTC() }

const secondsPerDay = 24 * 60 * 60

func render(fn func(chart.RendererProvider, io.Writer) error) (string, error) {
	var buf bytes.Buffer
	if err := fn(chart.SVG, &buf); err != nil {
		return "", err
	}
	return buf.String(), nil
}

// Placeholder is a minimal SVG with a centered message, used for empty charts.
func Placeholder(width, height int, msg string) string {
	return fmt.Sprintf(`<svg xmlns="http://www.w3.org/2000/svg" width="%d" height="%d" viewBox="0 0 %d %d">`+
		`<rect width="100%%" height="100%%" fill="#ffffff"/>`+
		`<text x="50%%" y="50%%" text-anchor="middle" dominant-baseline="middle" fill="#888888" font-family="Arial, sans-serif" font-size="16">%s</text></svg>`,
		width, height, width, height, html.EscapeString(msg))
}

func color(hex string) drawing.Color {
	h := ui.NormalizeHex(hex)
	if len(h) != 7 || h[0] != '#' {
		applog.Warnf("invalid color %q, using gray", hex)
		h = "#B0BEC5"
	}
	return drawing.ColorFromHex(h[1:])
}

func tickStep(top int) int {
	switch {
	case top <= 10:
		return 1
	case top <= 50:
		return 5
	case top <= 200:
		return 20
	default:
		return top / 10
	}
}

func barWidth(width, n int) int {
	w := (width - 120) / (n * 2)
	if w > 80 {
		return 80
	}
	if w < 12 {
		return 12
	}
	return w
}

func label(s string) string {
	s = strings.TrimSpace(s)
	if r := []rune(s); len(r) > 40 {
		return string(r[:39]) + "…"
	}
	if s == "" {
		return "(untitled)"
	}
	return s
}
