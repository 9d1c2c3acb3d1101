package server

import (
	"encoding/json"
	"html/template"
	"net/http"
	"strings"
	"time"

	"github.com/elpatron68/statusboard/internal/board"
	"github.com/elpatron68/statusboard/internal/config"
	applog "github.com/elpatron68/statusboard/internal/log"
	"github.com/elpatron68/statusboard/internal/tracker"
	"github.com/elpatron68/statusboard/internal/ui"
)

type Server struct {
	mux       *http.ServeMux
	layoutTpl *template.Template
	pages     map[string]*template.Template
	cfg       *config.Config
	board     *board.Board
	rows      []tableRow
	intro     template.HTML
}

const faviconSVG = `<?xml version="1.0" encoding="UTF-8"?>
<svg xmlns="http://www.w3.org/2000/svg" viewBox="0 0 64 64">
  <rect rx="12" width="64" height="64" fill="#007BFF"/>
  <circle cx="32" cy="32" r="18" fill="none" stroke="#fff" stroke-width="8" stroke-dasharray="80 120" transform="rotate(-90 32 32)"/>
</svg>`

const layout = `<!doctype html><html><head><meta charset="utf-8"><title>{{.Title}}</title><link rel="icon" href="/favicon.svg" type="image/svg+xml">
<style>
body{font-family:Arial,sans-serif;background:#f9f9f9;padding:20px;margin:0}
nav{margin-bottom:12px}
nav a{padding:6px 10px;text-decoration:none;color:#007BFF;border-radius:4px}
nav a.active{background:#007BFF;color:#fff}
h1{text-align:center;color:#333;font-size:2rem;margin-bottom:10px}
.intro{text-align:center;color:#666;font-size:1rem;margin-bottom:20px}
.card{background:#fff;border-radius:12px;padding:15px;box-shadow:0 4px 10px rgba(0,0,0,0.1);margin-bottom:20px}
.details{display:flex;align-items:center}
.details .text{flex:1}
.details .text p{margin:5px 0}
.details img{width:200px;height:auto;border-radius:8px;box-shadow:0 4px 10px rgba(0,0,0,0.1)}
.progress{font-size:1.2rem;font-weight:bold;color:#007BFF}
.charts{display:flex;justify-content:space-between}
.charts .chart{width:48%}
.chart svg{max-width:100%;height:auto}
table{border-collapse:collapse;width:100%;border-radius:8px;overflow-x:auto}
th,td{text-align:center;padding:8px;font-size:1rem}
thead th{background:#f4f4f4;font-weight:bold;color:#333}
thead th a{color:#333;text-decoration:none}
tbody tr:nth-child(odd){background:#f9f9f9}
td.status{color:#333}
.empty{color:#888;text-align:center;padding:16px}
</style>
</head><body>
<nav>
  <a href="/" class="{{if eq .Active "home"}}active{{end}}">Dashboard</a>
  <a href="/tasks" class="{{if eq .Active "tasks"}}active{{end}}">Tasks</a>
  <a href="/api/summary">JSON</a>
</nav>
{{template "content" .}}
</body></html>`

func NewServer(cfg *config.Config, b *board.Board) *Server {
	s := &Server{cfg: cfg, board: b}
	s.mux = http.NewServeMux()
	s.layoutTpl = template.Must(template.New("layout").Funcs(template.FuncMap{
		"statusClass": ui.StatusClass,
	}).Parse(layout))
	s.pages = map[string]*template.Template{
		"dashboard": s.page(dashboardContent),
		"tasks":     s.page(tasksContent),
	}
	s.rows = buildRows(b, cfg.Data.Columns.Status)
	s.intro = renderMarkdown(cfg.Project.Description)
	s.routes()
	return s
}

// page clones the layout and attaches the given content template.
func (s *Server) page(content string) *template.Template {
	t := template.Must(s.layoutTpl.Clone())
	template.Must(t.New("partials").Parse(tableContent))
	template.Must(t.New("content").Parse(content))
	return t
}

func (s *Server) routes() {
	s.mux.HandleFunc("/favicon.svg", getOnly(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "image/svg+xml")
		_, _ = w.Write([]byte(faviconSVG))
	}))
	s.mux.HandleFunc("/favicon.ico", func(w http.ResponseWriter, r *http.Request) {
		http.Redirect(w, r, "/favicon.svg", http.StatusMovedPermanently)
	})
	s.mux.HandleFunc("/healthz", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/plain; charset=utf-8")
		_, _ = w.Write([]byte("ok"))
	})
	if dir := strings.TrimSpace(s.cfg.UI.AssetsDir); dir != "" {
		s.mux.Handle("/assets/", getOnly(http.StripPrefix("/assets/", http.FileServer(http.Dir(dir))).ServeHTTP))
	}
	s.mux.HandleFunc("/charts/", getOnly(func(w http.ResponseWriter, r *http.Request) {
		var svg string
		switch strings.TrimPrefix(r.URL.Path, "/charts/") {
		case "donut.svg":
			svg = s.board.Charts.Donut
		case "bar.svg":
			svg = s.board.Charts.Bar
		case "timeline.svg":
			svg = s.board.Charts.Timeline
		default:
			http.NotFound(w, r)
			return
		}
		w.Header().Set("Content-Type", "image/svg+xml")
		_, _ = w.Write([]byte(svg))
	}))
	s.mux.HandleFunc("/api/summary", getOnly(s.handleSummary))
	s.mux.HandleFunc("/tasks", getOnly(s.renderTasks))
	s.mux.HandleFunc("/", getOnly(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/" {
			http.NotFound(w, r)
			return
		}
		s.renderDashboard(w, r)
	}))
}

type summaryResponse struct {
	Project        string                `json:"project"`
	Counts         []tracker.StatusCount `json:"counts"`
	Total          int                   `json:"totalTasks"`
	Completed      int                   `json:"completedTasks"`
	Percent        float64               `json:"percentComplete"`
	PercentDisplay string                `json:"percentCompleteDisplay"`
	Timeline       []tracker.Task        `json:"timeline"`
}

func (s *Server) handleSummary(w http.ResponseWriter, r *http.Request) {
	sum := s.board.Summary
	out := summaryResponse{
		Project:        s.cfg.Project.Name,
		Counts:         sum.Counts,
		Total:          sum.Total,
		Completed:      sum.Completed,
		Percent:        sum.PercentComplete,
		PercentDisplay: ui.FormatPercent(sum.PercentComplete),
		Timeline:       sum.Timeline,
	}
	w.Header().Set("Content-Type", "application/json")
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(out); err != nil {
		applog.Warnf("encode summary: %v", err)
	}
}

// getOnly rejects everything but GET and HEAD; the data is read-only.
func getOnly(h http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodGet && r.Method != http.MethodHead {
			w.Header().Set("Allow", "GET, HEAD")
			http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
			return
		}
		h(w, r)
	}
}

type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (r *statusRecorder) WriteHeader(code int) {
	r.status = code
	r.ResponseWriter.WriteHeader(code)
}

func (s *Server) Handler() http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		rec := &statusRecorder{ResponseWriter: w, status: http.StatusOK}
		s.mux.ServeHTTP(rec, r)
		applog.Debugf("%s %s -> %d (%s)", r.Method, r.URL.RequestURI(), rec.status, time.Since(start).Round(time.Microsecond))
	})
}
