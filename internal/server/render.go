package server

import (
	"html/template"
	"net/http"
	"net/url"
	"time"

	"github.com/gomarkdown/markdown"
	mdhtml "github.com/gomarkdown/markdown/html"
	"github.com/gomarkdown/markdown/parser"

	applog "github.com/elpatron68/statusboard/internal/log"
	"github.com/elpatron68/statusboard/internal/tracker"
	"github.com/elpatron68/statusboard/internal/ui"
)

const dashboardContent = `
<div>
  <h1>{{.Title}}</h1>
  <p class="intro">{{.Intro}}</p>
</div>
<div class="card">
  <div class="details">
    <div class="text">
      <h3>🔍 Project Details</h3>
      <p>📁 Project Name: {{.Project.Name}}</p>
      {{if .Project.StartDate}}<p>📅 Start Date: {{.Project.StartDate}}</p>{{end}}
      {{if .Project.EndDate}}<p>📅 End Date: {{.Project.EndDate}}</p>{{end}}
      <p class="progress">📊 Progress: {{.Progress}}</p>
      <p>{{.Completed}} of {{.Total}} tasks complete</p>
      {{if .Description}}<div class="description">{{.Description}}</div>{{end}}
    </div>
    {{if .Image}}<div><img src="{{.Image}}" alt="{{.Project.Name}}"></div>{{end}}
  </div>
</div>
<div class="charts">
  <div class="chart">{{.Donut}}</div>
  <div class="chart">{{.Bar}}</div>
</div>
<div class="card chart">{{.Timeline}}</div>
<div class="card">
  <h3>📋 Task Summary Report</h3>
  {{template "table" .}}
</div>
`

const tableContent = `
{{define "table"}}
{{if .Rows}}
<table>
  <thead><tr>{{range .Columns}}<th>{{if .SortURL}}<a href="{{.SortURL}}">{{.Name}}{{.Arrow}}</a>{{else}}{{.Name}}{{end}}</th>{{end}}</tr></thead>
  <tbody>
  {{range .Rows}}
    <tr>{{range .Cells}}{{if .Color}}<td class="status {{statusClass .Value}}" style="background-color: {{.Color}}">{{.Value}}</td>{{else}}<td>{{.Value}}</td>{{end}}{{end}}</tr>
  {{end}}
  </tbody>
</table>
{{else}}
<div class="empty">No tasks</div>
{{end}}
{{end}}
`

const tasksContent = `
<h2>Tasks ({{len .Rows}} of {{.Total}})</h2>
<form method="get" style="margin-bottom:8px">
  <input name="q" value="{{.Q}}" placeholder="Filter: status:complete text" style="width:60%" />
  <input type="hidden" name="sort" value="{{.Sort}}"/>
  <input type="hidden" name="dir" value="{{.Dir}}"/>
  <button type="submit">Filter</button>
</form>
{{template "table" .}}
`

type column struct {
	Name    string
	SortURL string
	Arrow   string
}

func (s *Server) renderDashboard(w http.ResponseWriter, r *http.Request) {
	sum := s.board.Summary
	image := ""
	if s.cfg.Project.Image != "" {
		image = "/assets/" + url.PathEscape(s.cfg.Project.Image)
	}
	s.execute(w, "dashboard", map[string]any{
		"Title":       s.cfg.UI.Title,
		"Intro":       s.cfg.UI.Intro,
		"Project":     s.cfg.Project,
		"Description": s.intro,
		"Image":       image,
		"Progress":    ui.FormatPercent(sum.PercentComplete),
		"Completed":   sum.Completed,
		"Total":       sum.Total,
		"Donut":       template.HTML(s.board.Charts.Donut),
		"Bar":         template.HTML(s.board.Charts.Bar),
		"Timeline":    template.HTML(s.board.Charts.Timeline),
		"Columns":     s.columns("", "", ""),
		"Rows":        s.rows,
		"Active":      activeFromPath(r.URL.Path),
	})
}

// renderTasks renders the table view with ?q= filtering and ?sort=&dir= ordering.
func (s *Server) renderTasks(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	query, sortKey, dir := q.Get("q"), q.Get("sort"), q.Get("dir")
	rows := applyQueryFilter(append([]tableRow(nil), s.rows...), query)
	if sortKey != "" {
		sortRows(rows, s.columnIndex(sortKey), s.dateAccessor(sortKey), dir)
	}
	s.execute(w, "tasks", map[string]any{
		"Title":   s.cfg.UI.Title + " · Tasks",
		"Q":       query,
		"Sort":    sortKey,
		"Dir":     dir,
		"Total":   len(s.rows),
		"Columns": s.columns(query, sortKey, dir),
		"Rows":    rows,
		"Active":  activeFromPath(r.URL.Path),
	})
}

func (s *Server) execute(w http.ResponseWriter, page string, data map[string]any) {
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	if err := s.pages[page].Execute(w, data); err != nil {
		applog.Errorf("render %s: %v", page, err)
	}
}

// columns builds the table header; every header links to the sorted tasks view.
func (s *Server) columns(q, sortKey, dir string) []column {
	out := make([]column, 0, len(s.board.Dataset.Columns))
	for _, name := range s.board.Dataset.Columns {
		c := column{Name: name}
		next := "asc"
		if name == sortKey {
			c.Arrow = " ▲"
			if dir == "desc" {
				c.Arrow = " ▼"
			} else {
				next = "desc"
			}
		}
		v := url.Values{}
		if q != "" {
			v.Set("q", q)
		}
		v.Set("sort", name)
		v.Set("dir", next)
		c.SortURL = "/tasks?" + v.Encode()
		out = append(out, c)
	}
	return out
}

func (s *Server) columnIndex(name string) int {
	for i, c := range s.board.Dataset.Columns {
		if c == name {
			return i
		}
	}
	return -1
}

func (s *Server) dateAccessor(name string) func(tracker.Task) time.Time {
	switch name {
	case s.cfg.Data.Columns.StartDate:
		return func(t tracker.Task) time.Time { return t.Start }
	case s.cfg.Data.Columns.EndDate:
		return func(t tracker.Task) time.Time { return t.End }
	}
	return nil
}

// renderMarkdown converts the project description to HTML. Raw HTML in the
// source is dropped.
func renderMarkdown(src string) template.HTML {
	if src == "" {
		return ""
	}
	p := parser.NewWithExtensions(parser.CommonExtensions | parser.AutoHeadingIDs)
	doc := p.Parse([]byte(src))
	r := mdhtml.NewRenderer(mdhtml.RendererOptions{Flags: mdhtml.CommonFlags | mdhtml.HrefTargetBlank | mdhtml.SkipHTML})
	return template.HTML(markdown.Render(doc, r))
}
