package server

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/elpatron68/statusboard/internal/board"
	"github.com/elpatron68/statusboard/internal/config"
	"github.com/elpatron68/statusboard/internal/sheet"
)

var sampleRecords = [][]string{
	{"Topic", "Status", "Start Date", "End Date", "Privote"},
	{"Order socket", "Complete", "2024-12-16", "2025-01-10", "o"},
	{"Qualify sample", "In Progress", "2025-01-11", "2025-03-01", "o"},
	{"Update drawings", "Not Started", "", "2025-04-01", ""},
	{"Approve", "Complete", "2025-04-02", "2025-04-05", "x"},
}

func newTestServer(t *testing.T, cfg *config.Config, records [][]string) *Server {
	t.Helper()
	if cfg == nil {
		cfg = config.Default()
	}
	b, err := board.FromTable(cfg, sheet.FromRecords(records))
	if err != nil {
		t.Fatalf("board: %v", err)
	}
	return NewServer(cfg, b)
}

func get(t *testing.T, s *Server, target string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(http.MethodGet, target, nil)
	rr := httptest.NewRecorder()
	s.Handler().ServeHTTP(rr, req)
	return rr
}

func TestHealthz(t *testing.T) {
	s := newTestServer(t, nil, sampleRecords)
	rr := get(t, s, "/healthz")
	if rr.Code != http.StatusOK {
		t.Fatalf("status %d", rr.Code)
	}
	if rr.Body.String() != "ok" {
		t.Fatalf("unexpected body: %q", rr.Body.String())
	}
}

func TestDashboard(t *testing.T) {
	cfg := config.Default()
	cfg.Project.Name = "Socket rollout"
	cfg.Project.Description = "Ships **Q2**"
	s := newTestServer(t, cfg, sampleRecords)
	rr := get(t, s, "/")
	if rr.Code != http.StatusOK {
		t.Fatalf("status %d", rr.Code)
	}
	if ct := rr.Header().Get("Content-Type"); !strings.HasPrefix(ct, "text/html") {
		t.Fatalf("content type %q", ct)
	}
	body := rr.Body.String()
	for _, want := range []string{
		"Project Dashboard",
		"Socket rollout",
		"50.00%",
		"2 of 4 tasks complete",
		"<strong>Q2</strong>",
		"<svg",
		"Qualify sample",
		"16/12/2024",
		"background-color: #A5D6A7",
		`class="active">Dashboard`,
	} {
		if !strings.Contains(body, want) {
			t.Fatalf("dashboard missing %q", want)
		}
	}
}

func TestDashboard_Empty(t *testing.T) {
	s := newTestServer(t, nil, [][]string{{"Topic", "Status"}})
	body := get(t, s, "/").Body.String()
	if !strings.Contains(body, "0.00%") {
		t.Fatalf("expected zero progress")
	}
	if !strings.Contains(body, "No tasks") {
		t.Fatalf("expected empty state")
	}
}

func TestUnknownPathIs404(t *testing.T) {
	s := newTestServer(t, nil, sampleRecords)
	if rr := get(t, s, "/nope"); rr.Code != http.StatusNotFound {
		t.Fatalf("status %d", rr.Code)
	}
	if rr := get(t, s, "/charts/pie.svg"); rr.Code != http.StatusNotFound {
		t.Fatalf("status %d", rr.Code)
	}
}

func TestPostIsRejected(t *testing.T) {
	s := newTestServer(t, nil, sampleRecords)
	req := httptest.NewRequest(http.MethodPost, "/", nil)
	rr := httptest.NewRecorder()
	s.Handler().ServeHTTP(rr, req)
	if rr.Code != http.StatusMethodNotAllowed {
		t.Fatalf("status %d", rr.Code)
	}
	if rr.Header().Get("Allow") == "" {
		t.Fatalf("Allow header missing")
	}
}

func TestSummaryJSON(t *testing.T) {
	s := newTestServer(t, nil, sampleRecords)
	rr := get(t, s, "/api/summary")
	if rr.Code != http.StatusOK {
		t.Fatalf("status %d", rr.Code)
	}
	var got struct {
		Counts []struct {
			Status string `json:"status"`
			Count  int    `json:"count"`
		} `json:"counts"`
		Total          int     `json:"totalTasks"`
		Completed      int     `json:"completedTasks"`
		Percent        float64 `json:"percentComplete"`
		PercentDisplay string  `json:"percentCompleteDisplay"`
		Timeline       []struct {
			Topic string  `json:"topic"`
			Start *string `json:"start"`
		} `json:"timeline"`
	}
	if err := json.Unmarshal(rr.Body.Bytes(), &got); err != nil {
		t.Fatalf("decode: %v\n%s", err, rr.Body.String())
	}
	if got.Total != 4 || got.Completed != 2 || got.Percent != 50 || got.PercentDisplay != "50.00%" {
		t.Fatalf("summary=%+v", got)
	}
	if len(got.Counts) != 3 || got.Counts[0].Status != "Complete" || got.Counts[0].Count != 2 {
		t.Fatalf("counts=%+v", got.Counts)
	}
	if len(got.Timeline) != 2 || got.Timeline[0].Topic != "Order socket" || got.Timeline[0].Start == nil || *got.Timeline[0].Start != "2024-12-16" {
		t.Fatalf("timeline=%+v", got.Timeline)
	}
}

func TestCharts(t *testing.T) {
	s := newTestServer(t, nil, sampleRecords)
	for _, name := range []string{"donut", "bar", "timeline"} {
		rr := get(t, s, "/charts/"+name+".svg")
		if rr.Code != http.StatusOK {
			t.Fatalf("%s: status %d", name, rr.Code)
		}
		if rr.Header().Get("Content-Type") != "image/svg+xml" {
			t.Fatalf("%s: content type %q", name, rr.Header().Get("Content-Type"))
		}
		if !strings.Contains(rr.Body.String(), "<svg") {
			t.Fatalf("%s: not an svg", name)
		}
	}
}

func TestTasksFilter(t *testing.T) {
	s := newTestServer(t, nil, sampleRecords)
	body := get(t, s, "/tasks?q=status:in-progress").Body.String()
	if !strings.Contains(body, "Tasks (1 of 4)") {
		t.Fatalf("filter count wrong:\n%s", body)
	}
	if !strings.Contains(body, "Qualify sample") || strings.Contains(body, "Order socket") {
		t.Fatalf("wrong rows after filter")
	}
	body = get(t, s, "/tasks?q=drawings").Body.String()
	if !strings.Contains(body, "Tasks (1 of 4)") || !strings.Contains(body, "Update drawings") {
		t.Fatalf("text filter failed")
	}
	body = get(t, s, "/tasks?q=nothing-matches").Body.String()
	if !strings.Contains(body, "No tasks") {
		t.Fatalf("expected empty state")
	}
}

func TestTasksSortByDate(t *testing.T) {
	s := newTestServer(t, nil, sampleRecords)
	body := get(t, s, "/tasks?sort=Start+Date&dir=desc").Body.String()
	order := []string{"Approve", "Qualify sample", "Order socket", "Update drawings"}
	last := -1
	for _, topic := range order {
		i := strings.Index(body, ">"+topic+"<")
		if i < 0 || i < last {
			t.Fatalf("unexpected order for %q", topic)
		}
		last = i
	}
	if !strings.Contains(body, "Start Date ▼") {
		t.Fatalf("sort arrow missing")
	}
}

func TestAssets(t *testing.T) {
	dir := t.TempDir()
	if err := os.WriteFile(filepath.Join(dir, "logo.txt"), []byte("logo"), 0644); err != nil {
		t.Fatal(err)
	}
	cfg := config.Default()
	cfg.UI.AssetsDir = dir
	cfg.Project.Image = "logo.txt"
	s := newTestServer(t, cfg, sampleRecords)
	rr := get(t, s, "/assets/logo.txt")
	if rr.Code != http.StatusOK || rr.Body.String() != "logo" {
		t.Fatalf("asset: %d %q", rr.Code, rr.Body.String())
	}
	if !strings.Contains(get(t, s, "/").Body.String(), `src="/assets/logo.txt"`) {
		t.Fatalf("project image not referenced")
	}
}

func TestFavicon(t *testing.T) {
	s := newTestServer(t, nil, sampleRecords)
	rr := get(t, s, "/favicon.ico")
	if rr.Code != http.StatusMovedPermanently {
		t.Fatalf("status %d", rr.Code)
	}
	rr = get(t, s, "/favicon.svg")
	if rr.Code != http.StatusOK || !strings.Contains(rr.Body.String(), "<svg") {
		t.Fatalf("favicon: %d", rr.Code)
	}
}
