// Package tracker turns the task table into Task values and aggregates them
// into status counts, a completion percentage and the timeline subset.
package tracker

import (
	"encoding/json"
	"fmt"
	"strings"
	"time"

	applog "github.com/elpatron68/statusboard/internal/log"
	"github.com/elpatron68/statusboard/internal/sheet"
)

// Task is one row of the tracking spreadsheet. An empty Status is the null
// status; a zero Start or End is a null date.
type Task struct {
	Topic   string
	Status  string
	Start   time.Time
	End     time.Time
	Privote string
	// Row holds the display value of every table column.
	Row []string
}

// Scheduled reports whether the task has both dates and they are in order.
func (t Task) Scheduled() bool {
	return !t.Start.IsZero() && !t.End.IsZero() && !t.End.Before(t.Start)
}

type taskJSON struct {
	Topic   string  `json:"topic"`
	Status  *string `json:"status"`
	Start   *string `json:"start"`
	End     *string `json:"end"`
	Privote string  `json:"privote,omitempty"`
}

func (t Task) MarshalJSON() ([]byte, error) {
	out := taskJSON{Topic: t.Topic, Privote: t.Privote}
	if t.Status != "" {
		s := t.Status
		out.Status = &s
	}
	if !t.Start.IsZero() {
		s := t.Start.Format("2006-01-02")
		out.Start = &s
	}
	if !t.End.IsZero() {
		s := t.End.Format("2006-01-02")
		out.End = &s
	}
	return json.Marshal(out)
}

// MissingColumnError reports a required column absent from the input.
type MissingColumnError struct {
	Column string
}

func (e *MissingColumnError) Error() string {
	return fmt.Sprintf("required column %q does not exist in the input; check the column name", e.Column)
}

// Columns names the header of each task field.
type Columns struct {
	Topic     string
	Status    string
	StartDate string
	EndDate   string
	Privote   string
}

func DefaultColumns() Columns {
	return Columns{Topic: "Topic", Status: "Status", StartDate: "Start Date", EndDate: "End Date", Privote: "Privote"}
}

// DecodeOptions controls FromTable.
type DecodeOptions struct {
	Columns  Columns
	Required []string // checked in addition to Columns.Status
	DayFirst bool     // resolve 03/04/2025 as 3 April
	// DateLayout formats date cells in Task.Row; empty means "02/01/2006".
	DateLayout string
}

// Dataset is the decoded table. It is built once and never modified.
type Dataset struct {
	Columns []string
	Tasks   []Task
}

// FromTable decodes t into tasks. A missing status column (or any other
// required column) is an error; unparseable dates become null.
func FromTable(t *sheet.Table, opts DecodeOptions) (*Dataset, error) {
	cols := opts.Columns
	def := DefaultColumns()
	if cols.Status == "" {
		cols.Status = def.Status
	}
	layout := opts.DateLayout
	if layout == "" {
		layout = "02/01/2006"
	}

	required := append([]string{cols.Status}, opts.Required...)
	for _, name := range required {
		name = strings.TrimSpace(name)
		if name != "" && !t.Has(name) {
			return nil, &MissingColumnError{Column: name}
		}
	}

	iTopic, iStatus := t.Index(cols.Topic), t.Index(cols.Status)
	iStart, iEnd, iPriv := t.Index(cols.StartDate), t.Index(cols.EndDate), t.Index(cols.Privote)

	ds := &Dataset{
		Columns: append([]string(nil), t.Header...),
		Tasks:   make([]Task, 0, len(t.Rows)),
	}
	badDates := 0
	for n, r := range t.Rows {
		row := append([]string(nil), r...)
		task := Task{
			Topic:   cell(row, iTopic),
			Status:  nullable(cell(row, iStatus)),
			Privote: nullable(cell(row, iPriv)),
			Row:     row,
		}
		var ok bool
		if task.Start, ok = parseDateCell(row, iStart, opts.DayFirst, layout); !ok {
			badDates++
			applog.Debugf("row %d: unparseable %s %q", n+2, cols.StartDate, cell(r, iStart))
		}
		if task.End, ok = parseDateCell(row, iEnd, opts.DayFirst, layout); !ok {
			badDates++
			applog.Debugf("row %d: unparseable %s %q", n+2, cols.EndDate, cell(r, iEnd))
		}
		ds.Tasks = append(ds.Tasks, task)
	}
	if badDates > 0 {
		applog.Warnf("%d date cells could not be parsed and are treated as unscheduled", badDates)
	}
	return ds, nil
}

// parseDateCell parses row[i] and rewrites it in display layout. Empty cells
// report ok; only non-empty garbage is reported as a failure.
func parseDateCell(row []string, i int, dayFirst bool, layout string) (time.Time, bool) {
	if i < 0 {
		return time.Time{}, true
	}
	raw := strings.TrimSpace(row[i])
	if raw == "" {
		return time.Time{}, true
	}
	d, ok := ParseDate(raw, dayFirst)
	if !ok {
		row[i] = ""
		return time.Time{}, false
	}
	row[i] = d.Format(layout)
	return d, true
}

// nullable maps a whitespace-only cell to the null value. Other values are
// kept untouched so label matching stays exact.
func nullable(v string) string {
	if strings.TrimSpace(v) == "" {
		return ""
	}
	return v
}

func cell(row []string, i int) string {
	if i < 0 || i >= len(row) {
		return ""
	}
	return row[i]
}
