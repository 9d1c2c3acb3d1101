package server

import (
	"math"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/elpatron68/statusboard/internal/board"
	"github.com/elpatron68/statusboard/internal/tracker"
	"github.com/elpatron68/statusboard/internal/ui"
)

type tableCell struct {
	Value string
	Color string // set only on the status column
}

type tableRow struct {
	Cells  []tableCell
	Status string
	task   tracker.Task
}

// buildRows prepares the table once; the status cell carries its color.
func buildRows(b *board.Board, statusColumn string) []tableRow {
	statusIdx := -1
	for i, c := range b.Dataset.Columns {
		if c == statusColumn {
			statusIdx = i
		}
	}
	rows := make([]tableRow, 0, len(b.Dataset.Tasks))
	for _, t := range b.Dataset.Tasks {
		cells := make([]tableCell, len(t.Row))
		for i, v := range t.Row {
			cells[i] = tableCell{Value: v}
			if i == statusIdx && v != "" {
				cells[i].Color = b.Palette.Color(v)
			}
		}
		rows = append(rows, tableRow{Cells: cells, Status: t.Status, task: t})
	}
	return rows
}

// applyQueryFilter filters rows by a search expression q.
// Supported: status:<value> (hyphens match spaces), plain text (substring in any cell).
func applyQueryFilter(rows []tableRow, q string) []tableRow {
	q = strings.TrimSpace(q)
	if q == "" {
		return rows
	}
	tokens := strings.Fields(q)
	out := make([]tableRow, 0, len(rows))
	for _, r := range rows {
		if rowMatches(r, tokens) {
			out = append(out, r)
		}
	}
	return out
}

func rowMatches(r tableRow, tokens []string) bool {
	for _, t := range tokens {
		if strings.HasPrefix(strings.ToLower(t), "status:") {
			want := t[len("status:"):]
			if ui.StatusClass(r.Status) != ui.StatusClass(want) {
				return false
			}
			continue
		}
		if !anyCellContains(r, strings.ToLower(t)) {
			return false
		}
	}
	return true
}

func anyCellContains(r tableRow, needle string) bool {
	for _, c := range r.Cells {
		if strings.Contains(strings.ToLower(c.Value), needle) {
			return true
		}
	}
	return false
}

// sortRows sorts by column index. Date columns compare by date with nulls
// last in both directions. Other columns put numeric cells before text;
// numbers compare numerically, text case-insensitively.
func sortRows(rows []tableRow, col int, dateCol func(tracker.Task) time.Time, dir string) {
	if col < 0 {
		return
	}
	desc := strings.ToLower(dir) == "desc"
	if dateCol != nil {
		sort.SliceStable(rows, func(i, j int) bool {
			ta, tb := dateCol(rows[i].task), dateCol(rows[j].task)
			switch {
			case ta.IsZero():
				return false
			case tb.IsZero():
				return true
			case desc:
				return ta.After(tb)
			default:
				return ta.Before(tb)
			}
		})
		return
	}
	keys := make([]sortKey, len(rows))
	for i := range rows {
		keys[i] = newSortKey(cellValue(rows[i], col))
	}
	sort.Stable(&keyedRows{rows: rows, keys: keys, desc: desc})
}

type sortKey struct {
	numeric bool
	num     float64
	text    string
}

func newSortKey(v string) sortKey {
	if f, err := strconv.ParseFloat(strings.TrimSpace(v), 64); err == nil && !math.IsNaN(f) {
		return sortKey{numeric: true, num: f}
	}
	return sortKey{text: strings.ToLower(v)}
}

func (a sortKey) less(b sortKey) bool {
	switch {
	case a.numeric && b.numeric:
		return a.num < b.num
	case a.numeric != b.numeric:
		return a.numeric
	default:
		return a.text < b.text
	}
}

// keyedRows sorts rows and their precomputed keys together.
type keyedRows struct {
	rows []tableRow
	keys []sortKey
	desc bool
}

func (k *keyedRows) Len() int { return len(k.rows) }

func (k *keyedRows) Less(i, j int) bool {
	if k.desc {
		return k.keys[j].less(k.keys[i])
	}
	return k.keys[i].less(k.keys[j])
}

func (k *keyedRows) Swap(i, j int) {
	k.rows[i], k.rows[j] = k.rows[j], k.rows[i]
	k.keys[i], k.keys[j] = k.keys[j], k.keys[i]
}

func cellValue(r tableRow, col int) string {
	if col < 0 || col >= len(r.Cells) {
		return ""
	}
	return r.Cells[col].Value
}

// activeFromPath derives the nav entry to highlight.
func activeFromPath(path string) string {
	path = strings.ToLower(path)
	switch {
	case strings.HasPrefix(path, "/tasks"):
		return "tasks"
	default:
		return "home"
	}
}
