package tracker

import (
	"sort"
	"strings"
)

// UnknownPolicy decides what happens to status values outside Options.Known.
type UnknownPolicy int

const (
	// UnknownDistinct counts every distinct status value as its own group.
	UnknownDistinct UnknownPolicy = iota
	// UnknownMerge counts values outside Known under Options.MergeInto.
	UnknownMerge
)

// ParseUnknownPolicy maps the config spelling; anything but "merge" is distinct.
func ParseUnknownPolicy(s string) UnknownPolicy {
	if s == "merge" {
		return UnknownMerge
	}
	return UnknownDistinct
}

// Options configures Aggregate. Zero values fall back to the canonical labels,
// except TimelineMarker: an empty marker disables the timeline.
type Options struct {
	CompleteLabel  string
	TimelineMarker string
	Unknown        UnknownPolicy
	Known          []string
	MergeInto      string
}

func DefaultOptions() Options {
	return Options{
		CompleteLabel:  "Complete",
		TimelineMarker: "o",
		Unknown:        UnknownDistinct,
		Known:          []string{"Complete", "In Progress", "Not Started"},
		MergeInto:      "Not Started",
	}
}

func (o Options) withDefaults() Options {
	def := DefaultOptions()
	if o.CompleteLabel == "" {
		o.CompleteLabel = def.CompleteLabel
	}
	if len(o.Known) == 0 {
		o.Known = def.Known
	}
	if o.MergeInto == "" {
		o.MergeInto = def.MergeInto
	}
	return o
}

// StatusCount is the number of tasks carrying one status value.
type StatusCount struct {
	Status string `json:"status"`
	Count  int    `json:"count"`
}

// Summary is the result of Aggregate. PercentComplete is not rounded.
type Summary struct {
	Counts          []StatusCount `json:"counts"`
	Total           int           `json:"totalTasks"`
	Completed       int           `json:"completedTasks"`
	PercentComplete float64       `json:"percentComplete"`
	Timeline        []Task        `json:"timeline"`
}

// Count returns the count for status, 0 if the group does not exist.
func (s Summary) Count(status string) int {
	for _, c := range s.Counts {
		if c.Status == status {
			return c.Count
		}
	}
	return 0
}

// Aggregate groups tasks by status and computes the completion figures and
// the timeline subset. Tasks with a null status do not count towards Total.
// Counts are ordered by descending count; ties keep first-seen order.
func Aggregate(tasks []Task, opts Options) Summary {
	opts = opts.withDefaults()
	known := make(map[string]bool, len(opts.Known)+2)
	for _, k := range opts.Known {
		known[k] = true
	}
	known[opts.CompleteLabel] = true
	known[opts.MergeInto] = true

	counts := make([]StatusCount, 0, 4)
	index := make(map[string]int, 4)
	for _, t := range tasks {
		st := t.Status
		if strings.TrimSpace(st) == "" {
			continue
		}
		if opts.Unknown == UnknownMerge && !known[st] {
			st = opts.MergeInto
		}
		i, ok := index[st]
		if !ok {
			i = len(counts)
			index[st] = i
			counts = append(counts, StatusCount{Status: st})
		}
		counts[i].Count++
	}
	sort.SliceStable(counts, func(i, j int) bool { return counts[i].Count > counts[j].Count })

	s := Summary{Counts: counts, Timeline: FilterTimeline(tasks, opts.TimelineMarker)}
	for _, c := range counts {
		s.Total += c.Count
		if c.Status == opts.CompleteLabel {
			s.Completed = c.Count
		}
	}
	s.PercentComplete = PercentComplete(s.Completed, s.Total)
	return s
}

// PercentComplete is completed/total*100, or 0 when total is 0.
func PercentComplete(completed, total int) float64 {
	if total <= 0 {
		return 0
	}
	return float64(completed) / float64(total) * 100
}

// FilterTimeline returns the tasks whose Privote equals marker exactly.
// The input is not modified and filtering is idempotent. An empty marker
// matches nothing, since an empty cell is null.
func FilterTimeline(tasks []Task, marker string) []Task {
	out := make([]Task, 0, len(tasks))
	if marker == "" {
		return out
	}
	for _, t := range tasks {
		if t.Privote == marker {
			out = append(out, t)
		}
	}
	return out
}

// Scheduled returns the tasks that have both a start and an end date.
func Scheduled(tasks []Task) []Task {
	out := make([]Task, 0, len(tasks))
	for _, t := range tasks {
		if t.Scheduled() {
			out = append(out, t)
		}
	}
	return out
}
