// Package board runs the startup pipeline: load the spreadsheet, decode the
// tasks, aggregate them and render the charts. The result never changes for
// the lifetime of the process.
package board

import (
	"fmt"

	"github.com/elpatron68/statusboard/internal/chart"
	"github.com/elpatron68/statusboard/internal/config"
	applog "github.com/elpatron68/statusboard/internal/log"
	"github.com/elpatron68/statusboard/internal/sheet"
	"github.com/elpatron68/statusboard/internal/tracker"
	"github.com/elpatron68/statusboard/internal/ui"
)

// Board is everything the web layer serves.
type Board struct {
	Dataset *tracker.Dataset
	Summary tracker.Summary
	Charts  *chart.Set
	Palette *ui.Palette
}

// Load reads cfg.Data.Path and builds the board.
func Load(cfg *config.Config) (*Board, error) {
	tbl, err := sheet.Load(cfg.Data.Path, sheet.Options{
		Sheet:   cfg.Data.Sheet,
		Exclude: cfg.Data.ExcludeColumns,
	})
	if err != nil {
		return nil, fmt.Errorf("load %s: %w", cfg.Data.Path, err)
	}
	return FromTable(cfg, tbl)
}

// FromTable builds the board from an already loaded table.
func FromTable(cfg *config.Config, tbl *sheet.Table) (*Board, error) {
	ds, err := tracker.FromTable(tbl, DecodeOptions(cfg))
	if err != nil {
		return nil, err
	}
	sum := tracker.Aggregate(ds.Tasks, AggregateOptions(cfg))
	applog.Infof("aggregated %d tasks: %d with status, %d complete (%s), %d on timeline",
		len(ds.Tasks), sum.Total, sum.Completed, ui.FormatPercent(sum.PercentComplete), len(sum.Timeline))

	pal := ui.NewPalette(cfg.Status.Colors)
	charts, err := chart.RenderAll(sum, pal, chart.Options{DateLayout: cfg.UI.DateFormat})
	if err != nil {
		return nil, fmt.Errorf("render charts: %w", err)
	}
	return &Board{Dataset: ds, Summary: sum, Charts: charts, Palette: pal}, nil
}

// DecodeOptions maps the config onto tracker decoding options.
func DecodeOptions(cfg *config.Config) tracker.DecodeOptions {
	c := cfg.Data.Columns
	return tracker.DecodeOptions{
		Columns: tracker.Columns{
			Topic:     c.Topic,
			Status:    c.Status,
			StartDate: c.StartDate,
			EndDate:   c.EndDate,
			Privote:   c.Privote,
		},
		Required:   cfg.Data.RequiredColumns,
		DayFirst:   cfg.Data.DayFirst,
		DateLayout: cfg.UI.DateFormat,
	}
}

// AggregateOptions maps the config onto aggregation options.
func AggregateOptions(cfg *config.Config) tracker.Options {
	return tracker.Options{
		CompleteLabel:  cfg.Status.Complete,
		TimelineMarker: cfg.Status.TimelineMarker,
		Unknown:        tracker.ParseUnknownPolicy(cfg.Status.Unknown),
		Known:          cfg.Status.Known,
		MergeInto:      cfg.Status.MergeInto,
	}
}
