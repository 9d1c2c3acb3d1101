package tracker

import (
	"strconv"
	"strings"
	"time"

	"github.com/xuri/excelize/v2"
)

// Excel's largest valid serial (9999-12-31).
const maxExcelSerial = 2958465

var (
	monthFirstLayouts = []string{"01/02/2006", "1/2/2006", "01-02-2006"}
	dayFirstLayouts   = []string{"02/01/2006", "2/1/2006", "02-01-2006", "02.01.2006"}
	isoLayouts        = []string{
		"2006-01-02",
		"2006-01-02 15:04:05",
		"2006-01-02T15:04:05",
		time.RFC3339Nano,
		time.RFC3339,
		"2006/01/02",
		"2-Jan-06",
		"2-Jan-2006",
		"02 Jan 2006",
		"Jan 2, 2006",
		"January 2, 2006",
		"Mon, January 2, 2006",
		"Monday, January 2, 2006",
	}
)

// ParseDate coerces a spreadsheet cell to a calendar date (UTC midnight).
// Excel serial numbers and the common textual layouts are accepted.
// Anything else reports false; callers treat that as a null date.
func ParseDate(s string, dayFirst bool) (time.Time, bool) {
	s = strings.TrimSpace(s)
	if s == "" {
		return time.Time{}, false
	}
	if v, err := strconv.ParseFloat(s, 64); err == nil {
		if v < 1 || v > maxExcelSerial {
			return time.Time{}, false
		}
		t, err := excelize.ExcelDateToTime(v, false)
		if err != nil {
			return time.Time{}, false
		}
		return dateOnly(t), true
	}
	for _, layout := range isoLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return dateOnly(t), true
		}
	}
	first, second := monthFirstLayouts, dayFirstLayouts
	if dayFirst {
		first, second = second, first
	}
	for _, group := range [][]string{first, second} {
		for _, layout := range group {
			if t, err := time.Parse(layout, s); err == nil {
				return dateOnly(t), true
			}
		}
	}
	return time.Time{}, false
}

func dateOnly(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}
