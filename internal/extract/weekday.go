// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package extract

import (
	"context"
	"errors"
	"fmt"
	"regexp"
	"strconv"
	"time"

	"github.com/pdiddy/answer-engine/pkg/types"
)

// MsgInvalidDate is returned when the question carries no parseable range.
const MsgInvalidDate = "Invalid date format."

const isoDate = "2006-01-02"

var dateRange = regexp.MustCompile(`(\d{4}-\d{2}-\d{2}) to (\d{4}-\d{2}-\d{2})`)

// WeekdayCounter counts occurrences of one weekday in an inclusive date
// range quoted in the question ("2024-01-01 to 2024-01-31").
type WeekdayCounter struct {
	// Weekday is zero-indexed from Monday: 0 = Monday, 2 = Wednesday.
	Weekday int
}

// Wednesday is the index of Wednesday in the Monday-based scheme.
const Wednesday = 2

// NewWednesdayCounter returns a counter for Wednesdays.
func NewWednesdayCounter() *WeekdayCounter {
	return &WeekdayCounter{Weekday: Wednesday}
}

// Extract implements Extractor.
func (w *WeekdayCounter) Extract(_ context.Context, q types.Question, _ *types.UploadedFile) types.Result {
	n, err := w.Count(string(q))
	if err != nil {
		return types.Failure(types.KindParseError, MsgInvalidDate, err)
	}
	return types.OK(strconv.Itoa(n))
}

// Count parses the first "YYYY-MM-DD to YYYY-MM-DD" range in text and counts
// matching days. A range whose end precedes its start counts zero days.
func (w *WeekdayCounter) Count(text string) (int, error) {
	m := dateRange.FindStringSubmatch(text)
	if m == nil {
		return 0, errors.New("no date range in question")
	}
	start, err := time.Parse(isoDate, m[1])
	if err != nil {
		return 0, fmt.Errorf("parsing start date: %w", err)
	}
	end, err := time.Parse(isoDate, m[2])
	if err != nil {
		return 0, fmt.Errorf("parsing end date: %w", err)
	}
	return CountWeekday(start, end, w.Weekday), nil
}

// CountWeekday counts the days in [start, end] whose Monday-based weekday
// index equals weekday.
func CountWeekday(start, end time.Time, weekday int) int {
	count := 0
	for d := start; !d.After(end); d = d.AddDate(0, 0, 1) {
		if mondayIndex(d) == weekday {
			count++
		}
	}
	return count
}

func mondayIndex(t time.Time) int {
	return (int(t.Weekday()) + 6) % 7
}
