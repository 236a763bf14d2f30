package schedule

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/teambition/rrule-go"
)

// MaxSeriesLength caps how many games a single recurring rule may create.
const MaxSeriesLength = 52

var ErrEmptySeries = errors.New("rule produces no occurrences")

// ExpandSeries returns the start instants of a recurring game.  rule is an
// RFC 5545 RRULE body such as "FREQ=WEEKLY;BYDAY=TU;COUNT=8"; from is the
// first kick-off and supplies the time of day and location.  At most limit
// occurrences are returned (MaxSeriesLength when limit <= 0 or larger).
func ExpandSeries(rule string, from time.Time, limit int) ([]time.Time, error) {
	if limit <= 0 || limit > MaxSeriesLength {
		limit = MaxSeriesLength
	}
	opt, err := rrule.StrToROption(strings.TrimPrefix(strings.TrimSpace(rule), "RRULE:"))
	if err != nil {
		return nil, fmt.Errorf("parse rrule: %w", err)
	}
	opt.Dtstart = from
	r, err := rrule.NewRRule(*opt)
	if err != nil {
		return nil, fmt.Errorf("build rrule: %w", err)
	}

	out := make([]time.Time, 0, limit)
	next := r.Iterator()
	for len(out) < limit {
		t, ok := next()
		if !ok {
			break
		}
		out = append(out, t)
	}
	if len(out) == 0 {
		return nil, ErrEmptySeries
	}
	return out, nil
}
