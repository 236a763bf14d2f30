// Package schedule groups reservations by time for display: the
// current/upcoming/past split, calendar lookups and recurring series.
package schedule

import (
	"sort"
	"time"

	"github.com/iliyamo/pitch-booking/internal/model"
)

// Buckets is the result of Classify.  Every input reservation lands in
// exactly one slice.
type Buckets struct {
	Current  []model.Reservation `json:"current"`
	Upcoming []model.Reservation `json:"upcoming"`
	Past     []model.Reservation `json:"past"`
}

// Classify partitions reservations relative to now.  A reservation is past
// when it is completed or its start instant is before now, current when it
// falls on now's calendar date, upcoming otherwise.  Current and upcoming
// are sorted soonest first, past most recent first; equal instants keep
// their input order.  Dates are read in now's location.
func Classify(reservations []model.Reservation, now time.Time) Buckets {
	loc := now.Location()
	today := now.Format(model.DateLayout)

	type keyed struct {
		r  model.Reservation
		at time.Time
	}
	var current, upcoming, past []keyed
	for _, r := range reservations {
		at, ok := r.StartsAt(loc)
		k := keyed{r: r, at: at}
		switch {
		case r.Status == model.StatusCompleted || !ok || at.Before(now):
			past = append(past, k)
		case at.Format(model.DateLayout) == today:
			current = append(current, k)
		default:
			upcoming = append(upcoming, k)
		}
	}

	asc := func(ks []keyed) {
		sort.SliceStable(ks, func(i, j int) bool { return ks[i].at.Before(ks[j].at) })
	}
	asc(current)
	asc(upcoming)
	sort.SliceStable(past, func(i, j int) bool { return past[i].at.After(past[j].at) })

	unwrap := func(ks []keyed) []model.Reservation {
		out := make([]model.Reservation, 0, len(ks))
		for _, k := range ks {
			out = append(out, k.r)
		}
		return out
	}
	return Buckets{
		Current:  unwrap(current),
		Upcoming: unwrap(upcoming),
		Past:     unwrap(past),
	}
}

// FilterByDate keeps the reservations played on date (YYYY-MM-DD), in
// their original order.
func FilterByDate(reservations []model.Reservation, date string) []model.Reservation {
	want, err := model.ParseDate(date)
	if err != nil {
		return []model.Reservation{}
	}
	out := []model.Reservation{}
	for _, r := range reservations {
		if got, err := model.ParseDate(r.Date); err == nil && got == want {
			out = append(out, r)
		}
	}
	return out
}

// HasReservationsOn reports whether any reservation is played on date.
func HasReservationsOn(reservations []model.Reservation, date string) bool {
	return len(FilterByDate(reservations, date)) > 0
}
