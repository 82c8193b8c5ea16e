package calendar

import "time"

// Cell is one day of the month grid.
type Cell struct {
	Date    time.Time
	InMonth bool
	Today   bool
	Sunday  bool
}

// Grid lays out month as full weeks starting on Sunday. The first row starts
// on the Sunday on or before the 1st, the last row ends on the Saturday on or
// after the last day of the month.
func Grid(month, today time.Time) [][]Cell {
	first := StartOfMonth(month)
	last := EndOfMonth(month)

	start := first.AddDate(0, 0, -int(first.Weekday()))
	end := last.AddDate(0, 0, int(time.Saturday-last.Weekday()))

	var weeks [][]Cell
	var week []Cell
	for d := start; !d.After(end); d = d.AddDate(0, 0, 1) {
		week = append(week, Cell{
			Date:    d,
			InMonth: InMonth(d, first),
			Today:   SameDay(d, today),
			Sunday:  d.Weekday() == time.Sunday,
		})
		if len(week) == 7 {
			weeks = append(weeks, week)
			week = nil
		}
	}
	return weeks
}
