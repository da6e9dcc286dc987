package holiday

import "time"

// Holiday is read-only collaborator data used to annotate calendar cells
// and to suggest a default OFF/LE assignment.
type Holiday struct {
	ID          string
	Date        time.Time
	IsRecurring bool // match by month+day ignoring year
	Name        string
	Type        string
	CreatedAt   time.Time
}

// Matches reports whether t falls on this holiday: month+day when the
// holiday recurs yearly, the exact local date otherwise.
func (h Holiday) Matches(t time.Time) bool {
	if h.IsRecurring {
		return h.Date.Month() == t.Month() && h.Date.Day() == t.Day()
	}
	return h.Date.Year() == t.Year() && h.Date.Month() == t.Month() && h.Date.Day() == t.Day()
}

// Lookup returns the first holiday matching t.
func Lookup(holidays []Holiday, t time.Time) (Holiday, bool) {
	for _, h := range holidays {
		if h.Matches(t) {
			return h, true
		}
	}
	return Holiday{}, false
}
