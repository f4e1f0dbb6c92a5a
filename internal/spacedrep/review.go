package spacedrep

import (
	"fmt"
	"time"
)

// IsDue returns true if the problem is due for review (at or past the due date).
func (s State) IsDue(now time.Time) bool {
	return !now.Before(s.NextDueDate)
}

// IsNew reports whether the problem has never had a graded or skipped attempt.
func (s State) IsNew() bool {
	return s.LastAttemptedAt.IsZero()
}

// OverdueDays returns how many days past due the problem is. Returns 0 if not yet due.
func (s State) OverdueDays(now time.Time) float64 {
	if now.Before(s.NextDueDate) {
		return 0
	}
	return now.Sub(s.NextDueDate).Hours() / 24.0
}

// DaysUntilDue returns the number of days until the next review.
// Returns 0 if already due.
func (s State) DaysUntilDue(now time.Time) int {
	if s.IsDue(now) {
		return 0
	}
	return int(s.NextDueDate.Sub(now).Hours()/24.0) + 1
}

// Interval returns the current review interval as a duration.
func (s State) Interval() time.Duration {
	return time.Duration(s.IntervalDays) * 24 * time.Hour
}

// Label returns the display name of the current mastery stage.
func (s State) Label() string {
	return StageLabel(s.MasteryStage)
}

// RelativeDue describes due relative to now in calendar days of now's
// location: "3 days ago", "Yesterday", "Today", "Tomorrow", "In 4 days".
// Dates more than a week ahead are printed as "Jan 2, 2006".
func RelativeDue(due, now time.Time) string {
	due = due.In(now.Location())
	d := calendarDays(now, due)
	switch {
	case d < -1:
		return fmt.Sprintf("%d days ago", -d)
	case d == -1:
		return "Yesterday"
	case d == 0:
		return "Today"
	case d == 1:
		return "Tomorrow"
	case d <= 7:
		return fmt.Sprintf("In %d days", d)
	default:
		return due.Format("Jan 2, 2006")
	}
}

// calendarDays returns the number of midnights between from and to.
func calendarDays(from, to time.Time) int {
	y1, m1, d1 := from.Date()
	y2, m2, d2 := to.Date()
	a := time.Date(y1, m1, d1, 0, 0, 0, 0, time.UTC)
	b := time.Date(y2, m2, d2, 0, 0, 0, 0, time.UTC)
	return int(b.Sub(a).Hours() / 24)
}
