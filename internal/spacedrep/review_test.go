package spacedrep

import (
	"testing"
	"time"
)

func TestIsDue_BeforeDate(t *testing.T) {
	now := time.Date(2025, 1, 1, 12, 0, 0, 0, time.UTC)
	s := State{NextDueDate: now.Add(24 * time.Hour)}
	if s.IsDue(now) {
		t.Error("expected not due before due date")
	}
}

func TestIsDue_OnDate(t *testing.T) {
	now := time.Date(2025, 1, 1, 12, 0, 0, 0, time.UTC)
	s := State{NextDueDate: now}
	if !s.IsDue(now) {
		t.Error("expected due on due date")
	}
}

func TestOverdueDays_NotDue(t *testing.T) {
	now := time.Date(2025, 1, 1, 12, 0, 0, 0, time.UTC)
	s := State{NextDueDate: now.Add(48 * time.Hour)}
	if got := s.OverdueDays(now); got != 0 {
		t.Errorf("OverdueDays() = %f, want 0", got)
	}
}

func TestOverdueDays_ThreeDaysOverdue(t *testing.T) {
	due := time.Date(2025, 1, 1, 12, 0, 0, 0, time.UTC)
	now := due.Add(3 * 24 * time.Hour)
	s := State{NextDueDate: due}
	got := s.OverdueDays(now)
	if got < 2.99 || got > 3.01 {
		t.Errorf("OverdueDays() = %f, want ~3.0", got)
	}
}

func TestDaysUntilDue_FutureDue(t *testing.T) {
	now := time.Date(2025, 1, 1, 12, 0, 0, 0, time.UTC)
	// 4.5 days in the future -> int(4.5) + 1 = 5
	s := State{NextDueDate: now.Add(108 * time.Hour)}
	if got := s.DaysUntilDue(now); got != 5 {
		t.Errorf("DaysUntilDue() = %d, want 5", got)
	}
}

func TestDaysUntilDue_AlreadyDue(t *testing.T) {
	now := time.Date(2025, 1, 5, 12, 0, 0, 0, time.UTC)
	s := State{NextDueDate: time.Date(2025, 1, 1, 12, 0, 0, 0, time.UTC)}
	if got := s.DaysUntilDue(now); got != 0 {
		t.Errorf("DaysUntilDue() = %d, want 0", got)
	}
}

func TestInterval(t *testing.T) {
	if got := (State{IntervalDays: 7}).Interval(); got != 7*24*time.Hour {
		t.Errorf("Interval() = %v, want 168h", got)
	}
}

func TestLabel(t *testing.T) {
	if got := (State{MasteryStage: 3}).Label(); got != "Comfortable" {
		t.Errorf("Label() = %q, want Comfortable", got)
	}
}

func TestRelativeDue(t *testing.T) {
	now := time.Date(2025, 3, 10, 15, 0, 0, 0, time.UTC)
	tests := []struct {
		name string
		due  time.Time
		want string
	}{
		{"three days ago", now.AddDate(0, 0, -3), "3 days ago"},
		{"yesterday", now.AddDate(0, 0, -1), "Yesterday"},
		{"earlier today", now.Add(-10 * time.Hour), "Today"},
		{"later today", now.Add(5 * time.Hour), "Today"},
		{"tomorrow just after midnight", time.Date(2025, 3, 11, 0, 30, 0, 0, time.UTC), "Tomorrow"},
		{"in a week", now.AddDate(0, 0, 7), "In 7 days"},
		{"far future", now.AddDate(0, 0, 30), "Apr 9, 2025"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := RelativeDue(tt.due, now); got != tt.want {
				t.Errorf("RelativeDue() = %q, want %q", got, tt.want)
			}
		})
	}
}
