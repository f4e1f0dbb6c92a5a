package spacedrep

import (
	"errors"
	"testing"
	"time"
)

var t0 = time.Date(2024, 1, 10, 0, 0, 0, 0, time.UTC)

func stateAt(stage int) State {
	return State{
		MasteryStage:         stage,
		IntervalDays:         Ladder[stage],
		ConsecutiveSuccesses: 2,
		NextDueDate:          t0.AddDate(0, 0, -1),
		LastOutcome:          Pass,
		LastAttemptedAt:      t0.AddDate(0, 0, -5),
	}
}

func TestNewState(t *testing.T) {
	created := time.Date(2025, 1, 1, 12, 0, 0, 0, time.UTC)
	s := NewState(created)
	if s.MasteryStage != 0 {
		t.Errorf("MasteryStage = %d, want 0", s.MasteryStage)
	}
	if s.IntervalDays != 1 {
		t.Errorf("IntervalDays = %d, want 1", s.IntervalDays)
	}
	if !s.NextDueDate.Equal(created.AddDate(0, 0, 1)) {
		t.Errorf("NextDueDate = %v, want %v", s.NextDueDate, created.AddDate(0, 0, 1))
	}
	if s.LastOutcome != 0 || !s.LastAttemptedAt.IsZero() {
		t.Error("expected no last outcome on a new state")
	}
	if !s.IsNew() {
		t.Error("expected IsNew for a fresh state")
	}
}

func TestApply_PassEveryStage(t *testing.T) {
	for s := 0; s <= MaxStage; s++ {
		got, err := Apply(stateAt(s), Pass, t0)
		if err != nil {
			t.Fatalf("stage %d: unexpected error: %v", s, err)
		}
		want := min(s+1, MaxStage)
		if got.MasteryStage != want {
			t.Errorf("stage %d: MasteryStage = %d, want %d", s, got.MasteryStage, want)
		}
		if got.IntervalDays != Ladder[want] {
			t.Errorf("stage %d: IntervalDays = %d, want %d", s, got.IntervalDays, Ladder[want])
		}
		if !got.NextDueDate.Equal(t0.AddDate(0, 0, Ladder[want])) {
			t.Errorf("stage %d: NextDueDate = %v", s, got.NextDueDate)
		}
		if got.ConsecutiveSuccesses != 3 {
			t.Errorf("stage %d: ConsecutiveSuccesses = %d, want 3", s, got.ConsecutiveSuccesses)
		}
		if got.LastOutcome != Pass || !got.LastAttemptedAt.Equal(t0) {
			t.Errorf("stage %d: last outcome not stamped", s)
		}
	}
}

func TestApply_FailEveryStage(t *testing.T) {
	for s := 0; s <= MaxStage; s++ {
		in := stateAt(s)
		in.ConsecutiveSuccesses = 17
		got, err := Apply(in, Fail, t0)
		if err != nil {
			t.Fatalf("stage %d: unexpected error: %v", s, err)
		}
		want := State{
			MasteryStage:         0,
			IntervalDays:         1,
			ConsecutiveSuccesses: 0,
			NextDueDate:          t0.AddDate(0, 0, 1),
			LastOutcome:          Fail,
			LastAttemptedAt:      t0,
		}
		if got != want {
			t.Errorf("stage %d: got %+v, want %+v", s, got, want)
		}
	}
}

func TestApply_ShakyClampsAtZero(t *testing.T) {
	got, err := Apply(stateAt(0), Shaky, t0)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got.MasteryStage != 0 {
		t.Errorf("MasteryStage = %d, want 0", got.MasteryStage)
	}
	if got.IntervalDays != 3 {
		t.Errorf("IntervalDays = %d, want 3", got.IntervalDays)
	}
}

func TestApply_ShakyScenario(t *testing.T) {
	in := State{
		MasteryStage:         2,
		IntervalDays:         7,
		ConsecutiveSuccesses: 3,
		NextDueDate:          t0,
	}
	got, err := Apply(in, Shaky, t0)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	want := State{
		MasteryStage:         1,
		IntervalDays:         3,
		ConsecutiveSuccesses: 0,
		NextDueDate:          time.Date(2024, 1, 13, 0, 0, 0, 0, time.UTC),
		LastOutcome:          Shaky,
		LastAttemptedAt:      t0,
	}
	if got != want {
		t.Errorf("got %+v, want %+v", got, want)
	}
}

func TestApply_PassToPlateau(t *testing.T) {
	s := NewState(t0)
	now := t0
	for i := 0; i < 5; i++ {
		now = now.AddDate(0, 0, 1)
		var err error
		s, err = Apply(s, Pass, now)
		if err != nil {
			t.Fatalf("pass %d: %v", i+1, err)
		}
	}
	if s.MasteryStage != 5 || s.IntervalDays != 60 {
		t.Fatalf("after 5 passes: stage=%d interval=%d, want 5/60", s.MasteryStage, s.IntervalDays)
	}

	now = now.AddDate(0, 0, 60)
	s, err := Apply(s, Pass, now)
	if err != nil {
		t.Fatalf("sixth pass: %v", err)
	}
	if s.MasteryStage != 5 || s.IntervalDays != 60 {
		t.Errorf("after 6 passes: stage=%d interval=%d, want 5/60", s.MasteryStage, s.IntervalDays)
	}
	if s.ConsecutiveSuccesses != 6 {
		t.Errorf("ConsecutiveSuccesses = %d, want 6", s.ConsecutiveSuccesses)
	}
	if !s.NextDueDate.Equal(now.AddDate(0, 0, 60)) {
		t.Errorf("NextDueDate = %v, want %v", s.NextDueDate, now.AddDate(0, 0, 60))
	}
}

func TestApply_PassAtMastered(t *testing.T) {
	in := stateAt(5)
	in.ConsecutiveSuccesses = 9
	got, err := Apply(in, Pass, t0)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got.MasteryStage != 5 || got.IntervalDays != 60 {
		t.Errorf("stage=%d interval=%d, want 5/60", got.MasteryStage, got.IntervalDays)
	}
	if got.ConsecutiveSuccesses != 10 {
		t.Errorf("ConsecutiveSuccesses = %d, want 10", got.ConsecutiveSuccesses)
	}
	if !got.NextDueDate.Equal(t0.AddDate(0, 0, 60)) {
		t.Errorf("NextDueDate = %v", got.NextDueDate)
	}
}

func TestApply_PostponeTwice(t *testing.T) {
	due := time.Date(2024, 2, 1, 9, 30, 0, 0, time.UTC)
	in := stateAt(3)
	in.NextDueDate = due

	once, err := Apply(in, Postpone, t0)
	if err != nil {
		t.Fatalf("first postpone: %v", err)
	}
	twice, err := Apply(once, Postpone, t0.Add(time.Hour))
	if err != nil {
		t.Fatalf("second postpone: %v", err)
	}

	if !twice.NextDueDate.Equal(due.AddDate(0, 0, 2)) {
		t.Errorf("NextDueDate = %v, want %v", twice.NextDueDate, due.AddDate(0, 0, 2))
	}
	if twice.MasteryStage != in.MasteryStage {
		t.Errorf("MasteryStage changed: %d -> %d", in.MasteryStage, twice.MasteryStage)
	}
	if twice.ConsecutiveSuccesses != in.ConsecutiveSuccesses {
		t.Errorf("ConsecutiveSuccesses changed: %d -> %d", in.ConsecutiveSuccesses, twice.ConsecutiveSuccesses)
	}
	if twice.IntervalDays != in.IntervalDays {
		t.Errorf("IntervalDays changed: %d -> %d", in.IntervalDays, twice.IntervalDays)
	}
	if twice.LastOutcome != in.LastOutcome {
		t.Errorf("LastOutcome changed: %s -> %s", in.LastOutcome, twice.LastOutcome)
	}
	if !twice.LastAttemptedAt.Equal(in.LastAttemptedAt) {
		t.Errorf("LastAttemptedAt changed: %v -> %v", in.LastAttemptedAt, twice.LastAttemptedAt)
	}
}

func TestApply_Skip(t *testing.T) {
	in := stateAt(4)
	got, err := Apply(in, Skip, t0)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got.MasteryStage != 4 {
		t.Errorf("MasteryStage = %d, want 4", got.MasteryStage)
	}
	if got.ConsecutiveSuccesses != in.ConsecutiveSuccesses {
		t.Errorf("ConsecutiveSuccesses = %d, want %d", got.ConsecutiveSuccesses, in.ConsecutiveSuccesses)
	}
	if got.IntervalDays != in.IntervalDays {
		t.Errorf("IntervalDays = %d, want %d", got.IntervalDays, in.IntervalDays)
	}
	if !got.NextDueDate.Equal(t0.AddDate(0, 0, 1)) {
		t.Errorf("NextDueDate = %v, want %v", got.NextDueDate, t0.AddDate(0, 0, 1))
	}
	if !got.LastAttemptedAt.Equal(t0) || got.LastOutcome != Skip {
		t.Errorf("expected SKIP to stamp last outcome and attempt time")
	}
}

func TestApply_InvalidOutcome(t *testing.T) {
	in := stateAt(2)
	bogus, parseErr := ParseOutcome("BOGUS")
	if parseErr == nil {
		t.Fatal("expected ParseOutcome to reject BOGUS")
	}

	for _, o := range []Outcome{bogus, Outcome(0), Outcome(99)} {
		got, err := Apply(in, o, t0)
		if !errors.Is(err, ErrInvalidOutcome) {
			t.Errorf("Apply(%v): err = %v, want ErrInvalidOutcome", o, err)
		}
		if got != in {
			t.Errorf("Apply(%v): state mutated: %+v", o, got)
		}
	}
}

func TestApply_CorruptState(t *testing.T) {
	tests := []State{
		{MasteryStage: -1, IntervalDays: 1, NextDueDate: t0},
		{MasteryStage: 6, IntervalDays: 60, NextDueDate: t0},
		{MasteryStage: 2, IntervalDays: 0, NextDueDate: t0},
	}
	for _, in := range tests {
		got, err := Apply(in, Pass, t0)
		if !errors.Is(err, ErrCorruptState) {
			t.Errorf("Apply(%+v): err = %v, want ErrCorruptState", in, err)
		}
		if got != in {
			t.Errorf("Apply(%+v): state mutated: %+v", in, got)
		}
	}
}

func TestApply_InvariantsHold(t *testing.T) {
	s := NewState(t0)
	now := t0
	seq := []Outcome{Pass, Pass, Shaky, Postpone, Fail, Skip, Pass, Pass, Pass, Pass, Pass, Pass, Shaky, Postpone}
	for i, o := range seq {
		now = now.Add(36 * time.Hour)
		prevDue := s.NextDueDate
		next, err := Apply(s, o, now)
		if err != nil {
			t.Fatalf("step %d (%s): %v", i, o, err)
		}
		if next.MasteryStage < 0 || next.MasteryStage > MaxStage {
			t.Errorf("step %d: stage %d out of range", i, next.MasteryStage)
		}
		if next.IntervalDays < 1 {
			t.Errorf("step %d: interval %d < 1", i, next.IntervalDays)
		}
		if o == Postpone && !next.NextDueDate.Equal(prevDue.AddDate(0, 0, 1)) {
			t.Errorf("step %d: postpone moved due from %v to %v", i, prevDue, next.NextDueDate)
		}
		if o != Postpone && !next.NextDueDate.After(now) {
			t.Errorf("step %d: due %v not after now %v", i, next.NextDueDate, now)
		}
		s = next
	}
}
