package spacedrep

import "testing"

func TestLadder_Values(t *testing.T) {
	expected := []int{1, 3, 7, 14, 30, 60}
	if len(Ladder) != len(expected) {
		t.Fatalf("expected %d ladder rungs, got %d", len(expected), len(Ladder))
	}
	for i, v := range expected {
		if Ladder[i] != v {
			t.Errorf("Ladder[%d] = %d, want %d", i, Ladder[i], v)
		}
	}
}

func TestConstants(t *testing.T) {
	if MaxStage != 5 {
		t.Errorf("MaxStage = %d, want 5", MaxStage)
	}
	if ShakyIntervalDays != 3 {
		t.Errorf("ShakyIntervalDays = %d, want 3", ShakyIntervalDays)
	}
	if FailIntervalDays != 1 {
		t.Errorf("FailIntervalDays = %d, want 1", FailIntervalDays)
	}
}

func TestIntervalFor(t *testing.T) {
	tests := []struct {
		stage    int
		expected int
	}{
		{-1, 1},
		{0, 1},
		{1, 3},
		{2, 7},
		{3, 14},
		{4, 30},
		{5, 60},
		{10, 60},
	}
	for _, tt := range tests {
		if got := IntervalFor(tt.stage); got != tt.expected {
			t.Errorf("IntervalFor(%d) = %d, want %d", tt.stage, got, tt.expected)
		}
	}
}

func TestStageLabel(t *testing.T) {
	tests := []struct {
		stage int
		want  string
	}{
		{0, "New"},
		{1, "Learning"},
		{2, "Familiar"},
		{3, "Comfortable"},
		{4, "Proficient"},
		{5, "Mastered"},
		{6, "Unknown"},
		{-1, "Unknown"},
	}
	for _, tt := range tests {
		if got := StageLabel(tt.stage); got != tt.want {
			t.Errorf("StageLabel(%d) = %q, want %q", tt.stage, got, tt.want)
		}
	}
}
