package spacedrep

// Ladder maps a mastery stage to the review interval in days.
// Stage 0 is a freshly added problem.
var Ladder = [...]int{1, 3, 7, 14, 30, 60}

// MaxStage is the highest stage index in Ladder.
const MaxStage = len(Ladder) - 1

// ShakyIntervalDays is the fixed interval applied after a SHAKY outcome.
const ShakyIntervalDays = 3

// FailIntervalDays is the fixed interval applied after a FAIL outcome.
const FailIntervalDays = 1

// ProficientStage is the lowest stage counted as mastered by list filters.
const ProficientStage = 4

var stageLabels = [...]string{"New", "Learning", "Familiar", "Comfortable", "Proficient", "Mastered"}

// IntervalFor returns the ladder interval for stage, clamped to the ladder.
func IntervalFor(stage int) int {
	if stage < 0 {
		return Ladder[0]
	}
	if stage > MaxStage {
		return Ladder[MaxStage]
	}
	return Ladder[stage]
}

// StageLabel returns the display name for a mastery stage.
func StageLabel(stage int) string {
	if stage < 0 || stage > MaxStage {
		return "Unknown"
	}
	return stageLabels[stage]
}
