package spacedrep

import (
	"encoding"
	"encoding/json"
	"fmt"
	"strings"
)

// Outcome is the grading signal for one review of a problem.
// The zero value means no outcome has been recorded.
type Outcome int

const (
	Pass     Outcome = iota + 1 // Solved cleanly.
	Shaky                       // Solved with hesitation or hints.
	Fail                        // Could not solve.
	Skip                        // Seen but not graded.
	Postpone                    // Deferred without an attempt.
)

var (
	outcomeNames = [...]string{
		Pass:     "PASS",
		Shaky:    "SHAKY",
		Fail:     "FAIL",
		Skip:     "SKIP",
		Postpone: "POSTPONE",
	}
	outcomeByName = map[string]Outcome{
		"PASS":     Pass,
		"SHAKY":    Shaky,
		"FAIL":     Fail,
		"SKIP":     Skip,
		"POSTPONE": Postpone,
	}
)

// Outcomes lists every valid outcome in declaration order.
var Outcomes = []Outcome{Pass, Shaky, Fail, Skip, Postpone}

// Compile-time interface checks.
var (
	_ fmt.Stringer             = Outcome(0)
	_ json.Marshaler           = Outcome(0)
	_ json.Unmarshaler         = (*Outcome)(nil)
	_ encoding.TextMarshaler   = Outcome(0)
	_ encoding.TextUnmarshaler = (*Outcome)(nil)
)

// ParseOutcome converts a name such as "pass" or "SHAKY" to an Outcome.
// Matching ignores case and surrounding whitespace.
func ParseOutcome(s string) (Outcome, error) {
	o, ok := outcomeByName[strings.ToUpper(strings.TrimSpace(s))]
	if !ok {
		return 0, fmt.Errorf("%w: %q", ErrInvalidOutcome, s)
	}
	return o, nil
}

// String returns the upper-case name of the outcome. For invalid values it
// returns "Outcome(n)".
func (o Outcome) String() string {
	if o.IsValid() {
		return outcomeNames[o]
	}
	return fmt.Sprintf("Outcome(%d)", int(o))
}

// IsValid reports whether o is one of the five defined outcomes.
func (o Outcome) IsValid() bool {
	return o >= Pass && o <= Postpone
}

// Graded reports whether o reflects a real solve attempt (PASS, SHAKY, FAIL).
func (o Outcome) Graded() bool {
	return o == Pass || o == Shaky || o == Fail
}

// Struggled reports whether o counts against a topic in weak-tag statistics.
func (o Outcome) Struggled() bool {
	return o == Shaky || o == Fail
}

// MarshalText implements encoding.TextMarshaler.
func (o Outcome) MarshalText() ([]byte, error) {
	if !o.IsValid() {
		return nil, fmt.Errorf("%w: %d", ErrInvalidOutcome, int(o))
	}
	return []byte(outcomeNames[o]), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (o *Outcome) UnmarshalText(text []byte) error {
	v, err := ParseOutcome(string(text))
	if err != nil {
		return err
	}
	*o = v
	return nil
}

// MarshalJSON implements json.Marshaler. Outcome serializes as a JSON string.
func (o Outcome) MarshalJSON() ([]byte, error) {
	text, err := o.MarshalText()
	if err != nil {
		return nil, err
	}
	return json.Marshal(string(text))
}

// UnmarshalJSON implements json.Unmarshaler. Expects a JSON string.
func (o *Outcome) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return fmt.Errorf("%w: %s", ErrInvalidOutcome, data)
	}
	return o.UnmarshalText([]byte(s))
}
