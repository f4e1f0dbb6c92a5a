package cmd

import (
	"fmt"
	"io"
	"strings"
	"time"

	"charm.land/lipgloss/v2"

	"github.com/abhisek/leetreview/internal/spacedrep"
	"github.com/abhisek/leetreview/internal/store"
	"github.com/abhisek/leetreview/internal/ui/theme"
)

var (
	headerStyle = lipgloss.NewStyle().Bold(true).Foreground(theme.Primary)
	dimStyle    = lipgloss.NewStyle().Foreground(theme.TextDim)
	okStyle     = lipgloss.NewStyle().Foreground(theme.Success)
)

const ruleWidth = 96

func truncate(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n-1]) + "…"
}

func printRule(w io.Writer) {
	fmt.Fprintln(w, dimStyle.Render(strings.Repeat("─", ruleWidth)))
}

// printProblems writes a one-line-per-problem table.
func printProblems(w io.Writer, problems []*store.Problem, now time.Time) {
	fmt.Fprintln(w, headerStyle.Render(fmt.Sprintf("%-5s  %-36s  %-6s  %-13s  %-12s  %s",
		"ID", "Title", "Diff", "Stage", "Due", "Tags")))
	printRule(w)
	for _, p := range problems {
		s := p.Schedule
		fmt.Fprintf(w, "%-5d  %-36s  %s  %-13s  %-12s  %s\n",
			p.ID,
			truncate(p.Title, 36),
			theme.Difficulty(fmt.Sprintf("%-6s", p.Difficulty)),
			fmt.Sprintf("%d %s", s.MasteryStage, s.Label()),
			spacedrep.RelativeDue(s.NextDueDate, now),
			dimStyle.Render(strings.Join(p.Tags, ",")),
		)
	}
}

// printAttempt summarises the scheduling transition of one attempt.
func printAttempt(w io.Writer, title string, a *store.Attempt, now time.Time) {
	fmt.Fprintf(w, "%s  %s: stage %d %s → %d %s, next due %s\n",
		theme.Outcome(a.Outcome).Render(a.Outcome.String()),
		title,
		a.StageBefore, spacedrep.StageLabel(a.StageBefore),
		a.StageAfter, spacedrep.StageLabel(a.StageAfter),
		spacedrep.RelativeDue(a.NextDueDateAfter, now),
	)
}

func formatMinutes(m *int) string {
	if m == nil {
		return "-"
	}
	return fmt.Sprintf("%dm", *m)
}

func splitTags(s string) []string {
	if strings.TrimSpace(s) == "" {
		return nil
	}
	return strings.Split(s, ",")
}
