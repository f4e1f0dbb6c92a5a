package app

import (
	"fmt"
	"strings"

	"charm.land/lipgloss/v2"

	"github.com/abhisek/leetreview/internal/spacedrep"
	"github.com/abhisek/leetreview/internal/store"
	"github.com/abhisek/leetreview/internal/ui/components"
	"github.com/abhisek/leetreview/internal/ui/theme"
)

func (m Model) renderContent(width, height int) string {
	var body string
	switch m.phase {
	case phaseLoading:
		body = theme.Hint.Render("Loading today's queue...")
	case phaseSummary:
		body = m.renderSummary()
	default:
		body = m.renderCard(width)
	}

	return lipgloss.Place(width, height, lipgloss.Center, lipgloss.Center, body)
}

func (m Model) renderCard(width int) string {
	p := m.queue[m.index]
	cardWidth := min(width-4, 72)
	now := m.svc.Now().In(m.svc.Location())

	var b strings.Builder
	b.WriteString(theme.Title.Render(p.Title))
	b.WriteString("\n")
	b.WriteString(theme.Difficulty(string(p.Difficulty)) + theme.Subtitle.Render("  "+p.Platform))
	b.WriteString("\n\n")

	s := p.Schedule
	row := func(label, value string) {
		b.WriteString(theme.Label.Render(label) + theme.Body.Render(value) + "\n")
	}
	row("Stage", fmt.Sprintf("%d %s", s.MasteryStage, s.Label()))
	row("Due", spacedrep.RelativeDue(s.NextDueDate, now))
	if s.IsNew() {
		row("Last", "never attempted")
	} else {
		row("Last", fmt.Sprintf("%s, %s", s.LastOutcome, spacedrep.RelativeDue(s.LastAttemptedAt, now)))
	}
	if len(p.Tags) > 0 {
		row("Tags", strings.Join(p.Tags, ", "))
	}
	if p.URL != "" {
		row("URL", p.URL)
	}
	writeNotes(&b, p)

	if m.note != "" || m.minutes != nil {
		b.WriteString("\n")
		if m.note != "" {
			row("Note", m.note)
		}
		if m.minutes != nil {
			row("Time", fmt.Sprintf("%d min", *m.minutes))
		}
	}

	switch m.phase {
	case phaseNote:
		b.WriteString("\n" + theme.Subtitle.Render("Attempt note") + "\n" + m.input.View() + "\n")
	case phaseMinutes:
		b.WriteString("\n" + theme.Subtitle.Render("Minutes spent") + "\n" + m.input.View() + "\n")
	}

	out := theme.Card.Width(cardWidth).Render(b.String())

	progress := components.NewProgressBar("Progress", m.index, len(m.queue), cardWidth)
	out += "\n" + progress.View()

	if m.last != nil {
		out += "\n\n" + renderTransition(m.last)
	}
	if m.errMsg != "" {
		out += "\n\n" + lipgloss.NewStyle().Foreground(theme.Error).Render("Error: "+m.errMsg)
	}
	return out
}

func writeNotes(b *strings.Builder, p *store.Problem) {
	notes := []struct{ label, text string }{
		{"Trick", p.NotesTrick},
		{"Mistakes", p.NotesMistakes},
		{"Edge cases", p.NotesEdgeCases},
	}
	for _, n := range notes {
		if n.text == "" {
			continue
		}
		b.WriteString(theme.Label.Render(n.label) + theme.Hint.Render(n.text) + "\n")
	}
}

func renderTransition(t *transition) string {
	outcome := theme.Outcome(t.Outcome).Render(t.Outcome.String())
	if t.Outcome == spacedrep.Postpone {
		return fmt.Sprintf("%s  %s → due %s", outcome, t.Title, t.NextDue)
	}
	return fmt.Sprintf("%s  %s: stage %d → %d, next due %s",
		outcome, t.Title, t.StageBefore, t.StageAfter, t.NextDue)
}

func (m Model) renderSummary() string {
	if m.errMsg != "" {
		return lipgloss.NewStyle().Foreground(theme.Error).Render("Error: " + m.errMsg)
	}
	if len(m.queue) == 0 {
		return theme.Title.Render("Nothing to review today.")
	}

	var b strings.Builder
	b.WriteString(theme.Title.Render(fmt.Sprintf("Reviewed %d of %d", m.index, len(m.queue))))
	b.WriteString("\n\n")
	for _, o := range spacedrep.Outcomes {
		label := theme.Outcome(o).Width(10).Render(o.String())
		b.WriteString(label + theme.Body.Render(fmt.Sprint(m.counts[o])) + "\n")
	}
	if m.last != nil {
		b.WriteString("\n" + renderTransition(m.last))
	}
	return theme.Card.Render(b.String())
}
