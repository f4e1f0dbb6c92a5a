// Package app is the interactive review session over today's queue.
package app

import (
	"context"
	"fmt"

	tea "charm.land/bubbletea/v2"
	"charm.land/lipgloss/v2"

	"github.com/abhisek/leetreview/internal/spacedrep"
	"github.com/abhisek/leetreview/internal/store"
	"github.com/abhisek/leetreview/internal/tracker"
	"github.com/abhisek/leetreview/internal/ui/components"
	"github.com/abhisek/leetreview/internal/ui/layout"
)

type phase int

const (
	phaseLoading phase = iota
	phaseCard
	phaseNote
	phaseMinutes
	phaseSummary
)

// Keys that record an outcome for the current card.
var outcomeKeys = map[string]spacedrep.Outcome{
	"p": spacedrep.Pass,
	"s": spacedrep.Shaky,
	"f": spacedrep.Fail,
	"k": spacedrep.Skip,
	"z": spacedrep.Postpone,
}

// transition describes what the last action did to a problem.
type transition struct {
	Title       string
	Outcome     spacedrep.Outcome
	StageBefore int
	StageAfter  int
	NextDue     string
}

// Model is the root Bubble Tea model of a review session.
type Model struct {
	ctx context.Context
	svc *tracker.Service

	phase  phase
	queue  []*store.Problem
	index  int
	busy   bool
	errMsg string

	input   components.TextInput
	note    string
	minutes *int

	last   *transition
	counts map[spacedrep.Outcome]int

	width  int
	height int
}

// New creates a review model backed by svc.
func New(ctx context.Context, svc *tracker.Service) Model {
	return Model{
		ctx:    ctx,
		svc:    svc,
		counts: make(map[spacedrep.Outcome]int),
	}
}

func (m Model) Init() tea.Cmd {
	return m.loadQueue()
}

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		return m, nil

	case queueLoadedMsg:
		return m.handleQueueLoaded(msg)

	case recordedMsg:
		return m.handleRecorded(msg)

	case tea.KeyMsg:
		if msg.String() == "ctrl+c" {
			return m, tea.Quit
		}
		switch m.phase {
		case phaseNote, phaseMinutes:
			return m.handleInputKey(msg)
		case phaseCard:
			return m.handleCardKey(msg)
		case phaseSummary:
			return m, tea.Quit
		}
		if msg.String() == "q" {
			return m, tea.Quit
		}
		return m, nil
	}

	if m.phase == phaseNote || m.phase == phaseMinutes {
		var cmd tea.Cmd
		m.input, cmd = m.input.Update(msg)
		return m, cmd
	}
	return m, nil
}

func (m Model) loadQueue() tea.Cmd {
	ctx, svc := m.ctx, m.svc
	return func() tea.Msg {
		q, err := svc.Today(ctx)
		return queueLoadedMsg{Queue: q, Err: err}
	}
}

func (m Model) record(p *store.Problem, o spacedrep.Outcome) tea.Cmd {
	ctx, svc := m.ctx, m.svc
	in := tracker.AttemptInput{Outcome: o, TimeSpentMinutes: m.minutes, Notes: m.note}
	return func() tea.Msg {
		if o == spacedrep.Postpone {
			updated, err := svc.Postpone(ctx, p.ID)
			return recordedMsg{Problem: p, Outcome: o, Updated: updated, Err: err}
		}
		a, err := svc.LogAttempt(ctx, p.ID, in)
		return recordedMsg{Problem: p, Outcome: o, Attempt: a, Err: err}
	}
}

func (m Model) handleQueueLoaded(msg queueLoadedMsg) (tea.Model, tea.Cmd) {
	if msg.Err != nil {
		m.errMsg = msg.Err.Error()
		m.phase = phaseSummary
		return m, nil
	}
	m.queue = msg.Queue.All()
	m.phase = phaseCard
	if len(m.queue) == 0 {
		m.phase = phaseSummary
	}
	return m, nil
}

func (m Model) handleRecorded(msg recordedMsg) (tea.Model, tea.Cmd) {
	m.busy = false
	if msg.Err != nil {
		m.errMsg = msg.Err.Error()
		return m, nil
	}
	m.errMsg = ""

	now := m.svc.Now().In(m.svc.Location())
	t := &transition{Title: msg.Problem.Title, Outcome: msg.Outcome}
	if msg.Attempt != nil {
		t.StageBefore = msg.Attempt.StageBefore
		t.StageAfter = msg.Attempt.StageAfter
		t.NextDue = spacedrep.RelativeDue(msg.Attempt.NextDueDateAfter, now)
	} else if msg.Updated != nil {
		t.StageBefore = msg.Updated.Schedule.MasteryStage
		t.StageAfter = msg.Updated.Schedule.MasteryStage
		t.NextDue = spacedrep.RelativeDue(msg.Updated.Schedule.NextDueDate, now)
	}
	m.last = t
	m.counts[msg.Outcome]++

	m.note = ""
	m.minutes = nil
	m.index++
	if m.index >= len(m.queue) {
		m.phase = phaseSummary
	}
	return m, nil
}

func (m Model) handleCardKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if m.busy {
		return m, nil
	}

	key := msg.String()
	if o, ok := outcomeKeys[key]; ok {
		m.busy = true
		return m, m.record(m.queue[m.index], o)
	}

	switch key {
	case "n":
		m.phase = phaseNote
		m.input = components.NewTextInput("What happened this time?", false, 500)
		m.input.SetValue(m.note)
		return m, m.input.Init()
	case "t":
		m.phase = phaseMinutes
		m.input = components.NewTextInput("Minutes spent", true, 4)
		if m.minutes != nil {
			m.input.SetValue(fmt.Sprint(*m.minutes))
		}
		return m, m.input.Init()
	case "q":
		m.phase = phaseSummary
		return m, nil
	}
	return m, nil
}

func (m Model) handleInputKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "enter":
		if m.phase == phaseNote {
			m.note = m.input.Value()
		} else if n, err := m.input.NumericValue(); err == nil {
			m.minutes = &n
		} else if m.input.Value() == "" {
			m.minutes = nil
		}
		m.phase = phaseCard
		return m, nil
	case "esc":
		m.phase = phaseCard
		return m, nil
	}

	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	return m, cmd
}

// Reviewed returns how many problems had an outcome recorded.
func (m Model) Reviewed() int {
	return m.index
}

// Counts returns the number of recorded outcomes of each kind.
func (m Model) Counts() map[spacedrep.Outcome]int {
	return m.counts
}

func (m Model) View() tea.View {
	v := tea.NewView(m.render())
	v.AltScreen = true
	return v
}

func (m Model) render() string {
	if m.width == 0 || m.height == 0 {
		return ""
	}

	if layout.IsTooSmall(m.width, m.height) {
		return layout.RenderMinSizeMessage(m.width, m.height)
	}

	header := layout.RenderHeader(m.title(), m.index, len(m.queue), m.width)
	footer := layout.RenderFooter(m.keyHints(), m.width)

	contentHeight := max(m.height-lipgloss.Height(header)-lipgloss.Height(footer), 0)
	content := m.renderContent(m.width, contentHeight)

	return layout.RenderFrame(header, content, footer, m.width, m.height)
}

func (m Model) title() string {
	switch m.phase {
	case phaseLoading:
		return "Loading"
	case phaseSummary:
		return "Summary"
	}
	return "Today's review"
}

func (m Model) keyHints() []layout.KeyHint {
	switch m.phase {
	case phaseNote, phaseMinutes:
		return []layout.KeyHint{
			{Key: "Enter", Description: "Keep"},
			{Key: "Esc", Description: "Cancel"},
		}
	case phaseSummary:
		return []layout.KeyHint{{Key: "any key", Description: "Exit"}}
	case phaseCard:
		return []layout.KeyHint{
			{Key: "p", Description: "Pass"},
			{Key: "s", Description: "Shaky"},
			{Key: "f", Description: "Fail"},
			{Key: "k", Description: "Skip"},
			{Key: "z", Description: "Postpone"},
			{Key: "n", Description: "Note"},
			{Key: "t", Description: "Time"},
			{Key: "q", Description: "Quit"},
		}
	}
	return []layout.KeyHint{{Key: "Ctrl+C", Description: "Quit"}}
}

// Run starts the review program and returns the final model.
func Run(ctx context.Context, svc *tracker.Service) (Model, error) {
	p := tea.NewProgram(New(ctx, svc), tea.WithContext(ctx))
	final, err := p.Run()
	if err != nil {
		return Model{}, fmt.Errorf("run review: %w", err)
	}
	return final.(Model), nil
}
