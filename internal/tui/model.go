// Package tui is the interactive tracking screen: search the catalog, compose an
// entry, log it, and watch the day's progress update.
package tui

import (
	"context"
	"strconv"
	"strings"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/rithankoushik/fitz-cli/internal/errs"
	"github.com/rithankoushik/fitz-cli/internal/model"
	"github.com/rithankoushik/fitz-cli/internal/tracker"
)

const maxNotices = 3

type focus int

const (
	focusSearch focus = iota
	focusDraft
	focusLog
)

type opKind int

const (
	opReload opKind = iota
	opDate
	opSubmit
	opDelete
)

type opDoneMsg struct {
	op  opKind
	err error
}

// Model is the bubbletea model for `fitz track`. Tracker state arrives through
// a Bridge; each part keeps the highest Version it has seen.
type Model struct {
	ctx   context.Context
	t     *tracker.Tracker
	theme theme

	width  int
	height int

	focus       focus
	query       string
	cursor      int
	qty         string
	entryCursor int

	search  tracker.SearchState
	draft   tracker.Draft
	day     tracker.Snapshot
	notices []tracker.Notice

	err error
}

func New(ctx context.Context, t *tracker.Tracker) Model {
	m := Model{
		ctx:    ctx,
		t:      t,
		theme:  newTheme(),
		search: t.Search.State(),
		draft:  t.Draft.Draft(),
		day:    t.Day.Snapshot(),
	}
	m.qty = formatGrams(m.draft.QuantityGrams)
	return m
}

// Err is the auth failure that ended the session, if any.
func (m Model) Err() error { return m.err }

func (m Model) Init() tea.Cmd {
	return m.run(opReload, func(ctx context.Context) error { return m.t.Day.Reload(ctx) })
}

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height

	case searchMsg:
		if msg.Version > m.search.Version {
			m.search = tracker.SearchState(msg)
			if m.cursor >= len(m.search.Results) {
				m.cursor = 0
			}
		}

	case draftMsg:
		if msg.Version > m.draft.Version {
			m.draft = tracker.Draft(msg)
		}

	case dayMsg:
		if msg.Version > m.day.Version {
			m.day = tracker.Snapshot(msg)
			if n := len(m.entries()); m.entryCursor >= n {
				m.entryCursor = max(n-1, 0)
			}
		}

	case noticeMsg:
		m.notices = append(m.notices, tracker.Notice(msg))
		if len(m.notices) > maxNotices {
			m.notices = m.notices[len(m.notices)-maxNotices:]
		}

	case opDoneMsg:
		if errs.IsAuth(msg.err) {
			m.err = msg.err
			return m, tea.Quit
		}
		if msg.op == opSubmit && msg.err == nil {
			m.focus = focusSearch
			m.query = ""
			m.cursor = 0
			m.qty = formatGrams(m.t.Draft.Draft().QuantityGrams)
		}

	case tea.KeyMsg:
		return m.handleKey(msg)
	}
	return m, nil
}

func (m Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "ctrl+c":
		return m, tea.Quit
	case "ctrl+r":
		return m, m.run(opReload, func(ctx context.Context) error { return m.t.Day.Reload(ctx) })
	case "pgup":
		return m, m.shiftDate(-1)
	case "pgdown":
		return m, m.shiftDate(1)
	}
	switch m.focus {
	case focusDraft:
		return m.handleDraftKey(msg)
	case focusLog:
		return m.handleLogKey(msg)
	default:
		return m.handleSearchKey(msg)
	}
}

func (m Model) handleSearchKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.Type {
	case tea.KeyRunes:
		m.query += string(msg.Runes)
		m.t.Search.SetQuery(m.query)
	case tea.KeySpace:
		m.query += " "
		m.t.Search.SetQuery(m.query)
	case tea.KeyBackspace:
		if r := []rune(m.query); len(r) > 0 {
			m.query = string(r[:len(r)-1])
			m.t.Search.SetQuery(m.query)
		}
	case tea.KeyUp:
		if m.cursor > 0 {
			m.cursor--
		}
	case tea.KeyDown:
		if m.cursor < len(m.search.Results)-1 {
			m.cursor++
		}
	case tea.KeyEnter:
		if !m.search.Visible || len(m.search.Results) == 0 {
			m.t.Search.Flush()
			return m, nil
		}
		if err := m.t.Choose(m.cursor); err != nil {
			return m, nil
		}
		m.focus = focusDraft
		m.qty = formatGrams(m.t.Draft.Draft().QuantityGrams)
	case tea.KeyEsc:
		if m.search.Visible {
			m.t.Search.Dismiss()
		} else if m.query != "" {
			m.query = ""
			m.cursor = 0
			m.t.Search.Clear()
		}
	case tea.KeyTab:
		m.focus = focusLog
	}
	return m, nil
}

func (m Model) handleDraftKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.Type {
	case tea.KeyRunes:
		for _, r := range msg.Runes {
			if (r >= '0' && r <= '9') || (r == '.' && !strings.Contains(m.qty, ".")) {
				m.qty += string(r)
			}
		}
		m.applyQuantity()
	case tea.KeyBackspace:
		if m.qty != "" {
			m.qty = m.qty[:len(m.qty)-1]
			m.applyQuantity()
		}
	case tea.KeyTab, tea.KeyRight:
		_ = m.t.Draft.SetMeal(stepMeal(m.t.Draft.Draft().Meal, 1))
	case tea.KeyShiftTab, tea.KeyLeft:
		_ = m.t.Draft.SetMeal(stepMeal(m.t.Draft.Draft().Meal, -1))
	case tea.KeyEnter:
		if m.t.Draft.Draft().State == tracker.DraftSubmitting {
			return m, nil
		}
		return m, m.run(opSubmit, m.t.Submit)
	case tea.KeyEsc:
		if err := m.t.Draft.Cancel(); err == nil {
			m.focus = focusSearch
			m.qty = formatGrams(m.t.Draft.Draft().QuantityGrams)
		}
	}
	return m, nil
}

func (m Model) handleLogKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	entries := m.entries()
	switch msg.String() {
	case "up", "k":
		if m.entryCursor > 0 {
			m.entryCursor--
		}
	case "down", "j":
		if m.entryCursor < len(entries)-1 {
			m.entryCursor++
		}
	case "d", "delete":
		if m.entryCursor < len(entries) {
			ref := entries[m.entryCursor]
			return m, m.run(opDelete, func(ctx context.Context) error {
				return m.t.Day.DeleteEntry(ctx, ref.meal, ref.index)
			})
		}
	case "tab", "esc":
		m.focus = focusSearch
	}
	return m, nil
}

// applyQuantity pushes the typed quantity into the draft; an empty or partial
// number counts as zero grams, which Submit rejects.
func (m *Model) applyQuantity() {
	grams, err := strconv.ParseFloat(m.qty, 64)
	if err != nil {
		grams = 0
	}
	_ = m.t.Draft.SetQuantity(grams)
}

func (m Model) shiftDate(days int) tea.Cmd {
	return m.run(opDate, func(ctx context.Context) error { return m.t.Day.ShiftDate(ctx, days) })
}

// run executes a blocking tracker operation off the update loop.
func (m Model) run(op opKind, fn func(context.Context) error) tea.Cmd {
	ctx := m.ctx
	return func() tea.Msg {
		return opDoneMsg{op: op, err: fn(ctx)}
	}
}

type entryRef struct {
	meal  model.MealType
	index int
	entry model.LogEntry
}

// entries flattens the day's log in meal display order.
func (m Model) entries() []entryRef {
	var out []entryRef
	for _, meal := range model.MealTypes {
		for i, e := range m.day.Log.Entries(meal) {
			out = append(out, entryRef{meal: meal, index: i, entry: e})
		}
	}
	return out
}

func stepMeal(current model.MealType, delta int) model.MealType {
	n := len(model.MealTypes)
	for i, meal := range model.MealTypes {
		if meal == current {
			return model.MealTypes[((i+delta)%n+n)%n]
		}
	}
	return model.MealTypes[0]
}

func formatGrams(g float64) string {
	return strconv.FormatFloat(g, 'f', -1, 64)
}
