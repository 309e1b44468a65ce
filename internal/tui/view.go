package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/rithankoushik/fitz-cli/internal/model"
	"github.com/rithankoushik/fitz-cli/internal/service"
	"github.com/rithankoushik/fitz-cli/internal/tracker"
)

const (
	barWidth       = 20
	maxResultsShow = 8
	minPanelWidth  = 36
)

func (m Model) View() string {
	width := m.width
	if width <= 0 {
		width = 100
	}
	colW := max((width-4)/2, minPanelWidth)

	left := lipgloss.JoinVertical(lipgloss.Left,
		m.renderSearch(colW),
		m.renderDraft(colW),
	)
	right := lipgloss.JoinVertical(lipgloss.Left,
		m.renderSummary(colW),
		m.renderMeals(colW),
	)
	body := lipgloss.JoinHorizontal(lipgloss.Top, left, right)
	return lipgloss.JoinVertical(lipgloss.Left, m.renderHeader(), body, m.renderNotices(), m.renderFooter())
}

func (m Model) renderHeader() string {
	status := ""
	switch {
	case m.day.Loading:
		status = m.theme.info.Render("  loading…")
	case m.day.Stale:
		status = m.theme.warn.Render("  stale: last reload failed (ctrl+r to retry)")
	}
	return m.theme.title.Render("fitz · "+m.day.Date) + status
}

func (m Model) renderSearch(width int) string {
	lines := []string{m.theme.subtitle.Render("Search")}
	prompt := "> " + m.query
	if m.focus == focusSearch {
		prompt += m.theme.cursor.Render("▌")
	}
	lines = append(lines, prompt)

	switch {
	case m.search.Searching:
		lines = append(lines, m.theme.muted.Render("searching…"))
	case m.search.Visible && len(m.search.Results) == 0:
		lines = append(lines, m.theme.muted.Render("no matches"))
	case m.search.Visible:
		for i, f := range m.search.Results {
			if i >= maxResultsShow {
				lines = append(lines, m.theme.muted.Render(fmt.Sprintf("  … %d more", len(m.search.Results)-i)))
				break
			}
			marker := "  "
			style := m.theme.text
			if i == m.cursor {
				marker = m.theme.cursor.Render("› ")
				style = m.theme.cursor
			}
			lines = append(lines, marker+style.Render(f.Name)+m.theme.muted.Render(fmt.Sprintf("  %.0f kcal/100g", f.Calories)))
		}
	}
	return m.theme.box(m.focus == focusSearch).Width(width).Render(strings.Join(lines, "\n"))
}

func (m Model) renderDraft(width int) string {
	lines := []string{m.theme.subtitle.Render("Entry")}
	d := m.draft
	if d.Food == nil {
		lines = append(lines, m.theme.muted.Render("Pick a search result to start an entry."))
		return m.theme.box(false).Width(width).Render(strings.Join(lines, "\n"))
	}
	qty := m.qty
	if m.focus == focusDraft {
		qty += m.theme.cursor.Render("▌")
	}
	lines = append(lines,
		m.theme.text.Render(d.Food.Name),
		fmt.Sprintf("Quantity: %s g   Meal: %s", qty, mealPicker(m.theme, d.Meal)),
		m.theme.info.Render(formatMacros(d.Preview)),
	)
	if d.State == tracker.DraftSubmitting {
		lines = append(lines, m.theme.warn.Render("logging…"))
	}
	return m.theme.box(m.focus == focusDraft).Width(width).Render(strings.Join(lines, "\n"))
}

func (m Model) renderSummary(width int) string {
	s := m.day.Summary
	lines := []string{m.theme.subtitle.Render("Today vs goals")}
	for _, p := range s.Progress {
		style := m.theme.band(p.Band)
		lines = append(lines, fmt.Sprintf("%-8s %s %s",
			p.Name,
			style.Render(progressBar(p.Percent, barWidth)),
			style.Render(fmt.Sprintf("%g/%g %s (%d%%)", p.Current, p.Goal, p.Unit, p.Percent)),
		))
	}
	if s.RemainingCalories != nil {
		lines = append(lines, m.theme.text.Render(fmt.Sprintf("Remaining: %.0f kcal", *s.RemainingCalories)))
	}
	return m.theme.box(false).Width(width).Render(strings.Join(lines, "\n"))
}

func (m Model) renderMeals(width int) string {
	lines := []string{m.theme.subtitle.Render("Log")}
	if m.day.Log == nil {
		lines = append(lines, m.theme.muted.Render("not loaded"))
		return m.theme.box(m.focus == focusLog).Width(width).Render(strings.Join(lines, "\n"))
	}
	flat := 0
	for _, meal := range model.MealTypes {
		entries := m.day.Log.Entries(meal)
		lines = append(lines, m.theme.text.Bold(true).Render(meal.Title()))
		if len(entries) == 0 {
			lines = append(lines, m.theme.muted.Render("  -"))
		}
		for _, e := range entries {
			marker := "  "
			if m.focus == focusLog && flat == m.entryCursor {
				marker = m.theme.cursor.Render("› ")
			}
			lines = append(lines, fmt.Sprintf("%s%s %gg  %s", marker, e.FoodName, e.QuantityGrams,
				m.theme.muted.Render(fmt.Sprintf("%.0f kcal", e.Calories))))
			flat++
		}
	}
	return m.theme.box(m.focus == focusLog).Width(width).Render(strings.Join(lines, "\n"))
}

func (m Model) renderNotices() string {
	if len(m.notices) == 0 {
		return ""
	}
	lines := make([]string, 0, len(m.notices))
	for _, n := range m.notices {
		lines = append(lines, m.theme.notice(n.Level).Render(n.Text))
	}
	return strings.Join(lines, "\n")
}

func (m Model) renderFooter() string {
	var keys []string
	switch m.focus {
	case focusDraft:
		keys = []string{"0-9 quantity", "tab meal", "enter log", "esc cancel"}
	case focusLog:
		keys = []string{"↑/↓ move", "d delete", "tab search"}
	default:
		keys = []string{"type to search", "↑/↓ choose", "enter select", "tab log"}
	}
	keys = append(keys, "pgup/pgdn day", "ctrl+r reload", "ctrl+c quit")
	return m.theme.help.Render(strings.Join(keys, " · "))
}

// progressBar fills width cells in proportion to percent, capped at full.
func progressBar(percent, width int) string {
	filled := min(max(percent, 0), 100) * width / 100
	return strings.Repeat("█", filled) + strings.Repeat("░", width-filled)
}

func formatMacros(v model.MacroValues) string {
	return fmt.Sprintf("%g kcal · P %gg · C %gg · F %gg",
		service.RoundTenth(v.Calories), service.RoundTenth(v.Protein), service.RoundTenth(v.Carbs), service.RoundTenth(v.Fat))
}

func mealPicker(t theme, current model.MealType) string {
	parts := make([]string, 0, len(model.MealTypes))
	for _, meal := range model.MealTypes {
		if meal == current {
			parts = append(parts, t.cursor.Render("["+meal.Title()+"]"))
		} else {
			parts = append(parts, t.muted.Render(meal.Title()))
		}
	}
	return strings.Join(parts, " ")
}
