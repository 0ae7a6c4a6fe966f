package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"safepicks/internal/badge"
	"safepicks/internal/view"
)

// Styles.
var (
	lockStyle      = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("10"))
	strongStyle    = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("14"))
	leanStyle      = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("11"))
	pickStyle      = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("15"))
	probStyle      = lipgloss.NewStyle().Foreground(lipgloss.Color("12"))
	colHeaderStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("245"))
	dimStyle       = lipgloss.NewStyle().Foreground(lipgloss.Color("245"))
	loadingStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("6"))
	headerStyle    = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("15")).Background(lipgloss.Color("4"))
	footerStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("15")).Background(lipgloss.Color("8"))
	errorStyle     = lipgloss.NewStyle().Foreground(lipgloss.Color("9")).Border(lipgloss.NormalBorder()).BorderForeground(lipgloss.Color("9")).Padding(0, 1)
)

func badgeStyle(c badge.Category) lipgloss.Style {
	switch c {
	case badge.Lock:
		return lockStyle
	case badge.Strong:
		return strongStyle
	case badge.Lean:
		return leanStyle
	default:
		return dimStyle
	}
}

const (
	matchupWidth = 40
	pickWidth    = 22
	probWidth    = 8
)

func (m Model) View() string {
	if !m.ready {
		return "Loading..."
	}

	s := m.ctrl.State()
	status := s.Phase.String()
	if s.Loading {
		status = m.spinner.View() + " loading"
	}
	headerText := fmt.Sprintf(" %s    %s    %s ", Title, s.SelectedDate, status)
	headerBar := headerStyle.Render(padOrTrunc(headerText, m.width))

	var footerText string
	if m.editing {
		footerText = " " + m.dateInput.View() + "  enter load  esc cancel"
		if m.inputErr != "" {
			footerText += "  " + m.inputErr
		}
	} else {
		footerLeft := " q quit  left/right day  t today  r refresh  d date  pgup/dn scroll"
		footerRight := m.source + " "
		gap := m.width - len(footerLeft) - len(footerRight)
		if gap < 0 {
			gap = 0
		}
		footerText = footerLeft + strings.Repeat(" ", gap) + footerRight
	}
	footerBar := footerStyle.Render(padOrTrunc(footerText, m.width))

	return headerBar + "\n" + m.viewport.View() + "\n" + footerBar
}

// renderContent draws the primary panel for d. While loading, the previous
// table is drawn dimmed below the indicator.
func renderContent(d view.Display, width int) string {
	var b strings.Builder
	b.WriteString("\n")

	switch d.Kind {
	case view.KindError:
		box := errorStyle
		if width > 4 {
			box = box.Width(width - 4)
		}
		b.WriteString(box.Render(d.Message))
		b.WriteString("\n")
	case view.KindLoading:
		b.WriteString(loadingStyle.Render("  " + d.Message))
		b.WriteString("\n")
		if len(d.Rows) > 0 {
			b.WriteString("\n")
			renderTable(&b, d.Rows, true)
		}
	case view.KindEmpty:
		b.WriteString(dimStyle.Render("  " + d.Message))
		b.WriteString("\n")
	case view.KindTable:
		renderTable(&b, d.Rows, false)
	}
	return b.String()
}

func renderTable(b *strings.Builder, rows []view.Row, stale bool) {
	colLine := fmt.Sprintf("  %-3s %-*s %-*s %*s  %s",
		"#", matchupWidth, "Matchup", pickWidth, "Pick", probWidth, "Win Prob", "Conf")
	b.WriteString(colHeaderStyle.Render(colLine))
	b.WriteString("\n")

	for i, r := range rows {
		num := fmt.Sprintf("  %-3d ", i+1)
		matchup := fmt.Sprintf("%-*s ", matchupWidth, trunc(r.Matchup, matchupWidth))
		pick := fmt.Sprintf("%-*s ", pickWidth, trunc(r.Pick, pickWidth))
		prob := fmt.Sprintf("%*s  ", probWidth, r.WinProb)
		label := r.Badge.Label()

		if stale {
			b.WriteString(dimStyle.Render(num + matchup + pick + prob + label))
			b.WriteString("\n")
			continue
		}
		b.WriteString(dimStyle.Render(num))
		b.WriteString(matchup)
		b.WriteString(pickStyle.Render(pick))
		b.WriteString(probStyle.Render(prob))
		b.WriteString(badgeStyle(r.Badge).Render(label))
		b.WriteString("\n")
	}
}

// trunc shortens s to at most n runes.
func trunc(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	if n <= 1 {
		return string(r[:n])
	}
	return string(r[:n-1]) + "…"
}

// padOrTrunc pads s with spaces to width, or truncates if longer.
func padOrTrunc(s string, width int) string {
	w := lipgloss.Width(s)
	if w >= width {
		return trunc(s, width)
	}
	return s + strings.Repeat(" ", width-w)
}
