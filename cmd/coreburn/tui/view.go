package tui

import (
	"fmt"
	"strings"
	"time"

	"coreburn/cmd/coreburn/ui"

	"github.com/charmbracelet/lipgloss"
)

func (m Model) View() string {
	if !m.ready {
		return "Initializing..."
	}

	switch m.mode {
	case SetupView:
		return m.viewSetup()
	case BurnView:
		return m.viewBurn()
	case DoneView:
		return m.viewDone()
	case HistoryView:
		return m.viewHistory()
	case HelpView:
		return m.viewHelp()
	}
	return ""
}

func (m Model) renderHeader(status string) string {
	title := m.styles.Header.Render(" coreburn ")
	badge := m.styles.Badge.Render(status)
	line := lipgloss.JoinHorizontal(lipgloss.Center, title, "  ", badge)
	return lipgloss.JoinVertical(lipgloss.Left, line, m.styles.RenderDivider(m.width))
}

// =============================================================================
// SETUP FORM
// =============================================================================

func (m Model) viewSetup() string {
	header := m.renderHeader("Setup")

	field := func(f FocusField, label, value string) string {
		style := m.styles.FieldBlurred
		if m.focus == f {
			style = m.styles.FieldFocused
		}
		labelLine := m.styles.Muted.Render(label)
		return lipgloss.JoinVertical(lipgloss.Left, labelLine, style.Render(value))
	}

	duration := field(FocusDuration, "Duration", m.input.View())

	unitCell := func(u TimeUnit) string {
		s := "  " + u.String() + "  "
		if u == m.unit {
			return m.styles.Success.Render(s)
		}
		return m.styles.Muted.Render(s)
	}
	unit := field(FocusUnit, "Unit", unitCell(UnitSeconds)+"  "+unitCell(UnitMinutes))

	cores := field(FocusCores,
		fmt.Sprintf("Cores (1-%d)", m.totalCores),
		fmt.Sprintf("  %d  ", m.coreCount))

	okStyle := m.styles.ButtonIdle
	if m.focus == FocusOK {
		okStyle = m.styles.ButtonActive
	}
	ok := okStyle.Render("OK")

	var errLine string
	if m.formErr != "" {
		errLine = m.styles.Error.Render(m.formErr)
	}

	help := m.styles.Muted.Render(
		"Tab: next field | Arrows: change value | Enter on OK: start | h: history | ?: help | q: quit")

	form := lipgloss.JoinVertical(
		lipgloss.Left,
		duration,
		"",
		unit,
		"",
		cores,
		"",
		ok,
		"",
		errLine,
		help,
	)

	return lipgloss.JoinVertical(lipgloss.Left, header, m.styles.Content.Render(form))
}

// =============================================================================
// BURN VIEW
// =============================================================================

func (m Model) viewBurn() string {
	status := fmt.Sprintf("%s Burning %ds / %ds", m.spinner.View(), m.elapsed, m.totalSecs)
	if m.cancelling {
		status = "Stopping..."
	}
	header := m.renderHeader(status)

	// Chart takes three quarters of the width, system panel the rest.
	chartWidth := m.width * 3 / 4
	panelWidth := m.width - chartWidth - 4
	if chartWidth < 20 {
		chartWidth = 20
	}
	if panelWidth < 16 {
		panelWidth = 16
	}
	chartHeight := m.height - 8
	if chartHeight < 6 {
		chartHeight = 6
	}

	chart := ui.NewLineChart(chartWidth-4, chartHeight, float64(m.totalSecs), 100)
	chartBody := chart.Render(m.samples, m.styles)
	chartBox := m.styles.Panel.Width(chartWidth).Render(
		lipgloss.JoinVertical(lipgloss.Left,
			m.styles.Bold.Render("CPU Usage %"),
			chartBody))

	panelBox := m.styles.Panel.Width(panelWidth).Render(
		m.panel.Render(m.memCache, m.coreCache))

	body := lipgloss.JoinHorizontal(lipgloss.Top, chartBox, " ", panelBox)
	footer := m.styles.Muted.Render("Esc: stop and return | q: quit")

	return lipgloss.JoinVertical(lipgloss.Left, header, body, footer)
}

// =============================================================================
// DONE POPUP
// =============================================================================

func (m Model) viewDone() string {
	option := func(o DoneOption, label string) string {
		if m.doneChoice == o {
			return m.styles.Success.Render("> " + label)
		}
		return m.styles.Muted.Render("  " + label)
	}

	var lines []string
	lines = append(lines, m.styles.Error.Render("Time's Up!"), "")
	if m.lastResult != nil {
		lines = append(lines,
			fmt.Sprintf("Score: %d", m.lastResult.Score),
			m.styles.Muted.Render(fmt.Sprintf("%d cores, %s", m.lastResult.Cores, m.lastResult.Elapsed.Round(time.Second))),
			"")
	}
	if m.saveErr != "" {
		lines = append(lines, m.styles.Warning.Render(m.saveErr), "")
	}
	lines = append(lines,
		option(OptionRunAgain, "Run Again (Enter)"),
		option(OptionExit, "Exit (Esc)"),
	)

	popup := m.styles.Popup.Render(strings.Join(lines, "\n"))
	return lipgloss.Place(m.width, m.height, lipgloss.Center, lipgloss.Center, popup)
}

// =============================================================================
// HISTORY / HELP
// =============================================================================

func (m Model) viewHistory() string {
	header := m.renderHeader("History")
	footer := m.styles.Muted.Render("Arrows: scroll | Esc: back")
	return lipgloss.JoinVertical(lipgloss.Left,
		header,
		m.styles.Content.Render(m.history.View()),
		footer)
}

func (m Model) viewHelp() string {
	header := m.renderHeader("Help")
	return lipgloss.JoinVertical(lipgloss.Left,
		header,
		m.styles.Content.Render(m.renderHelp()))
}
