package tui

import (
	"context"
	"fmt"
	"time"

	"coreburn/cmd/coreburn/ui"
	"coreburn/internal/hardware"
	"coreburn/internal/results"

	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/glamour"
	"go.uber.org/zap"
)

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.ready = true
		m.history.Width = msg.Width - 4
		m.history.Height = msg.Height - 6
		if m.render != nil && msg.Width > 16 {
			m.render, _ = glamour.NewTermRenderer(
				glamour.WithAutoStyle(),
				glamour.WithWordWrap(msg.Width-8),
			)
		}
		return m, nil

	case spinner.TickMsg:
		if m.mode == BurnView {
			var cmd tea.Cmd
			m.spinner, cmd = m.spinner.Update(msg)
			return m, cmd
		}
		return m, nil

	case frameMsg:
		if m.mode != BurnView {
			return m, nil
		}
		m = m.sample()
		return m, frameTick()

	case burnDoneMsg:
		return m.handleBurnDone(msg)

	case tea.KeyMsg:
		return m.handleKey(msg)
	}

	return m, nil
}

func (m Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	// Global bindings. Only digits reach the duration input, so plain
	// letters are safe to handle here.
	switch msg.String() {
	case "ctrl+c", "q", "Q":
		m.Shutdown()
		return m, tea.Quit
	case "?":
		if m.mode == HelpView {
			m.mode = m.prevMode
		} else if m.mode != BurnView {
			m.prevMode = m.mode
			m.mode = HelpView
		}
		return m, nil
	}

	switch m.mode {
	case SetupView:
		return m.updateSetup(msg)
	case BurnView:
		return m.updateBurn(msg)
	case DoneView:
		return m.updateDone(msg)
	case HistoryView:
		return m.updateHistory(msg)
	case HelpView:
		if msg.Type == tea.KeyEsc {
			m.mode = m.prevMode
		}
		return m, nil
	}
	return m, nil
}

// =============================================================================
// SETUP FORM
// =============================================================================

func (m Model) updateSetup(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.Type {
	case tea.KeyTab:
		m.focus = (m.focus + 1) % 4
		m.syncInputFocus()
		return m, nil

	case tea.KeyShiftTab:
		m.focus = (m.focus + 3) % 4
		m.syncInputFocus()
		return m, nil

	case tea.KeyUp, tea.KeyRight:
		switch m.focus {
		case FocusUnit:
			m.unit = m.toggledUnit()
		case FocusCores:
			if m.coreCount < m.totalCores {
				m.coreCount++
			}
		}
		return m, nil

	case tea.KeyDown, tea.KeyLeft:
		switch m.focus {
		case FocusUnit:
			m.unit = m.toggledUnit()
		case FocusCores:
			if m.coreCount > 1 {
				m.coreCount--
			}
		}
		return m, nil

	case tea.KeyEnter:
		if m.focus == FocusOK {
			return m.startBurn()
		}
		m.focus++
		m.syncInputFocus()
		return m, nil
	}

	if msg.String() == "h" {
		return m.openHistory()
	}

	// Remaining keys edit the duration field when it holds focus. The
	// input accepts digits only.
	if m.focus == FocusDuration {
		if msg.Type == tea.KeyRunes {
			for _, r := range msg.Runes {
				if r < '0' || r > '9' {
					return m, nil
				}
			}
		}
		var cmd tea.Cmd
		m.input, cmd = m.input.Update(msg)
		m.formErr = ""
		return m, cmd
	}
	return m, nil
}

func (m Model) toggledUnit() TimeUnit {
	if m.unit == UnitSeconds {
		return UnitMinutes
	}
	return UnitSeconds
}

func (m *Model) syncInputFocus() {
	if m.focus == FocusDuration {
		m.input.Focus()
	} else {
		m.input.Blur()
	}
}

// startBurn validates the form and launches the workers.
func (m Model) startBurn() (tea.Model, tea.Cmd) {
	secs, ok := m.durationSecs()
	if !ok {
		m.formErr = "Enter a positive whole number"
		return m, nil
	}

	ctx, cancel := context.WithCancel(context.Background())
	m.burnCancel = cancel
	m.startedAt = time.Now()
	m.lastSample = time.Now()
	m.totalSecs = secs
	m.elapsed = 0
	m.samples = nil
	m.sampleSum = 0
	m.sampleN = 0
	m.saveErr = ""
	m.cancelling = false
	m.mode = BurnView

	// Prime the usage baseline so the first chart point is a real delta.
	if cores, err := m.sampler.CoreUsages(); err == nil {
		m.coreCache = cores
	}
	if mem, err := m.sampler.Memory(); err == nil {
		m.memCache = mem
	}

	duration := time.Duration(secs) * time.Second
	cores := m.coreCount
	if m.logger != nil {
		m.logger.Info("burn started",
			zap.Duration("duration", duration),
			zap.Int("cores", cores))
	}

	runCmd := func() tea.Msg {
		res, err := m.runner.Run(ctx, duration, cores)
		return burnDoneMsg{res: res, err: err}
	}
	return m, tea.Batch(m.spinner.Tick, frameTick(), runCmd)
}

// =============================================================================
// BURN VIEW
// =============================================================================

func (m Model) updateBurn(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if msg.Type == tea.KeyEsc && !m.cancelling {
		// Cancel and wait for burnDoneMsg so workers are gone before the
		// form comes back.
		m.cancelling = true
		if m.burnCancel != nil {
			m.burnCancel()
		}
	}
	return m, nil
}

// sample advances the chart and refreshes the hardware caches once per
// sample interval.
func (m Model) sample() Model {
	m.elapsed = int64(time.Since(m.startedAt).Seconds())
	if time.Since(m.lastSample) < m.sampleEvery {
		return m
	}
	m.lastSample = time.Now()

	cores, err := m.sampler.CoreUsages()
	if err != nil {
		if m.logger != nil {
			m.logger.Warn("cpu sample failed", zap.Error(err))
		}
		return m
	}
	m.coreCache = cores
	if mem, err := m.sampler.Memory(); err == nil {
		m.memCache = mem
	}

	avg := hardware.Average(cores)
	m.sampleSum += avg
	m.sampleN++
	m.samples = append(m.samples, ui.Point{X: float64(m.elapsed), Y: avg})
	if len(m.samples) > maxSamples {
		m.samples = m.samples[1:]
	}
	return m
}

func (m Model) handleBurnDone(msg burnDoneMsg) (tea.Model, tea.Cmd) {
	m.burnCancel = nil

	if msg.err != nil {
		// Cancelled: back to the form, nothing recorded.
		if m.logger != nil {
			m.logger.Info("burn cancelled",
				zap.Uint64("partial_score", msg.res.Score))
		}
		return m.resetForSetup(), nil
	}

	res := msg.res
	m.lastResult = &res
	m.doneChoice = OptionRunAgain
	m.mode = DoneView

	avg := 0.0
	if m.sampleN > 0 {
		avg = m.sampleSum / float64(m.sampleN)
	}
	if m.logger != nil {
		m.logger.Info("burn finished",
			zap.Uint64("score", res.Score),
			zap.Int("cores", res.Cores),
			zap.Float64("avg_cpu_percent", avg))
	}

	if m.store != nil && m.cfg.HistoryEnabled {
		_, err := m.store.Record(results.Run{
			StartedAt:     m.startedAt,
			DurationSecs:  m.totalSecs,
			Cores:         res.Cores,
			Score:         res.Score,
			AvgCPUPercent: avg,
		})
		if err != nil {
			m.saveErr = fmt.Sprintf("history not saved: %v", err)
			if m.logger != nil {
				m.logger.Warn("recording run failed", zap.Error(err))
			}
		}
	}
	return m, nil
}

// =============================================================================
// DONE POPUP
// =============================================================================

func (m Model) updateDone(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.Type {
	case tea.KeyUp, tea.KeyDown, tea.KeyTab:
		if m.doneChoice == OptionRunAgain {
			m.doneChoice = OptionExit
		} else {
			m.doneChoice = OptionRunAgain
		}
		return m, nil

	case tea.KeyEnter:
		if m.doneChoice == OptionExit {
			m.Shutdown()
			return m, tea.Quit
		}
		return m.resetForSetup(), nil

	case tea.KeyEsc:
		m.Shutdown()
		return m, tea.Quit
	}
	return m, nil
}

// resetForSetup clears run state and returns to the form.
func (m Model) resetForSetup() Model {
	m.mode = SetupView
	m.focus = FocusDuration
	m.input.SetValue("")
	m.input.Focus()
	m.formErr = ""
	m.samples = nil
	m.elapsed = 0
	m.totalSecs = 0
	m.lastResult = nil
	m.cancelling = false
	m.doneChoice = OptionRunAgain
	return m
}

// =============================================================================
// HISTORY VIEW
// =============================================================================

func (m Model) openHistory() (tea.Model, tea.Cmd) {
	if m.store == nil {
		m.formErr = "history is disabled"
		return m, nil
	}
	runs, err := m.store.Recent(20)
	if err != nil {
		m.formErr = fmt.Sprintf("history unavailable: %v", err)
		return m, nil
	}

	table := ui.NewSimpleTable("Run History", []string{"Started", "Duration", "Cores", "Score", "Avg CPU"})
	for _, r := range runs {
		table.AddRow(
			r.StartedAt.Format("2006-01-02 15:04"),
			(time.Duration(r.DurationSecs) * time.Second).String(),
			fmt.Sprintf("%d", r.Cores),
			fmt.Sprintf("%d", r.Score),
			fmt.Sprintf("%.1f%%", r.AvgCPUPercent),
		)
	}
	m.history.SetContent(table.View(m.styles))
	m.history.GotoTop()
	m.mode = HistoryView
	return m, nil
}

func (m Model) updateHistory(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if msg.Type == tea.KeyEsc {
		m.mode = SetupView
		return m, nil
	}
	var cmd tea.Cmd
	m.history, cmd = m.history.Update(msg)
	return m, cmd
}
