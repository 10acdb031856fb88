package tui

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"coreburn/cmd/coreburn/ui"
	"coreburn/internal/config"
	"coreburn/internal/hardware"
	"coreburn/internal/results"
	"coreburn/internal/stress"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/require"
)

func newTestModel(t *testing.T) Model {
	t.Helper()
	sampler, err := hardware.NewSampler()
	require.NoError(t, err)

	store, err := results.Open(filepath.Join(t.TempDir(), "history.db"))
	require.NoError(t, err)
	t.Cleanup(func() { _ = store.Close() })

	m := New(config.Default(), sampler, stress.NewRunner(), store, nil)
	m.width = 100
	m.height = 32
	m.ready = true
	return m
}

func key(t tea.KeyType) tea.KeyMsg {
	return tea.KeyMsg{Type: t}
}

func runes(s string) tea.KeyMsg {
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
}

func asModel(t *testing.T, tm tea.Model) Model {
	t.Helper()
	m, ok := tm.(Model)
	require.True(t, ok, "Update returned unexpected model type")
	return m
}

func TestNewDefaults(t *testing.T) {
	m := newTestModel(t)

	require.Equal(t, SetupView, m.mode)
	require.Equal(t, FocusDuration, m.focus)
	require.Equal(t, UnitSeconds, m.unit)
	require.GreaterOrEqual(t, m.totalCores, 1)
	require.GreaterOrEqual(t, m.coreCount, 1)
	require.LessOrEqual(t, m.coreCount, m.totalCores)
}

func TestTabCyclesFocus(t *testing.T) {
	m := newTestModel(t)

	order := []FocusField{FocusUnit, FocusCores, FocusOK, FocusDuration}
	for _, want := range order {
		m = asModel(t, must(m.Update(key(tea.KeyTab))))
		require.Equal(t, want, m.focus)
	}
}

func TestDurationAcceptsDigitsOnly(t *testing.T) {
	m := newTestModel(t)

	m = asModel(t, must(m.Update(runes("3"))))
	m = asModel(t, must(m.Update(runes("x"))))
	m = asModel(t, must(m.Update(runes("0"))))

	require.Equal(t, "30", m.input.Value())
}

func TestUnitToggle(t *testing.T) {
	m := newTestModel(t)
	m.focus = FocusUnit

	m = asModel(t, must(m.Update(key(tea.KeyRight))))
	require.Equal(t, UnitMinutes, m.unit)
	m = asModel(t, must(m.Update(key(tea.KeyLeft))))
	require.Equal(t, UnitSeconds, m.unit)
}

func TestCoreCountClamps(t *testing.T) {
	m := newTestModel(t)
	m.focus = FocusCores
	m.coreCount = 1

	m = asModel(t, must(m.Update(key(tea.KeyDown))))
	require.Equal(t, 1, m.coreCount, "core count must not drop below 1")

	m.coreCount = m.totalCores
	m = asModel(t, must(m.Update(key(tea.KeyUp))))
	require.Equal(t, m.totalCores, m.coreCount, "core count must not exceed logical cores")
}

func TestStartRejectsEmptyDuration(t *testing.T) {
	m := newTestModel(t)
	m.focus = FocusOK

	m = asModel(t, must(m.Update(key(tea.KeyEnter))))
	require.Equal(t, SetupView, m.mode)
	require.NotEmpty(t, m.formErr)
}

func TestStartEntersBurnView(t *testing.T) {
	m := newTestModel(t)
	m.input.SetValue("5")
	m.focus = FocusOK

	updated, cmd := m.Update(key(tea.KeyEnter))
	m = asModel(t, updated)
	require.Equal(t, BurnView, m.mode)
	require.EqualValues(t, 5, m.totalSecs)
	require.NotNil(t, cmd, "starting a burn must schedule commands")

	m.Shutdown()
}

func TestMinutesMultiplyDuration(t *testing.T) {
	m := newTestModel(t)
	m.input.SetValue("2")
	m.unit = UnitMinutes

	secs, ok := m.durationSecs()
	require.True(t, ok)
	require.EqualValues(t, 120, secs)
}

func TestBurnDoneRecordsAndShowsPopup(t *testing.T) {
	m := newTestModel(t)
	m.mode = BurnView
	m.startedAt = time.Now().Add(-5 * time.Second)
	m.totalSecs = 5
	m.sampleSum = 150
	m.sampleN = 3

	m = asModel(t, must(m.Update(burnDoneMsg{
		res: stress.Result{Score: 77, Cores: 2, Elapsed: 5 * time.Second},
	})))

	require.Equal(t, DoneView, m.mode)
	require.NotNil(t, m.lastResult)
	require.EqualValues(t, 77, m.lastResult.Score)

	runs, err := m.store.Recent(5)
	require.NoError(t, err)
	require.Len(t, runs, 1)
	require.EqualValues(t, 77, runs[0].Score)
	require.InDelta(t, 50.0, runs[0].AvgCPUPercent, 1e-9)
}

func TestCancelledBurnNotRecorded(t *testing.T) {
	m := newTestModel(t)
	m.mode = BurnView

	m = asModel(t, must(m.Update(burnDoneMsg{
		res: stress.Result{Score: 3, Cores: 1},
		err: context.Canceled,
	})))

	require.Equal(t, SetupView, m.mode)
	runs, err := m.store.Recent(5)
	require.NoError(t, err)
	require.Empty(t, runs, "cancelled runs must not be recorded")
}

func TestDonePopupNavigation(t *testing.T) {
	m := newTestModel(t)
	m.mode = DoneView
	m.lastResult = &stress.Result{Score: 1}

	m = asModel(t, must(m.Update(key(tea.KeyTab))))
	require.Equal(t, OptionExit, m.doneChoice)
	m = asModel(t, must(m.Update(key(tea.KeyDown))))
	require.Equal(t, OptionRunAgain, m.doneChoice)

	m = asModel(t, must(m.Update(key(tea.KeyEnter))))
	require.Equal(t, SetupView, m.mode)
	require.Empty(t, m.input.Value(), "run again must clear the form")
}

func TestHelpToggle(t *testing.T) {
	m := newTestModel(t)

	m = asModel(t, must(m.Update(runes("?"))))
	require.Equal(t, HelpView, m.mode)
	m = asModel(t, must(m.Update(runes("?"))))
	require.Equal(t, SetupView, m.mode)
}

func TestHistoryOpenAndClose(t *testing.T) {
	m := newTestModel(t)
	_, err := m.store.Record(results.Run{DurationSecs: 10, Cores: 2, Score: 55})
	require.NoError(t, err)

	m = asModel(t, must(m.Update(runes("h"))))
	require.Equal(t, HistoryView, m.mode)

	m = asModel(t, must(m.Update(key(tea.KeyEsc))))
	require.Equal(t, SetupView, m.mode)
}

func TestSampleAppendsOncePerSecond(t *testing.T) {
	m := newTestModel(t)
	m.mode = BurnView
	m.startedAt = time.Now().Add(-3 * time.Second)
	m.totalSecs = 1000

	m = m.sample()
	require.Len(t, m.samples, 1)
	require.EqualValues(t, 3, m.samples[0].X)

	// Same second: no new point.
	m = m.sample()
	require.Len(t, m.samples, 1)
}

func TestSampleSlidingWindow(t *testing.T) {
	m := newTestModel(t)
	m.mode = BurnView
	m.totalSecs = 1000
	for i := 0; i < maxSamples; i++ {
		m.samples = append(m.samples, ui.Point{X: float64(i)})
	}
	m.startedAt = time.Now().Add(-time.Duration(maxSamples+5) * time.Second)
	m.elapsed = maxSamples + 4

	m = m.sample()
	require.Len(t, m.samples, maxSamples, "window must stay capped")
	require.EqualValues(t, 1, m.samples[0].X, "oldest sample must slide out")
}

func TestViewRendersAllModes(t *testing.T) {
	m := newTestModel(t)

	for _, mode := range []ViewMode{SetupView, DoneView, HistoryView, HelpView} {
		m.mode = mode
		if mode == DoneView {
			m.lastResult = &stress.Result{Score: 9, Cores: 1, Elapsed: time.Second}
		}
		view := m.View()
		require.NotEmpty(t, view, "mode %v rendered empty view", mode)
	}

	m.mode = BurnView
	m.totalSecs = 30
	view := m.View()
	require.NotEmpty(t, view)
}

func must(m tea.Model, _ tea.Cmd) tea.Model { return m }
