// Package tui implements the interactive coreburn interface with bubbletea.
// The model is split across files:
//   - model.go: types, construction, Init, shutdown
//   - update.go: the Update loop and per-view key handling
//   - view.go: rendering
//   - help.go: the markdown help overlay
package tui

import (
	"context"
	"strconv"
	"sync"
	"time"

	"coreburn/cmd/coreburn/ui"
	"coreburn/internal/config"
	"coreburn/internal/hardware"
	"coreburn/internal/results"
	"coreburn/internal/stress"

	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/glamour"
	"go.uber.org/zap"
)

// ViewMode selects which screen is active.
type ViewMode int

const (
	SetupView ViewMode = iota
	BurnView
	DoneView
	HistoryView
	HelpView
)

// FocusField is the form element holding focus in the setup view.
type FocusField int

const (
	FocusDuration FocusField = iota
	FocusUnit
	FocusCores
	FocusOK
)

// TimeUnit is the duration unit chosen in the setup form.
type TimeUnit int

const (
	UnitSeconds TimeUnit = iota
	UnitMinutes
)

func (u TimeUnit) String() string {
	if u == UnitMinutes {
		return "Minutes"
	}
	return "Seconds"
}

// DoneOption is the selection in the finished popup.
type DoneOption int

const (
	OptionRunAgain DoneOption = iota
	OptionExit
)

// maxSamples bounds the chart series; older samples slide out.
const maxSamples = 100

// Messages for tea updates.
type (
	frameMsg    time.Time
	burnDoneMsg struct {
		res stress.Result
		err error
	}
)

// Model is the interactive coreburn interface.
type Model struct {
	// UI components
	input   textinput.Model
	spinner spinner.Model
	history viewport.Model
	styles  ui.Styles
	panel   ui.SystemPanel
	render  *glamour.TermRenderer

	mode     ViewMode
	prevMode ViewMode // where to return when the help overlay closes

	// Setup form state
	focus      FocusField
	unit       TimeUnit
	coreCount  int
	totalCores int
	formErr    string

	// Burn state
	burnCancel  context.CancelFunc
	startedAt   time.Time
	totalSecs   int64
	elapsed     int64
	sampleEvery time.Duration
	lastSample  time.Time
	samples     []ui.Point
	coreCache   []hardware.CoreUsage
	memCache    hardware.MemoryInfo
	sampleSum   float64
	sampleN     int

	// Done popup
	lastResult *stress.Result
	doneChoice DoneOption

	// Backend
	cfg     config.Config
	sampler *hardware.Sampler
	runner  *stress.Runner
	store   *results.Store // nil when history is disabled
	logger  *zap.Logger

	width  int
	height int
	ready  bool

	saveErr    string
	cancelling bool

	// Pointer so copies of the model made by the tea runtime share it.
	shutdownOnce *sync.Once
}

// New builds the interactive model. store may be nil to disable history.
func New(cfg config.Config, sampler *hardware.Sampler, runner *stress.Runner, store *results.Store, logger *zap.Logger) Model {
	styles := ui.NewStyles(ui.ThemeByName(cfg.Theme))

	ti := textinput.New()
	ti.Placeholder = "30"
	ti.Prompt = ""
	ti.CharLimit = 6
	ti.Width = 20
	ti.Focus()

	sp := spinner.New()
	sp.Spinner = spinner.Dot
	sp.Style = styles.Spinner

	vp := viewport.New(80, 20)

	var renderer *glamour.TermRenderer
	if styles.Theme.IsDark {
		renderer, _ = glamour.NewTermRenderer(
			glamour.WithAutoStyle(),
			glamour.WithWordWrap(80),
		)
	} else {
		renderer, _ = glamour.NewTermRenderer(
			glamour.WithStylePath("light"),
			glamour.WithWordWrap(80),
		)
	}

	total := sampler.LogicalCores()
	coreCount := cfg.DefaultCores
	if coreCount < 1 {
		coreCount = 1
	}
	if coreCount > total {
		coreCount = total
	}
	unit := UnitSeconds
	if cfg.DefaultUnit == "minutes" {
		unit = UnitMinutes
	}

	return Model{
		input:       ti,
		spinner:     sp,
		history:     vp,
		styles:      styles,
		panel:       ui.NewSystemPanel(styles),
		render:      renderer,
		mode:        SetupView,
		focus:       FocusDuration,
		unit:        unit,
		coreCount:   coreCount,
		totalCores:  total,
		cfg:         cfg,
		sampleEvery: cfg.SampleIntervalDuration(),
		sampler:     sampler,
		runner:      runner,
		store:       store,
		logger:      logger,

		shutdownOnce: &sync.Once{},
	}
}

// Init starts the cursor blink.
func (m Model) Init() tea.Cmd {
	return textinput.Blink
}

// Shutdown cancels any active burn. Safe to call multiple times.
func (m *Model) Shutdown() {
	m.shutdownOnce.Do(func() {
		if m.burnCancel != nil {
			m.burnCancel()
		}
		if m.logger != nil {
			_ = m.logger.Sync()
		}
	})
}

// durationSecs parses the form input into total seconds.
func (m Model) durationSecs() (int64, bool) {
	v, err := strconv.ParseInt(m.input.Value(), 10, 64)
	if err != nil || v <= 0 {
		return 0, false
	}
	if m.unit == UnitMinutes {
		v *= 60
	}
	return v, true
}

func frameTick() tea.Cmd {
	return tea.Tick(250*time.Millisecond, func(t time.Time) tea.Msg {
		return frameMsg(t)
	})
}
