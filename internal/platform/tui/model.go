package tui

import (
	"strings"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/log"

	"github.com/vovakirdan/season-runner/internal/core"
	"github.com/vovakirdan/season-runner/internal/runner"
	"github.com/vovakirdan/season-runner/internal/storage"
)

// maxMessages is how many recent event messages the HUD keeps.
const maxMessages = 1

// Effects plays a sound for each item the player collects.
type Effects interface {
	Pickup(rare bool) error
}

// Model is the Bubble Tea model that previews a running track.
type Model struct {
	run      *runner.Runner
	store    *storage.Store
	logger   *log.Logger
	sfx      Effects
	config   core.RuntimeConfig
	screen   *core.Screen
	keys     WatchKeyMap
	help     help.Model
	speed    float64
	limit    float64 // Simulated seconds before the run ends; 0 runs until quit
	elapsed  float64
	messages []string
	summary  *runner.Summary
	quitting bool
}

// NewModel creates a preview of run. A nil store skips saving the result.
func NewModel(run *runner.Runner, store *storage.Store, cfg core.RuntimeConfig, logger *log.Logger) Model {
	if logger == nil {
		logger = log.Default()
	}
	m := Model{
		run:    run,
		store:  store,
		logger: logger,
		config: cfg,
		screen: core.NewScreen(cfg.ScreenW, core.Max(cfg.ScreenH-hudRows, 0)),
		keys:   DefaultWatchKeyMap(),
		help:   help.New(),
		speed:  1,
	}
	m.record(run.Start())
	return m
}

// WithLimit ends the run after seconds of simulated time.
func (m Model) WithLimit(seconds float64) Model {
	m.limit = seconds
	return m
}

// WithEffects plays fx on every pickup.
func (m Model) WithEffects(fx Effects) Model {
	m.sfx = fx
	return m
}

// Init starts the tick loop.
func (m Model) Init() tea.Cmd {
	return tickCmd(m.config.TickInterval())
}

// Update handles messages and updates the model state.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		return m.handleKey(msg)

	case tea.WindowSizeMsg:
		m.config.ScreenW = msg.Width
		m.config.ScreenH = msg.Height
		m.screen.Resize(msg.Width, core.Max(msg.Height-hudRows, 0))
		m.help.Width = msg.Width
		return m, nil

	case TickMsg:
		return m.handleTick()
	}

	return m, nil
}

func (m Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.Quit):
		m.finish()
		m.quitting = true
		return m, tea.Quit

	case key.Matches(msg, m.keys.Pause):
		m.run.SetPaused(!m.run.Paused())

	case key.Matches(msg, m.keys.Faster):
		m.speed = core.ClampF(m.speed*2, minSpeed, maxSpeed)

	case key.Matches(msg, m.keys.Slower):
		m.speed = core.ClampF(m.speed/2, minSpeed, maxSpeed)

	case key.Matches(msg, m.keys.Help):
		m.help.ShowAll = !m.help.ShowAll
	}
	return m, nil
}

func (m Model) handleTick() (tea.Model, tea.Cmd) {
	if m.quitting {
		return m, nil
	}

	dt := m.config.TickDuration() * m.speed
	m.record(m.run.Step(dt))
	if !m.run.Paused() {
		m.elapsed += dt
	}

	if m.limit > 0 && m.elapsed >= m.limit {
		m.finish()
		m.quitting = true
		return m, tea.Quit
	}
	return m, tickCmd(m.config.TickInterval())
}

func (m *Model) record(events []runner.Event) {
	for _, ev := range events {
		if item, ok := ev.(runner.ItemCollected); ok && m.sfx != nil {
			if err := m.sfx.Pickup(item.Rare); err != nil {
				m.logger.Debug("pickup sound failed", "error", err)
			}
		}
		if text := describeEvent(ev); text != "" {
			m.messages = append(m.messages, text)
		}
	}
	if len(m.messages) > maxMessages {
		m.messages = m.messages[len(m.messages)-maxMessages:]
	}
}

// finish closes the run once and saves it.
func (m *Model) finish() {
	if m.summary != nil {
		return
	}
	sum := m.run.Finish()
	m.summary = &sum

	if m.store == nil || sum.Score <= 0 {
		return
	}
	if _, err := m.store.SaveRun(sum.Record()); err != nil {
		m.logger.Warn("could not save run", "error", err)
	}
}

// Summary returns the run result once the preview has ended.
func (m Model) Summary() (runner.Summary, bool) {
	if m.summary == nil {
		return runner.Summary{}, false
	}
	return *m.summary, true
}

// View renders the current state to a string for display.
func (m Model) View() string {
	if m.quitting {
		return ""
	}

	DrawTrack(m.screen, m.run)

	var b strings.Builder
	b.WriteString(RenderScreen(m.screen))
	b.WriteString("\n")
	b.WriteString(renderStatus(m.run, m.speed))
	b.WriteString("\n")
	b.WriteString(renderSystems(m.run))
	b.WriteString("\n")
	b.WriteString(eventStyle.Render(strings.Join(m.messages, "  ")))
	b.WriteString("\n")
	b.WriteString(labelStyle.Render(m.help.View(m.keys)))
	return b.String()
}

// Run previews run in the terminal until the user quits or the limit is
// reached, and returns the run summary. A nil fx plays no pickup sounds.
func Run(run *runner.Runner, store *storage.Store, cfg core.RuntimeConfig, limit float64, fx Effects, logger *log.Logger) (runner.Summary, error) {
	model := NewModel(run, store, cfg, logger).WithLimit(limit).WithEffects(fx)

	p := tea.NewProgram(model, tea.WithAltScreen())

	final, err := p.Run()
	if err != nil {
		return run.Finish(), err
	}
	if m, ok := final.(Model); ok {
		if sum, done := m.Summary(); done {
			return sum, nil
		}
	}
	return run.Finish(), nil
}
