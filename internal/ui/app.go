package ui

import (
	"context"
	"log/slog"
	"math/rand/v2"
	"time"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/progress"
	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"

	"mdr/internal/audio"
	"mdr/internal/db"
	"mdr/internal/metrics"
	"mdr/internal/notify"
	"mdr/internal/refine"
)

type screen int

const (
	screenBoot screen = iota
	screenLanguage
	screenInstructions
	screenFiles
	screenRefine
	screenCongrats
)

const (
	bootSteps     = 5
	bootStepDelay = 400 * time.Millisecond
	bootDoneDelay = 500 * time.Millisecond
	typingDelay   = 15 * time.Millisecond

	switchGlitch   = 50 * time.Millisecond
	glitchInterval = 800 * time.Millisecond
	glitchChance   = 0.4
	glitchMin      = 30 * time.Millisecond
	glitchSpread   = 80 * time.Millisecond

	notifyTimeout = 10 * time.Second
)

// CaptureJournal records every capture.
type CaptureJournal interface {
	RecordCapture(c db.Capture) error
}

// Options wires the App to its collaborators. Only Files, Tracker and
// Audio are required.
type Options struct {
	Files     []string
	Tracker   *refine.Tracker
	Generator *refine.Generator
	Audio     audio.Controller
	Journal   CaptureJournal
	Metrics   *metrics.Metrics
	Notifier  notify.Notifier
	Language  Language
	// StartFile skips the intro screens and opens this file directly.
	StartFile string
	Logger    *slog.Logger
	Rand      *rand.Rand
}

// Messages
type (
	bootStepMsg     struct{}
	bootDoneMsg     struct{}
	typeTickMsg     struct{}
	glitchTickMsg   struct{}
	glitchEndMsg    struct{ seq int }
	failureClearMsg struct{ session string }
	allCompleteMsg  struct{}
	notifyDoneMsg   struct {
		event string
		err   error
	}
)

// App is the top-level model. It owns the progress tracker and at most one
// refinement session.
type App struct {
	files     []string
	tracker   *refine.Tracker
	generator *refine.Generator
	audio     audio.Controller
	journal   CaptureJournal
	metrics   *metrics.Metrics
	notifier  notify.Notifier
	startFile string
	logger    *slog.Logger
	rng       *rand.Rand

	screen   screen
	lang     Language
	bootStep int
	typed    int
	protocol []rune

	fileIndex int
	session   *refine.Session
	// keyboard pointer, used when no mouse is available
	kbdActive      bool
	kbdRow, kbdCol int
	completing     bool

	glitch    bool
	glitchSeq int

	spinner spinner.Model
	bar     progress.Model
	help    help.Model
	width   int
	height  int

	Quitting bool
}

// NewApp builds the model. Call Init through tea.NewProgram.
func NewApp(opts Options) *App {
	if opts.Logger == nil {
		opts.Logger = slog.Default()
	}
	if opts.Generator == nil {
		opts.Generator = refine.NewGenerator()
	}
	if opts.Metrics == nil {
		opts.Metrics = metrics.NewMetrics()
	}
	if opts.Rand == nil {
		opts.Rand = rand.New(rand.NewPCG(rand.Uint64(), rand.Uint64()))
	}
	if opts.Language == "" {
		opts.Language = English
	}

	s := spinner.New()
	s.Spinner = spinner.Points
	s.Style = textStyle

	return &App{
		files:     append([]string(nil), opts.Files...),
		tracker:   opts.Tracker,
		generator: opts.Generator,
		audio:     opts.Audio,
		journal:   opts.Journal,
		metrics:   opts.Metrics,
		notifier:  opts.Notifier,
		startFile: opts.StartFile,
		logger:    opts.Logger.With("component", "ui"),
		rng:       opts.Rand,
		lang:      opts.Language,
		spinner:   s,
		bar: progress.New(
			progress.WithSolidFill(string(amber)),
			progress.WithWidth(20),
			progress.WithoutPercentage(),
		),
		help: help.New(),
	}
}

func (m *App) Init() tea.Cmd {
	if m.startFile != "" {
		for i, f := range m.files {
			if f == m.startFile {
				m.fileIndex = i
				return tea.Batch(m.openFile(), glitchTick())
			}
		}
		m.logger.Warn("unknown start file, showing intro", "file", m.startFile)
	}
	return tea.Batch(m.spinner.Tick, bootStep(), glitchTick())
}

func (m *App) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.help.Width = msg.Width
		return m, nil

	case tea.KeyMsg:
		if key.Matches(msg, keys.Quit) {
			return m, m.quit()
		}
		return m, m.handleKey(msg)

	case tea.MouseMsg:
		switch m.screen {
		case screenRefine:
			return m, m.handleMouse(msg)
		case screenFiles:
			return m, m.handleWheel(msg)
		}
		return m, nil

	case spinner.TickMsg:
		if m.screen != screenBoot {
			return m, nil
		}
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd

	case bootStepMsg:
		if m.screen != screenBoot {
			return m, nil
		}
		m.bootStep++
		if m.bootStep < bootSteps {
			return m, bootStep()
		}
		return m, tea.Tick(bootDoneDelay, func(time.Time) tea.Msg { return bootDoneMsg{} })

	case bootDoneMsg:
		if m.screen == screenBoot {
			m.screen = screenLanguage
		}
		return m, nil

	case typeTickMsg:
		if m.screen != screenInstructions || m.typed >= len(m.protocol) {
			return m, nil
		}
		m.typed++
		if m.typed < len(m.protocol) {
			return m, typeTick()
		}
		return m, nil

	case glitchTickMsg:
		if m.rng.Float64() < glitchChance {
			d := glitchMin + time.Duration(m.rng.Float64()*float64(glitchSpread))
			return m, tea.Batch(m.startGlitch(d), glitchTick())
		}
		return m, glitchTick()

	case glitchEndMsg:
		if msg.seq == m.glitchSeq {
			m.glitch = false
		}
		return m, nil

	case failureClearMsg:
		if m.session != nil && m.session.ID == msg.session {
			m.session.ClearFailure()
		}
		return m, nil

	case allCompleteMsg:
		m.metrics.AllComplete()
		m.closeSession()
		m.screen = screenCongrats
		m.logger.Info("refinement complete", "files", len(m.files))
		return m, m.notifyCmd(notify.EventAllComplete, "All files refined. 100% complete.")

	case notifyDoneMsg:
		if msg.err != nil {
			m.logger.Error("notification failed", "event", msg.event, "error", msg.err)
		}
		return m, nil
	}

	return m, nil
}

func (m *App) handleKey(msg tea.KeyMsg) tea.Cmd {
	switch m.screen {
	case screenLanguage:
		switch {
		case msg.String() == "1":
			return m.chooseLanguage(English)
		case msg.String() == "2":
			return m.chooseLanguage(Spanish)
		case key.Matches(msg, keys.Up, keys.Down):
			if m.lang == English {
				m.lang = Spanish
			} else {
				m.lang = English
			}
		case key.Matches(msg, keys.Enter):
			return m.chooseLanguage(m.lang)
		}

	case screenInstructions:
		if key.Matches(msg, keys.Enter) {
			m.screen = screenFiles
		}

	case screenFiles:
		switch {
		case key.Matches(msg, keys.Left, keys.Up):
			return m.moveFile(-1)
		case key.Matches(msg, keys.Right, keys.Down):
			return m.moveFile(1)
		case key.Matches(msg, keys.Enter):
			return m.openFile()
		}

	case screenRefine:
		switch {
		case key.Matches(msg, keys.Back):
			m.closeSession()
			m.screen = screenFiles
		case key.Matches(msg, keys.Bin1):
			return m.classify(0)
		case key.Matches(msg, keys.Bin2):
			return m.classify(1)
		case key.Matches(msg, keys.Bin3):
			return m.classify(2)
		case key.Matches(msg, keys.Up):
			m.nudge(-1, 0)
		case key.Matches(msg, keys.Down):
			m.nudge(1, 0)
		case key.Matches(msg, keys.Left):
			m.nudge(0, -1)
		case key.Matches(msg, keys.Right):
			m.nudge(0, 1)
		}

	case screenCongrats:
		if key.Matches(msg, keys.Back) {
			m.screen = screenFiles
		}
	}
	return nil
}

func (m *App) chooseLanguage(lang Language) tea.Cmd {
	m.lang = lang
	m.screen = screenInstructions
	m.protocol = []rune(lang.ProtocolText())
	m.typed = 0
	return typeTick()
}

func (m *App) moveFile(delta int) tea.Cmd {
	n := len(m.files)
	if n == 0 {
		return nil
	}
	m.fileIndex = ((m.fileIndex+delta)%n + n) % n
	return m.startGlitch(switchGlitch)
}

func (m *App) handleWheel(msg tea.MouseMsg) tea.Cmd {
	if msg.Action != tea.MouseActionPress {
		return nil
	}
	switch msg.Button {
	case tea.MouseButtonWheelUp:
		return m.moveFile(-1)
	case tea.MouseButtonWheelDown:
		return m.moveFile(1)
	}
	return nil
}

// openFile starts a session for the selected file. refine.Open stops the
// previous tracks before starting new ones.
func (m *App) openFile() tea.Cmd {
	if len(m.files) == 0 {
		return nil
	}
	m.closeSession()
	file := m.files[m.fileIndex]
	m.session = refine.Open(file, m.generator, m.audio, m.logger)
	m.screen = screenRefine
	m.kbdActive = false
	m.metrics.SessionStarted(file)
	m.metrics.SetCompletion(file, m.tracker.FileCompletionPercent(file))
	m.metrics.SetAudible(0)
	return m.notifyCmd(notify.EventSessionStart, "Refinement started on "+file)
}

func (m *App) closeSession() {
	if m.session == nil {
		return
	}
	m.session.Close()
	m.session = nil
	m.metrics.SetAudible(0)
}

func (m *App) quit() tea.Cmd {
	m.closeSession()
	m.Quitting = true
	return tea.Quit
}

func (m *App) startGlitch(d time.Duration) tea.Cmd {
	m.glitch = true
	m.glitchSeq++
	seq := m.glitchSeq
	return tea.Tick(d, func(time.Time) tea.Msg { return glitchEndMsg{seq: seq} })
}

func (m *App) notifyCmd(event, message string) tea.Cmd {
	if m.notifier == nil {
		return nil
	}
	n := m.notifier
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), notifyTimeout)
		defer cancel()
		return notifyDoneMsg{event: event, err: n.Notify(ctx, event, message)}
	}
}

func bootStep() tea.Cmd {
	return tea.Tick(bootStepDelay, func(time.Time) tea.Msg { return bootStepMsg{} })
}

func typeTick() tea.Cmd {
	return tea.Tick(typingDelay, func(time.Time) tea.Msg { return typeTickMsg{} })
}

func glitchTick() tea.Cmd {
	return tea.Tick(glitchInterval, func(time.Time) tea.Msg { return glitchTickMsg{} })
}
