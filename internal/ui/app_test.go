package ui

import (
	"context"
	"math/rand/v2"
	"sync"
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"mdr/internal/audio"
	"mdr/internal/db"
	"mdr/internal/notify"
	"mdr/internal/refine"
)

type recordingNotifier struct {
	mu     sync.Mutex
	events []string
}

func (n *recordingNotifier) Notify(ctx context.Context, event, message string) error {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.events = append(n.events, event)
	return nil
}

type memoryJournal struct {
	captures []db.Capture
}

func (j *memoryJournal) RecordCapture(c db.Capture) error {
	j.captures = append(j.captures, c)
	return nil
}

type testApp struct {
	*App
	out      *audio.Silent
	notifier *recordingNotifier
	journal  *memoryJournal
}

func newTestApp(t *testing.T, files ...string) testApp {
	t.Helper()
	out := audio.NewSilent()
	n := &recordingNotifier{}
	j := &memoryJournal{}
	app := NewApp(Options{
		Files:     files,
		Tracker:   refine.NewTracker(files, nil, nil),
		Generator: refine.NewGenerator(refine.WithRand(rand.New(rand.NewPCG(1, 2)))),
		Audio:     out,
		Journal:   j,
		Notifier:  n,
		Rand:      rand.New(rand.NewPCG(3, 4)),
	})
	return testApp{App: app, out: out, notifier: n, journal: j}
}

func keyMsg(k string) tea.KeyMsg {
	switch k {
	case "enter":
		return tea.KeyMsg{Type: tea.KeyEnter}
	case "esc":
		return tea.KeyMsg{Type: tea.KeyEscape}
	case "left":
		return tea.KeyMsg{Type: tea.KeyLeft}
	case "right":
		return tea.KeyMsg{Type: tea.KeyRight}
	case "up":
		return tea.KeyMsg{Type: tea.KeyUp}
	case "down":
		return tea.KeyMsg{Type: tea.KeyDown}
	case "ctrl+c":
		return tea.KeyMsg{Type: tea.KeyCtrlC}
	}
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(k)}
}

func (a testApp) press(k string) tea.Cmd {
	_, cmd := a.Update(keyMsg(k))
	return cmd
}

// hover moves the mouse over the middle column of a grid cell.
func (a testApp) hover(row, col int) {
	left, top := a.gridOrigin()
	a.Update(tea.MouseMsg{X: left + col*cellWidth + 1, Y: top + row, Action: tea.MouseActionMotion})
}

// open jumps straight to the refinement screen with a known grid: audio
// sources at (2,3), (8,10) and (5,15).
func (a testApp) open(t *testing.T, index int) {
	t.Helper()
	a.screen = screenFiles
	a.fileIndex = index
	a.press("enter")
	require.Equal(t, screenRefine, a.screen)

	grid := refine.NewGrid(refine.DefaultRows, refine.DefaultCols)
	require.NoError(t, grid.Tag(2, 3, 1))
	require.NoError(t, grid.Tag(8, 10, 2))
	require.NoError(t, grid.Tag(5, 15, 3))
	a.session.Grid = grid
}

func TestApp_BootSequence(t *testing.T) {
	a := newTestApp(t, "Dyer")
	require.NotNil(t, a.Init())
	assert.Equal(t, screenBoot, a.screen)

	a.Update(bootStepMsg{})
	a.Update(bootStepMsg{})
	assert.Contains(t, a.View(), "LUMON INDUSTRIES")

	for i := 2; i < bootSteps-1; i++ {
		_, cmd := a.Update(bootStepMsg{})
		assert.NotNil(t, cmd)
	}
	_, cmd := a.Update(bootStepMsg{})
	assert.NotNil(t, cmd, "last step schedules the hand-off")
	assert.Equal(t, screenBoot, a.screen)

	a.Update(bootDoneMsg{})
	assert.Equal(t, screenLanguage, a.screen)
}

func TestApp_LanguageSelection(t *testing.T) {
	a := newTestApp(t, "Dyer")
	a.screen = screenLanguage

	cmd := a.press("2")
	assert.NotNil(t, cmd, "typing starts")
	assert.Equal(t, Spanish, a.lang)
	assert.Equal(t, screenInstructions, a.screen)
	require.NotEmpty(t, a.protocol)

	assert.Zero(t, a.typed)
	_, cmd = a.Update(typeTickMsg{})
	assert.Equal(t, 1, a.typed)
	assert.NotNil(t, cmd)
	assert.Contains(t, a.View(), ">")

	a.press("enter")
	assert.Equal(t, screenFiles, a.screen)
}

func TestApp_LanguageHighlightAndEnter(t *testing.T) {
	a := newTestApp(t, "Dyer")
	a.screen = screenLanguage
	assert.Contains(t, a.View(), "> [1] ENGLISH")

	a.press("down")
	assert.Equal(t, Spanish, a.lang)
	assert.Contains(t, a.View(), "> [2] ESPAÑOL")

	a.press("enter")
	assert.Equal(t, screenInstructions, a.screen)
	assert.Equal(t, Spanish, a.lang)
}

func TestApp_TypingStopsAtEnd(t *testing.T) {
	a := newTestApp(t, "Dyer")
	a.screen = screenLanguage
	a.press("1")

	for range len(a.protocol) - 1 {
		a.Update(typeTickMsg{})
	}
	_, cmd := a.Update(typeTickMsg{})
	assert.Nil(t, cmd)
	assert.Equal(t, len(a.protocol), a.typed)

	_, cmd = a.Update(typeTickMsg{})
	assert.Nil(t, cmd)
	assert.Equal(t, len(a.protocol), a.typed)
}

func TestApp_FileCarouselWraps(t *testing.T) {
	a := newTestApp(t, "Le Mars", "Coleman", "Dyer")
	a.screen = screenFiles

	cmd := a.press("left")
	assert.Equal(t, 2, a.fileIndex)
	assert.NotNil(t, cmd)
	assert.True(t, a.glitch)

	a.Update(glitchEndMsg{seq: a.glitchSeq - 1})
	assert.True(t, a.glitch, "stale glitch end is ignored")
	a.Update(glitchEndMsg{seq: a.glitchSeq})
	assert.False(t, a.glitch)

	a.press("right")
	assert.Equal(t, 0, a.fileIndex)

	a.Update(tea.MouseMsg{Action: tea.MouseActionPress, Button: tea.MouseButtonWheelDown})
	assert.Equal(t, 1, a.fileIndex)
	a.Update(tea.MouseMsg{Action: tea.MouseActionPress, Button: tea.MouseButtonWheelUp})
	assert.Equal(t, 0, a.fileIndex)

	assert.Contains(t, a.View(), "Le Mars")
	assert.Contains(t, a.View(), "0% Complete")
}

func TestApp_OpenStartsAudio(t *testing.T) {
	a := newTestApp(t, "Le Mars", "Coleman")
	a.open(t, 1)

	file, playing := a.out.Playing()
	assert.True(t, playing)
	assert.Equal(t, "Coleman", file)

	view := a.View()
	assert.Contains(t, view, "COLEMAN")
	assert.Contains(t, view, "0% Complete")
	assert.Contains(t, view, "01")
	assert.Contains(t, view, "03")
	assert.Contains(t, view, "SIGNAL")
}

func TestApp_HoverMixesAudio(t *testing.T) {
	a := newTestApp(t, "Dyer")
	a.open(t, 0)

	a.hover(2, 3)
	assert.InDelta(t, 15.0+2*30, a.session.Pointer.Y, 0.001)
	assert.InDelta(t, 3*35+17, a.session.Pointer.X, 1)
	assert.Equal(t, 1.0, a.out.Volume(1))
	assert.Zero(t, a.out.Volume(2))

	// outside the grid
	a.Update(tea.MouseMsg{X: 0, Y: 0, Action: tea.MouseActionMotion})
	assert.True(t, a.session.Pointer.IsFarAway())
	assert.Zero(t, a.out.Volume(1))
}

func audibleGauge(t *testing.T, a testApp) float64 {
	t.Helper()
	families, err := a.metrics.Registry().Gather()
	require.NoError(t, err)
	for _, mf := range families {
		if mf.GetName() == "mdr_audible_sources" {
			return mf.GetMetric()[0].GetGauge().GetValue()
		}
	}
	t.Fatal("mdr_audible_sources not registered")
	return 0
}

func TestApp_AudibleSourcesGauge(t *testing.T) {
	a := newTestApp(t, "Dyer")
	a.open(t, 0)

	// (5,15) carries audio id 3; one source plays
	a.hover(5, 15)
	assert.Equal(t, 1.0, a.out.Volume(3))
	assert.Equal(t, 1.0, audibleGauge(t, a))

	a.Update(tea.MouseMsg{X: 0, Y: 0, Action: tea.MouseActionMotion})
	assert.Equal(t, 0.0, audibleGauge(t, a))
}

func TestApp_CaptureUpdatesProgress(t *testing.T) {
	a := newTestApp(t, "Dyer", "Eagan")
	a.open(t, 0)

	a.hover(2, 3)
	a.press("1")

	assert.Equal(t, refine.StatusCaptured, a.session.Grid.Cell(2, 3).Status)
	assert.Equal(t, refine.BinProgress{100, 0, 0}, a.tracker.Progress("Dyer"))
	assert.Zero(t, a.out.Volume(1), "captured source is muted")
	assert.Contains(t, a.View(), "33% Complete")

	require.Len(t, a.journal.captures, 1)
	c := a.journal.captures[0]
	assert.Equal(t, a.session.ID, c.SessionID)
	assert.Equal(t, "Dyer", c.File)
	assert.Equal(t, 0, c.Bin)
	assert.Equal(t, 2, c.Row)
	assert.Equal(t, 3, c.Col)
}

func TestApp_MissRaisesFailure(t *testing.T) {
	a := newTestApp(t, "Dyer")
	a.open(t, 0)

	a.hover(0, 17)
	cmd := a.press("2")
	assert.NotNil(t, cmd, "failure clear is scheduled")
	assert.True(t, a.session.Failure)
	assert.Contains(t, a.View(), "X")

	// commands are ignored while the failure signal is up
	a.hover(2, 3)
	assert.Nil(t, a.press("1"))
	assert.True(t, a.session.Grid.Cell(2, 3).Idle())

	a.Update(failureClearMsg{session: "another-session"})
	assert.True(t, a.session.Failure)
	a.Update(failureClearMsg{session: a.session.ID})
	assert.False(t, a.session.Failure)

	a.press("1")
	assert.False(t, a.session.Grid.Cell(2, 3).Idle())
}

func TestApp_FileCompleteNotifies(t *testing.T) {
	a := newTestApp(t, "Dyer", "Eagan")
	a.open(t, 0)
	a.notifier.events = nil

	a.hover(2, 3)
	a.press("1")
	a.hover(8, 10)
	a.press("2")
	a.hover(5, 15)
	cmd := a.press("3")

	require.NotNil(t, cmd)
	assert.False(t, a.completing, "Eagan is still unrefined")
	assert.Equal(t, 100, a.tracker.FileCompletionPercent("Dyer"))

	msg := cmd()
	if batch, ok := msg.(tea.BatchMsg); ok {
		require.Len(t, batch, 1)
		msg = batch[0]()
	}
	assert.Equal(t, notifyDoneMsg{event: notify.EventFileComplete}, msg)
	assert.Equal(t, []string{notify.EventFileComplete}, a.notifier.events)
}

func TestApp_AllComplete(t *testing.T) {
	a := newTestApp(t, "Dyer")
	a.open(t, 0)

	a.hover(2, 3)
	a.press("1")
	a.hover(8, 10)
	a.press("2")
	a.hover(5, 15)
	assert.NotNil(t, a.press("3"))
	assert.True(t, a.completing)
	assert.Equal(t, screenRefine, a.screen, "congratulations wait for the delay")

	_, cmd := a.Update(allCompleteMsg{})
	assert.Equal(t, screenCongrats, a.screen)
	assert.Nil(t, a.session)
	_, playing := a.out.Playing()
	assert.False(t, playing)
	assert.Contains(t, a.View(), "100% COMPLETE")
	assert.Contains(t, a.View(), "EVEN SEVERED I WOULD NEVER FORGET YOU")

	require.NotNil(t, cmd)
	assert.Equal(t, notifyDoneMsg{event: notify.EventAllComplete}, cmd())
}

func TestApp_CongratsSpanish(t *testing.T) {
	a := newTestApp(t, "Dyer")
	a.lang = Spanish
	a.screen = screenCongrats
	assert.Contains(t, a.View(), "100% COMPLETADO")
	assert.Contains(t, a.View(), "YO NI CERCENADO TE OLVIDARÍA")
}

func TestApp_BackStopsAudio(t *testing.T) {
	a := newTestApp(t, "Dyer", "Eagan")
	a.open(t, 0)

	a.press("esc")
	assert.Equal(t, screenFiles, a.screen)
	assert.Nil(t, a.session)
	_, playing := a.out.Playing()
	assert.False(t, playing)

	a.press("right")
	a.press("enter")
	file, playing := a.out.Playing()
	assert.True(t, playing)
	assert.Equal(t, "Eagan", file)
}

func TestApp_KeyboardPointer(t *testing.T) {
	a := newTestApp(t, "Dyer")
	a.open(t, 0)

	a.press("up")
	assert.Equal(t, refine.CellCenter(6, 9), a.session.Pointer)

	a.press("left")
	assert.Equal(t, refine.CellCenter(6, 8), a.session.Pointer)

	for range 20 {
		a.press("up")
	}
	assert.Equal(t, refine.CellCenter(0, 8), a.session.Pointer)
}

func TestApp_Quit(t *testing.T) {
	a := newTestApp(t, "Dyer")
	a.open(t, 0)

	cmd := a.press("q")
	require.NotNil(t, cmd)
	assert.IsType(t, tea.QuitMsg{}, cmd())
	assert.True(t, a.Quitting)
	_, playing := a.out.Playing()
	assert.False(t, playing)
	assert.Empty(t, a.View())
}

func TestApp_StartFile(t *testing.T) {
	out := audio.NewSilent()
	files := []string{"Le Mars", "Coleman"}
	app := NewApp(Options{
		Files:     files,
		Tracker:   refine.NewTracker(files, nil, nil),
		Audio:     out,
		StartFile: "Coleman",
	})
	require.NotNil(t, app.Init())
	assert.Equal(t, screenRefine, app.screen)
	assert.Equal(t, "Coleman", app.session.File)

	unknown := NewApp(Options{
		Files:     files,
		Tracker:   refine.NewTracker(files, nil, nil),
		Audio:     audio.NewSilent(),
		StartFile: "Siena",
	})
	unknown.Init()
	assert.Equal(t, screenBoot, unknown.screen)
}

func TestApp_GlitchFlicker(t *testing.T) {
	a := newTestApp(t, "Dyer")

	flickered := false
	for range 30 {
		_, cmd := a.Update(glitchTickMsg{})
		require.NotNil(t, cmd, "the flicker keeps ticking")
		if a.glitch {
			flickered = true
			a.Update(glitchEndMsg{seq: a.glitchSeq})
		}
	}
	assert.True(t, flickered)
}

func TestApp_WindowSize(t *testing.T) {
	a := newTestApp(t, "Dyer")
	a.screen = screenFiles
	a.Update(tea.WindowSizeMsg{Width: 120, Height: 40})
	assert.Equal(t, 120, a.width)
	assert.Contains(t, a.View(), "Dyer")
}
