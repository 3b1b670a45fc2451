package main

import (
	"errors"
	"testing"

	"github.com/AlecAivazis/survey/v2"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"mdr/internal/db"
	"mdr/internal/ui"
)

func seedStore(t *testing.T, path string, seed func(s *db.SQLiteStore)) {
	t.Helper()
	s, err := db.NewSQLiteStore(path)
	require.NoError(t, err)
	seed(s)
	require.NoError(t, s.Close())
}

func TestVersionCommand(t *testing.T) {
	setupEnv(t)
	out, err := executeCommand(rootCmd, "version")
	require.NoError(t, err)
	assert.Contains(t, out, "mdr version dev")
}

func TestStatusCommand(t *testing.T) {
	path := setupEnv(t)

	out, err := executeCommand(rootCmd, "status")
	require.NoError(t, err)
	assert.Contains(t, out, "Le Mars")
	assert.Contains(t, out, "Lumon")
	assert.Contains(t, out, "COMPLETE", "go-pretty upper-cases headers")
	assert.NotContains(t, out, "All files refined.")

	seedStore(t, path, func(s *db.SQLiteStore) {
		require.NoError(t, s.SaveBinProgress("Dyer", 0, 100))
		require.NoError(t, s.RecordCapture(db.Capture{SessionID: "0123456789abcdef", File: "Dyer", Bin: 0, Row: 2, Col: 3}))
	})

	out, err = executeCommand(rootCmd, "status", "--captures", "5")
	require.NoError(t, err)
	assert.Contains(t, out, "33%")
	assert.Contains(t, out, "2,3")
	assert.Contains(t, out, "01234567")
	assert.NotContains(t, out, "0123456789abcdef")
}

func TestStatusCommand_AllComplete(t *testing.T) {
	path := setupEnv(t)
	t.Setenv("MDR_FILES", "Siena")

	seedStore(t, path, func(s *db.SQLiteStore) {
		for bin := range db.Bins {
			require.NoError(t, s.SaveBinProgress("Siena", bin, 100))
		}
	})

	out, err := executeCommand(rootCmd, "status")
	require.NoError(t, err)
	assert.Contains(t, out, "100%")
	assert.Contains(t, out, "All files refined.")
}

func TestStatusCommand_WhilePlaying(t *testing.T) {
	path := setupEnv(t)
	t.Setenv("MDR_FILES", "Dyer")

	game, err := db.NewSQLiteStore(path)
	require.NoError(t, err)
	defer game.Close()
	require.NoError(t, game.SaveBinProgress("Dyer", 0, 100))

	out, err := executeCommand(rootCmd, "status")
	require.NoError(t, err)
	assert.Contains(t, out, "33%")

	_, err = executeCommand(rootCmd, "reset", "--yes")
	require.Error(t, err)
	assert.ErrorIs(t, err, db.ErrLocked)
}

func TestResetCommand(t *testing.T) {
	path := setupEnv(t)
	seedStore(t, path, func(s *db.SQLiteStore) {
		require.NoError(t, s.SaveBinProgress("Eagan", 1, 100))
	})

	originalAskOne := askOneFunc
	defer func() { askOneFunc = originalAskOne }()

	askOneFunc = func(p survey.Prompt, response interface{}, opts ...survey.AskOpt) error {
		*(response.(*bool)) = false
		return nil
	}
	out, err := executeCommand(rootCmd, "reset")
	require.NoError(t, err)
	assert.Contains(t, out, "Reset cancelled.")

	askOneFunc = func(p survey.Prompt, response interface{}, opts ...survey.AskOpt) error {
		_, ok := p.(*survey.Confirm)
		assert.True(t, ok)
		*(response.(*bool)) = true
		return nil
	}
	out, err = executeCommand(rootCmd, "reset")
	require.NoError(t, err)
	assert.Contains(t, out, "Progress cleared.")

	s, err := db.NewSQLiteStore(path)
	require.NoError(t, err)
	defer s.Close()
	progress, err := s.LoadProgress()
	require.NoError(t, err)
	assert.Empty(t, progress)
}

func TestResetCommand_Yes(t *testing.T) {
	setupEnv(t)
	originalAskOne := askOneFunc
	defer func() { askOneFunc = originalAskOne }()
	askOneFunc = func(p survey.Prompt, response interface{}, opts ...survey.AskOpt) error {
		t.Fatal("--yes must not prompt")
		return nil
	}

	out, err := executeCommand(rootCmd, "reset", "--yes")
	require.NoError(t, err)
	assert.Contains(t, out, "Progress cleared.")
}

func TestResetCommand_PromptError(t *testing.T) {
	setupEnv(t)
	originalAskOne := askOneFunc
	defer func() { askOneFunc = originalAskOne }()
	askOneFunc = func(p survey.Prompt, response interface{}, opts ...survey.AskOpt) error {
		return errors.New("interrupt")
	}

	_, err := executeCommand(rootCmd, "reset")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "interrupt")
}

func TestProtocolCommand(t *testing.T) {
	setupEnv(t)

	out, err := executeCommand(rootCmd, "protocol", "--lang", "es")
	require.NoError(t, err)
	assert.Contains(t, out, "PROTOCOLO IMPORTANTE")
	assert.Contains(t, out, "Felicidad")

	out, err = executeCommand(rootCmd, "protocol", "--lang", "en")
	require.NoError(t, err)
	assert.Contains(t, out, "Happiness")
}

func stubTerminal(t *testing.T, terminal bool) *tea.Model {
	t.Helper()
	oldIsTerminal, oldRunTUI := isTerminal, runTUI
	t.Cleanup(func() { isTerminal, runTUI = oldIsTerminal, oldRunTUI })

	var got tea.Model
	isTerminal = func() bool { return terminal }
	runTUI = func(model tea.Model) error {
		got = model
		return nil
	}
	return &got
}

func TestPlayCommand(t *testing.T) {
	setupEnv(t)
	got := stubTerminal(t, true)

	_, err := executeCommand(rootCmd, "play", "--mute", "--file", "Eagan")
	require.NoError(t, err)
	require.NotNil(t, *got)
	assert.IsType(t, &ui.App{}, *got)
}

func TestPlayCommand_Default(t *testing.T) {
	setupEnv(t)
	t.Setenv("MDR_MUTE", "true")
	got := stubTerminal(t, true)

	_, err := executeCommand(rootCmd)
	require.NoError(t, err)
	assert.NotNil(t, *got, "the root command starts the game")
}

func TestPlayCommand_Errors(t *testing.T) {
	setupEnv(t)

	stubTerminal(t, false)
	_, err := executeCommand(rootCmd, "play", "--mute")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "interactive terminal")

	stubTerminal(t, true)
	_, err = executeCommand(rootCmd, "play", "--mute", "--file", "Cold Harbor")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unknown file")
}

func TestNotifyTestCommand_NotConfigured(t *testing.T) {
	setupEnv(t)
	_, err := executeCommand(rootCmd, "notify-test")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "not configured")
}

func TestInvalidConfigExits(t *testing.T) {
	setupEnv(t)
	t.Setenv("MDR_GRID_ROWS", "0")

	_, err := executeCommand(rootCmd, "version")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "exit-1")
}
