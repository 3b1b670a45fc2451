package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"slices"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/mattn/go-isatty"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"mdr/internal/audio"
	"mdr/internal/audio/beep"
	"mdr/internal/config"
	"mdr/internal/metrics"
	"mdr/internal/notify"
	"mdr/internal/refine"
	"mdr/internal/telemetry"
	"mdr/internal/ui"
)

var playFile string

// runTUI is a variable so tests can skip the terminal program.
var runTUI = func(model tea.Model) error {
	p := tea.NewProgram(model, tea.WithAltScreen(), tea.WithMouseAllMotion())
	_, err := p.Run()
	return err
}

var isTerminal = func() bool {
	fd := os.Stdout.Fd()
	return isatty.IsTerminal(fd) || isatty.IsCygwinTerminal(fd)
}

var playCmd = &cobra.Command{
	Use:   "play",
	Short: "Start a refinement session",
	Long:  `Start the refinement terminal. With --file the intro is skipped and the file opens directly.`,
	RunE:  runPlay,
}

func init() {
	playCmd.Flags().StringVarP(&playFile, "file", "f", "", "Open this file directly")
	playCmd.Flags().Bool("mute", false, "Disable audio output")
	viper.BindPFlag("mute", playCmd.Flags().Lookup("mute"))
	rootCmd.AddCommand(playCmd)
}

func runPlay(cmd *cobra.Command, args []string) error {
	if !isTerminal() {
		return errors.New("mdr needs an interactive terminal")
	}
	settings := config.Current()
	logger := slog.Default()
	if playFile != "" && !slices.Contains(settings.Files, playFile) {
		return fmt.Errorf("unknown file %q", playFile)
	}

	store, err := openStore(false)
	if err != nil {
		return err
	}
	defer store.Close()

	tracker := refine.NewTracker(settings.Files, store, logger)
	if err := tracker.Load(); err != nil {
		return err
	}

	var out audio.Controller
	if settings.Mute {
		out = audio.NewSilent()
	} else {
		deck := beep.New(settings.AudioDir, logger)
		defer deck.Close()
		out = deck
	}

	m := metrics.NewMetrics()
	if settings.MetricsEnabled {
		srv := telemetry.NewMetricsServer(settings.MetricsPort, m.Handler())
		go func() {
			if err := telemetry.StartMetricsServer(srv); err != nil {
				telemetry.LogError("metrics server failed", err)
			}
		}()
		defer func() {
			ctx, cancel := context.WithTimeout(context.Background(), time.Second)
			defer cancel()
			srv.Shutdown(ctx)
		}()
	}

	app := ui.NewApp(ui.Options{
		Files:     settings.Files,
		Tracker:   tracker,
		Generator: refine.NewGenerator(refine.WithSize(settings.Rows, settings.Cols)),
		Audio:     out,
		Journal:   store,
		Metrics:   m,
		Notifier:  notify.NewManager(logger),
		Language:  ui.DetectLanguage(settings.Language),
		StartFile: playFile,
		Logger:    logger,
	})

	telemetry.LogInfo("starting refinement terminal", "files", len(settings.Files), "mute", settings.Mute)
	return runTUI(app)
}
