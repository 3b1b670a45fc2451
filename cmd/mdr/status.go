package main

import (
	"fmt"
	"log/slog"
	"strconv"

	"github.com/spf13/cobra"

	"mdr/internal/config"
	"mdr/internal/refine"
)

var (
	statusCaptures int
	statusFile     string
)

var statusCmd = &cobra.Command{
	Use:   "status",
	Short: "Show refinement progress per file",
	Long:  `Show refinement progress per file. The store is opened for reading, so this works while mdr play is running.`,
	RunE:  runStatus,
}

func init() {
	statusCmd.Flags().IntVarP(&statusCaptures, "captures", "n", 0, "Also list the most recent captures")
	statusCmd.Flags().StringVar(&statusFile, "file", "", "Only list captures for this file")
	rootCmd.AddCommand(statusCmd)
}

func runStatus(cmd *cobra.Command, args []string) error {
	files := config.Files()
	store, err := openStore(true)
	if err != nil {
		return err
	}
	defer store.Close()

	tracker := refine.NewTracker(files, store, slog.Default())
	if err := tracker.Load(); err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	colorize := shouldColorize(out)

	rows := make([][]string, 0, len(files))
	for _, file := range files {
		bins := tracker.Progress(file)
		rows = append(rows, []string{
			file,
			fmt.Sprintf("%d%%", bins[0]),
			fmt.Sprintf("%d%%", bins[1]),
			fmt.Sprintf("%d%%", bins[2]),
			fmt.Sprintf("%d%%", tracker.FileCompletionPercent(file)),
		})
	}
	headers := []string{"File", "01", "02", "03", "Complete"}
	aligns := []columnAlignment{alignLeft, alignRight, alignRight, alignRight, alignRight}
	fmt.Fprintln(out, renderTable(headers, rows, aligns, colorize))

	if tracker.AllFilesComplete(files) {
		fmt.Fprintln(out, "All files refined.")
	}

	if statusCaptures <= 0 {
		return nil
	}
	captures, err := store.QueryCaptures(statusFile, statusCaptures)
	if err != nil {
		return fmt.Errorf("failed to query captures: %w", err)
	}
	if len(captures) == 0 {
		fmt.Fprintln(out, "No captures recorded.")
		return nil
	}
	captureRows := make([][]string, 0, len(captures))
	for _, c := range captures {
		session := c.SessionID
		if len(session) > 8 {
			session = session[:8]
		}
		captureRows = append(captureRows, []string{
			c.CreatedAt.Local().Format("2006-01-02 15:04:05"),
			c.File,
			fmt.Sprintf("%02d", c.Bin+1),
			strconv.Itoa(c.Row) + "," + strconv.Itoa(c.Col),
			session,
		})
	}
	fmt.Fprintln(out, renderTable(
		[]string{"Time", "File", "Bin", "Cell", "Session"},
		captureRows,
		[]columnAlignment{alignLeft, alignLeft, alignRight, alignRight, alignLeft},
		colorize,
	))
	return nil
}
