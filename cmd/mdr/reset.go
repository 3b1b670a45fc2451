package main

import (
	"fmt"

	"github.com/AlecAivazis/survey/v2"
	"github.com/spf13/cobra"
)

var (
	resetYes   bool
	askOneFunc = survey.AskOne
)

var resetCmd = &cobra.Command{
	Use:   "reset",
	Short: "Erase all refinement progress",
	RunE:  runReset,
}

func init() {
	resetCmd.Flags().BoolVarP(&resetYes, "yes", "y", false, "Do not ask for confirmation")
	rootCmd.AddCommand(resetCmd)
}

func runReset(cmd *cobra.Command, args []string) error {
	out := cmd.OutOrStdout()
	if !resetYes {
		confirm := false
		err := askOneFunc(&survey.Confirm{
			Message: "Erase all refinement progress and the capture journal?",
			Default: false,
		}, &confirm)
		if err != nil {
			return fmt.Errorf("confirmation failed: %w", err)
		}
		if !confirm {
			fmt.Fprintln(out, "Reset cancelled.")
			return nil
		}
	}

	store, err := openStore(false)
	if err != nil {
		return err
	}
	defer store.Close()

	if err := store.ResetProgress(); err != nil {
		return fmt.Errorf("failed to reset progress: %w", err)
	}
	fmt.Fprintln(out, "Progress cleared.")
	return nil
}
