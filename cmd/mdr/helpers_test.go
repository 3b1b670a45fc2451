package main

import (
	"bytes"
	"fmt"
	"path/filepath"
	"strings"
	"testing"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
)

func executeCommand(root *cobra.Command, args ...string) (string, error) {
	resetFlags(root)
	oldExit := exit
	exit = func(code int) {
		if code != 0 {
			panic(fmt.Sprintf("exit-%d", code))
		}
	}
	defer func() { exit = oldExit }()

	b := new(bytes.Buffer)
	var err error
	func() {
		defer func() {
			if r := recover(); r != nil {
				if s, ok := r.(string); ok && strings.HasPrefix(s, "exit-") {
					err = fmt.Errorf("exited: %s", s)
					return
				}
				panic(r)
			}
		}()
		root.SetArgs(args)
		root.SetOut(b)
		root.SetErr(b)
		root.SetIn(bytes.NewBufferString(""))
		err = root.Execute()
	}()
	return b.String(), err
}

func resetFlags(cmd *cobra.Command) {
	cmd.Flags().VisitAll(func(f *pflag.Flag) {
		if f.Changed {
			f.Value.Set(f.DefValue)
			f.Changed = false
		}
	})
	for _, c := range cmd.Commands() {
		resetFlags(c)
	}
}

// setupEnv points the store and the log at a temp dir and returns the
// database path.
func setupEnv(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()
	dbPath := filepath.Join(dir, "progress.db")
	t.Setenv("MDR_STORE_DSN", dbPath)
	t.Setenv("MDR_STORE_TYPE", "sqlite")
	t.Setenv("MDR_LOG_FILE", filepath.Join(dir, "mdr.log"))
	t.Setenv("MDR_FILES", "")
	t.Setenv("SLACK_BOT_USER_TOKEN", "")
	return dbPath
}
