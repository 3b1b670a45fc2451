package main

import (
	"fmt"
	"os"

	"github.com/charmbracelet/lipgloss"
	"github.com/muesli/termenv"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"mdr/internal/config"
	"mdr/internal/db"
	"mdr/internal/telemetry"
)

var exit = os.Exit
var cfgFile string

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:   "mdr",
	Short: "Macrodata refinement terminal",
	Long: `mdr is a terminal refinement game. Hover over the numbers, listen for
the ones that hum, and sort them into their bins.

Run without a subcommand to start playing.`,
	SilenceErrors: true,
	SilenceUsage:  true,
	RunE:          runPlay,
}

// Execute adds all child commands to the root command and sets flags appropriately.
func Execute() {
	defer func() {
		if r := recover(); r != nil {
			fmt.Fprintf(os.Stderr, "\n=== CRITICAL ERROR: Command Execution Panic ===\n")
			fmt.Fprintf(os.Stderr, "Error: %v\n", r)
			exit(1)
		}
	}()

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		fmt.Fprintln(os.Stderr, "Run 'mdr --help' for usage.")
		exit(1)
	}
}

func init() {
	cobra.OnInitialize(initConfig)

	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default is ./config.yaml)")
	rootCmd.PersistentFlags().BoolP("verbose", "v", false, "Enable verbose/debug logging")
	rootCmd.PersistentFlags().Bool("no-color", false, "Disable colors")
	rootCmd.PersistentFlags().String("store", "", "Progress store type (sqlite, postgres)")
	rootCmd.PersistentFlags().String("dsn", "", "Progress store path or connection string")
	rootCmd.PersistentFlags().String("log-file", "", "Log file (default mdr.log)")

	viper.BindPFlag("verbose", rootCmd.PersistentFlags().Lookup("verbose"))
	viper.BindPFlag("no_color", rootCmd.PersistentFlags().Lookup("no-color"))
	viper.BindPFlag("store.type", rootCmd.PersistentFlags().Lookup("store"))
	viper.BindPFlag("store.dsn", rootCmd.PersistentFlags().Lookup("dsn"))
	viper.BindPFlag("log_file", rootCmd.PersistentFlags().Lookup("log-file"))
}

// initConfig reads in config file and ENV variables if set.
func initConfig() {
	if err := config.Load(cfgFile); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		exit(1)
		return
	}

	if err := config.ValidateConfig(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		exit(1)
		return
	}

	if viper.GetBool("no_color") {
		lipgloss.SetColorProfile(termenv.Ascii)
	}

	// The TUI owns stdout, so logs only go to the file.
	telemetry.InitLogger(viper.GetBool("verbose"), viper.GetString("log_file"), true)
}

// openStore opens the configured progress store. Readers do not take the
// SQLite writer lock.
func openStore(readOnly bool) (db.Store, error) {
	store, err := db.NewStore(db.StoreConfig{
		Type:             viper.GetString("store.type"),
		ConnectionString: viper.GetString("store.dsn"),
		ReadOnly:         readOnly,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to open progress store: %w", err)
	}
	return store, nil
}
