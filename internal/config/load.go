package config

import (
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// DefaultFiles are the refinement files offered when none are configured.
var DefaultFiles = []string{"Le Mars", "Coleman", "Dyer", "Eagan", "Lumon"}

// Load initializes the configuration from file and environment variables.
func Load(cfgFile string) error {
	// .env is optional
	_ = godotenv.Load()

	if cfgFile != "" {
		viper.SetConfigFile(cfgFile)
	} else {
		viper.AddConfigPath(".")
		viper.SetConfigType("yaml")
		viper.SetConfigName("config")
	}

	viper.SetEnvPrefix("MDR")
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	viper.AutomaticEnv()

	SetDefaults()

	if err := viper.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if cfgFile != "" || !errors.As(err, &notFound) {
			return fmt.Errorf("failed to read config: %w", err)
		}
		return nil
	}
	fmt.Fprintln(os.Stderr, "Using config file:", viper.ConfigFileUsed())
	return nil
}

// SetDefaults registers every default value with viper.
func SetDefaults() {
	viper.SetDefault("files", DefaultFiles)
	viper.SetDefault("audio_dir", "assets")
	viper.SetDefault("grid.rows", 12)
	viper.SetDefault("grid.cols", 18)
	viper.SetDefault("language", "auto")
	viper.SetDefault("store.type", "sqlite")
	viper.SetDefault("store.dsn", ".mdr.db")
	viper.SetDefault("log_file", "mdr.log")
	viper.SetDefault("verbose", false)
	viper.SetDefault("mute", false)
	viper.SetDefault("metrics.enabled", false)
	viper.SetDefault("metrics_port", 2112)

	// Notification Defaults
	slackEnabled := os.Getenv("SLACK_BOT_USER_TOKEN") != ""
	viper.SetDefault("notifications.slack.enabled", slackEnabled)
	viper.SetDefault("notifications.slack.channel", "#general")
}

// Settings is a typed snapshot of the loaded configuration.
type Settings struct {
	Files          []string
	AudioDir       string
	Rows           int
	Cols           int
	Language       string
	StoreType      string
	StoreDSN       string
	LogFile        string
	Verbose        bool
	Mute           bool
	MetricsEnabled bool
	MetricsPort    int
}

// Current reads the settings from viper.
func Current() Settings {
	return Settings{
		Files:          Files(),
		AudioDir:       viper.GetString("audio_dir"),
		Rows:           viper.GetInt("grid.rows"),
		Cols:           viper.GetInt("grid.cols"),
		Language:       strings.ToLower(viper.GetString("language")),
		StoreType:      viper.GetString("store.type"),
		StoreDSN:       viper.GetString("store.dsn"),
		LogFile:        viper.GetString("log_file"),
		Verbose:        viper.GetBool("verbose"),
		Mute:           viper.GetBool("mute"),
		MetricsEnabled: viper.GetBool("metrics.enabled"),
		MetricsPort:    viper.GetInt("metrics_port"),
	}
}

// Files returns the configured file names. MDR_FILES may be a comma
// separated list.
func Files() []string {
	var raw []string
	switch v := viper.Get("files").(type) {
	case string:
		raw = strings.Split(v, ",")
	default:
		raw = viper.GetStringSlice("files")
	}
	files := make([]string, 0, len(raw))
	for _, f := range raw {
		if f = strings.TrimSpace(f); f != "" {
			files = append(files, f)
		}
	}
	return files
}
