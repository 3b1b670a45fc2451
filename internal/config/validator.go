package config

import (
	"fmt"
	"os"
	"strings"

	"github.com/spf13/viper"
)

// minCells is the fewest cells that can hold the three audio cells.
const minCells = 3

var (
	knownLanguages  = []string{"auto", "en", "es"}
	knownStoreTypes = []string{"", "sqlite", "sqlite3", "postgres", "postgresql"}
)

// ValidateConfig validates configuration values and returns an error if any are invalid.
// This function should be called after viper has loaded the configuration.
func ValidateConfig() error {
	var errors []string

	rows := viper.GetInt("grid.rows")
	cols := viper.GetInt("grid.cols")
	if rows <= 0 {
		errors = append(errors, fmt.Sprintf("grid.rows must be positive, got: %d", rows))
	}
	if cols <= 0 {
		errors = append(errors, fmt.Sprintf("grid.cols must be positive, got: %d", cols))
	}
	if rows > 0 && cols > 0 && rows*cols < minCells {
		errors = append(errors, fmt.Sprintf("grid %dx%d is too small for %d audio cells", rows, cols, minCells))
	}

	files := Files()
	if len(files) == 0 {
		errors = append(errors, "files must not be empty")
	}
	seen := make(map[string]bool, len(files))
	for _, f := range files {
		if seen[f] {
			errors = append(errors, fmt.Sprintf("duplicate file: %s", f))
		}
		seen[f] = true
	}

	if lang := strings.ToLower(viper.GetString("language")); !contains(knownLanguages, lang) {
		errors = append(errors, fmt.Sprintf("language must be one of %s, got: %s", strings.Join(knownLanguages, ", "), lang))
	}

	if storeType := strings.ToLower(viper.GetString("store.type")); !contains(knownStoreTypes, storeType) {
		errors = append(errors, fmt.Sprintf("unsupported store type: %s", storeType))
	}

	// Validate metrics_port (if set)
	if viper.IsSet("metrics_port") {
		port := viper.GetInt("metrics_port")
		if port < 1 || port > 65535 {
			errors = append(errors, fmt.Sprintf("metrics_port must be between 1 and 65535, got: %d", port))
		}
	}

	if len(errors) > 0 {
		return fmt.Errorf("configuration validation failed:\n  %s", strings.Join(errors, "\n  "))
	}

	return nil
}

// ValidateAndExit validates the configuration and exits with a non-zero code if validation fails.
func ValidateAndExit() {
	if err := ValidateConfig(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func contains(list []string, s string) bool {
	for _, v := range list {
		if v == s {
			return true
		}
	}
	return false
}
