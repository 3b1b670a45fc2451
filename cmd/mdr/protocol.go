package main

import (
	"fmt"

	"github.com/charmbracelet/glamour"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"mdr/internal/ui"
)

var protocolLang string

var renderMarkdown = func(md string) (string, error) {
	renderer, err := glamour.NewTermRenderer(
		glamour.WithAutoStyle(),
		glamour.WithWordWrap(80),
	)
	if err != nil {
		return "", err
	}
	return renderer.Render(md)
}

var protocolCmd = &cobra.Command{
	Use:   "protocol",
	Short: "Print the refinement instructions",
	RunE: func(cmd *cobra.Command, args []string) error {
		lang := protocolLang
		if lang == "" {
			lang = viper.GetString("language")
		}
		rendered, err := renderMarkdown(ui.DetectLanguage(lang).ProtocolMarkdown())
		if err != nil {
			return fmt.Errorf("failed to render protocol: %w", err)
		}
		fmt.Fprint(cmd.OutOrStdout(), rendered)
		return nil
	},
}

func init() {
	protocolCmd.Flags().StringVar(&protocolLang, "lang", "", "Language (en, es)")
	rootCmd.AddCommand(protocolCmd)
}
