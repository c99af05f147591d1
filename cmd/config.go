package cmd

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"
	"github.com/xvierd/git-prompt/internal/config"
)

var configInit bool

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Show the effective configuration",
	Long: `Print every setting with its current value and the environment variable
that overrides it. Values are quoted so escape sequences stay visible.

With --init the current settings are written to the config file. An
existing file is never overwritten.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		out := cmd.OutOrStdout()

		if configInit {
			path, err := config.Save(app.config, configPath)
			if err != nil {
				return err
			}
			fmt.Fprintf(out, "Wrote %s\n", path)
			return nil
		}

		path := configPath
		if path == "" {
			path, _ = config.GetConfigPath()
		}
		fmt.Fprintf(out, "# config file: %s\n", path)

		settings := app.config.Settings()
		width := 0
		for _, key := range config.Keys() {
			width = max(width, len(key))
		}
		for _, key := range config.Keys() {
			value := settings[key]
			if s, ok := value.(string); ok {
				value = fmt.Sprintf("%q", s)
			}
			fmt.Fprintf(out, "%s = %v  # %s\n", key+strings.Repeat(" ", width-len(key)), value, config.EnvName(key))
		}
		return nil
	},
}

func init() {
	configCmd.Flags().BoolVar(&configInit, "init", false, "Write the current settings to the config file")
}
