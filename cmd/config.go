package cmd

import (
	"fmt"
	"os"

	"github.com/grovetools/ratedesk/config"
	"github.com/grovetools/ratedesk/tui/theme"
	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"
)

type configLayer struct {
	title string
	path  string
	cfg   *config.Config
}

// NewConfigCmd creates the `config-layers` command.
func NewConfigCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "config-layers",
		Short: "Display the layered configuration for the current directory",
		Long: `Shows how the final configuration is built by merging layers:
1. Global config ($XDG_CONFIG_HOME/ratedesk/ratedesk.yml)
2. Project config (ratedesk.yml, searched upward)
3. Override files (ratedesk.override.yml)
This is useful for debugging configuration issues.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cwd, err := os.Getwd()
			if err != nil {
				return fmt.Errorf("failed to get current directory: %w", err)
			}

			layered, err := config.LoadLayered(cwd)
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			printLayer := func(title string, path string, cfg *config.Config) error {
				if cfg == nil {
					return nil
				}
				fmt.Fprintf(out, "--- # %s\n", title)
				if path != "" {
					fmt.Fprintf(out, "# Source: %s\n", path)
				}
				data, err := yaml.Marshal(cfg)
				if err != nil {
					return err
				}
				fmt.Fprintln(out, string(data))
				return nil
			}

			layers := []configLayer{
				{"DEFAULTS", "", layered.Default},
				{"GLOBAL CONFIG", layered.FilePaths[config.SourceGlobal], layered.Global},
				{"PROJECT CONFIG", layered.FilePaths[config.SourceProject], layered.Project},
			}
			for _, o := range layered.Overrides {
				layers = append(layers, configLayer{"OVERRIDE CONFIG", o.Path, o.Config})
			}
			layers = append(layers, configLayer{"FINAL MERGED CONFIG", "", layered.Final})

			for _, l := range layers {
				if err := printLayer(l.title, l.path, l.cfg); err != nil {
					return err
				}
			}
			return nil
		},
	}
	return cmd
}

// NewConfigSchemaCmd creates the `config-schema` command.
func NewConfigSchemaCmd() *cobra.Command {
	var check string
	cmd := &cobra.Command{
		Use:   "config-schema",
		Short: "Print the JSON schema of ratedesk.yml, or validate a file against it",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if check != "" {
				if _, err := config.Load(check); err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "%s %s is valid\n",
					theme.DefaultTheme.Success.Render(theme.IconSuccess), check)
				return nil
			}

			data, err := config.GenerateSchema()
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), string(data))
			return nil
		},
	}
	cmd.Flags().StringVar(&check, "check", "", "Validate this config file instead of printing the schema")
	return cmd
}
