package cli

import (
	"os"

	"github.com/grovetools/ratedesk/config"
	"github.com/grovetools/ratedesk/errors"
	"github.com/grovetools/ratedesk/logging"
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
)

// CommandOptions holds common options for ratedesk commands
type CommandOptions struct {
	ConfigFile string
	Verbose    bool
	JSONOutput bool
	APIURL     string
	Token      string
}

// NewStandardCommand creates a new command with the standard ratedesk flags
func NewStandardCommand(use, short string) *cobra.Command {
	cmd := &cobra.Command{
		Use:           use,
		Short:         short,
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	cmd.PersistentFlags().BoolP("verbose", "v", false, "Enable verbose logging")
	cmd.PersistentFlags().Bool("json", false, "Output in JSON format")
	cmd.PersistentFlags().StringP("config", "c", "", "Path to ratedesk.yml config file")
	cmd.PersistentFlags().String("api-url", "", "API base URL (overrides api.base_url)")
	cmd.PersistentFlags().String("token", "", "Bearer token (overrides the configured token sources)")

	SetStyledHelp(cmd)

	return cmd
}

// GetLogger creates a logger based on command flags
func GetLogger(cmd *cobra.Command) *logrus.Entry {
	entry := logging.NewLogger("cli")

	if verbose, _ := cmd.Flags().GetBool("verbose"); verbose {
		entry.Logger.SetLevel(logrus.DebugLevel)
	}
	if jsonOutput, _ := cmd.Flags().GetBool("json"); jsonOutput {
		entry.Logger.SetFormatter(&logrus.JSONFormatter{})
	}
	return entry
}

// GetOptions extracts common options from a command
func GetOptions(cmd *cobra.Command) CommandOptions {
	configFile, _ := cmd.Flags().GetString("config")
	verbose, _ := cmd.Flags().GetBool("verbose")
	jsonOutput, _ := cmd.Flags().GetBool("json")
	apiURL, _ := cmd.Flags().GetString("api-url")
	token, _ := cmd.Flags().GetString("token")

	return CommandOptions{
		ConfigFile: configFile,
		Verbose:    verbose,
		JSONOutput: jsonOutput,
		APIURL:     apiURL,
		Token:      token,
	}
}

// InitConfig resolves the configuration file path. An empty path with a nil
// error means no config file exists, which is fine for most commands.
func InitConfig(configFile string) (string, error) {
	if configFile != "" {
		return configFile, nil
	}

	cwd, err := os.Getwd()
	if err != nil {
		return "", err
	}

	found, err := config.FindConfigFile(cwd)
	if err != nil {
		return "", nil
	}
	return found, nil
}

// LoadConfig loads the configuration selected by the command flags. Without
// any config file the defaults are used. Flag overrides are applied last.
func LoadConfig(cmd *cobra.Command) (*config.Config, error) {
	opts := GetOptions(cmd)

	var cfg *config.Config
	var err error
	if opts.ConfigFile != "" {
		cfg, err = config.Load(opts.ConfigFile)
	} else {
		cfg, err = config.LoadDefault()
	}
	if errors.Is(err, errors.ErrCodeConfigNotFound) && opts.ConfigFile == "" {
		cfg, err = &config.Config{}, nil
		cfg.SetDefaults()
	}
	if err != nil {
		return nil, err
	}

	if opts.APIURL != "" {
		cfg.API.BaseURL = opts.APIURL
	}
	if opts.Token != "" {
		cfg.API.Token = opts.Token
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}
