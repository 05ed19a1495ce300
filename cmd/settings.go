package cmd

import (
	"os"

	"github.com/spf13/cobra"

	"github.com/teemow/trellomcp/internal/host"
)

// defaultEnvFile is loaded when no --env-file is given. It may be missing.
const defaultEnvFile = ".env"

// hostOptions are the flags shared by the commands that talk to Trello.
type hostOptions struct {
	configFile string
	envFile    string
	apiBaseURL string
}

func (o *hostOptions) addFlags(cmd *cobra.Command) {
	cmd.Flags().StringVar(&o.configFile, "config", "", "YAML settings file with api_key, api_token, board_id and default_list_id. Takes precedence over the environment.")
	cmd.Flags().StringVar(&o.envFile, "env-file", defaultEnvFile, "File with TRELLO_* variables loaded into the environment. Variables already set win.")
	cmd.Flags().StringVar(&o.apiBaseURL, "api-base-url", "", "Trello API root (default: https://api.trello.com/1). Can also use TRELLO_API_BASE_URL env var.")
}

// settings loads the .env file and returns the settings sources in lookup
// order: settings file, then environment.
func (o *hostOptions) settings() (host.Settings, error) {
	if o.envFile != "" {
		if err := host.LoadDotEnv(o.envFile); err != nil {
			return nil, err
		}
	}

	layers := host.Layered{}
	if o.configFile != "" {
		fileSettings, err := host.LoadFileSettings(o.configFile)
		if err != nil {
			return nil, err
		}
		layers = append(layers, fileSettings)
	}
	return append(layers, host.EnvSettings{}), nil
}

// baseURL returns the API root from the flag or TRELLO_API_BASE_URL.
// Empty means the default.
func (o *hostOptions) baseURL() string {
	if o.apiBaseURL != "" {
		return o.apiBaseURL
	}
	return os.Getenv("TRELLO_API_BASE_URL")
}
