package commands

import (
	"os"
	"path/filepath"

	"github.com/rs/zerolog/log"
	"gopkg.in/yaml.v3"
)

// fileConfig is the optional ~/.astba/config.yaml. Flags and environment
// variables take precedence over it.
type fileConfig struct {
	APIURL     string `yaml:"api_url"`
	SessionDir string `yaml:"session_dir"`
}

// loadFileConfig reads the config file. A missing or unreadable file yields
// an empty config; a malformed one is logged and ignored.
func loadFileConfig() fileConfig {
	var cfg fileConfig

	home, err := os.UserHomeDir()
	if err != nil {
		return cfg
	}

	path := filepath.Join(home, ".astba", "config.yaml")
	data, err := os.ReadFile(path)
	if err != nil {
		return cfg
	}

	if err := yaml.Unmarshal(data, &cfg); err != nil {
		log.Debug().Err(err).Str("path", path).Msg("ignoring malformed config file")
		return fileConfig{}
	}

	return cfg
}
