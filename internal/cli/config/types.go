// Package config provides configuration management for the sitecounts CLI.
package config

// Default configuration values.
const (
	DefaultStateFile   = ".sitecounts/content.db"
	DefaultFixturesDir = "fixtures"
	DefaultLocale      = "en"
	DefaultLogFormat   = "text"
	DefaultPort        = 8790
)

// Config file names, in lookup order.
var configFileNames = []string{"sitecounts.yaml", "sitecounts.yml"}

// ServerConfig holds configuration for the preview server.
type ServerConfig struct {
	Port  int  `koanf:"port"`
	Watch bool `koanf:"watch"`
}

// Config holds all CLI configuration options.
type Config struct {
	StatePath   string        `koanf:"state_path"`
	FixturesDir string        `koanf:"fixtures_dir"`
	Locale      string        `koanf:"locale"`
	Verbose     bool          `koanf:"verbose"`
	LogFormat   string        `koanf:"log_format"`
	Server      *ServerConfig `koanf:"server"`

	// ConfigFile is the config file that was loaded, if any.
	ConfigFile string `koanf:"-"`
}

// Default returns a Config with default values.
func Default() *Config {
	return &Config{
		StatePath:   DefaultStateFile,
		FixturesDir: DefaultFixturesDir,
		Locale:      DefaultLocale,
		LogFormat:   DefaultLogFormat,
		Server:      DefaultServerConfig(),
	}
}

// DefaultServerConfig returns a ServerConfig with default values.
func DefaultServerConfig() *ServerConfig {
	return &ServerConfig{
		Port:  DefaultPort,
		Watch: true,
	}
}

// GetServerConfig returns the server config with defaults applied for any unset values.
func (c *Config) GetServerConfig() *ServerConfig {
	if c.Server == nil {
		return DefaultServerConfig()
	}
	srv := *c.Server
	if srv.Port == 0 {
		srv.Port = DefaultPort
	}
	return &srv
}
