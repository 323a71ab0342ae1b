package config

// Config holds the application's entire configuration.
type Config struct {
	HTTP    HTTPConfig    `mapstructure:"http"`
	Nginx   NginxConfig   `mapstructure:"nginx"`
	Logging LoggingConfig `mapstructure:"logging"`
	Metrics MetricsConfig `mapstructure:"metrics"`
}

// HTTPConfig holds all settings related to the main HTTP server.
type HTTPConfig struct {
	Enabled         bool   `mapstructure:"enabled"`
	Addr            string `mapstructure:"addr"`
	Port            int    `mapstructure:"port"`
	ReadTimeout     string `mapstructure:"read-timeout"` // Durations are kept as strings from YAML
	WriteTimeout    string `mapstructure:"write-timeout"`
	IdleTimeout     string `mapstructure:"idle-timeout"`
	ShutdownTimeout string `mapstructure:"shutdown-timeout"`
}

// NginxConfig describes where the reverse proxy keeps its site files.
type NginxConfig struct {
	ConfigDir string `mapstructure:"config-dir"`
	Extension string `mapstructure:"extension"` // Appended to every candidate file name
}

// LoggingConfig controls the application logger.
type LoggingConfig struct {
	Level     string `mapstructure:"level"`
	Format    string `mapstructure:"format"` // "text" or "json"
	File      string `mapstructure:"file"`   // Empty means stdout
	AccessLog bool   `mapstructure:"access-log"`
}

// MetricsConfig controls the prometheus endpoint.
type MetricsConfig struct {
	Enabled bool   `mapstructure:"enabled"`
	Path    string `mapstructure:"path"`
}
