package config

import (
	"errors"
	"fmt"
	"io/fs"
	"strings"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/hashicorp/go-multierror"
	log "github.com/sirupsen/logrus"
	"github.com/spf13/viper"
)

// EnvPrefix prefixes environment variables overriding file values,
// e.g. VHOST_INSPECTOR_NGINX_CONFIG_DIR for nginx.config-dir.
const EnvPrefix = "VHOST_INSPECTOR"

var (
	currentConfig *Config
	configMutex   sync.RWMutex
)

var (
	validLogLevels  = []string{"debug", "info", "warn", "error"}
	validLogFormats = []string{"text", "json"}
)

func newViper(path string) *viper.Viper {
	v := viper.New()
	v.SetConfigFile(path)
	v.SetConfigType("yaml")
	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer("-", "_", ".", "_"))
	v.AutomaticEnv()
	setDefaults(v)
	return v
}

// isNotFound reports whether err means the config file does not exist.
func isNotFound(err error) bool {
	var notFound viper.ConfigFileNotFoundError
	return errors.As(err, &notFound) || errors.Is(err, fs.ErrNotExist)
}

// decode unmarshals, applies structural defaults and validates.
func decode(v *viper.Viper) (*Config, error) {
	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("unable to decode config into struct: %w", err)
	}
	applyDefaults(&cfg)
	if err := validateConfig(&cfg); err != nil {
		return &cfg, err
	}
	return &cfg, nil
}

// loadAndValidate performs the core config reading, unmarshalling, and validation.
// It does NOT handle file watching or global state.
func loadAndValidate(path string) (*Config, error) {
	v := newViper(path)

	if err := v.ReadInConfig(); err != nil {
		if isNotFound(err) {
			return nil, err
		}
		return nil, fmt.Errorf("failed to read/parse config file %s: %w", path, err)
	}

	cfg, err := decode(v)
	if err != nil {
		return cfg, fmt.Errorf("config file %s: %w", path, err)
	}

	log.Infof("Configuration successfully loaded and validated from %s.", path)
	return cfg, nil
}

// ValidateConfigFile attempts to load and validate a config file.
// Used by the validate command. A missing file is an error here.
func ValidateConfigFile(path string) error {
	if _, err := loadAndValidate(path); err != nil {
		return fmt.Errorf("config file validation failed: %w", err)
	}
	return nil
}

// Load reads the configuration at path without watching it, falling back
// to defaults when the file does not exist.
func Load(path string) (*Config, error) {
	cfg, err := loadAndValidate(path)
	if err == nil {
		return cfg, nil
	}
	if !isNotFound(err) {
		return nil, fmt.Errorf("unrecoverable error loading configuration: %w", err)
	}

	log.Infof("Config file not found at %s. Running with defaults.", path)
	cfg, err = decode(newViper(path))
	if err != nil {
		return nil, fmt.Errorf("default configuration is invalid, cannot start: %w", err)
	}
	return cfg, nil
}

// LoadConfig loads the main application configuration like Load, publishes
// it for GetConfig and sets up watching. A successful hot reload sends true
// on reloadChan without blocking.
func LoadConfig(path string, reloadChan chan<- bool) (*Config, error) {
	initialCfg, err := Load(path)
	if err != nil {
		return nil, err
	}
	v := newViper(path)

	configMutex.Lock()
	currentConfig = initialCfg
	configMutex.Unlock()

	v.OnConfigChange(func(e fsnotify.Event) {
		log.Infof("Config file changed: %s. Reloading...", e.Name)

		if err := v.ReadInConfig(); err != nil {
			log.Errorf("Error re-reading config file on change: %v", err)
			return // Keep old config
		}

		tempCfg, err := decode(v)
		if err != nil {
			log.Errorf("Reloaded configuration is invalid, keeping previous configuration: %v", err)
			return
		}

		configMutex.Lock()
		currentConfig = tempCfg
		configMutex.Unlock()
		log.Info("Configuration reloaded successfully.")

		if reloadChan != nil {
			select {
			case reloadChan <- true:
			default:
				log.Warn("Reload signal dropped (channel full).")
			}
		}
	})
	v.WatchConfig()

	log.Infof("Configuration monitoring active for %s.", path)
	return initialCfg, nil
}

// setDefaults applies default values using Viper.
func setDefaults(v *viper.Viper) {
	v.SetDefault("http.enabled", true)
	v.SetDefault("http.addr", "0.0.0.0")
	v.SetDefault("http.port", 8080)
	v.SetDefault("http.read-timeout", "30s")
	v.SetDefault("http.write-timeout", "60s")
	v.SetDefault("http.idle-timeout", "2m")
	v.SetDefault("http.shutdown-timeout", "15s")
	v.SetDefault("nginx.config-dir", "/etc/nginx/sites-enabled")
	v.SetDefault("nginx.extension", ".conf")
	v.SetDefault("logging.level", "info")
	v.SetDefault("logging.format", "text")
	v.SetDefault("logging.file", "")
	v.SetDefault("logging.access-log", true)
	v.SetDefault("metrics.enabled", true)
	v.SetDefault("metrics.path", "/metrics")
}

// applyDefaults normalizes values that depend on their own shape.
func applyDefaults(cfg *Config) {
	cfg.Logging.Level = strings.ToLower(strings.TrimSpace(cfg.Logging.Level))
	cfg.Logging.Format = strings.ToLower(strings.TrimSpace(cfg.Logging.Format))
	if cfg.Nginx.Extension != "" && !strings.HasPrefix(cfg.Nginx.Extension, ".") {
		cfg.Nginx.Extension = "." + cfg.Nginx.Extension
	}
	if cfg.Metrics.Path != "" && !strings.HasPrefix(cfg.Metrics.Path, "/") {
		cfg.Metrics.Path = "/" + cfg.Metrics.Path
	}
}

// GetConfig provides thread-safe access to the current configuration.
func GetConfig() *Config {
	configMutex.RLock()
	defer configMutex.RUnlock()
	if currentConfig == nil {
		log.Warn("GetConfig called before LoadConfig completed or after failure.")
		return &Config{}
	}
	return currentConfig
}

// validateConfig checks the loaded configuration and reports every problem found.
func validateConfig(cfg *Config) error {
	var result *multierror.Error

	if cfg.HTTP.Enabled && (cfg.HTTP.Port <= 0 || cfg.HTTP.Port > 65535) {
		result = multierror.Append(result, fmt.Errorf("http.port %d is out of range", cfg.HTTP.Port))
	}
	timeouts := []func() (time.Duration, error){
		cfg.HTTP.GetReadTimeout,
		cfg.HTTP.GetWriteTimeout,
		cfg.HTTP.GetIdleTimeout,
		cfg.HTTP.GetShutdownTimeout,
	}
	for _, get := range timeouts {
		if _, err := get(); err != nil {
			result = multierror.Append(result, err)
		}
	}

	if strings.TrimSpace(cfg.Nginx.ConfigDir) == "" {
		result = multierror.Append(result, errors.New("nginx.config-dir cannot be empty"))
	}
	if strings.ContainsAny(cfg.Nginx.Extension, `/\`) {
		result = multierror.Append(result, fmt.Errorf("nginx.extension '%s' must not contain path separators", cfg.Nginx.Extension))
	}

	if !contains(validLogLevels, cfg.Logging.Level) {
		result = multierror.Append(result, fmt.Errorf("logging.level '%s' must be one of %v", cfg.Logging.Level, validLogLevels))
	}
	if !contains(validLogFormats, cfg.Logging.Format) {
		result = multierror.Append(result, fmt.Errorf("logging.format '%s' must be one of %v", cfg.Logging.Format, validLogFormats))
	}

	if cfg.Metrics.Enabled && cfg.Metrics.Path == "" {
		result = multierror.Append(result, errors.New("metrics.path cannot be empty when metrics are enabled"))
	}

	return result.ErrorOrNil()
}

func contains(list []string, s string) bool {
	for _, item := range list {
		if item == s {
			return true
		}
	}
	return false
}
