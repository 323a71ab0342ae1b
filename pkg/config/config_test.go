package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfigFile(t *testing.T, dir, content string) string {
	t.Helper()
	path := filepath.Join(dir, "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))
	return path
}

func TestLoadAndValidate(t *testing.T) {
	path := writeConfigFile(t, t.TempDir(), `
http:
  addr: 127.0.0.1
  port: 9090
  read-timeout: 5s
nginx:
  config-dir: /srv/nginx/sites
  extension: vhost
logging:
  level: DEBUG
  format: json
metrics:
  path: prom
`)

	cfg, err := loadAndValidate(path)
	require.NoError(t, err)

	assert.True(t, cfg.HTTP.Enabled)
	assert.Equal(t, "127.0.0.1:9090", cfg.HTTP.ListenAddr())
	assert.Equal(t, "/srv/nginx/sites", cfg.Nginx.ConfigDir)
	assert.Equal(t, ".vhost", cfg.Nginx.Extension)
	assert.Equal(t, "debug", cfg.Logging.Level)
	assert.Equal(t, "json", cfg.Logging.Format)
	assert.True(t, cfg.Logging.AccessLog)
	assert.True(t, cfg.Metrics.Enabled)
	assert.Equal(t, "/prom", cfg.Metrics.Path)

	readTimeout, err := cfg.HTTP.GetReadTimeout()
	require.NoError(t, err)
	assert.Equal(t, 5*time.Second, readTimeout)
	writeTimeout, err := cfg.HTTP.GetWriteTimeout()
	require.NoError(t, err)
	assert.Equal(t, 60*time.Second, writeTimeout)
}

func TestLoadAndValidateReportsEveryProblem(t *testing.T) {
	path := writeConfigFile(t, t.TempDir(), `
http:
  port: 70000
  idle-timeout: soon
nginx:
  config-dir: ""
logging:
  level: verbose
`)

	_, err := loadAndValidate(path)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "http.port 70000 is out of range")
	assert.Contains(t, err.Error(), "http.idle-timeout")
	assert.Contains(t, err.Error(), "nginx.config-dir cannot be empty")
	assert.Contains(t, err.Error(), "logging.level 'verbose'")
}

func TestLoadAndValidateMalformedYAML(t *testing.T) {
	path := writeConfigFile(t, t.TempDir(), "http: [unterminated\n")

	_, err := loadAndValidate(path)
	require.Error(t, err)
	assert.False(t, isNotFound(err))
}

func TestLoadAndValidateEnvOverride(t *testing.T) {
	t.Setenv("VHOST_INSPECTOR_NGINX_CONFIG_DIR", "/from/env")
	path := writeConfigFile(t, t.TempDir(), "nginx:\n  config-dir: /from/file\n")

	cfg, err := loadAndValidate(path)
	require.NoError(t, err)
	assert.Equal(t, "/from/env", cfg.Nginx.ConfigDir)
}

func TestValidateConfigFileMissing(t *testing.T) {
	err := ValidateConfigFile(filepath.Join(t.TempDir(), "absent.yaml"))
	require.Error(t, err)
	assert.True(t, isNotFound(err))
}

func TestLoadDoesNotPublish(t *testing.T) {
	path := writeConfigFile(t, t.TempDir(), "nginx:\n  config-dir: /only/local\n")

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, "/only/local", cfg.Nginx.ConfigDir)
	assert.NotSame(t, cfg, GetConfig())
}

func TestLoadConfigFallsBackToDefaults(t *testing.T) {
	cfg, err := LoadConfig(filepath.Join(t.TempDir(), "absent.yaml"), nil)
	require.NoError(t, err)

	assert.Equal(t, "/etc/nginx/sites-enabled", cfg.Nginx.ConfigDir)
	assert.Equal(t, ".conf", cfg.Nginx.Extension)
	assert.Equal(t, 8080, cfg.HTTP.Port)
	assert.Equal(t, "info", cfg.Logging.Level)
	assert.Same(t, cfg, GetConfig())
}

func TestLoadConfigRejectsInvalidFile(t *testing.T) {
	path := writeConfigFile(t, t.TempDir(), "logging:\n  format: xml\n")

	_, err := LoadConfig(path, nil)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "logging.format 'xml'")
}

func TestLoadConfigReloadsOnChange(t *testing.T) {
	dir := t.TempDir()
	path := writeConfigFile(t, dir, "nginx:\n  config-dir: /first\n")
	reloadChan := make(chan bool, 1)

	cfg, err := LoadConfig(path, reloadChan)
	require.NoError(t, err)
	require.Equal(t, "/first", cfg.Nginx.ConfigDir)

	// rename so the watcher never sees a half-written file
	tmp := filepath.Join(dir, "config.yaml.tmp")
	require.NoError(t, os.WriteFile(tmp, []byte("nginx:\n  config-dir: /second\n"), 0644))
	require.NoError(t, os.Rename(tmp, path))

	select {
	case <-reloadChan:
	case <-time.After(5 * time.Second):
		t.Fatal("config reload was not signalled")
	}
	require.Eventually(t, func() bool {
		return GetConfig().Nginx.ConfigDir == "/second"
	}, 5*time.Second, 20*time.Millisecond)
}
