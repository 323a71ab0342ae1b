package main

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/sirupsen/logrus/hooks/test"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mohammedhabas11/vhost-inspector/pkg/config"
	"github.com/mohammedhabas11/vhost-inspector/pkg/resolver"
)

func TestInspect(t *testing.T) {
	dir := t.TempDir()
	site := "server {\n  listen 8443;\n  server_name shop.example.com;\n  proxy_pass http://shop:8000;\n}\n"
	require.NoError(t, os.WriteFile(filepath.Join(dir, "shop.example.com.conf"), []byte(site), 0644))
	logger, _ := test.NewNullLogger()
	cfg := &config.Config{Nginx: config.NginxConfig{ConfigDir: dir, Extension: ".conf"}}
	svc := newResolver(cfg, logger, nil, func() string { return dir })

	var out bytes.Buffer
	require.NoError(t, inspect(context.Background(), &out, svc, "shop.example.com"))

	assert.Contains(t, out.String(), `"listen": 8443`)
	assert.Contains(t, out.String(), `"proxy_pass": "http://shop:8000"`)
	assert.Contains(t, out.String(), `"siteConfigurationContents"`)

	out.Reset()
	err := inspect(context.Background(), &out, svc, "other.example.com")
	assert.ErrorIs(t, err, errResolutionFailed)
	assert.Contains(t, err.Error(), resolver.ErrNotFound.Error())
	assert.Empty(t, out.String())
}

func TestValidateCommand(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte("nginx:\n  config-dir: /srv/sites\n"), 0644))

	var out bytes.Buffer
	RootCmd.SetOut(&out)
	RootCmd.SetArgs([]string{"validate", "--config", path})
	t.Cleanup(func() { RootCmd.SetArgs(nil); RootCmd.SetOut(nil) })

	require.NoError(t, RootCmd.Execute())
	assert.Contains(t, out.String(), "is valid")
}
