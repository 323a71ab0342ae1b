package vhost

import (
	"testing"

	"github.com/spf13/afero"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testConfigDir = "/etc/nginx/sites-enabled"

func newTestFs(t *testing.T, names ...string) afero.Fs {
	t.Helper()
	fs := afero.NewMemMapFs()
	require.NoError(t, fs.MkdirAll(testConfigDir, 0755))
	for _, name := range names {
		require.NoError(t, afero.WriteFile(fs, testConfigDir+"/"+name, []byte("server {\n"), 0644))
	}
	return fs
}

func TestLocate(t *testing.T) {
	testCases := []struct {
		name     string
		files    []string
		dirs     []string
		domain   string
		wantPath string
		wantOK   bool
	}{
		{
			name:     "subdomain file wins over base domain",
			files:    []string{"sub.example.com.conf", "example.com.conf"},
			domain:   "sub.example.com",
			wantPath: testConfigDir + "/sub.example.com.conf",
			wantOK:   true,
		},
		{
			name:     "subdomain falls back to base domain",
			files:    []string{"example.com.conf"},
			domain:   "sub.example.com",
			wantPath: testConfigDir + "/example.com.conf",
			wantOK:   true,
		},
		{
			name:     "plain domain",
			files:    []string{"example.com.conf", "www.example.com.conf"},
			domain:   "example.com",
			wantPath: testConfigDir + "/example.com.conf",
			wantOK:   true,
		},
		{
			name:     "www variant for bare domain",
			files:    []string{"www.example.com.conf"},
			domain:   "example.com",
			wantPath: testConfigDir + "/www.example.com.conf",
			wantOK:   true,
		},
		{
			name:   "www variant is not tried for subdomains",
			files:  []string{"www.example.com.conf"},
			domain: "api.example.com",
		},
		{
			name:     "deep subdomain uses first label only",
			files:    []string{"a.b.example.com.conf", "b.example.com.conf"},
			domain:   "a.b.example.com",
			wantPath: testConfigDir + "/a.b.example.com.conf",
			wantOK:   true,
		},
		{
			name:   "nothing matches",
			files:  []string{"other.com.conf"},
			domain: "example.com",
		},
		{
			name:   "directory with a matching name is ignored",
			dirs:   []string{"example.com.conf"},
			domain: "example.com",
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			fs := newTestFs(t, tc.files...)
			for _, dir := range tc.dirs {
				require.NoError(t, fs.MkdirAll(testConfigDir+"/"+dir, 0755))
			}

			path, ok := NewLocator(fs, "").Locate(tc.domain, testConfigDir)

			assert.Equal(t, tc.wantOK, ok)
			assert.Equal(t, tc.wantPath, path)
		})
	}
}

func TestLocateCustomExtension(t *testing.T) {
	fs := newTestFs(t, "example.com.vhost", "example.com.conf")

	path, ok := NewLocator(fs, ".vhost").Locate("example.com", testConfigDir)

	assert.True(t, ok)
	assert.Equal(t, testConfigDir+"/example.com.vhost", path)
}

func TestSplitDomain(t *testing.T) {
	sub, base := splitDomain("example.com")
	assert.Equal(t, "", sub)
	assert.Equal(t, "example.com", base)

	sub, base = splitDomain("shop.example.com")
	assert.Equal(t, "shop", sub)
	assert.Equal(t, "example.com", base)
}
