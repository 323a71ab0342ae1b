package vhost

import (
	"path/filepath"
	"strings"

	"github.com/spf13/afero"
)

// DefaultExtension is appended to every candidate file name.
const DefaultExtension = ".conf"

// Locator finds the site file of a domain inside a configuration directory.
type Locator struct {
	fs        afero.Fs
	extension string
}

// NewLocator returns a Locator reading from fs. An empty extension means DefaultExtension.
func NewLocator(fs afero.Fs, extension string) *Locator {
	if extension == "" {
		extension = DefaultExtension
	}
	return &Locator{fs: fs, extension: extension}
}

// Locate returns the path of the site file for domain inside configDir.
//
// A domain with more than two labels is split into its first label and the
// remaining base domain. The subdomain-qualified file <sub>.<base>.conf wins
// whenever it exists; otherwise <base>.conf is used, and for bare two-label
// domains www.<base>.conf is tried last. The boolean is false when no
// candidate exists.
func (l *Locator) Locate(domain, configDir string) (string, bool) {
	subdomain, base := splitDomain(domain)

	if subdomain != "" {
		if p := l.candidate(configDir, subdomain+"."+base); l.exists(p) {
			return p, true
		}
	}

	if p := l.candidate(configDir, base); l.exists(p) {
		return p, true
	}

	if subdomain == "" {
		if p := l.candidate(configDir, "www."+base); l.exists(p) {
			return p, true
		}
	}

	return "", false
}

func (l *Locator) candidate(configDir, name string) string {
	return filepath.Join(configDir, name+l.extension)
}

// exists treats stat errors as absence; only regular files count.
func (l *Locator) exists(path string) bool {
	info, err := l.fs.Stat(path)
	if err != nil {
		return false
	}
	return info.Mode().IsRegular()
}

// splitDomain splits "sub.example.com" into ("sub", "example.com").
// Two-label domains have no subdomain component.
func splitDomain(domain string) (subdomain, base string) {
	labels := strings.Split(domain, ".")
	if len(labels) <= 2 {
		return "", domain
	}
	return labels[0], strings.Join(labels[1:], ".")
}
