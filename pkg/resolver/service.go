// Package resolver turns a domain name into the parsed nginx site
// configuration that serves it.
package resolver

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/spf13/afero"

	"github.com/mohammedhabas11/vhost-inspector/pkg/vhost"
)

var (
	// ErrInvalidDomain is returned for input rejected by vhost.IsValidDomain.
	ErrInvalidDomain = errors.New("invalid domain")
	// ErrNotFound covers a missing, unreadable or unparsable site file.
	ErrNotFound = errors.New("domain was not found on proxy server")
)

// ConfigDirFunc returns the directory currently holding the site files.
type ConfigDirFunc func() string

// Service resolves domains against the site files of one nginx instance.
type Service struct {
	fs        afero.Fs
	locator   *vhost.Locator
	configDir ConfigDirFunc
	logger    logrus.FieldLogger
	metrics   *Metrics
}

// Options configures a Service. Metrics may be nil.
type Options struct {
	ConfigDir ConfigDirFunc
	Extension string
	Logger    logrus.FieldLogger
	Metrics   *Metrics
}

// NewService creates a Service reading site files from fs.
func NewService(fs afero.Fs, opts Options) *Service {
	logger := opts.Logger
	if logger == nil {
		logger = logrus.StandardLogger()
	}
	return &Service{
		fs:        fs,
		locator:   vhost.NewLocator(fs, opts.Extension),
		configDir: opts.ConfigDir,
		logger:    logger.WithField("component", "resolver"),
		metrics:   opts.Metrics,
	}
}

// Resolve validates domain, locates and parses its site file and attaches
// the file's modification date and raw contents.
//
// Errors match ErrInvalidDomain or ErrNotFound via errors.Is. Read and parse
// failures of a located file are logged and reported as ErrNotFound. Any
// other error, such as a cancelled ctx, is an internal failure.
func (s *Service) Resolve(ctx context.Context, domain string) (result *vhost.ParseResult, err error) {
	start := time.Now()
	defer func() {
		s.metrics.observe(outcomeOf(err), start)
	}()

	if !vhost.IsValidDomain(domain) {
		return nil, ErrInvalidDomain
	}

	log := s.logger.WithField("domain", domain)

	path, ok := s.locator.Locate(domain, s.configDir())
	if !ok {
		log.Debug("No site file found")
		return nil, ErrNotFound
	}
	log = log.WithField("path", path)

	if err := ctx.Err(); err != nil {
		return nil, fmt.Errorf("resolving %s: %w", domain, err)
	}

	contents, err := afero.ReadFile(s.fs, path)
	if err != nil {
		log.WithError(err).Error("Failed to read site file")
		return nil, fmt.Errorf("%w: reading %s: %v", ErrNotFound, path, err)
	}
	modified := modificationDate(s.fs, path, log)

	blocks, err := vhost.Parse(string(contents))
	if err != nil {
		if errors.Is(err, vhost.ErrNoServerBlock) {
			log.Info("Site file has no server block")
		} else {
			log.WithError(err).Error("Failed to parse site file")
		}
		return nil, fmt.Errorf("%w: parsing %s: %v", ErrNotFound, path, err)
	}

	log.WithField("blocks", len(blocks)).Debug("Resolved site configuration")
	return &vhost.ParseResult{
		Blocks:           blocks,
		ModificationDate: modified,
		RawContents:      string(contents),
	}, nil
}

func outcomeOf(err error) string {
	switch {
	case err == nil:
		return outcomeFound
	case errors.Is(err, ErrInvalidDomain):
		return outcomeInvalidDomain
	case errors.Is(err, ErrNotFound):
		return outcomeNotFound
	default:
		return outcomeError
	}
}
