package resolver

import (
	"github.com/sirupsen/logrus"
	"github.com/spf13/afero"
)

const (
	// ModificationDateLayout matches the output of `stat -c %y`.
	ModificationDateLayout = "2006-01-02 15:04:05.000000000 -0700"
	// UnknownModificationDate is reported when the file cannot be stat'ed.
	UnknownModificationDate = "unknown"
)

// modificationDate returns the formatted mtime of path, or UnknownModificationDate.
func modificationDate(fs afero.Fs, path string, logger logrus.FieldLogger) string {
	info, err := fs.Stat(path)
	if err != nil {
		logger.WithError(err).WithField("path", path).Warn("Unable to retrieve modification date")
		return UnknownModificationDate
	}
	return info.ModTime().Format(ModificationDateLayout)
}
