// Package zapreport adapts a zap logger to a dictionary.Reporter.
package zapreport

import (
	"go.uber.org/zap"

	"github.com/thepudds/dictionary"
)

// New returns a Reporter that logs each message at error level on l with a
// component=dictionary field. If l is nil, zap's global sugared logger is
// used at the time of each report.
func New(l *zap.SugaredLogger) dictionary.Reporter {
	if l != nil {
		l = l.With("component", "dictionary")
	}
	return func(format string, args ...any) {
		logger := l
		if logger == nil {
			logger = zap.S().With("component", "dictionary")
		}
		logger.Errorf(format, args...)
	}
}
