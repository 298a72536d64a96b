package dictionary

import (
	"fmt"
	"log/slog"
	"os"
	"sync"
)

// Reporter is called with a printf-style message for every invalid input and
// every refused allocation. It is observational only: the operation that
// reports decides its own return value regardless of what the Reporter does.
type Reporter func(format string, args ...any)

var (
	reporterMu sync.RWMutex
	reporter   = SlogReporter(slog.New(slog.NewTextHandler(os.Stderr, nil)))
)

// SetReporter replaces the process-wide Reporter used by tables created
// without WithReporter, and for calls on a nil *Table. The last non-nil
// Reporter installed wins; a nil Reporter is ignored.
func SetReporter(r Reporter) {
	if r == nil {
		return
	}
	reporterMu.Lock()
	reporter = r
	reporterMu.Unlock()
}

// CurrentReporter returns the process-wide Reporter.
func CurrentReporter() Reporter {
	reporterMu.RLock()
	defer reporterMu.RUnlock()
	return reporter
}

// SlogReporter returns a Reporter that logs each formatted message at error
// level on l, tagged with component=dictionary.
// If l is nil, slog.Default() is used.
func SlogReporter(l *slog.Logger) Reporter {
	if l == nil {
		l = slog.Default()
	}
	l = l.With("component", "dictionary")
	return func(format string, args ...any) {
		l.Error(fmt.Sprintf(format, args...))
	}
}

// reportf sends a message to t's own Reporter, or the process-wide one.
// It is safe to call on a nil *Table.
func (t *Table) reportf(format string, args ...any) {
	r := CurrentReporter()
	if t != nil && t.reporter != nil {
		r = t.reporter
	}
	r(format, args...)
}
