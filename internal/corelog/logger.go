// Package corelog defines the small logging interface the core engine
// depends on, so that it never ties itself to a concrete sink. The CLI
// and daemon entry points supply a logrus-backed implementation.
package corelog

// Logger is the minimal leveled-logging surface the core uses: printf-style
// methods only, matching the corresponding logrus methods without
// requiring the core to import logrus directly.
type Logger interface {
	Debugf(format string, args ...interface{})
	Infof(format string, args ...interface{})
	Warnf(format string, args ...interface{})
	Errorf(format string, args ...interface{})
}

// Nop is a Logger that discards everything, used by callers (and tests)
// that don't care about log output.
type Nop struct{}

func (Nop) Debugf(string, ...interface{}) {}
func (Nop) Infof(string, ...interface{})  {}
func (Nop) Warnf(string, ...interface{})  {}
func (Nop) Errorf(string, ...interface{}) {}
