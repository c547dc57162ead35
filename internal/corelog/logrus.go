package corelog

import "github.com/sirupsen/logrus"

// Logrus adapts a *logrus.Logger to the Logger interface. The CLI
// configures it with a text formatter, the daemon with a JSON
// formatter, matching the teacher's split between human-facing and
// machine-facing diagnostic output.
type Logrus struct {
	L *logrus.Logger
}

func NewLogrus(l *logrus.Logger) Logrus { return Logrus{L: l} }

func (lg Logrus) Debugf(format string, args ...interface{}) { lg.L.Debugf(format, args...) }
func (lg Logrus) Infof(format string, args ...interface{})  { lg.L.Infof(format, args...) }
func (lg Logrus) Warnf(format string, args ...interface{})  { lg.L.Warnf(format, args...) }
func (lg Logrus) Errorf(format string, args ...interface{}) { lg.L.Errorf(format, args...) }
