package calculation

// Logger is a minimal logging interface for the simulation engine.
// *logrus.Logger satisfies it; the default is a no-op.
type Logger interface {
	Debugf(format string, args ...any)
	Infof(format string, args ...any)
	Warnf(format string, args ...any)
	Errorf(format string, args ...any)
}

// NopLogger implements Logger with no output.
type NopLogger struct{}

func (NopLogger) Debugf(format string, args ...any) {}
func (NopLogger) Infof(format string, args ...any)  {}
func (NopLogger) Warnf(format string, args ...any)  {}
func (NopLogger) Errorf(format string, args ...any) {}

// prefixLogger tags every message with a fixed prefix, e.g. the plan being simulated
type prefixLogger struct {
	prefix string
	next   Logger
}

func withPrefix(l Logger, prefix string) Logger {
	if _, ok := l.(NopLogger); ok {
		return l
	}
	return prefixLogger{prefix: prefix, next: l}
}

func (p prefixLogger) Debugf(format string, args ...any) { p.next.Debugf(p.prefix+format, args...) }
func (p prefixLogger) Infof(format string, args ...any)  { p.next.Infof(p.prefix+format, args...) }
func (p prefixLogger) Warnf(format string, args ...any)  { p.next.Warnf(p.prefix+format, args...) }
func (p prefixLogger) Errorf(format string, args ...any) { p.next.Errorf(p.prefix+format, args...) }
