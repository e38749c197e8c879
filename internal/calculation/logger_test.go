package calculation

import (
	"fmt"
	"testing"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
)

var _ Logger = (*logrus.Logger)(nil)

type recordingLogger struct {
	debug, info, warn, errs []string
}

func (r *recordingLogger) Debugf(format string, args ...any) {
	r.debug = append(r.debug, fmt.Sprintf(format, args...))
}

func (r *recordingLogger) Infof(format string, args ...any) {
	r.info = append(r.info, fmt.Sprintf(format, args...))
}

func (r *recordingLogger) Warnf(format string, args ...any) {
	r.warn = append(r.warn, fmt.Sprintf(format, args...))
}

func (r *recordingLogger) Errorf(format string, args ...any) {
	r.errs = append(r.errs, fmt.Sprintf(format, args...))
}

func TestWithPrefix(t *testing.T) {
	assert.Equal(t, NopLogger{}, withPrefix(NopLogger{}, "x: "))

	rl := &recordingLogger{}
	l := withPrefix(rl, "plan A: ")
	l.Infof("%d scenarios", 3)
	l.Errorf("boom")
	assert.Equal(t, []string{"plan A: 3 scenarios"}, rl.info)
	assert.Equal(t, []string{"plan A: boom"}, rl.errs)
}

func TestSetLoggerNilRestoresNop(t *testing.T) {
	sim, err := NewSimulator(smallParameters(1, 1), WithLogger(&recordingLogger{}))
	assert.NoError(t, err)
	sim.SetLogger(nil)
	assert.Equal(t, NopLogger{}, sim.logger)
}
