package logging

import (
	"bytes"
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSetup_RequiresConsole(t *testing.T) {
	_, err := Setup(Config{})
	assert.ErrorIs(t, err, ErrConsoleRequired)
}

func TestSetup_InteractiveWithSyslog(t *testing.T) {
	var console bytes.Buffer
	w := &fakeSyslog{}
	var dialedTag string

	loggers, err := Setup(Config{
		Program:     "bbb-playback-capture-wrapper",
		RunID:       "01TEST",
		Console:     &console,
		Interactive: true,
		Hostname:    "bbb",
		DialSyslog: func(tag string) (SyslogWriter, error) {
			dialedTag = tag
			return w, nil
		},
	})
	require.NoError(t, err)
	assert.Equal(t, "bbb-playback-capture-wrapper", dialedTag)
	assert.NoError(t, loggers.SyslogErr)

	loggers.Logger.Info("Container runtime exited", "exit_code", 0)
	loggers.Audit.Info("Privilege check passed", "audit_type", "privilege_check")

	assert.Equal(t, "bbb-playback-capture-wrapper: Container runtime exited exit_code=0\n", console.String())

	msgs := w.messages()
	require.Len(t, msgs, 2)
	assert.Contains(t, msgs[0], "run_id=01TEST")
	assert.Contains(t, msgs[0], "hostname=bbb")
	assert.Contains(t, msgs[1], "audit_type=privilege_check")
	assert.NotContains(t, console.String(), "Privilege check passed")

	require.NoError(t, loggers.Close())
	assert.True(t, w.closed)
}

func TestSetup_NonInteractiveWithoutSyslog(t *testing.T) {
	var console bytes.Buffer
	dialErr := errors.New("dial unix /dev/log: no such file or directory")

	loggers, err := Setup(Config{
		Program: "bbb-playback-capture-wrapper",
		RunID:   "01TEST",
		Console: &console,
		DialSyslog: func(string) (SyslogWriter, error) {
			return nil, dialErr
		},
	})
	require.NoError(t, err)
	assert.ErrorIs(t, loggers.SyslogErr, dialErr)

	loggers.Logger.Error("Container runtime exited", "exit_code", 3)
	loggers.Audit.Info("Privilege check passed")

	out := console.String()
	assert.Equal(t, 1, strings.Count(out, "\n"))
	assert.Contains(t, out, `level=ERROR msg="Container runtime exited" run_id=01TEST exit_code=3`)
	assert.NoError(t, loggers.Close())
}

func TestSetup_SyslogDisabled(t *testing.T) {
	var console bytes.Buffer
	loggers, err := Setup(Config{Console: &console, Interactive: true})
	require.NoError(t, err)

	loggers.Audit.Error("discarded")
	assert.Empty(t, console.String())
	assert.NoError(t, loggers.SyslogErr)
}

func TestHostname(t *testing.T) {
	orig := osHostname
	t.Cleanup(func() { osHostname = orig })

	osHostname = func() (string, error) { return "bbb-host", nil }
	assert.Equal(t, "bbb-host", Hostname())

	osHostname = func() (string, error) { return "", errors.New("uname failed") }
	assert.Equal(t, UnknownHostFallback, Hostname())
}

func TestGenerateRunID(t *testing.T) {
	a := GenerateRunID()
	b := GenerateRunID()
	assert.Len(t, a, 26)
	assert.NotEqual(t, a, b)
}
