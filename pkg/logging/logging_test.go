/*
Author: KleaSCM
Email: KleaSCM@gmail.com
File: logging_test.go
Description: Unit tests for the Liora logging system. Covers configuration
validation, logger construction, file output, and the custom formatter's
stable field ordering.
*/

package logging

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoggerConfigValidate(t *testing.T) {
	valid := &LoggerConfig{Level: LogLevelInfo, Format: LogFormatText}
	assert.NoError(t, valid.Validate())

	badFormat := &LoggerConfig{Level: LogLevelInfo, Format: "xml"}
	assert.Error(t, badFormat.Validate())

	badLevel := &LoggerConfig{Level: "loud", Format: LogFormatJSON}
	assert.Error(t, badLevel.Validate())
}

func TestNewLoggerDefaults(t *testing.T) {
	l, err := NewLogger(nil)
	require.NoError(t, err)
	defer l.Close()

	assert.Equal(t, logrus.InfoLevel, l.GetLogger().GetLevel())
}

func TestNewLoggerConsoleOnly(t *testing.T) {
	l, err := NewLogger(&LoggerConfig{
		Level:  LogLevelDebug,
		Format: LogFormatCustom,
	})
	require.NoError(t, err)
	defer l.Close()

	assert.Equal(t, logrus.DebugLevel, l.GetLogger().GetLevel())
	assert.Nil(t, l.fileHandle)
}

func TestNewLoggerFileOutput(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "logs")
	l, err := NewLogger(&LoggerConfig{
		Level:     LogLevelInfo,
		Format:    LogFormatJSON,
		OutputDir: dir,
	})
	require.NoError(t, err)
	defer l.Close()

	l.Info("hello", map[string]interface{}{"answer": 42})

	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.Contains(t, entries[0].Name(), "liora_")

	data, err := os.ReadFile(filepath.Join(dir, entries[0].Name()))
	require.NoError(t, err)
	assert.Contains(t, string(data), "hello")
}

func TestNewLoggerBadFormat(t *testing.T) {
	_, err := NewLogger(&LoggerConfig{Level: LogLevelInfo, Format: "xml"})
	assert.Error(t, err)
}

func TestCustomFormatterStableFields(t *testing.T) {
	f := &CustomFormatter{Timestamp: false, Colors: false}
	entry := &logrus.Entry{
		Logger:  logrus.New(),
		Level:   logrus.InfoLevel,
		Message: "Query executed",
		Data: logrus.Fields{
			"zeta":     "last",
			"alpha":    "first",
			"duration": 1500 * time.Millisecond,
			"prob":     0.2841718,
		},
	}

	out, err := f.Format(entry)
	require.NoError(t, err)
	line := string(out)
	assert.Equal(t, "INFO Query executed alpha=first duration=1.5s prob=0.284172 zeta=last\n", line)
}

func TestCustomFormatterTruncatesLongStrings(t *testing.T) {
	f := &CustomFormatter{Colors: false}
	long := ""
	for i := 0; i < 10; i++ {
		long += "0123456789"
	}
	entry := &logrus.Entry{
		Logger:  logrus.New(),
		Level:   logrus.DebugLevel,
		Message: "m",
		Data:    logrus.Fields{"s": long},
	}
	out, err := f.Format(entry)
	require.NoError(t, err)
	assert.Contains(t, string(out), "...")
	assert.NotContains(t, string(out), long)
}
