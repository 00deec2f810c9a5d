package rlog

import (
	"io"
	"os"
	"path/filepath"

	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"
)

var logger *logrus.Logger

func init() {
	logger = logrus.New()
	logger.SetFormatter(&logrus.TextFormatter{
		FullTimestamp:   true,
		TimestampFormat: "2006-01-02 15:04:05",
	})
	logger.SetOutput(os.Stderr)
	logger.SetLevel(logrus.InfoLevel)
}

// Logger returns the underlying logger
func Logger() *logrus.Logger {
	return logger
}

// SetOutput replaces the destination of the log
func SetOutput(w io.Writer) {
	logger.SetOutput(w)
}

// SetLevel sets the log level by name, unknown names fall back to info
func SetLevel(level string) {
	lv, err := logrus.ParseLevel(level)
	if err != nil {
		lv = logrus.InfoLevel
	}
	logger.SetLevel(lv)
}

// EnableFileLog writes JSON lines to the file of the path and mirrors them to the console
func EnableFileLog(path string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return errors.WithStack(err)
	}
	file, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0644)
	if err != nil {
		return errors.WithStack(err)
	}
	logger.SetFormatter(&logrus.JSONFormatter{
		TimestampFormat: "2006-01-02 15:04:05",
	})
	logger.SetOutput(file)
	logger.AddHook(&consoleHook{w: os.Stderr})
	return nil
}

type consoleHook struct {
	w io.Writer
}

func (hook *consoleHook) Levels() []logrus.Level {
	return logrus.AllLevels
}

func (hook *consoleHook) Fire(entry *logrus.Entry) error {
	line, err := entry.String()
	if err != nil {
		return err
	}
	_, err = hook.w.Write([]byte(line))
	return err
}

// WithFields returns an entry carrying the fields
func WithFields(fields logrus.Fields) *logrus.Entry {
	return logger.WithFields(fields)
}

// Println calls l.Output to print to the logger.
func Println(v ...interface{}) {
	logger.Infoln(v...)
}

// Printf prints a formatted info line
func Printf(format string, v ...interface{}) {
	logger.Infof(format, v...)
}

// Debugln prints at debug level
func Debugln(v ...interface{}) {
	logger.Debugln(v...)
}

// Errorln prints at error level
func Errorln(v ...interface{}) {
	logger.Errorln(v...)
}

// Fatal is equivalent to l.Print() followed by a call to os.Exit(1).
func Fatal(v ...interface{}) {
	logger.Fatal(v...)
}

// Fatalln is equivalent to l.Println() followed by a call to os.Exit(1).
func Fatalln(v ...interface{}) {
	logger.Fatalln(v...)
}
