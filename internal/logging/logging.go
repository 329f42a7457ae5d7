// Package logging builds the process logger shared by every component.
package logging

import (
	"io"
	"os"
	"time"

	"github.com/sirupsen/logrus"
)

// New returns a JSON logrus logger writing to stdout at the given level.
// Unknown levels fall back to info.
func New(level, component string) *logrus.Logger {
	return NewWithWriter(os.Stdout, level, component)
}

// NewWithWriter is New with an explicit output.
func NewWithWriter(w io.Writer, level, component string) *logrus.Logger {
	log := logrus.New()
	log.Out = w
	log.Formatter = &logrus.JSONFormatter{
		FieldMap: logrus.FieldMap{
			logrus.FieldKeyTime:  "timestamp",
			logrus.FieldKeyLevel: "severity",
			logrus.FieldKeyMsg:   "message",
		},
		TimestampFormat: time.RFC3339Nano,
	}
	lvl, err := logrus.ParseLevel(level)
	if err != nil {
		lvl = logrus.InfoLevel
	}
	log.Level = lvl
	if component != "" {
		log.AddHook(componentHook(component))
	}
	return log
}

// Discard returns a logger that drops everything; handy for tests and optional deps.
func Discard() *logrus.Logger {
	log := logrus.New()
	log.Out = io.Discard
	return log
}

type componentHook string

func (h componentHook) Levels() []logrus.Level { return logrus.AllLevels }

func (h componentHook) Fire(e *logrus.Entry) error {
	if _, ok := e.Data["component"]; !ok {
		e.Data["component"] = string(h)
	}
	return nil
}
