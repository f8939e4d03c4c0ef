// Package logging configures the logrus logger shared by every mode.
package logging

import (
	"io"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
)

// New returns a logger writing text lines to w at level (debug, info, warn,
// error; unknown values fall back to warn). Every entry carries a run id.
func New(w io.Writer, level string) logrus.FieldLogger {
	l := logrus.New()
	l.SetOutput(w)
	l.SetFormatter(&logrus.TextFormatter{
		DisableTimestamp: false,
		FullTimestamp:    true,
		TimestampFormat:  "15:04:05.000",
	})
	lvl, err := logrus.ParseLevel(level)
	if err != nil {
		lvl = logrus.WarnLevel
	}
	l.SetLevel(lvl)
	return l.WithField("run", uuid.NewString()[:8])
}
