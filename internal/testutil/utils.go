package testutil

import (
	"io"
	"os"
	"testing"

	"github.com/sirupsen/logrus"
)

// TestLogger returns a logger that writes to stdout for the duration of
// the test. Set ROOMCAL_TEST_QUIET to discard output.
func TestLogger(t *testing.T) *logrus.Logger {
	logger := logrus.New()
	logger.SetOutput(os.Stdout)
	logger.SetLevel(logrus.DebugLevel)
	logger.SetFormatter(&logrus.TextFormatter{DisableTimestamp: true})
	if os.Getenv("ROOMCAL_TEST_QUIET") != "" {
		logger.SetOutput(io.Discard)
	}

	t.Cleanup(func() {
		logger.SetOutput(io.Discard)
	})
	return logger
}
