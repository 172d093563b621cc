package controllers

import (
	"io"
	"testing"

	"github.com/dmreyes-dev/partstream-backend/pkg/logger"
)

func testLogger(t *testing.T) *logger.Logger {
	t.Helper()
	return logger.New(logger.Options{ServiceName: "controllers-test", Output: io.Discard})
}
