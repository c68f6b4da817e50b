package testutil

import (
	"github.com/dtroode/furniture-server/internal/logger"
)

func MakeNoopLogger() *logger.Logger {
	return logger.NewNop()
}
