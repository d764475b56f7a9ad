package logger

import (
	"os"

	"go.uber.org/zap"
)

// New builds the process logger. Production config unless APP_ENV is
// "development".
func New() *zap.Logger {
	var log *zap.Logger
	var err error
	if os.Getenv("APP_ENV") == "development" {
		log, err = zap.NewDevelopment()
	} else {
		log, err = zap.NewProduction()
	}
	if err != nil {
		panic(err)
	}
	return log
}
