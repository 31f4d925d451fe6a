package logger

import (
	"go.uber.org/zap"
)

// New builds the application logger; production uses the JSON encoder.
func New(production bool) *zap.Logger {
	var (
		log *zap.Logger
		err error
	)
	if production {
		log, err = zap.NewProduction()
	} else {
		log, err = zap.NewDevelopment()
	}
	if err != nil {
		return zap.NewNop()
	}
	return log
}
