package logger

import (
	"github.com/rollbar/rollbar-go"
	"go.uber.org/zap"
)

// Reporter forwards unexpected errors to an external tracker.
type Reporter interface {
	Report(err error, extras map[string]interface{})
	Close()
}

type RollbarReporter struct {
	log *zap.Logger
}

// NewReporter returns a Rollbar-backed reporter, disabled when token is empty.
func NewReporter(log *zap.Logger, token, env string) *RollbarReporter {
	rollbar.SetToken(token)
	rollbar.SetEnvironment(env)
	rollbar.SetEnabled(token != "")
	if token == "" {
		log.Info("rollbar disabled, errors are only logged")
	}
	return &RollbarReporter{log: log}
}

func (r *RollbarReporter) Report(err error, extras map[string]interface{}) {
	if err == nil {
		return
	}
	fields := make([]zap.Field, 0, len(extras)+1)
	fields = append(fields, zap.Error(err))
	for k, v := range extras {
		fields = append(fields, zap.Any(k, v))
	}
	r.log.Error("unexpected error", fields...)
	rollbar.Error(err, extras)
}

// Close flushes queued items.
func (r *RollbarReporter) Close() {
	rollbar.Close()
}
