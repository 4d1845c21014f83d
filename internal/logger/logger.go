// Package logger builds the process logger.
package logger

import (
	"go.uber.org/zap"
)

// New returns a human-readable debug logger in development and a JSON
// production logger otherwise.
func New(env string) (*zap.SugaredLogger, error) {
	var (
		log *zap.Logger
		err error
	)
	switch env {
	case "development":
		log, err = zap.NewDevelopment()
	default:
		log, err = zap.NewProduction()
	}
	if err != nil {
		return nil, err
	}
	return log.Sugar(), nil
}
