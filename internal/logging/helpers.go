package logging

import (
	"context"
	"maps"

	"github.com/goliatone/go-quizbox/pkg/interfaces"
)

// WithFields attaches structured fields when the logger supports the
// FieldsLogger extension. Nil loggers and empty maps are returned as is.
func WithFields(logger interfaces.Logger, fields map[string]any) interfaces.Logger {
	if logger == nil || len(fields) == 0 {
		return logger
	}

	if fieldsLogger, ok := logger.(interfaces.FieldsLogger); ok {
		return fieldsLogger.WithFields(maps.Clone(fields))
	}

	return logger
}

// FromContext scopes the logger to ctx and applies any fields previously
// stored with ContextWithFields.
func FromContext(ctx context.Context, logger interfaces.Logger) interfaces.Logger {
	if logger == nil {
		logger = NoOp()
	}
	if ctx == nil {
		return logger
	}
	return WithFields(logger.WithContext(ctx), ContextFields(ctx))
}
