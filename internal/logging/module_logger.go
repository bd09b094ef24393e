package logging

import (
	"context"
	"strings"

	"github.com/goliatone/go-quizbox/pkg/interfaces"
)

const (
	rootModule     = "quizbox"
	bulkModule     = "quizbox.bulk"
	catalogModule  = "quizbox.catalog"
	commandsModule = "quizbox.commands"
)

const (
	fieldContentKind = "content_kind"
	fieldBulkAction  = "bulk_action"
	fieldBatchSize   = "batch_size"
)

// ModuleLogger returns a module-scoped logger, defaulting to a no-op
// implementation when no provider is supplied. The module identifier is
// attached as a structured field so entries can be filtered per module.
func ModuleLogger(provider interfaces.LoggerProvider, module string) interfaces.Logger {
	if module = strings.TrimSpace(module); module == "" {
		module = rootModule
	}

	logger := NoOp()
	if provider != nil {
		if provided := provider.GetLogger(module); provided != nil {
			logger = provided
		}
	}

	return WithFields(logger, map[string]any{
		"module": module,
	})
}

// BulkLogger returns the logger namespace reserved for bulk status workflows.
func BulkLogger(provider interfaces.LoggerProvider) interfaces.Logger {
	return ModuleLogger(provider, bulkModule)
}

// CatalogLogger returns the logger namespace reserved for catalog storage.
func CatalogLogger(provider interfaces.LoggerProvider) interfaces.Logger {
	return ModuleLogger(provider, catalogModule)
}

// CommandsLogger returns the logger namespace reserved for command handlers.
func CommandsLogger(provider interfaces.LoggerProvider) interfaces.Logger {
	return ModuleLogger(provider, commandsModule)
}

// WithBulkContext enriches the logger with the kind, action and batch size of
// a bulk request. Empty values are ignored.
func WithBulkContext(logger interfaces.Logger, kind, action string, size int) interfaces.Logger {
	fields := map[string]any{}
	if trimmed := strings.TrimSpace(kind); trimmed != "" {
		fields[fieldContentKind] = trimmed
	}
	if trimmed := strings.TrimSpace(action); trimmed != "" {
		fields[fieldBulkAction] = trimmed
	}
	if size > 0 {
		fields[fieldBatchSize] = size
	}
	return WithFields(logger, fields)
}

// NoOp returns a logger that drops every log entry.
func NoOp() interfaces.Logger {
	return noopLogger{}
}

type noopLogger struct{}

var _ interfaces.Logger = noopLogger{}

func (noopLogger) Trace(string, ...any) {}
func (noopLogger) Debug(string, ...any) {}
func (noopLogger) Info(string, ...any)  {}
func (noopLogger) Warn(string, ...any)  {}
func (noopLogger) Error(string, ...any) {}
func (noopLogger) Fatal(string, ...any) {}

func (n noopLogger) WithFields(map[string]any) interfaces.Logger {
	return n
}

func (n noopLogger) WithContext(context.Context) interfaces.Logger {
	return n
}
