package commands

import (
	"context"
	"time"

	command "github.com/goliatone/go-command"
	"github.com/goliatone/go-quizbox/internal/logging"
	"github.com/goliatone/go-quizbox/pkg/interfaces"
)

// HandlerOption configures a Handler or QueryHandler.
type HandlerOption[T command.Message] func(*handlerConfig[T])

type handlerConfig[T command.Message] struct {
	logger    interfaces.Logger
	timeout   time.Duration
	operation string
	telemetry Telemetry[T]
}

func newHandlerConfig[T command.Message](opts []HandlerOption[T]) handlerConfig[T] {
	cfg := handlerConfig[T]{
		logger:  logging.NoOp(),
		timeout: DefaultCommandTimeout,
	}
	for _, opt := range opts {
		if opt != nil {
			opt(&cfg)
		}
	}
	return cfg
}

// Handler wraps command execution with validation, timeout, logging and
// error categorisation. It satisfies command.Commander[T].
type Handler[T command.Message] struct {
	exec command.CommandFunc[T]
	cfg  handlerConfig[T]
}

var _ command.Commander[command.Message] = (*Handler[command.Message])(nil)

// NewHandler wraps fn. It panics when fn is nil.
func NewHandler[T command.Message](fn command.CommandFunc[T], opts ...HandlerOption[T]) *Handler[T] {
	if fn == nil {
		panic("commands: handler function cannot be nil")
	}
	return &Handler[T]{exec: fn, cfg: newHandlerConfig(opts)}
}

// Execute validates msg, applies the timeout and delegates to the wrapped
// function. Returned errors are categorised with go-errors.
func (h *Handler[T]) Execute(ctx context.Context, msg T) error {
	_, err := run(ctx, h.cfg, msg, true, func(ctx context.Context, msg T) (struct{}, error) {
		return struct{}{}, h.exec(ctx, msg)
	})
	return err
}

// QueryHandler is the result-returning sibling of Handler. It applies the same
// validation, timeout and logging concerns.
type QueryHandler[T command.Message, R any] struct {
	exec func(context.Context, T) (R, error)
	cfg  handlerConfig[T]
}

// NewQueryHandler wraps fn. It panics when fn is nil.
func NewQueryHandler[T command.Message, R any](fn func(context.Context, T) (R, error), opts ...HandlerOption[T]) *QueryHandler[T, R] {
	if fn == nil {
		panic("commands: query function cannot be nil")
	}
	return &QueryHandler[T, R]{exec: fn, cfg: newHandlerConfig(opts)}
}

// Query runs the wrapped function and returns its result. A result produced
// before a late deadline is returned without a context error.
func (h *QueryHandler[T, R]) Query(ctx context.Context, msg T) (R, error) {
	return run(ctx, h.cfg, msg, false, h.exec)
}

func run[T command.Message, R any](ctx context.Context, cfg handlerConfig[T], msg T, checkAfter bool, fn func(context.Context, T) (R, error)) (R, error) {
	var zero R
	if err := command.ValidateMessage(msg); err != nil {
		return zero, WrapValidationError(err)
	}

	ctx, cancel := WithCommandTimeout(EnsureContext(ctx), cfg.timeout)
	defer cancel()

	if err := ctx.Err(); err != nil {
		return zero, WrapContextError(err)
	}

	fields := map[string]any{
		"command": command.GetMessageType(msg),
	}
	if cfg.operation != "" {
		fields["operation"] = cfg.operation
	}
	logger := logging.WithFields(logging.FromContext(ctx, cfg.logger), fields)
	logger.Debug("command.execute.start")

	started := time.Now()
	result, err := fn(ctx, msg)
	status := TelemetryStatusSuccess
	switch {
	case err != nil:
		status = TelemetryStatusFailed
		err = WrapExecuteError(err)
	case checkAfter && ctx.Err() != nil:
		status = TelemetryStatusContextError
		err = WrapContextError(ctx.Err())
	}

	telemetry := cfg.telemetry
	if telemetry == nil {
		telemetry = DefaultTelemetry[T](logger)
	}
	telemetry(ctx, msg, TelemetryInfo{
		Command:   command.GetMessageType(msg),
		Operation: cfg.operation,
		Duration:  time.Since(started),
		Error:     err,
		Status:    status,
		Logger:    logger,
	})

	if err != nil {
		return zero, err
	}
	return result, nil
}

// WithTimeout overrides the default execution timeout. Zero or negative
// disables the timeout.
func WithTimeout[T command.Message](timeout time.Duration) HandlerOption[T] {
	return func(cfg *handlerConfig[T]) {
		cfg.timeout = max(timeout, 0)
	}
}

// WithLogger injects the logger used during execution.
func WithLogger[T command.Message](logger interfaces.Logger) HandlerOption[T] {
	return func(cfg *handlerConfig[T]) {
		cfg.logger = EnsureLogger(logger)
	}
}

// WithOperation sets the operation name emitted with every log entry.
func WithOperation[T command.Message](operation string) HandlerOption[T] {
	return func(cfg *handlerConfig[T]) {
		cfg.operation = operation
	}
}

// WithTelemetry replaces the default outcome logging callback.
func WithTelemetry[T command.Message](telemetry Telemetry[T]) HandlerOption[T] {
	return func(cfg *handlerConfig[T]) {
		cfg.telemetry = telemetry
	}
}
