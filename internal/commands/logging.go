package commands

import (
	"strings"

	"github.com/goliatone/go-quizbox/internal/logging"
	"github.com/goliatone/go-quizbox/pkg/interfaces"
)

// CommandLogger returns a logger for the named command module, tagged with
// the component and module fields.
func CommandLogger(provider interfaces.LoggerProvider, module string) interfaces.Logger {
	name := strings.TrimSpace(module)
	if name == "" {
		name = "core"
	}
	return logging.WithFields(logging.CommandsLogger(provider), map[string]any{
		"component":      "command",
		"command_module": name,
	})
}
