package logging

import (
	"context"
	"strings"

	"github.com/goliatone/go-cms-content/pkg/interfaces"
)

const (
	rootModule      = "cms"
	mappersModule   = "cms.mappers"
	resolversModule = "cms.resolvers"
	routesModule    = "cms.routes"
	persisterModule = "cms.persister"
	commandsModule  = "cms.commands"
)

// ModuleLogger returns the provider logger for module tagged with a
// "module" field. A nil provider yields the no-op logger.
func ModuleLogger(provider interfaces.LoggerProvider, module string) interfaces.Logger {
	module = strings.TrimSpace(module)
	if module == "" {
		module = rootModule
	}
	logger := NoOp()
	if provider != nil {
		if provided := provider.GetLogger(module); provided != nil {
			logger = provided
		}
	}
	return WithFields(logger, map[string]any{"module": module})
}

func MappersLogger(provider interfaces.LoggerProvider) interfaces.Logger {
	return ModuleLogger(provider, mappersModule)
}

func ResolversLogger(provider interfaces.LoggerProvider) interfaces.Logger {
	return ModuleLogger(provider, resolversModule)
}

func RoutesLogger(provider interfaces.LoggerProvider) interfaces.Logger {
	return ModuleLogger(provider, routesModule)
}

func PersisterLogger(provider interfaces.LoggerProvider) interfaces.Logger {
	return ModuleLogger(provider, persisterModule)
}

func CommandsLogger(provider interfaces.LoggerProvider) interfaces.Logger {
	return ModuleLogger(provider, commandsModule)
}

// WithResource tags a logger with the identity of a content dimension.
// Empty values are skipped.
func WithResource(logger interfaces.Logger, resourceKey, resourceID, locale string) interfaces.Logger {
	fields := map[string]any{}
	if v := strings.TrimSpace(resourceKey); v != "" {
		fields["resource_key"] = v
	}
	if v := strings.TrimSpace(resourceID); v != "" {
		fields["resource_id"] = v
	}
	if v := strings.TrimSpace(locale); v != "" {
		fields["locale"] = v
	}
	return WithFields(logger, fields)
}

// NoOp returns a logger that drops every entry.
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

func (n noopLogger) WithFields(map[string]any) interfaces.Logger { return n }

func (n noopLogger) WithContext(context.Context) interfaces.Logger { return n }
