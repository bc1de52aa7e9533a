package commands

import "errors"

// Registry records command handlers so hosts can expose them via CLI or cron.
type Registry interface {
	RegisterCommand(handler any) error
}

// Dispatcher subscribes command handlers to a message bus.
type Dispatcher interface {
	RegisterCommand(handler any) (Subscription, error)
}

// Subscription releases a dispatcher subscription.
type Subscription interface {
	Unsubscribe()
}

// RegistrationOptions selects the integrations handlers are registered with.
type RegistrationOptions struct {
	Registry   Registry
	Dispatcher Dispatcher
}

// RegistrationResult lists the registered handlers and subscriptions.
type RegistrationResult struct {
	Handlers      []any
	Subscriptions []Subscription
}

// Register hands every non-nil handler to the configured integrations.
// Registration continues past failures and the errors are joined.
func Register(opts RegistrationOptions, handlers ...any) (*RegistrationResult, error) {
	result := &RegistrationResult{
		Handlers:      make([]any, 0, len(handlers)),
		Subscriptions: make([]Subscription, 0),
	}
	var errs error
	for _, handler := range handlers {
		if handler == nil {
			continue
		}
		result.Handlers = append(result.Handlers, handler)
		if opts.Registry != nil {
			if err := opts.Registry.RegisterCommand(handler); err != nil {
				errs = errors.Join(errs, err)
			}
		}
		if opts.Dispatcher != nil {
			subscription, err := opts.Dispatcher.RegisterCommand(handler)
			if err != nil {
				errs = errors.Join(errs, err)
			} else if subscription != nil {
				result.Subscriptions = append(result.Subscriptions, subscription)
			}
		}
	}
	return result, errs
}
