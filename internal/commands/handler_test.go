package commands_test

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/goliatone/go-cms-content/internal/commands"
	"github.com/goliatone/go-cms-content/internal/logging"
	"github.com/goliatone/go-cms-content/pkg/interfaces"
	goerrors "github.com/goliatone/go-errors"
)

type pingCommand struct {
	Target string
}

func (pingCommand) Type() string { return "cms.test.ping" }

func (c pingCommand) Validate() error {
	if c.Target == "" {
		return errors.New("target is required")
	}
	return nil
}

type entry struct {
	level  string
	msg    string
	fields map[string]any
}

type captureLogger struct {
	mu      *sync.Mutex
	entries *[]entry
	fields  map[string]any
}

func newCaptureLogger() *captureLogger {
	return &captureLogger{mu: &sync.Mutex{}, entries: &[]entry{}, fields: map[string]any{}}
}

func (l *captureLogger) record(level, msg string) {
	l.mu.Lock()
	defer l.mu.Unlock()
	*l.entries = append(*l.entries, entry{level: level, msg: msg, fields: l.fields})
}

func (l *captureLogger) Trace(msg string, _ ...any) { l.record("trace", msg) }
func (l *captureLogger) Debug(msg string, _ ...any) { l.record("debug", msg) }
func (l *captureLogger) Info(msg string, _ ...any)  { l.record("info", msg) }
func (l *captureLogger) Warn(msg string, _ ...any)  { l.record("warn", msg) }
func (l *captureLogger) Error(msg string, _ ...any) { l.record("error", msg) }
func (l *captureLogger) Fatal(msg string, _ ...any) { l.record("fatal", msg) }

func (l *captureLogger) WithContext(context.Context) interfaces.Logger { return l }

func (l *captureLogger) WithFields(fields map[string]any) interfaces.Logger {
	merged := map[string]any{}
	for k, v := range l.fields {
		merged[k] = v
	}
	for k, v := range fields {
		merged[k] = v
	}
	return &captureLogger{mu: l.mu, entries: l.entries, fields: merged}
}

func (l *captureLogger) find(msg string) (entry, bool) {
	l.mu.Lock()
	defer l.mu.Unlock()
	for _, e := range *l.entries {
		if e.msg == msg {
			return e, true
		}
	}
	return entry{}, false
}

func TestHandlerExecutesValidMessage(t *testing.T) {
	var got string
	h := commands.NewHandler(func(_ context.Context, msg pingCommand) error {
		got = msg.Target
		return nil
	})

	if err := h.Execute(context.Background(), pingCommand{Target: "articles"}); err != nil {
		t.Fatalf("Execute() error = %v", err)
	}
	if got != "articles" {
		t.Fatalf("expected handler to receive message, got %q", got)
	}
}

func TestHandlerRejectsInvalidMessage(t *testing.T) {
	called := false
	h := commands.NewHandler(func(context.Context, pingCommand) error {
		called = true
		return nil
	})

	err := h.Execute(context.Background(), pingCommand{})
	if !goerrors.IsCategory(err, goerrors.CategoryValidation) {
		t.Fatalf("expected validation category, got %v", err)
	}
	if called {
		t.Fatal("handler ran for an invalid message")
	}
}

func TestHandlerStopsOnCancelledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	called := false
	h := commands.NewHandler(func(context.Context, pingCommand) error {
		called = true
		return nil
	})

	err := h.Execute(ctx, pingCommand{Target: "x"})
	if !goerrors.IsCategory(err, goerrors.CategoryCommand) {
		t.Fatalf("expected command category, got %v", err)
	}
	if !errors.Is(err, context.Canceled) {
		t.Fatalf("expected context.Canceled to stay reachable, got %v", err)
	}
	if called {
		t.Fatal("handler ran with a cancelled context")
	}
}

func TestHandlerTimeout(t *testing.T) {
	h := commands.NewHandler(func(ctx context.Context, _ pingCommand) error {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(time.Second):
			return nil
		}
	}, commands.WithTimeout[pingCommand](5*time.Millisecond))

	err := h.Execute(context.Background(), pingCommand{Target: "x"})
	if !errors.Is(err, context.DeadlineExceeded) {
		t.Fatalf("expected deadline exceeded, got %v", err)
	}
	if !goerrors.IsCategory(err, goerrors.CategoryCommand) {
		t.Fatalf("expected command category, got %v", err)
	}
}

func TestHandlerWrapsPlainErrors(t *testing.T) {
	boom := errors.New("boom")
	h := commands.NewHandler(func(context.Context, pingCommand) error { return boom })

	err := h.Execute(context.Background(), pingCommand{Target: "x"})
	if !goerrors.IsCategory(err, goerrors.CategoryCommand) {
		t.Fatalf("expected command category, got %v", err)
	}
	if !errors.Is(err, boom) {
		t.Fatalf("expected cause to stay reachable, got %v", err)
	}
}

func TestHandlerKeepsServiceCategories(t *testing.T) {
	serviceErr := goerrors.Wrap(errors.New("missing"), goerrors.CategoryNotFound, "content not found")
	h := commands.NewHandler(func(context.Context, pingCommand) error { return serviceErr })

	err := h.Execute(context.Background(), pingCommand{Target: "x"})
	if !goerrors.IsCategory(err, goerrors.CategoryNotFound) {
		t.Fatalf("expected not found category to pass through, got %v", err)
	}
}

func TestHandlerLogsWithContextFields(t *testing.T) {
	logger := newCaptureLogger()
	h := commands.NewHandler(func(context.Context, pingCommand) error { return nil },
		commands.WithLogger[pingCommand](logger),
		commands.WithOperation[pingCommand]("ping"),
	)

	ctx := logging.ContextWithFields(context.Background(), map[string]any{"request_id": "r-1"})
	if err := h.Execute(ctx, pingCommand{Target: "x"}); err != nil {
		t.Fatalf("Execute() error = %v", err)
	}

	success, ok := logger.find("command.execute.success")
	if !ok {
		t.Fatal("expected success entry")
	}
	if success.fields["command"] != "cms.test.ping" || success.fields["operation"] != "ping" || success.fields["request_id"] != "r-1" {
		t.Fatalf("unexpected fields: %v", success.fields)
	}
}

func TestHandlerLogsFailures(t *testing.T) {
	logger := newCaptureLogger()
	h := commands.NewHandler(func(context.Context, pingCommand) error { return errors.New("boom") },
		commands.WithLogger[pingCommand](logger),
	)

	_ = h.Execute(context.Background(), pingCommand{Target: "x"})
	failed, ok := logger.find("command.execute.failed")
	if !ok || failed.level != "error" {
		t.Fatalf("expected error entry, got %+v", failed)
	}
	if _, ok := logger.find("command.execute.success"); ok {
		t.Fatal("unexpected success entry")
	}
}

func TestNewHandlerPanicsOnNilFunc(t *testing.T) {
	defer func() {
		if recover() == nil {
			t.Fatal("expected panic")
		}
	}()
	commands.NewHandler[pingCommand](nil)
}
