// Package alert delivers transient, dismissable messages raised by action
// handlers. Alerts never change what a screen has already rendered.
package alert

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"sync"
)

const (
	// TitleError heads failure alerts.
	TitleError = "Error"
	// TitleSuccess heads confirmation alerts.
	TitleSuccess = "Success"
)

// Alert is a titled one-shot message.
type Alert struct {
	Title   string
	Message string
}

// Errorf builds an error alert.
func Errorf(format string, args ...any) Alert {
	return Alert{Title: TitleError, Message: fmt.Sprintf(format, args...)}
}

// Success builds a confirmation alert.
func Success(message string) Alert {
	return Alert{Title: TitleSuccess, Message: message}
}

// IsError reports whether the alert reports a failure.
func (a Alert) IsError() bool { return a.Title == TitleError }

// Notifier presents alerts to the user.
type Notifier interface {
	Notify(ctx context.Context, a Alert) error
}

// LoggerNotifier writes alerts to the structured logger.
type LoggerNotifier struct {
	logger *slog.Logger
}

// NewLoggerNotifier constructs a logging notifier.
func NewLoggerNotifier(logger *slog.Logger) *LoggerNotifier {
	return &LoggerNotifier{logger: logger}
}

// Notify writes the alert to the structured logger.
func (n *LoggerNotifier) Notify(_ context.Context, a Alert) error {
	if n == nil || n.logger == nil {
		return nil
	}
	n.logger.Info("alert", "title", a.Title, "message", a.Message)
	return nil
}

// WriterNotifier prints alerts as "Title: message" lines.
type WriterNotifier struct {
	mu sync.Mutex
	w  io.Writer
}

// NewWriterNotifier prints to w.
func NewWriterNotifier(w io.Writer) *WriterNotifier {
	return &WriterNotifier{w: w}
}

// Notify prints the alert.
func (n *WriterNotifier) Notify(_ context.Context, a Alert) error {
	n.mu.Lock()
	defer n.mu.Unlock()
	_, err := fmt.Fprintf(n.w, "%s: %s\n", a.Title, a.Message)
	return err
}

// Recorder keeps every alert. Useful for tests.
type Recorder struct {
	mu     sync.Mutex
	alerts []Alert
}

// Notify records the alert.
func (r *Recorder) Notify(_ context.Context, a Alert) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.alerts = append(r.alerts, a)
	return nil
}

// Alerts returns a copy of what was recorded.
func (r *Recorder) Alerts() []Alert {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]Alert(nil), r.alerts...)
}

// Last returns the most recent alert.
func (r *Recorder) Last() (Alert, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if len(r.alerts) == 0 {
		return Alert{}, false
	}
	return r.alerts[len(r.alerts)-1], true
}

// Multi fans an alert out to several notifiers and returns the first error.
type Multi []Notifier

// Notify delivers to every notifier.
func (m Multi) Notify(ctx context.Context, a Alert) error {
	var first error
	for _, n := range m {
		if n == nil {
			continue
		}
		if err := n.Notify(ctx, a); err != nil && first == nil {
			first = err
		}
	}
	return first
}
