package common

import (
	"fmt"
	"io"
	"sync"
)

// LogWriter accumulates the outcome of a driver run. It is safe to use from
// the goroutines of a driver serving several queries.
type LogWriter struct {
	mu       sync.Mutex
	errors   []error
	warnings []error
	messages []string
	traces   []string
}

func (w *LogWriter) Err(errs ...error) {
	w.mu.Lock()
	defer w.mu.Unlock()
	for _, err := range errs {
		if err != nil {
			w.errors = append(w.errors, err)
		}
	}
}

func (w *LogWriter) Warn(errs ...error) {
	w.mu.Lock()
	defer w.mu.Unlock()
	for _, err := range errs {
		if err != nil {
			w.warnings = append(w.warnings, err)
		}
	}
}

func (w *LogWriter) Info(msg string) {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.messages = append(w.messages, msg)
}

func (w *LogWriter) Trace(msg string) {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.traces = append(w.traces, msg)
}

func (w *LogWriter) Errors() []error {
	w.mu.Lock()
	defer w.mu.Unlock()
	return append([]error(nil), w.errors...)
}

func (w *LogWriter) Warnings() []error {
	w.mu.Lock()
	defer w.mu.Unlock()
	return append([]error(nil), w.warnings...)
}

func (w *LogWriter) Messages() []string {
	w.mu.Lock()
	defer w.mu.Unlock()
	return append([]string(nil), w.messages...)
}

func (w *LogWriter) Traces() []string {
	w.mu.Lock()
	defer w.mu.Unlock()
	return append([]string(nil), w.traces...)
}

func (w *LogWriter) HasErrors() bool {
	w.mu.Lock()
	defer w.mu.Unlock()
	return len(w.errors) > 0
}

// Flush writes everything collected so far and resets the writer.
func (w *LogWriter) Flush(out io.Writer) {
	w.mu.Lock()
	defer w.mu.Unlock()
	for _, msg := range w.traces {
		_, _ = fmt.Fprintf(out, "trace: %s\n", msg)
	}
	for _, msg := range w.messages {
		_, _ = fmt.Fprintf(out, "%s\n", msg)
	}
	for _, err := range w.warnings {
		_, _ = fmt.Fprintf(out, "warning: %s", withNewline(err.Error()))
	}
	for _, err := range w.errors {
		_, _ = fmt.Fprintf(out, "error: %s", withNewline(err.Error()))
	}
	w.errors = nil
	w.warnings = nil
	w.messages = nil
	w.traces = nil
}

func withNewline(s string) string {
	if len(s) == 0 || s[len(s)-1] != '\n' {
		return s + "\n"
	}
	return s
}
