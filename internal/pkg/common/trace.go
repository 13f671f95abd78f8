package common

import "fmt"

// Tracer receives debug events from an elaboration run.
type Tracer interface {
	Trace(format string, args ...any)
}

type NopTracer struct{}

func (NopTracer) Trace(string, ...any) {}

type logTracer struct {
	log *LogWriter
}

func NewLogTracer(log *LogWriter) Tracer {
	return logTracer{log: log}
}

func (t logTracer) Trace(format string, args ...any) {
	t.log.Trace(fmt.Sprintf(format, args...))
}
