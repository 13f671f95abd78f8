package common

import (
	"bytes"
	"errors"
	"sync"
	"testing"
)

func TestLogWriterFlush(t *testing.T) {
	log := &LogWriter{}
	NewLogTracer(log).Trace("group %s", "Nat")
	log.Info("checked")
	log.Warn(errors.New("unused"))
	log.Err(nil, errors.New("failed\n"))

	if !log.HasErrors() {
		t.Fatal("HasErrors() = false")
	}
	out := &bytes.Buffer{}
	log.Flush(out)
	want := "trace: group Nat\nchecked\nwarning: unused\nerror: failed\n"
	if out.String() != want {
		t.Errorf("Flush() wrote %q, want %q", out.String(), want)
	}
	if log.HasErrors() || len(log.Messages()) != 0 || len(log.Traces()) != 0 {
		t.Error("Flush() did not reset the writer")
	}
}

func TestLogWriterConcurrent(t *testing.T) {
	log := &LogWriter{}
	wg := sync.WaitGroup{}
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for j := 0; j < 100; j++ {
				log.Err(errors.New("x"))
			}
		}()
	}
	wg.Wait()
	if n := len(log.Errors()); n != 800 {
		t.Errorf("got %d errors, want 800", n)
	}
}
