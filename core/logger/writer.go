package logger

import (
	"bufio"
	"errors"
	"io"
	"sync"
)

// asyncWriter fans log lines out to several sinks from a single goroutine so
// callers never block on slow file or terminal writes.
type asyncWriter struct {
	lines   chan []byte
	flushes chan chan error
	done    chan struct{}
	closed  sync.Once

	mu    sync.Mutex
	sinks []*bufio.Writer
	err   error
}

func newAsyncWriter(outputs []io.Writer, bufSize int) *asyncWriter {
	if bufSize <= 0 {
		bufSize = 64 * 1024
	}
	w := &asyncWriter{
		lines:   make(chan []byte, 256),
		flushes: make(chan chan error),
		done:    make(chan struct{}),
	}
	for _, out := range outputs {
		if out != nil {
			w.sinks = append(w.sinks, bufio.NewWriterSize(out, bufSize))
		}
	}
	go w.run()
	return w
}

func (w *asyncWriter) run() {
	defer close(w.done)
	for {
		select {
		case line, ok := <-w.lines:
			if !ok {
				w.record(w.flushSinks())
				return
			}
			w.record(w.writeSinks(line))
		case ack := <-w.flushes:
			ack <- w.flushSinks()
		}
	}
}

// Write queues a copy of p. It blocks only when the queue is full.
func (w *asyncWriter) Write(p []byte) error {
	if err := w.firstErr(); err != nil {
		return err
	}
	if len(p) == 0 {
		return nil
	}
	w.lines <- append([]byte(nil), p...)
	return nil
}

// Flush blocks until every queued line reached the sinks.
func (w *asyncWriter) Flush() error {
	select {
	case <-w.done:
		return w.firstErr()
	default:
	}
	ack := make(chan error, 1)
	w.flushes <- ack
	return <-ack
}

// Close drains the queue and returns the first write error seen.
func (w *asyncWriter) Close() error {
	w.closed.Do(func() { close(w.lines) })
	<-w.done
	return w.firstErr()
}

func (w *asyncWriter) writeSinks(p []byte) error {
	w.mu.Lock()
	defer w.mu.Unlock()
	for _, s := range w.sinks {
		if _, err := s.Write(p); err != nil {
			return err
		}
		if err := s.Flush(); err != nil {
			return err
		}
	}
	return nil
}

func (w *asyncWriter) flushSinks() error {
	w.mu.Lock()
	defer w.mu.Unlock()
	var errs []error
	for _, s := range w.sinks {
		if err := s.Flush(); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

func (w *asyncWriter) firstErr() error {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.err
}

func (w *asyncWriter) record(err error) {
	if err == nil {
		return
	}
	w.mu.Lock()
	if w.err == nil {
		w.err = err
	}
	w.mu.Unlock()
}
