package dlog

// Wrap a console writer to buffer writes, yet flush in a timely,
// deterministic fashion, either buffering up to n bytes, or for up to t,
// whichever comes first.

import (
	"bufio"
	"io"
	"sync"
	"time"
)

// Console is a buffered writer for log output.  A zero buffer size makes it
// a pass-through to the base writer.
type Console struct {
	mu               sync.Mutex
	wr               io.Writer
	bufferSize       int
	maxFlushInterval time.Duration
	baseWr           io.Writer

	done chan struct{}
}

// NewConsole wraps baseWr.  When bufferSize is positive, writes are held in
// a buffer of that size and flushed at least every maxFlushInterval (if
// positive), or when the buffer fills up, or on Flush / Close.
func NewConsole(
	baseWr io.Writer,
	bufferSize int,
	maxFlushInterval time.Duration) *Console {

	return &Console{
		baseWr:           baseWr,
		bufferSize:       bufferSize,
		maxFlushInterval: maxFlushInterval,
		done:             make(chan struct{}),
	}
}

func (cb *Console) Flush() error {
	type flusher interface {
		Flush() error
	}
	cb.mu.Lock()
	defer cb.mu.Unlock()
	if fwr, ok := cb.wr.(flusher); ok {
		return fwr.Flush()
	}
	return nil
}

// Close stops the flush daemon and flushes whatever is still buffered.  The
// base writer is not closed.
func (cb *Console) Close() error {
	cb.mu.Lock()
	select {
	case <-cb.done:
	default:
		close(cb.done)
	}
	cb.mu.Unlock()
	return cb.Flush()
}

func (cb *Console) flushDaemon() {
	// Try to guarantee that we flush at least every maxFlushInterval.
	// This can result in a single extra queued flush if the underlying
	// writer takes longer than maxFlushInterval.
	ticker := time.NewTicker(cb.maxFlushInterval)
	defer ticker.Stop()
	for {
		select {
		case <-ticker.C:
			_ = cb.Flush() // Ignore error.
		case <-cb.done:
			return
		}
	}
}

func (cb *Console) Write(b []byte) (n int, err error) {
	cb.mu.Lock()
	defer cb.mu.Unlock()
	if cb.wr == nil {
		if cb.bufferSize <= 0 {
			return cb.baseWr.Write(b)
		}
		cb.wr = bufio.NewWriterSize(cb.baseWr, cb.bufferSize)
		if cb.maxFlushInterval > 0 {
			go cb.flushDaemon()
		}
	}
	return cb.wr.Write(b)
}
