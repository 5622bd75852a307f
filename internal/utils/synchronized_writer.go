package utils

import (
	"io"
	"sync"
)

type flusher interface {
	Flush() error
}

// SynchronizedWriter serializes writes coming from concurrent pipeline branches
// and flushes buffered destinations after every write so progress lines appear
// as soon as they are printed.
type SynchronizedWriter struct {
	mutex       sync.Mutex
	destination io.Writer
}

// NewSynchronizedWriter wraps destination. A nil destination yields a nil writer.
func NewSynchronizedWriter(destination io.Writer) io.Writer {
	switch typedDestination := destination.(type) {
	case nil:
		return nil
	case *SynchronizedWriter:
		return typedDestination
	default:
		return &SynchronizedWriter{destination: destination}
	}
}

// Write forwards data while holding the lock.
func (writer *SynchronizedWriter) Write(data []byte) (int, error) {
	if writer == nil || writer.destination == nil {
		return len(data), nil
	}

	writer.mutex.Lock()
	defer writer.mutex.Unlock()

	bytesWritten, writeError := writer.destination.Write(data)
	if writeError != nil {
		return bytesWritten, writeError
	}
	if bufferedDestination, isBuffered := writer.destination.(flusher); isBuffered {
		return bytesWritten, bufferedDestination.Flush()
	}
	return bytesWritten, nil
}
