package sse

import (
	"context"
	"errors"
	"net/http"
	"sync"
	"sync/atomic"
	"time"
)

var heartBeatPing = []byte(": ping\n\n")

// WriterConfig configures a Writer. Context and ResponseWriter are required.
type WriterConfig struct {
	Context        context.Context
	ResponseWriter http.ResponseWriter
	QueueSize      int           // default 64
	HeartBeat      time.Duration // 0 disables heartbeats
}

func (c *WriterConfig) validate() error {
	if c.Context == nil {
		return errors.New("missing context")
	}
	if c.ResponseWriter == nil {
		return errors.New("missing responseWriter")
	}
	if _, ok := c.ResponseWriter.(http.Flusher); !ok {
		return errors.New("responseWriter does not implement http.Flusher")
	}
	if c.QueueSize <= 0 {
		c.QueueSize = 64
	}
	return nil
}

// Writer streams Messages to one client connection asynchronously, with
// optional heartbeats and graceful shutdown on context cancellation.
type Writer struct {
	config       *WriterConfig
	isClosed     atomic.Bool
	waitGroup    sync.WaitGroup
	ctx          context.Context
	encoder      *Encoder
	httpResponse http.ResponseWriter
	httpFlusher  http.Flusher
	closeSignal  chan struct{}
	messageQueue chan []byte
	mu           sync.Mutex
	errs         []error
}

// NewWriter validates config, sets SSE headers on the response, and starts
// the background send loop (and heartbeat loop, if configured).
func NewWriter(config *WriterConfig) (*Writer, error) {
	if err := config.validate(); err != nil {
		return nil, err
	}
	w := &Writer{
		config:       config,
		ctx:          config.Context,
		encoder:      NewEncoder(),
		httpResponse: config.ResponseWriter,
		httpFlusher:  config.ResponseWriter.(http.Flusher),
		closeSignal:  make(chan struct{}),
		messageQueue: make(chan []byte, config.QueueSize),
	}
	SetSSEHeaders(w.httpResponse.Header())
	w.waitGroup.Add(2)
	go w.listenContext()
	go w.processMessageQueue()
	if config.HeartBeat > 0 {
		w.waitGroup.Add(1)
		go w.startHeartbeatLoop()
	}
	return w, nil
}

// SetSSEHeaders sets the three headers an SSE response requires, preserving
// any Cache-Control the caller already set.
func SetSSEHeaders(header http.Header) {
	header.Set("Content-Type", "text/event-stream; charset=utf-8")
	header.Set("Connection", "keep-alive")
	if header.Get("Cache-Control") == "" {
		header.Set("Cache-Control", "no-cache")
	}
}

func (w *Writer) recordError(err error) {
	if err == nil {
		return
	}
	w.mu.Lock()
	w.errs = append(w.errs, err)
	w.mu.Unlock()
}

func (w *Writer) writeToClient(data []byte) error {
	if _, err := w.httpResponse.Write(data); err != nil {
		return err
	}
	w.httpFlusher.Flush()
	return nil
}

func (w *Writer) startHeartbeatLoop() {
	defer w.waitGroup.Done()
	ticker := time.NewTicker(w.config.HeartBeat)
	defer ticker.Stop()
	for {
		select {
		case <-w.closeSignal:
			return
		case <-ticker.C:
			if w.isClosed.Load() {
				return
			}
			select {
			case w.messageQueue <- heartBeatPing:
			default:
			}
		}
	}
}

func (w *Writer) processMessageQueue() {
	defer w.waitGroup.Done()
	defer w.drain()
	for {
		select {
		case <-w.closeSignal:
			return
		case msg := <-w.messageQueue:
			w.recordError(w.writeToClient(msg))
		}
	}
}

func (w *Writer) drain() {
	close(w.messageQueue)
	for msg := range w.messageQueue {
		w.recordError(w.writeToClient(msg))
	}
	w.recordError(w.writeToClient(byteLFLF))
}

func (w *Writer) listenContext() {
	defer w.waitGroup.Done()
	select {
	case <-w.closeSignal:
	case <-w.ctx.Done():
		w.recordError(w.ctx.Err())
		_ = w.Close()
	}
}

// Close signals shutdown, drains any queued messages, and blocks until the
// background loops exit. Safe to call more than once.
func (w *Writer) Close() error {
	if w.isClosed.Swap(true) {
		return w.Error()
	}
	close(w.closeSignal)
	w.waitGroup.Wait()
	return w.Error()
}

// Send enqueues msg for delivery, blocking only if the queue is full.
func (w *Writer) Send(msg *Message) error {
	if w.isClosed.Load() {
		return errors.New("writer is closed")
	}
	encoded, err := w.encoder.Encode(msg)
	if err != nil {
		return err
	}
	select {
	case w.messageQueue <- encoded:
		return nil
	case <-w.closeSignal:
		return errors.New("writer is closed")
	}
}

func (w *Writer) Error() error {
	w.mu.Lock()
	defer w.mu.Unlock()
	return errors.Join(w.errs...)
}

// WithSSE drives messageChan to response until the channel closes or ctx is
// canceled, then closes the stream. It blocks until the stream ends.
func WithSSE(ctx context.Context, response http.ResponseWriter, messageChan <-chan *Message) error {
	writer, err := NewWriter(&WriterConfig{Context: ctx, ResponseWriter: response})
	if err != nil {
		return err
	}
	for {
		select {
		case <-ctx.Done():
			return writer.Close()
		case msg, ok := <-messageChan:
			if !ok {
				return writer.Close()
			}
			if err := writer.Send(msg); err != nil {
				return errors.Join(err, writer.Close())
			}
		}
	}
}
