// Package engine implements the per-transaction cooperative state
// machines that bridge a pull-driven host with a handler that reads and
// writes HTTP bodies as streams. It is the heart of the filter runtime:
// everything else (the public weaverfilter package, the cgo boundary,
// the handler registry) is plumbing around this package's Engine.
//
// Grounded on the teacher repo's internal/queue package, which runs the
// same shape of problem — a per-tag cooperative state machine serialized
// within a tag and parallel across tags — for ublk I/O instead of HTTP
// filtering.
package engine

import (
	"sync"

	"github.com/weaver-proxy/weaverfilter/filterapi"
	"github.com/weaver-proxy/weaverfilter/internal/chunkstore"
	"github.com/weaver-proxy/weaverfilter/internal/logging"
	"github.com/weaver-proxy/weaverfilter/internal/wire"
)

// Observer lets a host plug in its own collector for engine activity.
// Mirrors the teacher's interfaces.Observer shape, repurposed from I/O
// operations to filter commands.
type Observer interface {
	ObserveCommand(token string)
}

// NoOpObserver discards everything.
type NoOpObserver struct{}

// ObserveCommand implements Observer.
func (NoOpObserver) ObserveCommand(string) {}

// HandlerLookup resolves a handler name to a filter factory. Satisfied
// by internal/handlerreg.Registry; the engine depends only on this
// interface to avoid importing the registry package.
type HandlerLookup interface {
	Lookup(name string) (filterapi.Factory, bool)
}

// Engine owns the transaction registry (request and response tables)
// and drives both state machines. It holds no HTTP semantics of its own:
// header parsing lives in internal/wire, command encoding lives in
// internal/wire, and body transformation lives entirely in handler code.
type Engine struct {
	handlers HandlerLookup
	chunks   *chunkstore.Store
	observer Observer
	logger   *logging.Logger

	mu        sync.Mutex
	nextReqID uint32
	nextRspID uint32
	requests  map[uint32]*requestTxn
	responses map[uint32]*responseTxn
}

// New constructs an Engine. observer and logger may be nil, in which
// case NoOpObserver and logging.Default() are used.
func New(handlers HandlerLookup, chunks *chunkstore.Store, observer Observer, logger *logging.Logger) *Engine {
	if observer == nil {
		observer = NoOpObserver{}
	}
	if logger == nil {
		logger = logging.Default()
	}
	return &Engine{
		handlers:  handlers,
		chunks:    chunks,
		observer:  observer,
		logger:    logger,
		requests:  make(map[uint32]*requestTxn),
		responses: make(map[uint32]*responseTxn),
	}
}

func nextID(counter *uint32) uint32 {
	*counter++
	if *counter == 0 {
		*counter = 1
	}
	return *counter
}

// CreateRequest allocates a request transaction bound to handlerName and
// returns its ID, or 0 if handlerName is not registered. Never suspends.
func (e *Engine) CreateRequest(handlerName string) uint32 {
	factory, ok := e.handlers.Lookup(handlerName)
	if !ok {
		return 0
	}
	e.mu.Lock()
	defer e.mu.Unlock()
	id := nextID(&e.nextReqID)
	e.requests[id] = newRequestTxn(id, e.chunks, factory.NewRequestFilter())
	e.logger.Debug("created request transaction", "id", id, "handler", handlerName)
	return id
}

// FreeRequest cancels and removes a request transaction. Never blocks on
// handler work: any in-progress body read observes end-of-body, and any
// chunk IDs never delivered to the host are released immediately.
func (e *Engine) FreeRequest(id uint32) {
	e.mu.Lock()
	t, ok := e.requests[id]
	delete(e.requests, id)
	e.mu.Unlock()
	if !ok {
		return
	}
	t.cancel()
	drained := t.tracker.drain()
	for _, chunkID := range drained {
		e.chunks.Release(chunkID)
	}
	if len(drained) > 0 {
		e.logger.With("id", id).Debug("released undelivered chunks on free", "count", len(drained))
	}
}

// BeginRequest parses the header block and starts the handler task. A
// malformed block (no parseable start line) finishes the transaction
// with DONE immediately, without running the handler.
func (e *Engine) BeginRequest(id uint32, headerBlock string) {
	e.mu.Lock()
	t, ok := e.requests[id]
	e.mu.Unlock()
	if !ok {
		return
	}
	h, parsed := wire.ParseRequest(headerBlock)
	t.setHeaders(h)
	if !parsed {
		t.Finish()
		return
	}
	control := filterapi.NewRequestControl(t)
	go t.run(control)
}

// PollRequest returns the next command for a request transaction. With
// block it suspends until one is ready or the task has finished (DONE);
// without block it returns WAIT when nothing is ready yet. Polling an
// unknown or freed ID returns DONE.
func (e *Engine) PollRequest(id uint32, block bool) string {
	e.mu.Lock()
	t, ok := e.requests[id]
	e.mu.Unlock()
	if !ok {
		return wire.Done()
	}
	return e.pollCommon(t.cmds, &t.tracker, block)
}

// SendRequestBodyChunk delivers a body chunk a handler task is waiting
// on via ReadBodyChunk. last marks end-of-body.
func (e *Engine) SendRequestBodyChunk(id uint32, last bool, data []byte) {
	e.mu.Lock()
	t, ok := e.requests[id]
	e.mu.Unlock()
	if !ok {
		return
	}
	t.bodyIn.push(data, last)
}

// CreateResponse allocates a response transaction bound to handlerName.
func (e *Engine) CreateResponse(handlerName string) uint32 {
	factory, ok := e.handlers.Lookup(handlerName)
	if !ok {
		return 0
	}
	e.mu.Lock()
	defer e.mu.Unlock()
	id := nextID(&e.nextRspID)
	e.responses[id] = newResponseTxn(id, e.chunks, factory.NewResponseFilter())
	e.logger.Debug("created response transaction", "id", id, "handler", handlerName)
	return id
}

// FreeResponse cancels and removes a response transaction.
func (e *Engine) FreeResponse(id uint32) {
	e.mu.Lock()
	t, ok := e.responses[id]
	delete(e.responses, id)
	e.mu.Unlock()
	if !ok {
		return
	}
	t.cancel()
	drained := t.tracker.drain()
	for _, chunkID := range drained {
		e.chunks.Release(chunkID)
	}
	if len(drained) > 0 {
		e.logger.With("id", id).Debug("released undelivered chunks on free", "count", len(drained))
	}
}

// BeginResponse parses the response header block, pairs the transaction
// with the request that produced it (so the filter can observe the
// originating request's headers), and starts the handler task.
func (e *Engine) BeginResponse(id uint32, requestID uint32, status int, headerBlock string) {
	e.mu.Lock()
	t, ok := e.responses[id]
	reqTxn := e.requests[requestID]
	e.mu.Unlock()
	if !ok {
		return
	}
	var reqHeaders wire.Headers
	if reqTxn != nil {
		reqHeaders = reqTxn.snapshotHeaders()
	}
	h, parsed := wire.ParseResponse(headerBlock)
	t.setHeaders(status, h, reqHeaders)
	if !parsed {
		t.Finish()
		return
	}
	control := filterapi.NewResponseControl(t)
	go t.run(control)
}

// PollResponse returns the next command for a response transaction.
func (e *Engine) PollResponse(id uint32, block bool) string {
	e.mu.Lock()
	t, ok := e.responses[id]
	e.mu.Unlock()
	if !ok {
		return wire.Done()
	}
	return e.pollCommon(t.cmds, &t.tracker, block)
}

// SendResponseBodyChunk delivers a body chunk to a waiting response
// handler task.
func (e *Engine) SendResponseBodyChunk(id uint32, last bool, data []byte) {
	e.mu.Lock()
	t, ok := e.responses[id]
	e.mu.Unlock()
	if !ok {
		return
	}
	t.bodyIn.push(data, last)
}

func (e *Engine) pollCommon(cmds *cmdQueue, tracker *chunkTracker, block bool) string {
	cmd, status := cmds.pop(block)
	switch status {
	case popGot:
		if chunkID, _, ok := wire.ParseChunkCommand(cmd); ok {
			tracker.delivered(chunkID)
		}
		e.observer.ObserveCommand(cmd)
		return cmd
	case popEmpty:
		wait := wire.Wait()
		e.observer.ObserveCommand(wait)
		return wait
	default: // popClosed
		return wire.Done()
	}
}

func toBlock(h wire.Headers) filterapi.HeaderBlock {
	fields := make([]filterapi.Field, len(h.Fields))
	for i, f := range h.Fields {
		fields[i] = filterapi.Field{Name: f.Name, Value: f.Value}
	}
	return filterapi.HeaderBlock{Method: h.Method, URI: h.URI, Version: h.Version, Fields: fields}
}

func fromBlock(b filterapi.HeaderBlock, crlf bool) wire.Headers {
	fields := make([]wire.Field, len(b.Fields))
	for i, f := range b.Fields {
		fields[i] = wire.Field{Name: f.Name, Value: f.Value}
	}
	return wire.Headers{Method: b.Method, URI: b.URI, Version: b.Version, Fields: fields, CRLF: crlf}
}
