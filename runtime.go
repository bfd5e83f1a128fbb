// Package weaverfilter is an embeddable HTTP request/response filter
// runtime exposed to a host through a small C-callable boundary (see
// cabi.go). The host pushes raw HTTP request and response data through
// a Runtime; registered handlers, written against the filterapi
// package, inspect and transform headers and body bytes; the runtime
// returns command tokens telling the host what to do next.
//
// Package layout follows the teacher's internal/ split: internal/wire
// holds the command protocol and header syntax, internal/chunkstore the
// chunk registry, internal/engine the per-transaction state machines,
// internal/handlerreg the handler registry and built-in test handler.
// This file wires them into the public Runtime type; cabi.go exposes
// Runtime across the C ABI.
package weaverfilter

import (
	"github.com/weaver-proxy/weaverfilter/filterapi"
	"github.com/weaver-proxy/weaverfilter/internal/chunkstore"
	"github.com/weaver-proxy/weaverfilter/internal/engine"
	"github.com/weaver-proxy/weaverfilter/internal/handlerreg"
	"github.com/weaver-proxy/weaverfilter/internal/logging"
)

// Runtime is a fully wired filter engine instance: a handler registry, a
// chunk registry, and the engine that drives transactions against them.
// The spec's ABI is stateless per the process, so cabi.go holds exactly
// one Runtime as a package-level singleton; Go callers (including tests)
// may construct as many independent Runtimes as they like.
type Runtime struct {
	handlers *handlerreg.Registry
	chunks   *chunkstore.Store
	engine   *engine.Engine
	metrics  *Metrics
}

// New constructs a Runtime with its own independent handler registry,
// chunk registry, and metrics.
func New() *Runtime {
	return NewWithLogger(logging.Default())
}

// NewWithLogger is like New but lets the caller supply the logger the
// engine uses for debug tracing.
func NewWithLogger(logger *logging.Logger) *Runtime {
	handlers := handlerreg.New()
	chunks := chunkstore.New()
	metrics := NewMetrics()
	eng := engine.New(handlers, chunks, NewMetricsObserver(metrics), logger)
	return &Runtime{handlers: handlers, chunks: chunks, engine: eng, metrics: metrics}
}

// Metrics returns the runtime's metrics collector.
func (r *Runtime) Metrics() *Metrics { return r.metrics }

// CreateHandler registers name against urn's resolved filter factory.
// Returns nil on success or a non-nil error if urn is not recognized.
func (r *Runtime) CreateHandler(name, urn string) error {
	if err := r.handlers.Create(name, urn); err != nil {
		return WrapError("CreateHandler", err)
	}
	return nil
}

// RegisterHandlerFactory registers name directly against factory,
// bypassing URN resolution. Lets a Go-native embedder supply a
// filterapi.Factory implementation with no URN of its own.
func (r *Runtime) RegisterHandlerFactory(name string, factory filterapi.Factory) {
	r.handlers.RegisterFactory(name, factory)
}

// DestroyHandler removes name's registration.
func (r *Runtime) DestroyHandler(name string) {
	r.handlers.Destroy(name)
}

// CreateRequest allocates a request transaction bound to handlerName,
// returning its ID or 0 if handlerName is not registered.
func (r *Runtime) CreateRequest(handlerName string) uint32 {
	return r.engine.CreateRequest(handlerName)
}

// FreeRequest cancels and removes a request transaction.
func (r *Runtime) FreeRequest(id uint32) {
	r.engine.FreeRequest(id)
}

// BeginRequest parses headerBlock and starts the request's handler task.
func (r *Runtime) BeginRequest(id uint32, headerBlock string) {
	r.engine.BeginRequest(id, headerBlock)
}

// PollRequest returns the next command for a request transaction.
func (r *Runtime) PollRequest(id uint32, block bool) string {
	return r.engine.PollRequest(id, block)
}

// SendRequestBodyChunk delivers a body chunk to a waiting request
// handler task.
func (r *Runtime) SendRequestBodyChunk(id uint32, last bool, data []byte) {
	r.engine.SendRequestBodyChunk(id, last, data)
}

// CreateResponse allocates a response transaction bound to handlerName.
func (r *Runtime) CreateResponse(handlerName string) uint32 {
	return r.engine.CreateResponse(handlerName)
}

// FreeResponse cancels and removes a response transaction.
func (r *Runtime) FreeResponse(id uint32) {
	r.engine.FreeResponse(id)
}

// BeginResponse parses headerBlock, pairs the transaction with
// requestID, and starts the response's handler task.
func (r *Runtime) BeginResponse(id uint32, requestID uint32, status int, headerBlock string) {
	r.engine.BeginResponse(id, requestID, status, headerBlock)
}

// PollResponse returns the next command for a response transaction.
func (r *Runtime) PollResponse(id uint32, block bool) string {
	return r.engine.PollResponse(id, block)
}

// SendResponseBodyChunk delivers a body chunk to a waiting response
// handler task.
func (r *Runtime) SendResponseBodyChunk(id uint32, last bool, data []byte) {
	r.engine.SendResponseBodyChunk(id, last, data)
}

// GetChunk returns a fresh copy of chunkID's bytes, or nil if unknown.
func (r *Runtime) GetChunk(chunkID uint32) []byte {
	return r.chunks.GetCopy(chunkID)
}

// GetChunkLength returns chunkID's byte length, or 0 if unknown.
func (r *Runtime) GetChunkLength(chunkID uint32) uint32 {
	return r.chunks.GetLength(chunkID)
}

// ReleaseChunk drops chunkID's engine-side buffer.
func (r *Runtime) ReleaseChunk(chunkID uint32) {
	r.metrics.RecordChunkReleased()
	r.chunks.Release(chunkID)
}
