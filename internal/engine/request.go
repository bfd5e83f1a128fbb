package engine

import (
	"sync"

	"github.com/weaver-proxy/weaverfilter/filterapi"
	"github.com/weaver-proxy/weaverfilter/internal/chunkstore"
	"github.com/weaver-proxy/weaverfilter/internal/wire"
)

// requestTxn is a request transaction's state: its headers, its command
// and body queues, and the handler task running against it. It
// implements filterapi.RequestDriver directly so the engine never
// exposes its own internals to handler code, only the RequestControl
// wrapper filterapi builds around it.
type requestTxn struct {
	id      uint32
	chunks  *chunkstore.Store
	filter  filterapi.RequestFilter
	cmds    *cmdQueue
	bodyIn  *bodyQueue
	tracker chunkTracker

	mu       sync.Mutex
	headers  wire.Headers
	switched bool

	finishOnce sync.Once
}

func newRequestTxn(id uint32, chunks *chunkstore.Store, filter filterapi.RequestFilter) *requestTxn {
	return &requestTxn{
		id:     id,
		chunks: chunks,
		filter: filter,
		cmds:   newCmdQueue(),
		bodyIn: newBodyQueue(),
	}
}

func (t *requestTxn) setHeaders(h wire.Headers) {
	t.mu.Lock()
	t.headers = h
	t.mu.Unlock()
}

func (t *requestTxn) snapshotHeaders() wire.Headers {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.headers
}

// run executes the handler task to completion, then finishes the
// transaction. A handler panic is treated as an ordinary completion: the
// transaction still finishes rather than taking the host down with it.
func (t *requestTxn) run(control *filterapi.RequestControl) {
	defer func() {
		recover()
		t.Finish()
	}()
	t.filter.FilterRequest(control)
}

// Headers implements filterapi.RequestDriver.
func (t *requestTxn) Headers() filterapi.HeaderBlock {
	return toBlock(t.snapshotHeaders())
}

// RewriteHeaders implements filterapi.RequestDriver.
func (t *requestTxn) RewriteHeaders(h filterapi.HeaderBlock) {
	t.mu.Lock()
	crlf := t.headers.CRLF
	rewritten := fromBlock(h, crlf)
	t.headers = rewritten
	t.mu.Unlock()
	t.cmds.push(wire.Whdr(wire.SerializeRequest(rewritten)))
}

// ReadBodyChunk implements filterapi.RequestDriver. RBOD is only emitted
// when the next chunk isn't already waiting: a host that bursts multiple
// chunks after a single RBOD must not see a second one mid-burst.
func (t *requestTxn) ReadBodyChunk() ([]byte, bool) {
	if data, last, ready := t.bodyIn.tryPop(); ready {
		return data, last
	}
	t.cmds.push(wire.Rbod())
	return t.bodyIn.pop()
}

// WriteBodyChunk implements filterapi.RequestDriver.
func (t *requestTxn) WriteBodyChunk(data []byte, last bool) {
	id := t.chunks.Intern(data)
	t.tracker.track(id)
	t.cmds.push(wire.Wbod(id))
}

// Respond implements filterapi.RequestDriver: a request filter answers
// synthetically instead of proxying. No DONE follows a SWCH.
func (t *requestTxn) Respond(status int, headers filterapi.HeaderBlock, body []byte) {
	id := t.chunks.Intern(body)
	t.tracker.track(id)
	t.mu.Lock()
	t.switched = true
	t.mu.Unlock()
	t.cmds.push(wire.Swch(id, status))
}

// Finish implements filterapi.RequestDriver. Idempotent: the engine calls
// it automatically when the handler task returns, and a handler may also
// call it explicitly.
func (t *requestTxn) Finish() {
	t.finishOnce.Do(func() {
		t.mu.Lock()
		switched := t.switched
		t.mu.Unlock()
		if !switched {
			t.cmds.push(wire.Done())
		}
		t.cmds.close()
	})
}

// cancel implements the non-blocking half of FreeRequest's cancellation
// contract: unblock any in-progress body read and stop accepting new
// commands, without waiting for the handler task to notice.
func (t *requestTxn) cancel() {
	t.bodyIn.cancel()
	t.cmds.close()
}
