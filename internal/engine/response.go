package engine

import (
	"sync"

	"github.com/weaver-proxy/weaverfilter/filterapi"
	"github.com/weaver-proxy/weaverfilter/internal/chunkstore"
	"github.com/weaver-proxy/weaverfilter/internal/wire"
)

// responseTxn is a response transaction's state. It implements
// filterapi.ResponseDriver directly, mirroring requestTxn. A response
// filter has no Respond capability: only a request filter can short-
// circuit to a synthetic answer.
type responseTxn struct {
	id      uint32
	chunks  *chunkstore.Store
	filter  filterapi.ResponseFilter
	cmds    *cmdQueue
	bodyIn  *bodyQueue
	tracker chunkTracker

	mu             sync.Mutex
	status         int
	headers        wire.Headers
	requestHeaders wire.Headers

	finishOnce sync.Once
}

func newResponseTxn(id uint32, chunks *chunkstore.Store, filter filterapi.ResponseFilter) *responseTxn {
	return &responseTxn{
		id:     id,
		chunks: chunks,
		filter: filter,
		cmds:   newCmdQueue(),
		bodyIn: newBodyQueue(),
	}
}

func (t *responseTxn) setHeaders(status int, h, requestHeaders wire.Headers) {
	t.mu.Lock()
	t.status = status
	t.headers = h
	t.requestHeaders = requestHeaders
	t.mu.Unlock()
}

func (t *responseTxn) snapshotHeaders() wire.Headers {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.headers
}

func (t *responseTxn) snapshotRequestHeaders() wire.Headers {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.requestHeaders
}

func (t *responseTxn) run(control *filterapi.ResponseControl) {
	defer func() {
		recover()
		t.Finish()
	}()
	t.filter.FilterResponse(control)
}

// Headers implements filterapi.ResponseDriver.
func (t *responseTxn) Headers() filterapi.HeaderBlock {
	return toBlock(t.snapshotHeaders())
}

// RequestHeaders implements filterapi.ResponseDriver.
func (t *responseTxn) RequestHeaders() filterapi.HeaderBlock {
	return toBlock(t.snapshotRequestHeaders())
}

// RewriteHeaders implements filterapi.ResponseDriver.
func (t *responseTxn) RewriteHeaders(h filterapi.HeaderBlock) {
	t.mu.Lock()
	crlf := t.headers.CRLF
	rewritten := fromBlock(h, crlf)
	t.headers = rewritten
	t.mu.Unlock()
	t.cmds.push(wire.Whdr(wire.SerializeResponse(rewritten)))
}

// ReadBodyChunk implements filterapi.ResponseDriver. RBOD is only emitted
// when the next chunk isn't already waiting: a host that bursts multiple
// chunks after a single RBOD must not see a second one mid-burst.
func (t *responseTxn) ReadBodyChunk() ([]byte, bool) {
	if data, last, ready := t.bodyIn.tryPop(); ready {
		return data, last
	}
	t.cmds.push(wire.Rbod())
	return t.bodyIn.pop()
}

// WriteBodyChunk implements filterapi.ResponseDriver.
func (t *responseTxn) WriteBodyChunk(data []byte, last bool) {
	id := t.chunks.Intern(data)
	t.tracker.track(id)
	t.cmds.push(wire.Wbod(id))
}

// Finish implements filterapi.ResponseDriver.
func (t *responseTxn) Finish() {
	t.finishOnce.Do(func() {
		t.cmds.push(wire.Done())
		t.cmds.close()
	})
}

func (t *responseTxn) cancel() {
	t.bodyIn.cancel()
	t.cmds.close()
}
