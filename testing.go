package weaverfilter

import (
	"sync"

	"github.com/weaver-proxy/weaverfilter/filterapi"
)

// RecordingFactory is a filterapi.Factory for tests of code that embeds a
// Runtime: it records every request and response it was asked to filter,
// including headers seen and the full reassembled body, while behaving as
// a pass-through filter. Grounded on the teacher's MockBackend
// (testing.go), which plays the same "fake implementation that counts
// calls and captures bytes for assertions" role for a storage backend.
type RecordingFactory struct {
	mu sync.Mutex

	requestCalls    int
	responseCalls   int
	requestHeaders  []filterapi.HeaderBlock
	responseHeaders []filterapi.HeaderBlock
	requestBodies   [][]byte
	responseBodies  [][]byte
}

// NewRecordingFactory returns an empty RecordingFactory.
func NewRecordingFactory() *RecordingFactory {
	return &RecordingFactory{}
}

// NewRequestFilter implements filterapi.Factory.
func (f *RecordingFactory) NewRequestFilter() filterapi.RequestFilter {
	return recordingRequestFilter{f: f}
}

// NewResponseFilter implements filterapi.Factory.
func (f *RecordingFactory) NewResponseFilter() filterapi.ResponseFilter {
	return recordingResponseFilter{f: f}
}

// RequestCalls reports how many times a request filter ran.
func (f *RecordingFactory) RequestCalls() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.requestCalls
}

// ResponseCalls reports how many times a response filter ran.
func (f *RecordingFactory) ResponseCalls() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.responseCalls
}

// RequestHeaders returns the headers observed by every request filter run,
// in call order.
func (f *RecordingFactory) RequestHeaders() []filterapi.HeaderBlock {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]filterapi.HeaderBlock(nil), f.requestHeaders...)
}

// ResponseHeaders returns the headers observed by every response filter
// run, in call order.
func (f *RecordingFactory) ResponseHeaders() []filterapi.HeaderBlock {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]filterapi.HeaderBlock(nil), f.responseHeaders...)
}

// RequestBodies returns the full reassembled body of every request filter
// run, in call order.
func (f *RecordingFactory) RequestBodies() [][]byte {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([][]byte(nil), f.requestBodies...)
}

// ResponseBodies returns the full reassembled body of every response
// filter run, in call order.
func (f *RecordingFactory) ResponseBodies() [][]byte {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([][]byte(nil), f.responseBodies...)
}

type recordingRequestFilter struct{ f *RecordingFactory }

func (r recordingRequestFilter) FilterRequest(c *filterapi.RequestControl) {
	headers := c.Headers()
	var body []byte
	for {
		data, last := c.ReadBodyChunk()
		body = append(body, data...)
		if last {
			break
		}
	}
	r.f.mu.Lock()
	r.f.requestCalls++
	r.f.requestHeaders = append(r.f.requestHeaders, headers)
	r.f.requestBodies = append(r.f.requestBodies, body)
	r.f.mu.Unlock()
}

type recordingResponseFilter struct{ f *RecordingFactory }

func (r recordingResponseFilter) FilterResponse(c *filterapi.ResponseControl) {
	headers := c.Headers()
	var body []byte
	for {
		data, last := c.ReadBodyChunk()
		body = append(body, data...)
		if last {
			break
		}
	}
	r.f.mu.Lock()
	r.f.responseCalls++
	r.f.responseHeaders = append(r.f.responseHeaders, headers)
	r.f.responseBodies = append(r.f.responseBodies, body)
	r.f.mu.Unlock()
}

var (
	_ filterapi.Factory        = (*RecordingFactory)(nil)
	_ filterapi.RequestFilter  = recordingRequestFilter{}
	_ filterapi.ResponseFilter = recordingResponseFilter{}
)
