// Package testhandler implements the four canonical sample filter
// behaviors the engine's own test suite exercises across the C ABI:
// pass-through, request-body replacement, aggregate response-body
// replacement, and streaming response-body transformation. These are
// tests of the engine, not part of its public surface, so they live
// under internal/ and are registered only under the well-known
// unit-test URN.
package testhandler

import "github.com/weaver-proxy/weaverfilter/filterapi"

// Factory produces the unit-test request/response filter pair.
// Request-side behavior is dispatched by the request's own path;
// response-side behavior is dispatched by the path of the request that
// produced it, since a response header block carries no path of its
// own.
type Factory struct{}

// NewRequestFilter implements filterapi.Factory.
func (Factory) NewRequestFilter() filterapi.RequestFilter { return requestFilter{} }

// NewResponseFilter implements filterapi.Factory.
func (Factory) NewResponseFilter() filterapi.ResponseFilter { return responseFilter{} }

type requestFilter struct{}

func (requestFilter) FilterRequest(c *filterapi.RequestControl) {
	switch c.Headers().URI {
	case "/replacebody":
		// Unconditional replacement: the original body, if any, is
		// never read.
		c.WriteBody([]byte("Hello! I am the server!"))
	}
	// /pass, /transformbody, /transformbodychunks: the request side is
	// a pure pass-through. Their transformations happen on the
	// response side below.
}

type responseFilter struct{}

func (responseFilter) FilterResponse(c *filterapi.ResponseControl) {
	switch c.RequestHeaders().URI {
	case "/transformbody":
		// Aggregate single-shot replacement: the original response
		// body is never read.
		c.WriteBody([]byte("We have transformed the response!"))
	case "/transformbodychunks":
		c.RewriteHeaders(c.Headers().Without("Content-Length"))
		var body []byte
		for {
			data, last := c.ReadBodyChunk()
			body = append(body, data...)
			if last {
				break
			}
		}
		wrapped := make([]byte, 0, len(body)+2)
		wrapped = append(wrapped, '{')
		wrapped = append(wrapped, body...)
		wrapped = append(wrapped, '}')
		c.WriteBody(wrapped)
	}
	// anything else: pass-through.
}
