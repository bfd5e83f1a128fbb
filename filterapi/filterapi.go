// Package filterapi defines the handler-facing contract: the capability
// interfaces a filter implements, the read-only header view it sees, and
// the control surface the engine hands it to read/write bodies and
// rewrite headers. Filters differ in which of these operations they call;
// the engine does not inspect the filter itself, and schedules commands
// only as the filter makes those calls (an RBOD only when it reads the
// body, a WHDR only when it rewrites headers).
package filterapi

// Field is a single header line, in the order the host sent it.
type Field struct {
	Name  string
	Value string
}

// HeaderBlock is the read-only header view passed to a filter. Method,
// URI, and Version are populated for a request; they are empty for a
// response (whose status travels separately).
type HeaderBlock struct {
	Method  string
	URI     string
	Version string
	Fields  []Field
}

// Get returns the value of the first field named name.
func (h HeaderBlock) Get(name string) (string, bool) {
	for _, f := range h.Fields {
		if f.Name == name {
			return f.Value, true
		}
	}
	return "", false
}

// Values returns every value for fields named name, in insertion order.
func (h HeaderBlock) Values(name string) []string {
	var out []string
	for _, f := range h.Fields {
		if f.Name == name {
			out = append(out, f.Value)
		}
	}
	return out
}

// Without returns a copy of h with every field named name removed.
func (h HeaderBlock) Without(name string) HeaderBlock {
	out := h
	out.Fields = nil
	for _, f := range h.Fields {
		if f.Name != name {
			out.Fields = append(out.Fields, f)
		}
	}
	return out
}

// RequestDriver is the engine-side callback surface a RequestControl
// forwards to. Filter authors never implement this; the engine does.
type RequestDriver interface {
	Headers() HeaderBlock
	RewriteHeaders(HeaderBlock)
	ReadBodyChunk() (data []byte, last bool)
	WriteBodyChunk(data []byte, last bool)
	Respond(status int, headers HeaderBlock, body []byte)
	Finish()
}

// ResponseDriver is the engine-side callback surface a ResponseControl
// forwards to.
type ResponseDriver interface {
	Headers() HeaderBlock
	RequestHeaders() HeaderBlock
	RewriteHeaders(HeaderBlock)
	ReadBodyChunk() (data []byte, last bool)
	WriteBodyChunk(data []byte, last bool)
	Finish()
}

// RequestControl is the operation set a request filter has available. A
// filter calls these from straight-line code; each call either returns
// immediately or cooperatively suspends the filter's task until the host
// supplies what it asked for.
type RequestControl struct {
	d RequestDriver
}

// NewRequestControl wraps a driver for use by filter code. Only the
// engine constructs these.
func NewRequestControl(d RequestDriver) *RequestControl {
	return &RequestControl{d: d}
}

// Headers returns a read-only snapshot of the request headers.
func (c *RequestControl) Headers() HeaderBlock { return c.d.Headers() }

// RewriteHeaders schedules a header replacement.
func (c *RequestControl) RewriteHeaders(h HeaderBlock) { c.d.RewriteHeaders(h) }

// ReadBodyChunk cooperatively suspends until the host supplies the next
// body chunk. last reports end-of-body.
func (c *RequestControl) ReadBodyChunk() (data []byte, last bool) { return c.d.ReadBodyChunk() }

// WriteBody replaces the entire body with a single chunk.
func (c *RequestControl) WriteBody(body []byte) { c.d.WriteBodyChunk(body, true) }

// WriteBodyChunk schedules one output chunk of a streamed replacement
// body. Call with last=true on the final chunk.
func (c *RequestControl) WriteBodyChunk(data []byte, last bool) { c.d.WriteBodyChunk(data, last) }

// Respond answers the request synthetically, without proxying to an
// origin.
func (c *RequestControl) Respond(status int, headers HeaderBlock, body []byte) {
	c.d.Respond(status, headers, body)
}

// Finish ends the filter. Safe to call multiple times or not at all; the
// engine finishes an unfinished filter automatically when its task
// returns.
func (c *RequestControl) Finish() { c.d.Finish() }

// ResponseControl is the operation set a response filter has available.
type ResponseControl struct {
	d ResponseDriver
}

// NewResponseControl wraps a driver for use by filter code.
func NewResponseControl(d ResponseDriver) *ResponseControl {
	return &ResponseControl{d: d}
}

// Headers returns a read-only snapshot of the response headers.
func (c *ResponseControl) Headers() HeaderBlock { return c.d.Headers() }

// RequestHeaders returns a read-only snapshot of the paired request's
// headers, letting a response filter key its behavior off the request
// that produced it.
func (c *ResponseControl) RequestHeaders() HeaderBlock { return c.d.RequestHeaders() }

// RewriteHeaders schedules a header replacement.
func (c *ResponseControl) RewriteHeaders(h HeaderBlock) { c.d.RewriteHeaders(h) }

// ReadBodyChunk cooperatively suspends until the host supplies the next
// body chunk. last reports end-of-body.
func (c *ResponseControl) ReadBodyChunk() (data []byte, last bool) { return c.d.ReadBodyChunk() }

// WriteBody replaces the entire body with a single chunk.
func (c *ResponseControl) WriteBody(body []byte) { c.d.WriteBodyChunk(body, true) }

// WriteBodyChunk schedules one output chunk of a streamed replacement
// body. Call with last=true on the final chunk.
func (c *ResponseControl) WriteBodyChunk(data []byte, last bool) { c.d.WriteBodyChunk(data, last) }

// Finish ends the filter.
func (c *ResponseControl) Finish() { c.d.Finish() }

// RequestFilter is implemented by handler code that wants to observe or
// transform a request.
type RequestFilter interface {
	FilterRequest(c *RequestControl)
}

// ResponseFilter is implemented by handler code that wants to observe or
// transform a response.
type ResponseFilter interface {
	FilterResponse(c *ResponseControl)
}

// Factory produces a fresh filter pair for each transaction. A handler is
// a named, configured Factory.
type Factory interface {
	NewRequestFilter() RequestFilter
	NewResponseFilter() ResponseFilter
}
