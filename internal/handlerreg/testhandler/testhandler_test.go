package testhandler

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/weaver-proxy/weaverfilter/filterapi"
)

// fakeRequestDriver is a minimal filterapi.RequestDriver for exercising
// request filter logic without a real engine transaction.
type fakeRequestDriver struct {
	headers filterapi.HeaderBlock
	written [][]byte
}

func (d *fakeRequestDriver) Headers() filterapi.HeaderBlock        { return d.headers }
func (d *fakeRequestDriver) RewriteHeaders(h filterapi.HeaderBlock) { d.headers = h }
func (d *fakeRequestDriver) ReadBodyChunk() ([]byte, bool)         { return nil, true }
func (d *fakeRequestDriver) WriteBodyChunk(data []byte, last bool) {
	d.written = append(d.written, append([]byte(nil), data...))
}
func (d *fakeRequestDriver) Respond(status int, headers filterapi.HeaderBlock, body []byte) {}
func (d *fakeRequestDriver) Finish()                                                        {}

func TestRequestFilterPassThroughOnPass(t *testing.T) {
	d := &fakeRequestDriver{headers: filterapi.HeaderBlock{URI: "/pass"}}
	requestFilter{}.FilterRequest(filterapi.NewRequestControl(d))
	require.Empty(t, d.written)
}

func TestRequestFilterReplacesBodyOnReplacebody(t *testing.T) {
	d := &fakeRequestDriver{headers: filterapi.HeaderBlock{URI: "/replacebody"}}
	requestFilter{}.FilterRequest(filterapi.NewRequestControl(d))
	require.Len(t, d.written, 1)
	require.Equal(t, "Hello! I am the server!", string(d.written[0]))
}

func TestRequestFilterPassThroughOnTransformPaths(t *testing.T) {
	for _, uri := range []string{"/transformbody", "/transformbodychunks"} {
		d := &fakeRequestDriver{headers: filterapi.HeaderBlock{URI: uri}}
		requestFilter{}.FilterRequest(filterapi.NewRequestControl(d))
		require.Empty(t, d.written, "uri=%s", uri)
	}
}

type bodyChunk struct {
	data []byte
	last bool
}

// fakeResponseDriver is a minimal filterapi.ResponseDriver.
type fakeResponseDriver struct {
	headers    filterapi.HeaderBlock
	reqHeaders filterapi.HeaderBlock
	chunks     []bodyChunk
	idx        int
	written    [][]byte
}

func (d *fakeResponseDriver) Headers() filterapi.HeaderBlock        { return d.headers }
func (d *fakeResponseDriver) RequestHeaders() filterapi.HeaderBlock { return d.reqHeaders }
func (d *fakeResponseDriver) RewriteHeaders(h filterapi.HeaderBlock) { d.headers = h }
func (d *fakeResponseDriver) ReadBodyChunk() ([]byte, bool) {
	c := d.chunks[d.idx]
	d.idx++
	return c.data, c.last
}
func (d *fakeResponseDriver) WriteBodyChunk(data []byte, last bool) {
	d.written = append(d.written, append([]byte(nil), data...))
}
func (d *fakeResponseDriver) Finish() {}

func TestResponseFilterPassThroughByDefault(t *testing.T) {
	d := &fakeResponseDriver{reqHeaders: filterapi.HeaderBlock{URI: "/pass"}}
	responseFilter{}.FilterResponse(filterapi.NewResponseControl(d))
	require.Empty(t, d.written)
}

func TestResponseFilterReplacesBodyOnTransformbody(t *testing.T) {
	d := &fakeResponseDriver{reqHeaders: filterapi.HeaderBlock{URI: "/transformbody"}}
	responseFilter{}.FilterResponse(filterapi.NewResponseControl(d))
	require.Len(t, d.written, 1)
	require.Equal(t, "We have transformed the response!", string(d.written[0]))
}

func TestResponseFilterWrapsStreamedBodyInBraces(t *testing.T) {
	d := &fakeResponseDriver{
		reqHeaders: filterapi.HeaderBlock{URI: "/transformbodychunks"},
		headers: filterapi.HeaderBlock{Fields: []filterapi.Field{
			{Name: "Content-Length", Value: "14"},
		}},
		chunks: []bodyChunk{{data: []byte("Hello, Server!"), last: true}},
	}
	responseFilter{}.FilterResponse(filterapi.NewResponseControl(d))

	_, hasContentLength := d.headers.Get("Content-Length")
	require.False(t, hasContentLength)

	require.Len(t, d.written, 1)
	require.Equal(t, "{Hello, Server!}", string(d.written[0]))
}

func TestResponseFilterWrapsMultipleChunks(t *testing.T) {
	d := &fakeResponseDriver{
		reqHeaders: filterapi.HeaderBlock{URI: "/transformbodychunks"},
		chunks: []bodyChunk{
			{data: []byte("abc"), last: false},
			{data: []byte("def"), last: false},
			{data: []byte(""), last: true},
		},
	}
	responseFilter{}.FilterResponse(filterapi.NewResponseControl(d))
	require.Len(t, d.written, 1)
	require.Equal(t, "{abcdef}", string(d.written[0]))
}
