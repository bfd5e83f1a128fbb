package wire

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestParseRequestCRLF(t *testing.T) {
	raw := "GET /pass HTTP/1.1\r\nHost: localhost:1234\r\nContent-Length: 10\r\nContent-Type: text/plain\r\n\r\n"
	h, ok := ParseRequest(raw)
	require.True(t, ok)
	require.Equal(t, "GET", h.Method)
	require.Equal(t, "/pass", h.URI)
	require.Equal(t, "HTTP/1.1", h.Version)
	require.True(t, h.CRLF)

	v, ok := h.Get("Host")
	require.True(t, ok)
	require.Equal(t, "localhost:1234", v)

	cl, ok := h.Get("Content-Length")
	require.True(t, ok)
	require.Equal(t, "10", cl)
}

func TestParseRequestMalformedIsTolerated(t *testing.T) {
	_, ok := ParseRequest("")
	require.False(t, ok)

	_, ok = ParseRequest("justoneword\r\n\r\n")
	require.False(t, ok)
}

func TestParseResponseMixedLineEndings(t *testing.T) {
	raw := "Server: weaverfilter\nContent-Length: 10\r\nContent-Type: text/plain\r\n\n"
	h, ok := ParseResponse(raw)
	require.True(t, ok)

	server, ok := h.Get("Server")
	require.True(t, ok)
	require.Equal(t, "weaverfilter", server)

	ct, ok := h.Get("Content-Type")
	require.True(t, ok)
	require.Equal(t, "text/plain", ct)
}

func TestWithoutStripsNamedField(t *testing.T) {
	h := Headers{Fields: []Field{{Name: "Content-Length", Value: "10"}, {Name: "X-Keep", Value: "1"}}}
	stripped := h.Without("Content-Length")
	require.Len(t, stripped.Fields, 1)
	require.Equal(t, "X-Keep", stripped.Fields[0].Name)
}

func TestSerializeRoundTripsLineEnding(t *testing.T) {
	h, ok := ParseRequest("POST /replacebody HTTP/1.1\r\nHost: x\r\n\r\n")
	require.True(t, ok)

	out := SerializeRequest(h)
	require.Contains(t, out, "\r\n")
	require.Equal(t, "POST /replacebody HTTP/1.1\r\nHost: x\r\n\r\n", out)
}

func TestDuplicateFieldsPreserveOrder(t *testing.T) {
	h, ok := ParseRequest("GET / HTTP/1.1\r\nX-A: 1\r\nX-A: 2\r\n\r\n")
	require.True(t, ok)
	require.Equal(t, []string{"1", "2"}, h.Values("X-A"))
}

func TestCommandEncoding(t *testing.T) {
	require.Equal(t, "DONE", Done())
	require.Equal(t, "WAIT", Wait())
	require.Equal(t, "RBOD", Rbod())
	require.Equal(t, "WHDRGET / HTTP/1.1\r\n\r\n", Whdr("GET / HTTP/1.1\r\n\r\n"))
	require.Equal(t, "WBODa", Wbod(10))
	require.Equal(t, "SWCHff 503", Swch(255, 503))
}

func TestParseChunkCommand(t *testing.T) {
	id, _, ok := ParseChunkCommand("WBODa")
	require.True(t, ok)
	require.EqualValues(t, 10, id)

	id, status, ok := ParseChunkCommand("SWCHff 503")
	require.True(t, ok)
	require.EqualValues(t, 255, id)
	require.Equal(t, 503, status)

	_, _, ok = ParseChunkCommand("DONE")
	require.False(t, ok)
}
