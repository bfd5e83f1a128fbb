// Package wire implements the header-block syntax and command protocol
// shared between the filter engine and its host: splitting a raw header
// block into a start-line plus ordered fields, and serializing it back
// with the same line-ending style it arrived with.
package wire

import "strings"

// Field is a single header line, preserved in insertion order. Duplicate
// names are legal and are kept as separate entries.
type Field struct {
	Name  string
	Value string
}

// Headers is a parsed header block: an optional request start-line plus
// an ordered field list. Method/URI/Version are empty for a response
// header block, whose status travels out of band via BeginResponse.
type Headers struct {
	Method  string
	URI     string
	Version string
	Fields  []Field

	// CRLF records whether the block used CRLF line endings on input (set
	// if any "\r\n" was seen). The engine serializes a rewritten block
	// with the same setting; a handler has no way to choose the other
	// ending.
	CRLF bool
}

// Get returns the value of the first field named name, case-sensitively,
// matching the protocol's tolerant-but-literal field handling.
func (h Headers) Get(name string) (string, bool) {
	for _, f := range h.Fields {
		if f.Name == name {
			return f.Value, true
		}
	}
	return "", false
}

// Values returns all values for fields named name, in insertion order.
func (h Headers) Values(name string) []string {
	var out []string
	for _, f := range h.Fields {
		if f.Name == name {
			out = append(out, f.Value)
		}
	}
	return out
}

// Without returns a copy of h with every field named name removed. Used by
// response filters that strip Content-Length before streaming a rewritten
// body.
func (h Headers) Without(name string) Headers {
	out := h
	out.Fields = nil
	for _, f := range h.Fields {
		if f.Name != name {
			out.Fields = append(out.Fields, f)
		}
	}
	return out
}

// splitLines splits raw into lines, tolerating CRLF and LF line endings
// (and a mix of both within the same block). It reports whether any CRLF
// was seen, which the serializer uses to pick an output style when the
// handler has no explicit preference.
func splitLines(raw string) ([]string, bool) {
	crlf := strings.Contains(raw, "\r\n")
	normalized := strings.ReplaceAll(raw, "\r\n", "\n")
	lines := strings.Split(normalized, "\n")
	// A trailing blank terminator line produces one extra empty element;
	// drop it so callers see only real lines.
	if len(lines) > 0 && lines[len(lines)-1] == "" {
		lines = lines[:len(lines)-1]
	}
	return lines, crlf
}

// ParseRequest parses a request header block: "METHOD URI VERSION" start
// line, then "Name: Value" field lines, terminated by a blank line.
// Malformed input (no parseable start line) returns ok=false; per the
// protocol's parse-tolerance rule the caller treats that as empty headers
// rather than surfacing a distinct error.
func ParseRequest(raw string) (Headers, bool) {
	lines, crlf := splitLines(raw)
	if len(lines) == 0 {
		return Headers{}, false
	}

	parts := strings.SplitN(lines[0], " ", 3)
	if len(parts) < 2 {
		return Headers{}, false
	}
	h := Headers{Method: parts[0], URI: parts[1], CRLF: crlf}
	if len(parts) == 3 {
		h.Version = parts[2]
	}
	h.Fields = parseFields(lines[1:])
	return h, true
}

// ParseResponse parses a response header block: field lines only (no
// start-line; status travels via BeginResponse), terminated by a blank
// line.
func ParseResponse(raw string) (Headers, bool) {
	lines, crlf := splitLines(raw)
	h := Headers{CRLF: crlf, Fields: parseFields(lines)}
	return h, true
}

func parseFields(lines []string) []Field {
	var fields []Field
	for _, line := range lines {
		if line == "" {
			continue
		}
		name, value, ok := strings.Cut(line, ":")
		if !ok {
			continue
		}
		fields = append(fields, Field{
			Name:  strings.TrimSpace(name),
			Value: strings.TrimSpace(value),
		})
	}
	return fields
}

// SerializeRequest renders h back into a header block using the line
// ending recorded on it.
func SerializeRequest(h Headers) string {
	sep := lineSep(h.CRLF)
	var b strings.Builder
	b.WriteString(h.Method)
	b.WriteByte(' ')
	b.WriteString(h.URI)
	if h.Version != "" {
		b.WriteByte(' ')
		b.WriteString(h.Version)
	}
	b.WriteString(sep)
	writeFields(&b, h.Fields, sep)
	b.WriteString(sep)
	return b.String()
}

// SerializeResponse renders h back into a header block (no start-line)
// using the line ending recorded on it.
func SerializeResponse(h Headers) string {
	sep := lineSep(h.CRLF)
	var b strings.Builder
	writeFields(&b, h.Fields, sep)
	b.WriteString(sep)
	return b.String()
}

func writeFields(b *strings.Builder, fields []Field, sep string) {
	for _, f := range fields {
		b.WriteString(f.Name)
		b.WriteString(": ")
		b.WriteString(f.Value)
		b.WriteString(sep)
	}
}

func lineSep(crlf bool) string {
	if crlf {
		return "\r\n"
	}
	return "\n"
}
