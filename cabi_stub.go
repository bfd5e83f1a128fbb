//go:build !cgo

package weaverfilter

// This file mirrors cabi.go's exported function names and signatures in
// pure Go, with C types replaced by their nearest Go equivalents, so the
// engine package builds and its tests run on a machine without a cgo
// toolchain. It is never the real host boundary; a host embeds
// weaverfilter by building with cgo enabled and linking against cabi.go's
// //export symbols instead.

var defaultRuntime = New()

// GoCreateHandler registers name against urn. Returns the error message,
// or "" on success.
func GoCreateHandler(name, urn string) string {
	if err := defaultRuntime.CreateHandler(name, urn); err != nil {
		return err.Error()
	}
	return ""
}

// GoDestroyHandler removes name's registration.
func GoDestroyHandler(name string) {
	defaultRuntime.DestroyHandler(name)
}

// GoCreateRequest allocates a request transaction.
func GoCreateRequest(handlerName string) uint32 {
	return defaultRuntime.CreateRequest(handlerName)
}

// GoFreeRequest frees a request transaction.
func GoFreeRequest(id uint32) {
	defaultRuntime.FreeRequest(id)
}

// GoBeginRequest starts a request transaction's handler task.
func GoBeginRequest(id uint32, headerBlock string) {
	defaultRuntime.BeginRequest(id, headerBlock)
}

// GoPollRequest returns the next command for a request transaction.
func GoPollRequest(id uint32, block bool) string {
	return defaultRuntime.PollRequest(id, block)
}

// GoSendRequestBodyChunk delivers a body chunk to a request transaction.
func GoSendRequestBodyChunk(id uint32, last bool, data []byte) {
	defaultRuntime.SendRequestBodyChunk(id, last, data)
}

// GoCreateResponse allocates a response transaction.
func GoCreateResponse(handlerName string) uint32 {
	return defaultRuntime.CreateResponse(handlerName)
}

// GoFreeResponse frees a response transaction.
func GoFreeResponse(id uint32) {
	defaultRuntime.FreeResponse(id)
}

// GoBeginResponse starts a response transaction's handler task, paired
// with the request that produced it.
func GoBeginResponse(id, requestID uint32, status int, headerBlock string) {
	defaultRuntime.BeginResponse(id, requestID, status, headerBlock)
}

// GoPollResponse returns the next command for a response transaction.
func GoPollResponse(id uint32, block bool) string {
	return defaultRuntime.PollResponse(id, block)
}

// GoSendResponseBodyChunk delivers a body chunk to a response
// transaction.
func GoSendResponseBodyChunk(id uint32, last bool, data []byte) {
	defaultRuntime.SendResponseBodyChunk(id, last, data)
}

// GoGetChunk returns a fresh copy of chunkID's bytes, or nil if unknown.
func GoGetChunk(chunkID uint32) []byte {
	return defaultRuntime.GetChunk(chunkID)
}

// GoGetChunkLength returns chunkID's byte length, or 0 if unknown.
func GoGetChunkLength(chunkID uint32) uint32 {
	return defaultRuntime.GetChunkLength(chunkID)
}

// GoReleaseChunk drops chunkID's engine-side buffer.
func GoReleaseChunk(chunkID uint32) {
	defaultRuntime.ReleaseChunk(chunkID)
}
