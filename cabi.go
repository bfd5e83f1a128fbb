//go:build cgo

package weaverfilter

// #include <stdlib.h>
import "C"
import "unsafe"

// defaultRuntime is the single process-wide Runtime the C ABI operates
// against, matching the spec's "stateless library, all state lives in
// transaction objects keyed by integer handles" model: the process
// holds exactly one set of registries. Grounded on the teacher's
// cgo/stub split (internal/uring's real vs. simulated ring), this file
// carries the real cgo-exported half; cabi_stub.go carries a pure-Go
// shim with identical names for building and testing without a cgo
// toolchain.
var defaultRuntime = New()

func goBytes(ptr unsafe.Pointer, length C.int) []byte {
	if ptr == nil || length <= 0 {
		return nil
	}
	return C.GoBytes(ptr, length)
}

// GoCreateHandler registers name against urn. Returns a caller-freed
// error string, or NULL on success.
//
//export GoCreateHandler
func GoCreateHandler(name *C.char, urn *C.char) *C.char {
	err := defaultRuntime.CreateHandler(C.GoString(name), C.GoString(urn))
	if err == nil {
		return nil
	}
	return C.CString(err.Error())
}

// GoDestroyHandler removes name's registration.
//
//export GoDestroyHandler
func GoDestroyHandler(name *C.char) {
	defaultRuntime.DestroyHandler(C.GoString(name))
}

// GoCreateRequest allocates a request transaction.
//
//export GoCreateRequest
func GoCreateRequest(handlerName *C.char) C.uint {
	return C.uint(defaultRuntime.CreateRequest(C.GoString(handlerName)))
}

// GoFreeRequest frees a request transaction.
//
//export GoFreeRequest
func GoFreeRequest(id C.uint) {
	defaultRuntime.FreeRequest(uint32(id))
}

// GoBeginRequest starts a request transaction's handler task.
//
//export GoBeginRequest
func GoBeginRequest(id C.uint, headerBlock *C.char) {
	defaultRuntime.BeginRequest(uint32(id), C.GoString(headerBlock))
}

// GoPollRequest returns the next command for a request transaction, a
// caller-freed string.
//
//export GoPollRequest
func GoPollRequest(id C.uint, block C.int) *C.char {
	return C.CString(defaultRuntime.PollRequest(uint32(id), block != 0))
}

// GoSendRequestBodyChunk delivers a body chunk to a request transaction.
//
//export GoSendRequestBodyChunk
func GoSendRequestBodyChunk(id C.uint, last C.int, bytes unsafe.Pointer, length C.int) {
	defaultRuntime.SendRequestBodyChunk(uint32(id), last != 0, goBytes(bytes, length))
}

// GoCreateResponse allocates a response transaction.
//
//export GoCreateResponse
func GoCreateResponse(handlerName *C.char) C.uint {
	return C.uint(defaultRuntime.CreateResponse(C.GoString(handlerName)))
}

// GoFreeResponse frees a response transaction.
//
//export GoFreeResponse
func GoFreeResponse(id C.uint) {
	defaultRuntime.FreeResponse(uint32(id))
}

// GoBeginResponse starts a response transaction's handler task, paired
// with the request that produced it.
//
//export GoBeginResponse
func GoBeginResponse(id C.uint, requestID C.uint, status C.int, headerBlock *C.char) {
	defaultRuntime.BeginResponse(uint32(id), uint32(requestID), int(status), C.GoString(headerBlock))
}

// GoPollResponse returns the next command for a response transaction.
//
//export GoPollResponse
func GoPollResponse(id C.uint, block C.int) *C.char {
	return C.CString(defaultRuntime.PollResponse(uint32(id), block != 0))
}

// GoSendResponseBodyChunk delivers a body chunk to a response
// transaction.
//
//export GoSendResponseBodyChunk
func GoSendResponseBodyChunk(id C.uint, last C.int, bytes unsafe.Pointer, length C.int) {
	defaultRuntime.SendResponseBodyChunk(uint32(id), last != 0, goBytes(bytes, length))
}

// GoGetChunk returns a malloc'd copy of chunkID's bytes so host C code
// can free() it, or NULL if chunkID is unknown.
//
//export GoGetChunk
func GoGetChunk(chunkID C.uint) unsafe.Pointer {
	data := defaultRuntime.GetChunk(uint32(chunkID))
	if data == nil {
		return nil
	}
	buf := C.malloc(C.size_t(len(data)))
	if buf == nil {
		return nil
	}
	copy(unsafe.Slice((*byte)(buf), len(data)), data)
	return buf
}

// GoGetChunkLength returns chunkID's byte length, or 0 if unknown.
//
//export GoGetChunkLength
func GoGetChunkLength(chunkID C.uint) C.uint {
	return C.uint(defaultRuntime.GetChunkLength(uint32(chunkID)))
}

// GoReleaseChunk drops chunkID's engine-side buffer.
//
//export GoReleaseChunk
func GoReleaseChunk(chunkID C.uint) {
	defaultRuntime.ReleaseChunk(uint32(chunkID))
}
