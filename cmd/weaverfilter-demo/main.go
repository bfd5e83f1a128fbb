// Command weaverfilter-demo drives a Runtime through a single request and
// response exchange against the built-in unit-test handler, printing the
// command sequence each side emits. It exists to exercise the library
// from outside its test suite, the way the teacher's cmd/ublk-mem built a
// real device to exercise the backend.
package main

import (
	"flag"
	"fmt"
	"log"
	"os"

	"github.com/weaver-proxy/weaverfilter"
	"github.com/weaver-proxy/weaverfilter/internal/handlerreg"
	"github.com/weaver-proxy/weaverfilter/internal/logging"
	"github.com/weaver-proxy/weaverfilter/internal/wire"
)

func main() {
	var (
		path    = flag.String("path", "/transformbodychunks", "request path to drive through the unit-test handler")
		body    = flag.String("body", "Hello, Server!", "response body to feed the handler, as a single chunk")
		verbose = flag.Bool("v", false, "verbose logging")
	)
	flag.Parse()

	logConfig := logging.DefaultConfig()
	if *verbose {
		logConfig.Level = logging.LevelDebug
	}
	logging.SetDefault(logging.NewLogger(logConfig))

	rt := weaverfilter.New()
	if err := rt.CreateHandler("demo", handlerreg.URNUnitTest); err != nil {
		log.Fatalf("create handler: %v", err)
	}

	reqID := rt.CreateRequest("demo")
	rt.BeginRequest(reqID, fmt.Sprintf("GET %s HTTP/1.1\n\n", *path))
	for {
		cmd := rt.PollRequest(reqID, true)
		fmt.Println("request:", cmd)
		if cmd == wire.TokenDone {
			break
		}
		if cmd == wire.TokenRbod {
			rt.SendRequestBodyChunk(reqID, true, nil)
		}
	}

	rspID := rt.CreateResponse("demo")
	rt.BeginResponse(rspID, reqID, 200, "Content-Length: 0\n\n")
	sent := false
	for {
		cmd := rt.PollResponse(rspID, true)
		fmt.Println("response:", cmd)
		if chunkID, _, ok := wire.ParseChunkCommand(cmd); ok {
			fmt.Printf("  chunk %x: %q\n", chunkID, rt.GetChunk(chunkID))
			rt.ReleaseChunk(chunkID)
		}
		if cmd == wire.TokenDone {
			break
		}
		if cmd == wire.TokenRbod {
			rt.SendResponseBodyChunk(rspID, true, []byte(*body))
			sent = true
		}
	}
	if !sent && *body != "" {
		fmt.Fprintln(os.Stderr, "warning: handler never read the response body")
	}

	rt.FreeRequest(reqID)
	rt.FreeResponse(rspID)
}
