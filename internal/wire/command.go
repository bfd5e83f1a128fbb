package wire

import (
	"fmt"
	"strconv"
	"strings"
)

// Command tokens. Bit-exact and case-sensitive per the protocol.
const (
	TokenDone = "DONE"
	TokenWait = "WAIT"
	TokenWhdr = "WHDR"
	TokenWbod = "WBOD"
	TokenRbod = "RBOD"
	TokenSwch = "SWCH"
)

// Done is the terminal "nothing more to do" command.
func Done() string { return TokenDone }

// Wait is returned by a non-blocking poll when no command is ready.
func Wait() string { return TokenWait }

// Rbod asks the host to deliver the next body chunk via SendBodyChunk.
func Rbod() string { return TokenRbod }

// Whdr instructs the host to replace headers with the serialized block.
func Whdr(block string) string { return TokenWhdr + block }

// Wbod instructs the host to replace the body with the given chunk.
func Wbod(chunkID uint32) string {
	return fmt.Sprintf("%s%x", TokenWbod, chunkID)
}

// Swch signals a synthetic response: a chunk holding the body plus the
// status code to answer with instead of proxying to an origin.
func Swch(chunkID uint32, status int) string {
	return fmt.Sprintf("%s%x %d", TokenSwch, chunkID, status)
}

// ParseChunkCommand extracts the chunk ID from a WBOD or SWCH command's
// leading hex digits. For SWCH it also returns the trailing status code.
func ParseChunkCommand(cmd string) (chunkID uint32, status int, ok bool) {
	if len(cmd) < 4 {
		return 0, 0, false
	}
	token, rest := cmd[:4], cmd[4:]
	if token != TokenWbod && token != TokenSwch {
		return 0, 0, false
	}

	hexPart := rest
	if token == TokenSwch {
		if idx := strings.IndexByte(rest, ' '); idx >= 0 {
			hexPart = rest[:idx]
			s, err := strconv.Atoi(strings.TrimSpace(rest[idx+1:]))
			if err != nil {
				return 0, 0, false
			}
			status = s
		}
	}

	id, err := strconv.ParseUint(hexPart, 16, 32)
	if err != nil {
		return 0, 0, false
	}
	return uint32(id), status, true
}
