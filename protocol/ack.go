package protocol

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
)

const (
	// ResponseOK terminates every successful response.
	ResponseOK = "OK"

	// BannerPrefix starts the greeting line the server sends on
	// connect, followed by its protocol version.
	BannerPrefix = "OK MPD "

	// AckPrefix starts the error line that replaces ResponseOK when a
	// command fails.
	AckPrefix = "ACK "
)

// Error codes reported inside ACK lines by the reference server.
const (
	AckErrorNotList      = 1
	AckErrorArg          = 2
	AckErrorPassword     = 3
	AckErrorPermission   = 4
	AckErrorUnknown      = 5
	AckErrorNoExist      = 50
	AckErrorPlaylistMax  = 51
	AckErrorSystem       = 52
	AckErrorPlaylistLoad = 53
)

// ackPattern matches `ACK [code@index] {command} message`.
var ackPattern = regexp.MustCompile(`^ACK \[(\d+)@(\d+)\] \{([^}]*)\} (.*)$`)

// Ack is a command execution failure reported by the server. Inside a
// command list the failing command aborts the remainder of the list
// server side; CommandIndex tells the caller which one it was.
type Ack struct {
	// Code is one of the AckError values.
	Code int

	// CommandIndex is the zero-based position of the failing command
	// within a command list. Zero for standalone commands.
	CommandIndex int

	// Command is the name of the failing command, empty when the
	// server could not attribute the failure.
	Command string

	// Message is the server's human readable description.
	Message string
}

func (a *Ack) Error() string {
	return fmt.Sprintf("ACK [%d@%d] {%s} %s",
		a.Code, a.CommandIndex, a.Command, a.Message)
}

// ParseAck parses a response line as an ACK error. The second return
// is false when the line is not an ACK line at all. Malformed ACK
// lines still produce an *Ack carrying the raw text as the message, so
// a server failure is never mistaken for success.
func ParseAck(line string) (*Ack, bool) {
	if !strings.HasPrefix(line, AckPrefix) {
		return nil, false
	}

	match := ackPattern.FindStringSubmatch(line)
	if match == nil {
		return &Ack{Message: strings.TrimPrefix(line, AckPrefix)}, true
	}

	// The pattern only admits digits, so these cannot fail.
	code, _ := strconv.Atoi(match[1])
	index, _ := strconv.Atoi(match[2])

	return &Ack{
		Code:         code,
		CommandIndex: index,
		Command:      match[3],
		Message:      match[4],
	}, true
}
