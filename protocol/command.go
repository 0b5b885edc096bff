package protocol

import (
	"strings"
)

// Newline terminates every serialised command and the command list
// start markers. Sent bare it disconnects MPD 0.19+, so it must never
// reach the wire on its own.
const Newline = '\n'

// Command is a single, fully formed MPD command. It is immutable once
// constructed; the wire form is built eagerly so repeated String and
// Len calls are free.
type Command struct {
	name string
	args []string
	wire string
}

func NewCommand(name string, args ...string) *Command {
	var b strings.Builder

	b.WriteString(name)

	for _, arg := range args {
		b.WriteByte(' ')
		b.WriteString(quote(arg))
	}

	b.WriteByte(Newline)

	return &Command{
		name: name,
		args: args,
		wire: b.String(),
	}
}

func (c *Command) Name() string {
	return c.name
}

// String returns the command's wire form, terminated by a newline.
func (c *Command) String() string {
	return c.wire
}

// Len returns the length of the wire form, newline included.
func (c *Command) Len() int {
	return len(c.wire)
}

// quote wraps an argument in double quotes when it contains characters
// the server would otherwise treat as argument separators, escaping
// backslashes and double quotes inside it.
func quote(arg string) string {
	if arg != "" && !strings.ContainsAny(arg, " \t\"'\\") {
		return arg
	}

	var b strings.Builder
	b.WriteByte('"')

	for i := 0; i < len(arg); i++ {
		if arg[i] == '"' || arg[i] == '\\' {
			b.WriteByte('\\')
		}
		b.WriteByte(arg[i])
	}

	b.WriteByte('"')
	return b.String()
}
