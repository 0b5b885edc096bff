package protocol

import (
	"errors"
	"strings"
)

// Wire markers for MPD command lists. These must match the reference
// server byte for byte.
const (
	// ListBegin starts a command list whose results are not separated.
	ListBegin = "command_list_begin"

	// ListOKBegin starts a command list where the server acknowledges
	// each contained command with ListOKSeparator.
	ListOKBegin = "command_list_ok_begin"

	// ListEnd ends either command list form.
	ListEnd = "command_list_end"

	// ListOKSeparator is emitted by the server after each command in a
	// separated command list completes successfully.
	ListOKSeparator = "list_OK"
)

// ErrEmptyCommandList is returned when sending a list that holds no
// commands. This is a caller bug, not a transport failure; check
// IsEmpty first if an empty list is a reachable state.
var ErrEmptyCommandList = errors.New("cannot send an empty command list")

// Transport delivers one rendered command (or command list) to the
// server and returns every response line it produced, without the
// terminal acknowledgement. Implementations fail with their own I/O
// errors, or with *Ack when the server rejects a command; CommandList
// passes both through untouched.
type Transport interface {
	SendCommand(wire string) ([]string, error)
}

// startLength is the fixed wrapping overhead of a rendered list: the
// longer start marker, the end marker, and slack for newlines.
func startLength() int {
	return len(ListOKBegin) + len(ListEnd) + 5
}

// CommandList is an ordered batch of commands destined for a single
// round trip. Insertion order is transmission and result order;
// duplicates are fine.
//
// A list is built up with the Add methods, consumed by one Send or
// SendSeparated, and then discarded or Cleared for reuse. It is a
// plain single-owner value with no internal locking.
type CommandList struct {
	commands []*Command

	// length tracks the serialised size of the list, wrapper included,
	// so Render can size its buffer up front. Every mutation keeps it
	// equal to startLength() plus the summed Len of the commands.
	length int
}

func NewCommandList() *CommandList {
	return &CommandList{
		commands: make([]*Command, 0),
		length:   startLength(),
	}
}

// NewCommandListCap pre-sizes the backing storage for an expected
// command count. Purely a performance hint.
func NewCommandListCap(capacity int) *CommandList {
	return &CommandList{
		commands: make([]*Command, 0, capacity),
		length:   startLength(),
	}
}

// Add appends a command to the end of the list.
func (l *CommandList) Add(command *Command) {
	l.commands = append(l.commands, command)
	l.length += command.Len()
}

// AddAt inserts a command at the given position, 0 <= position <= Len.
func (l *CommandList) AddAt(position int, command *Command) {
	l.commands = append(l.commands, nil)
	copy(l.commands[position+1:], l.commands[position:])
	l.commands[position] = command
	l.length += command.Len()
}

// AddAll appends another list's commands, in their existing order, to
// the end of this one. The donor list is left untouched.
func (l *CommandList) AddAll(other *CommandList) {
	l.commands = append(l.commands, other.commands...)
	l.length += other.length - startLength()
}

// AddAllAt splices another list's commands into this one at the given
// position. The donor list is left untouched.
func (l *CommandList) AddAllAt(position int, other *CommandList) {
	spliced := make([]*Command, 0, len(l.commands)+len(other.commands))
	spliced = append(spliced, l.commands[:position]...)
	spliced = append(spliced, other.commands...)
	spliced = append(spliced, l.commands[position:]...)

	l.commands = spliced
	l.length += other.length - startLength()
}

// AddCommand builds a command from a name and arguments and appends it.
func (l *CommandList) AddCommand(name string, args ...string) {
	l.Add(NewCommand(name, args...))
}

// AddEach appends one single-argument command per element of args,
// all with the same name, preserving argument order.
func (l *CommandList) AddEach(name string, args []string) {
	for _, arg := range args {
		l.AddCommand(name, arg)
	}
}

// Clear empties the list.
func (l *CommandList) Clear() {
	l.commands = l.commands[:0]
	l.length = startLength()
}

// Reverse flips the command order in place. Useful when deleting
// playlist entries by index: enqueue the deletes in ascending order
// for readability, then reverse so the highest index is removed first
// and the lower indices stay valid.
func (l *CommandList) Reverse() {
	for i, j := 0, len(l.commands)-1; i < j; i, j = i+1, j-1 {
		l.commands[i], l.commands[j] = l.commands[j], l.commands[i]
	}
}

func (l *CommandList) IsEmpty() bool {
	return len(l.commands) == 0
}

func (l *CommandList) Len() int {
	return len(l.commands)
}

// EstimatedLength returns the serialised size the next Render will
// pre-allocate: the wrapping overhead plus the summed wire length of
// every command currently in the list.
func (l *CommandList) EstimatedLength() int {
	return l.length
}

// Each calls fn for every command in current order. It does not mutate
// the list and can be restarted freely.
func (l *CommandList) Each(fn func(*Command)) {
	for _, command := range l.commands {
		fn(command)
	}
}

// Render serialises the list. With exactly one command the wrapper is
// skipped entirely and the command's trailing newline is stripped;
// there is no batching benefit, and the bare trailing newline would
// disconnect MPD 0.19+ (see Newline). Otherwise the commands are
// wrapped between a start marker, chosen by separated, and ListEnd.
//
// Rendering an empty list yields a well formed empty wrapper; Send and
// SendSeparated reject empty lists before rendering.
func (l *CommandList) Render(separated bool) string {
	if len(l.commands) == 1 {
		return l.renderUnwrapped()
	}

	return l.renderWrapped(separated)
}

// renderUnwrapped is the single-command form: no markers, trailing
// newline stripped (see Newline).
func (l *CommandList) renderUnwrapped() string {
	return strings.TrimSuffix(l.commands[0].String(), string(Newline))
}

// renderWrapped is the command list form, used for zero or multiple
// commands.
func (l *CommandList) renderWrapped(separated bool) string {
	var b strings.Builder
	b.Grow(l.length)

	if separated {
		b.WriteString(ListOKBegin)
	} else {
		b.WriteString(ListBegin)
	}
	b.WriteByte(Newline)

	for _, command := range l.commands {
		b.WriteString(command.String())
	}

	b.WriteString(ListEnd)

	return b.String()
}

func (l *CommandList) String() string {
	return l.Render(false)
}

// Send renders the list in plain mode and hands it to the transport,
// returning the raw response lines. Transport and server failures pass
// through unchanged; the only local failure is ErrEmptyCommandList.
func (l *CommandList) Send(t Transport) ([]string, error) {
	if l.IsEmpty() {
		return nil, ErrEmptyCommandList
	}

	return t.SendCommand(l.Render(false))
}

// SendSeparated renders the list in separated mode, hands it to the
// transport and regroups the combined response into one group of lines
// per command, in transmission order.
func (l *CommandList) SendSeparated(t Transport) ([][]string, error) {
	if l.IsEmpty() {
		return nil, ErrEmptyCommandList
	}

	lines, err := t.SendCommand(l.Render(true))
	if err != nil {
		return nil, err
	}

	return SeparatedResults(lines), nil
}
