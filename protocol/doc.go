// This package implements the client side of the MPD (Music Player
// Daemon) wire protocol: serialising commands, batching them into
// command lists, and splitting bundled responses back apart.
//
// The protocol is line oriented and human readable.
//
// - lines are '\n' delimited
// - a command is its name followed by space separated arguments
// - arguments containing spaces or quotes are double quoted
// - the server answers with zero or more `key: value` lines followed
//   by a terminal `OK`, or by an `ACK [...]` error line
//
// === Command lists
//
// A single logical operation often needs several commands issued in
// one round trip. The protocol supports this with command lists:
//
//   ```
//     command_list_begin
//     delete 5
//     delete 3
//     delete 1
//     command_list_end
//   ```
//
// The server executes the contained commands as one request and
// replies once. The `command_list_ok_begin` variant additionally makes
// the server emit a `list_OK` line after each contained command
// completes, so the client can recover per-command results from the
// combined response. See `CommandList` and `SeparatedResults`.
//
// Note: in reference MPD 0.19+ a bare newline on the wire disconnects
//       the client. A list holding exactly one command is therefore
//       rendered unwrapped, with its trailing newline stripped, and the
//       transport supplies the final terminator.
//
// === Errors
//
//   ```
//     ACK [50@1] {delete} Bad song index
//   ```
//
// Where `50` is the error code, `1` is the zero-based index of the
// failing command within a command list, `{delete}` names the command
// and the rest is a human readable message. See `Ack`.
package protocol
