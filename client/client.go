package client

import (
	"sort"
	"strconv"
	"strings"

	"github.com/tidwall/sjson"
	"go.uber.org/zap"

	"github.com/msdgwzhy6/dmix/protocol"
)

// Client is a thin convenience layer over a protocol.Transport. It
// owns no connection state of its own; give it a transport.Conn (or
// anything else speaking protocol.Transport) and reuse it freely.
type Client struct {
	transport protocol.Transport
	log       *zap.Logger
}

func New(transport protocol.Transport, log *zap.Logger) *Client {
	if log == nil {
		log = zap.NewNop()
	}

	return &Client{
		transport: transport,
		log:       log.Named("client"),
	}
}

func (c *Client) Ping() error {
	_, err := c.transport.SendCommand("ping")
	return err
}

// Password authenticates against a password protected server.
func (c *Client) Password(password string) error {
	list := protocol.NewCommandList()
	list.AddCommand("password", password)

	_, err := list.Send(c.transport)
	return err
}

// Status returns the server's status as a key/value map.
func (c *Client) Status() (map[string]string, error) {
	lines, err := c.transport.SendCommand("status")
	if err != nil {
		return nil, err
	}

	return parsePairs(lines), nil
}

// CurrentSong returns the tags of the playing song as a key/value map.
func (c *Client) CurrentSong() (map[string]string, error) {
	lines, err := c.transport.SendCommand("currentsong")
	if err != nil {
		return nil, err
	}

	return parsePairs(lines), nil
}

// StatusJSON returns the server's status as a JSON document, one
// member per status line.
func (c *Client) StatusJSON() ([]byte, error) {
	lines, err := c.transport.SendCommand("status")
	if err != nil {
		return nil, err
	}

	doc := []byte(`{}`)

	for key, value := range parsePairs(lines) {
		doc, err = sjson.SetBytes(doc, key, value)
		if err != nil {
			return nil, err
		}
	}

	return doc, nil
}

// DeleteAt removes the playlist entries at the given positions in one
// round trip. The deletes are enqueued in ascending order and the list
// reversed before sending, so the highest index goes first and the
// lower indices stay valid.
func (c *Client) DeleteAt(positions ...int) error {
	if len(positions) == 0 {
		return nil
	}

	sorted := append([]int(nil), positions...)
	sort.Ints(sorted)

	list := protocol.NewCommandListCap(len(sorted))
	for _, position := range sorted {
		list.AddCommand("delete", strconv.Itoa(position))
	}
	list.Reverse()

	c.log.Debug("Deleting playlist entries",
		zap.Ints("positions", sorted))

	_, err := list.Send(c.transport)
	return err
}

// Add appends each URI to the playlist, in order, in one round trip.
func (c *Client) Add(uris ...string) error {
	if len(uris) == 0 {
		return nil
	}

	list := protocol.NewCommandListCap(len(uris))
	list.AddEach("add", uris)

	_, err := list.Send(c.transport)
	return err
}

// PlaylistInfo fetches the playlist entries at the given positions,
// one tag map per position, using a separated command list so each
// entry's lines come back as its own group.
func (c *Client) PlaylistInfo(positions ...int) ([]map[string]string, error) {
	if len(positions) == 0 {
		return nil, nil
	}

	list := protocol.NewCommandListCap(len(positions))
	for _, position := range positions {
		list.AddCommand("playlistinfo", strconv.Itoa(position))
	}

	groups, err := list.SendSeparated(c.transport)
	if err != nil {
		return nil, err
	}

	entries := make([]map[string]string, 0, len(groups))
	for _, group := range groups {
		entries = append(entries, parsePairs(group))
	}

	return entries, nil
}

// parsePairs turns the server's `key: value` lines into a map. Lines
// without a separator are skipped.
func parsePairs(lines []string) map[string]string {
	pairs := make(map[string]string, len(lines))

	for _, line := range lines {
		i := strings.Index(line, ": ")
		if i < 0 {
			continue
		}

		pairs[line[:i]] = line[i+2:]
	}

	return pairs
}
