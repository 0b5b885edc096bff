package transport

import (
	"net"
	"strconv"
	"strings"
	"time"

	"go.uber.org/zap"
)

const (
	DefaultHost = "127.0.0.1"
	DefaultPort = 6600
)

type Options struct {
	// Host of the MPD server. A value containing a path separator is
	// treated as a unix socket path and Port is ignored.
	Host string

	// Port of the MPD server
	Port int

	// ConnectTimeout bounds the initial dial and banner read.
	// Zero means no bound.
	ConnectTimeout time.Duration

	// ReadTimeout bounds each response line read. Zero means no bound.
	ReadTimeout time.Duration

	// WriteTimeout bounds each request write. Zero means no bound.
	WriteTimeout time.Duration

	Log *zap.Logger
}

func (o Options) network() string {
	if strings.ContainsRune(o.Host, '/') {
		return "unix"
	}

	return "tcp"
}

func (o Options) addr() string {
	if o.network() == "unix" {
		return o.Host
	}

	host := o.Host
	if host == "" {
		host = DefaultHost
	}

	port := o.Port
	if port == 0 {
		port = DefaultPort
	}

	return net.JoinHostPort(host, strconv.Itoa(port))
}
