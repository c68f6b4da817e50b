package model

import (
	"context"
	"net"
)

// Listener opens the network listener a server accepts connections on.
type Listener interface {
	Listen(network, addr string) (net.Listener, error)
}

// Server is a long-running network server with graceful shutdown.
type Server interface {
	Start(listener Listener) error
	Stop(ctx context.Context) error
	Address() string
}
