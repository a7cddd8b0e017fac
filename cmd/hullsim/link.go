package main

import (
	"context"
	"errors"
	"fmt"
	"net"

	"go.uber.org/zap"

	"github.com/Faultbox/buoyant/internal/network"
	"github.com/Faultbox/buoyant/internal/network/packets"
	"github.com/Faultbox/buoyant/internal/replication"
)

// link carries snapshots from the authoritative side to the observer.
// Received snapshots queue up until the simulation loop drains them.
type link struct {
	authority *network.Client
	observer  *network.Client
	inbox     chan replication.Snapshot

	cancel context.CancelFunc
	done   chan error
}

func dialLink(transport, addr string, log *zap.Logger) (*link, error) {
	l := &link{
		authority: network.New(packets.SC_MOVEMENT_SNAPSHOT, log.Named("authority")),
		observer:  network.New(packets.CS_MOVEMENT_INPUT, log.Named("observer")),
		inbox:     make(chan replication.Snapshot, 256),
		done:      make(chan error, 1),
	}

	switch transport {
	case "pipe":
		a, b := net.Pipe()
		if err := l.authority.Attach(a); err != nil {
			return nil, err
		}
		if err := l.observer.Attach(b); err != nil {
			return nil, err
		}

	case "tcp":
		ln, err := net.Listen("tcp", addr)
		if err != nil {
			return nil, fmt.Errorf("listen on %s: %w", addr, err)
		}
		defer ln.Close()

		accepted := make(chan net.Conn, 1)
		acceptErr := make(chan error, 1)
		go func() {
			conn, err := ln.Accept()
			if err != nil {
				acceptErr <- err
				return
			}
			accepted <- conn
		}()

		if err := l.observer.Connect(ln.Addr().String()); err != nil {
			return nil, err
		}
		select {
		case conn := <-accepted:
			if err := l.authority.Attach(conn); err != nil {
				conn.Close()
				l.observer.Disconnect()
				return nil, err
			}
		case err := <-acceptErr:
			l.observer.Disconnect()
			return nil, fmt.Errorf("accept observer: %w", err)
		}
		log.Info("observer connected", zap.Stringer("addr", ln.Addr()))

	default:
		return nil, fmt.Errorf("unknown transport %q", transport)
	}

	l.observer.OnSnapshot(func(s replication.Snapshot) {
		l.inbox <- s
	})

	ctx, cancel := context.WithCancel(context.Background())
	l.cancel = cancel
	go func() {
		l.done <- l.observer.Run(ctx)
	}()
	return l, nil
}

// Sender returns the authoritative end.
func (l *link) Sender() replication.Sender { return l.authority }

// Drain passes every queued snapshot to fn without blocking.
func (l *link) Drain(fn func(replication.Snapshot)) {
	for {
		select {
		case s := <-l.inbox:
			fn(s)
		default:
			return
		}
	}
}

// Close stops the observer reader and closes both ends.
func (l *link) Close() error {
	l.authority.Disconnect()
	l.cancel()
	err := <-l.done
	l.observer.Disconnect()
	if errors.Is(err, context.Canceled) {
		return nil
	}
	return err
}
