// Package network carries movement snapshots between the authoritative
// simulation and its observers.
package network

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net"
	"sync"

	"go.uber.org/zap"

	"github.com/Faultbox/buoyant/internal/network/packets"
	"github.com/Faultbox/buoyant/internal/replication"
	"github.com/Faultbox/buoyant/pkg/math"
)

// ErrNotConnected is returned when sending without a connection.
var ErrNotConnected = errors.New("not connected")

// Client handles network communication for one peer.
type Client struct {
	conn     net.Conn
	mu       sync.Mutex
	handlers map[uint16]PacketHandler
	log      *zap.Logger

	// Connection state
	connected bool
	sendID    uint16

	sent     uint64
	received uint64
}

// PacketHandler handles incoming packets.
type PacketHandler func(data []byte) error

// New creates a new network client. Snapshots are sent with packet ID
// sendID.
func New(sendID uint16, log *zap.Logger) *Client {
	if log == nil {
		log = zap.NewNop()
	}
	return &Client{
		handlers: make(map[uint16]PacketHandler),
		log:      log,
		sendID:   sendID,
	}
}

// Connect dials a peer over TCP.
func (c *Client) Connect(addr string) error {
	conn, err := net.Dial("tcp", addr)
	if err != nil {
		return fmt.Errorf("connecting to %s: %w", addr, err)
	}
	if err := c.Attach(conn); err != nil {
		conn.Close()
		return err
	}
	return nil
}

// Attach uses an existing connection, such as one side of net.Pipe or an
// accepted listener connection.
func (c *Client) Attach(conn net.Conn) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.connected {
		return fmt.Errorf("already connected")
	}
	c.conn = conn
	c.connected = true
	c.log.Debug("connected", zap.Stringer("remote", conn.RemoteAddr()))
	return nil
}

// Disconnect closes the connection.
func (c *Client) Disconnect() {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.conn != nil {
		c.conn.Close()
		c.conn = nil
	}
	c.connected = false
}

// IsConnected returns connection status.
func (c *Client) IsConnected() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.connected
}

// Stats returns the number of packets sent and received.
func (c *Client) Stats() (sent, received uint64) {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.sent, c.received
}

// RegisterHandler registers a packet handler. Handlers must be registered
// before Process or Run is started.
func (c *Client) RegisterHandler(packetID uint16, handler PacketHandler) {
	c.handlers[packetID] = handler
}

// OnSnapshot registers fn for every snapshot-carrying packet ID.
func (c *Client) OnSnapshot(fn func(replication.Snapshot)) {
	h := func(data []byte) error {
		var p packets.SnapshotPacket
		if err := p.Decode(data); err != nil {
			return err
		}
		fn(FromPacket(&p))
		return nil
	}
	for _, id := range []uint16{packets.SC_MOVEMENT_SNAPSHOT, packets.SC_CORRECTION, packets.CS_MOVEMENT_INPUT} {
		c.RegisterHandler(id, h)
	}
}

// Send sends a packet to the peer.
func (c *Client) Send(data []byte) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if !c.connected {
		return ErrNotConnected
	}
	if _, err := c.conn.Write(data); err != nil {
		return fmt.Errorf("write packet: %w", err)
	}
	c.sent++
	return nil
}

// SendSnapshot encodes s and sends it. Correction events use the correction
// packet ID.
func (c *Client) SendSnapshot(s replication.Snapshot) error {
	p := ToPacket(s, c.sendID)
	if s.Event == replication.EventCorrection && c.sendID == packets.SC_MOVEMENT_SNAPSHOT {
		p.PacketID = packets.SC_CORRECTION
	}
	return c.Send(p.Encode())
}

// Process reads one packet and dispatches it to its handler. It blocks
// until a full packet has arrived.
func (c *Client) Process() error {
	c.mu.Lock()
	conn := c.conn
	connected := c.connected
	c.mu.Unlock()
	if !connected {
		return ErrNotConnected
	}

	header := make([]byte, 2)
	if _, err := io.ReadFull(conn, header); err != nil {
		return err
	}
	id, err := packets.PeekID(header)
	if err != nil {
		return err
	}
	size, err := packets.SizeOf(id)
	if err != nil {
		return err
	}

	data := make([]byte, size)
	copy(data, header)
	if _, err := io.ReadFull(conn, data[2:]); err != nil {
		return fmt.Errorf("read packet 0x%04X body: %w", id, err)
	}

	c.mu.Lock()
	c.received++
	c.mu.Unlock()

	handler, ok := c.handlers[id]
	if !ok {
		c.log.Debug("no handler", zap.Uint16("packet_id", id))
		return nil
	}
	if err := handler(data); err != nil {
		return fmt.Errorf("handle packet 0x%04X: %w", id, err)
	}
	return nil
}

// Run processes packets until ctx is done or the connection fails. A closed
// connection ends Run without error.
func (c *Client) Run(ctx context.Context) error {
	stop := context.AfterFunc(ctx, c.Disconnect)
	defer stop()

	for {
		err := c.Process()
		switch {
		case err == nil:
			continue
		case ctx.Err() != nil:
			return ctx.Err()
		case errors.Is(err, io.EOF), errors.Is(err, io.ErrClosedPipe),
			errors.Is(err, net.ErrClosed), errors.Is(err, ErrNotConnected):
			return nil
		default:
			return err
		}
	}
}

// ToPacket converts a snapshot to its wire form.
func ToPacket(s replication.Snapshot, id uint16) *packets.SnapshotPacket {
	return &packets.SnapshotPacket{
		PacketID:        id,
		Event:           int8(s.Event),
		Timestamp:       s.Timestamp,
		Location:        [3]float32{s.Location.X, s.Location.Y, s.Location.Z},
		LinearVelocity:  [3]float32{s.LinearVelocity.X, s.LinearVelocity.Y, s.LinearVelocity.Z},
		AngularVelocity: [3]float32{s.AngularVelocity.X, s.AngularVelocity.Y, s.AngularVelocity.Z},
		Rotation:        [4]float32{s.Rotation.X, s.Rotation.Y, s.Rotation.Z, s.Rotation.W},
	}
}

// FromPacket converts a wire packet to a snapshot.
func FromPacket(p *packets.SnapshotPacket) replication.Snapshot {
	return replication.Snapshot{
		LinearVelocity:  vec3(p.LinearVelocity),
		AngularVelocity: vec3(p.AngularVelocity),
		Location:        vec3(p.Location),
		Rotation:        math.Quat{X: p.Rotation[0], Y: p.Rotation[1], Z: p.Rotation[2], W: p.Rotation[3]},
		Timestamp:       p.Timestamp,
		Event:           replication.EventFlag(p.Event),
	}
}

func vec3(v [3]float32) math.Vec3 {
	return math.Vec3{X: v[0], Y: v[1], Z: v[2]}
}
