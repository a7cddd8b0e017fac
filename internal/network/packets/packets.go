// Package packets defines the movement replication wire format.
//
// All values are little-endian. Every packet starts with a uint16 packet ID
// and has a fixed size determined by that ID.
package packets

import (
	"encoding/binary"
	"errors"
	"fmt"
	"math"
)

// Packet IDs
const (
	// Server -> Client
	SC_MOVEMENT_SNAPSHOT uint16 = 0x0A01 // Authoritative movement state
	SC_CORRECTION        uint16 = 0x0A02 // Forced correction of client state

	// Client -> Server
	CS_MOVEMENT_INPUT uint16 = 0x0B01 // Client predicted movement state
)

var (
	// ErrShortPacket is returned when a buffer is smaller than its packet.
	ErrShortPacket = errors.New("short packet")
	// ErrUnknownPacket is returned for an unregistered packet ID.
	ErrUnknownPacket = errors.New("unknown packet")
)

// SnapshotSize is the encoded size of SnapshotPacket.
const SnapshotSize = 64

// SizeOf returns the encoded size of packets with the given ID.
func SizeOf(id uint16) (int, error) {
	switch id {
	case SC_MOVEMENT_SNAPSHOT, SC_CORRECTION, CS_MOVEMENT_INPUT:
		return SnapshotSize, nil
	}
	return 0, fmt.Errorf("%w: 0x%04X", ErrUnknownPacket, id)
}

// PeekID returns the packet ID at the start of data.
func PeekID(data []byte) (uint16, error) {
	if len(data) < 2 {
		return 0, fmt.Errorf("%w: %d bytes, need 2", ErrShortPacket, len(data))
	}
	return binary.LittleEndian.Uint16(data), nil
}

// SnapshotPacket carries one movement snapshot.
//
//	0  uint16     packet ID
//	2  int8       event flag
//	3  uint8      padding
//	4  float64    timestamp (seconds)
//	12 [3]float32 location
//	24 [3]float32 linear velocity
//	36 [3]float32 angular velocity
//	48 [4]float32 rotation (x, y, z, w)
type SnapshotPacket struct {
	PacketID        uint16
	Event           int8
	Timestamp       float64
	Location        [3]float32
	LinearVelocity  [3]float32
	AngularVelocity [3]float32
	Rotation        [4]float32
}

// Size returns packet size.
func (p *SnapshotPacket) Size() int {
	return SnapshotSize
}

// Encode encodes the packet to bytes.
func (p *SnapshotPacket) Encode() []byte {
	buf := make([]byte, p.Size())
	binary.LittleEndian.PutUint16(buf[0:], p.PacketID)
	buf[2] = byte(p.Event)
	// byte 3 unused
	binary.LittleEndian.PutUint64(buf[4:], math.Float64bits(p.Timestamp))
	putFloats(buf[12:], p.Location[:])
	putFloats(buf[24:], p.LinearVelocity[:])
	putFloats(buf[36:], p.AngularVelocity[:])
	putFloats(buf[48:], p.Rotation[:])
	return buf
}

// Decode fills p from data.
func (p *SnapshotPacket) Decode(data []byte) error {
	if len(data) < SnapshotSize {
		return fmt.Errorf("%w: %d bytes, need %d", ErrShortPacket, len(data), SnapshotSize)
	}
	p.PacketID = binary.LittleEndian.Uint16(data[0:])
	p.Event = int8(data[2])
	p.Timestamp = math.Float64frombits(binary.LittleEndian.Uint64(data[4:]))
	getFloats(data[12:], p.Location[:])
	getFloats(data[24:], p.LinearVelocity[:])
	getFloats(data[36:], p.AngularVelocity[:])
	getFloats(data[48:], p.Rotation[:])
	return nil
}

func putFloats(buf []byte, v []float32) {
	for i, f := range v {
		binary.LittleEndian.PutUint32(buf[i*4:], math.Float32bits(f))
	}
}

func getFloats(buf []byte, v []float32) {
	for i := range v {
		v[i] = math.Float32frombits(binary.LittleEndian.Uint32(buf[i*4:]))
	}
}
