package buoyancy

import "github.com/Faultbox/buoyant/pkg/math"

// Frame is the world-space state of the hull for one substep.
type Frame struct {
	Arena *VertexArena

	// Triangles has one entry per mesh triangle, in mesh order.
	Triangles []Triangle
	// Submerged holds the clipped pieces of all triangles.
	Submerged []Triangle
	// Waterline holds arena indices of the zero-depth clip vertices.
	Waterline []int

	Forces        Forces
	SubmergedArea float32
	DeltaTime     float32
	Pose          math.Pose
}

func newFrame() Frame {
	return Frame{Arena: NewVertexArena(0)}
}

func (f *Frame) reset() {
	f.Arena.Reset()
	f.Triangles = f.Triangles[:0]
	f.Submerged = f.Submerged[:0]
	f.Waterline = f.Waterline[:0]
	f.Forces = Forces{}
	f.SubmergedArea = 0
	f.DeltaTime = 0
	f.Pose = math.Pose{}
}

// WaterlinePoints returns the world positions of the waterline vertices.
func (f *Frame) WaterlinePoints() []math.Vec3 {
	out := make([]math.Vec3, len(f.Waterline))
	for i, idx := range f.Waterline {
		out[i] = f.Arena.At(idx).Position
	}
	return out
}

// entrySample returns triangle i's submersion state, or a zero sample and
// false when the frame has no such triangle.
func (f *Frame) entrySample(i int) (EntrySample, bool) {
	if i < 0 || i >= len(f.Triangles) {
		return EntrySample{}, false
	}
	t := &f.Triangles[i]
	return EntrySample{SubmergedArea: t.CutSubmergedArea, Velocity: t.Velocity}, true
}

// FrameBuffer is a two slot history of frames. Slot 1 is the frame being
// built; slot 0 is the last completed one.
type FrameBuffer struct {
	slots [2]Frame
}

// NewFrameBuffer returns an empty buffer.
func NewFrameBuffer() *FrameBuffer {
	return &FrameBuffer{slots: [2]Frame{newFrame(), newFrame()}}
}

// Current returns the frame being built.
func (b *FrameBuffer) Current() *Frame {
	return &b.slots[1]
}

// Previous returns the last completed frame.
func (b *FrameBuffer) Previous() *Frame {
	return &b.slots[0]
}

// Rotate stamps the current frame with dt, makes it the previous frame and
// clears the new current slot. Arena memory is reused between slots.
func (b *FrameBuffer) Rotate(dt float32) {
	b.slots[1].DeltaTime = dt
	b.slots[0], b.slots[1] = b.slots[1], b.slots[0]
	b.slots[1].reset()
}

// Reset clears both slots.
func (b *FrameBuffer) Reset() {
	b.slots[0].reset()
	b.slots[1].reset()
}
