package replication

import (
	"errors"
	"testing"

	"github.com/Faultbox/buoyant/pkg/math"
)

type fakeBody struct {
	pose    math.Pose
	linear  math.Vec3
	angular math.Vec3
	writes  int
}

func (b *fakeBody) Pose() math.Pose            { return b.pose }
func (b *fakeBody) LinearVelocity() math.Vec3  { return b.linear }
func (b *fakeBody) AngularVelocity() math.Vec3 { return b.angular }
func (b *fakeBody) SetState(pose math.Pose, linear, angular math.Vec3) {
	b.pose, b.linear, b.angular = pose, linear, angular
	b.writes++
}

type captureSender struct {
	sent []Snapshot
	err  error
}

func (s *captureSender) SendSnapshot(snap Snapshot) error {
	if s.err != nil {
		return s.err
	}
	s.sent = append(s.sent, snap)
	return nil
}

func TestAuthoritativeSendRate(t *testing.T) {
	body := &fakeBody{pose: math.PoseIdentity()}
	sender := &captureSender{}
	r := NewReplicator(Authoritative, Settings{SendRate: 16, BufferDelayMs: 500}, body, WithSender(sender))

	const dt = 1.0 / 64
	for i := 1; i <= 64; i++ {
		body.pose.Position.X = float32(i)
		if err := r.Tick(float64(i)*dt, dt); err != nil {
			t.Fatalf("Tick() error = %v", err)
		}
	}

	if len(sender.sent) != 16 {
		t.Fatalf("sent %d snapshots in 1s, want 16", len(sender.sent))
	}
	if r.Sent() != 16 {
		t.Errorf("Sent() = %d, want 16", r.Sent())
	}
	if got := sender.sent[0]; got.Location.X != 4 || got.Timestamp != 4*dt {
		t.Errorf("first snapshot = %+v, want X 4 at %v", got, 4*dt)
	}
}

func TestAuthoritativeFlagSendsImmediately(t *testing.T) {
	body := &fakeBody{pose: math.PoseIdentity()}
	sender := &captureSender{}
	r := NewReplicator(Authoritative, DefaultSettings(), body, WithSender(sender))

	r.Flag(EventCollision)
	if err := r.Tick(0.001, 0.001); err != nil {
		t.Fatalf("Tick() error = %v", err)
	}
	if len(sender.sent) != 1 || sender.sent[0].Event != EventCollision {
		t.Fatalf("sent = %+v, want one collision snapshot", sender.sent)
	}
	_ = r.Tick(0.002, 0.001)
	if len(sender.sent) != 1 {
		t.Errorf("flag was not cleared, sent %d", len(sender.sent))
	}
}

func TestAuthoritativeSendError(t *testing.T) {
	wantErr := errors.New("link down")
	r := NewReplicator(Authoritative, DefaultSettings(), &fakeBody{}, WithSender(&captureSender{err: wantErr}))
	if err := r.Tick(1, 1); !errors.Is(err, wantErr) {
		t.Errorf("Tick() error = %v, want %v", err, wantErr)
	}
}

func TestReceiveAsymmetry(t *testing.T) {
	auth := NewReplicator(Authoritative, DefaultSettings(), &fakeBody{})
	obs := NewReplicator(Observer, DefaultSettings(), &fakeBody{})
	for _, ts := range []float64{0.1, 0.2, 0.3} {
		auth.Receive(snap(ts))
		obs.Receive(snap(ts))
	}

	if auth.Buffer().Len() != 1 {
		t.Errorf("authoritative buffered %d, want only the newest", auth.Buffer().Len())
	}
	if latest, ok := auth.Latest(); !ok || latest.Timestamp != 0.3 {
		t.Errorf("Latest() = %v, %v; want 0.3", latest.Timestamp, ok)
	}
	if obs.Buffer().Len() != 3 {
		t.Errorf("observer buffered %d, want 3", obs.Buffer().Len())
	}
}

func TestObserverFollowsDelayedTimeline(t *testing.T) {
	body := &fakeBody{pose: math.PoseIdentity()}
	r := NewReplicator(Observer, Settings{SendRate: 20, BufferDelayMs: 500}, body)

	for k := 0; k <= 20; k++ {
		ts := float64(k) * 0.05
		r.Receive(Snapshot{
			Location:       math.Vec3{X: float32(100 * ts)},
			LinearVelocity: math.Vec3{X: 100},
			Rotation:       math.QuatIdentity(),
			Timestamp:      ts,
		})
	}

	if err := r.Tick(1.025, 0.025); err != nil {
		t.Fatalf("Tick() error = %v", err)
	}
	if body.writes != 1 {
		t.Fatalf("body written %d times, want 1", body.writes)
	}
	if got := body.pose.Position.X; got < 52.4 || got > 52.6 {
		t.Errorf("observer X = %v, want 52.5", got)
	}
	if got := body.linear.X; got != 100 {
		t.Errorf("observer velocity = %v, want 100", got)
	}
}

func TestObserverHoldsWithoutSnapshots(t *testing.T) {
	start := math.Pose{Position: math.Vec3{X: 7}, Rotation: math.QuatIdentity()}
	body := &fakeBody{pose: start}
	r := NewReplicator(Observer, DefaultSettings(), body)

	r.Receive(snap(0.1))
	for _, now := range []float64{0.2, 0.7, 3} {
		if err := r.Tick(now, 0.1); err != nil {
			t.Fatalf("Tick() error = %v", err)
		}
	}
	if body.writes != 0 || body.pose != start {
		t.Errorf("body moved to %v with %d writes, want held at %v", body.pose, body.writes, start)
	}
}

func TestParseRole(t *testing.T) {
	tests := []struct {
		in      string
		want    Role
		wantErr bool
	}{
		{"authoritative", Authoritative, false},
		{"Observer", Observer, false},
		{" client ", Observer, false},
		{"spectator", 0, true},
	}
	for _, tt := range tests {
		got, err := ParseRole(tt.in)
		if (err != nil) != tt.wantErr {
			t.Errorf("ParseRole(%q) error = %v, wantErr %v", tt.in, err, tt.wantErr)
			continue
		}
		if !tt.wantErr && got != tt.want {
			t.Errorf("ParseRole(%q) = %v, want %v", tt.in, got, tt.want)
		}
	}
}
