package main

import (
	"testing"
	"time"

	"go.uber.org/zap"

	"github.com/Faultbox/buoyant/internal/replication"
	"github.com/Faultbox/buoyant/pkg/math"
)

func TestLinkDeliversSnapshots(t *testing.T) {
	for _, transport := range []string{"pipe", "tcp"} {
		t.Run(transport, func(t *testing.T) {
			l, err := dialLink(transport, "127.0.0.1:0", zap.NewNop())
			if err != nil {
				t.Fatalf("dialLink() error = %v", err)
			}
			defer l.Close()

			want := replication.Snapshot{
				Location:  math.Vec3{X: 1, Y: 2, Z: 3},
				Rotation:  math.QuatIdentity(),
				Timestamp: 0.25,
				Event:     replication.EventCollision,
			}
			if err := l.Sender().SendSnapshot(want); err != nil {
				t.Fatalf("SendSnapshot() error = %v", err)
			}

			var got []replication.Snapshot
			deadline := time.Now().Add(2 * time.Second)
			for len(got) == 0 && time.Now().Before(deadline) {
				l.Drain(func(s replication.Snapshot) { got = append(got, s) })
				time.Sleep(time.Millisecond)
			}
			if len(got) != 1 {
				t.Fatalf("received %d snapshots, want 1", len(got))
			}
			if got[0] != want {
				t.Errorf("snapshot = %+v, want %+v", got[0], want)
			}
		})
	}
}

func TestLinkUnknownTransport(t *testing.T) {
	if _, err := dialLink("carrier-pigeon", "", zap.NewNop()); err == nil {
		t.Error("expected error for unknown transport")
	}
}
