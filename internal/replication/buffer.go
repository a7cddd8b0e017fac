package replication

import (
	gomath "math"
	"slices"
	"time"
)

// Buffer holds received snapshots for delayed playback.
//
// Alpha assumes evenly spaced snapshots. Lost packets stretch the gap
// between current and target, so playback is an approximation rather than
// an exact replay.
type Buffer struct {
	snapshots []Snapshot
	delay     time.Duration
	interval  time.Duration
}

// NewBuffer returns a buffer that plays back delay behind real time with
// snapshots nominally interval apart.
func NewBuffer(delay, interval time.Duration) *Buffer {
	return &Buffer{delay: delay, interval: interval}
}

// Delay returns the playback delay.
func (b *Buffer) Delay() time.Duration { return b.delay }

// Interval returns the nominal send interval.
func (b *Buffer) Interval() time.Duration { return b.interval }

// Push appends s. Order is restored by the next Update.
func (b *Buffer) Push(s Snapshot) {
	b.snapshots = append(b.snapshots, s)
}

// Replace drops everything and keeps only s.
func (b *Buffer) Replace(s Snapshot) {
	b.snapshots = append(b.snapshots[:0], s)
}

// Len returns the number of buffered snapshots.
func (b *Buffer) Len() int { return len(b.snapshots) }

// At returns the snapshot at index i.
func (b *Buffer) At(i int) Snapshot { return b.snapshots[i] }

// Remove deletes the snapshot at index i.
func (b *Buffer) Remove(i int) {
	b.snapshots = slices.Delete(b.snapshots, i, i+1)
}

// Snapshots returns a copy of the buffered snapshots.
func (b *Buffer) Snapshots() []Snapshot {
	return slices.Clone(b.snapshots)
}

// Reset empties the buffer.
func (b *Buffer) Reset() {
	b.snapshots = b.snapshots[:0]
}

// BufferedTime returns the playback time for now, in seconds.
func (b *Buffer) BufferedTime(now float64) float64 {
	return now - b.delay.Seconds()
}

// HasElapsedMinTime reports whether enough time has passed to play back
// with the configured delay.
func (b *Buffer) HasElapsedMinTime(now float64) bool {
	return b.BufferedTime(now) >= 0
}

// Cutoff returns the buffered time rounded down to a whole send interval.
func (b *Buffer) Cutoff(now float64) float64 {
	bt := b.BufferedTime(now)
	step := b.interval.Seconds()
	if step <= 0 {
		return bt
	}
	return gomath.Floor(bt/step) * step
}

// Update discards snapshots older than the cutoff and sorts the rest by
// timestamp. The newest snapshot at or before the cutoff is kept as the
// interpolation anchor. It returns the number of snapshots dropped.
func (b *Buffer) Update(now float64) int {
	cutoff := b.Cutoff(now)

	anchor := -1
	for i, s := range b.snapshots {
		if s.Timestamp <= cutoff && (anchor < 0 || s.Timestamp > b.snapshots[anchor].Timestamp) {
			anchor = i
		}
	}

	kept := b.snapshots[:0]
	dropped := 0
	for i, s := range b.snapshots {
		if s.Timestamp >= cutoff || i == anchor {
			kept = append(kept, s)
			continue
		}
		dropped++
	}
	b.snapshots = kept

	slices.SortStableFunc(b.snapshots, func(x, y Snapshot) int {
		switch {
		case x.Timestamp < y.Timestamp:
			return -1
		case x.Timestamp > y.Timestamp:
			return 1
		}
		return 0
	})
	return dropped
}

// TargetIndex returns the first snapshot after the buffered time.
func (b *Buffer) TargetIndex(now float64) (int, bool) {
	bt := b.BufferedTime(now)
	if bt < 0 {
		return -1, false
	}
	for i, s := range b.snapshots {
		if s.Timestamp > bt {
			return i, true
		}
	}
	return -1, false
}

// CurrentIndex returns the first snapshot before the buffered time.
func (b *Buffer) CurrentIndex(now float64) (int, bool) {
	bt := b.BufferedTime(now)
	if bt < 0 {
		return -1, false
	}
	for i, s := range b.snapshots {
		if s.Timestamp < bt {
			return i, true
		}
	}
	return -1, false
}

// Alpha returns how far playback at now has progressed from current toward
// target, clamped to [0, 1].
//
// With send interval BI and delay BS intervals long this is
// (now - (BI*BS + current.Timestamp)) / (target.Timestamp - current.Timestamp).
func (b *Buffer) Alpha(current, target Snapshot, now float64) float32 {
	span := target.Timestamp - current.Timestamp
	if span <= 0 {
		return 1
	}
	bi := b.interval.Seconds()
	if bi <= 0 {
		return clampAlpha((b.BufferedTime(now) - current.Timestamp) / span)
	}
	bs := b.delay.Seconds() / bi
	alpha := (bi / span) * (now - (bi*bs + current.Timestamp)) / bi
	return clampAlpha(alpha)
}

// Sample interpolates between the current and target snapshots for now.
// Update must have run for the same now. ok is false when either snapshot
// is unavailable.
func (b *Buffer) Sample(now float64) (s Snapshot, ok bool) {
	ci, ok := b.CurrentIndex(now)
	if !ok {
		return Snapshot{}, false
	}
	ti, ok := b.TargetIndex(now)
	if !ok {
		return Snapshot{}, false
	}
	cur, tgt := b.snapshots[ci], b.snapshots[ti]
	return Interpolate(cur, tgt, b.Alpha(cur, tgt, now)), true
}

func clampAlpha(a float64) float32 {
	return float32(gomath.Max(0, gomath.Min(1, a)))
}
