package replication

import "time"

// Settings controls snapshot rate and playback delay.
type Settings struct {
	SendRate      float64 `yaml:"send_rate"`       // snapshots per second
	BufferDelayMs float64 `yaml:"buffer_delay_ms"` // playback delay
}

// DefaultSettings returns 20 Hz with half a second of delay.
func DefaultSettings() Settings {
	return Settings{
		SendRate:      20,
		BufferDelayMs: 500,
	}
}

// SendInterval returns the time between snapshots.
func (s Settings) SendInterval() time.Duration {
	if s.SendRate <= 0 {
		return 0
	}
	return time.Duration(float64(time.Second) / s.SendRate)
}

// Delay returns the playback delay.
func (s Settings) Delay() time.Duration {
	return time.Duration(s.BufferDelayMs * float64(time.Millisecond))
}

// BufferSize returns the delay measured in send intervals.
func (s Settings) BufferSize() float64 {
	iv := s.SendInterval()
	if iv <= 0 {
		return 0
	}
	return float64(s.Delay()) / float64(iv)
}
