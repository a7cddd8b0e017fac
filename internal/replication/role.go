package replication

import (
	"fmt"
	"strings"
)

// Role decides which side of the replication a body is on.
type Role int

const (
	// Authoritative simulates the body and sends snapshots.
	Authoritative Role = iota
	// Observer plays back received snapshots.
	Observer
)

func (r Role) String() string {
	switch r {
	case Authoritative:
		return "authoritative"
	case Observer:
		return "observer"
	default:
		return fmt.Sprintf("Role(%d)", int(r))
	}
}

// ParseRole parses a role name as printed by String.
func ParseRole(s string) (Role, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "authoritative", "server":
		return Authoritative, nil
	case "observer", "client":
		return Observer, nil
	}
	return 0, fmt.Errorf("unknown role %q", s)
}
