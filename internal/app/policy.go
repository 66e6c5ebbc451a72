package app

import (
	"fmt"
	"strings"

	"github.com/dkeye/ephero/internal/core"
)

type BackpressureAction int

const (
	DropFrame BackpressureAction = iota
	KickMember
)

func (a BackpressureAction) String() string {
	switch a {
	case KickMember:
		return "kick"
	default:
		return "drop"
	}
}

// ParseBackpressure accepts "drop" or "kick"; empty means drop.
func ParseBackpressure(s string) (BackpressureAction, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "drop":
		return DropFrame, nil
	case "kick":
		return KickMember, nil
	}
	return DropFrame, fmt.Errorf("unknown backpressure action %q", s)
}

// Policy decides what happens to a member whose outbound buffer was full
// during a broadcast.
type Policy interface {
	OnBackPressure(room *core.Room, member *core.Connection) BackpressureAction
}

type SimplePolicy struct {
	Action BackpressureAction
}

func (p SimplePolicy) OnBackPressure(room *core.Room, member *core.Connection) BackpressureAction {
	return p.Action
}
