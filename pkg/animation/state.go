package animation

import "fmt"

// AnimState 动画播放状态
// 每个 Animator 任意时刻只处于其中一个状态
type AnimState int

const (
	// StateStopped 停止（初始状态）
	StateStopped AnimState = iota
	// StatePlaying 正向播放
	StatePlaying
	// StateReversing 反向播放（仅 reverse 动画）
	StateReversing
	// StateFinished 播放完成，直到下一次 Play
	StateFinished
)

var stateNames = map[AnimState]string{
	StateStopped:   "stopped",
	StatePlaying:   "playing",
	StateReversing: "reversing",
	StateFinished:  "finished",
}

// String implements fmt.Stringer.
func (s AnimState) String() string {
	if name, ok := stateNames[s]; ok {
		return name
	}
	return fmt.Sprintf("AnimState(%d)", int(s))
}

// ParseAnimState converts a state name back to its AnimState.
func ParseAnimState(name string) (AnimState, error) {
	for state, n := range stateNames {
		if n == name {
			return state, nil
		}
	}
	return StateStopped, fmt.Errorf("%w: unknown animation state %q", ErrInvalidArgument, name)
}

// MarshalText encodes the state by name so that YAML save data stays readable.
func (s AnimState) MarshalText() ([]byte, error) {
	if _, ok := stateNames[s]; !ok {
		return nil, fmt.Errorf("%w: unknown animation state %d", ErrInvalidArgument, int(s))
	}
	return []byte(s.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (s *AnimState) UnmarshalText(text []byte) error {
	state, err := ParseAnimState(string(text))
	if err != nil {
		return err
	}
	*s = state
	return nil
}
