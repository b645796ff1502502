package animation

import (
	"fmt"
	"math"
)

// Snapshot is the saved playback position of an Animator.
// The animation itself is referenced by name and supplied again on Restore.
type Snapshot struct {
	Animation string    `yaml:"animation,omitempty"`
	State     AnimState `yaml:"state"`
	Frame     int       `yaml:"frame"`
	Speed     float64   `yaml:"speed"`
	Progress  float64   `yaml:"progress,omitempty"`
	Resume    AnimState `yaml:"resume,omitempty"`
}

// Snapshot captures the current playback position.
func (a *Animator) Snapshot() Snapshot {
	s := Snapshot{
		State:    a.state,
		Frame:    a.frame,
		Speed:    a.speed,
		Progress: a.progress,
		Resume:   a.resume,
	}
	if a.anim != nil {
		s.Animation = a.anim.name
	}
	return s
}

// Restore re-applies a snapshot taken with Snapshot.
// anim must be the animation named by the snapshot (nil when the snapshot has
// none) and the saved frame must lie within its range. Nothing is changed when validation fails. On success listeners are
// notified of the animation (when set), the state and the frame.
func (a *Animator) Restore(s Snapshot, anim *Animation) error {
	switch {
	case s.Animation == "" && anim != nil:
		return fmt.Errorf("%w: snapshot has no animation but %q was given", ErrInvalidArgument, anim.name)
	case s.Animation != "" && anim == nil:
		return fmt.Errorf("%w: animation %q is nil", ErrInvalidArgument, s.Animation)
	case anim != nil && anim.name != s.Animation:
		return fmt.Errorf("%w: snapshot animation %q does not match %q", ErrInvalidArgument, s.Animation, anim.name)
	}
	if _, ok := stateNames[s.State]; !ok {
		return fmt.Errorf("%w: unknown animation state %d", ErrInvalidArgument, int(s.State))
	}
	if anim == nil && s.State != StateStopped {
		return fmt.Errorf("%w: state %s requires an animation", ErrInvalidArgument, s.State)
	}
	if err := checkSuperiorOrEqual("frame", s.Frame, MinFrame); err != nil {
		return err
	}
	if anim != nil {
		if err := checkSuperiorOrEqual("frame", s.Frame, anim.firstFrame); err != nil {
			return err
		}
		if s.Frame > anim.lastFrame {
			return fmt.Errorf("%w: frame %d is not inferior or equal to %d", ErrInvalidArgument, s.Frame, anim.lastFrame)
		}
	}
	if err := checkSpeed(s.Speed); err != nil {
		return err
	}
	if math.IsNaN(s.Progress) || s.Progress < 0 || s.Progress >= 1 {
		return fmt.Errorf("%w: progress %g is outside [0, 1)", ErrInvalidArgument, s.Progress)
	}

	a.anim = anim
	a.state = s.State
	a.frame = s.Frame
	a.frameAnim = s.Frame
	if anim != nil {
		a.frameAnim = s.Frame - anim.firstFrame + 1
	}
	a.speed = s.Speed
	a.progress = s.Progress
	a.resume = StateStopped
	if s.Resume == StatePlaying || s.Resume == StateReversing {
		a.resume = s.Resume
	}

	if anim != nil {
		a.notifyPlayed(anim)
	}
	a.notifyState(a.state)
	a.notifyFrame(a.frameAnim)
	return nil
}
