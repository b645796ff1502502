package animation

import (
	"fmt"
	"math"
	"reflect"
)

// frameEpsilon absorbs floating point error when accumulated progress should
// land exactly on a whole frame (e.g. ten updates at speed 0.1).
const frameEpsilon = 1e-9

// Animator 动画播放器
// 一个实体对应一个 Animator，负责按经过的时间推进当前动画的帧位置，
// 并在播放、状态变化、帧变化时通知监听器。
//
// Use NewAnimator; the zero value is not ready for use.
type Animator struct {
	anim      *Animation
	state     AnimState
	frame     int // absolute frame index
	frameAnim int // frame index relative to anim.firstFrame, 1-based
	speed     float64

	// progress is the fractional frame progress carried between updates, in [0, 1).
	progress float64

	// resume is the direction restored by Resume after Pause.
	resume AnimState

	listeners []Listener
}

// NewAnimator creates a stopped animator positioned on MinFrame.
func NewAnimator() *Animator {
	a := &Animator{}
	a.Reset()
	return a
}

// Play starts playback of anim from its first frame.
// Listeners are notified of the played animation, the PLAYING state and frame 1, in that order.
func (a *Animator) Play(anim *Animation) error {
	if anim == nil {
		return fmt.Errorf("%w: animation is nil", ErrInvalidArgument)
	}

	a.anim = anim
	a.speed = anim.speed
	a.frame = anim.firstFrame
	a.frameAnim = 1
	a.progress = 0
	a.resume = StateStopped
	a.state = StatePlaying

	a.notifyPlayed(anim)
	a.notifyState(StatePlaying)
	a.notifyFrame(a.frameAnim)
	return nil
}

// Update advances playback by extrapolation time units scaled by the current speed.
//
// Progress accumulates across calls and whole frames are consumed one step at a
// time, so speed 0.25 moves one frame every four unit updates and speed 1.25
// moves one frame per unit update plus an extra one every fourth call.
// Nothing happens while STOPPED or FINISHED, or when extrapolation × speed is
// not a positive finite number.
func (a *Animator) Update(extrapolation float64) {
	if !a.IsPlaying() || a.anim == nil {
		return
	}
	delta := extrapolation * a.speed
	if math.IsNaN(delta) || math.IsInf(delta, 0) || delta <= 0 {
		return
	}

	a.progress += delta
	if a.progress > fastForwardSteps {
		whole := math.Floor(a.progress + frameEpsilon)
		rest := max(a.progress-whole, 0)
		anim := a.anim
		a.progress = 0
		whole, ok := a.fastForward(whole)
		if !ok || a.anim != anim || !a.IsPlaying() {
			// 播放完成，或监听器在通知中切换了动画
			return
		}
		a.progress = whole + rest
	}

	for a.progress >= 1-frameEpsilon {
		a.progress--
		if !a.step() {
			// 播放完成，丢弃剩余进度
			a.progress = 0
			return
		}
	}
	if a.progress < 0 {
		a.progress = 0
	}
}

// fastForwardSteps is the largest number of whole frames one Update steps
// through individually.
const fastForwardSteps = 1024

// fastForward shortens a long run of steps to one ending on the same position:
// a position outside the animation range walks back in a single move and
// whole cycles of a repeating animation are skipped. It reports false when
// playback finished on the way.
func (a *Animator) fastForward(steps float64) (float64, bool) {
	frames := a.anim.Frames()

	for steps > 0 && (a.frameAnim < 1 || a.frameAnim > frames) {
		var k float64
		switch {
		case a.state == StatePlaying && a.frameAnim < 0:
			k = min(steps, float64(-a.frameAnim))
			a.setFrameAnim(a.frameAnim + int(k))
		case a.state == StateReversing && a.frameAnim > frames+1:
			k = min(steps, float64(a.frameAnim-frames-1))
			a.setFrameAnim(a.frameAnim - int(k))
		default:
			if !a.step() {
				return 0, false
			}
			k = 1
		}
		steps -= k
	}

	if !a.anim.repeat {
		// 非循环动画最多 2×frames 步内结束
		return steps, true
	}

	// 任意范围内的位置在一个周期内进入循环轨道，之后以 cycle 为周期
	cycle := float64(frames)
	if a.anim.reverse {
		cycle = float64(max(2*(frames-1), 1))
	}
	if steps > 2*cycle {
		steps = cycle + math.Mod(steps-cycle, cycle)
	}
	return steps, true
}

// step consumes one whole frame of progress and reports whether playback goes on.
func (a *Animator) step() bool {
	frames := a.anim.Frames()

	switch a.state {
	case StatePlaying:
		if a.frameAnim < frames {
			a.setFrameAnim(a.frameAnim + 1)
			return true
		}
		return a.turnAtLast(frames)

	case StateReversing:
		if a.frameAnim > 1 {
			a.setFrameAnim(a.frameAnim - 1)
			if a.frameAnim > 1 {
				return true
			}
			return a.arriveAtFirst()
		}
		// Already on the first frame when the step began.
		if !a.anim.repeat {
			a.setState(StateFinished)
			return false
		}
		a.setState(StatePlaying)
		if frames > 1 {
			a.setFrameAnim(max(a.frameAnim, 1) + 1)
		}
		return true
	}

	return false
}

// turnAtLast applies the end-of-range rule while playing forward.
func (a *Animator) turnAtLast(frames int) bool {
	switch {
	case a.anim.reverse && frames > 1:
		a.setState(StateReversing)
		a.setFrameAnim(min(a.frameAnim, frames) - 1)
		if a.frameAnim > 1 {
			return true
		}
		return a.arriveAtFirst()

	case a.anim.reverse:
		// 单帧反向动画：循环时保持 PLAYING，否则经 REVERSING 结束
		if a.anim.repeat {
			return true
		}
		a.setState(StateReversing)
		a.setState(StateFinished)
		return false

	case a.anim.repeat:
		a.setFrameAnim(1)
		return true

	default:
		a.setState(StateFinished)
		return false
	}
}

// arriveAtFirst applies the start-of-range rule once reversing lands on frame 1:
// a repeating animation turns forward again, any other finishes there.
func (a *Animator) arriveAtFirst() bool {
	if a.anim.repeat {
		a.setState(StatePlaying)
		return true
	}
	a.setState(StateFinished)
	return false
}

// Stop sets the state to STOPPED without touching the frame position.
// It can be called any number of times; state listeners are notified every time.
func (a *Animator) Stop() {
	a.resume = StateStopped
	a.setState(StateStopped)
}

// Pause stops a playing or reversing animator and remembers its direction.
func (a *Animator) Pause() {
	if !a.IsPlaying() {
		return
	}
	a.resume = a.state
	a.setState(StateStopped)
}

// Resume continues a stopped animator in the direction it was paused in,
// forward when it was stopped with Stop. It does nothing without an animation
// or when the animator is not STOPPED.
func (a *Animator) Resume() {
	if a.anim == nil || a.state != StateStopped {
		return
	}
	state := a.resume
	if state == StateStopped {
		state = StatePlaying
	}
	a.resume = StateStopped
	a.setState(state)
}

// SetFrame moves playback to the absolute frame index frame.
// The relative frame is recomputed against the current animation and pending
// fractional progress is dropped. Frame listeners are notified.
func (a *Animator) SetFrame(frame int) error {
	if err := checkSuperiorOrEqual("frame", frame, MinFrame); err != nil {
		return err
	}

	a.frame = frame
	a.frameAnim = frame
	if a.anim != nil {
		a.frameAnim = frame - a.anim.firstFrame + 1
	}
	a.progress = 0

	a.notifyFrame(a.frameAnim)
	return nil
}

// SetAnimSpeed overrides the playback speed of the current animation.
// Zero halts advancement without changing the state.
func (a *Animator) SetAnimSpeed(speed float64) error {
	if err := checkSpeed(speed); err != nil {
		return err
	}
	a.speed = speed
	return nil
}

// Reset returns the animator to its initial state: no animation, STOPPED,
// frame 1 and no pending progress. Listeners stay registered and are not notified.
func (a *Animator) Reset() {
	a.anim = nil
	a.state = StateStopped
	a.frame = MinFrame
	a.frameAnim = MinFrame
	a.speed = 0
	a.progress = 0
	a.resume = StateStopped
}

// AddListener registers l. Registration order is notification order and the
// same listener may be registered more than once.
func (a *Animator) AddListener(l Listener) error {
	if err := checkListener(l); err != nil {
		return err
	}
	a.listeners = append(a.listeners, l)
	return nil
}

// RemoveListener unregisters every registration of l.
func (a *Animator) RemoveListener(l Listener) error {
	if err := checkListener(l); err != nil {
		return err
	}

	// 重新分配切片，正在进行的通知遍历不受影响
	kept := make([]Listener, 0, len(a.listeners))
	for _, registered := range a.listeners {
		if registered != l {
			kept = append(kept, registered)
		}
	}
	a.listeners = kept
	return nil
}

// Listeners returns the number of registered listeners.
func (a *Animator) Listeners() int {
	return len(a.listeners)
}

// AnimState returns the current playback state.
func (a *Animator) AnimState() AnimState { return a.state }

// IsPlaying reports whether the animator is PLAYING or REVERSING.
func (a *Animator) IsPlaying() bool {
	return a.state == StatePlaying || a.state == StateReversing
}

// Frame returns the absolute frame index.
func (a *Animator) Frame() int { return a.frame }

// FrameAnim returns the frame index relative to the current animation (1-based).
func (a *Animator) FrameAnim() int { return a.frameAnim }

// Anim returns the current animation, or nil before the first Play.
func (a *Animator) Anim() *Animation { return a.anim }

// AnimSpeed returns the effective playback speed.
func (a *Animator) AnimSpeed() float64 { return a.speed }

// Frames returns the frame count of the current animation, 1 when none is set.
func (a *Animator) Frames() int {
	if a.anim == nil {
		return 1
	}
	return a.anim.Frames()
}

func (a *Animator) setFrameAnim(frameAnim int) {
	a.frameAnim = frameAnim
	a.frame = a.anim.firstFrame + frameAnim - 1
	a.notifyFrame(frameAnim)
}

func (a *Animator) setState(state AnimState) {
	a.state = state
	a.notifyState(state)
}

func (a *Animator) notifyPlayed(anim *Animation) {
	for _, l := range a.listeners {
		if pl, ok := l.(PlayedListener); ok {
			pl.NotifyAnimPlayed(anim)
		}
	}
}

func (a *Animator) notifyState(state AnimState) {
	for _, l := range a.listeners {
		if sl, ok := l.(StateListener); ok {
			sl.NotifyAnimState(state)
		}
	}
}

func (a *Animator) notifyFrame(frameAnim int) {
	for _, l := range a.listeners {
		if fl, ok := l.(FrameListener); ok {
			fl.NotifyAnimFrame(frameAnim)
		}
	}
}

// checkListener rejects nil listeners and listeners that cannot be compared,
// since removal looks registrations up by equality.
func checkListener(l Listener) error {
	if l == nil {
		return fmt.Errorf("%w: listener is nil", ErrInvalidArgument)
	}
	if v := reflect.ValueOf(l); v.Kind() == reflect.Pointer && v.IsNil() {
		return fmt.Errorf("%w: listener is a nil %T", ErrInvalidArgument, l)
	}
	if !reflect.TypeOf(l).Comparable() {
		return fmt.Errorf("%w: listener %T is not comparable, register it by pointer", ErrInvalidArgument, l)
	}
	return nil
}
