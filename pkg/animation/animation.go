// Package animation provides the sprite animation playback engine.
//
// An Animation is an immutable descriptor of a frame range (speed, reverse and
// repeat flags). An Animator plays one Animation at a time, advancing its frame
// position from the elapsed time passed to Update, and notifies registered
// listeners when an animation is played, when the playback state changes and
// when the current frame changes.
//
// The Animator is not safe for concurrent use: it is meant to be driven from a
// single game update loop.
package animation

import (
	"fmt"
	"math"
)

// MinFrame 最小帧索引（帧编号从 1 开始）
const MinFrame = 1

// Animation is an immutable playback descriptor.
// It is built once by configuration loading and shared by pointer between any
// number of Animators.
type Animation struct {
	name       string
	firstFrame int
	lastFrame  int
	speed      float64
	reverse    bool
	repeat     bool
}

// AnimationKey is the comparable identity of an Animation (all five fields).
// It can be used as a map key.
type AnimationKey struct {
	Name       string
	FirstFrame int
	LastFrame  int
	Speed      float64
	Reverse    bool
	Repeat     bool
}

// NewAnimation 创建动画描述
//
// 参数：
//   - name: 动画名称，不能为空
//   - firstFrame: 起始帧，>= MinFrame
//   - lastFrame: 结束帧，>= firstFrame
//   - speed: 播放速度（每单位时间推进的帧数），>= 0
//   - reverse: 到达最后一帧后是否反向播放
//   - repeat: 是否循环播放
//
// 返回：
//   - *Animation: 动画描述
//   - error: 参数无效时返回包装 ErrInvalidArgument 的错误
func NewAnimation(name string, firstFrame, lastFrame int, speed float64, reverse, repeat bool) (*Animation, error) {
	if name == "" {
		return nil, fmt.Errorf("%w: animation name is empty", ErrInvalidArgument)
	}
	if err := checkSuperiorOrEqual("first frame", firstFrame, MinFrame); err != nil {
		return nil, err
	}
	if err := checkSuperiorOrEqual("last frame", lastFrame, firstFrame); err != nil {
		return nil, err
	}
	if err := checkSpeed(speed); err != nil {
		return nil, err
	}

	return &Animation{
		name:       name,
		firstFrame: firstFrame,
		lastFrame:  lastFrame,
		speed:      speed,
		reverse:    reverse,
		repeat:     repeat,
	}, nil
}

// Name returns the animation identifier.
func (a *Animation) Name() string { return a.name }

// FirstFrame returns the absolute index of the first frame.
func (a *Animation) FirstFrame() int { return a.firstFrame }

// LastFrame returns the absolute index of the last frame.
func (a *Animation) LastFrame() int { return a.lastFrame }

// Speed returns the configured number of frames advanced per unit of elapsed time.
func (a *Animation) Speed() float64 { return a.speed }

// Reverse reports whether playback turns back at the last frame.
func (a *Animation) Reverse() bool { return a.reverse }

// Repeat reports whether playback loops instead of finishing.
func (a *Animation) Repeat() bool { return a.repeat }

// Frames returns the number of frames in the range (always >= 1).
func (a *Animation) Frames() int { return a.lastFrame - a.firstFrame + 1 }

// Key returns the comparable identity of the animation.
func (a *Animation) Key() AnimationKey {
	return AnimationKey{
		Name:       a.name,
		FirstFrame: a.firstFrame,
		LastFrame:  a.lastFrame,
		Speed:      a.speed,
		Reverse:    a.reverse,
		Repeat:     a.repeat,
	}
}

// Equal reports whether both animations carry the same five fields.
// Two nil animations are equal.
func (a *Animation) Equal(other *Animation) bool {
	if a == nil || other == nil {
		return a == other
	}
	return a.Key() == other.Key()
}

// String implements fmt.Stringer.
func (a *Animation) String() string {
	return fmt.Sprintf("%s[%d-%d speed=%g reverse=%t repeat=%t]",
		a.name, a.firstFrame, a.lastFrame, a.speed, a.reverse, a.repeat)
}

func checkSuperiorOrEqual(what string, value, min int) error {
	if value < min {
		return fmt.Errorf("%w: %s %d is not superior or equal to %d", ErrInvalidArgument, what, value, min)
	}
	return nil
}

// checkSpeed rejects negative speeds. NaN and infinities are rejected as well
// since they would poison the frame accumulator.
func checkSpeed(speed float64) error {
	if math.IsNaN(speed) || math.IsInf(speed, 0) || speed < 0 {
		return fmt.Errorf("%w: speed %g is not superior or equal to 0", ErrInvalidArgument, speed)
	}
	return nil
}
