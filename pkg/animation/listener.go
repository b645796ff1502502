package animation

// PlayedListener is notified each time Animator.Play assigns an animation.
type PlayedListener interface {
	NotifyAnimPlayed(anim *Animation)
}

// StateListener is notified after every playback state change.
type StateListener interface {
	NotifyAnimState(state AnimState)
}

// FrameListener is notified after every frame change with the frame index
// relative to the playing animation (1-based).
type FrameListener interface {
	NotifyAnimFrame(frameAnim int)
}

// Listener is anything registered on an Animator. A listener implements any
// subset of PlayedListener, StateListener and FrameListener; only the
// capabilities it implements are invoked.
type Listener any

// ListenerFuncs adapts plain functions to all three listener capabilities.
// Nil slots are skipped. Register it by pointer so it can be removed again.
type ListenerFuncs struct {
	Played func(anim *Animation)
	State  func(state AnimState)
	Frame  func(frameAnim int)
}

// NotifyAnimPlayed implements PlayedListener.
func (f *ListenerFuncs) NotifyAnimPlayed(anim *Animation) {
	if f.Played != nil {
		f.Played(anim)
	}
}

// NotifyAnimState implements StateListener.
func (f *ListenerFuncs) NotifyAnimState(state AnimState) {
	if f.State != nil {
		f.State(state)
	}
}

// NotifyAnimFrame implements FrameListener.
func (f *ListenerFuncs) NotifyAnimFrame(frameAnim int) {
	if f.Frame != nil {
		f.Frame(frameAnim)
	}
}

// NopListener implements every capability with an empty body.
// Useful as a default value where a listener is required.
type NopListener struct{}

func (NopListener) NotifyAnimPlayed(*Animation) {}
func (NopListener) NotifyAnimState(AnimState)   {}
func (NopListener) NotifyAnimFrame(int)         {}

var (
	_ PlayedListener = (*ListenerFuncs)(nil)
	_ StateListener  = (*ListenerFuncs)(nil)
	_ FrameListener  = (*ListenerFuncs)(nil)
	_ PlayedListener = NopListener{}
	_ StateListener  = NopListener{}
	_ FrameListener  = NopListener{}
)
