package animation

import (
	"errors"
	"math"
	"reflect"
	"strconv"
	"testing"
)

func TestAnimatorSnapshotRestore(t *testing.T) {
	anim := mustAnimation(t, "swim", 4, 8, 0.75, true, true)

	src := NewAnimator()
	_ = src.Play(anim)
	_ = src.SetAnimSpeed(1.5)
	for i := 0; i < 5; i++ {
		src.Update(1)
	}
	snap := src.Snapshot()

	dst := NewAnimator()
	rec := &recorder{}
	_ = dst.AddListener(rec)
	if err := dst.Restore(snap, anim); err != nil {
		t.Fatalf("Restore error: %v", err)
	}

	if dst.AnimState() != src.AnimState() || dst.Frame() != src.Frame() || dst.FrameAnim() != src.FrameAnim() {
		t.Errorf("restored %s %d/%d, want %s %d/%d",
			dst.AnimState(), dst.Frame(), dst.FrameAnim(), src.AnimState(), src.Frame(), src.FrameAnim())
	}
	if dst.AnimSpeed() != 1.5 {
		t.Errorf("AnimSpeed: got %v, want 1.5", dst.AnimSpeed())
	}

	want := []string{"played:swim", "state:" + src.AnimState().String(), "frame:" + strconv.Itoa(src.FrameAnim())}
	if !reflect.DeepEqual(rec.events, want) {
		t.Errorf("notifications: got %v, want %v", rec.events, want)
	}

	// 恢复后继续播放与原播放器一致
	for i := 0; i < 7; i++ {
		src.Update(1)
		dst.Update(1)
		if src.Frame() != dst.Frame() || src.AnimState() != dst.AnimState() {
			t.Fatalf("update %d diverged: %s %d vs %s %d", i, src.AnimState(), src.Frame(), dst.AnimState(), dst.Frame())
		}
	}
}

func TestAnimatorRestorePaused(t *testing.T) {
	anim := mustAnimation(t, "swim", 1, 4, 1, true, true)
	src := NewAnimator()
	_ = src.Play(anim)
	src.Update(4) // reversing
	src.Pause()

	dst := NewAnimator()
	if err := dst.Restore(src.Snapshot(), anim); err != nil {
		t.Fatalf("Restore error: %v", err)
	}
	dst.Resume()
	if dst.AnimState() != StateReversing {
		t.Errorf("Resume after restore: got %s, want reversing", dst.AnimState())
	}
}

func TestAnimatorRestoreInvalid(t *testing.T) {
	anim := mustAnimation(t, "swim", 1, 4, 1, false, true)
	other := mustAnimation(t, "dive", 1, 4, 1, false, true)
	shifted := mustAnimation(t, "swim", 3, 6, 1, false, true)
	valid := Snapshot{Animation: "swim", State: StatePlaying, Frame: 2, Speed: 1}

	tests := []struct {
		name   string
		mutate func(s *Snapshot)
		anim   *Animation
	}{
		{"动画名不匹配", func(s *Snapshot) {}, other},
		{"缺少动画", func(s *Snapshot) {}, nil},
		{"快照无动画但传入动画", func(s *Snapshot) { s.Animation = "" }, anim},
		{"无动画却在播放", func(s *Snapshot) { s.Animation = "" }, nil},
		{"帧小于最小帧", func(s *Snapshot) { s.Frame = 0 }, anim},
		{"帧在动画起始帧之前", func(s *Snapshot) {}, shifted},
		{"帧超过动画结束帧", func(s *Snapshot) { s.Frame = 5 }, anim},
		{"无穷速度", func(s *Snapshot) { s.Speed = math.Inf(1) }, anim},
		{"负速度", func(s *Snapshot) { s.Speed = -1 }, anim},
		{"进度越界", func(s *Snapshot) { s.Progress = 1 }, anim},
		{"未知状态", func(s *Snapshot) { s.State = AnimState(9) }, anim},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := valid
			tt.mutate(&s)
			a := NewAnimator()
			if err := a.Restore(s, tt.anim); !errors.Is(err, ErrInvalidArgument) {
				t.Fatalf("Restore: got %v, want ErrInvalidArgument", err)
			}
			if a.Anim() != nil || a.AnimState() != StateStopped || a.Frame() != 1 {
				t.Error("failed Restore must not change the animator")
			}
		})
	}
}

func TestAnimatorRestoreEmpty(t *testing.T) {
	a := NewAnimator()
	if err := a.Restore(NewAnimator().Snapshot(), nil); err != nil {
		t.Fatalf("Restore of an empty snapshot: %v", err)
	}
	if a.AnimState() != StateStopped || a.Anim() != nil {
		t.Errorf("got %s %v", a.AnimState(), a.Anim())
	}
}
