package sprite

import (
	"log"

	"github.com/decker502/animkit/pkg/animation"
	"github.com/hajimehoshi/ebiten/v2"
)

// FrameSelector keeps the sheet frame matching an Animator's position.
// Register it on the Animator with AddListener.
type FrameSelector struct {
	sheet *Sheet
	first int // first frame of the played animation
	frame int // absolute frame currently selected
	image *ebiten.Image
}

// NewFrameSelector creates a selector showing the first sheet frame.
func NewFrameSelector(sheet *Sheet) *FrameSelector {
	s := &FrameSelector{sheet: sheet, first: animation.MinFrame}
	s.selectFrame(animation.MinFrame)
	return s
}

// NotifyAnimPlayed implements animation.PlayedListener.
func (s *FrameSelector) NotifyAnimPlayed(anim *animation.Animation) {
	s.first = anim.FirstFrame()
}

// NotifyAnimFrame implements animation.FrameListener.
func (s *FrameSelector) NotifyAnimFrame(frameAnim int) {
	s.selectFrame(s.first + frameAnim - 1)
}

// Image returns the sub-image to draw, nil when no valid frame was selected yet.
func (s *FrameSelector) Image() *ebiten.Image {
	return s.image
}

// Frame returns the absolute frame currently shown.
func (s *FrameSelector) Frame() int {
	return s.frame
}

// Sheet returns the underlying sprite sheet.
func (s *FrameSelector) Sheet() *Sheet {
	return s.sheet
}

// selectFrame 切换到指定帧；越界时保留当前图像
func (s *FrameSelector) selectFrame(frame int) {
	img, err := s.sheet.Frame(frame)
	if err != nil {
		log.Printf("[FrameSelector] Keeping frame %d: %v", s.frame, err)
		return
	}
	s.frame = frame
	s.image = img
}

var (
	_ animation.PlayedListener = (*FrameSelector)(nil)
	_ animation.FrameListener  = (*FrameSelector)(nil)
)
