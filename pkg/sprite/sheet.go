// Package sprite selects the sub-image to draw for an animated entity.
//
// A Sheet cuts a sprite sheet image into equally sized frames, numbered
// row-major from 1. A FrameSelector listens to an Animator and keeps the frame
// image matching its current position.
package sprite

import (
	"fmt"
	"image"
	"image/color"

	"github.com/decker502/animkit/pkg/animation"
	"github.com/decker502/animkit/pkg/config"
	"github.com/hajimehoshi/ebiten/v2"
)

// Sheet 精灵表
// 帧编号从 1 开始，按行优先排列
type Sheet struct {
	image       *ebiten.Image
	frameWidth  int
	frameHeight int
	columns     int
	rows        int

	// frames 缓存已切分的子图，避免每帧重复 SubImage
	frames map[int]*ebiten.Image
}

// NewSheet cuts img into frames of frameWidth x frameHeight, columns per row.
// The number of rows is derived from the image height.
func NewSheet(img *ebiten.Image, frameWidth, frameHeight, columns int) (*Sheet, error) {
	if img == nil {
		return nil, fmt.Errorf("%w: sheet image is nil", animation.ErrInvalidArgument)
	}
	if frameWidth <= 0 || frameHeight <= 0 || columns <= 0 {
		return nil, fmt.Errorf("%w: invalid sheet layout %dx%d, %d columns",
			animation.ErrInvalidArgument, frameWidth, frameHeight, columns)
	}

	bounds := img.Bounds()
	if columns*frameWidth > bounds.Dx() {
		return nil, fmt.Errorf("%w: %d columns of %dpx do not fit in a %dpx wide image",
			animation.ErrInvalidArgument, columns, frameWidth, bounds.Dx())
	}
	rows := bounds.Dy() / frameHeight
	if rows == 0 {
		return nil, fmt.Errorf("%w: frame height %d exceeds image height %d",
			animation.ErrInvalidArgument, frameHeight, bounds.Dy())
	}

	return &Sheet{
		image:       img,
		frameWidth:  frameWidth,
		frameHeight: frameHeight,
		columns:     columns,
		rows:        rows,
		frames:      make(map[int]*ebiten.Image),
	}, nil
}

// NewSheetFromConfig builds a sheet from its YAML layout.
func NewSheetFromConfig(img *ebiten.Image, cfg *config.SheetConfig) (*Sheet, error) {
	if cfg == nil {
		return nil, fmt.Errorf("%w: sheet config is nil", animation.ErrInvalidArgument)
	}
	return NewSheet(img, cfg.FrameWidth, cfg.FrameHeight, cfg.Columns)
}

// Frames returns the number of frames in the sheet.
func (s *Sheet) Frames() int {
	return s.columns * s.rows
}

// FrameSize returns the size of one frame in pixels.
func (s *Sheet) FrameSize() (int, int) {
	return s.frameWidth, s.frameHeight
}

// Frame returns the sub-image of absolute frame n (1-based).
func (s *Sheet) Frame(n int) (*ebiten.Image, error) {
	if n < animation.MinFrame || n > s.Frames() {
		return nil, fmt.Errorf("%w: frame %d is outside sheet range [%d, %d]",
			animation.ErrInvalidArgument, n, animation.MinFrame, s.Frames())
	}
	if img, ok := s.frames[n]; ok {
		return img, nil
	}

	idx := n - animation.MinFrame
	x := (idx % s.columns) * s.frameWidth
	y := (idx / s.columns) * s.frameHeight
	origin := s.image.Bounds().Min
	rect := image.Rect(x, y, x+s.frameWidth, y+s.frameHeight).Add(origin)

	img := s.image.SubImage(rect).(*ebiten.Image)
	s.frames[n] = img
	return img, nil
}

// NewPlaceholderImage 生成占位精灵表图像（每帧一个色块）
// 用于配置中没有图片或图片缺失时预览动画
func NewPlaceholderImage(cfg *config.SheetConfig, frames int) *ebiten.Image {
	rows := cfg.Rows
	if minRows := (frames + cfg.Columns - 1) / cfg.Columns; rows < minRows {
		rows = minRows
	}
	if rows == 0 {
		rows = 1
	}

	img := ebiten.NewImage(cfg.Columns*cfg.FrameWidth, rows*cfg.FrameHeight)
	for i := 0; i < cfg.Columns*rows; i++ {
		x := (i % cfg.Columns) * cfg.FrameWidth
		y := (i / cfg.Columns) * cfg.FrameHeight
		cell := img.SubImage(image.Rect(x+1, y+1, x+cfg.FrameWidth-1, y+cfg.FrameHeight-1)).(*ebiten.Image)
		cell.Fill(placeholderColor(i))
	}
	return img
}

// placeholderColor 按帧序号生成可区分的颜色
func placeholderColor(i int) color.Color {
	palette := []color.RGBA{
		{R: 0xe5, G: 0x39, B: 0x35, A: 0xff},
		{R: 0xfb, G: 0x8c, B: 0x00, A: 0xff},
		{R: 0xfd, G: 0xd8, B: 0x35, A: 0xff},
		{R: 0x43, G: 0xa0, B: 0x47, A: 0xff},
		{R: 0x1e, G: 0x88, B: 0xe5, A: 0xff},
		{R: 0x8e, G: 0x24, B: 0xaa, A: 0xff},
	}
	return palette[i%len(palette)]
}
