package components

import "github.com/decker502/animkit/pkg/sprite"

// SpriteComponent 存储实体的视觉表现
// Selector 作为 Animator 的监听器，始终持有当前帧图像
type SpriteComponent struct {
	Selector *sprite.FrameSelector
	X, Y     float64 // 屏幕坐标（左上角）
	Scale    float64 // 缩放因子，0 视为 1
}
