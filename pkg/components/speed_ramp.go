package components

import (
	"github.com/tanema/gween"
	"github.com/tanema/gween/ease"
)

// SpeedRampComponent 在一段时间内平滑调整动画速度
// AnimationSystem 每帧用 Tween 的当前值调用 SetAnimSpeed，完成后移除本组件
type SpeedRampComponent struct {
	Tween  *gween.Tween
	OnDone func() // 可选，渐变完成时调用
}

// NewSpeedRamp 创建从 from 到 to、持续 seconds 秒的速度渐变
// easing 为 nil 时使用线性插值
func NewSpeedRamp(from, to, seconds float64, easing ease.TweenFunc) *SpeedRampComponent {
	if easing == nil {
		easing = ease.Linear
	}
	return &SpeedRampComponent{
		Tween: gween.New(float32(from), float32(to), float32(seconds), easing),
	}
}
