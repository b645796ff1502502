package components

import "github.com/decker502/animkit/pkg/animation"

// AnimatorComponent 驱动实体的帧动画
// Animator 负责状态机推进，SetID 指向配置中的动画集
type AnimatorComponent struct {
	SetID    string              // 动画集 ID（如 "mario"）
	Animator *animation.Animator // 动画状态机
}

// PlayByName 播放动画集中的指定动画
// lookup 通常为 AnimationConfigManager.GetAnimation
func (c *AnimatorComponent) PlayByName(name string, lookup func(setID, name string) (*animation.Animation, error)) error {
	anim, err := lookup(c.SetID, name)
	if err != nil {
		return err
	}
	return c.Animator.Play(anim)
}
