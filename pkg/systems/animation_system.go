package systems

import (
	"log"

	"github.com/decker502/animkit/pkg/animation"
	"github.com/decker502/animkit/pkg/components"
	"github.com/decker502/animkit/pkg/ecs"
)

// AnimationSystem 推进所有实体的动画状态机
//
// 每次 Update：
//  1. 应用速度渐变（SpeedRampComponent），完成后移除组件
//  2. 以 deltaTime × TPS 作为外推量调用 Animator.Update
//
// 速度的单位是「帧/tick」，因此外推量按 tick 计算，与帧率无关。
type AnimationSystem struct {
	entityManager *ecs.EntityManager
	tps           float64
}

// NewAnimationSystem 创建一个新的动画系统
// tps 为每秒 tick 数，非正值时使用 60
func NewAnimationSystem(em *ecs.EntityManager, tps float64) *AnimationSystem {
	if tps <= 0 {
		tps = 60
	}
	return &AnimationSystem{
		entityManager: em,
		tps:           tps,
	}
}

// TPS 返回系统使用的每秒 tick 数
func (s *AnimationSystem) TPS() float64 {
	return s.tps
}

// Update 更新所有动画实体
// deltaTime 单位为秒
func (s *AnimationSystem) Update(deltaTime float64) {
	if deltaTime <= 0 {
		return
	}

	s.updateSpeedRamps(deltaTime)

	extrapolation := deltaTime * s.tps
	for _, id := range ecs.GetEntitiesWith1[*components.AnimatorComponent](s.entityManager) {
		comp, _ := ecs.GetComponent[*components.AnimatorComponent](s.entityManager, id)
		if comp.Animator == nil {
			continue
		}

		before := comp.Animator.AnimState()
		comp.Animator.Update(extrapolation)

		if after := comp.Animator.AnimState(); after != before && after == animation.StateFinished {
			log.Printf("[AnimationSystem] 动画播放完成 (实体ID: %d, 动画: %v, 帧: %d)",
				id, comp.Animator.Anim(), comp.Animator.Frame())
		}
	}
}

// updateSpeedRamps 推进速度渐变
func (s *AnimationSystem) updateSpeedRamps(deltaTime float64) {
	entities := ecs.GetEntitiesWith2[*components.SpeedRampComponent, *components.AnimatorComponent](s.entityManager)
	for _, id := range entities {
		ramp, _ := ecs.GetComponent[*components.SpeedRampComponent](s.entityManager, id)
		comp, _ := ecs.GetComponent[*components.AnimatorComponent](s.entityManager, id)
		if ramp.Tween == nil || comp.Animator == nil {
			ecs.RemoveComponent[*components.SpeedRampComponent](s.entityManager, id)
			continue
		}

		speed, finished := ramp.Tween.Update(float32(deltaTime))
		if err := comp.Animator.SetAnimSpeed(float64(speed)); err != nil {
			log.Printf("[AnimationSystem] 速度渐变无效，已取消 (实体ID: %d): %v", id, err)
			ecs.RemoveComponent[*components.SpeedRampComponent](s.entityManager, id)
			continue
		}

		if finished {
			ecs.RemoveComponent[*components.SpeedRampComponent](s.entityManager, id)
			if ramp.OnDone != nil {
				ramp.OnDone()
			}
		}
	}
}
