package systems

import (
	"github.com/decker502/animkit/pkg/components"
	"github.com/decker502/animkit/pkg/ecs"
	"github.com/hajimehoshi/ebiten/v2"
)

// RenderSystem 绘制所有拥有 SpriteComponent 的实体
// 按实体 ID 升序绘制，后创建的实体在上层
type RenderSystem struct {
	entityManager *ecs.EntityManager
}

// NewRenderSystem 创建一个新的渲染系统
func NewRenderSystem(em *ecs.EntityManager) *RenderSystem {
	return &RenderSystem{
		entityManager: em,
	}
}

// Draw 绘制所有精灵的当前帧
// 返回实际绘制的实体数量
func (s *RenderSystem) Draw(screen *ebiten.Image) int {
	drawn := 0
	for _, id := range ecs.GetEntitiesWith1[*components.SpriteComponent](s.entityManager) {
		if s.drawEntity(screen, id) {
			drawn++
		}
	}
	return drawn
}

// DrawEntity 绘制单个实体
func (s *RenderSystem) DrawEntity(screen *ebiten.Image, id ecs.EntityID) bool {
	return s.drawEntity(screen, id)
}

func (s *RenderSystem) drawEntity(screen *ebiten.Image, id ecs.EntityID) bool {
	comp, ok := ecs.GetComponent[*components.SpriteComponent](s.entityManager, id)
	if !ok || comp.Selector == nil {
		return false
	}
	img := comp.Selector.Image()
	if img == nil {
		return false
	}

	scale := comp.Scale
	if scale == 0 {
		scale = 1
	}

	op := &ebiten.DrawImageOptions{}
	op.GeoM.Scale(scale, scale)
	op.GeoM.Translate(comp.X, comp.Y)
	op.Filter = ebiten.FilterNearest
	screen.DrawImage(img, op)
	return true
}
