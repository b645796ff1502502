package app

import (
	"errors"
	"fmt"
	"image/color"
	_ "image/png"
	"io/fs"
	"log"
	"strings"

	"github.com/decker502/animkit/pkg/animation"
	"github.com/decker502/animkit/pkg/components"
	"github.com/decker502/animkit/pkg/config"
	"github.com/decker502/animkit/pkg/ecs"
	"github.com/decker502/animkit/pkg/game"
	"github.com/decker502/animkit/pkg/sprite"
	"github.com/decker502/animkit/pkg/systems"
	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/ebitenutil"
	"github.com/hajimehoshi/ebiten/v2/inpututil"
	"github.com/hajimehoshi/ebiten/v2/text/v2"
	"github.com/tanema/gween/ease"
	"golang.org/x/image/font/basicfont"
)

const (
	screenWidth  = 800
	screenHeight = 600

	spriteScale   = 3.0
	cellMargin    = 24.0
	labelHeight   = 36.0
	rampSeconds   = 0.3
	speedFactor   = 1.5
	minRampTarget = 0.01
)

// defaultSheet 动画集未配置精灵表时使用的布局
var defaultSheet = config.SheetConfig{FrameWidth: 16, FrameHeight: 16, Columns: 8}

// viewerEntry 一个动画集在查看器中的实体
type viewerEntry struct {
	setID   string
	entity  ecs.EntityID
	comp    *components.AnimatorComponent
	sprite  *components.SpriteComponent
	names   []string // 动画名称（已排序）
	current int      // 当前动画在 names 中的索引
}

// Viewer browses every configured animation set.
type Viewer struct {
	fsys    fs.FS
	manager *config.AnimationConfigManager
	store   *game.PlaybackStore
	watcher *config.Watcher

	entityManager   *ecs.EntityManager
	animationSystem *systems.AnimationSystem
	renderSystem    *systems.RenderSystem

	entries  []*viewerEntry
	selected int

	face   *text.GoXFace
	status string
}

// NewViewer creates a viewer showing every configured animation set.
func NewViewer(fsys fs.FS, manager *config.AnimationConfigManager, store *game.PlaybackStore, initialSet string) (*Viewer, error) {
	v := &Viewer{
		fsys:    fsys,
		manager: manager,
		store:   store,
		face:    text.NewGoXFace(basicfont.Face7x13),

		entityManager: ecs.NewEntityManager(),
	}
	if err := v.rebuild(); err != nil {
		return nil, err
	}

	if initialSet != "" {
		found := false
		for i, e := range v.entries {
			if e.setID == initialSet {
				v.selected = i
				found = true
				break
			}
		}
		if !found {
			return nil, fmt.Errorf("animation set '%s' does not exist", initialSet)
		}
	}
	return v, nil
}

// Watch reloads the configuration whenever the watcher reports a change.
func (v *Viewer) Watch(w *config.Watcher) {
	v.watcher = w
}

// rebuild 根据当前配置重新创建全部实体
// 新实体全部创建成功后才销毁旧实体；失败时撤销本次创建的实体，保留原有画面。
func (v *Viewer) rebuild() error {
	sets := v.manager.ListSets()
	if len(sets) == 0 {
		return errors.New("no animation sets configured")
	}

	em := v.entityManager
	entries := make([]*viewerEntry, 0, len(sets))
	x, y, rowHeight := cellMargin, cellMargin, 0.0
	for _, setID := range sets {
		entry, w, h, err := v.spawn(em, setID)
		if err != nil {
			destroyEntries(em, entries)
			return err
		}
		if x+w > screenWidth && x > cellMargin {
			x = cellMargin
			y += rowHeight + labelHeight + cellMargin
			rowHeight = 0
		}
		entry.sprite.X, entry.sprite.Y = x, y
		x += w + cellMargin
		if h > rowHeight {
			rowHeight = h
		}
		entries = append(entries, entry)
	}

	if n := destroyEntries(em, v.entries); n > 0 {
		log.Printf("[Viewer] Replaced %d entities", n)
	}
	v.animationSystem = systems.NewAnimationSystem(em, float64(v.manager.GetPlaybackConfig().TPS))
	v.renderSystem = systems.NewRenderSystem(em)
	// 按 ID 保留当前选中的动画集
	selected := 0
	if v.selected < len(v.entries) {
		for i, e := range entries {
			if e.setID == v.entries[v.selected].setID {
				selected = i
			}
		}
	}
	v.entries = entries
	v.selected = selected
	return nil
}

// destroyEntries 销毁条目对应的实体（连同其组件），返回移除数量
func destroyEntries(em *ecs.EntityManager, entries []*viewerEntry) int {
	for _, e := range entries {
		em.DestroyEntity(e.entity)
	}
	return em.RemoveMarkedEntities()
}

// spawn 为动画集创建实体并播放默认动画
// 返回实体在屏幕上的宽高
func (v *Viewer) spawn(em *ecs.EntityManager, setID string) (*viewerEntry, float64, float64, error) {
	cfg, err := v.manager.GetSet(setID)
	if err != nil {
		return nil, 0, 0, err
	}
	names, err := v.manager.ListAnimations(setID)
	if err != nil {
		return nil, 0, 0, err
	}

	lastFrame := 1
	for _, name := range names {
		if anim, err := v.manager.GetAnimation(setID, name); err == nil && anim.LastFrame() > lastFrame {
			lastFrame = anim.LastFrame()
		}
	}

	sheetCfg := &defaultSheet
	if cfg.Sheet != nil {
		sheetCfg = cfg.Sheet
	}
	sheet, err := sprite.NewSheetFromConfig(v.loadSheetImage(setID, sheetCfg, lastFrame), sheetCfg)
	if err != nil {
		return nil, 0, 0, fmt.Errorf("animation set %s: %w", setID, err)
	}

	selector := sprite.NewFrameSelector(sheet)
	animator := animation.NewAnimator()
	if err := animator.AddListener(selector); err != nil {
		return nil, 0, 0, err
	}
	if err := animator.AddListener(&animation.ListenerFuncs{
		State: func(state animation.AnimState) {
			log.Printf("[Viewer] %s: %s", setID, state)
		},
	}); err != nil {
		return nil, 0, 0, err
	}

	entry := &viewerEntry{
		setID:  setID,
		entity: em.CreateEntity(),
		comp:   &components.AnimatorComponent{SetID: setID, Animator: animator},
		sprite: &components.SpriteComponent{Selector: selector, Scale: spriteScale},
		names:  names,
	}
	em.AddComponent(entry.entity, entry.comp)
	em.AddComponent(entry.entity, entry.sprite)

	if anim, err := v.manager.GetDefaultAnimation(setID); err == nil {
		for i, name := range names {
			if name == anim.Name() {
				entry.current = i
			}
		}
	}
	if len(names) > 0 {
		if err := entry.comp.PlayByName(names[entry.current], v.manager.GetAnimation); err != nil {
			return nil, 0, 0, err
		}
	}

	fw, fh := sheet.FrameSize()
	return entry, float64(fw) * spriteScale, float64(fh) * spriteScale, nil
}

// loadSheetImage 加载精灵表图像，缺失时生成占位图
func (v *Viewer) loadSheetImage(setID string, cfg *config.SheetConfig, frames int) *ebiten.Image {
	if cfg.Image != "" {
		img, _, err := ebitenutil.NewImageFromFileSystem(v.fsys, cfg.Image)
		if err == nil {
			return img
		}
		log.Printf("[Viewer] %s: cannot load %s: %v (using placeholder)", setID, cfg.Image, err)
	}
	return sprite.NewPlaceholderImage(cfg, frames)
}

// Update 处理配置变化与输入，并推进 deltaTime 秒的动画
func (v *Viewer) Update(deltaTime float64) {
	v.pollWatcher()
	v.handleInput()
	v.animationSystem.Update(deltaTime)
}

// pollWatcher 处理配置变化（非阻塞）
func (v *Viewer) pollWatcher() {
	if v.watcher == nil {
		return
	}
	select {
	case name, ok := <-v.watcher.Events:
		if !ok {
			v.watcher = nil
			return
		}
		if err := v.manager.Reload(); err != nil {
			v.status = fmt.Sprintf("reload failed: %v", err)
			log.Printf("[Viewer] Reload after %s change failed: %v", name, err)
			return
		}
		if err := v.rebuild(); err != nil {
			v.status = fmt.Sprintf("rebuild failed: %v", err)
			log.Printf("[Viewer] %s", v.status)
			return
		}
		v.status = "reloaded " + name
	case err, ok := <-v.watcher.Errors:
		if ok {
			log.Printf("[Viewer] Watcher error: %v", err)
		}
	default:
	}
}

func (v *Viewer) handleInput() {
	entry := v.entries[v.selected]
	animator := entry.comp.Animator

	switch {
	case inpututil.IsKeyJustPressed(ebiten.KeyTab):
		v.selected = (v.selected + 1) % len(v.entries)
	case inpututil.IsKeyJustPressed(ebiten.KeyRight):
		v.switchAnimation(entry, 1)
	case inpututil.IsKeyJustPressed(ebiten.KeyLeft):
		v.switchAnimation(entry, -1)
	case inpututil.IsKeyJustPressed(ebiten.KeySpace):
		v.switchAnimation(entry, 0)
	case inpututil.IsKeyJustPressed(ebiten.KeyS):
		animator.Stop()
	case inpututil.IsKeyJustPressed(ebiten.KeyP):
		if animator.IsPlaying() {
			animator.Pause()
		} else {
			animator.Resume()
		}
	case inpututil.IsKeyJustPressed(ebiten.KeyUp):
		v.rampSpeed(entry, speedFactor)
	case inpututil.IsKeyJustPressed(ebiten.KeyDown):
		v.rampSpeed(entry, 1/speedFactor)
	case inpututil.IsKeyJustPressed(ebiten.KeyR):
		ecs.RemoveComponent[*components.SpeedRampComponent](v.entityManager, entry.entity)
		animator.Reset()
		v.status = entry.setID + " reset"
	case inpututil.IsKeyJustPressed(ebiten.KeyF5):
		if err := v.store.SaveAnimator(entry.setID, animator); err != nil {
			v.status = err.Error()
			return
		}
		v.status = "saved " + entry.setID
	case inpututil.IsKeyJustPressed(ebiten.KeyF9):
		lookup := func(name string) (*animation.Animation, error) {
			return v.manager.GetAnimation(entry.setID, name)
		}
		if err := v.store.RestoreAnimator(entry.setID, animator, lookup); err != nil {
			v.status = err.Error()
			return
		}
		v.status = "loaded " + entry.setID
	}
}

// switchAnimation 切换到相邻动画并从头播放（delta 为 0 时重播当前动画）
func (v *Viewer) switchAnimation(entry *viewerEntry, delta int) {
	if len(entry.names) == 0 {
		return
	}
	n := len(entry.names)
	entry.current = ((entry.current+delta)%n + n) % n
	if err := entry.comp.PlayByName(entry.names[entry.current], v.manager.GetAnimation); err != nil {
		v.status = err.Error()
	}
}

// rampSpeed 用 SpeedRampComponent 平滑调整速度
func (v *Viewer) rampSpeed(entry *viewerEntry, factor float64) {
	from := entry.comp.Animator.AnimSpeed()
	to := from * factor
	if to < minRampTarget {
		to = minRampTarget
	}
	ramp := components.NewSpeedRamp(from, to, rampSeconds, ease.OutQuad)
	ramp.OnDone = func() {
		v.status = fmt.Sprintf("%s speed %.3f", entry.setID, to)
	}
	v.entityManager.AddComponent(entry.entity, ramp)
}

// Draw 绘制全部精灵及其标签
func (v *Viewer) Draw(screen *ebiten.Image) {
	screen.Fill(color.RGBA{R: 0x20, G: 0x24, B: 0x2c, A: 0xff})
	v.renderSystem.Draw(screen)

	for i, entry := range v.entries {
		clr := color.Color(color.RGBA{R: 0xb0, G: 0xb0, B: 0xb0, A: 0xff})
		prefix := "  "
		if i == v.selected {
			clr = color.White
			prefix = "> "
		}
		_, h := entry.sprite.Selector.Sheet().FrameSize()
		v.drawText(screen, v.describe(prefix, entry), entry.sprite.X, entry.sprite.Y+float64(h)*spriteScale+4, clr)
	}

	help := "Tab set  <-/-> anim  Space play  S stop  P pause  Up/Down speed  R reset  F5/F9 save/load"
	v.drawText(screen, help, cellMargin, screenHeight-40, color.White)
	if v.status != "" {
		v.drawText(screen, v.status, cellMargin, screenHeight-22, color.RGBA{R: 0xfd, G: 0xd8, B: 0x35, A: 0xff})
	}
}

// describe 实体标签：动画集/动画、状态、帧
func (v *Viewer) describe(prefix string, entry *viewerEntry) string {
	animator := entry.comp.Animator
	name := "-"
	if anim := animator.Anim(); anim != nil {
		name = anim.Name()
	}

	var b strings.Builder
	fmt.Fprintf(&b, "%s%s/%s\n", prefix, entry.setID, name)
	fmt.Fprintf(&b, "  %s %d/%d x%.2f", animator.AnimState(), animator.FrameAnim(), animator.Frames(), animator.AnimSpeed())
	return b.String()
}

func (v *Viewer) drawText(screen *ebiten.Image, str string, x, y float64, clr color.Color) {
	op := &text.DrawOptions{}
	op.GeoM.Translate(x, y)
	op.LineSpacing = 16
	op.ColorScale.ScaleWithColor(clr)
	text.Draw(screen, str, v.face, op)
}
