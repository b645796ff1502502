// Package app 提供动画查看器的核心包装器
//
// 该包将初始化逻辑从 main 包提取出来：加载动画配置、打开 gdata 存储、
// 可选地监听配置目录，并创建实现 ebiten.Game 的 App。
package app

import (
	"errors"
	"fmt"
	"image/color"
	"io"
	"io/fs"
	"log"
	"os"
	"path/filepath"

	"github.com/decker502/animkit/pkg/config"
	"github.com/decker502/animkit/pkg/embedded"
	"github.com/decker502/animkit/pkg/game"
	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/inpututil"
	"github.com/quasilyte/gdata/v2"
)

// AnimationsDir 动画集配置目录（相对于资源文件系统根目录）
const AnimationsDir = "data/animations"

// Config 定义应用启动配置
type Config struct {
	// Verbose 启用详细日志输出
	Verbose bool
	// DataDir 包含 data/ 的目录，为空则使用嵌入资源
	DataDir string
	// Watch 配置文件变化时热重载（需要 DataDir）
	Watch bool
	// Set 启动时选中的动画集
	Set string
	// AppName gdata 应用名，用于保存播放快照
	AppName string
}

// App 是查看器的核心包装器，实现 ebiten.Game 接口
type App struct {
	viewer  *Viewer
	watcher *config.Watcher
	tps     int
}

// NewApp 创建并初始化查看器
//
// 使用嵌入资源时，调用此函数前必须先调用 embedded.Init()。
func NewApp(cfg Config) (*App, error) {
	// 配置日志输出
	if !cfg.Verbose {
		log.SetOutput(io.Discard)
		log.SetFlags(0)
	}

	fsys, err := resourceFS(cfg.DataDir)
	if err != nil {
		return nil, fmt.Errorf("资源目录不可用: %w", err)
	}

	manager, err := config.NewAnimationConfigManager(fsys, AnimationsDir)
	if err != nil {
		return nil, fmt.Errorf("动画配置加载失败: %w", err)
	}
	log.Printf("[App] Loaded %d animation sets", len(manager.ListSets()))

	// gdata 不可用时降级为内存存储
	var gdataManager *gdata.Manager
	if cfg.AppName != "" {
		gdataManager, err = gdata.Open(gdata.Config{AppName: cfg.AppName})
		if err != nil {
			log.Printf("[App] Warning: gdata unavailable: %v (snapshots kept in memory)", err)
			gdataManager = nil
		}
	}

	viewer, err := NewViewer(fsys, manager, game.NewPlaybackStore(gdataManager), cfg.Set)
	if err != nil {
		return nil, err
	}

	a := &App{
		viewer: viewer,
		tps:    manager.GetPlaybackConfig().TPS,
	}

	if cfg.Watch {
		if cfg.DataDir == "" {
			log.Printf("[App] Watch ignored: embedded data cannot change")
		} else {
			dirs := []string{
				filepath.Join(cfg.DataDir, "data"),
				filepath.Join(cfg.DataDir, filepath.FromSlash(AnimationsDir)),
			}
			watcher, err := config.NewWatcher(dirs...)
			if err != nil {
				return nil, fmt.Errorf("监听配置目录失败: %w", err)
			}
			a.watcher = watcher
			viewer.Watch(watcher)
			log.Printf("[App] Watching %v for changes", dirs)
		}
	}

	return a, nil
}

// resourceFS 返回资源文件系统，根目录下包含 data/
func resourceFS(dataDir string) (fs.FS, error) {
	if dataDir == "" {
		return embedded.FS()
	}
	if _, err := os.Stat(filepath.Join(dataDir, "data")); err != nil {
		return nil, err
	}
	return os.DirFS(dataDir), nil
}

// TPS 返回配置的每秒 tick 数
func (a *App) TPS() int {
	return a.tps
}

// Close 停止配置监听
func (a *App) Close() error {
	if a.watcher == nil {
		return nil
	}
	return a.watcher.Close()
}

// Update 更新查看器逻辑
// 每个 tick 调用一次
func (a *App) Update() error {
	if inpututil.IsKeyJustPressed(ebiten.KeyEscape) || inpututil.IsKeyJustPressed(ebiten.KeyQ) {
		return ebiten.Termination
	}

	// F11 切换全屏
	if inpututil.IsKeyJustPressed(ebiten.KeyF11) {
		ebiten.SetFullscreen(!ebiten.IsFullscreen())
	}

	a.viewer.Update(1.0 / float64(ebiten.TPS()))
	return nil
}

// Draw 绘制画面
func (a *App) Draw(screen *ebiten.Image) {
	a.viewer.Draw(screen)
}

// DrawFinalScreen 实现 FinalScreenDrawer 接口
// 全屏时用黑色 letterbox，并保持像素风格的最近邻缩放
func (a *App) DrawFinalScreen(screen ebiten.FinalScreen, offscreen *ebiten.Image, geoM ebiten.GeoM) {
	screen.Fill(color.Black)
	op := &ebiten.DrawImageOptions{}
	op.GeoM = geoM
	op.Filter = ebiten.FilterNearest
	screen.DrawImage(offscreen, op)
}

// Layout 返回逻辑屏幕尺寸
func (a *App) Layout(outsideWidth, outsideHeight int) (int, int) {
	return screenWidth, screenHeight
}

// IsTermination reports whether err is the normal quit signal returned by Update.
func IsTermination(err error) bool {
	return errors.Is(err, ebiten.Termination)
}
