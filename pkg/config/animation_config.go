package config

import (
	"fmt"
	"io/fs"
	"log"

	"github.com/decker502/animkit/internal/reanim"
	"github.com/decker502/animkit/internal/tileset"
	"github.com/decker502/animkit/pkg/animation"
	"gopkg.in/yaml.v3"
)

// AnimationSetConfig 动画集配置（一个实体类型的全部动画）
//
// 动画来源按以下顺序合并，同名时后者覆盖前者：
//  1. reanim_file 中的 anim_* 轨道
//  2. tileset_file 中的图块动画
//  3. animations 列表中的显式定义
type AnimationSetConfig struct {
	// ID 动画集 ID（代码中引用，如 "mario"）
	ID string `yaml:"id"`

	// Name 显示名称
	Name string `yaml:"name,omitempty"`

	// DefaultAnimation 默认播放的动画名称（可选）
	DefaultAnimation string `yaml:"default_animation,omitempty"`

	// Sheet 精灵表布局（可选）
	Sheet *SheetConfig `yaml:"sheet,omitempty"`

	// Animations 显式动画定义
	Animations []AnimationDef `yaml:"animations,omitempty"`

	// ReanimFile Reanim 文件路径（可选）
	ReanimFile string `yaml:"reanim_file,omitempty"`

	// TilesetFile Tiled 地图文件路径（可选），导入其中的图块动画
	TilesetFile string `yaml:"tileset_file,omitempty"`
}

// SheetConfig describes how a sprite sheet image is cut into frames.
type SheetConfig struct {
	Image       string `yaml:"image,omitempty"`
	FrameWidth  int    `yaml:"frame_width"`
	FrameHeight int    `yaml:"frame_height"`
	Columns     int    `yaml:"columns"`
	Rows        int    `yaml:"rows,omitempty"`
}

// AnimationDef 单个动画定义
type AnimationDef struct {
	Name        string   `yaml:"name"`
	DisplayName string   `yaml:"display_name,omitempty"`
	First       int      `yaml:"first"`
	Last        int      `yaml:"last"`
	Speed       *float64 `yaml:"speed,omitempty"` // nil 使用全局 default_speed
	Reverse     bool     `yaml:"reverse,omitempty"`
	Repeat      *bool    `yaml:"repeat,omitempty"` // nil=默认 true，显式 false=不循环
}

// LoadAnimationSetConfig 从 YAML 文件加载动画集配置
//
// 参数：
//   - fsys: 配置所在文件系统（embed.FS 或 os.DirFS）
//   - path: 配置文件路径
//
// 返回：
//   - *AnimationSetConfig: 解析并验证后的配置
//   - error: 读取、解析或验证错误
func LoadAnimationSetConfig(fsys fs.FS, path string) (*AnimationSetConfig, error) {
	data, err := fs.ReadFile(fsys, path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file %s: %w", path, err)
	}

	var cfg AnimationSetConfig
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config file %s: %w", path, err)
	}

	if err := validateSetConfig(&cfg); err != nil {
		return nil, fmt.Errorf("config file %s is invalid: %w", path, err)
	}

	return &cfg, nil
}

// validateSetConfig 验证配置的完整性（不构建动画）
func validateSetConfig(cfg *AnimationSetConfig) error {
	if cfg.ID == "" {
		return fmt.Errorf("missing required field 'id'")
	}

	if len(cfg.Animations) == 0 && cfg.ReanimFile == "" && cfg.TilesetFile == "" {
		return fmt.Errorf("animation set '%s' defines no animations", cfg.ID)
	}

	names := make(map[string]bool, len(cfg.Animations))
	for i, def := range cfg.Animations {
		if def.Name == "" {
			return fmt.Errorf("animation #%d of set '%s' is missing 'name'", i, cfg.ID)
		}
		if names[def.Name] {
			return fmt.Errorf("animation '%s' is defined twice in set '%s'", def.Name, cfg.ID)
		}
		names[def.Name] = true
	}

	if s := cfg.Sheet; s != nil {
		if s.FrameWidth <= 0 || s.FrameHeight <= 0 {
			return fmt.Errorf("sheet of set '%s' needs positive frame_width and frame_height", cfg.ID)
		}
		if s.Columns <= 0 {
			return fmt.Errorf("sheet of set '%s' needs positive columns", cfg.ID)
		}
		if s.Rows < 0 {
			return fmt.Errorf("sheet of set '%s' has negative rows", cfg.ID)
		}
	}

	return nil
}

// BuildAnimations 构建动画集的全部 Animation
//
// 每个 Animation 只构建一次，由所有 Animator 共享引用。
// 构建失败（帧范围或速度无效）时返回带上下文的错误。
func (cfg *AnimationSetConfig) BuildAnimations(fsys fs.FS, playback PlaybackConfig) (map[string]*animation.Animation, error) {
	anims := make(map[string]*animation.Animation)

	if cfg.ReanimFile != "" {
		imported, err := importReanim(fsys, cfg.ReanimFile, playback)
		if err != nil {
			return nil, fmt.Errorf("animation set '%s': %w", cfg.ID, err)
		}
		for name, anim := range imported {
			anims[name] = anim
		}
	}

	if cfg.TilesetFile != "" {
		imported, err := tileset.LoadAnimations(fsys, cfg.TilesetFile, playback.TPS)
		if err != nil {
			return nil, fmt.Errorf("animation set '%s': %w", cfg.ID, err)
		}
		for name, anim := range imported {
			anims[name] = anim
		}
	}

	for _, def := range cfg.Animations {
		speed := playback.DefaultSpeed
		if def.Speed != nil {
			speed = *def.Speed
		}
		repeat := true
		if def.Repeat != nil {
			repeat = *def.Repeat
		}

		anim, err := animation.NewAnimation(def.Name, def.First, def.Last, speed, def.Reverse, repeat)
		if err != nil {
			return nil, fmt.Errorf("animation '%s/%s': %w", cfg.ID, def.Name, err)
		}
		if _, exists := anims[def.Name]; exists {
			log.Printf("[AnimationConfig] '%s/%s' overrides an imported animation", cfg.ID, def.Name)
		}
		anims[def.Name] = anim
	}

	if cfg.DefaultAnimation != "" {
		if _, ok := anims[cfg.DefaultAnimation]; !ok {
			return nil, fmt.Errorf("animation set '%s' references unknown default animation '%s'",
				cfg.ID, cfg.DefaultAnimation)
		}
	}

	return anims, nil
}

// importReanim 将 Reanim 文件的 anim_* 轨道转换为动画
// 速度 = 动画帧率 / TPS，即每次更新推进的帧数
func importReanim(fsys fs.FS, path string, playback PlaybackConfig) (map[string]*animation.Animation, error) {
	r, err := reanim.ParseReanimFile(fsys, path)
	if err != nil {
		return nil, err
	}

	fps := r.FPS
	if fps <= 0 {
		fps = playback.ReanimFPS
	}
	speed := float64(fps) / float64(playback.TPS)

	anims := make(map[string]*animation.Animation)
	for _, fr := range r.AnimationRanges() {
		anim, err := animation.NewAnimation(fr.Name, fr.Start+1, fr.End+1, speed, false, true)
		if err != nil {
			return nil, fmt.Errorf("reanim track '%s': %w", fr.Name, err)
		}
		anims[fr.Name] = anim
	}

	return anims, nil
}
