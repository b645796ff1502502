package config

import (
	"fmt"
	"io/fs"
	"math"

	"gopkg.in/yaml.v3"
)

// 默认播放配置
const (
	DefaultTPS       = 60
	DefaultSpeed     = 0.2
	DefaultReanimFPS = 12
)

// GlobalConfig 全局配置
type GlobalConfig struct {
	Playback PlaybackConfig `yaml:"playback"`
}

// PlaybackConfig 播放配置
type PlaybackConfig struct {
	TPS          int     `yaml:"tps"`           // 游戏目标 TPS，每个 tick 调用一次 Animator.Update(1.0)
	DefaultSpeed float64 `yaml:"default_speed"` // 未指定 speed 的动画使用的速度（帧/tick）
	ReanimFPS    int     `yaml:"reanim_fps"`    // Reanim 文件未指定 fps 时使用的帧率
}

// DefaultPlaybackConfig returns the playback settings used when no global file exists.
func DefaultPlaybackConfig() PlaybackConfig {
	return PlaybackConfig{
		TPS:          DefaultTPS,
		DefaultSpeed: DefaultSpeed,
		ReanimFPS:    DefaultReanimFPS,
	}
}

// playbackFile 是 YAML 中的播放配置，指针字段区分“未设置”和显式的 0
type playbackFile struct {
	TPS          *int     `yaml:"tps"`
	DefaultSpeed *float64 `yaml:"default_speed"`
	ReanimFPS    *int     `yaml:"reanim_fps"`
}

// UnmarshalYAML decodes a playback block, filling unset fields with the
// defaults. An explicit default_speed of 0 is kept.
func (p *PlaybackConfig) UnmarshalYAML(value *yaml.Node) error {
	var f playbackFile
	if err := value.Decode(&f); err != nil {
		return err
	}

	*p = DefaultPlaybackConfig()
	if f.TPS != nil && *f.TPS != 0 {
		p.TPS = *f.TPS
	}
	if f.DefaultSpeed != nil {
		p.DefaultSpeed = *f.DefaultSpeed
	}
	if f.ReanimFPS != nil && *f.ReanimFPS != 0 {
		p.ReanimFPS = *f.ReanimFPS
	}
	return nil
}

// orDefault returns the defaults for a playback block absent from the file.
func (p PlaybackConfig) orDefault() PlaybackConfig {
	if p == (PlaybackConfig{}) {
		return DefaultPlaybackConfig()
	}
	return p
}

func (p PlaybackConfig) validate() error {
	if p.TPS < 0 {
		return fmt.Errorf("playback tps %d is negative", p.TPS)
	}
	if math.IsNaN(p.DefaultSpeed) || math.IsInf(p.DefaultSpeed, 0) || p.DefaultSpeed < 0 {
		return fmt.Errorf("playback default_speed %g is not a finite value superior or equal to 0", p.DefaultSpeed)
	}
	if p.ReanimFPS < 0 {
		return fmt.Errorf("playback reanim_fps %d is negative", p.ReanimFPS)
	}
	return nil
}

// LoadGlobalConfig 加载全局播放配置
// 文件不存在时使用默认配置
func LoadGlobalConfig(fsys fs.FS, path string) (GlobalConfig, error) {
	data, err := fs.ReadFile(fsys, path)
	if err != nil {
		if isNotExist(err) {
			return GlobalConfig{Playback: DefaultPlaybackConfig()}, nil
		}
		return GlobalConfig{}, fmt.Errorf("failed to read global config %s: %w", path, err)
	}

	var cfg struct {
		Global GlobalConfig `yaml:"global"`
	}
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return GlobalConfig{}, fmt.Errorf("failed to parse global config %s: %w", path, err)
	}

	cfg.Global.Playback = cfg.Global.Playback.orDefault()
	if err := cfg.Global.Playback.validate(); err != nil {
		return GlobalConfig{}, fmt.Errorf("global config %s is invalid: %w", path, err)
	}
	return cfg.Global, nil
}
