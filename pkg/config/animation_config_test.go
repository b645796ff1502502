package config

import (
	"errors"
	"strings"
	"testing"
	"testing/fstest"

	"github.com/decker502/animkit/pkg/animation"
)

const marioYAML = `id: mario
name: Mario
default_animation: idle
sheet:
  frame_width: 16
  frame_height: 24
  columns: 8
animations:
  - name: idle
    first: 1
    last: 1
  - name: walk
    first: 2
    last: 4
    speed: 0.25
  - name: jump
    first: 5
    last: 7
    speed: 0.5
    reverse: true
    repeat: false
`

const testReanim = `<fps>24</fps>
<track><name>anim_spin</name><t><f>0</f></t><t></t><t></t><t></t></track>
<track><name>body</name><t></t><t></t><t></t><t></t></track>`

func TestLoadAnimationSetConfig(t *testing.T) {
	fsys := fstest.MapFS{"data/animations/mario.yaml": {Data: []byte(marioYAML)}}

	cfg, err := LoadAnimationSetConfig(fsys, "data/animations/mario.yaml")
	if err != nil {
		t.Fatalf("LoadAnimationSetConfig error: %v", err)
	}

	if cfg.ID != "mario" || cfg.Name != "Mario" || cfg.DefaultAnimation != "idle" {
		t.Errorf("header: got %q %q %q", cfg.ID, cfg.Name, cfg.DefaultAnimation)
	}
	if cfg.Sheet == nil || cfg.Sheet.FrameWidth != 16 || cfg.Sheet.FrameHeight != 24 || cfg.Sheet.Columns != 8 {
		t.Errorf("sheet: got %+v", cfg.Sheet)
	}
	if len(cfg.Animations) != 3 {
		t.Fatalf("Animations: got %d, want 3", len(cfg.Animations))
	}
	jump := cfg.Animations[2]
	if jump.Speed == nil || *jump.Speed != 0.5 || !jump.Reverse || jump.Repeat == nil || *jump.Repeat {
		t.Errorf("jump definition: got %+v", jump)
	}
}

func TestLoadAnimationSetConfigInvalid(t *testing.T) {
	tests := []struct {
		name    string
		content string
		wantErr string
	}{
		{"缺少 id", "animations:\n  - {name: a, first: 1, last: 1}\n", "'id'"},
		{"没有动画", "id: empty\n", "defines no animations"},
		{"动画缺少名称", "id: x\nanimations:\n  - {first: 1, last: 1}\n", "missing 'name'"},
		{"重复动画", "id: x\nanimations:\n  - {name: a, first: 1, last: 1}\n  - {name: a, first: 2, last: 2}\n", "defined twice"},
		{"精灵表尺寸无效", "id: x\nsheet: {frame_width: 0, frame_height: 8, columns: 1}\nanimations:\n  - {name: a, first: 1, last: 1}\n", "frame_width"},
		{"精灵表列数无效", "id: x\nsheet: {frame_width: 8, frame_height: 8, columns: 0}\nanimations:\n  - {name: a, first: 1, last: 1}\n", "columns"},
		{"YAML 语法错误", "id: [unclosed\n", "failed to parse"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			fsys := fstest.MapFS{"set.yaml": {Data: []byte(tt.content)}}
			_, err := LoadAnimationSetConfig(fsys, "set.yaml")
			if err == nil {
				t.Fatal("expected error, got nil")
			}
			if !strings.Contains(err.Error(), tt.wantErr) {
				t.Errorf("error %q does not mention %q", err, tt.wantErr)
			}
		})
	}

	if _, err := LoadAnimationSetConfig(fstest.MapFS{}, "missing.yaml"); err == nil {
		t.Error("expected error for missing file")
	}
}

func TestBuildAnimations(t *testing.T) {
	fsys := fstest.MapFS{"mario.yaml": {Data: []byte(marioYAML)}}
	cfg, err := LoadAnimationSetConfig(fsys, "mario.yaml")
	if err != nil {
		t.Fatalf("LoadAnimationSetConfig error: %v", err)
	}

	anims, err := cfg.BuildAnimations(fsys, DefaultPlaybackConfig())
	if err != nil {
		t.Fatalf("BuildAnimations error: %v", err)
	}

	idle := anims["idle"]
	if idle == nil || idle.Speed() != DefaultSpeed || !idle.Repeat() || idle.Frames() != 1 {
		t.Errorf("idle: got %v, want default speed, repeating, 1 frame", idle)
	}
	walk := anims["walk"]
	if walk == nil || walk.FirstFrame() != 2 || walk.LastFrame() != 4 || walk.Speed() != 0.25 {
		t.Errorf("walk: got %v", walk)
	}
	jump := anims["jump"]
	if jump == nil || !jump.Reverse() || jump.Repeat() {
		t.Errorf("jump: got %v", jump)
	}
}

func TestBuildAnimationsInvalid(t *testing.T) {
	t.Run("无效帧范围", func(t *testing.T) {
		cfg := &AnimationSetConfig{ID: "x", Animations: []AnimationDef{{Name: "bad", First: 3, Last: 2}}}
		_, err := cfg.BuildAnimations(fstest.MapFS{}, DefaultPlaybackConfig())
		if !errors.Is(err, animation.ErrInvalidArgument) {
			t.Errorf("got %v, want ErrInvalidArgument", err)
		}
		if err != nil && !strings.Contains(err.Error(), "x/bad") {
			t.Errorf("error %q should name the animation", err)
		}
	})

	t.Run("默认动画不存在", func(t *testing.T) {
		cfg := &AnimationSetConfig{
			ID:               "x",
			DefaultAnimation: "missing",
			Animations:       []AnimationDef{{Name: "a", First: 1, Last: 1}},
		}
		if _, err := cfg.BuildAnimations(fstest.MapFS{}, DefaultPlaybackConfig()); err == nil {
			t.Error("expected error for unknown default animation")
		}
	})
}

func TestBuildAnimationsFromReanim(t *testing.T) {
	fsys := fstest.MapFS{"data/reanim/Spin.reanim": {Data: []byte(testReanim)}}
	speed := 0.1
	cfg := &AnimationSetConfig{
		ID:         "spinner",
		ReanimFile: "data/reanim/Spin.reanim",
		Animations: []AnimationDef{{Name: "extra", First: 1, Last: 2, Speed: &speed}},
	}

	anims, err := cfg.BuildAnimations(fsys, PlaybackConfig{TPS: 48, DefaultSpeed: 1, ReanimFPS: 12})
	if err != nil {
		t.Fatalf("BuildAnimations error: %v", err)
	}

	spin := anims["anim_spin"]
	if spin == nil {
		t.Fatalf("anim_spin not imported, got %v", anims)
	}
	if spin.FirstFrame() != 1 || spin.LastFrame() != 4 {
		t.Errorf("anim_spin range: got %d-%d, want 1-4", spin.FirstFrame(), spin.LastFrame())
	}
	if spin.Speed() != 0.5 {
		t.Errorf("anim_spin speed: got %v, want 24/48", spin.Speed())
	}
	if _, ok := anims["body"]; ok {
		t.Error("part tracks must not become animations")
	}
	if anims["extra"] == nil {
		t.Error("explicit animation missing")
	}
}

func TestLoadGlobalConfig(t *testing.T) {
	t.Run("文件不存在使用默认值", func(t *testing.T) {
		global, err := LoadGlobalConfig(fstest.MapFS{}, "data/animation_config.yaml")
		if err != nil {
			t.Fatalf("LoadGlobalConfig error: %v", err)
		}
		if global.Playback != DefaultPlaybackConfig() {
			t.Errorf("got %+v, want defaults", global.Playback)
		}
	})

	t.Run("部分字段补默认值", func(t *testing.T) {
		fsys := fstest.MapFS{"g.yaml": {Data: []byte("global:\n  playback:\n    tps: 30\n")}}
		global, err := LoadGlobalConfig(fsys, "g.yaml")
		if err != nil {
			t.Fatalf("LoadGlobalConfig error: %v", err)
		}
		want := PlaybackConfig{TPS: 30, DefaultSpeed: DefaultSpeed, ReanimFPS: DefaultReanimFPS}
		if global.Playback != want {
			t.Errorf("got %+v, want %+v", global.Playback, want)
		}
	})

	t.Run("负值无效", func(t *testing.T) {
		fsys := fstest.MapFS{"g.yaml": {Data: []byte("global:\n  playback:\n    tps: -1\n")}}
		if _, err := LoadGlobalConfig(fsys, "g.yaml"); err == nil {
			t.Error("expected error for negative tps")
		}
	})

	t.Run("无穷默认速度无效", func(t *testing.T) {
		fsys := fstest.MapFS{"g.yaml": {Data: []byte("global:\n  playback:\n    default_speed: .inf\n")}}
		if _, err := LoadGlobalConfig(fsys, "g.yaml"); err == nil {
			t.Error("expected error for infinite default_speed")
		}
	})

	t.Run("缺少 playback 使用默认值", func(t *testing.T) {
		fsys := fstest.MapFS{"g.yaml": {Data: []byte("global: {}\n")}}
		global, err := LoadGlobalConfig(fsys, "g.yaml")
		if err != nil {
			t.Fatalf("LoadGlobalConfig error: %v", err)
		}
		if global.Playback != DefaultPlaybackConfig() {
			t.Errorf("got %+v, want defaults", global.Playback)
		}
	})
}

func TestZeroDefaultSpeed(t *testing.T) {
	fsys := fstest.MapFS{
		"data/animation_config.yaml": {Data: []byte("global:\n  playback:\n    default_speed: 0\n")},
		"data/animations/mario.yaml": {Data: []byte(marioYAML)},
	}

	global, err := LoadGlobalConfig(fsys, "data/animation_config.yaml")
	if err != nil {
		t.Fatalf("LoadGlobalConfig error: %v", err)
	}
	if global.Playback.DefaultSpeed != 0 {
		t.Errorf("DefaultSpeed: got %v, want explicit 0", global.Playback.DefaultSpeed)
	}
	if global.Playback.TPS != DefaultTPS {
		t.Errorf("TPS: got %d, want %d", global.Playback.TPS, DefaultTPS)
	}

	manager, err := NewAnimationConfigManager(fsys, "data/animations")
	if err != nil {
		t.Fatalf("NewAnimationConfigManager error: %v", err)
	}
	idle, err := manager.GetAnimation("mario", "idle")
	if err != nil {
		t.Fatalf("GetAnimation error: %v", err)
	}
	if idle.Speed() != 0 {
		t.Errorf("idle speed: got %v, want 0", idle.Speed())
	}
	// 显式 speed 不受影响
	if walk, _ := manager.GetAnimation("mario", "walk"); walk == nil || walk.Speed() != 0.25 {
		t.Errorf("walk: got %v", walk)
	}

	bundle := "global:\n  playback:\n    default_speed: 0\nsets:\n  - id: coin\n    animations:\n      - {name: spin, first: 1, last: 4}\n"
	fileManager, err := NewAnimationConfigManager(fstest.MapFS{"all.yaml": {Data: []byte(bundle)}}, "all.yaml")
	if err != nil {
		t.Fatalf("NewAnimationConfigManager error: %v", err)
	}
	if spin, _ := fileManager.GetAnimation("coin", "spin"); spin == nil || spin.Speed() != 0 {
		t.Errorf("bundle spin: got %v, want speed 0", spin)
	}
}
