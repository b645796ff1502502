package config

import (
	"os"
	"path/filepath"
	"reflect"
	"testing"
	"testing/fstest"
	"time"
)

const goombaYAML = `id: goomba
default_animation: walk
animations:
  - name: walk
    first: 1
    last: 2
    speed: 0.125
  - name: squash
    first: 3
    last: 3
    repeat: false
`

func newDirFS() fstest.MapFS {
	return fstest.MapFS{
		"data/animation_config.yaml":    {Data: []byte("global:\n  playback:\n    tps: 30\n    default_speed: 0.5\n")},
		"data/animations/mario.yaml":    {Data: []byte(marioYAML)},
		"data/animations/goomba.yml":    {Data: []byte(goombaYAML)},
		"data/animations/README.txt":    {Data: []byte("not a config")},
		"data/animations/nested/x.yaml": {Data: []byte("id: ignored\n")},
	}
}

func TestAnimationConfigManager_Directory(t *testing.T) {
	manager, err := NewAnimationConfigManager(newDirFS(), "data/animations")
	if err != nil {
		t.Fatalf("NewAnimationConfigManager error: %v", err)
	}

	if got := manager.ListSets(); !reflect.DeepEqual(got, []string{"goomba", "mario"}) {
		t.Errorf("ListSets: got %v", got)
	}

	playback := manager.GetPlaybackConfig()
	if playback.TPS != 30 || playback.DefaultSpeed != 0.5 {
		t.Errorf("playback: got %+v", playback)
	}

	t.Run("获取动画", func(t *testing.T) {
		walk, err := manager.GetAnimation("goomba", "walk")
		if err != nil {
			t.Fatalf("GetAnimation error: %v", err)
		}
		if walk.Speed() != 0.125 || walk.Frames() != 2 {
			t.Errorf("walk: got %v", walk)
		}

		// 全局 default_speed 生效
		idle, err := manager.GetAnimation("mario", "idle")
		if err != nil {
			t.Fatalf("GetAnimation error: %v", err)
		}
		if idle.Speed() != 0.5 {
			t.Errorf("idle speed: got %v, want 0.5", idle.Speed())
		}
	})

	t.Run("同一动画共享实例", func(t *testing.T) {
		a, _ := manager.GetAnimation("mario", "walk")
		b, _ := manager.GetAnimation("mario", "walk")
		if a != b {
			t.Error("GetAnimation should return the shared instance")
		}
	})

	t.Run("默认动画", func(t *testing.T) {
		anim, err := manager.GetDefaultAnimation("goomba")
		if err != nil {
			t.Fatalf("GetDefaultAnimation error: %v", err)
		}
		if anim.Name() != "walk" {
			t.Errorf("default: got %q, want walk", anim.Name())
		}
	})

	t.Run("列出动画", func(t *testing.T) {
		names, err := manager.ListAnimations("mario")
		if err != nil {
			t.Fatalf("ListAnimations error: %v", err)
		}
		if !reflect.DeepEqual(names, []string{"idle", "jump", "walk"}) {
			t.Errorf("ListAnimations: got %v", names)
		}
	})

	t.Run("不存在", func(t *testing.T) {
		if _, err := manager.GetSet("luigi"); err == nil {
			t.Error("expected error for unknown set")
		}
		if _, err := manager.GetAnimation("mario", "fly"); err == nil {
			t.Error("expected error for unknown animation")
		}
		if _, err := manager.ListAnimations("luigi"); err == nil {
			t.Error("expected error for unknown set")
		}
	})
}

func TestAnimationConfigManager_File(t *testing.T) {
	bundle := `global:
  playback:
    tps: 60
sets:
  - id: coin
    animations:
      - {name: spin, first: 1, last: 4, speed: 0.25}
  - id: block
    animations:
      - {name: bump, first: 1, last: 3, reverse: true, repeat: false}
`
	manager, err := NewAnimationConfigManager(fstest.MapFS{"animations.yaml": {Data: []byte(bundle)}}, "animations.yaml")
	if err != nil {
		t.Fatalf("NewAnimationConfigManager error: %v", err)
	}

	if got := manager.ListSets(); !reflect.DeepEqual(got, []string{"block", "coin"}) {
		t.Errorf("ListSets: got %v", got)
	}
	bump, err := manager.GetAnimation("block", "bump")
	if err != nil {
		t.Fatalf("GetAnimation error: %v", err)
	}
	if !bump.Reverse() || bump.Repeat() {
		t.Errorf("bump: got %v", bump)
	}
	if _, err := manager.GetDefaultAnimation("coin"); err == nil {
		t.Error("expected error for set without default animation")
	}
	if manager.GetPlaybackConfig().DefaultSpeed != DefaultSpeed {
		t.Errorf("default speed not applied: %+v", manager.GetPlaybackConfig())
	}
}

func TestAnimationConfigManager_Errors(t *testing.T) {
	tests := []struct {
		name string
		fsys fstest.MapFS
		path string
	}{
		{"路径不存在", fstest.MapFS{}, "nonexistent.yaml"},
		{"重复 ID", fstest.MapFS{
			"sets/a.yaml": {Data: []byte(goombaYAML)},
			"sets/b.yaml": {Data: []byte(goombaYAML)},
		}, "sets"},
		{"无效动画", fstest.MapFS{
			"sets/a.yaml": {Data: []byte("id: a\nanimations:\n  - {name: x, first: 0, last: 1}\n")},
		}, "sets"},
		{"单文件中无效动画集", fstest.MapFS{
			"all.yaml": {Data: []byte("sets:\n  - name: no-id\n")},
		}, "all.yaml"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := NewAnimationConfigManager(tt.fsys, tt.path); err == nil {
				t.Error("expected error, got nil")
			}
		})
	}
}

func TestAnimationConfigManager_Reload(t *testing.T) {
	dir := t.TempDir()
	setsDir := filepath.Join(dir, "animations")
	if err := os.Mkdir(setsDir, 0o755); err != nil {
		t.Fatal(err)
	}
	file := filepath.Join(setsDir, "goomba.yaml")
	if err := os.WriteFile(file, []byte(goombaYAML), 0o644); err != nil {
		t.Fatal(err)
	}

	manager, err := NewAnimationConfigManager(os.DirFS(dir), "animations")
	if err != nil {
		t.Fatalf("NewAnimationConfigManager error: %v", err)
	}
	before, _ := manager.GetAnimation("goomba", "walk")

	t.Run("无效修改保留旧配置", func(t *testing.T) {
		if err := os.WriteFile(file, []byte("id: goomba\nanimations:\n  - {name: walk, first: 2, last: 1}\n"), 0o644); err != nil {
			t.Fatal(err)
		}
		if err := manager.Reload(); err == nil {
			t.Fatal("expected reload error")
		}
		still, err := manager.GetAnimation("goomba", "walk")
		if err != nil || still != before {
			t.Errorf("previous configuration lost: %v %v", still, err)
		}
	})

	t.Run("有效修改生效", func(t *testing.T) {
		if err := os.WriteFile(file, []byte("id: goomba\nanimations:\n  - {name: walk, first: 1, last: 5, speed: 1}\n"), 0o644); err != nil {
			t.Fatal(err)
		}
		if err := manager.Reload(); err != nil {
			t.Fatalf("Reload error: %v", err)
		}
		walk, err := manager.GetAnimation("goomba", "walk")
		if err != nil {
			t.Fatalf("GetAnimation error: %v", err)
		}
		if walk.Frames() != 5 || walk.Speed() != 1 {
			t.Errorf("reloaded walk: got %v", walk)
		}
	})
}

func TestWatcher(t *testing.T) {
	dir := t.TempDir()
	w, err := NewWatcher(dir)
	if err != nil {
		t.Skipf("fsnotify unavailable: %v", err)
	}
	defer w.Close()

	if err := os.WriteFile(filepath.Join(dir, "ignored.txt"), []byte("x"), 0o644); err != nil {
		t.Fatal(err)
	}
	target := filepath.Join(dir, "goomba.yaml")
	if err := os.WriteFile(target, []byte(goombaYAML), 0o644); err != nil {
		t.Fatal(err)
	}

	select {
	case name := <-w.Events:
		if name != target {
			t.Errorf("event for %q, want %q", name, target)
		}
	case err := <-w.Errors:
		t.Fatalf("watcher error: %v", err)
	case <-time.After(5 * time.Second):
		t.Fatal("no event received")
	}

	if err := w.Close(); err != nil {
		t.Errorf("Close error: %v", err)
	}
	if err := w.Close(); err != nil {
		t.Errorf("second Close error: %v", err)
	}
}

// TestShippedData 确保仓库自带的 data/ 配置可以完整加载
func TestShippedData(t *testing.T) {
	manager, err := NewAnimationConfigManager(os.DirFS(filepath.Join("..", "..")), "data/animations")
	if err != nil {
		t.Fatalf("NewAnimationConfigManager error: %v", err)
	}

	if got := manager.ListSets(); !reflect.DeepEqual(got, []string{"coin", "flower", "mario"}) {
		t.Errorf("ListSets: got %v", got)
	}

	tests := []struct {
		set, anim       string
		first, last     int
		reverse, repeat bool
	}{
		{"mario", "jump", 5, 8, true, false},
		{"coin", "spin", 1, 4, false, true},
		{"coin", "sparkle", 5, 7, true, true},
		{"coin", "collect", 8, 8, false, false},
		{"flower", "anim_idle", 1, 6, false, true},
		{"flower", "anim_blink", 7, 9, false, false},
		{"flower", "anim_sway", 10, 12, false, true},
	}
	for _, tt := range tests {
		t.Run(tt.set+"/"+tt.anim, func(t *testing.T) {
			anim, err := manager.GetAnimation(tt.set, tt.anim)
			if err != nil {
				t.Fatalf("GetAnimation error: %v", err)
			}
			if anim.FirstFrame() != tt.first || anim.LastFrame() != tt.last ||
				anim.Reverse() != tt.reverse || anim.Repeat() != tt.repeat {
				t.Errorf("got %v, want %d-%d reverse=%v repeat=%v", anim, tt.first, tt.last, tt.reverse, tt.repeat)
			}
		})
	}

	for _, set := range manager.ListSets() {
		if _, err := manager.GetDefaultAnimation(set); err != nil {
			t.Errorf("default animation of %s: %v", set, err)
		}
	}
}
