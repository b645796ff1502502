// Package main prints the frame-by-frame trace of an Animator.
//
// Usage:
//
//	go run ./cmd/verify_animator [flags]
//
// Examples:
//
//	go run ./cmd/verify_animator --set mario --anim jump --updates 40
//	go run ./cmd/verify_animator --tmx data/maps/coin.tmx --anim sparkle
//	go run ./cmd/verify_animator --reanim data/reanim/Flower.reanim --anim anim_idle --extrp 0.5
//
// Without --anim the available animations are listed.
package main

import (
	"flag"
	"fmt"
	"io"
	"log"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/decker502/animkit/pkg/animation"
	"github.com/decker502/animkit/pkg/config"
)

var (
	configFlag  = flag.String("config", "data/animations", "Animation config file or directory")
	setFlag     = flag.String("set", "", "Animation set ID (config mode)")
	animFlag    = flag.String("anim", "", "Animation to play (empty: list animations)")
	updatesFlag = flag.Int("updates", 20, "Number of Update calls")
	extrpFlag   = flag.Float64("extrp", 1.0, "Extrapolation passed to each Update")
	tmxFlag     = flag.String("tmx", "", "Import tile animations from a Tiled map instead of --config")
	reanimFlag  = flag.String("reanim", "", "Import animation tracks from a Reanim file instead of --config")
	verboseFlag = flag.Bool("verbose", false, "Enable verbose logging (default off)")
)

func main() {
	flag.Parse()

	if !*verboseFlag {
		log.SetOutput(io.Discard)
	}

	anims, err := loadAnimations()
	if err != nil {
		fmt.Fprintf(os.Stderr, "❌ %v\n", err)
		os.Exit(1)
	}

	if *animFlag == "" {
		listAnimations(anims)
		return
	}

	anim, ok := anims[*animFlag]
	if !ok {
		fmt.Fprintf(os.Stderr, "❌ animation %q not found\n", *animFlag)
		listAnimations(anims)
		os.Exit(1)
	}

	trace(anim, *updatesFlag, *extrpFlag)
}

// loadAnimations 按命令行参数加载动画
func loadAnimations() (map[string]*animation.Animation, error) {
	switch {
	case *tmxFlag != "":
		return importFile(*tmxFlag, func(cfg *config.AnimationSetConfig, name string) { cfg.TilesetFile = name })
	case *reanimFlag != "":
		return importFile(*reanimFlag, func(cfg *config.AnimationSetConfig, name string) { cfg.ReanimFile = name })
	}

	dir, name := filepath.Split(filepath.Clean(*configFlag))
	if dir == "" {
		dir = "."
	}
	manager, err := config.NewAnimationConfigManager(os.DirFS(dir), name)
	if err != nil {
		return nil, err
	}

	setID := *setFlag
	if setID == "" {
		sets := manager.ListSets()
		if len(sets) != 1 {
			return nil, fmt.Errorf("--set is required, available sets: %s", strings.Join(sets, ", "))
		}
		setID = sets[0]
	}

	names, err := manager.ListAnimations(setID)
	if err != nil {
		return nil, err
	}
	anims := make(map[string]*animation.Animation, len(names))
	for _, n := range names {
		anim, err := manager.GetAnimation(setID, n)
		if err != nil {
			return nil, err
		}
		anims[n] = anim
	}
	return anims, nil
}

// importFile 把单个导入文件包装成临时动画集
func importFile(path string, set func(cfg *config.AnimationSetConfig, name string)) (map[string]*animation.Animation, error) {
	dir, name := filepath.Split(filepath.Clean(path))
	if dir == "" {
		dir = "."
	}
	cfg := &config.AnimationSetConfig{ID: "cli"}
	set(cfg, name)
	return cfg.BuildAnimations(os.DirFS(dir), config.DefaultPlaybackConfig())
}

func listAnimations(anims map[string]*animation.Animation) {
	names := make([]string, 0, len(anims))
	for n := range anims {
		names = append(names, n)
	}
	sort.Strings(names)

	fmt.Println("Available animations:")
	for _, n := range names {
		fmt.Printf("  %s\n", anims[n])
	}
}

// trace 播放动画并逐次打印状态和帧
func trace(anim *animation.Animation, updates int, extrapolation float64) {
	animator := animation.NewAnimator()

	var events []string
	_ = animator.AddListener(&animation.ListenerFuncs{
		State: func(state animation.AnimState) { events = append(events, "state="+state.String()) },
		Frame: func(frameAnim int) { events = append(events, fmt.Sprintf("frameAnim=%d", frameAnim)) },
	})

	if err := animator.Play(anim); err != nil {
		fmt.Fprintf(os.Stderr, "❌ %v\n", err)
		os.Exit(1)
	}

	fmt.Printf("Animation: %s\n", anim)
	fmt.Printf("%-6s %-10s %-6s %-9s %s\n", "update", "state", "frame", "frameAnim", "notifications")
	fmt.Printf("%-6s %-10s %-6d %-9d %s\n", "play", animator.AnimState(), animator.Frame(), animator.FrameAnim(), strings.Join(events, " "))

	for i := 1; i <= updates; i++ {
		events = events[:0]
		animator.Update(extrapolation)
		fmt.Printf("%-6d %-10s %-6d %-9d %s\n", i, animator.AnimState(), animator.Frame(), animator.FrameAnim(), strings.Join(events, " "))
	}

	if animator.AnimState() == animation.StateFinished {
		fmt.Println("✅ finished")
	}
}
