// Package main is an interactive viewer for sprite animation sets.
//
// Usage:
//
//	go run . [flags]
//
// Flags:
//
//	--data <dir>     Load configuration from <dir>/data instead of the embedded copy
//	--watch          Reload configuration when a YAML file under --data changes
//	--set <id>       Select an animation set at startup
//	--app <name>     gdata application name used to store playback snapshots
//	--verbose        Enable verbose logging
//
// Controls:
//
//	Tab               - Select next animation set
//	Left/Right Arrow  - Switch to previous/next animation of the selected set
//	Space             - Play the current animation from the start
//	S                 - Stop
//	P                 - Pause / resume
//	Up/Down Arrow     - Ramp the speed up/down
//	R                 - Reset the animator
//	F5 / F9           - Save / load a playback snapshot
//	F11               - Toggle fullscreen
//	Q/Escape          - Quit
package main

import (
	"flag"
	"log"

	"github.com/decker502/animkit/pkg/app"
	"github.com/decker502/animkit/pkg/embedded"
	"github.com/hajimehoshi/ebiten/v2"
)

var (
	dataFlag    = flag.String("data", "", "Directory containing data/ (default: embedded data)")
	watchFlag   = flag.Bool("watch", false, "Hot reload configuration changes (requires --data)")
	setFlag     = flag.String("set", "", "Animation set selected at startup")
	appFlag     = flag.String("app", "animkit", "gdata application name for playback snapshots")
	verboseFlag = flag.Bool("verbose", false, "Enable verbose logging (default off)")
)

func main() {
	flag.Parse()

	// 初始化嵌入资源
	embedded.Init(dataFS)

	a, err := app.NewApp(app.Config{
		Verbose: *verboseFlag,
		DataDir: *dataFlag,
		Watch:   *watchFlag,
		Set:     *setFlag,
		AppName: *appFlag,
	})
	if err != nil {
		log.Fatalf("Failed to start viewer: %v", err)
	}
	defer a.Close()

	ebiten.SetWindowSize(800, 600)
	ebiten.SetWindowTitle("animkit - Animation Viewer")
	ebiten.SetTPS(a.TPS())

	if err := ebiten.RunGame(a); err != nil && !app.IsTermination(err) {
		log.Fatal(err)
	}
}
