// Package tileset imports tile animations authored in Tiled maps as Animation values.
//
// A tile animation is a list of (tile id, duration) frames. It maps onto an
// Animation when its tile ids are contiguous and ascending: the absolute frames
// are the tile ids + 1, so they index the tileset image the same way a sprite
// sheet is indexed (row-major, 1-based).
package tileset

import (
	"fmt"
	"io/fs"
	"log"

	"github.com/decker502/animkit/pkg/animation"
	"github.com/lafriks/go-tiled"
)

// Tile properties read from the animated tile.
const (
	propName    = "name"
	propReverse = "reverse"
	propRepeat  = "repeat"
)

// LoadAnimations loads the map at path from fsys and converts the tile
// animations of all its tilesets. tps is the number of Animator updates per
// second (extrapolation 1.0 each), used to turn frame durations into speeds.
func LoadAnimations(fsys fs.FS, path string, tps int) (map[string]*animation.Animation, error) {
	if tps <= 0 {
		return nil, fmt.Errorf("%w: tps %d is not superior or equal to 1", animation.ErrInvalidArgument, tps)
	}

	levelMap, err := tiled.LoadFile(path, tiled.WithFileSystem(fsys))
	if err != nil {
		return nil, fmt.Errorf("load TMX %s: %w", path, err)
	}

	anims := make(map[string]*animation.Animation)
	for _, ts := range levelMap.Tilesets {
		for _, tile := range ts.Tiles {
			if len(tile.Animation) == 0 {
				continue
			}

			anim, err := convertTile(ts.Name, tile, tps)
			if err != nil {
				log.Printf("[tileset] Skipping tile %d of %q in %s: %v", tile.ID, ts.Name, path, err)
				continue
			}
			if _, exists := anims[anim.Name()]; exists {
				return nil, fmt.Errorf("duplicate tile animation %q in %s", anim.Name(), path)
			}
			anims[anim.Name()] = anim
		}
	}

	return anims, nil
}

func convertTile(tilesetName string, tile *tiled.TilesetTile, tps int) (*animation.Animation, error) {
	first := tile.Animation[0].TileID
	var totalDuration uint32
	for i, frame := range tile.Animation {
		if frame.TileID != first+uint32(i) {
			return nil, fmt.Errorf("frame %d uses tile %d, tile ids must be contiguous from %d", i, frame.TileID, first)
		}
		totalDuration += frame.Duration
	}
	if totalDuration == 0 {
		return nil, fmt.Errorf("animation has no duration")
	}

	name := tile.Properties.GetString(propName)
	if name == "" {
		name = fmt.Sprintf("%s_%d", tilesetName, tile.ID)
	}

	// 每次更新经过 1000/tps 毫秒，平均帧时长为 total/n 毫秒
	frames := len(tile.Animation)
	avgDuration := float64(totalDuration) / float64(frames)
	speed := 1000.0 / (float64(tps) * avgDuration)

	repeat := true
	if v := tile.Properties.GetString(propRepeat); v != "" {
		repeat = v == "true"
	}

	return animation.NewAnimation(
		name,
		int(first)+1,
		int(first)+frames,
		speed,
		tile.Properties.GetBool(propReverse),
		repeat,
	)
}
