// Package reanim reads the animation definition tracks of Reanim files.
//
// A Reanim file is a list of <track> elements without a root element. Tracks
// whose name starts with "anim_" define named animations: their <f> values mark
// each physical frame as hidden (-1) or visible (0), and a missing value
// inherits the previous one. Only those visibility windows are needed to turn a
// Reanim file into frame ranges, so part transforms are not decoded.
package reanim

// AnimTrackPrefix 动画定义轨道的名称前缀
const AnimTrackPrefix = "anim_"

// ReanimXML is the root structure of a Reanim animation file.
type ReanimXML struct {
	// FPS is the frame rate of the animation, typically 12.
	FPS int `xml:"fps"`

	Tracks []Track `xml:"track"`
}

// Track is a single named track.
type Track struct {
	Name   string  `xml:"name"`
	Frames []Frame `xml:"t"`
}

// Frame keeps only the visibility value of a frame.
// nil inherits the previous frame, -1 hides the frame, 0 or more shows it.
type Frame struct {
	FrameNum *int `xml:"f,omitempty"`
}

// FrameRange is the visible window of an animation definition track.
// Start and End are 0-based physical frame indices, both inclusive.
type FrameRange struct {
	Name  string
	Start int
	End   int
}

// Frames returns the number of physical frames in the window.
func (r FrameRange) Frames() int {
	return r.End - r.Start + 1
}
