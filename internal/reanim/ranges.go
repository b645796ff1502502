package reanim

import "strings"

// AnimationRanges returns the visible window of every animation definition
// track, in file order. Tracks that are never visible are skipped.
func (r *ReanimXML) AnimationRanges() []FrameRange {
	total := r.standardFrameCount()
	ranges := make([]FrameRange, 0)

	for i := range r.Tracks {
		track := &r.Tracks[i]
		if !strings.HasPrefix(track.Name, AnimTrackPrefix) {
			continue
		}
		start, end := findVisibleWindow(buildVisibles(track, total))
		if start < 0 {
			continue
		}
		ranges = append(ranges, FrameRange{Name: track.Name, Start: start, End: end})
	}

	return ranges
}

// standardFrameCount 所有轨道中最长的帧数
func (r *ReanimXML) standardFrameCount() int {
	count := 0
	for _, track := range r.Tracks {
		if len(track.Frames) > count {
			count = len(track.Frames)
		}
	}
	return count
}

// buildVisibles expands the track's visibility values over total frames,
// applying inheritance of missing values.
func buildVisibles(track *Track, total int) []int {
	visibles := make([]int, total)
	current := 0
	for i := 0; i < total; i++ {
		if i < len(track.Frames) && track.Frames[i].FrameNum != nil {
			current = *track.Frames[i].FrameNum
		}
		visibles[i] = current
	}
	return visibles
}

// findVisibleWindow returns the first and last visible indices, -1 when none.
func findVisibleWindow(visibles []int) (int, int) {
	first, last := -1, -1
	for i, v := range visibles {
		if v >= 0 {
			if first == -1 {
				first = i
			}
			last = i
		}
	}
	return first, last
}
