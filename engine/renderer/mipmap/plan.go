package mipmap

// mipPass describes one level transition (level src -> level src+1):
// the destination level index and its halved extent. Passes are
// ephemeral planning records; they exist only within one Generate call.
type mipPass struct {
	srcLevel uint32
	dstLevel uint32
	width    uint32
	height   uint32
}

// chainPlan computes the sequence of level transitions for a base extent
// and a requested level count. The loop continues while the next level is
// below the requested count AND either axis is still above 1, so
// termination is driven by dimension collapse as well as the level bound,
// whichever is reached first. Each transition halves both axes with floor
// division, clamped to a minimum of 1.
func chainPlan(width, height, levelCount uint32) []mipPass {
	if width == 0 || height == 0 || levelCount <= 1 {
		return nil
	}

	passes := make([]mipPass, 0, levelCount-1)
	level := uint32(0)
	w, h := width, height
	for level+1 < levelCount && (w > 1 || h > 1) {
		w = halve(w)
		h = halve(h)
		passes = append(passes, mipPass{
			srcLevel: level,
			dstLevel: level + 1,
			width:    w,
			height:   h,
		})
		level++
	}
	return passes
}

func halve(dim uint32) uint32 {
	if dim <= 1 {
		return 1
	}
	return dim / 2
}
