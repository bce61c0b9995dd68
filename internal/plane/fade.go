package plane

import "github.com/chewxy/math32"

// Depth fade band, in world units of |planeZ - cameraZ|.
const (
	DepthFadeStart = 140
	DepthFadeEnd   = 260
)

// GridFade returns the opacity factor for a plane whose chunk is dist chunks (Chebyshev) from the
// camera chunk: 1 up to renderDistance, then a linear ramp across the margin band that reaches 0
// on the outermost mounted ring, so chunks are invisible by the time they unmount.
func GridFade(dist, renderDistance, margin int) float32 {
	if dist <= renderDistance {
		return 1
	}
	if margin <= 0 {
		return 0
	}
	f := 1 - float32(dist-renderDistance)/float32(margin)
	return clamp01(f)
}

// DepthFade returns 1 while |depth| <= DepthFadeStart, falling linearly to 0 at DepthFadeEnd.
func DepthFade(depth float32) float32 {
	d := math32.Abs(depth)
	if d <= DepthFadeStart {
		return 1
	}
	if d >= DepthFadeEnd {
		return 0
	}
	return clamp01(1 - (d-DepthFadeStart)/(DepthFadeEnd-DepthFadeStart))
}

// TargetOpacity combines both fades; the depth term is squared for a faster falloff.
func TargetOpacity(gridFade, depthFade float32) float32 {
	return math32.Min(gridFade, depthFade*depthFade)
}

func clamp01(v float32) float32 {
	return math32.Max(0, math32.Min(1, v))
}

func lerp(a, b, t float32) float32 {
	return a + (b-a)*t
}
