package ui

import (
	"image/color"

	colorful "github.com/lucasb-eyer/go-colorful"
	"gonum.org/v1/gonum/floats"
)

// viridis anchor points, blended through for intermediate stops.
var cycleAnchors = []string{"#440154", "#3B528B", "#21918C", "#5EC962", "#FDE725"}

// ColorCycle returns n perceptually spaced colors for distinguishing
// keypoints, sampled evenly along a viridis-style gradient.
func ColorCycle(n int) []color.Color {
	if n <= 0 {
		return nil
	}

	anchors := make([]colorful.Color, len(cycleAnchors))
	for i, hx := range cycleAnchors {
		anchors[i], _ = colorful.Hex(hx)
	}

	if n == 1 {
		return []color.Color{anchors[0]}
	}

	positions := make([]float64, n)
	floats.Span(positions, 0, 1)

	out := make([]color.Color, n)
	segments := len(anchors) - 1
	for i, p := range positions {
		seg := int(p * float64(segments))
		if seg >= segments {
			seg = segments - 1
		}
		frac := p*float64(segments) - float64(seg)
		out[i] = anchors[seg].BlendLuv(anchors[seg+1], frac).Clamped()
	}
	return out
}
