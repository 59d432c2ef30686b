package keypoints

import "fmt"

// LabelMode selects how the annotation UI places points.
type LabelMode int

const (
	// Sequential places points in keypoint order, then frame after frame;
	// clicking an already annotated point has no effect.
	Sequential LabelMode = iota
	// Quick is like Sequential, but adding an already annotated point
	// moves it to the cursor location instead.
	Quick
	// Loop places the first keypoint frame by frame, then wraps to the
	// next keypoint and restarts from the first frame.
	Loop

	numLabelModes
)

var labelModeNames = [...]string{"sequential", "quick", "loop"}

// DefaultLabelMode is the mode a fresh session starts in.
func DefaultLabelMode() LabelMode { return Sequential }

// Next returns the mode after m, wrapping past the last one. Cycling is a
// plain modular advance over the member count.
func (m LabelMode) Next() LabelMode {
	return (m + 1) % numLabelModes
}

func (m LabelMode) String() string {
	if m < 0 || m >= numLabelModes {
		return fmt.Sprintf("LabelMode(%d)", int(m))
	}
	return labelModeNames[m]
}

// ParseLabelMode resolves a mode by its name.
func ParseLabelMode(s string) (LabelMode, error) {
	for i, name := range labelModeNames {
		if name == s {
			return LabelMode(i), nil
		}
	}
	return 0, fmt.Errorf("keypoints: unknown label mode %q", s)
}
