package keypoints

import "fmt"

// Keypoint is one selectable annotation target.
type Keypoint struct {
	Label string
	ID    string // individual; empty for single-animal projects
}

// Store tracks the ordered keypoint list of a session and which keypoint
// and frame step are currently selected. It is single-goroutine state
// driven by the UI event loop.
type Store struct {
	keypoints []Keypoint
	current   int
	steps     int
	step      int
}

// NewStore derives the keypoint list from the header's individual/bodypart
// pairs. steps is the number of frames in the session.
func NewStore(h *Header, steps int) *Store {
	var kps []Keypoint
	for _, p := range h.IndividualBodypartPairs() {
		kps = append(kps, Keypoint{Label: p.Bodypart, ID: p.Individual})
	}
	if steps < 1 {
		steps = 1
	}
	return &Store{keypoints: kps, steps: steps}
}

// Keypoints returns the ordered keypoint list.
func (s *Store) Keypoints() []Keypoint { return s.keypoints }

// Labels returns the keypoint labels in order, deduplicated.
func (s *Store) Labels() []string {
	labels := make([]string, len(s.keypoints))
	for i, kp := range s.keypoints {
		labels[i] = kp.Label
	}
	return UnsortedUnique(labels)
}

// Current returns the selected keypoint.
func (s *Store) Current() Keypoint {
	if len(s.keypoints) == 0 {
		return Keypoint{}
	}
	return s.keypoints[s.current]
}

// SetCurrent selects kp. Unknown keypoints are an error.
func (s *Store) SetCurrent(kp Keypoint) error {
	for i, k := range s.keypoints {
		if k == kp {
			s.current = i
			return nil
		}
	}
	return fmt.Errorf("keypoints: unknown keypoint %+v", kp)
}

// Next advances to the following keypoint; at the end of the list it is a
// no-op.
func (s *Store) Next() {
	if s.current+1 < len(s.keypoints) {
		s.current++
	}
}

// Prev retreats to the preceding keypoint; at the start of the list it is a
// no-op.
func (s *Store) Prev() {
	if s.current > 0 {
		s.current--
	}
}

// Step returns the current frame step.
func (s *Store) Step() int { return s.step }

// Steps returns the total number of frame steps.
func (s *Store) Steps() int { return s.steps }

// SetStep jumps to step n, clamped into [0, Steps-1].
func (s *Store) SetStep(n int) {
	if n < 0 {
		n = 0
	}
	if n >= s.steps {
		n = s.steps - 1
	}
	s.step = n
}

// AdvanceStep moves to the next frame step, wrapping past the last one.
func (s *Store) AdvanceStep() {
	s.step = (s.step + 1) % s.steps
}

// FirstUnlabeledFrame returns the lowest step with no annotation in
// annotated, or the last step when every frame is annotated.
func (s *Store) FirstUnlabeledFrame(annotated map[int]bool) int {
	for i := 0; i < s.steps; i++ {
		if !annotated[i] {
			return i
		}
	}
	return s.steps - 1
}
