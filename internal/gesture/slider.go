package gesture

// CompleteThreshold is the progress a drag must cross before release fires
// the completion request. The friction is deliberate.
const CompleteThreshold = 80.0

// Slider models the swipe-to-complete control: progress follows the pointer
// while dragging, and release either fires (>= threshold) or snaps back.
type Slider struct {
	trackWidth float64
	startX     float64
	dragging   bool
	progress   float64
}

func NewSlider(trackWidth float64) *Slider {
	return &Slider{trackWidth: trackWidth}
}

// Begin starts a drag at the given pointer position.
func (s *Slider) Begin(x float64) {
	s.dragging = true
	s.startX = x
	s.progress = 0
}

// Move updates progress from the current pointer position, clamped to
// [0,100]. Moves outside a drag are ignored.
func (s *Slider) Move(x float64) float64 {
	if !s.dragging || s.trackWidth <= 0 {
		return s.progress
	}
	p := (x - s.startX) / s.trackWidth * 100
	if p < 0 {
		p = 0
	}
	if p > 100 {
		p = 100
	}
	s.progress = p
	return s.progress
}

// Release ends the gesture. It reports true exactly once per gesture when
// the threshold was crossed; either way progress snaps back to 0.
func (s *Slider) Release() bool {
	fire := s.dragging && s.progress >= CompleteThreshold
	s.dragging = false
	s.progress = 0
	return fire
}

func (s *Slider) Progress() float64 {
	return s.progress
}

func (s *Slider) Dragging() bool {
	return s.dragging
}
