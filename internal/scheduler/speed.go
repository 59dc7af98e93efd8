package scheduler

import "math"

// Speed limits.
const (
	RampStartWPM = 200
	FloorWPM     = 50
	MaxWPM       = 1500

	firstStageWords  = 20
	firstStageWPM    = 250
	secondStageWords = 50
	secondStageWPM   = 350
	rampIncrement    = 5
)

// speed is the current/target WPM pair. current approaches target from
// below through staged ramp steps and drops to target immediately.
type speed struct {
	current float64
	target  float64
	ramped  int
}

func (s *speed) reset() {
	s.current = RampStartWPM
	s.ramped = 0
}

// step advances the ramp by one displayed word. It reports whether current
// had to be recovered from an invalid value.
func (s *speed) step() bool {
	if !validWPM(s.current) {
		s.current = RampStartWPM
		s.ramped++
		return true
	}
	switch {
	case s.current < s.target:
		next := s.current + rampIncrement
		switch {
		case s.ramped < firstStageWords:
			next = firstStageWPM
		case s.ramped < secondStageWords:
			next = secondStageWPM
		}
		if next < s.current {
			next = s.current
		}
		if next >= s.target {
			next = s.target
		}
		s.current = next
	case s.current > s.target:
		s.current = s.target
	}
	s.ramped++
	if !validWPM(s.current) {
		s.current = RampStartWPM
		return true
	}
	return false
}

func validWPM(v float64) bool {
	return !math.IsNaN(v) && !math.IsInf(v, 0) && v >= FloorWPM
}

// clampTarget maps any requested target onto [FloorWPM, MaxWPM].
func clampTarget(v float64, fallback float64) float64 {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return fallback
	}
	if v < FloorWPM {
		return FloorWPM
	}
	if v > MaxWPM {
		return MaxWPM
	}
	return math.Round(v)
}
