package attendance

import (
	"fmt"
	"time"

	"campusmark/internal/verify"
)

// Classifier decides PRESENT, LATE, or ABSENT from a verification
// verdict and the course's scheduled start.
type Classifier struct {
	// ConfidenceFloor is the acceptance floor: a verdict at or below it
	// is ABSENT even when the model says verified.
	ConfidenceFloor float64
	// LateAfter is the grace period past scheduled start. Arriving
	// exactly at the limit still counts as PRESENT.
	LateAfter time.Duration
}

// NewClassifier returns a classifier with the standard campus policy:
// 0.6 confidence floor, 15 minute grace period.
func NewClassifier() Classifier {
	return Classifier{ConfidenceFloor: 0.6, LateAfter: 15 * time.Minute}
}

// Classify never yields EXCUSED; that only comes from manual marking.
func (c Classifier) Classify(v verify.Verdict, scheduledStart string, now time.Time) Status {
	if !v.Verified || v.Confidence <= c.ConfidenceFloor {
		return StatusAbsent
	}

	start, err := startOfClass(scheduledStart, now)
	if err != nil {
		// An unparseable schedule cannot make a verified student late.
		return StatusPresent
	}

	// Negative when checking in before class starts; that is PRESENT too.
	if now.Sub(start) > c.LateAfter {
		return StatusLate
	}
	return StatusPresent
}

// startOfClass places the "HH:MM" wall-clock start on now's calendar day,
// in now's location.
func startOfClass(scheduledStart string, now time.Time) (time.Time, error) {
	var hour, min int
	if _, err := fmt.Sscanf(scheduledStart, "%d:%d", &hour, &min); err != nil {
		return time.Time{}, fmt.Errorf("bad start time %q: %w", scheduledStart, err)
	}
	if hour < 0 || hour > 23 || min < 0 || min > 59 {
		return time.Time{}, fmt.Errorf("bad start time %q", scheduledStart)
	}
	return time.Date(now.Year(), now.Month(), now.Day(), hour, min, 0, 0, now.Location()), nil
}
