package attendance

import (
	"testing"
	"time"

	"campusmark/internal/verify"
)

func at(hour, min int) time.Time {
	return time.Date(2026, 3, 9, hour, min, 0, 0, time.UTC)
}

func TestClassifyTiming(t *testing.T) {
	c := NewClassifier()
	good := verify.Verdict{Verified: true, Confidence: 0.85}

	cases := []struct {
		name string
		now  time.Time
		want Status
	}{
		{"ten minutes late", at(9, 10), StatusPresent},
		{"exactly at grace limit", at(9, 15), StatusPresent},
		{"twenty minutes late", at(9, 20), StatusLate},
		{"before class starts", at(8, 45), StatusPresent},
		{"on the dot", at(9, 0), StatusPresent},
	}
	for _, tc := range cases {
		if got := c.Classify(good, "09:00", tc.now); got != tc.want {
			t.Errorf("%s: expected %s, got %s", tc.name, tc.want, got)
		}
	}
}

func TestClassifyRejectsWeakVerdicts(t *testing.T) {
	c := NewClassifier()

	cases := []struct {
		name    string
		verdict verify.Verdict
	}{
		{"not verified", verify.Verdict{Verified: false, Confidence: 0.9}},
		{"confidence below floor", verify.Verdict{Verified: true, Confidence: 0.5}},
		{"confidence exactly at floor", verify.Verdict{Verified: true, Confidence: 0.6}},
		{"zero confidence", verify.Verdict{Verified: true, Confidence: 0}},
	}
	for _, tc := range cases {
		// Timing must be irrelevant for a rejected verdict.
		for _, now := range []time.Time{at(9, 0), at(9, 30), at(8, 0)} {
			if got := c.Classify(tc.verdict, "09:00", now); got != StatusAbsent {
				t.Errorf("%s at %s: expected ABSENT, got %s", tc.name, now.Format("15:04"), got)
			}
		}
	}
}

func TestClassifyConfigurableThresholds(t *testing.T) {
	c := Classifier{ConfidenceFloor: 0.8, LateAfter: 5 * time.Minute}

	if got := c.Classify(verify.Verdict{Verified: true, Confidence: 0.75}, "09:00", at(9, 0)); got != StatusAbsent {
		t.Fatalf("expected raised floor to reject 0.75, got %s", got)
	}
	if got := c.Classify(verify.Verdict{Verified: true, Confidence: 0.9}, "09:00", at(9, 10)); got != StatusLate {
		t.Fatalf("expected tighter grace period to flag LATE, got %s", got)
	}
}

func TestClassifyBadStartTime(t *testing.T) {
	c := NewClassifier()
	good := verify.Verdict{Verified: true, Confidence: 0.9}

	// A broken schedule must not punish a verified student.
	if got := c.Classify(good, "morning", at(14, 0)); got != StatusPresent {
		t.Fatalf("expected PRESENT on unparseable start, got %s", got)
	}
	if got := c.Classify(good, "25:99", at(14, 0)); got != StatusPresent {
		t.Fatalf("expected PRESENT on out-of-range start, got %s", got)
	}
}

func TestClassifyNeverExcused(t *testing.T) {
	c := NewClassifier()
	for conf := 0.0; conf <= 1.0; conf += 0.1 {
		for _, verified := range []bool{true, false} {
			got := c.Classify(verify.Verdict{Verified: verified, Confidence: conf}, "09:00", at(9, 5))
			if got == StatusExcused {
				t.Fatalf("classifier produced EXCUSED for verified=%v confidence=%g", verified, conf)
			}
		}
	}
}
