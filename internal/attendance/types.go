// Package attendance implements the decision pipeline that turns a raw
// capture event into a canonical attendance record: identity
// verification, geofencing, time-window classification, and the
// idempotent daily upsert.
package attendance

import (
	"time"

	"campusmark/internal/geo"
	"campusmark/internal/verify"
)

// Status of a student for one course on one day.
type Status string

const (
	StatusPresent Status = "PRESENT"
	StatusLate    Status = "LATE"
	StatusAbsent  Status = "ABSENT"
	StatusExcused Status = "EXCUSED"
)

// Method records how a mark was produced. QR exists for legacy records;
// no current entry point emits it.
type Method string

const (
	MethodAIFace Method = "AI_FACE"
	MethodManual Method = "MANUAL"
	MethodQR     Method = "QR"
)

// ValidStatus reports whether s is one of the four known statuses.
func ValidStatus(s Status) bool {
	switch s {
	case StatusPresent, StatusLate, StatusAbsent, StatusExcused:
		return true
	}
	return false
}

// CaptureEvent is one attempt to record presence. It lives for a single
// pipeline invocation and is never persisted.
type CaptureEvent struct {
	StudentID   string
	CourseID    string
	ClaimedName string
	Image       []byte
	Coordinate  *geo.Coordinate
	ObservedAt  time.Time
}

// Record is the persisted attendance outcome, unique per
// (student, course, date). Date is a "YYYY-MM-DD" calendar key so the
// uniqueness constraint stays human-stable across timezones.
type Record struct {
	StudentID           string   `json:"studentId"`
	CourseID            string   `json:"courseId"`
	Date                string   `json:"date"`
	Timestamp           time.Time `json:"timestamp"`
	Status              Status   `json:"status"`
	Method              Method   `json:"verificationMethod"`
	GeolocationVerified bool     `json:"geolocationVerified"`
	ConfidenceScore     *float64 `json:"confidenceScore,omitempty"`
}

// Outcome bundles every signal the pipeline computed so the caller can
// explain the result even when nothing was stored.
type Outcome struct {
	Verification        verify.Verdict `json:"verification"`
	GeolocationVerified bool           `json:"geolocationVerified"`
	Status              Status         `json:"status"`
	Record              *Record        `json:"attendance"`
}

// DateKey formats t as the calendar-day key used in the uniqueness triple.
func DateKey(t time.Time) string {
	return t.Format("2006-01-02")
}
