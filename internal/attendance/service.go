package attendance

import (
	"context"
	"errors"
	"time"
)

// Manual marking always writes, whatever the verification machinery
// would have said. It is the only source of EXCUSED records and of
// guaranteed-write ABSENT records.

// Service handles the faculty-driven marking path.
type Service struct {
	ledger Ledger
	now    func() time.Time
}

// NewService creates a service backed by a ledger.
func NewService(ledger Ledger) *Service {
	return &Service{ledger: ledger, now: time.Now}
}

// MarkManual upserts a record with method MANUAL and no geolocation
// claim. Status defaults to PRESENT, date to today.
func (s *Service) MarkManual(ctx context.Context, studentID, courseID string, status Status, date string) (Record, error) {
	if studentID == "" || courseID == "" {
		return Record{}, errors.New("student and course required")
	}
	if status == "" {
		status = StatusPresent
	}
	if !ValidStatus(status) {
		return Record{}, errors.New("unknown status " + string(status))
	}
	now := s.now()
	if date == "" {
		date = DateKey(now)
	}
	return s.ledger.Upsert(ctx, Record{
		StudentID:           studentID,
		CourseID:            courseID,
		Date:                date,
		Timestamp:           now,
		Status:              status,
		Method:              MethodManual,
		GeolocationVerified: false,
	})
}
