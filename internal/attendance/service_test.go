package attendance

import (
	"context"
	"testing"
	"time"
)

func fixedService(ledger Ledger) *Service {
	s := NewService(ledger)
	s.now = func() time.Time { return time.Date(2026, 3, 9, 10, 0, 0, 0, time.UTC) }
	return s
}

func TestMarkManualAlwaysWrites(t *testing.T) {
	ledger := newMemLedger()
	s := fixedService(ledger)

	rec, err := s.MarkManual(context.Background(), "stu-1", "crs-1", StatusExcused, "")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if rec.Status != StatusExcused {
		t.Fatalf("expected EXCUSED, got %s", rec.Status)
	}
	if rec.Method != MethodManual {
		t.Fatalf("expected MANUAL method, got %s", rec.Method)
	}
	if rec.GeolocationVerified {
		t.Fatal("manual marks never claim geolocation")
	}
	if rec.Date != "2026-03-09" {
		t.Fatalf("expected today's date key, got %s", rec.Date)
	}
	if len(ledger.records) != 1 {
		t.Fatalf("expected one stored record, got %d", len(ledger.records))
	}
}

func TestMarkManualDefaultsToPresent(t *testing.T) {
	s := fixedService(newMemLedger())
	rec, err := s.MarkManual(context.Background(), "stu-1", "crs-1", "", "2026-03-01")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if rec.Status != StatusPresent {
		t.Fatalf("expected default PRESENT, got %s", rec.Status)
	}
	if rec.Date != "2026-03-01" {
		t.Fatalf("expected explicit date kept, got %s", rec.Date)
	}
}

func TestMarkManualValidation(t *testing.T) {
	s := fixedService(newMemLedger())
	if _, err := s.MarkManual(context.Background(), "", "crs-1", StatusPresent, ""); err == nil {
		t.Fatal("expected error for missing student")
	}
	if _, err := s.MarkManual(context.Background(), "stu-1", "crs-1", "SLEEPING", ""); err == nil {
		t.Fatal("expected error for unknown status")
	}
}

func TestMarkManualOverwritesAutomatedMark(t *testing.T) {
	ledger := newMemLedger()
	s := fixedService(ledger)

	key := [3]string{"stu-1", "crs-1", "2026-03-09"}
	ledger.records[key] = Record{StudentID: "stu-1", CourseID: "crs-1", Date: "2026-03-09", Status: StatusLate, Method: MethodAIFace}

	if _, err := s.MarkManual(context.Background(), "stu-1", "crs-1", StatusExcused, "2026-03-09"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	rec := ledger.records[key]
	if rec.Status != StatusExcused || rec.Method != MethodManual {
		t.Fatalf("expected manual mark to replace automated one, got %+v", rec)
	}
	if len(ledger.records) != 1 {
		t.Fatalf("expected one record, got %d", len(ledger.records))
	}
}
