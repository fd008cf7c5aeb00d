package attendance

import (
	"context"
	"database/sql"
	"fmt"
	"time"
)

// Repository persists attendance records in Postgres. It is the
// production Ledger.
type Repository struct {
	db *sql.DB
}

// NewRepository creates a repo.
func NewRepository(db *sql.DB) *Repository {
	return &Repository{db: db}
}

// Upsert writes a record, replacing any existing one for the same
// (student, course, date). Last write wins; the conflict path is a
// single atomic statement, not read-then-write.
func (r *Repository) Upsert(ctx context.Context, rec Record) (Record, error) {
	_, err := r.db.ExecContext(ctx, `
		INSERT INTO attendance_records
			(student_id, course_id, date, occurred_at, status, method, geolocation_verified, confidence_score)
		VALUES ($1,$2,$3,$4,$5,$6,$7,$8)
		ON CONFLICT (student_id, course_id, date) DO UPDATE SET
			occurred_at = EXCLUDED.occurred_at,
			status = EXCLUDED.status,
			method = EXCLUDED.method,
			geolocation_verified = EXCLUDED.geolocation_verified,
			confidence_score = EXCLUDED.confidence_score
	`, rec.StudentID, rec.CourseID, rec.Date, rec.Timestamp, rec.Status, rec.Method, rec.GeolocationVerified, rec.ConfidenceScore)
	if err != nil {
		return Record{}, fmt.Errorf("upsert attendance: %w", err)
	}
	return rec, nil
}

// ListByCourse returns a course's records, newest first; date narrows to
// one day when set.
func (r *Repository) ListByCourse(ctx context.Context, courseID, date string) ([]Record, error) {
	query := `
		SELECT student_id, course_id, date, occurred_at, status, method, geolocation_verified, confidence_score
		FROM attendance_records WHERE course_id = $1`
	args := []any{courseID}
	if date != "" {
		query += ` AND date = $2`
		args = append(args, date)
	}
	query += ` ORDER BY occurred_at DESC`
	return r.list(ctx, query, args...)
}

// ListByStudent returns a student's records across courses, newest day first.
func (r *Repository) ListByStudent(ctx context.Context, studentID string) ([]Record, error) {
	return r.list(ctx, `
		SELECT student_id, course_id, date, occurred_at, status, method, geolocation_verified, confidence_score
		FROM attendance_records WHERE student_id = $1
		ORDER BY date DESC
	`, studentID)
}

func (r *Repository) list(ctx context.Context, query string, args ...any) ([]Record, error) {
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var records []Record
	for rows.Next() {
		var rec Record
		if err := rows.Scan(&rec.StudentID, &rec.CourseID, &rec.Date, &rec.Timestamp, &rec.Status, &rec.Method, &rec.GeolocationVerified, &rec.ConfidenceScore); err != nil {
			return nil, err
		}
		records = append(records, rec)
	}
	return records, rows.Err()
}

// CourseStats summarizes one course's ledger.
type CourseStats struct {
	StatusBreakdown map[Status]int `json:"statusBreakdown"`
	TotalRecords    int            `json:"totalRecords"`
	TotalSessions   int            `json:"totalSessions"`
}

// Stats returns the status breakdown, record count, and number of
// distinct session days for a course.
func (r *Repository) Stats(ctx context.Context, courseID string) (CourseStats, error) {
	stats := CourseStats{StatusBreakdown: map[Status]int{}}

	rows, err := r.db.QueryContext(ctx, `
		SELECT status, COUNT(*) FROM attendance_records
		WHERE course_id = $1 GROUP BY status
	`, courseID)
	if err != nil {
		return stats, err
	}
	defer rows.Close()
	for rows.Next() {
		var s Status
		var n int
		if err := rows.Scan(&s, &n); err != nil {
			return stats, err
		}
		stats.StatusBreakdown[s] = n
		stats.TotalRecords += n
	}
	if err := rows.Err(); err != nil {
		return stats, err
	}

	err = r.db.QueryRowContext(ctx, `
		SELECT COUNT(DISTINCT date) FROM attendance_records WHERE course_id = $1
	`, courseID).Scan(&stats.TotalSessions)
	return stats, err
}

// DashboardStats summarizes today and the trailing week across courses.
type DashboardStats struct {
	Today struct {
		Present int `json:"present"`
		Late    int `json:"late"`
		Total   int `json:"total"`
	} `json:"today"`
	WeeklyRate      float64 `json:"weeklyRate"`
	DefaultersCount int     `json:"defaultersCount"`
}

// Dashboard computes today's counts, the weekly attended rate (PRESENT
// and LATE both count as attended), and how many students sit below a
// 75% attendance rate overall.
func (r *Repository) Dashboard(ctx context.Context, now time.Time) (DashboardStats, error) {
	var stats DashboardStats
	today := DateKey(now)
	weekAgo := DateKey(now.AddDate(0, 0, -7))

	err := r.db.QueryRowContext(ctx, `
		SELECT
			COUNT(*) FILTER (WHERE status = 'PRESENT'),
			COUNT(*) FILTER (WHERE status = 'LATE'),
			COUNT(*)
		FROM attendance_records WHERE date = $1
	`, today).Scan(&stats.Today.Present, &stats.Today.Late, &stats.Today.Total)
	if err != nil {
		return stats, err
	}

	var weeklyTotal, weeklyAttended int
	err = r.db.QueryRowContext(ctx, `
		SELECT COUNT(*), COUNT(*) FILTER (WHERE status IN ('PRESENT', 'LATE'))
		FROM attendance_records WHERE date >= $1
	`, weekAgo).Scan(&weeklyTotal, &weeklyAttended)
	if err != nil {
		return stats, err
	}
	if weeklyTotal > 0 {
		stats.WeeklyRate = float64(weeklyAttended) / float64(weeklyTotal) * 100
	}

	err = r.db.QueryRowContext(ctx, `
		SELECT COUNT(*) FROM (
			SELECT student_id
			FROM attendance_records
			GROUP BY student_id
			HAVING COUNT(*) FILTER (WHERE status IN ('PRESENT', 'LATE'))::float / COUNT(*) * 100 < 75
		) defaulters
	`).Scan(&stats.DefaultersCount)
	return stats, err
}
