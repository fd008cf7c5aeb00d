package roster

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/google/uuid"

	"campusmark/internal/geo"
)

// Repository persists users and courses in Postgres.
type Repository struct {
	db *sql.DB
}

// NewRepository creates a repo.
func NewRepository(db *sql.DB) *Repository {
	return &Repository{db: db}
}

// CreateUser inserts a user, assigning an id when absent.
func (r *Repository) CreateUser(ctx context.Context, u User) (User, error) {
	if u.ID == "" {
		u.ID = uuid.NewString()
	}
	if u.Role == "" {
		u.Role = RoleStudent
	}
	row := r.db.QueryRowContext(ctx, `
		INSERT INTO users (id, name, email, password_hash, role, department, avatar_url, student_no)
		VALUES ($1,$2,$3,$4,$5,$6,$7,$8)
		RETURNING created_at
	`, u.ID, u.Name, u.Email, u.PasswordHash, u.Role, u.Department, u.AvatarURL, u.StudentNo)
	if err := row.Scan(&u.CreatedAt); err != nil {
		return User{}, err
	}
	return u, nil
}

// GetUser returns a user by id, or nil when absent.
func (r *Repository) GetUser(ctx context.Context, id string) (*User, error) {
	return r.scanUser(r.db.QueryRowContext(ctx, `
		SELECT id, name, email, password_hash, role, department, avatar_url, student_no, created_at
		FROM users WHERE id = $1
	`, id))
}

// GetUserByEmail returns a user by email, or nil when absent.
func (r *Repository) GetUserByEmail(ctx context.Context, email string) (*User, error) {
	return r.scanUser(r.db.QueryRowContext(ctx, `
		SELECT id, name, email, password_hash, role, department, avatar_url, student_no, created_at
		FROM users WHERE email = $1
	`, email))
}

func (r *Repository) scanUser(row *sql.Row) (*User, error) {
	var u User
	if err := row.Scan(&u.ID, &u.Name, &u.Email, &u.PasswordHash, &u.Role, &u.Department, &u.AvatarURL, &u.StudentNo, &u.CreatedAt); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}
	return &u, nil
}

// ListStudents returns all users with the STUDENT role.
func (r *Repository) ListStudents(ctx context.Context) ([]User, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT id, name, email, password_hash, role, department, avatar_url, student_no, created_at
		FROM users WHERE role = $1 ORDER BY name
	`, RoleStudent)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var students []User
	for rows.Next() {
		var u User
		if err := rows.Scan(&u.ID, &u.Name, &u.Email, &u.PasswordHash, &u.Role, &u.Department, &u.AvatarURL, &u.StudentNo, &u.CreatedAt); err != nil {
			return nil, err
		}
		students = append(students, u)
	}
	return students, rows.Err()
}

// UpdateAvatar sets a user's avatar URL. Returns false when no such user.
func (r *Repository) UpdateAvatar(ctx context.Context, id, avatarURL string) (bool, error) {
	res, err := r.db.ExecContext(ctx, `UPDATE users SET avatar_url = $2 WHERE id = $1`, id, avatarURL)
	if err != nil {
		return false, err
	}
	n, err := res.RowsAffected()
	return n > 0, err
}

// DeleteUser removes a user. Returns false when no such user.
func (r *Repository) DeleteUser(ctx context.Context, id string) (bool, error) {
	res, err := r.db.ExecContext(ctx, `DELETE FROM users WHERE id = $1`, id)
	if err != nil {
		return false, err
	}
	n, err := res.RowsAffected()
	return n > 0, err
}

// CreateCourse inserts a course with its enrollments.
func (r *Repository) CreateCourse(ctx context.Context, c Course) (Course, error) {
	if c.ID == "" {
		c.ID = uuid.NewString()
	}
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return Course{}, err
	}
	defer tx.Rollback()

	var lat, lng *float64
	if c.Coordinate != nil {
		lat, lng = &c.Coordinate.Lat, &c.Coordinate.Lng
	}
	row := tx.QueryRowContext(ctx, `
		INSERT INTO courses (id, name, code, faculty_id, start_time, end_time, room, lat, lng)
		VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9)
		RETURNING created_at
	`, c.ID, c.Name, c.Code, c.FacultyID, c.StartTime, c.EndTime, c.Room, lat, lng)
	if err := row.Scan(&c.CreatedAt); err != nil {
		return Course{}, err
	}
	for _, sid := range c.StudentIDs {
		if _, err := tx.ExecContext(ctx, `
			INSERT INTO course_students (course_id, student_id)
			VALUES ($1, $2) ON CONFLICT DO NOTHING
		`, c.ID, sid); err != nil {
			return Course{}, err
		}
	}
	if err := tx.Commit(); err != nil {
		return Course{}, err
	}
	return c, nil
}

// GetCourse returns a course with its enrollments, or nil when absent.
func (r *Repository) GetCourse(ctx context.Context, id string) (*Course, error) {
	row := r.db.QueryRowContext(ctx, `
		SELECT id, name, code, faculty_id, start_time, end_time, room, lat, lng, created_at
		FROM courses WHERE id = $1
	`, id)
	c, err := scanCourse(row)
	if err != nil || c == nil {
		return c, err
	}
	c.StudentIDs, err = r.courseStudents(ctx, c.ID)
	return c, err
}

func scanCourse(row *sql.Row) (*Course, error) {
	var c Course
	var lat, lng *float64
	if err := row.Scan(&c.ID, &c.Name, &c.Code, &c.FacultyID, &c.StartTime, &c.EndTime, &c.Room, &lat, &lng, &c.CreatedAt); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}
	if lat != nil && lng != nil {
		c.Coordinate = &geo.Coordinate{Lat: *lat, Lng: *lng}
	}
	return &c, nil
}

func (r *Repository) courseStudents(ctx context.Context, courseID string) ([]string, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT student_id FROM course_students WHERE course_id = $1
	`, courseID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var ids []string
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			return nil, err
		}
		ids = append(ids, id)
	}
	return ids, rows.Err()
}

// ListCourses returns all courses; facultyID narrows to one teacher when set.
func (r *Repository) ListCourses(ctx context.Context, facultyID string) ([]Course, error) {
	query := `
		SELECT id, name, code, faculty_id, start_time, end_time, room, lat, lng, created_at
		FROM courses`
	args := []any{}
	if facultyID != "" {
		query += ` WHERE faculty_id = $1`
		args = append(args, facultyID)
	}
	query += ` ORDER BY code`

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var courses []Course
	for rows.Next() {
		var c Course
		var lat, lng *float64
		if err := rows.Scan(&c.ID, &c.Name, &c.Code, &c.FacultyID, &c.StartTime, &c.EndTime, &c.Room, &lat, &lng, &c.CreatedAt); err != nil {
			return nil, err
		}
		if lat != nil && lng != nil {
			c.Coordinate = &geo.Coordinate{Lat: *lat, Lng: *lng}
		}
		courses = append(courses, c)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	for i := range courses {
		courses[i].StudentIDs, err = r.courseStudents(ctx, courses[i].ID)
		if err != nil {
			return nil, err
		}
	}
	return courses, nil
}

// UpdateCourse replaces the mutable fields of a course. Returns false
// when no such course.
func (r *Repository) UpdateCourse(ctx context.Context, c Course) (bool, error) {
	var lat, lng *float64
	if c.Coordinate != nil {
		lat, lng = &c.Coordinate.Lat, &c.Coordinate.Lng
	}
	res, err := r.db.ExecContext(ctx, `
		UPDATE courses
		SET name = $2, code = $3, start_time = $4, end_time = $5, room = $6, lat = $7, lng = $8
		WHERE id = $1
	`, c.ID, c.Name, c.Code, c.StartTime, c.EndTime, c.Room, lat, lng)
	if err != nil {
		return false, err
	}
	n, err := res.RowsAffected()
	return n > 0, err
}

// AddStudent enrolls a student in a course, idempotently.
func (r *Repository) AddStudent(ctx context.Context, courseID, studentID string) error {
	_, err := r.db.ExecContext(ctx, `
		INSERT INTO course_students (course_id, student_id)
		VALUES ($1, $2) ON CONFLICT DO NOTHING
	`, courseID, studentID)
	return err
}

// DeleteCourse removes a course and its enrollments. Returns false when
// no such course.
func (r *Repository) DeleteCourse(ctx context.Context, id string) (bool, error) {
	res, err := r.db.ExecContext(ctx, `DELETE FROM courses WHERE id = $1`, id)
	if err != nil {
		return false, err
	}
	n, err := res.RowsAffected()
	return n > 0, err
}

// Touch is a connectivity probe used by the health endpoint.
func (r *Repository) Touch(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, 2*time.Second)
	defer cancel()
	return r.db.PingContext(ctx)
}
