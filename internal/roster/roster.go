// Package roster holds the people and courses the attendance service
// operates on.
package roster

import (
	"time"

	"campusmark/internal/geo"
)

// Roles assignable to a user.
const (
	RoleStudent = "STUDENT"
	RoleFaculty = "FACULTY"
	RoleAdmin   = "ADMIN"
)

// User is a student, faculty member, or admin.
type User struct {
	ID           string    `json:"id"`
	Name         string    `json:"name"`
	Email        string    `json:"email"`
	PasswordHash string    `json:"-"`
	Role         string    `json:"role"`
	Department   string    `json:"department"`
	AvatarURL    *string   `json:"avatarUrl,omitempty"`
	StudentNo    *string   `json:"studentId,omitempty"`
	CreatedAt    time.Time `json:"createdAt"`
}

// Course is a scheduled class with a registered room location.
// StartTime and EndTime are "HH:MM" local wall-clock strings.
type Course struct {
	ID         string          `json:"id"`
	Name       string          `json:"name"`
	Code       string          `json:"code"`
	FacultyID  string          `json:"facultyId"`
	StartTime  string          `json:"startTime"`
	EndTime    string          `json:"endTime"`
	Room       string          `json:"room"`
	Coordinate *geo.Coordinate `json:"coordinates,omitempty"`
	StudentIDs []string        `json:"students"`
	CreatedAt  time.Time       `json:"createdAt"`
}
