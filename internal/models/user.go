package models

import (
	"time"
)

type UserRole string
type Role = UserRole // Alias for compatibility

const (
	RoleStudent UserRole = "student"
	RoleAdmin   UserRole = "admin"
)

// IsValid reports whether the role is one the backend accepts
func (r UserRole) IsValid() bool {
	return r == RoleStudent || r == RoleAdmin
}

type User struct {
	ID       string   `json:"_id"`
	FullName string   `json:"fullName"`
	Email    string   `json:"email"`
	Phone    string   `json:"phone,omitempty"`
	Address  string   `json:"address,omitempty"`
	Role     UserRole `json:"role"`

	// Status
	IsActive bool `json:"isActive"`

	// Only populated for students
	StudentInfo *StudentInfo `json:"studentInfo,omitempty"`

	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt,omitempty"`
}

// StudentInfo is read-only in the console
type StudentInfo struct {
	Interests       []string            `json:"interests"`
	PreferredMajors []string            `json:"preferredMajors"`
	AcademicResults []AcademicResult    `json:"academicResults"`
	TestResults     []StudentTestResult `json:"testResults"`
}

type AcademicResult struct {
	Subject string  `json:"subject"`
	Score   float64 `json:"score"`
	Year    int     `json:"year,omitempty"`
}

type StudentTestResult struct {
	TestID   string    `json:"testId"`
	TestName string    `json:"testName,omitempty"`
	Result   string    `json:"result"`
	TakenAt  time.Time `json:"takenAt"`
}

// AuthResult is the backend answer to a login
type AuthResult struct {
	User        User   `json:"user"`
	AccessToken string `json:"accessToken"`
}
