package models

import "time"

var (
	FirestoreEnrollmentsCollection = "enrollments"
)

type EnrollmentStatus string

const (
	EnrollmentPending  EnrollmentStatus = "PENDING"
	EnrollmentEnrolled EnrollmentStatus = "ENROLLED"
	EnrollmentRejected EnrollmentStatus = "REJECTED"
)

type EnrollmentDecision string

const (
	DecisionApprove EnrollmentDecision = "APPROVE"
	DecisionReject  EnrollmentDecision = "REJECT"
)

// EnrollmentRecord is the authoritative per-(course, student) membership and
// progress state. Profile.EnrolledCourseIDs is a read-optimized cache of the
// records with status ENROLLED.
type EnrollmentRecord struct {
	CourseID           string           `json:"courseId" mapstructure:"courseId"`
	StudentID          string           `json:"studentId" mapstructure:"studentId"`
	Status             EnrollmentStatus `json:"status" mapstructure:"status"`
	CompletedLessonIDs []string         `json:"completedLessonIds" mapstructure:"completedLessonIds"`
	LastAccessedAt     time.Time        `json:"lastAccessedAt" mapstructure:"lastAccessedAt"`
}

// RequestEnrollmentRequest is the parameter struct to the RequestEnrollment function.
type RequestEnrollmentRequest struct {
	CourseID  string `json:"courseID"`
	StudentID string `json:",omitempty"`
}

// DecideEnrollmentRequest is the parameter struct to the DecideEnrollment function.
type DecideEnrollmentRequest struct {
	CourseID  string             `json:"courseID"`
	StudentID string             `json:"studentID" validate:"required"`
	Decision  EnrollmentDecision `json:"decision" validate:"required"`
}

// DirectEnrollRequest is the parameter struct to the DirectEnroll function.
type DirectEnrollRequest struct {
	CourseID string `json:"courseID"`
	Email    string `json:"email" validate:"required,email"`
}

// RemoveEnrollmentRequest is the parameter struct to the RemoveEnrollment function.
type RemoveEnrollmentRequest struct {
	CourseID  string `json:"courseID"`
	StudentID string `json:"studentID" validate:"required"`
}

// MarkLessonCompleteRequest is the parameter struct to the MarkLessonComplete function.
type MarkLessonCompleteRequest struct {
	CourseID  string `json:"courseID"`
	LessonID  string `json:"lessonID" validate:"required"`
	StudentID string `json:",omitempty"`
}
