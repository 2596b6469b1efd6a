package models

import "time"

const (
	FirestoreUserProfilesCollection = "user_profiles"
)

type Role string

const (
	RoleStudent  Role = "STUDENT"
	RoleEducator Role = "EDUCATOR"
	RoleAdmin    Role = "ADMIN"
)

type NotificationType string

const (
	NotificationEnrollmentApproved NotificationType = "ENROLLMENT_APPROVED"
	NotificationEnrollmentAdded    NotificationType = "ENROLLMENT_ADDED"
)

// Profile is a collection of standard profile information for a user.
// This struct separates client-safe profile information from internal user metadata.
type Profile struct {
	DisplayName string `json:"displayName" mapstructure:"displayName"`
	Email       string `json:"email" mapstructure:"email"`
	PhotoURL    string `json:"photoUrl,omitempty" mapstructure:"photoUrl"`
	Role        Role   `json:"role" mapstructure:"role"`
	// EnrolledCourseIDs is a denormalized cache of the courses this user is
	// enrolled in. It must always mirror the set of this user's enrollment
	// records with status ENROLLED, and is only written by enrollment
	// operations.
	EnrolledCourseIDs []string       `json:"enrolledCourseIds" mapstructure:"enrolledCourseIds"`
	LearningPathTags  []string       `json:"learningPathTags" mapstructure:"learningPathTags"`
	Notifications     []Notification `json:"notifications" mapstructure:"notifications"`
}

// User represents a registered user.
type User struct {
	*Profile
	ID                 string `json:"id" mapstructure:"id"`
	Disabled           bool
	CreationTimestamp  int64
	LastLogInTimestamp int64
}

// Notification is an embedded per-user record created as a side effect of an
// enrollment transition, never independently.
type Notification struct {
	ID        string           `json:"id" mapstructure:"id"`
	Title     string           `json:"title" mapstructure:"title"`
	CourseID  string           `json:"courseId" mapstructure:"courseId"`
	Timestamp time.Time        `json:"timestamp" mapstructure:"timestamp"`
	Type      NotificationType `json:"type" mapstructure:"type"`
}

// CreateUserRequest is the parameter struct for the CreateUser function.
type CreateUserRequest struct {
	Email       string `json:"email" validate:"required,email"`
	Password    string `json:"password" validate:"required,min=6"`
	DisplayName string `json:"displayName" validate:"required"`
	Role        Role   `json:"role"`
}

// UpdateUserRequest is the parameter struct for the UpdateUser function.
type UpdateUserRequest struct {
	// Will be set from context
	UserID           string   `json:",omitempty"`
	DisplayName      string   `json:"displayName" validate:"required"`
	LearningPathTags []string `json:"learningPathTags"`
}

// ClearNotificationRequest is the parameter struct for the ClearNotification function.
type ClearNotificationRequest struct {
	UserID         string `json:",omitempty"`
	NotificationID string `json:"notificationId" validate:"required"`
}

// ClearAllNotificationsRequest is the parameter struct for the ClearAllNotifications function.
type ClearAllNotificationsRequest struct {
	UserID string `json:",omitempty"`
}
