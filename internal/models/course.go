package models

import "time"

var (
	FirestoreCoursesCollection = "courses"
	FirestoreModulesCollection = "modules"
	FirestoreLessonsCollection = "lessons"
)

type Course struct {
	ID          string   `json:"id" mapstructure:"id"`
	Title       string   `json:"title" mapstructure:"title"`
	Description string   `json:"description" mapstructure:"description"`
	Tags        []string `json:"tags" mapstructure:"tags"`
	// InstructorIDs is the set of educators who own this course.
	InstructorIDs []string `json:"instructorIds" mapstructure:"instructorIds"`
	// IsDeleted tombstones the course. Tombstoned courses are invisible to
	// reads; their children are garbage-collected by the background reaper.
	IsDeleted bool      `json:"isDeleted" mapstructure:"isDeleted"`
	CreatedAt time.Time `json:"createdAt" mapstructure:"createdAt"`
}

// Module is an ordered unit of course content. Ordering is by creation time.
type Module struct {
	ID        string    `json:"id" mapstructure:"id"`
	Title     string    `json:"title" mapstructure:"title"`
	CreatedAt time.Time `json:"createdAt" mapstructure:"createdAt"`
}

// Lesson belongs to a module and optionally owns one active quiz.
type Lesson struct {
	ID        string    `json:"id" mapstructure:"id"`
	ModuleID  string    `json:"moduleId" mapstructure:"moduleId"`
	Title     string    `json:"title" mapstructure:"title"`
	QuizID    string    `json:"quizId,omitempty" mapstructure:"quizId"`
	CreatedAt time.Time `json:"createdAt" mapstructure:"createdAt"`
}

type GetCourseRequest struct {
	CourseID string `json:"courseID"`
}

type CreateCourseRequest struct {
	Title       string   `json:"title" validate:"required"`
	Description string   `json:"description"`
	Tags        []string `json:"tags"`
	CreatedBy   *User    `json:",omitempty"`
}

type EditCourseRequest struct {
	CourseID    string   `json:"courseID"`
	Title       string   `json:"title" validate:"required"`
	Description string   `json:"description"`
	Tags        []string `json:"tags"`
}

type DeleteCourseRequest struct {
	CourseID string `json:"courseID"`
}

type AddInstructorRequest struct {
	CourseID string `json:"courseID"`
	Email    string `json:"email" validate:"required,email"`
}

type RemoveInstructorRequest struct {
	CourseID string `json:"courseID"`
	UserID   string `json:"userID" validate:"required"`
}

// CreateModuleRequest is the parameter struct to the CreateModule function.
type CreateModuleRequest struct {
	CourseID string `json:"courseID"`
	Title    string `json:"title" validate:"required"`
}

// CreateLessonRequest is the parameter struct to the CreateLesson function.
type CreateLessonRequest struct {
	CourseID string `json:"courseID"`
	ModuleID string `json:"moduleID" validate:"required"`
	Title    string `json:"title" validate:"required"`
}

// EditLessonRequest is the parameter struct to the EditLesson function.
type EditLessonRequest struct {
	CourseID string `json:"courseID"`
	LessonID string `json:"lessonID"`
	Title    string `json:"title" validate:"required"`
}

// DeleteLessonRequest is the parameter struct to the DeleteLesson function.
type DeleteLessonRequest struct {
	CourseID string `json:"courseID"`
	LessonID string `json:"lessonID"`
}
