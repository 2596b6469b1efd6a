package qerrors

import "errors"

var (
	// Course errors
	CourseNotFoundError = errors.New("course not found")
	ModuleNotFoundError = errors.New("module not found")
	LessonNotFoundError = errors.New("lesson not found")

	// User errors
	UserNotFoundError   = errors.New("user not found")
	InvalidEmailError   = errors.New("invalid email address")
	AmbiguousEmailError = errors.New("email matches more than one user")

	// Enrollment errors
	EnrollmentNotFoundError = errors.New("enrollment record not found")
	EnrollmentExistsError   = errors.New("an enrollment record already exists for this student")

	// Quiz errors
	QuizNotFoundError     = errors.New("quiz not found")
	QuizExistsError       = errors.New("lesson already has a quiz")
	QuizLockedError       = errors.New("quiz is locked")
	AttemptLimitError     = errors.New("no attempts remaining for this quiz")
	LessonIncompleteError = errors.New("lesson requires a quiz attempt before completion")

	// Shared errors
	PermissionDeniedError = errors.New("you do not have permission to perform this action")
	ValidationError       = errors.New("the request failed validation")
	UnavailableError      = errors.New("the storage backend failed to commit the write")
)
