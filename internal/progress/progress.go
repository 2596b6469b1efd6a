package progress

import (
	"math"

	"coursehub/internal/models"
)

// PercentComplete computes a student's aggregate course progress from their
// completed-lesson set and the course's total lesson count. A course with no
// lessons is 0% complete.
func PercentComplete(totalLessons int, completedLessonIDs []string) int {
	if totalLessons == 0 {
		return 0
	}

	return int(math.Round(100 * float64(len(completedLessonIDs)) / float64(totalLessons)))
}

// CanMarkComplete decides whether a lesson may be marked complete. A lesson
// with no quiz is always markable; a lesson with a quiz requires at least one
// attempt. Score does not gate completion, only attempt existence does.
func CanMarkComplete(lesson *models.Lesson, latestAttempt *models.QuizAttempt) bool {
	if lesson.QuizID == "" {
		return true
	}

	return latestAttempt != nil
}

// MarkComplete inserts a lesson into the completed set. Idempotent: marking
// an already-completed lesson leaves the set unchanged.
func MarkComplete(completedLessonIDs []string, lessonID string) []string {
	for _, id := range completedLessonIDs {
		if id == lessonID {
			return completedLessonIDs
		}
	}

	return append(completedLessonIDs, lessonID)
}
