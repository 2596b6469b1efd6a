package repository

import (
	"context"

	"coursehub/internal/firebase"
	"coursehub/internal/models"
	"coursehub/internal/progress"
	"coursehub/internal/qerrors"

	"cloud.google.com/go/firestore"
	"github.com/mitchellh/mapstructure"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
)

// MarkLessonComplete inserts a lesson into the student's completed set. Safe
// to call twice: the insert is a set operation. A lesson with a quiz requires
// at least one attempt before it can be completed; the score never gates.
func (fr *FirebaseRepository) MarkLessonComplete(req *models.MarkLessonCompleteRequest) error {
	lesson, err := fr.GetLesson(req.CourseID, req.LessonID)
	if err != nil {
		return err
	}

	var latestAttempt *models.QuizAttempt
	if lesson.QuizID != "" {
		latestAttempt, err = fr.GetLatestAttempt(lesson.QuizID, req.StudentID)
		if err != nil {
			return err
		}
	}
	if !progress.CanMarkComplete(lesson, latestAttempt) {
		return qerrors.LessonIncompleteError
	}

	enrollRef := fr.enrollmentRef(req.CourseID, req.StudentID)
	err = fr.firestoreClient.RunTransaction(firebase.Context, func(ctx context.Context, tx *firestore.Transaction) error {
		doc, err := tx.Get(enrollRef)
		if err != nil {
			if status.Code(err) == codes.NotFound {
				return qerrors.EnrollmentNotFoundError
			}
			return err
		}

		var record models.EnrollmentRecord
		if err := mapstructure.Decode(doc.Data(), &record); err != nil {
			return err
		}
		if record.Status != models.EnrollmentEnrolled {
			return qerrors.PermissionDeniedError
		}

		return tx.Update(enrollRef, []firestore.Update{
			{Path: "completedLessonIds", Value: progress.MarkComplete(record.CompletedLessonIDs, req.LessonID)},
			{Path: "lastAccessedAt", Value: firestore.ServerTimestamp},
		})
	})

	return commitError(err)
}

// CourseProgress computes a student's percent-complete for a course from
// their enrollment record and the course's live lesson count.
func (fr *FirebaseRepository) CourseProgress(courseID string, studentID string) (int, error) {
	if _, err := fr.GetCourseByID(courseID); err != nil {
		return 0, err
	}

	record, err := fr.GetEnrollment(courseID, studentID)
	if err != nil {
		return 0, err
	}

	totalLessons, err := fr.countLessons(courseID)
	if err != nil {
		return 0, err
	}

	return progress.PercentComplete(totalLessons, record.CompletedLessonIDs), nil
}
