package repository

import (
	"context"

	"coursehub/internal/enrollment"
	"coursehub/internal/firebase"
	"coursehub/internal/models"
	"coursehub/internal/qerrors"

	"cloud.google.com/go/firestore"
	"github.com/golang/glog"
	"github.com/mitchellh/mapstructure"
	"google.golang.org/api/iterator"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
)

// Every operation here that touches more than one document runs as exactly
// one Firestore transaction or write batch. The enrollment record is the
// source of truth for membership; Profile.EnrolledCourseIDs is a denormalized
// cache, and the two are only ever written together.

func (fr *FirebaseRepository) enrollmentRef(courseID string, studentID string) *firestore.DocumentRef {
	return fr.courseCollection(courseID, models.FirestoreEnrollmentsCollection).Doc(studentID)
}

func (fr *FirebaseRepository) profileRef(userID string) *firestore.DocumentRef {
	return fr.firestoreClient.Collection(models.FirestoreUserProfilesCollection).Doc(userID)
}

// RequestEnrollment creates a PENDING enrollment record. An existing record
// in any state is reported as a conflict rather than silently overwritten.
func (fr *FirebaseRepository) RequestEnrollment(req *models.RequestEnrollmentRequest) error {
	if _, err := fr.GetCourseByID(req.CourseID); err != nil {
		return err
	}

	enrollRef := fr.enrollmentRef(req.CourseID, req.StudentID)
	err := fr.firestoreClient.RunTransaction(firebase.Context, func(ctx context.Context, tx *firestore.Transaction) error {
		_, err := tx.Get(enrollRef)
		if err == nil {
			return qerrors.EnrollmentExistsError
		}
		if status.Code(err) != codes.NotFound {
			return err
		}

		return tx.Create(enrollRef, map[string]interface{}{
			"courseId":           req.CourseID,
			"studentId":          req.StudentID,
			"status":             models.EnrollmentPending,
			"completedLessonIds": []string{},
			"lastAccessedAt":     firestore.ServerTimestamp,
		})
	})

	return commitError(err)
}

// DecideEnrollment approves or rejects a request. It is a read-check-write
// transaction: the record status, the student's membership cache, and the
// approval notification commit together or not at all, and concurrent
// decisions on the same record are serialized by the store instead of racing
// as blind last-write-wins updates.
func (fr *FirebaseRepository) DecideEnrollment(req *models.DecideEnrollmentRequest) error {
	course, err := fr.GetCourseByID(req.CourseID)
	if err != nil {
		return err
	}

	enrollRef := fr.enrollmentRef(req.CourseID, req.StudentID)
	profileRef := fr.profileRef(req.StudentID)

	err = fr.firestoreClient.RunTransaction(firebase.Context, func(ctx context.Context, tx *firestore.Transaction) error {
		if _, err := tx.Get(enrollRef); err != nil {
			if status.Code(err) == codes.NotFound {
				return qerrors.EnrollmentNotFoundError
			}
			return err
		}

		profileDoc, err := tx.Get(profileRef)
		if err != nil {
			if status.Code(err) == codes.NotFound {
				return qerrors.UserNotFoundError
			}
			return err
		}
		var profile models.Profile
		if err := mapstructure.Decode(profileDoc.Data(), &profile); err != nil {
			return err
		}

		outcome, err := enrollment.Decide(req.Decision, profile.EnrolledCourseIDs, req.CourseID)
		if err != nil {
			return err
		}

		if err := tx.Update(enrollRef, []firestore.Update{
			{Path: "status", Value: outcome.Status},
		}); err != nil {
			return err
		}

		profileUpdates := []firestore.Update{
			{Path: "enrolledCourseIds", Value: outcome.EnrolledCourseIDs},
		}
		if outcome.Notification != "" {
			notification := newNotification("You've been enrolled in "+course.Title+"!", course.ID, outcome.Notification)
			profileUpdates = append(profileUpdates, firestore.Update{
				Path:  "notifications",
				Value: firestore.ArrayUnion(notificationValue(notification)),
			})
		}
		return tx.Update(profileRef, profileUpdates)
	})
	if err != nil && !domainError(err) {
		glog.Errorf("error deciding enrollment for student %v in course %v: %v\n", req.StudentID, req.CourseID, err)
	}

	return commitError(err)
}

// DirectEnroll enrolls a student by email without a pending request. The
// enrollment record is written with merge semantics, so re-enrolling a
// previously rejected student preserves the history fields the write doesn't
// touch (notably completedLessonIds).
func (fr *FirebaseRepository) DirectEnroll(req *models.DirectEnrollRequest) (*models.User, error) {
	course, err := fr.GetCourseByID(req.CourseID)
	if err != nil {
		return nil, err
	}

	student, err := fr.GetUserByEmail(req.Email)
	if err != nil {
		return nil, err
	}

	enrollRef := fr.enrollmentRef(req.CourseID, student.ID)
	profileRef := fr.profileRef(student.ID)

	err = fr.firestoreClient.RunTransaction(firebase.Context, func(ctx context.Context, tx *firestore.Transaction) error {
		profileDoc, err := tx.Get(profileRef)
		if err != nil {
			if status.Code(err) == codes.NotFound {
				return qerrors.UserNotFoundError
			}
			return err
		}
		var profile models.Profile
		if err := mapstructure.Decode(profileDoc.Data(), &profile); err != nil {
			return err
		}

		outcome := enrollment.DirectEnroll(profile.EnrolledCourseIDs, req.CourseID)

		if err := tx.Set(enrollRef, map[string]interface{}{
			"courseId":       req.CourseID,
			"studentId":      student.ID,
			"status":         outcome.Status,
			"lastAccessedAt": firestore.ServerTimestamp,
		}, firestore.MergeAll); err != nil {
			return err
		}

		notification := newNotification("You've been added to "+course.Title+"!", course.ID, outcome.Notification)
		return tx.Update(profileRef, []firestore.Update{
			{Path: "enrolledCourseIds", Value: outcome.EnrolledCourseIDs},
			{Path: "notifications", Value: firestore.ArrayUnion(notificationValue(notification))},
		})
	})
	if err != nil && !domainError(err) {
		glog.Errorf("error direct-enrolling %v in course %v: %v\n", req.Email, req.CourseID, err)
	}

	return student, commitError(err)
}

// RemoveEnrollment revokes a student's access by deleting the enrollment
// record and scrubbing the membership cache in one batch. Deliberately
// destructive: the record carries the student's completedLessonIds, so
// removal destroys their progress history for the course.
func (fr *FirebaseRepository) RemoveEnrollment(req *models.RemoveEnrollmentRequest) error {
	if _, err := fr.GetCourseByID(req.CourseID); err != nil {
		return err
	}

	batch := fr.firestoreClient.Batch()
	batch.Delete(fr.enrollmentRef(req.CourseID, req.StudentID))
	batch.Update(fr.profileRef(req.StudentID), []firestore.Update{
		{Path: "enrolledCourseIds", Value: firestore.ArrayRemove(req.CourseID)},
	})

	if _, err := batch.Commit(firebase.Context); err != nil {
		glog.Errorf("error removing enrollment for student %v in course %v: %v\n", req.StudentID, req.CourseID, err)
		return qerrors.UnavailableError
	}

	return nil
}

// GetEnrollment fetches the enrollment record for a (course, student) pair.
func (fr *FirebaseRepository) GetEnrollment(courseID string, studentID string) (*models.EnrollmentRecord, error) {
	doc, err := fr.enrollmentRef(courseID, studentID).Get(firebase.Context)
	if err != nil {
		if status.Code(err) == codes.NotFound {
			return nil, qerrors.EnrollmentNotFoundError
		}
		return nil, err
	}

	var record models.EnrollmentRecord
	if err := mapstructure.Decode(doc.Data(), &record); err != nil {
		return nil, err
	}

	return &record, nil
}

// ListEnrollments returns every enrollment record for a course.
func (fr *FirebaseRepository) ListEnrollments(courseID string) ([]*models.EnrollmentRecord, error) {
	if _, err := fr.GetCourseByID(courseID); err != nil {
		return nil, err
	}

	records := make([]*models.EnrollmentRecord, 0)
	iter := fr.courseCollection(courseID, models.FirestoreEnrollmentsCollection).Documents(firebase.Context)
	for {
		doc, err := iter.Next()
		if err == iterator.Done {
			break
		}
		if err != nil {
			return nil, err
		}

		var record models.EnrollmentRecord
		if err := mapstructure.Decode(doc.Data(), &record); err != nil {
			return nil, err
		}
		records = append(records, &record)
	}

	return records, nil
}
