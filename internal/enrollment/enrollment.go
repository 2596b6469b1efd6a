// Package enrollment holds the pure transition logic for enrollment records
// and the denormalized membership cache. The repository layer applies each
// Outcome to the store as a single atomic write; keeping the computation here
// keeps the membership invariant checkable without a live store: a course is
// in a student's EnrolledCourseIDs exactly when their enrollment record for
// that course has status ENROLLED.
package enrollment

import (
	"coursehub/internal/models"
	"coursehub/internal/qerrors"
)

// Outcome describes the writes owed for one enrollment transition: the new
// record status, the student's updated membership cache, and the notification
// to deliver alongside them, if any.
type Outcome struct {
	Status            models.EnrollmentStatus
	EnrolledCourseIDs []string
	Notification      models.NotificationType
}

// Decide computes the transition for an instructor decision on a pending (or
// re-decided) enrollment record. Approval enrolls the student and owes an
// ENROLLMENT_APPROVED notification; rejection removes the course from the
// membership cache, which also covers re-decision of a previously approved
// record.
func Decide(decision models.EnrollmentDecision, enrolledCourseIDs []string, courseID string) (*Outcome, error) {
	switch decision {
	case models.DecisionApprove:
		return &Outcome{
			Status:            models.EnrollmentEnrolled,
			EnrolledCourseIDs: AddMembership(enrolledCourseIDs, courseID),
			Notification:      models.NotificationEnrollmentApproved,
		}, nil
	case models.DecisionReject:
		return &Outcome{
			Status:            models.EnrollmentRejected,
			EnrolledCourseIDs: RemoveMembership(enrolledCourseIDs, courseID),
		}, nil
	}

	return nil, qerrors.ValidationError
}

// DirectEnroll computes the transition for an educator adding a student
// without a pending request. The record skips PENDING entirely.
func DirectEnroll(enrolledCourseIDs []string, courseID string) *Outcome {
	return &Outcome{
		Status:            models.EnrollmentEnrolled,
		EnrolledCourseIDs: AddMembership(enrolledCourseIDs, courseID),
		Notification:      models.NotificationEnrollmentAdded,
	}
}

// AddMembership inserts a course into the membership cache. Idempotent.
func AddMembership(enrolledCourseIDs []string, courseID string) []string {
	for _, id := range enrolledCourseIDs {
		if id == courseID {
			return enrolledCourseIDs
		}
	}

	return append(enrolledCourseIDs, courseID)
}

// RemoveMembership removes a course from the membership cache. Idempotent.
func RemoveMembership(enrolledCourseIDs []string, courseID string) []string {
	result := make([]string, 0, len(enrolledCourseIDs))
	for _, id := range enrolledCourseIDs {
		if id != courseID {
			result = append(result, id)
		}
	}

	return result
}

// Consistent reports whether a record status and a membership cache agree for
// one course: membership iff enrolled.
func Consistent(status models.EnrollmentStatus, enrolledCourseIDs []string, courseID string) bool {
	member := false
	for _, id := range enrolledCourseIDs {
		if id == courseID {
			member = true
			break
		}
	}

	return member == (status == models.EnrollmentEnrolled)
}
