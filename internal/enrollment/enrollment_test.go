package enrollment

import (
	"errors"
	"reflect"
	"testing"

	"coursehub/internal/models"
	"coursehub/internal/qerrors"
)

func TestDecideApprove(t *testing.T) {
	outcome, err := Decide(models.DecisionApprove, []string{"other"}, "course-1")
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}

	if outcome.Status != models.EnrollmentEnrolled {
		t.Errorf("Expected status ENROLLED, got %v", outcome.Status)
	}
	if !reflect.DeepEqual(outcome.EnrolledCourseIDs, []string{"other", "course-1"}) {
		t.Errorf("Expected membership to include course-1, got %v", outcome.EnrolledCourseIDs)
	}
	if outcome.Notification != models.NotificationEnrollmentApproved {
		t.Errorf("Expected an ENROLLMENT_APPROVED notification, got %q", outcome.Notification)
	}
}

func TestDecideReject(t *testing.T) {
	// Rejection of a previously approved record must also scrub the cache.
	outcome, err := Decide(models.DecisionReject, []string{"course-1", "other"}, "course-1")
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}

	if outcome.Status != models.EnrollmentRejected {
		t.Errorf("Expected status REJECTED, got %v", outcome.Status)
	}
	if !reflect.DeepEqual(outcome.EnrolledCourseIDs, []string{"other"}) {
		t.Errorf("Expected membership without course-1, got %v", outcome.EnrolledCourseIDs)
	}
	if outcome.Notification != "" {
		t.Errorf("Expected no notification on reject, got %q", outcome.Notification)
	}
}

func TestDecideUnknownDecision(t *testing.T) {
	_, err := Decide("MAYBE", nil, "course-1")
	if !errors.Is(err, qerrors.ValidationError) {
		t.Errorf("Expected a validation error, got %v", err)
	}
}

func TestDirectEnroll(t *testing.T) {
	outcome := DirectEnroll(nil, "course-1")

	if outcome.Status != models.EnrollmentEnrolled {
		t.Errorf("Expected status ENROLLED, got %v", outcome.Status)
	}
	if outcome.Notification != models.NotificationEnrollmentAdded {
		t.Errorf("Expected an ENROLLMENT_ADDED notification, got %q", outcome.Notification)
	}
}

func TestMembershipIdempotence(t *testing.T) {
	once := AddMembership(nil, "course-1")
	twice := AddMembership(once, "course-1")
	if !reflect.DeepEqual(once, twice) {
		t.Errorf("Expected adding twice to be a no-op, got %v", twice)
	}

	removed := RemoveMembership(twice, "course-1")
	if len(removed) != 0 {
		t.Errorf("Expected empty membership after removal, got %v", removed)
	}
	if got := RemoveMembership(removed, "course-1"); len(got) != 0 {
		t.Errorf("Expected removing twice to be a no-op, got %v", got)
	}
}

// Any sequence of decisions and re-decisions must keep the membership cache
// and the record status consistent for every course touched.
func TestDecisionSequencesKeepMembershipConsistent(t *testing.T) {
	sequences := [][]models.EnrollmentDecision{
		{models.DecisionApprove},
		{models.DecisionReject},
		{models.DecisionApprove, models.DecisionReject},
		{models.DecisionReject, models.DecisionApprove},
		{models.DecisionApprove, models.DecisionApprove},
		{models.DecisionApprove, models.DecisionReject, models.DecisionApprove, models.DecisionReject},
	}

	for _, sequence := range sequences {
		status := models.EnrollmentPending
		enrolled := []string{"unrelated-course"}

		for _, decision := range sequence {
			outcome, err := Decide(decision, enrolled, "course-1")
			if err != nil {
				t.Fatalf("Unexpected error applying %v: %v", decision, err)
			}
			status = outcome.Status
			enrolled = outcome.EnrolledCourseIDs
		}

		if !Consistent(status, enrolled, "course-1") {
			t.Errorf("Sequence %v left status %v inconsistent with membership %v",
				sequence, status, enrolled)
		}
		if !Consistent(models.EnrollmentEnrolled, enrolled, "unrelated-course") {
			t.Errorf("Sequence %v disturbed membership of an unrelated course: %v",
				sequence, enrolled)
		}
	}
}
