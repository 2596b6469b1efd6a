package repository

import (
	"context"

	"coursehub/internal/firebase"
	"coursehub/internal/grading"
	"coursehub/internal/models"

	"cloud.google.com/go/firestore"
	"github.com/golang/glog"
	"github.com/mitchellh/mapstructure"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
)

// GrantRetake gives a student extra attempts for a quiz. Additive: the stored
// count is the existing grant count plus the new amount. Consumption happens
// in SubmitAttempt, which deletes the grant document in the same transaction
// as the attempt write.
func (fr *FirebaseRepository) GrantRetake(req *models.GrantRetakeRequest) error {
	if _, err := fr.GetQuizByID(req.QuizID); err != nil {
		return err
	}

	grantRef := fr.firestoreClient.Collection(models.FirestoreQuizzesCollection).Doc(req.QuizID).
		Collection(models.FirestoreRetakesCollection).Doc(req.StudentID)

	err := fr.firestoreClient.RunTransaction(firebase.Context, func(ctx context.Context, tx *firestore.Transaction) error {
		count := 0
		doc, err := tx.Get(grantRef)
		if err == nil {
			var grant models.RetakeGrant
			if err := mapstructure.Decode(doc.Data(), &grant); err != nil {
				return err
			}
			count = grant.Count
		} else if status.Code(err) != codes.NotFound {
			return err
		}

		return tx.Set(grantRef, map[string]interface{}{
			"quizId":    req.QuizID,
			"studentId": req.StudentID,
			"count":     count + req.AdditionalCount,
		})
	})
	if err != nil {
		glog.Errorf("error granting retake for quiz %v: %v\n", req.QuizID, err)
	}

	return commitError(err)
}

// CanStartAttempt reports whether the student may begin an attempt: always
// when they have no prior attempt, otherwise only while a retake grant
// document exists. Presence, not the count value, gates permission.
func (fr *FirebaseRepository) CanStartAttempt(quizID string, studentID string) (bool, error) {
	if _, err := fr.GetQuizByID(quizID); err != nil {
		return false, err
	}

	latest, err := fr.GetLatestAttempt(quizID, studentID)
	if err != nil {
		return false, err
	}

	hasRetakeGrant := true
	_, err = fr.firestoreClient.Collection(models.FirestoreQuizzesCollection).Doc(quizID).
		Collection(models.FirestoreRetakesCollection).Doc(studentID).Get(firebase.Context)
	if err != nil {
		if status.Code(err) != codes.NotFound {
			return false, err
		}
		hasRetakeGrant = false
	}

	return grading.CanStartAttempt(latest != nil, hasRetakeGrant), nil
}
