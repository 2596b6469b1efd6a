package repository

import (
	"context"
	"fmt"

	"coursehub/internal/firebase"
	"coursehub/internal/grading"
	"coursehub/internal/models"
	"coursehub/internal/qerrors"

	"cloud.google.com/go/firestore"
	"github.com/golang/glog"
	"github.com/google/uuid"
	"github.com/mitchellh/mapstructure"
	"google.golang.org/api/iterator"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
)

// CreateQuiz creates a quiz under a lesson. The quiz document and the
// lesson's quizId pointer are written in one batch.
func (fr *FirebaseRepository) CreateQuiz(c *models.CreateQuizRequest) (*models.Quiz, error) {
	lesson, err := fr.GetLesson(c.CourseID, c.LessonID)
	if err != nil {
		return nil, err
	}
	if lesson.QuizID != "" {
		return nil, qerrors.QuizExistsError
	}

	questions, err := validateQuestions(c.Questions)
	if err != nil {
		return nil, err
	}

	quiz := &models.Quiz{
		LessonID:  c.LessonID,
		CourseID:  c.CourseID,
		Questions: questions,
		DueDate:   c.DueDate,
	}

	quizRef := fr.firestoreClient.Collection(models.FirestoreQuizzesCollection).NewDoc()
	batch := fr.firestoreClient.Batch()
	batch.Create(quizRef, map[string]interface{}{
		"lessonId":  quiz.LessonID,
		"courseId":  quiz.CourseID,
		"questions": questionValues(quiz.Questions),
		"settings": map[string]interface{}{
			"isLocked":    false,
			"showAnswers": false,
		},
		"dueDate": quiz.DueDate,
	})
	batch.Update(fr.courseCollection(c.CourseID, models.FirestoreLessonsCollection).Doc(c.LessonID), []firestore.Update{
		{Path: "quizId", Value: quizRef.ID},
	})

	if _, err := batch.Commit(firebase.Context); err != nil {
		glog.Errorf("error creating quiz for lesson %v: %v\n", c.LessonID, err)
		return nil, qerrors.UnavailableError
	}
	quiz.ID = quizRef.ID

	return quiz, nil
}

func (fr *FirebaseRepository) GetQuizByID(id string) (*models.Quiz, error) {
	doc, err := fr.firestoreClient.Collection(models.FirestoreQuizzesCollection).Doc(id).Get(firebase.Context)
	if err != nil {
		if status.Code(err) == codes.NotFound {
			return nil, qerrors.QuizNotFoundError
		}
		return nil, err
	}

	var quiz models.Quiz
	if err := mapstructure.Decode(doc.Data(), &quiz); err != nil {
		return nil, err
	}
	quiz.ID = doc.Ref.ID

	return &quiz, nil
}

// EditQuizSettings toggles the lock/show-answers settings. Settings edits
// never invalidate past attempts.
func (fr *FirebaseRepository) EditQuizSettings(c *models.EditQuizSettingsRequest) error {
	if _, err := fr.GetQuizByID(c.QuizID); err != nil {
		return err
	}

	_, err := fr.firestoreClient.Collection(models.FirestoreQuizzesCollection).Doc(c.QuizID).Update(firebase.Context, []firestore.Update{
		{Path: "settings.isLocked", Value: c.IsLocked},
		{Path: "settings.showAnswers", Value: c.ShowAnswers},
	})
	return commitError(err)
}

// SubmitAttempt grades a submission against the quiz version live at
// submission time and appends a new attempt record. Gating and retake
// consumption run inside the same transaction as the attempt write: two
// concurrent submissions racing for one retake grant cannot both consume it.
func (fr *FirebaseRepository) SubmitAttempt(req *models.SubmitAttemptRequest) (*models.QuizAttempt, error) {
	quiz, err := fr.GetQuizByID(req.QuizID)
	if err != nil {
		return nil, err
	}
	if quiz.Settings.IsLocked {
		return nil, qerrors.QuizLockedError
	}

	// Fail fast, before any write: every submitted answer must key a live
	// question. Unanswered questions are legal and graded wrong.
	if err := validateAnswers(quiz, req.Answers); err != nil {
		return nil, err
	}

	score, total := grading.Grade(quiz, req.Answers)

	quizRef := fr.firestoreClient.Collection(models.FirestoreQuizzesCollection).Doc(req.QuizID)
	attemptRef := quizRef.Collection(models.FirestoreAttemptsCollection).NewDoc()
	grantRef := quizRef.Collection(models.FirestoreRetakesCollection).Doc(req.StudentID)

	err = fr.firestoreClient.RunTransaction(firebase.Context, func(ctx context.Context, tx *firestore.Transaction) error {
		priorQuery := quizRef.Collection(models.FirestoreAttemptsCollection).
			Where("studentId", "==", req.StudentID).Limit(1)
		priorDocs, err := tx.Documents(priorQuery).GetAll()
		if err != nil {
			return err
		}
		hasPriorAttempt := len(priorDocs) > 0

		hasRetakeGrant := true
		if _, err := tx.Get(grantRef); err != nil {
			if status.Code(err) != codes.NotFound {
				return err
			}
			hasRetakeGrant = false
		}

		if !grading.CanStartAttempt(hasPriorAttempt, hasRetakeGrant) {
			return qerrors.AttemptLimitError
		}

		// A retake is consumed exactly once, by deleting the grant in the
		// same transaction that records the attempt.
		if hasPriorAttempt {
			if err := tx.Delete(grantRef); err != nil {
				return err
			}
		}

		return tx.Create(attemptRef, map[string]interface{}{
			"quizId":         req.QuizID,
			"studentId":      req.StudentID,
			"answers":        req.Answers,
			"score":          score,
			"totalQuestions": total,
			"submittedAt":    firestore.ServerTimestamp,
		})
	})
	if err != nil {
		if domainError(err) {
			return nil, err
		}
		glog.Errorf("error submitting attempt for quiz %v: %v\n", req.QuizID, err)
		return nil, qerrors.UnavailableError
	}

	return &models.QuizAttempt{
		ID:             attemptRef.ID,
		QuizID:         req.QuizID,
		StudentID:      req.StudentID,
		Answers:        req.Answers,
		Score:          score,
		TotalQuestions: total,
	}, nil
}

// GetLatestAttempt returns the student's most recent attempt for a quiz, or
// nil when they have none.
func (fr *FirebaseRepository) GetLatestAttempt(quizID string, studentID string) (*models.QuizAttempt, error) {
	iter := fr.firestoreClient.Collection(models.FirestoreQuizzesCollection).Doc(quizID).
		Collection(models.FirestoreAttemptsCollection).
		Where("studentId", "==", studentID).
		OrderBy("submittedAt", firestore.Desc).
		Limit(1).
		Documents(firebase.Context)

	doc, err := iter.Next()
	if err == iterator.Done {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}

	var attempt models.QuizAttempt
	if err := mapstructure.Decode(doc.Data(), &attempt); err != nil {
		return nil, err
	}
	attempt.ID = doc.Ref.ID

	return &attempt, nil
}

// ListAttempts returns a student's attempt history for a quiz, most recent first.
func (fr *FirebaseRepository) ListAttempts(quizID string, studentID string) ([]*models.QuizAttempt, error) {
	if _, err := fr.GetQuizByID(quizID); err != nil {
		return nil, err
	}

	attempts := make([]*models.QuizAttempt, 0)
	iter := fr.firestoreClient.Collection(models.FirestoreQuizzesCollection).Doc(quizID).
		Collection(models.FirestoreAttemptsCollection).
		Where("studentId", "==", studentID).
		OrderBy("submittedAt", firestore.Desc).
		Documents(firebase.Context)
	for {
		doc, err := iter.Next()
		if err == iterator.Done {
			break
		}
		if err != nil {
			return nil, err
		}

		var attempt models.QuizAttempt
		if err := mapstructure.Decode(doc.Data(), &attempt); err != nil {
			return nil, err
		}
		attempt.ID = doc.Ref.ID
		attempts = append(attempts, &attempt)
	}

	return attempts, nil
}

// deleteQuizArtifacts removes a quiz with its attempts and retake grants.
// Used when a lesson is deleted and by the course reaper.
func (fr *FirebaseRepository) deleteQuizArtifacts(quizID string) error {
	quizRef := fr.firestoreClient.Collection(models.FirestoreQuizzesCollection).Doc(quizID)

	for _, collection := range []string{models.FirestoreAttemptsCollection, models.FirestoreRetakesCollection} {
		iter := quizRef.Collection(collection).Documents(firebase.Context)
		for {
			doc, err := iter.Next()
			if err == iterator.Done {
				break
			}
			if err != nil {
				return err
			}
			if _, err := doc.Ref.Delete(firebase.Context); err != nil {
				return err
			}
		}
	}

	_, err := quizRef.Delete(firebase.Context)
	return err
}

// Helpers

// validateQuestions checks a question set for per-variant correctness and
// assigns stable IDs to questions that lack one.
func validateQuestions(questions []models.Question) ([]models.Question, error) {
	validated := make([]models.Question, 0, len(questions))
	for _, q := range questions {
		switch q.Type {
		case models.QuestionMultipleChoice:
			if len(q.Options) < 2 || q.CorrectIndex < 0 || q.CorrectIndex >= len(q.Options) {
				return nil, qerrors.ValidationError
			}
		case models.QuestionIdentification:
			if q.CorrectAnswer == "" {
				return nil, qerrors.ValidationError
			}
		case models.QuestionTrueFalse:
			// nothing to check beyond the type tag
		default:
			return nil, qerrors.ValidationError
		}

		if q.ID == "" {
			q.ID = uuid.New().String()
		}
		validated = append(validated, q)
	}

	return validated, nil
}

func validateAnswers(quiz *models.Quiz, answers map[string]interface{}) error {
	known := make(map[string]bool, len(quiz.Questions))
	for _, q := range quiz.Questions {
		known[q.ID] = true
	}
	for questionID := range answers {
		if !known[questionID] {
			return fmt.Errorf("%w: answer keyed by unknown question %q", qerrors.ValidationError, questionID)
		}
	}

	return nil
}

func questionValues(questions []models.Question) []map[string]interface{} {
	values := make([]map[string]interface{}, 0, len(questions))
	for _, q := range questions {
		value := map[string]interface{}{
			"id":     q.ID,
			"type":   q.Type,
			"prompt": q.Prompt,
		}
		switch q.Type {
		case models.QuestionMultipleChoice:
			value["options"] = q.Options
			value["correctIndex"] = q.CorrectIndex
		case models.QuestionIdentification:
			value["correctAnswer"] = q.CorrectAnswer
		case models.QuestionTrueFalse:
			value["correctBool"] = q.CorrectBool
		}
		values = append(values, value)
	}

	return values
}
