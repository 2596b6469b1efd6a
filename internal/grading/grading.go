package grading

import (
	"strings"

	"coursehub/internal/models"
)

// Grade scores a submitted answer set against a quiz definition. It is pure
// and deterministic: no I/O, and the quiz is never mutated. The total is the
// number of questions in the quiz at grading time, so each attempt is scored
// against the quiz version live at submission. A question with no submitted
// answer is counted wrong, never skipped.
func Grade(quiz *models.Quiz, answers map[string]interface{}) (score int, total int) {
	total = len(quiz.Questions)

	for _, question := range quiz.Questions {
		submitted, ok := answers[question.ID]
		if !ok {
			continue
		}
		if isCorrect(question, submitted) {
			score++
		}
	}

	return score, total
}

// CanStartAttempt reports whether a student may begin a quiz attempt: always
// for a first attempt, otherwise only while a retake grant is present.
// Presence, not grant magnitude, gates permission.
func CanStartAttempt(hasPriorAttempt bool, hasRetakeGrant bool) bool {
	return !hasPriorAttempt || hasRetakeGrant
}

func isCorrect(question models.Question, submitted interface{}) bool {
	switch question.Type {
	case models.QuestionMultipleChoice:
		index, ok := answerIndex(submitted)
		return ok && index == question.CorrectIndex
	case models.QuestionIdentification:
		answer, ok := submitted.(string)
		return ok && identificationMatches(answer, question.CorrectAnswer)
	case models.QuestionTrueFalse:
		answer, ok := submitted.(bool)
		return ok && answer == question.CorrectBool
	}

	return false
}

// identificationMatches compares trimmed, case-folded strings. No other
// normalization (accents, punctuation) is performed.
func identificationMatches(submitted, correct string) bool {
	return strings.EqualFold(strings.TrimSpace(submitted), strings.TrimSpace(correct))
}

// answerIndex coerces a submitted multiple-choice answer to an int. JSON
// decoding yields float64 and Firestore yields int64, so both are accepted;
// fractional values are rejected rather than truncated.
func answerIndex(submitted interface{}) (int, bool) {
	switch v := submitted.(type) {
	case int:
		return v, true
	case int64:
		return int(v), true
	case float64:
		if v != float64(int(v)) {
			return 0, false
		}
		return int(v), true
	}

	return 0, false
}
