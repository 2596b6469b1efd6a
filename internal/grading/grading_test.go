package grading

import (
	"testing"

	"coursehub/internal/models"
)

func createQuiz() *models.Quiz {
	return &models.Quiz{
		ID: "quiz-1",
		Questions: []models.Question{
			{ID: "q1", Type: models.QuestionMultipleChoice, Options: []string{"Bitcoin", "Ether", "Doge"}, CorrectIndex: 1},
			{ID: "q2", Type: models.QuestionIdentification, CorrectAnswer: "Ether"},
			{ID: "q3", Type: models.QuestionTrueFalse, CorrectBool: true},
		},
	}
}

func TestGradeAllCorrect(t *testing.T) {
	quiz := createQuiz()
	answers := map[string]interface{}{
		"q1": 1,
		"q2": "  ether ",
		"q3": true,
	}

	score, total := Grade(quiz, answers)
	if score != 3 || total != 3 {
		t.Errorf("Expected 3/3, got %d/%d", score, total)
	}
}

func TestGradePartiallyCorrect(t *testing.T) {
	quiz := createQuiz()
	answers := map[string]interface{}{
		"q1": 0,
		"q2": "ETHER!",
		"q3": true,
	}

	// Identification matches case/whitespace-insensitively only, so the
	// punctuated answer fails; only the true/false answer scores.
	score, total := Grade(quiz, answers)
	if score != 1 || total != 3 {
		t.Errorf("Expected 1/3, got %d/%d", score, total)
	}
}

func TestGradeMissingAnswersCountedWrong(t *testing.T) {
	quiz := createQuiz()

	score, total := Grade(quiz, map[string]interface{}{})
	if score != 0 {
		t.Errorf("Expected missing answers to score 0, got %d", score)
	}
	if total != 3 {
		t.Errorf("Expected total to match live question count 3, got %d", total)
	}
}

func TestGradeCoercesNumericAnswers(t *testing.T) {
	quiz := createQuiz()

	// A JSON-decoded submission carries float64 indices.
	score, _ := Grade(quiz, map[string]interface{}{"q1": float64(1)})
	if score != 1 {
		t.Errorf("Expected float64 index to grade correct, got score %d", score)
	}

	score, _ = Grade(quiz, map[string]interface{}{"q1": 1.5})
	if score != 0 {
		t.Errorf("Expected fractional index to grade wrong, got score %d", score)
	}
}

func TestGradeTotalTracksLiveQuestionCount(t *testing.T) {
	quiz := createQuiz()
	answers := map[string]interface{}{"q1": 1, "q2": "Ether", "q3": true}

	quiz.Questions = append(quiz.Questions, models.Question{
		ID: "q4", Type: models.QuestionTrueFalse, CorrectBool: false,
	})

	score, total := Grade(quiz, answers)
	if score != 3 || total != 4 {
		t.Errorf("Expected 3/4 after a question was added, got %d/%d", score, total)
	}
}

func TestGradeRejectsMistypedAnswers(t *testing.T) {
	quiz := createQuiz()
	answers := map[string]interface{}{
		"q1": "1",
		"q2": 2,
		"q3": "true",
	}

	score, _ := Grade(quiz, answers)
	if score != 0 {
		t.Errorf("Expected mistyped answers to score 0, got %d", score)
	}
}

func TestCanStartAttempt(t *testing.T) {
	cases := []struct {
		hasPriorAttempt bool
		hasRetakeGrant  bool
		expected        bool
	}{
		{false, false, true},
		{false, true, true},
		{true, false, false},
		{true, true, true},
	}

	for _, c := range cases {
		if got := CanStartAttempt(c.hasPriorAttempt, c.hasRetakeGrant); got != c.expected {
			t.Errorf("CanStartAttempt(%v, %v) = %v, expected %v",
				c.hasPriorAttempt, c.hasRetakeGrant, got, c.expected)
		}
	}
}
