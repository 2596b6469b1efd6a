package progress

import (
	"reflect"
	"testing"

	"coursehub/internal/models"
)

func TestPercentComplete(t *testing.T) {
	cases := []struct {
		totalLessons int
		completed    []string
		expected     int
	}{
		{0, nil, 0},
		{3, nil, 0},
		{3, []string{"l1", "l2"}, 67},
		{3, []string{"l1", "l2", "l3"}, 100},
		{8, []string{"l1"}, 13},
	}

	for _, c := range cases {
		if got := PercentComplete(c.totalLessons, c.completed); got != c.expected {
			t.Errorf("PercentComplete(%d, %v) = %d, expected %d",
				c.totalLessons, c.completed, got, c.expected)
		}
	}
}

func TestPercentCompleteMonotonic(t *testing.T) {
	lessons := []string{"l1", "l2", "l3", "l4", "l5"}
	var completed []string

	previous := 0
	for _, lesson := range lessons {
		completed = MarkComplete(completed, lesson)
		current := PercentComplete(len(lessons), completed)
		if current < previous {
			t.Errorf("progress decreased from %d to %d after completing %v", previous, current, lesson)
		}
		previous = current
	}

	if previous != 100 {
		t.Errorf("Expected 100%% after completing every lesson, got %d", previous)
	}
}

func TestMarkCompleteIdempotent(t *testing.T) {
	completed := MarkComplete(nil, "l1")
	completed = MarkComplete(completed, "l2")
	twice := MarkComplete(completed, "l1")

	if !reflect.DeepEqual(twice, []string{"l1", "l2"}) {
		t.Errorf("Expected marking twice to leave the set unchanged, got %v", twice)
	}
}

func TestCanMarkComplete(t *testing.T) {
	quizless := &models.Lesson{ID: "l1"}
	withQuiz := &models.Lesson{ID: "l2", QuizID: "quiz-1"}
	attempt := &models.QuizAttempt{QuizID: "quiz-1", StudentID: "s1", Score: 0}

	if !CanMarkComplete(quizless, nil) {
		t.Error("Expected a quizless lesson to always be markable")
	}
	if CanMarkComplete(withQuiz, nil) {
		t.Error("Expected a quiz lesson with no attempt to be unmarkable")
	}
	// A zero score still counts: only attempt existence gates completion.
	if !CanMarkComplete(withQuiz, attempt) {
		t.Error("Expected a quiz lesson with an attempt to be markable")
	}
}
