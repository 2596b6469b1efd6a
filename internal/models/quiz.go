package models

import "time"

var (
	FirestoreQuizzesCollection  = "quizzes"
	FirestoreAttemptsCollection = "attempts"
	FirestoreRetakesCollection  = "retakes"
)

type QuestionType string

const (
	QuestionMultipleChoice QuestionType = "MULTIPLE_CHOICE"
	QuestionIdentification QuestionType = "IDENTIFICATION"
	QuestionTrueFalse      QuestionType = "TRUE_FALSE"
)

// Question is a tagged variant: exactly one of the Correct* fields is
// meaningful, selected by Type. The ID is stable and keys submitted answers.
type Question struct {
	ID     string       `json:"id" mapstructure:"id"`
	Type   QuestionType `json:"type" mapstructure:"type"`
	Prompt string       `json:"prompt" mapstructure:"prompt"`

	// QuestionMultipleChoice
	Options      []string `json:"options,omitempty" mapstructure:"options"`
	CorrectIndex int      `json:"correctIndex,omitempty" mapstructure:"correctIndex"`

	// QuestionIdentification
	CorrectAnswer string `json:"correctAnswer,omitempty" mapstructure:"correctAnswer"`

	// QuestionTrueFalse
	CorrectBool bool `json:"correctBool,omitempty" mapstructure:"correctBool"`
}

type QuizSettings struct {
	IsLocked    bool `json:"isLocked" mapstructure:"isLocked"`
	ShowAnswers bool `json:"showAnswers" mapstructure:"showAnswers"`
}

type Quiz struct {
	ID        string       `json:"id" mapstructure:"id"`
	LessonID  string       `json:"lessonId" mapstructure:"lessonId"`
	CourseID  string       `json:"courseId" mapstructure:"courseId"`
	Questions []Question   `json:"questions" mapstructure:"questions"`
	Settings  QuizSettings `json:"settings" mapstructure:"settings"`
	DueDate   time.Time    `json:"dueDate" mapstructure:"dueDate"`
}

// QuizAttempt is an append-only record per submission. The "current" attempt
// for gating purposes is the most recent by SubmittedAt.
type QuizAttempt struct {
	ID             string                 `json:"id" mapstructure:"id"`
	QuizID         string                 `json:"quizId" mapstructure:"quizId"`
	StudentID      string                 `json:"studentId" mapstructure:"studentId"`
	Answers        map[string]interface{} `json:"answers" mapstructure:"answers"`
	Score          int                    `json:"score" mapstructure:"score"`
	TotalQuestions int                    `json:"totalQuestions" mapstructure:"totalQuestions"`
	SubmittedAt    time.Time              `json:"submittedAt" mapstructure:"submittedAt"`
}

// RetakeGrant permits a student to re-attempt a quiz. Presence of the
// document gates permission; the count is informational only.
type RetakeGrant struct {
	QuizID    string `json:"quizId" mapstructure:"quizId"`
	StudentID string `json:"studentId" mapstructure:"studentId"`
	Count     int    `json:"count" mapstructure:"count"`
}

// CreateQuizRequest is the parameter struct to the CreateQuiz function.
type CreateQuizRequest struct {
	CourseID  string     `json:"courseID" validate:"required"`
	LessonID  string     `json:"lessonID" validate:"required"`
	Questions []Question `json:"questions" validate:"required,min=1"`
	DueDate   time.Time  `json:"dueDate"`
}

// EditQuizSettingsRequest is the parameter struct to the EditQuizSettings function.
type EditQuizSettingsRequest struct {
	QuizID      string `json:"quizID"`
	IsLocked    bool   `json:"isLocked"`
	ShowAnswers bool   `json:"showAnswers"`
}

// SubmitAttemptRequest is the parameter struct to the SubmitAttempt function.
type SubmitAttemptRequest struct {
	QuizID    string                 `json:"quizID"`
	Answers   map[string]interface{} `json:"answers" validate:"required"`
	StudentID string                 `json:",omitempty"`
}

// GrantRetakeRequest is the parameter struct to the GrantRetake function.
type GrantRetakeRequest struct {
	QuizID          string `json:"quizID"`
	StudentID       string `json:"studentID" validate:"required"`
	AdditionalCount int    `json:"additionalCount" validate:"min=1"`
}
