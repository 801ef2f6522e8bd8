package model

import "time"

// QuestionState is the check state of the active question in an assessment.
type QuestionState string

const (
	QuestionStateOpen      QuestionState = "OPEN"
	QuestionStateCorrect   QuestionState = "CORRECT"
	QuestionStateIncorrect QuestionState = "INCORRECT"
)

// ProgressState is derived from the active question index.
type ProgressState string

const (
	ProgressInProgress ProgressState = "IN_PROGRESS"
	ProgressCompleted  ProgressState = "COMPLETED"
)

// AssessmentState is a read-only snapshot of an assessment session.
type AssessmentState struct {
	SessionID           string          `json:"session_id,omitempty"`
	CertificationID     string          `json:"certification_id"`
	CertificationName   string          `json:"certification_name"`
	ActiveQuestionIndex int             `json:"active_question_index"`
	QuestionCount       int             `json:"question_count"`
	LastCheckedIndex    int             `json:"last_checked_index"`
	QuestionState       QuestionState   `json:"question_state"`
	Progress            ProgressState   `json:"progress"`
	ProgressPercent     float64         `json:"progress_percent"`
	CorrectCount        int             `json:"correct_count"`
	Selections          map[string]bool `json:"selections"`
	ActiveQuestion      *QuestionView   `json:"active_question,omitempty"`
}

// QuestionView is the active question as shown to a learner. Correctness flags
// are only revealed once the question has been checked.
type QuestionView struct {
	ID      string       `json:"id"`
	Text    string       `json:"text"`
	Answers []AnswerView `json:"answers"`
}

// AnswerView is an answer option as shown to a learner.
type AnswerView struct {
	ID        string `json:"id"`
	Text      string `json:"text"`
	Selected  bool   `json:"selected"`
	IsCorrect *bool  `json:"isCorrect,omitempty"`
}

// Outcome is the final result of a completed assessment.
type Outcome struct {
	CorrectCount     int     `json:"correct_count"`
	QuestionCount    int     `json:"question_count"`
	ResultPercentage float64 `json:"result_percentage"`
	Passed           bool    `json:"passed"`
	Message          string  `json:"message"`
}

// AssessmentResult is a persisted, completed attempt.
type AssessmentResult struct {
	ID                string    `json:"id"`
	CertificationID   string    `json:"certification_id"`
	CertificationName string    `json:"certification_name"`
	CorrectCount      int       `json:"correct_count"`
	QuestionCount     int       `json:"question_count"`
	Percentage        float64   `json:"percentage"`
	Passed            bool      `json:"passed"`
	CompletedAt       time.Time `json:"completed_at"`
}

// StartAssessmentRequest is the payload for starting an assessment.
type StartAssessmentRequest struct {
	CourseName string `json:"course_name" binding:"required,min=1,max=255"`
}

// SelectAnswerRequest is the payload for (de)selecting an answer.
type SelectAnswerRequest struct {
	AnswerID string `json:"answer_id" binding:"required,max=64"`
	Selected *bool  `json:"selected" binding:"required"`
}
