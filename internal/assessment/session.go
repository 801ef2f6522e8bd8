// Package assessment drives a learner through a certification one question at
// a time and computes the pass/fail outcome.
package assessment

import (
	"errors"
	"fmt"

	"github.com/stemsi/certify-backend/internal/certification"
	"github.com/stemsi/certify-backend/internal/model"
)

// PassThreshold is the minimum result percentage, inclusive, needed to pass.
const PassThreshold = 70

// Precondition errors. Operations returning them leave the session unchanged.
var (
	ErrCompleted      = errors.New("assessment is already completed")
	ErrNotCompleted   = errors.New("assessment is not completed")
	ErrAlreadyChecked = errors.New("active question has already been checked")
	ErrNotChecked     = errors.New("active question has not been checked")
	ErrUnknownAnswer  = errors.New("answer does not belong to the active question")
	ErrNoQuestions    = errors.New("certification has no questions")
)

// Session is one learner's attempt at a certification. It is not safe for
// concurrent use.
type Session struct {
	cert        model.Certification
	active      int
	lastChecked int
	state       model.QuestionState
	correct     int
	selections  map[string]bool
}

// New starts a session on cert. Missing identifiers are assigned first so that
// selections can be keyed by answer id.
func New(cert model.Certification) *Session {
	s := &Session{}
	s.Load(cert)
	return s
}

// Load replaces the certification and restarts the attempt from the first
// question.
func (s *Session) Load(cert model.Certification) {
	s.cert = certification.AssignIDs(cert)
	s.Reset()
}

// Reset restarts the attempt on the current certification.
func (s *Session) Reset() {
	s.active = 0
	s.lastChecked = -1
	s.state = model.QuestionStateOpen
	s.correct = 0
	s.selections = make(map[string]bool)
}

// Certification returns the document being assessed.
func (s *Session) Certification() model.Certification {
	return s.cert
}

// ActiveIndex is the index of the active question. It equals the question
// count once the session is completed.
func (s *Session) ActiveIndex() int { return s.active }

// CorrectCount is the number of questions answered correctly so far.
func (s *Session) CorrectCount() int { return s.correct }

// QuestionState is the check state of the active question.
func (s *Session) QuestionState() model.QuestionState { return s.state }

// Completed reports whether every question has been checked and advanced past.
func (s *Session) Completed() bool {
	return s.active >= len(s.cert.Questions)
}

// Progress returns the session-level progress state.
func (s *Session) Progress() model.ProgressState {
	if s.Completed() {
		return model.ProgressCompleted
	}
	return model.ProgressInProgress
}

// ActiveQuestion returns the active question, or false once completed.
func (s *Session) ActiveQuestion() (model.Question, bool) {
	if s.Completed() {
		return model.Question{}, false
	}
	return s.cert.Questions[s.active], true
}

// SelectAnswer marks an answer of the active question as selected or not.
func (s *Session) SelectAnswer(answerID string, selected bool) error {
	q, ok := s.ActiveQuestion()
	if !ok {
		return ErrCompleted
	}
	if s.state != model.QuestionStateOpen {
		return ErrAlreadyChecked
	}
	if !hasAnswer(q, answerID) {
		return fmt.Errorf("select %q: %w", answerID, ErrUnknownAnswer)
	}

	s.selections[answerID] = selected
	return nil
}

// CheckAnswer evaluates the current selections against the active question and
// locks it. A question can only be checked once.
func (s *Session) CheckAnswer() (bool, error) {
	q, ok := s.ActiveQuestion()
	if !ok {
		return false, ErrCompleted
	}
	if s.state != model.QuestionStateOpen {
		return false, ErrAlreadyChecked
	}

	correct := certification.Evaluate(q, s.selections)
	if correct {
		s.state = model.QuestionStateCorrect
		s.correct++
	} else {
		s.state = model.QuestionStateIncorrect
	}
	s.lastChecked = s.active

	return correct, nil
}

// Advance moves to the next question once the active one has been checked.
func (s *Session) Advance() error {
	if s.Completed() {
		return ErrCompleted
	}
	if s.state == model.QuestionStateOpen {
		return ErrNotChecked
	}

	s.active++
	s.selections = make(map[string]bool)
	s.state = model.QuestionStateOpen
	return nil
}

// Outcome computes the result of a completed session.
func (s *Session) Outcome() (model.Outcome, error) {
	if !s.Completed() {
		return model.Outcome{}, ErrNotCompleted
	}
	total := len(s.cert.Questions)
	if total == 0 {
		return model.Outcome{}, ErrNoQuestions
	}

	passed := s.correct*100 >= PassThreshold*total
	out := model.Outcome{
		CorrectCount:     s.correct,
		QuestionCount:    total,
		ResultPercentage: float64(s.correct*100) / float64(total),
		Passed:           passed,
	}
	out.Message = outcomeMessage(out)
	return out, nil
}

// Snapshot returns a read-only view of the session. Correctness of the active
// question's answers is only included once it has been checked.
func (s *Session) Snapshot() model.AssessmentState {
	total := len(s.cert.Questions)
	st := model.AssessmentState{
		CertificationID:     s.cert.ID,
		CertificationName:   s.cert.Name,
		ActiveQuestionIndex: s.active,
		QuestionCount:       total,
		LastCheckedIndex:    s.lastChecked,
		QuestionState:       s.state,
		Progress:            s.Progress(),
		CorrectCount:        s.correct,
		Selections:          make(map[string]bool, len(s.selections)),
	}
	for id, v := range s.selections {
		st.Selections[id] = v
	}

	if s.Completed() {
		if total > 0 {
			st.ProgressPercent = 100
		}
		return st
	}

	st.ProgressPercent = float64((s.active+1)*100) / float64(total)

	q := s.cert.Questions[s.active]
	view := &model.QuestionView{
		ID:      q.ID,
		Text:    q.Text,
		Answers: make([]model.AnswerView, len(q.Answers)),
	}
	for i, a := range q.Answers {
		av := model.AnswerView{ID: a.ID, Text: a.Text, Selected: s.selections[a.ID]}
		if s.state != model.QuestionStateOpen {
			isCorrect := a.IsCorrect
			av.IsCorrect = &isCorrect
		}
		view.Answers[i] = av
	}
	st.ActiveQuestion = view
	return st
}

func hasAnswer(q model.Question, answerID string) bool {
	for _, a := range q.Answers {
		if a.ID == answerID {
			return true
		}
	}
	return false
}

func outcomeMessage(o model.Outcome) string {
	if o.Passed {
		return fmt.Sprintf(
			"Congratulations! You passed the exam with %d correct answers out of %d questions (%g%%, pass mark %d%%).",
			o.CorrectCount, o.QuestionCount, o.ResultPercentage, PassThreshold)
	}
	return fmt.Sprintf(
		"Sorry! You did not pass the exam with %d correct answers out of %d questions (%g%%, pass mark %d%%). Try again and don't give up!",
		o.CorrectCount, o.QuestionCount, o.ResultPercentage, PassThreshold)
}
