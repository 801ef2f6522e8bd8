package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/rs/zerolog"
	"github.com/stemsi/certify-backend/internal/assessment"
	"github.com/stemsi/certify-backend/internal/logger"
	"github.com/stemsi/certify-backend/internal/model"
	"github.com/stemsi/certify-backend/internal/store"
)

// ErrSessionNotFound is returned for unknown or expired assessment sessions.
var ErrSessionNotFound = errors.New("assessment session not found")

// ResultQueue receives completed attempts for persistence.
type ResultQueue interface {
	Enqueue(ctx context.Context, res model.AssessmentResult) error
}

// AssessmentService owns the live assessment sessions of all learners. Each
// session belongs to exactly one learner attempt.
type AssessmentService struct {
	certs    *CertificationService
	sessions *store.Registry[*assessment.Session]
	queue    ResultQueue
	now      func() time.Time
	log      zerolog.Logger
}

// NewAssessmentService creates a new AssessmentService. queue may be nil.
func NewAssessmentService(certs *CertificationService, sessionTTL time.Duration, queue ResultQueue, log zerolog.Logger) *AssessmentService {
	return &AssessmentService{
		certs:    certs,
		sessions: store.NewRegistry[*assessment.Session](sessionTTL),
		queue:    queue,
		now:      time.Now,
		log:      logger.Component(log, "assessment_service"),
	}
}

// Sessions exposes the registry so the server can run its janitor.
func (s *AssessmentService) Sessions() *store.Registry[*assessment.Session] {
	return s.sessions
}

// NewSession loads a stored certification and builds an unregistered session
// for it. Used by callers that own the session lifetime themselves.
func (s *AssessmentService) NewSession(ctx context.Context, courseName string) (*assessment.Session, error) {
	cert, err := s.certs.Get(ctx, courseName)
	if err != nil {
		return nil, err
	}
	return assessment.New(cert), nil
}

// Start begins a registered attempt and returns its initial state.
func (s *AssessmentService) Start(ctx context.Context, courseName string) (model.AssessmentState, error) {
	sess, err := s.NewSession(ctx, courseName)
	if err != nil {
		return model.AssessmentState{}, err
	}

	id := s.sessions.Put(sess)
	s.log.Info().
		Str("session_id", id).
		Str("certification_id", sess.Certification().ID).
		Int("questions", len(sess.Certification().Questions)).
		Msg("Assessment started")

	return snapshot(id, sess), nil
}

// State returns the current state of a session.
func (s *AssessmentService) State(id string) (model.AssessmentState, error) {
	var st model.AssessmentState
	err := s.with(id, func(sess *assessment.Session) error {
		st = snapshot(id, sess)
		return nil
	})
	return st, err
}

// Select marks an answer of the active question.
func (s *AssessmentService) Select(id, answerID string, selected bool) (model.AssessmentState, error) {
	var st model.AssessmentState
	err := s.with(id, func(sess *assessment.Session) error {
		if err := sess.SelectAnswer(answerID, selected); err != nil {
			return err
		}
		st = snapshot(id, sess)
		return nil
	})
	return st, err
}

// Check evaluates the active question.
func (s *AssessmentService) Check(id string) (bool, model.AssessmentState, error) {
	var (
		correct bool
		st      model.AssessmentState
	)
	err := s.with(id, func(sess *assessment.Session) error {
		ok, err := sess.CheckAnswer()
		if err != nil {
			return err
		}
		correct = ok
		st = snapshot(id, sess)
		return nil
	})
	return correct, st, err
}

// Advance moves to the next question and records the result when the last
// question has been passed.
func (s *AssessmentService) Advance(ctx context.Context, id string) (model.AssessmentState, error) {
	var st model.AssessmentState
	err := s.with(id, func(sess *assessment.Session) error {
		if err := sess.Advance(); err != nil {
			return err
		}
		if sess.Completed() {
			s.RecordCompletion(ctx, sess)
		}
		st = snapshot(id, sess)
		return nil
	})
	return st, err
}

// Outcome returns the pass/fail result of a completed session.
func (s *AssessmentService) Outcome(id string) (model.Outcome, error) {
	var out model.Outcome
	err := s.with(id, func(sess *assessment.Session) error {
		o, err := sess.Outcome()
		if err != nil {
			return err
		}
		out = o
		return nil
	})
	return out, err
}

// Reset restarts a session from the first question.
func (s *AssessmentService) Reset(id string) (model.AssessmentState, error) {
	var st model.AssessmentState
	err := s.with(id, func(sess *assessment.Session) error {
		sess.Reset()
		st = snapshot(id, sess)
		return nil
	})
	return st, err
}

// Discard ends a session. It reports whether the session existed.
func (s *AssessmentService) Discard(id string) bool {
	return s.sessions.Delete(id)
}

// RecordCompletion queues the outcome of a completed session for storage.
// Sessions without questions have no outcome and are not recorded.
func (s *AssessmentService) RecordCompletion(ctx context.Context, sess *assessment.Session) {
	out, err := sess.Outcome()
	if err != nil {
		return
	}

	cert := sess.Certification()
	s.log.Info().
		Str("certification_id", cert.ID).
		Int("correct", out.CorrectCount).
		Int("total", out.QuestionCount).
		Bool("passed", out.Passed).
		Msg("Assessment completed")

	if s.queue == nil {
		return
	}

	res := model.AssessmentResult{
		CertificationID:   cert.ID,
		CertificationName: cert.Name,
		CorrectCount:      out.CorrectCount,
		QuestionCount:     out.QuestionCount,
		Percentage:        out.ResultPercentage,
		Passed:            out.Passed,
		CompletedAt:       s.now().UTC(),
	}
	if err := s.queue.Enqueue(ctx, res); err != nil {
		s.log.Warn().Err(err).Str("certification_id", cert.ID).Msg("Failed to queue assessment result")
	}
}

func (s *AssessmentService) with(id string, fn func(sess *assessment.Session) error) error {
	err := s.sessions.With(id, func(v **assessment.Session) error {
		return fn(*v)
	})
	if errors.Is(err, store.ErrNotFound) {
		return fmt.Errorf("session %s: %w", id, ErrSessionNotFound)
	}
	return err
}

func snapshot(id string, sess *assessment.Session) model.AssessmentState {
	st := sess.Snapshot()
	st.SessionID = id
	return st
}
