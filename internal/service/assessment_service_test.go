package service

import (
	"context"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stemsi/certify-backend/internal/assessment"
	"github.com/stemsi/certify-backend/internal/model"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestAssessmentService(store *fakeStore, queue ResultQueue) *AssessmentService {
	svc := NewAssessmentService(newTestCertificationService(store, nil), time.Hour, queue, zerolog.Nop())
	svc.now = func() time.Time { return time.Date(2026, 3, 1, 9, 0, 0, 0, time.UTC) }
	return svc
}

func TestAssessmentService_FullAttempt(t *testing.T) {
	queue := &fakeQueue{}
	svc := newTestAssessmentService(newFakeStore(basics()), queue)
	ctx := context.Background()

	st, err := svc.Start(ctx, "Go Basics")
	require.NoError(t, err)
	id := st.SessionID
	require.NotEmpty(t, id)
	assert.Equal(t, 0, st.ActiveQuestionIndex)
	assert.Equal(t, 2, st.QuestionCount)
	assert.Equal(t, model.ProgressInProgress, st.Progress)

	_, err = svc.Select(id, "a1", true)
	require.NoError(t, err)
	ok, st, err := svc.Check(id)
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, model.QuestionStateCorrect, st.QuestionState)
	assert.Equal(t, 1, st.CorrectCount)

	st, err = svc.Advance(ctx, id)
	require.NoError(t, err)
	assert.Equal(t, 1, st.ActiveQuestionIndex)

	_, err = svc.Select(id, "a3", true)
	require.NoError(t, err)
	ok, _, err = svc.Check(id)
	require.NoError(t, err)
	assert.False(t, ok, "a4 is also correct but was not selected")

	_, err = svc.Outcome(id)
	assert.ErrorIs(t, err, assessment.ErrNotCompleted)

	st, err = svc.Advance(ctx, id)
	require.NoError(t, err)
	assert.Equal(t, model.ProgressCompleted, st.Progress)

	out, err := svc.Outcome(id)
	require.NoError(t, err)
	assert.Equal(t, 1, out.CorrectCount)
	assert.Equal(t, 2, out.QuestionCount)
	assert.InDelta(t, 50.0, out.ResultPercentage, 0.001)
	assert.False(t, out.Passed)

	results := queue.all()
	require.Len(t, results, 1)
	assert.Equal(t, "c-basics", results[0].CertificationID)
	assert.Equal(t, "Go Basics", results[0].CertificationName)
	assert.Equal(t, 1, results[0].CorrectCount)
	assert.False(t, results[0].Passed)
	assert.Equal(t, time.Date(2026, 3, 1, 9, 0, 0, 0, time.UTC), results[0].CompletedAt)
}

func TestAssessmentService_PreconditionErrors(t *testing.T) {
	svc := newTestAssessmentService(newFakeStore(basics()), nil)
	ctx := context.Background()

	st, err := svc.Start(ctx, "go basics")
	require.NoError(t, err)
	id := st.SessionID

	_, err = svc.Advance(ctx, id)
	assert.ErrorIs(t, err, assessment.ErrNotChecked)

	_, err = svc.Select(id, "a3", true)
	assert.ErrorIs(t, err, assessment.ErrUnknownAnswer)

	_, _, err = svc.Check(id)
	require.NoError(t, err)
	_, _, err = svc.Check(id)
	assert.ErrorIs(t, err, assessment.ErrAlreadyChecked)

	after, err := svc.State(id)
	require.NoError(t, err)
	assert.Equal(t, 0, after.ActiveQuestionIndex)
	assert.Equal(t, 0, after.CorrectCount)
}

func TestAssessmentService_NewIsNotACourse(t *testing.T) {
	svc := newTestAssessmentService(newFakeStore(), nil)

	_, err := svc.Start(context.Background(), "new")
	assert.ErrorIs(t, err, ErrCertificationNotFound)
}

func TestAssessmentService_EmptyCertificationIsNotRecorded(t *testing.T) {
	queue := &fakeQueue{}
	empty := model.Certification{ID: "c-empty", Name: "Empty", Questions: []model.Question{}}
	svc := newTestAssessmentService(newFakeStore(empty), queue)

	st, err := svc.Start(context.Background(), "Empty")
	require.NoError(t, err)
	assert.Equal(t, model.ProgressCompleted, st.Progress)

	_, err = svc.Outcome(st.SessionID)
	assert.ErrorIs(t, err, assessment.ErrNoQuestions)
	assert.Empty(t, queue.all())
}

func TestAssessmentService_QueueFailureDoesNotFailAdvance(t *testing.T) {
	queue := &fakeQueue{err: errStorage}
	one := basics()
	one.Questions = one.Questions[:1]
	svc := newTestAssessmentService(newFakeStore(one), queue)
	ctx := context.Background()

	st, err := svc.Start(ctx, "Go Basics")
	require.NoError(t, err)
	_, err = svc.Select(st.SessionID, "a1", true)
	require.NoError(t, err)
	_, _, err = svc.Check(st.SessionID)
	require.NoError(t, err)

	st, err = svc.Advance(ctx, st.SessionID)
	require.NoError(t, err)
	assert.Equal(t, model.ProgressCompleted, st.Progress)

	out, err := svc.Outcome(st.SessionID)
	require.NoError(t, err)
	assert.True(t, out.Passed)
}

func TestAssessmentService_ResetAndDiscard(t *testing.T) {
	svc := newTestAssessmentService(newFakeStore(basics()), nil)

	st, err := svc.Start(context.Background(), "Go Basics")
	require.NoError(t, err)
	id := st.SessionID

	_, err = svc.Select(id, "a1", true)
	require.NoError(t, err)
	_, _, err = svc.Check(id)
	require.NoError(t, err)

	st, err = svc.Reset(id)
	require.NoError(t, err)
	assert.Equal(t, 0, st.CorrectCount)
	assert.Equal(t, model.QuestionStateOpen, st.QuestionState)
	assert.Equal(t, id, st.SessionID)

	assert.True(t, svc.Discard(id))
	_, err = svc.State(id)
	assert.ErrorIs(t, err, ErrSessionNotFound)
}

func TestAssessmentService_SessionsAreIndependent(t *testing.T) {
	svc := newTestAssessmentService(newFakeStore(basics()), nil)
	ctx := context.Background()

	a, err := svc.Start(ctx, "Go Basics")
	require.NoError(t, err)
	b, err := svc.Start(ctx, "Go Basics")
	require.NoError(t, err)
	require.NotEqual(t, a.SessionID, b.SessionID)

	_, err = svc.Select(a.SessionID, "a1", true)
	require.NoError(t, err)

	stB, err := svc.State(b.SessionID)
	require.NoError(t, err)
	assert.Empty(t, stB.Selections)
}
