package service

import (
	"bytes"
	"context"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stemsi/certify-backend/internal/model"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"
)

func TestExportService_Export(t *testing.T) {
	results := fakeResults{results: []model.AssessmentResult{
		{CertificationID: "c-basics", CorrectCount: 2, QuestionCount: 2, Percentage: 100, Passed: true,
			CompletedAt: time.Date(2026, 2, 3, 10, 30, 0, 0, time.UTC)},
		{CertificationID: "c-other", CorrectCount: 0, QuestionCount: 1},
	}}
	svc := NewExportService(newTestCertificationService(newFakeStore(basics()), nil), results, zerolog.Nop())

	raw, name, err := svc.Export(context.Background(), "go basics")
	require.NoError(t, err)
	assert.Equal(t, "Go Basics", name)

	f, err := excelize.OpenReader(bytes.NewReader(raw))
	require.NoError(t, err)
	defer f.Close()

	assert.Equal(t, []string{"Questions", "Results"}, f.GetSheetList())

	questions, err := f.GetRows("Questions")
	require.NoError(t, err)
	require.Len(t, questions, 6)
	assert.Equal(t, []string{"No", "Question", "Answer", "Correct"}, questions[0])
	assert.Equal(t, []string{"1", "Zero value of int?", "0", "yes"}, questions[1])
	assert.Equal(t, []string{"", "", "nil", "no"}, questions[2])
	assert.Equal(t, "2", questions[3][0])

	rows, err := f.GetRows("Results")
	require.NoError(t, err)
	require.Len(t, rows, 2)
	assert.Equal(t, []string{"2026-02-03 10:30:00", "2", "2", "100", "yes"}, rows[1])
}

func TestExportService_UnknownCertification(t *testing.T) {
	svc := NewExportService(newTestCertificationService(newFakeStore(), nil), fakeResults{}, zerolog.Nop())

	_, _, err := svc.Export(context.Background(), "missing")
	assert.ErrorIs(t, err, ErrCertificationNotFound)
}

func TestExportService_ResultsFailure(t *testing.T) {
	svc := NewExportService(newTestCertificationService(newFakeStore(basics()), nil), fakeResults{err: errStorage}, zerolog.Nop())

	_, _, err := svc.Export(context.Background(), "Go Basics")
	assert.ErrorIs(t, err, errStorage)
}
