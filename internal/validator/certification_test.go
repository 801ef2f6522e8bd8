package validator

import (
	"strings"
	"testing"

	"github.com/stemsi/certify-backend/internal/model"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func validCert() model.Certification {
	return model.Certification{
		ID:   "c1",
		Name: "Kubernetes Fundamentals",
		Questions: []model.Question{
			{
				ID:   "q1",
				Text: "What schedules pods?",
				Answers: []model.Answer{
					{ID: "a1", Text: "kube-scheduler", IsCorrect: true},
					{ID: "a2", Text: "kubelet"},
				},
			},
		},
	}
}

func TestValidateCertification_Valid(t *testing.T) {
	assert.Empty(t, ValidateCertification(validCert()))
}

func TestValidateCertification_EmptyCertificationWithoutQuestions(t *testing.T) {
	c := model.Certification{ID: "c", Name: "Draft", Questions: []model.Question{}}
	assert.Empty(t, ValidateCertification(c))
}

func TestValidateCertification_ReportsFieldsInOrder(t *testing.T) {
	c := validCert()
	c.Name = ""
	c.Questions = append(c.Questions, model.Question{ID: "q2", Answers: []model.Answer{}})

	problems := ValidateCertification(c)
	require.Len(t, problems, 3)
	assert.True(t, strings.HasPrefix(problems[0], "name:"), problems[0])
	assert.True(t, strings.HasPrefix(problems[1], "questions[1].text:"), problems[1])
	assert.True(t, strings.HasPrefix(problems[2], "questions[1].answers:"), problems[2])
	assert.Contains(t, problems[0], "required")
}

func TestValidateCertification_MissingIDs(t *testing.T) {
	c := validCert()
	c.ID = ""
	c.Questions[0].Answers[1].ID = ""

	problems := ValidateCertification(c)
	require.Len(t, problems, 2)
	assert.Contains(t, problems[0], "id")
	assert.Contains(t, problems[1], "questions[0].answers[1].id")
}

func TestValidateCertification_DuplicateIDs(t *testing.T) {
	c := validCert()
	c.Questions[0].Answers[1].ID = "q1"

	problems := ValidateCertification(c)
	require.Len(t, problems, 1)
	assert.Contains(t, problems[0], `"q1"`)
}

func TestFieldPath(t *testing.T) {
	assert.Equal(t, "questions[0].text", fieldPath("Certification.questions[0].text"))
	assert.Equal(t, "name", fieldPath("name"))
}
