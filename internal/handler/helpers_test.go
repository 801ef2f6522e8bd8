package handler

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
	"github.com/stemsi/certify-backend/internal/model"
	"github.com/stemsi/certify-backend/internal/repository"
	"github.com/stemsi/certify-backend/internal/response"
	"github.com/stemsi/certify-backend/internal/service"
	"github.com/stemsi/certify-backend/internal/validator"
	"github.com/stretchr/testify/require"
)

func init() {
	gin.SetMode(gin.TestMode)
	validator.Setup()
}

type memStore struct {
	mu   sync.Mutex
	docs map[string]model.Certification
}

func newMemStore(certs ...model.Certification) *memStore {
	s := &memStore{docs: map[string]model.Certification{}}
	for _, c := range certs {
		s.docs[c.ID] = c
	}
	return s
}

func (s *memStore) GetByName(_ context.Context, name string) (model.Certification, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, c := range s.docs {
		if strings.EqualFold(c.Name, name) {
			return c, nil
		}
	}
	return model.Certification{}, repository.ErrCertificationNotFound
}

func (s *memStore) ListNames(_ context.Context) ([]string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var names []string
	for _, c := range s.docs {
		names = append(names, c.Name)
	}
	return names, nil
}

func (s *memStore) Upsert(_ context.Context, cert model.Certification) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for id, c := range s.docs {
		if id != cert.ID && strings.EqualFold(c.Name, cert.Name) {
			return "", repository.ErrNameTaken
		}
	}
	prev := s.docs[cert.ID].Name
	s.docs[cert.ID] = cert
	return prev, nil
}

type memResults struct{}

func (memResults) ListByCertification(context.Context, string) ([]model.AssessmentResult, error) {
	return nil, nil
}

// quiz has two questions; the correct answers are "q1-a" and "q2-b".
func quiz() model.Certification {
	return model.Certification{
		ID:   "c-quiz",
		Name: "Quiz",
		Questions: []model.Question{
			{ID: "q1", Text: "First", Answers: []model.Answer{
				{ID: "q1-a", Text: "A", IsCorrect: true},
				{ID: "q1-b", Text: "B"},
			}},
			{ID: "q2", Text: "Second", Answers: []model.Answer{
				{ID: "q2-a", Text: "A"},
				{ID: "q2-b", Text: "B", IsCorrect: true},
			}},
		},
	}
}

type testEnv struct {
	store  *memStore
	engine *gin.Engine
}

func newTestEnv(t *testing.T, certs ...model.Certification) *testEnv {
	t.Helper()
	log := zerolog.Nop()
	store := newMemStore(certs...)
	certSvc := service.NewCertificationService(store, nil, log)
	drafts := service.NewDraftService(certSvc, time.Hour, log)
	assessments := service.NewAssessmentService(certSvc, time.Hour, nil, log)
	exports := service.NewExportService(certSvc, memResults{}, log)

	courses := NewCourseHandler(certSvc, 1024, log)
	draftH := NewDraftHandler(drafts, log)
	assessH := NewAssessmentHandler(assessments, log)
	exportH := NewExportHandler(exports, log)
	wsH := NewWSHandler(assessments, log, nil)

	r := gin.New()
	r.Use(response.RequestIDMiddleware())
	r.GET("/courses", courses.List)
	r.GET("/courses/:courseName", courses.Get)
	r.POST("/certificationUpload", courses.Upload)

	d := r.Group("/api/v1/drafts")
	d.POST("", draftH.Open)
	d.GET("/:id", draftH.Get)
	d.PUT("/:id/name", draftH.Rename)
	d.POST("/:id/questions", draftH.AddQuestion)
	d.PUT("/:id/questions/:index", draftH.ReplaceQuestion)
	d.DELETE("/:id/questions/:index", draftH.DeleteQuestion)
	d.POST("/:id/save", draftH.Save)
	d.DELETE("/:id", draftH.Discard)

	a := r.Group("/api/v1/assessments")
	a.POST("", assessH.Start)
	a.GET("/:id", assessH.State)
	a.POST("/:id/selections", assessH.Select)
	a.POST("/:id/check", assessH.Check)
	a.POST("/:id/advance", assessH.Advance)
	a.GET("/:id/outcome", assessH.Outcome)
	a.POST("/:id/reset", assessH.Reset)
	a.DELETE("/:id", assessH.Discard)

	r.GET("/api/v1/certifications/:name/export", exportH.Export)
	r.GET("/ws/v1/assessments/:courseName", wsH.AssessmentStream)

	return &testEnv{store: store, engine: r}
}

func (e *testEnv) do(t *testing.T, method, path string, body interface{}) *httptest.ResponseRecorder {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		if raw, ok := body.(string); ok {
			buf.WriteString(raw)
		} else {
			require.NoError(t, json.NewEncoder(&buf).Encode(body))
		}
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	e.engine.ServeHTTP(w, req)
	return w
}

// envelope decodes a response envelope whose data holds key.
func envelope[T any](t *testing.T, w *httptest.ResponseRecorder, key string) T {
	t.Helper()
	var body struct {
		Data map[string]json.RawMessage `json:"data"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body), w.Body.String())
	var out T
	require.NoError(t, json.Unmarshal(body.Data[key], &out), w.Body.String())
	return out
}

func errorCode(t *testing.T, w *httptest.ResponseRecorder) response.ErrCode {
	t.Helper()
	var body response.Response
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body), w.Body.String())
	require.NotNil(t, body.Error, w.Body.String())
	return body.Error.Code
}
