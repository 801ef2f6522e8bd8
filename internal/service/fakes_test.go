package service

import (
	"context"
	"errors"
	"strings"
	"sync"

	"github.com/rs/zerolog"
	"github.com/stemsi/certify-backend/internal/certification"
	"github.com/stemsi/certify-backend/internal/model"
	"github.com/stemsi/certify-backend/internal/repository"
)

type fakeStore struct {
	mu        sync.Mutex
	byID      map[string]model.Certification
	upsertErr error
	gets      int
}

func newFakeStore(certs ...model.Certification) *fakeStore {
	s := &fakeStore{byID: map[string]model.Certification{}}
	for _, c := range certs {
		s.byID[c.ID] = c
	}
	return s
}

func (s *fakeStore) GetByName(_ context.Context, name string) (model.Certification, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.gets++
	for _, c := range s.byID {
		if strings.EqualFold(c.Name, name) {
			return certification.Clone(c), nil
		}
	}
	return model.Certification{}, repository.ErrCertificationNotFound
}

func (s *fakeStore) ListNames(_ context.Context) ([]string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	names := make([]string, 0, len(s.byID))
	for _, c := range s.byID {
		names = append(names, c.Name)
	}
	return names, nil
}

func (s *fakeStore) Upsert(_ context.Context, cert model.Certification) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.upsertErr != nil {
		return "", s.upsertErr
	}
	for id, c := range s.byID {
		if id != cert.ID && strings.EqualFold(c.Name, cert.Name) {
			return "", repository.ErrNameTaken
		}
	}
	previous := s.byID[cert.ID].Name
	s.byID[cert.ID] = certification.Clone(cert)
	return previous, nil
}

type fakeCache struct {
	mu          sync.Mutex
	docs        map[string]model.Certification
	index       []string
	invalidated []string
}

func newFakeCache() *fakeCache {
	return &fakeCache{docs: map[string]model.Certification{}}
}

func (c *fakeCache) Get(_ context.Context, name string) (model.Certification, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	cert, ok := c.docs[strings.ToLower(name)]
	if !ok {
		return model.Certification{}, repository.ErrCacheMiss
	}
	return cert, nil
}

func (c *fakeCache) Set(_ context.Context, name string, cert model.Certification) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.docs[strings.ToLower(name)] = cert
	return nil
}

func (c *fakeCache) Invalidate(_ context.Context, names ...string) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	for _, n := range names {
		if n == "" {
			continue
		}
		delete(c.docs, strings.ToLower(n))
		c.invalidated = append(c.invalidated, n)
	}
	c.index = nil
	return nil
}

func (c *fakeCache) GetIndex(_ context.Context) ([]string, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.index == nil {
		return nil, repository.ErrCacheMiss
	}
	return c.index, nil
}

func (c *fakeCache) SetIndex(_ context.Context, names []string) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.index = names
	return nil
}

type fakeQueue struct {
	mu      sync.Mutex
	results []model.AssessmentResult
	err     error
}

func (q *fakeQueue) Enqueue(_ context.Context, res model.AssessmentResult) error {
	q.mu.Lock()
	defer q.mu.Unlock()
	if q.err != nil {
		return q.err
	}
	q.results = append(q.results, res)
	return nil
}

func (q *fakeQueue) all() []model.AssessmentResult {
	q.mu.Lock()
	defer q.mu.Unlock()
	return append([]model.AssessmentResult(nil), q.results...)
}

type fakeResults struct {
	results []model.AssessmentResult
	err     error
}

func (r fakeResults) ListByCertification(_ context.Context, certificationID string) ([]model.AssessmentResult, error) {
	if r.err != nil {
		return nil, r.err
	}
	var out []model.AssessmentResult
	for _, res := range r.results {
		if res.CertificationID == certificationID {
			out = append(out, res)
		}
	}
	return out, nil
}

var errStorage = errors.New("connection refused")

func basics() model.Certification {
	return model.Certification{
		ID:   "c-basics",
		Name: "Go Basics",
		Questions: []model.Question{
			{ID: "q1", Text: "Zero value of int?", Answers: []model.Answer{
				{ID: "a1", Text: "0", IsCorrect: true},
				{ID: "a2", Text: "nil"},
			}},
			{ID: "q2", Text: "Which are reference types?", Answers: []model.Answer{
				{ID: "a3", Text: "map", IsCorrect: true},
				{ID: "a4", Text: "slice", IsCorrect: true},
				{ID: "a5", Text: "array"},
			}},
		},
	}
}

func newTestCertificationService(store *fakeStore, cache *fakeCache) *CertificationService {
	if cache == nil {
		return NewCertificationService(store, nil, zerolog.Nop())
	}
	return NewCertificationService(store, cache, zerolog.Nop())
}
