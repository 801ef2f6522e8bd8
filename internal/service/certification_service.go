package service

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/rs/zerolog"
	"github.com/stemsi/certify-backend/internal/certification"
	"github.com/stemsi/certify-backend/internal/logger"
	"github.com/stemsi/certify-backend/internal/model"
	"github.com/stemsi/certify-backend/internal/repository"
	"github.com/stemsi/certify-backend/internal/validator"
)

// NewCourseName is the course name that starts a fresh, unsaved certification.
const NewCourseName = "new"

// ErrCertificationNotFound is returned when no stored certification matches.
var ErrCertificationNotFound = repository.ErrCertificationNotFound

// CertificationStore persists certification documents.
type CertificationStore interface {
	GetByName(ctx context.Context, name string) (model.Certification, error)
	ListNames(ctx context.Context) ([]string, error)
	Upsert(ctx context.Context, cert model.Certification) (string, error)
}

// CertificationCache caches documents and the name index.
type CertificationCache interface {
	Get(ctx context.Context, name string) (model.Certification, error)
	Set(ctx context.Context, name string, cert model.Certification) error
	Invalidate(ctx context.Context, names ...string) error
	GetIndex(ctx context.Context) ([]string, error)
	SetIndex(ctx context.Context, names []string) error
}

// CertificationService loads and saves certification documents.
type CertificationService struct {
	store CertificationStore
	cache CertificationCache
	log   zerolog.Logger
}

// NewCertificationService creates a new CertificationService. cache may be nil.
func NewCertificationService(store CertificationStore, cache CertificationCache, log zerolog.Logger) *CertificationService {
	return &CertificationService{
		store: store,
		cache: cache,
		log:   logger.Component(log, "certification_service"),
	}
}

// Get returns a stored certification exactly as stored; older records may be
// missing identifiers.
func (s *CertificationService) Get(ctx context.Context, name string) (model.Certification, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return model.Certification{}, ErrCertificationNotFound
	}

	if s.cache != nil {
		cert, err := s.cache.Get(ctx, name)
		if err == nil {
			return cert, nil
		}
		if !errors.Is(err, repository.ErrCacheMiss) {
			s.log.Warn().Err(err).Str("name", name).Msg("Cache read failed, falling back to database")
		}
	}

	cert, err := s.store.GetByName(ctx, name)
	if err != nil {
		if errors.Is(err, ErrCertificationNotFound) {
			return model.Certification{}, ErrCertificationNotFound
		}
		return model.Certification{}, fmt.Errorf("get certification %q: %w", name, err)
	}

	if s.cache != nil {
		if err := s.cache.Set(ctx, name, cert); err != nil {
			s.log.Warn().Err(err).Str("name", name).Msg("Cache write failed")
		}
	}
	return cert, nil
}

// Load returns the certification an author opens: a fresh empty document for
// NewCourseName, the stored one otherwise.
func (s *CertificationService) Load(ctx context.Context, name string) (model.Certification, error) {
	if strings.EqualFold(strings.TrimSpace(name), NewCourseName) {
		return certification.New(), nil
	}
	return s.Get(ctx, name)
}

// List returns the names of all stored certifications.
func (s *CertificationService) List(ctx context.Context) ([]string, error) {
	if s.cache != nil {
		if names, err := s.cache.GetIndex(ctx); err == nil {
			return names, nil
		}
	}

	names, err := s.store.ListNames(ctx)
	if err != nil {
		return nil, fmt.Errorf("list certifications: %w", err)
	}

	if s.cache != nil {
		if err := s.cache.SetIndex(ctx, names); err != nil {
			s.log.Warn().Err(err).Msg("Cache index write failed")
		}
	}
	return names, nil
}

// Save validates and stores cert. Problems are reported in the result rather
// than as an error so the author can keep editing.
func (s *CertificationService) Save(ctx context.Context, cert model.Certification) model.ValidationResult {
	problems := validator.ValidateCertification(cert)
	if strings.EqualFold(strings.TrimSpace(cert.Name), NewCourseName) {
		problems = append(problems, fmt.Sprintf("name: %q is reserved", NewCourseName))
	}
	if len(problems) > 0 {
		return model.Invalid(problems...)
	}

	previous, err := s.store.Upsert(ctx, cert)
	if err != nil {
		if errors.Is(err, repository.ErrNameTaken) {
			return model.Invalid(fmt.Sprintf("name: a certification named %q already exists", cert.Name))
		}
		s.log.Error().Err(err).Str("certification_id", cert.ID).Msg("Save failed")
		return model.Invalid("the certification could not be saved, please try again")
	}

	if s.cache != nil {
		if err := s.cache.Invalidate(ctx, previous, cert.Name); err != nil {
			s.log.Warn().Err(err).Str("certification_id", cert.ID).Msg("Cache invalidation failed")
		}
	}

	s.log.Info().
		Str("certification_id", cert.ID).
		Str("name", cert.Name).
		Int("questions", len(cert.Questions)).
		Msg("Certification saved")
	return model.Valid()
}
