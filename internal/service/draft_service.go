package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/rs/zerolog"
	"github.com/stemsi/certify-backend/internal/certification"
	"github.com/stemsi/certify-backend/internal/logger"
	"github.com/stemsi/certify-backend/internal/model"
	"github.com/stemsi/certify-backend/internal/store"
)

// ErrDraftNotFound is returned for unknown or expired drafts.
var ErrDraftNotFound = errors.New("draft not found")

// DraftService holds the certifications authors are editing. Edits only touch
// the draft; nothing is stored until Save succeeds.
type DraftService struct {
	certs  *CertificationService
	drafts *store.Registry[model.Draft]
	now    func() time.Time
	log    zerolog.Logger
}

// NewDraftService creates a new DraftService.
func NewDraftService(certs *CertificationService, ttl time.Duration, log zerolog.Logger) *DraftService {
	return &DraftService{
		certs:  certs,
		drafts: store.NewRegistry[model.Draft](ttl),
		now:    time.Now,
		log:    logger.Component(log, "draft_service"),
	}
}

// Drafts exposes the registry so the server can run its janitor.
func (s *DraftService) Drafts() *store.Registry[model.Draft] {
	return s.drafts
}

// Open starts a draft from a stored certification, or from an empty one when
// courseName is NewCourseName. Identifiers are completed on load.
func (s *DraftService) Open(ctx context.Context, courseName string) (model.Draft, error) {
	cert, err := s.certs.Load(ctx, courseName)
	if err != nil {
		return model.Draft{}, err
	}

	d := model.Draft{Certification: certification.AssignIDs(cert), UpdatedAt: s.now().UTC()}
	d.ID = s.drafts.Put(d)
	if err := s.drafts.With(d.ID, func(v *model.Draft) error {
		v.ID = d.ID
		return nil
	}); err != nil {
		return model.Draft{}, s.notFound(d.ID, err)
	}

	s.log.Debug().Str("draft_id", d.ID).Str("certification_id", d.Certification.ID).Msg("Draft opened")
	return d, nil
}

// Get returns the current content of a draft.
func (s *DraftService) Get(id string) (model.Draft, error) {
	var out model.Draft
	err := s.drafts.With(id, func(d *model.Draft) error {
		out = model.Draft{ID: d.ID, Certification: certification.Clone(d.Certification), UpdatedAt: d.UpdatedAt}
		return nil
	})
	if err != nil {
		return model.Draft{}, s.notFound(id, err)
	}
	return out, nil
}

// Rename changes the certification name of a draft.
func (s *DraftService) Rename(id, name string) (model.Draft, error) {
	return s.edit(id, func(c model.Certification) (model.Certification, error) {
		return certification.Rename(c, name), nil
	})
}

// AddQuestion appends an empty question to a draft.
func (s *DraftService) AddQuestion(id string) (model.Draft, error) {
	return s.edit(id, func(c model.Certification) (model.Certification, error) {
		return certification.AddQuestion(c), nil
	})
}

// ReplaceQuestion replaces the question at index.
func (s *DraftService) ReplaceQuestion(id string, index int, q model.Question) (model.Draft, error) {
	return s.edit(id, func(c model.Certification) (model.Certification, error) {
		return certification.ReplaceQuestion(c, index, q)
	})
}

// DeleteQuestion removes the question at index.
func (s *DraftService) DeleteQuestion(id string, index int) (model.Draft, error) {
	return s.edit(id, func(c model.Certification) (model.Certification, error) {
		return certification.DeleteQuestion(c, index)
	})
}

// Save uploads the draft certification. The draft stays open whatever the
// result.
func (s *DraftService) Save(ctx context.Context, id string) (model.ValidationResult, error) {
	var res model.ValidationResult
	err := s.drafts.With(id, func(d *model.Draft) error {
		res = s.certs.Save(ctx, d.Certification)
		return nil
	})
	if err != nil {
		return model.ValidationResult{}, s.notFound(id, err)
	}
	return res, nil
}

// Discard drops a draft. It reports whether the draft existed.
func (s *DraftService) Discard(id string) bool {
	return s.drafts.Delete(id)
}

func (s *DraftService) edit(id string, fn func(model.Certification) (model.Certification, error)) (model.Draft, error) {
	var out model.Draft
	err := s.drafts.With(id, func(d *model.Draft) error {
		next, err := fn(d.Certification)
		if err != nil {
			return err
		}
		d.Certification = next
		d.UpdatedAt = s.now().UTC()
		out = model.Draft{ID: d.ID, Certification: certification.Clone(next), UpdatedAt: d.UpdatedAt}
		return nil
	})
	if err != nil {
		return model.Draft{}, s.notFound(id, err)
	}
	return out, nil
}

func (s *DraftService) notFound(id string, err error) error {
	if errors.Is(err, store.ErrNotFound) {
		return fmt.Errorf("draft %s: %w", id, ErrDraftNotFound)
	}
	return err
}
