package certification

import (
	"errors"
	"fmt"

	"github.com/stemsi/certify-backend/internal/model"
)

var (
	// ErrIndexOutOfRange is returned when an editor operation addresses a
	// question that does not exist.
	ErrIndexOutOfRange = errors.New("question index out of range")
	// ErrDuplicateID is returned when an edit would give two nodes the same id.
	ErrDuplicateID = errors.New("duplicate identifier")
)

// Rename returns a copy of cert with its name replaced.
func Rename(cert model.Certification, name string) model.Certification {
	out := Clone(cert)
	out.Name = name
	return out
}

// AddQuestion returns a copy of cert with a new, empty question appended.
func AddQuestion(cert model.Certification) model.Certification {
	out := Clone(cert)
	out.Questions = append(out.Questions, model.Question{
		ID:      NewID(),
		Answers: []model.Answer{},
	})
	return out
}

// ReplaceQuestion returns a copy of cert with the question at index replaced
// by q. Missing identifiers inside q are assigned, and the replaced slot keeps
// its identifier when q carries none.
func ReplaceQuestion(cert model.Certification, index int, q model.Question) (model.Certification, error) {
	if index < 0 || index >= len(cert.Questions) {
		return cert, fmt.Errorf("replace question %d of %d: %w", index, len(cert.Questions), ErrIndexOutOfRange)
	}

	replacement := cloneQuestion(q)
	if replacement.ID == "" {
		replacement.ID = cert.Questions[index].ID
	}

	out := Clone(cert)
	out.Questions[index] = replacement
	out = AssignIDs(out)

	if dups := DuplicateIDs(out); len(dups) > 0 {
		return cert, fmt.Errorf("replace question %d: %w %q", index, ErrDuplicateID, dups[0])
	}
	return out, nil
}

// DeleteQuestion returns a copy of cert without the question at index. The
// remaining questions keep their order.
func DeleteQuestion(cert model.Certification, index int) (model.Certification, error) {
	if index < 0 || index >= len(cert.Questions) {
		return cert, fmt.Errorf("delete question %d of %d: %w", index, len(cert.Questions), ErrIndexOutOfRange)
	}

	out := model.Certification{
		ID:        cert.ID,
		Name:      cert.Name,
		Questions: make([]model.Question, 0, len(cert.Questions)-1),
	}
	for i, q := range cert.Questions {
		if i == index {
			continue
		}
		out.Questions = append(out.Questions, cloneQuestion(q))
	}
	return out, nil
}
