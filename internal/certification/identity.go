// Package certification holds the document rules for certification exams:
// identity assignment, answer evaluation and copy-on-write editing.
package certification

import (
	"github.com/google/uuid"
	"github.com/stemsi/certify-backend/internal/model"
)

// NewID returns a collision-resistant random identifier.
var NewID = func() string {
	return uuid.NewString()
}

// New returns an empty, freshly identified certification with no questions.
func New() model.Certification {
	return model.Certification{
		ID:        NewID(),
		Questions: []model.Question{},
	}
}

// AssignIDs returns a copy of cert in which every certification, question and
// answer has an identifier. Existing identifiers are kept, so applying it to
// an already identified document returns an equal document.
//
// Nodes are visited document first, then questions in order, each followed by
// its answers in order.
func AssignIDs(cert model.Certification) model.Certification {
	out := Clone(cert)

	if out.ID == "" {
		out.ID = NewID()
	}

	for i := range out.Questions {
		q := &out.Questions[i]
		if q.ID == "" {
			q.ID = NewID()
		}
		for j := range q.Answers {
			if q.Answers[j].ID == "" {
				q.Answers[j].ID = NewID()
			}
		}
	}

	return out
}

// Clone deep-copies a certification. Nil question or answer lists come back
// as empty slices.
func Clone(cert model.Certification) model.Certification {
	out := model.Certification{
		ID:        cert.ID,
		Name:      cert.Name,
		Questions: make([]model.Question, len(cert.Questions)),
	}
	for i, q := range cert.Questions {
		out.Questions[i] = cloneQuestion(q)
	}
	return out
}

func cloneQuestion(q model.Question) model.Question {
	answers := make([]model.Answer, len(q.Answers))
	copy(answers, q.Answers)
	return model.Question{
		ID:      q.ID,
		Text:    q.Text,
		Answers: answers,
	}
}

// DuplicateIDs returns identifiers that appear on more than one node of the
// document, in the order their second occurrence is found. Empty identifiers
// are ignored.
func DuplicateIDs(cert model.Certification) []string {
	seen := make(map[string]int)
	var dups []string

	visit := func(id string) {
		if id == "" {
			return
		}
		seen[id]++
		if seen[id] == 2 {
			dups = append(dups, id)
		}
	}

	visit(cert.ID)
	for _, q := range cert.Questions {
		visit(q.ID)
		for _, a := range q.Answers {
			visit(a.ID)
		}
	}
	return dups
}
