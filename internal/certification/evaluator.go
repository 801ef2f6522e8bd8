package certification

import "github.com/stemsi/certify-backend/internal/model"

// Evaluate reports whether selections answer q correctly: every correct answer
// must be selected and every incorrect answer left unselected. Answer ids that
// are missing from selections count as unselected. A question without answers
// is always answered correctly.
func Evaluate(q model.Question, selections map[string]bool) bool {
	for _, a := range q.Answers {
		if selections[a.ID] != a.IsCorrect {
			return false
		}
	}
	return true
}
