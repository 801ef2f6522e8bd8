package model

import "encoding/json"

// Certification is an exam document: a named, ordered list of questions.
type Certification struct {
	ID        string     `json:"id" validate:"required,max=64"`
	Name      string     `json:"name" validate:"required,min=1,max=255"`
	Questions []Question `json:"questions" validate:"dive"`
}

// Question is a single multiple-choice prompt owned by one Certification.
type Question struct {
	ID      string   `json:"id" validate:"required,max=64"`
	Text    string   `json:"text" validate:"required,max=2000"`
	Answers []Answer `json:"answers" validate:"min=1,dive"`
}

// Answer is one selectable option of a Question.
type Answer struct {
	ID        string `json:"id" validate:"required,max=64"`
	Text      string `json:"text" validate:"required,max=1000"`
	IsCorrect bool   `json:"isCorrect"`
}

// UnmarshalJSON decodes a certification and replaces absent question lists
// with empty ones so consumers never see a nil slice.
func (c *Certification) UnmarshalJSON(data []byte) error {
	type alias Certification
	var a alias
	if err := json.Unmarshal(data, &a); err != nil {
		return err
	}
	if a.Questions == nil {
		a.Questions = []Question{}
	}
	*c = Certification(a)
	return nil
}

// MarshalJSON always encodes questions as an array.
func (c Certification) MarshalJSON() ([]byte, error) {
	type alias Certification
	a := alias(c)
	if a.Questions == nil {
		a.Questions = []Question{}
	}
	return json.Marshal(a)
}

// UnmarshalJSON decodes a question and defaults absent answers to an empty list.
func (q *Question) UnmarshalJSON(data []byte) error {
	type alias Question
	var a alias
	if err := json.Unmarshal(data, &a); err != nil {
		return err
	}
	if a.Answers == nil {
		a.Answers = []Answer{}
	}
	*q = Question(a)
	return nil
}

// MarshalJSON always encodes answers as an array.
func (q Question) MarshalJSON() ([]byte, error) {
	type alias Question
	a := alias(q)
	if a.Answers == nil {
		a.Answers = []Answer{}
	}
	return json.Marshal(a)
}

// ValidationResult is the outcome of a certification upload.
type ValidationResult struct {
	Success bool     `json:"success"`
	Errors  []string `json:"errors"`
}

// Valid returns a successful ValidationResult.
func Valid() ValidationResult {
	return ValidationResult{Success: true, Errors: []string{}}
}

// Invalid returns a failed ValidationResult carrying the given messages.
func Invalid(errs ...string) ValidationResult {
	if errs == nil {
		errs = []string{}
	}
	return ValidationResult{Success: false, Errors: errs}
}
